package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted YAML path and where it
// came from, for example:
//
//	border_width
//	tags
//	layouts.default.layouts.0.gap
//	workspace_layouts.4: media
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if strings.TrimSpace(path) == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins, then the nearest configured parent.
	for p := path; p != ""; {
		if src, ok := res.Sources[p]; ok {
			return value, src, nil
		}
		i := strings.LastIndex(p, ".")
		if i < 0 {
			break
		}
		p = p[:i]
	}

	if name, ok := strings.CutPrefix(path, "layouts."); ok {
		name, _, _ = strings.Cut(name, ".")
		if _, builtin := BuiltinLayouts()[name]; builtin {
			return value, Source{Kind: SourceBuiltin, Name: name}, nil
		}
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// lookupValue walks the YAML form of cfg, so every key that can be written
// in the file can also be explained.
func lookupValue(cfg *Config, path string) (any, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	node := &doc
	for rest := path; rest != ""; {
		next := findChild(node, &rest)
		if next == nil {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		node = next
	}

	var out any
	if err := node.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return out, nil
}

// findChild consumes the longest key of node that prefixes rest. Map keys
// may themselves contain dots, so the whole remainder is tried first.
func findChild(node *yaml.Node, rest *string) *yaml.Node {
	switch node.Kind {
	case yaml.MappingNode:
		var best *yaml.Node
		bestLen := -1
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if (*rest == key || strings.HasPrefix(*rest, key+".")) && len(key) > bestLen {
				best, bestLen = node.Content[i+1], len(key)
			}
		}
		if best != nil {
			*rest = strings.TrimPrefix((*rest)[bestLen:], ".")
		}
		return best
	case yaml.SequenceNode:
		head, tail, _ := strings.Cut(*rest, ".")
		idx, err := strconv.Atoi(head)
		if err != nil || idx < 0 || idx >= len(node.Content) {
			return nil
		}
		*rest = tail
		return node.Content[idx]
	}
	return nil
}
