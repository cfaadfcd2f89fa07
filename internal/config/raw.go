package config

import (
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tilecore/internal/layout"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
	case yaml.SequenceNode:
		var out []string
		if err := value.Decode(&out); err != nil {
			return fmt.Errorf("include entries must be strings")
		}
		*l = out
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
	return nil
}

// RawConfig is one config file as written. Unset fields stay nil so that
// files can be layered over the defaults and over each other.
type RawConfig struct {
	Include           IncludeList            `yaml:"include"`
	Tags              []string               `yaml:"tags"`
	BorderWidth       *int                   `yaml:"border_width"`
	BorderColor       *Color                 `yaml:"border_color"`
	FocusBorderColor  *Color                 `yaml:"focus_border_color"`
	FocusNew          *bool                  `yaml:"focus_new"`
	Display           *string                `yaml:"display"`
	XAuthority        *string                `yaml:"xauthority"`
	RatioStep         *float64               `yaml:"ratio_step"`
	RatioMin          *float64               `yaml:"ratio_min"`
	RatioMax          *float64               `yaml:"ratio_max"`
	GapStep           *int                   `yaml:"gap_step"`
	DefaultLayout     *string                `yaml:"default_layout"`
	Layouts           map[string]layout.Spec `yaml:"layouts"`
	WorkspaceLayouts  map[string]string      `yaml:"workspace_layouts"`
	LogLevel          *string                `yaml:"log_level"`
	ReconcileInterval *int                   `yaml:"reconcile_interval"`
	PersistState      *bool                  `yaml:"persist_state"`
	StateFile         *string                `yaml:"state_file"`
}

// merge layers overlay on top of c. Scalars and the tag list are replaced;
// maps are merged key by key.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	if overlay.Tags != nil {
		out.Tags = append([]string(nil), overlay.Tags...)
	}
	pick(&out.BorderWidth, overlay.BorderWidth)
	pick(&out.BorderColor, overlay.BorderColor)
	pick(&out.FocusBorderColor, overlay.FocusBorderColor)
	pick(&out.FocusNew, overlay.FocusNew)
	pick(&out.Display, overlay.Display)
	pick(&out.XAuthority, overlay.XAuthority)
	pick(&out.RatioStep, overlay.RatioStep)
	pick(&out.RatioMin, overlay.RatioMin)
	pick(&out.RatioMax, overlay.RatioMax)
	pick(&out.GapStep, overlay.GapStep)
	pick(&out.DefaultLayout, overlay.DefaultLayout)
	pick(&out.LogLevel, overlay.LogLevel)
	pick(&out.ReconcileInterval, overlay.ReconcileInterval)
	pick(&out.PersistState, overlay.PersistState)
	pick(&out.StateFile, overlay.StateFile)

	out.Layouts = mergeMap(c.Layouts, overlay.Layouts)
	out.WorkspaceLayouts = mergeMap(c.WorkspaceLayouts, overlay.WorkspaceLayouts)
	return out
}

func pick[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

func mergeMap[V any](base, overlay map[string]V) map[string]V {
	if base == nil && overlay == nil {
		return nil
	}
	out := make(map[string]V, len(base)+len(overlay))
	maps.Copy(out, base)
	maps.Copy(out, overlay)
	return out
}
