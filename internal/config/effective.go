package config

import (
	"fmt"
	"sort"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig layers raw over DefaultConfig. User layouts are added
// to the built-in library, replacing built-ins of the same name.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Tags != nil {
		cfg.Tags = append([]string(nil), raw.Tags...)
	}
	set(&cfg.BorderWidth, raw.BorderWidth)
	set(&cfg.BorderColor, raw.BorderColor)
	set(&cfg.FocusBorderColor, raw.FocusBorderColor)
	set(&cfg.FocusNew, raw.FocusNew)
	set(&cfg.Display, raw.Display)
	set(&cfg.XAuthority, raw.XAuthority)
	set(&cfg.RatioStep, raw.RatioStep)
	set(&cfg.RatioMin, raw.RatioMin)
	set(&cfg.RatioMax, raw.RatioMax)
	set(&cfg.GapStep, raw.GapStep)
	set(&cfg.DefaultLayout, raw.DefaultLayout)
	set(&cfg.LogLevel, raw.LogLevel)
	set(&cfg.ReconcileInterval, raw.ReconcileInterval)
	set(&cfg.PersistState, raw.PersistState)
	set(&cfg.StateFile, raw.StateFile)

	for name, spec := range raw.Layouts {
		if name == "" {
			return nil, &ValidationError{Path: "layouts", Err: fmt.Errorf("layout name is empty")}
		}
		cfg.Layouts[name] = spec
	}
	if len(raw.WorkspaceLayouts) > 0 {
		cfg.WorkspaceLayouts = make(map[string]string, len(raw.WorkspaceLayouts))
		for tag, name := range raw.WorkspaceLayouts {
			cfg.WorkspaceLayouts[tag] = name
		}
	}
	return cfg, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
