package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tilecore/internal/layout"
)

// Color is a 0xRRGGBB border colour. YAML accepts an integer or a
// "#rrggbb" / "0xrrggbb" string.
type Color uint32

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a scalar")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses "#rrggbb", "0xrrggbb" or a decimal integer.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 16
	case strings.HasPrefix(strings.ToLower(s), "0x"):
		s, base = s[2:], 16
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil || v > 0xffffff {
		return 0, fmt.Errorf("invalid color %q (expected #rrggbb)", s)
	}
	return Color(v), nil
}

const (
	DefaultLayoutName        = "default"
	DefaultReconcileInterval = 2
)

// DefaultTags are the workspaces created when the config names none.
var DefaultTags = []string{"1: term", "2: web", "3: code", "4: media"}

// Config holds the application configuration.
type Config struct {
	Tags              []string               `yaml:"tags"`
	BorderWidth       int                    `yaml:"border_width"`
	BorderColor       Color                  `yaml:"border_color"`
	FocusBorderColor  Color                  `yaml:"focus_border_color"`
	FocusNew          bool                   `yaml:"focus_new"`
	Display           string                 `yaml:"display,omitempty"`
	XAuthority        string                 `yaml:"xauthority,omitempty"`
	RatioStep         float64                `yaml:"ratio_step"`
	RatioMin          float64                `yaml:"ratio_min"`
	RatioMax          float64                `yaml:"ratio_max"`
	GapStep           int                    `yaml:"gap_step"`
	DefaultLayout     string                 `yaml:"default_layout"`
	Layouts           map[string]layout.Spec `yaml:"layouts"`
	WorkspaceLayouts  map[string]string      `yaml:"workspace_layouts,omitempty"`
	LogLevel          string                 `yaml:"log_level"`
	ReconcileInterval int                    `yaml:"reconcile_interval"`
	PersistState      bool                   `yaml:"persist_state"`
	StateFile         string                 `yaml:"state_file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Tags:              append([]string(nil), DefaultTags...),
		BorderWidth:       2,
		BorderColor:       0x404040,
		FocusBorderColor:  0xebebeb,
		FocusNew:          true,
		RatioStep:         layout.DefaultRatios.Step,
		RatioMin:          layout.DefaultRatios.Min,
		RatioMax:          layout.DefaultRatios.Max,
		GapStep:           layout.DefaultGapStep,
		DefaultLayout:     DefaultLayoutName,
		Layouts:           BuiltinLayouts(),
		LogLevel:          "info",
		ReconcileInterval: DefaultReconcileInterval,
		PersistState:      true,
	}
}

// Options returns the adjustment parameters for building layouts.
func (c *Config) Options() layout.Options {
	return layout.Options{
		Ratios:  layout.Ratios{Step: c.RatioStep, Min: c.RatioMin, Max: c.RatioMax},
		GapStep: c.GapStep,
	}
}

// BuildLayout builds the named layout.
func (c *Config) BuildLayout(name string) (layout.Layout, error) {
	spec, ok := c.Layouts[name]
	if !ok {
		return nil, fmt.Errorf("layout %q not found", name)
	}
	return layout.Build(spec, c.Options())
}

// LayoutNameFor returns the layout a workspace starts with.
func (c *Config) LayoutNameFor(tag string) string {
	if name, ok := c.WorkspaceLayouts[tag]; ok {
		return name
	}
	return c.DefaultLayout
}

// ReconcileEvery returns the reconcile period; zero disables reconciling.
func (c *Config) ReconcileEvery() time.Duration {
	return time.Duration(c.ReconcileInterval) * time.Second
}

// SlogLevel maps log_level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save writes the config to path, or to the default location when path is
// empty.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if len(c.Tags) == 0 {
		return &ValidationError{Path: "tags", Err: fmt.Errorf("at least one workspace tag is required")}
	}
	seen := make(map[string]struct{}, len(c.Tags))
	for i, tag := range c.Tags {
		if strings.TrimSpace(tag) == "" {
			return &ValidationError{Path: "tags", Err: fmt.Errorf("tag %d is empty", i)}
		}
		if _, dup := seen[tag]; dup {
			return &ValidationError{Path: "tags", Err: fmt.Errorf("duplicate tag %q", tag)}
		}
		seen[tag] = struct{}{}
	}

	if c.BorderWidth < 0 {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("must be >= 0")}
	}
	if c.RatioMin <= 0 || c.RatioMin >= 1 {
		return &ValidationError{Path: "ratio_min", Err: fmt.Errorf("must be between 0 and 1")}
	}
	if c.RatioMax <= c.RatioMin || c.RatioMax >= 1 {
		return &ValidationError{Path: "ratio_max", Err: fmt.Errorf("must be between ratio_min (%v) and 1", c.RatioMin)}
	}
	if c.RatioStep <= 0 || c.RatioStep > 0.5 {
		return &ValidationError{Path: "ratio_step", Err: fmt.Errorf("must be in (0, 0.5]")}
	}
	if c.GapStep < 0 {
		return &ValidationError{Path: "gap_step", Err: fmt.Errorf("must be >= 0")}
	}
	if c.ReconcileInterval < 0 {
		return &ValidationError{Path: "reconcile_interval", Err: fmt.Errorf("must be >= 0 seconds")}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("invalid level %q (valid: debug, info, warn, error)", c.LogLevel)}
	}

	for _, name := range sortedKeys(c.Layouts) {
		if _, err := layout.Build(c.Layouts[name], c.Options()); err != nil {
			return &ValidationError{Path: "layouts." + name, Err: err}
		}
	}
	if _, ok := c.Layouts[c.DefaultLayout]; !ok {
		return &ValidationError{Path: "default_layout", Err: fmt.Errorf("unknown layout %q", c.DefaultLayout)}
	}
	for _, tag := range sortedKeys(c.WorkspaceLayouts) {
		path := "workspace_layouts." + tag
		if _, ok := seen[tag]; !ok {
			return &ValidationError{Path: path, Err: fmt.Errorf("unknown workspace tag %q", tag)}
		}
		if _, ok := c.Layouts[c.WorkspaceLayouts[tag]]; !ok {
			return &ValidationError{Path: path, Err: fmt.Errorf("unknown layout %q", c.WorkspaceLayouts[tag])}
		}
	}
	return nil
}
