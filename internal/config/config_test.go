package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/tilecore/internal/layout"
	"gopkg.in/yaml.v3"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_ValidAndHasBuiltinLayouts(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	for name := range BuiltinLayouts() {
		if _, err := cfg.BuildLayout(name); err != nil {
			t.Fatalf("builtin %q does not build: %v", name, err)
		}
	}
	if cfg.LayoutNameFor("2: web") != DefaultLayoutName {
		t.Fatalf("expected workspaces to start with %q", DefaultLayoutName)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.BorderWidth != 2 || res.Config.FocusBorderColor != 0xebebeb {
		t.Fatalf("unexpected defaults %+v", res.Config)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.DefaultLayout != DefaultLayoutName {
		t.Fatalf("expected default_layout %q, got %q", DefaultLayoutName, res.Config.DefaultLayout)
	}
}

func TestLoadFromPath_OverridesAndCustomLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, strings.Join([]string{
		`tags: ["a", "b"]`,
		`border_width: 4`,
		`border_color: "#112233"`,
		`focus_new: false`,
		`gap_step: 4`,
		`default_layout: wide`,
		`layouts:`,
		`  wide:`,
		`    type: gap`,
		`    gap: 6`,
		`    inner:`,
		`      type: tall`,
		`      num_master: 2`,
		`      ratio: 0.6`,
		`workspace_layouts:`,
		`  b: monocle`,
		``,
	}, "\n"))

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if len(cfg.Tags) != 2 || cfg.BorderWidth != 4 || cfg.BorderColor != 0x112233 || cfg.FocusNew {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.LayoutNameFor("b") != "monocle" || cfg.LayoutNameFor("a") != "wide" {
		t.Fatalf("unexpected layout names %q %q", cfg.LayoutNameFor("a"), cfg.LayoutNameFor("b"))
	}

	l, err := cfg.BuildLayout("wide")
	if err != nil {
		t.Fatalf("BuildLayout: %v", err)
	}
	g, ok := l.(*layout.Gap)
	if !ok || g.Gap != 6 || g.Step != 4 {
		t.Fatalf("expected gap layout with step from gap_step, got %#v", l)
	}
	if tall, ok := g.Inner.(*layout.Tall); !ok || tall.NumMaster != 2 {
		t.Fatalf("unexpected inner layout %#v", g.Inner)
	}
	if _, ok := cfg.Layouts["bsp"]; !ok {
		t.Fatalf("builtin layouts should remain available")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "border_widht: 3\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "border_widht") {
		t.Fatalf("expected error to mention the key, got %v", err)
	}
}

func TestLoadFromPath_StrictUnknownLayoutKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "layouts:\n  x:\n    type: full\n    colour: red\n")

	if _, err := LoadFromPath(path); err == nil {
		t.Fatalf("expected error for unknown layout key")
	}
}

func TestLoadFromPath_ValidationErrorHasSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "log_level: info\nborder_width: -1\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if verr.Path != "border_width" || verr.Source.Line != 2 || verr.Source.Column != 15 {
		t.Fatalf("unexpected error context %+v", verr)
	}
	if !strings.Contains(err.Error(), "config.yaml:2:15: border_width:") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestLoadFromPath_InvalidLayoutUsesParentSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "layouts:\n  broken:\n    type: spiral\n")

	_, err := LoadFromPath(path)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path != "layouts.broken" {
		t.Fatalf("expected layouts.broken validation error, got %v", err)
	}
	if verr.Source.Line != 3 {
		t.Fatalf("expected source line 3, got %+v", verr.Source)
	}
}

func TestLoadFromPath_WorkspaceLayoutMustReferenceKnownNames(t *testing.T) {
	dir := t.TempDir()
	for name, data := range map[string]string{
		"unknown tag":    "workspace_layouts:\n  nope: bsp\n",
		"unknown layout": "workspace_layouts:\n  \"2: web\": nope\n",
		"bad default":    "default_layout: nope\n",
	} {
		path := filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".yaml")
		writeFile(t, path, data)
		if _, err := LoadFromPath(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "conf.d", "10-a.yaml"), "border_width: 5\ngap_step: 6\n")
	writeFile(t, filepath.Join(dir, "conf.d", "20-b.yml"), "border_width: 7\n")
	writeFile(t, filepath.Join(dir, "conf.d", "notes.txt"), "border_width: 99\n")
	main := filepath.Join(dir, "config.yaml")
	writeFile(t, main, "include: conf.d\ngap_step: 3\n")

	res, err := LoadFromPath(main)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.BorderWidth != 7 {
		t.Fatalf("expected later include to win, border_width=%d", res.Config.BorderWidth)
	}
	if res.Config.GapStep != 3 {
		t.Fatalf("expected main file to win, gap_step=%d", res.Config.GapStep)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}

	_, src, err := Explain(res, "border_width")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.HasSuffix(src.File, "20-b.yml") {
		t.Fatalf("expected border_width from 20-b.yml, got %+v", src)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil || !strings.Contains(err.Error(), ":2:5: include \"missing.yaml\"") {
		t.Fatalf("expected include error with position, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.yaml"), "include: b.yaml\n")
	writeFile(t, filepath.Join(dir, "b.yaml"), "include: a.yaml\n")

	_, err := LoadFromPath(filepath.Join(dir, "a.yaml"))
	if err == nil || !strings.Contains(err.Error(), "include cycle detected") {
		t.Fatalf("expected include cycle error, got %v", err)
	}
}

func TestExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "workspace_layouts:\n  \"4: media\": monocle\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	val, src, err := Explain(res, "workspace_layouts.4: media")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "monocle" || src.Kind != SourceFile || src.Line != 2 {
		t.Fatalf("got %v from %+v", val, src)
	}

	val, src, err = Explain(res, "layouts.default.layouts.0.gap")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 8 || src.Kind != SourceBuiltin || src.Name != "default" {
		t.Fatalf("got %v from %+v", val, src)
	}

	val, src, err = Explain(res, "border_color")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != "#404040" || src.Kind != SourceDefault {
		t.Fatalf("got %v from %+v", val, src)
	}

	if _, _, err := Explain(res, "no.such.key"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "#ebebeb", want: 0xebebeb},
		{in: "0x404040", want: 0x404040},
		{in: "255", want: 0xff},
		{in: "#1000000", wantErr: true},
		{in: "blue", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseColor(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Tags = []string{"x", "y", "z"}
	cfg.WorkspaceLayouts = map[string]string{"z": "tall"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if strings.Join(res.Config.Tags, ",") != "x,y,z" || res.Config.LayoutNameFor("z") != "tall" {
		t.Fatalf("round trip lost settings: %+v", res.Config)
	}
	if res.Config.BorderColor != cfg.BorderColor {
		t.Fatalf("border color %v, want %v", res.Config.BorderColor, cfg.BorderColor)
	}
}

func TestDefaultConfigMarshalsBuiltinLayouts(t *testing.T) {
	data, err := DefaultConfig().Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc struct {
		Layouts map[string]layout.Spec `yaml:"layouts"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	def, ok := doc.Layouts[DefaultLayoutName]
	if !ok || len(def.Layouts) != 3 {
		t.Fatalf("default layout = %+v", def)
	}
	mirror := def.Layouts[1].Inner.Inner
	if mirror.Type != layout.TypeMirror || mirror.Inner == nil || mirror.Inner.Type != layout.TypeBSP || mirror.Inner.Inner != nil {
		t.Fatalf("mirror member = %+v", mirror)
	}
	for name, spec := range doc.Layouts {
		if _, err := layout.Build(spec, layout.DefaultOptions()); err != nil {
			t.Fatalf("build %s: %v", name, err)
		}
	}
}
