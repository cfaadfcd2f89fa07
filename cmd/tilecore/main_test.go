package main

import (
	"strings"
	"testing"

	"github.com/1broseidon/tilecore/internal/config"
	"github.com/1broseidon/tilecore/internal/ipc"
	"github.com/1broseidon/tilecore/internal/layout"
)

func TestPreviewLayoutPlacesEveryWindow(t *testing.T) {
	cfg := config.DefaultConfig()
	screen := layout.Rect{Width: 1920, Height: 1080}
	for name := range cfg.Layouts {
		placements, desc, err := previewLayout(cfg, name, 3, 1, screen, nil)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if desc == "" {
			t.Fatalf("%s: empty description", name)
		}
		seen := map[uint32]bool{}
		for _, p := range placements {
			seen[uint32(p.Window)] = true
		}
		if len(placements) != 3 || !seen[1] || !seen[2] || !seen[3] {
			t.Fatalf("%s: placements = %+v", name, placements)
		}
	}
}

func TestPreviewLayoutAppliesMessages(t *testing.T) {
	cfg := config.DefaultConfig()
	screen := layout.Rect{Width: 1000, Height: 1000}
	base, _, err := previewLayout(cfg, "tall", 2, 0, screen, nil)
	if err != nil {
		t.Fatal(err)
	}
	grown, _, err := previewLayout(cfg, "tall", 2, 0, screen, []layout.Message{{Kind: layout.Increase}})
	if err != nil {
		t.Fatal(err)
	}
	if grown[0].Rect.Width <= base[0].Rect.Width {
		t.Fatalf("increase did not grow the master: %+v -> %+v", base[0].Rect, grown[0].Rect)
	}
}

func TestPreviewLayoutUnknownName(t *testing.T) {
	if _, _, err := previewLayout(config.DefaultConfig(), "nope", 1, 0, layout.Rect{Width: 10, Height: 10}, nil); err == nil {
		t.Fatal("expected error for unknown layout")
	}
}

func TestParseWindowID(t *testing.T) {
	for in, want := range map[string]uint32{"42": 42, "0x2a": 42} {
		got, err := parseWindowID(in)
		if err != nil || got != want {
			t.Fatalf("parseWindowID(%q) = %d, %v", in, got, err)
		}
	}
	for _, in := range []string{"0", "abc", "-1"} {
		if _, err := parseWindowID(in); err == nil {
			t.Fatalf("parseWindowID(%q) should fail", in)
		}
	}
}

func TestFormatWindows(t *testing.T) {
	if got := formatWindows(nil, 0); got != "-" {
		t.Fatalf("formatWindows(nil) = %q", got)
	}
	if got := formatWindows([]uint32{1, 2, 3}, 2); got != "1 [2] 3" {
		t.Fatalf("formatWindows = %q", got)
	}
}

func TestWorkspacesTable(t *testing.T) {
	zero := 0
	out := workspacesTable([]ipc.WorkspaceInfo{
		{ID: 0, Tag: "1: term", Layout: "BSP", Screen: &zero, Current: true, Focused: 2, Windows: []uint32{1, 2}},
		{ID: 1, Tag: "2: web", Layout: "Full"},
	}).String()

	lines := strings.Split(out, "\n")
	var termRow, webRow string
	for _, l := range lines {
		switch {
		case strings.Contains(l, "1: term"):
			termRow = l
		case strings.Contains(l, "2: web"):
			webRow = l
		}
	}
	for _, want := range []string{"TAG", "LAYOUT", "WINDOWS"} {
		if !strings.Contains(out, want) {
			t.Fatalf("header %s missing:\n%s", want, out)
		}
	}
	if !strings.Contains(termRow, "0*") || !strings.Contains(termRow, "1 [2]") {
		t.Fatalf("current workspace row = %q", termRow)
	}
	if !strings.Contains(webRow, "Full") || strings.Contains(webRow, "*") {
		t.Fatalf("hidden workspace row = %q", webRow)
	}
}
