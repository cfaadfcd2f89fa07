package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/tilecore/internal/layout"
	"github.com/1broseidon/tilecore/internal/workspace"
)

var tags = []string{"1: term", "2: web", "3: code"}

func newWorkspaces(t *testing.T) workspace.Workspaces {
	t.Helper()
	proto, err := layout.Build(layout.DefaultSpec(), layout.DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	screens := []layout.Rect{{Width: 100, Height: 100}, {X: 100, Width: 100, Height: 100}}
	return workspace.NewWorkspaces(tags, proto, screens)
}

func TestSaveLoadRestore(t *testing.T) {
	ws := newWorkspaces(t).Insert(1).Insert(2)
	ws = ws.SendLayoutMessage("1: term", layout.Message{Kind: layout.TreeRotate})
	ws = ws.SendLayoutMessage("1: term", layout.Message{Kind: layout.IncreaseGap})
	ws = ws.SendLayoutMessage("3: code", layout.Message{Kind: layout.Prev})
	ws = ws.SwitchToWorkspace(1, "3: code")

	path := filepath.Join(t.TempDir(), "state.json")
	if err := Save(path, Capture(ws)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Current != 1 || strings.Join(snap.Screens, ",") != "1: term,3: code" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	restored, err := Restore(newWorkspaces(t), snap, layout.DefaultOptions())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Current != 1 || restored.Screens[1].Workspace.Tag != "3: code" {
		t.Fatalf("screens not restored: current=%d screen1=%q", restored.Current, restored.Screens[1].Workspace.Tag)
	}
	for _, tag := range tags {
		want, _ := ws.Lookup(tag)
		got, _ := restored.Lookup(tag)
		if got.Layout.Description() != want.Layout.Description() {
			t.Fatalf("%s: layout %q, want %q", tag, got.Layout.Description(), want.Layout.Description())
		}
	}

	// The restored tree is reused for the same number of windows.
	restored = restored.FocusScreen(0).Insert(1).Insert(2)
	if got, want := restored.ApplyLayout(nil, 0, 2), ws.ApplyLayout(nil, 0, 2); len(got) != len(want) || got[0].Rect != want[0].Rect || got[1].Rect != want[1].Rect {
		t.Fatalf("restored placements %+v, want %+v", got, want)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	snap, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Version != Version || len(snap.Workspaces) != 0 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestLoadRejectsOtherVersions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"version": 9, "workspaces": {}}`), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected version error")
	}
}

func TestRestoreSkipsBadEntries(t *testing.T) {
	snap := &Snapshot{
		Version: Version,
		Workspaces: map[string]layout.Spec{
			"2: web":  {Type: layout.TypeFull},
			"3: code": {Type: "spiral"},
			"9: gone": {Type: layout.TypeFull},
		},
	}
	restored, err := Restore(newWorkspaces(t), snap, layout.DefaultOptions())
	if err == nil {
		t.Fatalf("expected skipped entries to be reported")
	}
	for _, want := range []string{`"3: code"`, `"9: gone"`} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
	web, _ := restored.Lookup("2: web")
	if web.Layout.Description() != "Full" {
		t.Fatalf("valid entry not restored: %q", web.Layout.Description())
	}
	code, _ := restored.Lookup("3: code")
	if code.Layout.Description() != "BSP (gap 8)" {
		t.Fatalf("invalid entry should keep the existing layout, got %q", code.Layout.Description())
	}
}
