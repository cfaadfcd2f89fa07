// Package state persists per-workspace layout configuration across daemon
// restarts.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/1broseidon/tilecore/internal/layout"
	"github.com/1broseidon/tilecore/internal/workspace"
)

// Version is the current snapshot format.
const Version = 1

// Snapshot maps workspace tags to their layout configuration. Screens lists
// the tag shown on each screen, in screen order.
type Snapshot struct {
	Version    int                    `json:"version"`
	SavedAt    time.Time              `json:"saved_at"`
	Current    int                    `json:"current_screen"`
	Screens    []string               `json:"screens,omitempty"`
	Workspaces map[string]layout.Spec `json:"workspaces"`
}

// Capture records the layout of every workspace in ws.
func Capture(ws workspace.Workspaces) Snapshot {
	snap := Snapshot{
		Version:    Version,
		SavedAt:    time.Now().UTC(),
		Current:    ws.Current,
		Workspaces: make(map[string]layout.Spec),
	}
	for _, s := range ws.Screens {
		snap.Screens = append(snap.Screens, s.Workspace.Tag)
	}
	for _, w := range ws.All() {
		if w.Layout != nil {
			snap.Workspaces[w.Tag] = w.Layout.Spec()
		}
	}
	return snap
}

// Save writes snap to path as indented JSON.
func Save(path string, snap Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace state: %w", err)
	}
	return nil
}

// Load reads a snapshot. A missing file yields an empty snapshot.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Snapshot{Version: Version, Workspaces: map[string]layout.Spec{}}, nil
		}
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse state %s: %w", path, err)
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("unsupported state version %d (want %d)", snap.Version, Version)
	}
	if snap.Workspaces == nil {
		snap.Workspaces = map[string]layout.Spec{}
	}
	return &snap, nil
}

// Restore applies the layouts and screen assignment of snap to ws. Entries
// for unknown tags or with invalid layouts are skipped and reported in the
// joined error; everything else is still restored.
func Restore(ws workspace.Workspaces, snap *Snapshot, opts layout.Options) (workspace.Workspaces, error) {
	if snap == nil {
		return ws, nil
	}
	var errs []error

	for _, tag := range ws.Tags() {
		spec, ok := snap.Workspaces[tag]
		if !ok {
			continue
		}
		l, err := layout.Build(spec, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("workspace %q: %w", tag, err))
			continue
		}
		ws = ws.SetLayout(tag, l)
	}
	for tag := range snap.Workspaces {
		if _, ok := ws.Lookup(tag); !ok {
			errs = append(errs, fmt.Errorf("workspace %q: no such tag", tag))
		}
	}

	current := ws.Current
	for i, tag := range snap.Screens {
		if i >= len(ws.Screens) {
			break
		}
		if _, ok := ws.Lookup(tag); !ok {
			continue
		}
		ws = ws.SwitchToWorkspace(ws.Screens[i].ID, tag)
	}
	ws = ws.FocusScreen(current).FocusScreen(snap.Current)

	return ws, errors.Join(errs...)
}
