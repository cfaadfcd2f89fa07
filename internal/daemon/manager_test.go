package daemon

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/tilecore/internal/config"
	"github.com/1broseidon/tilecore/internal/ipc"
	"github.com/1broseidon/tilecore/internal/layout"
	"github.com/1broseidon/tilecore/internal/platform"
	"github.com/1broseidon/tilecore/internal/stack"
)

type fakeBackend struct {
	displays   []platform.Display
	windows    []platform.Window
	configured map[stack.Window]layout.Placement
	borders    map[stack.Window]uint32
	mapped     map[stack.Window]bool
	focused    stack.Window
}

func newFakeBackend(windows ...stack.Window) *fakeBackend {
	f := &fakeBackend{
		displays:   []platform.Display{{ID: 0, Name: "fake", Bounds: layout.Rect{Width: 100, Height: 100}}},
		configured: make(map[stack.Window]layout.Placement),
		borders:    make(map[stack.Window]uint32),
		mapped:     make(map[stack.Window]bool),
	}
	f.setWindows(windows...)
	return f
}

func (f *fakeBackend) setWindows(windows ...stack.Window) {
	f.windows = f.windows[:0]
	for _, w := range windows {
		f.windows = append(f.windows, platform.Window{ID: w, Class: "fake"})
	}
}

func (f *fakeBackend) Displays() ([]platform.Display, error) { return f.displays, nil }

func (f *fakeBackend) Struts(layout.Rect) (layout.Struts, error) { return layout.Struts{}, nil }

func (f *fakeBackend) ListWindows() ([]platform.Window, error) { return f.windows, nil }

func (f *fakeBackend) ActiveWindow() (stack.Window, error) { return f.focused, nil }

func (f *fakeBackend) Configure(p layout.Placement) error {
	f.configured[p.Window] = p
	return nil
}

func (f *fakeBackend) SetBorderColor(w stack.Window, color uint32) error {
	f.borders[w] = color
	return nil
}

func (f *fakeBackend) Show(w stack.Window) error {
	f.mapped[w] = true
	return nil
}

func (f *fakeBackend) Hide(w stack.Window) error {
	f.mapped[w] = false
	return nil
}

func (f *fakeBackend) Focus(w stack.Window) error {
	f.focused = w
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.PersistState = false
	return cfg
}

func newTestManager(t *testing.T, cfg *config.Config, backend platform.Backend, statePath string) *Manager {
	t.Helper()
	m, err := NewManager(cfg, backend, Options{StatePath: statePath, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestReconcileManagesAndForgetsWindows(t *testing.T) {
	backend := newFakeBackend(1, 2)
	m := newTestManager(t, testConfig(), backend, "")

	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	status := m.Status()
	if status.WindowCount != 2 || status.CurrentTag != "1: term" || status.Focused != 2 {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.Layout != "BSP (gap 8)" {
		t.Fatalf("layout = %q", status.Layout)
	}
	for _, w := range []stack.Window{1, 2} {
		p, ok := backend.configured[w]
		if !ok {
			t.Fatalf("window %d was not configured", w)
		}
		if p.BorderWidth != 2 {
			t.Fatalf("window %d border = %d, want config default 2", w, p.BorderWidth)
		}
		if !backend.mapped[w] {
			t.Fatalf("window %d not shown", w)
		}
	}
	if backend.focused != 2 {
		t.Fatalf("backend focus = %d, want 2", backend.focused)
	}
	if backend.borders[2] != 0xebebeb || backend.borders[1] != 0x404040 {
		t.Fatalf("unexpected border colors %v", backend.borders)
	}

	backend.setWindows(2)
	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := m.Status().WindowCount; got != 1 {
		t.Fatalf("window count after close = %d, want 1", got)
	}
	if got := backend.configured[2].Rect; got != (layout.Rect{X: 8, Y: 8, Width: 84, Height: 84}) {
		t.Fatalf("sole window rect = %+v", got)
	}
}

func TestReconcileKeepsFocusWhenFocusNewDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.FocusNew = false
	backend := newFakeBackend(1)
	m := newTestManager(t, cfg, backend, "")

	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	backend.setWindows(1, 2)
	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := m.Status().Focused; got != 1 {
		t.Fatalf("focused = %d, want 1", got)
	}
}

func TestReconcileAdoptsExternalFocus(t *testing.T) {
	backend := newFakeBackend(1, 2, 3)
	m := newTestManager(t, testConfig(), backend, "")

	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := m.Status().Focused; got != 3 {
		t.Fatalf("focused = %d, want 3", got)
	}

	// Another client activates window 1.
	backend.focused = 1
	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := m.Status().Focused; got != 1 {
		t.Fatalf("focused = %d, want 1 after external activation", got)
	}
	if backend.borders[1] != 0xebebeb || backend.borders[3] != 0x404040 {
		t.Fatalf("unexpected border colors %v", backend.borders)
	}

	// Unmanaged windows are never adopted.
	backend.focused = 99
	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := m.Status().Focused; got != 1 {
		t.Fatalf("focused = %d, want 1", got)
	}
}

func TestSwitchWorkspaceHidesAndShows(t *testing.T) {
	backend := newFakeBackend(1, 2)
	m := newTestManager(t, testConfig(), backend, "")
	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if err := m.SwitchWorkspace(nil, "2: web"); err != nil {
		t.Fatalf("SwitchWorkspace: %v", err)
	}
	if backend.mapped[1] || backend.mapped[2] {
		t.Fatalf("windows of the hidden workspace still mapped: %v", backend.mapped)
	}
	if got := m.Status().CurrentTag; got != "2: web" {
		t.Fatalf("current tag = %q", got)
	}

	if err := m.SwitchWorkspace(nil, "1: term"); err != nil {
		t.Fatalf("SwitchWorkspace: %v", err)
	}
	if !backend.mapped[1] || !backend.mapped[2] {
		t.Fatalf("windows not shown again: %v", backend.mapped)
	}

	if err := m.SwitchWorkspace(nil, "9: nope"); err == nil {
		t.Fatalf("expected error for unknown tag")
	}
	bad := 3
	if err := m.SwitchWorkspace(&bad, "2: web"); err == nil {
		t.Fatalf("expected error for unknown screen")
	}
}

func TestMoveAndFocusWindow(t *testing.T) {
	backend := newFakeBackend(1, 2)
	m := newTestManager(t, testConfig(), backend, "")
	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if err := m.MoveWindow(0, "3: code"); err != nil {
		t.Fatalf("MoveWindow: %v", err)
	}
	if backend.mapped[2] {
		t.Fatalf("moved window should be hidden")
	}
	infos := m.Workspaces()
	if len(infos) != 4 || len(infos[0].Windows) != 1 || len(infos[2].Windows) != 1 || infos[2].Windows[0] != 2 {
		t.Fatalf("unexpected workspaces %+v", infos)
	}
	if infos[0].Screen == nil || !infos[0].Current || infos[2].Screen != nil {
		t.Fatalf("unexpected screen assignment %+v", infos)
	}

	if err := m.FocusWindow(99); err == nil {
		t.Fatalf("expected error focusing unmanaged window")
	}
	if err := m.MoveWindow(99, "2: web"); err == nil {
		t.Fatalf("expected error moving unmanaged window")
	}
	if err := m.FocusWindow(1); err != nil {
		t.Fatalf("FocusWindow: %v", err)
	}
	if backend.focused != 1 {
		t.Fatalf("backend focus = %d, want 1", backend.focused)
	}
}

func TestMoveWindowWithoutFocus(t *testing.T) {
	m := newTestManager(t, testConfig(), newFakeBackend(), "")
	if err := m.MoveWindow(0, "2: web"); err == nil {
		t.Fatalf("expected error with an empty workspace")
	}
}

func TestFocusSwapAndMessages(t *testing.T) {
	backend := newFakeBackend(1, 2, 3)
	m := newTestManager(t, testConfig(), backend, "")
	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	if err := m.Focus(ipc.TargetMaster); err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if got := m.Status().Focused; got != 3 {
		t.Fatalf("master focus = %d, want 3", got)
	}
	if err := m.Focus(ipc.TargetDown); err != nil {
		t.Fatalf("Focus: %v", err)
	}
	if err := m.Swap(ipc.TargetMaster); err != nil {
		t.Fatalf("Swap: %v", err)
	}
	infos := m.Workspaces()
	if infos[0].Windows[0] != 2 || infos[0].Focused != 2 {
		t.Fatalf("swap master result %+v", infos[0])
	}
	if err := m.Focus("sideways"); err == nil {
		t.Fatalf("expected invalid target error")
	}

	if err := m.SendMessage("", layout.Message{Kind: layout.Next}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if got := m.Status().Layout; got != "Mirror BSP (gap 8)" {
		t.Fatalf("layout after next = %q", got)
	}
	if err := m.SendMessage("9: nope", layout.Message{Kind: layout.Next}); err == nil {
		t.Fatalf("expected error for unknown tag")
	}

	if err := m.SetLayout("", "monocle"); err != nil {
		t.Fatalf("SetLayout: %v", err)
	}
	data, err := m.ApplyLayout(nil)
	if err != nil {
		t.Fatalf("ApplyLayout: %v", err)
	}
	if data.Tag != "1: term" || len(data.Placements) != 3 {
		t.Fatalf("unexpected placements %+v", data)
	}
	for _, p := range data.Placements {
		if p.Rect != data.ScreenRect || p.BorderWidth != 0 {
			t.Fatalf("monocle placement %+v", p)
		}
	}
	if err := m.SetLayout("", "nope"); err == nil {
		t.Fatalf("expected unknown layout error")
	}
}

func TestWorkspaceLayoutsFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.WorkspaceLayouts = map[string]string{"4: media": "monocle"}
	m := newTestManager(t, cfg, newFakeBackend(), "")
	infos := m.Workspaces()
	if infos[3].Layout != "Full" || infos[0].Layout != "BSP (gap 8)" {
		t.Fatalf("unexpected layouts %q %q", infos[0].Layout, infos[3].Layout)
	}
}

func TestStatePersistsAcrossManagers(t *testing.T) {
	cfg := testConfig()
	cfg.PersistState = true
	path := filepath.Join(t.TempDir(), "state.json")

	m := newTestManager(t, cfg, newFakeBackend(), path)
	if err := m.SendMessage("1: term", layout.Message{Kind: layout.Next}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if err := m.SetLayout("2: web", "monocle"); err != nil {
		t.Fatalf("SetLayout: %v", err)
	}

	again := newTestManager(t, cfg, newFakeBackend(), path)
	infos := again.Workspaces()
	if infos[0].Layout != "Mirror BSP (gap 8)" || infos[1].Layout != "Full" {
		t.Fatalf("state not restored: %q %q", infos[0].Layout, infos[1].Layout)
	}
}

func TestRescreenOnDisplayChange(t *testing.T) {
	backend := newFakeBackend(1)
	m := newTestManager(t, testConfig(), backend, "")
	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	backend.displays = append(backend.displays, platform.Display{ID: 1, Name: "second", Bounds: layout.Rect{X: 100, Width: 100, Height: 100}})
	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if got := m.Status().ScreenCount; got != 2 {
		t.Fatalf("screen count = %d, want 2", got)
	}
	infos := m.Workspaces()
	if infos[1].Screen == nil || *infos[1].Screen != 1 {
		t.Fatalf("second workspace not shown on new screen: %+v", infos[1])
	}
}

func TestReloadAppliesNewBorders(t *testing.T) {
	backend := newFakeBackend(1)
	cfg := testConfig()
	m, err := NewManager(cfg, backend, Options{
		Logger: quietLogger(),
		LoadConfig: func() (*config.Config, error) {
			next := testConfig()
			next.BorderWidth = 5
			return next, nil
		},
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := m.Reconcile(); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := backend.configured[1].BorderWidth; got != 5 {
		t.Fatalf("border after reload = %d, want 5", got)
	}

	failing, err := NewManager(cfg, newFakeBackend(), Options{
		Logger:     quietLogger(),
		LoadConfig: func() (*config.Config, error) { return nil, errors.New("broken yaml") },
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if err := failing.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
}

type countingTarget struct {
	n atomic.Int32
}

func (c *countingTarget) Reconcile() error {
	c.n.Add(1)
	return nil
}

func TestReconcilerTrigger(t *testing.T) {
	target := &countingTarget{}
	r := NewReconciler(ReconcilerConfig{Logger: quietLogger()}, target)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	r.Trigger()
	deadline := time.Now().Add(2 * time.Second)
	for target.n.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("trigger did not cause a pass (passes: %d)", target.n.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	<-done
}
