package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/1broseidon/tilecore/internal/config"
	"github.com/1broseidon/tilecore/internal/ipc"
	"github.com/1broseidon/tilecore/internal/layout"
	"github.com/1broseidon/tilecore/internal/platform"
	"github.com/1broseidon/tilecore/internal/stack"
	"github.com/1broseidon/tilecore/internal/state"
	"github.com/1broseidon/tilecore/internal/workspace"
)

// ConfigLoader returns a freshly loaded configuration for RELOAD.
type ConfigLoader func() (*config.Config, error)

// Options configure a Manager.
type Options struct {
	// StatePath is where workspace layouts are persisted; empty disables
	// persistence regardless of config.
	StatePath  string
	LoadConfig ConfigLoader
	Logger     *slog.Logger
}

// Manager owns the authoritative Workspaces value. Every operation takes
// the lock, replaces the value with the result of a pure workspace
// operation and pushes the outcome to the Backend.
type Manager struct {
	mu        sync.Mutex
	cfg       *config.Config
	backend   platform.Backend
	ws        workspace.Workspaces
	statePath string
	load      ConfigLoader
	logger    *slog.Logger
	started   time.Time

	// mapped records the last visibility pushed per window; a missing
	// entry means unknown.
	mapped  map[stack.Window]bool
	focused stack.Window
}

var _ ipc.Controller = (*Manager)(nil)

// NewManager builds the workspaces for the backend's displays, applies the
// configured per-workspace layouts and restores persisted state.
func NewManager(cfg *config.Config, backend platform.Backend, opts Options) (*Manager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		cfg:       cfg,
		backend:   backend,
		statePath: opts.StatePath,
		load:      opts.LoadConfig,
		logger:    logger,
		started:   time.Now(),
		mapped:    make(map[stack.Window]bool),
	}

	details, err := m.screenDetails()
	if err != nil {
		return nil, err
	}
	ws, err := initialWorkspaces(cfg, details)
	if err != nil {
		return nil, err
	}
	m.ws = ws

	if cfg.PersistState && m.statePath != "" {
		snap, err := state.Load(m.statePath)
		if err != nil {
			logger.Warn("ignoring saved state", "path", m.statePath, "error", err)
		} else {
			restored, err := state.Restore(m.ws, snap, cfg.Options())
			if err != nil {
				logger.Warn("saved state partially restored", "error", err)
			}
			m.ws = restored
		}
	}
	return m, nil
}

func initialWorkspaces(cfg *config.Config, details []layout.Rect) (workspace.Workspaces, error) {
	proto, err := cfg.BuildLayout(cfg.DefaultLayout)
	if err != nil {
		return workspace.Workspaces{}, err
	}
	ws := workspace.NewWorkspaces(cfg.Tags, proto, details)
	for _, tag := range cfg.Tags {
		name := cfg.LayoutNameFor(tag)
		if name == cfg.DefaultLayout {
			continue
		}
		l, err := cfg.BuildLayout(name)
		if err != nil {
			return workspace.Workspaces{}, fmt.Errorf("workspace %q: %w", tag, err)
		}
		ws = ws.SetLayout(tag, l)
	}
	return ws, nil
}

func (m *Manager) screenDetails() ([]layout.Rect, error) {
	displays, err := m.backend.Displays()
	if err != nil {
		return nil, fmt.Errorf("failed to list displays: %w", err)
	}
	details := make([]layout.Rect, len(displays))
	for i, d := range displays {
		details[i] = d.Bounds
	}
	return details, nil
}

// Snapshot returns the current workspaces value.
func (m *Manager) Snapshot() workspace.Workspaces {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ws
}

// Reconcile syncs the managed windows and screens with the backend: focus
// moved by another client is adopted, new windows are inserted into the
// current workspace and vanished ones deleted.
func (m *Manager) Reconcile() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	windows, err := m.backend.ListWindows()
	if err != nil {
		return fmt.Errorf("failed to list windows: %w", err)
	}

	ws := m.adoptActiveWindow(m.ws)
	present := make(map[stack.Window]bool, len(windows))
	for _, w := range windows {
		present[w.ID] = true
		if _, ok := ws.Find(w.ID); ok {
			continue
		}
		prev, hadFocus := ws.Peek()
		ws = ws.Insert(w.ID)
		m.logger.Debug("managing window", "window", w.ID, "class", w.Class, "title", w.Title)
		if !m.cfg.FocusNew && hadFocus {
			ws = ws.Windows(func(s stack.Stack) stack.Stack {
				s, _ = s.FocusOn(prev)
				return s
			})
		}
	}
	for _, wsp := range ws.All() {
		for _, w := range wsp.Windows() {
			if !present[w] {
				m.logger.Debug("unmanaging window", "window", w)
				ws = ws.Delete(w)
				delete(m.mapped, w)
			}
		}
	}

	if details, err := m.screenDetails(); err != nil {
		m.logger.Warn("keeping previous screens", "error", err)
	} else if !sameDetails(ws, details) {
		m.logger.Info("screens changed", "count", len(details))
		ws = ws.Rescreen(details)
	}

	m.commit(ws)
	return nil
}

// adoptActiveWindow focuses the backend's active window when something other
// than the manager activated it. Only already managed windows are adopted so
// new windows follow focus_new.
func (m *Manager) adoptActiveWindow(ws workspace.Workspaces) workspace.Workspaces {
	active, err := m.backend.ActiveWindow()
	if err != nil {
		m.logger.Debug("active window unavailable", "error", err)
		return ws
	}
	if active == 0 || active == m.focused {
		return ws
	}
	if _, ok := ws.Find(active); !ok {
		return ws
	}
	if cur, ok := ws.Peek(); ok && cur == active {
		m.focused = active
		return ws
	}
	m.logger.Debug("adopting external focus", "window", active)
	m.focused = active
	return ws.FocusWindow(active)
}

func sameDetails(ws workspace.Workspaces, details []layout.Rect) bool {
	if len(ws.Screens) != len(details) {
		return false
	}
	for i, s := range ws.Screens {
		if s.Detail != details[i] {
			return false
		}
	}
	return true
}

// commit installs ws, pushes it to the backend and persists it. Callers hold
// the lock.
func (m *Manager) commit(ws workspace.Workspaces) {
	m.ws = ws
	m.refresh()
	m.persist()
}

// refresh configures every visible window, hides the rest and focuses the
// current workspace's focused window.
func (m *Manager) refresh() {
	env := platform.Env{Backend: m.backend}
	visible := make(map[stack.Window]bool)
	focused, hasFocus := m.ws.Peek()

	for _, screen := range m.ws.Screens {
		for _, p := range m.ws.ApplyLayout(env, screen.ID, m.cfg.BorderWidth) {
			visible[p.Window] = true
			if err := m.backend.Configure(p); err != nil {
				m.logger.Warn("configure failed", "window", p.Window, "error", err)
				continue
			}
			color := m.cfg.BorderColor
			if hasFocus && p.Window == focused {
				color = m.cfg.FocusBorderColor
			}
			if err := m.backend.SetBorderColor(p.Window, uint32(color)); err != nil {
				m.logger.Debug("border color failed", "window", p.Window, "error", err)
			}
		}
	}

	for _, wsp := range m.ws.All() {
		for _, w := range wsp.Windows() {
			m.setMapped(w, visible[w])
		}
	}

	if hasFocus && visible[focused] && focused != m.focused {
		if err := m.backend.Focus(focused); err != nil {
			m.logger.Warn("focus failed", "window", focused, "error", err)
			return
		}
		m.focused = focused
	}
}

func (m *Manager) setMapped(w stack.Window, show bool) {
	was, known := m.mapped[w]
	if known && was == show {
		return
	}
	var err error
	if show {
		err = m.backend.Show(w)
	} else {
		err = m.backend.Hide(w)
	}
	if err != nil {
		m.logger.Warn("visibility change failed", "window", w, "show", show, "error", err)
		return
	}
	m.mapped[w] = show
}

func (m *Manager) persist() {
	if !m.cfg.PersistState || m.statePath == "" {
		return
	}
	if err := state.Save(m.statePath, state.Capture(m.ws)); err != nil {
		m.logger.Warn("failed to save state", "path", m.statePath, "error", err)
	}
}

// Refresh re-pushes the current state to the backend.
func (m *Manager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh()
}

// update applies a pure operation under the lock.
func (m *Manager) update(fn func(workspace.Workspaces) (workspace.Workspaces, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, err := fn(m.ws)
	if err != nil {
		return err
	}
	m.commit(ws)
	return nil
}

func (m *Manager) Status() ipc.StatusData {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := ipc.StatusData{
		CurrentScreen: m.ws.Current,
		ScreenCount:   len(m.ws.Screens),
		UptimeSeconds: int64(time.Since(m.started).Seconds()),
		DaemonRunning: true,
	}
	if cur, ok := m.ws.CurrentWorkspace(); ok {
		status.CurrentTag = cur.Tag
		status.Layout = cur.Layout.Description()
	}
	if w, ok := m.ws.Peek(); ok {
		status.Focused = uint32(w)
	}
	for _, wsp := range m.ws.All() {
		status.WindowCount += wsp.Len()
	}
	return status
}

func (m *Manager) Workspaces() []ipc.WorkspaceInfo {
	m.mu.Lock()
	defer m.mu.Unlock()

	screens := make(map[string]int, len(m.ws.Screens))
	for _, s := range m.ws.Screens {
		screens[s.Workspace.Tag] = s.ID
	}

	all := m.ws.All()
	out := make([]ipc.WorkspaceInfo, 0, len(all))
	for _, wsp := range all {
		info := ipc.WorkspaceInfo{
			ID:     wsp.ID,
			Tag:    wsp.Tag,
			Layout: wsp.Layout.Description(),
		}
		if id, ok := screens[wsp.Tag]; ok {
			info.Screen = &id
			info.Current = id == m.ws.Current
		}
		if w, ok := wsp.Peek(); ok {
			info.Focused = uint32(w)
		}
		for _, w := range wsp.Windows() {
			info.Windows = append(info.Windows, uint32(w))
		}
		out = append(out, info)
	}
	return out
}

func (m *Manager) Layouts() ipc.LayoutsData {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.cfg.Layouts))
	for name := range m.cfg.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return ipc.LayoutsData{Layouts: names, DefaultLayout: m.cfg.DefaultLayout}
}

func (m *Manager) Focus(target ipc.Target) error {
	op, err := pick(target, stack.Stack.FocusUp, stack.Stack.FocusDown, stack.Stack.FocusMaster)
	if err != nil {
		return err
	}
	return m.update(func(ws workspace.Workspaces) (workspace.Workspaces, error) {
		return ws.Windows(op), nil
	})
}

func (m *Manager) Swap(target ipc.Target) error {
	op, err := pick(target, stack.Stack.SwapUp, stack.Stack.SwapDown, stack.Stack.SwapMaster)
	if err != nil {
		return err
	}
	return m.update(func(ws workspace.Workspaces) (workspace.Workspaces, error) {
		return ws.Windows(op), nil
	})
}

func pick(target ipc.Target, up, down, master func(stack.Stack) stack.Stack) (func(stack.Stack) stack.Stack, error) {
	switch target {
	case ipc.TargetUp:
		return up, nil
	case ipc.TargetDown:
		return down, nil
	case ipc.TargetMaster:
		return master, nil
	default:
		return nil, fmt.Errorf("invalid target %q", target)
	}
}

func (m *Manager) SendMessage(tag string, msg layout.Message) error {
	return m.update(func(ws workspace.Workspaces) (workspace.Workspaces, error) {
		tag, err := resolveTag(ws, tag)
		if err != nil {
			return ws, err
		}
		return ws.SendLayoutMessage(tag, msg), nil
	})
}

func (m *Manager) SwitchWorkspace(screen *int, tag string) error {
	return m.update(func(ws workspace.Workspaces) (workspace.Workspaces, error) {
		id, err := resolveScreen(ws, screen)
		if err != nil {
			return ws, err
		}
		if _, ok := ws.Lookup(tag); !ok {
			return ws, fmt.Errorf("no workspace %q", tag)
		}
		return ws.SwitchToWorkspace(id, tag), nil
	})
}

func (m *Manager) MoveWindow(w stack.Window, tag string) error {
	return m.update(func(ws workspace.Workspaces) (workspace.Workspaces, error) {
		if w == 0 {
			focused, ok := ws.Peek()
			if !ok {
				return ws, errors.New("no focused window")
			}
			w = focused
		}
		if _, ok := ws.Find(w); !ok {
			return ws, fmt.Errorf("window %d is not managed", w)
		}
		if _, ok := ws.Lookup(tag); !ok {
			return ws, fmt.Errorf("no workspace %q", tag)
		}
		return ws.MoveWindowToWorkspace(w, tag), nil
	})
}

func (m *Manager) FocusWindow(w stack.Window) error {
	return m.update(func(ws workspace.Workspaces) (workspace.Workspaces, error) {
		if _, ok := ws.Find(w); !ok {
			return ws, fmt.Errorf("window %d is not managed", w)
		}
		return ws.FocusWindow(w), nil
	})
}

func (m *Manager) ApplyLayout(screen *int) (ipc.PlacementsData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, err := resolveScreen(m.ws, screen)
	if err != nil {
		return ipc.PlacementsData{}, err
	}
	data := ipc.PlacementsData{Screen: id}
	for _, s := range m.ws.Screens {
		if s.ID == id {
			data.Tag = s.Workspace.Tag
			data.ScreenRect = s.Detail
		}
	}
	data.Placements = m.ws.ApplyLayout(platform.Env{Backend: m.backend}, id, m.cfg.BorderWidth)
	return data, nil
}

func (m *Manager) SetLayout(tag, name string) error {
	return m.update(func(ws workspace.Workspaces) (workspace.Workspaces, error) {
		tag, err := resolveTag(ws, tag)
		if err != nil {
			return ws, err
		}
		l, err := m.cfg.BuildLayout(name)
		if err != nil {
			return ws, err
		}
		return ws.SetLayout(tag, l), nil
	})
}

// Reload swaps in a freshly loaded config. Borders and colours apply
// immediately; workspace layouts keep their state, and tag changes only
// take effect on restart.
func (m *Manager) Reload() error {
	if m.load == nil {
		return errors.New("reload is not configured")
	}
	cfg, err := m.load()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Equal(cfg.Tags, m.ws.Tags()) {
		m.logger.Warn("workspace tags changed; restart the daemon to apply", "tags", cfg.Tags)
	}
	m.cfg = cfg
	m.refresh()
	return nil
}

func resolveTag(ws workspace.Workspaces, tag string) (string, error) {
	if tag == "" {
		cur, ok := ws.CurrentWorkspace()
		if !ok {
			return "", errors.New("no current workspace")
		}
		return cur.Tag, nil
	}
	if _, ok := ws.Lookup(tag); !ok {
		return "", fmt.Errorf("no workspace %q", tag)
	}
	return tag, nil
}

func resolveScreen(ws workspace.Workspaces, screen *int) (int, error) {
	if screen == nil {
		if len(ws.Screens) == 0 {
			return 0, errors.New("no screens")
		}
		return ws.Current, nil
	}
	for _, s := range ws.Screens {
		if s.ID == *screen {
			return s.ID, nil
		}
	}
	return 0, fmt.Errorf("no screen %d", *screen)
}
