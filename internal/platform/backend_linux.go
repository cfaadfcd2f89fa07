//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/xproto"

	"github.com/1broseidon/tilecore/internal/layout"
	"github.com/1broseidon/tilecore/internal/stack"
	"github.com/1broseidon/tilecore/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection to display.
func NewLinuxBackendFromDisplay(display string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// StopEventLoop asks a running EventLoop to return.
func (b *LinuxBackend) StopEventLoop() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, Display{ID: m.ID, Name: m.Name, Bounds: m.Bounds})
	}
	return displays, nil
}

func (b *LinuxBackend) Struts(area layout.Rect) (layout.Struts, error) {
	conn, err := b.connection()
	if err != nil {
		return layout.Struts{}, err
	}
	return conn.DockStruts(area)
}

// ListWindows lists the manageable top-level windows ordered by ID.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.ClientWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		rect, ok := conn.WindowRect(windowID)
		if !ok {
			continue
		}
		windows = append(windows, Window{
			ID:     stack.Window(windowID),
			Class:  conn.WindowClass(windowID),
			Title:  conn.WindowTitle(windowID),
			Bounds: rect,
		})
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].ID < windows[j].ID
	})
	return windows, nil
}

// ActiveWindow returns the currently active/focused window ID.
func (b *LinuxBackend) ActiveWindow() (stack.Window, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return stack.Window(wid), nil
}

func (b *LinuxBackend) Configure(p layout.Placement) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Configure(xproto.Window(p.Window), p.Rect, p.BorderWidth)
}

func (b *LinuxBackend) SetBorderColor(w stack.Window, color uint32) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetBorderColor(xproto.Window(w), color)
}

func (b *LinuxBackend) Show(w stack.Window) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Show(xproto.Window(w))
}

func (b *LinuxBackend) Hide(w stack.Window) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.Hide(xproto.Window(w))
}

func (b *LinuxBackend) Focus(w stack.Window) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.FocusWindow(xproto.Window(w))
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

// WatchWindows calls fn whenever the set of client windows may have changed.
// Callbacks run on the EventLoop goroutine.
func (b *LinuxBackend) WatchWindows(fn func()) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.WatchClientList(fn)
}
