package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/1broseidon/tilecore/internal/layout"
)

// sourceIndication marks client messages as coming from a pager, which
// window managers honour without focus-stealing checks.
const sourceIndication = 2

// Configure places a window so that its outer edge, border included, fills
// r. A negative border leaves the current border width alone.
func (c *Connection) Configure(windowID xproto.Window, r layout.Rect, border int) error {
	c.unmaximizeWindow(windowID)

	inner := r
	if border > 0 {
		inner.Width -= 2 * border
		inner.Height -= 2 * border
	}
	inner.Width = max(1, inner.Width)
	inner.Height = max(1, inner.Height)

	if border >= 0 {
		err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID,
			xproto.ConfigWindowBorderWidth, []uint32{uint32(border)}).Check()
		if err != nil {
			return fmt.Errorf("failed to set border width of window %d: %w", windowID, err)
		}
	}

	// EWMH MoveResize first for better WM compatibility.
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, inner.X, inner.Y, inner.Width, inner.Height); err != nil {
		xwindow.New(c.XUtil, windowID).MoveResize(inner.X, inner.Y, inner.Width, inner.Height)
	}
	return nil
}

// SetBorderColor sets the border pixel of a window (0xRRGGBB on TrueColor
// visuals).
func (c *Connection) SetBorderColor(windowID xproto.Window, color uint32) error {
	return xproto.ChangeWindowAttributesChecked(c.XUtil.Conn(), windowID,
		xproto.CwBorderPixel, []uint32{color}).Check()
}

// Show maps a window.
func (c *Connection) Show(windowID xproto.Window) error {
	return xproto.MapWindowChecked(c.XUtil.Conn(), windowID).Check()
}

// Hide iconifies a window via WM_CHANGE_STATE. Iconified windows stay in the
// client list, so the window remains managed while hidden.
func (c *Connection) Hide(windowID xproto.Window) error {
	atom, err := c.internAtom("WM_CHANGE_STATE")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{icccm.StateIconic, 0, 0, 0, 0}),
	}
	return c.sendRoot(ev)
}

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
// The message is built by hand because the xgbutil ewmh request helpers
// panic on this library version.
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	atom, err := c.internAtom("_NET_ACTIVE_WINDOW")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   atom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}
	return c.sendRoot(ev)
}

// GetActiveWindow returns _NET_ACTIVE_WINDOW.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// ClientWindows returns the normal application windows in the EWMH client
// list, skipping fullscreen and sticky-skip windows.
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}

	windows := make([]xproto.Window, 0, len(clients))
	for _, windowID := range clients {
		if !c.IsNormalWindow(windowID) || c.skipByState(windowID) {
			continue
		}
		windows = append(windows, windowID)
	}
	return windows, nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_DIALOG",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	return len(types) == 0
}

// WindowTitle returns _NET_WM_NAME, falling back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// WindowClass returns the WM_CLASS class name.
func (c *Connection) WindowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

// WindowRect returns the window geometry in root coordinates.
func (c *Connection) WindowRect(windowID xproto.Window) (layout.Rect, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return layout.Rect{}, false
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return layout.Rect{}, false
	}
	return layout.Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, true
}

func (c *Connection) skipByState(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_FULLSCREEN", "_NET_WM_STATE_SKIP_TASKBAR":
			return true
		}
	}
	return false
}

// unmaximizeWindow removes maximized state from a window; layouts cannot
// resize a maximized window.
func (c *Connection) unmaximizeWindow(windowID xproto.Window) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_MAXIMIZED_HORZ" || state == "_NET_WM_STATE_MAXIMIZED_VERT" {
			ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state)
		}
	}
}

func (c *Connection) internAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

func (c *Connection) sendRoot(ev xproto.ClientMessageEvent) error {
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
