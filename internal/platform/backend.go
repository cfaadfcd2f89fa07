package platform

import (
	"github.com/1broseidon/tilecore/internal/layout"
	"github.com/1broseidon/tilecore/internal/stack"
)

// Display describes a physical display.
type Display struct {
	ID     int
	Name   string
	Bounds layout.Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     stack.Window
	Class  string
	Title  string
	Bounds layout.Rect
}

// Backend abstracts the window-system operations the daemon needs.
type Backend interface {
	Displays() ([]Display, error)
	// Struts reports the space reserved by panels inside area.
	Struts(area layout.Rect) (layout.Struts, error)
	ListWindows() ([]Window, error)
	ActiveWindow() (stack.Window, error)
	Configure(p layout.Placement) error
	SetBorderColor(w stack.Window, color uint32) error
	Show(w stack.Window) error
	Hide(w stack.Window) error
	Focus(w stack.Window) error
}

// Env adapts a Backend to layout.Env. Lookup failures yield no struts.
type Env struct {
	Backend Backend
}

func (e Env) Struts(screen layout.Rect) layout.Struts {
	if e.Backend == nil {
		return layout.Struts{}
	}
	s, err := e.Backend.Struts(screen)
	if err != nil {
		return layout.Struts{}
	}
	return s
}

// Watcher is implemented by backends that can push window-set changes
// instead of being polled.
type Watcher interface {
	WatchWindows(fn func()) error
	EventLoop()
	StopEventLoop()
}
