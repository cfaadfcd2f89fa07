// Package workspace holds per-tag window stacks and layouts and the
// multi-screen aggregate that shows them.
//
// Every operation returns a new value; callers that share a Workspaces
// across goroutines must serialise access to the authoritative copy.
package workspace

import (
	"github.com/1broseidon/tilecore/internal/layout"
	"github.com/1broseidon/tilecore/internal/stack"
)

// Workspace is a tagged window stack with its own layout. A nil Stack means
// the workspace holds no windows.
type Workspace struct {
	ID     int
	Tag    string
	Layout layout.Layout
	Stack  *stack.Stack
}

// New returns an empty workspace.
func New(id int, tag string, l layout.Layout) Workspace {
	return Workspace{ID: id, Tag: tag, Layout: l}
}

// Contains reports whether w is on this workspace.
func (ws Workspace) Contains(w stack.Window) bool {
	return ws.Stack != nil && ws.Stack.Contains(w)
}

// Add inserts w as the focused window. Adding a window that is already
// present changes nothing.
func (ws Workspace) Add(w stack.Window) Workspace {
	if ws.Stack == nil {
		s := stack.Singleton(w)
		ws.Stack = &s
		return ws
	}
	if ws.Stack.Contains(w) {
		return ws
	}
	s := ws.Stack.Insert(w)
	ws.Stack = &s
	return ws
}

// Remove drops w. Removing the last window leaves the stack empty.
func (ws Workspace) Remove(w stack.Window) Workspace {
	if ws.Stack == nil {
		return ws
	}
	ws.Stack = ws.Stack.Remove(w)
	return ws
}

// SendMessage passes msg to the layout and keeps the replacement when the
// layout handles it.
func (ws Workspace) SendMessage(msg layout.Message) Workspace {
	if ws.Layout == nil {
		return ws
	}
	if l, ok := ws.Layout.HandleMessage(msg, ws.Stack); ok {
		ws.Layout = l
	}
	return ws
}

// Modify applies fn to the stack. Empty workspaces are returned unchanged.
func (ws Workspace) Modify(fn func(stack.Stack) stack.Stack) Workspace {
	if ws.Stack == nil {
		return ws
	}
	s := fn(*ws.Stack)
	ws.Stack = &s
	return ws
}

// Windows returns the windows in stack order.
func (ws Workspace) Windows() []stack.Window {
	if ws.Stack == nil {
		return nil
	}
	return ws.Stack.Integrate()
}

// Len returns the number of windows.
func (ws Workspace) Len() int {
	if ws.Stack == nil {
		return 0
	}
	return ws.Stack.Len()
}

// Peek returns the focused window.
func (ws Workspace) Peek() (stack.Window, bool) {
	if ws.Stack == nil {
		return 0, false
	}
	return ws.Stack.Focus, true
}

// Arrange computes placements for screen. Placements no layout assigned a
// border to receive defaultBorder.
func (ws Workspace) Arrange(env layout.Env, screen layout.Rect, defaultBorder int) []layout.Placement {
	if ws.Layout == nil || ws.Stack == nil {
		return nil
	}
	ps := ws.Layout.Apply(env, ws.Stack, screen)
	for i := range ps {
		if ps[i].BorderWidth == layout.InheritBorder {
			ps[i].BorderWidth = defaultBorder
		}
	}
	return ps
}

// Copy returns a workspace whose layout no longer aliases the receiver's.
func (ws Workspace) Copy() Workspace {
	if ws.Layout != nil {
		ws.Layout = ws.Layout.Copy()
	}
	return ws
}
