package workspace

import (
	"slices"

	"github.com/1broseidon/tilecore/internal/layout"
	"github.com/1broseidon/tilecore/internal/stack"
)

// Screen is a physical output showing one workspace.
type Screen struct {
	ID        int
	Detail    layout.Rect
	Workspace Workspace
}

// Workspaces partitions every workspace between the screens showing them
// and a hidden pool. Current is the ID of the focused screen.
type Workspaces struct {
	Current int
	Screens []Screen
	Hidden  []Workspace
}

// NewWorkspaces creates one workspace per tag, each with its own copy of
// proto. The first workspaces are shown on the screens described by
// details; the rest start hidden.
func NewWorkspaces(tags []string, proto layout.Layout, details []layout.Rect) Workspaces {
	all := make([]Workspace, len(tags))
	for i, tag := range tags {
		all[i] = New(i, tag, proto.Copy())
	}

	n := min(len(details), len(all))
	screens := make([]Screen, n)
	for i := range screens {
		screens[i] = Screen{ID: i, Detail: details[i], Workspace: all[i]}
	}
	return Workspaces{Screens: screens, Hidden: slices.Clone(all[n:])}
}

func (w Workspaces) clone() Workspaces {
	return Workspaces{
		Current: w.Current,
		Screens: slices.Clone(w.Screens),
		Hidden:  slices.Clone(w.Hidden),
	}
}

func (w Workspaces) screenIndex(id int) int {
	for i, s := range w.Screens {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// locateTag returns the screen index or hidden index of the workspace with
// tag. Both are -1 when no such workspace exists.
func (w Workspaces) locateTag(tag string) (screen, hidden int) {
	for i, s := range w.Screens {
		if s.Workspace.Tag == tag {
			return i, -1
		}
	}
	for i, ws := range w.Hidden {
		if ws.Tag == tag {
			return -1, i
		}
	}
	return -1, -1
}

func (w Workspaces) locateWindow(win stack.Window) (screen, hidden int) {
	for i, s := range w.Screens {
		if s.Workspace.Contains(win) {
			return i, -1
		}
	}
	for i, ws := range w.Hidden {
		if ws.Contains(win) {
			return -1, i
		}
	}
	return -1, -1
}

// update replaces the workspace at the given location of a cloned value.
func (w *Workspaces) update(screen, hidden int, fn func(Workspace) Workspace) {
	if screen >= 0 {
		w.Screens[screen].Workspace = fn(w.Screens[screen].Workspace)
		return
	}
	if hidden >= 0 {
		w.Hidden[hidden] = fn(w.Hidden[hidden])
	}
}

// CurrentScreen returns the focused screen.
func (w Workspaces) CurrentScreen() (Screen, bool) {
	i := w.screenIndex(w.Current)
	if i < 0 {
		return Screen{}, false
	}
	return w.Screens[i], true
}

// CurrentWorkspace returns the workspace shown on the focused screen.
func (w Workspaces) CurrentWorkspace() (Workspace, bool) {
	s, ok := w.CurrentScreen()
	return s.Workspace, ok
}

// Peek returns the focused window of the current workspace.
func (w Workspaces) Peek() (stack.Window, bool) {
	ws, ok := w.CurrentWorkspace()
	if !ok {
		return 0, false
	}
	return ws.Peek()
}

// Find returns the tag of the workspace holding win.
func (w Workspaces) Find(win stack.Window) (string, bool) {
	screen, hidden := w.locateWindow(win)
	switch {
	case screen >= 0:
		return w.Screens[screen].Workspace.Tag, true
	case hidden >= 0:
		return w.Hidden[hidden].Tag, true
	}
	return "", false
}

// Lookup returns the workspace with tag.
func (w Workspaces) Lookup(tag string) (Workspace, bool) {
	screen, hidden := w.locateTag(tag)
	switch {
	case screen >= 0:
		return w.Screens[screen].Workspace, true
	case hidden >= 0:
		return w.Hidden[hidden], true
	}
	return Workspace{}, false
}

// Visible reports whether the workspace with tag is shown on some screen.
func (w Workspaces) Visible(tag string) bool {
	screen, _ := w.locateTag(tag)
	return screen >= 0
}

// All returns every workspace ordered by ID.
func (w Workspaces) All() []Workspace {
	out := make([]Workspace, 0, len(w.Screens)+len(w.Hidden))
	for _, s := range w.Screens {
		out = append(out, s.Workspace)
	}
	out = append(out, w.Hidden...)
	slices.SortFunc(out, func(a, b Workspace) int { return a.ID - b.ID })
	return out
}

// Tags returns every tag ordered by workspace ID.
func (w Workspaces) Tags() []string {
	all := w.All()
	tags := make([]string, len(all))
	for i, ws := range all {
		tags[i] = ws.Tag
	}
	return tags
}

// FocusScreen makes the screen with id current. Unknown ids change nothing.
func (w Workspaces) FocusScreen(id int) Workspaces {
	if w.screenIndex(id) < 0 {
		return w
	}
	next := w.clone()
	next.Current = id
	return next
}

// SwitchToWorkspace shows the workspace with tag on the given screen and
// makes that screen current. A workspace already shown on another screen
// trades places with the one on this screen; a hidden one takes its place
// and the displaced workspace is hidden.
func (w Workspaces) SwitchToWorkspace(screenID int, tag string) Workspaces {
	target := w.screenIndex(screenID)
	if target < 0 {
		return w
	}
	screen, hidden := w.locateTag(tag)
	if screen < 0 && hidden < 0 {
		return w
	}

	next := w.clone()
	switch {
	case screen == target:
		return w
	case screen >= 0:
		a, b := &next.Screens[target].Workspace, &next.Screens[screen].Workspace
		*a, *b = *b, *a
	default:
		shown := next.Screens[target].Workspace
		next.Screens[target].Workspace = next.Hidden[hidden]
		next.Hidden[hidden] = shown.SendMessage(layout.Message{Kind: layout.Hide})
	}
	next.Current = screenID
	return next
}

// MoveWindowToWorkspace moves win from whichever workspace holds it to the
// workspace with tag. Unknown windows or tags change nothing.
func (w Workspaces) MoveWindowToWorkspace(win stack.Window, tag string) Workspaces {
	fromScreen, fromHidden := w.locateWindow(win)
	toScreen, toHidden := w.locateTag(tag)
	if fromScreen < 0 && fromHidden < 0 {
		return w
	}
	if toScreen < 0 && toHidden < 0 {
		return w
	}
	if fromScreen == toScreen && fromHidden == toHidden {
		return w
	}

	next := w.clone()
	next.update(fromScreen, fromHidden, func(ws Workspace) Workspace { return ws.Remove(win) })
	next.update(toScreen, toHidden, func(ws Workspace) Workspace { return ws.Add(win) })
	return next
}

// FocusWindow focuses win inside the workspace holding it. When that
// workspace is visible its screen also becomes current; a hidden workspace
// stays hidden.
func (w Workspaces) FocusWindow(win stack.Window) Workspaces {
	screen, hidden := w.locateWindow(win)
	if screen < 0 && hidden < 0 {
		return w
	}

	next := w.clone()
	next.update(screen, hidden, func(ws Workspace) Workspace {
		return ws.Modify(func(s stack.Stack) stack.Stack {
			focused, _ := s.FocusOn(win)
			return focused
		})
	})
	if screen >= 0 {
		next.Current = next.Screens[screen].ID
	}
	return next
}

// SendLayoutMessage delivers msg to the layout of the workspace with tag.
func (w Workspaces) SendLayoutMessage(tag string, msg layout.Message) Workspaces {
	screen, hidden := w.locateTag(tag)
	if screen < 0 && hidden < 0 {
		return w
	}
	next := w.clone()
	next.update(screen, hidden, func(ws Workspace) Workspace { return ws.SendMessage(msg) })
	return next
}

// SetLayout replaces the layout of the workspace with tag.
func (w Workspaces) SetLayout(tag string, l layout.Layout) Workspaces {
	screen, hidden := w.locateTag(tag)
	if l == nil || (screen < 0 && hidden < 0) {
		return w
	}
	next := w.clone()
	next.update(screen, hidden, func(ws Workspace) Workspace {
		ws.Layout = l
		return ws
	})
	return next
}

// Windows applies fn to the stack of the current workspace.
func (w Workspaces) Windows(fn func(stack.Stack) stack.Stack) Workspaces {
	i := w.screenIndex(w.Current)
	if i < 0 {
		return w
	}
	next := w.clone()
	next.update(i, -1, func(ws Workspace) Workspace { return ws.Modify(fn) })
	return next
}

// Insert adds win to the current workspace. Windows already managed
// anywhere are left where they are.
func (w Workspaces) Insert(win stack.Window) Workspaces {
	i := w.screenIndex(w.Current)
	if i < 0 {
		return w
	}
	if screen, hidden := w.locateWindow(win); screen >= 0 || hidden >= 0 {
		return w
	}
	next := w.clone()
	next.update(i, -1, func(ws Workspace) Workspace { return ws.Add(win) })
	return next
}

// Delete removes win from every workspace.
func (w Workspaces) Delete(win stack.Window) Workspaces {
	screen, hidden := w.locateWindow(win)
	if screen < 0 && hidden < 0 {
		return w
	}
	next := w.clone()
	for i := range next.Screens {
		next.Screens[i].Workspace = next.Screens[i].Workspace.Remove(win)
	}
	for i := range next.Hidden {
		next.Hidden[i] = next.Hidden[i].Remove(win)
	}
	return next
}

// ApplyLayout computes placements for the workspace shown on a screen.
func (w Workspaces) ApplyLayout(env layout.Env, screenID, defaultBorder int) []layout.Placement {
	i := w.screenIndex(screenID)
	if i < 0 {
		return nil
	}
	s := w.Screens[i]
	return s.Workspace.Arrange(env, s.Detail, defaultBorder)
}

// Rescreen adapts the screen list to a new set of outputs. Surplus screens
// hide their workspaces; new screens take the lowest-numbered hidden
// workspaces while any remain.
func (w Workspaces) Rescreen(details []layout.Rect) Workspaces {
	next := w.clone()

	for len(next.Screens) > len(details) {
		last := next.Screens[len(next.Screens)-1]
		next.Screens = next.Screens[:len(next.Screens)-1]
		next.Hidden = append(next.Hidden, last.Workspace.SendMessage(layout.Message{Kind: layout.Hide}))
	}
	slices.SortFunc(next.Hidden, func(a, b Workspace) int { return a.ID - b.ID })

	for len(next.Screens) < len(details) && len(next.Hidden) > 0 {
		next.Screens = append(next.Screens, Screen{ID: len(next.Screens), Workspace: next.Hidden[0]})
		next.Hidden = next.Hidden[1:]
	}
	for i := range next.Screens {
		next.Screens[i].ID = i
		next.Screens[i].Detail = details[i]
	}

	if next.screenIndex(next.Current) < 0 {
		next.Current = 0
	}
	return next
}
