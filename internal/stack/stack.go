package stack

// Window is an opaque window-system handle. The core only compares it.
type Window uint32

// Stack is a focus zipper over windows.
//
// The visible order is reverse(Up) ++ [Focus] ++ Down; both Up and Down are
// stored nearest-to-focus first. Every method returns a new Stack whose slices
// never alias the receiver's, so a Stack can be shared freely as a snapshot.
type Stack struct {
	Focus Window
	Up    []Window
	Down  []Window
}

// New builds a stack from its three parts, copying both slices.
func New(focus Window, up, down []Window) Stack {
	return Stack{Focus: focus, Up: clone(up), Down: clone(down)}
}

// Singleton returns a stack holding only w.
func Singleton(w Window) Stack {
	return Stack{Focus: w}
}

// FromList builds a stack over windows in visible order with the element at
// focusIdx focused. It returns nil for an empty list; an out-of-range index
// focuses the first window.
func FromList(windows []Window, focusIdx int) *Stack {
	if len(windows) == 0 {
		return nil
	}
	if focusIdx < 0 || focusIdx >= len(windows) {
		focusIdx = 0
	}
	s := Stack{
		Focus: windows[focusIdx],
		Up:    reversed(windows[:focusIdx]),
		Down:  clone(windows[focusIdx+1:]),
	}
	return &s
}

// Integrate returns the windows in visible order.
func (s Stack) Integrate() []Window {
	out := make([]Window, 0, s.Len())
	out = append(out, reversed(s.Up)...)
	out = append(out, s.Focus)
	out = append(out, s.Down...)
	return out
}

// Len returns the number of windows in the stack.
func (s Stack) Len() int {
	return len(s.Up) + 1 + len(s.Down)
}

// Index returns the position of the focused window in visible order.
func (s Stack) Index() int {
	return len(s.Up)
}

// Contains reports whether w is the focus or appears in Up or Down.
func (s Stack) Contains(w Window) bool {
	if s.Focus == w {
		return true
	}
	for _, x := range s.Up {
		if x == w {
			return true
		}
	}
	for _, x := range s.Down {
		if x == w {
			return true
		}
	}
	return false
}

// Insert makes w the new focus; the previous focus becomes its nearest
// neighbour below.
func (s Stack) Insert(w Window) Stack {
	down := make([]Window, 0, len(s.Down)+1)
	down = append(down, s.Focus)
	down = append(down, s.Down...)
	return Stack{Focus: w, Up: clone(s.Up), Down: down}
}

// FocusUp moves focus to the previous window, wrapping to the last one.
func (s Stack) FocusUp() Stack {
	if len(s.Up) > 0 {
		down := make([]Window, 0, len(s.Down)+1)
		down = append(down, s.Focus)
		down = append(down, s.Down...)
		return Stack{Focus: s.Up[0], Up: clone(s.Up[1:]), Down: down}
	}
	if len(s.Down) == 0 {
		return s.copy()
	}
	// Wrap: the last window of Down becomes focus, everything else is above it.
	order := s.Integrate()
	return *FromList(order, len(order)-1)
}

// FocusDown moves focus to the next window, wrapping to the first one.
func (s Stack) FocusDown() Stack {
	return s.Reverse().FocusUp().Reverse()
}

// FocusMaster focuses the first window without changing the order.
func (s Stack) FocusMaster() Stack {
	if len(s.Up) == 0 {
		return s.copy()
	}
	return *FromList(s.Integrate(), 0)
}

// FocusOn focuses w without changing the order. It reports false and
// returns the stack unchanged when w is not present.
func (s Stack) FocusOn(w Window) (Stack, bool) {
	order := s.Integrate()
	for i, x := range order {
		if x == w {
			return *FromList(order, i), true
		}
	}
	return s.copy(), false
}

// SwapUp exchanges the focused window with the one above it. At the top it
// wraps, moving the focused window to the bottom.
func (s Stack) SwapUp() Stack {
	if len(s.Up) > 0 {
		down := make([]Window, 0, len(s.Down)+1)
		down = append(down, s.Up[0])
		down = append(down, s.Down...)
		return Stack{Focus: s.Focus, Up: clone(s.Up[1:]), Down: down}
	}
	if len(s.Down) == 0 {
		return s.copy()
	}
	return Stack{Focus: s.Focus, Up: reversed(s.Down)}
}

// SwapDown exchanges the focused window with the one below it. At the
// bottom it wraps, moving the focused window to the top.
func (s Stack) SwapDown() Stack {
	return s.Reverse().SwapUp().Reverse()
}

// SwapMaster moves the focused window to the front of the order. The other
// windows keep their relative order and focus stays on the moved window.
func (s Stack) SwapMaster() Stack {
	if len(s.Up) == 0 {
		return s.copy()
	}
	down := make([]Window, 0, len(s.Up)+len(s.Down))
	down = append(down, reversed(s.Up)...)
	down = append(down, s.Down...)
	return Stack{Focus: s.Focus, Down: down}
}

// Reverse flips the order, keeping focus.
func (s Stack) Reverse() Stack {
	return Stack{Focus: s.Focus, Up: clone(s.Down), Down: clone(s.Up)}
}

// Filter keeps the windows satisfying keep. When the focused window is
// dropped, focus moves to the nearest survivor below, else above. It
// returns nil when nothing survives.
func (s Stack) Filter(keep func(Window) bool) *Stack {
	up := filter(s.Up, keep)
	down := filter(s.Down, keep)

	switch {
	case keep(s.Focus):
		return &Stack{Focus: s.Focus, Up: up, Down: down}
	case len(down) > 0:
		return &Stack{Focus: down[0], Up: up, Down: down[1:]}
	case len(up) > 0:
		return &Stack{Focus: up[0], Up: up[1:], Down: down}
	default:
		return nil
	}
}

// Remove drops w from the stack, returning nil when it was the only window.
func (s Stack) Remove(w Window) *Stack {
	return s.Filter(func(x Window) bool { return x != w })
}

// Equal reports whether both stacks have the same focus, Up and Down.
func (s Stack) Equal(o Stack) bool {
	return s.Focus == o.Focus && equal(s.Up, o.Up) && equal(s.Down, o.Down)
}

func (s Stack) copy() Stack {
	return Stack{Focus: s.Focus, Up: clone(s.Up), Down: clone(s.Down)}
}

func filter(ws []Window, keep func(Window) bool) []Window {
	out := make([]Window, 0, len(ws))
	for _, w := range ws {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

func clone(ws []Window) []Window {
	if len(ws) == 0 {
		return nil
	}
	out := make([]Window, len(ws))
	copy(out, ws)
	return out
}

func reversed(ws []Window) []Window {
	if len(ws) == 0 {
		return nil
	}
	out := make([]Window, len(ws))
	for i, w := range ws {
		out[len(ws)-1-i] = w
	}
	return out
}

func equal(a, b []Window) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
