package layout

import "github.com/1broseidon/tilecore/internal/stack"

// Full gives every window the whole screen. Only the focused window is
// meaningfully visible.
type Full struct{}

func (Full) Apply(_ Env, s *stack.Stack, screen Rect) []Placement {
	ws := windowsOf(s)
	if len(ws) == 0 {
		return nil
	}
	out := make([]Placement, len(ws))
	for i, w := range ws {
		out[i] = Placement{Window: w, Rect: screen, BorderWidth: InheritBorder}
	}
	return out
}

func (f Full) HandleMessage(Message, *stack.Stack) (Layout, bool) { return f, false }

func (Full) Description() string { return "Full" }

func (f Full) Copy() Layout { return f }

func (Full) Spec() Spec { return Spec{Type: TypeFull} }
