package layout

import "github.com/1broseidon/tilecore/internal/stack"

// AvoidStruts removes panel reservations on the configured edges from the
// screen before delegating.
type AvoidStruts struct {
	Edges []Direction
	Inner Layout
}

func NewAvoidStruts(edges []Direction, inner Layout) *AvoidStruts {
	return &AvoidStruts{Edges: append([]Direction(nil), edges...), Inner: inner}
}

func (a *AvoidStruts) Apply(env Env, s *stack.Stack, screen Rect) []Placement {
	env = envOrDefault(env)
	return a.Inner.Apply(env, s, a.usable(env.Struts(screen), screen))
}

func (a *AvoidStruts) usable(st Struts, r Rect) Rect {
	for _, edge := range a.Edges {
		switch edge {
		case Up:
			n := min(max(st.Top, 0), r.Height)
			r.Y += n
			r.Height -= n
		case Down:
			r.Height -= min(max(st.Bottom, 0), r.Height)
		case Left:
			n := min(max(st.Left, 0), r.Width)
			r.X += n
			r.Width -= n
		case Right:
			r.Width -= min(max(st.Right, 0), r.Width)
		}
	}
	return r
}

func (a *AvoidStruts) HandleMessage(msg Message, s *stack.Stack) (Layout, bool) {
	inner, ok := a.Inner.HandleMessage(msg, s)
	if !ok {
		return a, false
	}
	return &AvoidStruts{Edges: a.Edges, Inner: inner}, true
}

func (a *AvoidStruts) Description() string { return a.Inner.Description() }

func (a *AvoidStruts) Copy() Layout {
	return NewAvoidStruts(a.Edges, a.Inner.Copy())
}

func (a *AvoidStruts) Spec() Spec {
	inner := a.Inner.Spec()
	edges := make([]string, len(a.Edges))
	for i, e := range a.Edges {
		edges[i] = e.String()
	}
	return Spec{Type: TypeAvoidStruts, Edges: edges, Inner: &inner}
}
