package layout

import "github.com/1broseidon/tilecore/internal/stack"

// Mirror runs its inner layout in transposed coordinates, turning columns
// into rows.
type Mirror struct {
	Inner Layout
}

func NewMirror(inner Layout) *Mirror { return &Mirror{Inner: inner} }

func (m *Mirror) Apply(env Env, s *stack.Stack, screen Rect) []Placement {
	ps := m.Inner.Apply(transposedEnv{envOrDefault(env)}, s, screen.Transpose())
	return mapRects(ps, Rect.Transpose)
}

func (m *Mirror) HandleMessage(msg Message, s *stack.Stack) (Layout, bool) {
	inner, ok := m.Inner.HandleMessage(msg.Transpose(), s)
	if !ok {
		return m, false
	}
	return &Mirror{Inner: inner}, true
}

func (m *Mirror) Description() string { return "Mirror " + m.Inner.Description() }

func (m *Mirror) Copy() Layout { return &Mirror{Inner: m.Inner.Copy()} }

func (m *Mirror) Spec() Spec {
	inner := m.Inner.Spec()
	return Spec{Type: TypeMirror, Inner: &inner}
}

// transposedEnv answers queries made in transposed coordinates.
type transposedEnv struct {
	env Env
}

func (e transposedEnv) Struts(screen Rect) Struts {
	return e.env.Struts(screen.Transpose()).Transpose()
}
