package layout

import "github.com/1broseidon/tilecore/internal/stack"

// WithBorders stamps a fixed border width on every placement of its inner
// layout. Geometry is left untouched; the window system draws the border.
type WithBorders struct {
	Border int
	Inner  Layout
}

func NewWithBorders(border int, inner Layout) *WithBorders {
	return &WithBorders{Border: max(border, 0), Inner: inner}
}

// NewNoBorders is WithBorders with a zero width.
func NewNoBorders(inner Layout) *WithBorders {
	return NewWithBorders(0, inner)
}

func (b *WithBorders) Apply(env Env, s *stack.Stack, screen Rect) []Placement {
	ps := b.Inner.Apply(env, s, screen)
	for i := range ps {
		ps[i].BorderWidth = b.Border
	}
	return ps
}

func (b *WithBorders) HandleMessage(msg Message, s *stack.Stack) (Layout, bool) {
	inner, ok := b.Inner.HandleMessage(msg, s)
	if !ok {
		return b, false
	}
	return &WithBorders{Border: b.Border, Inner: inner}, true
}

func (b *WithBorders) Description() string { return b.Inner.Description() }

func (b *WithBorders) Copy() Layout {
	return &WithBorders{Border: b.Border, Inner: b.Inner.Copy()}
}

func (b *WithBorders) Spec() Spec {
	inner := b.Inner.Spec()
	if b.Border == 0 {
		return Spec{Type: TypeNoBorders, Inner: &inner}
	}
	border := b.Border
	return Spec{Type: TypeBorders, Border: &border, Inner: &inner}
}
