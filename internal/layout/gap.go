package layout

import (
	"fmt"

	"github.com/1broseidon/tilecore/internal/stack"
)

// DefaultGapStep is the pixel change applied by IncreaseGap/DecreaseGap.
const DefaultGapStep = 2

// Gap shrinks every placement of its inner layout by Gap pixels on each
// side, keeping it centred in the original region.
type Gap struct {
	Gap   int
	Step  int
	Inner Layout
}

func NewGap(gap int, inner Layout) *Gap {
	return &Gap{Gap: max(gap, 0), Step: DefaultGapStep, Inner: inner}
}

func (g *Gap) Apply(env Env, s *stack.Stack, screen Rect) []Placement {
	ps := g.Inner.Apply(env, s, screen)
	return mapRects(ps, func(r Rect) Rect { return r.Inset(g.Gap) })
}

func (g *Gap) HandleMessage(msg Message, s *stack.Stack) (Layout, bool) {
	switch msg.Kind {
	case IncreaseGap:
		return &Gap{Gap: g.Gap + g.Step, Step: g.Step, Inner: g.Inner}, true
	case DecreaseGap:
		if g.Gap == 0 {
			return g, false
		}
		return &Gap{Gap: max(g.Gap-g.Step, 0), Step: g.Step, Inner: g.Inner}, true
	}
	inner, ok := g.Inner.HandleMessage(msg, s)
	if !ok {
		return g, false
	}
	return &Gap{Gap: g.Gap, Step: g.Step, Inner: inner}, true
}

func (g *Gap) Description() string {
	return fmt.Sprintf("%s (gap %d)", g.Inner.Description(), g.Gap)
}

func (g *Gap) Copy() Layout {
	return &Gap{Gap: g.Gap, Step: g.Step, Inner: g.Inner.Copy()}
}

func (g *Gap) Spec() Spec {
	inner := g.Inner.Spec()
	return Spec{Type: TypeGap, Gap: g.Gap, Step: g.Step, Inner: &inner}
}
