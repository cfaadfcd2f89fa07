package layout

import (
	"fmt"

	"github.com/1broseidon/tilecore/internal/stack"
)

// Tall keeps NumMaster windows in a left column taking Ratio of the width
// and stacks the rest on the right.
type Tall struct {
	NumMaster int
	Ratio     float64
	ratios    Ratios
}

// NewTall returns a Tall layout with the given master count and ratio.
func NewTall(numMaster int, ratio float64, ratios Ratios) *Tall {
	return &Tall{NumMaster: max(numMaster, 0), Ratio: ratios.Clamp(ratio), ratios: ratios}
}

func (t *Tall) Apply(_ Env, s *stack.Stack, screen Rect) []Placement {
	ws := windowsOf(s)
	if len(ws) == 0 {
		return nil
	}

	var rects []Rect
	if t.NumMaster == 0 || len(ws) <= t.NumMaster {
		rects = screen.Divide(Vertical, len(ws))
	} else {
		master, rest := screen.Split(Horizontal, t.Ratio)
		rects = append(master.Divide(Vertical, t.NumMaster), rest.Divide(Vertical, len(ws)-t.NumMaster)...)
	}

	out := make([]Placement, len(ws))
	for i, w := range ws {
		out[i] = Placement{Window: w, Rect: rects[i], BorderWidth: InheritBorder}
	}
	return out
}

func (t *Tall) HandleMessage(msg Message, _ *stack.Stack) (Layout, bool) {
	next := *t
	switch msg.Kind {
	case Increase:
		next.Ratio = t.ratios.Adjust(t.Ratio, 1)
	case Decrease:
		next.Ratio = t.ratios.Adjust(t.Ratio, -1)
	case IncreaseMaster:
		next.NumMaster++
	case DecreaseMaster:
		if t.NumMaster == 0 {
			return t, false
		}
		next.NumMaster--
	default:
		return t, false
	}
	return &next, true
}

func (t *Tall) Description() string {
	return fmt.Sprintf("Tall %d", t.NumMaster)
}

func (t *Tall) Copy() Layout {
	c := *t
	return &c
}

func (t *Tall) Spec() Spec {
	n := t.NumMaster
	return Spec{Type: TypeTall, NumMaster: &n, Ratio: t.Ratio}
}
