// Package layout computes window placements for a screen and applies
// runtime reconfiguration messages to layout state.
//
// Layouts are values: HandleMessage never mutates its receiver and returns a
// replacement instead, so a layout can be shared between snapshots.
package layout

import "github.com/1broseidon/tilecore/internal/stack"

// InheritBorder marks a placement whose border width was not set by any
// layout; the caller substitutes its configured default.
const InheritBorder = -1

// Placement is the geometry computed for one window.
type Placement struct {
	Window      stack.Window `json:"window"`
	Rect        Rect         `json:"rect"`
	BorderWidth int          `json:"border_width"`
}

// Env supplies window-system information a layout may query while applying.
type Env interface {
	// Struts reports the space reserved by panels on the given screen.
	Struts(screen Rect) Struts
}

// NoEnv reports no reservations.
type NoEnv struct{}

func (NoEnv) Struts(Rect) Struts { return Struts{} }

// Layout maps a window stack and a screen rectangle to placements.
type Layout interface {
	// Apply places every window of s exactly once, in stack order. A nil
	// stack yields no placements.
	Apply(env Env, s *stack.Stack, screen Rect) []Placement
	// HandleMessage returns the reconfigured layout and true, or the
	// receiver and false when the message does not apply.
	HandleMessage(msg Message, s *stack.Stack) (Layout, bool)
	Description() string
	Copy() Layout
	Spec() Spec
}

// Ratios bound every split-ratio adjustment.
type Ratios struct {
	Step float64 `json:"step" yaml:"step"`
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
}

// DefaultRatios adjusts by 0.05 within [0.1, 0.9].
var DefaultRatios = Ratios{Step: 0.05, Min: 0.1, Max: 0.9}

// Clamp limits v to [Min, Max].
func (r Ratios) Clamp(v float64) float64 {
	return min(max(v, r.Min), r.Max)
}

// Adjust moves v by delta steps and clamps the result.
func (r Ratios) Adjust(v float64, delta int) float64 {
	return r.Clamp(v + float64(delta)*r.Step)
}

func windowsOf(s *stack.Stack) []stack.Window {
	if s == nil {
		return nil
	}
	return s.Integrate()
}

func envOrDefault(env Env) Env {
	if env == nil {
		return NoEnv{}
	}
	return env
}

// mapRects rewrites the rectangle of every placement.
func mapRects(ps []Placement, fn func(Rect) Rect) []Placement {
	for i := range ps {
		ps[i].Rect = fn(ps[i].Rect)
	}
	return ps
}
