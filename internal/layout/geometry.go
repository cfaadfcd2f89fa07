package layout

import (
	"fmt"
	"math"
	"strings"
)

// Rect represents a screen region in pixels
type Rect struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Transpose swaps the x/y and width/height axes.
func (r Rect) Transpose() Rect {
	return Rect{X: r.Y, Y: r.X, Width: r.Height, Height: r.Width}
}

// Inset shrinks r by n pixels on every side. Width and height never go
// below zero.
func (r Rect) Inset(n int) Rect {
	return Rect{
		X:      r.X + n,
		Y:      r.Y + n,
		Width:  max(r.Width-2*n, 0),
		Height: max(r.Height-2*n, 0),
	}
}

// Split divides r along axis. The first part receives ratio of the space and
// the second part the remainder, so the two always tile r exactly.
func (r Rect) Split(axis Axis, ratio float64) (Rect, Rect) {
	if axis == Horizontal {
		w := splitPoint(r.Width, ratio)
		return Rect{X: r.X, Y: r.Y, Width: w, Height: r.Height},
			Rect{X: r.X + w, Y: r.Y, Width: r.Width - w, Height: r.Height}
	}
	h := splitPoint(r.Height, ratio)
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: h},
		Rect{X: r.X, Y: r.Y + h, Width: r.Width, Height: r.Height - h}
}

// Divide cuts r into n equal parts along axis. Leftover pixels go to the
// leading parts one at a time.
func (r Rect) Divide(axis Axis, n int) []Rect {
	if n <= 0 {
		return nil
	}
	size := r.Height
	if axis == Horizontal {
		size = r.Width
	}
	base, extra := size/n, size%n

	out := make([]Rect, n)
	offset := 0
	for i := range out {
		part := base
		if i < extra {
			part++
		}
		if axis == Horizontal {
			out[i] = Rect{X: r.X + offset, Y: r.Y, Width: part, Height: r.Height}
		} else {
			out[i] = Rect{X: r.X, Y: r.Y + offset, Width: r.Width, Height: part}
		}
		offset += part
	}
	return out
}

func splitPoint(size int, ratio float64) int {
	p := int(math.Round(float64(size) * ratio))
	return min(max(p, 0), size)
}

// Axis is the orientation of a split.
type Axis int

const (
	// Horizontal places children side by side, splitting along x.
	Horizontal Axis = iota
	// Vertical stacks children, splitting along y.
	Vertical
)

// Toggle returns the other axis.
func (a Axis) Toggle() Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// ParseAxis parses "horizontal" or "vertical".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return Horizontal, nil
	case "vertical", "v":
		return Vertical, nil
	default:
		return Horizontal, fmt.Errorf("invalid axis %q (valid: horizontal, vertical)", s)
	}
}

// Direction names a screen edge or a spatial movement.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{Up: "up", Down: "down", Left: "left", Right: "right"}

func (d Direction) String() string {
	if d < Up || d > Right {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection parses one of up, down, left, right.
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d, n := range directionNames {
		if n == name {
			return Direction(d), nil
		}
	}
	return Up, fmt.Errorf("invalid direction %q (valid: up, down, left, right)", s)
}

// Axis returns Horizontal for Left/Right and Vertical for Up/Down.
func (d Direction) Axis() Axis {
	if d == Left || d == Right {
		return Horizontal
	}
	return Vertical
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Transpose maps a direction into the coordinate system of a transposed
// rectangle: Left and Up swap, as do Right and Down.
func (d Direction) Transpose() Direction {
	switch d {
	case Up:
		return Left
	case Left:
		return Up
	case Down:
		return Right
	default:
		return Down
	}
}

// Struts are the pixels reserved by panels along each screen edge.
type Struts struct {
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
	Right  int `json:"right"`
}

// Transpose swaps the top/left and bottom/right reservations.
func (s Struts) Transpose() Struts {
	return Struts{Top: s.Left, Bottom: s.Right, Left: s.Top, Right: s.Bottom}
}
