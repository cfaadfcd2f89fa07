// Package preview draws layout placements as box-drawing art for the
// terminal.
package preview

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/tilecore/internal/layout"
	"github.com/1broseidon/tilecore/internal/stack"
)

const (
	DefaultWidth  = 64
	DefaultHeight = 20
)

// CanvasSize returns a canvas that fits stdout, leaving room for a summary
// line. It falls back to the defaults when stdout is not a terminal.
func CanvasSize() (width, height int) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return DefaultWidth, DefaultHeight
	}
	w, h, err := term.GetSize(fd)
	if err != nil || w < 10 || h < 6 {
		return DefaultWidth, DefaultHeight
	}
	// Terminal cells are about twice as tall as wide.
	width = min(w, 120)
	height = min(h-3, width*9/32)
	return width, max(height, 5)
}

// Summarize describes placements in one line.
func Summarize(placements []layout.Placement) string {
	if len(placements) == 0 {
		return "no windows"
	}

	minW, minH := placements[0].Rect.Width, placements[0].Rect.Height
	maxW, maxH := minW, minH
	for _, p := range placements[1:] {
		minW = min(minW, p.Rect.Width)
		minH = min(minH, p.Rect.Height)
		maxW = max(maxW, p.Rect.Width)
		maxH = max(maxH, p.Rect.Height)
	}

	if minW == maxW && minH == maxH {
		return fmt.Sprintf("%d windows • %d×%d px each", len(placements), minW, minH)
	}
	return fmt.Sprintf("%d windows • min %d×%d • max %d×%d", len(placements), minW, minH, maxW, maxH)
}

// Render draws each placement, labelled with its window ID, on a
// width×height canvas representing screen.
func Render(placements []layout.Placement, screen layout.Rect, width, height int) []string {
	c := draw(placements, screen, width, height)
	lines := make([]string, len(c.cells))
	for i, row := range c.cells {
		lines[i] = string(row)
	}
	return lines
}

// RenderFocused is Render with the outline and label of the focused window
// drawn in style.
func RenderFocused(placements []layout.Placement, screen layout.Rect, width, height int, focused stack.Window, style lipgloss.Style) []string {
	c := draw(placements, screen, width, height)
	target := -1
	for i, p := range placements {
		if p.Window == focused {
			target = i
		}
	}

	lines := make([]string, len(c.cells))
	for y, row := range c.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && (c.owner[y][x] == target) == (c.owner[y][start] == target) {
				continue
			}
			run := string(row[start:x])
			if target >= 0 && c.owner[y][start] == target {
				run = style.Render(run)
			}
			b.WriteString(run)
			start = x
		}
		lines[y] = b.String()
	}
	return lines
}

// canvas holds the drawn cells and, per cell, the index of the placement
// that drew it or -1.
type canvas struct {
	cells [][]rune
	owner [][]int
}

func draw(placements []layout.Placement, screen layout.Rect, width, height int) canvas {
	width, height = max(width, 0), max(height, 0)
	c := canvas{cells: make([][]rune, height), owner: make([][]int, height)}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", width))
		c.owner[y] = make([]int, width)
		for x := range c.owner[y] {
			c.owner[y][x] = -1
		}
	}
	if width < 5 || height < 3 || screen.Width <= 0 || screen.Height <= 0 {
		return c
	}

	for i, p := range placements {
		r := p.Rect
		r.X -= screen.X
		r.Y -= screen.Y
		drawTile(c, i, r, strconv.FormatUint(uint64(p.Window), 10), screen.Width, screen.Height, width, height)
	}

	drawBorder(c.cells, width, height)
	return c
}

func drawTile(c canvas, owner int, rect layout.Rect, label string, monW, monH, canvasW, canvasH int) {
	x1 := rect.X * canvasW / monW
	y1 := rect.Y * canvasH / monH
	x2 := (rect.X + rect.Width) * canvasW / monW
	y2 := (rect.Y + rect.Height) * canvasH / monH

	// Keep tiles inside the outer frame.
	x1 = max(x1, 1)
	y1 = max(y1, 1)
	x2 = min(x2, canvasW-2)
	y2 = min(y2, canvasH-2)

	if x2 <= x1 || y2 <= y1 {
		return
	}

	set := func(x, y int, r rune) {
		c.cells[y][x] = r
		c.owner[y][x] = owner
	}
	for x := x1; x <= x2; x++ {
		set(x, y1, '─')
		set(x, y2, '─')
	}
	for y := y1; y <= y2; y++ {
		set(x1, y, '│')
		set(x2, y, '│')
	}
	set(x1, y1, '┌')
	set(x2, y1, '┐')
	set(x1, y2, '└')
	set(x2, y2, '┘')

	centerY := (y1 + y2) / 2
	centerX := (x1 + x2) / 2
	if centerY > y1 && centerY < y2 && centerX > x1 && centerX < x2 {
		startX := centerX - len(label)/2
		for i, r := range label {
			if startX+i > x1 && startX+i < x2 {
				set(startX+i, centerY, r)
			}
		}
	}
}

func drawBorder(canvas [][]rune, width, height int) {
	for x := 0; x < width; x++ {
		canvas[0][x] = '═'
		canvas[height-1][x] = '═'
	}
	for y := 0; y < height; y++ {
		canvas[y][0] = '║'
		canvas[y][width-1] = '║'
	}
	canvas[0][0] = '╔'
	canvas[0][width-1] = '╗'
	canvas[height-1][0] = '╚'
	canvas[height-1][width-1] = '╝'
}

