package x11

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/tilecore/internal/layout"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	Bounds layout.Rect
}

// GetMonitors retrieves all active monitors using XRandR, ordered by their
// position left to right, then top to bottom.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Disabled CRTCs report a zero mode.
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		bounds := layout.Rect{
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}
		if mirrored(monitors, bounds) {
			continue
		}
		monitors = append(monitors, Monitor{Name: outputName, Bounds: bounds})
	}

	if len(monitors) == 0 {
		// No RandR outputs (e.g. Xvfb): fall back to the root window.
		geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
		if err != nil {
			return nil, fmt.Errorf("failed to get root geometry: %w", err)
		}
		monitors = append(monitors, Monitor{
			Name:   "root",
			Bounds: layout.Rect{Width: int(geom.Width), Height: int(geom.Height)},
		})
	}

	sort.SliceStable(monitors, func(i, j int) bool {
		a, b := monitors[i].Bounds, monitors[j].Bounds
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	for i := range monitors {
		monitors[i].ID = i
	}
	return monitors, nil
}

// mirrored reports whether a CRTC with identical bounds was already seen.
func mirrored(monitors []Monitor, r layout.Rect) bool {
	for _, m := range monitors {
		if m.Bounds == r {
			return true
		}
	}
	return false
}

// DockStruts returns how much of area is reserved by dock windows on each
// edge, from _NET_WM_STRUT_PARTIAL (or _NET_WM_STRUT).
func (c *Connection) DockStruts(area layout.Rect) (layout.Struts, error) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return layout.Struts{}, fmt.Errorf("failed to get root geometry: %w", err)
	}
	rootWidth := int(rootGeom.Width)
	rootHeight := int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return layout.Struts{}, fmt.Errorf("failed to get client list: %w", err)
	}

	var struts layout.Struts
	for _, windowID := range clients {
		if !c.isDock(windowID) {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			updateStruts(area, rootWidth, rootHeight, sp, &struts)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			sp := &ewmh.WmStrutPartial{
				Left:         s.Left,
				Right:        s.Right,
				Top:          s.Top,
				Bottom:       s.Bottom,
				LeftStartY:   0,
				LeftEndY:     uint(rootHeight - 1),
				RightStartY:  0,
				RightEndY:    uint(rootHeight - 1),
				TopStartX:    0,
				TopEndX:      uint(rootWidth - 1),
				BottomStartX: 0,
				BottomEndX:   uint(rootWidth - 1),
			}
			updateStruts(area, rootWidth, rootHeight, sp, &struts)
		}
	}
	return struts, nil
}

func (c *Connection) isDock(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DOCK" {
			return true
		}
	}
	return false
}

func updateStruts(area layout.Rect, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *layout.Struts) {
	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		r := span(int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top))
		if isect := intersection(area, r); isect.Width > 0 && isect.Height > 0 {
			acc.Top = max(acc.Top, isect.Height)
		}
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
	if sp.Bottom > 0 {
		r := span(int(sp.BottomStartX), rootHeight-int(sp.Bottom), int(sp.BottomEndX)+1, rootHeight)
		if isect := intersection(area, r); isect.Width > 0 && isect.Height > 0 {
			acc.Bottom = max(acc.Bottom, isect.Height)
		}
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		r := span(0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1)
		if isect := intersection(area, r); isect.Width > 0 && isect.Height > 0 {
			acc.Left = max(acc.Left, isect.Width)
		}
	}

	// Right strut: x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
	if sp.Right > 0 {
		r := span(rootWidth-int(sp.Right), int(sp.RightStartY), rootWidth, int(sp.RightEndY)+1)
		if isect := intersection(area, r); isect.Width > 0 && isect.Height > 0 {
			acc.Right = max(acc.Right, isect.Width)
		}
	}
}

func span(x1, y1, x2, y2 int) layout.Rect {
	return layout.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

func intersection(a, b layout.Rect) layout.Rect {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return layout.Rect{}
	}
	return span(x1, y1, x2, y2)
}
