package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/tilecore/internal/layout"
)

func TestUpdateStrutsClipsToMonitor(t *testing.T) {
	// Two 1920x1080 monitors side by side; a top panel spans only the left one.
	left := layout.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := layout.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	sp := &ewmh.WmStrutPartial{Top: 30, TopStartX: 0, TopEndX: 1919}

	var got layout.Struts
	updateStruts(left, 3840, 1080, sp, &got)
	if got != (layout.Struts{Top: 30}) {
		t.Fatalf("left struts = %+v", got)
	}

	got = layout.Struts{}
	updateStruts(right, 3840, 1080, sp, &got)
	if got != (layout.Struts{}) {
		t.Fatalf("right struts = %+v, want none", got)
	}
}

func TestUpdateStrutsKeepsLargest(t *testing.T) {
	area := layout.Rect{Width: 1000, Height: 800}
	var got layout.Struts
	updateStruts(area, 1000, 800, &ewmh.WmStrutPartial{Bottom: 20, BottomEndX: 999}, &got)
	updateStruts(area, 1000, 800, &ewmh.WmStrutPartial{Bottom: 40, BottomEndX: 499, Left: 10, LeftEndY: 799}, &got)
	if got != (layout.Struts{Bottom: 40, Left: 10}) {
		t.Fatalf("struts = %+v", got)
	}
}

func TestIntersection(t *testing.T) {
	tests := []struct {
		a, b, want layout.Rect
	}{
		{layout.Rect{Width: 10, Height: 10}, layout.Rect{X: 5, Y: 5, Width: 10, Height: 10}, layout.Rect{X: 5, Y: 5, Width: 5, Height: 5}},
		{layout.Rect{Width: 10, Height: 10}, layout.Rect{X: 10, Width: 5, Height: 5}, layout.Rect{}},
	}
	for _, tt := range tests {
		if got := intersection(tt.a, tt.b); got != tt.want {
			t.Errorf("intersection(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMirrored(t *testing.T) {
	ms := []Monitor{{Bounds: layout.Rect{Width: 800, Height: 600}}}
	if !mirrored(ms, layout.Rect{Width: 800, Height: 600}) {
		t.Fatalf("expected identical bounds to be mirrored")
	}
	if mirrored(ms, layout.Rect{X: 800, Width: 800, Height: 600}) {
		t.Fatalf("distinct bounds reported as mirrored")
	}
}
