package mandel

import "testing"

func TestGestureTransitions(t *testing.T) {
	v := NewViewport(800, 600)
	var g Gesture

	g.Update(&v, Point{100, 100}, false)
	if g.State() != Idle {
		t.Fatalf("state %v without a press", g.State())
	}

	g.Update(&v, Point{100, 100}, true)
	if g.State() != Panning {
		t.Fatalf("state %v after press", g.State())
	}
	if want := v.CursorToPlane(Point{100, 100}); g.Anchor() != want {
		t.Errorf("anchor %v, want %v", g.Anchor(), want)
	}
	if v.Center != (Point{0, 0}) {
		t.Errorf("press alone moved the view to %v", v.Center)
	}

	g.Update(&v, Point{100, 100}, false)
	if g.State() != Idle {
		t.Fatalf("state %v after release", g.State())
	}
}

func TestGestureKeepsGrabbedPointUnderCursor(t *testing.T) {
	v := NewViewport(800, 600)
	v.Zoom = 3
	var g Gesture

	start := Point{200, 150}
	g.Update(&v, start, true)
	grabbed := v.CursorToPlane(start)

	path := []Point{{210, 150}, {260, 190}, {400, 300}, {400, 300}, {-50, 700}, {799, 0}}
	for _, p := range path {
		g.Update(&v, p, true)
		if got := v.CursorToPlane(p); !nearPoint(got, grabbed, eps) {
			t.Fatalf("cursor %v: under cursor %v, grabbed %v", p, got, grabbed)
		}
	}
}

func TestGestureDragMovesOppositeToCursor(t *testing.T) {
	v := NewViewport(800, 600)
	var g Gesture

	g.Update(&v, Point{400, 300}, true)
	// Dragging right by 80 pixels, a tenth of the width.
	g.Update(&v, Point{480, 300}, true)

	lenx, _ := v.Extent()
	if !near(v.Center.X, -lenx/10, eps) || v.Center.Y != 0 {
		t.Errorf("centre %v, want (%f, 0)", v.Center, -lenx/10)
	}
}

func TestGestureIdleAfterRelease(t *testing.T) {
	v := NewViewport(800, 600)
	var g Gesture

	g.Update(&v, Point{400, 300}, true)
	g.Update(&v, Point{500, 300}, true)
	g.Update(&v, Point{500, 300}, false)
	center := v.Center

	g.Update(&v, Point{10, 10}, false)
	if v.Center != center {
		t.Errorf("moving without a button panned to %v", v.Center)
	}
}

func TestGestureCancel(t *testing.T) {
	v := NewViewport(800, 600)
	var g Gesture

	g.Update(&v, Point{400, 300}, true)
	g.Cancel()
	if g.State() != Idle {
		t.Fatalf("state %v after cancel", g.State())
	}

	// Still held: the next frame re-anchors instead of panning.
	g.Update(&v, Point{10, 10}, true)
	if g.State() != Panning || v.Center != (Point{0, 0}) {
		t.Errorf("state %v centre %v", g.State(), v.Center)
	}
}
