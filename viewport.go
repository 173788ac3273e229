package mandel

import "math"

const (
	// VerticalExtent is the plane span shown top to bottom at zoom 1.
	VerticalExtent = 4.0

	// ZoomStep is the scroll zoom factor. One wheel notch zooms by 10%.
	ZoomStep = 1.1

	// MinZoom is the zoom floor. Below it the set shrinks to a dot.
	MinZoom = 0.5

	// Key zoom uses a multiply on the way in and a different multiply on
	// the way out, so I followed by O does not land on the same zoom.
	KeyZoomIn  = 1.1
	KeyZoomOut = 0.9

	// KeyPanFraction is the share of the visible span moved per pan key.
	KeyPanFraction = 0.01

	// Iteration cap bounds, step and start value.
	IterationsMin     = 50
	IterationsMax     = 2000
	IterationsStep    = 10
	IterationsDefault = 250
)

// Point is a 2D coordinate, either in window pixels or in the complex plane.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Complex returns p as x+yi.
func (p Point) Complex() complex128 { return complex(p.X, p.Y) }

// FlipY converts a top-left origin pixel to a bottom-left origin pixel,
// so that +y points up like the imaginary axis.
func FlipY(p Point, height int) Point {
	return Point{X: p.X, Y: float64(height) - p.Y}
}

// Direction names one of the four key pan directions.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Viewport is the visible window onto the complex plane.
//
// Center is the plane point drawn at the middle of the framebuffer and
// Zoom scales the visible span: at zoom 1 the framebuffer covers
// VerticalExtent units top to bottom, and proportionally more or less
// left to right depending on the framebuffer aspect ratio.
//
// All mutating methods keep Zoom >= MinZoom and MaxIterations within
// [IterationsMin, IterationsMax].
type Viewport struct {
	Center        Point
	Zoom          float64
	MaxIterations int
	Width, Height int
}

// NewViewport returns the start-up view of a width x height framebuffer.
func NewViewport(width, height int) Viewport {
	return Viewport{
		Zoom:          1.0,
		MaxIterations: IterationsDefault,
		Width:         width,
		Height:        height,
	}
}

// Extent returns the plane span visible across each axis at the current zoom.
func (v Viewport) Extent() (horizontal, vertical float64) {
	aspect := float64(v.Width) / float64(v.Height)
	return aspect * VerticalExtent / v.Zoom, VerticalExtent / v.Zoom
}

// ToPlane maps a pixel, already flipped so +y is up, into the plane.
// Width and Height must be positive.
func (v Viewport) ToPlane(p Point) Point {
	lenx, leny := v.Extent()
	return Point{
		X: (p.X/float64(v.Width)-0.5)*lenx + v.Center.X,
		Y: (p.Y/float64(v.Height)-0.5)*leny + v.Center.Y,
	}
}

// CursorToPlane maps a top-left origin cursor position into the plane.
func (v Viewport) CursorToPlane(cursor Point) Point {
	return v.ToPlane(FlipY(cursor, v.Height))
}

// Resize records a new framebuffer size. Non-positive sizes, reported
// while a window is minimised, are ignored so the transform stays defined.
func (v *Viewport) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	v.Width, v.Height = width, height
	return true
}

// ZoomAt zooms by ZoomStep around the flipped pixel p. The plane point
// under p before the call is under p afterwards, unless the zoom floor
// kicks in.
func (v *Viewport) ZoomAt(p Point, in bool) {
	c := v.ToPlane(p)

	power := ZoomStep
	if in {
		power = 1 / ZoomStep
	}

	v.Center.X = v.Center.X*power + c.X*(1-power)
	v.Center.Y = v.Center.Y*power + c.Y*(1-power)
	v.Zoom /= power
	v.clampZoom()
}

// Pan moves the centre against delta, so dragging the plane by delta
// keeps the grabbed point under the pointer.
func (v *Viewport) Pan(delta Point) {
	v.Center.X -= delta.X
	v.Center.Y -= delta.Y
}

// PanKey moves the centre by KeyPanFraction of the visible span, which
// keeps key panning visually the same speed at any zoom.
func (v *Viewport) PanKey(d Direction) {
	lenx, leny := v.Extent()
	switch d {
	case Left:
		v.Center.X -= KeyPanFraction * lenx
	case Right:
		v.Center.X += KeyPanFraction * lenx
	case Up:
		v.Center.Y += KeyPanFraction * leny
	case Down:
		v.Center.Y -= KeyPanFraction * leny
	}
}

// ZoomKey applies the discrete key zoom around the centre.
func (v *Viewport) ZoomKey(in bool) {
	if in {
		v.Zoom *= KeyZoomIn
	} else {
		v.Zoom *= KeyZoomOut
	}
	v.clampZoom()
}

// AdjustIterations raises or lowers the iteration cap by one step.
func (v *Viewport) AdjustIterations(up bool) {
	if up {
		v.MaxIterations = min(v.MaxIterations+IterationsStep, IterationsMax)
	} else {
		v.MaxIterations = max(v.MaxIterations-IterationsStep, IterationsMin)
	}
}

func (v *Viewport) clampZoom() {
	v.Zoom = math.Max(v.Zoom, MinZoom)
}

// Region returns the plane rectangle currently visible.
func (v Viewport) Region() Region {
	lenx, leny := v.Extent()
	return Region{
		Xmin: v.Center.X - lenx/2,
		Xmax: v.Center.X + lenx/2,
		Ymin: v.Center.Y - leny/2,
		Ymax: v.Center.Y + leny/2,
	}
}
