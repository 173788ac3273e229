package mandel

import (
	"fmt"
	"strings"
)

// Region within the Mandelbrot set
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Center returns the middle of the region.
func (r Region) Center() Point {
	return Point{X: (r.Xmin + r.Xmax) / 2, Y: (r.Ymin + r.Ymax) / 2}
}

// Viewport returns a view of a width x height framebuffer centred on r
// whose vertical span is the height of r. The horizontal span follows the
// framebuffer aspect ratio, so r is not necessarily covered edge to edge.
func (r Region) Viewport(width, height int) Viewport {
	v := NewViewport(width, height)
	v.Center = r.Center()
	if h := r.Ymax - r.Ymin; h > 0 {
		v.Zoom = VerticalExtent / h
	}
	v.clampZoom()
	return v
}

func (r Region) String() string {
	return fmt.Sprintf("[%g, %g]x[%g, %g]", r.Xmin, r.Xmax, r.Ymin, r.Ymax)
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

// Landmark is a named region. The order of Landmarks matches the 1-6 keys.
type Landmark struct {
	Name   string
	Region Region
}

var Landmarks = []Landmark{
	{"seahorse", SeahorseValley},
	{"elephant", ElephantValley},
	{"spiral", SpiralMinibrot},
	{"triple-spiral", TripleSpiral},
	{"dragon", ValleyOfTheDragon},
	{"mini-spiral", MinibrotInMiniSpiral},
}

// LookupLandmark finds a landmark by name, ignoring case.
func LookupLandmark(name string) (Landmark, bool) {
	for _, l := range Landmarks {
		if strings.EqualFold(l.Name, name) {
			return l, true
		}
	}
	return Landmark{}, false
}

// LandmarkNames lists the names accepted by LookupLandmark.
func LandmarkNames() []string {
	names := make([]string, len(Landmarks))
	for i, l := range Landmarks {
		names[i] = l.Name
	}
	return names
}
