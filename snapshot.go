package mandel

import (
	"context"
	"fmt"
	"image"
	"time"
)

// Renderer draws a viewport on the CPU.
type Renderer interface {
	Render(ctx context.Context, v Viewport, p Palette) (*image.RGBA, error)
}

// Publisher receives the viewer state once per frame.
// Publish must not block the render loop.
type Publisher interface {
	Publish(s Snapshot)
}

// Snapshot is a copy of what the viewer shows, for observers outside the
// render loop.
type Snapshot struct {
	Center        Point     `json:"center"`
	Zoom          float64   `json:"zoom"`
	MaxIterations int       `json:"maxIterations"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	Palette       Palette   `json:"palette"`
	Cursor        Point     `json:"cursor"`
	Frame         uint64    `json:"frame"`
	Time          time.Time `json:"time"`
}

// Viewport rebuilds the viewport the snapshot was taken from.
func (s Snapshot) Viewport() Viewport {
	return Viewport{
		Center:        s.Center,
		Zoom:          s.Zoom,
		MaxIterations: s.MaxIterations,
		Width:         s.Width,
		Height:        s.Height,
	}
}

// Title formats the window title: cursor plane position, zoom and iteration cap.
func Title(v Viewport, cursor Point) string {
	return fmt.Sprintf("Mandelbrot zoom | x: %.10f y: %.10f | zoom: %.4g | iterations: %d",
		cursor.X, cursor.Y, v.Zoom, v.MaxIterations)
}
