// Package render draws Mandelbrot viewports on the CPU, pixel for pixel the
// way the GPU shader does, for snapshots and headless export.
package render

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/mandelzoom"
)

const defaultTileSize = 64

// Renderer renders viewports in tiles on a pool of goroutines.
// The zero value is ready to use.
type Renderer struct {
	// Workers is the number of tiles rendered at once. Zero means one per CPU.
	Workers int

	// TileSize is the tile edge in pixels. Zero means 64.
	TileSize int

	// Logger receives progress at debug level. Nil discards.
	Logger *slog.Logger

	// OnTile, if set, is called from the worker goroutine after each tile.
	OnTile func(tile image.Rectangle)

	// Remote, if set, lends its joined workers to every render next to
	// the local goroutines.
	Remote *Pool
}

var _ mandel.Renderer = (*Renderer)(nil)

// Render draws v with palette p. It stops early with the context's error
// if ctx is cancelled.
func (r *Renderer) Render(ctx context.Context, v mandel.Viewport, p mandel.Palette) (*image.RGBA, error) {
	if err := validate(v); err != nil {
		return nil, err
	}

	log := r.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	tileSize := r.TileSize
	if tileSize <= 0 {
		tileSize = defaultTileSize
	}
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ts := newTileScheduler(v.Width, v.Height, tileSize, tileSize)

	g, ctx := errgroup.WithContext(ctx)
	for range workers {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				tile, found := ts.popTile()
				if !found {
					return nil
				}
				finished := ts.tileFinished(renderTile(v, p, tile))
				log.Debug("tile rendered", "tile", tile, "finished", finished)
				if r.OnTile != nil {
					r.OnTile(tile)
				}
			}
		})
	}
	remotes := r.Remote.members()
	for _, w := range remotes {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				tile, found := ts.popTile()
				if !found {
					return nil
				}
				img, err := w.render(ctx, v, p, tile)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					log.Warn("remote tile failed, rendering locally", "worker", w.name, "tile", tile, "err", err)
					ts.tileFinished(renderTile(v, p, tile))
					return nil
				}
				finished := ts.tileFinished(img)
				log.Debug("tile rendered", "tile", tile, "worker", w.name, "finished", finished)
				if r.OnTile != nil {
					r.OnTile(tile)
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if !ts.done() {
		return nil, fmt.Errorf("render: tiles left unrendered")
	}

	log.Debug("viewport rendered", "size", fmt.Sprintf("%dx%d", v.Width, v.Height), "zoom", v.Zoom, "workers", workers, "remote", len(remotes))
	return ts.img, nil
}

func validate(v mandel.Viewport) error {
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("render: invalid image size %dx%d", v.Width, v.Height)
	}
	if v.Zoom <= 0 || v.MaxIterations <= 0 {
		return fmt.Errorf("render: invalid viewport zoom=%g iterations=%d", v.Zoom, v.MaxIterations)
	}
	return nil
}

// renderTile renders one tile of v. The returned image uses the global
// coordinates of tile.
func renderTile(v mandel.Viewport, p mandel.Palette, tile image.Rectangle) *image.RGBA {
	img := image.NewRGBA(tile)

	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		for px := tile.Min.X; px < tile.Max.X; px++ {
			c := PixelToPlane(v, px, py)
			n, z, trap := Escape(c.Complex(), v.MaxIterations)
			img.SetRGBA(px, py, Color(p, n, v.MaxIterations, z, trap))
		}
	}

	return img
}

// PixelToPlane returns the plane point at the centre of image pixel
// (px, py), origin top-left. This is where the fragment shader samples.
func PixelToPlane(v mandel.Viewport, px, py int) mandel.Point {
	return v.ToPlane(mandel.Point{
		X: float64(px) + 0.5,
		Y: float64(v.Height) - (float64(py) + 0.5),
	})
}
