package render

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	mandel "github.com/marben/mandelzoom"
)

// remoteTileTimeout bounds one remote tile. A worker that misses it is
// dropped from the render and its tile is drawn locally.
const remoteTileTimeout = 30 * time.Second

// Tiles renders single tiles on the local CPU. Workers serve it to a
// feed server over irpc.
type Tiles struct {
	// OnTile, if set, is called after each tile.
	OnTile func(tile image.Rectangle)
}

var _ mandel.TileRenderer = Tiles{}

// RenderTile renders tile of v with palette p.
func (t Tiles) RenderTile(ctx context.Context, v mandel.Viewport, p mandel.Palette, tile image.Rectangle) (image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return image.RGBA{}, err
	}
	if err := validate(v); err != nil {
		return image.RGBA{}, err
	}
	if tile.Empty() || !tile.In(image.Rect(0, 0, v.Width, v.Height)) {
		return image.RGBA{}, fmt.Errorf("render: tile %v outside %dx%d image", tile, v.Width, v.Height)
	}

	img := renderTile(v, p, tile)
	if t.OnTile != nil {
		t.OnTile(tile)
	}
	return *img, nil
}

// Pool holds the remote tile renderers currently lending their CPUs.
// The zero value is empty and ready to use.
type Pool struct {
	m       sync.Mutex
	workers map[*remote]struct{}
}

type remote struct {
	name string
	tr   mandel.TileRenderer
}

// Join adds tr to the pool until leave is called. Renders already in
// flight keep using tr until it fails.
func (p *Pool) Join(name string, tr mandel.TileRenderer) (leave func()) {
	w := &remote{name: name, tr: tr}

	p.m.Lock()
	defer p.m.Unlock()
	if p.workers == nil {
		p.workers = make(map[*remote]struct{})
	}
	p.workers[w] = struct{}{}

	return func() {
		p.m.Lock()
		defer p.m.Unlock()
		delete(p.workers, w)
	}
}

// Len returns the number of joined workers.
func (p *Pool) Len() int {
	p.m.Lock()
	defer p.m.Unlock()
	return len(p.workers)
}

func (p *Pool) members() []*remote {
	if p == nil {
		return nil
	}
	p.m.Lock()
	defer p.m.Unlock()

	ws := make([]*remote, 0, len(p.workers))
	for w := range p.workers {
		ws = append(ws, w)
	}
	return ws
}

// render asks the worker for one tile and checks the reply covers it.
func (w *remote) render(ctx context.Context, v mandel.Viewport, p mandel.Palette, tile image.Rectangle) (*image.RGBA, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTileTimeout)
	defer cancel()

	img, err := w.tr.RenderTile(ctx, v, p, tile)
	if err != nil {
		return nil, err
	}
	if img.Rect != tile || img.Stride != 4*tile.Dx() || len(img.Pix) != img.Stride*tile.Dy() {
		return nil, fmt.Errorf("worker %s returned %v stride %d with %d bytes for tile %v",
			w.name, img.Rect, img.Stride, len(img.Pix), tile)
	}
	return &img, nil
}
