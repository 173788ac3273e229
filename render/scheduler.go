package render

import (
	"image"
	"image/draw"
	"sync"
)

// tileScheduler hands out tiles of one image to workers and collects the
// finished tiles into it.
type tileScheduler struct {
	img *image.RGBA

	totalPixels    int
	finishedPixels int

	unstarted []image.Rectangle
	inProcess map[image.Rectangle]struct{}
	m         sync.Mutex
}

func newTileScheduler(w, h, tileW, tileH int) *tileScheduler {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	return &tileScheduler{
		img:         img,
		unstarted:   splitRectNoClip(img.Bounds(), tileW, tileH),
		inProcess:   make(map[image.Rectangle]struct{}),
		totalPixels: w * h,
	}
}

// popTile takes the next unstarted tile, top rows first.
func (ts *tileScheduler) popTile() (tile image.Rectangle, found bool) {
	ts.m.Lock()
	defer ts.m.Unlock()

	if len(ts.unstarted) == 0 {
		return image.Rectangle{}, false
	}
	tile = ts.unstarted[0]
	ts.unstarted = ts.unstarted[1:]

	// Move popped tile to currently processed tiles
	ts.inProcess[tile] = struct{}{}
	return tile, true
}

// tileFinished copies a rendered tile into the image and returns the
// finished share of the image.
func (ts *tileScheduler) tileFinished(tileImg *image.RGBA) float64 {
	rect := tileImg.Bounds()
	ts.m.Lock()
	defer ts.m.Unlock()

	draw.Draw(
		ts.img,
		rect,             // destination rectangle (global coords)
		tileImg,          // source image
		tileImg.Rect.Min, // source start
		draw.Src,
	)

	if _, found := ts.inProcess[rect]; found {
		ts.finishedPixels += rect.Dx() * rect.Dy()
		delete(ts.inProcess, rect)
	}

	return float64(ts.finishedPixels) / float64(ts.totalPixels)
}

func (ts *tileScheduler) done() bool {
	ts.m.Lock()
	defer ts.m.Unlock()
	return len(ts.unstarted) == 0 && len(ts.inProcess) == 0
}

// splitRectNoClip splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func splitRectNoClip(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := tileH
		if oy+th > h {
			th = h - oy
		}

		for ox := 0; ox < w; ox += tileW {
			tw := tileW
			if ox+tw > w {
				tw = w - ox
			}

			tile := image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			)
			tiles = append(tiles, tile)
		}
	}

	return tiles
}
