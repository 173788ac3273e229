package mandel

import (
	"context"
	"image"
)

//go:generate go run github.com/marben/irpc/cmd/irpc $GOFILE

// TileRenderer renders one tile of a viewport. The returned image uses
// the global pixel coordinates of tile.
type TileRenderer interface {
	RenderTile(ctx context.Context, v Viewport, p Palette, tile image.Rectangle) (image.RGBA, error)
}
