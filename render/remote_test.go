package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"net"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/marben/irpc"

	mandel "github.com/marben/mandelzoom"
)

// tcpEndpoints connects two irpc endpoints over loopback. The first one
// serves svc.
func tcpEndpoints(t *testing.T, svc *mandel.TileRendererIrpcService) (server, client *irpc.Endpoint) {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := l.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()

	cc, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	sc, ok := <-accepted
	if !ok {
		t.Fatal("accept failed")
	}

	server = irpc.NewEndpoint(sc, irpc.WithEndpointServices(svc))
	client = irpc.NewEndpoint(cc)
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return server, client
}

type failingTiles struct{ calls atomic.Int32 }

func (f *failingTiles) RenderTile(context.Context, mandel.Viewport, mandel.Palette, image.Rectangle) (image.RGBA, error) {
	f.calls.Add(1)
	return image.RGBA{}, errors.New("worker crashed")
}

// shiftedTiles answers every request with the wrong rectangle.
type shiftedTiles struct{}

func (shiftedTiles) RenderTile(_ context.Context, v mandel.Viewport, p mandel.Palette, tile image.Rectangle) (image.RGBA, error) {
	return *renderTile(v, p, tile.Add(image.Pt(1, 0))), nil
}

func TestTilesRenderTile(t *testing.T) {
	v := mandel.SeahorseValley.Viewport(20, 10)
	tile := image.Rect(5, 2, 12, 9)

	var calls int
	got, err := Tiles{OnTile: func(image.Rectangle) { calls++ }}.RenderTile(context.Background(), v, mandel.PaletteSmooth, tile)
	if err != nil {
		t.Fatal(err)
	}
	if want := renderTile(v, mandel.PaletteSmooth, tile); got.Rect != tile || !bytes.Equal(got.Pix, want.Pix) {
		t.Errorf("tile %v differs from a local render", got.Rect)
	}
	if calls != 1 {
		t.Errorf("OnTile called %d times", calls)
	}
}

func TestTilesRenderTileErrors(t *testing.T) {
	v := mandel.NewViewport(20, 10)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		v    mandel.Viewport
		tile image.Rectangle
	}{
		{"outside", context.Background(), v, image.Rect(15, 0, 25, 10)},
		{"empty", context.Background(), v, image.Rect(3, 3, 3, 8)},
		{"bad viewport", context.Background(), mandel.Viewport{Width: 20, Height: 10}, image.Rect(0, 0, 4, 4)},
		{"cancelled", cancelled, v, image.Rect(0, 0, 4, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (Tiles{}).RenderTile(tt.ctx, tt.v, mandel.PaletteClassic, tt.tile); err == nil {
				t.Error("rendered")
			}
		})
	}
}

func TestPoolJoinLeave(t *testing.T) {
	var p Pool
	leaveA := p.Join("a", Tiles{})
	leaveB := p.Join("b", Tiles{})
	if n := p.Len(); n != 2 {
		t.Fatalf("%d workers", n)
	}
	leaveA()
	if n := p.Len(); n != 1 || p.members()[0].name != "b" {
		t.Errorf("after leave: %d workers", n)
	}
	leaveB()
	if n := p.Len(); n != 0 {
		t.Errorf("%d workers after both left", n)
	}

	var none *Pool
	if ws := none.members(); ws != nil {
		t.Errorf("nil pool has members %v", ws)
	}
}

func TestRenderFallsBackWhenWorkersFail(t *testing.T) {
	v := mandel.SeahorseValley.Viewport(30, 20)
	v.MaxIterations = 200

	want, err := (&Renderer{Workers: 1}).Render(context.Background(), v, mandel.PaletteClassic)
	if err != nil {
		t.Fatal(err)
	}

	var pool Pool
	failing := &failingTiles{}
	pool.Join("failing", failing)
	pool.Join("shifted", shiftedTiles{})

	got, err := (&Renderer{Workers: 1, TileSize: 4, Remote: &pool}).Render(context.Background(), v, mandel.PaletteClassic)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("render with failing workers differs from a local render")
	}
	if n := failing.calls.Load(); n > 1 {
		t.Errorf("failing worker asked %d times, want at most once", n)
	}
}

func TestRenderOverIrpc(t *testing.T) {
	var served atomic.Int32
	svc := mandel.NewTileRendererIrpcService(Tiles{OnTile: func(image.Rectangle) { served.Add(1) }})
	_, ep := tcpEndpoints(t, svc)

	client, err := mandel.NewTileRendererIrpcClient(ep)
	if err != nil {
		t.Fatal(err)
	}

	v := mandel.SeahorseValley.Viewport(24, 16)
	v.MaxIterations = 150
	ctx := context.Background()

	tile := image.Rect(8, 4, 16, 12)
	img, err := client.RenderTile(ctx, v, mandel.PaletteSmooth, tile)
	if err != nil {
		t.Fatal(err)
	}
	if want := renderTile(v, mandel.PaletteSmooth, tile); img.Rect != tile || !bytes.Equal(img.Pix, want.Pix) {
		t.Errorf("remote tile %v differs from a local render", img.Rect)
	}

	_, err = client.RenderTile(ctx, v, mandel.PaletteSmooth, image.Rect(20, 0, 30, 4))
	if err == nil || !strings.Contains(err.Error(), "outside") {
		t.Errorf("remote error = %v", err)
	}

	var pool Pool
	pool.Join("irpc", client)
	want, err := (&Renderer{Workers: 1}).Render(ctx, v, mandel.PaletteSmooth)
	if err != nil {
		t.Fatal(err)
	}
	got, err := (&Renderer{Workers: 1, TileSize: 4, Remote: &pool}).Render(ctx, v, mandel.PaletteSmooth)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("render with an irpc worker differs from a local render")
	}
	if served.Load() < 1 {
		t.Error("worker served no tiles")
	}
}
