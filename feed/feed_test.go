package feed

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/render"
)

func testSnapshot(frame uint64) mandel.Snapshot {
	return mandel.Snapshot{
		Center:        mandel.Point{X: -0.75, Y: 0.125},
		Zoom:          2.5,
		MaxIterations: 300,
		Width:         8,
		Height:        6,
		Palette:       mandel.PaletteSmooth,
		Cursor:        mandel.Point{X: -0.5, Y: 0.25},
		Frame:         frame,
		Time:          time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}
}

func sameSnapshot(a, b mandel.Snapshot) bool {
	if !a.Time.Equal(b.Time) {
		return false
	}
	a.Time, b.Time = time.Time{}, time.Time{}
	return a == b
}

type fakeRenderer struct {
	got mandel.Viewport
	pal mandel.Palette
}

func (f *fakeRenderer) Render(_ context.Context, v mandel.Viewport, p mandel.Palette) (*image.RGBA, error) {
	f.got, f.pal = v, p
	img := image.NewRGBA(image.Rect(0, 0, v.Width, v.Height))
	img.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	return img, nil
}

func TestPublishNeverBlocks(t *testing.T) {
	s := NewServer(nil, nil)
	ch := s.subscribe()
	defer s.unsubscribe(ch)

	for i := range 100 {
		s.Publish(testSnapshot(uint64(i)))
	}

	if got := <-ch; got.Frame != 99 {
		t.Errorf("slow subscriber got frame %d, want the newest", got.Frame)
	}
	select {
	case snap := <-ch:
		t.Errorf("stale frame %d left queued", snap.Frame)
	default:
	}
}

func TestSubscribeGetsLatest(t *testing.T) {
	s := NewServer(nil, nil)
	s.Publish(testSnapshot(7))

	ch := s.subscribe()
	s.unsubscribe(ch)
	if got := <-ch; got.Frame != 7 {
		t.Errorf("frame %d", got.Frame)
	}
	if n := s.subscribers(); n != 0 {
		t.Errorf("%d subscribers after unsubscribe", n)
	}
}

func TestWebsocketStream(t *testing.T) {
	s := NewServer(nil, nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	first := testSnapshot(1)
	s.Publish(first)

	c, err := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	got, err := c.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !sameSnapshot(got, first) {
		t.Errorf("got %+v, want %+v", got, first)
	}

	second := testSnapshot(2)
	second.Zoom = 40
	s.Publish(second)
	got, err = c.Next(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !sameSnapshot(got, second) {
		t.Errorf("got %+v, want %+v", got, second)
	}
}

func TestDialFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws"); err == nil {
		t.Error("dialed a server without a feed")
	}
}

func TestViewportEndpoint(t *testing.T) {
	s := NewServer(nil, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/viewport", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("before publish: status %d", rec.Code)
	}

	want := testSnapshot(3)
	s.Publish(want)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/viewport", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}
	var got mandel.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if !sameSnapshot(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	r := &fakeRenderer{}
	s := NewServer(r, nil)
	want := testSnapshot(4)
	s.Publish(want)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/snapshot.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if r.got != want.Viewport() || r.pal != mandel.PaletteSmooth {
		t.Errorf("rendered %+v with %v", r.got, r.pal)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 6) {
		t.Errorf("bounds %v", img.Bounds())
	}
}

func TestSnapshotEndpointWithoutRenderer(t *testing.T) {
	s := NewServer(nil, nil)
	s.Publish(testSnapshot(5))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/snapshot.png", nil))
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status %d", rec.Code)
	}
}

func TestListenAndServeStops(t *testing.T) {
	s := NewServer(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("ListenAndServe did not return")
	}
}

// blockingRenderer holds every render until release is closed.
type blockingRenderer struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingRenderer) Render(ctx context.Context, v mandel.Viewport, _ mandel.Palette) (*image.RGBA, error) {
	b.started <- struct{}{}
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return image.NewRGBA(image.Rect(0, 0, v.Width, v.Height)), nil
}

func TestSnapshotRendersCapped(t *testing.T) {
	r := &blockingRenderer{started: make(chan struct{}), release: make(chan struct{})}
	s := NewServer(r, nil)
	s.Publish(testSnapshot(6))
	h := s.Handler()

	codes := make(chan int, MaxSnapshotRenders)
	for range MaxSnapshotRenders {
		go func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/snapshot.png", nil))
			codes <- rec.Code
		}()
		<-r.started
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/snapshot.png", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("render over the cap: status %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("no Retry-After on a refused render")
	}

	close(r.release)
	for range MaxSnapshotRenders {
		if code := <-codes; code != http.StatusOK {
			t.Errorf("capped render: status %d", code)
		}
	}

	// slots are free again
	go func() { <-r.started }()
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/snapshot.png", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("render after the others finished: status %d", rec.Code)
	}
}

func TestWebsocketOrigin(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serve := func(patterns []string) string {
		s := NewServer(nil, nil)
		s.OriginPatterns = patterns
		srv := httptest.NewServer(s.Handler())
		t.Cleanup(srv.Close)
		return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	}
	dialFrom := func(url string) error {
		c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{
			HTTPHeader: http.Header{"Origin": {"http://elsewhere.example"}},
		})
		if err == nil {
			c.CloseNow()
		}
		return err
	}

	sameOrigin := serve(nil)
	if err := dialFrom(sameOrigin); err == nil {
		t.Error("cross-origin dial accepted by default")
	}
	// clients sending no Origin header, like mandelsnap, still get through
	c, err := Dial(ctx, sameOrigin)
	if err != nil {
		t.Fatalf("dial without origin: %v", err)
	}
	c.Close()

	if err := dialFrom(serve([]string{"elsewhere.example"})); err != nil {
		t.Errorf("allowed origin refused: %v", err)
	}
}

func TestWorkersWithoutServe(t *testing.T) {
	s := NewServer(nil, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workers", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status %d", rec.Code)
	}

	if err := s.ServeWorkers(context.Background()); err == nil {
		t.Error("ServeWorkers ran without a pool")
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWorkerJoinsAndLeaves(t *testing.T) {
	pool := &render.Pool{}
	s := NewServer(&render.Renderer{Workers: 1, TileSize: 2, Remote: pool}, nil)
	s.Workers = pool
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	serveCtx, stopServe := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- s.ServeWorkers(serveCtx) }()
	waitFor(t, "worker listener", func() bool { return s.workerListener() != nil })

	var tiles atomic.Int32
	workCtx, stopWork := context.WithCancel(context.Background())
	worked := make(chan error, 1)
	go func() {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/workers"
		worked <- Work(workCtx, url, render.Tiles{OnTile: func(image.Rectangle) { tiles.Add(1) }}, nil)
	}()
	waitFor(t, "worker to join", func() bool { return pool.Len() == 1 })

	s.Publish(testSnapshot(8))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/snapshot.png", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot with a worker: status %d: %s", rec.Code, rec.Body)
	}
	if _, err := png.Decode(rec.Body); err != nil {
		t.Fatal(err)
	}
	t.Logf("worker rendered %d tiles", tiles.Load())

	stopWork()
	if err := <-worked; err != nil {
		t.Errorf("Work: %v", err)
	}
	waitFor(t, "worker to leave", func() bool { return pool.Len() == 0 })

	stopServe()
	if err := <-served; err != nil {
		t.Errorf("ServeWorkers: %v", err)
	}
}
