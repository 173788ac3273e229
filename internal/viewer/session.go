// Package viewer runs one interactive viewing session independently of the
// graphics backend that samples input and draws frames.
package viewer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/render"
)

// Backend is a graphics collaborator: it opens the window, samples input
// into s once per frame and draws the view s reports until the user quits
// or ctx is cancelled.
type Backend interface {
	Run(ctx context.Context, s *Session) error
}

// Session owns the controller of a running viewer. Frame must be called
// from the render loop only. Snapshots render on their own goroutines from
// a copy of the viewport.
type Session struct {
	ctrl      *mandel.Controller
	publisher mandel.Publisher
	renderer  mandel.Renderer
	log       *slog.Logger

	snapshotDir   string
	snapshotScale float64

	frame uint64
	now   func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	m         sync.Mutex
	snapshots []string
}

// NewSession starts a session at cfg's start-up view for a width x height
// framebuffer. A nil publisher or renderer disables the feed or snapshots.
// A nil logger discards.
func NewSession(cfg Config, width, height int, p mandel.Publisher, r mandel.Renderer, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ctrl:          mandel.NewController(cfg.Viewport(width, height)),
		publisher:     p,
		renderer:      r,
		log:           logger,
		snapshotDir:   cfg.SnapshotDir,
		snapshotScale: cfg.SnapshotScale,
		now:           time.Now,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Frame applies one frame of input and returns the window title for it.
// quit is set once the user asked to leave.
func (s *Session) Frame(in mandel.Input) (title string, quit bool) {
	res := s.ctrl.Step(in)

	s.frame++
	if s.publisher != nil {
		snap := s.ctrl.Snapshot()
		snap.Frame = s.frame
		snap.Time = s.now()
		s.publisher.Publish(snap)
	}

	if res.Snapshot {
		s.snapshot()
	}

	return s.ctrl.Title(), res.Quit
}

// View is what the backend draws this frame.
func (s *Session) View() (mandel.Viewport, mandel.Palette) {
	return s.ctrl.Viewport(), s.ctrl.Palette()
}

// snapshot renders the current view on the CPU in the background.
func (s *Session) snapshot() {
	if s.renderer == nil {
		s.log.Warn("snapshot requested but no renderer configured")
		return
	}

	v := scaleViewport(s.ctrl.Viewport(), s.snapshotScale)
	pal := s.ctrl.Palette()
	path := render.SnapshotPath(s.snapshotDir, s.now())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		start := time.Now()
		img, err := s.renderer.Render(s.ctx, v, pal)
		if err != nil {
			s.log.Warn("snapshot render failed", "err", err)
			return
		}
		if err := render.WritePNG(path, img); err != nil {
			s.log.Warn("snapshot write failed", "path", path, "err", err)
			return
		}

		s.m.Lock()
		s.snapshots = append(s.snapshots, path)
		s.m.Unlock()
		s.log.Info("snapshot written", "path", path,
			"size", fmt.Sprintf("%dx%d", v.Width, v.Height), "took", time.Since(start))
	}()
}

// scaleViewport resizes v by scale. Zoom keeps its meaning, so the larger
// image shows the same plane rectangle in more detail.
func scaleViewport(v mandel.Viewport, scale float64) mandel.Viewport {
	if scale <= 0 {
		scale = 1
	}
	v.Width = max(1, int(math.Round(float64(v.Width)*scale)))
	v.Height = max(1, int(math.Round(float64(v.Height)*scale)))
	return v
}

// Snapshots lists the files written so far.
func (s *Session) Snapshots() []string {
	s.m.Lock()
	defer s.m.Unlock()
	return append([]string(nil), s.snapshots...)
}

// Close cancels snapshots still rendering and waits for them to stop.
func (s *Session) Close() {
	s.cancel()
	s.wg.Wait()
}

// Wait blocks until pending snapshots are written.
func (s *Session) Wait() {
	s.wg.Wait()
}
