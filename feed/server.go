// Package feed publishes the live viewport of a running viewer over HTTP
// and websocket, and follows such a feed from another process.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/render"
)

const writeTimeout = 5 * time.Second

// MaxSnapshotRenders caps the /snapshot.png renders running at once.
const MaxSnapshotRenders = 2

// Server keeps the latest published snapshot and streams it to websocket
// subscribers. Publish never blocks: a subscriber that falls behind only
// sees the newest snapshot.
type Server struct {
	renderer mandel.Renderer
	log      *slog.Logger

	// OriginPatterns are the hosts allowed to open /ws and /workers
	// cross-origin. Empty allows same-origin requests only.
	OriginPatterns []string

	// Workers, if set, receives the tile workers joining on /workers.
	// The renderer should lend the same pool to its renders.
	Workers *render.Pool

	renders chan struct{}

	m        sync.Mutex
	latest   mandel.Snapshot
	have     bool
	subs     map[chan mandel.Snapshot]struct{}
	workerLn *wsListener
}

var _ mandel.Publisher = (*Server)(nil)

// NewServer returns a feed rendering /snapshot.png with r.
// A nil logger discards.
func NewServer(r mandel.Renderer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		renderer: r,
		log:      logger,
		renders:  make(chan struct{}, MaxSnapshotRenders),
		subs:     make(map[chan mandel.Snapshot]struct{}),
	}
}

// Publish replaces the latest snapshot and offers it to every subscriber.
func (s *Server) Publish(snap mandel.Snapshot) {
	s.m.Lock()
	defer s.m.Unlock()

	s.latest = snap
	s.have = true
	for ch := range s.subs {
		offer(ch, snap)
	}
}

// Latest returns the last published snapshot.
func (s *Server) Latest() (mandel.Snapshot, bool) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.latest, s.have
}

// offer puts snap into a one slot channel, replacing a stale value.
func offer(ch chan mandel.Snapshot, snap mandel.Snapshot) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}

func (s *Server) subscribe() chan mandel.Snapshot {
	ch := make(chan mandel.Snapshot, 1)

	s.m.Lock()
	defer s.m.Unlock()
	if s.have {
		ch <- s.latest
	}
	s.subs[ch] = struct{}{}
	return ch
}

func (s *Server) unsubscribe(ch chan mandel.Snapshot) {
	s.m.Lock()
	defer s.m.Unlock()
	delete(s.subs, ch)
}

func (s *Server) subscribers() int {
	s.m.Lock()
	defer s.m.Unlock()
	return len(s.subs)
}

// Handler serves /ws, /workers, /viewport and /snapshot.png.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.websocketHandler)
	mux.HandleFunc("/workers", s.workerHandler)
	mux.HandleFunc("GET /viewport", s.viewportHandler)
	mux.HandleFunc("GET /snapshot.png", s.snapshotHandler)
	return mux
}

// ListenAndServe serves the feed on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.log.Info("feed listening", "url", "http://"+l.Addr().String())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("feed serve: %w", err)
		}
		return nil
	})
	if s.Workers != nil {
		g.Go(func() error {
			return s.ServeWorkers(ctx)
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// websocketHandler streams snapshots as JSON text messages until either
// side goes away.
func (s *Server) websocketHandler(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.OriginPatterns,
	})
	if err != nil {
		s.log.Warn("websocket accept", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer c.CloseNow()

	// subscribers only listen; reading handles pings and the close frame
	ctx := c.CloseRead(r.Context())

	ch := s.subscribe()
	defer s.unsubscribe(ch)
	s.log.Info("feed subscriber connected", "remote", r.RemoteAddr)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("feed subscriber gone", "remote", r.RemoteAddr)
			return
		case snap := <-ch:
			if err := s.write(ctx, c, snap); err != nil {
				s.log.Info("feed subscriber dropped", "remote", r.RemoteAddr, "err", err)
				return
			}
		}
	}
}

func (s *Server) write(ctx context.Context, c *websocket.Conn, snap mandel.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, c, snap)
}

func (s *Server) viewportHandler(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.Latest()
	if !ok {
		http.Error(w, "no viewport published yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.log.Warn("viewport encode", "err", err)
	}
}

// snapshotHandler renders the latest viewport on the CPU, at most
// MaxSnapshotRenders at a time.
func (s *Server) snapshotHandler(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.Latest()
	if !ok {
		http.Error(w, "no viewport published yet", http.StatusServiceUnavailable)
		return
	}
	if s.renderer == nil {
		http.Error(w, "snapshots disabled", http.StatusNotImplemented)
		return
	}

	select {
	case s.renders <- struct{}{}:
		defer func() { <-s.renders }()
	default:
		w.Header().Set("Retry-After", "1")
		http.Error(w, "too many snapshot renders in flight", http.StatusTooManyRequests)
		return
	}

	img, err := s.renderer.Render(r.Context(), snap.Viewport(), snap.Palette)
	if err != nil {
		s.log.Warn("snapshot render", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := render.EncodePNG(w, img); err != nil {
		s.log.Warn("snapshot encode", "err", err)
	}
}
