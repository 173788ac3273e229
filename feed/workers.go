package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/coder/websocket"
	"github.com/marben/irpc"
	"golang.org/x/sync/errgroup"

	mandel "github.com/marben/mandelzoom"
)

// ServeWorkers accepts remote tile workers on /workers and lends them to
// the Workers pool until ctx is cancelled.
func (s *Server) ServeWorkers(ctx context.Context) error {
	if s.Workers == nil {
		return errors.New("feed: no worker pool")
	}

	g, ctx := errgroup.WithContext(ctx)
	l := newWSListener(ctx, "/workers")
	s.setWorkerListener(l)
	defer s.setWorkerListener(nil)

	// every worker serves mandel.TileRenderer back to us
	srv := irpc.NewServer(irpc.WithOnConnect(s.workerConnected))

	g.Go(func() error {
		if err := srv.Serve(l); err != nil && !errors.Is(err, irpc.ErrServerClosed) && ctx.Err() == nil {
			return fmt.Errorf("worker serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		if err := srv.Close(); err != nil {
			s.log.Debug("worker server close", "err", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) setWorkerListener(l *wsListener) {
	s.m.Lock()
	defer s.m.Unlock()
	s.workerLn = l
}

func (s *Server) workerListener() *wsListener {
	s.m.Lock()
	defer s.m.Unlock()
	return s.workerLn
}

// workerConnected keeps a worker in the pool for as long as its
// connection lives.
func (s *Server) workerConnected(ep *irpc.Endpoint) {
	name := fmt.Sprint(ep.RemoteAddr())

	client, err := mandel.NewTileRendererIrpcClient(ep)
	if err != nil {
		s.log.Warn("worker client", "remote", name, "err", err)
		ep.Close()
		return
	}

	leave := s.Workers.Join(name, client)
	defer leave()
	s.log.Info("worker joined", "remote", name, "workers", s.Workers.Len())

	<-ep.Context().Done()
	s.log.Info("worker left", "remote", name, "cause", context.Cause(ep.Context()))
}

// workerHandler upgrades /workers and hands the connection to the irpc
// server through the listener.
func (s *Server) workerHandler(w http.ResponseWriter, r *http.Request) {
	l := s.workerListener()
	if l == nil {
		http.Error(w, "not accepting workers", http.StatusServiceUnavailable)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.OriginPatterns,
	})
	if err != nil {
		s.log.Warn("worker accept", "remote", r.RemoteAddr, "err", err)
		return
	}
	if err := l.offer(r.Context(), c); err != nil {
		c.Close(websocket.StatusTryAgainLater, "not accepting workers")
	}
}

// wsListener implements net.Listener on top of upgraded websocket
// connections.
type wsListener struct {
	ch     chan *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	addr   wsAddr
}

func newWSListener(ctx context.Context, addr string) *wsListener {
	ctx, cancel := context.WithCancel(ctx)
	return &wsListener{
		ch:     make(chan *websocket.Conn),
		ctx:    ctx,
		cancel: cancel,
		addr:   wsAddr{addr: addr},
	}
}

func (l *wsListener) offer(ctx context.Context, c *websocket.Conn) error {
	select {
	case l.ch <- c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.ctx.Done():
		return net.ErrClosed
	}
}

func (l *wsListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.ch:
		return websocket.NetConn(l.ctx, c, websocket.MessageBinary), nil
	case <-l.ctx.Done():
		return nil, context.Cause(l.ctx)
	}
}

func (l *wsListener) Addr() net.Addr {
	return l.addr
}

func (l *wsListener) Close() error {
	l.cancel()
	return nil
}

// wsAddr implements net.Addr
type wsAddr struct {
	addr string
}

func (a wsAddr) Network() string {
	return "ws"
}

func (a wsAddr) String() string {
	return a.addr
}

// Work dials a feed's /workers endpoint and serves tr to it until ctx is
// cancelled or the feed goes away.
func Work(ctx context.Context, url string, tr mandel.TileRenderer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("websocket.Dial %q: %w", url, err)
	}
	conn := websocket.NetConn(ctx, c, websocket.MessageBinary)

	ep := irpc.NewEndpoint(conn, irpc.WithEndpointServices(mandel.NewTileRendererIrpcService(tr)))
	logger.Info("joined feed as worker", "url", url)

	select {
	case <-ctx.Done():
		ep.Close()
		<-ep.Context().Done()
		return nil
	case <-ep.Context().Done():
		return fmt.Errorf("worker: feed connection: %w", context.Cause(ep.Context()))
	}
}
