// mandelzoom is an interactive Mandelbrot viewer evaluating the set on the GPU.
//
// Drag with the left button to pan, scroll to zoom at the cursor.
// Keys: A/D/W/S or arrows pan, I/O zoom, = and - change the iteration
// cap, P switches palette, R resets, 1-6 jump to landmarks, F12 writes a
// snapshot, Esc quits.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/feed"
	"github.com/marben/mandelzoom/internal/ebview"
	"github.com/marben/mandelzoom/internal/glview"
	"github.com/marben/mandelzoom/internal/viewer"
	"github.com/marben/mandelzoom/render"
	"github.com/marben/mandelzoom/shader"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := mainCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func mainCmd() *cobra.Command {
	cfg := viewer.DefaultConfig()
	var logLevel string

	cmd := &cobra.Command{
		Use:           "mandelzoom",
		Short:         "Explore the Mandelbrot set in real time",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// At this point usage information has already been printed if obviously incorrect.
			cmd.SilenceUsage = true
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, logger)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.Backend, "backend", cfg.Backend, "graphics backend: gl (double precision) or ebiten")
	f.IntVar(&cfg.Width, "width", cfg.Width, "window width")
	f.IntVar(&cfg.Height, "height", cfg.Height, "window height")
	f.IntVar(&cfg.MaxIterations, "iterations", cfg.MaxIterations,
		fmt.Sprintf("initial iteration cap, %d to %d", mandel.IterationsMin, mandel.IterationsMax))
	f.StringVar(&cfg.Landmark, "landmark", "",
		"start at a landmark: "+strings.Join(mandel.LandmarkNames(), ", "))
	f.StringVar(&cfg.VertexShader, "vertex-shader", "", "GLSL vertex shader replacing the built-in one")
	f.StringVar(&cfg.FragmentShader, "fragment-shader", "", "GLSL fragment shader replacing the built-in one")
	f.BoolVar(&cfg.LockAspect, "lock-aspect", false, "keep the window aspect ratio when resizing")
	f.StringVar(&cfg.Serve, "serve", "", "serve the live view on this address, e.g. :8080")
	f.StringSliceVar(&cfg.AllowOrigins, "allow-origin", nil, "host pattern allowed to open the feed websockets cross-origin, repeatable")
	f.StringVar(&cfg.SnapshotDir, "snapshot-dir", cfg.SnapshotDir, "directory for F12 snapshots")
	f.Float64Var(&cfg.SnapshotScale, "snapshot-scale", cfg.SnapshotScale, "snapshot size relative to the window")
	f.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	return cmd
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

func run(ctx context.Context, cfg viewer.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var backend viewer.Backend
	switch cfg.Backend {
	case viewer.BackendGL:
		src, err := shader.Load(cfg.VertexShader, cfg.FragmentShader)
		if err != nil {
			return err
		}
		backend = glview.New(cfg, src, logger)
	case viewer.BackendEbiten:
		backend = ebview.New(cfg, logger)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	// workers joining the feed help with every snapshot, F12 included
	pool := &render.Pool{}
	renderer := &render.Renderer{Logger: logger, Remote: pool}

	var publisher mandel.Publisher
	feedDone := make(chan struct{})
	if cfg.Serve != "" {
		srv := feed.NewServer(renderer, logger)
		srv.OriginPatterns = cfg.AllowOrigins
		srv.Workers = pool
		publisher = srv
		go func() {
			defer close(feedDone)
			if err := srv.ListenAndServe(ctx, cfg.Serve); err != nil {
				cancel(err)
			}
		}()
	} else {
		close(feedDone)
	}

	s := viewer.NewSession(cfg, cfg.Width, cfg.Height, publisher, renderer, logger)
	defer s.Close()

	if err := backend.Run(ctx, s); err != nil {
		return err
	}
	s.Wait()

	cancel(nil)
	<-feedDone
	if err := context.Cause(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
