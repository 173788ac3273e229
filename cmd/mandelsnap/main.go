// mandelsnap renders a Mandelbrot view to PNG on the CPU, pixel for pixel
// as the interactive viewer draws it. The view comes from flags, a
// landmark, or a running viewer's feed.
//
// "mandelsnap worker URL" instead joins a running viewer's feed and
// renders tiles of its snapshots.
package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/feed"
	"github.com/marben/mandelzoom/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := mainCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Fatalf("run: %+v", err)
	}
}

type options struct {
	width, height int
	x, y, zoom    float64
	iterations    int
	landmark      string
	palette       string
	from          string
	workers       int
	out           string
	logLevel      string
}

func mainCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:           "mandelsnap",
		Short:         "Render a Mandelbrot view to PNG",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), cmd.Flags(), o)
		},
	}

	bindFlags(cmd.Flags(), &o)
	cmd.AddCommand(workerCmd())

	return cmd
}

func workerCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "worker URL",
		Short: "Render snapshot tiles for a running viewer, e.g. ws://localhost:8080/workers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			tiles := render.Tiles{OnTile: func(tile image.Rectangle) {
				logger.Debug("rendering tile", "tile", tile)
			}}
			return feed.Work(cmd.Context(), args[0], tiles, logger)
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	return cmd
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}

func bindFlags(f *pflag.FlagSet, o *options) {
	f.IntVar(&o.width, "width", 1920, "image width")
	f.IntVar(&o.height, "height", 1080, "image height")
	f.Float64Var(&o.x, "x", 0, "real part of the image centre")
	f.Float64Var(&o.y, "y", 0, "imaginary part of the image centre")
	f.Float64Var(&o.zoom, "zoom", 1, "zoom, 1 shows 4 units top to bottom")
	f.IntVar(&o.iterations, "iterations", mandel.IterationsDefault, "iteration cap")
	f.StringVar(&o.landmark, "landmark", "", "render a landmark: "+strings.Join(mandel.LandmarkNames(), ", "))
	f.StringVar(&o.palette, "palette", mandel.PaletteClassic.String(), "classic or smooth")
	f.StringVar(&o.from, "from", "", "take the view from a live feed, e.g. ws://localhost:8080/ws")
	f.IntVar(&o.workers, "workers", 0, "render goroutines, 0 for one per CPU")
	f.StringVar(&o.out, "out", "mandel.png", "output file")
	f.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
}

func run(ctx context.Context, flags *pflag.FlagSet, o options) error {
	logger, err := newLogger(o.logLevel)
	if err != nil {
		return err
	}

	v, pal, err := resolveView(ctx, flags, o)
	if err != nil {
		return err
	}

	r := &render.Renderer{Workers: o.workers, Logger: logger}
	start := time.Now()
	img, err := r.Render(ctx, v, pal)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := render.WritePNG(o.out, img); err != nil {
		return err
	}

	logger.Info("fully rendered image saved", "path", o.out,
		"center", fmt.Sprintf("%.10f%+.10fi", v.Center.X, v.Center.Y),
		"zoom", v.Zoom, "iterations", v.MaxIterations, "palette", pal, "took", time.Since(start))
	return nil
}

// resolveView builds the view to render. A feed or landmark sets the
// starting point; flags given explicitly override it.
func resolveView(ctx context.Context, flags *pflag.FlagSet, o options) (mandel.Viewport, mandel.Palette, error) {
	pal, err := mandel.ParsePalette(o.palette)
	if err != nil {
		return mandel.Viewport{}, 0, err
	}
	v := mandel.NewViewport(o.width, o.height)

	switch {
	case o.from != "" && o.landmark != "":
		return mandel.Viewport{}, 0, fmt.Errorf("--from and --landmark are exclusive")
	case o.from != "":
		snap, err := follow(ctx, o.from)
		if err != nil {
			return mandel.Viewport{}, 0, err
		}
		v = snap.Viewport()
		if !flags.Changed("palette") {
			pal = snap.Palette
		}
		if v.Width <= 0 || v.Height <= 0 {
			return mandel.Viewport{}, 0, fmt.Errorf("feed reports image size %dx%d", v.Width, v.Height)
		}
		// a single size flag keeps the feed's aspect ratio
		switch w, h := flags.Changed("width"), flags.Changed("height"); {
		case w && h:
			v.Width, v.Height = o.width, o.height
		case w:
			v.Width, v.Height = o.width, scaleSide(o.width, v.Height, v.Width)
		case h:
			v.Width, v.Height = scaleSide(o.height, v.Width, v.Height), o.height
		}
	case o.landmark != "":
		lm, ok := mandel.LookupLandmark(o.landmark)
		if !ok {
			return mandel.Viewport{}, 0, fmt.Errorf("unknown landmark %q, want one of %s",
				o.landmark, strings.Join(mandel.LandmarkNames(), ", "))
		}
		v = lm.Region.Viewport(o.width, o.height)
	}

	if flags.Changed("x") {
		v.Center.X = o.x
	}
	if flags.Changed("y") {
		v.Center.Y = o.y
	}
	if flags.Changed("zoom") {
		v.Zoom = o.zoom
	}
	if o.from == "" || flags.Changed("iterations") {
		v.MaxIterations = o.iterations
	}

	if v.Width <= 0 || v.Height <= 0 {
		return mandel.Viewport{}, 0, fmt.Errorf("invalid image size %dx%d", v.Width, v.Height)
	}
	if !finite(v.Center.X) || !finite(v.Center.Y) {
		return mandel.Viewport{}, 0, fmt.Errorf("centre %g%+gi is not finite", v.Center.X, v.Center.Y)
	}
	if !finite(v.Zoom) {
		return mandel.Viewport{}, 0, fmt.Errorf("zoom %g is not finite", v.Zoom)
	}
	if v.Zoom < mandel.MinZoom {
		return mandel.Viewport{}, 0, fmt.Errorf("zoom %g below %g", v.Zoom, mandel.MinZoom)
	}
	if v.MaxIterations < mandel.IterationsMin || v.MaxIterations > mandel.IterationsMax {
		return mandel.Viewport{}, 0, fmt.Errorf("iterations %d outside [%d, %d]",
			v.MaxIterations, mandel.IterationsMin, mandel.IterationsMax)
	}
	return v, pal, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// scaleSide returns the side matching n in the ratio other:side, at least 1.
func scaleSide(n, other, side int) int {
	return max(1, int(math.Round(float64(n)*float64(other)/float64(side))))
}

// follow reads one snapshot from a running viewer.
func follow(ctx context.Context, url string) (mandel.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	c, err := feed.Dial(ctx, url)
	if err != nil {
		return mandel.Snapshot{}, err
	}
	defer c.Close()

	return c.Next(ctx)
}
