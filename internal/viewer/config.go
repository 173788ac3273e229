package viewer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	mandel "github.com/marben/mandelzoom"
)

// Backend names a graphics collaborator.
const (
	BackendGL     = "gl"
	BackendEbiten = "ebiten"
)

// Config is everything the viewer needs before it opens a window.
type Config struct {
	Backend string

	// Initial window size in screen coordinates.
	Width, Height int

	MaxIterations int

	// Landmark names the start region. Empty starts at the default view.
	Landmark string

	// Shader stage overrides. gl only.
	VertexShader, FragmentShader string

	// LockAspect keeps the window at its initial aspect ratio while
	// resizing. gl only.
	LockAspect bool

	// Serve is the feed listen address. Empty disables the feed.
	Serve string

	// AllowOrigins are host patterns allowed to open the feed's
	// websockets from another origin.
	AllowOrigins []string

	SnapshotDir   string
	SnapshotScale float64
}

// DefaultConfig is the 800x600 gl viewer.
func DefaultConfig() Config {
	return Config{
		Backend:       BackendGL,
		Width:         800,
		Height:        600,
		MaxIterations: mandel.IterationsDefault,
		SnapshotDir:   ".",
		SnapshotScale: 1,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	switch c.Backend {
	case BackendGL, BackendEbiten:
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q, want %s or %s", c.Backend, BackendGL, BackendEbiten))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid window size %dx%d", c.Width, c.Height))
	}
	if c.MaxIterations < mandel.IterationsMin || c.MaxIterations > mandel.IterationsMax {
		errs = append(errs, fmt.Errorf("iterations %d outside [%d, %d]",
			c.MaxIterations, mandel.IterationsMin, mandel.IterationsMax))
	}
	if c.Landmark != "" {
		if _, ok := mandel.LookupLandmark(c.Landmark); !ok {
			errs = append(errs, fmt.Errorf("unknown landmark %q, want one of %s",
				c.Landmark, strings.Join(mandel.LandmarkNames(), ", ")))
		}
	}
	if c.Backend == BackendEbiten && (c.VertexShader != "" || c.FragmentShader != "") {
		errs = append(errs, errors.New("shader overrides need the gl backend"))
	}
	if c.Backend == BackendEbiten && c.LockAspect {
		errs = append(errs, errors.New("aspect lock needs the gl backend"))
	}
	if len(c.AllowOrigins) > 0 && c.Serve == "" {
		errs = append(errs, errors.New("allowed origins need a feed address"))
	}
	for _, pattern := range c.AllowOrigins {
		// matched the way the websocket handshake matches them
		if _, err := filepath.Match(pattern, ""); err != nil {
			errs = append(errs, fmt.Errorf("origin pattern %q: %w", pattern, err))
		}
	}
	if c.SnapshotScale <= 0 || c.SnapshotScale > 8 {
		errs = append(errs, fmt.Errorf("snapshot scale %g outside (0, 8]", c.SnapshotScale))
	}

	return errors.Join(errs...)
}

// Viewport is the start-up view for a width x height framebuffer.
func (c Config) Viewport(width, height int) mandel.Viewport {
	v := mandel.NewViewport(width, height)
	if lm, ok := mandel.LookupLandmark(c.Landmark); ok {
		v = lm.Region.Viewport(width, height)
	}
	if c.MaxIterations != 0 {
		v.MaxIterations = c.MaxIterations
	}
	return v
}
