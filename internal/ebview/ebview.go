// Package ebview shows a viewer session with ebiten, drawing it with the
// single precision Kage program.
package ebview

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/viewer"
	"github.com/marben/mandelzoom/shader"
)

// Backend is the ebiten graphics collaborator.
type Backend struct {
	width, height int
	log           *slog.Logger
}

var _ viewer.Backend = (*Backend)(nil)

// New returns a backend opening a window of cfg's size.
func New(cfg viewer.Config, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{width: cfg.Width, height: cfg.Height, log: logger}
}

// Run drives s until the window closes, the user quits or ctx is cancelled.
func (b *Backend) Run(ctx context.Context, s *viewer.Session) error {
	ebiten.SetWindowSize(b.width, b.height)
	ebiten.SetWindowTitle("Mandelbrot zoom")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &game{
		ctx: ctx,
		s:   s,
		log: b.log,
		hud: b.log.Enabled(ctx, slog.LevelDebug),
	}
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return nil
}

type game struct {
	ctx context.Context
	s   *viewer.Session
	log *slog.Logger
	hud bool

	shader *ebiten.Shader

	// framebuffer size from the last Layout
	width, height int
}

func (g *game) Update() error {
	if g.shader == nil {
		sh, err := ebiten.NewShader(shader.Kage())
		if err != nil {
			return fmt.Errorf("%w: %w: %w", mandel.ErrSetup, mandel.ErrShaderCompile, err)
		}
		g.shader = sh

		var info ebiten.DebugInfo
		ebiten.ReadDebugInfo(&info)
		g.log.Info("window created", "graphics", info.GraphicsLibrary)
	}

	if err := g.ctx.Err(); err != nil {
		g.log.Info("viewer cancelled", "err", context.Cause(g.ctx))
		return ebiten.Termination
	}

	title, quit := g.s.Frame(g.sample())
	if quit {
		return ebiten.Termination
	}
	ebiten.SetWindowTitle(title)
	return nil
}

// sample collects one frame of input. The layout is in framebuffer pixels,
// so the cursor needs no scaling.
func (g *game) sample() mandel.Input {
	x, y := ebiten.CursorPosition()
	in := mandel.Input{
		Width:   g.width,
		Height:  g.height,
		Cursor:  mandel.Point{X: float64(x), Y: float64(y)},
		Primary: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Actions: pressedActions(),
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		in.Wheel = []float64{dy}
	}
	return in
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.shader == nil {
		return
	}
	v, pal := g.s.View()
	b := screen.Bounds()

	opts := &ebiten.DrawRectShaderOptions{}
	opts.Uniforms = map[string]any{
		shader.KageResolution:    []float32{float32(b.Dx()), float32(b.Dy())},
		shader.KageCenter:        []float32{float32(v.Center.X), float32(v.Center.Y)},
		shader.KageZoom:          float32(v.Zoom),
		shader.KageMaxIterations: float32(v.MaxIterations),
		shader.KagePalette:       float32(pal),
	}
	screen.DrawRectShader(b.Dx(), b.Dy(), g.shader, opts)

	if g.hud {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS %.1f FPS %.1f", ebiten.ActualTPS(), ebiten.ActualFPS()))
	}
}

// Layout renders at device resolution rather than in scaled window units.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := 1.0
	if m := ebiten.Monitor(); m != nil {
		scale = m.DeviceScaleFactor()
	}
	g.width = int(math.Ceil(float64(outsideWidth) * scale))
	g.height = int(math.Ceil(float64(outsideHeight) * scale))
	return g.width, g.height
}
