// Package glview shows a viewer session in a glfw window, drawing it with
// the double precision GLSL program on OpenGL 4.1 core.
package glview

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/viewer"
	"github.com/marben/mandelzoom/shader"
)

func init() {
	// glfw and GL calls must stay on the main thread.
	runtime.LockOSThread()
}

const initialTitle = "Mandelbrot zoom"

// Backend is the glfw + OpenGL graphics collaborator.
type Backend struct {
	width, height int
	lockAspect    bool
	src           shader.Sources
	log           *slog.Logger
}

var _ viewer.Backend = (*Backend)(nil)

// New returns a backend opening a window of cfg's size that draws with src.
func New(cfg viewer.Config, src shader.Sources, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{
		width:      cfg.Width,
		height:     cfg.Height,
		lockAspect: cfg.LockAspect,
		src:        src,
		log:        logger,
	}
}

// Run opens the window and drives s until the window closes, the user
// quits or ctx is cancelled. It must be called from the main goroutine.
func (b *Backend) Run(ctx context.Context, s *viewer.Session) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("%w: glfw.Init: %w", mandel.ErrSetup, err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(b.width, b.height, initialTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("%w: glfw.CreateWindow: %w", mandel.ErrSetup, err)
	}
	defer win.Destroy()

	win.MakeContextCurrent()
	if b.lockAspect {
		win.SetAspectRatio(b.width, b.height)
	}
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		return fmt.Errorf("%w: gl.Init: %w", mandel.ErrSetup, err)
	}
	b.log.Info("window created",
		"gl", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	prog, err := newProgram(b.src)
	if err != nil {
		return err
	}
	defer prog.delete()
	for _, name := range prog.missing() {
		b.log.Debug("uniform not used by program", "uniform", name)
	}

	q := newQuad()
	defer q.delete()

	events := &eventQueue{}
	events.attach(win)

	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)

	for !win.ShouldClose() {
		if ctx.Err() != nil {
			b.log.Info("viewer cancelled", "err", context.Cause(ctx))
			break
		}

		title, quit := s.Frame(sample(win, events))
		if quit {
			win.SetShouldClose(true)
		}
		win.SetTitle(title)

		v, pal := s.View()
		gl.Viewport(0, 0, int32(v.Width), int32(v.Height))
		gl.Clear(gl.COLOR_BUFFER_BIT)

		prog.use()
		prog.set(v, pal, float32(glfw.GetTime()))
		q.draw()

		win.SwapBuffers()
		glfw.PollEvents()
	}

	return nil
}

// sample collects one frame of input from the window and the events
// queued by callbacks since the last frame.
func sample(win *glfw.Window, events *eventQueue) mandel.Input {
	fbW, fbH := win.GetFramebufferSize()
	winW, winH := win.GetSize()
	x, y := win.GetCursorPos()

	actions, wheel := events.drain()
	return mandel.Input{
		Width:   fbW,
		Height:  fbH,
		Cursor:  toFramebuffer(x, y, winW, winH, fbW, fbH),
		Primary: win.GetMouseButton(glfw.MouseButtonLeft) == glfw.Press,
		Wheel:   wheel,
		Actions: actions,
	}
}

// toFramebuffer scales a cursor position from screen coordinates to
// framebuffer pixels. They differ on HiDPI displays.
func toFramebuffer(x, y float64, winW, winH, fbW, fbH int) mandel.Point {
	if winW <= 0 || winH <= 0 {
		return mandel.Point{X: x, Y: y}
	}
	return mandel.Point{
		X: x * float64(fbW) / float64(winW),
		Y: y * float64(fbH) / float64(winH),
	}
}
