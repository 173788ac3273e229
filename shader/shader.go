// Package shader holds the GPU programs that evaluate the Mandelbrot set.
//
// The GLSL pair targets OpenGL 4.1 core and takes the centre and zoom as
// doubles. The Kage program is the single precision variant for ebiten.
// Both read the same uniform set:
//
//	windowResolution  framebuffer size in pixels
//	time              seconds since start-up
//	off               plane point at the framebuffer centre
//	zoom              zoom factor, 1 = 4 plane units top to bottom
//	maxIterations     iteration cap
//	palette           colouring scheme, see mandel.Palette
package shader

import (
	_ "embed"
	"fmt"
	"os"

	mandel "github.com/marben/mandelzoom"
)

// GLSL uniform names.
const (
	UniformResolution    = "windowResolution"
	UniformTime          = "time"
	UniformCenter        = "off"
	UniformZoom          = "zoom"
	UniformMaxIterations = "maxIterations"
	UniformPalette       = "palette"
)

// Kage uniform names. Kage only exposes capitalised package variables.
const (
	KageResolution    = "Resolution"
	KageCenter        = "Center"
	KageZoom          = "Zoom"
	KageMaxIterations = "MaxIterations"
	KagePalette       = "Palette"
)

//go:embed mandelbrot.vert
var vertexSource string

//go:embed mandelbrot.frag
var fragmentSource string

//go:embed mandelbrot.kage
var kageSource []byte

// Sources is a vertex and fragment shader pair.
type Sources struct {
	Vertex   string
	Fragment string
}

// GLSL returns the built-in GLSL program.
func GLSL() Sources {
	return Sources{Vertex: vertexSource, Fragment: fragmentSource}
}

// Kage returns the built-in Kage program.
func Kage() []byte {
	b := make([]byte, len(kageSource))
	copy(b, kageSource)
	return b
}

// Load returns the built-in GLSL program with either stage replaced by the
// file at the given path. An empty path keeps the built-in stage.
// A file that cannot be read fails the whole load with mandel.ErrResourceRead.
func Load(vertexPath, fragmentPath string) (Sources, error) {
	src := GLSL()

	if vertexPath != "" {
		s, err := ReadSource(vertexPath)
		if err != nil {
			return Sources{}, err
		}
		src.Vertex = s
	}

	if fragmentPath != "" {
		s, err := ReadSource(fragmentPath)
		if err != nil {
			return Sources{}, err
		}
		src.Fragment = s
	}

	return src, nil
}

// ReadSource reads one shader stage from disk.
func ReadSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: shader source %q: %w", mandel.ErrResourceRead, path, err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("%w: shader source %q is empty", mandel.ErrResourceRead, path)
	}
	return string(b), nil
}
