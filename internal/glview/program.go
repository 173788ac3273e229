package glview

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/shader"
)

// program is a linked shader program and its uniform locations.
type program struct {
	id uint32

	resolution    int32
	time          int32
	center        int32
	zoom          int32
	maxIterations int32
	palette       int32
}

func newProgram(src shader.Sources) (*program, error) {
	vs, err := compileShader(src.Vertex, gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(src.Fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fs)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fs)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)
		log := infoLog(logLength, func(n int32, buf *uint8) { gl.GetProgramInfoLog(id, n, nil, buf) })
		gl.DeleteProgram(id)
		return nil, fmt.Errorf("%w: link: %s", mandel.ErrShaderCompile, log)
	}

	p := &program{id: id}
	p.resolution = p.location(shader.UniformResolution)
	p.time = p.location(shader.UniformTime)
	p.center = p.location(shader.UniformCenter)
	p.zoom = p.location(shader.UniformZoom)
	p.maxIterations = p.location(shader.UniformMaxIterations)
	p.palette = p.location(shader.UniformPalette)
	return p, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	s := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(s, 1, csources, nil)
	free()
	gl.CompileShader(s)

	var status int32
	gl.GetShaderiv(s, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(s, gl.INFO_LOG_LENGTH, &logLength)
		log := infoLog(logLength, func(n int32, buf *uint8) { gl.GetShaderInfoLog(s, n, nil, buf) })
		gl.DeleteShader(s)
		return 0, fmt.Errorf("%w: %s shader: %s", mandel.ErrShaderCompile, stageName(shaderType), log)
	}
	return s, nil
}

func infoLog(length int32, get func(int32, *uint8)) string {
	if length <= 0 {
		return "(no info log)"
	}
	buf := make([]uint8, length+1)
	get(length, &buf[0])
	return strings.TrimRight(gl.GoStr(&buf[0]), "\n")
}

func stageName(shaderType uint32) string {
	switch shaderType {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	default:
		return fmt.Sprintf("0x%x", shaderType)
	}
}

func (p *program) location(name string) int32 {
	return gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
}

// missing lists the uniforms the linked program does not use.
func (p *program) missing() []string {
	var names []string
	for name, loc := range map[string]int32{
		shader.UniformResolution:    p.resolution,
		shader.UniformTime:          p.time,
		shader.UniformCenter:        p.center,
		shader.UniformZoom:          p.zoom,
		shader.UniformMaxIterations: p.maxIterations,
		shader.UniformPalette:       p.palette,
	} {
		if loc < 0 {
			names = append(names, name)
		}
	}
	return names
}

func (p *program) use() { gl.UseProgram(p.id) }

// set submits the frame's uniforms. Locations of -1 are ignored by GL.
func (p *program) set(v mandel.Viewport, pal mandel.Palette, seconds float32) {
	gl.Uniform2ui(p.resolution, uint32(v.Width), uint32(v.Height))
	gl.Uniform1f(p.time, seconds)
	gl.Uniform2d(p.center, v.Center.X, v.Center.Y)
	gl.Uniform1d(p.zoom, v.Zoom)
	gl.Uniform1ui(p.maxIterations, uint32(v.MaxIterations))
	gl.Uniform1ui(p.palette, uint32(pal))
}

func (p *program) delete() { gl.DeleteProgram(p.id) }
