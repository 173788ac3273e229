package mandel

import "errors"

var (
	// ErrSetup marks a failure creating the window, the graphics context or
	// the GPU program. The viewer cannot run without them.
	ErrSetup = errors.New("setup failed")

	// ErrShaderCompile marks a shader that the driver rejected. The error
	// text carries the driver's info log.
	ErrShaderCompile = errors.New("shader compilation failed")

	// ErrResourceRead marks shader source that could not be read.
	ErrResourceRead = errors.New("resource could not be read")
)
