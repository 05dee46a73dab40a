package instanced

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every failure in this package is terminal for the
// caller: setup errors abort startup and frame errors stop the loop.
var (
	// ErrNoPrimitives is returned when an instance buffer is requested for
	// an empty primitive list.
	ErrNoPrimitives = errors.New("instanced: at least one primitive is required")

	// ErrInvalidPrimitive is returned for a primitive with a NaN or
	// infinite translation.
	ErrInvalidPrimitive = errors.New("instanced: primitive translation must be finite")

	// ErrNoAdapter is returned when the backend exposes no adapter.
	ErrNoAdapter = errors.New("instanced: no GPU adapter available")

	// ErrBackendUnavailable is returned when the requested HAL backend is
	// not registered in the binary.
	ErrBackendUnavailable = errors.New("instanced: HAL backend not registered")

	// ErrShaderCompile matches every *CompileError via errors.Is.
	ErrShaderCompile = errors.New("instanced: shader compilation failed")

	// ErrFrameAcquired is returned by Presenter.Acquire when the previous
	// frame has not been submitted yet.
	ErrFrameAcquired = errors.New("instanced: frame already acquired")

	// ErrNoFrame is returned by Presenter.Submit when no frame is held.
	ErrNoFrame = errors.New("instanced: no frame acquired")
)

// CompileError carries the compiler diagnostic for one shader source.
type CompileError struct {
	Name  string
	Stage ShaderStage
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("instanced: compile %s shader %q: %v", e.Stage, e.Name, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Is reports ErrShaderCompile as a match so callers need not type-assert.
func (e *CompileError) Is(target error) bool { return target == ErrShaderCompile }
