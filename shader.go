package instanced

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
)

// ShaderStage is the pipeline stage a shader source is compiled for.
type ShaderStage uint8

const (
	// StageVertex is the vertex stage.
	StageVertex ShaderStage = iota
	// StageFragment is the fragment stage.
	StageFragment
)

// String returns the stage name.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderStage(%d)", uint8(s))
	}
}

// irStage maps a stage to naga's IR stage.
func (s ShaderStage) irStage() (ir.ShaderStage, bool) {
	switch s {
	case StageVertex:
		return ir.StageVertex, true
	case StageFragment:
		return ir.StageFragment, true
	default:
		return 0, false
	}
}

// ShaderSource is one shader text plus the information the compiler needs
// to turn it into bytecode.
type ShaderSource struct {
	// Name is a logical file name used in diagnostics, e.g. "shader.vert".
	Name string
	// Stage selects the entry point kind.
	Stage ShaderStage
	// EntryPoint is the function the pipeline will call.
	EntryPoint string
	// Code is the WGSL source text.
	Code string
}

// CompileOptions configures shader compilation. A nil *CompileOptions means
// DefaultCompileOptions; a zero SPIRVVersion means SPIR-V 1.3.
type CompileOptions struct {
	// SPIRVVersion is the target SPIR-V version.
	SPIRVVersion spirv.Version
	// Debug emits OpName/OpLine debug info.
	Debug bool
	// Validate runs IR validation before code generation.
	Validate bool
}

// DefaultCompileOptions returns SPIR-V 1.3 output with IR validation on.
func DefaultCompileOptions() CompileOptions {
	return CompileOptions{
		SPIRVVersion: spirv.Version1_3,
		Validate:     true,
	}
}

// Compiler turns shader source text into SPIR-V words.
//
// Implementations must return a *CompileError carrying the compiler's
// diagnostic on failure.
type Compiler interface {
	Compile(src ShaderSource, opts *CompileOptions) ([]uint32, error)
}

// NagaCompiler compiles WGSL with gogpu/naga, a pure Go compiler, so no
// external toolchain is needed at build or run time.
type NagaCompiler struct{}

var _ Compiler = NagaCompiler{}

// Compile parses, lowers, checks the entry point, optionally validates, and
// generates SPIR-V for src.
func (NagaCompiler) Compile(src ShaderSource, opts *CompileOptions) ([]uint32, error) {
	o := DefaultCompileOptions()
	if opts != nil {
		o = *opts
	}
	if o.SPIRVVersion == (spirv.Version{}) {
		o.SPIRVVersion = spirv.Version1_3
	}
	fail := func(err error) ([]uint32, error) {
		return nil, &CompileError{Name: src.Name, Stage: src.Stage, Err: err}
	}

	ast, err := naga.Parse(src.Code)
	if err != nil {
		return fail(err)
	}
	module, err := naga.LowerWithSource(ast, src.Code)
	if err != nil {
		return fail(fmt.Errorf("lowering error: %w", err))
	}
	if err := checkEntryPoint(module, src); err != nil {
		return fail(err)
	}
	if o.Validate {
		verrs, err := naga.Validate(module)
		if err != nil {
			return fail(fmt.Errorf("validation error: %w", err))
		}
		if len(verrs) > 0 {
			return fail(fmt.Errorf("validation failed: %w", verrs[0]))
		}
	}
	spirvBytes, err := naga.GenerateSPIRV(module, spirv.Options{
		Version: o.SPIRVVersion,
		Debug:   o.Debug,
	})
	if err != nil {
		return fail(err)
	}
	return spirvWords(spirvBytes)
}

// checkEntryPoint verifies the module declares src.EntryPoint for src.Stage.
func checkEntryPoint(module *ir.Module, src ShaderSource) error {
	want, ok := src.Stage.irStage()
	if !ok {
		return fmt.Errorf("unsupported stage %v", src.Stage)
	}
	for i := range module.EntryPoints {
		ep := &module.EntryPoints[i]
		if ep.Name != src.EntryPoint {
			continue
		}
		if ep.Stage != want {
			return fmt.Errorf("entry point %q is not a %s entry point", src.EntryPoint, src.Stage)
		}
		return nil
	}
	return fmt.Errorf("entry point %q not found", src.EntryPoint)
}

// spirvWords converts little-endian SPIR-V bytes to 32-bit words.
func spirvWords(b []byte) ([]uint32, error) {
	if len(b) == 0 || len(b)%4 != 0 {
		return nil, fmt.Errorf("instanced: SPIR-V length %d is not a positive multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return words, nil
}

// CompiledShaders holds the bytecode for both pipeline stages.
type CompiledShaders struct {
	Vertex        []uint32
	Fragment      []uint32
	VertexEntry   string
	FragmentEntry string
	VertexName    string
	FragmentName  string
}

// CompileShaders compiles the vertex and fragment sources. It touches no
// device, so a compile failure leaves no GPU resources behind.
func CompileShaders(c Compiler, vs, fs ShaderSource, opts *CompileOptions) (*CompiledShaders, error) {
	if vs.Stage != StageVertex {
		return nil, &CompileError{Name: vs.Name, Stage: vs.Stage, Err: errors.New("expected a vertex shader")}
	}
	if fs.Stage != StageFragment {
		return nil, &CompileError{Name: fs.Name, Stage: fs.Stage, Err: errors.New("expected a fragment shader")}
	}
	vcode, err := c.Compile(vs, opts)
	if err != nil {
		return nil, err
	}
	fcode, err := c.Compile(fs, opts)
	if err != nil {
		return nil, err
	}
	slogger().Debug("shaders compiled", "vertex_words", len(vcode), "fragment_words", len(fcode))
	return &CompiledShaders{
		Vertex:        vcode,
		Fragment:      fcode,
		VertexEntry:   vs.EntryPoint,
		FragmentEntry: fs.EntryPoint,
		VertexName:    vs.Name,
		FragmentName:  fs.Name,
	}, nil
}
