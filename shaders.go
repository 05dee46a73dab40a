package instanced

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/gogpu/gputypes"
)

// Embedded WGSL shader templates.

//go:embed shaders/instanced.vert.wgsl
var vertexShaderTemplate string

//go:embed shaders/instanced.frag.wgsl
var fragmentShaderTemplate string

// Logical shader names used in diagnostics.
const (
	VertexShaderName   = "shader.vert"
	FragmentShaderName = "shader.frag"
	DefaultEntryPoint  = "main"
)

var (
	vertexTmpl   = template.Must(template.New(VertexShaderName).Parse(vertexShaderTemplate))
	fragmentTmpl = template.Must(template.New(FragmentShaderName).Parse(fragmentShaderTemplate))
)

// DefaultFillColor is the color written by the built-in fragment shader.
var DefaultFillColor = gputypes.Color{R: 1.0, G: 1.0, B: 1.0, A: 1.0}

// InstancedShaders renders the built-in vertex and fragment shaders for
// instanceCount instances. The uniform array in the vertex shader is sized
// to exactly instanceCount primitives.
func InstancedShaders(instanceCount int, fill gputypes.Color) (vs, fs ShaderSource, err error) {
	if instanceCount <= 0 {
		return vs, fs, ErrNoPrimitives
	}
	var vbuf, fbuf bytes.Buffer
	if err := vertexTmpl.Execute(&vbuf, struct {
		InstanceCount int
		EntryPoint    string
	}{instanceCount, DefaultEntryPoint}); err != nil {
		return vs, fs, fmt.Errorf("render %s: %w", VertexShaderName, err)
	}
	if err := fragmentTmpl.Execute(&fbuf, struct {
		Color      string
		EntryPoint string
	}{wgslColor(fill), DefaultEntryPoint}); err != nil {
		return vs, fs, fmt.Errorf("render %s: %w", FragmentShaderName, err)
	}
	vs = ShaderSource{
		Name:       VertexShaderName,
		Stage:      StageVertex,
		EntryPoint: DefaultEntryPoint,
		Code:       vbuf.String(),
	}
	fs = ShaderSource{
		Name:       FragmentShaderName,
		Stage:      StageFragment,
		EntryPoint: DefaultEntryPoint,
		Code:       fbuf.String(),
	}
	return vs, fs, nil
}

// wgslColor formats c as four WGSL float literals.
func wgslColor(c gputypes.Color) string {
	parts := [4]string{}
	for i, v := range [4]float64{c.R, c.G, c.B, c.A} {
		s := strconv.FormatFloat(v, 'f', -1, 32)
		if !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		parts[i] = s
	}
	return strings.Join(parts[:], ", ")
}
