package instanced

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Option configures a Renderer during creation.
//
// Example:
//
//	// Two side-by-side triangles on a green background
//	r, err := instanced.New(win)
//
//	// Custom instances and background
//	r, err := instanced.New(win,
//		instanced.WithPrimitives(prims),
//		instanced.WithClearColor(gputypes.Color{R: 0, G: 0, B: 0, A: 1}),
//	)
type Option func(*options)

// options holds optional configuration for Renderer creation.
type options struct {
	primitives  []Primitive
	clearColor  gputypes.Color
	fillColor   gputypes.Color
	presentMode gputypes.PresentMode
	power       gputypes.PowerPreference
	backend     *gputypes.Backend
	halBackend  hal.Backend
	format      gputypes.TextureFormat
	compiler    Compiler
	compileOpts *CompileOptions
	vertex      *ShaderSource
	fragment    *ShaderSource
}

// defaultOptions returns the default renderer options.
func defaultOptions() options {
	return options{
		primitives:  DefaultPrimitives(),
		clearColor:  DefaultClearColor,
		fillColor:   DefaultFillColor,
		presentMode: gputypes.PresentModeFifo,
		power:       gputypes.PowerPreferenceLowPower,
		backend:     nil, // best registered
		format:      gputypes.TextureFormatBGRA8Unorm,
		compiler:    NagaCompiler{},
	}
}

// WithPrimitives sets the instances to draw. The slice is copied; index i
// becomes instance i.
func WithPrimitives(p []Primitive) Option {
	return func(o *options) {
		o.primitives = append([]Primitive(nil), p...)
	}
}

// WithClearColor sets the background each frame is cleared to.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clearColor = c
	}
}

// WithFillColor sets the color the built-in fragment shader writes. It has
// no effect together with WithShaders.
func WithFillColor(c gputypes.Color) Option {
	return func(o *options) {
		o.fillColor = c
	}
}

// WithPresentMode sets the surface present mode. The default,
// PresentModeFifo, waits for vertical sync.
func WithPresentMode(m gputypes.PresentMode) Option {
	return func(o *options) {
		o.presentMode = m
	}
}

// WithPowerPreference selects which adapter class to prefer when the
// backend exposes more than one.
func WithPowerPreference(p gputypes.PowerPreference) Option {
	return func(o *options) {
		o.power = p
	}
}

// WithBackend forces a specific registered HAL backend, typically made
// available by importing github.com/gogpu/wgpu/hal/allbackends.
// gputypes.BackendEmpty selects the headless noop backend. Without this
// option the best registered backend is used.
func WithBackend(b gputypes.Backend) Option {
	return func(o *options) {
		o.backend = &b
	}
}

// WithHALBackend uses b directly instead of looking a backend up in the
// HAL registry.
func WithHALBackend(b hal.Backend) Option {
	return func(o *options) {
		o.halBackend = b
	}
}

// WithCompiler replaces the default NagaCompiler.
func WithCompiler(c Compiler) Option {
	return func(o *options) {
		if c != nil {
			o.compiler = c
		}
	}
}

// WithCompileOptions sets the options passed to the shader compiler.
func WithCompileOptions(opts CompileOptions) Option {
	return func(o *options) {
		o.compileOpts = &opts
	}
}

// WithShaders replaces the built-in shader pair. The vertex shader must read
// the primitive array from group 0 binding 0 and the position from
// location 0.
func WithShaders(vs, fs ShaderSource) Option {
	return func(o *options) {
		o.vertex = &vs
		o.fragment = &fs
	}
}

// shaders returns the configured pair or renders the built-in one.
func (o *options) shaders() (vs, fs ShaderSource, err error) {
	if o.vertex != nil && o.fragment != nil {
		return *o.vertex, *o.fragment, nil
	}
	return InstancedShaders(len(o.primitives), o.fillColor)
}
