package instanced

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	if len(o.primitives) != 2 {
		t.Errorf("default primitives = %d, want 2", len(o.primitives))
	}
	if o.clearColor != DefaultClearColor {
		t.Errorf("clear color = %+v, want green", o.clearColor)
	}
	if o.presentMode != gputypes.PresentModeFifo {
		t.Errorf("present mode = %v, want Fifo", o.presentMode)
	}
	if o.power != gputypes.PowerPreferenceLowPower {
		t.Errorf("power = %v, want LowPower", o.power)
	}
	if o.backend != nil || o.halBackend != nil {
		t.Error("default backend should be chosen automatically")
	}
	if _, ok := o.compiler.(NagaCompiler); !ok {
		t.Errorf("compiler = %T, want NagaCompiler", o.compiler)
	}
}

func TestWithPrimitivesCopies(t *testing.T) {
	prims := []Primitive{{Translate: [2]float32{0.5, 0.5}}}
	o := defaultOptions()
	WithPrimitives(prims)(&o)
	prims[0].Translate[0] = 9

	if o.primitives[0].Translate[0] != 0.5 {
		t.Error("WithPrimitives must copy its argument")
	}
}

func TestWithCompilerIgnoresNil(t *testing.T) {
	o := defaultOptions()
	WithCompiler(nil)(&o)
	if o.compiler == nil {
		t.Fatal("nil compiler replaced the default")
	}
}

func TestWithBackend(t *testing.T) {
	o := defaultOptions()
	WithBackend(gputypes.BackendEmpty)(&o)
	if o.backend == nil || *o.backend != gputypes.BackendEmpty {
		t.Errorf("backend = %v, want BackendEmpty", o.backend)
	}
}

func TestOptionsShaders(t *testing.T) {
	t.Run("built-in sized to primitives", func(t *testing.T) {
		o := defaultOptions()
		WithPrimitives(make([]Primitive, 7))(&o)
		vs, fs, err := o.shaders()
		if err != nil {
			t.Fatal(err)
		}
		if vs.Stage != StageVertex || fs.Stage != StageFragment {
			t.Errorf("stages = %v/%v", vs.Stage, fs.Stage)
		}
		want, _, _ := InstancedShaders(7, DefaultFillColor)
		if vs.Code != want.Code {
			t.Error("vertex shader not sized to 7 primitives")
		}
	})

	t.Run("custom pair", func(t *testing.T) {
		o := defaultOptions()
		vs := ShaderSource{Name: "v", Stage: StageVertex, EntryPoint: "vs", Code: "v"}
		fs := ShaderSource{Name: "f", Stage: StageFragment, EntryPoint: "fs", Code: "f"}
		WithShaders(vs, fs)(&o)
		gotV, gotF, err := o.shaders()
		if err != nil {
			t.Fatal(err)
		}
		if gotV != vs || gotF != fs {
			t.Errorf("shaders = %+v/%+v, want the configured pair", gotV, gotF)
		}
	})

	t.Run("fill color", func(t *testing.T) {
		red := gputypes.Color{R: 1, A: 1}
		o := defaultOptions()
		WithFillColor(red)(&o)
		_, fs, err := o.shaders()
		if err != nil {
			t.Fatal(err)
		}
		_, want, _ := InstancedShaders(2, red)
		if fs.Code != want.Code {
			t.Error("fragment shader ignores the fill color")
		}
	})
}
