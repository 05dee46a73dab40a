package instanced

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// Renderer owns every GPU object of the instanced render loop and drives it
// from a Window.
//
// All methods must be called from the thread that created the window.
type Renderer struct {
	win Window
	gpu *gpuDevice

	pipeline  *Pipeline
	geometry  *GeometryBuffer
	instances *InstanceBuffer
	group     hal.BindGroup
	presenter *Presenter

	running *RunningFlag
	loop    *Loop
}

// New opens a device for win, compiles the shaders, and builds the pipeline,
// vertex buffer, uniform buffer and bind group. Shaders are compiled before
// any buffer, layout or pipeline exists, so a compile error leaves only the
// device behind, and New releases that too.
func New(win Window, opts ...Option) (*Renderer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := ValidatePrimitives(o.primitives); err != nil {
		return nil, err
	}

	backend, err := selectBackend(&o)
	if err != nil {
		return nil, err
	}
	gpu, err := openDevice(backend, win, &o)
	if err != nil {
		return nil, err
	}
	r := &Renderer{win: win, gpu: gpu}
	if err := r.init(&o); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) init(o *options) error {
	vs, fs, err := o.shaders()
	if err != nil {
		return err
	}
	compiled, err := CompileShaders(o.compiler, vs, fs, o.compileOpts)
	if err != nil {
		return err
	}

	format, err := r.gpu.configureSurface(r.win, o)
	if err != nil {
		return err
	}

	r.pipeline, err = NewPipeline(r.gpu.device, compiled, DefaultPipelineConfig(format))
	if err != nil {
		return err
	}
	r.geometry, err = NewGeometryBuffer(r.gpu.device, r.gpu.queue)
	if err != nil {
		return err
	}
	r.instances, err = NewInstanceBuffer(r.gpu.device, r.gpu.queue, o.primitives)
	if err != nil {
		return err
	}
	r.group, err = r.pipeline.NewBindGroup(r.instances)
	if err != nil {
		return err
	}

	r.presenter = NewPresenter(PresenterConfig{
		Device:     r.gpu.device,
		Queue:      r.gpu.queue,
		Surface:    r.gpu.surface,
		Format:     format,
		Pipeline:   r.pipeline,
		BindGroup:  r.group,
		Geometry:   r.geometry,
		Instances:  r.instances,
		ClearColor: o.clearColor,
	})
	r.running = NewRunningFlag()
	r.loop = NewLoop(r.win, r.running, r.presenter)

	slogger().Info("renderer ready",
		"instances", r.instances.Count(),
		"uniform_bytes", r.instances.Size(),
		"vertex_bytes", r.geometry.Size(),
	)
	return nil
}

// Run polls events and renders frames until a close request or the Escape
// key, or until a frame fails.
func (r *Renderer) Run() error {
	if err := r.loop.Run(); err != nil {
		return fmt.Errorf("render loop: %w", err)
	}
	return nil
}

// Running reports whether the loop is still running.
func (r *Renderer) Running() bool { return r.running.Running() }

// Presenter returns the frame presenter.
func (r *Renderer) Presenter() *Presenter { return r.presenter }

// Instances returns the uniform buffer holding the primitives.
func (r *Renderer) Instances() *InstanceBuffer { return r.instances }

// Geometry returns the vertex buffer holding the triangle.
func (r *Renderer) Geometry() *GeometryBuffer { return r.geometry }

// Close waits for the GPU to finish submitted frames and releases every
// resource in reverse creation order. Safe to call more than once.
func (r *Renderer) Close() {
	if r.gpu == nil {
		return
	}
	if r.gpu.device != nil {
		if err := r.gpu.device.WaitIdle(); err != nil {
			slogger().Warn("wait idle failed", "err", err)
		}
	}
	if r.presenter != nil {
		r.presenter.Destroy()
		r.presenter = nil
	}
	if r.group != nil {
		r.gpu.device.DestroyBindGroup(r.group)
		r.group = nil
	}
	if r.instances != nil {
		r.instances.Destroy()
		r.instances = nil
	}
	if r.geometry != nil {
		r.geometry.Destroy()
		r.geometry = nil
	}
	if r.pipeline != nil {
		r.pipeline.Destroy()
		r.pipeline = nil
	}
	r.gpu.destroy()
	r.gpu = nil
}
