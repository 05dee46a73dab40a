package instanced

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// PipelineConfig holds the fixed-function state of the instanced pipeline.
// It is built once by DefaultPipelineConfig and treated as immutable.
type PipelineConfig struct {
	// Format is the color target format, normally the surface format.
	Format gputypes.TextureFormat

	// VertexBuffers describes the single per-vertex position buffer.
	VertexBuffers []gputypes.VertexBufferLayout

	// BindGroupEntries describes group 0: the primitive uniform array.
	BindGroupEntries []gputypes.BindGroupLayoutEntry

	Primitive   gputypes.PrimitiveState
	Multisample gputypes.MultisampleState
	Blend       gputypes.BlendState
	WriteMask   gputypes.ColorWriteMask
}

// DefaultPipelineConfig returns the instanced pipeline state for the given
// color format: one Float32x2 attribute with stride VertexSize, triangle
// list, CCW front face, no culling, single sample, replace blend, and no
// depth/stencil.
func DefaultPipelineConfig(format gputypes.TextureFormat) PipelineConfig {
	return PipelineConfig{
		Format: format,
		VertexBuffers: []gputypes.VertexBufferLayout{
			{
				ArrayStride: VertexSize,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // position
				},
			},
		},
		BindGroupEntries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Blend:     gputypes.BlendStateReplace(),
		WriteMask: gputypes.ColorWriteMaskAll,
	}
}

// Pipeline owns the render pipeline and the layouts and shader modules it
// was built from.
type Pipeline struct {
	device hal.Device

	vertexShader   hal.ShaderModule
	fragmentShader hal.ShaderModule
	uniformLayout  hal.BindGroupLayout
	pipeLayout     hal.PipelineLayout
	pipeline       hal.RenderPipeline
}

// NewPipeline creates the bind group layout, pipeline layout, shader modules
// and render pipeline. On failure every object created so far is released.
func NewPipeline(device hal.Device, shaders *CompiledShaders, cfg PipelineConfig) (*Pipeline, error) {
	p := &Pipeline{device: device}
	if err := p.create(shaders, cfg); err != nil {
		p.Destroy()
		return nil, err
	}
	slogger().Debug("instanced pipeline created",
		"format", cfg.Format,
		"stride", cfg.VertexBuffers[0].ArrayStride,
	)
	return p, nil
}

func (p *Pipeline) create(shaders *CompiledShaders, cfg PipelineConfig) error {
	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "instanced_uniform_layout",
		Entries: cfg.BindGroupEntries,
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "instanced_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	vs, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  shaders.VertexName,
		Source: hal.ShaderSource{SPIRV: shaders.Vertex},
	})
	if err != nil {
		return fmt.Errorf("create vertex shader module: %w", err)
	}
	p.vertexShader = vs

	fs, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  shaders.FragmentName,
		Source: hal.ShaderSource{SPIRV: shaders.Fragment},
	})
	if err != nil {
		return fmt.Errorf("create fragment shader module: %w", err)
	}
	p.fragmentShader = fs

	blend := cfg.Blend
	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "instanced_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.vertexShader,
			EntryPoint: shaders.VertexEntry,
			Buffers:    cfg.VertexBuffers,
		},
		Primitive:    cfg.Primitive,
		DepthStencil: nil,
		Multisample:  cfg.Multisample,
		Fragment: &hal.FragmentState{
			Module:     p.fragmentShader,
			EntryPoint: shaders.FragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    cfg.Format,
					Blend:     &blend,
					WriteMask: cfg.WriteMask,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// RenderPipeline returns the HAL pipeline handle.
func (p *Pipeline) RenderPipeline() hal.RenderPipeline { return p.pipeline }

// NewBindGroup binds the instance buffer to slot 0 of group 0.
func (p *Pipeline) NewBindGroup(instances *InstanceBuffer) (hal.BindGroup, error) {
	group, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "instanced_bind",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: instances.Binding()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	return group, nil
}

// Destroy releases all pipeline resources in reverse creation order. Safe
// to call more than once.
func (p *Pipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.fragmentShader != nil {
		p.device.DestroyShaderModule(p.fragmentShader)
		p.fragmentShader = nil
	}
	if p.vertexShader != nil {
		p.device.DestroyShaderModule(p.vertexShader)
		p.vertexShader = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
}
