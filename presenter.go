package instanced

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// FrameState is the presenter's per-frame state.
type FrameState uint8

const (
	// FrameIdle means no surface texture is held.
	FrameIdle FrameState = iota
	// FrameAcquired means a surface texture and its view are held and the
	// render pass has not been submitted yet.
	FrameAcquired
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "Idle"
	case FrameAcquired:
		return "FrameAcquired"
	default:
		return fmt.Sprintf("FrameState(%d)", uint8(s))
	}
}

// DefaultClearColor is the background of every frame unless overridden.
var DefaultClearColor = gputypes.Color{R: 0, G: 1, B: 0, A: 1}

// inflight is a submitted command buffer waiting for the GPU to retire it.
type inflight struct {
	index uint64
	cmd   hal.CommandBuffer
}

// Presenter acquires surface textures and records the single instanced
// render pass into each one.
//
// Presenter is not safe for concurrent use; it belongs to the thread that
// owns the window and device.
type Presenter struct {
	device   hal.Device
	queue    hal.Queue
	surface  hal.Surface
	format   gputypes.TextureFormat
	pipeline *Pipeline
	group    hal.BindGroup
	geometry *GeometryBuffer
	instance *InstanceBuffer
	clear    gputypes.Color

	state   FrameState
	texture hal.SurfaceTexture
	view    hal.TextureView

	pending []inflight
	frames  uint64
}

// PresenterConfig collects the resources a Presenter draws with. The
// presenter does not own them.
type PresenterConfig struct {
	Device     hal.Device
	Queue      hal.Queue
	Surface    hal.Surface
	Format     gputypes.TextureFormat
	Pipeline   *Pipeline
	BindGroup  hal.BindGroup
	Geometry   *GeometryBuffer
	Instances  *InstanceBuffer
	ClearColor gputypes.Color
}

// NewPresenter returns an idle presenter.
func NewPresenter(cfg PresenterConfig) *Presenter {
	return &Presenter{
		device:   cfg.Device,
		queue:    cfg.Queue,
		surface:  cfg.Surface,
		format:   cfg.Format,
		pipeline: cfg.Pipeline,
		group:    cfg.BindGroup,
		geometry: cfg.Geometry,
		instance: cfg.Instances,
		clear:    cfg.ClearColor,
	}
}

// State returns the current frame state.
func (p *Presenter) State() FrameState { return p.state }

// Frames returns the number of frames submitted and presented.
func (p *Presenter) Frames() uint64 { return p.frames }

// Acquire blocks until the surface hands out its next texture, then creates
// a view of it. The present mode paces this call.
func (p *Presenter) Acquire() error {
	if p.state != FrameIdle {
		return ErrFrameAcquired
	}
	acquired, err := p.surface.AcquireTexture(nil)
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	if acquired.Suboptimal {
		slogger().Warn("surface texture is suboptimal", "frame", p.frames)
	}
	view, err := p.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:  "instanced_frame_view",
		Format: p.format,
	})
	if err != nil {
		p.surface.DiscardTexture(acquired.Texture)
		return fmt.Errorf("create frame view: %w", err)
	}
	p.texture = acquired.Texture
	p.view = view
	p.state = FrameAcquired
	return nil
}

// Submit records one render pass into the acquired frame, submits it
// without waiting for completion, and presents. The presenter returns to
// FrameIdle whether or not it succeeds.
func (p *Presenter) Submit() error {
	if p.state != FrameAcquired {
		return ErrNoFrame
	}
	defer p.release()

	p.retire()

	cmd, err := p.record()
	if err != nil {
		p.surface.DiscardTexture(p.texture)
		return err
	}
	index, err := p.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		p.device.FreeCommandBuffer(cmd)
		p.surface.DiscardTexture(p.texture)
		return fmt.Errorf("submit: %w", err)
	}
	p.pending = append(p.pending, inflight{index: index, cmd: cmd})

	if err := p.queue.Present(p.surface, p.texture, nil); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	p.frames++
	return nil
}

// RenderFrame acquires a frame and submits the instanced pass into it.
func (p *Presenter) RenderFrame() error {
	if err := p.Acquire(); err != nil {
		return err
	}
	return p.Submit()
}

// record encodes the single instanced render pass.
func (p *Presenter) record() (hal.CommandBuffer, error) {
	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "instanced_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("instanced_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "instanced_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       p.view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: p.clear,
		}},
	})
	rp.SetPipeline(p.pipeline.RenderPipeline())
	rp.SetBindGroup(0, p.group, nil)
	rp.SetVertexBuffer(0, p.geometry.Buffer(), 0)
	rp.Draw(p.geometry.VertexCount(), p.instance.Count(), 0, 0)
	rp.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	return cmd, nil
}

// retire frees command buffers the GPU has finished with.
func (p *Presenter) retire() {
	if len(p.pending) == 0 {
		return
	}
	done := p.queue.PollCompleted()
	keep := p.pending[:0]
	for _, f := range p.pending {
		if f.index <= done {
			p.device.FreeCommandBuffer(f.cmd)
			continue
		}
		keep = append(keep, f)
	}
	p.pending = keep
}

// release drops the frame view and returns to FrameIdle.
func (p *Presenter) release() {
	if p.view != nil {
		p.device.DestroyTextureView(p.view)
		p.view = nil
	}
	p.texture = nil
	p.state = FrameIdle
}

// Destroy frees every command buffer still tracked. The caller must have
// waited for the device to go idle first.
func (p *Presenter) Destroy() {
	if p.state == FrameAcquired {
		p.surface.DiscardTexture(p.texture)
		p.release()
	}
	for _, f := range p.pending {
		p.device.FreeCommandBuffer(f.cmd)
	}
	p.pending = nil
}
