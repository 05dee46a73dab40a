package instanced

import (
	"image"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice opens a device on the noop backend.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// --- recording HAL doubles ---

// drawCall is one Draw recorded by a recordingPass.
type drawCall struct {
	vertexCount, instanceCount, firstVertex, firstInstance uint32
}

// passLog is everything recorded inside render passes, in order.
type passLog struct {
	passes       []*hal.RenderPassDescriptor
	ops          []string
	draws        []drawCall
	bindGroupIdx []uint32
	bindOffsets  [][]uint32
	vertexSlots  []uint32
}

// recordingDevice wraps a noop device and records resource creation.
type recordingDevice struct {
	hal.Device

	buffers          []*hal.BufferDescriptor
	bindGroupLayouts []*hal.BindGroupLayoutDescriptor
	bindGroups       []*hal.BindGroupDescriptor
	pipelineLayouts  []*hal.PipelineLayoutDescriptor
	shaderModules    []*hal.ShaderModuleDescriptor
	pipelines        []*hal.RenderPipelineDescriptor
	views            int
	destroyedViews   int
	encoders         int
	freedCmds        int
	discardedEncs    int
	waitIdle         int

	// endEncodingErr, when set, is returned by every encoder's EndEncoding.
	endEncodingErr error

	log passLog
}

func newRecordingDevice(inner hal.Device) *recordingDevice {
	return &recordingDevice{Device: inner}
}

// resources counts every object created beyond the device itself.
func (d *recordingDevice) resources() int {
	return len(d.buffers) + len(d.bindGroupLayouts) + len(d.bindGroups) +
		len(d.pipelineLayouts) + len(d.shaderModules) + len(d.pipelines)
}

func (d *recordingDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	d.buffers = append(d.buffers, desc)
	return d.Device.CreateBuffer(desc)
}

func (d *recordingDevice) CreateBindGroupLayout(desc *hal.BindGroupLayoutDescriptor) (hal.BindGroupLayout, error) {
	d.bindGroupLayouts = append(d.bindGroupLayouts, desc)
	return d.Device.CreateBindGroupLayout(desc)
}

func (d *recordingDevice) CreateBindGroup(desc *hal.BindGroupDescriptor) (hal.BindGroup, error) {
	d.bindGroups = append(d.bindGroups, desc)
	return d.Device.CreateBindGroup(desc)
}

func (d *recordingDevice) CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	d.pipelineLayouts = append(d.pipelineLayouts, desc)
	return d.Device.CreatePipelineLayout(desc)
}

func (d *recordingDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	d.shaderModules = append(d.shaderModules, desc)
	return d.Device.CreateShaderModule(desc)
}

func (d *recordingDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	d.pipelines = append(d.pipelines, desc)
	return d.Device.CreateRenderPipeline(desc)
}

func (d *recordingDevice) CreateTextureView(tex hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	d.views++
	return d.Device.CreateTextureView(tex, desc)
}

func (d *recordingDevice) DestroyTextureView(v hal.TextureView) {
	d.destroyedViews++
	d.Device.DestroyTextureView(v)
}

func (d *recordingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	d.encoders++
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	return &recordingEncoder{CommandEncoder: enc, device: d, log: &d.log}, nil
}

func (d *recordingDevice) FreeCommandBuffer(cmd hal.CommandBuffer) {
	d.freedCmds++
	d.Device.FreeCommandBuffer(cmd)
}

func (d *recordingDevice) WaitIdle() error {
	d.waitIdle++
	return d.Device.WaitIdle()
}

type recordingEncoder struct {
	hal.CommandEncoder
	device *recordingDevice
	log    *passLog
}

func (e *recordingEncoder) EndEncoding() (hal.CommandBuffer, error) {
	if e.device.endEncodingErr != nil {
		return nil, e.device.endEncodingErr
	}
	return e.CommandEncoder.EndEncoding()
}

func (e *recordingEncoder) DiscardEncoding() {
	e.device.discardedEncs++
	e.CommandEncoder.DiscardEncoding()
}

func (e *recordingEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	e.log.passes = append(e.log.passes, desc)
	e.log.ops = append(e.log.ops, "begin")
	return &recordingPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), log: e.log}
}

type recordingPass struct {
	hal.RenderPassEncoder
	log *passLog
}

func (p *recordingPass) SetPipeline(pl hal.RenderPipeline) {
	p.log.ops = append(p.log.ops, "pipeline")
	p.RenderPassEncoder.SetPipeline(pl)
}

func (p *recordingPass) SetBindGroup(index uint32, group hal.BindGroup, offsets []uint32) {
	p.log.ops = append(p.log.ops, "bindgroup")
	p.log.bindGroupIdx = append(p.log.bindGroupIdx, index)
	p.log.bindOffsets = append(p.log.bindOffsets, offsets)
	p.RenderPassEncoder.SetBindGroup(index, group, offsets)
}

func (p *recordingPass) SetVertexBuffer(slot uint32, buf hal.Buffer, offset uint64) {
	p.log.ops = append(p.log.ops, "vertexbuffer")
	p.log.vertexSlots = append(p.log.vertexSlots, slot)
	p.RenderPassEncoder.SetVertexBuffer(slot, buf, offset)
}

func (p *recordingPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.log.ops = append(p.log.ops, "draw")
	p.log.draws = append(p.log.draws, drawCall{vertexCount, instanceCount, firstVertex, firstInstance})
	p.RenderPassEncoder.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *recordingPass) End() {
	p.log.ops = append(p.log.ops, "end")
	p.RenderPassEncoder.End()
}

// recordingQueue wraps a noop queue and counts submissions and presents.
type recordingQueue struct {
	hal.Queue
	submits  int
	presents int
}

func (q *recordingQueue) Submit(cmds []hal.CommandBuffer) (uint64, error) {
	q.submits++
	return q.Queue.Submit(cmds)
}

func (q *recordingQueue) Present(s hal.Surface, tex hal.SurfaceTexture, damage []image.Rectangle) error {
	q.presents++
	return q.Queue.Present(s, tex, damage)
}

// recordingSurface wraps a noop surface and counts acquisitions.
type recordingSurface struct {
	hal.Surface
	acquires   int
	discards   int
	configured *hal.SurfaceConfiguration
	acquireErr error
	suboptimal bool
}

func (s *recordingSurface) Configure(device hal.Device, cfg *hal.SurfaceConfiguration) error {
	c := *cfg
	s.configured = &c
	return s.Surface.Configure(device, cfg)
}

func (s *recordingSurface) AcquireTexture(fence hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	s.acquires++
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	acquired, err := s.Surface.AcquireTexture(fence)
	if err != nil {
		return nil, err
	}
	acquired.Suboptimal = s.suboptimal
	return acquired, nil
}

func (s *recordingSurface) DiscardTexture(tex hal.SurfaceTexture) {
	s.discards++
	s.Surface.DiscardTexture(tex)
}

// recordingBackend hands out noop objects wrapped in the recording doubles
// above, so Renderer tests can inspect everything New and Run do.
type recordingBackend struct {
	device  *recordingDevice
	queue   *recordingQueue
	surface *recordingSurface
}

func (b *recordingBackend) Variant() gputypes.Backend { return gputypes.BackendEmpty }

func (b *recordingBackend) CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error) {
	inst, err := noop.API{}.CreateInstance(desc)
	if err != nil {
		return nil, err
	}
	return &recordingInstance{Instance: inst, backend: b}, nil
}

type recordingInstance struct {
	hal.Instance
	backend *recordingBackend
}

func (i *recordingInstance) CreateSurface(display, window uintptr) (hal.Surface, error) {
	s, err := i.Instance.CreateSurface(display, window)
	if err != nil {
		return nil, err
	}
	i.backend.surface = &recordingSurface{Surface: s}
	return i.backend.surface, nil
}

func (i *recordingInstance) EnumerateAdapters(hint hal.Surface) []hal.ExposedAdapter {
	adapters := i.Instance.EnumerateAdapters(hint)
	for k := range adapters {
		adapters[k].Adapter = &recordingAdapter{Adapter: adapters[k].Adapter, backend: i.backend}
	}
	return adapters
}

type recordingAdapter struct {
	hal.Adapter
	backend *recordingBackend
}

func (a *recordingAdapter) Open(features gputypes.Features, limits gputypes.Limits) (hal.OpenDevice, error) {
	od, err := a.Adapter.Open(features, limits)
	if err != nil {
		return od, err
	}
	a.backend.device = newRecordingDevice(od.Device)
	a.backend.queue = &recordingQueue{Queue: od.Queue}
	return hal.OpenDevice{Device: a.backend.device, Queue: a.backend.queue}, nil
}

// --- windowing double ---

// scriptedWindow delivers one batch of events per PollEvents call. Once the
// script is exhausted every poll delivers nothing.
type scriptedWindow struct {
	gpucontext.NullWindowProvider
	batches [][]Event
	polls   int
}

func (w *scriptedWindow) PollEvents(fn func(Event)) {
	w.polls++
	if len(w.batches) == 0 {
		return
	}
	batch := w.batches[0]
	w.batches = w.batches[1:]
	for _, ev := range batch {
		fn(ev)
	}
}

func (w *scriptedWindow) SurfaceHandles() (display, window uintptr, err error) {
	return 0, 0, nil
}
