package instanced

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// GeometryBuffer is the GPU-resident vertex buffer holding the shared
// triangle. It is written once at creation and never changes.
type GeometryBuffer struct {
	device hal.Device
	buf    hal.Buffer
	count  uint32
	size   uint64
}

// NewGeometryBuffer uploads UnitTriangle to a new vertex buffer.
func NewGeometryBuffer(device hal.Device, queue hal.Queue) (*GeometryBuffer, error) {
	tri := UnitTriangle()
	data := EncodeVertices(tri[:])
	buf, err := createAndUploadBuffer(device, queue, "instanced_vertices", data,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	slogger().Debug("geometry buffer uploaded", "vertices", len(tri), "bytes", len(data))
	return &GeometryBuffer{
		device: device,
		buf:    buf,
		count:  TriangleVertexCount,
		size:   uint64(len(data)),
	}, nil
}

// Buffer returns the HAL vertex buffer.
func (g *GeometryBuffer) Buffer() hal.Buffer { return g.buf }

// VertexCount returns the number of vertices in the buffer. Always 3.
func (g *GeometryBuffer) VertexCount() uint32 { return g.count }

// Size returns the buffer size in bytes.
func (g *GeometryBuffer) Size() uint64 { return g.size }

// Destroy releases the vertex buffer. Safe to call more than once.
func (g *GeometryBuffer) Destroy() {
	if g.buf != nil {
		g.device.DestroyBuffer(g.buf)
		g.buf = nil
	}
}

// InstanceBuffer is the uniform buffer holding one Primitive per instance.
//
// There is no update path: drawing a different number of instances needs a
// new InstanceBuffer and a new bind group (see Pipeline.NewBindGroup).
type InstanceBuffer struct {
	device hal.Device
	buf    hal.Buffer
	count  uint32
	size   uint64
}

// NewInstanceBuffer validates primitives and uploads them to a uniform
// buffer of exactly len(primitives)*PrimitiveSize bytes.
func NewInstanceBuffer(device hal.Device, queue hal.Queue, primitives []Primitive) (*InstanceBuffer, error) {
	if err := ValidatePrimitives(primitives); err != nil {
		return nil, err
	}
	data := EncodePrimitives(primitives)
	buf, err := createAndUploadBuffer(device, queue, "instanced_primitives", data,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	slogger().Debug("instance buffer uploaded", "instances", len(primitives), "bytes", len(data))
	return &InstanceBuffer{
		device: device,
		buf:    buf,
		count:  uint32(len(primitives)), //nolint:gosec // instance count fits uint32
		size:   uint64(len(data)),
	}, nil
}

// Buffer returns the HAL uniform buffer.
func (ib *InstanceBuffer) Buffer() hal.Buffer { return ib.buf }

// Count returns the number of instances, N.
func (ib *InstanceBuffer) Count() uint32 { return ib.count }

// Size returns the buffer size in bytes, N*PrimitiveSize.
func (ib *InstanceBuffer) Size() uint64 { return ib.size }

// Binding describes the whole buffer for a bind group entry.
func (ib *InstanceBuffer) Binding() gputypes.BufferBinding {
	return gputypes.BufferBinding{
		Buffer: ib.buf.NativeHandle(),
		Offset: 0,
		Size:   ib.size,
	}
}

// Destroy releases the uniform buffer. Safe to call more than once.
func (ib *InstanceBuffer) Destroy() {
	if ib.buf != nil {
		ib.device.DestroyBuffer(ib.buf)
		ib.buf = nil
	}
}

// createAndUploadBuffer creates a GPU buffer sized to data and uploads it.
func createAndUploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("upload %s: %w", label, err)
	}
	return buf, nil
}
