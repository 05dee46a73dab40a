package instanced

import (
	"encoding/binary"
	"math"
)

// VertexSize is the byte stride of one Vertex in the vertex buffer.
// Layout:
//
//	position (vec2<f32>) = 8 bytes (location 0)
const VertexSize = 8

// TriangleVertexCount is the number of vertices drawn per instance.
const TriangleVertexCount = 3

// Vertex is one corner of the shared triangle, in clip-space units.
type Vertex struct {
	Position [2]float32
}

// UnitTriangle returns the triangle every instance draws. It is centered
// near the origin with one unit of width, so a translation of (1, 0) places
// the next copy edge to edge with the first.
func UnitTriangle() [TriangleVertexCount]Vertex {
	return [TriangleVertexCount]Vertex{
		{Position: [2]float32{0.0, -0.5}},
		{Position: [2]float32{0.5, 0.5}},
		{Position: [2]float32{-0.5, 0.5}},
	}
}

// EncodeVertices packs vertices into the little-endian layout read by the
// vertex stage.
func EncodeVertices(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexSize)
	for i, v := range vertices {
		writeVec2(buf[i*VertexSize:], v.Position)
	}
	return buf
}

// writeVec2 writes a vec2<f32> at the start of buf.
func writeVec2(buf []byte, v [2]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
}

// readVec2 reads a vec2<f32> from the start of buf.
func readVec2(buf []byte) [2]float32 {
	return [2]float32{
		math.Float32frombits(binary.LittleEndian.Uint32(buf[0:4])),
		math.Float32frombits(binary.LittleEndian.Uint32(buf[4:8])),
	}
}
