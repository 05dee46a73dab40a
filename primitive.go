package instanced

import (
	"fmt"

	"github.com/chewxy/math32"
)

// PrimitiveSize is the byte stride of one Primitive in the uniform array.
// Must match the Primitive struct in shaders/instanced.vert.wgsl.
const PrimitiveSize = 8

// Primitive is the per-instance data for one triangle copy. Its position in
// the primitive slice is its instance index.
type Primitive struct {
	Translate [2]float32
}

// DefaultPrimitives returns the two side-by-side instances drawn when no
// primitives are configured.
func DefaultPrimitives() []Primitive {
	return []Primitive{
		{Translate: [2]float32{0.0, 0.0}},
		{Translate: [2]float32{1.0, 0.0}},
	}
}

// ValidatePrimitives checks that the list is non-empty and every translation
// is finite.
func ValidatePrimitives(primitives []Primitive) error {
	if len(primitives) == 0 {
		return ErrNoPrimitives
	}
	for i, p := range primitives {
		for _, c := range p.Translate {
			if math32.IsNaN(c) || math32.IsInf(c, 0) {
				return fmt.Errorf("primitive %d %v: %w", i, p.Translate, ErrInvalidPrimitive)
			}
		}
	}
	return nil
}

// EncodePrimitives packs primitives back to back. Entry i starts at byte
// i*PrimitiveSize and the result is exactly len(primitives)*PrimitiveSize
// bytes long.
func EncodePrimitives(primitives []Primitive) []byte {
	buf := make([]byte, len(primitives)*PrimitiveSize)
	for i, p := range primitives {
		writeVec2(buf[i*PrimitiveSize:], p.Translate)
	}
	return buf
}

// DecodePrimitive reads the primitive stored at instance index i of an
// encoded uniform array.
func DecodePrimitive(data []byte, i int) (Primitive, error) {
	off := i * PrimitiveSize
	if i < 0 || off+PrimitiveSize > len(data) {
		return Primitive{}, fmt.Errorf("instanced: primitive index %d out of range for %d bytes", i, len(data))
	}
	return Primitive{Translate: readVec2(data[off:])}, nil
}
