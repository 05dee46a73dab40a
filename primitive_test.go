package instanced

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestValidatePrimitives(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	tests := []struct {
		name    string
		prims   []Primitive
		wantErr error
	}{
		{"default", DefaultPrimitives(), nil},
		{"single", []Primitive{{Translate: [2]float32{-0.25, 0.75}}}, nil},
		{"empty", nil, ErrNoPrimitives},
		{"nan", []Primitive{{}, {Translate: [2]float32{nan, 0}}}, ErrInvalidPrimitive},
		{"inf", []Primitive{{Translate: [2]float32{0, inf}}}, ErrInvalidPrimitive},
		{"neg inf", []Primitive{{Translate: [2]float32{-inf, 0}}}, ErrInvalidPrimitive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrimitives(tt.prims)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEncodePrimitivesSize(t *testing.T) {
	for _, n := range []int{1, 2, 7, 64} {
		prims := make([]Primitive, n)
		if got := len(EncodePrimitives(prims)); got != n*PrimitiveSize {
			t.Errorf("N=%d: len = %d, want %d", n, got, n*PrimitiveSize)
		}
	}
}

func TestDecodePrimitiveOutOfRange(t *testing.T) {
	data := EncodePrimitives(DefaultPrimitives())
	for _, i := range []int{-1, 2, 100} {
		if _, err := DecodePrimitive(data, i); err == nil {
			t.Errorf("DecodePrimitive(%d) succeeded on %d bytes", i, len(data))
		}
	}
}

func TestInstanceBufferRoundTrip(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	prims := []Primitive{
		{Translate: [2]float32{0, 0}},
		{Translate: [2]float32{1, 0}},
		{Translate: [2]float32{-0.5, 0.25}},
		{Translate: [2]float32{3.75, -2}},
	}
	rec := newRecordingDevice(device)
	ib, err := NewInstanceBuffer(rec, queue, prims)
	if err != nil {
		t.Fatalf("NewInstanceBuffer failed: %v", err)
	}
	defer ib.Destroy()

	if ib.Count() != uint32(len(prims)) {
		t.Errorf("Count = %d, want %d", ib.Count(), len(prims))
	}
	if ib.Size() != uint64(len(prims)*PrimitiveSize) {
		t.Errorf("Size = %d, want %d", ib.Size(), len(prims)*PrimitiveSize)
	}
	if len(rec.buffers) != 1 || rec.buffers[0].Size != ib.Size() {
		t.Fatalf("buffer descriptors = %+v, want one of size %d", rec.buffers, ib.Size())
	}
	if rec.buffers[0].Usage&gputypes.BufferUsageUniform == 0 {
		t.Errorf("usage %v lacks BufferUsageUniform", rec.buffers[0].Usage)
	}

	data := mapBytes(t, device, ib.Buffer(), ib.Size())
	for i, want := range prims {
		got, err := DecodePrimitive(data, i)
		if err != nil {
			t.Fatalf("DecodePrimitive(%d): %v", i, err)
		}
		if got != want {
			t.Errorf("primitive %d = %v, want %v", i, got, want)
		}
	}

	b := ib.Binding()
	if b.Offset != 0 || b.Size != ib.Size() {
		t.Errorf("Binding = %+v, want offset 0 size %d", b, ib.Size())
	}
}

func TestNewInstanceBufferRejectsEmpty(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	rec := newRecordingDevice(device)
	_, err := NewInstanceBuffer(rec, queue, nil)
	if !errors.Is(err, ErrNoPrimitives) {
		t.Fatalf("err = %v, want ErrNoPrimitives", err)
	}
	if len(rec.buffers) != 0 {
		t.Errorf("created %d buffers for an empty list", len(rec.buffers))
	}
}
