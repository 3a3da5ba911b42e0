package buffer

import (
	"math"

	"github.com/caldera-labs/tetrasim/vec3"
)

// Binding is the device-side accessor bound into a kernel: given a
// dynamic index it exposes the same named field a Typed host view sees,
// at the identical byte offset (spec §4.4's "lvalue-like handle"). Go has
// no true lvalues, so reads go through Field.Load and writes through
// Field.Store rather than returning a reference.
type Binding struct {
	layout *Layout
	data   []float32
}

// Bind returns a Binding over t's backing storage, for use inside kernels
// dispatched by softbody/device.
func Bind(t *Typed) Binding {
	return Binding{layout: t.layout, data: t.data}
}

// Field resolves one named field of a Binding to a typed accessor bound
// at a dynamic element index.
func (b Binding) Field(field string) FieldAccessor {
	return FieldAccessor{data: b.data, stride: b.layout.Stride(), offset: b.layout.Offset(field)}
}

// FieldAccessor reads/writes one field across all elements of a Binding.
type FieldAccessor struct {
	data   []float32
	stride int
	offset int
}

func (f FieldAccessor) base(i int) int { return i*f.stride + f.offset }

// LoadFloat reads the scalar at element i.
func (f FieldAccessor) LoadFloat(i int) float32 { return f.data[f.base(i)] }

// StoreFloat writes the scalar at element i.
func (f FieldAccessor) StoreFloat(i int, v float32) { f.data[f.base(i)] = v }

// LoadInt reads the integer at element i.
func (f FieldAccessor) LoadInt(i int) int32 {
	return int32(math.Float32bits(f.data[f.base(i)]))
}

// StoreInt writes the integer at element i.
func (f FieldAccessor) StoreInt(i int, v int32) {
	f.data[f.base(i)] = math.Float32frombits(uint32(v))
}

// LoadVec3 reads the 3-vector at element i.
func (f FieldAccessor) LoadVec3(i int) vec3.Vec {
	b := f.base(i)
	return vec3.Vec{X: float64(f.data[b]), Y: float64(f.data[b+1]), Z: float64(f.data[b+2])}
}

// StoreVec3 writes the 3-vector at element i.
func (f FieldAccessor) StoreVec3(i int, v vec3.Vec) {
	b := f.base(i)
	f.data[b], f.data[b+1], f.data[b+2] = float32(v.X), float32(v.Y), float32(v.Z)
}

// LoadVec4 reads the 4-vector at element i.
func (f FieldAccessor) LoadVec4(i int) (x, y, z, w float32) {
	b := f.base(i)
	return f.data[b], f.data[b+1], f.data[b+2], f.data[b+3]
}

// StoreVec4 writes the 4-vector at element i.
func (f FieldAccessor) StoreVec4(i int, x, y, z, w float32) {
	b := f.base(i)
	f.data[b], f.data[b+1], f.data[b+2], f.data[b+3] = x, y, z, w
}
