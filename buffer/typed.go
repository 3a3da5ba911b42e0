package buffer

import (
	"math"

	"github.com/caldera-labs/tetrasim/vec3"
)

// Typed is the host-side view of a structured buffer: count elements, each
// l.Stride() float32s wide, with named fields at fixed offsets.
type Typed struct {
	layout *Layout
	data   []float32
	count  int
}

// NewTyped allocates a zeroed buffer for count elements under layout.
func NewTyped(layout *Layout, count int) *Typed {
	return &Typed{layout: layout, data: make([]float32, layout.Stride()*count), count: count}
}

// Layout returns the buffer's field layout.
func (t *Typed) Layout() *Layout { return t.layout }

// Count returns the number of elements.
func (t *Typed) Count() int { return t.count }

// Raw returns the backing float32 slice, in the same byte layout a device
// would see (spec §4.4 "byte-identical memory images").
func (t *Typed) Raw() []float32 { return t.data }

func (t *Typed) base(index int, field string) int {
	return index*t.layout.Stride() + t.layout.Offset(field)
}

// SetFloat writes a Scalar field.
func (t *Typed) SetFloat(index int, field string, v float32) {
	t.data[t.base(index, field)] = v
}

// Float reads a Scalar field.
func (t *Typed) Float(index int, field string) float32 {
	return t.data[t.base(index, field)]
}

// SetInt writes an Int field, storing the int32's bit pattern verbatim so
// the field round-trips exactly through the same backing array a real
// float32 device buffer would use.
func (t *Typed) SetInt(index int, field string, v int32) {
	t.data[t.base(index, field)] = math.Float32frombits(uint32(v))
}

// Int reads an Int field.
func (t *Typed) Int(index int, field string) int32 {
	return int32(math.Float32bits(t.data[t.base(index, field)]))
}

// SetVec3 writes a Vec3 field.
func (t *Typed) SetVec3(index int, field string, v vec3.Vec) {
	b := t.base(index, field)
	t.data[b] = float32(v.X)
	t.data[b+1] = float32(v.Y)
	t.data[b+2] = float32(v.Z)
}

// Vec3 reads a Vec3 field.
func (t *Typed) Vec3(index int, field string) vec3.Vec {
	b := t.base(index, field)
	return vec3.Vec{X: float64(t.data[b]), Y: float64(t.data[b+1]), Z: float64(t.data[b+2])}
}

// SetVec4 writes a Vec4 field, typically a quaternion (x,y,z,w).
func (t *Typed) SetVec4(index int, field string, x, y, z, w float32) {
	b := t.base(index, field)
	t.data[b], t.data[b+1], t.data[b+2], t.data[b+3] = x, y, z, w
}

// Vec4 reads a Vec4 field.
func (t *Typed) Vec4(index int, field string) (x, y, z, w float32) {
	b := t.base(index, field)
	return t.data[b], t.data[b+1], t.data[b+2], t.data[b+3]
}
