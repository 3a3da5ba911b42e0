// Package buffer implements the structured-buffer layout engine of spec
// §4.4: a descriptor maps field names to semantic types, the layout engine
// assigns offsets respecting per-type alignment, and a typed accessor binds
// into it by (index, field) on the host side or by dynamic index on the
// "device" side.
package buffer

import "fmt"

// Kind is the semantic type of one structured-buffer field.
type Kind int

// Field kinds and their size/alignment in float32 units (scalars align to
// 1, vec2/ivec2 to 2, vec3/vec4/matrix rows to 4 — spec §4.4).
const (
	Scalar Kind = iota
	Int
	Vec2
	IVec2
	Vec3
	Vec4
	Mat3 // stored as three Vec4 rows (padded), matching GPU row alignment
)

func (k Kind) size() int {
	switch k {
	case Scalar, Int:
		return 1
	case Vec2, IVec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	case Mat3:
		return 12
	default:
		panic(fmt.Sprintf("buffer: unknown kind %d", k))
	}
}

func (k Kind) align() int {
	switch k {
	case Scalar, Int:
		return 1
	case Vec2, IVec2:
		return 2
	default:
		return 4
	}
}

// Field names one logical value in a structured buffer.
type Field struct {
	Name string
	Kind Kind
}

// Layout assigns byte offsets to a set of fields under the alignment rules
// of spec §4.4, guaranteeing that two Layouts built from the same field
// list in the same order produce byte-identical offsets (the "portable
// between host and device" contract).
type Layout struct {
	Fields []Field
	offset map[string]int // offset in float32 units
	stride int             // stride in float32 units, padded to a multiple of 4
}

// NewLayout computes offsets for fields in declaration order.
func NewLayout(fields []Field) *Layout {
	l := &Layout{Fields: fields, offset: map[string]int{}}
	cursor := 0
	for _, f := range fields {
		a := f.Kind.align()
		if rem := cursor % a; rem != 0 {
			cursor += a - rem
		}
		l.offset[f.Name] = cursor
		cursor += f.Kind.size()
	}
	if rem := cursor % 4; rem != 0 {
		cursor += 4 - rem
	}
	l.stride = cursor
	return l
}

// Stride returns the per-element stride, in float32 units.
func (l *Layout) Stride() int { return l.stride }

// Offset returns the float32-unit offset of a named field.
func (l *Layout) Offset(name string) int {
	off, ok := l.offset[name]
	if !ok {
		panic(fmt.Sprintf("buffer: unknown field %q", name))
	}
	return off
}

// ByteStride returns the per-element stride in bytes (float32 = 4 bytes).
func (l *Layout) ByteStride() int { return l.stride * 4 }
