package vec3

// Box is an axis-aligned bounding box.
type Box struct {
	Min, Max Vec
}

// EmptyBox returns a box primed to be grown by Extend.
func EmptyBox() Box {
	const inf = 1e308
	return Box{
		Min: Vec{inf, inf, inf},
		Max: Vec{-inf, -inf, -inf},
	}
}

// Extend grows b to include p, returning the new box.
func (b Box) Extend(p Vec) Box {
	return Box{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	return Box{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// Center returns the box's midpoint.
func (b Box) Center() Vec {
	return b.Min.Add(b.Max).MulScalar(0.5)
}

// Size returns the box's extent along each axis.
func (b Box) Size() Vec {
	return b.Max.Sub(b.Min)
}

// Contains reports whether p lies within b (inclusive).
func (b Box) Contains(p Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}
