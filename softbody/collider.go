package softbody

import (
	"image"
	"math"

	"github.com/caldera-labs/tetrasim/vec3"
)

// ColliderFunc adapts a plain function to Collider, the same "any callable
// mapping world position to (normal, signed_distance)" shape spec §6
// describes for the library surface.
type ColliderFunc func(p vec3.Vec) (vec3.Vec, float64)

// At implements Collider.
func (f ColliderFunc) At(p vec3.Vec) (vec3.Vec, float64) { return f(p) }

// Plane is an infinite half-space collider: points on the Normal side of a
// point on the plane are outside.
type Plane struct {
	Point  vec3.Vec
	Normal vec3.Vec // must be unit length
}

// At implements Collider.
func (c Plane) At(p vec3.Vec) (vec3.Vec, float64) {
	return c.Normal, p.Sub(c.Point).Dot(c.Normal)
}

// Sphere is a spherical collider; Inside flips the sign convention so the
// interior of the sphere is the free region (a containing shell).
type Sphere struct {
	Centre vec3.Vec
	Radius float64
	Inside bool
}

// At implements Collider.
func (c Sphere) At(p vec3.Vec) (vec3.Vec, float64) {
	d := p.Sub(c.Centre)
	dist := d.Length()
	n := d.Normalize()
	if dist < 1e-12 {
		n = vec3.Vec{X: 0, Y: 1, Z: 0}
	}
	if c.Inside {
		return n.Neg(), c.Radius - dist
	}
	return n, dist - c.Radius
}

// Box is an axis-aligned box collider; Inside flips the sign convention the
// same way Sphere does.
type Box struct {
	Centre vec3.Vec
	Half   vec3.Vec
	Inside bool
}

// At implements Collider.
func (c Box) At(p vec3.Vec) (vec3.Vec, float64) {
	local := p.Sub(c.Centre)
	q := local.Abs().Sub(c.Half)
	outside := q.Max(vec3.Vec{}).Length()
	inside := math.Min(q.MaxComponent(), 0)
	dist := outside + inside

	n := vec3.Vec{
		X: sign(local.X) * step(q.X, q.Y, q.Z),
		Y: sign(local.Y) * step(q.Y, q.X, q.Z),
		Z: sign(local.Z) * step(q.Z, q.X, q.Y),
	}
	n = n.Normalize()
	if n == (vec3.Vec{}) {
		n = vec3.Vec{X: 0, Y: 1, Z: 0}
	}

	if c.Inside {
		return n.Neg(), -dist
	}
	return n, dist
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// step returns 1 when a is the (weakly) dominant of the three magnitudes,
// else 0 — used to pick the box's nearest-face axis for the surface normal.
func step(a, b, c float64) float64 {
	if a >= b && a >= c {
		return 1
	}
	return 0
}

// Capsule is a line-segment-swept-sphere collider (two endpoints + radius).
type Capsule struct {
	A, B   vec3.Vec
	Radius float64
}

// At implements Collider.
func (c Capsule) At(p vec3.Vec) (vec3.Vec, float64) {
	ab := c.B.Sub(c.A)
	t := 0.0
	denom := ab.LengthSqr()
	if denom > 1e-18 {
		t = p.Sub(c.A).Dot(ab) / denom
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	closest := c.A.Add(ab.MulScalar(t))
	d := p.Sub(closest)
	dist := d.Length()
	n := d.Normalize()
	if dist < 1e-12 {
		n = vec3.Vec{X: 0, Y: 1, Z: 0}
	}
	return n, dist - c.Radius
}

// HeightField is an analytic height-field collider backed by a 16-bit
// grayscale elevation image (spec §3 "an analytic height-field/mesh-SDF";
// SPEC_FULL §4.9.1): golang.org/x/image decodes the backing store so the
// teacher's texture-loading dependency gets a second, non-rendering home.
type HeightField struct {
	Img       *image.Gray16
	Origin    vec3.Vec // world position of image pixel (0,0)
	CellSize  float64  // world units per pixel, both axes
	MaxHeight float64  // world height mapped to a 0xFFFF sample
}

// At implements Collider. The surface is treated as a simple "height minus
// world y" distance function; the normal is derived from the local height
// gradient via central differences.
func (c HeightField) At(p vec3.Vec) (vec3.Vec, float64) {
	h := c.heightAt(p.X, p.Z)

	const eps = 1e-3
	hx := (c.heightAt(p.X+eps, p.Z) - c.heightAt(p.X-eps, p.Z)) / (2 * eps)
	hz := (c.heightAt(p.X, p.Z+eps) - c.heightAt(p.X, p.Z-eps)) / (2 * eps)

	n := vec3.Vec{X: -hx, Y: 1, Z: -hz}.Normalize()
	return n, p.Y - h
}

func (c HeightField) heightAt(wx, wz float64) float64 {
	if c.Img == nil {
		return 0
	}
	bounds := c.Img.Bounds()
	px := int((wx - c.Origin.X) / c.CellSize)
	pz := int((wz - c.Origin.Z) / c.CellSize)
	if px < bounds.Min.X {
		px = bounds.Min.X
	} else if px >= bounds.Max.X {
		px = bounds.Max.X - 1
	}
	if pz < bounds.Min.Y {
		pz = bounds.Min.Y
	} else if pz >= bounds.Max.Y {
		pz = bounds.Max.Y - 1
	}
	sample := c.Img.Gray16At(px, pz).Y
	return c.Origin.Y + float64(sample)/0xFFFF*c.MaxHeight
}

// DynamicSphere is a sphere whose centre the host updates every frame
// (spec §3 "Dynamic variants carry a scalar/vector state updated from the
// host each frame").
type DynamicSphere struct {
	Centre vec3.Vec
	Radius float64
}

// At implements Collider.
func (c *DynamicSphere) At(p vec3.Vec) (vec3.Vec, float64) {
	return Sphere{Centre: c.Centre, Radius: c.Radius}.At(p)
}

// SetCentre updates the sphere's world-space centre for the next step.
func (c *DynamicSphere) SetCentre(centre vec3.Vec) { c.Centre = centre }
