package geom

import (
	"math"

	"github.com/caldera-labs/tetrasim/vec3"
)

// Volume returns the signed volume of tetrahedron (p0,p1,p2,p3).
func Volume(p0, p1, p2, p3 vec3.Vec) float64 {
	return p1.Sub(p0).Dot(p2.Sub(p0).Cross(p3.Sub(p0))) / 6
}

// rms returns the root-mean-square edge length of (p0,p1,p2,p3).
func rms(p0, p1, p2, p3 vec3.Vec) float64 {
	v := [4]vec3.Vec{p0, p1, p2, p3}
	var sum float64
	for _, e := range Edges {
		d := v[e[0]].Sub(v[e[1]])
		sum += d.LengthSqr()
	}
	return math.Sqrt(sum / 6)
}

// Quality returns the normalized tet-quality metric: 1 for a regular tet,
// 0 for a degenerate one, negative for an inverted one.
func Quality(p0, p1, p2, p3 vec3.Vec) float64 {
	r := rms(p0, p1, p2, p3)
	if r < 1e-15 {
		return 0
	}
	v := Volume(p0, p1, p2, p3)
	return 12 * v / (math.Sqrt2 * r * r * r)
}

// Circumcenter returns the center and squared radius of the sphere passing
// through p0..p3. ok is false when the four points are (near-)coplanar.
func Circumcenter(p0, p1, p2, p3 vec3.Vec) (center vec3.Vec, radiusSqr float64, ok bool) {
	a := p1.Sub(p0)
	b := p2.Sub(p0)
	c := p3.Sub(p0)

	det := a.Dot(b.Cross(c))
	if math.Abs(det) < 1e-10 {
		return vec3.Vec{}, 0, false
	}

	la := a.LengthSqr()
	lb := b.LengthSqr()
	lc := c.LengthSqr()

	// center = p0 + (la*(b x c) + lb*(c x a) + lc*(a x b)) / (2*det)
	num := b.Cross(c).MulScalar(la).
		Add(c.Cross(a).MulScalar(lb)).
		Add(a.Cross(b).MulScalar(lc))
	offset := num.DivScalar(2 * det)
	center = p0.Add(offset)
	radiusSqr = offset.LengthSqr()
	return center, radiusSqr, true
}

// InCircumsphere reports whether p lies strictly inside the open circumsphere
// of (p0,p1,p2,p3). A degenerate circumsphere (near-zero determinant) is
// treated as non-violating per the Delaunay-criterion edge case in spec §4.1.
func InCircumsphere(p0, p1, p2, p3, p vec3.Vec) bool {
	center, r2, ok := Circumcenter(p0, p1, p2, p3)
	if !ok {
		return false
	}
	return p.Sub(center).LengthSqr() < r2-1e-12
}

// Barycentric returns the barycentric coordinates of p with respect to tet
// (p0,p1,p2,p3): (b0,b1,b2,b3) with b0+b1+b2+b3 == 1.
func Barycentric(p0, p1, p2, p3, p vec3.Vec) (b0, b1, b2, b3 float64) {
	vTot := Volume(p0, p1, p2, p3)
	if math.Abs(vTot) < 1e-18 {
		return 0.25, 0.25, 0.25, 0.25
	}
	b0 = Volume(p, p1, p2, p3) / vTot
	b1 = Volume(p0, p, p2, p3) / vTot
	b2 = Volume(p0, p1, p, p3) / vTot
	b3 = 1 - b0 - b1 - b2
	return
}
