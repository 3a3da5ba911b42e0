// Package bvh provides accelerated inside/outside classification and
// nearest-surface queries over a watertight triangle mesh, built on top of
// github.com/dhconnelly/rtreego's R-tree (the BVH of spec §4.2).
package bvh

import (
	"errors"
	"math"

	"github.com/dhconnelly/rtreego"

	"github.com/caldera-labs/tetrasim/vec3"
)

// ErrDegenerateSurface is returned by Build when the input triangle set is
// empty or otherwise cannot produce a usable tree (spec §7 BVHBuildFailure).
var ErrDegenerateSurface = errors.New("bvh: degenerate or empty surface")

const rtreeDim = 3
const rtreeMinBranch = 2
const rtreeMaxBranch = 8

// triangle is the rtreego.Spatial leaf wrapping one mesh triangle.
type triangle struct {
	a, b, c vec3.Vec
	bb      *rtreego.Rect
}

func (t *triangle) Bounds() *rtreego.Rect { return t.bb }

func newTriangle(a, b, c vec3.Vec) (*triangle, error) {
	min := a.Min(b).Min(c)
	size := a.Max(b).Max(c).Sub(min)
	// rtreego rejects zero-extent rectangles; pad by an epsilon so
	// axis-aligned or degenerate triangles still insert.
	const pad = 1e-9
	rect, err := rtreego.NewRect(
		rtreego.Point{min.X - pad, min.Y - pad, min.Z - pad},
		[]float64{size.X + 2*pad, size.Y + 2*pad, size.Z + 2*pad},
	)
	if err != nil {
		return nil, err
	}
	return &triangle{a: a, b: b, c: c, bb: rect}, nil
}

// Tree is a BVH over a closed triangle surface.
type Tree struct {
	rt    *rtreego.Rtree
	tris  []*triangle
	bound vec3.Box
}

// Build constructs a BVH from a triangulated surface. It fails with
// ErrDegenerateSurface when there are no valid (non-degenerate-bbox)
// triangles to index.
func Build(verts []vec3.Vec, faces [][3]int) (*Tree, error) {
	rt := rtreego.NewTree(rtreeDim, rtreeMinBranch, rtreeMaxBranch)
	t := &Tree{rt: rt, bound: vec3.EmptyBox()}

	for _, f := range faces {
		a, b, c := verts[f[0]], verts[f[1]], verts[f[2]]
		tri, err := newTriangle(a, b, c)
		if err != nil {
			continue
		}
		rt.Insert(tri)
		t.tris = append(t.tris, tri)
		t.bound = t.bound.Extend(a).Extend(b).Extend(c)
	}
	if len(t.tris) == 0 {
		return nil, ErrDegenerateSurface
	}
	return t, nil
}

// Bounds returns the BVH's overall bounding box.
func (t *Tree) Bounds() vec3.Box { return t.bound }

// rayTriangle is the Möller–Trumbore ray/triangle intersection test. It
// returns the hit distance along the ray and the triangle's geometric
// normal (not normalized to a winding convention; entering/exiting is
// decided by the caller comparing against ray direction).
func rayTriangle(origin, dir vec3.Vec, tri *triangle) (dist float64, normal vec3.Vec, hit bool) {
	const eps = 1e-10
	e1 := tri.b.Sub(tri.a)
	e2 := tri.c.Sub(tri.a)
	h := dir.Cross(e2)
	det := e1.Dot(h)
	if math.Abs(det) < eps {
		return 0, vec3.Vec{}, false
	}
	invDet := 1 / det
	s := origin.Sub(tri.a)
	u := s.Dot(h) * invDet
	if u < -eps || u > 1+eps {
		return 0, vec3.Vec{}, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * invDet
	if v < -eps || u+v > 1+eps {
		return 0, vec3.Vec{}, false
	}
	t := e2.Dot(q) * invDet
	if t < eps {
		return 0, vec3.Vec{}, false
	}
	return t, e1.Cross(e2).Normalize(), true
}

// castRay returns the nearest hit of the ray (origin,dir) against the BVH's
// triangles, querying the R-tree for axis-aligned candidates first instead
// of a brute-force scan over every triangle.
func (t *Tree) castRay(origin, dir vec3.Vec) (dist float64, normal vec3.Vec, hit bool) {
	// Build a generous search rectangle along the ray within the tree's
	// overall bound; since probe rays are axis-aligned (spec §4.2 "six
	// axis-aligned rays"), this degenerates to a 1-D span and the R-tree
	// prunes the other two axes down to the origin's cell.
	lo := origin.Min(origin.Add(dir.MulScalar(farDistance(t.bound, origin, dir))))
	hi := origin.Max(origin.Add(dir.MulScalar(farDistance(t.bound, origin, dir))))
	size := hi.Sub(lo)
	const pad = 1e-6
	rect, err := rtreego.NewRect(
		rtreego.Point{lo.X - pad, lo.Y - pad, lo.Z - pad},
		[]float64{size.X + 2*pad, size.Y + 2*pad, size.Z + 2*pad},
	)
	if err != nil {
		return 0, vec3.Vec{}, false
	}

	candidates := t.rt.SearchIntersect(rect)
	best := math.Inf(1)
	var bestN vec3.Vec
	found := false
	for _, c := range candidates {
		tri := c.(*triangle)
		d, n, ok := rayTriangle(origin, dir, tri)
		if ok && d < best {
			best, bestN, found = d, n, true
		}
	}
	return best, bestN, found
}

func farDistance(b vec3.Box, origin, dir vec3.Vec) float64 {
	span := b.Size().Length() + origin.Sub(b.Center()).Length()
	return 2 * (span + 1)
}

// axisProbes are the six axis-aligned probe directions used by Classify.
var axisProbes = [6]vec3.Vec{
	{X: 1}, {X: -1},
	{Y: 1}, {Y: -1},
	{Z: 1}, {Z: -1},
}

// Classify implements the 6-vote inside/outside rule of spec §4.2: cast six
// axis-aligned rays from p, count how many indicate "entering" a
// front-facing triangle, and call p inside when that count exceeds 3.
// It also returns the (unsigned) hit distance to, and outward normal of,
// the nearest hit triangle (closest of the six probes).
func (t *Tree) Classify(p vec3.Vec) (inside bool, dist float64, normal vec3.Vec) {
	votes := 0
	best := math.Inf(1)
	var bestNormal vec3.Vec
	haveBest := false

	for _, dir := range axisProbes {
		d, n, hit := t.castRay(p, dir)
		if !hit {
			continue
		}
		if dir.Dot(n) > 0 {
			// Ray direction and hit normal are aligned: entering the solid.
			votes++
		}
		if d < best {
			best = d
			bestNormal = n
			haveBest = true
		}
	}
	if !haveBest {
		return false, math.Inf(1), vec3.Vec{}
	}
	return votes > 3, best, bestNormal
}

// NearestDistance returns an inexpensive upper bound on distance-to-surface
// by taking the minimum of the six axis-probe hit distances (spec §4.1 step
// 3's "at least h/2 from the surface" filter does not require an exact
// nearest-point query).
func (t *Tree) NearestDistance(p vec3.Vec) float64 {
	_, d, _ := t.Classify(p)
	return d
}
