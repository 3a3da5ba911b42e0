package geom

import "github.com/caldera-labs/tetrasim/vec3"

// Point is a tetrahedralizer input vertex: a position plus transient
// insertion-time bookkeeping. Immutable for the duration of one
// tetrahedralization.
type Point struct {
	ID       int32
	Pos      vec3.Vec
	Adjacent int32 // number of live tets currently touching this point
}

// PointSet is a deduplicating vertex dictionary, keyed at six-decimal
// precision the way the teacher's MeshTet4.addVertex dedups render
// vertices through a map[[3]float64]uint32 lookup (render/tet4.go).
type PointSet struct {
	pts    []Point
	lookup map[[3]int64]int32
}

// NewPointSet returns an empty point set.
func NewPointSet() *PointSet {
	return &PointSet{lookup: map[[3]int64]int32{}}
}

func quantize(p vec3.Vec) [3]int64 {
	const scale = 1e6 // six-decimal precision, per spec §4.1 step 1
	return [3]int64{
		int64(p.X * scale),
		int64(p.Y * scale),
		int64(p.Z * scale),
	}
}

// Add deduplicates p at six-decimal precision, returning the id of the
// (possibly pre-existing) point.
func (s *PointSet) Add(p vec3.Vec) int32 {
	key := quantize(p)
	if id, ok := s.lookup[key]; ok {
		return id
	}
	id := int32(len(s.pts))
	s.pts = append(s.pts, Point{ID: id, Pos: p})
	s.lookup[key] = id
	return id
}

// Len returns the number of distinct points.
func (s *PointSet) Len() int { return len(s.pts) }

// At returns the point with the given id.
func (s *PointSet) At(id int32) Point { return s.pts[id] }

// Pos returns the position of the point with the given id.
func (s *PointSet) Pos(id int32) vec3.Vec { return s.pts[id].Pos }

// All returns the backing slice of points. Callers must not retain it past
// further mutation of the set.
func (s *PointSet) All() []Point { return s.pts }

// IncAdjacent bumps the adjacency counter of point id.
func (s *PointSet) IncAdjacent(id int32, delta int32) {
	s.pts[id].Adjacent += delta
}
