package tetra

import (
	"math"

	"github.com/caldera-labs/tetrasim/geom"
	"github.com/caldera-labs/tetrasim/vec3"
)

// Surface is a closed triangulated surface: per-vertex positions and
// triangle index triples.
type Surface struct {
	Verts []vec3.Vec
	Faces [][3]int
}

// Mesh is the tetrahedralizer's output: a flat vertex array, a flat
// 4-tuple tet-id array, and the raw point list used during construction
// (for downstream attachment, e.g. tetra/attach).
type Mesh struct {
	Verts  []vec3.Vec
	Tets   [][4]uint32
	Points []geom.Point
}

// TetCount returns the number of tets in the mesh.
func (m Mesh) TetCount() int { return len(m.Tets) }

// Stats summarizes tet-quality statistics across a mesh, for debug/test use
// (spec §6 "Debug-time helpers").
type Stats struct {
	Count      int
	VolumeSum  float64
	MinQuality float64
	MaxQuality float64
	AvgQuality float64
}

// ComputeStats returns tet count, total volume, and quality extremes/mean.
func ComputeStats(m Mesh) Stats {
	if len(m.Tets) == 0 {
		return Stats{}
	}
	s := Stats{Count: len(m.Tets), MinQuality: math.Inf(1), MaxQuality: math.Inf(-1)}
	for _, t := range m.Tets {
		p0, p1, p2, p3 := m.Verts[t[0]], m.Verts[t[1]], m.Verts[t[2]], m.Verts[t[3]]
		v := geom.Volume(p0, p1, p2, p3)
		q := geom.Quality(p0, p1, p2, p3)
		s.VolumeSum += v
		if q < s.MinQuality {
			s.MinQuality = q
		}
		if q > s.MaxQuality {
			s.MaxQuality = q
		}
		s.AvgQuality += q
	}
	s.AvgQuality /= float64(len(m.Tets))
	return s
}

// BoundaryFaces returns the faces that appear in exactly one tet: the
// boundary surface of the tet mesh (spec §6 "surface extraction").
func BoundaryFaces(m Mesh) [][3]uint32 {
	type faceKey [3]uint32

	count := map[faceKey]int{}
	rep := map[faceKey][3]uint32{}
	for _, t := range m.Tets {
		for _, f := range geom.Faces {
			tri := [3]uint32{t[f[0]], t[f[1]], t[f[2]]}
			key := sortedFace(tri)
			count[key]++
			rep[key] = tri
		}
	}
	var out [][3]uint32
	for key, n := range count {
		if n == 1 {
			out = append(out, rep[key])
		}
	}
	return out
}

func sortedFace(f [3]uint32) [3]uint32 {
	a, b, c := f[0], f[1], f[2]
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]uint32{a, b, c}
}
