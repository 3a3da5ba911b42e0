package tetra

import (
	"math"
	"sort"

	"github.com/caldera-labs/tetrasim/geom"
	"github.com/caldera-labs/tetrasim/vec3"
)

// engine drives one Bowyer–Watson insertion sequence: walk, cavity
// flood-fill, carve, and re-stitch (spec §4.1 step 5), operating on a
// shared geom.TetArena.
type engine struct {
	arena *geom.TetArena
	pts   *geom.PointSet
	opts  Options

	last int32 // most recently touched live tet, used as the next walk's start
}

func newEngine(arena *geom.TetArena, pts *geom.PointSet, opts Options) *engine {
	return &engine{arena: arena, pts: pts, opts: opts}
}

// buildSuperTet appends four synthetic vertices at distance 5R from the
// point cloud's centroid, enclosing the full cloud, and seeds the arena
// with one positively-oriented tet over them (spec §4.1 step 4).
func buildSuperTet(pts *geom.PointSet, cloud []vec3.Vec) (arena *geom.TetArena, superIDs [4]int32) {
	var centroid vec3.Vec
	for _, p := range cloud {
		centroid = centroid.Add(p)
	}
	if len(cloud) > 0 {
		centroid = centroid.DivScalar(float64(len(cloud)))
	}
	var radius float64
	for _, p := range cloud {
		if d := p.Sub(centroid).Length(); d > radius {
			radius = d
		}
	}
	if radius < 1e-9 {
		radius = 1
	}
	const scaleFactor = 5

	dirs := [4]vec3.Vec{
		{X: 1, Y: 1, Z: 1},
		{X: 1, Y: -1, Z: -1},
		{X: -1, Y: 1, Z: -1},
		{X: -1, Y: -1, Z: 1},
	}
	var super [4]vec3.Vec
	for i, d := range dirs {
		super[i] = centroid.Add(d.Normalize().MulScalar(scaleFactor * radius))
	}

	arena = geom.NewTetArena(pts)
	for i, p := range super {
		superIDs[i] = pts.Add(p)
		_ = i
	}

	v := superIDs
	p0, p1, p2, p3 := pts.Pos(v[0]), pts.Pos(v[1]), pts.Pos(v[2]), pts.Pos(v[3])
	if geom.Volume(p0, p1, p2, p3) < 0 {
		v[0], v[1] = v[1], v[0]
	}
	arena.Alloc(v)
	return arena, superIDs
}

// walk descends from e.last toward p, returning the tet that contains it.
func (e *engine) walk(p vec3.Vec) (int32, error) {
	cur := e.last
	mark := e.arena.NextMark()
	const eps = 1e-9

	for {
		if e.arena.Mark[cur] == mark {
			return -1, errWalk
		}
		e.arena.Mark[cur] = mark

		c := e.arena.Centroid(cur)
		minT := math.Inf(1)
		minFace := -1
		inside := true
		for f := 0; f < 4; f++ {
			hp := e.arena.SignedDist(cur, f, p)
			hc := e.arena.SignedDist(cur, f, c)
			denom := hp - hc
			if math.Abs(denom) < 1e-15 {
				continue
			}
			t := -hc / denom
			if t < -eps {
				// The centroid->p ray crosses this face's plane behind the
				// centroid, so the face cannot separate p from the tet.
				continue
			}
			if t < 1-eps {
				inside = false
			}
			if t < minT {
				minT = t
				minFace = f
			}
		}
		if inside {
			return cur, nil
		}
		if minFace == -1 {
			return -1, errWalk
		}
		next := e.arena.Nbr[cur][minFace]
		if next == -1 {
			return -1, errWalk
		}
		cur = next
	}
}

// cavity flood-fills from start, collecting every tet whose open
// circumsphere contains p (spec §4.1 step 5b).
func (e *engine) cavity(start int32, p vec3.Vec) []int32 {
	mark := e.arena.NextMark()
	stack := []int32{start}
	e.arena.Mark[start] = mark
	var out []int32

	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]
		out = append(out, cur)

		for f := 0; f < 4; f++ {
			nb := e.arena.Nbr[cur][f]
			if nb == -1 || e.arena.Mark[nb] == mark {
				continue
			}
			q0, q1, q2, q3 := e.arena.VertPos(nb)
			if geom.InCircumsphere(q0, q1, q2, q3, p) {
				e.arena.Mark[nb] = mark
				stack = append(stack, nb)
			}
		}
	}
	return out
}

type fanEdge struct {
	lo, hi int32
	tet    int32
	slot   int
}

// insertPoint carries out steps 5a-5e of spec §4.1 for a single point.
func (e *engine) insertPoint(pID int32) error {
	p := e.pts.Pos(pID)

	container, err := e.walk(p)
	if err != nil {
		return err
	}

	cav := e.cavity(container, p)
	cavMark := e.arena.Mark[cav[0]]

	// carve: record each boundary face before freeing the cavity tets.
	type boundaryFace struct {
		outer    [3]int32 // global ids, Faces[f] order
		external int32    // neighbour tet outside the cavity, or -1
	}
	var boundary []boundaryFace
	for _, t := range cav {
		verts := e.arena.Verts(t)
		for f := 0; f < 4; f++ {
			nb := e.arena.Nbr[t][f]
			if nb != -1 && e.arena.Mark[nb] == cavMark {
				continue // interior to the cavity, not exposed
			}
			face := geom.Faces[f]
			boundary = append(boundary, boundaryFace{
				outer:    [3]int32{verts[face[0]], verts[face[1]], verts[face[2]]},
				external: nb,
			})
		}
	}

	for _, t := range cav {
		e.arena.Free(t)
	}

	// re-stitch: allocate one new tet per boundary face.
	newTets := make([]int32, len(boundary))
	var edges []fanEdge
	for i, bf := range boundary {
		o0, o1, o2 := bf.outer[0], bf.outer[1], bf.outer[2]
		nt := e.arena.Alloc([4]int32{o1, o0, o2, pID})
		newTets[i] = nt

		if bf.external != -1 {
			e.arena.Nbr[nt][0] = bf.external
			// Find which face slot of the external neighbour pointed at the
			// freed cavity tet and retarget it at the new tet.
			for f := 0; f < 4; f++ {
				// The external neighbour's stale back-link target no longer
				// exists (freed); identify the slot by matching the face's
				// vertex set instead.
				nv := e.arena.Verts(bf.external)
				face := geom.Faces[f]
				set := [3]int32{nv[face[0]], nv[face[1]], nv[face[2]]}
				if sameSet3(set, bf.outer) {
					e.arena.Nbr[bf.external][f] = nt
					break
				}
			}
		}

		edges = append(edges,
			fanEdge{lo: minI32(o0, o1), hi: maxI32(o0, o1), tet: nt, slot: 1},
			fanEdge{lo: minI32(o0, o2), hi: maxI32(o0, o2), tet: nt, slot: 2},
			fanEdge{lo: minI32(o1, o2), hi: maxI32(o1, o2), tet: nt, slot: 3},
		)
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].lo != edges[j].lo {
			return edges[i].lo < edges[j].lo
		}
		return edges[i].hi < edges[j].hi
	})
	for i := 0; i+1 < len(edges); i++ {
		a, b := edges[i], edges[i+1]
		if a.lo == b.lo && a.hi == b.hi {
			e.arena.Nbr[a.tet][a.slot] = b.tet
			e.arena.Nbr[b.tet][b.slot] = a.tet
			i++ // consumed the pair
		}
	}

	if len(newTets) > 0 {
		e.last = newTets[len(newTets)-1]
	}
	return nil
}

func sameSet3(a, b [3]int32) bool {
	return (a[0] == b[0] || a[0] == b[1] || a[0] == b[2]) &&
		(a[1] == b[0] || a[1] == b[1] || a[1] == b[2]) &&
		(a[2] == b[0] || a[2] == b[1] || a[2] == b[2])
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func maxI32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
