package geom

import "github.com/caldera-labs/tetrasim/vec3"

// TetArena is a dense arena-of-tets: contiguous arrays for vertex-id
// tuples, neighbour slots, and face planes, plus a single integer mark per
// tet and a soft-delete free list threaded through slot 1 of a deleted
// tet's id tuple (spec §9 "Cyclic / pointer-graph topology").
//
// Deletion sets Ids[i][0] = -1 (the sentinel) and Ids[i][1] to the previous
// free-list head; no tet is ever physically removed from the backing
// arrays until Compact is called.
type TetArena struct {
	Ids    [][4]int32
	Nbr    [][4]int32
	planeN [][4]vec3.Vec
	planeD [][4]float64
	Mark   []int32

	pts      *PointSet
	freeHead int32
	nextMark int32
}

// NewTetArena returns an empty arena backed by the given point dictionary.
func NewTetArena(pts *PointSet) *TetArena {
	return &TetArena{pts: pts, freeHead: -1}
}

// Deleted is the sentinel stored in Ids[i][0] for a freed tet.
const Deleted = int32(-1)

// Live reports whether tet i is not on the free list.
func (a *TetArena) Live(i int32) bool {
	return a.Ids[i][0] != Deleted
}

// Len returns the arena's capacity, including freed slots.
func (a *TetArena) Len() int { return len(a.Ids) }

// Alloc allocates (or reuses) a tet slot for the given vertex ids, computes
// its face planes, and returns the tet's index.
func (a *TetArena) Alloc(v [4]int32) int32 {
	var i int32
	if a.freeHead != -1 {
		i = a.freeHead
		a.freeHead = a.Ids[i][1]
		a.Ids[i] = v
		a.Nbr[i] = [4]int32{-1, -1, -1, -1}
	} else {
		i = int32(len(a.Ids))
		a.Ids = append(a.Ids, v)
		a.Nbr = append(a.Nbr, [4]int32{-1, -1, -1, -1})
		a.planeN = append(a.planeN, [4]vec3.Vec{})
		a.planeD = append(a.planeD, [4]float64{})
		a.Mark = append(a.Mark, 0)
	}
	a.UpdatePlanes(i)
	for _, id := range v {
		if id >= 0 {
			a.pts.IncAdjacent(id, 1)
		}
	}
	return i
}

// Free soft-deletes tet i, threading it onto the free list.
func (a *TetArena) Free(i int32) {
	for _, id := range a.Ids[i] {
		if id >= 0 {
			a.pts.IncAdjacent(id, -1)
		}
	}
	a.Ids[i][0] = Deleted
	a.Ids[i][1] = a.freeHead
	a.freeHead = i
}

// Verts returns the four vertex ids of tet i.
func (a *TetArena) Verts(i int32) [4]int32 { return a.Ids[i] }

// VertPos returns the four corner positions of tet i.
func (a *TetArena) VertPos(i int32) (vec3.Vec, vec3.Vec, vec3.Vec, vec3.Vec) {
	v := a.Ids[i]
	return a.pts.Pos(v[0]), a.pts.Pos(v[1]), a.pts.Pos(v[2]), a.pts.Pos(v[3])
}

// Centroid returns the centroid of tet i.
func (a *TetArena) Centroid(i int32) vec3.Vec {
	p0, p1, p2, p3 := a.VertPos(i)
	return p0.Add(p1).Add(p2).Add(p3).DivScalar(4)
}

// UpdatePlanes recomputes the four face planes of tet i. The stored normal
// always points away from the tet's interior (the vertex opposite the
// face has negative signed distance).
func (a *TetArena) UpdatePlanes(i int32) {
	v := a.Ids[i]
	pos := [4]vec3.Vec{}
	for k, id := range v {
		if id >= 0 {
			pos[k] = a.pts.Pos(id)
		}
	}
	for f, face := range Faces {
		pa, pb, pc := pos[face[0]], pos[face[1]], pos[face[2]]
		opp := pos[oppositeVertex(f)]
		n := pb.Sub(pa).Cross(pc.Sub(pa)).Normalize()
		d := n.Dot(pa)
		if n.Dot(opp)-d > 0 {
			n = n.Neg()
			d = -d
		}
		a.planeN[i][f] = n
		a.planeD[i][f] = d
	}
}

// oppositeVertex returns the local vertex index not referenced by face f.
func oppositeVertex(f int) int {
	used := Faces[f]
	for v := 0; v < 4; v++ {
		if v != used[0] && v != used[1] && v != used[2] {
			return v
		}
	}
	panic("unreachable")
}

// SignedDist returns the signed distance of p to face f of tet i: negative
// on the tet's interior side, positive outside.
func (a *TetArena) SignedDist(i int32, f int, p vec3.Vec) float64 {
	return a.planeN[i][f].Dot(p) - a.planeD[i][f]
}

// NextMark returns a fresh monotonically increasing mark, used to give each
// walk or cavity flood-fill its own visited-set generation without having
// to clear the Mark array between insertions.
func (a *TetArena) NextMark() int32 {
	a.nextMark++
	return a.nextMark
}

// Compact drops all freed tets and rewrites indices, returning the mapping
// from old index to new index (-1 for dropped tets).
func (a *TetArena) Compact() (remap []int32) {
	remap = make([]int32, len(a.Ids))
	newIds := make([][4]int32, 0, len(a.Ids))
	newNbr := make([][4]int32, 0, len(a.Ids))
	newPlaneN := make([][4]vec3.Vec, 0, len(a.Ids))
	newPlaneD := make([][4]float64, 0, len(a.Ids))
	newMark := make([]int32, 0, len(a.Ids))

	for i := range a.Ids {
		if !a.Live(int32(i)) {
			remap[i] = -1
			continue
		}
		remap[i] = int32(len(newIds))
		newIds = append(newIds, a.Ids[i])
		newNbr = append(newNbr, a.Nbr[i])
		newPlaneN = append(newPlaneN, a.planeN[i])
		newPlaneD = append(newPlaneD, a.planeD[i])
		newMark = append(newMark, a.Mark[i])
	}
	for i := range newNbr {
		for f := 0; f < 4; f++ {
			if newNbr[i][f] >= 0 {
				newNbr[i][f] = remap[newNbr[i][f]]
			}
		}
	}
	a.Ids, a.Nbr, a.planeN, a.planeD, a.Mark = newIds, newNbr, newPlaneN, newPlaneD, newMark
	a.freeHead = -1
	return remap
}
