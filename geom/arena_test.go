package geom_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caldera-labs/tetrasim/geom"
	"github.com/caldera-labs/tetrasim/vec3"
)

// buildArena seeds a point set with a single right-angle tet and allocates
// it, returning both for further manipulation.
func buildArena(t *testing.T) (*geom.PointSet, *geom.TetArena, int32) {
	t.Helper()
	pts := geom.NewPointSet()
	v0 := pts.Add(vec3.Vec{})
	v1 := pts.Add(vec3.Vec{X: 1})
	v2 := pts.Add(vec3.Vec{Y: 1})
	v3 := pts.Add(vec3.Vec{Z: 1})

	a := geom.NewTetArena(pts)
	ti := a.Alloc([4]int32{v0, v1, v2, v3})
	return pts, a, ti
}

func TestAllocMarksTetLiveAndBumpsAdjacency(t *testing.T) {
	pts, a, ti := buildArena(t)

	require.True(t, a.Live(ti))
	require.Equal(t, 1, a.Len())
	for id := int32(0); id < int32(pts.Len()); id++ {
		require.EqualValues(t, 1, pts.At(id).Adjacent)
	}
}

func TestFreeSoftDeletesAndDropsAdjacency(t *testing.T) {
	pts, a, ti := buildArena(t)

	a.Free(ti)

	require.False(t, a.Live(ti))
	require.Equal(t, 1, a.Len(), "freed slot stays in the backing array until Compact")
	for id := int32(0); id < int32(pts.Len()); id++ {
		require.EqualValues(t, 0, pts.At(id).Adjacent)
	}
}

func TestAllocReusesFreedSlot(t *testing.T) {
	pts, a, ti := buildArena(t)
	a.Free(ti)

	v0 := pts.Add(vec3.Vec{X: 5})
	v1 := pts.Add(vec3.Vec{X: 6})
	v2 := pts.Add(vec3.Vec{X: 7})
	v3 := pts.Add(vec3.Vec{X: 8})
	reused := a.Alloc([4]int32{v0, v1, v2, v3})

	require.Equal(t, ti, reused, "freed slot should be recycled rather than growing the arena")
	require.Equal(t, 1, a.Len())
	require.True(t, a.Live(reused))
}

func TestUpdatePlanesOppositeVertexHasNegativeSignedDistance(t *testing.T) {
	_, a, ti := buildArena(t)

	for f := 0; f < 4; f++ {
		opp := oppositeVertexForTest(f)
		oppPos := cornerPos(a, ti, opp)
		d := a.SignedDist(ti, f, oppPos)
		require.Less(t, d, 0.0, "face %d: opposite vertex must read negative signed distance", f)
	}
}

func TestSignedDistOfOwnFaceVertexIsZero(t *testing.T) {
	_, a, ti := buildArena(t)

	for f := 0; f < 4; f++ {
		for _, corner := range geom.Faces[f] {
			d := a.SignedDist(ti, f, cornerPos(a, ti, corner))
			require.InDelta(t, 0, d, 1e-9)
		}
	}
}

func TestCentroidIsAverageOfCorners(t *testing.T) {
	_, a, ti := buildArena(t)
	p0, p1, p2, p3 := a.VertPos(ti)
	want := p0.Add(p1).Add(p2).Add(p3).DivScalar(4)

	require.True(t, a.Centroid(ti).Equal(want, 1e-9))
}

func TestCompactDropsFreedTetsAndRemapsNeighbours(t *testing.T) {
	pts := geom.NewPointSet()
	v0 := pts.Add(vec3.Vec{})
	v1 := pts.Add(vec3.Vec{X: 1})
	v2 := pts.Add(vec3.Vec{Y: 1})
	v3 := pts.Add(vec3.Vec{Z: 1})
	v4 := pts.Add(vec3.Vec{X: 1, Y: 1, Z: 1})

	a := geom.NewTetArena(pts)
	tA := a.Alloc([4]int32{v0, v1, v2, v3})
	tB := a.Alloc([4]int32{v1, v2, v3, v4})
	a.Nbr[tA][0] = tB
	a.Nbr[tB][0] = tA

	a.Free(tA)
	remap := a.Compact()

	require.Equal(t, int32(-1), remap[tA])
	require.GreaterOrEqual(t, remap[tB], int32(0))
	require.Equal(t, 1, a.Len())
	require.True(t, a.Live(remap[tB]))
	require.Equal(t, int32(-1), a.Nbr[remap[tB]][0], "neighbour pointing at a dropped tet must not dangle")
}

func TestNextMarkIsMonotonic(t *testing.T) {
	_, a, _ := buildArena(t)
	m1 := a.NextMark()
	m2 := a.NextMark()
	require.Less(t, m1, m2)
}

// cornerPos reads the world position of tet i's local corner c.
func cornerPos(a *geom.TetArena, i int32, c int) vec3.Vec {
	p0, p1, p2, p3 := a.VertPos(i)
	return [4]vec3.Vec{p0, p1, p2, p3}[c]
}

// oppositeVertexForTest mirrors the unexported oppositeVertex table lookup
// so the planes invariant can be checked from outside the package.
func oppositeVertexForTest(f int) int {
	used := geom.Faces[f]
	for v := 0; v < 4; v++ {
		if v != used[0] && v != used[1] && v != used[2] {
			return v
		}
	}
	panic("unreachable")
}
