package tetra_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caldera-labs/tetrasim/tetra"
	"github.com/caldera-labs/tetrasim/vec3"
)

func cubeCorners() []vec3.Vec {
	return []vec3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 1},
		{X: 1, Y: 1, Z: 1},
		{X: 0, Y: 1, Z: 1},
	}
}

func cubeFaces() [][3]int {
	return [][3]int{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{3, 7, 6}, {3, 6, 2},
		{0, 4, 7}, {0, 7, 3},
		{1, 2, 6}, {1, 6, 5},
	}
}

func TestTetrahedralizePointsEmptyCloudReturnsEmptyMesh(t *testing.T) {
	mesh, err := tetra.TetrahedralizePoints(nil, tetra.DefaultOptions())
	require.NoError(t, err)
	require.Empty(t, mesh.Tets)
	require.Empty(t, mesh.Verts)
}

func TestTetrahedralizePointsSingleTet(t *testing.T) {
	pts := []vec3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}
	mesh, err := tetra.TetrahedralizePoints(pts, tetra.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, mesh.Tets, 1)
	require.Len(t, mesh.Verts, 4)
}

func TestTetrahedralizePointsCoincidentPointsDedup(t *testing.T) {
	pts := []vec3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 0, Y: 0, Z: 0}, // exact duplicate of the first
	}
	mesh, err := tetra.TetrahedralizePoints(pts, tetra.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, mesh.Verts, 4, "coincident points must collapse to one vertex")
}

func TestTetrahedralizePointsCubeOfEightPoints(t *testing.T) {
	mesh, err := tetra.TetrahedralizePoints(cubeCorners(), tetra.DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, mesh.Tets)

	stats := tetra.ComputeStats(mesh)
	// The deterministic degeneracy-breaking jitter (±1e-4 per axis, per
	// point) perturbs the convex hull slightly, so allow a tolerance well
	// above the jitter amplitude rather than requiring exact unit volume.
	require.InDelta(t, 1.0, stats.VolumeSum, 1e-2, "tets must partition close to the unit cube's volume")
}

func TestTetrahedralizePointsNoInvertedTets(t *testing.T) {
	mesh, err := tetra.TetrahedralizePoints(cubeCorners(), tetra.DefaultOptions())
	require.NoError(t, err)
	for _, tet := range mesh.Tets {
		p0, p1, p2, p3 := mesh.Verts[tet[0]], mesh.Verts[tet[1]], mesh.Verts[tet[2]], mesh.Verts[tet[3]]
		require.Greater(t, math.Abs(geomVolume(p0, p1, p2, p3)), 0.0)
	}
}

func TestTetrahedralizeSurfaceModeStaysWithinBounds(t *testing.T) {
	opts := tetra.DefaultOptions()
	opts.Resolution = 4
	mesh, err := tetra.Tetrahedralize(tetra.Surface{Verts: cubeCorners(), Faces: cubeFaces()}, opts)
	require.NoError(t, err)
	require.NotEmpty(t, mesh.Tets)

	// Every input point is jittered by at most 1e-4 per axis before
	// insertion, so output vertices may sit that far outside the cube.
	const jitterBound = 1e-4
	for _, v := range mesh.Verts {
		require.GreaterOrEqual(t, v.X, -jitterBound)
		require.LessOrEqual(t, v.X, 1+jitterBound)
		require.GreaterOrEqual(t, v.Y, -jitterBound)
		require.LessOrEqual(t, v.Y, 1+jitterBound)
		require.GreaterOrEqual(t, v.Z, -jitterBound)
		require.LessOrEqual(t, v.Z, 1+jitterBound)
	}
}

func TestTetrahedralizeDropsDegenerateQualityTets(t *testing.T) {
	opts := tetra.DefaultOptions()
	opts.MinQuality = 0.5 // aggressive filter: only near-regular tets survive
	mesh, err := tetra.TetrahedralizePoints(cubeCorners(), opts)
	require.NoError(t, err)

	for _, tet := range mesh.Tets {
		p0, p1, p2, p3 := mesh.Verts[tet[0]], mesh.Verts[tet[1]], mesh.Verts[tet[2]], mesh.Verts[tet[3]]
		require.GreaterOrEqual(t, math.Abs(geomQuality(p0, p1, p2, p3)), 0.5)
	}
}

func TestTetrahedralizeSurfaceBuildFailureFallsBackToPointCloud(t *testing.T) {
	// No faces at all: bvh.Build returns ErrDegenerateSurface, exercising the
	// point-cloud fallback path instead of erroring out.
	mesh, err := tetra.Tetrahedralize(tetra.Surface{Verts: cubeCorners(), Faces: nil}, tetra.DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, mesh.Tets)
}

func TestBoundaryFacesOfSingleTetIsAllFourFaces(t *testing.T) {
	mesh, err := tetra.TetrahedralizePoints([]vec3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	}, tetra.DefaultOptions())
	require.NoError(t, err)

	boundary := tetra.BoundaryFaces(mesh)
	require.Len(t, boundary, 4)
}

func TestBoundaryFacesOfCubeIsTwelveTriangles(t *testing.T) {
	mesh, err := tetra.TetrahedralizePoints(cubeCorners(), tetra.DefaultOptions())
	require.NoError(t, err)

	boundary := tetra.BoundaryFaces(mesh)
	require.Len(t, boundary, 12)
}

func TestTetrahedralizePointsIsDeterministic(t *testing.T) {
	mesh1, err := tetra.TetrahedralizePoints(cubeCorners(), tetra.DefaultOptions())
	require.NoError(t, err)
	mesh2, err := tetra.TetrahedralizePoints(cubeCorners(), tetra.DefaultOptions())
	require.NoError(t, err)

	require.Equal(t, len(mesh1.Tets), len(mesh2.Tets))
	require.Equal(t, mesh1.Tets, mesh2.Tets)
}

// geomVolume/geomQuality avoid importing the internal geom package twice in
// this external test package beyond what's already needed.
func geomVolume(p0, p1, p2, p3 vec3.Vec) float64 {
	return p1.Sub(p0).Dot(p2.Sub(p0).Cross(p3.Sub(p0))) / 6
}

func geomQuality(p0, p1, p2, p3 vec3.Vec) float64 {
	v := geomVolume(p0, p1, p2, p3)
	edges := [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	verts := [4]vec3.Vec{p0, p1, p2, p3}
	var sum float64
	for _, e := range edges {
		d := verts[e[0]].Sub(verts[e[1]])
		sum += d.LengthSqr()
	}
	r := math.Sqrt(sum / 6)
	if r < 1e-15 {
		return 0
	}
	return 12 * v / (math.Sqrt2 * r * r * r)
}
