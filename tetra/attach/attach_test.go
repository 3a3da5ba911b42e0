package attach_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/num/quat"

	"github.com/caldera-labs/tetrasim/tetra"
	"github.com/caldera-labs/tetrasim/tetra/attach"
	"github.com/caldera-labs/tetrasim/vec3"
)

func twoTetMesh() tetra.Mesh {
	return tetra.Mesh{
		Verts: []vec3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
			{X: 10, Y: 10, Z: 10},
			{X: 11, Y: 10, Z: 10},
			{X: 10, Y: 11, Z: 10},
			{X: 10, Y: 10, Z: 11},
		},
		Tets: [][4]uint32{
			{0, 1, 2, 3},
			{4, 5, 6, 7},
		},
	}
}

func TestBuildAttachesToNearestCentroidTet(t *testing.T) {
	mesh := twoTetMesh()
	// Sits near the first tet's centroid, far from the second's.
	surfaceVerts := []vec3.Vec{{X: 0.1, Y: 0.1, Z: 0.1}}

	model := attach.Build(mesh, surfaceVerts)

	require.Len(t, model.Attachments, 1)
	require.Equal(t, 0, model.Attachments[0].HostTet)
}

func TestBuildSecondVertexAttachesToSecondTet(t *testing.T) {
	mesh := twoTetMesh()
	surfaceVerts := []vec3.Vec{{X: 10.1, Y: 10.1, Z: 10.1}}

	model := attach.Build(mesh, surfaceVerts)

	require.Equal(t, 1, model.Attachments[0].HostTet)
}

func TestReconstructRecoversOriginalVertexAtRest(t *testing.T) {
	mesh := twoTetMesh()
	surfaceVerts := []vec3.Vec{{X: 0.2, Y: 0.3, Z: 0.1}}
	model := attach.Build(mesh, surfaceVerts)

	tet := mesh.Tets[model.Attachments[0].HostTet]
	v0, v1, v2, v3 := mesh.Verts[tet[0]], mesh.Verts[tet[1]], mesh.Verts[tet[2]], mesh.Verts[tet[3]]

	got := attach.Reconstruct(model.Attachments[0], v0, v1, v2, v3)
	require.True(t, got.Equal(surfaceVerts[0], 1e-9))
}

func TestReconstructTracksDeformedTet(t *testing.T) {
	mesh := twoTetMesh()
	surfaceVerts := []vec3.Vec{{X: 0.2, Y: 0.3, Z: 0.1}}
	model := attach.Build(mesh, surfaceVerts)
	a := model.Attachments[0]

	tet := mesh.Tets[a.HostTet]
	v0, v1, v2, v3 := mesh.Verts[tet[0]], mesh.Verts[tet[1]], mesh.Verts[tet[2]], mesh.Verts[tet[3]]

	shift := vec3.Vec{X: 5, Y: -2, Z: 1}
	got := attach.Reconstruct(a, v0.Add(shift), v1.Add(shift), v2.Add(shift), v3.Add(shift))
	require.True(t, got.Equal(surfaceVerts[0].Add(shift), 1e-9))
}

type gridLocator struct{}

func (gridLocator) Nearest(p vec3.Vec, centroids []vec3.Vec) int {
	best := 0
	bestD := centroids[0].Sub(p).LengthSqr()
	for i := 1; i < len(centroids); i++ {
		if d := centroids[i].Sub(p).LengthSqr(); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

func TestBuildWithLocatorMatchesBruteForce(t *testing.T) {
	mesh := twoTetMesh()
	surfaceVerts := []vec3.Vec{{X: 0.1, Y: 0.1, Z: 0.1}, {X: 10.1, Y: 10.1, Z: 10.1}}

	want := attach.Build(mesh, surfaceVerts)
	got := attach.BuildWithLocator(mesh, surfaceVerts, gridLocator{})

	require.Equal(t, want.Attachments, got.Attachments)
}

func TestRotateNormalIdentityIsNoop(t *testing.T) {
	n := vec3.Vec{X: 0, Y: 1, Z: 0}
	require.True(t, attach.RotateNormal(quat.Number{Real: 1}, n).Equal(n, 1e-9))
}
