// Package attach implements the model processor (spec §4.3): attaching a
// surface triangle soup to a tet mesh by picking, for each surface vertex,
// its nearest-centroid host tet and the corresponding barycentric weights.
package attach

import (
	"github.com/caldera-labs/tetrasim/geom"
	"github.com/caldera-labs/tetrasim/tetra"
	"github.com/caldera-labs/tetrasim/vec3"
)

// Attachment is a single surface vertex's host-tet record.
type Attachment struct {
	HostTet int
	B1, B2, B3 float64 // B0 is implicit: 1 - B1 - B2 - B3
}

// Model pairs a tet mesh with one barycentric attachment per surface
// vertex, reconstructing deformed surface positions from deformed tet
// corners.
type Model struct {
	Mesh        tetra.Mesh
	Attachments []Attachment
}

// Build attaches every surface vertex to its nearest-centroid tet. Large
// models should prefer BuildWithLocator, which accelerates the nearest
// search the way the teacher's Fem.Locate accelerates nearest-node lookup
// with a voxel grid (render/finiteelements/mesh/fem.go) rather than a
// brute-force scan.
func Build(mesh tetra.Mesh, surfaceVerts []vec3.Vec) Model {
	centroids := make([]vec3.Vec, len(mesh.Tets))
	for i, t := range mesh.Tets {
		p0, p1, p2, p3 := mesh.Verts[t[0]], mesh.Verts[t[1]], mesh.Verts[t[2]], mesh.Verts[t[3]]
		centroids[i] = p0.Add(p1).Add(p2).Add(p3).DivScalar(4)
	}

	attachments := make([]Attachment, len(surfaceVerts))
	for i, v := range surfaceVerts {
		host := nearest(centroids, v)
		attachments[i] = attachmentFor(mesh, host, v)
	}
	return Model{Mesh: mesh, Attachments: attachments}
}

// Locator accelerates nearest-centroid search. The package ships no
// implementation; callers supply one to BuildWithLocator.
type Locator interface {
	// Nearest returns the index of the tet whose centroid is closest to p
	// among a locally-restricted candidate set.
	Nearest(p vec3.Vec, centroids []vec3.Vec) int
}

// BuildWithLocator is Build but delegates the nearest-tet search to loc.
func BuildWithLocator(mesh tetra.Mesh, surfaceVerts []vec3.Vec, loc Locator) Model {
	centroids := make([]vec3.Vec, len(mesh.Tets))
	for i, t := range mesh.Tets {
		p0, p1, p2, p3 := mesh.Verts[t[0]], mesh.Verts[t[1]], mesh.Verts[t[2]], mesh.Verts[t[3]]
		centroids[i] = p0.Add(p1).Add(p2).Add(p3).DivScalar(4)
	}
	attachments := make([]Attachment, len(surfaceVerts))
	for i, v := range surfaceVerts {
		host := loc.Nearest(v, centroids)
		attachments[i] = attachmentFor(mesh, host, v)
	}
	return Model{Mesh: mesh, Attachments: attachments}
}

func attachmentFor(mesh tetra.Mesh, host int, v vec3.Vec) Attachment {
	t := mesh.Tets[host]
	p0, p1, p2, p3 := mesh.Verts[t[0]], mesh.Verts[t[1]], mesh.Verts[t[2]], mesh.Verts[t[3]]
	_, b1, b2, b3 := geom.Barycentric(p0, p1, p2, p3, v)
	return Attachment{HostTet: host, B1: b1, B2: b2, B3: b3}
}

func nearest(centroids []vec3.Vec, p vec3.Vec) int {
	best := 0
	bestD := centroids[0].Sub(p).LengthSqr()
	for i := 1; i < len(centroids); i++ {
		d := centroids[i].Sub(p).LengthSqr()
		if d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// Reconstruct returns the world position of attachment a given its host
// tet's four deformed corners, per spec §4.3:
// v0 + b1(v1-v0) + b2(v2-v0) + b3(v3-v0).
func Reconstruct(a Attachment, v0, v1, v2, v3 vec3.Vec) vec3.Vec {
	return v0.
		Add(v1.Sub(v0).MulScalar(a.B1)).
		Add(v2.Sub(v0).MulScalar(a.B2)).
		Add(v3.Sub(v0).MulScalar(a.B3))
}
