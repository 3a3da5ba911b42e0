package meshio

import (
	"io"

	"github.com/hpinc/go3mf"

	"github.com/caldera-labs/tetrasim/vec3"
)

// WriteThreeMF exports a tet mesh's boundary surface (spec §8 "surface
// extraction = faces appearing exactly once across all tets") as a
// watertight `.3mf` triangle mesh (SPEC_FULL §4.9): a renderer-agnostic
// export path alongside WriteMsh, built on the teacher's go3mf/opc
// dependency pair rather than a bespoke mesh-interchange format.
func WriteThreeMF(w io.Writer, verts []vec3.Vec, boundaryFaces [][3]uint32) error {
	model := &go3mf.Model{Units: go3mf.UnitMillimeter}

	mesh := &go3mf.Mesh{}
	for _, v := range verts {
		mesh.Vertices.Vertex = append(mesh.Vertices.Vertex, go3mf.Point3D{
			float32(v.X), float32(v.Y), float32(v.Z),
		})
	}
	for _, f := range boundaryFaces {
		mesh.Triangles.Triangle = append(mesh.Triangles.Triangle, go3mf.Triangle{
			V1: f[0], V2: f[1], V3: f[2],
		})
	}

	const objectID = 1
	model.Resources.Objects = append(model.Resources.Objects, &go3mf.Object{
		ID:         objectID,
		ObjectType: go3mf.ObjectTypeModel,
		Mesh:       mesh,
	})
	model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: objectID})

	enc := go3mf.NewEncoder(w)
	return enc.Encode(model)
}
