// Package meshio imports and exports tet meshes in third-party interchange
// formats (spec §6 "Mesh I/O"): a Gmsh-style `.msh` text format, grounded on
// the teacher's own `*.inp` writer (render/tet4.go's MeshTet4.WriteInp), and
// a `.3mf` export path (SPEC_FULL §4.9).
package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/caldera-labs/tetrasim/vec3"
)

// Mesh is the minimal tet-mesh shape meshio reads and writes: a dense vertex
// array and 4-tuple tet-id array, matching tetra.Mesh's Verts/Tets fields
// without importing the tetra package (meshio stays a leaf, mirroring how
// render/tet4.go's MeshTet4 has no dependency on the sampler that built it).
type Mesh struct {
	Verts []vec3.Vec
	Tets  [][4]uint32
}

// WriteMsh serializes m as a Gmsh-style ASCII `.msh` file: a `$Nodes` block
// (1-based ids) followed by an `$Elements` block, tet records tagged as
// Gmsh element type 4 ("4-node tetrahedron") with their four node ids
//1-based per spec §6 ("the four indices are 1-based in the source").
func WriteMsh(w io.Writer, m Mesh) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "$MeshFormat\n2.2 0 8\n$EndMeshFormat\n"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(bw, "$Nodes\n%d\n", len(m.Verts)); err != nil {
		return err
	}
	for i, v := range m.Verts {
		if _, err := fmt.Fprintf(bw, "%d %g %g %g\n", i+1, v.X, v.Y, v.Z); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "$EndNodes\n"); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(bw, "$Elements\n%d\n", len(m.Tets)); err != nil {
		return err
	}
	for i, t := range m.Tets {
		// <elm-id> <elm-type=4> <num-tags=2> <tag1> <tag2> <n0> <n1> <n2> <n3>
		if _, err := fmt.Fprintf(bw, "%d 4 2 0 0 %d %d %d %d\n",
			i+1, t[0]+1, t[1]+1, t[2]+1, t[3]+1); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "$EndElements\n"); err != nil {
		return err
	}

	return bw.Flush()
}

// ReadMsh parses a Gmsh-style `.msh` file back into a Mesh, converting
// 1-based node indices to 0-based (spec §6). Only element records that end
// with four integer node indices are kept as tets; other element types are
// skipped (spec §6 "Element records ending with four integer indices
// become tets").
func ReadMsh(r io.Reader) (Mesh, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var m Mesh
	for sc.Scan() {
		switch strings.TrimSpace(sc.Text()) {
		case "$Nodes":
			if err := readNodes(sc, &m); err != nil {
				return Mesh{}, err
			}
		case "$Elements":
			if err := readElements(sc, &m); err != nil {
				return Mesh{}, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return Mesh{}, fmt.Errorf("meshio: reading msh: %w", err)
	}
	return m, nil
}

func readNodes(sc *bufio.Scanner, m *Mesh) error {
	if !sc.Scan() {
		return fmt.Errorf("meshio: truncated $Nodes block")
	}
	count, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		return fmt.Errorf("meshio: bad node count: %w", err)
	}
	m.Verts = make([]vec3.Vec, 0, count)
	for i := 0; i < count; i++ {
		if !sc.Scan() {
			return fmt.Errorf("meshio: truncated node list at entry %d", i)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			return fmt.Errorf("meshio: malformed node line %q", sc.Text())
		}
		x, errx := strconv.ParseFloat(fields[1], 64)
		y, erry := strconv.ParseFloat(fields[2], 64)
		z, errz := strconv.ParseFloat(fields[3], 64)
		if errx != nil || erry != nil || errz != nil {
			return fmt.Errorf("meshio: malformed node coordinates %q", sc.Text())
		}
		m.Verts = append(m.Verts, vec3.Vec{X: x, Y: y, Z: z})
	}
	// consume through $EndNodes
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "$EndNodes" {
			break
		}
	}
	return nil
}

func readElements(sc *bufio.Scanner, m *Mesh) error {
	if !sc.Scan() {
		return fmt.Errorf("meshio: truncated $Elements block")
	}
	count, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		return fmt.Errorf("meshio: bad element count: %w", err)
	}
	m.Tets = make([][4]uint32, 0, count)
	for i := 0; i < count; i++ {
		if !sc.Scan() {
			return fmt.Errorf("meshio: truncated element list at entry %d", i)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		// The last four whitespace-separated fields are the node ids
		// regardless of how many tag fields precede them.
		tail := fields[len(fields)-4:]
		var ids [4]uint32
		ok := true
		for j, f := range tail {
			v, err := strconv.ParseUint(f, 10, 32)
			if err != nil {
				ok = false
				break
			}
			if v == 0 {
				ok = false
				break
			}
			ids[j] = uint32(v) - 1
		}
		if !ok {
			continue
		}
		m.Tets = append(m.Tets, ids)
	}
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "$EndElements" {
			break
		}
	}
	return nil
}
