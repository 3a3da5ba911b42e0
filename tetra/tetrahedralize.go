package tetra

import (
	"math"
	"math/rand"

	"github.com/caldera-labs/tetrasim/bvh"
	"github.com/caldera-labs/tetrasim/geom"
	"github.com/caldera-labs/tetrasim/vec3"
)

// jitter returns the isotropic degeneracy-breaking perturbation (spec
// §4.1 step 1). A single deterministic stream is used so repeated calls
// with the same input reproduce the same mesh (spec §8 round-trip laws).
func jitter(rng *rand.Rand) vec3.Vec {
	const eps = 1e-4
	return vec3.Vec{
		X: (rng.Float64()*2 - 1) * eps,
		Y: (rng.Float64()*2 - 1) * eps,
		Z: (rng.Float64()*2 - 1) * eps,
	}
}

// Tetrahedralize converts a closed triangulated surface into a
// tetrahedral mesh via Bowyer–Watson insertion, optionally densified by
// interior sampling (spec §4.1).
func Tetrahedralize(surface Surface, opts Options) (Mesh, error) {
	tree, err := bvh.Build(surface.Verts, surface.Faces)
	surfaceMode := err == nil
	if !surfaceMode {
		opts.logf("tetra: BVH build failed (%v), falling back to point-cloud mode", err)
		return tetrahedralizeCore(surface.Verts, nil, opts)
	}

	var interior []vec3.Vec
	if opts.Resolution > 0 {
		interior = sampleInterior(surface.Verts, tree, opts)
	}

	return tetrahedralizeCore(surface.Verts, interior, opts, surfaceClassifier(tree))
}

// TetrahedralizePoints converts a bare point cloud into a tetrahedral mesh.
// There is no interior sampling or containment filtering in this mode.
func TetrahedralizePoints(points []vec3.Vec, opts Options) (Mesh, error) {
	return tetrahedralizeCore(points, nil, opts)
}

// surfaceClassifier adapts a bvh.Tree into the containment predicate used
// by the post-filter (spec §4.1 step 6, surface-mode-only centroid test).
func surfaceClassifier(tree *bvh.Tree) func(vec3.Vec) bool {
	return func(p vec3.Vec) bool {
		inside, _, _ := tree.Classify(p)
		return inside
	}
}

// sampleInterior regular-grid-samples the surface's bounding box at
// spacing h = max(extent)/resolution, keeping samples that are inside and
// at least h/2 from the surface (spec §4.1 step 3).
func sampleInterior(verts []vec3.Vec, tree *bvh.Tree, opts Options) []vec3.Vec {
	bb := tree.Bounds()
	extent := bb.Size().MaxComponent()
	if extent <= 0 || opts.Resolution <= 0 {
		return nil
	}
	h := extent / float64(opts.Resolution)

	var out []vec3.Vec
	for x := bb.Min.X; x <= bb.Max.X; x += h {
		for y := bb.Min.Y; y <= bb.Max.Y; y += h {
			for z := bb.Min.Z; z <= bb.Max.Z; z += h {
				p := vec3.Vec{X: x, Y: y, Z: z}
				inside, dist, _ := tree.Classify(p)
				if inside && dist >= h/2 {
					out = append(out, p)
				}
			}
		}
	}
	return out
}

// tetrahedralizeCore runs the shared dedup -> supertet -> insert ->
// post-filter pipeline. classify, if given, is the surface-mode
// containment predicate used to drop exterior tets in step 6.
func tetrahedralizeCore(surfacePts, interiorPts []vec3.Vec, opts Options, classify ...func(vec3.Vec) bool) (Mesh, error) {
	rng := rand.New(rand.NewSource(1))
	pts := geom.NewPointSet()
	// raw deduplicates the unperturbed inputs at six-decimal precision, so
	// coincident points collapse before jitter gives them distinct keys.
	raw := geom.NewPointSet()

	var order []int32
	add := func(p vec3.Vec) {
		before := raw.Len()
		raw.Add(p)
		if raw.Len() == before {
			return
		}
		id := pts.Add(p.Add(jitter(rng)))
		order = append(order, id)
	}
	for _, p := range surfacePts {
		add(p)
	}
	for _, p := range interiorPts {
		add(p)
	}

	if len(order) == 0 {
		return Mesh{}, nil
	}

	cloud := make([]vec3.Vec, len(order))
	for i, id := range order {
		cloud[i] = pts.Pos(id)
	}
	arena, superIDs := buildSuperTet(pts, cloud)
	eng := newEngine(arena, pts, opts)
	eng.last = 0

	for _, id := range order {
		if err := eng.insertPoint(id); err != nil {
			opts.logf("tetra: skipping point %d: %v", id, err)
		}
	}

	isSuper := map[int32]bool{
		superIDs[0]: true, superIDs[1]: true, superIDs[2]: true, superIDs[3]: true,
	}

	var classifyFn func(vec3.Vec) bool
	if len(classify) > 0 {
		classifyFn = classify[0]
	}

	for i := 0; i < arena.Len(); i++ {
		idx := int32(i)
		if !arena.Live(idx) {
			continue
		}
		v := arena.Verts(idx)
		if isSuper[v[0]] || isSuper[v[1]] || isSuper[v[2]] || isSuper[v[3]] {
			arena.Free(idx)
			continue
		}
		p0, p1, p2, p3 := arena.VertPos(idx)
		q := geom.Quality(p0, p1, p2, p3)
		if math.Abs(q) < opts.MinQuality {
			opts.logf("tetra: dropping tet %d, quality %.6f below threshold", idx, q)
			arena.Free(idx)
			continue
		}
		if classifyFn != nil {
			centroid := p0.Add(p1).Add(p2).Add(p3).DivScalar(4)
			if !classifyFn(centroid) {
				arena.Free(idx)
				continue
			}
		}
	}

	return emitMesh(arena, pts, isSuper), nil
}

// emitMesh compacts the arena and remaps vertex ids, dropping the
// super-tet vertices from the output (spec §4.1 step 7).
func emitMesh(arena *geom.TetArena, pts *geom.PointSet, isSuper map[int32]bool) Mesh {
	arena.Compact()

	keptVerts := map[int32]uint32{}
	var outVerts []vec3.Vec
	var outPoints []geom.Point
	vertID := func(id int32) uint32 {
		if nid, ok := keptVerts[id]; ok {
			return nid
		}
		nid := uint32(len(outVerts))
		keptVerts[id] = nid
		outVerts = append(outVerts, pts.Pos(id))
		outPoints = append(outPoints, pts.At(id))
		return nid
	}

	var outTets [][4]uint32
	for i := 0; i < arena.Len(); i++ {
		idx := int32(i)
		if !arena.Live(idx) {
			continue
		}
		v := arena.Verts(idx)
		outTets = append(outTets, [4]uint32{
			vertID(v[0]), vertID(v[1]), vertID(v[2]), vertID(v[3]),
		})
	}

	return Mesh{Verts: outVerts, Tets: outTets, Points: outPoints}
}
