// Package softbody implements the XPBD constraint solver and the simulation
// state it operates on (spec §3 "Simulation vertex"/"tetrahedron"/"Rest-pose
// record"/"Edge"/"Object"/"Collider"/"Anchor", §4.6, §4.7).
package softbody

import (
	"gonum.org/v1/gonum/num/quat"

	"github.com/caldera-labs/tetrasim/vec3"
)

// Vertex is one simulation particle (spec §3 "Simulation vertex").
type Vertex struct {
	ObjectID int32
	Pos      vec3.Vec
	Prev     vec3.Vec
	Rest     vec3.Vec
	InvMass  float64

	// InfluencerStart/InfluencerCount index into a flattened per-vertex
	// incident-tet table, used by Simulation.ReconstructVertex to walk a
	// vertex's neighbourhood without a dynamic slice per vertex.
	InfluencerStart int32
	InfluencerCount int32
}

// Tet is one simulation tetrahedron (spec §3 "Simulation tetrahedron").
type Tet struct {
	ObjectID   int32
	RestVolume float64
	Radius     float64 // characteristic radius r = cbrt(3V/4pi)
	RestCentre vec3.Vec
	Centre     vec3.Vec
	Orient     quat.Number // shape-match orientation, identity at rest
	V          [4]int32    // vertex ids
	NextTet    int32       // spatial-grid linked-list pointer
}

// RestPose is one per-corner rest record (spec §3 "Rest-pose record"): four
// per tet, written by Bake and rewritten by Spawn with the instance's
// transformed rest corners. Shape-matching reads these records but does not
// rotate them in place; each tet's rotation is kept in Tet.Orient instead.
type RestPose struct {
	Pos    vec3.Vec
	Volume float64
}

// Edge is a deduplicated, rest-length-carrying vertex pair (spec §3
// "Edge"). V0 < V1 always.
type Edge struct {
	V0, V1 int32
	Rest   float64
}

// Instance is one spawned/despawned body (spec §3 "Object (instance)").
type Instance struct {
	ID           int32
	VertStart    int32
	VertCount    int32
	TetStart     int32
	TetCount     int32
	CentreVertex int32   // reference vertex id for body-level readback
	Size         float64 // >= epsilon means active
	CachedPos    vec3.Vec
}

// Active reports whether the instance's kernels should run this step.
func (in *Instance) Active() bool { return in.Size >= sizeEpsilon }

const sizeEpsilon = 1e-6

// Collider maps a world-space query position to an outward unit normal and
// a signed distance (negative means penetration), per spec §3 "Collider".
type Collider interface {
	At(p vec3.Vec) (normal vec3.Vec, signedDist float64)
}

// Anchor pulls vertices within its rest-space radius toward a moving
// target (spec §3 "Anchor").
type Anchor struct {
	Centre    vec3.Vec // rest-space centre
	Radius    float64
	Target    vec3.Vec
	HasTarget bool
	Strength  float64 // 0..1
}
