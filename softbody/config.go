package softbody

import "github.com/caldera-labs/tetrasim/vec3"

// Config carries the tunables of the XPBD solver (spec §6 "Config
// (enumerated)"), following the teacher's named-constructor-plus-public-
// fields configuration style rather than functional options.
type Config struct {
	StepsPerSecond int
	NumSubsteps    int
	Gravity        vec3.Vec
	Damping        float64 // 0..1, velocity retention per predict
	Friction       float64 // 0..1
	RotationSteps  int     // iterations in shape-match rotation extraction
	EdgeCompliance float64
	VolCompliance  float64
	MaxAnchors     int

	// SelfCollisionRestFactor scales the reference-length threshold used
	// to suppress broadphase self-push between tets that were adjacent in
	// the rest pose (spec §4.7 step 8; the factor's value is an Open
	// Question in spec §9, resolved in DESIGN.md as a tunable default).
	SelfCollisionRestFactor float64

	// GridMode selects the broadphase structure Bake constructs (spec
	// §4.5 "selectable at construction"). Zero value is GridLattice.
	GridMode GridMode

	// ReadbackIntervalFrames is how many physics steps elapse between
	// Instance.CachedPos refreshes (spec §9 "Host-visible readback
	// cadence", ~50 frames). Zero disables periodic readback.
	ReadbackIntervalFrames int
}

// GridMode selects which grid.Broadphase implementation Bake constructs.
type GridMode int

const (
	// GridLattice uses grid.NewLattice, a fixed 80³ dense grid — the
	// right choice when the scene's world extent is known and bounded.
	GridLattice GridMode = iota
	// GridHash uses grid.NewHash, an open-addressed table with
	// effectively unbounded domain — the right choice for scenes whose
	// extent doesn't comfortably fit the fixed lattice.
	GridHash
)

// DefaultConfig returns the spec's suggested defaults.
func DefaultConfig() Config {
	return Config{
		StepsPerSecond:          60,
		NumSubsteps:             10,
		Gravity:                 vec3.Vec{X: 0, Y: -9.81, Z: 0},
		Damping:                 0.99,
		Friction:                0.5,
		RotationSteps:           4,
		EdgeCompliance:          0,
		VolCompliance:           0,
		MaxAnchors:              32,
		SelfCollisionRestFactor: 1.5,
		GridMode:                GridLattice,
		ReadbackIntervalFrames:  50,
	}
}

// substepDt returns sdt = (1/steps_per_second) / num_substeps (spec §4.7).
func (c Config) substepDt() float64 {
	return (1.0 / float64(c.StepsPerSecond)) / float64(c.NumSubsteps)
}
