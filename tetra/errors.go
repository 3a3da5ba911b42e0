package tetra

import "errors"

// ErrBVHBuildFailure names the condition of an input surface too degenerate
// to build a BVH from (spec §7 BVHBuildFailure). No function in this package
// returns it: Tetrahedralize checks bvh.Build's error directly and falls back
// to point-cloud mode.
var ErrBVHBuildFailure = errors.New("tetra: BVH build failed on degenerate surface")

// errWalk marks a point that the incremental walk could not locate a
// container for. It is never returned to the caller: the offending point
// is skipped and a warning logged (spec §7 WalkFailure).
var errWalk = errors.New("tetra: walk failed to locate containing tet")
