package attach

import (
	"gonum.org/v1/gonum/num/quat"

	"github.com/caldera-labs/tetrasim/vec3"
)

// RotateNormal rotates n by q, the host tet's shape-match orientation
// quaternion, instead of recomputing the normal from deformed geometry
// (spec §4.3).
func RotateNormal(q quat.Number, n vec3.Vec) vec3.Vec {
	return vec3.RotateByQuat(q, n)
}
