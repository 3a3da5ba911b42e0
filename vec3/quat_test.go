package vec3_test

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/caldera-labs/tetrasim/vec3"
)

func quatIdentity() quat.Number {
	return quat.Number{Real: 1}
}

// quatAxisAngle builds a unit rotation quaternion for angle radians about
// a unit axis, mirroring softbody.quatFromAxisAngle without importing a
// package that would pull softbody into vec3's test dependency graph.
func quatAxisAngle(axis vec3.Vec, angle float64) quat.Number {
	s := math.Sin(angle / 2)
	return quat.Number{
		Real: math.Cos(angle / 2),
		Imag: axis.X * s,
		Jmag: axis.Y * s,
		Kmag: axis.Z * s,
	}
}
