package vec3

import "gonum.org/v1/gonum/num/quat"

// RotateByQuat rotates v by unit quaternion q using the standard
// q*v*q^-1 expansion optimized to avoid a full quaternion multiply (the
// same formula both the model processor's normal rotation and the softbody
// solver's shape-match reconstruction need).
func RotateByQuat(q quat.Number, v Vec) Vec {
	qv := Vec{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	t := qv.Cross(v).MulScalar(2)
	return v.Add(t.MulScalar(q.Real)).Add(qv.Cross(t))
}
