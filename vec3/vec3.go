// Package vec3 provides the 3D vector/quaternion primitives shared by the
// tetrahedralizer and the softbody simulator.
package vec3

import "math"

// Vec is a 3D vector or point.
type Vec struct {
	X, Y, Z float64
}

// Zero is the additive identity.
var Zero = Vec{}

// Add returns a + b.
func (a Vec) Add(b Vec) Vec {
	return Vec{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a - b.
func (a Vec) Sub(b Vec) Vec {
	return Vec{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Mul returns the component-wise product.
func (a Vec) Mul(b Vec) Vec {
	return Vec{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// MulScalar returns a * s.
func (a Vec) MulScalar(s float64) Vec {
	return Vec{a.X * s, a.Y * s, a.Z * s}
}

// DivScalar returns a / s.
func (a Vec) DivScalar(s float64) Vec {
	return Vec{a.X / s, a.Y / s, a.Z / s}
}

// Neg returns -a.
func (a Vec) Neg() Vec {
	return Vec{-a.X, -a.Y, -a.Z}
}

// Dot returns a . b.
func (a Vec) Dot(b Vec) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns a x b.
func (a Vec) Cross(b Vec) Vec {
	return Vec{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Length returns the Euclidean norm of a.
func (a Vec) Length() float64 {
	return math.Sqrt(a.Dot(a))
}

// LengthSqr returns the squared Euclidean norm of a, cheaper than Length.
func (a Vec) LengthSqr() float64 {
	return a.Dot(a)
}

// Normalize returns a unit vector along a, or the zero vector if a is ~0.
func (a Vec) Normalize() Vec {
	l := a.Length()
	if l < epsilon {
		return Vec{}
	}
	return a.DivScalar(l)
}

// MinComponent returns the smallest of X, Y, Z.
func (a Vec) MinComponent() float64 {
	return math.Min(a.X, math.Min(a.Y, a.Z))
}

// MaxComponent returns the largest of X, Y, Z.
func (a Vec) MaxComponent() float64 {
	return math.Max(a.X, math.Max(a.Y, a.Z))
}

// Min returns the component-wise minimum of a and b.
func (a Vec) Min(b Vec) Vec {
	return Vec{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum of a and b.
func (a Vec) Max(b Vec) Vec {
	return Vec{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// Abs returns the component-wise absolute value of a.
func (a Vec) Abs() Vec {
	return Vec{math.Abs(a.X), math.Abs(a.Y), math.Abs(a.Z)}
}

// Lerp returns the linear interpolation between a and b at parameter t.
func (a Vec) Lerp(b Vec, t float64) Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

const epsilon = 1e-12

// Equal reports whether a and b are within eps of each other on every axis.
func (a Vec) Equal(b Vec, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps && math.Abs(a.Z-b.Z) <= eps
}
