package vec3_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caldera-labs/tetrasim/vec3"
)

func TestAddSub(t *testing.T) {
	a := vec3.Vec{X: 1, Y: 2, Z: 3}
	b := vec3.Vec{X: 4, Y: -1, Z: 0.5}

	require.True(t, a.Add(b).Equal(vec3.Vec{X: 5, Y: 1, Z: 3.5}, 1e-9))
	require.True(t, a.Add(b).Sub(b).Equal(a, 1e-9))
}

func TestDotCrossOrthogonal(t *testing.T) {
	x := vec3.Vec{X: 1}
	y := vec3.Vec{Y: 1}

	require.InDelta(t, 0, x.Dot(y), 1e-9)
	require.True(t, x.Cross(y).Equal(vec3.Vec{Z: 1}, 1e-9))
}

func TestLength(t *testing.T) {
	v := vec3.Vec{X: 3, Y: 4, Z: 0}
	require.InDelta(t, 5, v.Length(), 1e-9)
	require.InDelta(t, 25, v.LengthSqr(), 1e-9)
}

func TestNormalizeZeroVectorIsZero(t *testing.T) {
	require.True(t, vec3.Vec{}.Normalize().Equal(vec3.Vec{}, 1e-12))
}

func TestNormalizeUnitLength(t *testing.T) {
	v := vec3.Vec{X: 2, Y: 0, Z: 0}
	require.InDelta(t, 1, v.Normalize().Length(), 1e-9)
}

func TestMinMaxComponent(t *testing.T) {
	v := vec3.Vec{X: -1, Y: 5, Z: 2}
	require.InDelta(t, -1, v.MinComponent(), 1e-9)
	require.InDelta(t, 5, v.MaxComponent(), 1e-9)
}

func TestLerpEndpoints(t *testing.T) {
	a := vec3.Vec{X: 0}
	b := vec3.Vec{X: 10}

	require.True(t, a.Lerp(b, 0).Equal(a, 1e-9))
	require.True(t, a.Lerp(b, 1).Equal(b, 1e-9))
	require.True(t, a.Lerp(b, 0.5).Equal(vec3.Vec{X: 5}, 1e-9))
}

func TestBoxExtendAndUnion(t *testing.T) {
	b := vec3.EmptyBox()
	b = b.Extend(vec3.Vec{X: -1, Y: 2, Z: 0})
	b = b.Extend(vec3.Vec{X: 3, Y: -2, Z: 5})

	require.True(t, b.Min.Equal(vec3.Vec{X: -1, Y: -2, Z: 0}, 1e-9))
	require.True(t, b.Max.Equal(vec3.Vec{X: 3, Y: 2, Z: 5}, 1e-9))

	other := vec3.EmptyBox().Extend(vec3.Vec{X: 10, Y: 10, Z: 10})
	u := b.Union(other)
	require.True(t, u.Max.Equal(vec3.Vec{X: 10, Y: 10, Z: 10}, 1e-9))
}

func TestBoxContains(t *testing.T) {
	b := vec3.Box{Min: vec3.Vec{X: 0, Y: 0, Z: 0}, Max: vec3.Vec{X: 1, Y: 1, Z: 1}}
	require.True(t, b.Contains(vec3.Vec{X: 0.5, Y: 0.5, Z: 0.5}))
	require.False(t, b.Contains(vec3.Vec{X: 1.5, Y: 0, Z: 0}))
}

func TestBoxCenterAndSize(t *testing.T) {
	b := vec3.Box{Min: vec3.Vec{X: 0, Y: 0, Z: 0}, Max: vec3.Vec{X: 2, Y: 4, Z: 6}}
	require.True(t, b.Center().Equal(vec3.Vec{X: 1, Y: 2, Z: 3}, 1e-9))
	require.True(t, b.Size().Equal(vec3.Vec{X: 2, Y: 4, Z: 6}, 1e-9))
}

func TestRotateByQuatIdentityIsNoop(t *testing.T) {
	v := vec3.Vec{X: 1, Y: 2, Z: 3}
	q := quatIdentity()
	require.True(t, vec3.RotateByQuat(q, v).Equal(v, 1e-9))
}

func TestRotateByQuatNinetyDegreesAroundZ(t *testing.T) {
	// Rotating +X by 90 degrees about +Z should land on +Y.
	half := math.Pi / 4
	q := quatAxisAngle(vec3.Vec{Z: 1}, 2*half)
	got := vec3.RotateByQuat(q, vec3.Vec{X: 1})
	require.True(t, got.Equal(vec3.Vec{Y: 1}, 1e-9), "got %+v", got)
}

func TestRotateByQuatPreservesLength(t *testing.T) {
	q := quatAxisAngle(vec3.Vec{X: 1, Y: 1, Z: 0}.Normalize(), 1.3)
	v := vec3.Vec{X: 2, Y: -3, Z: 5}
	got := vec3.RotateByQuat(q, v)
	require.InDelta(t, v.Length(), got.Length(), 1e-9)
}
