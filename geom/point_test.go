package geom_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caldera-labs/tetrasim/geom"
	"github.com/caldera-labs/tetrasim/vec3"
)

func TestPointSetDedupsCoincidentPoints(t *testing.T) {
	pts := geom.NewPointSet()
	a := pts.Add(vec3.Vec{X: 1, Y: 2, Z: 3})
	b := pts.Add(vec3.Vec{X: 1, Y: 2, Z: 3})

	require.Equal(t, a, b)
	require.Equal(t, 1, pts.Len())
}

func TestPointSetDistinctPointsGetDistinctIDs(t *testing.T) {
	pts := geom.NewPointSet()
	a := pts.Add(vec3.Vec{X: 1})
	b := pts.Add(vec3.Vec{X: 2})

	require.NotEqual(t, a, b)
	require.Equal(t, 2, pts.Len())
}

func TestPointSetSubMicronJitterStillDedups(t *testing.T) {
	pts := geom.NewPointSet()
	a := pts.Add(vec3.Vec{X: 1.0000001})
	b := pts.Add(vec3.Vec{X: 1.0000002})

	require.Equal(t, a, b)
}

func TestPointSetPosAndAt(t *testing.T) {
	pts := geom.NewPointSet()
	id := pts.Add(vec3.Vec{X: 4, Y: 5, Z: 6})

	require.True(t, pts.Pos(id).Equal(vec3.Vec{X: 4, Y: 5, Z: 6}, 1e-9))
	require.Equal(t, id, pts.At(id).ID)
}

func TestPointSetIncAdjacent(t *testing.T) {
	pts := geom.NewPointSet()
	id := pts.Add(vec3.Vec{X: 1})

	pts.IncAdjacent(id, 3)
	pts.IncAdjacent(id, -1)
	require.EqualValues(t, 2, pts.At(id).Adjacent)
}
