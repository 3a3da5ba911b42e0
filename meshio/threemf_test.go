package meshio_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/caldera-labs/tetrasim/meshio"
	"github.com/caldera-labs/tetrasim/vec3"
)

func TestWriteThreeMFProducesNonEmptyArchive(t *testing.T) {
	verts := []vec3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
	}
	faces := [][3]uint32{{0, 1, 2}}

	var buf bytes.Buffer
	require.NoError(t, meshio.WriteThreeMF(&buf, verts, faces))
	require.NotZero(t, buf.Len())
}
