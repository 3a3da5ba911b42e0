package softbody_test

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/caldera-labs/tetrasim/softbody"
)

func TestLoadHeightFieldImageRoundTripsThroughBMP(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.SetGray(x, y, color.Gray{Y: uint8(16 * (x + y))})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, src))

	gray, err := softbody.LoadHeightFieldImage(&buf)
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), gray.Bounds())

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			wantR, wantG, wantB, _ := src.At(x, y).RGBA()
			gotR, gotG, gotB, _ := gray.At(x, y).RGBA()
			require.Equal(t, wantR, gotR)
			require.Equal(t, wantG, gotG)
			require.Equal(t, wantB, gotB)
		}
	}
}

func TestLoadHeightFieldImageRejectsGarbageInput(t *testing.T) {
	_, err := softbody.LoadHeightFieldImage(bytes.NewBufferString("not a bmp file"))
	require.Error(t, err)
}
