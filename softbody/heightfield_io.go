package softbody

import (
	"fmt"
	"image"
	"io"

	"golang.org/x/image/bmp"
)

// LoadHeightFieldImage decodes a grayscale elevation map from r, converting
// it to the 16-bit depth HeightField expects. BMP is the teacher's
// texture-loading dependency (golang.org/x/image) repurposed for a
// non-rendering backing store (SPEC_FULL §4.9.1). BMP samples carry at most
// 8 bits per channel, so the converted Gray16 image holds 8-bit elevation
// precision.
func LoadHeightFieldImage(r io.Reader) (*image.Gray16, error) {
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("softbody: decoding height-field image: %w", err)
	}

	bounds := img.Bounds()
	gray := image.NewGray16(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, img.At(x, y))
		}
	}
	return gray, nil
}
