package png

import (
	nPng "image/png"
	"io"

	"github.com/seventv/RainbowProcessor/src/image"
)

// Test reports whether data starts with the PNG signature and an IHDR chunk.
func Test(data []byte) bool {
	if len(data) < 16 {
		return false
	}

	// PNG Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return data[0] == 0x89 &&
		data[1] == 'P' &&
		data[2] == 'N' &&
		data[3] == 'G' &&
		data[4] == 0x0D &&
		data[5] == 0x0A &&
		data[6] == 0x1A &&
		data[7] == 0x0A &&
		data[12] == 'I' &&
		data[13] == 'H' &&
		data[14] == 'D' &&
		data[15] == 'R'
}

// Decode reads the default image of a PNG. Animation chunks are ignored.
func Decode(r io.Reader) (image.Sequence, error) {
	img, err := nPng.Decode(r)
	if err != nil {
		return image.Sequence{}, err
	}

	return image.NewSequence(image.DefaultLoop, image.FromImage(img, image.DefaultMetadata())), nil
}
