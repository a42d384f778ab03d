package tiff

import (
	"io"

	xTiff "golang.org/x/image/tiff"

	"github.com/seventv/RainbowProcessor/src/image"
)

func Test(data []byte) bool {
	if len(data) < 8 {
		return false
	}

	// TIFF Magic Numbers, little and big endian
	// https://www.garykessler.net/library/file_sigs.html
	return (data[0] == 'I' && data[1] == 'I' && data[2] == '*' && data[3] == 0x00) ||
		(data[0] == 'M' && data[1] == 'M' && data[2] == 0x00 && data[3] == '*')
}

// Decode reads the first IFD only.
func Decode(r io.Reader) (image.Sequence, error) {
	img, err := xTiff.Decode(r)
	if err != nil {
		return image.Sequence{}, err
	}

	return image.NewSequence(image.DefaultLoop, image.FromImage(img, image.DefaultMetadata())), nil
}
