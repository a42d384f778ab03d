package webp

import (
	"io"

	xWebp "golang.org/x/image/webp"

	"github.com/seventv/RainbowProcessor/src/image"
)

func Test(data []byte) bool {
	if len(data) < 12 {
		return false
	}

	// WEBP Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return data[0] == 'R' &&
		data[1] == 'I' &&
		data[2] == 'F' &&
		data[3] == 'F' &&
		data[8] == 'W' &&
		data[9] == 'E' &&
		data[10] == 'B' &&
		data[11] == 'P'
}

// Decode only handles still WebP images; x/image/webp has no ANIM support.
func Decode(r io.Reader) (image.Sequence, error) {
	img, err := xWebp.Decode(r)
	if err != nil {
		return image.Sequence{}, err
	}

	return image.NewSequence(image.DefaultLoop, image.FromImage(img, image.DefaultMetadata())), nil
}
