package jpeg

import (
	nJpeg "image/jpeg"
	"io"

	"github.com/seventv/RainbowProcessor/src/image"
)

func Test(data []byte) bool {
	if len(data) < 4 {
		return false
	}

	// JPEG Magic Numbers, SOI followed by a marker
	// https://www.garykessler.net/library/file_sigs.html
	return data[0] == 0xFF &&
		data[1] == 0xD8 &&
		data[2] == 0xFF
}

func Decode(r io.Reader) (image.Sequence, error) {
	img, err := nJpeg.Decode(r)
	if err != nil {
		return image.Sequence{}, err
	}

	return image.NewSequence(image.DefaultLoop, image.FromImage(img, image.DefaultMetadata())), nil
}
