package bmp

import (
	"io"

	xBmp "golang.org/x/image/bmp"

	"github.com/seventv/RainbowProcessor/src/image"
)

func Test(data []byte) bool {
	if len(data) < 26 {
		return false
	}

	// BMP Magic Numbers
	// https://www.garykessler.net/library/file_sigs.html
	return data[0] == 'B' &&
		data[1] == 'M'
}

func Decode(r io.Reader) (image.Sequence, error) {
	img, err := xBmp.Decode(r)
	if err != nil {
		return image.Sequence{}, err
	}

	return image.NewSequence(image.DefaultLoop, image.FromImage(img, image.DefaultMetadata())), nil
}
