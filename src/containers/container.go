package containers

import (
	"bytes"
	"fmt"
	"io"

	"github.com/seventv/RainbowProcessor/src/containers/bmp"
	"github.com/seventv/RainbowProcessor/src/containers/gif"
	"github.com/seventv/RainbowProcessor/src/containers/jpeg"
	"github.com/seventv/RainbowProcessor/src/containers/png"
	"github.com/seventv/RainbowProcessor/src/containers/tiff"
	"github.com/seventv/RainbowProcessor/src/containers/webp"
	"github.com/seventv/RainbowProcessor/src/image"
)

var ErrUnknownFormat = fmt.Errorf("unknown image format")

type decoder func(r io.Reader) (image.Sequence, error)

var decoders = map[image.ImageType]decoder{
	image.BMP:  bmp.Decode,
	image.GIF:  gif.Decode,
	image.JPEG: jpeg.Decode,
	image.PNG:  png.Decode,
	image.TIFF: tiff.Decode,
	image.WEBP: webp.Decode,
}

func ToType(data []byte) (image.ImageType, error) {
	if gif.Test(data) {
		return image.GIF, nil
	} else if png.Test(data) {
		return image.PNG, nil
	} else if jpeg.Test(data) {
		return image.JPEG, nil
	} else if webp.Test(data) {
		return image.WEBP, nil
	} else if tiff.Test(data) {
		return image.TIFF, nil
	} else if bmp.Test(data) { // two byte signature, keep it last
		return image.BMP, nil
	}

	return "", ErrUnknownFormat
}

// Extract decodes data into a frame sequence. Animated sources keep all of
// their frames, a still image is repeated image.StaticFrameCount times so the
// effect has something to cycle through.
func Extract(data []byte) (image.Sequence, error) {
	imgType, err := ToType(data)
	if err != nil {
		return image.Sequence{}, err
	}

	decode, ok := decoders[imgType]
	if !ok {
		return image.Sequence{}, ErrUnknownFormat
	}

	seq, err := decode(bytes.NewReader(data))
	if err != nil {
		return image.Sequence{}, fmt.Errorf("%s: %w", imgType, err)
	}

	if seq.Len() == 1 {
		seq = Expand(seq.Frames[0], seq.Loop, image.StaticFrameCount)
	}

	if err := seq.Validate(); err != nil {
		return image.Sequence{}, fmt.Errorf("%s: %w", imgType, err)
	}

	return seq, nil
}

// Expand returns n independent copies of f.
func Expand(f image.Frame, loop int, n int) image.Sequence {
	frames := make([]image.Frame, n)
	for i := range frames {
		frames[i] = f.Clone()
	}

	return image.NewSequence(loop, frames...)
}
