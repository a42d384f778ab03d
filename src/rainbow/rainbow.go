package rainbow

import (
	nImage "image"
	"math"

	"github.com/seventv/RainbowProcessor/src/image"
)

const DefaultRate = 180.0

// Phase offsets in degrees for each color channel.
const (
	RedOffset   = 45.0
	GreenOffset = 90.0
	BlueOffset  = 0.0
)

// Angle returns |cos(x)| for x in degrees.
func Angle(x float64) float64 {
	return math.Abs(math.Cos(x * math.Pi / 180))
}

// Phase is the rotation in degrees applied to frame i of n.
func Phase(i, n int, rate float64) float64 {
	return float64(i) * rate / float64(n)
}

// Factors returns the red, green and blue multipliers for the given phase.
func Factors(phase float64) (r, g, b float64) {
	return Angle(phase + RedOffset), Angle(phase + GreenOffset), Angle(phase + BlueOffset)
}

// ShiftFrame scales the color channels of src by the multipliers of phase
// and returns the result in a new buffer. Alpha is copied as is.
func ShiftFrame(src *nImage.NRGBA, phase float64) *nImage.NRGBA {
	dst := &nImage.NRGBA{
		Pix:    make([]uint8, len(src.Pix)),
		Stride: src.Stride,
		Rect:   src.Rect,
	}

	fr, fg, fb := Factors(phase)

	for i := 0; i+3 < len(src.Pix); i += 4 {
		dst.Pix[i+0] = uint8(float64(src.Pix[i+0]) * fr)
		dst.Pix[i+1] = uint8(float64(src.Pix[i+1]) * fg)
		dst.Pix[i+2] = uint8(float64(src.Pix[i+2]) * fb)
		dst.Pix[i+3] = src.Pix[i+3]
	}

	return dst
}

// Shift applies the rainbow effect to every frame of seq. The input is left
// untouched.
func Shift(seq image.Sequence, rate float64) image.Sequence {
	n := seq.Len()
	frames := make([]image.Frame, n)

	for i, f := range seq.Frames {
		frames[i] = image.Frame{
			Pix:  ShiftFrame(f.Pix, Phase(i, n, rate)),
			Meta: f.Meta,
		}
	}

	return image.NewSequence(seq.Loop, frames...)
}
