package gif

import (
	"bytes"
	"fmt"
	nImage "image"
	"image/color"
	"image/color/palette"
	nGif "image/gif"
	"io"
	"time"

	"github.com/seventv/RainbowProcessor/src/image"
)

// Comment is embedded in every encoded animation.
const Comment = "Made by Dashstrom"

var ErrMalformedStream = fmt.Errorf("malformed gif stream")

// Palette is the web safe palette followed by a single transparent entry.
var Palette = func() color.Palette {
	p := make(color.Palette, 0, len(palette.WebSafe)+1)
	p = append(p, palette.WebSafe...)
	return append(p, color.RGBA{})
}()

var TransparentIndex = uint8(len(palette.WebSafe))

const (
	extensionIntroducer = 0x21
	commentLabel        = 0xFE
	maxSubBlock         = 0xFF
)

// Encode writes seq to w as a looping GIF89a animation sharing one global
// palette. Every frame is disposed to background.
func Encode(w io.Writer, seq image.Sequence) error {
	if err := seq.Validate(); err != nil {
		return err
	}

	bounds := seq.Bounds()
	g := &nGif.GIF{
		Image:     make([]*nImage.Paletted, seq.Len()),
		Delay:     make([]int, seq.Len()),
		Disposal:  make([]byte, seq.Len()),
		LoopCount: seq.Loop,
		Config: nImage.Config{
			ColorModel: Palette,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
		},
		BackgroundIndex: seq.Frames[0].Meta.Background,
	}

	for i, f := range seq.Frames {
		g.Image[i] = Quantize(f.Pix)
		g.Delay[i] = int(f.Meta.Duration / (10 * time.Millisecond))
		g.Disposal[i] = image.DisposalBackground
	}

	buf := bytes.Buffer{}
	if err := nGif.EncodeAll(&buf, g); err != nil {
		return err
	}

	data, err := InsertComment(buf.Bytes(), Comment)
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

// Quantize maps src onto Palette. Pixels less than half opaque become
// transparent, the rest take the nearest web safe color.
func Quantize(src *nImage.NRGBA) *nImage.Paletted {
	b := src.Bounds()
	dst := nImage.NewPaletted(nImage.Rect(0, 0, b.Dx(), b.Dy()), Palette)

	for y := 0; y < b.Dy(); y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+b.Dx()*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()]
		for x := range d {
			px := s[x*4 : x*4+4]
			if px[3] < 0x80 {
				d[x] = TransparentIndex
				continue
			}
			d[x] = WebSafeIndex(px[0], px[1], px[2])
		}
	}

	return dst
}

// WebSafeIndex is the index in palette.WebSafe of the color closest to r, g, b.
func WebSafeIndex(r, g, b uint8) uint8 {
	return level(r)*36 + level(g)*6 + level(b)
}

// level rounds v to the nearest multiple of 0x33 and returns the multiplier.
func level(v uint8) uint8 {
	return uint8((int(v) + 25) / 51)
}

// InsertComment splices a comment extension in front of the first block
// following the global color table.
func InsertComment(data []byte, comment string) ([]byte, error) {
	// header + logical screen descriptor
	offset := 13
	if len(data) < offset {
		return nil, ErrMalformedStream
	}

	if flags := data[10]; flags&0x80 != 0 {
		offset += 3 << ((flags & 0x07) + 1)
	}

	if len(data) < offset {
		return nil, ErrMalformedStream
	}

	ext := commentExtension(comment)

	out := make([]byte, 0, len(data)+len(ext))
	out = append(out, data[:offset]...)
	out = append(out, ext...)
	return append(out, data[offset:]...), nil
}

func commentExtension(comment string) []byte {
	b := []byte{extensionIntroducer, commentLabel}
	for len(comment) > 0 {
		n := min(len(comment), maxSubBlock)
		b = append(b, byte(n))
		b = append(b, comment[:n]...)
		comment = comment[n:]
	}
	return append(b, 0x00)
}
