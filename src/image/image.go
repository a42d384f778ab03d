package image

import (
	"fmt"
	nImage "image"
	"time"

	"golang.org/x/image/draw"
)

var (
	ErrEmptySequence = fmt.Errorf("sequence has no frames")
	ErrFrameSize     = fmt.Errorf("frame size mismatch")
)

const (
	// StaticFrameCount is how many copies a single frame source is expanded to.
	StaticFrameCount = 30

	DefaultDuration   = 40 * time.Millisecond
	DefaultBackground = 255
	DefaultLoop       = 0
)

// GIF disposal methods.
const (
	DisposalNone       byte = 0
	DisposalKeep       byte = 1
	DisposalBackground byte = 2
	DisposalPrevious   byte = 3
)

type Metadata struct {
	Duration   time.Duration
	Disposal   byte
	Background uint8
}

// DefaultMetadata is used for sources that carry no animation information.
func DefaultMetadata() Metadata {
	return Metadata{
		Duration:   DefaultDuration,
		Disposal:   DisposalNone,
		Background: DefaultBackground,
	}
}

type Frame struct {
	Pix  *nImage.NRGBA
	Meta Metadata
}

// FromImage converts img to a straight alpha RGBA frame anchored at the origin.
func FromImage(img nImage.Image, meta Metadata) Frame {
	b := img.Bounds()
	pix := nImage.NewNRGBA(nImage.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(pix, pix.Bounds(), img, b.Min, draw.Src)

	return Frame{
		Pix:  pix,
		Meta: meta,
	}
}

func ClonePix(p *nImage.NRGBA) *nImage.NRGBA {
	pix := &nImage.NRGBA{
		Pix:    make([]uint8, len(p.Pix)),
		Stride: p.Stride,
		Rect:   p.Rect,
	}
	copy(pix.Pix, p.Pix)
	return pix
}

// Clone returns a frame with its own copy of the pixel buffer.
func (f Frame) Clone() Frame {
	return Frame{
		Pix:  ClonePix(f.Pix),
		Meta: f.Meta,
	}
}

type Sequence struct {
	Frames []Frame
	Loop   int
}

func NewSequence(loop int, frames ...Frame) Sequence {
	return Sequence{
		Frames: frames,
		Loop:   loop,
	}
}

func (s Sequence) Len() int {
	return len(s.Frames)
}

func (s Sequence) Animated() bool {
	return len(s.Frames) > 1
}

func (s Sequence) Bounds() nImage.Rectangle {
	if len(s.Frames) == 0 {
		return nImage.Rectangle{}
	}
	return s.Frames[0].Pix.Bounds()
}

func (s Sequence) Durations() []time.Duration {
	durations := make([]time.Duration, len(s.Frames))
	for i, f := range s.Frames {
		durations[i] = f.Meta.Duration
	}
	return durations
}

// Validate checks that the sequence is non-empty and every frame has the
// dimensions of the first one.
func (s Sequence) Validate() error {
	if len(s.Frames) == 0 {
		return ErrEmptySequence
	}

	want := s.Bounds().Size()
	for i, f := range s.Frames {
		if f.Pix == nil {
			return fmt.Errorf("frame %d: %w: no pixels", i, ErrFrameSize)
		}
		if got := f.Pix.Bounds().Size(); got != want {
			return fmt.Errorf("frame %d: %w: %v != %v", i, ErrFrameSize, got, want)
		}
	}

	return nil
}

type ImageType string

const (
	BMP  ImageType = "bmp"
	GIF  ImageType = "gif"
	JPEG ImageType = "jpeg"
	PNG  ImageType = "png"
	TIFF ImageType = "tiff"
	WEBP ImageType = "webp"
)
