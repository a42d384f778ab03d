package gif

import (
	nImage "image"
	nGif "image/gif"
	"io"
	"time"

	"golang.org/x/image/draw"

	"github.com/seventv/RainbowProcessor/src/image"
)

// Decode reads every frame of a GIF. Frames are composited onto a canvas the
// size of the logical screen, honoring each frame's disposal, so every frame
// of the returned sequence is a complete picture.
func Decode(r io.Reader) (image.Sequence, error) {
	g, err := nGif.DecodeAll(r)
	if err != nil {
		return image.Sequence{}, err
	}

	if len(g.Image) == 0 {
		return image.Sequence{}, image.ErrEmptySequence
	}

	bounds := nImage.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}

	// a missing NETSCAPE extension decodes as -1
	loop := g.LoopCount
	if loop < 0 {
		loop = image.DefaultLoop
	}

	canvas := nImage.NewNRGBA(bounds)
	frames := make([]image.Frame, len(g.Image))

	for i, pm := range g.Image {
		meta := metadata(g, i)

		var previous *nImage.NRGBA
		if meta.Disposal == image.DisposalPrevious {
			previous = image.ClonePix(canvas)
		}

		b := pm.Bounds().Intersect(bounds)
		draw.Draw(canvas, b, pm, b.Min, draw.Over)

		frames[i] = image.FromImage(canvas, meta)

		switch meta.Disposal {
		case image.DisposalBackground:
			draw.Draw(canvas, b, nImage.Transparent, nImage.Point{}, draw.Src)
		case image.DisposalPrevious:
			draw.Draw(canvas, b, previous, b.Min, draw.Src)
		}
	}

	return image.NewSequence(loop, frames...), nil
}

func metadata(g *nGif.GIF, i int) image.Metadata {
	meta := image.Metadata{
		Duration:   image.DefaultDuration,
		Disposal:   image.DisposalNone,
		Background: g.BackgroundIndex,
	}

	if i < len(g.Delay) && g.Delay[i] > 0 {
		meta.Duration = time.Duration(g.Delay[i]) * 10 * time.Millisecond
	}

	if i < len(g.Disposal) {
		meta.Disposal = g.Disposal[i]
	}

	return meta
}
