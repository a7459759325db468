package image

import (
	"image"
	"iter"

	"github.com/jmylchreest/swatch/internal/colour"
)

// DefaultSampleBudget is the default maximum number of pixels read from one image.
const DefaultSampleBudget = 400_000

// Pixels returns the opaque pixels of img in row-major order.
//
// When the image holds more than budget pixels, every (total/budget)th pixel
// is taken instead. A budget of zero or less reads every pixel. Fully
// transparent pixels are skipped; the rest are read non-premultiplied.
func Pixels(img image.Image, budget int) iter.Seq[colour.RGB] {
	return func(yield func(colour.RGB) bool) {
		bounds := img.Bounds()
		width := bounds.Dx()
		total := width * bounds.Dy()
		if total <= 0 {
			return
		}

		step := 1
		if budget > 0 && total > budget {
			step = total / budget
		}

		for i := 0; i < total; i += step {
			x := bounds.Min.X + i%width
			y := bounds.Min.Y + i/width
			px, ok := colour.FromColor(img.At(x, y))
			if !ok {
				continue
			}
			if !yield(px) {
				return
			}
		}
	}
}
