package filter

import (
	"image"

	"github.com/disintegration/imaging"
)

// ImageGaussianBlur is a reference/preview blur path for callers that
// aren't on the hot per-scanline path (e.g. a sprite thumbnail or an
// offline preview render): it wraps disintegration/imaging's
// non-separable Blur directly on a stdlib image, rather than driving
// the per-row HorizontalGaussian/VerticalGaussian pair through a
// ScratchBuffer.
func ImageGaussianBlur(img image.Image, sigma float64) image.Image {
	return imaging.Blur(img, sigma)
}
