package texture

import (
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/agg-go/scanraster/internal/color"
)

// ResizeFilter selects the resampling kernel used by Resize.
type ResizeFilter int

const (
	// ResizeBilinear uses golang.org/x/image/draw's bilinear scaler: fast,
	// appropriate for interactive resizes.
	ResizeBilinear ResizeFilter = iota
	// ResizeLanczos uses disintegration/imaging's Lanczos kernel: higher
	// quality, appropriate for a one-time asset-import resize.
	ResizeLanczos
)

// Resize returns a new Texture with the base level resampled to w x h.
// Unlike GenerateMipmaps, which must keep the exact equal-weight 2x2
// average, an arbitrary-ratio resize has no such invariant to preserve,
// so it delegates to the ecosystem resamplers instead of hand-rolling a
// general-purpose filter. Driven by the FilterTexture drawing command's
// resize fields.
func (t *Texture) Resize(w, h int, filter ResizeFilter, gamma *color.GammaTables) *Texture {
	src := t.AsImage()

	var resized image.Image
	switch filter {
	case ResizeLanczos:
		resized = imaging.Resize(src, w, h, imaging.Lanczos)
	default:
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
		resized = dst
	}
	return FromImage(resized, gamma)
}

// FromImage converts a stdlib image into a texture, gamma-decoding into
// premultiplied linear texels. It is the return path for texture
// operations that round-trip through image.Image (Resize, whole-image
// blur).
func FromImage(img image.Image, gamma *color.GammaTables) *Texture {
	nrgba := toNRGBA(img)
	b := nrgba.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &Texture{levels: [][]texel{make([]texel, w*h)}, dims: []dim{{w, h}}}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := nrgba.PixOffset(b.Min.X+x, b.Min.Y+y)
			px := gamma.DecodePixel(color.RGBA8{
				R: premultiplyByte(nrgba.Pix[o], nrgba.Pix[o+3]),
				G: premultiplyByte(nrgba.Pix[o+1], nrgba.Pix[o+3]),
				B: premultiplyByte(nrgba.Pix[o+2], nrgba.Pix[o+3]),
				A: nrgba.Pix[o+3],
			})
			out.levels[0][y*w+x] = texelFromPixel(px)
		}
	}
	return out
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}

func premultiplyByte(c, a uint8) uint8 {
	return uint8((uint32(c)*uint32(a) + 127) / 255)
}
