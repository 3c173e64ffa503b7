// Package texture implements sampled 2D image storage, bilinear
// filtering and mipmap generation.
package texture

import (
	"fmt"
	"image"
	"math"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/color"
)

// Format enumerates the two canonical texture realizations.
type Format int

const (
	Rgba8Gamma Format = iota // 8-bit gamma RGBA: input/output format
	R16Linear                // 16-bit linear RGBA: sampling format
)

// texel is a premultiplied-linear RGBA texel stored at 16-bit precision,
// the R16Linear sampling format.
type texel struct{ R, G, B, A uint16 }

func (t texel) toPixel() color.Pixel {
	const s = 1.0 / 65535.0
	return color.Pixel{R: float32(t.R) * s, G: float32(t.G) * s, B: float32(t.B) * s, A: float32(t.A) * s}
}

func texelFromPixel(p color.Pixel) texel {
	conv := func(v float32) uint16 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint16(v*65535.0 + 0.5)
	}
	return texel{R: conv(p.R), G: conv(p.G), B: conv(p.B), A: conv(p.A)}
}

// Texture is a rectangular grid of pixels with an optional mipmap chain.
// Internally every level is stored in the R16Linear sampling format
// regardless of the upload format, so sampling never has to branch on
// format.
type Texture struct {
	levels [][]texel // levels[0] is full resolution
	dims   []dim
}

type dim struct{ w, h int }

// ErrResourceExhausted rejects uploads over the configured size limit.
var ErrResourceExhausted = fmt.Errorf("texture upload exceeds configured size limit")

// Upload builds a Texture from a byte buffer in the given format. bpp is
// 4 for Rgba8Gamma and 8 for R16Linear (2 bytes/component). No partial
// uploads: the buffer must be exactly w*h*bpp bytes.
func Upload(format Format, w, h int, data []byte, gamma *color.GammaTables, maxPixels int) (*Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("texture: invalid dimensions %dx%d", w, h)
	}
	if maxPixels > 0 && w*h > maxPixels {
		return nil, ErrResourceExhausted
	}
	bpp := bytesPerPixel(format)
	if len(data) != w*h*bpp {
		return nil, fmt.Errorf("texture: expected %d bytes for %dx%d, got %d", w*h*bpp, w, h, len(data))
	}

	level0 := make([]texel, w*h)
	switch format {
	case Rgba8Gamma:
		for i := 0; i < w*h; i++ {
			o := i * 4
			px := gamma.DecodePixel(color.RGBA8{R: data[o], G: data[o+1], B: data[o+2], A: data[o+3]})
			level0[i] = texelFromPixel(px)
		}
	case R16Linear:
		for i := 0; i < w*h; i++ {
			o := i * 8
			level0[i] = texel{
				R: be16(data[o : o+2]),
				G: be16(data[o+2 : o+4]),
				B: be16(data[o+4 : o+6]),
				A: be16(data[o+6 : o+8]),
			}
		}
	default:
		return nil, fmt.Errorf("texture: unknown format %d", format)
	}

	return &Texture{levels: [][]texel{level0}, dims: []dim{{w, h}}}, nil
}

func bytesPerPixel(f Format) int {
	if f == R16Linear {
		return 8
	}
	return 4
}

func be16(b []byte) uint16 { return uint16(b[0])<<8 | uint16(b[1]) }

// Width/Height report the base-level dimensions.
func (t *Texture) Width() int  { return t.dims[0].w }
func (t *Texture) Height() int { return t.dims[0].h }

// LevelCount reports how many mip levels exist (1 if mipmaps were never
// generated).
func (t *Texture) LevelCount() int { return len(t.levels) }

// LevelDims returns the dimensions of mip level k,
// ceil(w/2^k) x ceil(h/2^k).
func (t *Texture) LevelDims(k int) (int, int) {
	if k < 0 {
		k = 0
	}
	if k >= len(t.dims) {
		k = len(t.dims) - 1
	}
	return t.dims[k].w, t.dims[k].h
}

// ReadPixel returns the texel at integer (x,y) in the given level, with
// coordinates clamped to the level's edges.
func (t *Texture) ReadPixel(level, x, y int) color.Pixel {
	level = basics.ClampInt(level, 0, len(t.levels)-1)
	w, h := t.dims[level].w, t.dims[level].h
	x = basics.ClampInt(x, 0, w-1)
	y = basics.ClampInt(y, 0, h-1)
	return t.levels[level][y*w+x].toPixel()
}

// ReadBilinear samples at fractional (x,y) in pixel coordinates using the
// bilinear mix of the four enclosing texels, with weights
// (1-fx)(1-fy), fx(1-fy), (1-fx)fy, fx*fy.
func (t *Texture) ReadBilinear(level int, x, y float64) color.Pixel {
	level = basics.ClampInt(level, 0, len(t.levels)-1)
	w, h := t.dims[level].w, t.dims[level].h

	x -= 0.5
	y -= 0.5
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)

	get := func(px, py int) color.Pixel {
		px = basics.ClampInt(px, 0, w-1)
		py = basics.ClampInt(py, 0, h-1)
		return t.levels[level][py*w+px].toPixel()
	}

	p00, p10, p01, p11 := get(x0, y0), get(x0+1, y0), get(x0, y0+1), get(x0+1, y0+1)
	w00 := float32((1 - fx) * (1 - fy))
	w10 := float32(fx * (1 - fy))
	w01 := float32((1 - fx) * fy)
	w11 := float32(fx * fy)

	return color.Pixel{
		R: p00.R*w00 + p10.R*w10 + p01.R*w01 + p11.R*w11,
		G: p00.G*w00 + p10.G*w10 + p01.G*w01 + p11.G*w11,
		B: p00.B*w00 + p10.B*w10 + p01.B*w01 + p11.B*w11,
		A: p00.A*w00 + p10.A*w10 + p01.A*w01 + p11.A*w11,
	}
}

// GenerateMipmaps rebuilds the mip chain from level 0 by averaging 2x2
// neighborhoods with equal weights in linear space, terminating when
// either dimension reaches 1. Implemented by hand rather than via
// golang.org/x/image/draw's resampling filters because those don't
// guarantee the exact equal-weight linear average each level must hold.
func (t *Texture) GenerateMipmaps() {
	t.levels = t.levels[:1]
	t.dims = t.dims[:1]
	for {
		prev := t.levels[len(t.levels)-1]
		pw, ph := t.dims[len(t.dims)-1].w, t.dims[len(t.dims)-1].h
		if pw == 1 || ph == 1 {
			break
		}
		nw := (pw + 1) / 2
		nh := (ph + 1) / 2
		next := make([]texel, nw*nh)
		for y := 0; y < nh; y++ {
			for x := 0; x < nw; x++ {
				x0, y0 := x*2, y*2
				x1, y1 := x0+1, y0+1
				if x1 >= pw {
					x1 = x0
				}
				if y1 >= ph {
					y1 = y0
				}
				a := prev[y0*pw+x0]
				b := prev[y0*pw+x1]
				c := prev[y1*pw+x0]
				d := prev[y1*pw+x1]
				next[y*nw+x] = texel{
					R: avg4(a.R, b.R, c.R, d.R),
					G: avg4(a.G, b.G, c.G, d.G),
					B: avg4(a.B, b.B, c.B, d.B),
					A: avg4(a.A, b.A, c.A, d.A),
				}
			}
		}
		t.levels = append(t.levels, next)
		t.dims = append(t.dims, dim{nw, nh})
	}
}

func avg4(a, b, c, d uint16) uint16 {
	return uint16((uint32(a) + uint32(b) + uint32(c) + uint32(d) + 2) / 4)
}

// MipLevelForStep selects level = floor(log2(sqrt(dx^2+dy^2))), clamped
// to available levels, 0 when the step is below 1 pixel/pixel.
func (t *Texture) MipLevelForStep(dx, dy float64) int {
	step := math.Sqrt(dx*dx + dy*dy)
	if step < 1 {
		return 0
	}
	level := int(math.Log2(step))
	return basics.ClampInt(level, 0, len(t.levels)-1)
}

// AsImage exposes the base level as a standard image.Image, used by the
// golang.org/x/image/draw and disintegration/imaging integration points
// (Resize, ImageGaussianBlur) that operate on stdlib image types.
func (t *Texture) AsImage() image.Image {
	w, h := t.dims[0].w, t.dims[0].h
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := t.levels[0][y*w+x].toPixel()
			a := p.A
			demul := func(v float32) uint8 {
				if a <= 0 {
					return 0
				}
				straight := v / a
				if straight > 1 {
					straight = 1
				}
				return uint8(straight*255.0 + 0.5)
			}
			o := img.PixOffset(x, y)
			img.Pix[o] = demul(p.R)
			img.Pix[o+1] = demul(p.G)
			img.Pix[o+2] = demul(p.B)
			img.Pix[o+3] = uint8(a*255.0 + 0.5)
		}
	}
	return img
}
