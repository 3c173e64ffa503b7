// Package filter implements the line-oriented post-pass filters that run
// over an already-composited linear-color scanline buffer: alpha-blend,
// separable Gaussian blur, mask and displacement map.
package filter

import (
	"math"

	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/texture"
)

// RowInfo locates the row being filtered in source coordinates, so
// filters that need to sample a texture (Mask, DisplacementMap) can map
// output columns back to source-space.
type RowInfo struct {
	Y  float64
	X0 int // source-space pixel column of output[0]
}

// Filter is the uniform interface every concrete filter implements.
// RowContext/ColContext declare how many neighboring rows/columns of
// already-composited input the filter needs; Apply receives exactly that
// much context and writes the narrower, trimmed output row.
type Filter interface {
	// RowContext returns how many rows above and below the target row
	// this filter needs.
	RowContext() (above, below int)
	// ColContext returns how many extra columns to the left and right of
	// the output range this filter needs.
	ColContext() (left, right int)
	// Apply runs the filter. rows has RowContext()above+below+1 entries,
	// each len(output)+left+right wide; rows[above] is the row being
	// filtered and column left+i in every row aligns with output[i].
	Apply(rows [][]color.Pixel, output []color.Pixel, info RowInfo)
}

// --- AlphaBlend ---

// AlphaBlend scales every premultiplied component by alpha, needing no
// neighboring rows or columns.
type AlphaBlend struct{ Alpha float64 }

func (f AlphaBlend) RowContext() (int, int) { return 0, 0 }
func (f AlphaBlend) ColContext() (int, int) { return 0, 0 }

func (f AlphaBlend) Apply(rows [][]color.Pixel, output []color.Pixel, _ RowInfo) {
	a := float32(f.Alpha)
	src := rows[0]
	for i := range output {
		output[i] = src[i].Scale(a)
	}
}

// --- Gaussian ---

// gaussianKernel precomputes normalized weights for a 1D Gaussian with
// standard deviation sigma, radius ceil(3*sigma).
func gaussianKernel(sigma float64) []float64 {
	if sigma <= 0 {
		return []float64{1}
	}
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}
	weights := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		weights[i+radius] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// HorizontalGaussian blurs along x using a precomputed kernel, needing
// extra columns of context but no extra rows.
type HorizontalGaussian struct {
	Sigma  float64
	kernel []float64
}

// NewHorizontalGaussian precomputes the kernel for sigma.
func NewHorizontalGaussian(sigma float64) *HorizontalGaussian {
	return &HorizontalGaussian{Sigma: sigma, kernel: gaussianKernel(sigma)}
}

func (f *HorizontalGaussian) radius() int { return (len(f.kernel) - 1) / 2 }

func (f *HorizontalGaussian) RowContext() (int, int) { return 0, 0 }
func (f *HorizontalGaussian) ColContext() (int, int) { r := f.radius(); return r, r }

func (f *HorizontalGaussian) Apply(rows [][]color.Pixel, output []color.Pixel, _ RowInfo) {
	src := rows[0]
	for i := range output {
		var acc color.Pixel
		for k, w := range f.kernel {
			acc = acc.Add(src[i+k].Scale(float32(w)))
		}
		output[i] = acc
	}
}

// VerticalGaussian blurs along y using a precomputed kernel, needing
// extra rows of context but no extra columns.
type VerticalGaussian struct {
	Sigma  float64
	kernel []float64
}

// NewVerticalGaussian precomputes the kernel for sigma.
func NewVerticalGaussian(sigma float64) *VerticalGaussian {
	return &VerticalGaussian{Sigma: sigma, kernel: gaussianKernel(sigma)}
}

func (f *VerticalGaussian) radius() int { return (len(f.kernel) - 1) / 2 }

func (f *VerticalGaussian) RowContext() (int, int) { r := f.radius(); return r, r }
func (f *VerticalGaussian) ColContext() (int, int) { return 0, 0 }

func (f *VerticalGaussian) Apply(rows [][]color.Pixel, output []color.Pixel, _ RowInfo) {
	for i := range output {
		var acc color.Pixel
		for k, w := range f.kernel {
			acc = acc.Add(rows[k][i].Scale(float32(w)))
		}
		output[i] = acc
	}
}

// --- Mask ---

// Mask multiplies every output pixel (including its alpha, preserving
// the premultiplied invariant) by the bilinear sample of a mask texture
// at (x*MultX, y*MultY).
type Mask struct {
	Texture *texture.Texture
	MultX   float64
	MultY   float64
}

func (f *Mask) RowContext() (int, int) { return 0, 0 }
func (f *Mask) ColContext() (int, int) { return 0, 0 }

func (f *Mask) Apply(rows [][]color.Pixel, output []color.Pixel, info RowInfo) {
	src := rows[0]
	my := info.Y * f.MultY
	for i := range output {
		mx := float64(info.X0+i) * f.MultX
		m := f.Texture.ReadBilinear(0, mx, my)
		output[i] = src[i].Scale(m.A)
	}
}

// --- DisplacementMap ---

// DisplacementMap reads the (r,g) channels of a gamma-decoded map
// texture, normalizes them to +-1 and uses them to scale Dx/Dy into a
// per-pixel offset, then reads the already-composited input at the
// fractional offset position with a bilinear mix of the four enclosing
// pixels, clamped to the supplied row/column context. The map is
// gamma-decoded with a scalar transform (color.GammaDecodeScalar), not
// the full pixel codec, since only two independent channels are needed,
// not a premultiplied color.
type DisplacementMap struct {
	Map   *texture.Texture
	Dx    float64
	Dy    float64
	Gamma float64
}

func (f *DisplacementMap) RowContext() (int, int) {
	r := int(math.Ceil(math.Abs(f.Dy))) + 1
	return r, r
}

func (f *DisplacementMap) ColContext() (int, int) {
	c := int(math.Ceil(math.Abs(f.Dx))) + 1
	return c, c
}

func (f *DisplacementMap) Apply(rows [][]color.Pixel, output []color.Pixel, info RowInfo) {
	above, _ := f.RowContext()
	left, _ := f.ColContext()
	for i := range output {
		mx := float64(info.X0 + i)
		my := info.Y
		m := f.Map.ReadBilinear(0, mx, my)
		r := color.GammaDecodeScalar(float64(m.R), f.Gamma)*2 - 1
		g := color.GammaDecodeScalar(float64(m.G), f.Gamma)*2 - 1

		// Bilinear mix of the four pixels enclosing the fractional
		// source position, same weights as texture sampling.
		fx := float64(left+i) + r*f.Dx
		fy := float64(above) + g*f.Dy
		x0 := int(math.Floor(fx))
		y0 := int(math.Floor(fy))
		tx := float32(fx - float64(x0))
		ty := float32(fy - float64(y0))

		get := func(px, py int) color.Pixel {
			py = clampIdx(py, 0, len(rows)-1)
			px = clampIdx(px, 0, len(rows[py])-1)
			return rows[py][px]
		}
		p00 := get(x0, y0).Scale((1 - tx) * (1 - ty))
		p10 := get(x0+1, y0).Scale(tx * (1 - ty))
		p01 := get(x0, y0+1).Scale((1 - tx) * ty)
		p11 := get(x0+1, y0+1).Scale(tx * ty)
		output[i] = p00.Add(p10).Add(p01).Add(p11)
	}
}

func clampIdx(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
