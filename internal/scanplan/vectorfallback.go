package scanplan

import (
	"image"

	"golang.org/x/image/vector"

	"github.com/agg-go/scanraster/internal/program"
)

// vectorSubRows is the internal raster height vectorColumnCoverage uses;
// higher resolves the trapezoid's slope more finely than the 4-sample
// interpolation columnCoverage uses elsewhere.
const vectorSubRows = 16

// vectorColumnCoverage rasterizes one shape's cross-section within pixel
// column px, between the interval pairs at y_lo and y_hi, using
// golang.org/x/image/vector's scanline rasterizer and reads back the
// resulting alpha as a coverage fraction. This is the fallback for the
// hard case of a shape contributing more than one separate
// inside-interval between the two scanlines: self-intersecting or
// multi-component cross-sections the 4-sample linear interpolation in
// columnCoverage isn't built to resolve precisely.
func vectorColumnCoverage(loIv, hiIv [][2]float64, xt program.XTransform, px int) float64 {
	n := len(loIv)
	if len(hiIv) < n {
		n = len(hiIv)
	}
	if n == 0 {
		return 0
	}

	rast := vector.NewRasterizer(1, vectorSubRows)
	clamp := func(v float64) float32 {
		if v < 0 {
			return 0
		}
		if v > 1 {
			return 1
		}
		return float32(v)
	}
	for i := 0; i < n; i++ {
		a, b := loIv[i], hiIv[i]
		x0lo := clamp(xt.SourceXToPixelX(a[0]) - float64(px))
		x1lo := clamp(xt.SourceXToPixelX(a[1]) - float64(px))
		x0hi := clamp(xt.SourceXToPixelX(b[0]) - float64(px))
		x1hi := clamp(xt.SourceXToPixelX(b[1]) - float64(px))
		if x1lo <= x0lo && x1hi <= x0hi {
			continue
		}
		rast.MoveTo(x0lo, 0)
		rast.LineTo(x1lo, 0)
		rast.LineTo(x1hi, vectorSubRows)
		rast.LineTo(x0hi, vectorSubRows)
		rast.ClosePath()
	}

	dst := image.NewAlpha(image.Rect(0, 0, 1, vectorSubRows))
	rast.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	var sum int
	for _, v := range dst.Pix {
		sum += int(v)
	}
	return float64(sum) / float64(vectorSubRows*255)
}
