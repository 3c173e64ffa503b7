package edge

import (
	"sort"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/edgeplan"
)

// RowIntervals supplies, for a given integer row, the sorted list of
// [xStart, xEnd) half-open inside-intervals on that row. A SampledContour
// reads a precomputed inside/outside mask (e.g. a rasterized glyph or a
// distance-field threshold) one row at a time rather than describing a
// shape algebraically.
type RowIntervals interface {
	// Row returns the row's intervals and whether that row falls within
	// the contour's valid range at all.
	Row(y int) (intervals [][2]float64, ok bool)
	BoundingBox() basics.Rect
}

// SampledContour is an edge whose intercepts come directly from a
// precomputed row-interval source, each interval's two ends emitted as a
// pair of Toggle intercepts (a contour is always even-odd by
// construction: it has no notion of winding direction, only inside or
// outside).
type SampledContour struct {
	shape edgeplan.ShapeId
	src   RowIntervals
	bbox  basics.Rect
}

// NewSampledContour wraps a row-interval source as an edge for shape id.
func NewSampledContour(shape edgeplan.ShapeId, src RowIntervals) *SampledContour {
	return &SampledContour{shape: shape, src: src, bbox: src.BoundingBox()}
}

func (c *SampledContour) Shape() edgeplan.ShapeId  { return c.shape }
func (c *SampledContour) BoundingBox() basics.Rect { return c.bbox }

func (c *SampledContour) Intercepts(y float64) []edgeplan.Intercept {
	row := basics.Clamp(y, c.bbox.Y1, c.bbox.Y2)
	intervals, ok := c.src.Row(int(row))
	if !ok {
		return nil
	}
	out := make([]edgeplan.Intercept, 0, len(intervals)*2)
	for _, iv := range intervals {
		out = append(out, edgeplan.Intercept{Dir: basics.Toggle, X: iv[0]})
		out = append(out, edgeplan.Intercept{Dir: basics.Toggle, X: iv[1]})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].X < out[b].X })
	return out
}

// MaskContour is a RowIntervals backed by a dense boolean-per-pixel mask,
// the common case of a contour sampled from a rendered alpha channel or a
// rasterized glyph bitmap.
type MaskContour struct {
	OriginX, OriginY int
	Width, Height    int
	Inside           []bool // row-major, Width*Height
}

func (m *MaskContour) BoundingBox() basics.Rect {
	return basics.Rect{
		X1: float64(m.OriginX), Y1: float64(m.OriginY),
		X2: float64(m.OriginX + m.Width), Y2: float64(m.OriginY + m.Height),
	}
}

func (m *MaskContour) Row(y int) ([][2]float64, bool) {
	ry := y - m.OriginY
	if ry < 0 || ry >= m.Height {
		return nil, false
	}
	var intervals [][2]float64
	base := ry * m.Width
	x := 0
	for x < m.Width {
		if !m.Inside[base+x] {
			x++
			continue
		}
		start := x
		for x < m.Width && m.Inside[base+x] {
			x++
		}
		intervals = append(intervals, [2]float64{
			float64(m.OriginX + start), float64(m.OriginX + x),
		})
	}
	return intervals, true
}
