package edge

import (
	"math"
	"sort"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/edgeplan"
)

// Clipped restricts another edge's coverage to an axis-aligned region:
// on each scanline the inner edge's inside-intervals are intersected
// with the clip rect's x-range, and rows outside the clip's y-range
// report nothing. The result is expressed as Toggle pairs regardless of
// the inner edge's fill rule, since interval intersection has already
// resolved winding.
type Clipped struct {
	inner edgeplan.EdgeDescriptor
	clip  basics.Rect
	bbox  basics.Rect
}

// NewClipped wraps inner so it only covers the part of itself inside
// clip.
func NewClipped(inner edgeplan.EdgeDescriptor, clip basics.Rect) *Clipped {
	clip = clip.Normalize()
	bb := inner.BoundingBox()
	bbox := basics.Rect{
		X1: math.Max(bb.X1, clip.X1),
		Y1: math.Max(bb.Y1, clip.Y1),
		X2: math.Min(bb.X2, clip.X2),
		Y2: math.Min(bb.Y2, clip.Y2),
	}
	if bbox.X2 < bbox.X1 {
		bbox.X2 = bbox.X1
	}
	if bbox.Y2 < bbox.Y1 {
		bbox.Y2 = bbox.Y1
	}
	return &Clipped{inner: inner, clip: clip, bbox: bbox}
}

func (c *Clipped) Shape() edgeplan.ShapeId  { return c.inner.Shape() }
func (c *Clipped) BoundingBox() basics.Rect { return c.bbox }

func (c *Clipped) Intercepts(y float64) []edgeplan.Intercept {
	if y < c.bbox.Y1 || y >= c.bbox.Y2 {
		return nil
	}
	ics := c.inner.Intercepts(y)
	if len(ics) == 0 {
		return nil
	}
	sort.Slice(ics, func(a, b int) bool { return ics[a].X < ics[b].X })

	// Walk the inner edge's crossings to recover its inside-intervals,
	// then intersect each with the clip's x-range. Toggle crossings flip
	// parity; In/Out adjust a winding count; the edge is inside while
	// either says so.
	var out []edgeplan.Intercept
	parity := 0
	winding := 0
	inside := false
	var start float64
	for _, ic := range ics {
		switch ic.Dir {
		case basics.Toggle:
			parity = 1 - parity
		case basics.In:
			winding++
		case basics.Out:
			winding--
		}
		nowInside := parity == 1 || winding != 0
		if !inside && nowInside {
			start = ic.X
		} else if inside && !nowInside {
			x0 := math.Max(start, c.clip.X1)
			x1 := math.Min(ic.X, c.clip.X2)
			if x1 > x0 {
				out = append(out,
					edgeplan.Intercept{Dir: basics.Toggle, X: x0},
					edgeplan.Intercept{Dir: basics.Toggle, X: x1})
			}
		}
		inside = nowInside
	}
	return out
}
