// Package edge implements the concrete edge primitives: axis-aligned
// rectangles, cubic-bezier subpaths, stroked polylines and distance-field
// contours.
package edge

import (
	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/edgeplan"
)

// Rect is the simplest edge: an axis-aligned [x0,x1) x [y0,y1) box. Its
// intercepts at any y in [y0,y1) are two toggles at x0 and x1.
type Rect struct {
	shape          edgeplan.ShapeId
	X0, Y0, X1, Y1 float64
}

// NewRect constructs a rectangle edge, normalizing coordinates.
func NewRect(shape edgeplan.ShapeId, x0, y0, x1, y1 float64) *Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return &Rect{shape: shape, X0: x0, Y0: y0, X1: x1, Y1: y1}
}

func (r *Rect) Shape() edgeplan.ShapeId { return r.shape }

func (r *Rect) BoundingBox() basics.Rect {
	return basics.Rect{X1: r.X0, Y1: r.Y0, X2: r.X1, Y2: r.Y1}
}

func (r *Rect) Intercepts(y float64) []edgeplan.Intercept {
	if y < r.Y0 || y >= r.Y1 {
		return nil
	}
	return []edgeplan.Intercept{
		{Dir: basics.Toggle, X: r.X0},
		{Dir: basics.Toggle, X: r.X1},
	}
}
