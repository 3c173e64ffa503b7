// Package geomx adapts seehuhn.de/go/geom's matrix/vec types to this
// module's edge and drawing-state transform needs, so the rest of the
// tree can work with plain basics.Rect/float64 pairs and only this
// package touches the external representation.
package geomx

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"github.com/agg-go/scanraster/internal/basics"
)

// Matrix is seehuhn.de/go/geom's 2D affine matrix [a b c d e f]
// (x' = a*x + c*y + e, y' = b*x + d*y + f), used for the
// current-transform stack and for baking a shape's CTM into its edges.
// Composition and application are done here by component so the rest of
// the tree never depends on the matrix type's method set.
type Matrix = matrix.Matrix

// Identity is the identity transform.
var Identity = matrix.Identity

// Translate, Scale and Rotate build primitive transforms matching the
// drawing DSL's transform-stack operations.
func Translate(dx, dy float64) Matrix { return Matrix{1, 0, 0, 1, dx, dy} }
func Scale(sx, sy float64) Matrix     { return Matrix{sx, 0, 0, sy, 0, 0} }

func Rotate(radians float64) Matrix {
	s, c := math.Sincos(radians)
	return Matrix{c, s, -s, c, 0, 0}
}

// Compose returns the transform that applies b first, then a:
// Compose(a, b).Apply(p) == a.Apply(b.Apply(p)).
func Compose(a, b Matrix) Matrix {
	return Matrix{
		a[0]*b[0] + a[2]*b[1],
		a[1]*b[0] + a[3]*b[1],
		a[0]*b[2] + a[2]*b[3],
		a[1]*b[2] + a[3]*b[3],
		a[0]*b[4] + a[2]*b[5] + a[4],
		a[1]*b[4] + a[3]*b[5] + a[5],
	}
}

// Apply transforms a point through m.
func Apply(m Matrix, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyVec transforms a geom vec.Vec2 point through m.
func ApplyVec(m Matrix, v vec.Vec2) vec.Vec2 {
	x, y := Apply(m, v.X, v.Y)
	return vec.Vec2{X: x, Y: y}
}

// V is shorthand for constructing a vec.Vec2 from two float64s.
func V(x, y float64) vec.Vec2 { return vec.Vec2{X: x, Y: y} }

// RectFromPoints builds a basics.Rect from two geom points, normalized.
func RectFromPoints(a, b vec.Vec2) basics.Rect {
	r := basics.Rect{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y}
	return r.Normalize()
}
