package canvas

import (
	"math"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/geomx"
)

// BrushKind discriminates the finite set of fill/stroke paints a
// DrawingState can carry.
type BrushKind int

const (
	BrushSolid BrushKind = iota
	BrushTexture
	BrushGradient
)

// TextureSample mirrors pixelprogram.TextureSample so this package
// doesn't need to import it just for an enum value in Brush.
type TextureSample int

const (
	SampleNearest TextureSample = iota
	SampleBilinear
	SampleMipMap
)

// Brush is a closed description of a fill/stroke paint, resolved to a
// program.DataId only when a Fill/Stroke command actually materializes
// it.
type Brush struct {
	Kind BrushKind

	Color Color // BrushSolid

	Texture   TextureId     // BrushTexture
	Sample    TextureSample // BrushTexture
	Transform geomx.Matrix  // BrushTexture/BrushGradient: pattern-space placement

	Gradient GradientId // BrushGradient
	Alpha    float64    // BrushGradient: overall alpha multiplier; BrushTexture: fill-transparency
}

// Color is the external sRGB-like color used by drawing commands, kept
// distinct from internal/color.Color only to avoid a package-name
// collision at call sites that also import internal/color.
type Color struct{ R, G, B, A float64 }

// SolidBrush builds a flat-color brush.
func SolidBrush(c Color) Brush { return Brush{Kind: BrushSolid, Color: c} }

// pathSegKind distinguishes a straight segment from a cubic curve within
// a subpath.
type pathSegKind int

const (
	segLine pathSegKind = iota
	segCubic
)

type pathSeg struct {
	kind   pathSegKind
	c1, c2 [2]float64 // control points, segCubic only
	to     [2]float64
}

// subpath is one contour of the current path: an explicit start point
// plus a sequence of line/cubic segments, closed or open.
type subpath struct {
	start  [2]float64
	segs   []pathSeg
	closed bool
}

func (s *subpath) currentPoint() [2]float64 {
	if len(s.segs) == 0 {
		return s.start
	}
	return s.segs[len(s.segs)-1].to
}

// DrawingState is the mutable drawing context a Fill/Stroke/PushState
// command reads and PushState/PopState save and restore.
type DrawingState struct {
	CTM        geomx.Matrix // local -> layer source space
	CTMInverse geomx.Matrix // layer source space -> local, maintained alongside CTM

	FillBrush   Brush
	StrokeBrush Brush

	path []subpath

	DashPattern []float64
	DashPhase   float64
	LineWidth   float64
	Cap         basics.LineCap
	Join        basics.LineJoin
	MiterLimit  float64

	// BlendMode is the compositing operator fills and strokes resolve
	// their brushes under; SourceOver is the default.
	BlendMode color.BlendOp

	// Clip, when non-nil, restricts fills and strokes to an axis-aligned
	// region in layer source space. The pointed-to rect is never mutated;
	// SetClipRect installs a fresh one.
	Clip *basics.Rect

	Namespace NamespaceId
	Layer     LayerId
}

// newDrawingState returns the default state: identity transform, opaque
// black fill and stroke, 1-unit line width, butt caps, miter joins.
func newDrawingState(ns NamespaceId, layer LayerId) DrawingState {
	return DrawingState{
		CTM:         geomx.Identity,
		CTMInverse:  geomx.Identity,
		FillBrush:   SolidBrush(Color{A: 1}),
		StrokeBrush: SolidBrush(Color{A: 1}),
		LineWidth:   1,
		Cap:         basics.CapButt,
		Join:        basics.JoinMiter,
		MiterLimit:  4,
		BlendMode:   color.SourceOver,
		Namespace:   ns,
		Layer:       layer,
	}
}

// clone deep-copies the path slice so PushState/PopState don't alias a
// mutable path between stack frames.
func (s DrawingState) clone() DrawingState {
	cp := s
	cp.path = append([]subpath(nil), s.path...)
	for i, sp := range cp.path {
		cp.path[i].segs = append([]pathSeg(nil), sp.segs...)
	}
	return cp
}

// Translate, Scale and Rotate prepend a primitive transform to the CTM
// (new_local -> old_local -> layer space) and maintain CTMInverse in
// lockstep by composing the primitive's inverse on the other side,
// avoiding any need for a general matrix inversion.
func (s *DrawingState) Translate(dx, dy float64) {
	s.CTM = geomx.Compose(s.CTM, geomx.Translate(dx, dy))
	s.CTMInverse = geomx.Compose(geomx.Translate(-dx, -dy), s.CTMInverse)
}

func (s *DrawingState) Scale(sx, sy float64) {
	s.CTM = geomx.Compose(s.CTM, geomx.Scale(sx, sy))
	inv := func(v float64) float64 {
		if v == 0 {
			return 0
		}
		return 1 / v
	}
	s.CTMInverse = geomx.Compose(geomx.Scale(inv(sx), inv(sy)), s.CTMInverse)
}

func (s *DrawingState) Rotate(radians float64) {
	s.CTM = geomx.Compose(s.CTM, geomx.Rotate(radians))
	s.CTMInverse = geomx.Compose(geomx.Rotate(-radians), s.CTMInverse)
}

// transformPoint maps a path-space point through the current CTM into
// layer source space; paths are baked at Fill/Stroke time.
func (s *DrawingState) transformPoint(p [2]float64) [2]float64 {
	x, y := geomx.Apply(s.CTM, p[0], p[1])
	return [2]float64{x, y}
}

// MoveTo starts a new subpath at p (path-space, pre-CTM).
func (s *DrawingState) MoveTo(x, y float64) {
	s.path = append(s.path, subpath{start: [2]float64{x, y}})
}

// LineTo appends a straight segment to the current subpath, starting one
// implicitly at the origin if no MoveTo preceded it.
func (s *DrawingState) LineTo(x, y float64) {
	s.ensureSubpath()
	cur := &s.path[len(s.path)-1]
	cur.segs = append(cur.segs, pathSeg{kind: segLine, to: [2]float64{x, y}})
}

// BezierTo appends a cubic segment with the given control points.
func (s *DrawingState) BezierTo(c1x, c1y, c2x, c2y, x, y float64) {
	s.ensureSubpath()
	cur := &s.path[len(s.path)-1]
	cur.segs = append(cur.segs, pathSeg{kind: segCubic, c1: [2]float64{c1x, c1y}, c2: [2]float64{c2x, c2y}, to: [2]float64{x, y}})
}

// ClosePath marks the current subpath closed.
func (s *DrawingState) ClosePath() {
	if len(s.path) == 0 {
		return
	}
	s.path[len(s.path)-1].closed = true
}

func (s *DrawingState) ensureSubpath() {
	if len(s.path) == 0 {
		s.path = append(s.path, subpath{start: [2]float64{0, 0}})
	}
}

// ClearPath discards the accumulated path (called after Fill/Stroke,
// matching the common canvas-API convention that a paint operation
// consumes the current path).
func (s *DrawingState) ClearPath() {
	s.path = nil
}

// toCubics bakes every subpath's segments through the CTM into absolute
// cubic control quads, auto-closing each subpath back to its start (a
// fill's winding/even-odd test needs closed contours), matching the
// cubics-only shape edge.NewBezierSubpath expects.
func (s *DrawingState) toCubics() [][4][2]float64 {
	var out [][4][2]float64
	for _, sp := range s.path {
		cur := s.transformPoint(sp.start)
		start := cur
		for _, seg := range sp.segs {
			to := s.transformPoint(seg.to)
			switch seg.kind {
			case segCubic:
				c1 := s.transformPoint(seg.c1)
				c2 := s.transformPoint(seg.c2)
				out = append(out, [4][2]float64{cur, c1, c2, to})
			default:
				out = append(out, lineToCubic(cur, to))
			}
			cur = to
		}
		if cur != start {
			out = append(out, lineToCubic(cur, start))
		}
	}
	return out
}

// toPolylines flattens every subpath into a polyline in layer space for
// stroking; edge.StrokeOutline operates on plain points.
func (s *DrawingState) toPolylines(accuracy float64) ([][][2]float64, []bool) {
	var polys [][][2]float64
	var closed []bool
	for _, sp := range s.path {
		pts := []([2]float64){s.transformPoint(sp.start)}
		cur := sp.start
		for _, seg := range sp.segs {
			switch seg.kind {
			case segCubic:
				pts = append(pts, flattenCubic(s, cur, seg.c1, seg.c2, seg.to, accuracy)...)
			default:
				pts = append(pts, s.transformPoint(seg.to))
			}
			cur = seg.to
		}
		polys = append(polys, pts)
		closed = append(closed, sp.closed)
	}
	return polys, closed
}

func lineToCubic(a, b [2]float64) [4][2]float64 {
	c1 := [2]float64{a[0] + (b[0]-a[0])/3, a[1] + (b[1]-a[1])/3}
	c2 := [2]float64{a[0] + 2*(b[0]-a[0])/3, a[1] + 2*(b[1]-a[1])/3}
	return [4][2]float64{a, c1, c2, b}
}

// flattenCubic recursively subdivides a path-space cubic (transformed
// through the CTM at each sampled point) until flatEnough reports its
// control points within accuracy of the chord, returning the transformed points
// along the curve excluding the start.
func flattenCubic(s *DrawingState, p0, p1, p2, p3 [2]float64, accuracy float64) [][2]float64 {
	var out [][2]float64
	var recurse func(p0, p1, p2, p3 [2]float64, depth int)
	recurse = func(p0, p1, p2, p3 [2]float64, depth int) {
		if depth > 24 || flatEnough(p0, p1, p2, p3, accuracy) {
			out = append(out, s.transformPoint(p3))
			return
		}
		p01 := mid(p0, p1)
		p12 := mid(p1, p2)
		p23 := mid(p2, p3)
		p012 := mid(p01, p12)
		p123 := mid(p12, p23)
		p0123 := mid(p012, p123)
		recurse(p0, p01, p012, p0123, depth+1)
		recurse(p0123, p123, p23, p3, depth+1)
	}
	recurse(p0, p1, p2, p3, 0)
	return out
}

func mid(a, b [2]float64) [2]float64 {
	return [2]float64{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
}

// flatEnough tests whether control points p1,p2 deviate from the chord
// p0-p3 by less than accuracy, the standard de Casteljau flatness test.
func flatEnough(p0, p1, p2, p3 [2]float64, accuracy float64) bool {
	dx := p3[0] - p0[0]
	dy := p3[1] - p0[1]
	d1 := math.Abs((p1[0]-p3[0])*dy-(p1[1]-p3[1])*dx)
	d2 := math.Abs((p2[0]-p3[0])*dy-(p2[1]-p3[1])*dx)
	chord2 := dx*dx + dy*dy
	if chord2 < basics.VertexDistEpsilon {
		return true
	}
	return (d1+d2)*(d1+d2) < accuracy*accuracy*chord2
}
