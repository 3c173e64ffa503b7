package edge

import (
	"math"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/edgeplan"
)

// cubicSeg is one cubic bezier whose Y component is monotonic over
// t in [0,1].
type cubicSeg struct {
	p0, p1, p2, p3 [2]float64
	yLo, yHi       float64
	increasing     bool // true if Y(1) >= Y(0)
}

// BezierSubpath is a closed path built from one or more cubic bezier
// segments, reporting toggle or in/out intercepts depending on the fill
// rule.
type BezierSubpath struct {
	shape edgeplan.ShapeId
	rule  basics.FillRule
	segs  []cubicSeg
	bbox  basics.Rect
}

// NewBezierSubpath builds a subpath edge from a sequence of absolute
// cubic segments (each [4][2]float64 = p0,p1,p2,p3), already closed:
// the caller is responsible for appending a closing segment back to the
// start point.
func NewBezierSubpath(shape edgeplan.ShapeId, rule basics.FillRule, cubics [][4][2]float64) *BezierSubpath {
	bp := &BezierSubpath{shape: shape, rule: rule}
	for _, c := range cubics {
		bp.segs = append(bp.segs, splitMonotonicY(c[0], c[1], c[2], c[3])...)
	}
	bp.bbox = computeBBox(bp.segs)
	return bp
}

func computeBBox(segs []cubicSeg) basics.Rect {
	if len(segs) == 0 {
		return basics.Rect{}
	}
	xMin, xMax := math.Inf(1), math.Inf(-1)
	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, s := range segs {
		for _, p := range [...][2]float64{s.p0, s.p1, s.p2, s.p3} {
			if p[0] < xMin {
				xMin = p[0]
			}
			if p[0] > xMax {
				xMax = p[0]
			}
			if p[1] < yMin {
				yMin = p[1]
			}
			if p[1] > yMax {
				yMax = p[1]
			}
		}
	}
	return basics.Rect{X1: xMin, Y1: yMin, X2: xMax, Y2: yMax}
}

func (bp *BezierSubpath) Shape() edgeplan.ShapeId  { return bp.shape }
func (bp *BezierSubpath) BoundingBox() basics.Rect { return bp.bbox }

// Intercepts solves Y(t) = y on every monotonic segment whose y-range
// contains y, via bisection: globally convergent since each segment's Y
// is monotonic by construction, without the numerical fragility of a
// closed-form cubic solver near repeated roots.
func (bp *BezierSubpath) Intercepts(y float64) []edgeplan.Intercept {
	var out []edgeplan.Intercept
	for _, s := range bp.segs {
		if y < s.yLo || y >= s.yHi {
			continue
		}
		t := solveMonotonicY(s, y)
		x, dydt := evalCubicAndDerivY(s, t)
		if bp.rule == basics.FillEvenOdd {
			out = append(out, edgeplan.Intercept{Dir: basics.Toggle, X: x})
		} else {
			dir := basics.In
			if dydt < 0 {
				dir = basics.Out
			}
			out = append(out, edgeplan.Intercept{Dir: dir, X: x})
		}
	}
	return out
}

func evalCubic(p0, p1, p2, p3 [2]float64, t float64) [2]float64 {
	omt := 1 - t
	omt2 := omt * omt
	omt3 := omt2 * omt
	t2 := t * t
	t3 := t2 * t
	x := omt3*p0[0] + 3*omt2*t*p1[0] + 3*omt*t2*p2[0] + t3*p3[0]
	y := omt3*p0[1] + 3*omt2*t*p1[1] + 3*omt*t2*p2[1] + t3*p3[1]
	return [2]float64{x, y}
}

func evalCubicAndDerivY(s cubicSeg, t float64) (x, dydt float64) {
	p := evalCubic(s.p0, s.p1, s.p2, s.p3, t)
	a := s.p1[1] - s.p0[1]
	b := s.p2[1] - s.p1[1]
	c := s.p3[1] - s.p2[1]
	dydt = 3*a*(1-t)*(1-t) + 6*b*(1-t)*t + 3*c*t*t
	return p[0], dydt
}

// solveMonotonicY bisects t in [0,1] for Y(t) = y.
func solveMonotonicY(s cubicSeg, y float64) float64 {
	lo, hi := 0.0, 1.0
	yLo := evalCubic(s.p0, s.p1, s.p2, s.p3, 0)[1]
	for i := 0; i < 40; i++ {
		mid := (lo + hi) / 2
		ym := evalCubic(s.p0, s.p1, s.p2, s.p3, mid)[1]
		if (ym < y) == (yLo < evalCubic(s.p0, s.p1, s.p2, s.p3, 1)[1]) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// splitMonotonicY splits a cubic into pieces whose Y component doesn't
// change derivative sign, by solving the quadratic dY/dt = 0.
func splitMonotonicY(p0, p1, p2, p3 [2]float64) []cubicSeg {
	a := p1[1] - p0[1]
	b := p2[1] - p1[1]
	c := p3[1] - p2[1]
	A := 3 * (a - 2*b + c)
	B := 6 * (b - a)
	C := 3 * a

	var splits []float64
	const eps = 1e-12
	if math.Abs(A) < eps {
		if math.Abs(B) > eps {
			t := -C / B
			if t > eps && t < 1-eps {
				splits = append(splits, t)
			}
		}
	} else {
		disc := B*B - 4*A*C
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, t := range []float64{(-B + sq) / (2 * A), (-B - sq) / (2 * A)} {
				if t > eps && t < 1-eps {
					splits = append(splits, t)
				}
			}
		}
	}
	if len(splits) == 2 && splits[0] > splits[1] {
		splits[0], splits[1] = splits[1], splits[0]
	}

	bounds := append([]float64{0}, splits...)
	bounds = append(bounds, 1)

	var segs []cubicSeg
	for i := 0; i < len(bounds)-1; i++ {
		t0, t1 := bounds[i], bounds[i+1]
		if t1-t0 < eps {
			continue
		}
		sub0, sub1, sub2, sub3 := subdivideCubic(p0, p1, p2, p3, t0, t1)
		y0 := sub0[1]
		y1 := sub3[1]
		seg := cubicSeg{p0: sub0, p1: sub1, p2: sub2, p3: sub3}
		if y1 >= y0 {
			seg.yLo, seg.yHi, seg.increasing = y0, y1, true
		} else {
			seg.yLo, seg.yHi, seg.increasing = y1, y0, false
		}
		if seg.yHi > seg.yLo { // degenerate (flat) segments contribute no crossings
			segs = append(segs, seg)
		}
	}
	return segs
}

// subdivideCubic extracts the sub-curve over [t0,t1] using two De
// Casteljau splits, returning its own control points.
func subdivideCubic(p0, p1, p2, p3 [2]float64, t0, t1 float64) (q0, q1, q2, q3 [2]float64) {
	_, _, _, _, b0, b1, b2, b3 := splitAt(p0, p1, p2, p3, t0)
	right0, right1, right2, right3 := b0, b1, b2, b3
	relT := (t1 - t0) / (1 - t0)
	if t0 >= 1-1e-12 {
		relT = 1
	}
	l0, l1, l2, l3, _, _, _, _ := splitAt(right0, right1, right2, right3, relT)
	return l0, l1, l2, l3
}

// splitAt performs one De Casteljau split at parameter t, returning both
// halves' control points: [0,t] as (a0..a3) and [t,1] as (b0..b3).
func splitAt(p0, p1, p2, p3 [2]float64, t float64) (a0, a1, a2, a3, b0, b1, b2, b3 [2]float64) {
	lerp := func(u, v [2]float64) [2]float64 {
		return [2]float64{u[0] + (v[0]-u[0])*t, u[1] + (v[1]-u[1])*t}
	}
	p01 := lerp(p0, p1)
	p12 := lerp(p1, p2)
	p23 := lerp(p2, p3)
	p012 := lerp(p01, p12)
	p123 := lerp(p12, p23)
	p0123 := lerp(p012, p123)
	return p0, p01, p012, p0123, p0123, p123, p23, p3
}
