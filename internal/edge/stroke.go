package edge

import (
	"math"

	"github.com/agg-go/scanraster/internal/basics"
)

// vec2 is a tiny local point type; the stroker works purely in plain
// [2]float64 pairs like the rest of this package's bezier machinery.
type vec2 = [2]float64

func sub(a, b vec2) vec2  { return vec2{a[0] - b[0], a[1] - b[1]} }
func add(a, b vec2) vec2  { return vec2{a[0] + b[0], a[1] + b[1]} }
func scale(a vec2, s float64) vec2 { return vec2{a[0] * s, a[1] * s} }
func length(a vec2) float64 { return math.Hypot(a[0], a[1]) }
func normalize(a vec2) vec2 {
	l := length(a)
	if l < basics.VertexDistEpsilon {
		return vec2{0, 0}
	}
	return vec2{a[0] / l, a[1] / l}
}
func normal(dir vec2) vec2 { return vec2{-dir[1], dir[0]} }

// StrokeOutline materializes a closed outline polygon around a polyline,
// returned as straight-line "cubics" (degenerate control points) so it
// can feed directly into NewBezierSubpath with FillNonZero: a stroke is
// rendered as the fill of its outline.
//
// The stroker builds the outline directly as offset polygons (left and
// right rings plus join/cap geometry): offset-by-normal with
// miter/round/bevel joins and butt/round/square caps, materialized in
// one pass since the outline is handed to the edge plan whole rather
// than streamed vertex by vertex.
func StrokeOutline(points []vec2, closed bool, width float64, cap basics.LineCap, join basics.LineJoin, miterLimit float64, accuracy float64) [][4][2]float64 {
	points = dedupe(points)
	if len(points) < 2 {
		return nil
	}
	if miterLimit < 1 {
		miterLimit = 4
	}
	if accuracy <= 0 {
		accuracy = basics.DefaultStrokeAccuracy
	}
	hw := width / 2

	segCount := len(points) - 1
	if closed {
		segCount = len(points)
	}
	dirs := make([]vec2, segCount)
	for i := 0; i < segCount; i++ {
		a := points[i]
		b := points[(i+1)%len(points)]
		dirs[i] = normalize(sub(b, a))
	}

	var left, right []vec2
	emitJoin := func(center vec2, dPrev, dNext vec2) {
		nPrev := normal(dPrev)
		nNext := normal(dNext)
		lp := add(center, scale(nPrev, hw))
		ln := add(center, scale(nNext, hw))
		rp := sub(center, scale(nPrev, hw))
		rn := sub(center, scale(nNext, hw))

		cross := dPrev[0]*dNext[1] - dPrev[1]*dNext[0]
		switch join {
		case basics.JoinRound:
			left = append(left, lp)
			left = append(left, arcPoints(center, lp, ln, hw, cross < 0, accuracy)...)
			left = append(left, ln)
			right = append(right, rp)
			right = append(right, arcPoints(center, rp, rn, hw, cross > 0, accuracy)...)
			right = append(right, rn)
		case basics.JoinMiter:
			if m, ok := miterPoint(lp, dPrev, ln, dNext, hw, miterLimit); ok {
				left = append(left, lp, m, ln)
			} else {
				left = append(left, lp, ln)
			}
			if m, ok := miterPoint(rp, dPrev, rn, dNext, hw, miterLimit); ok {
				right = append(right, rp, m, rn)
			} else {
				right = append(right, rp, rn)
			}
		default: // bevel
			left = append(left, lp, ln)
			right = append(right, rp, rn)
		}
	}

	if !closed {
		// Leading cap.
		n0 := normal(dirs[0])
		p0 := points[0]
		left = append(left, add(p0, scale(n0, hw)))
		right = append(right, sub(p0, scale(n0, hw)))

		for i := 1; i < len(points)-1; i++ {
			emitJoin(points[i], dirs[i-1], dirs[i])
		}

		nEnd := normal(dirs[len(dirs)-1])
		pEnd := points[len(points)-1]
		leftEnd := add(pEnd, scale(nEnd, hw))
		rightEnd := sub(pEnd, scale(nEnd, hw))
		left = append(left, leftEnd)
		right = append(right, rightEnd)

		// Build the single closed outline: left ring forward, cap, right
		// ring backward, cap.
		var ring []vec2
		ring = append(ring, left...)
		ring = append(ring, capPoints(pEnd, dirs[len(dirs)-1], leftEnd, rightEnd, hw, cap)...)
		for i := len(right) - 1; i >= 0; i-- {
			ring = append(ring, right[i])
		}
		ring = append(ring, capPoints(p0, scale(dirs[0], -1), rightEnd0(right), left[0], hw, cap)...)
		return polygonToCubics(ring)
	}

	// Closed path: two independent closed rings, fed with FillNonZero so
	// they compose into an annulus.
	for i := 0; i < len(points); i++ {
		prev := dirs[(i-1+segCount)%segCount]
		next := dirs[i%segCount]
		emitJoin(points[i], prev, next)
	}
	var out [][4][2]float64
	out = append(out, polygonToCubics(left)...)
	// Right ring must wind opposite to left for nonzero winding to treat
	// it as a hole cut into the same shape's interior.
	reversed := make([]vec2, len(right))
	for i, p := range right {
		reversed[len(right)-1-i] = p
	}
	out = append(out, polygonToCubics(reversed)...)
	return out
}

// DashPolyline splits a polyline into the "on" runs of an alternating
// on/off dash pattern, tracking dash phase in source-unit arc length
// along the line. phase offsets the start of the pattern; a closed
// polyline is unrolled (last point joined back to the first) and dashed
// as one open run, so each returned piece strokes with caps rather than
// joins at its ends. An empty or degenerate pattern returns the input
// unchanged.
func DashPolyline(points []vec2, closed bool, pattern []float64, phase float64) [][]vec2 {
	points = dedupe(points)
	total := 0.0
	for _, p := range pattern {
		if p > 0 {
			total += p
		}
	}
	if len(points) < 2 || len(pattern) == 0 || total <= 0 {
		if len(points) < 2 {
			return nil
		}
		return [][]vec2{points}
	}
	if closed {
		points = append(append([]vec2{}, points...), points[0])
	}

	// Normalize phase into the pattern and find the starting segment.
	phase = math.Mod(phase, total)
	if phase < 0 {
		phase += total
	}
	patIdx := 0
	remain := pattern[patIdx]
	for phase > 0 {
		if pattern[patIdx] <= 0 {
			patIdx = (patIdx + 1) % len(pattern)
			remain = pattern[patIdx]
			continue
		}
		if phase < remain {
			remain -= phase
			break
		}
		phase -= remain
		patIdx = (patIdx + 1) % len(pattern)
		remain = pattern[patIdx]
	}
	on := patIdx%2 == 0

	var out [][]vec2
	var cur []vec2
	if on {
		cur = append(cur, points[0])
	}
	advance := func() {
		if on && len(cur) >= 2 {
			out = append(out, cur)
		}
		cur = nil
		patIdx = (patIdx + 1) % len(pattern)
		remain = pattern[patIdx]
		on = !on
	}

	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		segLen := length(sub(b, a))
		pos := 0.0
		for segLen-pos > remain {
			pos += remain
			t := pos / segLen
			pt := add(a, scale(sub(b, a), t))
			if on {
				cur = append(cur, pt)
			}
			advance()
			if remain <= 0 {
				remain = 1e-9
			}
			if on {
				cur = append(cur, pt)
			}
		}
		remain -= segLen - pos
		if on {
			cur = append(cur, b)
		}
	}
	if on && len(cur) >= 2 {
		out = append(out, cur)
	}
	return out
}

func rightEnd0(right []vec2) vec2 {
	if len(right) == 0 {
		return vec2{}
	}
	return right[0]
}

func dedupe(points []vec2) []vec2 {
	if len(points) == 0 {
		return points
	}
	out := points[:1]
	for _, p := range points[1:] {
		if length(sub(p, out[len(out)-1])) > basics.VertexDistEpsilon {
			out = append(out, p)
		}
	}
	return out
}

// miterPoint intersects the two offset lines (through lp along dPrev, and
// through ln along dNext), falling back to "no miter" (bevel) when the
// miter length would exceed miterLimit*halfWidth.
func miterPoint(lp, dPrev, ln, dNext vec2, hw, miterLimit float64) (vec2, bool) {
	// Solve lp + t*dPrev = ln + s*dNext.
	denom := dPrev[0]*dNext[1] - dPrev[1]*dNext[0]
	if math.Abs(denom) < 1e-9 {
		return vec2{}, false
	}
	dx := ln[0] - lp[0]
	dy := ln[1] - lp[1]
	t := (dx*dNext[1] - dy*dNext[0]) / denom
	m := add(lp, scale(dPrev, t))
	miterLen := length(sub(m, scale(add(lp, ln), 0.5))) * 2
	if miterLen > miterLimit*hw {
		return vec2{}, false
	}
	return m, true
}

// arcPoints approximates a circular arc from a to b around center with
// radius hw, subdividing finely enough to stay within accuracy of the
// true circle. A stroker's round join only needs a polygon
// approximation, not a bezier arc.
func arcPoints(center, a, b vec2, r float64, _ bool, accuracy float64) []vec2 {
	da := math.Atan2(a[1]-center[1], a[0]-center[0])
	db := math.Atan2(b[1]-center[1], b[0]-center[0])
	delta := db - da
	for delta > math.Pi {
		delta -= 2 * math.Pi
	}
	for delta < -math.Pi {
		delta += 2 * math.Pi
	}
	if r <= 0 {
		return nil
	}
	steps := int(math.Ceil(math.Abs(delta) / (2 * math.Acos(1-accuracy/r))))
	if steps < 1 {
		steps = 1
	}
	if steps > 64 {
		steps = 64
	}
	var pts []vec2
	for i := 1; i < steps; i++ {
		t := da + delta*float64(i)/float64(steps)
		pts = append(pts, vec2{center[0] + r*math.Cos(t), center[1] + r*math.Sin(t)})
	}
	return pts
}

// capPoints generates the geometry closing off an open stroke end.
func capPoints(p vec2, dir vec2, left, right vec2, hw float64, cap basics.LineCap) []vec2 {
	switch cap {
	case basics.CapSquare:
		ext := scale(dir, hw)
		return []vec2{add(left, ext), add(right, ext)}
	case basics.CapRound:
		// Semicircle from left to right, bulging outward along dir. It is
		// built as two quarter arcs through the tip so the side the arc
		// takes does not depend on arcPoints' shortest-arc choice.
		tip := add(p, scale(dir, hw))
		pts := arcPoints(p, left, tip, hw, true, 0.05*hw+1e-6)
		pts = append(pts, tip)
		return append(pts, arcPoints(p, tip, right, hw, true, 0.05*hw+1e-6)...)
	default: // butt
		return nil
	}
}

// polygonToCubics turns a closed polygon (implicit closing edge from last
// point back to first) into straight-line "cubic" segments.
func polygonToCubics(pts []vec2) [][4][2]float64 {
	pts = dedupe(pts)
	if len(pts) < 3 {
		return nil
	}
	var out [][4][2]float64
	n := len(pts)
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		p1 := [2]float64{a[0] + (b[0]-a[0])/3, a[1] + (b[1]-a[1])/3}
		p2 := [2]float64{a[0] + 2*(b[0]-a[0])/3, a[1] + 2*(b[1]-a[1])/3}
		out = append(out, [4][2]float64{a, p1, p2, b})
	}
	return out
}
