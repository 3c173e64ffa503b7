// Package scanplan converts an edge plan's per-row intercepts into
// ordered, non-overlapping pixel spans ready for pixel-program dispatch,
// in both a pixel-aligned ("jaggy") variant and a sub-pixel ("shard")
// anti-aliased variant.
package scanplan

import (
	"math"
	"sort"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/edgeplan"
	"github.com/agg-go/scanraster/internal/program"
)

// StackEntry is one program in a ScanSpanStack, bottom-first order.
// Coverage is the fractional pixel-column coverage this entry's shape
// contributes; 1.0 for the pixel-aligned planner and for shard columns
// that are fully inside a shape.
type StackEntry struct {
	Program  program.DataId
	Opaque   bool
	Coverage float64
}

// ScanSpanStack is every program stacked in z-order over one pixel
// range.
type ScanSpanStack struct {
	X0, X1  int
	Entries []StackEntry
}

// ScanlinePlan is the full ordered, disjoint sequence of stacks for one
// output row.
type ScanlinePlan struct {
	Y      float64
	Stacks []ScanSpanStack
}

// shapeIntervals walks an edge plan's merged intercepts at row y and
// extracts each shape's own inside-intervals independently, tracking a
// per-shape toggle parity or non-zero winding count. Used by the shard
// planner; PlanPixelAligned keeps the same per-shape counts inline.
func shapeIntervals(plan *edgeplan.EdgePlan, y float64) map[edgeplan.ShapeId][][2]float64 {
	intercepts := plan.InterceptsOnScanline(y)
	counts := make(map[edgeplan.ShapeId]int)
	starts := make(map[edgeplan.ShapeId]float64)
	result := make(map[edgeplan.ShapeId][][2]float64)
	for _, ic := range intercepts {
		wasInside := counts[ic.Shape] != 0
		switch ic.Dir {
		case basics.Toggle:
			counts[ic.Shape] = 1 - counts[ic.Shape]
		case basics.In:
			counts[ic.Shape]++
		case basics.Out:
			counts[ic.Shape]--
		}
		nowInside := counts[ic.Shape] != 0
		if !wasInside && nowInside {
			starts[ic.Shape] = ic.X
		} else if wasInside && !nowInside {
			result[ic.Shape] = append(result[ic.Shape], [2]float64{starts[ic.Shape], ic.X})
		}
	}
	return result
}

// buildStack assembles one ScanSpanStack by walking active shapes from
// highest z to lowest, appending each one's program list and stopping
// after the first opaque shape, then reversing so the result is
// bottom-first.
func buildStack(plan *edgeplan.EdgePlan, shapes []edgeplan.ShapeId, coverage map[edgeplan.ShapeId]float64, x0, x1 int) ScanSpanStack {
	sort.Slice(shapes, func(i, j int) bool { return plan.ZIndexLess(shapes[j], shapes[i]) })
	var entries []StackEntry
	for i, id := range shapes {
		desc, ok := plan.Shape(id)
		if !ok {
			continue
		}
		cov := coverage[id]
		opaqueFull := desc.IsOpaque && cov >= 0.999999
		for _, p := range desc.Programs {
			c := 1.0
			if i == 0 {
				c = cov
			}
			entries = append(entries, StackEntry{Program: p, Opaque: opaqueFull, Coverage: c})
		}
		if opaqueFull {
			break
		}
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return ScanSpanStack{X0: x0, X1: x1, Entries: entries}
}

// PlanPixelAligned implements the pixel-aligned planner:
// intercepts round up to the next pixel boundary, and each resulting
// span takes the z-ordered program stack of whatever shapes were active
// to its left.
func PlanPixelAligned(plan *edgeplan.EdgePlan, xt program.XTransform, xRange basics.IntRange, y float64) ScanlinePlan {
	intercepts := plan.InterceptsOnScanline(y)
	sort.SliceStable(intercepts, func(i, j int) bool {
		if intercepts[i].X != intercepts[j].X {
			return intercepts[i].X < intercepts[j].X
		}
		return plan.ZIndexLess(intercepts[j].Shape, intercepts[i].Shape)
	})

	active := make(map[edgeplan.ShapeId]int)
	result := ScanlinePlan{Y: y}
	prevPixel := xRange.X1

	flush := func(toPixel int) {
		if toPixel <= prevPixel {
			prevPixel = toPixel
			return
		}
		x0, x1 := prevPixel, toPixel
		if x0 < xRange.X1 {
			x0 = xRange.X1
		}
		if x1 > xRange.X2 {
			x1 = xRange.X2
		}
		prevPixel = toPixel
		if x1 <= x0 {
			return
		}
		var shapes []edgeplan.ShapeId
		coverage := make(map[edgeplan.ShapeId]float64)
		for id, c := range active {
			if c != 0 {
				shapes = append(shapes, id)
				coverage[id] = 1.0
			}
		}
		if len(shapes) == 0 {
			return
		}
		stack := buildStack(plan, shapes, coverage, x0, x1)
		if len(stack.Entries) > 0 {
			result.Stacks = append(result.Stacks, stack)
		}
	}

	for _, ic := range intercepts {
		px := int(math.Ceil(xt.SourceXToPixelX(ic.X)))
		flush(px)
		switch ic.Dir {
		case basics.Toggle:
			active[ic.Shape] = 1 - active[ic.Shape]
		case basics.In:
			active[ic.Shape]++
		case basics.Out:
			active[ic.Shape]--
		}
	}
	flush(xRange.X2)
	return result
}

// shardSamples is the number of intermediate heights the shard planner
// integrates over between y_lo and y_hi to approximate each pixel
// column's trapezoidal coverage. The same sub-sampling is applied
// uniformly rather than special-casing the common single-edge-crossing
// trapezoid.
const shardSamples = 4

func interpolateIntervals(loIv, hiIv [][2]float64, t float64) [][2]float64 {
	n := len(loIv)
	if len(hiIv) < n {
		n = len(hiIv)
	}
	out := make([][2]float64, 0, n)
	for i := 0; i < n; i++ {
		a, b := loIv[i], hiIv[i]
		out = append(out, [2]float64{
			a[0] + (b[0]-a[0])*t,
			a[1] + (b[1]-a[1])*t,
		})
	}
	return out
}

func addIntervalCoverage(coverage []float64, x0, x1 float64, xRange basics.IntRange, weight float64) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	startPx := int(math.Floor(x0))
	endPx := int(math.Ceil(x1))
	if startPx < xRange.X1 {
		startPx = xRange.X1
	}
	if endPx > xRange.X2 {
		endPx = xRange.X2
	}
	for px := startPx; px < endPx; px++ {
		lo := math.Max(x0, float64(px))
		hi := math.Min(x1, float64(px+1))
		if hi > lo {
			coverage[px-xRange.X1] += weight * (hi - lo)
		}
	}
}

// columnCoverage computes, per pixel column in xRange, the fractional
// area of shape covered between the two scanlines by averaging
// shardSamples intermediate interpolated rows.
func columnCoverage(loIv, hiIv [][2]float64, xt program.XTransform, xRange basics.IntRange) []float64 {
	n := xRange.Len()
	coverage := make([]float64, n)
	weight := 1.0 / float64(shardSamples)
	for s := 0; s < shardSamples; s++ {
		t := (float64(s) + 0.5) / float64(shardSamples)
		for _, iv := range interpolateIntervals(loIv, hiIv, t) {
			p0 := xt.SourceXToPixelX(iv[0])
			p1 := xt.SourceXToPixelX(iv[1])
			addIntervalCoverage(coverage, p0, p1, xRange, weight)
		}
	}
	for i, c := range coverage {
		if c > 1 {
			coverage[i] = 1
		}
	}
	return coverage
}

// PlanShard implements the sub-pixel planner for the row pair
// (yLo, yHi): each shape's coverage is integrated per pixel column and
// the topmost visible program's effective alpha is multiplied by that
// column's coverage.
func PlanShard(plan *edgeplan.EdgePlan, xt program.XTransform, xRange basics.IntRange, yLo, yHi float64) ScanlinePlan {
	lo := shapeIntervals(plan, yLo)
	hi := shapeIntervals(plan, yHi)

	seen := make(map[edgeplan.ShapeId]bool)
	var shapes []edgeplan.ShapeId
	for id := range lo {
		if !seen[id] {
			seen[id] = true
			shapes = append(shapes, id)
		}
	}
	for id := range hi {
		if !seen[id] {
			seen[id] = true
			shapes = append(shapes, id)
		}
	}

	n := xRange.Len()
	colCoverage := make([]map[edgeplan.ShapeId]float64, n)
	for i := range colCoverage {
		colCoverage[i] = make(map[edgeplan.ShapeId]float64)
	}
	for _, shape := range shapes {
		loIv, hiIv := lo[shape], hi[shape]
		var cov []float64
		if len(loIv) > 1 || len(hiIv) > 1 {
			// Hard case: more than one separate inside-interval for this
			// shape between the two scanlines.
			// Resolve it column-by-column with the vector rasterizer
			// fallback instead of the linear-interpolation shortcut.
			cov = make([]float64, xRange.Len())
			for i := range cov {
				cov[i] = vectorColumnCoverage(loIv, hiIv, xt, xRange.X1+i)
			}
		} else {
			cov = columnCoverage(loIv, hiIv, xt, xRange)
		}
		for i, c := range cov {
			if c > 0 {
				colCoverage[i][shape] = c
			}
		}
	}

	result := ScanlinePlan{Y: (yLo + yHi) / 2}
	for i := 0; i < n; i++ {
		covMap := colCoverage[i]
		if len(covMap) == 0 {
			continue
		}
		var active []edgeplan.ShapeId
		for id := range covMap {
			active = append(active, id)
		}
		px := xRange.X1 + i
		stack := buildStack(plan, active, covMap, px, px+1)
		if len(stack.Entries) > 0 {
			result.Stacks = append(result.Stacks, stack)
		}
	}
	return result
}
