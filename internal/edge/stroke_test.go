package edge

import (
	"math"
	"testing"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/edgeplan"
)

func TestStrokeOutlineHorizontalButtCap(t *testing.T) {
	pts := []vec2{{0, 0}, {10, 0}}
	cubics := StrokeOutline(pts, false, 2.0, basics.CapButt, basics.JoinMiter, 4, 0)
	if len(cubics) == 0 {
		t.Fatal("expected a non-empty outline")
	}
	sub := NewBezierSubpath(edgeplan.NewShapeId(), basics.FillNonZero, cubics)
	// The stroked outline of a horizontal segment at y=0 with width 2
	// should cover y in [-1, 1]; sample through its middle.
	ics := sub.Intercepts(0)
	if len(ics) < 2 {
		t.Fatalf("expected at least 2 intercepts through the stroke body, got %d", len(ics))
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, ic := range ics {
		if ic.X < minX {
			minX = ic.X
		}
		if ic.X > maxX {
			maxX = ic.X
		}
	}
	if maxX-minX < 9 {
		t.Errorf("expected outline to span ~10 units along x (butt cap, no extension), got span %f", maxX-minX)
	}
}

func TestStrokeOutlineSquareCapExtendsBeyondEndpoints(t *testing.T) {
	pts := []vec2{{0, 0}, {10, 0}}
	buttCubics := StrokeOutline(pts, false, 2.0, basics.CapButt, basics.JoinMiter, 4, 0)
	squareCubics := StrokeOutline(pts, false, 2.0, basics.CapSquare, basics.JoinMiter, 4, 0)

	width := func(cubics [][4][2]float64) float64 {
		minX, maxX := math.Inf(1), math.Inf(-1)
		for _, c := range cubics {
			for _, p := range c {
				if p[0] < minX {
					minX = p[0]
				}
				if p[0] > maxX {
					maxX = p[0]
				}
			}
		}
		return maxX - minX
	}

	if width(squareCubics) <= width(buttCubics) {
		t.Errorf("square cap outline (%f) should be wider than butt cap (%f)", width(squareCubics), width(buttCubics))
	}
}

func TestStrokeOutlineClosedPathProducesTwoRings(t *testing.T) {
	pts := []vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	cubics := StrokeOutline(pts, true, 2.0, basics.CapButt, basics.JoinMiter, 4, 0)
	sub := NewBezierSubpath(edgeplan.NewShapeId(), basics.FillNonZero, cubics)
	// The row y=5 crosses the left band (outer x=-1, inner x=1) and the
	// right band (inner x=9, outer x=11): 4 crossings, not a solid fill
	// straight through the square's interior.
	ics := sub.Intercepts(5)
	if len(ics) < 4 {
		t.Errorf("expected at least 4 intercepts (inner+outer ring crossed twice), got %d", len(ics))
	}
}

func TestDashPolylineSplitsByArcLength(t *testing.T) {
	pts := []vec2{{0, 0}, {10, 0}}
	dashes := DashPolyline(pts, false, []float64{2, 3}, 0)
	if len(dashes) != 2 {
		t.Fatalf("expected 2 on-runs for a 10-unit line with pattern [2 3], got %d", len(dashes))
	}
	// First dash covers [0,2), second [5,7).
	if d := dashes[0]; d[0][0] != 0 || d[len(d)-1][0] != 2 {
		t.Errorf("first dash should span x [0,2], got %v", d)
	}
	if d := dashes[1]; d[0][0] != 5 || d[len(d)-1][0] != 7 {
		t.Errorf("second dash should span x [5,7], got %v", d)
	}
}

func TestDashPolylinePhaseShiftsPattern(t *testing.T) {
	pts := []vec2{{0, 0}, {10, 0}}
	dashes := DashPolyline(pts, false, []float64{2, 2}, 1)
	if len(dashes) == 0 {
		t.Fatal("expected at least one dash")
	}
	// One unit into the pattern, the first on-run has 1 unit left.
	if d := dashes[0]; d[0][0] != 0 || d[len(d)-1][0] != 1 {
		t.Errorf("phase=1 should leave a 1-unit leading dash, got %v", d)
	}
}

func TestDashPolylineCrossesVertices(t *testing.T) {
	// An L-shaped polyline; a dash long enough to turn the corner keeps
	// the corner vertex inside one run.
	pts := []vec2{{0, 0}, {4, 0}, {4, 4}}
	dashes := DashPolyline(pts, false, []float64{6, 2}, 0)
	if len(dashes) == 0 {
		t.Fatal("expected dashes")
	}
	first := dashes[0]
	foundCorner := false
	for _, p := range first {
		if p == (vec2{4, 0}) {
			foundCorner = true
		}
	}
	if !foundCorner {
		t.Errorf("first dash should include the corner vertex, got %v", first)
	}
	if end := first[len(first)-1]; end != (vec2{4, 2}) {
		t.Errorf("first dash should end 2 units up the second leg, got %v", end)
	}
}

func TestDashPolylineEmptyPatternIsSolid(t *testing.T) {
	pts := []vec2{{0, 0}, {10, 0}}
	dashes := DashPolyline(pts, false, nil, 0)
	if len(dashes) != 1 || len(dashes[0]) != 2 {
		t.Fatalf("expected the input back unchanged for an empty pattern, got %v", dashes)
	}
}

func TestStrokeOutlineRejectsDegenerateInput(t *testing.T) {
	if got := StrokeOutline(nil, false, 1, basics.CapButt, basics.JoinMiter, 4, 0); got != nil {
		t.Errorf("expected nil outline for empty input, got %v", got)
	}
	if got := StrokeOutline([]vec2{{1, 1}}, false, 1, basics.CapButt, basics.JoinMiter, 4, 0); got != nil {
		t.Errorf("expected nil outline for single-point input, got %v", got)
	}
}
