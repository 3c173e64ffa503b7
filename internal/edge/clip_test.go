package edge

import (
	"testing"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/edgeplan"
)

func TestClippedRectIntersectsIntervals(t *testing.T) {
	inner := NewRect(edgeplan.NewShapeId(), 0, 0, 10, 10)
	clipped := NewClipped(inner, basics.Rect{X1: 2, Y1: 0, X2: 5, Y2: 10})

	ics := clipped.Intercepts(5)
	if len(ics) != 2 || ics[0].X != 2 || ics[1].X != 5 {
		t.Fatalf("expected the rect's row interval clipped to [2,5), got %v", ics)
	}
}

func TestClippedRowsOutsideClipAreEmpty(t *testing.T) {
	inner := NewRect(edgeplan.NewShapeId(), 0, 0, 10, 10)
	clipped := NewClipped(inner, basics.Rect{X1: 0, Y1: 3, X2: 10, Y2: 6})

	if ics := clipped.Intercepts(2); ics != nil {
		t.Errorf("row above the clip's y-range should report nothing, got %v", ics)
	}
	if ics := clipped.Intercepts(6); ics != nil {
		t.Errorf("row at the clip's exclusive bottom should report nothing, got %v", ics)
	}
	if ics := clipped.Intercepts(4); len(ics) != 2 {
		t.Errorf("row inside the clip should keep the inner interval, got %v", ics)
	}
}

func TestClippedDisjointRegionIsEmpty(t *testing.T) {
	inner := NewRect(edgeplan.NewShapeId(), 0, 0, 4, 4)
	clipped := NewClipped(inner, basics.Rect{X1: 6, Y1: 6, X2: 9, Y2: 9})

	bb := clipped.BoundingBox()
	if bb.X2 > bb.X1 && bb.Y2 > bb.Y1 {
		t.Errorf("disjoint clip should collapse the bounding box, got %+v", bb)
	}
	if ics := clipped.Intercepts(2); ics != nil {
		t.Errorf("expected no intercepts anywhere, got %v", ics)
	}
}

func TestClippedNonZeroInnerEdge(t *testing.T) {
	sub := NewBezierSubpath(edgeplan.NewShapeId(), basics.FillNonZero, squareCubics(10, 10))
	clipped := NewClipped(sub, basics.Rect{X1: 3, Y1: 0, X2: 20, Y2: 10})

	ics := clipped.Intercepts(5)
	if len(ics) != 2 {
		t.Fatalf("expected one clipped interval, got %v", ics)
	}
	if ics[0].X != 3 {
		t.Errorf("interval should start at the clip's left edge, got %v", ics[0].X)
	}
	if ics[0].Dir != basics.Toggle || ics[1].Dir != basics.Toggle {
		t.Errorf("clipped intercepts should be toggles, got %v", ics)
	}
}
