package scanplan

import (
	"testing"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/edge"
	"github.com/agg-go/scanraster/internal/edgeplan"
	"github.com/agg-go/scanraster/internal/program"
)

func identityTransform() program.XTransform {
	return program.XTransform{OriginX: 0, PixelStep: 1}
}

func TestPlanPixelAlignedSingleRect(t *testing.T) {
	plan := edgeplan.NewEdgePlan()
	shape := edgeplan.NewShapeId()
	plan.DeclareShape(shape, edgeplan.ShapeDescriptor{Programs: []program.DataId{42}, IsOpaque: true, ZIndex: 0})
	plan.AddEdge(edge.NewRect(shape, 2, 0, 8, 10))

	sl := PlanPixelAligned(plan, identityTransform(), basics.IntRange{X1: 0, X2: 10}, 5)
	if len(sl.Stacks) != 1 {
		t.Fatalf("expected exactly one stack for a single rect, got %d", len(sl.Stacks))
	}
	st := sl.Stacks[0]
	if st.X0 != 2 || st.X1 != 8 {
		t.Errorf("expected span [2,8), got [%d,%d)", st.X0, st.X1)
	}
	if len(st.Entries) != 1 || st.Entries[0].Program != 42 || !st.Entries[0].Opaque {
		t.Errorf("unexpected stack entries: %+v", st.Entries)
	}
}

func TestPlanPixelAlignedZOrderStopsAtOpaque(t *testing.T) {
	plan := edgeplan.NewEdgePlan()
	back := edgeplan.NewShapeId()
	front := edgeplan.NewShapeId()
	plan.DeclareShape(back, edgeplan.ShapeDescriptor{Programs: []program.DataId{1}, IsOpaque: true, ZIndex: 0})
	plan.DeclareShape(front, edgeplan.ShapeDescriptor{Programs: []program.DataId{2}, IsOpaque: true, ZIndex: 1})
	plan.AddEdge(edge.NewRect(back, 0, 0, 10, 10))
	plan.AddEdge(edge.NewRect(front, 3, 0, 6, 10))

	sl := PlanPixelAligned(plan, identityTransform(), basics.IntRange{X1: 0, X2: 10}, 5)
	var middle *ScanSpanStack
	for i := range sl.Stacks {
		if sl.Stacks[i].X0 == 3 {
			middle = &sl.Stacks[i]
		}
	}
	if middle == nil {
		t.Fatal("expected a stack starting at the front rect's left edge")
	}
	if len(middle.Entries) != 1 || middle.Entries[0].Program != 2 {
		t.Errorf("expected the opaque front shape to fully occlude the back shape, got %+v", middle.Entries)
	}
}

func TestPlanPixelAlignedNonOverlappingOrdering(t *testing.T) {
	plan := edgeplan.NewEdgePlan()
	a := edgeplan.NewShapeId()
	b := edgeplan.NewShapeId()
	plan.DeclareShape(a, edgeplan.ShapeDescriptor{Programs: []program.DataId{1}, IsOpaque: true})
	plan.DeclareShape(b, edgeplan.ShapeDescriptor{Programs: []program.DataId{2}, IsOpaque: true})
	plan.AddEdge(edge.NewRect(a, 0, 0, 3, 10))
	plan.AddEdge(edge.NewRect(b, 6, 0, 9, 10))

	sl := PlanPixelAligned(plan, identityTransform(), basics.IntRange{X1: 0, X2: 10}, 5)
	for i := 1; i < len(sl.Stacks); i++ {
		if sl.Stacks[i].X0 < sl.Stacks[i-1].X1 {
			t.Errorf("stacks must be strictly left-to-right and non-overlapping: %+v", sl.Stacks)
		}
	}
}

func TestPlanShardPartialCoverageAtEdge(t *testing.T) {
	plan := edgeplan.NewEdgePlan()
	shape := edgeplan.NewShapeId()
	plan.DeclareShape(shape, edgeplan.ShapeDescriptor{Programs: []program.DataId{7}, IsOpaque: true})
	plan.AddEdge(edge.NewRect(shape, 2.5, 0, 8, 10))

	sl := PlanShard(plan, identityTransform(), basics.IntRange{X1: 0, X2: 10}, 4.5, 5.5)
	var edgeCol *ScanSpanStack
	for i := range sl.Stacks {
		if sl.Stacks[i].X0 == 2 {
			edgeCol = &sl.Stacks[i]
		}
	}
	if edgeCol == nil {
		t.Fatal("expected a partially-covered stack at column 2")
	}
	cov := edgeCol.Entries[len(edgeCol.Entries)-1].Coverage
	if cov <= 0 || cov >= 1 {
		t.Errorf("expected partial coverage in (0,1) at the rect's fractional left edge, got %f", cov)
	}
	if edgeCol.Entries[len(edgeCol.Entries)-1].Opaque {
		t.Errorf("a partially-covered column must not be marked opaque (would wrongly occlude layers below)")
	}
}

func TestPlanShardFullyCoveredColumnIsOpaque(t *testing.T) {
	plan := edgeplan.NewEdgePlan()
	shape := edgeplan.NewShapeId()
	plan.DeclareShape(shape, edgeplan.ShapeDescriptor{Programs: []program.DataId{7}, IsOpaque: true})
	plan.AddEdge(edge.NewRect(shape, 0, 0, 10, 10))

	sl := PlanShard(plan, identityTransform(), basics.IntRange{X1: 0, X2: 10}, 4, 6)
	for _, st := range sl.Stacks {
		if len(st.Entries) == 0 {
			continue
		}
		top := st.Entries[len(st.Entries)-1]
		if top.Coverage < 0.999999 || !top.Opaque {
			t.Errorf("fully interior column %d should be opaque with coverage 1, got %+v", st.X0, top)
		}
	}
}
