package edge

import (
	"testing"

	"github.com/agg-go/scanraster/internal/edgeplan"
)

func TestMaskContourRowIntervals(t *testing.T) {
	// A 4x3 mask with a single inside-run per row, offset from the origin.
	mask := &MaskContour{
		OriginX: 5, OriginY: 10,
		Width: 4, Height: 3,
		Inside: []bool{
			false, true, true, false,
			true, true, true, true,
			false, false, true, true,
		},
	}
	contour := NewSampledContour(edgeplan.NewShapeId(), mask)

	row0 := contour.Intercepts(10)
	if len(row0) != 2 || row0[0].X != 6 || row0[1].X != 8 {
		t.Errorf("row 0: expected toggles at [6,8), got %v", row0)
	}

	row1 := contour.Intercepts(11)
	if len(row1) != 2 || row1[0].X != 5 || row1[1].X != 9 {
		t.Errorf("row 1: expected toggles at [5,9), got %v", row1)
	}

	row2 := contour.Intercepts(12)
	if len(row2) != 2 || row2[0].X != 7 || row2[1].X != 9 {
		t.Errorf("row 2: expected toggles at [7,9), got %v", row2)
	}
}

func TestMaskContourOutOfRangeRow(t *testing.T) {
	mask := &MaskContour{OriginX: 0, OriginY: 0, Width: 2, Height: 2, Inside: []bool{true, true, true, true}}
	contour := NewSampledContour(edgeplan.NewShapeId(), mask)
	if ics := contour.Intercepts(100); ics != nil {
		t.Errorf("expected no intercepts far outside the mask's rows, got %v", ics)
	}
}

func TestMaskContourMultipleRunsPerRow(t *testing.T) {
	mask := &MaskContour{
		OriginX: 0, OriginY: 0,
		Width: 6, Height: 1,
		Inside: []bool{true, true, false, false, true, true},
	}
	contour := NewSampledContour(edgeplan.NewShapeId(), mask)
	ics := contour.Intercepts(0)
	if len(ics) != 4 {
		t.Fatalf("expected 4 intercepts (two separate runs), got %d", len(ics))
	}
	want := []float64{0, 2, 4, 6}
	for i, x := range want {
		if ics[i].X != x {
			t.Errorf("intercept %d: expected x=%f, got %f", i, x, ics[i].X)
		}
	}
}
