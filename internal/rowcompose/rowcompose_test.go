package rowcompose

import (
	"testing"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/program"
	"github.com/agg-go/scanraster/internal/scanplan"
)

func solidProgram(c *program.Cache, px color.Pixel) program.DataId {
	pid := c.AddProgram(func(_ *program.Cache, row []color.Pixel, _ basics.IntRange, _ program.XTransform, _ float64, data any) {
		p := data.(color.Pixel)
		for i := range row {
			row[i] = p
		}
	})
	return c.StoreProgramData(pid, px)
}

func TestRowRunsStacksBottomToTop(t *testing.T) {
	cache := program.NewCache()
	bottom := solidProgram(cache, color.Pixel{R: 1, A: 1})
	top := solidProgram(cache, color.Pixel{B: 1, A: 1})

	plan := scanplan.ScanlinePlan{
		Stacks: []scanplan.ScanSpanStack{{
			X0: 0, X1: 4,
			Entries: []scanplan.StackEntry{
				{Program: bottom, Coverage: 1},
				{Program: top, Coverage: 1},
			},
		}},
	}

	row := make([]color.Pixel, 4)
	if err := Row(cache, plan, row, 0, program.XTransform{PixelStep: 1}); err != nil {
		t.Fatalf("Row: %v", err)
	}
	for i, p := range row {
		if p.B != 1 || p.R != 0 {
			t.Errorf("row[%d] = %+v, want the top program's output to win", i, p)
		}
	}
}

func TestRowPartialCoverageBlends(t *testing.T) {
	cache := program.NewCache()
	white := solidProgram(cache, color.Pixel{R: 1, G: 1, B: 1, A: 1})

	plan := scanplan.ScanlinePlan{
		Stacks: []scanplan.ScanSpanStack{{
			X0: 0, X1: 1,
			Entries: []scanplan.StackEntry{{Program: white, Coverage: 0.5}},
		}},
	}

	row := make([]color.Pixel, 1)
	if err := Row(cache, plan, row, 0, program.XTransform{PixelStep: 1}); err != nil {
		t.Fatalf("Row: %v", err)
	}
	if row[0].A < 0.49 || row[0].A > 0.51 {
		t.Errorf("half-coverage entry should land near alpha 0.5, got %v", row[0].A)
	}
}

func TestRowClipsStacksToRowBounds(t *testing.T) {
	cache := program.NewCache()
	white := solidProgram(cache, color.Pixel{R: 1, G: 1, B: 1, A: 1})

	// The stack extends past both ends of a 4-wide row starting at pixel 2.
	plan := scanplan.ScanlinePlan{
		Stacks: []scanplan.ScanSpanStack{{
			X0: 0, X1: 100,
			Entries: []scanplan.StackEntry{{Program: white, Coverage: 1}},
		}},
	}

	row := make([]color.Pixel, 4)
	if err := Row(cache, plan, row, 2, program.XTransform{PixelStep: 1}); err != nil {
		t.Fatalf("Row: %v", err)
	}
	for i, p := range row {
		if p.A != 1 {
			t.Errorf("row[%d] should still be painted inside the clip, got %+v", i, p)
		}
	}
}

func TestRowEmptyPlanLeavesRowUntouched(t *testing.T) {
	cache := program.NewCache()
	row := make([]color.Pixel, 3)
	if err := Row(cache, scanplan.ScanlinePlan{}, row, 0, program.XTransform{PixelStep: 1}); err != nil {
		t.Fatalf("Row: %v", err)
	}
	for i, p := range row {
		if p != (color.Pixel{}) {
			t.Errorf("row[%d] should stay transparent black, got %+v", i, p)
		}
	}
}
