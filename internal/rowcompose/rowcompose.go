// Package rowcompose implements the bottom-to-top program execution a
// ScanlinePlan's stacks describe, shared by sprite pixel programs
// (which recursively render a nested EdgePlan into a scratch row) and
// the frame renderer.
package rowcompose

import (
	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/program"
	"github.com/agg-go/scanraster/internal/scanplan"
)

// Row runs every stack's programs bottom-to-top into row (already sized
// to the plan's pixel range, index 0 corresponding to pixel xOffset), a
// fresh scratch buffer starting at transparent zero. Stack entries whose
// Coverage is less than 1 (shard anti-aliasing) are blended against the
// row state from before that entry ran, scaled by Coverage, rather than
// applied at full strength, so the entry's effective alpha is its
// coverage.
func Row(cache *program.Cache, plan scanplan.ScanlinePlan, row []color.Pixel, xOffset int, xt program.XTransform) error {
	for _, stack := range plan.Stacks {
		x0 := stack.X0 - xOffset
		x1 := stack.X1 - xOffset
		if x0 < 0 {
			x0 = 0
		}
		if x1 > len(row) {
			x1 = len(row)
		}
		if x1 <= x0 {
			continue
		}
		slice := row[x0:x1]
		xr := basics.IntRange{X1: x0 + xOffset, X2: x1 + xOffset}
		for _, entry := range stack.Entries {
			before := append([]color.Pixel(nil), slice...)
			if err := cache.Run(entry.Program, slice, xr, xt, plan.Y); err != nil {
				return err
			}
			if entry.Coverage < 0.999999 {
				c := float32(entry.Coverage)
				for i := range slice {
					slice[i] = before[i].Scale(1 - c).Add(slice[i].Scale(c)).Clamped()
				}
			}
		}
	}
	return nil
}
