package renderer

import (
	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/edgeplan"
	"github.com/agg-go/scanraster/internal/filter"
	"github.com/agg-go/scanraster/internal/rowcompose"
	"github.com/agg-go/scanraster/internal/scanplan"
)

// RenderFilteredToBuffer renders slice as RenderToBuffer does, but runs
// the composited linear rows through filters (applied in order) before
// gamma-encoding into dest. Each filter declares how many neighboring
// rows and columns of input it needs; the base render is widened by the
// chain's total context so every pass has real pixels to read, and rows
// above/below the requested slice are planned at extrapolated y
// positions using the slice's own row spacing.
func (r *Renderer) RenderFilteredToBuffer(plan *edgeplan.EdgePlan, slice RenderSlice, filters []filter.Filter, dest []byte) error {
	height := len(slice.YPositions)
	need := slice.Width * height * 4
	if len(dest) < need {
		return ErrOutputBufferTooSmall
	}
	if len(filters) == 0 {
		return r.RenderToBuffer(plan, slice, dest)
	}

	var above, below, left, right int
	for _, f := range filters {
		a, b := f.RowContext()
		l, rr := f.ColContext()
		above += a
		below += b
		left += l
		right += rr
	}

	rowStep := 1.0
	if height > 1 {
		rowStep = slice.YPositions[1] - slice.YPositions[0]
	}

	// Composite the widened region: extra rows above/below, extra columns
	// either side, so the first filter pass has full context.
	totalRows := height + above + below
	wideRange := basics.IntRange{X1: -left, X2: slice.Width + right}
	rows := make([][]color.Pixel, totalRows)
	for i := range rows {
		rows[i] = make([]color.Pixel, wideRange.Len())
		y := slice.YPositions[0] + float64(i-above)*rowStep
		if idx := i - above; idx >= 0 && idx < height {
			y = slice.YPositions[idx]
		}
		var sp scanplan.ScanlinePlan
		if r.cfg.Shard {
			sp = scanplan.PlanShard(plan, r.cfg.XTransform, wideRange, y-rowStep/2, y+rowStep/2)
		} else {
			sp = scanplan.PlanPixelAligned(plan, r.cfg.XTransform, wideRange, y)
		}
		if err := rowcompose.Row(r.cache, sp, rows[i], wideRange.X1, r.cfg.XTransform); err != nil {
			return err
		}
	}

	// Run the chain. Every pass trims its own context off the working
	// region; what remains after the last pass is exactly the requested
	// slice.
	curAbove, curLeft := above, left
	for _, f := range filters {
		fa, fb := f.RowContext()
		fl, fr := f.ColContext()
		outRows := len(rows) - fa - fb
		outW := len(rows[0]) - fl - fr
		out := make([][]color.Pixel, outRows)
		for i := range out {
			out[i] = make([]color.Pixel, outW)
			info := filter.RowInfo{
				Y:  slice.YPositions[0] + float64(i-(curAbove-fa))*rowStep,
				X0: -(curLeft - fl),
			}
			f.Apply(rows[i:i+fa+fb+1], out[i], info)
		}
		rows = out
		curAbove -= fa
		curLeft -= fl
	}

	stride := slice.Width * 4
	for i := 0; i < height; i++ {
		out := dest[i*stride : (i+1)*stride]
		for x, px := range rows[i] {
			rgba := r.cfg.Gamma.EncodePixel(px.Clamped())
			o := x * 4
			out[o] = rgba.R
			out[o+1] = rgba.G
			out[o+2] = rgba.B
			out[o+3] = rgba.A
		}
	}
	return nil
}
