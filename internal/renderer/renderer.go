// Package renderer implements the frame/region renderer: the
// block-of-rows driver that asks the scan planner for per-row plans,
// runs pixel programs into a linear scratch buffer, and gamma-converts
// the result into an 8-bit output buffer.
package renderer

import (
	"errors"
	"sync"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/buffer"
	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/edgeplan"
	"github.com/agg-go/scanraster/internal/program"
	"github.com/agg-go/scanraster/internal/rowcompose"
	"github.com/agg-go/scanraster/internal/scanplan"
)

// ErrOutputBufferTooSmall is the one error the renderer surfaces to its
// caller; every other failure mode is absorbed internally.
var ErrOutputBufferTooSmall = errors.New("renderer: destination buffer smaller than width*height*4")

// RenderSlice is a request for a specific set of output rows, given as
// source-space y positions, at a fixed pixel width.
type RenderSlice struct {
	Width      int
	YPositions []float64
}

// DefaultBlockRows is the number of rows each parallel render block
// covers.
const DefaultBlockRows = 8

// Config configures a Renderer. XTransform is shared by every row and
// is the only place pixel and source x coordinates are mapped; per-row
// source y comes from RenderSlice.YPositions, not from this transform.
type Config struct {
	BlockRows  int
	Shard      bool // use the sub-pixel shard planner instead of pixel-aligned
	XTransform program.XTransform
	Gamma      *color.GammaTables
}

// Renderer drives RenderSlice requests against an EdgePlan and
// ProgramDataCache.
type Renderer struct {
	cache *program.Cache
	cfg   Config
}

// New builds a Renderer. cache must be the same cache the plan's shape
// descriptors reference; it is read-only for the renderer's lifetime.
func New(cache *program.Cache, cfg Config) *Renderer {
	if cfg.BlockRows <= 0 {
		cfg.BlockRows = DefaultBlockRows
	}
	return &Renderer{cache: cache, cfg: cfg}
}

// RenderToBuffer renders slice against plan into dest, a contiguous
// width*len(YPositions)*4 byte buffer of 8-bit premultiplied RGBA rows,
// top-to-bottom. Row-blocks run on their own goroutine, each
// owning its own scratch buffer; program dispatch within a
// block is sequential.
func (r *Renderer) RenderToBuffer(plan *edgeplan.EdgePlan, slice RenderSlice, dest []byte) error {
	height := len(slice.YPositions)
	need := slice.Width * height * 4
	if len(dest) < need {
		return ErrOutputBufferTooSmall
	}

	xRange := basics.IntRange{X1: 0, X2: slice.Width}
	blockRows := r.cfg.BlockRows

	var wg sync.WaitGroup
	for blockStart := 0; blockStart < height; blockStart += blockRows {
		blockEnd := blockStart + blockRows
		if blockEnd > height {
			blockEnd = height
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			r.renderBlock(plan, slice, xRange, start, end, dest)
		}(blockStart, blockEnd)
	}
	wg.Wait()
	return nil
}

// renderBlock renders output rows [start,end) of slice into dest, using
// its own scratch buffer so it shares nothing with sibling blocks.
func (r *Renderer) renderBlock(plan *edgeplan.EdgePlan, slice RenderSlice, xRange basics.IntRange, start, end int, dest []byte) {
	scratch := buffer.NewScratchBuffer(slice.Width, end-start)
	stride := slice.Width * 4

	for i := start; i < end; i++ {
		row := scratch.Row(i - start)
		y := slice.YPositions[i]

		var plan_ scanplan.ScanlinePlan
		if r.cfg.Shard {
			yLo, yHi := y-0.5, y+0.5
			plan_ = scanplan.PlanShard(plan, r.cfg.XTransform, xRange, yLo, yHi)
		} else {
			plan_ = scanplan.PlanPixelAligned(plan, r.cfg.XTransform, xRange, y)
		}

		_ = rowcompose.Row(r.cache, plan_, row, xRange.X1, r.cfg.XTransform)

		out := dest[i*stride : (i+1)*stride]
		for x, px := range row {
			rgba := r.cfg.Gamma.EncodePixel(px)
			o := x * 4
			out[o] = rgba.R
			out[o+1] = rgba.G
			out[o+2] = rgba.B
			out[o+3] = rgba.A
		}
	}
}
