package renderer

import (
	"testing"

	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/edge"
	"github.com/agg-go/scanraster/internal/edgeplan"
	"github.com/agg-go/scanraster/internal/filter"
	"github.com/agg-go/scanraster/internal/pixelprogram"
	"github.com/agg-go/scanraster/internal/program"
)

func whiteRectPlan(t *testing.T, cache *program.Cache, x0, y0, x1, y1 float64) *edgeplan.EdgePlan {
	t.Helper()
	reg := pixelprogram.NewRegistry(cache)
	plan := edgeplan.NewEdgePlan()
	shape := edgeplan.NewShapeId()
	white := reg.SolidColor(color.Pixel{R: 1, G: 1, B: 1, A: 1})
	plan.DeclareShape(shape, edgeplan.ShapeDescriptor{Programs: []program.DataId{white}, IsOpaque: true})
	plan.AddEdge(edge.NewRect(shape, x0, y0, x1, y1))
	return plan
}

func renderRows(t *testing.T, plan *edgeplan.EdgePlan, cache *program.Cache, w, h int, filters []filter.Filter) []byte {
	t.Helper()
	r := New(cache, Config{XTransform: identityXT(), Gamma: color.NewGammaTables(2.2)})
	ys := make([]float64, h)
	for i := range ys {
		ys[i] = float64(i) + 0.5
	}
	dest := make([]byte, w*h*4)
	if err := r.RenderFilteredToBuffer(plan, RenderSlice{Width: w, YPositions: ys}, filters, dest); err != nil {
		t.Fatalf("RenderFilteredToBuffer: %v", err)
	}
	return dest
}

func TestRenderFilteredEmptyChainMatchesPlain(t *testing.T) {
	cache := program.NewCache()
	plan := whiteRectPlan(t, cache, 2, 2, 6, 6)
	filtered := renderRows(t, plan, cache, 8, 8, nil)

	r := New(cache, Config{XTransform: identityXT(), Gamma: color.NewGammaTables(2.2)})
	ys := make([]float64, 8)
	for i := range ys {
		ys[i] = float64(i) + 0.5
	}
	plain := make([]byte, 8*8*4)
	if err := r.RenderToBuffer(plan, RenderSlice{Width: 8, YPositions: ys}, plain); err != nil {
		t.Fatalf("RenderToBuffer: %v", err)
	}
	for i := range plain {
		if plain[i] != filtered[i] {
			t.Fatalf("byte %d: plain %d vs empty-chain filtered %d", i, plain[i], filtered[i])
		}
	}
}

func TestRenderFilteredAlphaBlendDims(t *testing.T) {
	cache := program.NewCache()
	plan := whiteRectPlan(t, cache, 0, 0, 8, 8)
	dest := renderRows(t, plan, cache, 8, 8, []filter.Filter{filter.AlphaBlend{Alpha: 0.5}})
	center := (4*8 + 4) * 4
	if dest[center+3] >= 200 || dest[center+3] <= 50 {
		t.Errorf("expected roughly halved alpha after AlphaBlend(0.5), got %d", dest[center+3])
	}
}

func TestRenderFilteredGaussianSpreadsEdges(t *testing.T) {
	cache := program.NewCache()
	plan := whiteRectPlan(t, cache, 6, 6, 10, 10)
	filters := []filter.Filter{
		filter.NewHorizontalGaussian(1.0),
		filter.NewVerticalGaussian(1.0),
	}
	dest := renderRows(t, plan, cache, 16, 16, filters)

	inside := (8*16 + 8) * 4
	justOutside := (8*16 + 11) * 4
	farOutside := (2*16 + 2) * 4
	if dest[inside+3] == 0 {
		t.Error("expected coverage inside the blurred rect")
	}
	if dest[justOutside+3] == 0 {
		t.Error("expected the blur to spread alpha past the rect's hard edge")
	}
	if dest[farOutside+3] != 0 {
		t.Errorf("expected no alpha far outside the blur radius, got %d", dest[farOutside+3])
	}
}

func TestRenderFilteredRejectsUndersizedDestination(t *testing.T) {
	cache := program.NewCache()
	plan := edgeplan.NewEdgePlan()
	r := New(cache, Config{XTransform: identityXT(), Gamma: color.NewGammaTables(2.2)})
	dest := make([]byte, 4*4*4-1)
	err := r.RenderFilteredToBuffer(plan, RenderSlice{Width: 4, YPositions: []float64{0, 1, 2, 3}}, nil, dest)
	if err != ErrOutputBufferTooSmall {
		t.Fatalf("expected ErrOutputBufferTooSmall, got %v", err)
	}
}
