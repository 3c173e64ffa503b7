package pixelprogram

import (
	"testing"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/edge"
	"github.com/agg-go/scanraster/internal/edgeplan"
	"github.com/agg-go/scanraster/internal/geomx"
	"github.com/agg-go/scanraster/internal/program"
	"github.com/agg-go/scanraster/internal/texture"
)

func identityXT() program.XTransform { return program.XTransform{OriginX: 0, PixelStep: 1} }

func TestSolidColorFillsRow(t *testing.T) {
	cache := program.NewCache()
	reg := NewRegistry(cache)
	red := color.Pixel{R: 1, G: 0, B: 0, A: 1}
	id := reg.SolidColor(red)

	row := make([]color.Pixel, 4)
	if err := cache.Run(id, row, basics.IntRange{X1: 0, X2: 4}, identityXT(), 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, p := range row {
		if p != red {
			t.Errorf("row[%d] = %+v, want %+v", i, p, red)
		}
	}
}

func TestSourceOverColorComposites(t *testing.T) {
	cache := program.NewCache()
	reg := NewRegistry(cache)
	halfRed := color.Pixel{R: 0.5, G: 0, B: 0, A: 0.5}
	id := reg.SourceOverColor(halfRed)

	row := []color.Pixel{{R: 0, G: 1, B: 0, A: 1}}
	if err := cache.Run(id, row, basics.IntRange{X1: 0, X2: 1}, identityXT(), 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	// source-over of a 50%-alpha red over opaque green should still be fully opaque.
	if row[0].A != 1 {
		t.Errorf("expected fully opaque result, got alpha %v", row[0].A)
	}
	if row[0].R <= 0 {
		t.Errorf("expected some red contribution, got %+v", row[0])
	}
}

func TestBlendRenderingComposesInnerProgram(t *testing.T) {
	cache := program.NewCache()
	reg := NewRegistry(cache)
	inner := reg.SolidColor(color.Pixel{R: 1, G: 1, B: 1, A: 1})
	outer := reg.BlendRendering(color.SourceOver, 0.5, inner)

	row := []color.Pixel{{}}
	if err := cache.Run(outer, row, basics.IntRange{X1: 0, X2: 1}, identityXT(), 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if row[0].A < 0.49 || row[0].A > 0.51 {
		t.Errorf("expected transparency-scaled alpha near 0.5, got %v", row[0].A)
	}
}

func solidTexture(t *testing.T, w, h int, c color.RGBA8) *texture.Texture {
	t.Helper()
	data := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		data[i*4+0] = c.R
		data[i*4+1] = c.G
		data[i*4+2] = c.B
		data[i*4+3] = c.A
	}
	gamma := color.NewGammaTables(2.2)
	tex, err := texture.Upload(texture.Rgba8Gamma, w, h, data, gamma, 0)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	return tex
}

func TestBasicTextureSamplesNearest(t *testing.T) {
	cache := program.NewCache()
	reg := NewRegistry(cache)
	tex := solidTexture(t, 4, 4, color.RGBA8{R: 255, G: 0, B: 0, A: 255})
	id := reg.BasicTexture(tex, geomx.Identity, 1.0)

	row := make([]color.Pixel, 4)
	if err := cache.Run(id, row, basics.IntRange{X1: 0, X2: 4}, identityXT(), 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if row[0].A == 0 {
		t.Errorf("expected opaque sample, got %+v", row[0])
	}
}

func TestBasicTextureTransparencyScalesAlpha(t *testing.T) {
	cache := program.NewCache()
	reg := NewRegistry(cache)
	tex := solidTexture(t, 4, 4, color.RGBA8{R: 255, G: 255, B: 255, A: 255})
	opaque := reg.BasicTexture(tex, geomx.Identity, 1.0)
	half := reg.BasicTexture(tex, geomx.Identity, 0.5)

	rowOpaque := make([]color.Pixel, 1)
	rowHalf := make([]color.Pixel, 1)
	_ = cache.Run(opaque, rowOpaque, basics.IntRange{X1: 0, X2: 1}, identityXT(), 0)
	_ = cache.Run(half, rowHalf, basics.IntRange{X1: 0, X2: 1}, identityXT(), 0)

	if rowHalf[0].A >= rowOpaque[0].A {
		t.Errorf("expected transparency=0.5 to produce less alpha than transparency=1.0: half=%v opaque=%v", rowHalf[0].A, rowOpaque[0].A)
	}
}

func TestGradientLUTSampleEndpoints(t *testing.T) {
	lut := &GradientLUT{Stops: []color.Pixel{
		{R: 0, G: 0, B: 0, A: 1},
		{R: 1, G: 1, B: 1, A: 1},
	}}
	if got := lut.Sample(0); got.R != 0 {
		t.Errorf("Sample(0).R = %v, want 0", got.R)
	}
	if got := lut.Sample(1); got.R != 1 {
		t.Errorf("Sample(1).R = %v, want 1", got.R)
	}
	mid := lut.Sample(0.5)
	if mid.R < 0.49 || mid.R > 0.51 {
		t.Errorf("Sample(0.5).R = %v, want near 0.5", mid.R)
	}
}

func TestLinearGradientRunSamplesAlongX(t *testing.T) {
	cache := program.NewCache()
	reg := NewRegistry(cache)
	lut := &GradientLUT{Stops: []color.Pixel{
		{R: 0, G: 0, B: 0, A: 1},
		{R: 1, G: 0, B: 0, A: 1},
	}}
	id := reg.LinearGradient(lut, 1.0, geomx.Identity)

	row := make([]color.Pixel, 2)
	if err := cache.Run(id, row, basics.IntRange{X1: 0, X2: 2}, identityXT(), 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if row[1].R <= row[0].R {
		t.Errorf("expected gradient to increase left to right, got %+v then %+v", row[0], row[1])
	}
}

func TestBasicSpriteRendersNestedPlan(t *testing.T) {
	cache := program.NewCache()
	reg := NewRegistry(cache)

	plan := edgeplan.NewEdgePlan()
	shape := edgeplan.NewShapeId()
	white := reg.SolidColor(color.Pixel{R: 1, G: 1, B: 1, A: 1})
	plan.DeclareShape(shape, edgeplan.ShapeDescriptor{Programs: []program.DataId{white}, IsOpaque: true})
	plan.AddEdge(edge.NewRect(shape, 0, 0, 10, 10))

	spriteID := reg.BasicSprite(SpriteSource{Plan: plan, Cache: cache}, geomx.Identity)

	row := make([]color.Pixel, 10)
	if err := cache.Run(spriteID, row, basics.IntRange{X1: 0, X2: 10}, identityXT(), 5); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for i, p := range row {
		if p.A == 0 {
			t.Errorf("row[%d] expected sprite coverage, got %+v", i, p)
		}
	}
}

func TestBasicSpriteEmptyPlanIsNoop(t *testing.T) {
	cache := program.NewCache()
	reg := NewRegistry(cache)
	plan := edgeplan.NewEdgePlan()
	id := reg.BasicSprite(SpriteSource{Plan: plan, Cache: cache}, geomx.Identity)

	row := []color.Pixel{{R: 1, G: 1, B: 1, A: 1}}
	want := row[0]
	if err := cache.Run(id, row, basics.IntRange{X1: 0, X2: 1}, identityXT(), 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if row[0] != want {
		t.Errorf("expected empty sprite plan to leave row untouched, got %+v", row[0])
	}
}
