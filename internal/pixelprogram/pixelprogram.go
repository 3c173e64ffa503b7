// Package pixelprogram implements the concrete pixel-fill routines that
// write into a scratch scanline row: solid color, source-over, blend
// modes, textures (nearest/bilinear/mipmapped), linear gradients and
// sprites. Each is registered once with a
// program.Cache and thereafter referenced only by the program.DataId
// returned when its per-draw data is interned.
package pixelprogram

import (
	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/edgeplan"
	"github.com/agg-go/scanraster/internal/geomx"
	"github.com/agg-go/scanraster/internal/program"
	"github.com/agg-go/scanraster/internal/rowcompose"
	"github.com/agg-go/scanraster/internal/scanplan"
	"github.com/agg-go/scanraster/internal/texture"
)

// Registry registers every concrete program kind with a program.Cache
// once and exposes typed constructors for interning each kind's
// per-draw data, keeping the register-definitions and intern-data
// halves of the cache API behind one type.
type Registry struct {
	cache *program.Cache

	solidColor        program.ProgramId
	sourceOverColor   program.ProgramId
	blendColor        program.ProgramId
	blendRendering    program.ProgramId
	basicTexture      program.ProgramId
	bilinearTexture   program.ProgramId
	mipmapTexture     program.ProgramId
	linearGradient    program.ProgramId
	basicSprite       program.ProgramId
	transformedSprite program.ProgramId
}

// NewRegistry registers all built-in program kinds against cache.
func NewRegistry(cache *program.Cache) *Registry {
	r := &Registry{cache: cache}
	r.solidColor = cache.AddProgram(runSolidColor)
	r.sourceOverColor = cache.AddProgram(runSourceOverColor)
	r.blendColor = cache.AddProgram(runBlendColor)
	r.blendRendering = cache.AddProgram(runBlendRendering)
	r.basicTexture = cache.AddProgram(runBasicTexture)
	r.bilinearTexture = cache.AddProgram(runBilinearTexture)
	r.mipmapTexture = cache.AddProgram(runMipMapTexture)
	r.linearGradient = cache.AddProgram(runLinearGradient)
	r.basicSprite = cache.AddProgram(runBasicSprite)
	r.transformedSprite = cache.AddProgram(runTransformedSprite)
	return r
}

// --- SolidColor ---

type solidColorData struct{ Color color.Pixel }

// SolidColor interns a flat fill: row[x_range] = color.
func (r *Registry) SolidColor(c color.Pixel) program.DataId {
	return r.cache.StoreProgramData(r.solidColor, &solidColorData{Color: c})
}

func runSolidColor(_ *program.Cache, row []color.Pixel, _ basics.IntRange, _ program.XTransform, _ float64, data any) {
	d := data.(*solidColorData)
	for i := range row {
		row[i] = d.Color
	}
}

// --- SourceOverColor ---

type sourceOverColorData struct{ Color color.Pixel }

// SourceOverColor interns row[i] = color.SourceOver(row[i]).
func (r *Registry) SourceOverColor(c color.Pixel) program.DataId {
	return r.cache.StoreProgramData(r.sourceOverColor, &sourceOverColorData{Color: c})
}

func runSourceOverColor(_ *program.Cache, row []color.Pixel, _ basics.IntRange, _ program.XTransform, _ float64, data any) {
	d := data.(*sourceOverColorData)
	for i, dst := range row {
		row[i] = color.SourceOver.Blend(d.Color, dst)
	}
}

// --- BlendColor ---

type blendColorData struct {
	Op    color.BlendOp
	Color color.Pixel
}

// BlendColor interns row[i] = op(color, row[i]) for an arbitrary blend
// operator tag.
func (r *Registry) BlendColor(op color.BlendOp, c color.Pixel) program.DataId {
	return r.cache.StoreProgramData(r.blendColor, &blendColorData{Op: op, Color: c})
}

func runBlendColor(_ *program.Cache, row []color.Pixel, _ basics.IntRange, _ program.XTransform, _ float64, data any) {
	d := data.(*blendColorData)
	for i, dst := range row {
		row[i] = d.Op.Blend(d.Color, dst)
	}
}

// --- BlendRendering ---

type blendRenderingData struct {
	Op           color.BlendOp
	Transparency float64
	Inner        program.DataId
}

// BlendRendering interns a composite fill: run Inner into a scratch row,
// scale it by Transparency, then alpha-compose over row using Op.
func (r *Registry) BlendRendering(op color.BlendOp, transparency float64, inner program.DataId) program.DataId {
	return r.cache.StoreProgramData(r.blendRendering, &blendRenderingData{Op: op, Transparency: transparency, Inner: inner})
}

func runBlendRendering(cache *program.Cache, row []color.Pixel, xRange basics.IntRange, xt program.XTransform, y float64, data any) {
	d := data.(*blendRenderingData)
	scratch := make([]color.Pixel, len(row))
	_ = cache.Run(d.Inner, scratch, xRange, xt, y)
	t := float32(d.Transparency)
	for i, dst := range row {
		src := scratch[i].Scale(t)
		row[i] = d.Op.Blend(src, dst)
	}
}

// --- Textures ---

// TextureSample selects which filter a texture program uses.
type TextureSample int

const (
	SampleNearest TextureSample = iota
	SampleBilinear
	SampleMipMap
)

type textureData struct {
	Texture      *texture.Texture
	Transform    geomx.Matrix // source (x,y) -> texture pixel (u,v)
	Transparency float64      // per-texture fill-transparency multiplier
}

// BasicTexture interns a nearest-neighbor texture fill: for each pixel,
// map source-x at y through transform to (u,v) and sample nearest, then
// source-over into the row. transparency multiplies the sampled texel
// before compositing; 1.0 is fully opaque.
func (r *Registry) BasicTexture(tex *texture.Texture, transform geomx.Matrix, transparency float64) program.DataId {
	return r.cache.StoreProgramData(r.basicTexture, &textureData{Texture: tex, Transform: transform, Transparency: transparency})
}

func runBasicTexture(_ *program.Cache, row []color.Pixel, xRange basics.IntRange, xt program.XTransform, y float64, data any) {
	d := data.(*textureData)
	t := float32(d.Transparency)
	for i := range row {
		px := xRange.X1 + i
		sx := xt.PixelXToSourceX(px)
		u, v := geomx.Apply(d.Transform, sx, y)
		sample := d.Texture.ReadPixel(0, int(u), int(v)).Scale(t)
		row[i] = color.SourceOver.Blend(sample, row[i])
	}
}

// BilinearTexture interns a bilinearly-filtered texture fill.
func (r *Registry) BilinearTexture(tex *texture.Texture, transform geomx.Matrix, transparency float64) program.DataId {
	return r.cache.StoreProgramData(r.bilinearTexture, &textureData{Texture: tex, Transform: transform, Transparency: transparency})
}

func runBilinearTexture(_ *program.Cache, row []color.Pixel, xRange basics.IntRange, xt program.XTransform, y float64, data any) {
	d := data.(*textureData)
	t := float32(d.Transparency)
	for i := range row {
		px := xRange.X1 + i
		sx := xt.PixelXToSourceX(px)
		u, v := geomx.Apply(d.Transform, sx, y)
		sample := d.Texture.ReadBilinear(0, u, v).Scale(t)
		row[i] = color.SourceOver.Blend(sample, row[i])
	}
}

// MipMapTexture interns a mip-filtered texture fill: the mip level is
// chosen from the transform's per-pixel derivative in texture space.
func (r *Registry) MipMapTexture(tex *texture.Texture, transform geomx.Matrix, transparency float64) program.DataId {
	return r.cache.StoreProgramData(r.mipmapTexture, &textureData{Texture: tex, Transform: transform, Transparency: transparency})
}

func runMipMapTexture(_ *program.Cache, row []color.Pixel, xRange basics.IntRange, xt program.XTransform, y float64, data any) {
	d := data.(*textureData)
	u0, v0 := geomx.Apply(d.Transform, xt.PixelXToSourceX(xRange.X1), y)
	u1, v1 := geomx.Apply(d.Transform, xt.PixelXToSourceX(xRange.X1+1), y)
	level := d.Texture.MipLevelForStep(u1-u0, v1-v0)
	t := float32(d.Transparency)
	for i := range row {
		px := xRange.X1 + i
		sx := xt.PixelXToSourceX(px)
		u, v := geomx.Apply(d.Transform, sx, y)
		sample := d.Texture.ReadBilinear(level, u, v).Scale(t)
		row[i] = color.SourceOver.Blend(sample, row[i])
	}
}

// --- LinearGradient ---

// GradientLUT is a 1D lookup table of premultiplied linear colors,
// indexed by u in [0,1], sampled with bilinear interpolation.
type GradientLUT struct {
	Stops []color.Pixel // sampled at even spacing across [0,1]
}

// Sample bilinearly interpolates the LUT at u, clamped to [0,1].
func (g *GradientLUT) Sample(u float64) color.Pixel {
	if len(g.Stops) == 0 {
		return color.Transparent
	}
	if len(g.Stops) == 1 {
		return g.Stops[0]
	}
	u = basics.Clamp(u, 0, 1)
	pos := u * float64(len(g.Stops)-1)
	i0 := int(pos)
	if i0 >= len(g.Stops)-1 {
		return g.Stops[len(g.Stops)-1]
	}
	t := float32(pos - float64(i0))
	a, b := g.Stops[i0], g.Stops[i0+1]
	return a.Scale(1 - t).Add(b.Scale(t))
}

type linearGradientData struct {
	LUT       *GradientLUT
	Alpha     float64
	Transform geomx.Matrix // source (x,y) -> gradient-space (u, _); only u used
}

// LinearGradient interns a gradient fill: map each pixel through
// transform to u, sample the LUT bilinearly, multiply by Alpha.
func (r *Registry) LinearGradient(lut *GradientLUT, alpha float64, transform geomx.Matrix) program.DataId {
	return r.cache.StoreProgramData(r.linearGradient, &linearGradientData{LUT: lut, Alpha: alpha, Transform: transform})
}

func runLinearGradient(_ *program.Cache, row []color.Pixel, xRange basics.IntRange, xt program.XTransform, y float64, data any) {
	d := data.(*linearGradientData)
	a := float32(d.Alpha)
	for i := range row {
		px := xRange.X1 + i
		sx := xt.PixelXToSourceX(px)
		u, _ := geomx.Apply(d.Transform, sx, y)
		sample := d.LUT.Sample(u).Scale(a)
		row[i] = color.SourceOver.Blend(sample, row[i])
	}
}

// --- Sprites ---

// SpriteSource is the capability a sprite program needs from its backing
// layer: an EdgePlan and the program cache it was built against.
type SpriteSource struct {
	Plan  *edgeplan.EdgePlan
	Cache *program.Cache
}

type basicSpriteData struct {
	Source    SpriteSource
	Transform geomx.Matrix // screen (x,y) -> sprite source-space (x,y)
}

// BasicSprite interns a sprite invocation at a fixed scale/translate:
// plan the sprite's own EdgePlan at the transformed row and recursively
// render it into the row via source-over. transform maps
// a point in the space this program is run in (the host layer's source
// space) into the sprite's own defining coordinate space; it is the
// inverse of whatever CTM placed the sprite; the drawing interpreter
// bakes that inverse once at draw time.
func (r *Registry) BasicSprite(src SpriteSource, transform geomx.Matrix) program.DataId {
	return r.cache.StoreProgramData(r.basicSprite, &basicSpriteData{Source: src, Transform: transform})
}

func runBasicSprite(_ *program.Cache, row []color.Pixel, xRange basics.IntRange, xt program.XTransform, y float64, data any) {
	d := data.(*basicSpriteData)
	renderSpriteInto(d.Source, d.Transform, row, xRange, xt, y)
}

// TransformedSprite is identical to BasicSprite but documents that the
// transform may be an arbitrary affine (rotation/skew), not just
// scale+translate. The underlying plan/render path is shared.
func (r *Registry) TransformedSprite(src SpriteSource, transform geomx.Matrix) program.DataId {
	return r.cache.StoreProgramData(r.transformedSprite, &basicSpriteData{Source: src, Transform: transform})
}

func runTransformedSprite(_ *program.Cache, row []color.Pixel, xRange basics.IntRange, xt program.XTransform, y float64, data any) {
	d := data.(*basicSpriteData)
	renderSpriteInto(d.Source, d.Transform, row, xRange, xt, y)
}

// renderSpriteInto maps the host row's pixel range into sprite-local
// source space through transform, derives a local per-pixel step from
// the transform's derivative (sampled one host pixel apart, the same
// technique MipLevelForStep uses) and recursively plans/composes the
// sprite's own EdgePlan over that local window.
func renderSpriteInto(src SpriteSource, transform geomx.Matrix, row []color.Pixel, xRange basics.IntRange, xt program.XTransform, y float64) {
	if src.Plan == nil || src.Plan.Empty() {
		return
	}
	x0 := xt.PixelXToSourceX(xRange.X1)
	x1 := xt.PixelXToSourceX(xRange.X1 + 1)
	originX, sy := geomx.Apply(transform, x0, y)
	nextX, _ := geomx.Apply(transform, x1, y)
	step := nextX - originX
	spriteXT := program.XTransform{OriginX: originX - float64(xRange.X1)*step, PixelStep: step}

	plan := scanplan.PlanPixelAligned(src.Plan, spriteXT, basics.IntRange{X1: xRange.X1, X2: xRange.X2}, sy)
	scratch := make([]color.Pixel, len(row))
	_ = rowcompose.Row(src.Cache, plan, scratch, xRange.X1, spriteXT)
	for i, s := range scratch {
		row[i] = color.SourceOver.Blend(s, row[i])
	}
}
