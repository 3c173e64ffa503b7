// Package scanraster is a software 2D vector rasterization pipeline: it
// consumes a stream of drawing commands, accumulates per-layer edge
// plans, and renders them scanline by scanline into 8-bit RGBA frames
// without any GPU dependency.
//
// The pipeline has three layers:
//
//   - an edge plan per drawing layer: shape descriptors (z-order, paint
//     programs, opacity) plus edges that report where each shape crosses
//     a given scanline
//   - a scan planner that turns a row's edge crossings into ordered,
//     non-overlapping spans of "programs to run over pixel range [a,b)",
//     with an optional sub-pixel anti-aliasing variant
//   - pixel programs (solid fills, blends, textures, gradients, sprites)
//     that write premultiplied linear color into a scratch row, which is
//     gamma-encoded into the output frame
//
// Basic usage:
//
//	c := scanraster.NewCanvas(scanraster.Options{})
//	c.Execute(scanraster.SetFillColor{Color: scanraster.Color{R: 1, A: 1}})
//	c.Execute(scanraster.MoveTo{X: 10, Y: 10})
//	c.Execute(scanraster.LineTo{X: 90, Y: 10})
//	c.Execute(scanraster.LineTo{X: 90, Y: 90})
//	c.Execute(scanraster.ClosePath{})
//	c.Execute(scanraster.Fill{})
//	frame := make([]byte, 100*100*4)
//	err := c.Render(scanraster.Frame{Width: 100, Height: 100}, frame)
package scanraster

import (
	"github.com/agg-go/scanraster/internal/canvas"
	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/filter"
	"github.com/agg-go/scanraster/internal/program"
	"github.com/agg-go/scanraster/internal/renderer"
	"github.com/agg-go/scanraster/internal/texture"
)

// Command is the drawing-command enum a Canvas consumes; the concrete
// variants below are aliases of the interpreter's closed command set.
type Command = canvas.Command

// Path construction and painting commands.
type (
	MoveTo    = canvas.MoveTo
	LineTo    = canvas.LineTo
	BezierTo  = canvas.BezierTo
	ClosePath = canvas.ClosePath
	Fill      = canvas.Fill
	Stroke    = canvas.Stroke
)

// Brush and stroke-style commands.
type (
	SetFillColor    = canvas.SetFillColor
	SetStrokeColor  = canvas.SetStrokeColor
	SetFillTexture  = canvas.SetFillTexture
	SetFillGradient = canvas.SetFillGradient
	SetLineWidth    = canvas.SetLineWidth
	SetLineCap      = canvas.SetLineCap
	SetLineJoin     = canvas.SetLineJoin
	SetDashPattern  = canvas.SetDashPattern
)

// Compositing and clipping commands.
type (
	SetBlendMode = canvas.SetBlendMode
	SetClipRect  = canvas.SetClipRect
	ClearClip    = canvas.ClearClip
)

// BlendMode selects the compositing operator for SetBlendMode.
type BlendMode = canvas.BlendMode

// Compositing operators.
const (
	BlendSourceOver = canvas.BlendSourceOver
	BlendDestOver   = canvas.BlendDestOver
	BlendSourceIn   = canvas.BlendSourceIn
	BlendDestIn     = canvas.BlendDestIn
	BlendSourceOut  = canvas.BlendSourceOut
	BlendDestOut    = canvas.BlendDestOut
	BlendSourceAtop = canvas.BlendSourceAtop
	BlendDestAtop   = canvas.BlendDestAtop
	BlendXor        = canvas.BlendXor
	BlendMultiply   = canvas.BlendMultiply
	BlendScreen     = canvas.BlendScreen
)

// ResizeFilter selects the resampling kernel FilterTexture's resize
// fields use.
type ResizeFilter = texture.ResizeFilter

const (
	ResizeBilinear = texture.ResizeBilinear
	ResizeLanczos  = texture.ResizeLanczos
)

// Transform-stack and state commands.
type (
	Translate = canvas.Translate
	Scale     = canvas.Scale
	Rotate    = canvas.Rotate
	PushState = canvas.PushState
	PopState  = canvas.PopState
)

// Layer, sprite, namespace and clearing commands.
type (
	SelectLayer     = canvas.SelectLayer
	SelectSprite    = canvas.SelectSprite
	DrawSprite      = canvas.DrawSprite
	SwitchNamespace = canvas.SwitchNamespace
	ClearLayer      = canvas.ClearLayer
	ClearCanvas     = canvas.ClearCanvas
)

// Resource commands.
type (
	CreateTexture     = canvas.CreateTexture
	FilterTexture     = canvas.FilterTexture
	NewGradient       = canvas.NewGradient
	GradientDirection = canvas.GradientDirection
	GradientAddStop   = canvas.GradientAddStop
	SetFont           = canvas.SetFont
	DrawText          = canvas.DrawText
)

// Identifier and value types shared with commands.
type (
	Color       = canvas.Color
	Matrix      = canvas.Matrix
	FillRule    = canvas.FillRule
	NamespaceId = canvas.NamespaceId
	LayerId     = canvas.LayerId
	SpriteId    = canvas.SpriteId
	TextureId   = canvas.TextureId
	GradientId  = canvas.GradientId
	Diagnostics = canvas.Diagnostics
)

const (
	FillNonZero = canvas.FillNonZero
	FillEvenOdd = canvas.FillEvenOdd
)

// Filter is a line-oriented post-pass over composited linear rows;
// chains of filters can be applied during RenderFiltered.
type Filter = filter.Filter

// AlphaBlend scales every pixel by a constant alpha.
type AlphaBlend = filter.AlphaBlend

// NewHorizontalGaussian and NewVerticalGaussian build the two separable
// halves of a Gaussian blur of standard deviation sigma; applying both
// in sequence blurs in two dimensions.
func NewHorizontalGaussian(sigma float64) Filter { return filter.NewHorizontalGaussian(sigma) }
func NewVerticalGaussian(sigma float64) Filter   { return filter.NewVerticalGaussian(sigma) }

// ErrOutputBufferTooSmall is returned by Render when the destination is
// smaller than width*height*4 bytes; it is the only error the render
// path surfaces.
var ErrOutputBufferTooSmall = renderer.ErrOutputBufferTooSmall

// Options configures a Canvas.
type Options struct {
	// Gamma is the display gamma used to decode input colors and encode
	// output bytes; 0 means the default of 2.2.
	Gamma float64
	// MaxTexturePixels bounds texture uploads; 0 means unlimited.
	MaxTexturePixels int
	// Shard enables the sub-pixel anti-aliasing planner for rendering.
	Shard bool
}

// Canvas couples a drawing interpreter with a frame renderer over one
// shared program cache. Drawing (Execute) and rendering (Render) must
// not run concurrently; a frame is drawn, then rendered.
type Canvas struct {
	interp *canvas.Interpreter
	cache  *program.Cache
	gamma  *color.GammaTables
	shard  bool
}

// NewCanvas builds an empty canvas.
func NewCanvas(opts Options) *Canvas {
	g := opts.Gamma
	if g <= 0 {
		g = 2.2
	}
	gamma := color.NewGammaTables(g)
	cache := program.NewCache()
	interp := canvas.NewInterpreter(cache, canvas.Config{
		Gamma:            gamma,
		MaxTexturePixels: opts.MaxTexturePixels,
	})
	return &Canvas{interp: interp, cache: cache, gamma: gamma, shard: opts.Shard}
}

// Execute consumes one drawing command. Commands referencing unknown
// resources are dropped silently; see Diag for counters.
func (c *Canvas) Execute(cmd Command) { c.interp.Execute(cmd) }

// Diag reports how many commands were absorbed rather than applied.
func (c *Canvas) Diag() Diagnostics { return c.interp.Diag }

// NewNamespace mints an isolated namespace for sprite/texture/layer ids.
func (c *Canvas) NewNamespace() NamespaceId { return c.interp.NewNamespace() }

// NewLayerId, NewSpriteId, NewTextureId and NewGradientId mint local ids
// within ns.
func (c *Canvas) NewLayerId(ns NamespaceId) LayerId       { return c.interp.NewLayerId(ns) }
func (c *Canvas) NewSpriteId(ns NamespaceId) SpriteId     { return c.interp.NewSpriteId(ns) }
func (c *Canvas) NewTextureId(ns NamespaceId) TextureId   { return c.interp.NewTextureId(ns) }
func (c *Canvas) NewGradientId(ns NamespaceId) GradientId { return c.interp.NewGradientId(ns) }

// Frame describes one render request: the output size in pixels and the
// mapping from output pixels to source coordinates. A zero Frame beyond
// Width/Height renders source units 1:1 with pixels from the origin,
// sampling each row at its vertical center.
type Frame struct {
	Width  int
	Height int

	// Namespace/Layer select which layer to render; the zero values are
	// the defaults drawing starts on.
	Namespace NamespaceId
	Layer     LayerId

	// OriginX is the source x of pixel column 0; PixelStep the source
	// units per pixel (0 means 1).
	OriginX   float64
	PixelStep float64
}

// Render draws the selected layer into dest, a width*height*4 byte
// buffer of premultiplied 8-bit RGBA rows, top to bottom. It returns
// ErrOutputBufferTooSmall for an undersized dest and nil otherwise.
func (c *Canvas) Render(f Frame, dest []byte) error {
	r, slice := c.renderPlan(f)
	layer := c.interp.Layer(f.Namespace, f.Layer)
	return r.RenderToBuffer(layer.Edges, slice, dest)
}

// RenderFiltered is Render with a chain of post-pass filters applied to
// the composited linear rows before gamma encoding.
func (c *Canvas) RenderFiltered(f Frame, filters []Filter, dest []byte) error {
	r, slice := c.renderPlan(f)
	layer := c.interp.Layer(f.Namespace, f.Layer)
	return r.RenderFilteredToBuffer(layer.Edges, slice, filters, dest)
}

func (c *Canvas) renderPlan(f Frame) (*renderer.Renderer, renderer.RenderSlice) {
	step := f.PixelStep
	if step == 0 {
		step = 1
	}
	r := renderer.New(c.cache, renderer.Config{
		Shard:      c.shard,
		XTransform: program.XTransform{OriginX: f.OriginX, PixelStep: step},
		Gamma:      c.gamma,
	})
	ys := make([]float64, f.Height)
	for i := range ys {
		ys[i] = (float64(i) + 0.5) * step
	}
	return r, renderer.RenderSlice{Width: f.Width, YPositions: ys}
}
