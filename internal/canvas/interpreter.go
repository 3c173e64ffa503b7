package canvas

import (
	"log"
	"math"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/edge"
	"github.com/agg-go/scanraster/internal/edgeplan"
	"github.com/agg-go/scanraster/internal/filter"
	"github.com/agg-go/scanraster/internal/geomx"
	"github.com/agg-go/scanraster/internal/pixelprogram"
	"github.com/agg-go/scanraster/internal/program"
	"github.com/agg-go/scanraster/internal/texture"
)

// Diagnostics counts the conditions the interpreter absorbs internally
// instead of failing a command, so a caller can still observe that
// something was dropped.
type Diagnostics struct {
	ResourceUnknown   int
	ResourceExhausted int
	MalformedPath     int
}

type spriteKey struct {
	ns NamespaceId
	id SpriteId
}

type textureKey struct {
	ns NamespaceId
	id TextureId
}

// Interpreter consumes Command values and maintains DrawingState plus
// every Namespace's layers, sprites, textures and gradients. Drawing
// and rendering never run concurrently; Interpreter is not safe for
// concurrent Execute calls.
type Interpreter struct {
	cache *program.Cache
	progs *pixelprogram.Registry
	gamma *color.GammaTables
	ids   *idRegistry
	log   *log.Logger

	layers      map[layerKey]*Layer
	spriteLayer map[spriteKey]LayerId
	textures    map[textureKey]*texture.Texture
	gradients   map[gradientKey]*gradientBuilder

	state DrawingState
	Diag  Diagnostics

	maxTexturePixels int
}

// Config configures an Interpreter's resource limits and diagnostics
// sink.
type Config struct {
	Gamma            *color.GammaTables
	Logger           *log.Logger // optional; nil disables dropped-command logging
	MaxTexturePixels int         // 0 means unlimited
}

// NewInterpreter builds an Interpreter sharing cache with whatever
// Renderer will later consume its layers' EdgePlans.
func NewInterpreter(cache *program.Cache, cfg Config) *Interpreter {
	it := &Interpreter{
		cache:            cache,
		progs:            pixelprogram.NewRegistry(cache),
		gamma:            cfg.Gamma,
		ids:              newIDRegistry(),
		log:              cfg.Logger,
		layers:           make(map[layerKey]*Layer),
		spriteLayer:      make(map[spriteKey]LayerId),
		textures:         make(map[textureKey]*texture.Texture),
		gradients:        make(map[gradientKey]*gradientBuilder),
		maxTexturePixels: cfg.MaxTexturePixels,
	}
	it.state = newDrawingState(DefaultNamespace, 0)
	return it
}

// NewNamespace mints a fresh, isolated namespace.
func (it *Interpreter) NewNamespace() NamespaceId { return it.ids.NewNamespace() }

// NewLayerId/NewSpriteId/NewTextureId/NewGradientId mint local ids within
// ns.
func (it *Interpreter) NewLayerId(ns NamespaceId) LayerId       { return LayerId(it.ids.NewLocalID(ns)) }
func (it *Interpreter) NewSpriteId(ns NamespaceId) SpriteId     { return SpriteId(it.ids.NewLocalID(ns)) }
func (it *Interpreter) NewTextureId(ns NamespaceId) TextureId   { return TextureId(it.ids.NewLocalID(ns)) }
func (it *Interpreter) NewGradientId(ns NamespaceId) GradientId { return GradientId(it.ids.NewLocalID(ns)) }

// State exposes the current drawing state (read-only use expected).
func (it *Interpreter) State() DrawingState { return it.state }

// Layer returns (creating if absent) the layer for (ns,id), used by
// callers that need to hand a layer's EdgePlan to a Renderer after
// drawing.
func (it *Interpreter) Layer(ns NamespaceId, id LayerId) *Layer {
	return it.layer(layerKey{ns, id})
}

func (it *Interpreter) layer(key layerKey) *Layer {
	l, ok := it.layers[key]
	if !ok {
		l = newLayer()
		it.layers[key] = l
	}
	return l
}

func (it *Interpreter) currentLayer() *Layer {
	return it.layer(layerKey{it.state.Namespace, it.state.Layer})
}

func (it *Interpreter) dropf(format string, args ...any) {
	if it.log != nil {
		it.log.Printf(format, args...)
	}
}

func isFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Execute consumes one drawing command, mutating state and/or the
// current layer. Every failure mode is absorbed here: an unresolvable
// resource reference or a non-finite path coordinate drops the command
// (or just the offending segment) rather than returning an error.
func (it *Interpreter) Execute(c Command) {
	switch v := c.(type) {

	case MoveTo:
		if !isFinite(v.X, v.Y) {
			it.Diag.MalformedPath++
			it.dropf("canvas: dropped MoveTo with non-finite coordinates")
			return
		}
		it.state.MoveTo(v.X, v.Y)

	case LineTo:
		if !isFinite(v.X, v.Y) {
			it.Diag.MalformedPath++
			it.dropf("canvas: dropped LineTo with non-finite coordinates")
			return
		}
		it.state.LineTo(v.X, v.Y)

	case BezierTo:
		if !isFinite(v.C1X, v.C1Y, v.C2X, v.C2Y, v.X, v.Y) {
			it.Diag.MalformedPath++
			it.dropf("canvas: dropped BezierTo with non-finite coordinates")
			return
		}
		it.state.BezierTo(v.C1X, v.C1Y, v.C2X, v.C2Y, v.X, v.Y)

	case ClosePath:
		it.state.ClosePath()

	case Fill:
		it.doFill(v.Rule)

	case Stroke:
		it.doStroke()

	case SetFillColor:
		it.state.FillBrush = SolidBrush(v.Color)

	case SetStrokeColor:
		it.state.StrokeBrush = SolidBrush(v.Color)

	case SetFillTexture:
		it.state.FillBrush = Brush{Kind: BrushTexture, Texture: v.Texture, Sample: v.Sample, Transform: v.Transform, Alpha: v.Alpha}

	case SetFillGradient:
		it.state.FillBrush = Brush{Kind: BrushGradient, Gradient: v.Gradient, Alpha: v.Alpha, Transform: v.Transform}

	case SetLineWidth:
		it.state.LineWidth = v.Width

	case SetLineCap:
		it.state.Cap = basics.LineCap(v.Cap)

	case SetLineJoin:
		it.state.Join = basics.LineJoin(v.Join)

	case SetDashPattern:
		it.state.DashPattern = v.Lengths
		it.state.DashPhase = v.Phase

	case SetBlendMode:
		it.state.BlendMode = v.Mode

	case SetClipRect:
		// Bake the clip through the CTM now; under rotation this is the
		// axis-aligned bounding box of the transformed corners.
		corners := [4][2]float64{{v.X0, v.Y0}, {v.X1, v.Y0}, {v.X1, v.Y1}, {v.X0, v.Y1}}
		x0, y0 := geomx.Apply(it.state.CTM, corners[0][0], corners[0][1])
		r := basics.Rect{X1: x0, Y1: y0, X2: x0, Y2: y0}
		for _, c := range corners[1:] {
			x, y := geomx.Apply(it.state.CTM, c[0], c[1])
			if x < r.X1 {
				r.X1 = x
			}
			if x > r.X2 {
				r.X2 = x
			}
			if y < r.Y1 {
				r.Y1 = y
			}
			if y > r.Y2 {
				r.Y2 = y
			}
		}
		it.state.Clip = &r

	case ClearClip:
		it.state.Clip = nil

	case Translate:
		it.state.Translate(v.Dx, v.Dy)

	case Scale:
		it.state.Scale(v.Sx, v.Sy)

	case Rotate:
		it.state.Rotate(v.Radians)

	case PushState:
		l := it.currentLayer()
		l.StateStack = append(l.StateStack, it.state.clone())

	case PopState:
		l := it.currentLayer()
		if n := len(l.StateStack); n > 0 {
			it.state = l.StateStack[n-1]
			l.StateStack = l.StateStack[:n-1]
		}

	case SelectLayer:
		it.state.Layer = v.Layer

	case SwitchNamespace:
		it.state.Namespace = v.Namespace
		it.state.Layer = 0

	case SelectSprite:
		key := spriteKey{it.state.Namespace, v.Sprite}
		backing, ok := it.spriteLayer[key]
		if !ok {
			backing = it.NewLayerId(it.state.Namespace)
			it.spriteLayer[key] = backing
			it.layer(layerKey{it.state.Namespace, backing}).IsSprite = true
		}
		it.state.Layer = backing

	case DrawSprite:
		it.doDrawSprite(v.Sprite)

	case ClearLayer:
		it.clearLayer(it.currentLayer())

	case ClearCanvas:
		it.doClearCanvas(v.Color)

	case CreateTexture:
		it.doCreateTexture(v)

	case FilterTexture:
		it.doFilterTexture(v)

	case NewGradient:
		it.gradients[gradientKey{it.state.Namespace, v.Gradient}] = &gradientBuilder{}

	case GradientDirection:
		if gb, ok := it.gradients[gradientKey{it.state.Namespace, v.Gradient}]; ok {
			gb.x0, gb.y0, gb.x1, gb.y1 = v.X0, v.Y0, v.X1, v.Y1
			gb.haveDirection = true
		} else {
			it.Diag.ResourceUnknown++
		}

	case GradientAddStop:
		if gb, ok := it.gradients[gradientKey{it.state.Namespace, v.Gradient}]; ok {
			gb.stops = append(gb.stops, gradientStop{pos: v.Position, color: v.Color})
		} else {
			it.Diag.ResourceUnknown++
		}

	case SetFont, DrawText:
		// Text opcodes are no-ops here: Font*/DrawText arrive already
		// preprocessed into path commands by an external collaborator
		// (glyph-to-path conversion happens upstream).

	default:
		it.Diag.ResourceUnknown++
		it.dropf("canvas: dropped unknown command %T", c)
	}
}

// clearLayer releases every DataId the layer retained and resets its
// EdgePlan. Sprite-backed layers survive canvas clears unless explicitly
// selected and cleared.
func (it *Interpreter) clearLayer(l *Layer) {
	for _, id := range l.UsedData {
		it.cache.Release(id)
	}
	l.UsedData = nil
	l.Edges = edgeplan.NewEdgePlan()
	l.ZCursor = 0
}

func (it *Interpreter) doClearCanvas(c Color) {
	for _, l := range it.layers {
		if l.IsSprite {
			continue
		}
		it.clearLayer(l)
	}
	l := it.currentLayer()
	dataId := it.progs.SolidColor(c.ToPixel(it.gamma.Gamma()))
	l.retain(dataId)
	shape := edgeplan.NewShapeId()
	l.Edges.DeclareShape(shape, edgeplan.ShapeDescriptor{
		Programs: []program.DataId{dataId},
		IsOpaque: c.A >= 1,
		ZIndex:   l.ZCursor,
	})
	l.ZCursor++
	l.Edges.AddEdge(edge.NewRect(shape, math.Inf(-1), math.Inf(-1), math.Inf(1), math.Inf(1)))
}

func (c Color) ToPixel(gamma float64) color.Pixel {
	return color.Color{R: c.R, G: c.G, B: c.B, A: c.A}.ToPixel(gamma)
}

// resolveBrush interns b as a program.DataId in the current gamma/cache,
// composing any pattern transform with the current CTM inverse so
// texture/gradient programs (which sample in layer source space) land on
// the right pattern coordinate. A non-default blend mode resolves a
// solid brush to a BlendColor program and wraps texture/gradient
// brushes in BlendRendering; under the default mode a translucent solid
// brush resolves to SourceOverColor and an opaque one to SolidColor.
// Returns ok=false for an unresolvable
// brush, whose command is dropped whole.
func (it *Interpreter) resolveBrush(b Brush) (program.DataId, bool) {
	op := it.state.BlendMode
	blended := op != color.SourceOver && op != color.Over

	switch b.Kind {
	case BrushSolid:
		px := b.Color.ToPixel(it.gamma.Gamma())
		if blended {
			return it.progs.BlendColor(op, px), true
		}
		if px.A < 1 {
			return it.progs.SourceOverColor(px), true
		}
		return it.progs.SolidColor(px), true

	case BrushTexture:
		tex, ok := it.textures[textureKey{it.state.Namespace, b.Texture}]
		if !ok {
			it.Diag.ResourceUnknown++
			return 0, false
		}
		transform := geomx.Compose(b.Transform, it.state.CTMInverse)
		var inner program.DataId
		switch b.Sample {
		case SampleBilinear:
			inner = it.progs.BilinearTexture(tex, transform, b.Alpha)
		case SampleMipMap:
			inner = it.progs.MipMapTexture(tex, transform, b.Alpha)
		default:
			inner = it.progs.BasicTexture(tex, transform, b.Alpha)
		}
		return it.wrapBlend(inner), true

	case BrushGradient:
		gb, ok := it.gradients[gradientKey{it.state.Namespace, b.Gradient}]
		if !ok {
			it.Diag.ResourceUnknown++
			return 0, false
		}
		lut := gb.bake(it.gamma.Gamma())
		transform := geomx.Compose(b.Transform, it.state.CTMInverse)
		transform = geomx.Compose(gb.directionMatrix(), transform)
		return it.wrapBlend(it.progs.LinearGradient(lut, b.Alpha, transform)), true
	}
	it.Diag.ResourceUnknown++
	return 0, false
}

// wrapBlend wraps an already-interned program in a BlendRendering
// composite when a non-default blend mode is active. The inner DataId's
// creation reference is recorded on the current layer so a later clear
// releases it along with the wrapper.
func (it *Interpreter) wrapBlend(inner program.DataId) program.DataId {
	op := it.state.BlendMode
	if op == color.SourceOver || op == color.Over {
		return inner
	}
	it.currentLayer().retain(inner)
	return it.progs.BlendRendering(op, 1.0, inner)
}

// brushIsOpaque reports whether the resolved fill fully covers the
// background, enabling occlusion culling. Any blend mode other than
// source-over can expose the destination, so it disables the cutoff.
func (it *Interpreter) brushIsOpaque(b Brush) bool {
	if op := it.state.BlendMode; op != color.SourceOver && op != color.Over {
		return false
	}
	return b.Kind == BrushSolid && b.Color.A >= 1
}

// clipEdge wraps e in the active clip region, if any.
func (it *Interpreter) clipEdge(e edgeplan.EdgeDescriptor) edgeplan.EdgeDescriptor {
	if it.state.Clip == nil {
		return e
	}
	return edge.NewClipped(e, *it.state.Clip)
}

func (it *Interpreter) doFill(rule FillRule) {
	cubics := it.state.toCubics()
	if len(cubics) == 0 {
		it.state.ClearPath()
		return
	}
	dataId, ok := it.resolveBrush(it.state.FillBrush)
	if !ok {
		it.state.ClearPath()
		return
	}
	fr := basics.FillNonZero
	if rule == FillEvenOdd {
		fr = basics.FillEvenOdd
	}
	l := it.currentLayer()
	l.retain(dataId)
	shape := edgeplan.NewShapeId()
	l.Edges.DeclareShape(shape, edgeplan.ShapeDescriptor{
		Programs: []program.DataId{dataId},
		IsOpaque: it.brushIsOpaque(it.state.FillBrush) && it.state.Clip == nil,
		ZIndex:   l.ZCursor,
	})
	l.ZCursor++
	l.Edges.AddEdge(it.clipEdge(edge.NewBezierSubpath(shape, fr, cubics)))
	it.state.ClearPath()
}

func (it *Interpreter) doStroke() {
	polys, closed := it.state.toPolylines(basics.DefaultStrokeAccuracy)
	var cubics [][4][2]float64
	for i, pts := range polys {
		vpts := make([][2]float64, len(pts))
		copy(vpts, pts)
		if len(it.state.DashPattern) > 0 {
			// Dashing splits the polyline into open on-runs, each stroked
			// with caps at both ends; closed subpaths unroll first.
			for _, dash := range edge.DashPolyline(vpts, closed[i], it.state.DashPattern, it.state.DashPhase) {
				cubics = append(cubics, edge.StrokeOutline(dash, false, it.state.LineWidth, it.state.Cap, it.state.Join, it.state.MiterLimit, basics.DefaultStrokeAccuracy)...)
			}
			continue
		}
		cubics = append(cubics, edge.StrokeOutline(vpts, closed[i], it.state.LineWidth, it.state.Cap, it.state.Join, it.state.MiterLimit, basics.DefaultStrokeAccuracy)...)
	}
	if len(cubics) == 0 {
		it.state.ClearPath()
		return
	}
	dataId, ok := it.resolveBrush(it.state.StrokeBrush)
	if !ok {
		it.state.ClearPath()
		return
	}
	l := it.currentLayer()
	l.retain(dataId)
	shape := edgeplan.NewShapeId()
	l.Edges.DeclareShape(shape, edgeplan.ShapeDescriptor{
		Programs: []program.DataId{dataId},
		IsOpaque: it.brushIsOpaque(it.state.StrokeBrush) && it.state.Clip == nil,
		ZIndex:   l.ZCursor,
	})
	l.ZCursor++
	l.Edges.AddEdge(it.clipEdge(edge.NewBezierSubpath(shape, basics.FillNonZero, cubics)))
	it.state.ClearPath()
}

func (it *Interpreter) doDrawSprite(id SpriteId) {
	key := spriteKey{it.state.Namespace, id}
	backing, ok := it.spriteLayer[key]
	if !ok {
		it.Diag.ResourceUnknown++
		return
	}
	spriteLayer := it.layer(layerKey{it.state.Namespace, backing})
	if spriteLayer.Edges.Empty() {
		return
	}

	bbox := spriteBounds(spriteLayer.Edges)
	x0, y0 := geomx.Apply(it.state.CTM, bbox.X1, bbox.Y1)
	x1, y1 := geomx.Apply(it.state.CTM, bbox.X2, bbox.Y2)
	rect := basics.Rect{X1: x0, Y1: y0, X2: x1, Y2: y1}.Normalize()

	dataId := it.progs.BasicSprite(pixelprogram.SpriteSource{Plan: spriteLayer.Edges, Cache: it.cache}, it.state.CTMInverse)
	l := it.currentLayer()
	l.retain(dataId)
	shape := edgeplan.NewShapeId()
	l.Edges.DeclareShape(shape, edgeplan.ShapeDescriptor{
		Programs: []program.DataId{dataId},
		IsOpaque: false,
		ZIndex:   l.ZCursor,
	})
	l.ZCursor++
	l.Edges.AddEdge(edge.NewRect(shape, rect.X1, rect.Y1, rect.X2, rect.Y2))
}

func spriteBounds(plan *edgeplan.EdgePlan) basics.Rect {
	edges := plan.Edges()
	if len(edges) == 0 {
		return basics.Rect{}
	}
	bb := edges[0].BoundingBox()
	for _, e := range edges[1:] {
		bb = bb.Union(e.BoundingBox())
	}
	return bb
}

func (it *Interpreter) doCreateTexture(v CreateTexture) {
	tex, err := texture.Upload(v.Format, v.Width, v.Height, v.Data, it.gamma, it.maxTexturePixels)
	if err != nil {
		if err == texture.ErrResourceExhausted {
			it.Diag.ResourceExhausted++
		} else {
			it.Diag.MalformedPath++
		}
		it.dropf("canvas: texture upload rejected: %v", err)
		delete(it.textures, textureKey{it.state.Namespace, v.Texture})
		return
	}
	it.textures[textureKey{it.state.Namespace, v.Texture}] = tex
}

func (it *Interpreter) doFilterTexture(v FilterTexture) {
	key := textureKey{it.state.Namespace, v.Texture}
	tex, ok := it.textures[key]
	if !ok {
		it.Diag.ResourceUnknown++
		return
	}
	if v.ResizeWidth > 0 && v.ResizeHeight > 0 {
		tex = tex.Resize(v.ResizeWidth, v.ResizeHeight, v.ResizeFilter, it.gamma)
	}
	if v.BlurSigma > 0 {
		tex = texture.FromImage(filter.ImageGaussianBlur(tex.AsImage(), v.BlurSigma), it.gamma)
	}
	if v.GenMipmaps {
		tex.GenerateMipmaps()
	}
	it.textures[key] = tex
}
