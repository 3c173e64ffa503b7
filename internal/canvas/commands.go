package canvas

import (
	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/geomx"
	"github.com/agg-go/scanraster/internal/texture"
)

// Matrix aliases geomx.Matrix so callers building commands don't need to
// import internal/geomx directly.
type Matrix = geomx.Matrix

// Command is the sealed drawing-command enum the interpreter consumes.
// Decode-time rejection of unknown wire variants is the external DSL's
// job; this Go-level enum is closed by construction (an unexported
// marker method), so Execute's switch is exhaustive over every variant
// that can exist, and a value that does not implement Command cannot be
// constructed outside this package.
type Command interface {
	isCommand()
}

type cmd struct{}

func (cmd) isCommand() {}

// --- Path construction ---

type MoveTo struct {
	cmd
	X, Y float64
}

type LineTo struct {
	cmd
	X, Y float64
}

type BezierTo struct {
	cmd
	C1X, C1Y, C2X, C2Y, X, Y float64
}

type ClosePath struct{ cmd }

// --- Fill / stroke ---

type FillRule int

const (
	FillNonZero FillRule = iota
	FillEvenOdd
)

// Fill materializes the current path into edges using the current fill
// brush, appends them to the current layer, then clears the path.
type Fill struct {
	cmd
	Rule FillRule
}

// Stroke materializes the current path's outline (per the current line
// width/cap/join) into edges using the current stroke brush.
type Stroke struct{ cmd }

// --- Brush / paint state ---

type SetFillColor struct {
	cmd
	Color Color
}

type SetStrokeColor struct {
	cmd
	Color Color
}

// SetFillTexture sets the fill brush to a texture pattern. Transform
// maps a point in the path's local (pre-CTM) space to the texture's
// pixel coordinates, e.g. Scale(texW/rectW, texH/rectH) to stretch a
// texture across a unit rect.
type SetFillTexture struct {
	cmd
	Texture   TextureId
	Sample    TextureSample
	Transform Matrix
	// Alpha is the texture's fill-transparency multiplier, distinct from
	// a per-draw blend alpha; 1.0 is fully opaque.
	Alpha float64
}

// SetFillGradient sets the fill brush to a gradient. Transform maps a
// point in the path's local space to gradient-space u; only the x
// component is sampled.
type SetFillGradient struct {
	cmd
	Gradient  GradientId
	Alpha     float64
	Transform Matrix
}

type SetLineWidth struct {
	cmd
	Width float64
}

type SetLineCap struct {
	cmd
	Cap int // basics.LineCap
}

type SetLineJoin struct {
	cmd
	Join int // basics.LineJoin
}

// SetDashPattern sets alternating on/off dash lengths in source units
// for subsequent strokes, starting Phase units into the pattern. An
// empty Lengths restores solid strokes.
type SetDashPattern struct {
	cmd
	Lengths []float64
	Phase   float64
}

// --- Compositing ---

// BlendMode selects the compositing operator subsequent fills and
// strokes use when their pixels land on the row.
type BlendMode = color.BlendOp

// Compositing operators selectable with SetBlendMode.
const (
	BlendSourceOver = color.SourceOver
	BlendDestOver   = color.DestOver
	BlendSourceIn   = color.SourceIn
	BlendDestIn     = color.DestIn
	BlendSourceOut  = color.SourceOut
	BlendDestOut    = color.DestOut
	BlendSourceAtop = color.SourceAtop
	BlendDestAtop   = color.DestAtop
	BlendXor        = color.Xor
	BlendMultiply   = color.Multiply
	BlendScreen     = color.Screen
)

// SetBlendMode switches the compositing operator for subsequent fills
// and strokes; solid brushes resolve to a BlendColor program and
// texture/gradient brushes are wrapped in a BlendRendering program.
type SetBlendMode struct {
	cmd
	Mode BlendMode
}

// --- Clipping ---

// SetClipRect restricts subsequent fills and strokes to an axis-aligned
// region, given in the current local space and baked through the CTM
// when the command executes (under a rotated CTM the clip is the
// axis-aligned bounding box of the transformed corners).
type SetClipRect struct {
	cmd
	X0, Y0, X1, Y1 float64
}

// ClearClip removes the clip region.
type ClearClip struct{ cmd }

// --- Transform stack ---

type Translate struct {
	cmd
	Dx, Dy float64
}

type Scale struct {
	cmd
	Sx, Sy float64
}

type Rotate struct {
	cmd
	Radians float64
}

type PushState struct{ cmd }
type PopState struct{ cmd }

// --- Layer / sprite / namespace selection ---

type SelectLayer struct {
	cmd
	Layer LayerId
}

// SelectSprite switches the current layer to sprite's backing layer, so
// subsequent Fill/Stroke commands draw into the sprite instead of the
// visible layer.
type SelectSprite struct {
	cmd
	Sprite SpriteId
}

// DrawSprite instantiates a BasicSpriteProgram referencing sprite's
// EdgePlan and appends it as a shape to the current layer, placed by the
// current CTM.
type DrawSprite struct {
	cmd
	Sprite SpriteId
}

type SwitchNamespace struct {
	cmd
	Namespace NamespaceId
}

// --- Clearing ---

type ClearLayer struct{ cmd }

type ClearCanvas struct {
	cmd
	Color Color
}

// --- Textures ---

type CreateTexture struct {
	cmd
	Texture TextureId
	Format  texture.Format
	Width   int
	Height  int
	Data    []byte
}

// FilterTexture post-processes an uploaded texture in place: an
// optional resample of the base level, an optional Gaussian blur, and
// optional mipmap generation, applied in that order.
type FilterTexture struct {
	cmd
	Texture TextureId
	// ResizeWidth/ResizeHeight, when both positive, resample the base
	// level to the given size with ResizeFilter.
	ResizeWidth  int
	ResizeHeight int
	ResizeFilter texture.ResizeFilter
	// BlurSigma, when positive, Gaussian-blurs the base level.
	BlurSigma  float64
	GenMipmaps bool
}

// --- Gradients (built incrementally) ---

type NewGradient struct {
	cmd
	Gradient GradientId
}

type GradientDirection struct {
	cmd
	Gradient       GradientId
	X0, Y0, X1, Y1 float64
}

type GradientAddStop struct {
	cmd
	Gradient GradientId
	Position float64
	Color    Color
}

// --- Text (preprocessed into paths elsewhere; no-ops here) ---

type SetFont struct {
	cmd
	Font FontId
}

type DrawText struct {
	cmd
	Text string
	X, Y float64
}
