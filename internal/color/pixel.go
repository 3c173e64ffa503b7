// Package color implements the linear-space premultiplied pixel
// arithmetic, the sRGB-like external Color type, gamma conversion and the
// alpha-blend operation table.
package color

import "math"

// Pixel is a pre-multiplied linear RGBA pixel with four f32 components.
// Invariant: R,G,B <= A.
type Pixel struct {
	R, G, B, A float32
}

// Transparent is the zero value: transparent black.
var Transparent = Pixel{}

func (p Pixel) Add(o Pixel) Pixel {
	return Pixel{p.R + o.R, p.G + o.G, p.B + o.B, p.A + o.A}
}

func (p Pixel) Sub(o Pixel) Pixel {
	return Pixel{p.R - o.R, p.G - o.G, p.B - o.B, p.A - o.A}
}

func (p Pixel) Mul(o Pixel) Pixel {
	return Pixel{p.R * o.R, p.G * o.G, p.B * o.B, p.A * o.A}
}

func (p Pixel) Div(o Pixel) Pixel {
	return Pixel{divOrZero(p.R, o.R), divOrZero(p.G, o.G), divOrZero(p.B, o.B), divOrZero(p.A, o.A)}
}

func divOrZero(a, b float32) float32 {
	if b == 0 {
		return 0
	}
	return a / b
}

// Scale multiplies every component by a scalar coverage/alpha value.
func (p Pixel) Scale(s float32) Pixel {
	return Pixel{p.R * s, p.G * s, p.B * s, p.A * s}
}

// Clamped clips premultiplied components back into [0,A] and A into [0,1],
// restoring the pre-multiplied invariant after numerically noisy ops.
func (p Pixel) Clamped() Pixel {
	a := clamp32(p.A, 0, 1)
	return Pixel{
		R: clamp32(p.R, 0, a),
		G: clamp32(p.G, 0, a),
		B: clamp32(p.B, 0, a),
		A: a,
	}
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Color is the external sRGB-like API color: non-premultiplied, gamma
// encoded, components in [0,1].
type Color struct {
	R, G, B, A float64
}

// ToPixel decodes an external Color into a pre-multiplied linear Pixel
// using c^gamma decoding.
func (c Color) ToPixel(gamma float64) Pixel {
	r := math.Pow(clamp(c.R), gamma)
	g := math.Pow(clamp(c.G), gamma)
	b := math.Pow(clamp(c.B), gamma)
	a := clamp(c.A)
	return Pixel{
		R: float32(r * a),
		G: float32(g * a),
		B: float32(b * a),
		A: float32(a),
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// RGBA8 is the 8-bit gamma-corrected, pre-multiplied output realization
// used only at the output boundary.
type RGBA8 struct {
	R, G, B, A uint8
}
