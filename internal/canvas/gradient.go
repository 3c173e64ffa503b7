package canvas

import (
	"sort"

	"github.com/agg-go/scanraster/internal/color"
	"github.com/agg-go/scanraster/internal/geomx"
	"github.com/agg-go/scanraster/internal/pixelprogram"
)

// gradientStop is one incrementally-added color stop.
type gradientStop struct {
	pos   float64
	color Color
}

// gradientBuilder accumulates the incremental gradient command stream
// (NewGradient, GradientDirection, GradientAddStop): a gradient stays
// mutable between fills and is baked into a fixed
// pixelprogram.GradientLUT each time a brush referencing it resolves.
type gradientBuilder struct {
	stops          []gradientStop
	x0, y0, x1, y1 float64
	haveDirection  bool
}

const gradientLUTSize = 256

// bake converts the incremental stop list into a fixed-size LUT, sorted
// by position, sampling piecewise-linear interpolation between stops.
func (g *gradientBuilder) bake(gamma float64) *pixelprogram.GradientLUT {
	stops := append([]gradientStop(nil), g.stops...)
	sort.Slice(stops, func(i, j int) bool { return stops[i].pos < stops[j].pos })

	lut := &pixelprogram.GradientLUT{Stops: make([]color.Pixel, gradientLUTSize)}
	if len(stops) == 0 {
		return lut
	}
	for i := 0; i < gradientLUTSize; i++ {
		u := float64(i) / float64(gradientLUTSize-1)
		lut.Stops[i] = sampleStops(stops, u).ToPixel(gamma)
	}
	return lut
}

func sampleStops(stops []gradientStop, u float64) color.Color {
	if u <= stops[0].pos {
		return toInternalColor(stops[0].color)
	}
	last := stops[len(stops)-1]
	if u >= last.pos {
		return toInternalColor(last.color)
	}
	for i := 1; i < len(stops); i++ {
		if u <= stops[i].pos {
			a, b := stops[i-1], stops[i]
			span := b.pos - a.pos
			t := 0.5
			if span > 0 {
				t = (u - a.pos) / span
			}
			return lerpColor(toInternalColor(a.color), toInternalColor(b.color), t)
		}
	}
	return toInternalColor(last.color)
}

func toInternalColor(c Color) color.Color {
	return color.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func lerpColor(a, b color.Color, t float64) color.Color {
	return color.Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
		A: a.A + (b.A-a.A)*t,
	}
}

// directionMatrix projects a point onto the configured gradient axis,
// yielding u = ((p - p0) . d) / |d|^2 in the matrix's x output: u=0 at
// (x0,y0) and u=1 at (x1,y1). Identity when no direction was set.
func (g *gradientBuilder) directionMatrix() geomx.Matrix {
	if !g.haveDirection {
		return geomx.Identity
	}
	dx := g.x1 - g.x0
	dy := g.y1 - g.y0
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return geomx.Identity
	}
	return geomx.Matrix{dx / l2, 0, dy / l2, 0, -(g.x0*dx + g.y0*dy) / l2, 0}
}

type gradientKey struct {
	ns NamespaceId
	id GradientId
}
