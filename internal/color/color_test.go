package color

import "testing"

func TestSourceOverBasic(t *testing.T) {
	src := Pixel{R: 0, G: 0, B: 1, A: 1} // opaque blue
	dst := Pixel{R: 1, G: 1, B: 1, A: 1} // opaque white
	out := SourceOver.Blend(src, dst)
	if out != src {
		t.Fatalf("opaque source-over should fully occlude dst, got %+v", out)
	}
}

func TestGammaRoundTrip(t *testing.T) {
	g := NewGammaTables(2.2)
	for _, c := range []uint8{0, 1, 16, 64, 128, 200, 255} {
		px := g.DecodePixel(RGBA8{R: c, G: c, B: c, A: 255})
		back := g.EncodePixel(px)
		diff := int(back.R) - int(c)
		if diff < 0 {
			diff = -diff
		}
		if diff > 1 { // round trip must stay within 1/255
			t.Errorf("round trip c=%d -> %d (diff %d)", c, back.R, diff)
		}
	}
}

func TestPremultipliedInvariant(t *testing.T) {
	src := Color{R: 1, G: 0, B: 0, A: 0.5}
	px := src.ToPixel(2.2)
	if px.R > px.A+1e-6 || px.G > px.A+1e-6 || px.B > px.A+1e-6 {
		t.Fatalf("premultiplied invariant violated: %+v", px)
	}
}

func TestBlendOpDispatchByTag(t *testing.T) {
	// Ensure every declared tag resolves to a non-nil function, proving
	// dispatch is by enum tag rather than a partial table.
	ops := []BlendOp{Over, SourceOver, DestOver, SourceIn, DestIn, SourceOut, DestOut, SourceAtop, DestAtop, Xor, Multiply, Screen}
	for _, op := range ops {
		if op.Func() == nil {
			t.Errorf("blend op %d has no function", op)
		}
	}
}
