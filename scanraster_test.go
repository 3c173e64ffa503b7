package scanraster

import "testing"

func TestCanvasFillAndRender(t *testing.T) {
	c := NewCanvas(Options{})
	c.Execute(SetFillColor{Color: Color{B: 1, A: 1}})
	c.Execute(MoveTo{X: 2, Y: 2})
	c.Execute(LineTo{X: 8, Y: 2})
	c.Execute(LineTo{X: 8, Y: 8})
	c.Execute(LineTo{X: 2, Y: 8})
	c.Execute(ClosePath{})
	c.Execute(Fill{Rule: FillNonZero})

	dest := make([]byte, 10*10*4)
	if err := c.Render(Frame{Width: 10, Height: 10}, dest); err != nil {
		t.Fatalf("Render: %v", err)
	}
	inside := (5*10 + 5) * 4
	if dest[inside+2] != 255 || dest[inside+3] != 255 {
		t.Errorf("expected opaque blue inside the rect, got %v", dest[inside:inside+4])
	}
	outside := 0
	if dest[outside+3] != 0 {
		t.Errorf("expected transparent outside the rect, got alpha %d", dest[outside+3])
	}
}

func TestCanvasRenderRejectsSmallBuffer(t *testing.T) {
	c := NewCanvas(Options{})
	dest := make([]byte, 10*10*4-1)
	if err := c.Render(Frame{Width: 10, Height: 10}, dest); err != ErrOutputBufferTooSmall {
		t.Fatalf("expected ErrOutputBufferTooSmall, got %v", err)
	}
}

func TestCanvasEmptyRenderIsTransparent(t *testing.T) {
	c := NewCanvas(Options{})
	dest := make([]byte, 4*4*4)
	for i := range dest {
		dest[i] = 0xAA
	}
	if err := c.Render(Frame{Width: 4, Height: 4}, dest); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for i, b := range dest {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0 (empty plan renders transparent black)", i, b)
		}
	}
}

func TestCanvasClearAndRedrawIsDeterministic(t *testing.T) {
	draw := func(c *Canvas) []byte {
		c.Execute(SetFillColor{Color: Color{R: 1, A: 1}})
		c.Execute(MoveTo{X: 1, Y: 1})
		c.Execute(LineTo{X: 5, Y: 1})
		c.Execute(LineTo{X: 5, Y: 5})
		c.Execute(LineTo{X: 1, Y: 5})
		c.Execute(ClosePath{})
		c.Execute(Fill{Rule: FillNonZero})
		dest := make([]byte, 8*8*4)
		if err := c.Render(Frame{Width: 8, Height: 8}, dest); err != nil {
			t.Fatalf("Render: %v", err)
		}
		return dest
	}

	c := NewCanvas(Options{})
	first := draw(c)
	c.Execute(ClearLayer{})
	second := draw(c)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("byte %d differs after clear and redraw: %d vs %d", i, first[i], second[i])
		}
	}
}
