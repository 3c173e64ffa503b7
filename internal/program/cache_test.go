package program

import (
	"testing"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/color"
)

func TestStoreRetainRelease(t *testing.T) {
	c := NewCache()
	pid := c.AddProgram(func(_ *Cache, _ []color.Pixel, _ basics.IntRange, _ XTransform, _ float64, _ any) {})

	id := c.StoreProgramData(pid, "blob")
	if !c.Alive(id) {
		t.Fatal("freshly stored data should be alive with refcount 1")
	}

	c.Retain(id)
	c.Release(id)
	if !c.Alive(id) {
		t.Fatal("data should survive a release while another retain holds it")
	}

	c.Release(id)
	if c.Alive(id) {
		t.Fatal("data should be freed when the refcount reaches zero")
	}
	if c.Data(id) != nil {
		t.Fatal("released data should read back as nil")
	}
}

func TestReleaseUnknownIdIsNoop(t *testing.T) {
	c := NewCache()
	c.Release(DataId(12345)) // must not panic
}

func TestDataIdsNotAliasedAcrossPrograms(t *testing.T) {
	c := NewCache()
	p1 := c.AddProgram(func(_ *Cache, _ []color.Pixel, _ basics.IntRange, _ XTransform, _ float64, _ any) {})
	p2 := c.AddProgram(func(_ *Cache, _ []color.Pixel, _ basics.IntRange, _ XTransform, _ float64, _ any) {})

	a := c.StoreProgramData(p1, 1)
	b := c.StoreProgramData(p2, 2)
	if a == b {
		t.Fatalf("data ids must be unique across programs, got %d twice", a)
	}
}

func TestRunDispatchesToRegisteredProgram(t *testing.T) {
	c := NewCache()
	var gotData any
	pid := c.AddProgram(func(_ *Cache, row []color.Pixel, _ basics.IntRange, _ XTransform, _ float64, data any) {
		gotData = data
		for i := range row {
			row[i] = color.Pixel{A: 1}
		}
	})
	id := c.StoreProgramData(pid, "payload")

	row := make([]color.Pixel, 3)
	if err := c.Run(id, row, basics.IntRange{X1: 0, X2: 3}, XTransform{PixelStep: 1}, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotData != "payload" {
		t.Errorf("program received data %v, want payload", gotData)
	}
	for i, p := range row {
		if p.A != 1 {
			t.Errorf("row[%d] not written by program: %+v", i, p)
		}
	}
}

func TestRunReleasedIdIsNoop(t *testing.T) {
	c := NewCache()
	ran := false
	pid := c.AddProgram(func(_ *Cache, _ []color.Pixel, _ basics.IntRange, _ XTransform, _ float64, _ any) {
		ran = true
	})
	id := c.StoreProgramData(pid, nil)
	c.Release(id)

	row := make([]color.Pixel, 1)
	if err := c.Run(id, row, basics.IntRange{X1: 0, X2: 1}, XTransform{PixelStep: 1}, 0); err != nil {
		t.Fatalf("Run on a released id should degrade silently, got %v", err)
	}
	if ran {
		t.Error("a released id must not dispatch its program")
	}
}

func TestXTransformAffineInvariant(t *testing.T) {
	xt := XTransform{OriginX: 3.5, PixelStep: 0.25}
	for x := -4; x < 4; x++ {
		d := xt.PixelXToSourceX(x+1) - xt.PixelXToSourceX(x)
		if d != xt.PixelStep {
			t.Errorf("pixel_x_to_source_x(%d+1) - pixel_x_to_source_x(%d) = %v, want %v", x, x, d, xt.PixelStep)
		}
	}
	// Round-trip: source -> pixel -> source.
	src := 7.75
	if back := xt.PixelXToSourceX(int(xt.SourceXToPixelX(src))); back != src {
		t.Errorf("round trip %v -> %v", src, back)
	}
}
