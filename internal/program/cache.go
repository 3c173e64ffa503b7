// Package program implements the pixel-program cache: registering
// program definitions, interning per-draw program data with refcounted
// lifetimes, and dispatching a run by DataId.
package program

import (
	"fmt"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/color"
)

// ProgramId identifies a registered pixel-program kind.
type ProgramId int

// DataId is an opaque, refcounted key into the cache for one program's
// per-draw data blob.
type DataId int

// XTransform carries the source<->pixel mapping a program needs to map a
// pixel column back into source-space x.
type XTransform struct {
	OriginX   float64 // source-x at pixel column 0
	PixelStep float64 // source units per pixel (affine scale)
}

// PixelXToSourceX maps a pixel column to its source-space x coordinate.
func (xt XTransform) PixelXToSourceX(px int) float64 {
	return xt.OriginX + float64(px)*xt.PixelStep
}

// SourceXToPixelX is the inverse mapping, used by the scan planner to
// turn an edge intercept's source-space x into a (possibly fractional)
// pixel column before rounding to a boundary.
func (xt XTransform) SourceXToPixelX(x float64) float64 {
	return (x - xt.OriginX) / xt.PixelStep
}

// ProgramFunc writes pixels for data over [xRange.X1,xRange.X2) of row at
// source row y into row (a scratch span of linear premultiplied pixels
// indexed starting at xRange.X1).
type ProgramFunc func(cache *Cache, row []color.Pixel, xRange basics.IntRange, xt XTransform, y float64, data any)

type entry struct {
	program  ProgramId
	data     any
	refcount int
}

// Cache owns every registered program function and every interned data
// blob. It is built once before rendering and treated as read-only
// during a frame; retain/release only happen during the
// single-threaded interpreter phase.
type Cache struct {
	programs    []ProgramFunc
	entries     map[DataId]*entry
	nextProgram ProgramId
	nextData    DataId
}

// NewCache creates an empty program cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[DataId]*entry)}
}

// AddProgram registers a pixel-program definition, returning its id.
func (c *Cache) AddProgram(fn ProgramFunc) ProgramId {
	id := c.nextProgram
	c.nextProgram++
	c.programs = append(c.programs, fn)
	return id
}

// StoreProgramData interns data under program id, returning a new DataId
// with refcount 1.
func (c *Cache) StoreProgramData(pid ProgramId, data any) DataId {
	id := c.nextData
	c.nextData++
	c.entries[id] = &entry{program: pid, data: data, refcount: 1}
	return id
}

// Retain increments the refcount of an interned data blob.
func (c *Cache) Retain(id DataId) {
	if e, ok := c.entries[id]; ok {
		e.refcount++
	}
}

// Release decrements the refcount, freeing the blob at zero. Releasing
// an unknown id is a no-op so a double release cannot corrupt an
// unrelated entry.
func (c *Cache) Release(id DataId) {
	e, ok := c.entries[id]
	if !ok {
		return
	}
	e.refcount--
	if e.refcount <= 0 {
		delete(c.entries, id)
	}
}

// Data returns the interned blob for id, or nil if it has been released.
func (c *Cache) Data(id DataId) any {
	if e, ok := c.entries[id]; ok {
		return e.data
	}
	return nil
}

// Alive reports whether id still has a live entry.
func (c *Cache) Alive(id DataId) bool {
	_, ok := c.entries[id]
	return ok
}

// Run dispatches to the program registered for id's data, writing into
// row over xRange. A released DataId is a silent no-op: unknown-resource
// handling happens in the drawing interpreter, and by the time rendering
// runs a dangling reference is an internal bug, so Run degrades
// gracefully rather than panicking.
func (c *Cache) Run(id DataId, row []color.Pixel, xRange basics.IntRange, xt XTransform, y float64) error {
	e, ok := c.entries[id]
	if !ok {
		return nil
	}
	if int(e.program) < 0 || int(e.program) >= len(c.programs) {
		return fmt.Errorf("program: data %d references unknown program %d", id, e.program)
	}
	c.programs[e.program](c, row, xRange, xt, y, e.data)
	return nil
}
