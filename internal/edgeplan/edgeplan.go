// Package edgeplan implements the scene-graph of shape edges tagged with
// shape identifiers, plus the z-ordered shape-descriptor table and
// per-scanline intercept queries.
package edgeplan

import (
	"sort"
	"sync/atomic"

	"github.com/agg-go/scanraster/internal/basics"
	"github.com/agg-go/scanraster/internal/program"
)

// ShapeId is a process-unique opaque identifier minted monotonically.
// Equality is identity; it is only ever used as a map key.
type ShapeId int64

var shapeCounter atomic.Int64

// NewShapeId mints a fresh, process-unique shape id. This is the one
// piece of global mutable state the rendering core needs:
// a single atomic fetch-add, no locks.
func NewShapeId() ShapeId {
	return ShapeId(shapeCounter.Add(1))
}

// ShapeDescriptor describes a shape's paint and z-order.
type ShapeDescriptor struct {
	Programs []program.DataId
	IsOpaque bool
	ZIndex   int64
	// seq breaks z-index ties by registration order.
	seq int64
}

// Intercept is a single scanline crossing reported by an edge, without
// its owning shape (the plan attaches that when merging across edges).
type Intercept struct {
	Dir basics.Direction
	X   float64
}

// EdgeDescriptor is the capability interface every concrete edge
// primitive implements.
type EdgeDescriptor interface {
	Shape() ShapeId
	BoundingBox() basics.Rect
	Intercepts(y float64) []Intercept
}

// ShapeIntercept is one edge crossing merged into plan-wide coordinates,
// tagged with the owning shape.
type ShapeIntercept struct {
	Shape ShapeId
	Dir   basics.Direction
	X     float64
}

// EdgePlan is the complete set of edges plus shape metadata for a scene
// or layer. Not mutated concurrently with rendering.
type EdgePlan struct {
	shapes   map[ShapeId]ShapeDescriptor
	edges    []EdgeDescriptor
	seqNext  int64
	prepared bool
	byY1     []int // indices into edges, sorted by BoundingBox().Y1
	maxY2Run []float64
}

// NewEdgePlan creates an empty plan.
func NewEdgePlan() *EdgePlan {
	return &EdgePlan{shapes: make(map[ShapeId]ShapeDescriptor)}
}

// DeclareShape idempotently (re)registers a shape's descriptor.
func (p *EdgePlan) DeclareShape(id ShapeId, desc ShapeDescriptor) {
	if existing, ok := p.shapes[id]; ok {
		desc.seq = existing.seq
	} else {
		desc.seq = p.seqNext
		p.seqNext++
	}
	p.shapes[id] = desc
	p.prepared = false
}

// Shape returns the descriptor registered for id, if any.
func (p *EdgePlan) Shape(id ShapeId) (ShapeDescriptor, bool) {
	d, ok := p.shapes[id]
	return d, ok
}

// AddEdge appends an edge to the plan. Every edge's ShapeId must be
// present in shapes by the time intercepts are queried; edges and shapes
// may be declared in either order while a layer is being built.
func (p *EdgePlan) AddEdge(e EdgeDescriptor) {
	p.edges = append(p.edges, e)
	p.prepared = false
}

// Edges exposes the raw edge list (used by sprite instancing and tests).
func (p *EdgePlan) Edges() []EdgeDescriptor { return p.edges }

// Empty reports whether the plan has no edges.
func (p *EdgePlan) Empty() bool { return len(p.edges) == 0 }

// Prepare sorts edges by bounding-box min-y and builds a running max-Y2
// array so InterceptsOnScanline can binary-search to the first edge that
// could possibly still be active, then scan forward checking Y2. An
// interval tree would answer the same query; the sorted array plus
// running max is close enough for scenes whose edges have comparable
// vertical extents.
func (p *EdgePlan) Prepare() {
	idx := make([]int, len(p.edges))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool {
		return p.edges[idx[a]].BoundingBox().Y1 < p.edges[idx[b]].BoundingBox().Y1
	})
	maxRun := make([]float64, len(idx))
	running := -1e300
	for i, ei := range idx {
		y2 := p.edges[ei].BoundingBox().Y2
		if y2 > running {
			running = y2
		}
		maxRun[i] = running
	}
	p.byY1 = idx
	p.maxY2Run = maxRun
	p.prepared = true
}

// InterceptsOnScanline returns the union of all edges' intercepts at row
// y, sorted by x ascending.
func (p *EdgePlan) InterceptsOnScanline(y float64) []ShapeIntercept {
	if !p.prepared {
		p.Prepare()
	}

	// Binary search for the last index whose running max-Y2 is still
	// below y: everything before that can be skipped outright.
	lo := sort.Search(len(p.maxY2Run), func(i int) bool {
		return p.maxY2Run[i] > y
	})

	var out []ShapeIntercept
	for i := lo; i < len(p.byY1); i++ {
		e := p.edges[p.byY1[i]]
		bb := e.BoundingBox()
		if bb.Y1 > y {
			break
		}
		if !bb.ContainsY(y) {
			continue
		}
		shape := e.Shape()
		for _, ic := range e.Intercepts(y) {
			out = append(out, ShapeIntercept{Shape: shape, Dir: ic.Dir, X: ic.X})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].X < out[b].X })
	return out
}

// ZIndexLess orders two shapes by ZIndex, then registration order.
func (p *EdgePlan) ZIndexLess(a, b ShapeId) bool {
	da := p.shapes[a]
	db := p.shapes[b]
	if da.ZIndex != db.ZIndex {
		return da.ZIndex < db.ZIndex
	}
	return da.seq < db.seq
}
