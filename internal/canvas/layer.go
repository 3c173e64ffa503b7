package canvas

import (
	"github.com/agg-go/scanraster/internal/edgeplan"
	"github.com/agg-go/scanraster/internal/program"
)

// Layer accumulates edges and retained program data for one drawable
// surface; a sprite's backing layer is a Layer with IsSprite set and is
// never rendered directly, only invoked through a sprite-draw command.
type Layer struct {
	Edges      *edgeplan.EdgePlan
	UsedData   []program.DataId
	ZCursor    int64
	StateStack []DrawingState
	IsSprite   bool
}

func newLayer() *Layer {
	return &Layer{Edges: edgeplan.NewEdgePlan()}
}

// retain records a DataId as used by this layer so ClearLayer and
// ClearCanvas can release it.
func (l *Layer) retain(id program.DataId) {
	l.UsedData = append(l.UsedData, id)
}

type layerKey struct {
	ns NamespaceId
	id LayerId
}
