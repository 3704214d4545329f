package postprocess

import (
	"testing"

	"github.com/arl/pcbroute/geom"
	"github.com/arl/pcbroute/pcb"
	"github.com/stretchr/testify/assert"
)

func noCollisions(pcb.TraceSegment) bool { return false }

func pt(x, y int) geom.FixedVec2 {
	return geom.NewFixedVec2(geom.NewFixedFromInt(x), geom.NewFixedFromInt(y))
}

func TestMergeCollinearDropsMiddleAnchor(t *testing.T) {
	anchors := []pcb.TraceAnchor{
		{Position: pt(0, 0), StartLayer: 0, EndLayer: 0},
		{Position: pt(2, 0), StartLayer: 0, EndLayer: 0},
		{Position: pt(4, 0), StartLayer: 0, EndLayer: 0},
	}
	out := mergeCollinearFixpoint(anchors)
	assert.Len(t, out, 2)
	assert.True(t, out[0].Position.Equal(pt(0, 0)))
	assert.True(t, out[1].Position.Equal(pt(4, 0)))
}

func TestMergeCollinearKeepsRealTurn(t *testing.T) {
	anchors := []pcb.TraceAnchor{
		{Position: pt(0, 0), StartLayer: 0, EndLayer: 0},
		{Position: pt(2, 0), StartLayer: 0, EndLayer: 0},
		{Position: pt(2, 2), StartLayer: 0, EndLayer: 0},
	}
	out := mergeCollinearFixpoint(anchors)
	assert.Len(t, out, 3)
}

func TestOptimizePreservesEndpointsAndLayers(t *testing.T) {
	raw := pcb.TracePath{
		Anchors: []pcb.TraceAnchor{
			{Position: pt(0, 0), StartLayer: 0, EndLayer: 0},
			{Position: pt(2, 0), StartLayer: 0, EndLayer: 0},
			{Position: pt(4, 0), StartLayer: 0, EndLayer: 0},
			{Position: pt(4, 2), StartLayer: 0, EndLayer: 0},
		},
		Segments: []pcb.TraceSegment{{Width: 0.2, Clearance: 0.1, Layer: 0}},
	}
	out := Optimize(raw, noCollisions)
	assert.True(t, out.Anchors[0].Position.Equal(raw.Anchors[0].Position))
	last := len(out.Anchors) - 1
	assert.True(t, out.Anchors[last].Position.Equal(raw.Anchors[len(raw.Anchors)-1].Position))
	assert.Equal(t, raw.Anchors[0].StartLayer, out.Anchors[0].StartLayer)
	assert.Equal(t, raw.Anchors[len(raw.Anchors)-1].EndLayer, out.Anchors[last].EndLayer)
}

func TestOptimizeNeverIntroducesCollision(t *testing.T) {
	blocked := func(seg pcb.TraceSegment) bool {
		// Reject any segment whose rectangle would pass through x=2,y=2.
		minX, maxX := seg.Start.X, seg.End.X
		if minX > maxX {
			minX, maxX = maxX, minX
		}
		minY, maxY := seg.Start.Y, seg.End.Y
		if minY > maxY {
			minY, maxY = maxY, minY
		}
		target := geom.NewFixedFromInt(2)
		return minX <= target && target <= maxX && minY <= target && target <= maxY
	}
	raw := pcb.TracePath{
		Anchors: []pcb.TraceAnchor{
			{Position: pt(0, 0), StartLayer: 0, EndLayer: 0},
			{Position: pt(0, 4), StartLayer: 0, EndLayer: 0},
			{Position: pt(4, 4), StartLayer: 0, EndLayer: 0},
		},
		Segments: []pcb.TraceSegment{{Width: 0.2, Clearance: 0.1, Layer: 0}},
	}
	out := Optimize(raw, blocked)
	for _, seg := range out.Segments {
		assert.False(t, blocked(seg))
	}
}
