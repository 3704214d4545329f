package pcb

import (
	"testing"

	"github.com/arl/pcbroute/geom"
	"github.com/stretchr/testify/assert"
)

func fx(i int) geom.Fixed { return geom.NewFixedFromInt(i) }

func TestFromAnchorsStraightLine(t *testing.T) {
	anchors := []TraceAnchor{
		{Position: geom.FixedVec2{X: fx(-30), Y: 0}, StartLayer: 0, EndLayer: 0},
		{Position: geom.FixedVec2{X: fx(30), Y: 0}, StartLayer: 0, EndLayer: 0},
	}
	tp := FromAnchors(anchors, 1, 0.5, 2, 0.5)
	assert.Len(t, tp.Segments, 1)
	assert.Len(t, tp.Vias, 0)
	assert.InDelta(t, 60.0, tp.TotalLength, 1e-6)
}

func TestFromAnchorsEmitsViaOnLayerChange(t *testing.T) {
	anchors := []TraceAnchor{
		{Position: geom.FixedVec2{X: 0, Y: 0}, StartLayer: 0, EndLayer: 0},
		{Position: geom.FixedVec2{X: fx(10), Y: 0}, StartLayer: 0, EndLayer: 1},
		{Position: geom.FixedVec2{X: fx(20), Y: 0}, StartLayer: 1, EndLayer: 1},
	}
	tp := FromAnchors(anchors, 1, 0.5, 2, 0.5)
	assert.Len(t, tp.Vias, 1)
	assert.Equal(t, 0, tp.Vias[0].MinLayer)
	assert.Equal(t, 1, tp.Vias[0].MaxLayer)
	assert.Len(t, tp.Segments, 2)
	assert.Equal(t, 0, tp.Segments[0].Layer)
	assert.Equal(t, 1, tp.Segments[1].Layer)
}

func TestSegmentCollidesWithClearance(t *testing.T) {
	a := TraceSegment{Start: geom.FixedVec2{X: fx(0), Y: 0}, End: geom.FixedVec2{X: fx(10), Y: 0}, Width: 1, Clearance: 1, Layer: 0}
	b := TraceSegment{Start: geom.FixedVec2{X: fx(5), Y: fx(1)}, End: geom.FixedVec2{X: fx(5), Y: fx(10)}, Width: 1, Clearance: 1, Layer: 0}
	assert.True(t, a.CollidesWith(b))

	far := TraceSegment{Start: geom.FixedVec2{X: fx(5), Y: fx(50)}, End: geom.FixedVec2{X: fx(5), Y: fx(60)}, Width: 1, Clearance: 0.1, Layer: 0}
	assert.False(t, a.CollidesWith(far))
}

func TestSegmentDifferentLayersNeverCollide(t *testing.T) {
	a := TraceSegment{Start: geom.FixedVec2{X: 0, Y: 0}, End: geom.FixedVec2{X: fx(10), Y: 0}, Width: 1, Clearance: 1, Layer: 0}
	b := TraceSegment{Start: geom.FixedVec2{X: fx(5), Y: 0}, End: geom.FixedVec2{X: fx(5), Y: fx(10)}, Width: 1, Clearance: 1, Layer: 1}
	assert.False(t, a.CollidesWith(b))
}

func TestGetScoreInUnitRange(t *testing.T) {
	tp := TracePath{TotalLength: 10}
	score := tp.GetScore(10)
	assert.True(t, score > 0 && score <= 1)
	assert.InDelta(t, 0.5, score, 1e-9)
}
