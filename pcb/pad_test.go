package pcb

import (
	"testing"

	"github.com/arl/pcbroute/geom"
	"github.com/stretchr/testify/assert"
)

func TestCirclePadShapes(t *testing.T) {
	p := Pad{Name: "P1", Position: geom.FloatVec2{X: 1, Y: 2}, Shape: PadShape{Kind: PadCircle, Diameter: 4}, Clearance: 0.5}
	shapes := p.ToShapes()
	assert.Len(t, shapes, 1)
	assert.Equal(t, geom.ShapeCircle, shapes[0].Kind)

	clearance := p.ToClearanceShapes()
	assert.InDelta(t, 5.0, clearance[0].Circle.Diameter, 1e-6)
}

func TestRoundRectPadDecomposesIntoSixShapes(t *testing.T) {
	p := Pad{
		Name:     "P2",
		Position: geom.FloatVec2{X: 0, Y: 0},
		Shape:    PadShape{Kind: PadRoundRect, Width: 10, Height: 6, CornerRadius: 1},
	}
	shapes := p.ToShapes()
	assert.Len(t, shapes, 6)
}

func TestPadLayerRange(t *testing.T) {
	fs, fe := Front.LayerRange(4)
	assert.Equal(t, 0, fs)
	assert.Equal(t, 1, fe)
	bs, be := Back.LayerRange(4)
	assert.Equal(t, 3, bs)
	assert.Equal(t, 4, be)
	as, ae := All.LayerRange(4)
	assert.Equal(t, 0, as)
	assert.Equal(t, 4, ae)
}
