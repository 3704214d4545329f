// Package pcb is the domain data model: pads, nets, connections, the
// trace-path geometry (anchors/segments/vias), and the problem/solution
// types that are the core's input and output contract.
//
// Grounded on original_source/shared/src/pad.rs, trace_path.rs and
// pcb_problem.rs.
package pcb

import (
	"math"

	"github.com/arl/pcbroute/geom"
)

// PadShapeKind discriminates a PadShape.
type PadShapeKind uint8

const (
	PadCircle PadShapeKind = iota
	PadRectangle
	PadRoundRect
)

// PadShape is the union of the three pad footprint shapes.
type PadShape struct {
	Kind                  PadShapeKind
	Diameter              float32 // Circle
	Width, Height         float32 // Rectangle, RoundRect
	CornerRadius          float32 // RoundRect
}

// PadLayer selects which copper layers a pad exists on.
type PadLayer uint8

const (
	Front PadLayer = iota
	Back
	All
)

// LayerRange returns the half-open [start, end) layer index range the pad
// occupies, given the board's layer count. Grounded on pad.rs's
// `get_iter`.
func (l PadLayer) LayerRange(numLayers int) (start, end int) {
	switch l {
	case Front:
		return 0, 1
	case Back:
		return numLayers - 1, numLayers
	default:
		return 0, numLayers
	}
}

// PadName identifies a pad within a net.
type PadName string

// Pad is a copper landing site for one component terminal.
type Pad struct {
	Name         PadName
	Position     geom.FloatVec2
	Shape        PadShape
	RotationDegs float32
	Clearance    float32
	Layer        PadLayer
}

// roundedRectToShapes decomposes a rounded rectangle into two axis
// rectangles and four corner circles, rotated and translated into place.
// Grounded on pad.rs's rounded_rect_to_shapes, expressed with plain
// trigonometry instead of cgmath's 3x3 affine matrices (same result: a
// rotation by `rotationDegs` applied to the four corner offsets).
func roundedRectToShapes(width, height, cornerRadius float32, position geom.FloatVec2, rotationDegs float32) []geom.PrimShape {
	vertical := geom.NewRectangleShape(geom.RectangleShape{
		Position: position, Width: width - 2*cornerRadius, Height: height, RotationInDegs: rotationDegs,
	})
	horizontal := geom.NewRectangleShape(geom.RectangleShape{
		Position: position, Width: width, Height: height - 2*cornerRadius, RotationInDegs: rotationDegs,
	})

	dyAbs := absf32(height/2 - cornerRadius)
	dxAbs := absf32(width/2 - cornerRadius)

	rad := float64(rotationDegs) * math.Pi / 180
	cos := float32(math.Cos(rad))
	sin := float32(math.Sin(rad))

	rotate := func(dx, dy float32) geom.FloatVec2 {
		return geom.FloatVec2{
			X: position.X + dx*cos-dy*sin,
			Y: position.Y + dx*sin+dy*cos,
		}
	}

	corners := [4]geom.FloatVec2{
		rotate(dxAbs, dyAbs),
		rotate(-dxAbs, dyAbs),
		rotate(dxAbs, -dyAbs),
		rotate(-dxAbs, -dyAbs),
	}

	shapes := []geom.PrimShape{vertical, horizontal}
	for _, c := range corners {
		shapes = append(shapes, geom.NewCircleShape(geom.CircleShape{Position: c, Diameter: cornerRadius * 2}))
	}
	return shapes
}

func absf32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// ToShapes returns the pad's footprint as primitive shapes.
func (p Pad) ToShapes() []geom.PrimShape {
	switch p.Shape.Kind {
	case PadCircle:
		return []geom.PrimShape{geom.NewCircleShape(geom.CircleShape{Position: p.Position, Diameter: p.Shape.Diameter})}
	case PadRectangle:
		return []geom.PrimShape{geom.NewRectangleShape(geom.RectangleShape{
			Position: p.Position, Width: p.Shape.Width, Height: p.Shape.Height, RotationInDegs: p.RotationDegs,
		})}
	case PadRoundRect:
		return roundedRectToShapes(p.Shape.Width, p.Shape.Height, p.Shape.CornerRadius, p.Position, p.RotationDegs)
	default:
		panic("pcb: unknown pad shape kind")
	}
}

// ToClearanceShapes returns the pad's footprint inflated outward by its
// clearance on every side.
func (p Pad) ToClearanceShapes() []geom.PrimShape {
	switch p.Shape.Kind {
	case PadCircle:
		return []geom.PrimShape{geom.NewCircleShape(geom.CircleShape{
			Position: p.Position, Diameter: p.Shape.Diameter + p.Clearance*2,
		})}
	case PadRectangle:
		return []geom.PrimShape{geom.NewRectangleShape(geom.RectangleShape{
			Position: p.Position, Width: p.Shape.Width + p.Clearance*2, Height: p.Shape.Height + p.Clearance*2,
			RotationInDegs: p.RotationDegs,
		})}
	case PadRoundRect:
		return roundedRectToShapes(
			p.Shape.Width+p.Clearance*2,
			p.Shape.Height+p.Clearance*2,
			p.Shape.CornerRadius+p.Clearance,
			p.Position, p.RotationDegs,
		)
	default:
		panic("pcb: unknown pad shape kind")
	}
}

// ToColliders converts ToShapes to colliders.
func (p Pad) ToColliders() []geom.Collider {
	shapes := p.ToShapes()
	out := make([]geom.Collider, len(shapes))
	for i, s := range shapes {
		out[i] = geom.FromPrimShape(s)
	}
	return out
}

// ToClearanceColliders converts ToClearanceShapes to colliders.
func (p Pad) ToClearanceColliders() []geom.Collider {
	shapes := p.ToClearanceShapes()
	out := make([]geom.Collider, len(shapes))
	for i, s := range shapes {
		out[i] = geom.FromPrimShape(s)
	}
	return out
}
