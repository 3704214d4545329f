package geom

// PrimShape is the union of the three renderable/collidable primitive
// shapes. Grounded on original_source/shared/src/prim_shape.rs.
type PrimShape struct {
	Kind      ShapeKind
	Circle    CircleShape
	Rectangle RectangleShape
	Line      LineShape
}

// ShapeKind discriminates a PrimShape.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeRectangle
	ShapeLine
)

// CircleShape is a circle defined by centre and diameter.
type CircleShape struct {
	Position FloatVec2
	Diameter float32
}

// RectangleShape is a rectangle defined by centre, extents and a
// counter-clockwise rotation in degrees.
type RectangleShape struct {
	Position        FloatVec2
	Width, Height   float32
	RotationInDegs  float32
}

// LineShape is a line segment, used as a degenerate 2-vertex polygon for
// collision purposes (e.g. the board border outline).
type LineShape struct {
	Start, End FloatVec2
}

// NewCircleShape builds a PrimShape wrapping a circle.
func NewCircleShape(c CircleShape) PrimShape { return PrimShape{Kind: ShapeCircle, Circle: c} }

// NewRectangleShape builds a PrimShape wrapping a rectangle.
func NewRectangleShape(r RectangleShape) PrimShape {
	return PrimShape{Kind: ShapeRectangle, Rectangle: r}
}

// NewLineShape builds a PrimShape wrapping a line.
func NewLineShape(l LineShape) PrimShape { return PrimShape{Kind: ShapeLine, Line: l} }
