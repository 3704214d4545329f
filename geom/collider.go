package geom

import "math"

// Collider is the union of the three collidable shapes used by the
// spatial index and the A* collision oracle. Grounded on
// original_source/shared/src/collider.rs.
type Collider struct {
	Kind    ColliderKind
	Circle  CircleCollider
	Polygon PolygonCollider
	Border  BorderCollider
}

// ColliderKind discriminates a Collider.
type ColliderKind uint8

const (
	ColliderCircle ColliderKind = iota
	ColliderPolygon
	ColliderBorder
)

// CircleCollider is a circle collider.
type CircleCollider struct {
	Position FloatVec2
	Diameter float32
}

// PolygonCollider is a convex polygon (or, with exactly two vertices, a
// line) used only for collision testing, never rendering.
type PolygonCollider struct {
	Verts []FloatVec2
}

// BorderCollider is an infinite half-plane boundary: everything on the side
// the normal points toward is "outside the board", and a shape collides
// with the border when any part of it reaches past PointOnBorder on that side.
type BorderCollider struct {
	PointOnBorder FloatVec2
	Normal        FloatVec2
}

// NewCircleCollider builds a Collider wrapping a circle.
func NewCircleCollider(c CircleCollider) Collider { return Collider{Kind: ColliderCircle, Circle: c} }

// NewPolygonCollider builds a Collider wrapping a polygon.
func NewPolygonCollider(p PolygonCollider) Collider {
	return Collider{Kind: ColliderPolygon, Polygon: p}
}

// NewBorderCollider builds a Collider wrapping a border half-plane.
func NewBorderCollider(b BorderCollider) Collider { return Collider{Kind: ColliderBorder, Border: b} }

// FromPrimShape converts a PrimShape to its collider, rotating rectangles
// into polygons the way rectangle_to_polygon does in the original.
func FromPrimShape(s PrimShape) Collider {
	switch s.Kind {
	case ShapeCircle:
		return NewCircleCollider(CircleCollider{Position: s.Circle.Position, Diameter: s.Circle.Diameter})
	case ShapeRectangle:
		return NewPolygonCollider(rectangleToPolygon(s.Rectangle))
	case ShapeLine:
		return NewPolygonCollider(PolygonCollider{Verts: []FloatVec2{s.Line.Start, s.Line.End}})
	default:
		panic("geom: unknown PrimShape kind")
	}
}

func rectangleToPolygon(r RectangleShape) PolygonCollider {
	hw := r.Width / 2
	hh := r.Height / 2
	corners := [4]FloatVec2{
		{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh},
	}
	rad := float64(r.RotationInDegs) * math.Pi / 180
	cos := float32(math.Cos(rad))
	sin := float32(math.Sin(rad))
	verts := make([]FloatVec2, 4)
	for i, c := range corners {
		rx := c.X*cos - c.Y*sin
		ry := c.X*sin + c.Y*cos
		verts[i] = FloatVec2{X: r.Position.X + rx, Y: r.Position.Y + ry}
	}
	return PolygonCollider{Verts: verts}
}

func circleCircle(a, b CircleCollider) bool {
	r1 := a.Diameter / 2
	r2 := b.Diameter / 2
	dx := a.Position.X - b.Position.X
	dy := a.Position.Y - b.Position.Y
	distSq := sqr32(dx) + sqr32(dy)
	return distSq < sqr32(r1+r2)
}

func projectPolygon(p PolygonCollider, axis FloatVec2) (min, max float32) {
	min = math.MaxFloat32
	max = -math.MaxFloat32
	for _, v := range p.Verts {
		proj := v.Dot(axis)
		if proj < min {
			min = proj
		}
		if proj > max {
			max = proj
		}
	}
	return
}

func projectCircle(center FloatVec2, radius float32, axis FloatVec2) (min, max float32) {
	c := center.Dot(axis)
	return c - radius, c + radius
}

func projectionsOverlap(minA, maxA, minB, maxB float32) bool {
	return !(maxA < minB || maxB < minA)
}

func polygonEdgeCount(p PolygonCollider) int {
	if len(p.Verts) == 2 {
		return 1
	}
	return len(p.Verts)
}

func polygonCircle(p PolygonCollider, c CircleCollider) bool {
	radius := c.Diameter / 2
	n := polygonEdgeCount(p)
	for i := 0; i < n; i++ {
		a := p.Verts[i]
		b := p.Verts[(i+1)%len(p.Verts)]
		edge := b.Sub(a)
		normal := edge.Perp().Normalize()
		minP, maxP := projectPolygon(p, normal)
		minC, maxC := projectCircle(c.Position, radius, normal)
		if !projectionsOverlap(minP, maxP, minC, maxC) {
			return false
		}
	}
	minDistSq := float32(math.MaxFloat32)
	closest := p.Verts[0]
	for _, v := range p.Verts {
		d := v.Sub(c.Position).Magnitude2()
		if d < minDistSq {
			minDistSq = d
			closest = v
		}
	}
	axis := closest.Sub(c.Position).Normalize()
	minP, maxP := projectPolygon(p, axis)
	minC, maxC := projectCircle(c.Position, radius, axis)
	return projectionsOverlap(minP, maxP, minC, maxC)
}

func polygonsCollide(a, b PolygonCollider) bool {
	na := polygonEdgeCount(a)
	for i := 0; i < na; i++ {
		edge := a.Verts[(i+1)%len(a.Verts)].Sub(a.Verts[i])
		axis := edge.Perp().Normalize()
		minA, maxA := projectPolygon(a, axis)
		minB, maxB := projectPolygon(b, axis)
		if !projectionsOverlap(minA, maxA, minB, maxB) {
			return false
		}
	}
	nb := polygonEdgeCount(b)
	for i := 0; i < nb; i++ {
		edge := b.Verts[(i+1)%len(b.Verts)].Sub(b.Verts[i])
		axis := edge.Perp().Normalize()
		minA, maxA := projectPolygon(a, axis)
		minB, maxB := projectPolygon(b, axis)
		if !projectionsOverlap(minA, maxA, minB, maxB) {
			return false
		}
	}
	return true
}

func polygonBorder(p PolygonCollider, b BorderCollider) bool {
	axis := b.Normal.Normalize()
	_, maxP := projectPolygon(p, axis)
	borderProj := b.PointOnBorder.Dot(axis)
	return maxP > borderProj
}

func circleBorder(c CircleCollider, b BorderCollider) bool {
	radius := c.Diameter / 2
	_, maxC := projectCircle(c.Position, radius, b.Normal)
	borderProj := b.PointOnBorder.Dot(b.Normal.Normalize())
	return maxC > borderProj
}

// CollidesWith reports whether c and other overlap. Border⇔Border is
// undefined and panics, matching the original (it is never exercised: the
// board border set is only ever tested against traces/pads, never against
// itself).
func (c Collider) CollidesWith(other Collider) bool {
	switch c.Kind {
	case ColliderCircle:
		switch other.Kind {
		case ColliderCircle:
			return circleCircle(c.Circle, other.Circle)
		case ColliderPolygon:
			return polygonCircle(other.Polygon, c.Circle)
		case ColliderBorder:
			return circleBorder(c.Circle, other.Border)
		}
	case ColliderPolygon:
		switch other.Kind {
		case ColliderCircle:
			return polygonCircle(c.Polygon, other.Circle)
		case ColliderPolygon:
			return polygonsCollide(c.Polygon, other.Polygon)
		case ColliderBorder:
			return polygonBorder(c.Polygon, other.Border)
		}
	case ColliderBorder:
		switch other.Kind {
		case ColliderCircle:
			return circleBorder(other.Circle, c.Border)
		case ColliderPolygon:
			return polygonBorder(other.Polygon, c.Border)
		case ColliderBorder:
			panic("geom: border-with-border collision is not defined")
		}
	}
	panic("geom: unknown collider kind combination")
}
