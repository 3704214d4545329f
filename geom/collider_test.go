package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCircleCircleCollision(t *testing.T) {
	a := NewCircleCollider(CircleCollider{Position: FloatVec2{0, 0}, Diameter: 4})
	b := NewCircleCollider(CircleCollider{Position: FloatVec2{3, 0}, Diameter: 4})
	assert.True(t, a.CollidesWith(b))

	c := NewCircleCollider(CircleCollider{Position: FloatVec2{10, 0}, Diameter: 4})
	assert.False(t, a.CollidesWith(c))
}

func TestPolygonCircleCollision(t *testing.T) {
	rectShape := NewRectangleShape(RectangleShape{Position: FloatVec2{0, 0}, Width: 10, Height: 2})
	rect := FromPrimShape(rectShape)
	inside := NewCircleCollider(CircleCollider{Position: FloatVec2{0, 0}, Diameter: 1})
	assert.True(t, rect.CollidesWith(inside))

	far := NewCircleCollider(CircleCollider{Position: FloatVec2{100, 100}, Diameter: 1})
	assert.False(t, rect.CollidesWith(far))
}

func TestBorderBorderPanics(t *testing.T) {
	b := NewBorderCollider(BorderCollider{PointOnBorder: FloatVec2{0, 0}, Normal: FloatVec2{0, 1}})
	assert.Panics(t, func() { b.CollidesWith(b) })
}

func TestPolygonBorderHalfPlane(t *testing.T) {
	border := NewBorderCollider(BorderCollider{PointOnBorder: FloatVec2{0, 50}, Normal: FloatVec2{0, -1}})
	// The normal points out of the board, so the board lies above y=50.
	insideRect := FromPrimShape(NewRectangleShape(RectangleShape{Position: FloatVec2{0, 60}, Width: 2, Height: 2}))
	assert.False(t, border.CollidesWith(insideRect))

	outsideRect := FromPrimShape(NewRectangleShape(RectangleShape{Position: FloatVec2{0, 0}, Width: 2, Height: 2}))
	assert.True(t, border.CollidesWith(outsideRect))
}
