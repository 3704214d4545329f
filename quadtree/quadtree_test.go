package quadtree

import (
	"testing"

	"github.com/arl/pcbroute/geom"
	"github.com/stretchr/testify/assert"
)

func circleAt(x, y, d float32) geom.Collider {
	return geom.NewCircleCollider(geom.CircleCollider{Position: geom.FloatVec2{X: x, Y: y}, Diameter: d})
}

func TestInsertAndQueryContainment(t *testing.T) {
	n := New(-100, 100, -100, 100)
	c := circleAt(10, 10, 2)
	assert.True(t, n.Insert(c))
	assert.True(t, n.CollidesWith(c))
}

func TestInsertRejectsOutOfBounds(t *testing.T) {
	n := New(-10, 10, -10, 10)
	c := circleAt(50, 50, 2)
	assert.False(t, n.Insert(c))
}

func TestSubdivisionOnOverflow(t *testing.T) {
	n := New(-100, 100, -100, 100)
	for i := 0; i < MaxObjects+1; i++ {
		n.Insert(circleAt(float32(i), float32(i), 1))
	}
	assert.NotNil(t, n.Children)
}

func TestCollidesWithSetMiss(t *testing.T) {
	n := New(-100, 100, -100, 100)
	n.Insert(circleAt(0, 0, 2))
	assert.False(t, n.CollidesWithSet([]geom.Collider{circleAt(90, 90, 1)}))
}
