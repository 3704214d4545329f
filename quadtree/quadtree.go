// Package quadtree is a bounded spatial index over geom.Collider values,
// used per board layer to answer "does any stored collider overlap this
// query collider?" without scanning every obstacle.
//
// Grounded on original_source/router/src/quad_tree.rs, generalized to Go's
// pointer-tree idiom after the teacher's bucketed `crowd/proximity_grid.go`
// spatial-index naming conventions (Insert/CollidesWith-style methods).
package quadtree

import (
	"github.com/arl/assertgo"
	"github.com/arl/pcbroute/geom"
)

// MaxObjects is the number of colliders a node holds before it subdivides.
const MaxObjects = 4

// MaxDepth bounds how many times a node subdivides.
const MaxDepth = 10

// Node is one quadtree node: a square region, up to MaxObjects colliders
// fully contained within it, and (once subdivided) four children.
type Node struct {
	Depth                  int
	XMin, XMax, YMin, YMax float32
	Objects                []geom.Collider
	Children               *Children
}

// Children holds a node's four quadrants.
type Children struct {
	TopLeft, TopRight, BottomLeft, BottomRight *Node
}

// New creates an empty root node over the given bounds.
func New(xMin, xMax, yMin, yMax float32) *Node {
	return &Node{XMin: xMin, XMax: xMax, YMin: yMin, YMax: yMax}
}

func newChildren(xMin, xMax, yMin, yMax float32, parentDepth int) *Children {
	midX := (xMin + xMax) / 2
	midY := (yMin + yMax) / 2
	d := parentDepth + 1
	return &Children{
		TopLeft:     &Node{Depth: d, XMin: xMin, XMax: midX, YMin: yMin, YMax: midY},
		TopRight:    &Node{Depth: d, XMin: midX, XMax: xMax, YMin: yMin, YMax: midY},
		BottomLeft:  &Node{Depth: d, XMin: xMin, XMax: midX, YMin: midY, YMax: yMax},
		BottomRight: &Node{Depth: d, XMin: midX, XMax: xMax, YMin: midY, YMax: yMax},
	}
}

func (c *Children) each(f func(*Node)) {
	f(c.TopLeft)
	f(c.TopRight)
	f(c.BottomLeft)
	f(c.BottomRight)
}

func (c *Children) insert(collider geom.Collider) bool {
	ok := false
	c.each(func(n *Node) {
		if !ok && n.Insert(collider) {
			ok = true
		}
	})
	return ok
}

func (n *Node) fullyContainedInBoundary(c geom.Collider) bool {
	left := geom.NewBorderCollider(geom.BorderCollider{
		PointOnBorder: geom.FloatVec2{X: n.XMin, Y: 0}, Normal: geom.FloatVec2{X: -1, Y: 0},
	})
	if c.CollidesWith(left) {
		return false
	}
	right := geom.NewBorderCollider(geom.BorderCollider{
		PointOnBorder: geom.FloatVec2{X: n.XMax, Y: 0}, Normal: geom.FloatVec2{X: 1, Y: 0},
	})
	if c.CollidesWith(right) {
		return false
	}
	top := geom.NewBorderCollider(geom.BorderCollider{
		PointOnBorder: geom.FloatVec2{X: 0, Y: n.YMax}, Normal: geom.FloatVec2{X: 0, Y: 1},
	})
	if c.CollidesWith(top) {
		return false
	}
	bottom := geom.NewBorderCollider(geom.BorderCollider{
		PointOnBorder: geom.FloatVec2{X: 0, Y: n.YMin}, Normal: geom.FloatVec2{X: 0, Y: -1},
	})
	if c.CollidesWith(bottom) {
		return false
	}
	return true
}

func (n *Node) partiallyContainedInBoundary(c geom.Collider) bool {
	boundary := geom.NewPolygonCollider(geom.PolygonCollider{Verts: []geom.FloatVec2{
		{X: n.XMin, Y: n.YMin},
		{X: n.XMax, Y: n.YMin},
		{X: n.XMax, Y: n.YMax},
		{X: n.XMin, Y: n.YMax},
	}})
	return c.CollidesWith(boundary)
}

// Insert adds collider to the tree, returning false if it is not fully
// contained within n's boundary (the caller's problem to place it
// elsewhere, e.g. at a coarser level).
func (n *Node) Insert(collider geom.Collider) bool {
	if !n.fullyContainedInBoundary(collider) {
		return false
	}
	maxDepthReached := n.Depth >= MaxDepth
	hasChildren := n.Children != nil
	maxObjectsReached := len(n.Objects) >= MaxObjects

	switch {
	case maxDepthReached && !hasChildren:
		n.Objects = append(n.Objects, collider)
	case !hasChildren && !maxObjectsReached:
		n.Objects = append(n.Objects, collider)
	case !hasChildren && maxObjectsReached:
		assert.True(n.Children == nil, "a node that has not reached the max depth should not have children")
		n.Children = newChildren(n.XMin, n.XMax, n.YMin, n.YMax, n.Depth)
		existing := n.Objects
		n.Objects = nil
		for _, shape := range existing {
			if !n.Children.insert(shape) {
				n.Objects = append(n.Objects, shape)
			}
		}
		if !n.Children.insert(collider) {
			n.Objects = append(n.Objects, collider)
		}
	case hasChildren:
		if !n.Children.insert(collider) {
			n.Objects = append(n.Objects, collider)
		}
	default:
		panic("quadtree: a node that has reached the max depth should not have children")
	}
	return true
}

// Extend inserts every collider in colliders.
func (n *Node) Extend(colliders []geom.Collider) {
	for _, c := range colliders {
		n.Insert(c)
	}
}

// CollidesWith reports whether any stored collider overlaps the query
// collider.
func (n *Node) CollidesWith(collider geom.Collider) bool {
	if !n.partiallyContainedInBoundary(collider) {
		return false
	}
	for _, obj := range n.Objects {
		if obj.CollidesWith(collider) {
			return true
		}
	}
	if n.Children != nil {
		hit := false
		n.Children.each(func(child *Node) {
			if !hit && child.CollidesWith(collider) {
				hit = true
			}
		})
		if hit {
			return true
		}
	}
	return false
}

// CollidesWithSet reports whether any of colliders overlaps anything
// stored in the tree.
func (n *Node) CollidesWithSet(colliders []geom.Collider) bool {
	for _, c := range colliders {
		if n.CollidesWith(c) {
			return true
		}
	}
	return false
}

// Outline returns the node's bounding rectangle (and its descendants',
// recursively) as four lines each, for debug rendering.
func (n *Node) Outline() []geom.PrimShape {
	shapes := []geom.PrimShape{
		geom.NewLineShape(geom.LineShape{Start: geom.FloatVec2{X: n.XMin, Y: n.YMin}, End: geom.FloatVec2{X: n.XMax, Y: n.YMin}}),
		geom.NewLineShape(geom.LineShape{Start: geom.FloatVec2{X: n.XMax, Y: n.YMin}, End: geom.FloatVec2{X: n.XMax, Y: n.YMax}}),
		geom.NewLineShape(geom.LineShape{Start: geom.FloatVec2{X: n.XMax, Y: n.YMax}, End: geom.FloatVec2{X: n.XMin, Y: n.YMax}}),
		geom.NewLineShape(geom.LineShape{Start: geom.FloatVec2{X: n.XMin, Y: n.YMax}, End: geom.FloatVec2{X: n.XMin, Y: n.YMin}}),
	}
	if n.Children != nil {
		n.Children.each(func(child *Node) {
			shapes = append(shapes, child.Outline()...)
		})
	}
	return shapes
}
