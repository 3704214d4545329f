// Package astar is the octile-grid A* path finder: it searches
// (position, layer) nodes between two pad centres across N copper layers,
// honouring trace width, clearance and via cost, and emits a pcb.TracePath.
//
// Grounded on original_source/router/src/astar.rs for the algorithm, and
// on the teacher's detour/node.go + detour/nodequeue.go for the Go
// node-pool / binary-heap idiom (generalized here from navmesh polygon
// refs to (position, layer) keys).
package astar

import "github.com/arl/pcbroute/geom"

// nodeKey is the visited-set identity of a search node: position and
// layer only — direction and cost are deliberately excluded, per spec.md
// §4.1's "Search space" paragraph.
type nodeKey struct {
	pos   geom.FixedVec2
	layer int
}

// node is one A* search node.
type node struct {
	pos       geom.FixedVec2
	layer     int
	g, h, f   float64
	parent    *node
	dir       geom.Direction
	hasDir    bool
}

// nodePool hash-maps nodeKey to *node, the way detour/node.go's NodePool
// hash-buckets polygon refs — a plain Go map supersedes the original's
// manual hash-bucket array since Go's builtin map already gives O(1)
// amortized lookup without the teacher's fixed-capacity-array constraint
// (the teacher's NodePool size is bounded by a navmesh tile's polygon
// count, known upfront; ours is not).
type nodePool struct {
	nodes map[nodeKey]*node
}

func newNodePool() *nodePool {
	return &nodePool{nodes: make(map[nodeKey]*node)}
}

func (p *nodePool) find(key nodeKey) (*node, bool) {
	n, ok := p.nodes[key]
	return n, ok
}

func (p *nodePool) getOrCreate(key nodeKey) *node {
	if n, ok := p.nodes[key]; ok {
		return n
	}
	n := &node{pos: key.pos, layer: key.layer, g: posInf, h: posInf, f: posInf}
	p.nodes[key] = n
	return n
}

const posInf = 1e300

// nodeQueue is a binary min-heap on node.f, grounded directly on
// detour/nodequeue.go's bubbleUp/trickleDown array-heap, generalized to a
// growable slice since the search frontier size isn't known upfront.
type nodeQueue struct {
	heap []*node
}

func newNodeQueue() *nodeQueue { return &nodeQueue{} }

func (q *nodeQueue) empty() bool { return len(q.heap) == 0 }

func (q *nodeQueue) bubbleUp(i int, n *node) {
	parent := (i - 1) / 2
	for i > 0 && q.heap[parent].f > n.f {
		q.heap[i] = q.heap[parent]
		i = parent
		parent = (i - 1) / 2
	}
	q.heap[i] = n
}

func (q *nodeQueue) trickleDown(i int, n *node) {
	size := len(q.heap)
	child := i*2 + 1
	for child < size {
		if child+1 < size && q.heap[child].f > q.heap[child+1].f {
			child++
		}
		q.heap[i] = q.heap[child]
		i = child
		child = i*2 + 1
	}
	q.bubbleUp(i, n)
}

func (q *nodeQueue) push(n *node) {
	q.heap = append(q.heap, nil)
	q.bubbleUp(len(q.heap)-1, n)
}

func (q *nodeQueue) pop() *node {
	result := q.heap[0]
	last := q.heap[len(q.heap)-1]
	q.heap = q.heap[:len(q.heap)-1]
	if len(q.heap) > 0 {
		q.trickleDown(0, last)
	}
	return result
}
