// Package backtrack assigns one FixedTrace per connection by committing
// candidates from the probabilistic model (Bayesian) or, failing that,
// retrying connections in a fixed order with plain A* (ordered).
//
// Grounded on original_source/router/src/backtrack_node.rs,
// bayesian_backtrack_algo.rs and naive_backtrack_algo.rs.
package backtrack

import "github.com/arl/pcbroute/proba"

// candidateItem pairs a probabilistic candidate with the posterior it had
// when queued; popping always returns the highest posterior first.
type candidateItem struct {
	posterior float64
	candidate *proba.Candidate
}

// candidateQueue is a binary max-heap on posterior, grounded on the same
// bubbleUp/trickleDown array-heap idiom astar's nodeQueue uses, inverted
// to a max-heap since Rust's BinaryHeap (used unmodified in
// backtrack_node.rs) pops the greatest key first.
type candidateQueue struct {
	heap []candidateItem
}

func (q *candidateQueue) empty() bool { return len(q.heap) == 0 }

func (q *candidateQueue) len() int { return len(q.heap) }

func (q *candidateQueue) bubbleUp(i int, item candidateItem) {
	parent := (i - 1) / 2
	for i > 0 && q.heap[parent].posterior < item.posterior {
		q.heap[i] = q.heap[parent]
		i = parent
		parent = (i - 1) / 2
	}
	q.heap[i] = item
}

func (q *candidateQueue) trickleDown(i int, item candidateItem) {
	size := len(q.heap)
	child := i*2 + 1
	for child < size {
		if child+1 < size && q.heap[child].posterior < q.heap[child+1].posterior {
			child++
		}
		q.heap[i] = q.heap[child]
		i = child
		child = i*2 + 1
	}
	q.bubbleUp(i, item)
}

func (q *candidateQueue) push(item candidateItem) {
	q.heap = append(q.heap, candidateItem{})
	q.bubbleUp(len(q.heap)-1, item)
}

func (q *candidateQueue) pop() (candidateItem, bool) {
	if len(q.heap) == 0 {
		return candidateItem{}, false
	}
	result := q.heap[0]
	last := q.heap[len(q.heap)-1]
	q.heap = q.heap[:len(q.heap)-1]
	if len(q.heap) > 0 {
		q.trickleDown(0, last)
	}
	return result, true
}

// clone returns a copy of the queue's backing heap, so a node forked by
// BacktrackNode.clone (the committed or discarded-display node built in
// TryFixTopKRankedTrace) can be narrowed by fixTrace without touching the
// original node's queue.
func (q *candidateQueue) clone() *candidateQueue {
	cp := &candidateQueue{heap: append([]candidateItem(nil), q.heap...)}
	return cp
}
