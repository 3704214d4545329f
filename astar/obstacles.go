package astar

import (
	"github.com/arl/pcbroute/geom"
	"github.com/arl/pcbroute/pcb"
	"github.com/arl/pcbroute/quadtree"
)

// Obstacles is the per-layer collision environment a search runs against:
// the board border half-planes, per-layer quadtrees of obstacle colliders
// and their clearance-inflated counterparts (already containing every
// other net's pads and any already-fixed traces of other nets), plus an
// optional per-layer list of transient colliders — the sampled
// probabilistic candidates of other nets' connections for the current
// generation round (spec.md §4.4), which are too short-lived to be worth
// indexing in a quadtree and so are checked by linear scan instead.
type Obstacles struct {
	Borders            []geom.Collider
	Plain              map[int]*quadtree.Node
	Clearance          map[int]*quadtree.Node
	TransientPlain     map[int][]geom.Collider
	TransientClearance map[int][]geom.Collider
}

// WithTransient returns a shallow copy of o with its transient collider
// maps replaced, leaving the quadtrees shared.
func (o *Obstacles) WithTransient(plain, clearance map[int][]geom.Collider) *Obstacles {
	cp := *o
	cp.TransientPlain = plain
	cp.TransientClearance = clearance
	return &cp
}

func anyCollides(a []geom.Collider, b []geom.Collider) bool {
	for _, x := range a {
		for _, y := range b {
			if x.CollidesWith(y) {
				return true
			}
		}
	}
	return false
}

// segmentCollides implements spec.md §4.1's "Collision test for a
// candidate segment": the segment's clearance colliders against the plain
// obstacle quadtree, the segment's plain colliders against the obstacle
// clearance quadtree, and the segment's plain colliders against the board
// borders. A hit from any source is a collision.
func (o *Obstacles) segmentCollides(seg pcb.TraceSegment) bool {
	plainColliders := seg.ToColliders()
	clearanceColliders := seg.ToClearanceColliders()

	if plain, ok := o.Plain[seg.Layer]; ok {
		if plain.CollidesWithSet(clearanceColliders) {
			return true
		}
	}
	if clearance, ok := o.Clearance[seg.Layer]; ok {
		if clearance.CollidesWithSet(plainColliders) {
			return true
		}
	}
	for _, border := range o.Borders {
		for _, c := range plainColliders {
			if border.CollidesWith(c) {
				return true
			}
		}
	}
	if anyCollides(clearanceColliders, o.TransientPlain[seg.Layer]) {
		return true
	}
	if anyCollides(plainColliders, o.TransientClearance[seg.Layer]) {
		return true
	}
	return false
}

// PathCollides reports whether any segment or via of tp collides with o,
// satisfying cache.Checker — the same asymmetric test segmentCollides and
// viaCollides use, re-run against tp's whole geometry. Grounded on
// astar_check_struct.rs's AStarCheck::check, which re-verifies a cached
// or already-computed path against a (possibly changed) obstacle set.
func (o *Obstacles) PathCollides(tp pcb.TracePath) bool {
	for _, seg := range tp.Segments {
		if o.segmentCollides(seg) {
			return true
		}
	}
	for _, v := range tp.Vias {
		if o.viaCollides(v) {
			return true
		}
	}
	return false
}

// viaCollides is the via analogue of segmentCollides, tested on every
// layer the via spans.
func (o *Obstacles) viaCollides(v pcb.Via) bool {
	plainCollider := v.ToCollider()
	clearanceCollider := v.ToClearanceCollider()
	for layer := v.MinLayer; layer <= v.MaxLayer; layer++ {
		if plain, ok := o.Plain[layer]; ok {
			if plain.CollidesWith(clearanceCollider) {
				return true
			}
		}
		if clearance, ok := o.Clearance[layer]; ok {
			if clearance.CollidesWith(plainCollider) {
				return true
			}
		}
		for _, border := range o.Borders {
			if border.CollidesWith(plainCollider) {
				return true
			}
		}
		if anyCollides([]geom.Collider{clearanceCollider}, o.TransientPlain[layer]) {
			return true
		}
		if anyCollides([]geom.Collider{plainCollider}, o.TransientClearance[layer]) {
			return true
		}
	}
	return false
}
