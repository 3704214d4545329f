// Package postprocess simplifies a raw A* anchor chain into a shorter,
// still collision-free path: collinear runs are merged, zig-zags are
// shifted flat, convex runs are cut straight, and wide turns are split in
// two. Grounded on original_source/router/src/post_process.rs.
package postprocess

import (
	"github.com/arl/pcbroute/geom"
	"github.com/arl/pcbroute/pcb"
)

// CollisionFunc reports whether a candidate segment collides with the
// obstacle set a search is running against. The post-processor never
// accepts a rewrite that makes this return true where it previously
// returned false.
type CollisionFunc func(pcb.TraceSegment) bool

// Optimize rewrites tp's anchor list in place (conceptually) per the
// merge-collinear / parallel-shift / convex-merge / cut-angle rules,
// repeating each phase until none can make further progress, then
// re-derives segments/vias/length via pcb.FromAnchors.
func Optimize(tp pcb.TracePath, collides CollisionFunc) pcb.TracePath {
	width, clearance, viaDiameter, viaClearance := deriveWidths(tp)
	anchors := append([]pcb.TraceAnchor(nil), tp.Anchors...)

	anchors = mergeCollinearFixpoint(anchors)

	for {
		changed := false
		if a, ok := parallelShiftOnce(anchors, width, clearance, collides); ok {
			anchors = a
			changed = true
		}
		if a, ok := convexMergeOnce(anchors, width, clearance, collides); ok {
			anchors = a
			changed = true
		}
		if a, ok := cutAngleOnce(anchors); ok {
			anchors = a
			changed = true
		}
		if !changed {
			break
		}
	}

	anchors = mergeCollinearFixpoint(anchors)

	return pcb.FromAnchors(anchors, width, clearance, viaDiameter, viaClearance)
}

// deriveWidths recovers the per-connection width/clearance/via parameters
// from the input path's segments and vias, since Optimize only receives
// the anchor list's geometry plus a collision function.
func deriveWidths(tp pcb.TracePath) (width, clearance, viaDiameter, viaClearance float32) {
	if len(tp.Segments) > 0 {
		width = tp.Segments[0].Width
		clearance = tp.Segments[0].Clearance
	}
	if len(tp.Vias) > 0 {
		viaDiameter = tp.Vias[0].Diameter
		viaClearance = tp.Vias[0].Clearance
	}
	return
}

func sameLayerRun(anchors []pcb.TraceAnchor, i, n int) bool {
	for k := 0; k < n-1; k++ {
		if anchors[i+k].EndLayer != anchors[i+k+1].StartLayer {
			return false
		}
	}
	return true
}

// directionOf returns the direction from anchors[i] to anchors[i+1],
// treating a degenerate (coincident) pair, or one that is neither axial nor
// at 45°, as "no direction" (ok=false).
func directionOf(anchors []pcb.TraceAnchor, i int) (geom.Direction, bool) {
	dir, ok, err := geom.FromPoints(anchors[i].Position, anchors[i+1].Position)
	if err != nil {
		return 0, false
	}
	return dir, ok
}

// mergeCollinearFixpoint removes the middle of three consecutive
// same-layer anchors whose directions match, or whose enclosing segment
// pair is degenerate, repeating until no further removal applies.
func mergeCollinearFixpoint(anchors []pcb.TraceAnchor) []pcb.TraceAnchor {
	for {
		out, changed := mergeCollinearOnce(anchors)
		anchors = out
		if !changed {
			return anchors
		}
	}
}

func mergeCollinearOnce(anchors []pcb.TraceAnchor) ([]pcb.TraceAnchor, bool) {
	for i := 0; i+2 < len(anchors); i++ {
		if !sameLayerRun(anchors, i, 3) {
			continue
		}
		d1, ok1 := directionOf(anchors, i)
		d2, ok2 := directionOf(anchors, i+1)
		degenerate := !ok1 || !ok2
		if degenerate || d1 == d2 {
			out := make([]pcb.TraceAnchor, 0, len(anchors)-1)
			out = append(out, anchors[:i+1]...)
			out = append(out, anchors[i+2:]...)
			return out, true
		}
	}
	return anchors, false
}

// parallelShiftOnce looks for four consecutive same-layer anchors
// p0 p1 p2 p3 with dir(p0p1)==dir(p2p3)!=dir(p1p2), and tries to flatten
// the middle segment onto one of the outer lines.
func parallelShiftOnce(anchors []pcb.TraceAnchor, width, clearance float32, collides CollisionFunc) ([]pcb.TraceAnchor, bool) {
	for i := 0; i+3 < len(anchors); i++ {
		if !sameLayerRun(anchors, i, 4) {
			continue
		}
		p0, p1, p2, p3 := anchors[i], anchors[i+1], anchors[i+2], anchors[i+3]
		d01, ok1 := directionOf(anchors, i)
		d12, ok2 := directionOf(anchors, i+1)
		d23, ok3 := directionOf(anchors, i+2)
		if !ok1 || !ok2 || !ok3 || d01 != d23 || d01 == d12 {
			continue
		}
		layer := p1.StartLayer

		// Try sliding fully onto p0p1's extension (through p0) or p2p3's
		// extension (through p3); whichever stays collision-free.
		for _, shifted := range []struct{ a, b geom.FixedVec2 }{
			{p0.Position, projectAlong(p0.Position, d01, p2.Position)},
			{projectAlong(p3.Position, d01.Opposite(), p1.Position), p3.Position},
		} {
			newMid1 := pcb.TraceAnchor{Position: shifted.a, StartLayer: layer, EndLayer: layer}
			newMid2 := pcb.TraceAnchor{Position: shifted.b, StartLayer: layer, EndLayer: layer}
			if testRun(layer, width, clearance, collides, p0.Position, shifted.a, shifted.b, p3.Position) {
				out := replaceMiddle(anchors, i, 4, []pcb.TraceAnchor{newMid1, newMid2})
				return out, true
			}
		}

		// Neither full slide succeeded; binary-search the maximal shift
		// toward p0 (along d01's reverse) that stays collision-free, shrinking
		// the middle segment instead of flattening it fully. Grounded on
		// try_parallel_shift's binary_approach_to_obstacles fallback in
		// post_process.rs.
		startAt := func(length geom.Fixed) geom.FixedVec2 { return p1.Position.Sub(d01.RawScale(length)) }
		endAt := func(length geom.Fixed) geom.FixedVec2 { return p2.Position.Sub(d01.RawScale(length)) }
		full := maxFixed(absFixed(p1.Position.X-p0.Position.X), absFixed(p1.Position.Y-p0.Position.Y))
		valid := func(length geom.Fixed) bool {
			return testRun(layer, width, clearance, collides, p0.Position, startAt(length), endAt(length), p3.Position)
		}
		if length := binaryApproachToObstacles(valid, 0, full); length > 0 {
			newMid1 := pcb.TraceAnchor{Position: startAt(length), StartLayer: layer, EndLayer: layer}
			newMid2 := pcb.TraceAnchor{Position: endAt(length), StartLayer: layer, EndLayer: layer}
			out := replaceMiddle(anchors, i, 4, []pcb.TraceAnchor{newMid1, newMid2})
			return out, true
		}
	}
	return anchors, false
}

// projectAlong returns the point obtained by projecting `through` onto the
// line through `origin` in direction `d` (i.e. the foot with the
// coordinate of `through` along the axis perpendicular to d held fixed).
// Since directions here are axis/45°-aligned, this reduces to swapping the
// relevant coordinate.
func projectAlong(origin geom.FixedVec2, d geom.Direction, through geom.FixedVec2) geom.FixedVec2 {
	switch d {
	case geom.Up, geom.Down:
		return geom.FixedVec2{X: origin.X, Y: through.Y}
	case geom.Left, geom.Right:
		return geom.FixedVec2{X: through.X, Y: origin.Y}
	default:
		// Diagonal: solve the intersection of the 45°-line through origin
		// with the axis-aligned coordinate of `through`'s opposite axis.
		return diagonalProject(origin, d, through)
	}
}

func diagonalProject(origin geom.FixedVec2, d geom.Direction, through geom.FixedVec2) geom.FixedVec2 {
	// Line through origin at slope +1 or -1 depending on direction parity.
	slopePositive := d == geom.TopRight || d == geom.BottomLeft
	if slopePositive {
		// y - origin.Y = x - origin.X  => x = through.X, y = origin.Y + (through.X-origin.X)
		dx := through.X - origin.X
		return geom.FixedVec2{X: through.X, Y: origin.Y + dx}
	}
	dx := through.X - origin.X
	return geom.FixedVec2{X: through.X, Y: origin.Y - dx}
}

// testRun reports whether the chain through pts, all on the given layer,
// collides with nothing and keeps every non-degenerate segment axial or at
// 45°.
func testRun(layer int, width, clearance float32, collides CollisionFunc, pts ...geom.FixedVec2) bool {
	for i := 0; i+1 < len(pts); i++ {
		if pts[i].Equal(pts[i+1]) {
			continue
		}
		seg := pcb.TraceSegment{Start: pts[i], End: pts[i+1], Width: width, Clearance: clearance, Layer: layer}
		if collides(seg) {
			return false
		}
		if _, _, err := geom.FromPoints(pts[i], pts[i+1]); err != nil {
			return false
		}
	}
	return true
}

func absFixed(f geom.Fixed) geom.Fixed {
	if f < 0 {
		return -f
	}
	return f
}

func maxFixed(a, b geom.Fixed) geom.Fixed {
	if a > b {
		return a
	}
	return b
}

// binaryApproachToObstacles finds the largest length in [start, end) for
// which valid(length) holds, assuming valid(start) holds, shrinking toward
// start until an obstacle (or a broken alignment) stops it. Grounded on
// binary_approach_to_obstacles in post_process.rs, generalized over a
// single valid/invalid predicate instead of a segment list plus a separate
// collision test, since both callers below also need their intermediate
// points to stay grid-aligned, not merely collision-free.
func binaryApproachToObstacles(valid func(geom.Fixed) bool, start, end geom.Fixed) geom.Fixed {
	lo, hi := start, end
	for lo+geom.FixedDelta < hi {
		mid := lo + (hi-lo)/2
		if valid(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

func replaceMiddle(anchors []pcb.TraceAnchor, i, n int, replacement []pcb.TraceAnchor) []pcb.TraceAnchor {
	out := make([]pcb.TraceAnchor, 0, len(anchors)-n+2+len(replacement))
	out = append(out, anchors[:i+1]...)
	out = append(out, replacement...)
	out = append(out, anchors[i+n-1:]...)
	return out
}

// convexMergeOnce looks for four consecutive same-layer anchors whose
// three turns all spin the same way, and tries to collapse the middle
// segment along its perpendicular, either flush with an outer segment's
// end line or via binary search into an obstacle.
func convexMergeOnce(anchors []pcb.TraceAnchor, width, clearance float32, collides CollisionFunc) ([]pcb.TraceAnchor, bool) {
	for i := 0; i+3 < len(anchors); i++ {
		if !sameLayerRun(anchors, i, 4) {
			continue
		}
		p0, p1, p2, p3 := anchors[i], anchors[i+1], anchors[i+2], anchors[i+3]
		d01, ok1 := directionOf(anchors, i)
		d12, ok2 := directionOf(anchors, i+1)
		d23, ok3 := directionOf(anchors, i+2)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		s1 := d01.Left45_90_135(d12)
		s2 := d12.Left45_90_135(d23)
		r1 := d01.Right45_90_135(d12)
		r2 := d12.Right45_90_135(d23)
		spinsLeft := s1 && s2
		spinsRight := r1 && r2
		if !spinsLeft && !spinsRight {
			continue
		}
		layer := p1.StartLayer

		candidate := geom.FixedVec2{X: p1.Position.X, Y: p2.Position.Y}
		if _, _, err := geom.FromPoints(p0.Position, candidate); err == nil {
			if _, _, err := geom.FromPoints(candidate, p3.Position); err == nil {
				if testRun(layer, width, clearance, collides, p0.Position, candidate, p3.Position) {
					mid := pcb.TraceAnchor{Position: candidate, StartLayer: layer, EndLayer: layer}
					out := replaceMiddle(anchors, i, 4, []pcb.TraceAnchor{mid})
					return out, true
				}
				if out, ok := convexPartialMerge(anchors, i, layer, width, clearance, collides,
					p0.Position, p1.Position, p2.Position, p3.Position, candidate); ok {
					return out, true
				}
			}
		}
		candidate2 := geom.FixedVec2{X: p2.Position.X, Y: p1.Position.Y}
		if _, _, err := geom.FromPoints(p0.Position, candidate2); err == nil {
			if _, _, err := geom.FromPoints(candidate2, p3.Position); err == nil {
				if testRun(layer, width, clearance, collides, p0.Position, candidate2, p3.Position) {
					mid := pcb.TraceAnchor{Position: candidate2, StartLayer: layer, EndLayer: layer}
					out := replaceMiddle(anchors, i, 4, []pcb.TraceAnchor{mid})
					return out, true
				}
				if out, ok := convexPartialMerge(anchors, i, layer, width, clearance, collides,
					p0.Position, p1.Position, p2.Position, p3.Position, candidate2); ok {
					return out, true
				}
			}
		}
	}
	return anchors, false
}

// convexPartialMerge binary-searches the largest fraction of the way from
// (p1, p2) toward a fully-collapsed candidate corner that keeps the
// p0-a-b-p3 chain collision-free and grid-aligned, for use once the full
// touch at candidate has already failed. a and b slide from p1 and p2
// respectively toward candidate, staying aligned with p0 and p3
// throughout since each keeps whichever coordinate it shares with
// candidate fixed. Grounded on try_convex_and_merge's
// binary_approach_to_obstacles fallback in post_process.rs, adapted to
// this package's axis-aligned single-corner merge rather than the
// original's general parallel-line-through-candidate construction.
func convexPartialMerge(anchors []pcb.TraceAnchor, i int, layer int, width, clearance float32, collides CollisionFunc, p0, p1, p2, p3, candidate geom.FixedVec2) ([]pcb.TraceAnchor, bool) {
	dPA := candidate.Sub(p1)
	dPB := candidate.Sub(p2)
	aAt := func(t geom.Fixed) geom.FixedVec2 { return p1.Add(dPA.Scale(t)) }
	bAt := func(t geom.Fixed) geom.FixedVec2 { return p2.Add(dPB.Scale(t)) }
	valid := func(t geom.Fixed) bool {
		return testRun(layer, width, clearance, collides, p0, aAt(t), bAt(t), p3)
	}
	t := binaryApproachToObstacles(valid, 0, geom.FixedOne)
	if t <= 0 {
		return nil, false
	}
	a := pcb.TraceAnchor{Position: aAt(t), StartLayer: layer, EndLayer: layer}
	b := pcb.TraceAnchor{Position: bAt(t), StartLayer: layer, EndLayer: layer}
	return replaceMiddle(anchors, i, 4, []pcb.TraceAnchor{a, b}), true
}

// cutAngleOnce finds a turn of 90 degrees or more (a right angle or sharper)
// between two consecutive segments and duplicates the shared anchor,
// inserting a 45°-offset intermediate position so the two resulting turns
// are each 45 degrees, letting a following convex-merge pass collapse them
// if an obstacle doesn't block it.
func cutAngleOnce(anchors []pcb.TraceAnchor) ([]pcb.TraceAnchor, bool) {
	for i := 0; i+2 < len(anchors); i++ {
		if !sameLayerRun(anchors, i, 3) {
			continue
		}
		d1, ok1 := directionOf(anchors, i)
		d2, ok2 := directionOf(anchors, i+1)
		if !ok1 || !ok2 {
			continue
		}
		var mid geom.Direction
		var found bool
		if d1.IsRightAngle(d2) {
			mid, found = d1.BetweenRightAngle(d2)
		} else if d1.IsSharpAngle(d2) {
			mid, found = d1.BetweenSharpAngle(d2)
		}
		if !found || d1 == mid || d2 == mid {
			// Already split at this pivot in an earlier pass.
			continue
		}
		pivot := anchors[i+1]
		step := mid.Scale(geom.FixedDelta * 4)
		a := pcb.TraceAnchor{Position: pivot.Position.Sub(step), StartLayer: pivot.StartLayer, EndLayer: pivot.StartLayer}
		b := pcb.TraceAnchor{Position: pivot.Position, StartLayer: pivot.StartLayer, EndLayer: pivot.EndLayer}
		full := make([]pcb.TraceAnchor, 0, len(anchors)+1)
		full = append(full, anchors[:i+1]...)
		full = append(full, a, b)
		full = append(full, anchors[i+2:]...)
		return full, true
	}
	return anchors, false
}
