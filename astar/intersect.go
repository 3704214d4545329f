package astar

import (
	"log"
	"math"

	"github.com/arl/pcbroute/geom"
)

// lineSlope classifies a grid-aligned line into one of four categories:
// vertical (dx=0), or a slope of 0, +1 or -1 (horizontal, +45°, -45°
// respectively), paired with the line's intercept in the matching
// representation (x=c for vertical, y=slope*x+c otherwise).
//
// Grounded on astar.rs's line_intersection_infinite, which panics when a
// segment is neither axial nor at exactly ±45° — both A* move segments and
// the alignment lines built through the goal always satisfy this.
type lineSlope struct {
	vertical bool
	slope    int
}

func classifyLine(start, end geom.FixedVec2) (lineSlope, geom.Fixed) {
	dx := end.X - start.X
	dy := end.Y - start.Y
	switch {
	case dx == 0:
		return lineSlope{vertical: true}, start.X
	case dy == 0:
		return lineSlope{slope: 0}, start.Y
	case dy == dx:
		return lineSlope{slope: 1}, start.Y - start.X
	case dy == -dx:
		return lineSlope{slope: -1}, start.Y + start.X
	default:
		log.Panicf("astar: line from %v to %v is not grid-aligned (dx=%v, dy=%v)", start, end, dx, dy)
		panic("unreachable")
	}
}

// lineIntersectionInfinite finds where the finite segment
// (line1Start, line1End) crosses the infinite line through line2Start and
// line2End. The point is bounded to line1's extent, except when line1 is
// sloped and line2 vertical: then it is bounded to line2's y extent instead.
// Returns ok=false when two non-vertical lines are parallel or the solved
// point falls outside the bound; two vertical lines panic.
func lineIntersectionInfinite(line1Start, line1End, line2Start, line2End geom.FixedVec2) (geom.FixedVec2, bool) {
	m1, c1 := classifyLine(line1Start, line1End)
	m2, c2 := classifyLine(line2Start, line2End)

	switch {
	case !m1.vertical && !m2.vertical:
		if m1.slope == m2.slope {
			return geom.FixedVec2{}, false
		}
		x := (c2 - c1) / geom.Fixed(m1.slope-m2.slope)
		y := geom.Fixed(m1.slope)*x + c1
		if x < minFixed(line1Start.X, line1End.X) || x > maxFixed(line1Start.X, line1End.X) {
			return geom.FixedVec2{}, false
		}
		return geom.FixedVec2{X: x, Y: y}, true

	case m1.vertical && !m2.vertical:
		x := c1
		y := geom.Fixed(m2.slope)*x + c2
		if y < minFixed(line1Start.Y, line1End.Y) || y > maxFixed(line1Start.Y, line1End.Y) {
			return geom.FixedVec2{}, false
		}
		return geom.FixedVec2{X: x, Y: y}, true

	case !m1.vertical && m2.vertical:
		x := c2
		y := geom.Fixed(m1.slope)*x + c1
		if y < minFixed(line2Start.Y, line2End.Y) || y > maxFixed(line2Start.Y, line2End.Y) {
			return geom.FixedVec2{}, false
		}
		return geom.FixedVec2{X: x, Y: y}, true

	default:
		log.Panic("astar: both lines are vertical, no intersection")
		panic("unreachable")
	}
}

func minFixed(a, b geom.Fixed) geom.Fixed {
	if a < b {
		return a
	}
	return b
}

func maxFixed(a, b geom.Fixed) geom.Fixed {
	if a > b {
		return a
	}
	return b
}

func absFixed(f geom.Fixed) geom.Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// pushGoalAlignedIntersection relaxes the nearest goal-aligned intersection
// of the segment (current.pos, dest) alongside the already-relaxed clamped
// destination, when current is on a goal layer and not already aligned
// with goal, mirroring the goal-seeking push astar.rs's directions_to_grid_points
// and radial_directions_wrt_obstacles loops each perform after pushing their
// clamped destination.
func pushGoalAlignedIntersection(in *Input, pool *nodePool, queue *nodeQueue, closed map[nodeKey]bool, current *node, dest, goal geom.FixedVec2, dir geom.Direction) {
	if !isEndLayer(current.layer, in.GoalLayers) {
		return
	}
	if _, aligned, err := geom.FromPoints(current.pos, goal); err == nil && aligned {
		return
	}
	intersection, ok := goalAlignedIntersection(current.pos, dest, goal, dir)
	if !ok {
		return
	}
	cost := current.pos.ToFloat().Sub(intersection.ToFloat()).Length()
	relax(pool, queue, closed, current, intersection, current.layer, float64(cost), goal, dir, true)
}

// goalAlignedIntersection finds the nearest (by Chebyshev distance from
// startPos) crossing of the finite move segment (startPos, endPos) with one
// of the infinite lines through goal in a direction 45° off dir, or one of
// the four cardinals (excluding dir and its opposite).
//
// Grounded on astar.rs's get_intersection_with_end_alignments; callers are
// expected to only call this when the current position is on a goal layer
// and not already aligned with goal, matching that function's precondition
// asserts.
func goalAlignedIntersection(startPos, endPos, goal geom.FixedVec2, dir geom.Direction) (geom.FixedVec2, bool) {
	candidates := map[geom.Direction]bool{
		dir.Left45():  true,
		dir.Right45(): true,
		geom.Up:       true,
		geom.Down:     true,
		geom.Left:     true,
		geom.Right:    true,
	}
	delete(candidates, dir)
	delete(candidates, dir.Opposite())

	var best geom.FixedVec2
	bestDist := geom.Fixed(math.MaxInt32)
	found := false
	for endDir := range candidates {
		line2End := goal.Add(endDir.RawScale(geom.FixedDelta))
		intersection, ok := lineIntersectionInfinite(startPos, endPos, goal, line2End)
		if !ok {
			continue
		}
		dist := maxFixed(absFixed(intersection.X-startPos.X), absFixed(intersection.Y-startPos.Y))
		if dist == 0 {
			continue
		}
		if dist < bestDist {
			bestDist = dist
			best = intersection
			found = true
		}
	}
	return best, found
}
