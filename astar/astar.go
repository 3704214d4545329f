package astar

import (
	"errors"
	"log"
	"math"

	"github.com/arl/pcbroute/display"
	"github.com/arl/pcbroute/geom"
	"github.com/arl/pcbroute/pcb"
	"github.com/arl/pcbroute/postprocess"
)

// Sentinel errors mirroring spec.md §7's A*-specific kinds.
var (
	ErrNoPath         = errors.New("astar: frontier drained without reaching goal")
	ErrBudgetExceeded = errors.New("astar: expansion budget exceeded")
	ErrCancelled      = errors.New("astar: cancelled")
)

// Input is everything one A* invocation needs to search a single
// connection attempt. Grounded on spec.md §4.1's "Input" paragraph.
type Input struct {
	Start, Goal             geom.FixedVec2
	StartLayers, GoalLayers []int
	NumLayers               int
	Width, Clearance        float32
	ViaDiameter, ViaClearance float32
	Stride                  geom.Fixed
	ViaCost                 float64
	MaxExpansions           uint
	Obstacles               *Obstacles
	Display                 *display.Injection
}

// octile returns the octile-grid heuristic distance between a and b,
// projected onto the plane (layer is ignored: a via can always bridge
// layers at zero planar distance).
func octile(a, b geom.FixedVec2) float64 {
	dx := math.Abs(a.X.Float() - b.X.Float())
	dy := math.Abs(a.Y.Float() - b.Y.Float())
	if dx > dy {
		return dx + (math.Sqrt2-1)*dy
	}
	return dy + (math.Sqrt2-1)*dx
}

func isGridPoint(p geom.FixedVec2, stride geom.Fixed) bool {
	return p.X%stride == 0 && p.Y%stride == 0
}

// Run performs the octile-grid search described by spec.md §4.1 and
// returns the reconstructed, post-processed TracePath on success.
func Run(in Input) (pcb.TracePath, int, error) {
	start := in.Start.ToNearestEvenEven()
	goal := in.Goal.ToNearestEvenEven()

	pool := newNodePool()
	queue := newNodeQueue()
	closed := make(map[nodeKey]bool)

	for _, layer := range in.StartLayers {
		key := nodeKey{pos: start, layer: layer}
		n := pool.getOrCreate(key)
		n.g = 0
		n.h = octile(start, goal)
		n.f = n.h
		queue.push(n)
	}

	expansions := 0
	var goalNode *node

	for {
		if in.Display != nil && in.Display.Cancelled() {
			return pcb.TracePath{}, expansions, ErrCancelled
		}
		if queue.empty() {
			return pcb.TracePath{}, expansions, ErrNoPath
		}
		current := queue.pop()

		if current.pos.Equal(goal) {
			goalNode = current
			break
		}

		// A node already popped and expanded once must never be expanded
		// again, even though relaxation may have pushed it onto the heap
		// multiple times under different costs before its first pop.
		key := nodeKey{pos: current.pos, layer: current.layer}
		if closed[key] {
			continue
		}
		closed[key] = true

		expansions++
		if uint(expansions) > in.MaxExpansions {
			return pcb.TracePath{}, expansions, ErrBudgetExceeded
		}

		if in.Display != nil {
			in.Display.DisplayWhenNecessary(display.AstarFrontierOrUpdatePosterior, func() interface{} { return nil })
		}

		expand(&in, pool, queue, closed, current, goal)
	}

	anchors := reconstruct(goalNode)
	raw := pcb.FromAnchors(anchors, in.Width, in.Clearance, in.ViaDiameter, in.ViaClearance)
	optimized := postprocess.Optimize(raw, collisionOracle(&in))
	return optimized, expansions, nil
}

// collisionOracle adapts Obstacles into the function signature
// postprocess.Optimize expects.
func collisionOracle(in *Input) postprocess.CollisionFunc {
	return func(seg pcb.TraceSegment) bool {
		return in.Obstacles.segmentCollides(seg)
	}
}

func isEndLayer(layer int, ends []int) bool {
	for _, l := range ends {
		if l == layer {
			return true
		}
	}
	return false
}

// relax pushes/updates a successor node at (pos, layer) reached from
// `from` at cost `stepCost`. A successor already in the closed set is
// never reconsidered, mirroring try_push_node_to_frontier's own
// visited-set check before pushing.
func relax(pool *nodePool, queue *nodeQueue, closed map[nodeKey]bool, from *node, pos geom.FixedVec2, layer int, stepCost float64, goal geom.FixedVec2, dir geom.Direction, hasDir bool) {
	key := nodeKey{pos: pos, layer: layer}
	if closed[key] {
		return
	}
	n := pool.getOrCreate(key)
	g := from.g + stepCost
	if g < n.g {
		n.g = g
		n.h = octile(pos, goal)
		n.f = n.g + n.h
		n.parent = from
		n.dir = dir
		n.hasDir = hasDir
		queue.push(n)
	}
}

// expand implements spec.md §4.1's five node-expansion cases.
func expand(in *Input, pool *nodePool, queue *nodeQueue, closed map[nodeKey]bool, current *node, goal geom.FixedVec2) {
	pushed := false

	// Case 1: end alignment.
	if isEndLayer(current.layer, in.GoalLayers) {
		if dir, ok, err := geom.FromPoints(current.pos, goal); err == nil && ok {
			seg := pcb.TraceSegment{Start: current.pos, End: goal, Width: in.Width, Clearance: in.Clearance, Layer: current.layer}
			if !in.Obstacles.segmentCollides(seg) {
				cost := current.pos.ToFloat().Sub(goal.ToFloat()).Length()
				relax(pool, queue, closed, current, goal, current.layer, float64(cost), goal, dir, true)
				pushed = true
			}
		}
	}

	// Case 2: via placement.
	if isGridPoint(current.pos, in.Stride) {
		via := pcb.Via{Position: current.pos, Diameter: in.Width, Clearance: in.Clearance, MinLayer: current.layer, MaxLayer: current.layer}
		fits := func(layer int) bool {
			v := via
			v.MinLayer, v.MaxLayer = layer, layer
			return !in.Obstacles.viaCollides(v)
		}
		if fits(current.layer) {
			for layer := current.layer + 1; layer < in.NumLayers; layer++ {
				if !fits(layer) {
					break
				}
				relax(pool, queue, closed, current, current.pos, layer, in.ViaCost, goal, 0, false)
				pushed = true
			}
			for layer := current.layer - 1; layer >= 0; layer-- {
				if !fits(layer) {
					break
				}
				relax(pool, queue, closed, current, current.pos, layer, in.ViaCost, goal, 0, false)
				pushed = true
			}
		}
	}

	// Case 3: grid-aligned planar moves.
	directions := directionsToGridPoints(current.pos, in.Stride)
	for _, dir := range directions {
		dest, ok := clampByCollision(in, current.pos, current.layer, dir, in.Stride)
		if !ok {
			continue
		}
		cost := current.pos.ToFloat().Sub(dest.ToFloat()).Length()
		relax(pool, queue, closed, current, dest, current.layer, float64(cost), goal, dir, true)
		pushed = true
		pushGoalAlignedIntersection(in, pool, queue, closed, current, dest, goal, dir)
	}

	// Case 4: radial (obstacle-hugging) moves.
	for d := geom.Up; d <= geom.TopLeft; d++ {
		if isRadialDirection(in, current.pos, current.layer, d) {
			dest, ok := clampByCollision(in, current.pos, current.layer, d, in.Stride)
			if ok {
				cost := current.pos.ToFloat().Sub(dest.ToFloat()).Length()
				relax(pool, queue, closed, current, dest, current.layer, float64(cost), goal, d, true)
				pushed = true
				pushGoalAlignedIntersection(in, pool, queue, closed, current, dest, goal, d)
			}
		}
	}

	// Case 5: floating-point recovery.
	if !pushed {
		order := recoveryOrder(current)
		for _, d := range order {
			dest, ok := clampByCollision(in, current.pos, current.layer, d, in.Stride)
			if ok && !dest.Equal(current.pos) {
				cost := current.pos.ToFloat().Sub(dest.ToFloat()).Length()
				relax(pool, queue, closed, current, dest, current.layer, float64(cost), goal, d, true)
				pushed = true
				break
			}
		}
		if !pushed {
			log.Printf("astar: node at %v,layer=%d is floating: no direction yields a collision-free step", current.pos, current.layer)
		}
	}
}

// recoveryOrder tries the node's own direction first (if any), then the
// remaining six directions excluding the reverse, per spec.md §4.1 case 5.
func recoveryOrder(n *node) []geom.Direction {
	var order []geom.Direction
	if n.hasDir {
		order = append(order, n.dir)
	}
	for d := geom.Up; d <= geom.TopLeft; d++ {
		if n.hasDir && (d == n.dir || d == n.dir.Opposite()) {
			continue
		}
		order = append(order, d)
	}
	return order
}

// directionsToGridPoints computes which of the eight directions have a
// reachable neighbouring grid point from p, per spec.md §4.1 case 3.
func directionsToGridPoints(p geom.FixedVec2, stride geom.Fixed) []geom.Direction {
	var dirs []geom.Direction
	if p.Y%stride == 0 {
		dirs = append(dirs, geom.Left, geom.Right)
	}
	if p.X%stride == 0 {
		dirs = append(dirs, geom.Up, geom.Down)
	}
	if (p.X+p.Y)%stride == 0 {
		dirs = append(dirs, geom.TopLeft, geom.BottomRight)
	}
	if (p.X-p.Y)%stride == 0 {
		dirs = append(dirs, geom.TopRight, geom.BottomLeft)
	}
	return dirs
}

// isRadialDirection reports whether d is an obstacle-hugging direction
// from p: a Δ-step in d does not collide, but on at least one side of d both
// the 45° and the 90° neighbour do, per spec.md §4.1 case 4.
func isRadialDirection(in *Input, p geom.FixedVec2, layer int, d geom.Direction) bool {
	if stepCollides(in, p, layer, d) {
		return false
	}
	leftBlocked := stepCollides(in, p, layer, d.Left45()) && stepCollides(in, p, layer, d.Left90())
	rightBlocked := stepCollides(in, p, layer, d.Right45()) && stepCollides(in, p, layer, d.Right90())
	return leftBlocked || rightBlocked
}

func stepCollides(in *Input, p geom.FixedVec2, layer int, d geom.Direction) bool {
	dest := p.Add(d.Scale(geom.FixedDelta))
	seg := pcb.TraceSegment{Start: p, End: dest, Width: in.Width, Clearance: in.Clearance, Layer: layer}
	return in.Obstacles.segmentCollides(seg)
}

// clampByCollision binary-searches the longest collision-free step from p
// in direction d up to one stride length, per spec.md §4.1's "Clamping by
// collision" paragraph. Returns ok=false if even a Δ step collides.
func clampByCollision(in *Input, p geom.FixedVec2, layer int, d geom.Direction, stride geom.Fixed) (geom.FixedVec2, bool) {
	test := func(length geom.Fixed) bool {
		scaled := d.Scale(length)
		dest := p.Add(scaled)
		seg := pcb.TraceSegment{Start: p, End: dest, Width: in.Width, Clearance: in.Clearance, Layer: layer}
		return in.Obstacles.segmentCollides(seg)
	}
	lo, hi := geom.Fixed(0), stride
	if test(hi) {
		if test(geom.FixedDelta) {
			return geom.FixedVec2{}, false
		}
		for hi-lo > geom.FixedDelta {
			mid := lo + (hi-lo)/2
			if test(mid) {
				hi = mid
			} else {
				lo = mid
			}
		}
	} else {
		lo = hi
	}
	if lo <= 0 {
		return geom.FixedVec2{}, false
	}
	dest := p.Add(d.Scale(lo)).ToNearestEvenEven()
	if dest.Equal(p) {
		return geom.FixedVec2{}, false
	}
	return dest, true
}

// reconstruct walks parent pointers from the goal node back to the root,
// compressing consecutive nodes that share a position but differ in layer
// into a single anchor (emitting a via), per spec.md §4.1's "Trace
// reconstruction" paragraph.
func reconstruct(goal *node) []pcb.TraceAnchor {
	var chain []*node
	for n := goal; n != nil; n = n.parent {
		chain = append(chain, n)
	}
	// reverse into root-to-goal order
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	var anchors []pcb.TraceAnchor
	i := 0
	for i < len(chain) {
		pos := chain[i].pos
		startLayer := chain[i].layer
		endLayer := startLayer
		j := i
		for j+1 < len(chain) && chain[j+1].pos.Equal(pos) {
			j++
			endLayer = chain[j].layer
		}
		anchors = append(anchors, pcb.TraceAnchor{Position: pos, StartLayer: startLayer, EndLayer: endLayer})
		i = j + 1
	}
	return anchors
}
