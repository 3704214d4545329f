package astar

import (
	"github.com/arl/pcbroute/geom"
	"github.com/arl/pcbroute/pcb"
	"github.com/arl/pcbroute/quadtree"
)

// BoardBorders returns the four half-plane colliders bounding a board of
// the given width/height centred at center, grounded on
// AStarModel::calculate_border_colliders.
func BoardBorders(width, height float32, center geom.FloatVec2) []geom.Collider {
	return []geom.Collider{
		geom.NewBorderCollider(geom.BorderCollider{
			PointOnBorder: geom.FloatVec2{X: center.X - width/2, Y: 0}, Normal: geom.FloatVec2{X: -1, Y: 0},
		}),
		geom.NewBorderCollider(geom.BorderCollider{
			PointOnBorder: geom.FloatVec2{X: center.X + width/2, Y: 0}, Normal: geom.FloatVec2{X: 1, Y: 0},
		}),
		geom.NewBorderCollider(geom.BorderCollider{
			PointOnBorder: geom.FloatVec2{X: 0, Y: center.Y + height/2}, Normal: geom.FloatVec2{X: 0, Y: 1},
		}),
		geom.NewBorderCollider(geom.BorderCollider{
			PointOnBorder: geom.FloatVec2{X: 0, Y: center.Y - height/2}, Normal: geom.FloatVec2{X: 0, Y: -1},
		}),
	}
}

// BuildObstacles assembles the static obstacle environment for a
// connection attempt: board borders, every pad of every net other than
// excludeNet, and every already-fixed trace whose net isn't excludeNet.
// Grounded on naive_backtrack_algo.rs's inline per-connection obstacle
// construction (pads of other nets + fixed traces of other nets), reused
// for both the ordered backtracker and the probabilistic model, which
// each call this once per net per round so a net never sees its own pads
// as an obstacle.
func BuildObstacles(problem *pcb.Problem, excludeNet pcb.NetName, fixedTraces map[pcb.ConnectionID]pcb.FixedTrace) *Obstacles {
	side := problem.Width
	if problem.Height > side {
		side = problem.Height
	}
	xMin := problem.Center.X - side/2
	xMax := problem.Center.X + side/2
	yMin := problem.Center.Y - side/2
	yMax := problem.Center.Y + side/2

	plain := make(map[int]*quadtree.Node, problem.NumLayers)
	clearance := make(map[int]*quadtree.Node, problem.NumLayers)
	for l := 0; l < problem.NumLayers; l++ {
		plain[l] = quadtree.New(xMin, xMax, yMin, yMax)
		clearance[l] = quadtree.New(xMin, xMax, yMin, yMax)
	}

	for netName, netInfo := range problem.Nets {
		if netName == excludeNet {
			continue
		}
		for _, pad := range netInfo.Pads {
			start, end := pad.Layer.LayerRange(problem.NumLayers)
			for l := start; l < end; l++ {
				for _, c := range pad.ToColliders() {
					plain[l].Insert(c)
				}
				for _, c := range pad.ToClearanceColliders() {
					clearance[l].Insert(c)
				}
			}
		}
	}
	for _, ft := range fixedTraces {
		if ft.NetName == excludeNet {
			continue
		}
		for layer, cs := range ft.TracePath.ToColliders() {
			for _, c := range cs {
				plain[layer].Insert(c)
			}
		}
		for layer, cs := range ft.TracePath.ToClearanceColliders() {
			for _, c := range cs {
				clearance[layer].Insert(c)
			}
		}
	}

	return &Obstacles{
		Borders:   BoardBorders(problem.Width, problem.Height, problem.Center),
		Plain:     plain,
		Clearance: clearance,
	}
}
