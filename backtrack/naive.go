package backtrack

import (
	"fmt"
	"log"
	"sort"

	"github.com/arl/pcbroute/astar"
	"github.com/arl/pcbroute/cache"
	"github.com/arl/pcbroute/config"
	"github.com/arl/pcbroute/display"
	"github.com/arl/pcbroute/geom"
	"github.com/arl/pcbroute/pcb"
)

// NaiveBacktrackNode is one frame of the ordered backtracker's stack.
//
// Grounded on naive_backtrack_algo.rs's NaiveBacktrackNode.
type NaiveBacktrackNode struct {
	Current      *pcb.ConnectionID
	Alternatives []pcb.ConnectionID
	Failed       []pcb.ConnectionID
	Fixed        map[pcb.ConnectionID]pcb.FixedTrace
}

func newEmptyNaiveNode(ordered []pcb.ConnectionID) *NaiveBacktrackNode {
	if len(ordered) == 0 {
		log.Panic("backtrack: naive backtracker needs at least one connection")
	}
	return &NaiveBacktrackNode{
		Alternatives: append([]pcb.ConnectionID(nil), ordered...),
		Fixed:        map[pcb.ConnectionID]pcb.FixedTrace{},
	}
}

// pushNode commits trace for connID (which must be n's current
// connection) and returns a new child frame: its alternatives are n's
// remaining alternatives, prepended with n's own failed list in
// most-recently-failed-first order so prior failures get retried before
// anything new. n itself is left with Current cleared and connID
// appended to its own failed list, in case a later sibling commit also
// needs push_node called on n again.
func (n *NaiveBacktrackNode) pushNode(connID pcb.ConnectionID, trace pcb.FixedTrace) *NaiveBacktrackNode {
	if n.Current == nil || *n.Current != connID {
		log.Panic("backtrack: pushNode called for a connection that isn't current")
	}
	n.Current = nil

	newFixed := make(map[pcb.ConnectionID]pcb.FixedTrace, len(n.Fixed)+1)
	for k, v := range n.Fixed {
		newFixed[k] = v
	}
	newFixed[connID] = trace

	prefix := make([]pcb.ConnectionID, len(n.Failed))
	for i, id := range n.Failed {
		prefix[len(n.Failed)-1-i] = id
	}
	newAlternatives := append(append([]pcb.ConnectionID(nil), prefix...), n.Alternatives...)

	n.Failed = append(n.Failed, connID)

	return &NaiveBacktrackNode{
		Fixed:        newFixed,
		Alternatives: newAlternatives,
	}
}

type connLookup struct {
	connections map[pcb.ConnectionID]pcb.Connection
	netInfo     map[pcb.ConnectionID]pcb.NetInfo
}

func buildConnLookup(problem *pcb.Problem) connLookup {
	lookup := connLookup{
		connections: map[pcb.ConnectionID]pcb.Connection{},
		netInfo:     map[pcb.ConnectionID]pcb.NetInfo{},
	}
	for _, net := range problem.Nets {
		for id, conn := range net.Connections {
			lookup.connections[id] = conn
			lookup.netInfo[id] = net
		}
	}
	return lookup
}

func padToPad(problem *pcb.Problem, net pcb.NetInfo, conn pcb.Connection, obstacles *astar.Obstacles, cfg config.Values, inj *display.Injection) (pcb.TracePath, error) {
	startPad := net.Pads[conn.StartPad]
	endPad := net.Pads[conn.EndPad]
	startStart, startEnd := startPad.Layer.LayerRange(problem.NumLayers)
	endStart, endEnd := endPad.Layer.LayerRange(problem.NumLayers)

	in := astar.Input{
		Start:         startPad.Position.ToFixed().ToNearestEvenEven(),
		Goal:          endPad.Position.ToFixed().ToNearestEvenEven(),
		StartLayers:   rangeSlice(startStart, startEnd),
		GoalLayers:    rangeSlice(endStart, endEnd),
		NumLayers:     problem.NumLayers,
		Width:         net.TraceWidth,
		Clearance:     net.TraceClearance,
		ViaDiameter:   net.ViaDiameter,
		ViaClearance:  net.ViaClearance,
		Stride:        geom.NewFixedFromFloat(cfg.AstarStride),
		ViaCost:       cfg.ViaCost,
		MaxExpansions: cfg.AstarMaxExpansions,
		Obstacles:     obstacles,
		Display:       inj,
	}
	tp, _, err := astar.Run(in)
	return tp, err
}

func rangeSlice(start, end int) []int {
	out := make([]int, 0, end-start)
	for l := start; l < end; l++ {
		out = append(out, l)
	}
	return out
}

// initialOrdering computes spec.md §4.6's "ascending path length" default
// ordering: for every connection, a pad-to-pad A* against other-net pads
// only (no fixed traces exist yet), caching each resulting path.
func initialOrdering(problem *pcb.Problem, cfg config.Values, traceCache *cache.TraceCache, inj *display.Injection) ([]pcb.ConnectionID, error) {
	type lengthEntry struct {
		id     pcb.ConnectionID
		length float64
	}
	var entries []lengthEntry

	for netName, net := range problem.Nets {
		obstacles := astar.BuildObstacles(problem, netName, nil)
		for connID, conn := range net.Connections {
			if inj != nil && inj.Cancelled() {
				return nil, ErrCancelled
			}
			tp, ok := traceCache.Lookup(connID, obstacles)
			if !ok {
				var err error
				tp, err = padToPad(problem, net, conn, obstacles, cfg, inj)
				if err != nil {
					return nil, fmt.Errorf("backtrack: initial ordering failed for connection %d: %w", connID, err)
				}
				traceCache.Insert(connID, tp)
			}
			entries = append(entries, lengthEntry{id: connID, length: tp.TotalLength})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].length < entries[j].length })
	ordered := make([]pcb.ConnectionID, len(entries))
	for i, e := range entries {
		ordered[i] = e.id
	}
	return ordered, nil
}

// Naive runs the ordered backtracker of spec.md §4.6: pop the next
// connection off the front of the current alternatives, try the cache
// then A* against other-net pads and fixed traces, push a child on
// success or pop back to the parent on failure, and declare victory once
// a node's alternatives and failed list are both empty.
func Naive(problem *pcb.Problem, cfg config.Values, traceCache *cache.TraceCache, heuristics []pcb.ConnectionID, inj *display.Injection) (*pcb.Solution, error) {
	if inj != nil && inj.Cancelled() {
		return nil, ErrCancelled
	}

	ordered := heuristics
	if ordered == nil {
		var err error
		ordered, err = initialOrdering(problem, cfg, traceCache, inj)
		if err != nil {
			return nil, err
		}
	}

	lookup := buildConnLookup(problem)
	stack := []*NaiveBacktrackNode{newEmptyNaiveNode(ordered)}

	for len(stack) > 0 {
		if inj != nil && inj.Cancelled() {
			return nil, ErrCancelled
		}
		top := stack[len(stack)-1]
		if inj != nil {
			inj.DisplayWhenNecessary(display.ProbaModelResult, func() interface{} { return nil })
		}

		if len(top.Alternatives) == 0 {
			if len(top.Failed) != 0 {
				return nil, fmt.Errorf("backtrack: %w: exhausted alternatives with unresolved failures", ErrNoSolution)
			}
			if inj != nil {
				inj.DisplayWhenNecessary(display.Auto, func() interface{} { return nil })
			}
			return &pcb.Solution{DeterminedTraces: copyFixed(top.Fixed), ScaleDownFactor: problem.ScaleDownFactor}, nil
		}

		connID := top.Alternatives[0]
		top.Alternatives = top.Alternatives[1:]
		top.Current = &connID

		conn := lookup.connections[connID]
		net := lookup.netInfo[connID]
		obstacles := astar.BuildObstacles(problem, conn.NetName, top.Fixed)

		tp, ok := traceCache.Lookup(connID, obstacles)
		if !ok {
			var err error
			tp, err = padToPad(problem, net, conn, obstacles, cfg, inj)
			if err != nil {
				stack = stack[:len(stack)-1]
				continue
			}
			traceCache.Insert(connID, tp)
		}

		fixed := pcb.FixedTrace{NetName: conn.NetName, ConnectionID: connID, TracePath: tp}
		child := top.pushNode(connID, fixed)
		stack = append(stack, child)
	}
	return nil, fmt.Errorf("backtrack: %w: no solution found", ErrNoSolution)
}
