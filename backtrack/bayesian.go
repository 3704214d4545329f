package backtrack

import (
	"errors"
	"log"

	"github.com/arl/pcbroute/cache"
	"github.com/arl/pcbroute/config"
	"github.com/arl/pcbroute/display"
	"github.com/arl/pcbroute/pcb"
	"github.com/arl/pcbroute/proba"
)

// ErrCancelled is returned by Bayesian/Naive when the stop flag was
// observed mid-search.
var ErrCancelled = errors.New("backtrack: cancelled")

// ErrNoSolution is returned by Naive when the ordered search exhausts
// every node on its stack without fixing all connections.
var ErrNoSolution = errors.New("backtrack: no solution")

// BacktrackNode is one frame of the Bayesian backtracker's stack: the
// connections fixed so far, the order they were fixed in, and the
// still-unfixed candidates ranked by posterior.
//
// Grounded on backtrack_node.rs's BacktrackNode.
type BacktrackNode struct {
	Remaining    *candidateQueue
	FixedTraces  map[pcb.ConnectionID]pcb.FixedTrace
	FixSequence  []pcb.ConnectionID
	ProbUpToDate bool
}

func fromProbaModel(m *proba.Model) *BacktrackNode {
	n := &BacktrackNode{
		Remaining:    &candidateQueue{},
		FixedTraces:  make(map[pcb.ConnectionID]pcb.FixedTrace),
		FixSequence:  append([]pcb.ConnectionID(nil), m.FixSequence...),
		ProbUpToDate: true,
	}
	for connID, traces := range m.ConnectionToTraces {
		if traces.Fixed != nil {
			n.FixedTraces[connID] = *traces.Fixed
			continue
		}
		for _, c := range traces.Probabilistic {
			n.Remaining.push(candidateItem{posterior: c.PosteriorWithFallback(m.Config), candidate: c})
		}
	}
	return n
}

func (n *BacktrackNode) clone() *BacktrackNode {
	fixed := make(map[pcb.ConnectionID]pcb.FixedTrace, len(n.FixedTraces))
	for k, v := range n.FixedTraces {
		fixed[k] = v
	}
	return &BacktrackNode{
		Remaining:    n.Remaining.clone(),
		FixedTraces:  fixed,
		FixSequence:  append([]pcb.ConnectionID(nil), n.FixSequence...),
		ProbUpToDate: n.ProbUpToDate,
	}
}

// fixTrace commits trace for connID: it is inserted into FixedTraces,
// appended to FixSequence, every other remaining candidate of the same
// connection is dropped from the queue, and the node is marked stale.
func (n *BacktrackNode) fixTrace(connID pcb.ConnectionID, trace pcb.FixedTrace) {
	n.FixedTraces[connID] = trace
	n.FixSequence = append(n.FixSequence, connID)
	filtered := &candidateQueue{}
	for {
		item, ok := n.Remaining.pop()
		if !ok {
			break
		}
		if item.candidate.ConnectionID != connID {
			filtered.push(item)
		}
	}
	n.Remaining = filtered
	n.ProbUpToDate = false
}

// TryFixTopKRankedTrace pops up to k ranked candidates (highest posterior
// first), discarding any that collides with an already-fixed trace of a
// different net, and commits the first one that doesn't. Every popped
// candidate — including ones discarded along the way — is permanently
// removed from n's queue. Returns nil if all k collide (or the queue runs
// dry first); onDiscard, if non-nil, is called with a disposable node
// reflecting each discarded attempt, mirroring the original's display hook.
//
// Grounded on backtrack_node.rs's try_fix_top_k_ranked_trace.
func (n *BacktrackNode) TryFixTopKRankedTrace(k int, onDiscard func(*BacktrackNode)) *BacktrackNode {
	var winner *candidateItem
	for i := 0; i < k; i++ {
		item, ok := n.Remaining.pop()
		if !ok {
			return nil
		}
		collision := false
		for _, fixed := range n.FixedTraces {
			if fixed.NetName == item.candidate.NetName {
				continue
			}
			if item.candidate.TracePath.CollidesWith(fixed.TracePath) {
				collision = true
				if onDiscard != nil {
					discarded := n.clone()
					discarded.fixTrace(item.candidate.ConnectionID, pcb.FixedTrace{
						NetName: item.candidate.NetName, ConnectionID: item.candidate.ConnectionID, TracePath: item.candidate.TracePath,
					})
					onDiscard(discarded)
				}
				break
			}
		}
		if !collision {
			w := item
			winner = &w
			break
		}
	}
	if winner == nil {
		return nil
	}
	newNode := n.clone()
	newNode.fixTrace(winner.candidate.ConnectionID, pcb.FixedTrace{
		NetName: winner.candidate.NetName, ConnectionID: winner.candidate.ConnectionID, TracePath: winner.candidate.TracePath,
	})
	return newNode
}

// fromFixedTraces rebuilds a node from scratch: a fresh probabilistic
// model rooted at fixedTraces/fixSequence, converted to candidate form.
func fromFixedTraces(
	problem *pcb.Problem,
	cfg config.Values,
	fixedTraces map[pcb.ConnectionID]pcb.FixedTrace,
	fixSequence []pcb.ConnectionID,
	traceCache *cache.TraceCache,
	inj *display.Injection,
) (*BacktrackNode, error) {
	model, err := proba.CreateAndSolve(problem, cfg, fixedTraces, fixSequence, traceCache, inj)
	if err != nil {
		return nil, err
	}
	return fromProbaModel(model), nil
}

// tryUpdateProbaModel rebuilds n's probabilistic model from its current
// fixed traces. Panics if n is already up to date: the Bayesian loop only
// ever calls this right after fixTrace, which always leaves ProbUpToDate
// false, so this branch is an invariant violation rather than a reachable
// runtime condition.
func (n *BacktrackNode) tryUpdateProbaModel(problem *pcb.Problem, cfg config.Values, traceCache *cache.TraceCache, inj *display.Injection) {
	if n.ProbUpToDate {
		log.Panic("backtrack: tryUpdateProbaModel called on an already up-to-date node")
	}
	updated, err := fromFixedTraces(problem, cfg, n.FixedTraces, n.FixSequence, traceCache, inj)
	if err != nil {
		log.Panicf("backtrack: failed to rebuild probabilistic model: %v", err)
	}
	*n = *updated
}

func (n *BacktrackNode) isSolution(problem *pcb.Problem) bool {
	for _, netInfo := range problem.Nets {
		for connID := range netInfo.Connections {
			if _, ok := n.FixedTraces[connID]; !ok {
				return false
			}
		}
	}
	return true
}

// Bayesian runs the Bayesian backtracker of spec.md §4.5: repeatedly
// commit the top-ranked remaining candidate (skipping up to
// NumTopRankedToTry colliding ones), periodically refreshing the
// probabilistic model for the new prefix. If the top node can never be
// extended, control passes to Naive with the prefix it reached as a
// heuristic ordering — that hand-off is the algorithm's own result, never
// a failure in its own right.
func Bayesian(problem *pcb.Problem, cfg config.Values, traceCache *cache.TraceCache, inj *display.Injection) (*pcb.Solution, error) {
	if inj != nil && inj.Cancelled() {
		return nil, ErrCancelled
	}
	allConnections := problem.AllConnectionIDs()

	first, err := fromFixedTraces(problem, cfg, nil, nil, traceCache, inj)
	if err != nil {
		return nil, err
	}
	stack := []*BacktrackNode{first}

	var heuristics []pcb.ConnectionID
	for len(stack) > 0 {
		if inj != nil && inj.Cancelled() {
			return nil, ErrCancelled
		}
		top := stack[len(stack)-1]
		if inj != nil {
			inj.DisplayWhenNecessary(display.ProbaModelResult, func() interface{} { return nil })
		}
		if top.isSolution(problem) {
			return &pcb.Solution{DeterminedTraces: copyFixed(top.FixedTraces), ScaleDownFactor: problem.ScaleDownFactor}, nil
		}

		onDiscard := func(discarded *BacktrackNode) {
			if inj != nil {
				inj.DisplayWhenNecessary(display.ProbaModelResult, func() interface{} { return nil })
			}
		}
		newNode := top.TryFixTopKRankedTrace(int(cfg.NumTopRankedToTry), onDiscard)
		if newNode != nil {
			if len(stack)%int(cfg.UpdateProbaSkipStride) == 0 {
				newNode.tryUpdateProbaModel(problem, cfg, traceCache, inj)
			}
			stack = append(stack, newNode)
			continue
		}

		seen := make(map[pcb.ConnectionID]bool, len(top.FixSequence))
		for _, id := range top.FixSequence {
			heuristics = append(heuristics, id)
			seen[id] = true
		}
		for _, id := range allConnections {
			if !seen[id] {
				heuristics = append(heuristics, id)
			}
		}
		break
	}

	return Naive(problem, cfg, traceCache, heuristics, inj)
}

func copyFixed(m map[pcb.ConnectionID]pcb.FixedTrace) map[pcb.ConnectionID]pcb.FixedTrace {
	out := make(map[pcb.ConnectionID]pcb.FixedTrace, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
