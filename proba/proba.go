// Package proba is the probabilistic model: per connection, either a
// committed FixedTrace or a pool of weighted candidate TracePaths whose
// posteriors are refined by repeated sampling and a collision-penalty
// fixpoint update.
//
// Grounded on original_source/router/src/proba_model.rs.
package proba

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/arl/pcbroute/astar"
	"github.com/arl/pcbroute/cache"
	"github.com/arl/pcbroute/config"
	"github.com/arl/pcbroute/display"
	"github.com/arl/pcbroute/geom"
	"github.com/arl/pcbroute/pcb"
)

// TraceID uniquely identifies a probabilistic candidate across the whole
// model, assigned in generation order.
type TraceID int

// Candidate is one probabilistic path proposal for a connection.
// Grounded on ProbaTrace; posterior is nil until the first update.
type Candidate struct {
	NetName      pcb.NetName
	ConnectionID pcb.ConnectionID
	ID           TraceID
	TracePath    pcb.TracePath
	Iteration    int
	Posterior    *float64
}

// PosteriorWithFallback returns the candidate's posterior, or its
// iteration's prior when no posterior has been computed yet.
func (c *Candidate) PosteriorWithFallback(v config.Values) float64 {
	if c.Posterior != nil {
		return *c.Posterior
	}
	p, err := config.PriorProbability(c.Iteration, v)
	if err != nil {
		panic(err)
	}
	return p
}

// Traces is either a single committed trace, or the pool of probabilistic
// candidates still being refined for a connection.
type Traces struct {
	Fixed         *pcb.FixedTrace
	Probabilistic map[TraceID]*Candidate
}

// Model is the probabilistic model for one backtracking prefix: the
// connections already fixed, and the candidate pools for the rest.
type Model struct {
	Problem            *pcb.Problem
	Config             config.Values
	ConnectionToTraces map[pcb.ConnectionID]*Traces
	FixSequence        []pcb.ConnectionID
	CollisionAdjacency map[TraceID]map[TraceID]bool
	nextID             TraceID
	nextIteration      int
	rng                *rand.Rand
}

// deterministicSeed is the fixed RNG seed spec.md §4.4 calls for, so
// repeated runs over the same problem produce identical candidate sets.
const deterministicSeed = 42

// CreateAndSolve builds a fresh model rooted at fixedTraces/fixSequence
// and runs config.Values.SampleIterations rounds of candidate generation
// followed by 10 posterior-update passes each, per spec.md §4.4.
func CreateAndSolve(
	problem *pcb.Problem,
	cfg config.Values,
	fixedTraces map[pcb.ConnectionID]pcb.FixedTrace,
	fixSequence []pcb.ConnectionID,
	traceCache *cache.TraceCache,
	inj *display.Injection,
) (*Model, error) {
	if inj != nil && inj.Cancelled() {
		return nil, fmt.Errorf("proba: cancelled before model creation")
	}
	m := &Model{
		Problem:            problem,
		Config:             cfg,
		ConnectionToTraces: make(map[pcb.ConnectionID]*Traces),
		FixSequence:        append([]pcb.ConnectionID(nil), fixSequence...),
		CollisionAdjacency: make(map[TraceID]map[TraceID]bool),
		nextIteration:      1,
		rng:                rand.New(rand.NewSource(deterministicSeed)),
	}
	for _, id := range problem.AllConnectionIDs() {
		if ft, ok := fixedTraces[id]; ok {
			fixed := ft
			m.ConnectionToTraces[id] = &Traces{Fixed: &fixed}
		} else {
			m.ConnectionToTraces[id] = &Traces{Probabilistic: map[TraceID]*Candidate{}}
		}
	}

	for iter := 1; iter <= int(cfg.SampleIterations); iter++ {
		if inj != nil && inj.Cancelled() {
			return nil, fmt.Errorf("proba: cancelled during sample iteration %d", iter)
		}
		m.nextIteration = iter
		if err := m.sampleNewTraces(fixedTraces, traceCache, inj); err != nil {
			return nil, err
		}
		m.rebuildCollisionAdjacency()
		for i := 0; i < 10; i++ {
			if inj != nil && inj.Cancelled() {
				return nil, fmt.Errorf("proba: cancelled during posterior update")
			}
			m.updatePosterior()
			if inj != nil {
				inj.DisplayWhenNecessary(display.AstarFrontierOrUpdatePosterior, func() interface{} { return nil })
			}
		}
	}
	return m, nil
}

func (m *Model) newID() TraceID {
	id := m.nextID
	m.nextID++
	return id
}

// sampleNewTraces implements spec.md §4.4's "Candidate generation" step:
// for each net, build obstacles from every other net's pads and fixed
// traces, then repeatedly sample one candidate per other-net connection
// (weighted by normalized posterior plus residual mass) as a transient
// obstacle, and try to fill this net's connections up to their quota.
func (m *Model) sampleNewTraces(fixedTraces map[pcb.ConnectionID]pcb.FixedTrace, traceCache *cache.TraceCache, inj *display.Injection) error {
	maxCandidates, err := config.NumTraces(m.nextIteration, m.Config)
	if err != nil {
		return err
	}

	for netName, netInfo := range m.Problem.Nets {
		obstacleConns := m.otherNetConnections(netName)
		generated := map[pcb.ConnectionID]uint{}
		for id := range netInfo.Connections {
			generated[id] = 0
		}

		baseObstacles := astar.BuildObstacles(m.Problem, netName, fixedTraces)
		attempts := uint(0)
		for attempts < m.Config.MaxGenerationAttempts && belowQuota(generated, maxCandidates) {
			attempts++
			sampledObstacleTraces := m.sampleObstacleCandidates(obstacleConns)
			roundObstacles := m.withSampledTracesAsObstacles(baseObstacles, sampledObstacleTraces)

			for connID, conn := range netInfo.Connections {
				if generated[connID] >= maxCandidates {
					continue
				}
				if m.anyExistingCandidatePasses(connID, roundObstacles) {
					continue
				}
				tp, err := m.findPath(netInfo, conn, roundObstacles, traceCache, inj)
				if err != nil {
					if err == astar.ErrCancelled {
						return err
					}
					// Any other A* failure leaves this connection one
					// candidate short for this round.
					continue
				}
				cand := &Candidate{NetName: netName, ConnectionID: connID, ID: m.newID(), TracePath: tp, Iteration: m.nextIteration}
				m.ConnectionToTraces[connID].Probabilistic[cand.ID] = cand
				generated[connID]++
			}
		}
	}
	return nil
}

func belowQuota(generated map[pcb.ConnectionID]uint, quota uint) bool {
	for _, n := range generated {
		if n < quota {
			return true
		}
	}
	return false
}

func (m *Model) otherNetConnections(net pcb.NetName) []pcb.ConnectionID {
	var out []pcb.ConnectionID
	for otherNet, info := range m.Problem.Nets {
		if otherNet == net {
			continue
		}
		for id := range info.Connections {
			out = append(out, id)
		}
	}
	return out
}

// sampleObstacleCandidates picks one candidate (or "absent") per
// other-net connection, weighted by normalized posterior plus residual
// mass, per spec.md §4.4.
func (m *Model) sampleObstacleCandidates(conns []pcb.ConnectionID) map[pcb.ConnectionID]*TraceID {
	out := make(map[pcb.ConnectionID]*TraceID, len(conns))
	remaining, err := config.RemainingProbability(m.nextIteration, m.Config)
	if err != nil {
		remaining = 0
	}
	for _, connID := range conns {
		traces := m.ConnectionToTraces[connID]
		if traces.Fixed != nil || len(traces.Probabilistic) == 0 {
			out[connID] = nil
			continue
		}
		ids := make([]TraceID, 0, len(traces.Probabilistic))
		weights := make([]float64, 0, len(traces.Probabilistic))
		sum := 0.0
		for id, c := range traces.Probabilistic {
			p := c.PosteriorWithFallback(m.Config)
			ids = append(ids, id)
			weights = append(weights, p)
			sum += p
		}
		weights = append(weights, remaining)
		total := sum + remaining
		r := m.rng.Float64() * total
		acc := 0.0
		chosen := -1
		for i, w := range weights {
			acc += w
			if r <= acc {
				chosen = i
				break
			}
		}
		if chosen >= 0 && chosen < len(ids) {
			id := ids[chosen]
			out[connID] = &id
		} else {
			out[connID] = nil
		}
	}
	return out
}

// anyExistingCandidatePasses reports whether any candidate already
// generated this iteration for connID still avoids obstacles, per
// spec.md §4.4's "First try every candidate already generated this
// iteration for this connection" rule.
func (m *Model) anyExistingCandidatePasses(connID pcb.ConnectionID, obstacles *astar.Obstacles) bool {
	for _, c := range m.ConnectionToTraces[connID].Probabilistic {
		if c.Iteration == m.nextIteration && !obstacles.PathCollides(c.TracePath) {
			return true
		}
	}
	return false
}

// withSampledTracesAsObstacles adds each sampled candidate's shapes/
// clearance-shapes to base's transient collider lists, per layer.
func (m *Model) withSampledTracesAsObstacles(base *astar.Obstacles, sampled map[pcb.ConnectionID]*TraceID) *astar.Obstacles {
	plain := map[int][]geom.Collider{}
	clearance := map[int][]geom.Collider{}
	for connID, idPtr := range sampled {
		if idPtr == nil {
			continue
		}
		c := m.findCandidate(connID, *idPtr)
		if c == nil {
			continue
		}
		for layer, cs := range c.TracePath.ToColliders() {
			plain[layer] = append(plain[layer], cs...)
		}
		for layer, cs := range c.TracePath.ToClearanceColliders() {
			clearance[layer] = append(clearance[layer], cs...)
		}
	}
	return base.WithTransient(plain, clearance)
}

func (m *Model) findCandidate(connID pcb.ConnectionID, id TraceID) *Candidate {
	if traces, ok := m.ConnectionToTraces[connID]; ok {
		return traces.Probabilistic[id]
	}
	return nil
}

// findPath consults the trace cache before invoking A*, appending any
// freshly computed path back into the cache, per spec.md §4.3.
func (m *Model) findPath(netInfo pcb.NetInfo, conn pcb.Connection, obstacles *astar.Obstacles, traceCache *cache.TraceCache, inj *display.Injection) (pcb.TracePath, error) {
	startPad := netInfo.Pads[conn.StartPad]
	endPad := netInfo.Pads[conn.EndPad]
	start := startPad.Position.ToFixed().ToNearestEvenEven()
	goal := endPad.Position.ToFixed().ToNearestEvenEven()
	startStart, startEnd := startPad.Layer.LayerRange(m.Problem.NumLayers)
	endStart, endEnd := endPad.Layer.LayerRange(m.Problem.NumLayers)

	if tp, ok := traceCache.Lookup(conn.ConnectionID, obstacles); ok {
		return tp, nil
	}

	in := astar.Input{
		Start: start, Goal: goal,
		StartLayers: layerRange(startStart, startEnd), GoalLayers: layerRange(endStart, endEnd),
		NumLayers:     m.Problem.NumLayers,
		Width:         netInfo.TraceWidth,
		Clearance:     netInfo.TraceClearance,
		ViaDiameter:   netInfo.ViaDiameter,
		ViaClearance:  netInfo.ViaClearance,
		Stride:        geom.NewFixedFromFloat(1.0),
		ViaCost:       m.Config.ViaCost,
		MaxExpansions: m.Config.AstarMaxExpansions,
		Obstacles:     obstacles,
		Display:       inj,
	}
	tp, _, err := astar.Run(in)
	if err != nil {
		return pcb.TracePath{}, err
	}
	traceCache.Insert(conn.ConnectionID, tp)
	return tp, nil
}

func layerRange(start, end int) []int {
	out := make([]int, 0, end-start)
	for l := start; l < end; l++ {
		out = append(out, l)
	}
	return out
}

// rebuildCollisionAdjacency computes the pairwise collision graph over
// every probabilistic candidate, with edges only between candidates of
// different nets, per spec.md §4.4.
func (m *Model) rebuildCollisionAdjacency() {
	all := m.allProbabilistic()
	m.CollisionAdjacency = make(map[TraceID]map[TraceID]bool, len(all))
	for _, c := range all {
		m.CollisionAdjacency[c.ID] = map[TraceID]bool{}
	}
	ids := make([]TraceID, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, b := all[ids[i]], all[ids[j]]
			if a.NetName == b.NetName {
				continue
			}
			if a.TracePath.CollidesWith(b.TracePath) {
				m.CollisionAdjacency[a.ID][b.ID] = true
				m.CollisionAdjacency[b.ID][a.ID] = true
			}
		}
	}
}

func (m *Model) allProbabilistic() map[TraceID]*Candidate {
	out := map[TraceID]*Candidate{}
	for _, traces := range m.ConnectionToTraces {
		for id, c := range traces.Probabilistic {
			out[id] = c
		}
	}
	return out
}

// updatePosterior runs one double-buffered fixpoint round over every
// probabilistic candidate, per spec.md §4.4's posterior-update formulas.
func (m *Model) updatePosterior() {
	all := m.allProbabilistic()
	temp := make(map[TraceID]float64, len(all))

	k := math.Ln2 / m.Config.HalfProbabilityOpportunityCost
	for id, c := range all {
		penalty := 0.0
		for neighbor := range m.CollisionAdjacency[id] {
			penalty += all[neighbor].PosteriorWithFallback(m.Config)
		}
		score := c.TracePath.GetScore(m.Config.HalfProbabilityRawScore)
		opportunity := math.Exp(-k * penalty)
		prior, err := config.PriorProbability(c.Iteration, m.Config)
		if err != nil {
			panic(err)
		}
		temp[id] = prior * score * opportunity
	}
	for id, c := range all {
		v := temp[id]
		c.Posterior = &v
	}
}
