// Package cache holds the per-job trace cache: an append-only memo of
// every TracePath A* has ever returned for a connection, re-validated
// against the current obstacle set before reuse.
//
// Grounded on bayesian_backtrack_algo.rs's TraceCache and its lookup loop
// duplicated in naive_backtrack_algo.rs.
package cache

import "github.com/arl/pcbroute/pcb"

// Checker re-validates a previously found path against the obstacle set
// active for the current fix attempt. Implemented by *astar.Obstacles
// (its segmentCollides/viaCollides double as the post-solve check spec.md
// §4.3 describes, per DESIGN.md's astar-package note).
type Checker interface {
	PathCollides(tp pcb.TracePath) bool
}

// TraceCache is the per-connection append-only list described by
// spec.md §4.3. It is scoped to a single routing job.
type TraceCache struct {
	traces map[pcb.ConnectionID][]pcb.TracePath
}

// New returns an empty cache seeded with an entry for every connection id
// the job will ever look up, mirroring the original's eager
// HashMap<ConnectionID, Vec<TracePath>> construction in
// pcb_problem_solve.rs.
func New(connectionIDs []pcb.ConnectionID) *TraceCache {
	c := &TraceCache{traces: make(map[pcb.ConnectionID][]pcb.TracePath, len(connectionIDs))}
	for _, id := range connectionIDs {
		c.traces[id] = nil
	}
	return c
}

// Lookup returns the first cached path for id that passes checker's
// collision test against the current obstacle set, or ok=false on a full
// miss.
func (c *TraceCache) Lookup(id pcb.ConnectionID, checker Checker) (pcb.TracePath, bool) {
	for _, tp := range c.traces[id] {
		if !checker.PathCollides(tp) {
			return tp, true
		}
	}
	return pcb.TracePath{}, false
}

// Insert appends a freshly computed path to id's cache entry.
func (c *TraceCache) Insert(id pcb.ConnectionID, tp pcb.TracePath) {
	c.traces[id] = append(c.traces[id], tp)
}

// Len returns the number of cached paths for id, mostly useful for tests
// and diagnostics.
func (c *TraceCache) Len(id pcb.ConnectionID) int {
	return len(c.traces[id])
}
