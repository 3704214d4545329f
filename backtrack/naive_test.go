package backtrack

import (
	"testing"

	"github.com/arl/pcbroute/cache"
	"github.com/arl/pcbroute/config"
	"github.com/arl/pcbroute/pcb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func easyTwoNetProblem() *pcb.Problem {
	netA := pcb.NetInfo{
		NetName: "A", TraceWidth: 0.2, TraceClearance: 0.1, ViaDiameter: 0.5, ViaClearance: 0.1,
		Pads: map[pcb.PadName]pcb.Pad{
			"A1": {Name: "A1", Position: pcb.FloatVec2{X: 0, Y: 0}, Shape: pcb.PadShape{Kind: pcb.PadCircle, Diameter: 0.5}, Layer: pcb.Front},
			"A2": {Name: "A2", Position: pcb.FloatVec2{X: 10, Y: 0}, Shape: pcb.PadShape{Kind: pcb.PadCircle, Diameter: 0.5}, Layer: pcb.Front},
		},
		Connections: map[pcb.ConnectionID]pcb.Connection{
			0: {NetName: "A", ConnectionID: 0, StartPad: "A1", EndPad: "A2"},
		},
	}
	netB := pcb.NetInfo{
		NetName: "B", TraceWidth: 0.2, TraceClearance: 0.1, ViaDiameter: 0.5, ViaClearance: 0.1,
		Pads: map[pcb.PadName]pcb.Pad{
			"B1": {Name: "B1", Position: pcb.FloatVec2{X: 0, Y: 6}, Shape: pcb.PadShape{Kind: pcb.PadCircle, Diameter: 0.5}, Layer: pcb.Front},
			"B2": {Name: "B2", Position: pcb.FloatVec2{X: 10, Y: 6}, Shape: pcb.PadShape{Kind: pcb.PadCircle, Diameter: 0.5}, Layer: pcb.Front},
		},
		Connections: map[pcb.ConnectionID]pcb.Connection{
			1: {NetName: "B", ConnectionID: 1, StartPad: "B1", EndPad: "B2"},
		},
	}
	return &pcb.Problem{
		Width: 20, Height: 20, NumLayers: 2,
		Nets: map[pcb.NetName]pcb.NetInfo{"A": netA, "B": netB},
	}
}

func naiveTestConfig() config.Values {
	v := config.Default()
	v.AstarMaxExpansions = 5000
	return v
}

func TestNaiveSolvesBothConnectionsWithoutHeuristics(t *testing.T) {
	problem := easyTwoNetProblem()
	cfg := naiveTestConfig()
	ids := problem.AllConnectionIDs()
	tc := cache.New(ids)

	sol, err := Naive(problem, cfg, tc, nil, nil)
	require.NoError(t, err)
	assert.Len(t, sol.DeterminedTraces, 2)
	for _, id := range ids {
		_, ok := sol.DeterminedTraces[id]
		assert.True(t, ok, "connection %d should be fixed", id)
	}
}

func TestNaiveHonorsExplicitHeuristicOrdering(t *testing.T) {
	problem := easyTwoNetProblem()
	cfg := naiveTestConfig()
	ids := problem.AllConnectionIDs()
	tc := cache.New(ids)

	sol, err := Naive(problem, cfg, tc, []pcb.ConnectionID{1, 0}, nil)
	require.NoError(t, err)
	assert.Len(t, sol.DeterminedTraces, 2)
}

func TestPushNodePrependsFailedInReverseOrder(t *testing.T) {
	n := newEmptyNaiveNode([]pcb.ConnectionID{0, 1, 2})
	n.Current = nil
	n.Failed = []pcb.ConnectionID{5, 6, 7}
	n.Alternatives = []pcb.ConnectionID{8}
	cur := pcb.ConnectionID(42)
	n.Current = &cur

	child := n.pushNode(42, pcb.FixedTrace{ConnectionID: 42})

	assert.Equal(t, []pcb.ConnectionID{7, 6, 5, 8}, child.Alternatives)
	assert.Nil(t, n.Current)
	assert.Equal(t, []pcb.ConnectionID{5, 6, 7, 42}, n.Failed)
}
