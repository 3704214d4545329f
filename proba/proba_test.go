package proba

import (
	"testing"

	"github.com/arl/pcbroute/cache"
	"github.com/arl/pcbroute/config"
	"github.com/arl/pcbroute/geom"
	"github.com/arl/pcbroute/pcb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoNetProblem() *pcb.Problem {
	netA := pcb.NetInfo{
		NetName:        "A",
		TraceWidth:     0.2,
		TraceClearance: 0.1,
		ViaDiameter:    0.5,
		ViaClearance:   0.1,
		Pads: map[pcb.PadName]pcb.Pad{
			"A1": {Name: "A1", Position: geomVec(0, 0), Shape: pcb.PadShape{Kind: pcb.PadCircle, Diameter: 0.5}, Layer: pcb.Front},
			"A2": {Name: "A2", Position: geomVec(10, 0), Shape: pcb.PadShape{Kind: pcb.PadCircle, Diameter: 0.5}, Layer: pcb.Front},
		},
		Connections: map[pcb.ConnectionID]pcb.Connection{
			0: {NetName: "A", ConnectionID: 0, StartPad: "A1", EndPad: "A2"},
		},
	}
	netB := pcb.NetInfo{
		NetName:        "B",
		TraceWidth:     0.2,
		TraceClearance: 0.1,
		ViaDiameter:    0.5,
		ViaClearance:   0.1,
		Pads: map[pcb.PadName]pcb.Pad{
			"B1": {Name: "B1", Position: geomVec(0, 6), Shape: pcb.PadShape{Kind: pcb.PadCircle, Diameter: 0.5}, Layer: pcb.Front},
			"B2": {Name: "B2", Position: geomVec(10, 6), Shape: pcb.PadShape{Kind: pcb.PadCircle, Diameter: 0.5}, Layer: pcb.Front},
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

func geomVec(x, y float32) pcb.FloatVec2 { return pcb.FloatVec2{X: x, Y: y} }

func testConfig() config.Values {
	v := config.Default()
	v.SampleIterations = 1
	v.MaxGenerationAttempts = 2
	v.AstarMaxExpansions = 5000
	return v
}

func TestCreateAndSolveGeneratesCandidatesForEveryConnection(t *testing.T) {
	problem := twoNetProblem()
	cfg := testConfig()
	ids := problem.AllConnectionIDs()
	tc := cache.New(ids)

	m, err := CreateAndSolve(problem, cfg, nil, nil, tc, nil)
	require.NoError(t, err)

	for _, id := range ids {
		traces := m.ConnectionToTraces[id]
		require.NotNil(t, traces)
		assert.NotEmpty(t, traces.Probabilistic, "connection %d should have at least one candidate", id)
		for _, c := range traces.Probabilistic {
			assert.Equal(t, 1, c.Iteration)
			assert.NotNil(t, c.Posterior)
			assert.Greater(t, *c.Posterior, 0.0)
		}
	}
}

func TestPosteriorWithFallbackUsesPriorWhenUnset(t *testing.T) {
	cfg := config.Default()
	c := &Candidate{Iteration: 1}
	got := c.PosteriorWithFallback(cfg)
	assert.Equal(t, cfg.FirstIterationProbability, got)
}

func TestUpdatePosteriorPenalizesCollidingCandidates(t *testing.T) {
	problem := twoNetProblem()
	cfg := testConfig()
	m := &Model{
		Problem:            problem,
		Config:             cfg,
		ConnectionToTraces: map[pcb.ConnectionID]*Traces{},
		CollisionAdjacency: map[TraceID]map[TraceID]bool{},
	}

	pathA := pcb.FromAnchors([]pcb.TraceAnchor{
		{Position: fv(0, 0), StartLayer: 0, EndLayer: 0},
		{Position: fv(4, 0), StartLayer: 0, EndLayer: 0},
	}, 0.2, 0.1, 0.5, 0.1)
	pathB := pcb.FromAnchors([]pcb.TraceAnchor{
		{Position: fv(0, 0), StartLayer: 0, EndLayer: 0},
		{Position: fv(4, 0), StartLayer: 0, EndLayer: 0},
	}, 0.2, 0.1, 0.5, 0.1)

	candA := &Candidate{NetName: "A", ConnectionID: 0, ID: 0, TracePath: pathA, Iteration: 1}
	candB := &Candidate{NetName: "B", ConnectionID: 1, ID: 1, TracePath: pathB, Iteration: 1}
	m.ConnectionToTraces[0] = &Traces{Probabilistic: map[TraceID]*Candidate{0: candA}}
	m.ConnectionToTraces[1] = &Traces{Probabilistic: map[TraceID]*Candidate{1: candB}}

	m.rebuildCollisionAdjacency()
	assert.True(t, m.CollisionAdjacency[0][1])
	assert.True(t, m.CollisionAdjacency[1][0])

	m.updatePosterior()
	require.NotNil(t, candA.Posterior)
	require.NotNil(t, candB.Posterior)

	priorOnly := candA.TracePath.GetScore(cfg.HalfProbabilityRawScore) * cfg.FirstIterationProbability
	assert.Less(t, *candA.Posterior, priorOnly)
}

func fv(x, y int) geom.FixedVec2 {
	return geom.NewFixedVec2(geom.NewFixedFromInt(x), geom.NewFixedFromInt(y))
}
