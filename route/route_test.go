package route

import (
	"errors"
	"testing"

	"github.com/arl/pcbroute/config"
	"github.com/arl/pcbroute/display"
	"github.com/arl/pcbroute/pcb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoNetSolveProblem() *pcb.Problem {
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

func TestSolveNaiveReportsStats(t *testing.T) {
	problem := twoNetSolveProblem()
	cfg := config.Default()
	cfg.UseBayesian = false
	cfg.AstarMaxExpansions = 5000

	sol, stats, err := Solve(problem, cfg, nil)
	require.NoError(t, err)
	assert.Len(t, sol.DeterminedTraces, 2)
	assert.Greater(t, stats.TotalRoutedLength, 0.0)
	assert.GreaterOrEqual(t, stats.AstarInvocations, 2)
}

func TestSolveReturnsCancelledWhenStopRequested(t *testing.T) {
	problem := twoNetSolveProblem()
	cfg := config.Default()
	cfg.UseBayesian = false

	inj := display.NewNoop()
	inj.RequestStop()

	_, _, err := Solve(problem, cfg, inj)
	require.Error(t, err)

	var routeErr *Error
	require.True(t, errors.As(err, &routeErr))
	assert.Equal(t, Cancelled, routeErr.Kind)
}

func TestKindStringMatchesTaxonomyNames(t *testing.T) {
	assert.Equal(t, "NoSolution", NoSolution.String())
	assert.Equal(t, "Cancelled", Cancelled.String())
}
