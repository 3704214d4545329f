package astar

import (
	"testing"

	"github.com/arl/pcbroute/display"
	"github.com/arl/pcbroute/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOctileHeuristicSymmetric(t *testing.T) {
	a := geom.NewFixedVec2(geom.NewFixedFromInt(0), geom.NewFixedFromInt(0))
	b := geom.NewFixedVec2(geom.NewFixedFromInt(3), geom.NewFixedFromInt(4))
	assert.Equal(t, octile(a, b), octile(b, a))
	assert.True(t, octile(a, b) > 0)
}

func TestRunStraightLineNoObstacles(t *testing.T) {
	start := geom.NewFixedVec2(geom.NewFixedFromInt(0), geom.NewFixedFromInt(0))
	goal := geom.NewFixedVec2(geom.NewFixedFromInt(10), geom.NewFixedFromInt(0))
	in := Input{
		Start: start, Goal: goal,
		StartLayers: []int{0}, GoalLayers: []int{0},
		NumLayers:     2,
		Width:         0.2,
		Clearance:     0.1,
		Stride:        geom.NewFixedFromInt(2),
		ViaCost:     5,
		MaxExpansions: 1000,
		Obstacles:   &Obstacles{},
		Display:     display.NewNoop(),
	}
	path, expansions, err := Run(in)
	require.NoError(t, err)
	assert.True(t, expansions > 0)
	assert.True(t, path.Anchors[0].Position.Equal(start.ToNearestEvenEven()))
	assert.True(t, path.Anchors[len(path.Anchors)-1].Position.Equal(goal.ToNearestEvenEven()))
}

func TestRunCancelled(t *testing.T) {
	start := geom.NewFixedVec2(geom.NewFixedFromInt(0), geom.NewFixedFromInt(0))
	goal := geom.NewFixedVec2(geom.NewFixedFromInt(100), geom.NewFixedFromInt(100))
	inj := display.NewNoop()
	inj.RequestStop()
	in := Input{
		Start: start, Goal: goal,
		StartLayers: []int{0}, GoalLayers: []int{0},
		NumLayers:     1,
		Stride:        geom.NewFixedFromInt(2),
		MaxExpansions: 1000,
		Obstacles:     &Obstacles{},
		Display:       inj,
	}
	_, _, err := Run(in)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestRunBudgetExceeded(t *testing.T) {
	start := geom.NewFixedVec2(geom.NewFixedFromInt(0), geom.NewFixedFromInt(0))
	goal := geom.NewFixedVec2(geom.NewFixedFromInt(1000), geom.NewFixedFromInt(1000))
	in := Input{
		Start: start, Goal: goal,
		StartLayers: []int{0}, GoalLayers: []int{0},
		NumLayers:     1,
		Stride:        geom.NewFixedFromInt(2),
		MaxExpansions: 1,
		Obstacles:     &Obstacles{},
	}
	_, _, err := Run(in)
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}
