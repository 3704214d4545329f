package backtrack

import (
	"testing"

	"github.com/arl/pcbroute/cache"
	"github.com/arl/pcbroute/config"
	"github.com/arl/pcbroute/pcb"
	"github.com/arl/pcbroute/proba"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bayesianTestConfig() config.Values {
	v := config.Default()
	v.SampleIterations = 1
	v.MaxGenerationAttempts = 2
	v.AstarMaxExpansions = 5000
	v.NumTopRankedToTry = 3
	v.UpdateProbaSkipStride = 1
	return v
}

func TestBayesianSolvesDisjointNets(t *testing.T) {
	problem := easyTwoNetProblem()
	cfg := bayesianTestConfig()
	ids := problem.AllConnectionIDs()
	tc := cache.New(ids)

	sol, err := Bayesian(problem, cfg, tc, nil)
	require.NoError(t, err)
	assert.Len(t, sol.DeterminedTraces, 2)
	for _, id := range ids {
		_, ok := sol.DeterminedTraces[id]
		assert.True(t, ok, "connection %d should be fixed", id)
	}
}

func TestCandidateQueuePopsHighestPosteriorFirst(t *testing.T) {
	q := &candidateQueue{}
	q.push(candidateItem{posterior: 0.2, candidate: &proba.Candidate{ConnectionID: 1}})
	q.push(candidateItem{posterior: 0.9, candidate: &proba.Candidate{ConnectionID: 2}})
	q.push(candidateItem{posterior: 0.5, candidate: &proba.Candidate{ConnectionID: 3}})

	first, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, pcb.ConnectionID(2), first.candidate.ConnectionID)

	second, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, pcb.ConnectionID(3), second.candidate.ConnectionID)

	third, ok := q.pop()
	require.True(t, ok)
	assert.Equal(t, pcb.ConnectionID(1), third.candidate.ConnectionID)

	_, ok = q.pop()
	assert.False(t, ok)
}
