package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRoundTripsThroughParams(t *testing.T) {
	v := Default()
	p := NewParams(v)
	got := p.Snapshot()
	assert.Equal(t, v, got)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	v, err := Load([]byte("use_bayesian: false\nvia_cost: 7.5\n"))
	assert.NoError(t, err)
	assert.False(t, v.UseBayesian)
	assert.Equal(t, 7.5, v.ViaCost)
	assert.Equal(t, Default().AstarMaxExpansions, v.AstarMaxExpansions)
}

func TestIterationTableStopsAtTwo(t *testing.T) {
	v := Default()
	_, err := PriorProbability(1, v)
	assert.NoError(t, err)
	_, err = PriorProbability(2, v)
	assert.NoError(t, err)
	_, err = PriorProbability(3, v)
	assert.Error(t, err)
}
