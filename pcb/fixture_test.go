package pcb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixtureYAML = `
width: 20
height: 20
num_layers: 2
nets:
  - name: A
    trace_width: 0.2
    trace_clearance: 0.1
    via_diameter: 0.5
    via_clearance: 0.1
    pads:
      - name: A1
        x: 0
        y: 0
        shape: circle
        diameter: 0.5
      - name: A2
        x: 10
        y: 0
        shape: circle
        diameter: 0.5
    connections:
      - [A1, A2]
`

func TestLoadFixtureBuildsProblem(t *testing.T) {
	p, err := LoadFixture([]byte(sampleFixtureYAML))
	require.NoError(t, err)
	assert.Equal(t, float32(20), p.Width)
	assert.Equal(t, 2, p.NumLayers)
	assert.Equal(t, 1.0, p.ScaleDownFactor)

	net, ok := p.Nets["A"]
	require.True(t, ok)
	assert.Len(t, net.Pads, 2)
	assert.Len(t, net.Connections, 1)
}

func TestLoadFixtureRejectsOddLayerCount(t *testing.T) {
	_, err := LoadFixture([]byte("num_layers: 3\n"))
	assert.Error(t, err)
}

func TestLoadFixtureRejectsUnknownShape(t *testing.T) {
	_, err := LoadFixture([]byte(`
num_layers: 2
nets:
  - name: A
    pads:
      - name: A1
        shape: hexagon
    connections: []
`))
	assert.Error(t, err)
}
