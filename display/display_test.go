package display

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldBlockRespectsTarget(t *testing.T) {
	old := atomicLoadRestore()
	defer old()

	TargetCommandLevel = int32(AstarFrontierOrUpdatePosterior)
	assert.True(t, ShouldBlock(AstarFrontierOrUpdatePosterior))
	assert.True(t, ShouldBlock(Auto))

	TargetCommandLevel = int32(Auto)
	assert.False(t, ShouldBlock(AstarFrontierOrUpdatePosterior))
	assert.True(t, ShouldBlock(Auto))
}

func TestInjectionCancellation(t *testing.T) {
	inj := NewNoop()
	assert.False(t, inj.Cancelled())
	inj.RequestStop()
	assert.True(t, inj.Cancelled())
}

func atomicLoadRestore() func() {
	saved := TargetCommandLevel
	return func() { TargetCommandLevel = saved }
}
