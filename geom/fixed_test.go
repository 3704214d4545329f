package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToNearestEvenEvenClearsOddOdd(t *testing.T) {
	v := FixedVec2{X: 3, Y: 5}
	got := v.ToNearestEvenEven()
	assert.False(t, got.IsXOddYOdd())
	assert.True(t, got.IsSumEven())
}

func TestFloatFixedRoundTrip(t *testing.T) {
	f := NewFloatVec2(12.5, -7.25)
	back := f.ToFixed().ToFloat()
	assert.InDelta(t, float64(f.X), float64(back.X), 1.0/65536)
	assert.InDelta(t, float64(f.Y), float64(back.Y), 1.0/65536)
}

func TestFixedVec2Length(t *testing.T) {
	v := FixedVec2{X: NewFixedFromInt(3), Y: NewFixedFromInt(4)}
	assert.InDelta(t, 5.0, v.Length(), 1e-9)
}

func TestFloatVec2Normalize(t *testing.T) {
	v := NewFloatVec2(3, 4)
	n := v.Normalize()
	assert.InDelta(t, 1.0, float64(n.Length()), 1e-5)
}

func TestFloatVec2NormalizeGuardsZero(t *testing.T) {
	v := NewFloatVec2(0, 0)
	n := v.Normalize()
	assert.Equal(t, v, n)
}

func TestFixedIsOddParity(t *testing.T) {
	assert.True(t, Fixed(3).IsOdd())
	assert.False(t, Fixed(4).IsOdd())
}
