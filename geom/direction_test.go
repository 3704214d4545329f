package geom

import "testing"

import "github.com/stretchr/testify/assert"

func TestDirectionOppositeInvolution(t *testing.T) {
	for d := Up; d <= TopLeft; d++ {
		assert.Equal(t, d, d.Opposite().Opposite())
	}
}

func TestDirectionLeftRight90Cancel(t *testing.T) {
	for d := Up; d <= TopLeft; d++ {
		assert.Equal(t, d, d.Left90().Right90())
	}
}

func TestDirectionLeft90IsRightAngle(t *testing.T) {
	for d := Up; d <= TopLeft; d++ {
		assert.True(t, d.IsRightAngle(d.Left90()))
	}
}

func TestDirectionIsSharpAngle(t *testing.T) {
	assert.True(t, Up.IsSharpAngle(BottomRight))
	assert.False(t, Up.IsSharpAngle(Down))
}

func TestFromPointsAxialAndDiagonal(t *testing.T) {
	origin := FixedVec2{}
	cases := []struct {
		to   FixedVec2
		want Direction
	}{
		{FixedVec2{0, NewFixedFromInt(1)}, Up},
		{FixedVec2{NewFixedFromInt(1), 0}, Right},
		{FixedVec2{NewFixedFromInt(1), NewFixedFromInt(1)}, TopRight},
		{FixedVec2{NewFixedFromInt(-1), NewFixedFromInt(-1)}, BottomLeft},
	}
	for _, c := range cases {
		dir, ok, err := FromPoints(origin, c.to)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, c.want, dir)
	}
}

func TestFromPointsCoincidentIsNilOK(t *testing.T) {
	p := FixedVec2{NewFixedFromInt(3), NewFixedFromInt(4)}
	_, ok, err := FromPoints(p, p)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestFromPointsNonAxialErrors(t *testing.T) {
	_, _, err := FromPoints(FixedVec2{}, FixedVec2{NewFixedFromInt(1), NewFixedFromInt(2)})
	assert.Error(t, err)
}
