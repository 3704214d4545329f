package geom

import "fmt"

// Direction is one of the eight compass directions on the octile grid,
// indexed clockwise from Up. Grounded on
// original_source/shared/src/trace_path.rs's Direction enum and algebra —
// note the index order interleaves diagonals with the cardinals rather than
// grouping them.
type Direction uint8

const (
	Up Direction = iota
	TopRight
	Right
	BottomRight
	Down
	BottomLeft
	Left
	TopLeft
)

var directionNames = [8]string{
	"Up", "TopRight", "Right", "BottomRight",
	"Down", "BottomLeft", "Left", "TopLeft",
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// IsDiagonal reports whether d is one of the four 45°-offset directions.
func (d Direction) IsDiagonal() bool {
	return d%2 == 1
}

// Opposite returns the direction 180° from d.
func (d Direction) Opposite() Direction {
	return (d + 4) % 8
}

// Left90 rotates d 90° counter-clockwise.
func (d Direction) Left90() Direction {
	return (d + 6) % 8
}

// Right90 rotates d 90° clockwise.
func (d Direction) Right90() Direction {
	return (d + 2) % 8
}

// Left45 rotates d 45° counter-clockwise.
func (d Direction) Left45() Direction {
	return (d + 7) % 8
}

// Right45 rotates d 45° clockwise.
func (d Direction) Right45() Direction {
	return (d + 1) % 8
}

func angleDiffMod8(a, b Direction) int {
	diff := int(a) - int(b)
	diff %= 8
	if diff < 0 {
		diff += 8
	}
	if diff > 4 {
		diff = 8 - diff
	}
	return diff
}

// IsRightAngle reports whether the turn from d to other is ±90°.
func (d Direction) IsRightAngle(other Direction) bool {
	return angleDiffMod8(d, other) == 2
}

// IsSharpAngle reports whether the turn from d to other is ±135°.
func (d Direction) IsSharpAngle(other Direction) bool {
	return angleDiffMod8(d, other) == 3
}

// BetweenRightAngle returns the direction exactly 45° between d and other,
// where d and other are 90° apart (|Δindex mod 8| == 2).
func (d Direction) BetweenRightAngle(other Direction) (Direction, bool) {
	if !d.IsRightAngle(other) {
		return 0, false
	}
	diff := (int(other) - int(d) + 8) % 8
	if diff == 2 {
		return (d + 1) % 8, true
	}
	// diff == 6
	return (d + 7) % 8, true
}

// BetweenSharpAngle returns the direction 45° off d on the side of a 135°
// turn to other (|Δindex mod 8| == 3).
func (d Direction) BetweenSharpAngle(other Direction) (Direction, bool) {
	if !d.IsSharpAngle(other) {
		return 0, false
	}
	diff := (int(other) - int(d) + 8) % 8
	if diff == 3 {
		return (d + 1) % 8, true
	}
	// diff == 5
	return (d + 7) % 8, true
}

// spinSide classifies a turn from prev to next as 0 (straight or a 180°
// reversal), 1 (left
// spin of 45/90/135) or -1 (right spin), mirroring left_45_90_135 /
// right_45_90_135 in trace_path.rs.
func spinSide(prev, next Direction) int {
	diff := (int(next) - int(prev) + 8) % 8
	switch diff {
	case 1, 2, 3:
		return -1 // right turn
	case 5, 6, 7:
		return 1 // left turn
	default:
		return 0
	}
}

// Left45_90_135 reports whether the turn from d to next is a left turn of
// 45°, 90° or 135°.
func (d Direction) Left45_90_135(next Direction) bool {
	return spinSide(d, next) == 1
}

// Right45_90_135 reports whether the turn from d to next is a right turn of
// 45°, 90° or 135°.
func (d Direction) Right45_90_135(next Direction) bool {
	return spinSide(d, next) == -1
}

// Unit returns the unit integer displacement of d.
func (d Direction) Unit() IntVec2 {
	switch d {
	case Up:
		return IntVec2{0, 1}
	case TopRight:
		return IntVec2{1, 1}
	case Right:
		return IntVec2{1, 0}
	case BottomRight:
		return IntVec2{1, -1}
	case Down:
		return IntVec2{0, -1}
	case BottomLeft:
		return IntVec2{-1, -1}
	case Left:
		return IntVec2{-1, 0}
	case TopLeft:
		return IntVec2{-1, 1}
	default:
		panic("invalid direction")
	}
}

// Scale returns the fixed-point displacement of moving distance `length` in
// direction d.
func (d Direction) Scale(length Fixed) FixedVec2 {
	u := d.Unit()
	return FixedVec2{
		X: Fixed(int64(u.X) * int64(length)),
		Y: Fixed(int64(u.Y) * int64(length)),
	}.normalizeDiagonal(d)
}

// RawScale returns d's unit displacement scaled by length component-wise,
// without Scale's diagonal √2 normalization: a diagonal step of length Δ is
// (Δ,Δ), matching astar.rs's to_fixed_vec2(scale), which just multiplies
// the ±1 unit components by scale. Used wherever a rewrite needs to walk
// along a lattice direction by a raw coordinate amount rather than a
// Euclidean one.
func (d Direction) RawScale(length Fixed) FixedVec2 {
	u := d.Unit()
	return FixedVec2{X: Fixed(u.X) * length, Y: Fixed(u.Y) * length}
}

// normalizeDiagonal divides diagonal displacements by √2 so their length
// matches `length` exactly (Up/Down/Left/Right unit vectors are already
// unit length; diagonals are (±1,±1) and need the 1/√2 factor).
func (v FixedVec2) normalizeDiagonal(d Direction) FixedVec2 {
	if !d.IsDiagonal() {
		return v
	}
	const invSqrt2 = 0.70710678118
	return FixedVec2{
		X: NewFixedFromFloat(v.X.Float() * invSqrt2),
		Y: NewFixedFromFloat(v.Y.Float() * invSqrt2),
	}
}

// FromPoints classifies the direction from a to b. It returns ok=false with
// a nil error when a==b (coincident points, per spec.md §3), and a non-nil
// error when the displacement is neither purely axial nor at exactly ±45°.
func FromPoints(a, b FixedVec2) (dir Direction, ok bool, err error) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 && dy == 0 {
		return 0, false, nil
	}
	absDx := dx
	if absDx < 0 {
		absDx = -absDx
	}
	absDy := dy
	if absDy < 0 {
		absDy = -absDy
	}
	switch {
	case dx == 0 && dy > 0:
		return Up, true, nil
	case dx == 0 && dy < 0:
		return Down, true, nil
	case dy == 0 && dx > 0:
		return Right, true, nil
	case dy == 0 && dx < 0:
		return Left, true, nil
	case absDx == absDy && dx > 0 && dy > 0:
		return TopRight, true, nil
	case absDx == absDy && dx > 0 && dy < 0:
		return BottomRight, true, nil
	case absDx == absDy && dx < 0 && dy < 0:
		return BottomLeft, true, nil
	case absDx == absDy && dx < 0 && dy > 0:
		return TopLeft, true, nil
	default:
		return 0, false, fmt.Errorf("geom: direction from %v to %v is neither axial nor exactly ±45°", a, b)
	}
}
