// Package geom provides the fixed-point 2D substrate the router builds on:
// scaled integer vectors, float vectors used for SAT/rendering math, the
// compass Direction algebra, primitive shapes and their colliders.
package geom

import (
	"fmt"
	"math"
)

// Fixed is a signed 16.16 fixed-point number, the Go analogue of the
// original's `fixed::types::I16F16`. The integer part occupies the high 16
// bits, the fraction the low 16, giving a range of roughly ±32767 at a
// resolution of 2⁻¹⁶.
type Fixed int32

// FixedShift is the number of fractional bits.
const FixedShift = 16

// FixedOne is the fixed-point representation of 1.
const FixedOne Fixed = 1 << FixedShift

// FixedDelta is Δ, the smallest representable positive Fixed value.
const FixedDelta Fixed = 1

// NewFixedFromFloat converts a float64 to Fixed, rounding to nearest.
func NewFixedFromFloat(f float64) Fixed {
	return Fixed(math.Round(f * float64(FixedOne)))
}

// NewFixedFromInt converts an integer to Fixed exactly.
func NewFixedFromInt(i int) Fixed {
	return Fixed(int32(i) << FixedShift)
}

// Float returns the float64 value of f.
func (f Fixed) Float() float64 {
	return float64(f) / float64(FixedOne)
}

// Float32 returns the float32 value of f.
func (f Fixed) Float32() float32 {
	return float32(f.Float())
}

// IsOdd reports whether f's integer-resolution value (f / Δ) is odd. This is
// a lattice-parity test at the Δ scale used by the A* grid invariants, not a
// test of the fixed-point integer part.
func (f Fixed) IsOdd() bool {
	return f&1 != 0
}

func (f Fixed) String() string {
	return fmt.Sprintf("%g", f.Float())
}

// FixedVec2 is a 2D vector in fixed-point space. All grid-relative A*
// positions use this type; see spec invariants on x+y parity below.
//
// Grounded on original_source/shared/src/vec2.rs FixedVec2.
type FixedVec2 struct {
	X, Y Fixed
}

// NewFixedVec2 builds a FixedVec2.
func NewFixedVec2(x, y Fixed) FixedVec2 {
	return FixedVec2{X: x, Y: y}
}

// ToFloat converts to a FloatVec2.
func (v FixedVec2) ToFloat() FloatVec2 {
	return FloatVec2{X: v.X.Float32(), Y: v.Y.Float32()}
}

// Length returns the Euclidean length of v as a float64 (used for
// TracePath.total_length accumulation, which the original keeps in f64).
func (v FixedVec2) Length() float64 {
	dx := v.X.Float()
	dy := v.Y.Float()
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns v+w.
func (v FixedVec2) Add(w FixedVec2) FixedVec2 { return FixedVec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v-w.
func (v FixedVec2) Sub(w FixedVec2) FixedVec2 { return FixedVec2{v.X - w.X, v.Y - w.Y} }

// Neg returns -v.
func (v FixedVec2) Neg() FixedVec2 { return FixedVec2{-v.X, -v.Y} }

// Scale multiplies both components by s (itself a Fixed scalar).
func (v FixedVec2) Scale(s Fixed) FixedVec2 {
	return FixedVec2{
		X: Fixed((int64(v.X) * int64(s)) >> FixedShift),
		Y: Fixed((int64(v.Y) * int64(s)) >> FixedShift),
	}
}

// Equal reports exact equality.
func (v FixedVec2) Equal(w FixedVec2) bool { return v.X == w.X && v.Y == w.Y }

// IsXOddYOdd reports whether both coordinates are odd — the unreachable
// "odd-odd" lattice point spec.md §3 calls out.
func (v FixedVec2) IsXOddYOdd() bool {
	return v.X.IsOdd() && v.Y.IsOdd()
}

// IsSumEven reports whether x+y is even, the invariant maintained at every
// A* node.
func (v FixedVec2) IsSumEven() bool {
	return (v.X+v.Y)&1 == 0
}

// ToNearestEvenEven decrements any odd coordinate by Δ so the result
// satisfies IsSumEven and avoids the odd-odd lattice point.
func (v FixedVec2) ToNearestEvenEven() FixedVec2 {
	x, y := v.X, v.Y
	if x.IsOdd() {
		x -= FixedDelta
	}
	if y.IsOdd() {
		y -= FixedDelta
	}
	return FixedVec2{x, y}
}

// FloatVec2 is a plain float32 2D vector, used for SAT geometry and
// rendering. Grounded on vec2.rs FloatVec2; its methods replace cgmath's
// float32 vector ops, with Magnitude2 squaring through github.com/arl/math32.
type FloatVec2 struct {
	X, Y float32
}

// NewFloatVec2 builds a FloatVec2.
func NewFloatVec2(x, y float32) FloatVec2 { return FloatVec2{X: x, Y: y} }

// ToFixed converts to fixed-point, rounding to nearest.
func (v FloatVec2) ToFixed() FixedVec2 {
	return FixedVec2{X: NewFixedFromFloat(float64(v.X)), Y: NewFixedFromFloat(float64(v.Y))}
}

// Add returns v+w.
func (v FloatVec2) Add(w FloatVec2) FloatVec2 { return FloatVec2{v.X + w.X, v.Y + w.Y} }

// Sub returns v-w.
func (v FloatVec2) Sub(w FloatVec2) FloatVec2 { return FloatVec2{v.X - w.X, v.Y - w.Y} }

// Div divides both components by s.
func (v FloatVec2) Div(s float32) FloatVec2 { return FloatVec2{v.X / s, v.Y / s} }

// Dot returns the dot product v·w.
func (v FloatVec2) Dot(w FloatVec2) float32 { return v.X*w.X + v.Y*w.Y }

// Perp returns the perpendicular vector {-y, x}.
func (v FloatVec2) Perp() FloatVec2 { return FloatVec2{-v.Y, v.X} }

// Magnitude2 returns the squared length.
func (v FloatVec2) Magnitude2() float32 { return sqr32(v.X) + sqr32(v.Y) }

// Length returns the length.
func (v FloatVec2) Length() float32 { return sqrt32(v.Magnitude2()) }

// Normalize returns v scaled to unit length, guarding against a
// near-zero-length vector the way the original guards by f32::EPSILON.
func (v FloatVec2) Normalize() FloatVec2 {
	m := v.Length()
	if m < epsilon32 {
		return v
	}
	return v.Div(m)
}

// IntVec2 is a plain integer 2D vector used for grid-relative offsets
// before scaling to fixed-point.
type IntVec2 struct {
	X, Y int
}

// NewIntVec2 builds an IntVec2.
func NewIntVec2(x, y int) IntVec2 { return IntVec2{X: x, Y: y} }

// ToFixed converts to fixed-point exactly.
func (v IntVec2) ToFixed() FixedVec2 {
	return FixedVec2{X: NewFixedFromInt(v.X), Y: NewFixedFromInt(v.Y)}
}
