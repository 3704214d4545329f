package geom

import (
	"math"

	"github.com/arl/math32"
)

// epsilon32 guards vector normalization against division by a near-zero
// length, matching the original's use of f32::EPSILON.
const epsilon32 = 1.1920929e-7

// sqr32 is github.com/arl/math32's float32 square helper, used instead of
// x*x at call sites that mirror the original's magnitude2 computations.
func sqr32(x float32) float32 {
	return math32.Sqr(x)
}

// math32 (see vendor/github.com/aurelien-rainone/math32) does not provide
// Sqrt/Abs/Min/Max for float32 — only Sqr, Copysign, Signbit, Approx,
// NextPow2 and friends. sqrt32 falls back to the stdlib math package,
// documented in DESIGN.md as the package's one stdlib gap-fill; abs32 uses
// math32.Signbit, and min32/max32 are plain comparisons.
func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func abs32(x float32) float32 {
	if math32.Signbit(x) {
		return -x
	}
	return x
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
