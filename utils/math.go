package utils

import (
	"math"
)

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// Square returns n*n.
// Math.pow( x, 2 ) is slow, this is faster.
func Square(n float64) float64 {
	return n * n
}

// Powi raises x to a non-negative integer power by repeated squaring. The barrier exponents used by the cost terms
// (10 and 50) are evaluated on every optimizer step, where math.Pow is measurably slower. Negative exponents return
// the reciprocal of the positive power.
func Powi(x float64, n int) float64 {
	if n < 0 {
		return 1 / Powi(x, -n)
	}
	result := 1.
	for n > 0 {
		if n&1 == 1 {
			result *= x
		}
		x *= x
		n >>= 1
	}
	return result
}

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// AllFinite reports whether every value in the slice is finite.
func AllFinite(values []float64) bool {
	for _, v := range values {
		if !IsFinite(v) {
			return false
		}
	}
	return true
}
