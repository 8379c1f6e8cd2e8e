package tensor

import "math"

// Default tolerances used by AllClose, matching NumPy's allclose.
const (
	DefaultRelTol = 1e-5
	DefaultAbsTol = 1e-8
)

// AllClose reports whether a and b have equal shapes and every pair of
// elements satisfies |a - b| <= atol + rtol·|b|. NaNs compare equal to NaNs
// and infinities must match exactly.
func AllClose(a, b *Array, rtol, atol float64) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i, x := range a.data {
		y := b.data[i]
		switch {
		case math.IsNaN(x) || math.IsNaN(y):
			if !(math.IsNaN(x) && math.IsNaN(y)) {
				return false
			}
		case math.IsInf(x, 0) || math.IsInf(y, 0):
			if x != y {
				return false
			}
		case math.Abs(x-y) > atol+rtol*math.Abs(y):
			return false
		}
	}
	return true
}
