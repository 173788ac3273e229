package render

import (
	"math"
	"math/cmplx"
)

// Escape iterates z = z² + c from z = 0. It returns the iteration at which
// |z| exceeded 2, or maxIter if it never did, along with the last z and the
// orbit trap: the closest the orbit came to the imaginary axis.
func Escape(c complex128, maxIter int) (n int, z complex128, trap float64) {
	trap = math.MaxFloat64

	for i := 0; i < maxIter; i++ {
		z = z*z + c

		// trap: distance to the imaginary axis
		if d := math.Abs(real(z)); d < trap {
			trap = d
		}

		if real(z)*real(z)+imag(z)*imag(z) > 4 {
			return i, z, trap
		}
	}

	// Inside the set
	return maxIter, z, trap
}

// Smooth turns an escape count into a continuous value so colour bands
// blend instead of stepping.
func Smooth(n int, z complex128) float64 {
	return float64(n) + 1 - math.Log(math.Log(cmplx.Abs(z)))/math.Log(2)
}
