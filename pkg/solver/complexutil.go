package solver

import (
	"math"
	"math/cmplx"
)

func vecNorm(v []complex128) float64 {
	var sum float64
	for _, x := range v {
		sum += real(x)*real(x) + imag(x)*imag(x)
	}
	return math.Sqrt(sum)
}

// dot returns the Hermitian inner product <v,w> = sum conj(v_i)*w_i.
func dot(v, w []complex128) complex128 {
	var sum complex128
	for i := range v {
		sum += cmplx.Conj(v[i]) * w[i]
	}
	return sum
}

func scaleInto(dst []complex128, alpha complex128, v []complex128) {
	for i := range dst {
		dst[i] = alpha * v[i]
	}
}

func axpy(dst []complex128, alpha complex128, x []complex128) {
	for i := range dst {
		dst[i] += alpha * x[i]
	}
}

// givensRotation computes a complex Givens rotation (c real, s
// complex) such that applying it to (a,b) zeroes the second
// component, the standard complex generalization (Golub & Van Loan
// §5.1.3) of the real Givens rotation used by gonum's GMRES.
func givensRotation(a, b complex128) (c float64, s complex128, r complex128) {
	if b == 0 {
		return 1, 0, a
	}
	if a == 0 {
		return 0, 1, b
	}
	absA := cmplx.Abs(a)
	absB := cmplx.Abs(b)
	d := math.Hypot(absA, absB)
	c = absA / d
	s = (a / complex(absA, 0)) * cmplx.Conj(b) / complex(d, 0)
	r = complex(c, 0)*a + cmplx.Conj(s)*b
	return
}

// applyGivens rotates (x,y) -> (c*x + conj(s)*y, -s*x + c*y).
func applyGivens(c float64, s, x, y complex128) (complex128, complex128) {
	return complex(c, 0)*x + cmplx.Conj(s)*y, -s*x + complex(c, 0)*y
}
