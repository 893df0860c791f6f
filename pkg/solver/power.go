package solver

import "math/cmplx"

// PowerFunc evaluates the terminal complex power S(sol) = 1/2 *
// sum(V*conj(I)) over all sources for a candidate solution vector
// (spec.md §4.8); it is supplied by the caller (pkg/extract knows how
// to split sol into terminal V/I) so this package stays independent
// of the solution-vector layout.
type PowerFunc func(sol []complex128) complex128

// PowerObserver implements the complex-power stability criterion of
// spec.md §4.8: once at least max(2, NCmp+1, NMin) iterates have been
// seen, the Krylov iteration stops as soon as the terminal power has
// stayed within tolerance of itself for the last NCmp iterates.
type PowerObserver struct {
	Power  PowerFunc
	NCmp   int
	NMin   int
	RelTol float64
	AbsTol float64

	history []complex128
}

func (p *PowerObserver) minIterations() int {
	min := 2
	if p.NCmp+1 > min {
		min = p.NCmp + 1
	}
	if p.NMin > min {
		min = p.NMin
	}
	return min
}

// OnIterate records S(sol) and reports Stop once the stability
// window condition holds.
func (p *PowerObserver) OnIterate(sol []complex128) Verdict {
	s := p.Power(sol)
	p.history = append(p.history, s)

	if len(p.history) < p.minIterations() {
		return Continue
	}

	k := len(p.history) - 1
	sk := p.history[k]
	for j := 1; j <= p.NCmp && j <= k; j++ {
		skj := p.history[k-j]
		diff := cmplx.Abs(sk - skj)
		tol := p.RelTol * cmplx.Abs(sk)
		if p.AbsTol > tol {
			tol = p.AbsTol
		}
		if diff > tol {
			return Continue
		}
	}
	return Stop
}
