// Package coupler implements the segregated fixed-point coupling of
// spec.md §4.9, the alternative to a monolithic Krylov solve when the
// electric-magnetic preconditioner is weak.
package coupler

import (
	"errors"
	"math"
)

// ErrDidNotConverge is returned when the fixed-point loop exhausts
// Options.NMax without meeting the residual tolerance.
var ErrDidNotConverge = errors.New("coupler: segregated iteration did not converge within n_max")

// SolveFunc runs one preconditioned Krylov sub-solve of a physical
// domain's block given its (coupling-adjusted) right-hand side and a
// warm-start vector.
type SolveFunc func(rhs, x0 []complex128) ([]complex128, error)

// CouplingFunc evaluates one domain's contribution to the other's
// right-hand side (fct_cpl_c or fct_cpl_m of spec.md §4.7/§4.9).
type CouplingFunc func(otherDomainSolution []complex128) []complex128

// ResidualFunc evaluates res = rhs - A*sol for a domain's own system
// operator, used only for the coupler's global convergence check.
type ResidualFunc func(sol, rhs []complex128) []complex128

// Options configures the fixed-point loop of spec.md §4.9.
type Options struct {
	RelTol, AbsTol               float64
	NMin, NMax                   int
	RelaxElectric, RelaxMagnetic float64
}

// Coupler bundles the two domain sub-solves and their cross-coupling
// into the segregated iteration.
type Coupler struct {
	Options Options

	SolveElectric SolveFunc
	SolveMagnetic SolveFunc

	CplElectric CouplingFunc // fct_cpl_c(sol_m)
	CplMagnetic CouplingFunc // fct_cpl_m(sol_c)

	ResidualElectric ResidualFunc
	ResidualMagnetic ResidualFunc
}

// Result reports the outcome of a segregated solve.
type Result struct {
	SolC, SolM []complex128
	Iterations int
	Converged  bool
}

// Solve runs the segregated iteration of spec.md §4.9:
//  1. solve electric with rhs_c - fct_cpl_c(sol_m), relax with alpha_c
//  2. solve magnetic with sol_c as driver, relax with alpha_m
//  3. check the global residuum against rel_tol/abs_tol once n_iter >= n_min
func (c *Coupler) Solve(rhsC, rhsM, solC0, solM0 []complex128) (Result, error) {
	solC := append([]complex128(nil), solC0...)
	solM := append([]complex128(nil), solM0...)

	rhsNorm := concatNorm(rhsC, rhsM)
	tol := rhsNorm * c.Options.RelTol
	if c.Options.AbsTol > tol {
		tol = c.Options.AbsTol
	}

	var adjC, adjM []complex128
	for iter := 1; ; iter++ {
		adjC = subtract(rhsC, c.CplElectric(solM))
		solCNew, err := c.SolveElectric(adjC, solC)
		if err != nil {
			return Result{}, err
		}
		solC = relax(solC, solCNew, c.Options.RelaxElectric)

		adjM = subtract(rhsM, c.CplMagnetic(solC))
		solMNew, err := c.SolveMagnetic(adjM, solM)
		if err != nil {
			return Result{}, err
		}
		solM = relax(solM, solMNew, c.Options.RelaxMagnetic)

		resC := c.ResidualElectric(solC, adjC)
		resM := c.ResidualMagnetic(solM, adjM)
		resNorm := concatNorm(resC, resM)

		if resNorm <= tol && iter >= c.Options.NMin {
			return Result{SolC: solC, SolM: solM, Iterations: iter, Converged: true}, nil
		}
		if iter >= c.Options.NMax {
			return Result{SolC: solC, SolM: solM, Iterations: iter, Converged: false}, ErrDidNotConverge
		}
	}
}

func subtract(a, b []complex128) []complex128 {
	out := make([]complex128, len(a))
	for i := range out {
		out[i] = a[i] - b[i]
	}
	return out
}

func relax(old, new []complex128, alpha float64) []complex128 {
	out := make([]complex128, len(old))
	a := complex(alpha, 0)
	oneMinusA := complex(1-alpha, 0)
	for i := range out {
		out[i] = oneMinusA*old[i] + a*new[i]
	}
	return out
}

func concatNorm(a, b []complex128) float64 {
	var sum float64
	for _, v := range a {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	for _, v := range b {
		sum += real(v)*real(v) + imag(v)*imag(v)
	}
	return math.Sqrt(sum)
}
