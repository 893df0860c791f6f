package coupler

import (
	"math"
	"testing"
)

// TestSolveDecoupledConvergesImmediately checks that with zero
// cross-coupling, the segregated loop converges once each sub-solve
// is exact and n_iter has reached n_min.
func TestSolveDecoupledConvergesImmediately(t *testing.T) {
	identitySolve := func(rhs, x0 []complex128) ([]complex128, error) {
		return append([]complex128(nil), rhs...), nil
	}
	zeroCoupling := func([]complex128) []complex128 { return []complex128{0} }
	zeroResidual := func(sol, rhs []complex128) []complex128 { return []complex128{0} }

	c := &Coupler{
		Options:          Options{RelTol: 1e-9, AbsTol: 1e-12, NMin: 1, NMax: 20, RelaxElectric: 1, RelaxMagnetic: 1},
		SolveElectric:    identitySolve,
		SolveMagnetic:    identitySolve,
		CplElectric:      zeroCoupling,
		CplMagnetic:      zeroCoupling,
		ResidualElectric: zeroResidual,
		ResidualMagnetic: zeroResidual,
	}

	res, err := c.Solve([]complex128{3}, []complex128{4}, []complex128{0}, []complex128{0})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Converged {
		t.Fatal("expected convergence")
	}
	if res.SolC[0] != 3 || res.SolM[0] != 4 {
		t.Errorf("SolC=%v SolM=%v, want 3,4", res.SolC, res.SolM)
	}
}

func TestSolveReportsErrWhenResidualNeverShrinks(t *testing.T) {
	badSolve := func(rhs, x0 []complex128) ([]complex128, error) {
		return []complex128{0}, nil
	}
	zeroCoupling := func([]complex128) []complex128 { return []complex128{0} }
	stubbornResidual := func(sol, rhs []complex128) []complex128 { return []complex128{1} }

	c := &Coupler{
		Options:          Options{RelTol: 1e-9, AbsTol: 1e-12, NMin: 1, NMax: 3, RelaxElectric: 1, RelaxMagnetic: 1},
		SolveElectric:    badSolve,
		SolveMagnetic:    badSolve,
		CplElectric:      zeroCoupling,
		CplMagnetic:      zeroCoupling,
		ResidualElectric: stubbornResidual,
		ResidualMagnetic: stubbornResidual,
	}

	res, err := c.Solve([]complex128{3}, []complex128{4}, []complex128{0}, []complex128{0})
	if err != ErrDidNotConverge {
		t.Fatalf("expected ErrDidNotConverge, got %v", err)
	}
	if res.Iterations != 3 {
		t.Errorf("iterations = %d, want 3", res.Iterations)
	}
}

func TestRelaxBlendsOldAndNew(t *testing.T) {
	old := []complex128{0}
	new := []complex128{10}
	out := relax(old, new, 0.25)
	if math.Abs(real(out[0])-2.5) > 1e-12 {
		t.Errorf("relax(0,10,0.25) = %v, want 2.5", out[0])
	}
}
