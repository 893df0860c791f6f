package solver

import (
	"math"
	"testing"
)

// diagSystem builds mulVec/precon closures for A = diag(d), the
// simplest nontrivial complex linear system to check GMRES against.
func diagSystem(d []complex128) (MulVec, Precon) {
	mulVec := func(v []complex128) []complex128 {
		out := make([]complex128, len(v))
		for i, x := range v {
			out[i] = d[i] * x
		}
		return out
	}
	precon := func(v []complex128) []complex128 {
		out := make([]complex128, len(v))
		for i, x := range v {
			out[i] = x / d[i]
		}
		return out
	}
	return mulVec, precon
}

func TestGMRESSolvesDiagonalSystem(t *testing.T) {
	d := []complex128{2, complex(1, 1), 5}
	rhs := []complex128{4, complex(2, 2), 15}
	mulVec, precon := diagSystem(d)

	g := &GMRES{}
	x0 := make([]complex128, len(rhs))
	res, err := Solve(g, mulVec, precon, rhs, x0, Settings{RelTol: 1e-10, AbsTol: 1e-14, MaxIterations: 50}, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []complex128{2, 2, 3}
	for i, w := range want {
		d := res.X[i] - w
		if math.Hypot(real(d), imag(d)) > 1e-8 {
			t.Errorf("x[%d] = %v, want %v", i, res.X[i], w)
		}
	}
}

func TestGMRESNoPreconditionerStillConverges(t *testing.T) {
	d := []complex128{1, 2, 3}
	rhs := []complex128{1, 4, 9}
	mulVec, _ := diagSystem(d)

	g := &GMRES{}
	x0 := make([]complex128, len(rhs))
	res, err := Solve(g, mulVec, nil, rhs, x0, Settings{RelTol: 1e-10, AbsTol: 1e-14, MaxIterations: 50}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.ResidNorm > 1e-6 {
		t.Errorf("residual too large: %v", res.ResidNorm)
	}
}

func TestGCROTMKRecycledSubspaceAidsWarmStart(t *testing.T) {
	d := []complex128{2, complex(1, 1), 5}
	rhs := []complex128{4, complex(2, 2), 15}
	mulVec, precon := diagSystem(d)

	gc := &GCROTMK{}
	x0 := make([]complex128, len(rhs))
	res1, recycled, err := gc.Solve(mulVec, precon, rhs, x0, nil, Settings{RelTol: 1e-10, AbsTol: 1e-14, MaxIterations: 50}, nil)
	if err != nil {
		t.Fatal(err)
	}

	res2, _, err := gc.Solve(mulVec, precon, rhs, res1.X, recycled, Settings{RelTol: 1e-10, AbsTol: 1e-14, MaxIterations: 50}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res2.Iterations > res1.Iterations {
		t.Errorf("warm-started solve took more iterations (%d) than the cold solve (%d)", res2.Iterations, res1.Iterations)
	}
}

func TestPowerObserverStopsWhenStable(t *testing.T) {
	calls := 0
	values := []complex128{10, 9, 5, 5.0001, 5.00005, 5.00002}
	p := &PowerObserver{
		Power: func(sol []complex128) complex128 {
			v := values[calls]
			calls++
			return v
		},
		NCmp: 2, NMin: 2, RelTol: 1e-3, AbsTol: 1e-6,
	}
	var verdict Verdict
	for range values {
		verdict = p.OnIterate(nil)
		if verdict == Stop {
			break
		}
	}
	if verdict != Stop {
		t.Fatal("expected power observer to eventually report Stop")
	}
}
