package solver

import (
	"errors"
	"fmt"
)

// ErrConvergenceFailed is returned when a Krylov solve exhausts
// MaxIterations without meeting the residual tolerance and without
// the observer requesting an early stop.
var ErrConvergenceFailed = errors.New("solver: convergence failed within the iteration budget")

// Verdict is an observer's response to a new iterate (spec.md §9's
// explicit observer interface replacing the source's ad hoc
// convergence callback).
type Verdict int

const (
	// Continue lets the Krylov iteration proceed normally.
	Continue Verdict = iota
	// Stop aborts the iteration and returns the current solution as
	// converged (used by the complex-power stability check of §4.8).
	Stop
)

// Observer inspects every Krylov iterate.
type Observer interface {
	OnIterate(sol []complex128) Verdict
}

// noopObserver never asks for an early stop.
type noopObserver struct{}

func (noopObserver) OnIterate([]complex128) Verdict { return Continue }

// Settings configures the convergence criteria of spec.md §4.8:
// ||r|| <= max(RelTol*||rhs||, AbsTol).
type Settings struct {
	RelTol        float64
	AbsTol        float64
	MaxIterations int
}

// Result reports the outcome of a Solve call.
type Result struct {
	X          []complex128
	Iterations int
	Converged  bool
	ResidNorm  float64
}

// MulVec applies the system matrix (or an equivalent matrix-free
// operator) to v.
type MulVec func(v []complex128) []complex128

// Precon applies the preconditioner's approximate inverse to v.
type Precon func(v []complex128) []complex128

// Solve drives method against the system A*x = rhs using mulVec and
// precon, honoring settings and obs (pass nil for an unconditioned
// solve or no early-stop observer).
func Solve(method Method, mulVec MulVec, precon Precon, rhs, x0 []complex128, settings Settings, obs Observer) (Result, error) {
	if obs == nil {
		obs = noopObserver{}
	}
	if precon == nil {
		precon = func(v []complex128) []complex128 { return append([]complex128(nil), v...) }
	}

	rhsNorm := vecNorm(rhs)
	tol := settings.RelTol * rhsNorm
	if settings.AbsTol > tol {
		tol = settings.AbsTol
	}

	x := append([]complex128(nil), x0...)
	Ax0 := mulVec(x)
	residual := make([]complex128, len(rhs))
	for i := range residual {
		residual[i] = rhs[i] - Ax0[i]
	}

	method.Init(x, residual)
	ctx := &Context{
		Src: make([]complex128, len(rhs)),
		Dst: make([]complex128, len(rhs)),
	}

	iterations := 0
	maxIter := settings.MaxIterations
	if maxIter <= 0 {
		maxIter = 10 * len(rhs)
	}

	for step := 0; step < maxIter*8; step++ {
		op, err := method.Iterate(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("solver: %w", err)
		}
		switch op {
		case NoOperation:
		case MulVecOp:
			copy(ctx.Dst, mulVec(ctx.Src))
		case PreconSolve:
			copy(ctx.Dst, precon(ctx.Src))
		case ComputeResidual:
			Ax := mulVec(ctx.X)
			for i := range ctx.Dst {
				ctx.Dst[i] = rhs[i] - Ax[i]
			}
		case CheckResidualNorm:
			ctx.Converged = ctx.ResidualNorm <= tol
		case MajorIteration:
			iterations++
			x = ctx.X
			if obs.OnIterate(x) == Stop {
				return Result{X: x, Iterations: iterations, Converged: true, ResidNorm: ctx.ResidualNorm}, nil
			}
			if ctx.Converged {
				return Result{X: x, Iterations: iterations, Converged: true, ResidNorm: ctx.ResidualNorm}, nil
			}
			if iterations >= maxIter {
				return Result{X: x, Iterations: iterations, Converged: false, ResidNorm: ctx.ResidualNorm}, ErrConvergenceFailed
			}
		}
	}
	return Result{X: x, Iterations: iterations}, ErrConvergenceFailed
}
