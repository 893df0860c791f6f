// Package solver implements the preconditioned Krylov solve of
// spec.md §4.8 over complex128 vectors, following the resumable
// Init/Iterate state-machine architecture of
// gonum.org/v1/gonum/linsolve's GMRES (an Operation enum driving
// MulVecOp/PreconSolve/CheckResidualNorm/MajorIteration requests back to
// a driver loop), re-expressed here for the complex field PEEC is
// posed over.
package solver

// Operation is a request a Method's Iterate makes to its driver.
type Operation int

const (
	// NoOperation means the driver should call Iterate again
	// immediately, with no additional work.
	NoOperation Operation = iota
	// MulVecOp requests ctx.Dst = A * ctx.Src.
	MulVecOp
	// PreconSolve requests ctx.Dst = M^{-1} * ctx.Src.
	PreconSolve
	// ComputeResidual requests ctx.Dst = b - A*ctx.X.
	ComputeResidual
	// CheckResidualNorm asks the driver to evaluate ctx.ResidualNorm
	// against the convergence tolerance and set ctx.Converged.
	CheckResidualNorm
	// MajorIteration reports that ctx.X holds a new iterate; the
	// driver may invoke its observer before resuming.
	MajorIteration
)

// Context is the scratch state shared between a Method and its
// driver loop across successive Iterate calls.
type Context struct {
	Src, Dst []complex128
	X        []complex128

	ResidualNorm float64
	Converged    bool
}

// Method is a resumable Krylov iteration, driven by repeatedly
// calling Iterate and servicing the requested Operation.
type Method interface {
	Init(x, residual []complex128)
	Iterate(ctx *Context) (Operation, error)
}
