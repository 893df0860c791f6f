package solver

import "fmt"

// GMRES is the complex128 restarted GMRES method, re-expressed from
// gonum.org/v1/gonum/linsolve's real-valued GMRES: the same
// Init/resume-driven Iterate structure, Arnoldi basis V, upper
// Hessenberg H reduced by Givens rotations, least-squares solve and
// solution update — adapted to a Hermitian inner product and complex
// Givens rotations throughout.
type GMRES struct {
	// Restart is the number of inner iterations before restarting. 0
	// selects the problem dimension (full GMRES, no restart).
	Restart int

	m int
	v [][]complex128 // (m+1) basis vectors, each of length dim
	h [][]complex128 // (m+1) x m upper Hessenberg, column-major: h[col][row]

	givC []float64
	givS []complex128

	x, y, s []complex128

	k      int
	resume int
}

func (g *GMRES) Init(x, residual []complex128) {
	dim := len(x)
	g.m = g.Restart
	if g.m <= 0 || g.m > dim {
		g.m = dim
	}

	g.v = make([][]complex128, g.m+1)
	for i := range g.v {
		g.v[i] = make([]complex128, dim)
	}
	copy(g.v[0], residual)

	g.h = make([][]complex128, g.m)
	for i := range g.h {
		g.h[i] = make([]complex128, g.m+1)
	}

	g.givC = make([]float64, g.m)
	g.givS = make([]complex128, g.m)

	g.x = append([]complex128(nil), x...)
	g.y = make([]complex128, g.m+1)
	g.s = make([]complex128, g.m+1)

	g.resume = 1
}

// Iterate drives one step of the complex GMRES state machine. See
// Method for the Operation/Context protocol.
func (g *GMRES) Iterate(ctx *Context) (Operation, error) {
	switch g.resume {
	case 1:
		copy(ctx.Src, g.v[0])
		g.resume = 2
		return PreconSolve, nil
	case 2:
		copy(g.v[0], ctx.Dst)
		norm := vecNorm(g.v[0])
		if norm == 0 {
			g.resume = 0
			ctx.X = append([]complex128(nil), g.x...)
			ctx.ResidualNorm = 0
			ctx.Converged = true
			return MajorIteration, nil
		}
		scaleInto(g.v[0], complex(1/norm, 0), g.v[0])
		for i := range g.s {
			g.s[i] = 0
		}
		g.s[0] = complex(norm, 0)
		g.k = 0
		fallthrough
	case 3:
		copy(ctx.Src, g.v[g.k])
		g.resume = 4
		return MulVecOp, nil
	case 4:
		copy(ctx.Src, ctx.Dst)
		g.resume = 5
		return PreconSolve, nil
	case 5:
		vk1 := g.v[g.k+1]
		copy(vk1, ctx.Dst)
		g.modifiedGS(g.k, vk1)
		g.qr(g.k)
		ctx.ResidualNorm = cabs(g.s[g.k+1])
		g.resume = 6
		return CheckResidualNorm, nil
	case 6:
		g.k++
		if g.k < g.m && !ctx.Converged {
			g.resume = 3
			return NoOperation, nil
		}
		g.solveLeastSquares(g.k)
		g.updateSolution(g.k)
		ctx.X = append([]complex128(nil), g.x...)
		if ctx.Converged {
			g.resume = 0
			return MajorIteration, nil
		}
		g.resume = 7
		return ComputeResidual, nil
	case 7:
		copy(g.v[0], ctx.Dst)
		g.resume = 1
		return MajorIteration, nil
	default:
		return NoOperation, fmt.Errorf("solver: GMRES.Init not called")
	}
}

func cabs(z complex128) float64 {
	return vecNorm([]complex128{z})
}

// modifiedGS orthonormalizes w against the first k+1 basis vectors
// using the modified Gram-Schmidt process, storing the Hermitian
// inner-product coefficients in column k of H.
func (g *GMRES) modifiedGS(k int, w []complex128) {
	for j := 0; j <= k; j++ {
		hjk := dot(g.v[j], w)
		g.h[k][j] = hjk
		axpy(w, -hjk, g.v[j])
	}
	norm := vecNorm(w)
	g.h[k][k+1] = complex(norm, 0)
	if norm != 0 {
		scaleInto(w, complex(1/norm, 0), w)
	}
}

// qr applies the previously accumulated Givens rotations to column k
// of H, then computes and applies the new rotation that zeroes
// H[k+1,k].
func (g *GMRES) qr(k int) {
	col := g.h[k]
	for i := 0; i < k; i++ {
		hi, hi1 := applyGivens(g.givC[i], g.givS[i], col[i], col[i+1])
		col[i], col[i+1] = hi, hi1
	}
	c, s, r := givensRotation(col[k], col[k+1])
	g.givC[k], g.givS[k] = c, s
	col[k] = r
	col[k+1] = 0

	sk, sk1 := applyGivens(c, s, g.s[k], g.s[k+1])
	g.s[k], g.s[k+1] = sk, sk1
}

// solveLeastSquares back-substitutes the k x k upper-triangular system
// H*y = s.
func (g *GMRES) solveLeastSquares(k int) {
	for i := k - 1; i >= 0; i-- {
		sum := g.s[i]
		for j := i + 1; j < k; j++ {
			sum -= g.h[j][i] * g.y[j]
		}
		g.y[i] = sum / g.h[i][i]
	}
}

func (g *GMRES) updateSolution(k int) {
	for j := 0; j < k; j++ {
		axpy(g.x, g.y[j], g.v[j])
	}
}
