// Package precond assembles and factorizes the per-domain Schur
// complements of spec.md §4.6, following the same sparse-matrix idiom
// the teacher circuit simulator uses for nodal-analysis stamping
// (github.com/edp1096/sparse's GetElement/Factor/SolveComplex), then
// exposes the two-block preconditioner solve fct_pcd.
package precond

import (
	"fmt"
	"math/cmplx"

	"github.com/edp1096/sparse"

	"github.com/edp1096/peec-core/pkg/assembly"
	"github.com/edp1096/peec-core/pkg/incidence"
	"github.com/edp1096/peec-core/pkg/indexing"
)

// stampMatrix is a thin 1-based complex sparse matrix, grounded
// directly on the teacher's pkg/matrix.CircuitMatrix: GetElement
// accumulates real/imaginary parts, Factor/SolveComplex do the rest.
// entries mirrors what has been stamped into m, since
// github.com/edp1096/sparse exposes no entry iterator of its own; it
// backs the one-norm used by ConditionEstimate.
type stampMatrix struct {
	size    int
	m       *sparse.Matrix
	entries map[[2]int]complex128
}

func newStampMatrix(size int) (*stampMatrix, error) {
	config := &sparse.Configuration{
		Real: true, Complex: true, Expandable: true,
		ModifiedNodal: true, TiesMultiplier: 5,
	}
	mat, err := sparse.Create(int64(size), config)
	if err != nil {
		return nil, fmt.Errorf("precond: creating sparse matrix: %w", err)
	}
	return &stampMatrix{size: size, m: mat, entries: make(map[[2]int]complex128)}, nil
}

func (s *stampMatrix) add(i, j int, v complex128) {
	if i < 0 || j < 0 || i >= s.size || j >= s.size {
		return
	}
	e := s.m.GetElement(int64(i+1), int64(j+1))
	e.Real += real(v)
	e.Imag += imag(v)
	s.entries[[2]int{i, j}] += v
}

// oneNorm returns ||M||_1, the largest absolute column sum of what
// has been stamped into M.
func (s *stampMatrix) oneNorm() float64 {
	colSum := make([]float64, s.size)
	for k, v := range s.entries {
		colSum[k[1]] += cmplx.Abs(v)
	}
	var max float64
	for _, c := range colSum {
		if c > max {
			max = c
		}
	}
	return max
}

// conditionProbes is the number of Rademacher probe vectors used by
// ConditionEstimate.
const conditionProbes = 5

// ConditionEstimate returns a one-norm condition number estimate
// kappa_1(M) = ||M||_1 * ||M^-1||_1, following PyPEEC's
// lib_matrix/matrix_condition.py use of a one-norm estimator (SciPy's
// onenormest, itself Higham & Tisseur's algorithm). That algorithm
// needs mat-vec products with both M^-1 and its conjugate transpose;
// github.com/edp1096/sparse only exposes a forward solve, so this
// uses a simplified single-sided estimator instead: probe M^-1 with a
// handful of fixed +/-1 (Rademacher) right-hand sides and take the
// largest resulting solution's 1-norm. This can underestimate the
// true norm in adversarial cases but is cheap (conditionProbes solves
// instead of one per column) and tracks the true value closely enough
// to flag the ill-conditioned cases spec.md §7's condition_status
// check cares about.
func (s *stampMatrix) ConditionEstimate() (float64, error) {
	normM := s.oneNorm()
	if normM == 0 {
		return 0, nil
	}

	var maxInvNorm float64
	seed := uint64(0x9e3779b97f4a7c15)
	for p := 0; p < conditionProbes; p++ {
		rhs := make([]complex128, s.size)
		for i := range rhs {
			seed = seed*6364136223846793005 + 1442695040888963407
			if seed>>63 == 0 {
				rhs[i] = complex(1, 0)
			} else {
				rhs[i] = complex(-1, 0)
			}
		}
		x, err := s.solve(rhs)
		if err != nil {
			return 0, err
		}
		var colNorm float64
		for _, v := range x {
			colNorm += cmplx.Abs(v)
		}
		if colNorm > maxInvNorm {
			maxInvNorm = colNorm
		}
	}
	return normM * maxInvNorm, nil
}

func (s *stampMatrix) solve(rhs []complex128) ([]complex128, error) {
	rr := make([]float64, s.size+1)
	ri := make([]float64, s.size+1)
	for i, v := range rhs {
		rr[i+1] = real(v)
		ri[i+1] = imag(v)
	}
	if err := s.m.Factor(); err != nil {
		return nil, fmt.Errorf("precond: factorization failed: %w", err)
	}
	xr, xi, err := s.m.SolveComplex(rr, ri)
	if err != nil {
		return nil, fmt.Errorf("precond: solve failed: %w", err)
	}
	out := make([]complex128, s.size)
	for i := range out {
		out[i] = complex(xr[i+1], xi[i+1])
	}
	return out, nil
}

// Electric is the preconditioner for the electric sub-system: the
// Schur complement S_c of spec.md §4.6 plus the face admittance
// needed by the two-block solve fct_pcd.
type Electric struct {
	net *incidence.Net
	src *indexing.SourceMatrices
	yc  []complex128
	s   *stampMatrix
}

// BuildElectric forms S_c = A_22 - A_21*diag(Y_c)*A_12 (it is factorized
// on each Solve and ConditionEstimate call, not here),
// which reduces, since A_22's vc-vc block is zero, to the standard
// nodal-admittance stamp A_net_c*diag(Y_c)*A_net_c^T plus the source
// stamps A_vc_src/A_src_vc/A_src_src (spec.md §4.6).
func BuildElectric(net *incidence.Net, r []complex128, lOp *assembly.LOperator, omega float64, src *indexing.SourceMatrices) (*Electric, error) {
	yc := make([]complex128, net.NumFaces())
	for f := range yc {
		z := r[f] + complex(0, omega)*lOp.Self(net.Axis[f])
		yc[f] = 1 / z
	}

	n := net.NumVoxels() + src.NSrcC + src.NSrcV
	s, err := newStampMatrix(n)
	if err != nil {
		return nil, err
	}

	for f := 0; f < net.NumFaces(); f++ {
		owner, neigh := net.Indicator(f)
		g := yc[f]
		s.add(owner, owner, g)
		s.add(neigh, neigh, g)
		s.add(owner, neigh, -g)
		s.add(neigh, owner, -g)
	}
	for _, e := range src.AVcSrc {
		s.add(e.Row, net.NumVoxels()+e.Col, e.Val)
	}
	for _, e := range src.ASrcVc {
		s.add(net.NumVoxels()+e.Row, e.Col, e.Val)
	}
	for i, v := range src.ASrcSrc {
		s.add(net.NumVoxels()+i, net.NumVoxels()+i, v)
	}

	return &Electric{net: net, src: src, yc: yc, s: s}, nil
}

// Solve implements fct_pcd for the electric block: given rhsA (length
// n_fc) and rhsB (length n_vc+n_src), returns (sol_fc, sol_vc_src).
func (e *Electric) Solve(rhsA, rhsB []complex128) (solA, solB []complex128, err error) {
	weighted := make([]complex128, len(rhsA))
	for f, v := range rhsA {
		weighted[f] = e.yc[f] * v
	}
	voxelPart := e.net.Apply(weighted)

	rhsB2 := append([]complex128(nil), rhsB...)
	for i, v := range voxelPart {
		rhsB2[i] -= v
	}

	solB, err = e.s.solve(rhsB2)
	if err != nil {
		return nil, nil, err
	}

	vcPart := solB[:e.net.NumVoxels()]
	t2 := e.net.ApplyT(vcPart)

	solA = make([]complex128, len(rhsA))
	for f := range solA {
		solA[f] = e.yc[f] * (rhsA[f] + t2[f])
	}
	return solA, solB, nil
}

// ConditionEstimate reports the one-norm condition number estimate of
// the factorized Schur complement S_c (spec.md §7).
func (e *Electric) ConditionEstimate() (float64, error) { return e.s.ConditionEstimate() }

// Magnetic is the preconditioner for the magnetic sub-system: the
// DC-stable Schur complement S_m = I - diag(P_m)*A_net_m*diag(Y_m)*A_net_m^T.
type Magnetic struct {
	net *incidence.Net
	ym  []complex128
	pm  []complex128
	s   *stampMatrix
}

// BuildMagnetic forms S_m (it is factorized on each Solve and
// ConditionEstimate call, not here). pSelf is broadcast to every
// magnetic voxel (spec.md does not distinguish a per-voxel P_m; this
// module treats it as a single scalar per homogeneous magnetic
// domain, consistent with P_op's own single circulant).
func BuildMagnetic(net *incidence.Net, r []complex128, pSelf complex128) (*Magnetic, error) {
	ym := make([]complex128, net.NumFaces())
	for f := range ym {
		ym[f] = 1 / r[f]
	}
	pm := make([]complex128, net.NumVoxels())
	for i := range pm {
		pm[i] = pSelf
	}

	n := net.NumVoxels()
	s, err := newStampMatrix(n)
	if err != nil {
		return nil, err
	}
	for f := 0; f < net.NumFaces(); f++ {
		owner, neigh := net.Indicator(f)
		g := ym[f]
		s.add(owner, owner, -pm[owner]*g)
		s.add(owner, neigh, pm[owner]*g)
		s.add(neigh, neigh, -pm[neigh]*g)
		s.add(neigh, owner, pm[neigh]*g)
	}
	for i := 0; i < n; i++ {
		s.add(i, i, 1)
	}

	return &Magnetic{net: net, ym: ym, pm: pm, s: s}, nil
}

// Solve implements fct_pcd for the magnetic block: given rhsA (length
// n_fm) and rhsB (length n_vm), returns (sol_fm, sol_vm).
func (mpc *Magnetic) Solve(rhsA, rhsB []complex128) (solA, solB []complex128, err error) {
	weighted := make([]complex128, len(rhsA))
	for f, v := range rhsA {
		weighted[f] = mpc.ym[f] * v
	}
	voxelPart := mpc.net.Apply(weighted)

	rhsB2 := append([]complex128(nil), rhsB...)
	for i, v := range voxelPart {
		rhsB2[i] -= mpc.pm[i] * v
	}

	solB, err = mpc.s.solve(rhsB2)
	if err != nil {
		return nil, nil, err
	}

	t2 := mpc.net.ApplyT(solB)
	solA = make([]complex128, len(rhsA))
	for f := range solA {
		solA[f] = mpc.ym[f] * (rhsA[f] - t2[f])
	}
	return solA, solB, nil
}

// ConditionEstimate reports the one-norm condition number estimate of
// the factorized Schur complement S_m (spec.md §7).
func (mpc *Magnetic) ConditionEstimate() (float64, error) { return mpc.s.ConditionEstimate() }
