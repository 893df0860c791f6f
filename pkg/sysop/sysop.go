// Package sysop implements the matrix-free action of the full PEEC
// system (spec.md §4.7): the electric block, the magnetic block, and
// the cross-domain coupling terms that couple them.
package sysop

import (
	"github.com/edp1096/peec-core/pkg/assembly"
	"github.com/edp1096/peec-core/pkg/incidence"
	"github.com/edp1096/peec-core/pkg/indexing"
	"github.com/edp1096/peec-core/pkg/model"
)

// Electric bundles everything the electric block's matrix-free action
// needs: the reduced incidence net, the diagonal resistance, the
// inductance operator, and the source-coupling matrices.
type Electric struct {
	Net   *incidence.Net
	R     []complex128
	LOp   *assembly.LOperator
	Src   *indexing.SourceMatrices
	Omega float64
}

// Apply computes the electric block's right-hand side for the
// current iterate (I_fc, V_vc, I_src), per spec.md §4.7:
//
//	rhs_fc  = jw*L_op(I_fc) + R_c*I_fc - A_net_c^T*V_vc
//	rhs_vc  = A_net_c*I_fc + A_vc_src*I_src
//	rhs_src = A_src_vc*V_vc + A_src_src*I_src
func (e *Electric) Apply(Ifc, Vvc, Isrc []complex128) (rhsFc, rhsVc, rhsSrc []complex128) {
	lTerm := e.LOp.Apply(e.Net, Ifc)
	vcT := e.Net.ApplyT(Vvc)

	rhsFc = make([]complex128, len(Ifc))
	jw := complex(0, e.Omega)
	for f := range rhsFc {
		rhsFc[f] = jw*lTerm[f] + e.R[f]*Ifc[f] - vcT[f]
	}

	rhsVc = e.Net.Apply(Ifc)
	srcContribution := e.Src.ApplyAVcSrc(Isrc)
	for i := range rhsVc {
		rhsVc[i] += srcContribution[i]
	}

	rhsSrc = e.Src.ApplyASrcVc(Vvc)
	srcDiag := e.Src.ApplyASrcSrc(Isrc)
	for i := range rhsSrc {
		rhsSrc[i] += srcDiag[i]
	}
	return rhsFc, rhsVc, rhsSrc
}

// Magnetic bundles the magnetic block's matrix-free action inputs.
type Magnetic struct {
	Net *incidence.Net
	R   []complex128
	POp *assembly.POperator
}

// Apply computes the magnetic block's right-hand side for the
// current iterate (I_fm, V_vm), per spec.md §4.7:
//
//	rhs_fm = R_m*I_fm - A_net_m^T*V_vm
//	rhs_vm = P_op(A_net_m*I_fm) + V_vm
func (m *Magnetic) Apply(Ifm, Vvm []complex128) (rhsFm, rhsVm []complex128) {
	vmT := m.Net.ApplyT(Vvm)
	rhsFm = make([]complex128, len(Ifm))
	for f := range rhsFm {
		rhsFm[f] = m.R[f]*Ifm[f] - vmT[f]
	}

	divergence := m.Net.Apply(Ifm)
	rhsVm = m.POp.Apply(m.Net, divergence)
	for i := range rhsVm {
		rhsVm[i] += Vvm[i]
	}
	return rhsFm, rhsVm
}

// Coupling computes the two cross-domain coupling terms of spec.md
// §4.7: cpl_c = jw*K_op_c(I_fm) added to the electric fc-block, and
// cpl_m = -K_op_m(I_fc) added to the magnetic fm-block.
type Coupling struct {
	KOp   *assembly.KOperator
	Omega float64
}

// ElectricTerm computes cpl_c given the magnetic face-current iterate.
func (c *Coupling) ElectricTerm(magNet *incidence.Net, Ifm []complex128, elecNet *incidence.Net) []complex128 {
	raw := c.KOp.Apply(magNet, Ifm, elecNet)
	jw := complex(0, c.Omega)
	out := make([]complex128, len(raw))
	for i, v := range raw {
		out[i] = jw * v
	}
	return out
}

// MagneticTerm computes cpl_m given the electric face-current
// iterate.
func (c *Coupling) MagneticTerm(elecNet *incidence.Net, Ifc []complex128, magNet *incidence.Net) []complex128 {
	raw := c.KOp.Apply(elecNet, Ifc, magNet)
	out := make([]complex128, len(raw))
	for i, v := range raw {
		out[i] = -v
	}
	return out
}

// IsDC reports whether ctx selects the zero-frequency limit, in
// which case the jw terms of both blocks vanish and the magnetic
// system degenerates to a resistive solve (spec.md §4.7).
func IsDC(ctx model.SolveContext) bool { return ctx.IsDC() }
