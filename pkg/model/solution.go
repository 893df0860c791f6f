package model

// Layout describes the concatenated solution-vector ordering of §3:
//
//	[ I_fc (n_fc), V_vc (n_vc), I_src (n_src_c+n_src_v), I_fm (n_fm), V_vm (n_vm) ]
//
// All slices are complex128-valued. Every component downstream of
// assembly addresses the solution vector through this type instead of
// hardcoding offsets.
type Layout struct {
	NFc    int
	NVc    int
	NSrcC  int
	NSrcV  int
	NFm    int
	NVm    int
}

// NSrc is the total number of lumped sources (current + voltage).
func (l Layout) NSrc() int { return l.NSrcC + l.NSrcV }

// Total is the length of the full solution vector.
func (l Layout) Total() int { return l.NFc + l.NVc + l.NSrc() + l.NFm + l.NVm }

// Offsets into the flat vector for each block.
func (l Layout) OffFc() int    { return 0 }
func (l Layout) OffVc() int    { return l.OffFc() + l.NFc }
func (l Layout) OffSrc() int   { return l.OffVc() + l.NVc }
func (l Layout) OffSrcC() int  { return l.OffSrc() }
func (l Layout) OffSrcV() int  { return l.OffSrc() + l.NSrcC }
func (l Layout) OffFm() int    { return l.OffSrc() + l.NSrc() }
func (l Layout) OffVm() int    { return l.OffFm() + l.NFm }

// Fc returns the I_fc slice view of a full solution vector x.
func (l Layout) Fc(x []complex128) []complex128 { return x[l.OffFc() : l.OffFc()+l.NFc] }

// Vc returns the V_vc slice view.
func (l Layout) Vc(x []complex128) []complex128 { return x[l.OffVc() : l.OffVc()+l.NVc] }

// Src returns the full I_src slice view (current sources then voltage sources).
func (l Layout) Src(x []complex128) []complex128 { return x[l.OffSrc() : l.OffSrc()+l.NSrc()] }

// SrcC returns the current-source sub-slice of I_src.
func (l Layout) SrcC(x []complex128) []complex128 { return x[l.OffSrcC() : l.OffSrcC()+l.NSrcC] }

// SrcV returns the voltage-source sub-slice of I_src.
func (l Layout) SrcV(x []complex128) []complex128 { return x[l.OffSrcV() : l.OffSrcV()+l.NSrcV] }

// Fm returns the I_fm slice view.
func (l Layout) Fm(x []complex128) []complex128 { return x[l.OffFm() : l.OffFm()+l.NFm] }

// Vm returns the V_vm slice view.
func (l Layout) Vm(x []complex128) []complex128 { return x[l.OffVm() : l.OffVm()+l.NVm] }

// ElectricLen is the length of the electric sub-block [I_fc, V_vc, I_src].
func (l Layout) ElectricLen() int { return l.NFc + l.NVc + l.NSrc() }

// MagneticLen is the length of the magnetic sub-block [I_fm, V_vm].
func (l Layout) MagneticLen() int { return l.NFm + l.NVm }

// Electric returns the electric sub-block view of a full vector.
func (l Layout) Electric(x []complex128) []complex128 { return x[0:l.ElectricLen()] }

// Magnetic returns the magnetic sub-block view of a full vector.
func (l Layout) Magnetic(x []complex128) []complex128 {
	return x[l.ElectricLen() : l.ElectricLen()+l.MagneticLen()]
}

// New allocates a zeroed solution vector of the correct total length.
func (l Layout) New() []complex128 { return make([]complex128, l.Total()) }
