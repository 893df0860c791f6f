package model

// SourceKind distinguishes a lumped current source from a lumped
// voltage source, per the A_src_src block of §4.5.
type SourceKind int

const (
	CurrentSource SourceKind = iota
	VoltageSource
)

func (k SourceKind) String() string {
	if k == VoltageSource {
		return "voltage"
	}
	return "current"
}

// SourceRecord is one named lumped source: its driving value, the
// voxel(s) it is attached to, and its internal admittance/impedance
// (Y for a current source, Z for a voltage source — see §4.5).
type SourceRecord struct {
	Tag      string
	Kind     SourceKind
	Idx      []int // source voxel(s), must be a subset of the electric domain
	Value    complex128
	Internal complex128 // Y (current source) or Z (voltage source)
}

// SolveContext carries the per-frequency parameters of one sweep,
// mirroring the teacher's CircuitStatus{Mode, Frequency} struct. The
// assembly, preconditioner and system-operator calls do not take it;
// they receive the angular frequency omega as a plain float64.
type SolveContext struct {
	Freq  float64
	Omega float64
}

// NewSolveContext builds a SolveContext for the given frequency,
// deriving Omega = 2*pi*Freq. Freq == 0 selects the DC limit.
func NewSolveContext(freq float64) SolveContext {
	return SolveContext{Freq: freq, Omega: 2 * 3.141592653589793 * freq}
}

// IsDC reports whether this context is the zero-frequency limit.
func (c SolveContext) IsDC() bool { return c.Freq == 0 }
