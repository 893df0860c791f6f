package model

import "fmt"

// MaterialKind is the tagged sum type the Design Notes (§9 of
// spec.md) call for, replacing the original's runtime string-tag
// dispatch: every material record is resolved once, at assembly time,
// into one of these three cases.
type MaterialKind int

const (
	MaterialElectric MaterialKind = iota
	MaterialMagnetic
	MaterialElectromagnetic
)

func (k MaterialKind) String() string {
	switch k {
	case MaterialElectric:
		return "electric"
	case MaterialMagnetic:
		return "magnetic"
	case MaterialElectromagnetic:
		return "electromagnetic"
	default:
		return "unknown"
	}
}

// VarType distinguishes a material value applied uniformly to every
// voxel of a domain (Lumped) from one supplied per-voxel
// (Distributed).
type VarType int

const (
	Lumped VarType = iota
	Distributed
)

// Orientation selects whether a material parameter is isotropic,
// given per-axis (anisotropic), or not applicable.
type Orientation int

const (
	OrientationIso Orientation = iota
	OrientationAniso
	OrientationNull
)

// MaterialRecord is one tagged material entry as delivered by the
// problem definition (material_def, §6): a named domain plus its
// electric resistivity and/or magnetic susceptibility.
type MaterialRecord struct {
	Tag         string
	Kind        MaterialKind
	VarType     VarType
	Orientation Orientation
	Idx         []int // voxel indices this record applies to

	// RhoIso/RhoAniso hold electric resistivity (ohm*m); exactly one
	// of the two is meaningful, selected by Orientation. Distributed
	// records instead populate RhoPerVoxel (len(Idx) entries, ordered
	// like Idx).
	RhoIso      complex128
	RhoAniso    [3]complex128
	RhoPerVoxel []complex128

	// ChiIso/ChiAniso hold magnetic susceptibility chi = chi_re -
	// j*chi_im; same Distributed convention as Rho above.
	ChiIso      complex128
	ChiAniso    [3]complex128
	ChiPerVoxel []complex128
}

// ResistivityAt returns the (possibly anisotropic) electric
// resistivity of voxel slot k (the k-th entry of Idx) along axis a.
func (m MaterialRecord) ResistivityAt(k int, a Axis) (complex128, error) {
	if m.VarType == Distributed {
		if k < 0 || k >= len(m.RhoPerVoxel) {
			return 0, fmt.Errorf("model: material %q: voxel slot %d out of range", m.Tag, k)
		}
		return m.RhoPerVoxel[k], nil
	}
	switch m.Orientation {
	case OrientationIso:
		return m.RhoIso, nil
	case OrientationAniso:
		return m.RhoAniso[a], nil
	default:
		return 0, fmt.Errorf("model: material %q: no electric orientation configured", m.Tag)
	}
}

// SusceptibilityAt returns the magnetic susceptibility of voxel slot k
// along axis a.
func (m MaterialRecord) SusceptibilityAt(k int, a Axis) (complex128, error) {
	if m.VarType == Distributed {
		if k < 0 || k >= len(m.ChiPerVoxel) {
			return 0, fmt.Errorf("model: material %q: voxel slot %d out of range", m.Tag, k)
		}
		return m.ChiPerVoxel[k], nil
	}
	switch m.Orientation {
	case OrientationIso:
		return m.ChiIso, nil
	case OrientationAniso:
		return m.ChiAniso[a], nil
	default:
		return 0, fmt.Errorf("model: material %q: no magnetic orientation configured", m.Tag)
	}
}

// Validate checks internal consistency of the record against its
// declared VarType/Orientation.
func (m MaterialRecord) Validate() error {
	if m.VarType == Distributed {
		if m.Kind != MaterialMagnetic && len(m.RhoPerVoxel) != len(m.Idx) {
			return fmt.Errorf("model: material %q: distributed resistivity length %d != idx length %d", m.Tag, len(m.RhoPerVoxel), len(m.Idx))
		}
		if m.Kind != MaterialElectric && len(m.ChiPerVoxel) != len(m.Idx) {
			return fmt.Errorf("model: material %q: distributed susceptibility length %d != idx length %d", m.Tag, len(m.ChiPerVoxel), len(m.Idx))
		}
	}
	return nil
}
