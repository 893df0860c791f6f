// Package extract implements the post-solve extraction of spec.md
// §4.10: face-to-voxel density conversions, loss and energy
// integrals, terminal quantities, and off-grid magnetic field
// evaluation via Biot-Savart and magnetic-charge contributions.
package extract

import (
	"math/cmplx"

	"github.com/edp1096/peec-core/internal/constants"
	"github.com/edp1096/peec-core/pkg/incidence"
	"github.com/edp1096/peec-core/pkg/model"
)

// FaceToVoxelVectorDensity converts a face variable along axis a into
// a per-voxel density: (0.5*|A_net|*v_f) / A_face (spec.md §4.10).
// Faces of other axes are ignored.
func FaceToVoxelVectorDensity(net *incidence.Net, vf []complex128, a model.Axis) []complex128 {
	restricted := make([]complex128, len(vf))
	for f, v := range vf {
		if net.Axis[f] == a {
			restricted[f] = v
		}
	}
	voxel := net.ApplyAbs(restricted)
	scale := complex(0.5/net.Grid.FaceArea(a), 0)
	out := make([]complex128, len(voxel))
	for i, v := range voxel {
		out[i] = scale * v
	}
	return out
}

// FaceToVoxelScalarDensity converts a face variable into a per-voxel
// scalar density: (0.5*|A_net|*v_f) / V_vox (spec.md §4.10, used for
// loss densities).
func FaceToVoxelScalarDensity(net *incidence.Net, vf []complex128) []complex128 {
	voxel := net.ApplyAbs(vf)
	scale := complex(0.5/net.Grid.VoxelVolume(), 0)
	out := make([]complex128, len(voxel))
	for i, v := range voxel {
		out[i] = scale * v
	}
	return out
}

// DivergenceDensity computes (A_net*v_f) / V_vox (spec.md §4.10).
func DivergenceDensity(net *incidence.Net, vf []complex128) []complex128 {
	voxel := net.Apply(vf)
	scale := complex(1/net.Grid.VoxelVolume(), 0)
	out := make([]complex128, len(voxel))
	for i, v := range voxel {
		out[i] = scale * v
	}
	return out
}

// Losses evaluates per-face resistive loss P_f = Re(factor *
// conj(I_f) * Z_f * I_f), factor 1/2 at AC, 1 at DC (spec.md §4.10).
func Losses(I, Z []complex128, isDC bool) []float64 {
	factor := complex(0.5, 0)
	if isDC {
		factor = 1
	}
	out := make([]float64, len(I))
	for f := range I {
		out[f] = real(factor * cmplx.Conj(I[f]) * Z[f] * I[f])
	}
	return out
}

// Energy evaluates per-face stored energy W_f = Re(factor * conj(I_f)
// * (LI_f + KI_f)), factor 1/4 at AC, 1/2 at DC (spec.md §4.10). LI
// and KI are the caller-supplied L_op(I) and K_op(I) results.
func Energy(I, LI, KI []complex128, isDC bool) []float64 {
	factor := complex(0.25, 0)
	if isDC {
		factor = 0.5
	}
	out := make([]float64, len(I))
	for f := range I {
		out[f] = real(factor * cmplx.Conj(I[f]) * (LI[f] + KI[f]))
	}
	return out
}

// Terminal computes the per-source-domain terminal quantities of
// spec.md §4.10: V = mean(V_vc[idx_vc]), I = sum(I_src[idx_src]), S =
// 1/2 * V * conj(I).
func Terminal(net *incidence.Net, Vvc []complex128, domainVoxels []int, sourceCurrents []complex128) (V, I, S complex128, err error) {
	var sumV complex128
	for _, g := range domainVoxels {
		local := net.LocalVoxel(g)
		if local < 0 {
			continue
		}
		sumV += Vvc[local]
	}
	if len(domainVoxels) > 0 {
		V = sumV / complex(float64(len(domainVoxels)), 0)
	}
	for _, i := range sourceCurrents {
		I += i
	}
	S = 0.5 * V * cmplx.Conj(I)
	return V, I, S, nil
}

// Mu0 re-exports the permeability of free space used by the
// magnetic-charge Biot-Savart contribution.
const Mu0 = constants.Mu0

// BuildVoxelCurrentDensity assembles the per-voxel current-density
// vector field J_v (keyed by global voxel index) from the three
// axis-restricted face->voxel vector densities, for use with
// BiotSavartElectric.
func BuildVoxelCurrentDensity(net *incidence.Net, Ifc []complex128) VoxelCurrentDensity {
	out := make(VoxelCurrentDensity, net.NumVoxels())
	for _, a := range []model.Axis{model.AxisX, model.AxisY, model.AxisZ} {
		density := FaceToVoxelVectorDensity(net, Ifc, a)
		for local, v := range density {
			global := net.VoxelIdx[local]
			entry := out[global]
			entry[a] = v
			out[global] = entry
		}
	}
	return out
}

// BuildVoxelCharge assembles the per-voxel magnetic charge density
// (keyed by global voxel index) from a divergence density vector, for
// use with BiotSavartMagneticCharge.
func BuildVoxelCharge(net *incidence.Net, divDensity []complex128) map[int]complex128 {
	out := make(map[int]complex128, net.NumVoxels())
	for local, v := range divDensity {
		out[net.VoxelIdx[local]] = v
	}
	return out
}
