package extract

import (
	"math"

	"github.com/edp1096/peec-core/internal/constants"
	"github.com/edp1096/peec-core/pkg/model"
)

// Point is an off-grid evaluation point for the magnetic field cloud
// of spec.md §4.10.
type Point [3]float64

// Field is the complex magnetic field vector H(p) at one cloud point.
type Field [3]complex128

// VoxelCurrentDensity returns the per-voxel current-density vector
// J_v built from the three axis-restricted face->voxel vector
// densities (FaceToVoxelVectorDensity), one call per axis by the
// caller of BiotSavartElectric.
type VoxelCurrentDensity map[int][3]complex128

// BiotSavartElectric evaluates the electric-face contribution to
// H(p) at each cloud point (spec.md §4.10):
//
//	H(p) = (1/4*pi) * sum_v  V_vox * J_v x (p - p_v) / |p - p_v|^3
func BiotSavartElectric(g model.Grid, J VoxelCurrentDensity, points []Point) []Field {
	out := make([]Field, len(points))
	vol := g.VoxelVolume()
	for pi, p := range points {
		var h [3]complex128
		for v, jv := range J {
			c := g.Center(v)
			r := [3]float64{p[0] - c[0], p[1] - c[1], p[2] - c[2]}
			dist := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])
			if dist == 0 {
				continue
			}
			scale := complex(vol/(constants.FourPi*dist*dist*dist), 0)
			cr := crossComplexReal(jv, r)
			for k := 0; k < 3; k++ {
				h[k] += scale * cr[k]
			}
		}
		out[pi] = h
	}
	return out
}

// BiotSavartMagneticCharge evaluates the magnetic-charge contribution
// to H(p) at each cloud point (spec.md §4.10):
//
//	H(p) += (1/(4*pi*mu0)) * sum_v  V_vox * Q_v * (p_v - p) / |p_v - p|^3
//
// Q is the per-voxel magnetic charge density, e.g. from
// DivergenceDensity applied to the magnetic face current.
func BiotSavartMagneticCharge(g model.Grid, Q map[int]complex128, points []Point) []Field {
	out := make([]Field, len(points))
	vol := g.VoxelVolume()
	for pi, p := range points {
		var h [3]complex128
		for v, qv := range Q {
			c := g.Center(v)
			r := [3]float64{c[0] - p[0], c[1] - p[1], c[2] - p[2]}
			dist := math.Sqrt(r[0]*r[0] + r[1]*r[1] + r[2]*r[2])
			if dist == 0 {
				continue
			}
			scale := qv * complex(vol/(constants.FourPi*constants.Mu0*dist*dist*dist), 0)
			for k := 0; k < 3; k++ {
				h[k] += scale * complex(r[k], 0)
			}
		}
		out[pi] = h
	}
	return out
}

// AddFields adds b into a elementwise, combining the electric-face and
// magnetic-charge contributions into one field cloud.
func AddFields(a, b []Field) []Field {
	out := make([]Field, len(a))
	for i := range a {
		out[i] = a[i]
		for k := 0; k < 3; k++ {
			out[i][k] += b[i][k]
		}
	}
	return out
}

// crossComplexReal computes the cross product of a complex vector a
// with a real vector b.
func crossComplexReal(a [3]complex128, b [3]float64) [3]complex128 {
	return [3]complex128{
		a[1]*complex(b[2], 0) - a[2]*complex(b[1], 0),
		a[2]*complex(b[0], 0) - a[0]*complex(b[2], 0),
		a[0]*complex(b[1], 0) - a[1]*complex(b[0], 0),
	}
}
