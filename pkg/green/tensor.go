// Package green evaluates the volume-volume and area-to-volume
// integrals of 1/||r|| between voxel pairs (spec.md §4.1) and packs
// the results into the translation-invariant tensors consumed by the
// FFT operator of pkg/fftop.
package green

import (
	"math"

	"github.com/edp1096/peec-core/pkg/model"
)

// Tensor holds the half-space Green (or coupling) tensor of shape
// (nx, ny, nz, k): T[ix,iy,iz,k] is indexed by the offset (ix,iy,iz)
// between a source and target voxel (0 <= i < n) and by the component
// k (1 for G, 3 for K: one per integrated face normal, yz/xz/xy).
type Tensor struct {
	Nx, Ny, Nz int
	K          int
	Data       []float64 // row-major: ((ix*Ny+iy)*Nz+iz)*K + k
}

// NewTensor allocates a zeroed tensor of the given shape.
func NewTensor(nx, ny, nz, k int) *Tensor {
	return &Tensor{Nx: nx, Ny: ny, Nz: nz, K: k, Data: make([]float64, nx*ny*nz*k)}
}

func (t *Tensor) index(ix, iy, iz, k int) int {
	return ((ix*t.Ny+iy)*t.Nz+iz)*t.K + k
}

// At returns T[ix,iy,iz,k].
func (t *Tensor) At(ix, iy, iz, k int) float64 { return t.Data[t.index(ix, iy, iz, k)] }

// Set assigns T[ix,iy,iz,k] = v.
func (t *Tensor) Set(ix, iy, iz, k int, v float64) { t.Data[t.index(ix, iy, iz, k)] = v }

// Options controls the Green tensor evaluation.
type Options struct {
	// IntegralSimplify is the normalized-distance threshold beyond
	// which the closed form is replaced by the far-field monopole
	// approximation (spec.md §4.1). Zero selects the default of 20.
	IntegralSimplify float64
}

func (o Options) simplify() float64 {
	if o.IntegralSimplify <= 0 {
		return 20
	}
	return o.IntegralSimplify
}

// BuildG evaluates the 6-D volume-volume integral G(m) = (1/4pi) ∫∫
// 1/||r-r'|| dV dV' for every offset m = (ix,iy,iz), 0 <= i < n, using
// the grid's voxel size d. G is used for both the potential operator P
// and the self/mutual inductance operator L.
func BuildG(g model.Grid, opts Options) *Tensor {
	t := NewTensor(g.Nx, g.Ny, g.Nz, 1)
	simplify := opts.simplify()
	dmax := math.Max(g.Dx, math.Max(g.Dy, g.Dz))

	for ix := 0; ix < g.Nx; ix++ {
		for iy := 0; iy < g.Ny; iy++ {
			for iz := 0; iz < g.Nz; iz++ {
				mx, my, mz := float64(ix)*g.Dx, float64(iy)*g.Dy, float64(iz)*g.Dz
				dist := norm3(mx, my, mz) / dmax
				var v float64
				if dist > simplify && dist > 0 {
					sep := norm3(mx, my, mz)
					vol := g.Dx * g.Dy * g.Dz
					v = vol * vol / (4 * math.Pi * sep)
				} else {
					v = cornerSum3(g.Dx/2, g.Dy/2, g.Dz/2, mx, my, mz) / (4 * math.Pi)
				}
				t.Set(ix, iy, iz, 0, v)
			}
		}
	}
	return t
}

// BuildK evaluates the 5-D area-to-volume integral K(m) for all three
// face orientations (yz, xz, xy), returning a 3-component tensor.
func BuildK(g model.Grid, opts Options) *Tensor {
	t := NewTensor(g.Nx, g.Ny, g.Nz, 3)
	simplify := opts.simplify()
	dmax := math.Max(g.Dx, math.Max(g.Dy, g.Dz))

	faces := [3]model.Axis{model.AxisX, model.AxisY, model.AxisZ}

	for ix := 0; ix < g.Nx; ix++ {
		for iy := 0; iy < g.Ny; iy++ {
			for iz := 0; iz < g.Nz; iz++ {
				mx, my, mz := float64(ix)*g.Dx, float64(iy)*g.Dy, float64(iz)*g.Dz
				dist := norm3(mx, my, mz) / dmax

				for k, axis := range faces {
					var v float64
					if dist > simplify && dist > 0 {
						sep := norm3(mx, my, mz)
						v = faceFarField(g, axis) / (4 * math.Pi * sep)
					} else {
						v = faceNearField(g, axis, mx, my, mz) / (4 * math.Pi)
					}
					t.Set(ix, iy, iz, k, v)
				}
			}
		}
	}
	return t
}

// faceFarField returns the far-field monopole numerator dx*dy*V for
// the face perpendicular to axis (spec.md §4.1).
func faceFarField(g model.Grid, axis model.Axis) float64 {
	vol := g.Dx * g.Dy * g.Dz
	switch axis {
	case model.AxisX:
		return g.Dy * g.Dz * vol
	case model.AxisY:
		return g.Dx * g.Dz * vol
	default:
		return g.Dx * g.Dy * vol
	}
}

// faceNearField evaluates the near-field closed form for the face
// perpendicular to axis, offset by (mx,my,mz) from the target voxel.
func faceNearField(g model.Grid, axis model.Axis, mx, my, mz float64) float64 {
	switch axis {
	case model.AxisX:
		return cornerSum2(g.Dy/2, g.Dz/2, my, mz, mx) * (g.Dx / 2)
	case model.AxisY:
		return cornerSum2(g.Dx/2, g.Dz/2, mx, mz, my) * (g.Dy / 2)
	default:
		return cornerSum2(g.Dx/2, g.Dy/2, mx, my, mz) * (g.Dz / 2)
	}
}
