// Package fftop turns the translation-invariant tensors of pkg/green
// into matrix-free operators: a circulant embedding doubles each grid
// axis, the embedding's 3-D DFT is precomputed once, and every
// matrix-vector action afterwards costs one scatter, one forward/
// inverse FFT pair, a pointwise multiply, and one gather (spec.md
// §4.2).
package fftop

import "github.com/edp1096/peec-core/pkg/green"

// Kind selects the circulant mirror-sign convention for a tensor's
// components. Diag tensors (G, k=1: the L_op/P_op kernels) are even
// under every axis reflection. Cross tensors (K, k=3: the K_op
// coupling kernel) pick up a sign flip for each mirrored axis, since
// a face integral is odd under reflection of its own normal.
type Kind int

const (
	KindDiag Kind = iota
	KindCross
)

// Operator is a precomputed circulant FFT operator over a doubled
// grid of shape (2nx, 2ny, 2nz) with K independent components.
type Operator struct {
	Nx, Ny, Nz int
	K          int
	Kind       Kind
	freq       []cube // one frequency-domain circulant per component
}

// Build embeds t's half-tensor into a circulant of twice its extent
// per axis, applying the mirror sign convention implied by t.K (1 =>
// KindDiag, 3 => KindCross), and precomputes its 3-D DFT.
func Build(t *green.Tensor) *Operator {
	kind := KindDiag
	if t.K == 3 {
		kind = KindCross
	}

	op := &Operator{Nx: t.Nx, Ny: t.Ny, Nz: t.Nz, K: t.K, Kind: kind}
	op.freq = make([]cube, t.K)
	for k := 0; k < t.K; k++ {
		c := embed(t, k, kind)
		fft3(c, false)
		op.freq[k] = c
	}
	return op
}

// fold maps a doubled-grid index j in [0,2n) to the half-tensor index
// m = j (j<n) or 2n-j (j>n), reporting whether the axis was mirrored
// (j>n) and whether j lands on the n-th, zero-padded slot (j==n).
func fold(j, n int) (m int, mirrored, padded bool) {
	switch {
	case j == n:
		return 0, false, true
	case j < n:
		return j, false, false
	default:
		return 2*n - j, true, false
	}
}

// embed builds the doubled-grid circulant for component k of t under
// the given mirror-sign convention.
func embed(t *green.Tensor, k int, kind Kind) cube {
	c := newCube(2*t.Nx, 2*t.Ny, 2*t.Nz)
	for jx := 0; jx < c.nx; jx++ {
		mx, mirX, padX := fold(jx, t.Nx)
		for jy := 0; jy < c.ny; jy++ {
			my, mirY, padY := fold(jy, t.Ny)
			for jz := 0; jz < c.nz; jz++ {
				mz, mirZ, padZ := fold(jz, t.Nz)
				if padX || padY || padZ {
					continue
				}
				v := t.At(mx, my, mz, k)
				if kind == KindCross {
					if mirX {
						v = -v
					}
					if mirY {
						v = -v
					}
					if mirZ {
						v = -v
					}
				}
				c.set(jx, jy, jz, complex(v, 0))
			}
		}
	}
	return c
}

// Coord is a grid-offset coordinate used to scatter into, or gather
// out of, a circulant operator's doubled embedding.
type Coord struct{ Ix, Iy, Iz int }

// Apply performs the matrix-free action y = T*x, where x lives on the
// points inCoord (one complex128 per point, drawn from component
// inComp[i]) and y is evaluated at the points outCoord (gathering
// component outComp[i], or summed across all components when
// outComp[i] is negative — used when a voxel receives coupling
// contributions from more than one face orientation).
func (op *Operator) Apply(x []complex128, inCoord []Coord, inComp []int, outCoord []Coord, outComp []int) []complex128 {
	y := make([]complex128, len(outCoord))
	for k := 0; k < op.K; k++ {
		scratch := newCube(2*op.Nx, 2*op.Ny, 2*op.Nz)
		for i, c := range inCoord {
			if inComp[i] != k {
				continue
			}
			scratch.set(c.Ix, c.Iy, c.Iz, x[i])
		}

		fft3(scratch, false)
		for i := range scratch.data {
			scratch.data[i] *= op.freq[k].data[i]
		}
		fft3(scratch, true)

		for i, c := range outCoord {
			if outComp[i] != k && outComp[i] >= 0 {
				continue
			}
			y[i] += scratch.at(c.Ix, c.Iy, c.Iz)
		}
	}
	return y
}
