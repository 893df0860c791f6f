package fftop

import "gonum.org/v1/gonum/dsp/fourier"

// cube is a flat, row-major (nx, ny, nz) array of complex128 values,
// index(ix,iy,iz) = (ix*ny+iy)*nz+iz.
type cube struct {
	nx, ny, nz int
	data       []complex128
}

func newCube(nx, ny, nz int) cube {
	return cube{nx: nx, ny: ny, nz: nz, data: make([]complex128, nx*ny*nz)}
}

func (c cube) at(ix, iy, iz int) complex128 { return c.data[(ix*c.ny+iy)*c.nz+iz] }
func (c cube) set(ix, iy, iz int, v complex128) { c.data[(ix*c.ny+iy)*c.nz+iz] = v }

// fft3 applies a 3-D complex DFT to c in place by running gonum's 1-D
// CmplxFFT successively along each axis — the standard separable
// decomposition of the 3-D transform (spec.md §4.2's "3-D FFT on
// first three axes"). inverse selects the normalized inverse
// transform.
func fft3(c cube, inverse bool) {
	fftAlongX(c, inverse)
	fftAlongY(c, inverse)
	fftAlongZ(c, inverse)
}

func fftAlongX(c cube, inverse bool) {
	if c.nx <= 1 {
		return
	}
	plan := fourier.NewCmplxFFT(c.nx)
	line := make([]complex128, c.nx)
	for iy := 0; iy < c.ny; iy++ {
		for iz := 0; iz < c.nz; iz++ {
			for ix := 0; ix < c.nx; ix++ {
				line[ix] = c.at(ix, iy, iz)
			}
			out := transform(plan, line, inverse)
			for ix := 0; ix < c.nx; ix++ {
				c.set(ix, iy, iz, out[ix])
			}
		}
	}
}

func fftAlongY(c cube, inverse bool) {
	if c.ny <= 1 {
		return
	}
	plan := fourier.NewCmplxFFT(c.ny)
	line := make([]complex128, c.ny)
	for ix := 0; ix < c.nx; ix++ {
		for iz := 0; iz < c.nz; iz++ {
			for iy := 0; iy < c.ny; iy++ {
				line[iy] = c.at(ix, iy, iz)
			}
			out := transform(plan, line, inverse)
			for iy := 0; iy < c.ny; iy++ {
				c.set(ix, iy, iz, out[iy])
			}
		}
	}
}

func fftAlongZ(c cube, inverse bool) {
	if c.nz <= 1 {
		return
	}
	plan := fourier.NewCmplxFFT(c.nz)
	line := make([]complex128, c.nz)
	for ix := 0; ix < c.nx; ix++ {
		for iy := 0; iy < c.ny; iy++ {
			for iz := 0; iz < c.nz; iz++ {
				line[iz] = c.at(ix, iy, iz)
			}
			out := transform(plan, line, inverse)
			for iz := 0; iz < c.nz; iz++ {
				c.set(ix, iy, iz, out[iz])
			}
		}
	}
}

func transform(plan *fourier.CmplxFFT, line []complex128, inverse bool) []complex128 {
	dst := make([]complex128, len(line))
	if inverse {
		// gonum's Sequence is unnormalized; scale by 1/n per axis.
		seq := plan.Sequence(dst, line)
		scale := complex(1/float64(len(line)), 0)
		for i := range seq {
			seq[i] *= scale
		}
		return seq
	}
	return plan.Coefficients(dst, line)
}
