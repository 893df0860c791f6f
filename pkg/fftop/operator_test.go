package fftop

import (
	"math"
	"testing"

	"github.com/edp1096/peec-core/pkg/green"
)

// synthDiag builds a tiny, arbitrary diag (k=1) tensor so the
// circulant machinery can be checked against a brute-force reference
// without depending on pkg/green's physics.
func synthDiag(n int) *green.Tensor {
	t := green.NewTensor(n, n, n, 1)
	v := 1.0
	for ix := 0; ix < n; ix++ {
		for iy := 0; iy < n; iy++ {
			for iz := 0; iz < n; iz++ {
				t.Set(ix, iy, iz, 0, v)
				v += 1.3
			}
		}
	}
	return t
}

func absOffset(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// referenceApply computes y(J) = sum_I T(|J-I|) x(I) directly, the
// Toeplitz-style reference the FFT operator must match (testable
// property #6 of spec.md §8: round-trip against direct evaluation).
func referenceApply(t *green.Tensor, n int, voxels []Coord, x []complex128) []complex128 {
	y := make([]complex128, len(voxels))
	for j, J := range voxels {
		var sum complex128
		for i, I := range voxels {
			m := t.At(absOffset(J.Ix, I.Ix), absOffset(J.Iy, I.Iy), absOffset(J.Iz, I.Iz), 0)
			sum += complex(m, 0) * x[i]
		}
		y[j] = sum
	}
	return y
}

func TestApplyMatchesDirectConvolution(t *testing.T) {
	const n = 2
	tensor := synthDiag(n)
	op := Build(tensor)

	var voxels []Coord
	for ix := 0; ix < n; ix++ {
		for iy := 0; iy < n; iy++ {
			for iz := 0; iz < n; iz++ {
				voxels = append(voxels, Coord{ix, iy, iz})
			}
		}
	}

	x := make([]complex128, len(voxels))
	for i := range x {
		x[i] = complex(float64(i)+1, float64(i)*0.5)
	}
	comp := make([]int, len(voxels))

	got := op.Apply(x, voxels, comp, voxels, comp)
	want := referenceApply(tensor, n, voxels, x)

	for i := range want {
		d := got[i] - want[i]
		if math.Hypot(real(d), imag(d)) > 1e-6*math.Hypot(real(want[i]), imag(want[i]))+1e-9 {
			t.Errorf("voxel %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEmbedDiagPreservesDirectEntries(t *testing.T) {
	const n = 3
	tensor := synthDiag(n)
	c := embed(tensor, 0, KindDiag)

	for ix := 0; ix < n; ix++ {
		for iy := 0; iy < n; iy++ {
			for iz := 0; iz < n; iz++ {
				want := tensor.At(ix, iy, iz, 0)
				got := real(c.at(ix, iy, iz))
				if math.Abs(got-want) > 1e-12 {
					t.Errorf("embed(%d,%d,%d) = %v, want %v", ix, iy, iz, got, want)
				}
			}
		}
	}
}

func TestEmbedCrossFlipsMirroredSign(t *testing.T) {
	const n = 3
	tensor := green.NewTensor(n, n, n, 3)
	tensor.Set(1, 0, 0, 0, 7.0)
	c := embed(tensor, 0, KindCross)

	direct := real(c.at(1, 0, 0))
	mirrored := real(c.at(2*n-1, 0, 0))
	if direct != 7.0 {
		t.Fatalf("direct entry = %v, want 7", direct)
	}
	if mirrored != -7.0 {
		t.Errorf("mirrored entry = %v, want -7 (cross kind flips sign under x-mirror)", mirrored)
	}
}
