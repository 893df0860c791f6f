package assembly

import (
	"github.com/edp1096/peec-core/internal/constants"
	"github.com/edp1096/peec-core/pkg/fftop"
	"github.com/edp1096/peec-core/pkg/green"
	"github.com/edp1096/peec-core/pkg/incidence"
	"github.com/edp1096/peec-core/pkg/model"
)

// axes lists the three cartesian directions in a fixed order, reused
// by every assembly routine that loops per axis.
var axes = [3]model.Axis{model.AxisX, model.AxisY, model.AxisZ}

// LOperator is the matrix-free mutual-inductance operator L_op of
// spec.md §4.4: faces couple only to other faces of the same axis
// (the PEEC self/mutual-inductance convention), so a single circulant
// built from the Green tensor G is reused across the three axes with
// an axis-dependent area scaling applied after the convolution.
type LOperator struct {
	g    model.Grid
	op   *fftop.Operator
	self map[model.Axis]complex128
}

// BuildL precomputes the inductance operator and self-inductance
// constants from the Green tensor G (spec.md §4.4: L_self,a =
// mu0*G(0,0,0)/(d_b^2*d_c^2), and L_op applies mu0*G/(d_b^2*d_c^2)
// axis by axis via FFT).
func BuildL(g model.Grid, gTensor *green.Tensor) *LOperator {
	l := &LOperator{g: g, op: fftop.Build(gTensor), self: make(map[model.Axis]complex128, 3)}
	selfTerm := gTensor.At(0, 0, 0, 0)
	for _, a := range axes {
		area := g.FaceArea(a)
		l.self[a] = complex(constants.Mu0*selfTerm/(area*area), 0)
	}
	return l
}

// Self returns L_self for axis a.
func (l *LOperator) Self(a model.Axis) complex128 { return l.self[a] }

// Apply computes L_op * I for the full electric face-current vector I
// (len(I) == net.NumFaces()), restricting each axis's convolution to
// the faces of that axis.
func (l *LOperator) Apply(net *incidence.Net, I []complex128) []complex128 {
	out := make([]complex128, len(I))
	for _, a := range axes {
		faces, coords := axisFaceCoords(net, a)
		if len(faces) == 0 {
			continue
		}
		x := make([]complex128, len(faces))
		comp := make([]int, len(faces))
		for i, f := range faces {
			x[i] = I[f]
		}
		y := l.op.Apply(x, coords, comp, coords, comp)

		area := net.Grid.FaceArea(a)
		scale := complex(constants.Mu0/(area*area), 0)
		for i, f := range faces {
			out[f] += scale * y[i]
		}
	}
	return out
}

// axisFaceCoords collects, for axis a, the local face indices of net
// restricted to that axis and the corresponding owner-voxel grid
// coordinates used as the FFT operator's scatter/gather points (all
// faces of a common axis form their own translation-invariant
// lattice, indexed by the owning voxel's position).
func axisFaceCoords(net *incidence.Net, a model.Axis) (faces []int, coords []fftop.Coord) {
	for f, faceAxis := range net.Axis {
		if faceAxis != a {
			continue
		}
		owner, _ := net.Indicator(f)
		ix, iy, iz := net.Grid.Coords(net.VoxelIdx[owner])
		faces = append(faces, f)
		coords = append(coords, fftop.Coord{Ix: ix, Iy: iy, Iz: iz})
	}
	return faces, coords
}
