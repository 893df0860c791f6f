package assembly

import (
	"github.com/edp1096/peec-core/internal/constants"
	"github.com/edp1096/peec-core/pkg/fftop"
	"github.com/edp1096/peec-core/pkg/green"
	"github.com/edp1096/peec-core/pkg/incidence"
	"github.com/edp1096/peec-core/pkg/model"
)

// POperator is the matrix-free magnetic potential operator P_op of
// spec.md §4.4, a single voxel-to-voxel circulant built from the same
// Green tensor G used by L_op, scaled by 1/(mu0*V_vox^2).
type POperator struct {
	op   *fftop.Operator
	self complex128
}

// BuildP precomputes the potential operator from the Green tensor
// (spec.md §4.4: P_self = G(0,0,0)/(mu0*(dx*dy*dz)^2)).
func BuildP(g model.Grid, gTensor *green.Tensor) *POperator {
	vol := g.VoxelVolume()
	self := complex(gTensor.At(0, 0, 0, 0)/(constants.Mu0*vol*vol), 0)
	return &POperator{op: fftop.Build(gTensor), self: self}
}

// Self returns P_self.
func (p *POperator) Self() complex128 { return p.self }

// Apply computes P_op * Vv for the magnetic-net voxel vector Vv
// (len(Vv) == net.NumVoxels()).
func (p *POperator) Apply(net *incidence.Net, Vv []complex128) []complex128 {
	coords := make([]fftop.Coord, net.NumVoxels())
	comp := make([]int, net.NumVoxels())
	for v, global := range net.VoxelIdx {
		ix, iy, iz := net.Grid.Coords(global)
		coords[v] = fftop.Coord{Ix: ix, Iy: iy, Iz: iz}
	}

	y := p.op.Apply(Vv, coords, comp, coords, comp)
	vol := net.Grid.VoxelVolume()
	scale := complex(1/(constants.Mu0*vol*vol), 0)
	out := make([]complex128, len(y))
	for i := range y {
		out[i] = scale * y[i]
	}
	return out
}
