// Package incidence builds the reduced voxel-face incidence matrix
// A_net described in spec.md §4.3 and provides its matrix-free
// application (forward, transpose, and unsigned variants used by the
// extraction and coupling-projection components).
package incidence

import (
	"fmt"
	"sort"

	"github.com/edp1096/peec-core/pkg/model"
)

// Net is the reduced, sparse incidence matrix A_net for one physical
// domain (electric or magnetic): rows are the domain's non-empty
// voxels (n_v), columns are its internal faces (n_f), with a +1 at the
// face's owning voxel and a -1 at its neighbor.
type Net struct {
	Grid model.Grid

	VoxelIdx []int // idx_v: global voxel index of local row v
	FaceIdx  []int // global face index (axis*nv+owner) of local column f
	Axis     []model.Axis

	owner []int // local voxel row of the +1 entry, one per face
	neigh []int // local voxel row of the -1 entry, one per face

	localVoxel map[int]int // global voxel index -> local row
}

// Build constructs the reduced incidence matrix for the given
// non-empty voxel set. voxelIdx need not be pre-sorted.
func Build(g model.Grid, voxelIdx []int) (*Net, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	sorted := append([]int(nil), voxelIdx...)
	sort.Ints(sorted)

	local := make(map[int]int, len(sorted))
	for i, v := range sorted {
		if i > 0 && sorted[i] == sorted[i-1] {
			return nil, fmt.Errorf("incidence: duplicate voxel index %d", v)
		}
		local[v] = i
	}

	n := &Net{
		Grid:       g,
		VoxelIdx:   sorted,
		localVoxel: local,
	}

	nv := g.NumVoxels()
	for _, a := range []model.Axis{model.AxisX, model.AxisY, model.AxisZ} {
		for _, gi := range sorted {
			gj, ok := g.Neighbor(gi, a)
			if !ok {
				continue
			}
			lj, ok := local[gj]
			if !ok {
				continue // neighbor voxel is empty: boundary face, discarded
			}
			li := local[gi]
			globalFace := int(a)*nv + gi

			n.FaceIdx = append(n.FaceIdx, globalFace)
			n.Axis = append(n.Axis, a)
			n.owner = append(n.owner, li)
			n.neigh = append(n.neigh, lj)
		}
	}

	return n, nil
}

// NumVoxels returns n_v, the number of rows.
func (n *Net) NumVoxels() int { return len(n.VoxelIdx) }

// NumFaces returns n_f, the number of columns (internal faces).
func (n *Net) NumFaces() int { return len(n.FaceIdx) }

// LocalVoxel maps a global voxel index to its local row, or -1 if the
// voxel is not part of this domain.
func (n *Net) LocalVoxel(global int) int {
	if li, ok := n.localVoxel[global]; ok {
		return li
	}
	return -1
}

// Apply computes voxel := A_net * vf (signed: +vf at the owner row,
// -vf at the neighbor row). len(vf) must equal NumFaces().
func (n *Net) Apply(vf []complex128) []complex128 {
	out := make([]complex128, n.NumVoxels())
	for f, v := range vf {
		out[n.owner[f]] += v
		out[n.neigh[f]] -= v
	}
	return out
}

// ApplyT computes face := A_net^T * vv (signed). len(vv) must equal
// NumVoxels().
func (n *Net) ApplyT(vv []complex128) []complex128 {
	out := make([]complex128, n.NumFaces())
	for f := range out {
		out[f] = vv[n.owner[f]] - vv[n.neigh[f]]
	}
	return out
}

// ApplyAbs computes voxel := |A_net| * vf, the unsigned incidence used
// by the extraction face->voxel density conversions (§4.10): both
// endpoints of a face receive +vf, never -vf.
func (n *Net) ApplyAbs(vf []complex128) []complex128 {
	out := make([]complex128, n.NumVoxels())
	for f, v := range vf {
		out[n.owner[f]] += v
		out[n.neigh[f]] += v
	}
	return out
}

// ApplyAbsT computes face := |A_net|^T * vv.
func (n *Net) ApplyAbsT(vv []complex128) []complex128 {
	out := make([]complex128, n.NumFaces())
	for f := range out {
		out[f] = vv[n.owner[f]] + vv[n.neigh[f]]
	}
	return out
}

// Indicator returns, for face f, the pair of local voxel rows it
// connects: (owner, neighbor).
func (n *Net) Indicator(f int) (owner, neighbor int) {
	return n.owner[f], n.neigh[f]
}
