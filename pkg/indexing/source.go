// Package indexing builds the source-coupling matrices of spec.md
// §4.5 (A_vc_src, A_src_vc, A_src_src) and the ordering convention
// shared with pkg/model's solution-vector layout: current sources
// precede voltage sources.
package indexing

import (
	"fmt"

	"github.com/edp1096/peec-core/pkg/incidence"
	"github.com/edp1096/peec-core/pkg/model"
)

// Entry is one non-zero of a small sparse coupling matrix in
// coordinate form.
type Entry struct {
	Row, Col int
	Val      complex128
}

// OrderSources partitions srcs into current sources followed by
// voltage sources (the order the solution-vector layout of
// pkg/model.Layout assumes), returning the reordered slice and the
// split point.
func OrderSources(srcs []model.SourceRecord) (ordered []model.SourceRecord, nSrcC int) {
	for _, s := range srcs {
		if s.Kind == model.CurrentSource {
			ordered = append(ordered, s)
			nSrcC++
		}
	}
	for _, s := range srcs {
		if s.Kind == model.VoltageSource {
			ordered = append(ordered, s)
		}
	}
	return ordered, nSrcC
}

// SourceMatrices holds the n_vc x n_src, n_src x n_vc and diagonal
// n_src x n_src blocks of spec.md §4.5.
type SourceMatrices struct {
	NVc, NSrcC, NSrcV int

	AVcSrc  []Entry      // n_vc x n_src: -1 at each source voxel
	ASrcVc  []Entry      // n_src x n_vc: +1 (voltage) or Y (current)
	ASrcSrc []complex128 // diagonal, length n_src: 1 (current) or Z (voltage)

	RHS []complex128 // I_src_c followed by V_src_v, length n_src
}

// Build constructs the source-coupling matrices against the electric
// net (whose LocalVoxel supplies the n_vc row index). Every source
// voxel must belong to the electric domain, enforcing the §3 subset
// invariant.
func Build(net *incidence.Net, srcs []model.SourceRecord) (*SourceMatrices, error) {
	ordered, nSrcC := OrderSources(srcs)
	nSrcV := len(ordered) - nSrcC
	nSrc := len(ordered)

	sm := &SourceMatrices{
		NVc: net.NumVoxels(), NSrcC: nSrcC, NSrcV: nSrcV,
		ASrcSrc: make([]complex128, nSrc),
		RHS:     make([]complex128, nSrc),
	}

	for si, src := range ordered {
		for _, voxel := range src.Idx {
			local := net.LocalVoxel(voxel)
			if local < 0 {
				return nil, fmt.Errorf("indexing: source %q references voxel %d outside the electric domain", src.Tag, voxel)
			}
			sm.AVcSrc = append(sm.AVcSrc, Entry{Row: local, Col: si, Val: -1})

			switch src.Kind {
			case model.VoltageSource:
				sm.ASrcVc = append(sm.ASrcVc, Entry{Row: si, Col: local, Val: 1})
			case model.CurrentSource:
				sm.ASrcVc = append(sm.ASrcVc, Entry{Row: si, Col: local, Val: src.Internal})
			default:
				return nil, fmt.Errorf("indexing: source %q has unknown kind %v", src.Tag, src.Kind)
			}
		}

		switch src.Kind {
		case model.CurrentSource:
			sm.ASrcSrc[si] = 1
		case model.VoltageSource:
			sm.ASrcSrc[si] = src.Internal
		}
		sm.RHS[si] = src.Value
	}

	return sm, nil
}

// ApplyAVcSrc computes A_vc_src * iSrc, a vector of length NVc.
func (sm *SourceMatrices) ApplyAVcSrc(iSrc []complex128) []complex128 {
	out := make([]complex128, sm.NVc)
	for _, e := range sm.AVcSrc {
		out[e.Row] += e.Val * iSrc[e.Col]
	}
	return out
}

// ApplyASrcVc computes A_src_vc * vVc, a vector of length NSrcC+NSrcV.
func (sm *SourceMatrices) ApplyASrcVc(vVc []complex128) []complex128 {
	out := make([]complex128, sm.NSrcC+sm.NSrcV)
	for _, e := range sm.ASrcVc {
		out[e.Row] += e.Val * vVc[e.Col]
	}
	return out
}

// ApplyASrcSrc computes A_src_src * iSrc (diagonal).
func (sm *SourceMatrices) ApplyASrcSrc(iSrc []complex128) []complex128 {
	out := make([]complex128, len(sm.ASrcSrc))
	for i, v := range sm.ASrcSrc {
		out[i] = v * iSrc[i]
	}
	return out
}
