package indexing

import (
	"testing"

	"github.com/edp1096/peec-core/pkg/incidence"
	"github.com/edp1096/peec-core/pkg/model"
)

func TestBuildOrdersCurrentBeforeVoltage(t *testing.T) {
	g := model.Grid{Nx: 2, Ny: 1, Nz: 1, Dx: 1e-3, Dy: 1e-3, Dz: 1e-3}
	net, err := incidence.Build(g, []int{0, 1})
	if err != nil {
		t.Fatal(err)
	}

	srcs := []model.SourceRecord{
		{Tag: "vsrc", Kind: model.VoltageSource, Idx: []int{1}, Value: 1, Internal: 0},
		{Tag: "isrc", Kind: model.CurrentSource, Idx: []int{0}, Value: 1, Internal: 1e9},
	}

	sm, err := Build(net, srcs)
	if err != nil {
		t.Fatal(err)
	}
	if sm.NSrcC != 1 || sm.NSrcV != 1 {
		t.Fatalf("NSrcC=%d NSrcV=%d, want 1,1", sm.NSrcC, sm.NSrcV)
	}
	if sm.ASrcSrc[0] != 1 {
		t.Errorf("current source diagonal = %v, want 1", sm.ASrcSrc[0])
	}
	if sm.ASrcSrc[1] != 0 {
		t.Errorf("voltage source diagonal (Z=0) = %v, want 0", sm.ASrcSrc[1])
	}
}

func TestBuildRejectsSourceOutsideElectricDomain(t *testing.T) {
	g := model.Grid{Nx: 2, Ny: 1, Nz: 1, Dx: 1e-3, Dy: 1e-3, Dz: 1e-3}
	net, err := incidence.Build(g, []int{0})
	if err != nil {
		t.Fatal(err)
	}
	srcs := []model.SourceRecord{{Tag: "bad", Kind: model.CurrentSource, Idx: []int{1}, Value: 1}}
	if _, err := Build(net, srcs); err == nil {
		t.Fatal("expected error for source voxel outside electric domain")
	}
}

func TestApplyAVcSrcPlacesNegativeUnitEntry(t *testing.T) {
	g := model.Grid{Nx: 2, Ny: 1, Nz: 1, Dx: 1e-3, Dy: 1e-3, Dz: 1e-3}
	net, err := incidence.Build(g, []int{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	srcs := []model.SourceRecord{{Tag: "isrc", Kind: model.CurrentSource, Idx: []int{0}, Value: 1}}
	sm, err := Build(net, srcs)
	if err != nil {
		t.Fatal(err)
	}
	out := sm.ApplyAVcSrc([]complex128{2})
	if out[0] != -2 {
		t.Errorf("A_vc_src*[2] at voxel 0 = %v, want -2", out[0])
	}
	if out[1] != 0 {
		t.Errorf("A_vc_src*[2] at voxel 1 = %v, want 0", out[1])
	}
}
