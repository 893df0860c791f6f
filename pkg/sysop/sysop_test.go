package sysop

import (
	"math"
	"testing"

	"github.com/edp1096/peec-core/pkg/assembly"
	"github.com/edp1096/peec-core/pkg/green"
	"github.com/edp1096/peec-core/pkg/incidence"
	"github.com/edp1096/peec-core/pkg/indexing"
	"github.com/edp1096/peec-core/pkg/model"
)

func buildElectricFixture(t *testing.T) (*Electric, *incidence.Net) {
	t.Helper()
	g := model.Grid{Nx: 2, Ny: 1, Nz: 1, Dx: 1e-3, Dy: 1e-3, Dz: 1e-3}
	net, err := incidence.Build(g, []int{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	recs := []model.MaterialRecord{{
		Tag: "cond", Kind: model.MaterialElectric, Orientation: model.OrientationIso,
		Idx: []int{0, 1}, RhoIso: complex(1e-8, 0),
	}}
	r, err := assembly.BuildR(net, recs)
	if err != nil {
		t.Fatal(err)
	}
	gTensor := green.BuildG(g, green.Options{})
	lOp := assembly.BuildL(g, gTensor)
	srcs := []model.SourceRecord{{Tag: "isrc", Kind: model.CurrentSource, Idx: []int{0}, Value: 1}}
	sm, err := indexing.Build(net, srcs)
	if err != nil {
		t.Fatal(err)
	}
	return &Electric{Net: net, R: r, LOp: lOp, Src: sm, Omega: 0}, net
}

func TestElectricApplyZeroStateGivesSourceOnly(t *testing.T) {
	e, net := buildElectricFixture(t)
	Ifc := make([]complex128, net.NumFaces())
	Vvc := make([]complex128, net.NumVoxels())
	Isrc := []complex128{1}

	rhsFc, rhsVc, rhsSrc := e.Apply(Ifc, Vvc, Isrc)
	for _, v := range rhsFc {
		if v != 0 {
			t.Errorf("rhs_fc should be zero with zero face current and voltage, got %v", v)
		}
	}
	if rhsVc[0] != -1 {
		t.Errorf("rhs_vc[0] = %v, want -1 (A_vc_src stamp)", rhsVc[0])
	}
	if math.Abs(real(rhsSrc[0])-1) > 1e-15 {
		t.Errorf("rhs_src = %v, want 1 (V_vc=0, A_src_src=1 for a current source, I_src=1)", rhsSrc[0])
	}
}

func TestMagneticApplyIdentityPreservesVoltage(t *testing.T) {
	g := model.Grid{Nx: 2, Ny: 1, Nz: 1, Dx: 1e-3, Dy: 1e-3, Dz: 1e-3}
	net, err := incidence.Build(g, []int{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	recs := []model.MaterialRecord{{
		Tag: "core", Kind: model.MaterialMagnetic, Orientation: model.OrientationIso,
		Idx: []int{0, 1}, ChiIso: complex(1e3, 0),
	}}
	r, err := assembly.BuildRMagnetic(net, recs)
	if err != nil {
		t.Fatal(err)
	}
	gTensor := green.BuildG(g, green.Options{})
	pOp := assembly.BuildP(g, gTensor)
	mag := &Magnetic{Net: net, R: r, POp: pOp}

	Ifm := make([]complex128, net.NumFaces())
	Vvm := []complex128{2, -1}
	_, rhsVm := mag.Apply(Ifm, Vvm)
	if rhsVm[0] != 2 || rhsVm[1] != -1 {
		t.Errorf("rhs_vm = %v, want unchanged V_vm with zero face current", rhsVm)
	}
}
