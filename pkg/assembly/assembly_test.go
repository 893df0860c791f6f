package assembly

import (
	"math"
	"testing"

	"github.com/edp1096/peec-core/pkg/green"
	"github.com/edp1096/peec-core/pkg/incidence"
	"github.com/edp1096/peec-core/pkg/model"
)

func twoVoxelGrid() model.Grid {
	return model.Grid{Nx: 2, Ny: 1, Nz: 1, Dx: 1e-3, Dy: 1e-3, Dz: 1e-3}
}

// TestBuildRMatchesScalarFormula reproduces testable property #8 of
// spec.md §8: a single-axis resistive path yields R = rho*dx/(dy*dz).
func TestBuildRMatchesScalarFormula(t *testing.T) {
	g := twoVoxelGrid()
	net, err := incidence.Build(g, []int{0, 1})
	if err != nil {
		t.Fatal(err)
	}

	rho := complex(1e-8, 0)
	recs := []model.MaterialRecord{{
		Tag: "cond", Kind: model.MaterialElectric, Orientation: model.OrientationIso,
		Idx: []int{0, 1}, RhoIso: rho,
	}}

	r, err := BuildR(net, recs)
	if err != nil {
		t.Fatal(err)
	}
	if len(r) != 1 {
		t.Fatalf("expected 1 internal face, got %d", len(r))
	}

	want := g.Dx / g.FaceArea(model.AxisX) * real(rho)
	if math.Abs(real(r[0])-want) > 1e-20 {
		t.Errorf("R = %v, want %v", r[0], want)
	}
}

func TestBuildLSelfPositive(t *testing.T) {
	g := twoVoxelGrid()
	gTensor := green.BuildG(g, green.Options{})
	l := BuildL(g, gTensor)
	for _, a := range axes {
		s := l.Self(a)
		if real(s) <= 0 || math.IsNaN(real(s)) {
			t.Errorf("L_self[%v] = %v, want finite positive", a, s)
		}
	}
}

func TestBuildPSelfFinite(t *testing.T) {
	g := twoVoxelGrid()
	gTensor := green.BuildG(g, green.Options{})
	p := BuildP(g, gTensor)
	s := p.Self()
	if math.IsNaN(real(s)) || math.IsInf(real(s), 0) {
		t.Errorf("P_self = %v, want finite", s)
	}
}

func TestLOperatorApplyKeepsLengthAndFinite(t *testing.T) {
	g := model.Grid{Nx: 2, Ny: 2, Nz: 1, Dx: 1e-3, Dy: 1e-3, Dz: 1e-3}
	net, err := incidence.Build(g, []int{0, 1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	gTensor := green.BuildG(g, green.Options{})
	l := BuildL(g, gTensor)

	I := make([]complex128, net.NumFaces())
	for i := range I {
		I[i] = complex(float64(i)+1, 0)
	}
	out := l.Apply(net, I)
	if len(out) != len(I) {
		t.Fatalf("output length %d != input length %d", len(out), len(I))
	}
	for i, v := range out {
		if math.IsNaN(real(v)) || math.IsNaN(imag(v)) {
			t.Errorf("L_op output %d is NaN", i)
		}
	}
}

func TestKOperatorZeroInputGivesZeroOutput(t *testing.T) {
	g := twoVoxelGrid()
	netE, err := incidence.Build(g, []int{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	netM, err := incidence.Build(g, []int{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	kTensor := green.BuildK(g, green.Options{})
	k := BuildK(kTensor)

	srcFace := make([]complex128, netM.NumFaces())
	out := k.Apply(netM, srcFace, netE)
	for i, v := range out {
		if v != 0 {
			t.Errorf("zero input produced nonzero output at %d: %v", i, v)
		}
	}
}
