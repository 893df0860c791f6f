package precond

import (
	"math"
	"testing"

	"github.com/edp1096/peec-core/pkg/assembly"
	"github.com/edp1096/peec-core/pkg/green"
	"github.com/edp1096/peec-core/pkg/incidence"
	"github.com/edp1096/peec-core/pkg/indexing"
	"github.com/edp1096/peec-core/pkg/model"
)

// TestElectricSolveMatchesScalarOhmsLaw reproduces testable property
// #8 of spec.md §8 through the full preconditioner solve path: a
// single resistive face driven by one current source must yield
// V = I*R.
func TestElectricSolveMatchesScalarOhmsLaw(t *testing.T) {
	g := model.Grid{Nx: 2, Ny: 1, Nz: 1, Dx: 1e-3, Dy: 1e-3, Dz: 1e-3}
	net, err := incidence.Build(g, []int{0, 1})
	if err != nil {
		t.Fatal(err)
	}

	rho := complex(1e-8, 0)
	recs := []model.MaterialRecord{{
		Tag: "cond", Kind: model.MaterialElectric, Orientation: model.OrientationIso,
		Idx: []int{0, 1}, RhoIso: rho,
	}}
	r, err := assembly.BuildR(net, recs)
	if err != nil {
		t.Fatal(err)
	}
	gTensor := green.BuildG(g, green.Options{})
	lOp := assembly.BuildL(g, gTensor)

	srcs := []model.SourceRecord{{Tag: "isrc", Kind: model.CurrentSource, Idx: []int{0}, Value: 1, Internal: 0}}
	sm, err := indexing.Build(net, srcs)
	if err != nil {
		t.Fatal(err)
	}

	pc, err := BuildElectric(net, r, lOp, 0, sm)
	if err != nil {
		t.Fatal(err)
	}

	rhsA := make([]complex128, net.NumFaces())
	rhsB := make([]complex128, net.NumVoxels()+sm.NSrcC+sm.NSrcV)
	copy(rhsB[net.NumVoxels():], sm.RHS)

	_, solB, err := pc.Solve(rhsA, rhsB)
	if err != nil {
		t.Fatal(err)
	}

	wantR := real(r[0])
	gotV := solB[1] - solB[0]
	if math.Abs(real(gotV)-wantR) > 1e-15 {
		t.Errorf("V = %v, want %v (= I*R with I=1)", gotV, wantR)
	}

	cond, err := pc.ConditionEstimate()
	if err != nil {
		t.Fatal(err)
	}
	if cond <= 0 || math.IsNaN(cond) || math.IsInf(cond, 0) {
		t.Errorf("ConditionEstimate = %v, want a finite positive number", cond)
	}
}

func TestMagneticSolveFiniteForTrivialGrid(t *testing.T) {
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
	p := assembly.BuildP(g, gTensor)

	pc, err := BuildMagnetic(net, r, p.Self())
	if err != nil {
		t.Fatal(err)
	}

	rhsA := make([]complex128, net.NumFaces())
	rhsB := []complex128{1, 0}
	solA, solB, err := pc.Solve(rhsA, rhsB)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range append(append([]complex128{}, solA...), solB...) {
		if math.IsNaN(real(v)) || math.IsNaN(imag(v)) {
			t.Errorf("magnetic preconditioner solve produced NaN: %v", v)
		}
	}
}
