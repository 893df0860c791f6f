package problem

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/edp1096/peec-core/pkg/model"
)

func TestComplexRoundTripsThroughJSON(t *testing.T) {
	c := Complex(complex(1.5, -2.5))
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[1.5,-2.5]" {
		t.Errorf("Marshal = %s, want [1.5,-2.5]", data)
	}
	var got Complex
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got != c {
		t.Errorf("round trip = %v, want %v", got, c)
	}
}

func TestBuildMaterialRecordsResolvesDomain(t *testing.T) {
	geom := Geometry{
		N: [3]int{2, 1, 1}, D: [3]float64{1, 1, 1},
		DomainDef: map[string][]int{"block": {0, 1}},
	}
	domains, err := geom.BuildDomains()
	if err != nil {
		t.Fatal(err)
	}
	defs := []MaterialDef{{
		Tag: "copper", Kind: "electric", VarType: "lumped", Domain: "block",
		RhoIso: Complex(complex(1.68e-8, 0)),
	}}
	recs, err := BuildMaterialRecords(defs, domains)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("unexpected records: %+v", recs)
	}
	want := []int{0, 1}
	if diff := cmp.Diff(want, recs[0].Idx, cmpopts.SortSlices(func(a, b int) bool { return a < b })); diff != "" {
		t.Errorf("Idx mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSourceRecordsRejectsDomainOutsideElectric(t *testing.T) {
	geom := Geometry{
		N: [3]int{2, 1, 1}, D: [3]float64{1, 1, 1},
		DomainDef: map[string][]int{"src": {1}, "block": {0}},
	}
	domains, err := geom.BuildDomains()
	if err != nil {
		t.Fatal(err)
	}
	electric := model.NewDomainSet()
	if err := electric.Add(domains["block"], model.MaterialElectric); err != nil {
		t.Fatal(err)
	}

	defs := []SourceDef{{Tag: "I1", Kind: "current", Domain: "src"}}
	if _, err := BuildSourceRecords(defs, domains, electric); err == nil {
		t.Fatal("expected an error: source domain is not a subset of the electric domain")
	}
}
