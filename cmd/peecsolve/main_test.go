package main

import (
	"context"
	"math"
	"testing"

	"github.com/edp1096/peec-core/pkg/problem"
	"github.com/edp1096/peec-core/pkg/sweep"
)

// TestRunSweepMatchesS1Literal drives the full assemble->precondition->
// solve->extract pipeline end to end against spec.md §8 scenario S1: a
// two-voxel resistive cube (ρ=1e-8, d=1e-3 each axis) driven by a 1 A
// ideal current source into voxel 0, returning through a 0 V ideal
// voltage source on voxel 1, must dissipate P = I^2*R = 1e-5 W, with
// R = ρ*dx/(dy*dz) = 1e-5 ohm.
func TestRunSweepMatchesS1Literal(t *testing.T) {
	geom := problem.Geometry{
		N: [3]int{2, 1, 1},
		D: [3]float64{1e-3, 1e-3, 1e-3},
		DomainDef: map[string][]int{
			"cond":     {0, 1},
			"isrc_dom": {0},
			"vsrc_dom": {1},
		},
	}
	prob := problem.Problem{
		MaterialDef: []problem.MaterialDef{{
			Tag: "cond", Kind: "electric", VarType: "lumped", Orientation: "iso",
			Domain: "cond", RhoIso: problem.Complex(complex(1e-8, 0)),
		}},
		SourceDef: []problem.SourceDef{{
			Tag: "isrc", Kind: "current", Domain: "isrc_dom",
			Value: problem.Complex(complex(1, 0)), Internal: problem.Complex(complex(0, 0)),
		}, {
			Tag: "vsrc", Kind: "voltage", Domain: "vsrc_dom",
			Value: problem.Complex(complex(0, 0)), Internal: problem.Complex(complex(0, 0)),
		}},
		SweepSolver: map[string]problem.SweepEntry{
			"dc": {Param: problem.SweepParam{Freq: 0}},
		},
	}

	core, err := buildCore(geom, prob, defaultTolerance())
	if err != nil {
		t.Fatalf("buildCore: %v", err)
	}

	spec := sweep.Spec{Name: "dc", Param: prob.SweepSolver["dc"].Param}
	res, err := core.runSweep(context.Background(), spec, nil)
	if err != nil {
		t.Fatalf("runSweep: %v", err)
	}

	out, ok := res.Value.(problem.SweepOutput)
	if !ok {
		t.Fatalf("runSweep returned Value of type %T, want problem.SweepOutput", res.Value)
	}
	if !out.SolverOK {
		t.Fatalf("solver did not converge: %+v", out.SolverStatus)
	}
	if !out.ConditionOK {
		t.Fatalf("condition check failed: %+v", out.ConditionStatus)
	}

	const wantP = 1e-5
	gotP := out.MaterialLosses["cond"]
	if math.Abs(gotP-wantP) > 1e-9 {
		t.Errorf("MaterialLosses[cond] = %v, want %v (S1: P = I^2*R = 1^2*1e-5)", gotP, wantP)
	}
}
