package sweep

import (
	"context"
	"errors"
	"testing"
)

func TestRunOrdersChildAfterParent(t *testing.T) {
	specs := []Spec{
		{Name: "a", Param: 1.0},
		{Name: "b", Init: "a", Param: 2.0},
	}

	run := func(ctx context.Context, s Spec, warmStart *Result) (Result, error) {
		if s.Name == "b" {
			if warmStart == nil || warmStart.Name != "a" {
				t.Errorf("sweep b ran without a's result as warm start")
			}
		}
		return Result{Name: s.Name, SolutionOK: true, Value: s.Param}, nil
	}

	res, err := Run(context.Background(), specs, run, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !res["a"].SolutionOK || !res["b"].SolutionOK {
		t.Fatalf("expected both sweeps to succeed, got %+v", res)
	}
}

func TestRunSkipsChildrenOfFailingSweep(t *testing.T) {
	specs := []Spec{
		{Name: "a"},
		{Name: "b", Init: "a"},
	}
	childRan := false
	run := func(ctx context.Context, s Spec, warmStart *Result) (Result, error) {
		if s.Name == "a" {
			return Result{Name: "a", SolutionOK: false}, errors.New("convergence failure")
		}
		childRan = true
		return Result{Name: s.Name, SolutionOK: true}, nil
	}

	res, err := Run(context.Background(), specs, run, 1)
	if err != nil {
		t.Fatal(err)
	}
	if childRan {
		t.Error("child sweep should not run: it would warm-start from a failed parent")
	}
	if res["a"].SolutionOK {
		t.Error("sweep a should be reported as failed")
	}
}

func TestBuildForestRejectsCycle(t *testing.T) {
	specs := []Spec{
		{Name: "a", Init: "b"},
		{Name: "b", Init: "a"},
	}
	_, err := buildForest(specs)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
}

func TestBuildForestRejectsUnknownInit(t *testing.T) {
	specs := []Spec{{Name: "a", Init: "missing"}}
	_, err := buildForest(specs)
	if !errors.Is(err, ErrUnknownInit) {
		t.Fatalf("expected ErrUnknownInit, got %v", err)
	}
}
