// Package sweep implements the dependency-DAG sweep driver of
// spec.md §4.11: sweeps form a forest keyed by an optional `init`
// pointer to another sweep whose solution seeds a warm start, and
// independent branches run concurrently under a bounded worker pool.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrCycle is returned when the sweep forest contains a cycle.
var ErrCycle = errors.New("sweep: init dependency cycle detected")

// ErrUnknownInit is returned when a sweep's init names a sweep that
// does not appear in the input set.
var ErrUnknownInit = errors.New("sweep: init references an unknown sweep")

// Spec describes one sweep: its unique name, the name of the sweep
// whose solution warm-starts it (empty for a forest root), and its
// own frequency/material/source parameters (spec.md §6 sweep_solver
// entry). Param is left as an opaque value: pkg/sweep only orders and
// dispatches work, it has no opinion on what a sweep parameter is.
type Spec struct {
	Name  string
	Init  string
	Param any
}

// Result is one sweep's outcome. SolutionOK is set by the RunFunc
// (cmd/peecsolve sets it to SolverOK && ConditionOK; no separate
// residuum check enters it); a sweep whose SolutionOK is false is not
// used as another sweep's warm start.
type Result struct {
	Name       string
	SolutionOK bool
	Value      any // caller-defined: the extracted §4.10 output bundle
	Err        error
}

// RunFunc executes one sweep given its spec and the (possibly nil)
// warm-start result of its init sweep. It must not mutate warmStart.
type RunFunc func(ctx context.Context, s Spec, warmStart *Result) (Result, error)

// node is one element of the resolved forest.
type node struct {
	spec     Spec
	children []*node
}

// buildForest validates the no-cycles / resolved-init invariants of
// spec.md §4.11 and returns the virtual-root children.
func buildForest(specs []Spec) ([]*node, error) {
	byName := make(map[string]*node, len(specs))
	for _, s := range specs {
		if _, dup := byName[s.Name]; dup {
			return nil, fmt.Errorf("sweep: duplicate sweep name %q", s.Name)
		}
		byName[s.Name] = &node{spec: s}
	}

	var roots []*node
	for _, s := range specs {
		n := byName[s.Name]
		if s.Init == "" {
			roots = append(roots, n)
			continue
		}
		parent, ok := byName[s.Init]
		if !ok {
			return nil, fmt.Errorf("%w: %q -> %q", ErrUnknownInit, s.Name, s.Init)
		}
		parent.children = append(parent.children, n)
	}

	if err := checkAcyclic(byName); err != nil {
		return nil, err
	}
	return roots, nil
}

// checkAcyclic walks each sweep's init chain looking for a repeat.
func checkAcyclic(byName map[string]*node) error {
	for name, n := range byName {
		seen := map[string]bool{name: true}
		cur := n.spec.Init
		for cur != "" {
			if seen[cur] {
				return fmt.Errorf("%w: at %q", ErrCycle, name)
			}
			seen[cur] = true
			next, ok := byName[cur]
			if !ok {
				break // reported by buildForest's resolution pass
			}
			cur = next.spec.Init
		}
	}
	return nil
}

// Run resolves the sweep forest and executes it: each root runs
// immediately, each child runs once its parent has produced a result,
// and independent branches execute concurrently bounded by njobs
// (spec.md §5's n_jobs). It returns every sweep's Result keyed by
// name; a sweep whose run failed still has an entry with Err set, and
// its children are skipped (not run, no entry) since a failing
// solution must not seed a warm start (spec.md §7).
func Run(ctx context.Context, specs []Spec, run RunFunc, njobs int) (map[string]Result, error) {
	if njobs <= 0 {
		njobs = 1
	}

	roots, err := buildForest(specs)
	if err != nil {
		return nil, err
	}

	results := make(map[string]Result, len(specs))
	var mu sync.Mutex

	// The errgroup tracks every sweep goroutine; sem caps how many run
	// at once. A parent dispatches its children from inside its own
	// goroutine, so the cap is applied around run only.
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, njobs)

	var dispatch func(n *node, warmStart *Result)
	dispatch = func(n *node, warmStart *Result) {
		g.Go(func() error {
			sem <- struct{}{}
			res, err := run(gctx, n.spec, warmStart)
			<-sem
			if err != nil {
				res = Result{Name: n.spec.Name, SolutionOK: false, Err: err}
			}
			mu.Lock()
			results[res.Name] = res
			mu.Unlock()

			if !res.SolutionOK {
				return nil
			}
			for _, c := range n.children {
				dispatch(c, &res)
			}
			return nil
		})
	}

	for _, r := range roots {
		dispatch(r, nil)
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
