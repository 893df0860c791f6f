// Command peecsolve runs the PEEC core solver end to end: it loads a
// geometry file, a problem file, and an optional tolerance file
// (spec.md §6), assembles the operators once per geometry, runs every
// configured sweep, and prints the per-sweep extraction result as
// JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"sync"

	"github.com/edp1096/peec-core/pkg/assembly"
	"github.com/edp1096/peec-core/pkg/coupler"
	"github.com/edp1096/peec-core/pkg/extract"
	"github.com/edp1096/peec-core/pkg/green"
	"github.com/edp1096/peec-core/pkg/incidence"
	"github.com/edp1096/peec-core/pkg/indexing"
	"github.com/edp1096/peec-core/pkg/model"
	"github.com/edp1096/peec-core/pkg/precond"
	"github.com/edp1096/peec-core/pkg/problem"
	"github.com/edp1096/peec-core/pkg/solver"
	"github.com/edp1096/peec-core/pkg/sweep"
	"github.com/edp1096/peec-core/pkg/sysop"
)

var logger = log.New(os.Stderr, "peecsolve: ", log.LstdFlags)

func main() {
	geomPath := flag.String("geometry", "", "path to geometry JSON (spec.md §6)")
	probPath := flag.String("problem", "", "path to problem JSON (material_def/source_def/sweep_solver)")
	tolPath := flag.String("tolerance", "", "optional path to a tolerance JSON (condition_options/solver_options/...); defaults apply if omitted")
	njobs := flag.Int("jobs", 1, "number of sweeps to run concurrently")
	flag.Parse()

	if *geomPath == "" || *probPath == "" {
		fmt.Fprintln(os.Stderr, "usage: peecsolve -geometry geom.json -problem problem.json [-tolerance tol.json]")
		os.Exit(2)
	}

	if err := run(*geomPath, *probPath, *tolPath, *njobs); err != nil {
		logger.Fatal(err)
	}
}

func run(geomPath, probPath, tolPath string, njobs int) error {
	geom, err := loadGeometry(geomPath)
	if err != nil {
		return err
	}
	prob, err := loadProblem(probPath)
	if err != nil {
		return err
	}
	tol, err := loadTolerance(tolPath)
	if err != nil {
		return err
	}

	core, err := buildCore(geom, prob, tol)
	if err != nil {
		return fmt.Errorf("peecsolve: assembling geometry operators: %w", err)
	}

	specs := make([]sweep.Spec, 0, len(prob.SweepSolver))
	for name, entry := range prob.SweepSolver {
		specs = append(specs, sweep.Spec{Name: name, Init: entry.Init, Param: entry.Param})
	}

	results, err := sweep.Run(context.Background(), specs, core.runSweep, njobs)
	if err != nil {
		return fmt.Errorf("peecsolve: sweep driver: %w", err)
	}

	out := make(map[string]problem.SweepOutput, len(results))
	for name, r := range results {
		if r.Err != nil {
			logger.Printf("sweep %q failed: %v", name, r.Err)
			continue
		}
		out[name] = r.Value.(problem.SweepOutput)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func loadGeometry(path string) (problem.Geometry, error) {
	var g problem.Geometry
	data, err := os.ReadFile(path)
	if err != nil {
		return g, fmt.Errorf("peecsolve: reading geometry: %w", err)
	}
	if err := json.Unmarshal(data, &g); err != nil {
		return g, fmt.Errorf("peecsolve: parsing geometry: %w", err)
	}
	return g, nil
}

func loadProblem(path string) (problem.Problem, error) {
	var p problem.Problem
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("peecsolve: reading problem: %w", err)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("peecsolve: parsing problem: %w", err)
	}
	return p, nil
}

// loadTolerance reads an optional tolerance file, returning
// defaultTolerance() when path is empty (spec.md §6 tolerance inputs
// all have documented defaults).
func loadTolerance(path string) (problem.Tolerance, error) {
	t := defaultTolerance()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("peecsolve: reading tolerance: %w", err)
	}
	if err := json.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("peecsolve: parsing tolerance: %w", err)
	}
	return fillToleranceDefaults(t), nil
}

// defaultTolerance is the all-default tolerance block used when no
// -tolerance file is given: direct (monolithic) coupling, GMRES, no
// condition check, no complex-power early stop.
func defaultTolerance() problem.Tolerance {
	return fillToleranceDefaults(problem.Tolerance{})
}

// fillToleranceDefaults fills the zero-valued fields of a
// partially-specified tolerance block with spec.md §6's defaults, the
// same "zero means default" convention pkg/green.Options already uses
// for IntegralSimplify.
func fillToleranceDefaults(t problem.Tolerance) problem.Tolerance {
	if t.Solver.Coupling == "" {
		t.Solver.Coupling = "direct"
	}
	if t.Solver.Direct.Solver == "" {
		t.Solver.Direct.Solver = "gmres"
	}
	if t.Solver.Direct.RelTol == 0 {
		t.Solver.Direct.RelTol = 1e-8
	}
	if t.Solver.Direct.AbsTol == 0 {
		t.Solver.Direct.AbsTol = 1e-12
	}
	if t.Solver.Direct.NInner == 0 {
		t.Solver.Direct.NInner = 30
	}
	if t.Solver.Direct.NOuter == 0 {
		t.Solver.Direct.NOuter = 200
	}
	if t.Solver.Segregated.RelTol == 0 {
		t.Solver.Segregated.RelTol = 1e-8
	}
	if t.Solver.Segregated.AbsTol == 0 {
		t.Solver.Segregated.AbsTol = 1e-12
	}
	if t.Solver.Segregated.NMin == 0 {
		t.Solver.Segregated.NMin = 1
	}
	if t.Solver.Segregated.NMax == 0 {
		t.Solver.Segregated.NMax = 50
	}
	if t.Solver.Segregated.RelaxElectric == 0 {
		t.Solver.Segregated.RelaxElectric = 1
	}
	if t.Solver.Segregated.RelaxMagnetic == 0 {
		t.Solver.Segregated.RelaxMagnetic = 1
	}
	if t.Solver.Power.NMin == 0 {
		t.Solver.Power.NMin = 2
	}
	if t.Solver.Power.NCmp == 0 {
		t.Solver.Power.NCmp = 1
	}
	if t.Condition.ToleranceElectric == 0 {
		t.Condition.ToleranceElectric = 1e12
	}
	if t.Condition.ToleranceMagnetic == 0 {
		t.Condition.ToleranceMagnetic = 1e12
	}
	return t
}

// core holds everything built once per geometry (spec.md §3
// Lifecycle): the reduced nets, the Green-derived operators, and the
// source/material records. Sweeps only vary frequency.
type core struct {
	grid    model.Grid
	elecNet *incidence.Net
	magNet  *incidence.Net
	recs    []model.MaterialRecord
	srcs    []model.SourceRecord
	lOp     *assembly.LOperator
	pOp     *assembly.POperator
	kOp     *assembly.KOperator
	layout  model.Layout
	cloud   []extract.Point
	tol     problem.Tolerance

	warmStartMu sync.Mutex
	warmStartX  map[string][]complex128   // sweep name -> its converged solution, for Init warm starts
	warmRecycle map[string][][]complex128 // sweep name -> its GCROTMK recycled subspace
}

func buildCore(geom problem.Geometry, prob problem.Problem, tol problem.Tolerance) (*core, error) {
	grid := geom.BuildGrid()
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	domains, err := geom.BuildDomains()
	if err != nil {
		return nil, err
	}

	dset := model.NewDomainSet()
	recs, err := problem.BuildMaterialRecords(prob.MaterialDef, domains)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if err := dset.Add(model.Domain{Tag: rec.Tag, Idx: rec.Idx}, rec.Kind); err != nil {
			return nil, err
		}
	}
	if err := dset.Validate(); err != nil {
		return nil, err
	}

	srcs, err := problem.BuildSourceRecords(prob.SourceDef, domains, dset)
	if err != nil {
		return nil, err
	}

	elecNet, err := incidence.Build(grid, dset.ElectricVoxels())
	if err != nil {
		return nil, err
	}
	magNet, err := incidence.Build(grid, dset.MagneticVoxels())
	if err != nil {
		return nil, err
	}

	greenOpts := green.Options{IntegralSimplify: tol.IntegralSimplify}
	gTensor := green.BuildG(grid, greenOpts)
	kTensor := green.BuildK(grid, greenOpts)

	srcOrdered, nSrcC := indexing.OrderSources(srcs)
	layout := model.Layout{
		NFc: elecNet.NumFaces(), NVc: elecNet.NumVoxels(),
		NSrcC: nSrcC, NSrcV: len(srcOrdered) - nSrcC,
		NFm: magNet.NumFaces(), NVm: magNet.NumVoxels(),
	}

	cloud := make([]extract.Point, len(geom.PtsCloud))
	for i, p := range geom.PtsCloud {
		cloud[i] = extract.Point(p)
	}

	return &core{
		grid: grid, elecNet: elecNet, magNet: magNet,
		recs: recs, srcs: srcOrdered,
		lOp:         assembly.BuildL(grid, gTensor),
		pOp:         assembly.BuildP(grid, gTensor),
		kOp:         assembly.BuildK(kTensor),
		layout:      layout,
		cloud:       cloud,
		tol:         tol,
		warmStartX:  make(map[string][]complex128),
		warmRecycle: make(map[string][][]complex128),
	}, nil
}

// runSweep implements sweep.RunFunc: it builds the frequency-dependent
// operators, solves the system with the coupling/solver strategy
// tolerance_options selects, and extracts the per-sweep output record
// of spec.md §6.
func (c *core) runSweep(ctx context.Context, s sweep.Spec, warmStart *sweep.Result) (sweep.Result, error) {
	param := s.Param.(problem.SweepParam)
	sctx := model.NewSolveContext(param.Freq)

	r, err := assembly.BuildR(c.elecNet, c.recs)
	if err != nil {
		return sweep.Result{}, err
	}
	rm, err := assembly.BuildRMagnetic(c.magNet, c.recs)
	if err != nil {
		return sweep.Result{}, err
	}

	srcMat, err := indexing.Build(c.elecNet, c.srcs)
	if err != nil {
		return sweep.Result{}, err
	}

	elecPC, err := precond.BuildElectric(c.elecNet, r, c.lOp, sctx.Omega, srcMat)
	if err != nil {
		return sweep.Result{}, err
	}
	magPC, err := precond.BuildMagnetic(c.magNet, rm, c.pOp.Self())
	if err != nil {
		return sweep.Result{}, err
	}

	condStatus, condOK, err := c.checkCondition(elecPC, magPC)
	if err != nil {
		return sweep.Result{}, err
	}

	elecOp := &sysop.Electric{Net: c.elecNet, R: r, LOp: c.lOp, Src: srcMat, Omega: sctx.Omega}
	magOp := &sysop.Magnetic{Net: c.magNet, R: rm, POp: c.pOp}
	coupling := &sysop.Coupling{KOp: c.kOp, Omega: sctx.Omega}

	layout := c.layout
	mulVec := func(x []complex128) []complex128 {
		rhsFc, rhsVc, rhsSrc := elecOp.Apply(layout.Fc(x), layout.Vc(x), layout.Src(x))
		rhsFm, rhsVm := magOp.Apply(layout.Fm(x), layout.Vm(x))

		cplC := coupling.ElectricTerm(c.magNet, layout.Fm(x), c.elecNet)
		cplM := coupling.MagneticTerm(c.elecNet, layout.Fc(x), c.magNet)
		for i := range rhsFc {
			rhsFc[i] += cplC[i]
		}
		for i := range rhsFm {
			rhsFm[i] += cplM[i]
		}

		out := layout.New()
		copy(layout.Fc(out), rhsFc)
		copy(layout.Vc(out), rhsVc)
		copy(layout.Src(out), rhsSrc)
		copy(layout.Fm(out), rhsFm)
		copy(layout.Vm(out), rhsVm)
		return out
	}

	precon := func(x []complex128) []complex128 {
		fc, vcSrc, err := elecPC.Solve(layout.Fc(x), append(append([]complex128(nil), layout.Vc(x)...), layout.Src(x)...))
		out := layout.New()
		if err == nil {
			copy(layout.Fc(out), fc)
			copy(layout.Vc(out), vcSrc[:layout.NVc])
			copy(layout.Src(out), vcSrc[layout.NVc:])
		}
		fm, vm, err := magPC.Solve(layout.Fm(x), layout.Vm(x))
		if err == nil {
			copy(layout.Fm(out), fm)
			copy(layout.Vm(out), vm)
		}
		return out
	}

	rhs := layout.New()
	copy(layout.Src(rhs), srcMat.RHS)

	x0 := layout.New()
	if warmStart != nil {
		c.warmStartMu.Lock()
		if prev, ok := c.warmStartX[warmStart.Name]; ok && len(prev) == len(x0) {
			copy(x0, prev)
		}
		c.warmStartMu.Unlock()
	}

	var res solver.Result
	if c.tol.Solver.Coupling == "segregated" {
		res, err = c.solveSegregated(layout, elecOp, magOp, coupling, elecPC, magPC, rhs, x0, mulVec)
	} else {
		res, err = c.solveDirect(s.Name, layout, mulVec, precon, rhs, x0, warmStart)
	}
	if err != nil && !errors.Is(err, solver.ErrConvergenceFailed) {
		return sweep.Result{}, err
	}

	out := extractOutput(c, layout, sctx, res, r, rm, condStatus, condOK)

	if out.SolutionOK {
		c.warmStartMu.Lock()
		c.warmStartX[s.Name] = res.X
		c.warmStartMu.Unlock()
	}

	return sweep.Result{Name: s.Name, SolutionOK: out.SolutionOK, Value: out}, nil
}

// checkCondition evaluates condition_options (spec.md §7): when
// Check is false, the preconditioner is assumed well-conditioned
// (condition_status.ok stays true without spending a factorization on
// the estimate).
func (c *core) checkCondition(elecPC *precond.Electric, magPC *precond.Magnetic) (problem.Status, bool, error) {
	if !c.tol.Condition.Check {
		return problem.Status{OK: true}, true, nil
	}
	condElec, err := elecPC.ConditionEstimate()
	if err != nil {
		return problem.Status{}, false, err
	}
	condMag, err := magPC.ConditionEstimate()
	if err != nil {
		return problem.Status{}, false, err
	}
	worst := condElec
	if condMag > worst {
		worst = condMag
	}
	ok := condElec <= c.tol.Condition.ToleranceElectric && condMag <= c.tol.Condition.ToleranceMagnetic
	return problem.Status{OK: ok, Value: worst}, ok, nil
}

// solveDirect runs the monolithic Krylov solve of spec.md §4.6/§4.8:
// GMRES or GCROTMK (direct_options.solver), observed by the
// mandatory complex-power stability criterion of §4.8 when
// power_options.stop is set.
func (c *core) solveDirect(name string, layout model.Layout, mulVec solver.MulVec, precon solver.Precon, rhs, x0 []complex128, warmStart *sweep.Result) (solver.Result, error) {
	d := c.tol.Solver.Direct
	settings := solver.Settings{RelTol: d.RelTol, AbsTol: d.AbsTol, MaxIterations: d.NOuter}

	var obs solver.Observer
	if c.tol.Solver.Power.Stop {
		obs = &solver.PowerObserver{
			Power:  c.powerFunc(layout),
			NCmp:   c.tol.Solver.Power.NCmp,
			NMin:   c.tol.Solver.Power.NMin,
			RelTol: c.tol.Solver.Power.RelTol,
			AbsTol: c.tol.Solver.Power.AbsTol,
		}
	}

	if d.Solver == "gcrot" {
		var recycle [][]complex128
		if warmStart != nil {
			c.warmStartMu.Lock()
			recycle = c.warmRecycle[warmStart.Name]
			c.warmStartMu.Unlock()
		}
		gc := &solver.GCROTMK{Restart: d.NInner}
		res, newRecycle, err := gc.Solve(mulVec, precon, rhs, x0, recycle, settings, obs)
		c.warmStartMu.Lock()
		c.warmRecycle[name] = newRecycle
		c.warmStartMu.Unlock()
		return res, err
	}

	g := &solver.GMRES{Restart: d.NInner}
	return solver.Solve(g, mulVec, precon, rhs, x0, settings, obs)
}

// solveSegregated runs the fixed-point coupling iteration of spec.md
// §4.9 (solver_options.coupling = "segregated"): the electric and
// magnetic blocks are solved independently each outer iteration, each
// against a preconditioned GMRES sub-solve, with the other block's
// contribution subtracted into the right-hand side.
func (c *core) solveSegregated(layout model.Layout, elecOp *sysop.Electric, magOp *sysop.Magnetic, coupling *sysop.Coupling, elecPC *precond.Electric, magPC *precond.Magnetic, rhs, x0 []complex128, fullMulVec solver.MulVec) (solver.Result, error) {
	elecLayout := model.Layout{NFc: layout.NFc, NVc: layout.NVc, NSrcC: layout.NSrcC, NSrcV: layout.NSrcV}
	magLayout := model.Layout{NFm: layout.NFm, NVm: layout.NVm}

	elecMulVec := func(x []complex128) []complex128 {
		rhsFc, rhsVc, rhsSrc := elecOp.Apply(elecLayout.Fc(x), elecLayout.Vc(x), elecLayout.Src(x))
		out := elecLayout.New()
		copy(elecLayout.Fc(out), rhsFc)
		copy(elecLayout.Vc(out), rhsVc)
		copy(elecLayout.Src(out), rhsSrc)
		return out
	}
	elecPrecon := func(x []complex128) []complex128 {
		fc, vcSrc, err := elecPC.Solve(elecLayout.Fc(x), append(append([]complex128(nil), elecLayout.Vc(x)...), elecLayout.Src(x)...))
		out := elecLayout.New()
		if err == nil {
			copy(elecLayout.Fc(out), fc)
			copy(elecLayout.Vc(out), vcSrc[:elecLayout.NVc])
			copy(elecLayout.Src(out), vcSrc[elecLayout.NVc:])
		}
		return out
	}
	magMulVec := func(x []complex128) []complex128 {
		rhsFm, rhsVm := magOp.Apply(magLayout.Fm(x), magLayout.Vm(x))
		out := magLayout.New()
		copy(magLayout.Fm(out), rhsFm)
		copy(magLayout.Vm(out), rhsVm)
		return out
	}
	magPrecon := func(x []complex128) []complex128 {
		fm, vm, err := magPC.Solve(magLayout.Fm(x), magLayout.Vm(x))
		out := magLayout.New()
		if err == nil {
			copy(magLayout.Fm(out), fm)
			copy(magLayout.Vm(out), vm)
		}
		return out
	}

	sub := solver.Settings{RelTol: 1e-10, AbsTol: 1e-14, MaxIterations: 200}
	solveElectric := func(blkRhs, blkX0 []complex128) ([]complex128, error) {
		g := &solver.GMRES{Restart: 30}
		res, err := solver.Solve(g, elecMulVec, elecPrecon, blkRhs, blkX0, sub, nil)
		if err != nil && !errors.Is(err, solver.ErrConvergenceFailed) {
			return nil, err
		}
		return res.X, nil
	}
	solveMagnetic := func(blkRhs, blkX0 []complex128) ([]complex128, error) {
		g := &solver.GMRES{Restart: 30}
		res, err := solver.Solve(g, magMulVec, magPrecon, blkRhs, blkX0, sub, nil)
		if err != nil && !errors.Is(err, solver.ErrConvergenceFailed) {
			return nil, err
		}
		return res.X, nil
	}

	cpl := &coupler.Coupler{
		Options: coupler.Options{
			RelTol: c.tol.Solver.Segregated.RelTol, AbsTol: c.tol.Solver.Segregated.AbsTol,
			NMin: c.tol.Solver.Segregated.NMin, NMax: c.tol.Solver.Segregated.NMax,
			RelaxElectric: c.tol.Solver.Segregated.RelaxElectric, RelaxMagnetic: c.tol.Solver.Segregated.RelaxMagnetic,
		},
		SolveElectric: solveElectric,
		SolveMagnetic: solveMagnetic,
		CplElectric: func(solM []complex128) []complex128 {
			out := elecLayout.New()
			copy(elecLayout.Fc(out), coupling.ElectricTerm(c.magNet, magLayout.Fm(solM), c.elecNet))
			return out
		},
		CplMagnetic: func(solC []complex128) []complex128 {
			out := magLayout.New()
			copy(magLayout.Fm(out), coupling.MagneticTerm(c.elecNet, elecLayout.Fc(solC), c.magNet))
			return out
		},
		ResidualElectric: func(sol, blkRhs []complex128) []complex128 {
			a := elecMulVec(sol)
			out := make([]complex128, len(blkRhs))
			for i := range out {
				out[i] = blkRhs[i] - a[i]
			}
			return out
		},
		ResidualMagnetic: func(sol, blkRhs []complex128) []complex128 {
			a := magMulVec(sol)
			out := make([]complex128, len(blkRhs))
			for i := range out {
				out[i] = blkRhs[i] - a[i]
			}
			return out
		},
	}

	rhsC := layout.Electric(rhs)
	rhsM := layout.Magnetic(rhs)
	x0C := layout.Electric(x0)
	x0M := layout.Magnetic(x0)

	cres, err := cpl.Solve(rhsC, rhsM, x0C, x0M)
	if err != nil && !errors.Is(err, coupler.ErrDidNotConverge) {
		return solver.Result{}, err
	}

	x := layout.New()
	copy(layout.Electric(x), cres.SolC)
	copy(layout.Magnetic(x), cres.SolM)

	Ax := fullMulVec(x)
	var residSq float64
	for i := range rhs {
		d := rhs[i] - Ax[i]
		residSq += real(d)*real(d) + imag(d)*imag(d)
	}
	result := solver.Result{X: x, Iterations: cres.Iterations, Converged: cres.Converged, ResidNorm: math.Sqrt(residSq)}
	if !cres.Converged {
		return result, solver.ErrConvergenceFailed
	}
	return result, nil
}

// powerFunc evaluates the complex-power stability criterion's S(sol)
// (spec.md §4.8): 1/2 * sum(V*conj(I)) over every source.
func (c *core) powerFunc(layout model.Layout) solver.PowerFunc {
	return func(sol []complex128) complex128 {
		Vvc := layout.Vc(sol)
		Isrc := layout.Src(sol)
		var total complex128
		for i, src := range c.srcs {
			_, _, s, err := extract.Terminal(c.elecNet, Vvc, src.Idx, Isrc[i:i+1])
			if err != nil {
				continue
			}
			total += s
		}
		return total
	}
}
