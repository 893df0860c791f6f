// Package problem defines the JSON-loadable external-interface types
// of spec.md §6: geometry, material/source definitions, sweep
// parameters, and solver tolerances. Loading, meshing, and
// configuration plumbing themselves are out of scope (spec.md §1);
// this package only defines the boundary contract, mirroring the
// teacher's netlist.Element struct-tag style.
package problem

// Geometry is the mesher-delivered description of spec.md §6: a
// rectilinear voxel grid, named domain index sets, an optional
// connectivity graph, and a cloud of off-grid field-evaluation
// points.
type Geometry struct {
	N         [3]int           `json:"n"`
	D         [3]float64       `json:"d"`
	C         [3]float64       `json:"c"`
	DomainDef map[string][]int `json:"domain_def"`
	GraphDef  [][]int          `json:"graph_def,omitempty"`
	PtsCloud  [][3]float64     `json:"pts_cloud,omitempty"`
}

// MaterialDef is one material_def entry (spec.md §3/§6).
type MaterialDef struct {
	Tag         string `json:"tag"`
	Kind        string `json:"material_type"`              // electric | magnetic | electromagnetic
	VarType     string `json:"var_type"`                    // lumped | distributed
	Orientation string `json:"orientation_type,omitempty"`  // iso | aniso | null
	Domain      string `json:"domain"`                      // key into Geometry.DomainDef

	RhoIso      Complex   `json:"rho_iso,omitempty"`
	RhoAniso    [3]Complex `json:"rho_aniso,omitempty"`
	RhoPerVoxel []Complex  `json:"rho_per_voxel,omitempty"`

	ChiIso      Complex    `json:"chi_iso,omitempty"`
	ChiAniso    [3]Complex `json:"chi_aniso,omitempty"`
	ChiPerVoxel []Complex  `json:"chi_per_voxel,omitempty"`
}

// SourceDef is one source_def entry (spec.md §3/§6).
type SourceDef struct {
	Tag      string  `json:"tag"`
	Kind     string  `json:"source_type"` // current | voltage
	Domain   string  `json:"domain"`
	Value    Complex `json:"value"`
	Internal Complex `json:"internal"`
}

// SweepParam is one sweep's frequency/material/source parameter set
// (spec.md §6 sweep_solver.param).
type SweepParam struct {
	Freq        float64            `json:"freq"`
	MaterialVal map[string]float64 `json:"material_val,omitempty"`
	SourceVal   map[string]float64 `json:"source_val,omitempty"`
}

// SweepEntry is one sweep_solver map entry: an optional warm-start
// source sweep name, plus this sweep's own parameters.
type SweepEntry struct {
	Init  string     `json:"init,omitempty"`
	Param SweepParam `json:"param"`
}

// Problem bundles material_def, source_def, and sweep_solver, the
// three problem-definition inputs of spec.md §6.
type Problem struct {
	MaterialDef []MaterialDef         `json:"material_def"`
	SourceDef   []SourceDef           `json:"source_def"`
	SweepSolver map[string]SweepEntry `json:"sweep_solver"`
}

// PowerOptions is the complex-power stability monitor configuration
// of spec.md §4.8/§6.
type PowerOptions struct {
	Stop   bool    `json:"stop"`
	NMin   int     `json:"n_min"`
	NCmp   int     `json:"n_cmp"`
	RelTol float64 `json:"rel_tol"`
	AbsTol float64 `json:"abs_tol"`
}

// DirectOptions configures the monolithic Krylov solve.
type DirectOptions struct {
	Solver  string  `json:"solver"` // gmres | gcrot
	RelTol  float64 `json:"rel_tol"`
	AbsTol  float64 `json:"abs_tol"`
	NInner  int     `json:"n_inner"`
	NOuter  int     `json:"n_outer"`
}

// SegregatedOptions configures the fixed-point coupled solve.
type SegregatedOptions struct {
	RelTol        float64 `json:"rel_tol"`
	AbsTol        float64 `json:"abs_tol"`
	NMin          int     `json:"n_min"`
	NMax          int     `json:"n_max"`
	RelaxElectric float64 `json:"relax_electric"`
	RelaxMagnetic float64 `json:"relax_magnetic"`
}

// SolverOptions selects and configures the coupling strategy of
// spec.md §4.9 and the convergence monitors of §4.8.
type SolverOptions struct {
	Coupling    string            `json:"coupling"` // direct | segregated
	Power       PowerOptions      `json:"power_options"`
	Direct      DirectOptions     `json:"direct_options"`
	Segregated  SegregatedOptions `json:"segregated_options"`
}

// ConditionOptions configures the preconditioner condition-number
// check of spec.md §7.
type ConditionOptions struct {
	Check             bool    `json:"check"`
	ToleranceElectric float64 `json:"tolerance_electric"`
	ToleranceMagnetic float64 `json:"tolerance_magnetic"`
}

// ParallelSweep configures Component K's worker pool (spec.md §5).
type ParallelSweep struct {
	NJobs    int `json:"n_jobs"`
	NThreads int `json:"n_threads"`
}

// Tolerance bundles every numerical-tolerance input of spec.md §6.
// IntegralSimplify is the normalized-distance threshold (spec.md
// §4.1) past which the Green kernel uses its simplified far-field
// form, not a yes/no flag; 0 means "use green.Options' default".
type Tolerance struct {
	IntegralSimplify float64          `json:"integral_simplify"`
	Condition        ConditionOptions `json:"condition_options"`
	Solver           SolverOptions    `json:"solver_options"`
	ParallelSweep    ParallelSweep    `json:"parallel_sweep"`
	BiotSavart       bool             `json:"biot_savart"`
}

// FieldCategory classifies one extracted field_values entry (spec.md
// §6 Output per sweep).
type FieldCategory int

const (
	ScalarElectric FieldCategory = iota
	ScalarMagnetic
	VectorElectric
	VectorMagnetic
	Cloud
)

// FieldValue is one named extracted field (spec.md §6).
type FieldValue struct {
	Var [3]Complex    `json:"var"`
	Cat FieldCategory `json:"cat"`
}

// Status reports a named boolean check plus its associated numeric
// estimate (condition number, residual norm), used for both
// solver_status and condition_status of spec.md §6.
type Status struct {
	OK    bool    `json:"ok"`
	Value float64 `json:"value"`
}

// SweepOutput is the per-sweep result record of spec.md §6.
type SweepOutput struct {
	Freq              float64               `json:"freq"`
	SolutionOK        bool                  `json:"solution_ok"`
	SolverOK          bool                  `json:"solver_ok"`
	ConditionOK       bool                  `json:"condition_ok"`
	SolverStatus      Status                `json:"solver_status"`
	ConditionStatus   Status                `json:"condition_status"`
	SolverConvergence []float64             `json:"solver_convergence"`
	IntegralTotal     Complex               `json:"integral_total"`
	MaterialLosses    map[string]float64    `json:"material_losses"`
	SourceValues      map[string]Complex    `json:"source_values"`
	FieldValues       map[string]FieldValue `json:"field_values"`
}
