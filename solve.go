package pwlt

import (
	"time"

	"github.com/pkg/errors"
)

// SolveParams carries the per-run solver configuration.
type SolveParams struct {
	TimeLimit float64 //seconds, <= 0 means no limit
	Verbose   bool    //solver log to console
	LPFile    string  //write the model in LP format before solving, "" for none
}

// SolveResult is the backend-independent outcome of one solve call.
type SolveResult struct {
	Status  string
	Obj     float64
	Bound   float64
	Elapsed time.Duration
	Comment string
}

// Backend solves a neutral model. Implementations exist for Gurobi and
// HiGHS.
type Backend interface {
	Name() string
	Solve(m *MIPModel, p SolveParams) (SolveResult, error)
}

// NewBackend returns the backend for the given solver name.
func NewBackend(name string) (Backend, error) {
	switch name {
	case SOLVER_GUROBI:
		return &GurobiBackend{}, nil
	case SOLVER_HIGHS:
		return &HighsBackend{}, nil
	}
	return nil, errors.Errorf("unknown solver %s", name)
}

// SolveFormulation builds the model for one formulation, solves it on the
// backend and returns the filled Run record. Model build errors and solver
// errors are both folded into a Run with status ERROR so that a benchmark
// loop can continue with the remaining formulations.
func SolveFormulation(inst *Instance, formulation string, backend Backend, p SolveParams) *Run {
	run := &Run{Formulation: formulation, Solver: backend.Name()}

	tm, err := BuildModel(inst, formulation)
	if err != nil {
		Log(LOG_ERR, "Building %s model: %s", formulation, err.Error())
		run.Status = STATUS_ERROR
		run.Comment = err.Error()
		return run
	}
	run.Vars = tm.VarCount()
	run.Binaries = tm.BinaryCount()
	run.Constrs = len(tm.Constrs)

	res, err := backend.Solve(tm.MIPModel, p)
	if err != nil {
		Log(LOG_ERR, "Solving %s model: %s", formulation, err.Error())
		run.Status = STATUS_ERROR
		run.Comment = err.Error()
		return run
	}

	run.Status = res.Status
	run.Optimal = res.Status == STATUS_OPTIMAL
	run.Obj = res.Obj
	run.Bound = res.Bound
	run.Time = res.Elapsed.String()
	run.Seconds = res.Elapsed.Seconds()
	run.Comment = res.Comment
	return run
}
