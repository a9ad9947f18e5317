package pwlt

import (
	"math"
	"time"

	"github.com/bartolsthoorn/gohighs/highs"
	"github.com/pkg/errors"
)

// HighsBackend solves the neutral model through the bundled HiGHS bindings.
type HighsBackend struct{}

func (hb *HighsBackend) Name() string {
	return SOLVER_HIGHS
}

func (hb *HighsBackend) Solve(m *MIPModel, p SolveParams) (SolveResult, error) {
	var res SolveResult

	solver, err := highs.NewSolver()
	if err != nil {
		return res, errors.Wrap(err, "creating highs solver")
	}
	defer solver.Close()

	if err := solver.SetBoolOption("output_flag", p.Verbose); err != nil {
		return res, errors.Wrap(err, "setting output_flag")
	}
	if p.TimeLimit > 0 {
		if err := solver.SetFloatOption("time_limit", p.TimeLimit); err != nil {
			return res, errors.Wrap(err, "setting time_limit")
		}
	}

	if err := solver.AddVars(m.Lb, m.Ub); err != nil {
		return res, errors.Wrap(err, "adding variables")
	}
	if err := solver.SetColCosts(m.Obj); err != nil {
		return res, errors.Wrap(err, "setting objective")
	}

	hasInt := false
	varTypes := make([]highs.VariableType, m.VarCount())
	for i, t := range m.VarTypes {
		if t == BINARY || t == INTEGER {
			varTypes[i] = highs.Integer
			hasInt = true
		} else {
			varTypes[i] = highs.Continuous
		}
	}
	if hasInt {
		if err := solver.SetIntegrality(varTypes); err != nil {
			return res, errors.Wrap(err, "setting integrality")
		}
	}

	for _, c := range m.Constrs {
		lower, upper := c.Rhs, c.Rhs
		switch c.Sense {
		case LESS_EQUAL:
			lower = math.Inf(-1)
		case GREATER_EQUAL:
			upper = math.Inf(1)
		}
		ind := make([]int, len(c.Ind))
		for k, v := range c.Ind {
			ind[k] = int(v)
		}
		if err := solver.AddRow(lower, upper, ind, c.Val); err != nil {
			return res, errors.Wrapf(err, "adding constraint %s", c.Name)
		}
	}

	if err := solver.SetMaximize(false); err != nil {
		return res, errors.Wrap(err, "setting sense")
	}

	if p.LPFile != "" {
		if err := solver.WriteModel(p.LPFile); err != nil {
			Log(LOG_ERR, "Writing %s: %s", p.LPFile, err.Error())
		}
	}

	startTime := time.Now()
	sol, err := solver.Run()
	res.Elapsed = time.Since(startTime)
	if err != nil {
		return res, errors.Wrap(err, "running highs")
	}

	switch {
	case sol.IsOptimal():
		res.Status = STATUS_OPTIMAL
	case sol.IsInfeasible():
		res.Status = STATUS_INFEASIBLE
	case sol.IsTimeLimit():
		res.Status = STATUS_TIMEOUT
	default:
		res.Status = STATUS_ERROR
		res.Comment = "solve stopped with status " + sol.Status.String()
	}

	if sol.HasSolution() {
		res.Obj = sol.Objective
	}
	res.Bound = res.Obj
	if hasInt {
		if bound, err := solver.GetFloatInfo("mip_dual_bound"); err == nil {
			res.Bound = bound
		}
	}

	return res, nil
}
