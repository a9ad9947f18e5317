package pwlt

import (
	"time"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"
	"github.com/pkg/errors"
)

// GurobiBackend solves the neutral model through the gorobi bindings. Env
// may be preloaded and shared between solves; a nil Env makes Solve create
// and free one per call.
type GurobiBackend struct {
	Env *gurobi.Env
}

func (gb *GurobiBackend) Name() string {
	return SOLVER_GUROBI
}

func gurobiVarType(t int8) int8 {
	switch t {
	case BINARY:
		return gurobi.BINARY
	case INTEGER:
		return gurobi.INTEGER
	default:
		return gurobi.CONTINUOUS
	}
}

func gurobiSense(s int8) int8 {
	switch s {
	case LESS_EQUAL:
		return gurobi.LESS_EQUAL
	case GREATER_EQUAL:
		return gurobi.GREATER_EQUAL
	default:
		return gurobi.EQUAL
	}
}

func (gb *GurobiBackend) Solve(m *MIPModel, p SolveParams) (SolveResult, error) {
	var res SolveResult

	env := gb.Env
	if env == nil {
		var err error
		env, err = gurobi.LoadEnv(m.Name + "_gurobi.log")
		if err != nil {
			return res, errors.Wrap(err, "loading gurobi env")
		}
		defer env.Free()
	}
	logToConsole := int32(0)
	if p.Verbose {
		logToConsole = 1
	}
	env.SetIntParam("LogToConsole", logToConsole)
	if p.TimeLimit > 0 {
		env.SetDblParam("TimeLimit", p.TimeLimit)
	}

	varTypes := make([]int8, m.VarCount())
	for i, t := range m.VarTypes {
		varTypes[i] = gurobiVarType(t)
	}

	model, err := env.NewModel(m.Name, int32(m.VarCount()), m.Obj, m.Lb, m.Ub, varTypes, m.VarNames)
	if err != nil {
		return res, errors.Wrap(err, "creating gurobi model")
	}
	defer model.Free()

	err = model.SetIntAttr(gurobi.INT_ATTR_MODELSENSE, gurobi.MINIMIZE)
	if err != nil {
		return res, errors.Wrap(err, "setting model sense")
	}

	for _, c := range m.Constrs {
		err = model.AddConstr(c.Ind, c.Val, gurobiSense(c.Sense), c.Rhs, c.Name)
		if err != nil {
			return res, errors.Wrapf(err, "adding constraint %s", c.Name)
		}
	}

	if p.LPFile != "" {
		if err := model.Write(p.LPFile); err != nil {
			Log(LOG_ERR, "Writing %s: %s", p.LPFile, err.Error())
		}
	}

	startTime := time.Now()
	err = model.Optimize()
	res.Elapsed = time.Since(startTime)
	if err != nil {
		return res, errors.Wrap(err, "optimizing")
	}

	optimstatus, err := model.GetIntAttr(gurobi.INT_ATTR_STATUS)
	if err != nil {
		return res, errors.Wrap(err, "retrieving optimization status")
	}
	switch optimstatus {
	case gurobi.OPTIMAL:
		res.Status = STATUS_OPTIMAL
	case gurobi.INF_OR_UNBD:
		res.Status = STATUS_INFEASIBLE
	case gurobi.TIME_LIMIT:
		res.Status = STATUS_TIMEOUT
	default:
		res.Status = STATUS_ERROR
		res.Comment = "optimization stopped before the time limit without an optimal solution"
	}

	if res.Status == STATUS_OPTIMAL || res.Status == STATUS_TIMEOUT {
		solcount, err := model.GetIntAttr(gurobi.INT_ATTR_SOLCOUNT)
		if err != nil {
			return res, errors.Wrap(err, "retrieving solution count")
		}
		if solcount > 0 {
			objval, err := model.GetDblAttr(gurobi.DBL_ATTR_OBJVAL)
			if err != nil {
				return res, errors.Wrap(err, "retrieving objective value")
			}
			res.Obj = objval
		}
		bound, err := model.GetDblAttr(gurobi.DBL_ATTR_OBJBOUND)
		if err != nil {
			Log(LOG_DEBUG, "No objective bound available: %s", err.Error())
		} else {
			res.Bound = bound
		}
	}

	return res, nil
}
