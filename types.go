package pwlt

import (
	"fmt"
	"math"
)

const (
	FORM_LP   = "LP"
	FORM_CC   = "CC"
	FORM_MC   = "MC"
	FORM_INC  = "Incremental"
	FORM_LOG  = "Logarithmic"
	FORM_DLOG = "DisaggLogarithmic"
	FORM_ZZB  = "ZigZag"
	FORM_ZZI  = "ZigZagInteger"

	SOLVER_GUROBI = "GUROBI"
	SOLVER_HIGHS  = "HIGHS"

	STATUS_OPTIMAL    = "OPTIMAL"
	STATUS_INFEASIBLE = "INFEASIBLE"
	STATUS_TIMEOUT    = "TIMEOUT"
	STATUS_ERROR      = "ERROR"
)

// Formulations lists the linear baseline and all supported piecewise-linear
// encodings in the order they are benchmarked.
var Formulations = []string{FORM_LP, FORM_CC, FORM_MC, FORM_INC, FORM_LOG, FORM_DLOG, FORM_ZZB, FORM_ZZI}

type Instance struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
	Type    string `json:"type"`

	SupplyCount  int   `json:"supply_count"`
	DemandCount  int   `json:"demand_count"`
	SegmentCount int   `json:"segment_count"`
	Seed         int64 `json:"seed"`

	Supply []float64   `json:"supply"`
	Demand []float64   `json:"demand"`
	Costs  [][]float64 `json:"costs"`

	//Breakpoints[i][j] and Values[i][j] hold the piecewise-linear cost table
	//for the flow from supply node i to demand node j. Both are SegmentCount+1
	//long, Breakpoints[i][j][0] is always 0 and the last entry is
	//min(Supply[i], Demand[j]).
	Breakpoints [][][]float64 `json:"breakpoints"`
	Values      [][][]float64 `json:"values"`

	Runs []*Run `json:"runs,omitempty"`
}

// Run records one solve of one formulation on one backend.
type Run struct {
	Formulation string  `json:"formulation"`
	Solver      string  `json:"solver"`
	Status      string  `json:"status"`
	Optimal     bool    `json:"optimal"`
	Obj         float64 `json:"obj"`
	Bound       float64 `json:"bound"`
	Vars        int     `json:"vars"`
	Binaries    int     `json:"binaries"`
	Constrs     int     `json:"constrs"`

	Time    string  `json:"time"`
	Seconds float64 `json:"seconds"`
	System  SysInfo `json:"system"`
	Comment string  `json:"comment"`
}

// SysInfo saves the basic system information
type SysInfo struct {
	Platform string
	CPU      string
	RAM      string
}

// GapString formats the relative optimality gap of the run, rounded to
// three decimals. Runs without a meaningful bound (errored runs, or a zero
// bound) report "NA" instead of a number that would read as proved optimal.
func (r *Run) GapString() string {
	if r.Status == STATUS_ERROR || r.Bound == 0 {
		return "NA"
	}
	gap := math.Round((r.Obj-r.Bound)/math.Abs(r.Bound)*1000) / 1000.0
	return fmt.Sprintf("%.4f", gap)
}

// IsFormulation reports whether name is one of the known formulations.
func IsFormulation(name string) bool {
	for _, f := range Formulations {
		if f == name {
			return true
		}
	}
	return false
}
