package pwlt

import (
	"math"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// singlePair builds a 1x1 instance whose supply and demand both equal the
// table domain, so every feasible solution routes the full domain over the
// single pair and the optimal cost is the last table value.
func singlePair(bp, fv []float64) *Instance {
	ub := bp[len(bp)-1]
	return &Instance{
		Name:         "pair",
		SupplyCount:  1,
		DemandCount:  1,
		SegmentCount: len(bp) - 1,
		Supply:       []float64{ub},
		Demand:       []float64{ub},
		Costs:        [][]float64{{1.0}},
		Breakpoints:  [][][]float64{{bp}},
		Values:       [][][]float64{{fv}},
	}
}

func solveOne(t *testing.T, inst *Instance, form string) SolveResult {
	t.Helper()
	tm, err := BuildModel(inst, form)
	if err != nil {
		t.Fatalf("BuildModel(%s) failed: %v", form, err)
	}
	backend := &HighsBackend{}
	res, err := backend.Solve(tm.MIPModel, SolveParams{TimeLimit: 60})
	if err != nil {
		t.Fatalf("Solve(%s) failed: %v", form, err)
	}
	if res.Status != STATUS_OPTIMAL {
		t.Fatalf("Solve(%s): expected %s, got %s", form, STATUS_OPTIMAL, res.Status)
	}
	return res
}

func TestFormulationsSaturatedPair(t *testing.T) {
	//concave table: slopes 3 then 1, f(2) = 4
	inst := singlePair([]float64{0, 1, 2}, []float64{0, 3, 4})
	for _, form := range Formulations {
		if form == FORM_LP {
			continue
		}
		res := solveOne(t, inst, form)
		if !almostEqual(res.Obj, 4.0, 1e-6) {
			t.Errorf("%s: objective = %f, expected 4", form, res.Obj)
		}
	}
}

func TestFormulationsSaturatedPairFourSegments(t *testing.T) {
	bp := []float64{0, 1, 2, 3, 4}
	fv := []float64{0, 4, 7, 9, 10}
	inst := singlePair(bp, fv)
	for _, form := range Formulations {
		if form == FORM_LP {
			continue
		}
		res := solveOne(t, inst, form)
		if !almostEqual(res.Obj, 10.0, 1e-6) {
			t.Errorf("%s: objective = %f, expected 10", form, res.Obj)
		}
	}
}

// twoByTwo builds a balanced 2x2 instance with linear tables fv = c*bp, so
// every correct encoding reduces to the linear transportation problem with
// unit costs c. With supplies and demands of 1 and the cost matrix
// [[1,3],[3,1]] the optimum ships on the diagonal for a total cost of 2.
func twoByTwo(segments int) *Instance {
	costs := [][]float64{{1, 3}, {3, 1}}
	inst := &Instance{
		Name:         "twobytwo",
		SupplyCount:  2,
		DemandCount:  2,
		SegmentCount: segments,
		Supply:       []float64{1, 1},
		Demand:       []float64{1, 1},
		Costs:        costs,
		Breakpoints:  make([][][]float64, 2),
		Values:       make([][][]float64, 2),
	}
	for i := 0; i < 2; i++ {
		inst.Breakpoints[i] = make([][]float64, 2)
		inst.Values[i] = make([][]float64, 2)
		for j := 0; j < 2; j++ {
			bp := make([]float64, segments+1)
			fv := make([]float64, segments+1)
			for s := 0; s <= segments; s++ {
				bp[s] = float64(s) / float64(segments)
				fv[s] = costs[i][j] * bp[s]
			}
			inst.Breakpoints[i][j] = bp
			inst.Values[i][j] = fv
		}
	}
	return inst
}

func TestLinearTransport(t *testing.T) {
	res := solveOne(t, twoByTwo(2), FORM_LP)
	if !almostEqual(res.Obj, 2.0, 1e-6) {
		t.Errorf("LP: objective = %f, expected 2", res.Obj)
	}
}

func TestFormulationsAgreeOnLinearTables(t *testing.T) {
	inst := twoByTwo(4)
	for _, form := range Formulations {
		res := solveOne(t, inst, form)
		if !almostEqual(res.Obj, 2.0, 1e-6) {
			t.Errorf("%s: objective = %f, expected 2", form, res.Obj)
		}
	}
}

func TestSolveFormulationRecordsRun(t *testing.T) {
	inst := twoByTwo(2)
	run := SolveFormulation(inst, FORM_CC, &HighsBackend{}, SolveParams{TimeLimit: 60})
	if run.Status != STATUS_OPTIMAL {
		t.Fatalf("expected %s, got %s (%s)", STATUS_OPTIMAL, run.Status, run.Comment)
	}
	if !run.Optimal {
		t.Error("run must be marked optimal")
	}
	if run.Binaries != 4*2 {
		t.Errorf("binaries = %d, expected 8", run.Binaries)
	}
	if run.Seconds < 0 {
		t.Errorf("negative solve time %f", run.Seconds)
	}
}

func TestSolveFormulationTimeLimit(t *testing.T) {
	//large enough that HiGHS cannot finish the MIP within a millisecond
	inst, err := GenerateInstance(10, 10, 16, 0)
	if err != nil {
		t.Fatal(err)
	}
	run := SolveFormulation(inst, FORM_CC, &HighsBackend{}, SolveParams{TimeLimit: 0.001})
	if run.Status != STATUS_TIMEOUT {
		t.Fatalf("expected %s, got %s (%s)", STATUS_TIMEOUT, run.Status, run.Comment)
	}
	if run.Optimal {
		t.Error("a timed out run must not be marked optimal")
	}
	if math.IsNaN(run.Bound) {
		t.Error("bound must be populated on timeout")
	}
	//with an incumbent the dual bound of a minimization never exceeds it
	if run.Obj > 0 && run.Bound > run.Obj+1e-6 {
		t.Errorf("dual bound %f exceeds objective %f", run.Bound, run.Obj)
	}
}

func TestSolveFormulationBadFormulation(t *testing.T) {
	inst := twoByTwo(2)
	run := SolveFormulation(inst, "Lambda", &HighsBackend{}, SolveParams{})
	if run.Status != STATUS_ERROR {
		t.Fatalf("expected %s, got %s", STATUS_ERROR, run.Status)
	}
}

func TestRunGapString(t *testing.T) {
	run := &Run{Status: STATUS_OPTIMAL, Obj: 2.1, Bound: 2.0}
	if got := run.GapString(); got != "0.0500" {
		t.Errorf("gap = %s, expected 0.0500", got)
	}

	//an errored run has no meaningful bound and must not read as optimal
	run = &Run{Status: STATUS_ERROR, Obj: 5.0}
	if got := run.GapString(); got != "NA" {
		t.Errorf("gap = %s, expected NA", got)
	}
	run = &Run{Status: STATUS_TIMEOUT, Obj: 5.0, Bound: 0}
	if got := run.GapString(); got != "NA" {
		t.Errorf("gap = %s, expected NA", got)
	}
}
