package pwlt

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Variable types and constraint senses of the neutral model. The backends
// translate these to their native constants.
const (
	CONTINUOUS int8 = 'C'
	BINARY     int8 = 'B'
	INTEGER    int8 = 'I'

	LESS_EQUAL    int8 = '<'
	GREATER_EQUAL int8 = '>'
	EQUAL         int8 = '='
)

type Constr struct {
	Ind   []int32
	Val   []float64
	Sense int8
	Rhs   float64
	Name  string
}

// MIPModel is a solver-independent minimization model kept in the flat
// array form the backends consume: one entry per variable in Obj, Lb, Ub,
// VarTypes and VarNames, plus a list of linear constraints.
type MIPModel struct {
	Name     string
	Obj      []float64
	Lb       []float64
	Ub       []float64
	VarTypes []int8
	VarNames []string
	Constrs  []Constr
}

func (m *MIPModel) VarCount() int {
	return len(m.Obj)
}

func (m *MIPModel) BinaryCount() int {
	count := 0
	for _, t := range m.VarTypes {
		if t == BINARY {
			count++
		}
	}
	return count
}

// AddVar appends a variable and returns its index.
func (m *MIPModel) AddVar(obj, lb, ub float64, vtype int8, name string) int32 {
	m.Obj = append(m.Obj, obj)
	m.Lb = append(m.Lb, lb)
	m.Ub = append(m.Ub, ub)
	m.VarTypes = append(m.VarTypes, vtype)
	m.VarNames = append(m.VarNames, name)
	return int32(len(m.Obj) - 1)
}

func (m *MIPModel) AddConstr(ind []int32, val []float64, sense int8, rhs float64, name string) {
	m.Constrs = append(m.Constrs, Constr{Ind: ind, Val: val, Sense: sense, Rhs: rhs, Name: name})
}

// TransportModel is a balanced transportation model over an instance. The
// flow variables x_{i,j} occupy the first SupplyCount*DemandCount indices;
// formulation-specific variables are appended behind them.
type TransportModel struct {
	*MIPModel
	Inst *Instance
	N    int //supply nodes
	M    int //demand nodes
}

// FlowIndex returns the variable index of the flow from supply node i to
// demand node j.
func (tm *TransportModel) FlowIndex(i, j int) int32 {
	return int32(i*tm.M + j)
}

// NewTransportModel creates the flow variables and both families of balance
// equalities. The objective is all-zero until SetLinearObjective or
// SetPWLObjective is called.
func NewTransportModel(inst *Instance) *TransportModel {
	tm := &TransportModel{
		MIPModel: &MIPModel{Name: inst.Name},
		Inst:     inst,
		N:        inst.SupplyCount,
		M:        inst.DemandCount,
	}

	for i := 0; i < tm.N; i++ {
		for j := 0; j < tm.M; j++ {
			ub := math.Min(inst.Supply[i], inst.Demand[j])
			tm.AddVar(0.0, 0.0, ub, CONTINUOUS, fmt.Sprintf("X_%d_%d", i, j))
		}
	}

	//supply balance: sum_j X_ij = S_i
	for i := 0; i < tm.N; i++ {
		ind := make([]int32, 0, tm.M)
		val := make([]float64, 0, tm.M)
		for j := 0; j < tm.M; j++ {
			ind = append(ind, tm.FlowIndex(i, j))
			val = append(val, 1.0)
		}
		tm.AddConstr(ind, val, EQUAL, inst.Supply[i], fmt.Sprintf("supply_%d", i))
	}

	//demand balance: sum_i X_ij = D_j
	for j := 0; j < tm.M; j++ {
		ind := make([]int32, 0, tm.N)
		val := make([]float64, 0, tm.N)
		for i := 0; i < tm.N; i++ {
			ind = append(ind, tm.FlowIndex(i, j))
			val = append(val, 1.0)
		}
		tm.AddConstr(ind, val, EQUAL, inst.Demand[j], fmt.Sprintf("demand_%d", j))
	}

	return tm
}

// SetLinearObjective prices each flow with its per-pair unit cost.
func (tm *TransportModel) SetLinearObjective() {
	for i := 0; i < tm.N; i++ {
		for j := 0; j < tm.M; j++ {
			tm.Obj[tm.FlowIndex(i, j)] = tm.Inst.Costs[i][j]
		}
	}
}

// SetPWLObjective expresses the objective through the piecewise-linear cost
// tables using the selected encoding. Each pair contributes a cost variable
// with objective coefficient 1 that is tied to its flow variable by the
// encoding's constraints.
func (tm *TransportModel) SetPWLObjective(formulation string) error {
	for i := 0; i < tm.N; i++ {
		for j := 0; j < tm.M; j++ {
			if err := tm.addPairCost(formulation, i, j); err != nil {
				return errors.Wrapf(err, "encoding pair (%d,%d)", i, j)
			}
		}
	}
	return nil
}

// BuildModel is the single entry point used by the solve driver: it creates
// the transportation constraints and installs the objective for the given
// formulation.
func BuildModel(inst *Instance, formulation string) (*TransportModel, error) {
	tm := NewTransportModel(inst)
	if formulation == FORM_LP {
		tm.SetLinearObjective()
		return tm, nil
	}
	if !IsFormulation(formulation) {
		return nil, errors.Errorf("unknown formulation %s", formulation)
	}
	if err := tm.SetPWLObjective(formulation); err != nil {
		return nil, err
	}
	return tm, nil
}
