package pwlt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransportModelStructure(t *testing.T) {
	inst, err := GenerateInstance(3, 4, 2, 0)
	require.NoError(t, err)

	tm := NewTransportModel(inst)
	assert.Equal(t, 12, tm.VarCount())
	assert.Equal(t, 7, len(tm.Constrs))

	//every flow variable appears in exactly one supply and one demand equality
	seen := make([]int, tm.VarCount())
	for _, c := range tm.Constrs {
		assert.Equal(t, EQUAL, c.Sense)
		for _, ind := range c.Ind {
			seen[ind]++
		}
	}
	for v, n := range seen {
		assert.Equal(t, 2, n, "flow variable %s", tm.VarNames[v])
	}
}

func TestFlowIndex(t *testing.T) {
	inst, err := GenerateInstance(2, 3, 2, 0)
	require.NoError(t, err)
	tm := NewTransportModel(inst)

	assert.Equal(t, int32(0), tm.FlowIndex(0, 0))
	assert.Equal(t, int32(2), tm.FlowIndex(0, 2))
	assert.Equal(t, int32(3), tm.FlowIndex(1, 0))
	assert.Equal(t, "X_1_2", tm.VarNames[tm.FlowIndex(1, 2)])
}

func TestSetLinearObjective(t *testing.T) {
	inst, err := GenerateInstance(2, 2, 2, 0)
	require.NoError(t, err)
	tm, err := BuildModel(inst, FORM_LP)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.Equal(t, inst.Costs[i][j], tm.Obj[tm.FlowIndex(i, j)])
		}
	}
	assert.Equal(t, 0, tm.BinaryCount())
}

func TestBuildModelUnknownFormulation(t *testing.T) {
	inst, err := GenerateInstance(1, 1, 2, 0)
	require.NoError(t, err)
	_, err = BuildModel(inst, "SOS2")
	assert.Error(t, err)
}
