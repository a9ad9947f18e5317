package pwlt

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInstanceBalanced(t *testing.T) {
	inst, err := GenerateInstance(4, 7, 5, 0)
	require.NoError(t, err)

	totalSupply := 0.0
	for _, s := range inst.Supply {
		totalSupply += s
	}
	totalDemand := 0.0
	for _, d := range inst.Demand {
		totalDemand += d
	}
	assert.InDelta(t, totalSupply, totalDemand, 1e-9, "transportation instance must be balanced")
}

func TestGenerateInstanceTables(t *testing.T) {
	inst, err := GenerateInstance(3, 2, 4, 0)
	require.NoError(t, err)

	for i := 0; i < inst.SupplyCount; i++ {
		for j := 0; j < inst.DemandCount; j++ {
			bp := inst.Breakpoints[i][j]
			fv := inst.Values[i][j]
			require.Len(t, bp, inst.SegmentCount+1)
			require.Len(t, fv, inst.SegmentCount+1)

			assert.Equal(t, 0.0, bp[0])
			ub := math.Min(inst.Supply[i], inst.Demand[j])
			assert.InDelta(t, ub, bp[len(bp)-1], 1e-12)

			prevSlope := math.Inf(1)
			for s := 1; s < len(bp); s++ {
				assert.Greater(t, bp[s], bp[s-1], "breakpoints must be increasing")
				slope := (fv[s] - fv[s-1]) / (bp[s] - bp[s-1])
				assert.LessOrEqual(t, slope, prevSlope+1e-9, "slopes must be sorted descending")
				prevSlope = slope
			}
		}
	}
}

func TestGenerateInstanceDeterministic(t *testing.T) {
	a, err := GenerateInstance(5, 5, 3, 0)
	require.NoError(t, err)
	b, err := GenerateInstance(5, 5, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, a, b, "identical dimensions must produce identical instances")

	c, err := GenerateInstance(5, 5, 3, 12345)
	require.NoError(t, err)
	assert.NotEqual(t, a.Supply, c.Supply, "an explicit seed must change the data")
}

func TestGenerateInstanceSmallExample(t *testing.T) {
	inst, err := GenerateInstance(1, 1, 3, 0)
	require.NoError(t, err)

	bp := inst.Breakpoints[0][0]
	require.Len(t, bp, 4)
	assert.Equal(t, 0.0, bp[0])
	assert.InDelta(t, math.Min(inst.Supply[0], inst.Demand[0]), bp[3], 1e-12)
	//demand is rescaled to the single supply, so the domain is the full supply
	assert.InDelta(t, inst.Supply[0], inst.Demand[0], 1e-9)
}

func TestGenerateInstanceRejectsBadDimensions(t *testing.T) {
	for _, dims := range [][3]int{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}, {-2, 3, 3}} {
		_, err := GenerateInstance(dims[0], dims[1], dims[2], 0)
		assert.Error(t, err, "dims %v", dims)
	}
}

func TestDimensionSeedStable(t *testing.T) {
	assert.Equal(t, DimensionSeed(2, 3, 4), DimensionSeed(2, 3, 4))
	assert.NotEqual(t, DimensionSeed(2, 3, 4), DimensionSeed(3, 2, 4))
}

func TestRepeatSeedOffsetsRepeats(t *testing.T) {
	assert.Equal(t, DimensionSeed(2, 3, 4), RepeatSeed(2, 3, 4, 0, 0))
	assert.Equal(t, DimensionSeed(2, 3, 4)+2, RepeatSeed(2, 3, 4, 0, 2))

	//an explicit base seed must still vary across repeats
	assert.Equal(t, int64(99), RepeatSeed(2, 3, 4, 99, 0))
	assert.Equal(t, int64(102), RepeatSeed(2, 3, 4, 99, 3))

	a, err := GenerateInstance(2, 2, 2, RepeatSeed(2, 2, 2, 99, 0))
	require.NoError(t, err)
	b, err := GenerateInstance(2, 2, 2, RepeatSeed(2, 2, 2, 99, 1))
	require.NoError(t, err)
	assert.NotEqual(t, a.Supply, b.Supply, "repeats of an explicit seed must differ")
}
