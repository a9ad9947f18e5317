package pwlt

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

// DimensionSeed derives the default RNG seed from the instance dimensions,
// so that identical dimensions always produce identical instances.
func DimensionSeed(nSupply, nDemand, nSegments int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d/%d/%d", nSupply, nDemand, nSegments)
	return int64(h.Sum64())
}

// RepeatSeed returns the seed of the repeat-th instance of a dimension
// combination. A base seed of 0 selects the seed derived from the
// dimensions; every repeat offsets the base by its index, so repeated
// instances differ while staying reproducible.
func RepeatSeed(nSupply, nDemand, nSegments int, seed int64, repeat int) int64 {
	if seed == 0 {
		seed = DimensionSeed(nSupply, nDemand, nSegments)
	}
	return seed + int64(repeat)
}

// GenerateInstance builds a balanced transportation instance with a
// piecewise-linear cost table per (supply, demand) pair. A seed of 0 selects
// the seed derived from the dimensions.
//
// The demand vector is rescaled by sum(supply)/sum(demand), so the instance
// satisfies sum(Supply) == sum(Demand) up to floating point.
//
// For each pair the domain [0, min(supply, demand)] is split into nSegments
// equal-width intervals. Segment slopes are drawn uniformly from [0,1) and
// sorted in descending order before being accumulated into the value table,
// which makes every generated function concave and non-decreasing.
func GenerateInstance(nSupply, nDemand, nSegments int, seed int64) (*Instance, error) {
	if nSupply < 1 {
		return nil, errors.Errorf("supply node count must be positive, got %d", nSupply)
	}
	if nDemand < 1 {
		return nil, errors.Errorf("demand node count must be positive, got %d", nDemand)
	}
	if nSegments < 1 {
		return nil, errors.Errorf("segment count must be positive, got %d", nSegments)
	}
	if seed == 0 {
		seed = DimensionSeed(nSupply, nDemand, nSegments)
	}
	rng := rand.New(rand.NewSource(seed))

	inst := &Instance{
		Name:         fmt.Sprintf("pwlt_%d_%d_%d", nSupply, nDemand, nSegments),
		Comment:      fmt.Sprintf("transportation instance with %d supply nodes, %d demand nodes and %d segments per cost function", nSupply, nDemand, nSegments),
		Type:         "pwlTransport",
		SupplyCount:  nSupply,
		DemandCount:  nDemand,
		SegmentCount: nSegments,
		Seed:         seed,
	}

	inst.Supply = make([]float64, nSupply)
	totalSupply := 0.0
	for i := range inst.Supply {
		inst.Supply[i] = rng.Float64()
		totalSupply += inst.Supply[i]
	}

	inst.Demand = make([]float64, nDemand)
	totalDemand := 0.0
	for j := range inst.Demand {
		inst.Demand[j] = rng.Float64()
		totalDemand += inst.Demand[j]
	}
	//rescale so the transportation problem is exactly balanced
	ratio := totalSupply / totalDemand
	for j := range inst.Demand {
		inst.Demand[j] *= ratio
	}

	inst.Costs = make([][]float64, nSupply)
	for i := range inst.Costs {
		inst.Costs[i] = make([]float64, nDemand)
		for j := range inst.Costs[i] {
			inst.Costs[i][j] = rng.Float64()
		}
	}

	inst.Breakpoints = make([][][]float64, nSupply)
	inst.Values = make([][][]float64, nSupply)
	for i := 0; i < nSupply; i++ {
		inst.Breakpoints[i] = make([][]float64, nDemand)
		inst.Values[i] = make([][]float64, nDemand)
		for j := 0; j < nDemand; j++ {
			ub := math.Min(inst.Supply[i], inst.Demand[j])
			width := ub / float64(nSegments)

			slopes := make([]float64, nSegments)
			for s := range slopes {
				slopes[s] = rng.Float64()
			}
			sort.Sort(sort.Reverse(sort.Float64Slice(slopes)))

			bp := make([]float64, nSegments+1)
			fv := make([]float64, nSegments+1)
			for s := 1; s <= nSegments; s++ {
				bp[s] = float64(s) * width
				fv[s] = fv[s-1] + slopes[s-1]*width
			}
			bp[nSegments] = ub //the accumulated value may be off by an ulp

			inst.Breakpoints[i][j] = bp
			inst.Values[i][j] = fv
		}
	}

	return inst, nil
}
