package pwlt

import (
	"fmt"

	"github.com/pkg/errors"
)

// addPairCost introduces the cost variable F_ij for the pair (i,j) and ties
// it to the flow variable X_ij through the selected piecewise-linear
// encoding over the pair's breakpoint/value table.
func (tm *TransportModel) addPairCost(formulation string, i, j int) error {
	bp := tm.Inst.Breakpoints[i][j]
	fv := tm.Inst.Values[i][j]
	if len(bp) < 2 || len(bp) != len(fv) {
		return errors.Errorf("invalid pwl table: %d breakpoints, %d values", len(bp), len(fv))
	}
	x := tm.FlowIndex(i, j)
	lo, hi := fv[0], fv[0]
	for _, f := range fv {
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}
	y := tm.AddVar(1.0, lo, hi, CONTINUOUS, fmt.Sprintf("F_%d_%d", i, j))

	switch formulation {
	case FORM_CC:
		tm.addCC(x, y, bp, fv, i, j)
	case FORM_MC:
		tm.addMC(x, y, bp, fv, i, j)
	case FORM_INC:
		tm.addIncremental(x, y, bp, fv, i, j)
	case FORM_LOG:
		tm.addLog(x, y, bp, fv, i, j)
	case FORM_DLOG:
		tm.addDisaggLog(x, y, bp, fv, i, j)
	case FORM_ZZB:
		tm.addZigZag(x, y, bp, fv, i, j)
	case FORM_ZZI:
		tm.addZigZagInteger(x, y, bp, fv, i, j)
	default:
		return errors.Errorf("unknown formulation %s", formulation)
	}
	return nil
}

// addLambdaGrid creates the convex-combination weights over the breakpoints
// together with the three aggregation equalities
//
//	sum_v L_v = 1,  sum_v bp_v*L_v = x,  sum_v fv_v*L_v = y
//
// shared by the CC, Logarithmic, ZigZag and ZigZagInteger encodings.
func (tm *TransportModel) addLambdaGrid(x, y int32, bp, fv []float64, i, j int) []int32 {
	lambda := make([]int32, len(bp))
	for v := range lambda {
		lambda[v] = tm.AddVar(0.0, 0.0, 1.0, CONTINUOUS, fmt.Sprintf("L_%d_%d_%d", i, j, v))
	}

	ind := make([]int32, len(lambda))
	val := make([]float64, len(lambda))
	copy(ind, lambda)
	for v := range val {
		val[v] = 1.0
	}
	tm.AddConstr(ind, val, EQUAL, 1.0, fmt.Sprintf("lsum_%d_%d", i, j))

	ind = append(append([]int32{}, lambda...), x)
	val = make([]float64, 0, len(lambda)+1)
	val = append(val, bp...)
	val = append(val, -1.0)
	tm.AddConstr(ind, val, EQUAL, 0.0, fmt.Sprintf("lflow_%d_%d", i, j))

	ind = append(append([]int32{}, lambda...), y)
	val = make([]float64, 0, len(lambda)+1)
	val = append(val, fv...)
	val = append(val, -1.0)
	tm.AddConstr(ind, val, EQUAL, 0.0, fmt.Sprintf("lcost_%d_%d", i, j))

	return lambda
}

// addCC is the convex combination encoding: one binary per segment, exactly
// one active, and every weight limited to the breakpoints of the active
// segment.
func (tm *TransportModel) addCC(x, y int32, bp, fv []float64, i, j int) {
	K := len(bp) - 1
	lambda := tm.addLambdaGrid(x, y, bp, fv, i, j)

	z := make([]int32, K)
	for s := range z {
		z[s] = tm.AddVar(0.0, 0.0, 1.0, BINARY, fmt.Sprintf("Z_%d_%d_%d", i, j, s))
	}

	ind := make([]int32, len(z))
	val := make([]float64, len(z))
	copy(ind, z)
	for s := range val {
		val[s] = 1.0
	}
	tm.AddConstr(ind, val, EQUAL, 1.0, fmt.Sprintf("zsum_%d_%d", i, j))

	for v := 0; v <= K; v++ {
		//breakpoint v belongs to segments v-1 and v (0-indexed segments)
		ind = []int32{lambda[v]}
		val = []float64{1.0}
		if v > 0 {
			ind = append(ind, z[v-1])
			val = append(val, -1.0)
		}
		if v < K {
			ind = append(ind, z[v])
			val = append(val, -1.0)
		}
		tm.AddConstr(ind, val, LESS_EQUAL, 0.0, fmt.Sprintf("adj_%d_%d_%d", i, j, v))
	}
}

// addMC is the multiple choice encoding: a disaggregated flow variable per
// segment, forced to zero unless its segment is selected.
func (tm *TransportModel) addMC(x, y int32, bp, fv []float64, i, j int) {
	K := len(bp) - 1

	xs := make([]int32, K)
	z := make([]int32, K)
	for s := 0; s < K; s++ {
		xs[s] = tm.AddVar(0.0, 0.0, bp[K], CONTINUOUS, fmt.Sprintf("XS_%d_%d_%d", i, j, s))
		z[s] = tm.AddVar(0.0, 0.0, 1.0, BINARY, fmt.Sprintf("Z_%d_%d_%d", i, j, s))
	}

	ind := make([]int32, len(z))
	val := make([]float64, len(z))
	copy(ind, z)
	for s := range val {
		val[s] = 1.0
	}
	tm.AddConstr(ind, val, EQUAL, 1.0, fmt.Sprintf("zsum_%d_%d", i, j))

	ind = append(append([]int32{}, xs...), x)
	val = make([]float64, 0, K+1)
	for s := 0; s < K; s++ {
		val = append(val, 1.0)
	}
	val = append(val, -1.0)
	tm.AddConstr(ind, val, EQUAL, 0.0, fmt.Sprintf("xsum_%d_%d", i, j))

	//y = sum_s slope_s*xs_s + (fv_s - slope_s*bp_s)*z_s
	ind = make([]int32, 0, 2*K+1)
	val = make([]float64, 0, 2*K+1)
	for s := 0; s < K; s++ {
		slope := (fv[s+1] - fv[s]) / (bp[s+1] - bp[s])
		ind = append(ind, xs[s], z[s])
		val = append(val, slope, fv[s]-slope*bp[s])
	}
	ind = append(ind, y)
	val = append(val, -1.0)
	tm.AddConstr(ind, val, EQUAL, 0.0, fmt.Sprintf("ycost_%d_%d", i, j))

	for s := 0; s < K; s++ {
		tm.AddConstr([]int32{xs[s], z[s]}, []float64{1.0, -bp[s+1]}, LESS_EQUAL, 0.0, fmt.Sprintf("mcub_%d_%d_%d", i, j, s))
		tm.AddConstr([]int32{xs[s], z[s]}, []float64{1.0, -bp[s]}, GREATER_EQUAL, 0.0, fmt.Sprintf("mclb_%d_%d_%d", i, j, s))
	}
}

// addIncremental is the delta encoding: one bounded filling variable per
// segment, with binaries enforcing that a segment only opens once its
// predecessor is full.
func (tm *TransportModel) addIncremental(x, y int32, bp, fv []float64, i, j int) {
	K := len(bp) - 1

	delta := make([]int32, K)
	for s := 0; s < K; s++ {
		delta[s] = tm.AddVar(0.0, 0.0, bp[s+1]-bp[s], CONTINUOUS, fmt.Sprintf("D_%d_%d_%d", i, j, s))
	}
	z := make([]int32, 0, K-1)
	for s := 0; s < K-1; s++ {
		z = append(z, tm.AddVar(0.0, 0.0, 1.0, BINARY, fmt.Sprintf("Z_%d_%d_%d", i, j, s)))
	}

	//x = bp_0 + sum_s delta_s
	ind := append(append([]int32{}, delta...), x)
	val := make([]float64, 0, K+1)
	for s := 0; s < K; s++ {
		val = append(val, 1.0)
	}
	val = append(val, -1.0)
	tm.AddConstr(ind, val, EQUAL, -bp[0], fmt.Sprintf("dflow_%d_%d", i, j))

	//y = fv_0 + sum_s slope_s*delta_s
	ind = append(append([]int32{}, delta...), y)
	val = make([]float64, 0, K+1)
	for s := 0; s < K; s++ {
		val = append(val, (fv[s+1]-fv[s])/(bp[s+1]-bp[s]))
	}
	val = append(val, -1.0)
	tm.AddConstr(ind, val, EQUAL, -fv[0], fmt.Sprintf("dcost_%d_%d", i, j))

	for s := 0; s < K-1; s++ {
		wCur := bp[s+1] - bp[s]
		wNext := bp[s+2] - bp[s+1]
		//delta_s >= w_s*z_s : segment s must be full before s+1 opens
		tm.AddConstr([]int32{delta[s], z[s]}, []float64{1.0, -wCur}, GREATER_EQUAL, 0.0, fmt.Sprintf("dfill_%d_%d_%d", i, j, s))
		//delta_{s+1} <= w_{s+1}*z_s
		tm.AddConstr([]int32{delta[s+1], z[s]}, []float64{1.0, -wNext}, LESS_EQUAL, 0.0, fmt.Sprintf("dopen_%d_%d_%d", i, j, s))
	}
}

// addLog is the logarithmic encoding: reflected Gray codes over the
// segments branched with unit hyperplanes.
func (tm *TransportModel) addLog(x, y int32, bp, fv []float64, i, j int) {
	K := len(bp) - 1
	r := ceilLog2(K)
	lambda := tm.addLambdaGrid(x, y, bp, fv, i, j)

	z := make([]int32, r)
	for t := 0; t < r; t++ {
		z[t] = tm.AddVar(0.0, 0.0, 1.0, BINARY, fmt.Sprintf("Z_%d_%d_%d", i, j, t))
	}
	tm.addSOS2Encoding(lambda, z, grayCodes(r, K), unitHyperplanes(r), i, j)
}

// addZigZag is the binary zigzag encoding of Huchette and Vielma: binary
// counting codes branched with the zigzag hyperplanes.
func (tm *TransportModel) addZigZag(x, y int32, bp, fv []float64, i, j int) {
	K := len(bp) - 1
	r := ceilLog2(K)
	lambda := tm.addLambdaGrid(x, y, bp, fv, i, j)

	z := make([]int32, r)
	for t := 0; t < r; t++ {
		z[t] = tm.AddVar(0.0, 0.0, 1.0, BINARY, fmt.Sprintf("Z_%d_%d_%d", i, j, t))
	}
	tm.addSOS2Encoding(lambda, z, zigzagCodes(r, K), zigzagHyperplanes(r), i, j)
}

// addZigZagInteger is the general integer zigzag encoding: integer zigzag
// codes branched with unit hyperplanes. The bounds of the integer variables
// are taken from the codes actually in use.
func (tm *TransportModel) addZigZagInteger(x, y int32, bp, fv []float64, i, j int) {
	K := len(bp) - 1
	r := ceilLog2(K)
	lambda := tm.addLambdaGrid(x, y, bp, fv, i, j)

	codes := integerZigzagCodes(r, K)
	z := make([]int32, r)
	for t := 0; t < r; t++ {
		ub := 0
		for _, c := range codes {
			if c[t] > ub {
				ub = c[t]
			}
		}
		z[t] = tm.AddVar(0.0, 0.0, float64(ub), INTEGER, fmt.Sprintf("Z_%d_%d_%d", i, j, t))
	}
	tm.addSOS2Encoding(lambda, z, codes, unitHyperplanes(r), i, j)
}

// addDisaggLog is the disaggregated logarithmic encoding: two weights per
// segment located at its endpoints, with binary-coded segment selection.
func (tm *TransportModel) addDisaggLog(x, y int32, bp, fv []float64, i, j int) {
	K := len(bp) - 1
	r := ceilLog2(K)

	left := make([]int32, K)
	right := make([]int32, K)
	for s := 0; s < K; s++ {
		left[s] = tm.AddVar(0.0, 0.0, 1.0, CONTINUOUS, fmt.Sprintf("LL_%d_%d_%d", i, j, s))
		right[s] = tm.AddVar(0.0, 0.0, 1.0, CONTINUOUS, fmt.Sprintf("LR_%d_%d_%d", i, j, s))
	}
	z := make([]int32, r)
	for t := 0; t < r; t++ {
		z[t] = tm.AddVar(0.0, 0.0, 1.0, BINARY, fmt.Sprintf("Z_%d_%d_%d", i, j, t))
	}

	ind := make([]int32, 0, 2*K)
	val := make([]float64, 0, 2*K)
	for s := 0; s < K; s++ {
		ind = append(ind, left[s], right[s])
		val = append(val, 1.0, 1.0)
	}
	tm.AddConstr(ind, val, EQUAL, 1.0, fmt.Sprintf("lsum_%d_%d", i, j))

	ind = make([]int32, 0, 2*K+1)
	val = make([]float64, 0, 2*K+1)
	for s := 0; s < K; s++ {
		ind = append(ind, left[s], right[s])
		val = append(val, bp[s], bp[s+1])
	}
	ind = append(ind, x)
	val = append(val, -1.0)
	tm.AddConstr(ind, val, EQUAL, 0.0, fmt.Sprintf("lflow_%d_%d", i, j))

	ind = make([]int32, 0, 2*K+1)
	val = make([]float64, 0, 2*K+1)
	for s := 0; s < K; s++ {
		ind = append(ind, left[s], right[s])
		val = append(val, fv[s], fv[s+1])
	}
	ind = append(ind, y)
	val = append(val, -1.0)
	tm.AddConstr(ind, val, EQUAL, 0.0, fmt.Sprintf("lcost_%d_%d", i, j))

	for t := 0; t < r; t++ {
		indOn := make([]int32, 0, 2*K+1)
		valOn := make([]float64, 0, 2*K+1)
		indOff := make([]int32, 0, 2*K+1)
		valOff := make([]float64, 0, 2*K+1)
		for s := 0; s < K; s++ {
			if (s>>t)&1 == 1 {
				indOn = append(indOn, left[s], right[s])
				valOn = append(valOn, 1.0, 1.0)
			} else {
				indOff = append(indOff, left[s], right[s])
				valOff = append(valOff, 1.0, 1.0)
			}
		}
		indOn = append(indOn, z[t])
		valOn = append(valOn, -1.0)
		tm.AddConstr(indOn, valOn, LESS_EQUAL, 0.0, fmt.Sprintf("bit1_%d_%d_%d", i, j, t))
		indOff = append(indOff, z[t])
		valOff = append(valOff, 1.0)
		tm.AddConstr(indOff, valOff, LESS_EQUAL, 1.0, fmt.Sprintf("bit0_%d_%d_%d", i, j, t))
	}
}

// addSOS2Encoding adds the generic sandwich constraints
//
//	sum_v min(<b,c_s>: s incident to v)*L_v <= <b,z> <= sum_v max(...)*L_v
//
// for every hyperplane b, where c_s is the code of segment s. Together with
// the weight aggregation this enforces SOS2 on the lambda grid (Vielma and
// Nemhauser; Huchette and Vielma).
func (tm *TransportModel) addSOS2Encoding(lambda, z []int32, codes, hyperplanes [][]int, i, j int) {
	K := len(codes)
	for h, b := range hyperplanes {
		dots := make([]int, K)
		for s := 0; s < K; s++ {
			d := 0
			for t := range b {
				d += b[t] * codes[s][t]
			}
			dots[s] = d
		}

		indLo := make([]int32, 0, K+len(z)+1)
		valLo := make([]float64, 0, K+len(z)+1)
		indUp := make([]int32, 0, K+len(z)+1)
		valUp := make([]float64, 0, K+len(z)+1)
		for v := 0; v <= K; v++ {
			//breakpoint v is incident to segments v-1 and v (0-indexed)
			lo, up := 0, 0
			switch {
			case v == 0:
				lo, up = dots[0], dots[0]
			case v == K:
				lo, up = dots[K-1], dots[K-1]
			default:
				lo, up = dots[v-1], dots[v]
				if lo > up {
					lo, up = up, lo
				}
			}
			if lo != 0 {
				indLo = append(indLo, lambda[v])
				valLo = append(valLo, float64(lo))
			}
			if up != 0 {
				indUp = append(indUp, lambda[v])
				valUp = append(valUp, float64(up))
			}
		}
		for t := range z {
			if b[t] != 0 {
				indLo = append(indLo, z[t])
				valLo = append(valLo, -float64(b[t]))
				indUp = append(indUp, z[t])
				valUp = append(valUp, -float64(b[t]))
			}
		}
		tm.AddConstr(indLo, valLo, LESS_EQUAL, 0.0, fmt.Sprintf("enclo_%d_%d_%d", i, j, h))
		tm.AddConstr(indUp, valUp, GREATER_EQUAL, 0.0, fmt.Sprintf("encup_%d_%d_%d", i, j, h))
	}
}

// ceilLog2 returns the smallest r with 2^r >= n.
func ceilLog2(n int) int {
	r := 0
	for 1<<r < n {
		r++
	}
	return r
}

// grayCodes returns the first n codes of the r-bit reflected Gray code
// sequence, least significant bit first.
func grayCodes(r, n int) [][]int {
	codes := make([][]int, n)
	for s := 0; s < n; s++ {
		g := s ^ (s >> 1)
		code := make([]int, r)
		for t := 0; t < r; t++ {
			code[t] = (g >> t) & 1
		}
		codes[s] = code
	}
	return codes
}

// zigzagCodes returns the first n codes of the r-bit binary counting
// sequence, least significant bit first. Combined with the zigzag
// hyperplanes these form a valid SOS2 branching scheme.
func zigzagCodes(r, n int) [][]int {
	codes := make([][]int, n)
	for s := 0; s < n; s++ {
		code := make([]int, r)
		for t := 0; t < r; t++ {
			code[t] = (s >> t) & 1
		}
		codes[s] = code
	}
	return codes
}

// zigzagHyperplanes returns the r zigzag branching directions: direction t
// has coefficient 1 at position t and 2^(u-t-1) at every position u > t.
func zigzagHyperplanes(r int) [][]int {
	hps := make([][]int, r)
	for t := 0; t < r; t++ {
		hp := make([]int, r)
		hp[t] = 1
		for u := t + 1; u < r; u++ {
			hp[u] = 1 << (u - t - 1)
		}
		hps[t] = hp
	}
	return hps
}

// unitHyperplanes returns the r coordinate directions.
func unitHyperplanes(r int) [][]int {
	hps := make([][]int, r)
	for t := 0; t < r; t++ {
		hp := make([]int, r)
		hp[t] = 1
		hps[t] = hp
	}
	return hps
}

// integerZigzagCodes returns the first n of the 2^r general integer zigzag
// codes: the sequence doubles by appending 0 to the first half and 1 to the
// offset-shifted second half.
func integerZigzagCodes(r, n int) [][]int {
	full := buildIntegerZigzag(r)
	return full[:n]
}

func buildIntegerZigzag(r int) [][]int {
	if r == 0 {
		return [][]int{{}}
	}
	if r == 1 {
		return [][]int{{0}, {1}}
	}
	prev := buildIntegerZigzag(r - 1)
	out := make([][]int, 0, 2*len(prev))
	for _, c := range prev {
		code := make([]int, 0, r)
		code = append(code, c...)
		code = append(code, 0)
		out = append(out, code)
	}
	for _, c := range prev {
		code := make([]int, 0, r)
		for t, v := range c {
			code = append(code, v+(1<<t))
		}
		code = append(code, 1)
		out = append(out, code)
	}
	return out
}
