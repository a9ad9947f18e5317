package pwlt

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// ArrayStringFlags collects repeated or comma-separated string flag values.
type ArrayStringFlags []string

func (f *ArrayStringFlags) String() string {
	return strings.Join(*f, ",")
}

func (f *ArrayStringFlags) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v != "" {
			*f = append(*f, v)
		}
	}
	return nil
}

// ArrayIntFlags collects repeated or comma-separated integer flag values.
type ArrayIntFlags []int

func (f *ArrayIntFlags) String() string {
	parts := make([]string, len(*f))
	for i, v := range *f {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (f *ArrayIntFlags) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*f = append(*f, n)
	}
	return nil
}

// EvalPWL evaluates the piecewise-linear function given by the breakpoint
// and value tables at x, clamping x to the table domain.
func EvalPWL(bp, fv []float64, x float64) float64 {
	n := len(bp)
	if x <= bp[0] {
		return fv[0]
	}
	if x >= bp[n-1] {
		return fv[n-1]
	}
	s := sort.SearchFloat64s(bp, x)
	//bp[s-1] < x <= bp[s]
	slope := (fv[s] - fv[s-1]) / (bp[s] - bp[s-1])
	return fv[s-1] + slope*(x-bp[s-1])
}

// SamplePWL returns n+1 evenly spaced (x, f(x)) samples over the table
// domain, used by the generator's plot export. n is clamped to at least 1.
func SamplePWL(bp, fv []float64, n int) [][2]float64 {
	if n < 1 {
		n = 1
	}
	points := make([][2]float64, n+1)
	lo, hi := bp[0], bp[len(bp)-1]
	for k := 0; k <= n; k++ {
		x := lo + (hi-lo)*float64(k)/float64(n)
		points[k] = [2]float64{x, EvalPWL(bp, fv, x)}
	}
	return points
}

// SanitizeJsonArrayLineBreaks collapses the line breaks json.MarshalIndent
// inserts inside numeric arrays, so instance files stay readable.
func SanitizeJsonArrayLineBreaks(json string) string {
	res := fmt.Sprintf("%s", json)
	var numbers = regexp.MustCompile(`\s*([-]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?),\s+([-]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?)(,)?`)
	var brackets = regexp.MustCompile(`\[(([-]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?,)+[-]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?)\s+\](,?)(\s+)`)
	for numbers.MatchString(res) {
		res = numbers.ReplaceAllString(res, "$1,$4$7")
	}
	for brackets.MatchString(res) {
		res = brackets.ReplaceAllString(res, "[$1]$7$8")
	}
	return res
}
