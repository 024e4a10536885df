package stattest

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult holds a pooled-variance two-sample t-test.
type TTestResult struct {
	Status    Status  `json:"status"`
	Warning   string  `json:"warning,omitempty"`
	GroupA    string  `json:"group_a"`
	GroupB    string  `json:"group_b"`
	NA        int     `json:"n_a"`
	NB        int     `json:"n_b"`
	Statistic float64 `json:"statistic"`
	DF        float64 `json:"df"`
	PValue    float64 `json:"p_value"`
}

// TwoSampleTTest compares the means of a and b with the equal-variance
// (pooled) Student's t-test and a two-sided p-value.
func TwoSampleTTest(nameA string, a []float64, nameB string, b []float64) TTestResult {
	res := TTestResult{GroupA: nameA, GroupB: nameB, NA: len(a), NB: len(b)}

	if len(a) < 2 || len(b) < 2 {
		res.Status = Insufficient
		res.Warning = "each group needs at least two observations"
		return res
	}

	meanA, varA := stat.MeanVariance(a, nil)
	meanB, varB := stat.MeanVariance(b, nil)
	nA, nB := float64(len(a)), float64(len(b))

	df := nA + nB - 2
	pooled := ((nA-1)*varA + (nB-1)*varB) / df
	if pooled == 0 {
		if meanA == meanB {
			res.Status = Insufficient
			res.Warning = "both groups are constant and identical"
			return res
		}
		// Constant groups with different means: infinitely significant.
		res.Status = Valid
		res.Statistic = math.Inf(sign(meanA - meanB))
		res.DF = df
		res.PValue = 0
		return res
	}

	t := (meanA - meanB) / math.Sqrt(pooled*(1/nA+1/nB))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}

	res.Status = Valid
	res.Statistic = t
	res.DF = df
	res.PValue = 2 * dist.CDF(-math.Abs(t))
	return res
}

// TTestFirstTwoGroups compares the first two levels (in first-appearance
// order) of a grouped field. When more than two levels exist the extra
// ones are ignored and the result carries a warning naming them, so the
// ambiguity is surfaced rather than silent.
func TTestFirstTwoGroups(levels []string, groups [][]float64) TTestResult {
	if len(levels) < 2 {
		return TTestResult{
			Status:  Insufficient,
			Warning: fmt.Sprintf("need two groups, have %d", len(levels)),
		}
	}
	res := TwoSampleTTest(levels[0], groups[0], levels[1], groups[1])
	if len(levels) > 2 && res.Status == Valid {
		res.Warning = fmt.Sprintf("more than two levels present; ignored: %s",
			strings.Join(levels[2:], ", "))
	}
	return res
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
