package stattest

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CorrelationResult holds a Pearson correlation between two numeric fields.
type CorrelationResult struct {
	Status  Status  `json:"status"`
	Warning string  `json:"warning,omitempty"`
	R       float64 `json:"r"`
	N       int     `json:"n"`
}

// Pearson computes the Pearson correlation of x and y. Pairs with a NaN on
// either side are skipped. A constant series has no defined correlation
// and degrades to an insufficient-data result.
func Pearson(x, y []float64) CorrelationResult {
	res := CorrelationResult{}
	if len(x) != len(y) {
		res.Status = Insufficient
		res.Warning = "series lengths differ"
		return res
	}

	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	res.N = len(xs)
	if len(xs) < 2 {
		res.Status = Insufficient
		res.Warning = "need at least two complete pairs"
		return res
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		res.Status = Insufficient
		res.Warning = "correlation undefined (constant series)"
		return res
	}

	res.Status = Valid
	res.R = r
	return res
}

// GroupCorrelation is a per-group Pearson correlation.
type GroupCorrelation struct {
	Group  string            `json:"group"`
	Result CorrelationResult `json:"result"`
}

// PearsonByGroup computes the correlation of x and y within each group,
// in the given level order.
func PearsonByGroup(levels []string, xGroups, yGroups [][]float64) []GroupCorrelation {
	out := make([]GroupCorrelation, 0, len(levels))
	for i, level := range levels {
		out = append(out, GroupCorrelation{Group: level, Result: Pearson(xGroups[i], yGroups[i])})
	}
	return out
}
