// Package stats provides the descriptive statistics shared by the analysis
// pipelines: eight-number summaries, interpolated quantiles, and IQR outlier
// fences.
package stats

import (
	"encoding/json"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the descriptive statistics reported for one numeric field.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// MarshalJSON encodes undefined statistics (NaN, e.g. the stddev of a
// single observation) as null, since JSON has no NaN literal.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		StdDev *float64 `json:"std"`
		Min    *float64 `json:"min"`
		Q1     *float64 `json:"q1"`
		Median *float64 `json:"median"`
		Q3     *float64 `json:"q3"`
		Max    *float64 `json:"max"`
	}{
		Count:  s.Count,
		Mean:   nanToNil(s.Mean),
		StdDev: nanToNil(s.StdDev),
		Min:    nanToNil(s.Min),
		Q1:     nanToNil(s.Q1),
		Median: nanToNil(s.Median),
		Q3:     nanToNil(s.Q3),
		Max:    nanToNil(s.Max),
	})
}

func nanToNil(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// Describe computes a Summary over values. NaN entries are skipped. An empty
// (or all-NaN) input yields a zero-count Summary with NaN statistics.
func Describe(values []float64) Summary {
	clean := dropNaN(values)
	if len(clean) == 0 {
		nan := math.NaN()
		return Summary{Count: 0, Mean: nan, StdDev: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	}

	sorted := make([]float64, len(clean))
	copy(sorted, clean)
	sort.Float64s(sorted)

	std := math.NaN()
	if len(clean) > 1 {
		std = stat.StdDev(clean, nil)
	}

	return Summary{
		Count:  len(clean),
		Mean:   stat.Mean(clean, nil),
		StdDev: std,
		Min:    sorted[0],
		Q1:     quantileSorted(sorted, 0.25),
		Median: quantileSorted(sorted, 0.5),
		Q3:     quantileSorted(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

// Quantile returns the p-quantile of values (0 <= p <= 1) using linear
// interpolation between order statistics, the same convention dataframe
// libraries default to. Returns NaN for an empty input.
func Quantile(values []float64, p float64) float64 {
	clean := dropNaN(values)
	if len(clean) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(clean))
	copy(sorted, clean)
	sort.Float64s(sorted)
	return quantileSorted(sorted, p)
}

// quantileSorted assumes sorted, non-empty, NaN-free input.
func quantileSorted(sorted []float64, p float64) float64 {
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

// Fences returns the IQR outlier fences [Q1-k*IQR, Q3+k*IQR] for values.
// The conventional multiplier k is 1.5.
func Fences(values []float64, k float64) (lo, hi float64) {
	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr
}

// QCut assigns each value a quantile bucket index in [0, q). Bucket edges
// are the i/q quantiles of the full slice; values at an edge fall into the
// lower bucket, matching a right-closed quantile cut. NaN values map to -1.
func QCut(values []float64, q int) []int {
	edges := make([]float64, q-1)
	for i := 1; i < q; i++ {
		edges[i-1] = Quantile(values, float64(i)/float64(q))
	}

	out := make([]int, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = -1
			continue
		}
		bucket := q - 1
		for j, edge := range edges {
			if v <= edge {
				bucket = j
				break
			}
		}
		out[i] = bucket
	}
	return out
}

func dropNaN(values []float64) []float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	return clean
}
