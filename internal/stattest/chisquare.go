package stattest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// lowExpectedThreshold is the conventional minimum expected cell count for
// the chi-square approximation to hold.
const lowExpectedThreshold = 5

// ChiSquareResult holds a chi-square test of independence between two
// categorical fields.
type ChiSquareResult struct {
	Status    Status      `json:"status"`
	Warning   string      `json:"warning,omitempty"`
	Statistic float64     `json:"statistic"`
	PValue    float64     `json:"p_value"`
	DF        int         `json:"df"`
	RowLevels []string    `json:"row_levels"`
	ColLevels []string    `json:"col_levels"`
	Observed  [][]float64 `json:"observed"`
	Expected  [][]float64 `json:"expected"`
	N         int         `json:"n"`
}

// ChiSquareIndependence builds the contingency table of rows x cols and
// tests whether the two fields are independent. Yates continuity
// correction applies on one degree of freedom, matching the common library
// default. Low expected counts produce a warning, not a failure.
func ChiSquareIndependence(rowVals, colVals []string) ChiSquareResult {
	res := ChiSquareResult{}
	if len(rowVals) != len(colVals) {
		res.Status = Insufficient
		res.Warning = "field lengths differ"
		return res
	}

	res.RowLevels = distinct(rowVals)
	res.ColLevels = distinct(colVals)
	r, c := len(res.RowLevels), len(res.ColLevels)
	if r < 2 || c < 2 {
		res.Status = Insufficient
		res.Warning = "both fields need at least 2 levels"
		return res
	}

	rowIdx := map[string]int{}
	for i, l := range res.RowLevels {
		rowIdx[l] = i
	}
	colIdx := map[string]int{}
	for i, l := range res.ColLevels {
		colIdx[l] = i
	}

	observed := make([][]float64, r)
	for i := range observed {
		observed[i] = make([]float64, c)
	}
	for k := range rowVals {
		observed[rowIdx[rowVals[k]]][colIdx[colVals[k]]]++
	}

	rowTotals := make([]float64, r)
	colTotals := make([]float64, c)
	total := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			rowTotals[i] += observed[i][j]
			colTotals[j] += observed[i][j]
			total += observed[i][j]
		}
	}

	expected := make([][]float64, r)
	lowCells := 0
	for i := range expected {
		expected[i] = make([]float64, c)
		for j := range expected[i] {
			expected[i][j] = rowTotals[i] * colTotals[j] / total
			if expected[i][j] < lowExpectedThreshold {
				lowCells++
			}
		}
	}

	dof := (r - 1) * (c - 1)
	yates := dof == 1

	statistic := 0.0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			diff := math.Abs(observed[i][j] - expected[i][j])
			if yates {
				diff = math.Max(0, diff-0.5)
			}
			statistic += diff * diff / expected[i][j]
		}
	}

	res.Status = Valid
	res.Observed = observed
	res.Expected = expected
	res.N = int(total)
	res.DF = dof
	res.Statistic = statistic
	res.PValue = distuv.ChiSquared{K: float64(dof)}.Survival(statistic)
	if lowCells > 0 {
		res.Warning = fmt.Sprintf("%d expected cells below %d; chi-square approximation may be unreliable", lowCells, lowExpectedThreshold)
	}
	return res
}
