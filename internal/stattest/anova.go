package stattest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// OneWayResult holds a one-way ANOVA over k groups.
type OneWayResult struct {
	Status    Status  `json:"status"`
	Warning   string  `json:"warning,omitempty"`
	Groups    int     `json:"groups"`
	N         int     `json:"n"`
	F         float64 `json:"f_statistic"`
	DFBetween int     `json:"df_between"`
	DFWithin  int     `json:"df_within"`
	PValue    float64 `json:"p_value"`
}

// OneWayANOVA tests whether the group means differ more than chance
// explains. Fewer than two non-empty groups degrades to an
// insufficient-data result with a warning rather than an error.
func OneWayANOVA(groups [][]float64) OneWayResult {
	var nonEmpty [][]float64
	for _, g := range groups {
		if len(g) > 0 {
			nonEmpty = append(nonEmpty, g)
		}
	}

	res := OneWayResult{Groups: len(nonEmpty)}
	if len(nonEmpty) < 2 {
		res.Status = Insufficient
		res.Warning = fmt.Sprintf("need at least 2 groups for ANOVA, have %d", len(nonEmpty))
		return res
	}

	n := 0
	var grandSum float64
	for _, g := range nonEmpty {
		n += len(g)
		for _, v := range g {
			grandSum += v
		}
	}
	grandMean := grandSum / float64(n)

	var ssBetween, ssWithin float64
	for _, g := range nonEmpty {
		mean := stat.Mean(g, nil)
		ssBetween += float64(len(g)) * (mean - grandMean) * (mean - grandMean)
		for _, v := range g {
			ssWithin += (v - mean) * (v - mean)
		}
	}

	res.N = n
	res.DFBetween = len(nonEmpty) - 1
	res.DFWithin = n - len(nonEmpty)
	if res.DFWithin <= 0 {
		res.Status = Insufficient
		res.Warning = "not enough observations for a within-group variance estimate"
		return res
	}

	msBetween := ssBetween / float64(res.DFBetween)
	msWithin := ssWithin / float64(res.DFWithin)

	switch {
	case msWithin == 0 && msBetween == 0:
		res.Status = Insufficient
		res.Warning = "all groups are constant and identical"
		return res
	case msWithin == 0:
		// Perfect separation of constant groups.
		res.Status = Valid
		res.F = math.Inf(1)
		res.PValue = 0
		return res
	}

	res.Status = Valid
	res.F = msBetween / msWithin
	dist := distuv.F{D1: float64(res.DFBetween), D2: float64(res.DFWithin)}
	res.PValue = dist.Survival(res.F)
	return res
}
