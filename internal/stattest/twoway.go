package stattest

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ANOVATerm is one row of a two-way ANOVA table.
type ANOVATerm struct {
	Name   string  `json:"name"`
	SumSq  float64 `json:"sum_sq"`
	DF     int     `json:"df"`
	F      float64 `json:"f_statistic"`
	PValue float64 `json:"p_value"`
}

// TwoWayResult holds a factorial two-way ANOVA with interaction, using
// Type II sums of squares and the full-model residual for the F tests.
type TwoWayResult struct {
	Status   Status      `json:"status"`
	Warning  string      `json:"warning,omitempty"`
	FactorA  string      `json:"factor_a"`
	FactorB  string      `json:"factor_b"`
	Terms    []ANOVATerm `json:"terms"`
	Residual ANOVATerm   `json:"residual"`
	N        int         `json:"n"`
}

// TwoWayANOVA decomposes the variance of y by the two categorical factors
// a and b plus their interaction. Factor levels are taken in
// first-appearance order; a constant factor yields an insufficient-data
// result.
func TwoWayANOVA(nameA, nameB string, y []float64, a, b []string) TwoWayResult {
	res := TwoWayResult{FactorA: nameA, FactorB: nameB, N: len(y)}
	if len(y) != len(a) || len(y) != len(b) {
		res.Status = Insufficient
		res.Warning = "factor and response lengths differ"
		return res
	}

	levelsA := distinct(a)
	levelsB := distinct(b)
	if len(levelsA) < 2 {
		res.Status = Insufficient
		res.Warning = fmt.Sprintf("factor %s has fewer than 2 levels", nameA)
		return res
	}
	if len(levelsB) < 2 {
		res.Status = Insufficient
		res.Warning = fmt.Sprintf("factor %s has fewer than 2 levels", nameB)
		return res
	}

	dfA := len(levelsA) - 1
	dfB := len(levelsB) - 1
	dfAB := dfA * dfB
	dfResid := len(y) - len(levelsA)*len(levelsB)
	if dfResid <= 0 {
		res.Status = Insufficient
		res.Warning = "not enough observations for the interaction model"
		return res
	}

	dumA := dummyCode(a, levelsA)
	dumB := dummyCode(b, levelsB)
	dumAB := interactionCode(dumA, dumB)

	rssA, errA := residualSS(y, dumA)
	rssB, errB := residualSS(y, dumB)
	rssMain, errMain := residualSS(y, join(dumA, dumB))
	rssFull, errFull := residualSS(y, join(join(dumA, dumB), dumAB))
	if err := firstErr(errA, errB, errMain, errFull); err != nil {
		res.Status = Insufficient
		res.Warning = fmt.Sprintf("design matrix could not be solved: %v", err)
		return res
	}

	// Type II: each main effect adjusted for the other, interaction
	// adjusted for both mains.
	ssA := rssB - rssMain
	ssB := rssA - rssMain
	ssAB := rssMain - rssFull
	ssE := rssFull
	msE := ssE / float64(dfResid)
	if msE <= 0 {
		res.Status = Insufficient
		res.Warning = "zero residual variance; every cell is constant"
		return res
	}

	term := func(name string, ss float64, df int) ANOVATerm {
		f := (ss / float64(df)) / msE
		dist := distuv.F{D1: float64(df), D2: float64(dfResid)}
		return ANOVATerm{Name: name, SumSq: ss, DF: df, F: f, PValue: dist.Survival(f)}
	}

	res.Status = Valid
	res.Terms = []ANOVATerm{
		term(nameA, ssA, dfA),
		term(nameB, ssB, dfB),
		term(nameA+":"+nameB, ssAB, dfAB),
	}
	res.Residual = ANOVATerm{Name: "Residual", SumSq: ssE, DF: dfResid}
	return res
}

// dummyCode returns treatment-coded columns for the non-reference levels.
func dummyCode(values []string, levels []string) [][]float64 {
	cols := make([][]float64, len(levels)-1)
	for i := range cols {
		cols[i] = make([]float64, len(values))
	}
	index := map[string]int{}
	for i, l := range levels {
		index[l] = i
	}
	for row, v := range values {
		if i := index[v]; i > 0 {
			cols[i-1][row] = 1
		}
	}
	return cols
}

// interactionCode returns the elementwise products of every pair of
// columns from the two dummy blocks.
func interactionCode(a, b [][]float64) [][]float64 {
	var cols [][]float64
	for _, ca := range a {
		for _, cb := range b {
			col := make([]float64, len(ca))
			for i := range col {
				col[i] = ca[i] * cb[i]
			}
			cols = append(cols, col)
		}
	}
	return cols
}

// residualSS fits y on an intercept plus the given columns by least
// squares and returns the residual sum of squares.
func residualSS(y []float64, cols [][]float64) (float64, error) {
	n := len(y)
	p := len(cols) + 1
	X := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1)
		for j, c := range cols {
			X.Set(i, j+1, c[i])
		}
	}

	var qr mat.QR
	qr.Factorize(X)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, mat.NewVecDense(n, y)); err != nil {
		return 0, err
	}

	var fitted mat.Dense
	fitted.Mul(X, &beta)

	rss := 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.At(i, 0)
		rss += r * r
	}
	return rss, nil
}

func join(a, b [][]float64) [][]float64 {
	out := make([][]float64, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func distinct(values []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
