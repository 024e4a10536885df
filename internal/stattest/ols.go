package stattest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Coefficient is one fitted term of an OLS regression.
type Coefficient struct {
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
	StdErr   float64 `json:"std_err"`
	T        float64 `json:"t_statistic"`
	PValue   float64 `json:"p_value"`
}

// OLSResult holds an ordinary least squares fit with intercept.
type OLSResult struct {
	Status       Status        `json:"status"`
	Warning      string        `json:"warning,omitempty"`
	Coefficients []Coefficient `json:"coefficients"`
	R2           float64       `json:"r_squared"`
	AdjR2        float64       `json:"adj_r_squared"`
	F            float64       `json:"f_statistic"`
	FPValue      float64       `json:"f_p_value"`
	DFModel      int           `json:"df_model"`
	DFResid      int           `json:"df_resid"`
	N            int           `json:"n"`
}

// OLS fits y to the predictor columns (plus an intercept named "const")
// and returns the coefficient table with the overall F test.
func OLS(names []string, y []float64, predictors [][]float64) OLSResult {
	res := OLSResult{N: len(y)}
	if len(names) != len(predictors) {
		res.Status = Insufficient
		res.Warning = "predictor name and column counts differ"
		return res
	}
	for _, col := range predictors {
		if len(col) != len(y) {
			res.Status = Insufficient
			res.Warning = "predictor column length differs from response"
			return res
		}
	}

	n := len(y)
	p := len(predictors) + 1
	res.DFModel = p - 1
	res.DFResid = n - p
	if res.DFResid <= 0 {
		res.Status = Insufficient
		res.Warning = fmt.Sprintf("need more than %d observations to fit %d terms", p, p)
		return res
	}

	X := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, 1)
		for j, col := range predictors {
			X.Set(i, j+1, col[i])
		}
	}

	var qr mat.QR
	qr.Factorize(X)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, mat.NewVecDense(n, y)); err != nil {
		res.Status = Insufficient
		res.Warning = fmt.Sprintf("design matrix could not be solved: %v", err)
		return res
	}

	var fitted mat.Dense
	fitted.Mul(X, &beta)

	meanY := stat.Mean(y, nil)
	rss, tss := 0.0, 0.0
	for i := 0; i < n; i++ {
		r := y[i] - fitted.At(i, 0)
		rss += r * r
		d := y[i] - meanY
		tss += d * d
	}

	sigma2 := rss / float64(res.DFResid)

	// Covariance of the estimates: sigma^2 * (X'X)^-1.
	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		res.Status = Insufficient
		res.Warning = fmt.Sprintf("X'X is singular: %v", err)
		return res
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(res.DFResid)}
	coefNames := append([]string{"const"}, names...)
	for j := 0; j < p; j++ {
		est := beta.At(j, 0)
		se := math.Sqrt(sigma2 * xtxInv.At(j, j))
		t := est / se
		res.Coefficients = append(res.Coefficients, Coefficient{
			Name:     coefNames[j],
			Estimate: est,
			StdErr:   se,
			T:        t,
			PValue:   2 * tDist.CDF(-math.Abs(t)),
		})
	}

	if tss == 0 {
		res.Status = Insufficient
		res.Warning = "response is constant"
		return res
	}

	res.R2 = 1 - rss/tss
	res.AdjR2 = 1 - (rss/float64(res.DFResid))/(tss/float64(n-1))
	if res.DFModel > 0 && rss > 0 {
		res.F = ((tss - rss) / float64(res.DFModel)) / sigma2
		res.FPValue = distuv.F{D1: float64(res.DFModel), D2: float64(res.DFResid)}.Survival(res.F)
	} else if rss == 0 {
		res.F = math.Inf(1)
		res.FPValue = 0
	}

	res.Status = Valid
	return res
}
