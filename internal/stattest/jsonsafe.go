package stattest

import (
	"encoding/json"
	"math"
)

// finiteOrNil maps NaN and infinities to nil so results stay serializable;
// JSON has no literal for them. A t or F statistic is infinite when the
// within-group variance is exactly zero.
func finiteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON encodes a non-finite statistic as null.
func (r TTestResult) MarshalJSON() ([]byte, error) {
	type alias TTestResult
	return json.Marshal(struct {
		alias
		Statistic *float64 `json:"statistic"`
	}{alias: alias(r), Statistic: finiteOrNil(r.Statistic)})
}

// MarshalJSON encodes a non-finite F statistic as null.
func (r OneWayResult) MarshalJSON() ([]byte, error) {
	type alias OneWayResult
	return json.Marshal(struct {
		alias
		F *float64 `json:"f_statistic"`
	}{alias: alias(r), F: finiteOrNil(r.F)})
}

// MarshalJSON encodes non-finite coefficient statistics as null.
func (c Coefficient) MarshalJSON() ([]byte, error) {
	type alias Coefficient
	return json.Marshal(struct {
		alias
		StdErr *float64 `json:"std_err"`
		T      *float64 `json:"t_statistic"`
	}{alias: alias(c), StdErr: finiteOrNil(c.StdErr), T: finiteOrNil(c.T)})
}
