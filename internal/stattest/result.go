// Package stattest runs the fixed hypothesis tests the analysis modules
// use: two-sample t-test, one-way and two-way ANOVA, chi-square
// independence, OLS regression, and Pearson correlation. Degenerate inputs
// (too few groups, constant factors, singular designs) produce a tagged
// insufficient-data result instead of NaN propagation or a panic.
package stattest

// Status tags a test result as usable or degenerate.
type Status string

const (
	// Valid means the test ran and its statistic and p-value are defined.
	Valid Status = "valid"
	// Insufficient means the input could not support the test; the
	// Warning field says why and the numeric fields are undefined.
	Insufficient Status = "insufficient_data"
)
