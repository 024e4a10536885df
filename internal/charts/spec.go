// Package charts builds chart descriptions from cleaned session data and
// renders them as go-echarts pages or PNG files. No statistics are computed
// here beyond the five-number summaries box plots require; the package is a
// presentation mapping over data the aggregator already cleaned.
package charts

import (
	"encoding/json"
	"math"

	"github.com/voltaic-data/charge.report/internal/stats"
)

// Kind identifies a chart shape.
type Kind string

const (
	KindBox     Kind = "box"
	KindHeatmap Kind = "heatmap"
	KindScatter Kind = "scatter"
	KindLine    Kind = "line"
	KindBar     Kind = "bar"
)

// TrendLine is a fitted straight line overlaid on a scatter chart.
type TrendLine struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Series is one named data series of a chart. Which fields are populated
// depends on the chart kind: box charts carry raw per-category values,
// scatter charts carry XY pairs, line and bar charts carry one value per
// category.
type Series struct {
	Name   string      `json:"name"`
	X      []float64   `json:"x,omitempty"`
	Y      []float64   `json:"y,omitempty"`
	Boxes  [][]float64 `json:"boxes,omitempty"`
	Values []float64   `json:"values,omitempty"`
}

// Grid holds the cells of a heatmap. NaN cells mean "no data".
type Grid struct {
	Rows  []string    `json:"rows"`
	Cols  []string    `json:"cols"`
	Cells [][]float64 `json:"cells"`
}

// MarshalJSON encodes NaN cells as null, since JSON has no NaN literal.
func (g Grid) MarshalJSON() ([]byte, error) {
	cells := make([][]*float64, len(g.Cells))
	for i, row := range g.Cells {
		cells[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				cells[i][j] = &g.Cells[i][j]
			}
		}
	}
	return json.Marshal(struct {
		Rows  []string     `json:"rows"`
		Cols  []string     `json:"cols"`
		Cells [][]*float64 `json:"cells"`
	}{Rows: g.Rows, Cols: g.Cols, Cells: cells})
}

// Spec describes a chart independent of any rendering backend.
type Spec struct {
	Kind       Kind       `json:"kind"`
	Title      string     `json:"title"`
	XLabel     string     `json:"x_label"`
	YLabel     string     `json:"y_label"`
	Categories []string   `json:"categories,omitempty"`
	Series     []Series   `json:"series,omitempty"`
	Grid       *Grid      `json:"grid,omitempty"`
	Trend      *TrendLine `json:"trend,omitempty"`
}

// fiveNumber returns the box-plot summary [min, Q1, median, Q3, max].
func fiveNumber(values []float64) []float64 {
	s := stats.Describe(values)
	return []float64{s.Min, s.Q1, s.Median, s.Q3, s.Max}
}
