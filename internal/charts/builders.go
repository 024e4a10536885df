package charts

import (
	"github.com/voltaic-data/charge.report/internal/aggregate"
)

// GroupedBox builds a box chart with one box per category for each series.
// Each Series must carry Boxes aligned with categories; empty categories
// render as gaps.
func GroupedBox(title, xLabel, yLabel string, categories []string, series []Series) Spec {
	return Spec{
		Kind:       KindBox,
		Title:      title,
		XLabel:     xLabel,
		YLabel:     yLabel,
		Categories: categories,
		Series:     series,
	}
}

// Heatmap builds a 2-D heatmap from a mean-value pivot table. NaN cells
// stay NaN and render as "no data".
func Heatmap(title string, pivot aggregate.Pivot) Spec {
	return Spec{
		Kind:   KindHeatmap,
		Title:  title,
		XLabel: pivot.ColName,
		YLabel: pivot.RowName,
		Grid: &Grid{
			Rows:  pivot.Rows,
			Cols:  pivot.Cols,
			Cells: pivot.Cells,
		},
	}
}

// Scatter builds a scatter chart of XY series with an optional fitted
// trend line.
func Scatter(title, xLabel, yLabel string, series []Series, trend *TrendLine) Spec {
	return Spec{
		Kind:   KindScatter,
		Title:  title,
		XLabel: xLabel,
		YLabel: yLabel,
		Series: series,
		Trend:  trend,
	}
}

// CategoryLine builds a line chart of one value per category.
func CategoryLine(title, xLabel, yLabel, name string, categories []string, values []float64) Spec {
	return Spec{
		Kind:       KindLine,
		Title:      title,
		XLabel:     xLabel,
		YLabel:     yLabel,
		Categories: categories,
		Series:     []Series{{Name: name, Values: values}},
	}
}
