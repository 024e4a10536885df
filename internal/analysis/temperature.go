package analysis

import (
	"fmt"
	"math"

	"github.com/voltaic-data/charge.report/internal/aggregate"
	"github.com/voltaic-data/charge.report/internal/charts"
	"github.com/voltaic-data/charge.report/internal/sessions"
	"github.com/voltaic-data/charge.report/internal/stats"
	"github.com/voltaic-data/charge.report/internal/stattest"
)

// significanceLevel is the p-value threshold the insight text uses.
const significanceLevel = 0.05

// TemperatureRangeSummary reports the observed ambient temperatures.
type TemperatureRangeSummary struct {
	MinC float64 `json:"min_c"`
	MaxC float64 `json:"max_c"`
	AvgC float64 `json:"avg_c"`
}

// TemperatureAnalysis is the numeric heart of the temperature report.
type TemperatureAnalysis struct {
	Correlation      stattest.CorrelationResult `json:"correlation"`
	BucketMeans      aggregate.Table            `json:"bucket_means"`
	TemperatureRange TemperatureRangeSummary    `json:"temperature_range"`
	BucketANOVA      stattest.OneWayResult      `json:"bucket_anova"`
	Temperature      stats.Summary              `json:"temperature_stats"`
	Efficiency       stats.Summary              `json:"efficiency_stats"`
}

// TemperatureCharts are the chart descriptions of the temperature report.
type TemperatureCharts struct {
	Scatter charts.Spec `json:"scatter"`
	Box     charts.Spec `json:"box"`
	Line    charts.Spec `json:"line"`
}

// TemperatureInsights are the generated text findings.
type TemperatureInsights struct {
	Correlation             string `json:"correlation"`
	TempRangeImpact         string `json:"temp_range_impact"`
	TemperatureRange        string `json:"temperature_range"`
	StatisticalSignificance string `json:"statistical_significance"`
}

// TemperatureResults is the full temperature-impact report.
type TemperatureResults struct {
	Analysis       TemperatureAnalysis `json:"temperature_analysis"`
	Visualizations TemperatureCharts   `json:"visualizations"`
	Insights       TemperatureInsights `json:"insights"`
	Data           *sessions.Dataset   `json:"-"`
}

// TemperatureImpact runs the ambient-temperature analysis over the CSV at
// path: how energy efficiency (kWh/km) moves with temperature.
func TemperatureImpact(path string) (*TemperatureResults, error) {
	d, err := sessions.LoadTemperature(path)
	if err != nil {
		return nil, fmt.Errorf("temperature impact: %w", err)
	}
	rows := d.Sessions

	temp := sessions.Column(rows, func(s sessions.Session) float64 { return s.TemperatureC })
	eff := sessions.Column(rows, func(s sessions.Session) float64 { return s.EnergyEfficiency })
	tempRange := func(s sessions.Session) string { return s.TempRange }

	res := &TemperatureResults{Data: d}

	bucketLevels := observedLevels(rows, sessions.TempRangeLevels, tempRange)
	bucketGroups := groupColumn(rows, tempRange, bucketLevels, func(s sessions.Session) float64 { return s.EnergyEfficiency })

	tempStats := stats.Describe(temp)
	res.Analysis = TemperatureAnalysis{
		Correlation: stattest.Pearson(temp, eff),
		BucketMeans: aggregate.By(rows, []string{"temp_range"}, "energy_efficiency",
			func(s sessions.Session) []string { return []string{s.TempRange} },
			func(s sessions.Session) float64 { return s.EnergyEfficiency }),
		TemperatureRange: TemperatureRangeSummary{
			MinC: tempStats.Min,
			MaxC: tempStats.Max,
			AvgC: tempStats.Mean,
		},
		BucketANOVA: stattest.OneWayANOVA(bucketGroups),
		Temperature: tempStats,
		Efficiency:  stats.Describe(eff),
	}

	bucketMeans := make([]float64, len(bucketLevels))
	for i, g := range bucketGroups {
		bucketMeans[i] = stats.Describe(g).Mean
	}

	res.Visualizations = TemperatureCharts{
		Scatter: charts.Scatter("Temperature vs Energy Efficiency",
			"Temperature (°C)", "Energy Efficiency (kWh/km)",
			[]charts.Series{{Name: "sessions", X: temp, Y: eff}}, nil),
		Box: charts.GroupedBox("Energy Efficiency by Temperature Range",
			"Temperature Range", "Energy Efficiency (kWh/km)", bucketLevels,
			boxSeriesByGroup(rows, bucketLevels,
				func(sessions.Session) string { return "energy_efficiency" }, tempRange,
				func(s sessions.Session) float64 { return s.EnergyEfficiency })),
		Line: charts.CategoryLine("Average Energy Efficiency by Temperature Range",
			"Temperature Range", "Average Energy Efficiency (kWh/km)",
			"mean efficiency", bucketLevels, bucketMeans),
	}

	res.Insights = generateInsights(res.Analysis, bucketLevels, bucketMeans)
	return res, nil
}

// generateInsights renders the numeric findings as report sentences. The
// most efficient range is the one with the lowest mean consumption per km.
func generateInsights(a TemperatureAnalysis, bucketLevels []string, bucketMeans []float64) TemperatureInsights {
	best := ""
	bestMean := math.Inf(1)
	for i, level := range bucketLevels {
		if !math.IsNaN(bucketMeans[i]) && bucketMeans[i] < bestMean {
			bestMean = bucketMeans[i]
			best = level
		}
	}

	significance := "Temperature impact is not statistically significant"
	if a.BucketANOVA.Status == stattest.Valid && a.BucketANOVA.PValue < significanceLevel {
		significance = "Temperature impact is statistically significant"
	}

	return TemperatureInsights{
		Correlation:             fmt.Sprintf("Temperature correlation with energy consumption: %.2f", a.Correlation.R),
		TempRangeImpact:         fmt.Sprintf("Most efficient temperature range: %s", best),
		TemperatureRange:        fmt.Sprintf("Temperature range: %.1f°C to %.1f°C", a.TemperatureRange.MinC, a.TemperatureRange.MaxC),
		StatisticalSignificance: significance,
	}
}
