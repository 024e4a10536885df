package analysis

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltaic-data/charge.report/internal/charts"
	"github.com/voltaic-data/charge.report/internal/stattest"
)

const csvHeader = "Charging Start Time,Charging End Time,State of Charge (Start %),State of Charge (End %)," +
	"Energy Consumed (kWh),Distance Driven (since last charge) (km),Charging Cost (USD)," +
	"Charging Duration (hours),Battery Capacity (kWh),Vehicle Age (years),Vehicle Model,User Type,Temperature (°C)"

// fixtureCSV writes a deterministic synthetic dataset wide enough for every
// report: several models and user types, sessions spread across days, times
// of day, and temperature buckets.
func fixtureCSV(t *testing.T) string {
	t.Helper()

	rng := rand.New(rand.NewSource(7))
	models := []string{"BYD Seal", "Nissan Leaf", "Tesla Model 3"}
	users := []string{"Commuter", "Casual Driver", "Long-Distance Traveler"}

	var b strings.Builder
	b.WriteString(csvHeader + "\n")
	for i := 0; i < 90; i++ {
		day := 1 + i%14
		hour := (i * 5) % 24
		startSoC := 10 + rng.Float64()*40
		endSoC := startSoC + 20 + rng.Float64()*35
		energy := 15 + rng.Float64()*40
		distance := 80 + rng.Float64()*250
		cost := 5 + rng.Float64()*20
		duration := 0.5 + rng.Float64()*3
		battery := 40 + float64(i%5)*12 + rng.Float64()*5
		age := 0.5 + float64(i%8) + rng.Float64()
		temp := -8 + float64(i%6)*9 + rng.Float64()*4

		fmt.Fprintf(&b, "2024-01-%02d %02d:15:00,2024-01-%02d %02d:45:00,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%.2f,%s,%s,%.2f\n",
			day, hour, day, hour, startSoC, endSoC, energy, distance, cost,
			duration, battery, age, models[i%3], users[i%3], temp)
	}

	path := filepath.Join(t.TempDir(), "sessions.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func TestChargingPatterns(t *testing.T) {
	t.Parallel()
	res, err := ChargingPatterns(fixtureCSV(t))
	require.NoError(t, err)

	total := len(res.Data.Sessions)
	require.Positive(t, total)

	assert.Equal(t, total, res.PatternAnalysis.UserPatterns.TotalCount())
	assert.Equal(t, total, res.PatternAnalysis.DayPatterns.TotalCount())
	assert.Len(t, res.PatternAnalysis.UserPatterns.Groups, 3)

	assert.Equal(t, stattest.Valid, res.StatisticalTests.ChiSquare.Status)
	assert.Equal(t, total, res.StatisticalTests.ChiSquare.N)
	assert.Equal(t, stattest.Valid, res.StatisticalTests.TTest.Status)
	assert.Contains(t, res.StatisticalTests.TTest.Warning, "more than two levels")

	assert.Equal(t, charts.KindBox, res.Visualizations.DayBox.Kind)
	assert.Equal(t, charts.KindHeatmap, res.Visualizations.Heatmap.Kind)
	assert.Len(t, res.Visualizations.DayBox.Series, 3)

	assert.Equal(t, total, res.DescriptiveStats.Overall.Count)
	assert.GreaterOrEqual(t, res.DescriptiveStats.Overall.Min, 0.0)
	assert.LessOrEqual(t, res.DescriptiveStats.Overall.Max, 100.0)
}

func TestAgeCostEfficiency(t *testing.T) {
	t.Parallel()
	res, err := AgeCostEfficiency(fixtureCSV(t))
	require.NoError(t, err)

	total := len(res.Data.Sessions)
	require.Positive(t, total)

	assert.Equal(t, stattest.Valid, res.RelationshipAnalysis.Correlation.Status)
	assert.Len(t, res.RelationshipAnalysis.ModelCorrelations, 3)
	assert.Equal(t, total, res.RelationshipAnalysis.GroupedStats.TotalCount())

	reg := res.StatisticalTests.Regression
	require.Equal(t, stattest.Valid, reg.Status)
	require.Len(t, reg.Coefficients, 3)
	assert.Equal(t, "const", reg.Coefficients[0].Name)
	assert.False(t, math.IsNaN(reg.R2))

	assert.Equal(t, stattest.Valid, res.StatisticalTests.ModelANOVA.Status)

	assert.Equal(t, charts.KindScatter, res.Visualizations.AgeScatter.Kind)
	require.NotNil(t, res.Visualizations.AgeScatter.Trend)
	assert.Equal(t, charts.KindBox, res.Visualizations.ModelBox.Kind)
	assert.Equal(t, charts.KindHeatmap, res.Visualizations.Heatmap.Kind)

	assert.Len(t, res.DescriptiveStats.ByModel, 3)
	for _, m := range res.DescriptiveStats.ByModel {
		assert.Positive(t, m.MeanCostEfficiency, "model %s", m.Model)
	}
}

func TestAgeCostExportPNGs(t *testing.T) {
	t.Parallel()
	res, err := AgeCostEfficiency(fixtureCSV(t))
	require.NoError(t, err)

	dir := t.TempDir()
	paths, err := res.ExportPNGs(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestTemperatureImpact(t *testing.T) {
	t.Parallel()
	res, err := TemperatureImpact(fixtureCSV(t))
	require.NoError(t, err)

	total := len(res.Data.Sessions)
	require.Positive(t, total)

	assert.Equal(t, stattest.Valid, res.Analysis.Correlation.Status)
	assert.Equal(t, total, res.Analysis.BucketMeans.TotalCount())
	assert.Less(t, res.Analysis.TemperatureRange.MinC, res.Analysis.TemperatureRange.MaxC)
	assert.LessOrEqual(t, res.Analysis.TemperatureRange.MaxC, 40.0)
	assert.Equal(t, stattest.Valid, res.Analysis.BucketANOVA.Status)

	assert.Equal(t, charts.KindScatter, res.Visualizations.Scatter.Kind)
	assert.Equal(t, charts.KindBox, res.Visualizations.Box.Kind)
	assert.Equal(t, charts.KindLine, res.Visualizations.Line.Kind)
	assert.Equal(t, res.Visualizations.Box.Categories, res.Visualizations.Line.Categories)

	assert.Contains(t, res.Insights.Correlation, "correlation")
	assert.Contains(t, res.Insights.TempRangeImpact, "Most efficient temperature range:")
	assert.Contains(t, res.Insights.TemperatureRange, "°C")
	assert.Contains(t, res.Insights.StatisticalSignificance, "statistically significant")
}

func TestObservedLevels(t *testing.T) {
	t.Parallel()
	res, err := TemperatureImpact(fixtureCSV(t))
	require.NoError(t, err)

	// Bucket order on the axes follows the canonical cold-to-hot order,
	// not first appearance in the file.
	cats := res.Visualizations.Line.Categories
	require.NotEmpty(t, cats)
	last := -1
	canonical := map[string]int{
		"Below 0°C": 0, "0-10°C": 1, "10-20°C": 2, "20-30°C": 3, "30-40°C": 4,
	}
	for _, c := range cats {
		idx, ok := canonical[c]
		require.True(t, ok, "unexpected bucket %q", c)
		assert.Greater(t, idx, last)
		last = idx
	}
}
