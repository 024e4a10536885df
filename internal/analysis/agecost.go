package analysis

import (
	"fmt"

	"github.com/voltaic-data/charge.report/internal/aggregate"
	"github.com/voltaic-data/charge.report/internal/charts"
	"github.com/voltaic-data/charge.report/internal/sessions"
	"github.com/voltaic-data/charge.report/internal/stats"
	"github.com/voltaic-data/charge.report/internal/stattest"
)

// capacityGroupLabels name the battery-capacity quartile groups.
var capacityGroupLabels = []string{"Q1", "Q2", "Q3", "Q4"}

// quintileLabels name the five quantile buckets of the efficiency heatmap
// axes.
var quintileLabels = []string{"Q1", "Q2", "Q3", "Q4", "Q5"}

// AgeCostRelationship is the correlation analysis of the age/cost report.
type AgeCostRelationship struct {
	Correlation       stattest.CorrelationResult  `json:"correlation"`
	ModelCorrelations []stattest.GroupCorrelation `json:"model_correlations"`
	GroupedStats      aggregate.Table             `json:"grouped_stats"`
}

// AgeCostTests are the hypothesis tests of the age/cost report.
type AgeCostTests struct {
	Regression stattest.OLSResult    `json:"regression"`
	ModelANOVA stattest.OneWayResult `json:"model_anova"`
}

// AgeCostCharts are the chart descriptions of the age/cost report.
type AgeCostCharts struct {
	AgeScatter charts.Spec `json:"age_scatter"`
	ModelBox   charts.Spec `json:"model_box"`
	Heatmap    charts.Spec `json:"heatmap"`
}

// ModelStat is one per-vehicle-model row of the descriptive table.
type ModelStat struct {
	Model              string  `json:"model"`
	MeanAgeYears       float64 `json:"mean_age_years"`
	MeanBatteryKWh     float64 `json:"mean_battery_kwh"`
	MeanCostEfficiency float64 `json:"mean_cost_efficiency"`
}

// AgeCostStats are the descriptive statistics of the age/cost report.
type AgeCostStats struct {
	VehicleAge      stats.Summary `json:"vehicle_age"`
	BatteryCapacity stats.Summary `json:"battery_capacity"`
	CostEfficiency  stats.Summary `json:"cost_efficiency"`
	ByModel         []ModelStat   `json:"by_model"`
}

// AgeCostResults is the full vehicle-age vs cost-efficiency report.
type AgeCostResults struct {
	RelationshipAnalysis AgeCostRelationship `json:"relationship_analysis"`
	StatisticalTests     AgeCostTests        `json:"statistical_tests"`
	Visualizations       AgeCostCharts       `json:"visualizations"`
	DescriptiveStats     AgeCostStats        `json:"descriptive_stats"`
	Data                 *sessions.Dataset   `json:"-"`
}

// AgeCostEfficiency runs the vehicle-age vs cost-efficiency analysis over
// the CSV at path.
func AgeCostEfficiency(path string) (*AgeCostResults, error) {
	d, err := sessions.LoadAgeCost(path)
	if err != nil {
		return nil, fmt.Errorf("age vs cost efficiency: %w", err)
	}
	rows := d.Sessions

	age := sessions.Column(rows, func(s sessions.Session) float64 { return s.VehicleAgeYears })
	battery := sessions.Column(rows, func(s sessions.Session) float64 { return s.BatteryCapacityKWh })
	costEff := sessions.Column(rows, func(s sessions.Session) float64 { return s.CostEfficiency })
	model := func(s sessions.Session) string { return s.VehicleModel }

	res := &AgeCostResults{Data: d}

	modelLevels := aggregate.Levels(rows, model)
	ageByModel := groupColumn(rows, model, modelLevels, func(s sessions.Session) float64 { return s.VehicleAgeYears })
	effByModel := groupColumn(rows, model, modelLevels, func(s sessions.Session) float64 { return s.CostEfficiency })

	capacityGroups := stats.QCut(battery, len(capacityGroupLabels))
	res.RelationshipAnalysis = AgeCostRelationship{
		Correlation:       stattest.Pearson(age, costEff),
		ModelCorrelations: stattest.PearsonByGroup(modelLevels, ageByModel, effByModel),
		GroupedStats: aggregate.ByIndexed(len(rows), []string{"vehicle_model", "battery_capacity_group"}, "cost_efficiency",
			func(i int) []string {
				return []string{rows[i].VehicleModel, capacityGroupLabels[capacityGroups[i]]}
			},
			func(i int) float64 { return rows[i].CostEfficiency }),
	}

	_, anovaGroups := aggregate.GroupValues(rows, model, func(s sessions.Session) float64 { return s.CostEfficiency })
	res.StatisticalTests = AgeCostTests{
		Regression: stattest.OLS([]string{"vehicle_age_years", "battery_capacity_kwh"},
			costEff, [][]float64{age, battery}),
		ModelANOVA: stattest.OneWayANOVA(anovaGroups),
	}

	res.Visualizations = AgeCostCharts{
		AgeScatter: charts.Scatter("Vehicle Age vs Cost Efficiency",
			"Vehicle Age (years)", "Cost Efficiency (USD/kWh)",
			scatterSeriesByModel(rows, modelLevels), ageTrend(age, costEff)),
		ModelBox: charts.GroupedBox("Cost Efficiency Distribution by Vehicle Model",
			"Vehicle Model", "Cost Efficiency (USD/kWh)", modelLevels,
			boxSeriesByGroup(rows, modelLevels, func(sessions.Session) string { return "cost_efficiency" }, model,
				func(s sessions.Session) float64 { return s.CostEfficiency })),
		Heatmap: charts.Heatmap("Cost Efficiency by Age and Battery Capacity",
			quintilePivot(rows, age, battery, costEff)),
	}

	res.DescriptiveStats = AgeCostStats{
		VehicleAge:      stats.Describe(age),
		BatteryCapacity: stats.Describe(battery),
		CostEfficiency:  stats.Describe(costEff),
		ByModel:         modelStats(rows, modelLevels),
	}
	return res, nil
}

// ExportPNGs writes static renderings of the scatter and box charts to
// dir, mirroring the dashboard charts for offline reports. It returns the
// written paths.
func (r *AgeCostResults) ExportPNGs(dir string) ([]string, error) {
	var paths []string
	for _, chart := range []struct {
		spec charts.Spec
		file string
	}{
		{r.Visualizations.AgeScatter, "age_efficiency_scatter.png"},
		{r.Visualizations.ModelBox, "model_efficiency_box.png"},
	} {
		path, err := charts.ExportPNG(chart.spec, dir, chart.file)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ageTrend fits a straight line to cost efficiency over age for the
// scatter overlay. A degenerate fit just omits the trend.
func ageTrend(age, costEff []float64) *charts.TrendLine {
	fit := stattest.OLS([]string{"age"}, costEff, [][]float64{age})
	if fit.Status != stattest.Valid {
		return nil
	}
	return &charts.TrendLine{
		Intercept: fit.Coefficients[0].Estimate,
		Slope:     fit.Coefficients[1].Estimate,
	}
}

func scatterSeriesByModel(rows []sessions.Session, modelLevels []string) []charts.Series {
	series := make([]charts.Series, len(modelLevels))
	index := map[string]int{}
	for i, m := range modelLevels {
		index[m] = i
		series[i].Name = m
	}
	for _, s := range rows {
		i := index[s.VehicleModel]
		series[i].X = append(series[i].X, s.VehicleAgeYears)
		series[i].Y = append(series[i].Y, s.CostEfficiency)
	}
	return series
}

// quintilePivot buckets age and capacity into quintiles and pivots the
// mean cost efficiency over the grid.
func quintilePivot(rows []sessions.Session, age, battery, costEff []float64) aggregate.Pivot {
	ageQ := stats.QCut(age, len(quintileLabels))
	battQ := stats.QCut(battery, len(quintileLabels))
	return aggregate.PivotMeanIndexed(len(rows),
		"Vehicle Age Quintile", "Battery Capacity Quintile",
		quintileLabels, quintileLabels,
		func(i int) string { return quintileLabels[ageQ[i]] },
		func(i int) string { return quintileLabels[battQ[i]] },
		func(i int) float64 { return costEff[i] })
}

func groupColumn(rows []sessions.Session, key func(sessions.Session) string,
	levels []string, value func(sessions.Session) float64) [][]float64 {

	index := map[string]int{}
	for i, l := range levels {
		index[l] = i
	}
	out := make([][]float64, len(levels))
	for _, s := range rows {
		i := index[key(s)]
		out[i] = append(out[i], value(s))
	}
	return out
}

func modelStats(rows []sessions.Session, modelLevels []string) []ModelStat {
	byModel := aggregate.By(rows, []string{"vehicle_model"}, "cost_efficiency",
		func(s sessions.Session) []string { return []string{s.VehicleModel} },
		func(s sessions.Session) float64 { return s.CostEfficiency })
	ageTable := aggregate.By(rows, []string{"vehicle_model"}, "vehicle_age_years",
		func(s sessions.Session) []string { return []string{s.VehicleModel} },
		func(s sessions.Session) float64 { return s.VehicleAgeYears })
	battTable := aggregate.By(rows, []string{"vehicle_model"}, "battery_capacity_kwh",
		func(s sessions.Session) []string { return []string{s.VehicleModel} },
		func(s sessions.Session) float64 { return s.BatteryCapacityKWh })

	out := make([]ModelStat, 0, len(modelLevels))
	for _, m := range modelLevels {
		eff, _ := byModel.Lookup(m)
		ageG, _ := ageTable.Lookup(m)
		battG, _ := battTable.Lookup(m)
		out = append(out, ModelStat{
			Model:              m,
			MeanAgeYears:       ageG.Stats.Mean,
			MeanBatteryKWh:     battG.Stats.Mean,
			MeanCostEfficiency: eff.Stats.Mean,
		})
	}
	return out
}
