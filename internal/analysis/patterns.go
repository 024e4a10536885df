package analysis

import (
	"fmt"

	"github.com/voltaic-data/charge.report/internal/aggregate"
	"github.com/voltaic-data/charge.report/internal/charts"
	"github.com/voltaic-data/charge.report/internal/sessions"
	"github.com/voltaic-data/charge.report/internal/stats"
	"github.com/voltaic-data/charge.report/internal/stattest"
)

// PatternTables are the aggregation tables of the charging-pattern report.
type PatternTables struct {
	UserPatterns aggregate.Table `json:"user_patterns"`
	UserDuration aggregate.Table `json:"user_duration"`
	UserEnergy   aggregate.Table `json:"user_energy"`
	DayPatterns  aggregate.Table `json:"day_patterns"`
	TimePatterns aggregate.Table `json:"time_patterns"`
}

// PatternTests are the hypothesis tests of the charging-pattern report.
type PatternTests struct {
	DayANOVA  stattest.TwoWayResult    `json:"day_anova"`
	TimeANOVA stattest.TwoWayResult    `json:"time_anova"`
	ChiSquare stattest.ChiSquareResult `json:"chi_square"`
	TTest     stattest.TTestResult     `json:"t_test"`
}

// PatternCharts are the chart descriptions of the charging-pattern report.
type PatternCharts struct {
	DayBox  charts.Spec `json:"day_box"`
	TimeBox charts.Spec `json:"time_box"`
	Heatmap charts.Spec `json:"heatmap"`
	UserBox charts.Spec `json:"user_box"`
}

// PatternStats are the descriptive statistics of the charging-pattern
// report.
type PatternStats struct {
	Overall    stats.Summary   `json:"overall"`
	ByUserType aggregate.Table `json:"by_user_type"`
}

// PatternsResults is the full charging-pattern report.
type PatternsResults struct {
	PatternAnalysis  PatternTables     `json:"pattern_analysis"`
	StatisticalTests PatternTests      `json:"statistical_tests"`
	Visualizations   PatternCharts     `json:"visualizations"`
	DescriptiveStats PatternStats      `json:"descriptive_stats"`
	Data             *sessions.Dataset `json:"-"`
}

// ChargingPatterns runs the charging-pattern analysis over the CSV at
// path: how much different user types charge, and how that varies by day
// of week and time of day.
func ChargingPatterns(path string) (*PatternsResults, error) {
	d, err := sessions.LoadPatterns(path)
	if err != nil {
		return nil, fmt.Errorf("charging patterns: %w", err)
	}
	rows := d.Sessions

	pct := func(s sessions.Session) float64 { return s.PercentCharged }
	userType := func(s sessions.Session) string { return s.UserType }
	dayOfWeek := func(s sessions.Session) string { return s.DayOfWeek }
	timeOfDay := func(s sessions.Session) string { return s.TimeOfDay }

	res := &PatternsResults{Data: d}

	res.PatternAnalysis = PatternTables{
		UserPatterns: aggregate.By(rows, []string{"user_type"}, "percent_charged",
			func(s sessions.Session) []string { return []string{s.UserType} }, pct),
		UserDuration: aggregate.By(rows, []string{"user_type"}, "duration_hours",
			func(s sessions.Session) []string { return []string{s.UserType} },
			func(s sessions.Session) float64 { return s.DurationHours }),
		UserEnergy: aggregate.By(rows, []string{"user_type"}, "energy_kwh",
			func(s sessions.Session) []string { return []string{s.UserType} },
			func(s sessions.Session) float64 { return s.EnergyKWh }),
		DayPatterns: aggregate.By(rows, []string{"user_type", "day_of_week"}, "percent_charged",
			func(s sessions.Session) []string { return []string{s.UserType, s.DayOfWeek} }, pct),
		TimePatterns: aggregate.By(rows, []string{"user_type", "time_of_day"}, "percent_charged",
			func(s sessions.Session) []string { return []string{s.UserType, s.TimeOfDay} }, pct),
	}

	res.StatisticalTests = PatternTests{
		DayANOVA: stattest.TwoWayANOVA("user_type", "day_of_week",
			sessions.Column(rows, pct), columnStr(rows, userType), columnStr(rows, dayOfWeek)),
		TimeANOVA: stattest.TwoWayANOVA("user_type", "time_of_day",
			sessions.Column(rows, pct), columnStr(rows, userType), columnStr(rows, timeOfDay)),
		ChiSquare: stattest.ChiSquareIndependence(columnStr(rows, userType), columnStr(rows, timeOfDay)),
	}
	levels, groups := aggregate.GroupValues(rows, userType, pct)
	res.StatisticalTests.TTest = stattest.TTestFirstTwoGroups(levels, groups)

	dayLevels := observedLevels(rows, sessions.DayOfWeekLevels, dayOfWeek)
	timeLevels := observedLevels(rows, sessions.TimeOfDayLevels, timeOfDay)

	res.Visualizations = PatternCharts{
		DayBox: charts.GroupedBox("Charging Patterns by Day of Week",
			"Day of Week", "Percentage Charged", dayLevels,
			boxSeriesByGroup(rows, dayLevels, userType, dayOfWeek, pct)),
		TimeBox: charts.GroupedBox("Charging Patterns by Time of Day",
			"Time of Day", "Percentage Charged", timeLevels,
			boxSeriesByGroup(rows, timeLevels, userType, timeOfDay, pct)),
		Heatmap: charts.Heatmap("Average Percentage Charged by Day and Time",
			aggregate.PivotMean(rows, "Time of Day", "Day of Week",
				sessions.TimeOfDayLevels, sessions.DayOfWeekLevels,
				timeOfDay, dayOfWeek, pct)),
		UserBox: charts.GroupedBox("Charging Percentage by User Type",
			"User Type", "Percentage Charged", levels,
			boxSeriesByGroup(rows, levels, userType, userType, pct)),
	}

	res.DescriptiveStats = PatternStats{
		Overall:    stats.Describe(sessions.Column(rows, pct)),
		ByUserType: res.PatternAnalysis.UserPatterns,
	}
	return res, nil
}

func columnStr(rows []sessions.Session, key func(sessions.Session) string) []string {
	out := make([]string, len(rows))
	for i, s := range rows {
		out[i] = key(s)
	}
	return out
}
