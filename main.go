package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/voltaic-data/charge.report/internal/aggregate"
	"github.com/voltaic-data/charge.report/internal/analysis"
	"github.com/voltaic-data/charge.report/internal/config"
	"github.com/voltaic-data/charge.report/internal/dashboard"
	"github.com/voltaic-data/charge.report/internal/stattest"
)

var (
	csvPath    = flag.String("csv", "", "Path to the charging sessions CSV (overrides config)")
	listen     = flag.String("listen", "", "Dashboard listen address (overrides config)")
	configPath = flag.String("config", "", "Path to a YAML config file")
	serve      = flag.Bool("serve", false, "Serve the web dashboard instead of printing reports")
	chartsOut  = flag.String("charts-out", "", "Directory to write static chart PNGs (batch mode)")
)

func main() {
	flag.Parse()

	cfg := config.Empty()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	csv := cfg.GetCSVPath()
	if *csvPath != "" {
		csv = *csvPath
	}
	addr := cfg.GetListen()
	if *listen != "" {
		addr = *listen
	}

	if _, err := os.Stat(csv); err != nil {
		log.Fatalf("cannot read CSV %q: %v", csv, err)
	}

	if *serve {
		runServe(csv, addr)
		return
	}
	runBatch(csv, resolveChartDir(*chartsOut, cfg))
}

// resolveChartDir picks the PNG output directory: the flag wins, then the
// config file; empty means no export.
func resolveChartDir(flagVal string, cfg *config.Config) string {
	if flagVal != "" {
		return flagVal
	}
	if cfg.ChartDir != nil {
		return cfg.GetChartDir()
	}
	return ""
}

func runServe(csv, addr string) {
	ws, err := dashboard.NewWebServer(dashboard.Config{Address: addr, CSVPath: csv})
	if err != nil {
		log.Fatalf("failed to prepare dashboard: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := ws.Start(ctx); err != nil {
		log.Fatalf("dashboard server error: %v", err)
	}
}

// runBatch runs all three analyses and prints their findings, mirroring
// what the dashboard tabs show.
func runBatch(csv, chartDir string) {
	patterns, err := analysis.ChargingPatterns(csv)
	if err != nil {
		log.Fatalf("charging patterns analysis failed: %v", err)
	}
	printPatterns(patterns)

	ageCost, err := analysis.AgeCostEfficiency(csv)
	if err != nil {
		log.Fatalf("age/cost analysis failed: %v", err)
	}
	printAgeCost(ageCost)

	temperature, err := analysis.TemperatureImpact(csv)
	if err != nil {
		log.Fatalf("temperature analysis failed: %v", err)
	}
	printTemperature(temperature)

	if chartDir != "" {
		paths, err := ageCost.ExportPNGs(chartDir)
		if err != nil {
			log.Fatalf("chart export failed: %v", err)
		}
		for _, p := range paths {
			log.Printf("[Charts] wrote %s", p)
		}
	}
}

func printHeader(title string) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 60))
}

func printTable(title string, tbl aggregate.Table) {
	fmt.Printf("\n%s (by %s):\n", title, strings.Join(tbl.KeyNames, ", "))
	for _, g := range tbl.Groups {
		fmt.Printf("  %-40s mean=%.3f  std=%.3f  n=%d\n",
			strings.Join(g.Keys, " / "), g.Stats.Mean, g.Stats.StdDev, g.Stats.Count)
	}
}

func printTest(name string, status stattest.Status, stat, p float64, detail string) {
	if status != stattest.Valid {
		fmt.Printf("  %-28s insufficient data%s\n", name, detail)
		return
	}
	fmt.Printf("  %-28s stat=%.4f  p=%.4g%s\n", name, stat, p, detail)
}

func printPatterns(r *analysis.PatternsResults) {
	printHeader("Charging Patterns by User Type")
	fmt.Printf("Sessions analysed: %d\n", len(r.Data.Sessions))
	for _, rem := range r.Data.Removals {
		fmt.Printf("  cleaning: %s removed %d rows\n", rem.Step, rem.Rows)
	}

	printTable("Percentage charged", r.PatternAnalysis.UserPatterns)
	printTable("Charging duration (hours)", r.PatternAnalysis.UserDuration)
	printTable("Energy consumed (kWh)", r.PatternAnalysis.UserEnergy)

	fmt.Println("\nStatistical tests:")
	for _, term := range r.StatisticalTests.DayANOVA.Terms {
		printTest("day ANOVA "+term.Name, r.StatisticalTests.DayANOVA.Status, term.F, term.PValue, "")
	}
	for _, term := range r.StatisticalTests.TimeANOVA.Terms {
		printTest("time ANOVA "+term.Name, r.StatisticalTests.TimeANOVA.Status, term.F, term.PValue, "")
	}
	cs := r.StatisticalTests.ChiSquare
	printTest("chi-square user x time", cs.Status, cs.Statistic, cs.PValue, warningSuffix(cs.Warning))
	tt := r.StatisticalTests.TTest
	printTest("t-test first two user types", tt.Status, tt.Statistic, tt.PValue, warningSuffix(tt.Warning))
}

func printAgeCost(r *analysis.AgeCostResults) {
	printHeader("Vehicle Age vs Cost Efficiency")
	fmt.Printf("Sessions analysed: %d\n", len(r.Data.Sessions))
	for _, rem := range r.Data.Removals {
		fmt.Printf("  cleaning: %s removed %d rows\n", rem.Step, rem.Rows)
	}

	corr := r.RelationshipAnalysis.Correlation
	if corr.Status == stattest.Valid {
		fmt.Printf("\nAge vs cost efficiency correlation: r=%.4f (n=%d)\n", corr.R, corr.N)
	}
	fmt.Println("Per-model correlations:")
	for _, mc := range r.RelationshipAnalysis.ModelCorrelations {
		if mc.Result.Status == stattest.Valid {
			fmt.Printf("  %-24s r=%.4f  n=%d\n", mc.Group, mc.Result.R, mc.Result.N)
		} else {
			fmt.Printf("  %-24s insufficient data\n", mc.Group)
		}
	}

	reg := r.StatisticalTests.Regression
	if reg.Status == stattest.Valid {
		fmt.Printf("\nRegression (cost efficiency ~ age + battery): R2=%.4f adj=%.4f\n", reg.R2, reg.AdjR2)
		for _, c := range reg.Coefficients {
			fmt.Printf("  %-24s coef=%.5f  p=%.4g\n", c.Name, c.Estimate, c.PValue)
		}
	}
	av := r.StatisticalTests.ModelANOVA
	fmt.Println("\nStatistical tests:")
	printTest("ANOVA across models", av.Status, av.F, av.PValue, "")

	fmt.Println("\nPer-model summary:")
	for _, m := range r.DescriptiveStats.ByModel {
		fmt.Printf("  %-24s age=%.2fy  battery=%.1fkWh  cost_eff=%.4f USD/kWh\n",
			m.Model, m.MeanAgeYears, m.MeanBatteryKWh, m.MeanCostEfficiency)
	}
}

func printTemperature(r *analysis.TemperatureResults) {
	printHeader("Temperature Impact on Energy Efficiency")
	fmt.Printf("Sessions analysed: %d\n", len(r.Data.Sessions))
	for _, rem := range r.Data.Removals {
		fmt.Printf("  cleaning: %s removed %d rows\n", rem.Step, rem.Rows)
	}

	printTable("Energy efficiency (kWh/km)", r.Analysis.BucketMeans)

	av := r.Analysis.BucketANOVA
	fmt.Println("\nStatistical tests:")
	printTest("ANOVA across temp ranges", av.Status, av.F, av.PValue, "")

	fmt.Println("\nInsights:")
	fmt.Printf("  %s\n", r.Insights.Correlation)
	fmt.Printf("  %s\n", r.Insights.TempRangeImpact)
	fmt.Printf("  %s\n", r.Insights.TemperatureRange)
	fmt.Printf("  %s\n", r.Insights.StatisticalSignificance)
}

func warningSuffix(w string) string {
	if w == "" {
		return ""
	}
	return "  [" + w + "]"
}
