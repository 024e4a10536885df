package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// viridis is the color ramp used by heatmap visual maps.
var viridis = []string{
	"#440154", "#482777", "#3e4989", "#31688e", "#26828e",
	"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
}

// Build converts a chart description into a go-echarts chart.
func Build(spec Spec) (components.Charter, error) {
	switch spec.Kind {
	case KindBox:
		return buildBox(spec), nil
	case KindHeatmap:
		return buildHeatmap(spec), nil
	case KindScatter:
		return buildScatter(spec), nil
	case KindLine:
		return buildLine(spec), nil
	case KindBar:
		return buildBar(spec), nil
	default:
		return nil, fmt.Errorf("unknown chart kind %q", spec.Kind)
	}
}

// RenderHTML writes a standalone HTML page containing the given charts.
func RenderHTML(w io.Writer, specs ...Spec) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	for _, spec := range specs {
		chart, err := Build(spec)
		if err != nil {
			return err
		}
		page.AddCharts(chart)
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render charts: %w", err)
	}
	return nil
}

func globalOpts(spec Spec) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: spec.Title, Width: "900px", Height: "520px"}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XLabel, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YLabel, NameLocation: "middle", NameGap: 45}),
	}
}

func buildBox(spec Spec) components.Charter {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(globalOpts(spec)...)
	box.SetXAxis(spec.Categories)

	for _, series := range spec.Series {
		data := make([]opts.BoxPlotData, 0, len(series.Boxes))
		for _, values := range series.Boxes {
			if len(values) == 0 {
				data = append(data, opts.BoxPlotData{})
				continue
			}
			data = append(data, opts.BoxPlotData{Value: fiveNumber(values)})
		}
		box.AddSeries(series.Name, data)
	}
	return box
}

func buildHeatmap(spec Spec) components.Charter {
	hm := charts.NewHeatMap()

	lo, hi := math.Inf(1), math.Inf(-1)
	var data []opts.HeatMapData
	for i, row := range spec.Grid.Cells {
		for j, v := range row {
			if math.IsNaN(v) {
				continue // empty cell renders as "no data"
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, v}})
		}
	}
	if lo > hi {
		lo, hi = 0, 1
	}

	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: spec.Title, Width: "900px", Height: "520px"}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: spec.XLabel, Data: spec.Grid.Cols}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: spec.YLabel, Data: spec.Grid.Rows}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	hm.AddSeries("mean", data)
	return hm
}

func buildScatter(spec Spec) components.Charter {
	scatter := charts.NewScatter()
	global := globalOpts(spec)
	global = append(global,
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: spec.XLabel, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: spec.YLabel, NameLocation: "middle", NameGap: 45}),
	)
	scatter.SetGlobalOptions(global...)

	xMin, xMax := math.Inf(1), math.Inf(-1)
	for _, series := range spec.Series {
		data := make([]opts.ScatterData, 0, len(series.X))
		for i := range series.X {
			if series.X[i] < xMin {
				xMin = series.X[i]
			}
			if series.X[i] > xMax {
				xMax = series.X[i]
			}
			data = append(data, opts.ScatterData{Value: []interface{}{series.X[i], series.Y[i]}})
		}
		scatter.AddSeries(series.Name, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	}

	if spec.Trend != nil && xMin <= xMax {
		line := charts.NewLine()
		points := []opts.LineData{
			{Value: []interface{}{xMin, spec.Trend.Intercept + spec.Trend.Slope*xMin}},
			{Value: []interface{}{xMax, spec.Trend.Intercept + spec.Trend.Slope*xMax}},
		}
		line.AddSeries("trend", points)
		scatter.Overlap(line)
	}
	return scatter
}

func buildLine(spec Spec) components.Charter {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(spec)...)
	line.SetXAxis(spec.Categories)
	for _, series := range spec.Series {
		data := make([]opts.LineData, 0, len(series.Values))
		for _, v := range series.Values {
			if math.IsNaN(v) {
				data = append(data, opts.LineData{})
				continue
			}
			data = append(data, opts.LineData{Value: v})
		}
		line.AddSeries(series.Name, data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	}
	return line
}

func buildBar(spec Spec) components.Charter {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(spec)...)
	bar.SetXAxis(spec.Categories)
	for _, series := range spec.Series {
		data := make([]opts.BarData, 0, len(series.Values))
		for _, v := range series.Values {
			data = append(data, opts.BarData{Value: v})
		}
		bar.AddSeries(series.Name, data, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	}
	return bar
}
