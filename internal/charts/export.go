package charts

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/voltaic-data/charge.report/internal/security"
)

// ExportPNG writes a static PNG rendering of the chart to outputDir,
// named after file. Only scatter (with optional trend line) and box charts
// have a static form; other kinds return an error.
func ExportPNG(spec Spec, outputDir, file string) (string, error) {
	if err := security.ValidatePathWithinDirectory(filepath.Join(outputDir, file), outputDir); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create chart output dir: %w", err)
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel

	switch spec.Kind {
	case KindScatter:
		if err := addScatter(p, spec); err != nil {
			return "", err
		}
	case KindBox:
		if err := addBoxes(p, spec); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("no static rendering for chart kind %q", spec.Kind)
	}

	path := filepath.Join(outputDir, file)
	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save chart %s: %w", file, err)
	}
	return path, nil
}

func addScatter(p *plot.Plot, spec Spec) error {
	xMin, xMax := 0.0, 0.0
	first := true
	for _, series := range spec.Series {
		pts := make(plotter.XYs, 0, len(series.X))
		for i := range series.X {
			if first || series.X[i] < xMin {
				xMin = series.X[i]
			}
			if first || series.X[i] > xMax {
				xMax = series.X[i]
			}
			first = false
			pts = append(pts, plotter.XY{X: series.X[i], Y: series.Y[i]})
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return fmt.Errorf("scatter series %s: %w", series.Name, err)
		}
		p.Add(sc)
		p.Legend.Add(series.Name, sc)
	}

	if spec.Trend != nil && !first {
		trend, err := plotter.NewLine(plotter.XYs{
			{X: xMin, Y: spec.Trend.Intercept + spec.Trend.Slope*xMin},
			{X: xMax, Y: spec.Trend.Intercept + spec.Trend.Slope*xMax},
		})
		if err != nil {
			return fmt.Errorf("trend line: %w", err)
		}
		trend.Width = vg.Points(1)
		trend.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(trend)
		p.Legend.Add("trend", trend)
	}
	return nil
}

func addBoxes(p *plot.Plot, spec Spec) error {
	loc := 0.0
	var names []string
	for _, series := range spec.Series {
		for i, values := range series.Boxes {
			if len(values) == 0 {
				continue
			}
			box, err := plotter.NewBoxPlot(vg.Points(24), loc, plotter.Values(values))
			if err != nil {
				return fmt.Errorf("box %d of series %s: %w", i, series.Name, err)
			}
			p.Add(box)
			if i < len(spec.Categories) {
				names = append(names, spec.Categories[i])
			} else {
				names = append(names, series.Name)
			}
			loc++
		}
	}
	p.NominalX(names...)
	return nil
}
