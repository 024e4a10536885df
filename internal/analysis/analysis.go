// Package analysis assembles the loader, aggregator, test runner, and
// chart builder into the three reports the dashboard serves: charging
// patterns by user type and time, vehicle age vs cost efficiency, and
// ambient temperature impact on energy efficiency.
package analysis

import (
	"math"

	"github.com/voltaic-data/charge.report/internal/charts"
	"github.com/voltaic-data/charge.report/internal/sessions"
)

// boxSeriesByGroup builds one box-chart series per level of groupKey, with
// a box per category of catKey aligned to categories. Empty boxes render
// as gaps.
func boxSeriesByGroup(rows []sessions.Session, categories []string,
	groupKey, catKey func(sessions.Session) string,
	value func(sessions.Session) float64) []charts.Series {

	catIdx := map[string]int{}
	for i, c := range categories {
		catIdx[c] = i
	}

	type group struct {
		name  string
		boxes [][]float64
	}
	index := map[string]*group{}
	var order []*group

	for _, s := range rows {
		name := groupKey(s)
		g, ok := index[name]
		if !ok {
			g = &group{name: name, boxes: make([][]float64, len(categories))}
			index[name] = g
			order = append(order, g)
		}
		ci, ok := catIdx[catKey(s)]
		if !ok {
			continue
		}
		v := value(s)
		if math.IsNaN(v) {
			continue
		}
		g.boxes[ci] = append(g.boxes[ci], v)
	}

	out := make([]charts.Series, 0, len(order))
	for _, g := range order {
		out = append(out, charts.Series{Name: g.name, Boxes: g.boxes})
	}
	return out
}

// observedLevels filters the canonical level list down to levels that
// actually occur in the data, preserving canonical order.
func observedLevels(rows []sessions.Session, canonical []string, key func(sessions.Session) string) []string {
	present := map[string]bool{}
	for _, s := range rows {
		present[key(s)] = true
	}
	var out []string
	for _, l := range canonical {
		if present[l] {
			out = append(out, l)
		}
	}
	return out
}
