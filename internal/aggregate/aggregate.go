// Package aggregate groups cleaned session records by one or two
// categorical dimensions and computes per-group summary statistics. Group
// order follows first appearance in the data so repeated runs over the same
// input produce identical tables.
package aggregate

import (
	"math"

	"github.com/voltaic-data/charge.report/internal/sessions"
	"github.com/voltaic-data/charge.report/internal/stats"
)

// Group is one row of a Table: its key values (one per grouping dimension)
// and the summary of the aggregated field within the group.
type Group struct {
	Keys  []string      `json:"keys"`
	Stats stats.Summary `json:"stats"`
}

// Table is an ordered set of groups. Groups with zero members are omitted.
type Table struct {
	KeyNames  []string `json:"key_names"`
	ValueName string   `json:"value_name"`
	Groups    []Group  `json:"groups"`
}

// TotalCount sums the per-group counts; for a grouping over a cleaned
// dataset it equals the dataset total.
func (t Table) TotalCount() int {
	n := 0
	for _, g := range t.Groups {
		n += g.Stats.Count
	}
	return n
}

// Lookup returns the group with the given key values.
func (t Table) Lookup(keys ...string) (Group, bool) {
	for _, g := range t.Groups {
		if equalKeys(g.Keys, keys) {
			return g, true
		}
	}
	return Group{}, false
}

// By groups rows by the given key function (returning one value per
// grouping dimension) and summarises the value field within each group.
func By(rows []sessions.Session, keyNames []string, valueName string,
	key func(sessions.Session) []string, value func(sessions.Session) float64) Table {

	return ByIndexed(len(rows), keyNames, valueName,
		func(i int) []string { return key(rows[i]) },
		func(i int) float64 { return value(rows[i]) })
}

// ByIndexed groups n rows addressed by index. It serves callers whose
// grouping keys live outside the record itself, like quantile-bucket
// labels computed over a whole column.
func ByIndexed(n int, keyNames []string, valueName string,
	key func(int) []string, value func(int) float64) Table {

	type bucket struct {
		keys   []string
		values []float64
	}
	index := map[string]*bucket{}
	var order []string

	for i := 0; i < n; i++ {
		keys := key(i)
		id := joinKeys(keys)
		b, ok := index[id]
		if !ok {
			b = &bucket{keys: keys}
			index[id] = b
			order = append(order, id)
		}
		b.values = append(b.values, value(i))
	}

	t := Table{KeyNames: keyNames, ValueName: valueName}
	for _, id := range order {
		b := index[id]
		t.Groups = append(t.Groups, Group{Keys: b.keys, Stats: stats.Describe(b.values)})
	}
	return t
}

// Pivot is a full-Cartesian two-dimensional table of a mean-aggregated
// field. Cells with no members hold NaN ("no data"), never an error.
type Pivot struct {
	RowName string      `json:"row_name"`
	ColName string      `json:"col_name"`
	Rows    []string    `json:"rows"`
	Cols    []string    `json:"cols"`
	Cells   [][]float64 `json:"cells"`
	Counts  [][]int     `json:"counts"`
}

// PivotMean builds a mean-value pivot table over the fixed row and column
// level lists. Rows whose keys fall outside the given levels are ignored.
func PivotMean(data []sessions.Session, rowName, colName string, rowLevels, colLevels []string,
	rowKey, colKey func(sessions.Session) string, value func(sessions.Session) float64) Pivot {

	return PivotMeanIndexed(len(data), rowName, colName, rowLevels, colLevels,
		func(i int) string { return rowKey(data[i]) },
		func(i int) string { return colKey(data[i]) },
		func(i int) float64 { return value(data[i]) })
}

// PivotMeanIndexed is PivotMean over rows addressed by index.
func PivotMeanIndexed(n int, rowName, colName string, rowLevels, colLevels []string,
	rowKey, colKey func(int) string, value func(int) float64) Pivot {

	rowIdx := indexOf(rowLevels)
	colIdx := indexOf(colLevels)

	sums := make([][]float64, len(rowLevels))
	counts := make([][]int, len(rowLevels))
	for i := range sums {
		sums[i] = make([]float64, len(colLevels))
		counts[i] = make([]int, len(colLevels))
	}

	for k := 0; k < n; k++ {
		i, ok := rowIdx[rowKey(k)]
		if !ok {
			continue
		}
		j, ok := colIdx[colKey(k)]
		if !ok {
			continue
		}
		v := value(k)
		if math.IsNaN(v) {
			continue
		}
		sums[i][j] += v
		counts[i][j]++
	}

	cells := make([][]float64, len(rowLevels))
	for i := range cells {
		cells[i] = make([]float64, len(colLevels))
		for j := range cells[i] {
			if counts[i][j] == 0 {
				cells[i][j] = math.NaN()
				continue
			}
			cells[i][j] = sums[i][j] / float64(counts[i][j])
		}
	}

	return Pivot{
		RowName: rowName, ColName: colName,
		Rows: append([]string(nil), rowLevels...),
		Cols: append([]string(nil), colLevels...),
		Cells: cells, Counts: counts,
	}
}

// Levels returns the distinct values of key in first-appearance order.
func Levels(rows []sessions.Session, key func(sessions.Session) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range rows {
		k := key(s)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}

// GroupValues collects the value field per level of key, in
// first-appearance level order.
func GroupValues(rows []sessions.Session, key func(sessions.Session) string,
	value func(sessions.Session) float64) (levels []string, groups [][]float64) {

	index := map[string]int{}
	for _, s := range rows {
		k := key(s)
		i, ok := index[k]
		if !ok {
			i = len(levels)
			index[k] = i
			levels = append(levels, k)
			groups = append(groups, nil)
		}
		v := value(s)
		if !math.IsNaN(v) {
			groups[i] = append(groups[i], v)
		}
	}
	return levels, groups
}

func joinKeys(keys []string) string {
	id := ""
	for i, k := range keys {
		if i > 0 {
			id += "\x1f" // unit separator; keys never contain it
		}
		id += k
	}
	return id
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func indexOf(levels []string) map[string]int {
	m := make(map[string]int, len(levels))
	for i, l := range levels {
		m[l] = i
	}
	return m
}
