package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	t.Run("known values", func(t *testing.T) {
		t.Parallel()
		s := Describe([]float64{1, 2, 3, 4})

		assert.Equal(t, 4, s.Count)
		assert.InDelta(t, 2.5, s.Mean, 1e-12)
		assert.InDelta(t, 1.2909944487, s.StdDev, 1e-9)
		assert.Equal(t, 1.0, s.Min)
		assert.InDelta(t, 1.75, s.Q1, 1e-12)
		assert.InDelta(t, 2.5, s.Median, 1e-12)
		assert.InDelta(t, 3.25, s.Q3, 1e-12)
		assert.Equal(t, 4.0, s.Max)
	})

	t.Run("skips NaN entries", func(t *testing.T) {
		t.Parallel()
		s := Describe([]float64{1, math.NaN(), 3})
		assert.Equal(t, 2, s.Count)
		assert.InDelta(t, 2.0, s.Mean, 1e-12)
	})

	t.Run("empty input", func(t *testing.T) {
		t.Parallel()
		s := Describe(nil)
		assert.Equal(t, 0, s.Count)
		assert.True(t, math.IsNaN(s.Mean))
		assert.True(t, math.IsNaN(s.Median))
	})

	t.Run("single value has undefined stddev", func(t *testing.T) {
		t.Parallel()
		s := Describe([]float64{7})
		assert.Equal(t, 1, s.Count)
		assert.Equal(t, 7.0, s.Median)
		assert.True(t, math.IsNaN(s.StdDev))
	})
}

func TestQuantile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"median odd", []float64{3, 1, 2}, 0.5, 2},
		{"median even interpolates", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"q1 interpolates", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"q3 interpolates", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"p zero is min", []float64{5, 1, 9}, 0, 1},
		{"p one is max", []float64{5, 1, 9}, 1, 9},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Quantile(tt.values, tt.p), 1e-12)
		})
	}

	t.Run("empty is NaN", func(t *testing.T) {
		t.Parallel()
		assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
	})
}

func TestFences(t *testing.T) {
	t.Parallel()

	lo, hi := Fences([]float64{1, 2, 3, 4}, 1.5)
	// Q1=1.75, Q3=3.25, IQR=1.5
	assert.InDelta(t, 1.75-2.25, lo, 1e-12)
	assert.InDelta(t, 3.25+2.25, hi, 1e-12)
}

func TestQCut(t *testing.T) {
	t.Parallel()

	t.Run("quartile buckets", func(t *testing.T) {
		t.Parallel()
		values := []float64{1, 2, 3, 4, 5, 6, 7, 8}
		buckets := QCut(values, 4)
		require.Len(t, buckets, len(values))
		assert.Equal(t, []int{0, 0, 1, 1, 2, 2, 3, 3}, buckets)
	})

	t.Run("NaN maps to -1", func(t *testing.T) {
		t.Parallel()
		buckets := QCut([]float64{1, math.NaN(), 3, 4}, 2)
		assert.Equal(t, -1, buckets[1])
	})
}

func TestSummaryMarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("single observation has null std", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Describe([]float64{5}))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"std":null`)
		assert.Contains(t, string(data), `"count":1`)
		assert.Contains(t, string(data), `"mean":5`)
	})

	t.Run("empty summary is all null", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Describe(nil))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"mean":null`)
		assert.Contains(t, string(data), `"count":0`)
	})
}
