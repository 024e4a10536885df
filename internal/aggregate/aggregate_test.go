package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltaic-data/charge.report/internal/sessions"
)

func sampleSessions() []sessions.Session {
	return []sessions.Session{
		{UserType: "Commuter", DayOfWeek: "Monday", PercentCharged: 40},
		{UserType: "Commuter", DayOfWeek: "Monday", PercentCharged: 60},
		{UserType: "Commuter", DayOfWeek: "Tuesday", PercentCharged: 50},
		{UserType: "Casual", DayOfWeek: "Monday", PercentCharged: 30},
		{UserType: "Casual", DayOfWeek: "Friday", PercentCharged: 80},
	}
}

func TestBy(t *testing.T) {
	t.Parallel()

	t.Run("single key", func(t *testing.T) {
		t.Parallel()
		table := By(sampleSessions(), []string{"user_type"}, "percent_charged",
			func(s sessions.Session) []string { return []string{s.UserType} },
			func(s sessions.Session) float64 { return s.PercentCharged })

		require.Len(t, table.Groups, 2)
		assert.Equal(t, []string{"Commuter"}, table.Groups[0].Keys)
		assert.Equal(t, 3, table.Groups[0].Stats.Count)
		assert.InDelta(t, 50.0, table.Groups[0].Stats.Mean, 1e-12)

		casual, ok := table.Lookup("Casual")
		require.True(t, ok)
		assert.Equal(t, 2, casual.Stats.Count)
	})

	t.Run("two keys", func(t *testing.T) {
		t.Parallel()
		table := By(sampleSessions(), []string{"user_type", "day_of_week"}, "percent_charged",
			func(s sessions.Session) []string { return []string{s.UserType, s.DayOfWeek} },
			func(s sessions.Session) float64 { return s.PercentCharged })

		require.Len(t, table.Groups, 4)
		g, ok := table.Lookup("Commuter", "Monday")
		require.True(t, ok)
		assert.Equal(t, 2, g.Stats.Count)
		assert.InDelta(t, 50.0, g.Stats.Mean, 1e-12)
	})

	t.Run("counts sum to total", func(t *testing.T) {
		t.Parallel()
		data := sampleSessions()
		table := By(data, []string{"user_type"}, "percent_charged",
			func(s sessions.Session) []string { return []string{s.UserType} },
			func(s sessions.Session) float64 { return s.PercentCharged })

		assert.Equal(t, len(data), table.TotalCount())
	})

	t.Run("empty groups omitted", func(t *testing.T) {
		t.Parallel()
		table := By(nil, []string{"user_type"}, "percent_charged",
			func(s sessions.Session) []string { return []string{s.UserType} },
			func(s sessions.Session) float64 { return s.PercentCharged })
		assert.Empty(t, table.Groups)
	})
}

func TestPivotMean(t *testing.T) {
	t.Parallel()

	pivot := PivotMean(sampleSessions(), "user_type", "day_of_week",
		[]string{"Commuter", "Casual"},
		[]string{"Monday", "Tuesday", "Friday"},
		func(s sessions.Session) string { return s.UserType },
		func(s sessions.Session) string { return s.DayOfWeek },
		func(s sessions.Session) float64 { return s.PercentCharged })

	require.Len(t, pivot.Cells, 2)
	require.Len(t, pivot.Cells[0], 3)

	assert.InDelta(t, 50.0, pivot.Cells[0][0], 1e-12) // Commuter/Monday
	assert.InDelta(t, 50.0, pivot.Cells[0][1], 1e-12) // Commuter/Tuesday
	assert.True(t, math.IsNaN(pivot.Cells[0][2]), "Commuter/Friday must be no-data")
	assert.True(t, math.IsNaN(pivot.Cells[1][1]), "Casual/Tuesday must be no-data")
	assert.InDelta(t, 80.0, pivot.Cells[1][2], 1e-12) // Casual/Friday

	// Cell counts sum to the input total.
	total := 0
	for _, row := range pivot.Counts {
		for _, c := range row {
			total += c
		}
	}
	assert.Equal(t, len(sampleSessions()), total)
}

func TestLevelsAndGroupValues(t *testing.T) {
	t.Parallel()

	levels := Levels(sampleSessions(), func(s sessions.Session) string { return s.UserType })
	assert.Equal(t, []string{"Commuter", "Casual"}, levels)

	gl, groups := GroupValues(sampleSessions(),
		func(s sessions.Session) string { return s.UserType },
		func(s sessions.Session) float64 { return s.PercentCharged })
	assert.Equal(t, levels, gl)
	require.Len(t, groups, 2)
	assert.Equal(t, []float64{40, 60, 50}, groups[0])
	assert.Equal(t, []float64{30, 80}, groups[1])
}
