package sessions

import "math"

// Time-of-day bucket labels, in canonical order.
var TimeOfDayLevels = []string{"Night", "Morning", "Afternoon", "Evening"}

// Day-of-week labels in calendar order, used for pivot axes.
var DayOfWeekLevels = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Temperature bucket labels, in ascending order. Records above 40°C are
// dropped before bucketing, so every surviving record gets a label.
var TempRangeLevels = []string{"Below 0°C", "0-10°C", "10-20°C", "20-30°C", "30-40°C"}

// TimeOfDayBucket maps an hour of day to its bucket:
// Night [-inf,6), Morning [6,12), Afternoon [12,18), Evening [18,inf).
func TimeOfDayBucket(hour int) string {
	switch {
	case hour < 6:
		return "Night"
	case hour < 12:
		return "Morning"
	case hour < 18:
		return "Afternoon"
	default:
		return "Evening"
	}
}

// TempRangeBucket maps an ambient temperature (°C) to its range label.
// Intervals are right-closed: exactly 0°C lands in "Below 0°C", exactly
// 10°C in "0-10°C", and so on. Temperatures above 40°C have no bucket and
// return "".
func TempRangeBucket(temp float64) string {
	switch {
	case temp <= 0:
		return "Below 0°C"
	case temp <= 10:
		return "0-10°C"
	case temp <= 20:
		return "10-20°C"
	case temp <= 30:
		return "20-30°C"
	case temp <= 40:
		return "30-40°C"
	default:
		return ""
	}
}

// derivePercentCharged fills PercentCharged on every record.
func derivePercentCharged(rows []Session) {
	for i := range rows {
		rows[i].PercentCharged = rows[i].EndSoC - rows[i].StartSoC
	}
}

// deriveTimeFeatures fills Hour, DayOfWeek, and TimeOfDay from the start
// timestamp.
func deriveTimeFeatures(rows []Session) {
	for i := range rows {
		rows[i].Hour = rows[i].StartTime.Hour()
		rows[i].DayOfWeek = rows[i].StartTime.Weekday().String()
		rows[i].TimeOfDay = TimeOfDayBucket(rows[i].Hour)
	}
}

// deriveCostEfficiency fills CostEfficiency (USD/kWh). A zero energy value
// yields NaN so the ratio guard step can drop the row explicitly.
func deriveCostEfficiency(rows []Session) {
	for i := range rows {
		if rows[i].EnergyKWh == 0 {
			rows[i].CostEfficiency = math.NaN()
			continue
		}
		rows[i].CostEfficiency = rows[i].CostUSD / rows[i].EnergyKWh
	}
}

// deriveEnergyEfficiency fills EnergyEfficiency (kWh/km). A zero distance
// yields NaN so the ratio guard step can drop the row explicitly.
func deriveEnergyEfficiency(rows []Session) {
	for i := range rows {
		if rows[i].DistanceKm == 0 {
			rows[i].EnergyEfficiency = math.NaN()
			continue
		}
		rows[i].EnergyEfficiency = rows[i].EnergyKWh / rows[i].DistanceKm
	}
}

// deriveTempRange fills TempRange from the ambient temperature.
func deriveTempRange(rows []Session) {
	for i := range rows {
		rows[i].TempRange = TempRangeBucket(rows[i].TemperatureC)
	}
}
