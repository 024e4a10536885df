// Package sessions loads EV charging session records from CSV and prepares
// the cleaned datasets the analysis packages consume: derived ratio and
// bucket fields, ordered outlier filtering, and per-step removal counts.
package sessions

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"
)

// Session is one charging event. The derived fields are populated by the
// loader pipelines; a zero Session has them unset.
type Session struct {
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	StartSoC           float64   `json:"start_soc"`
	EndSoC             float64   `json:"end_soc"`
	EnergyKWh          float64   `json:"energy_kwh"`
	DistanceKm         float64   `json:"distance_km"`
	CostUSD            float64   `json:"cost_usd"`
	DurationHours      float64   `json:"duration_hours"`
	BatteryCapacityKWh float64   `json:"battery_capacity_kwh"`
	VehicleAgeYears    float64   `json:"vehicle_age_years"`
	VehicleModel       string    `json:"vehicle_model"`
	UserType           string    `json:"user_type"`
	TemperatureC       float64   `json:"temperature_c"`

	// Derived fields.
	PercentCharged   float64 `json:"percent_charged"`
	CostEfficiency   float64 `json:"cost_efficiency"`   // USD per kWh
	EnergyEfficiency float64 `json:"energy_efficiency"` // kWh per km
	Hour             int     `json:"hour"`
	DayOfWeek        string  `json:"day_of_week"`
	TimeOfDay        string  `json:"time_of_day"`
	TempRange        string  `json:"temp_range"`
}

// Column names in the fixed CSV schema.
const (
	colStartTime  = "Charging Start Time"
	colEndTime    = "Charging End Time"
	colStartSoC   = "State of Charge (Start %)"
	colEndSoC     = "State of Charge (End %)"
	colEnergy     = "Energy Consumed (kWh)"
	colDistance   = "Distance Driven (since last charge) (km)"
	colCost       = "Charging Cost (USD)"
	colDuration   = "Charging Duration (hours)"
	colBattery    = "Battery Capacity (kWh)"
	colVehicleAge = "Vehicle Age (years)"
	colModel      = "Vehicle Model"
	colUserType   = "User Type"
	colTemp       = "Temperature (°C)"
)

var requiredColumns = []string{
	colStartTime, colEndTime, colStartSoC, colEndSoC, colEnergy,
	colDistance, colCost, colDuration, colBattery, colVehicleAge,
	colModel, colUserType, colTemp,
}

// timestampLayouts are tried in order when parsing the time columns.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// ReadCSV decodes every row of the file at path into Sessions. A missing or
// unknown header column, an unparseable timestamp, or a non-empty numeric
// field that fails to parse rejects the whole input. Empty numeric fields
// decode as NaN and are left to the missing-value filter step.
func ReadCSV(path string) ([]Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sessions file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q in %s", name, path)
		}
	}

	var out []Session
	line := 1
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++

		s, err := decodeRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func decodeRow(record []string, cols map[string]int) (Session, error) {
	field := func(name string) string { return record[cols[name]] }

	start, err := parseTimestamp(field(colStartTime))
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", colStartTime, err)
	}
	end, err := parseTimestamp(field(colEndTime))
	if err != nil {
		return Session{}, fmt.Errorf("%s: %w", colEndTime, err)
	}

	s := Session{
		StartTime:    start,
		EndTime:      end,
		VehicleModel: field(colModel),
		UserType:     field(colUserType),
	}

	numeric := []struct {
		name string
		dst  *float64
	}{
		{colStartSoC, &s.StartSoC},
		{colEndSoC, &s.EndSoC},
		{colEnergy, &s.EnergyKWh},
		{colDistance, &s.DistanceKm},
		{colCost, &s.CostUSD},
		{colDuration, &s.DurationHours},
		{colBattery, &s.BatteryCapacityKWh},
		{colVehicleAge, &s.VehicleAgeYears},
		{colTemp, &s.TemperatureC},
	}
	for _, n := range numeric {
		v, err := parseNumeric(field(n.name))
		if err != nil {
			return Session{}, fmt.Errorf("%s: %w", n.name, err)
		}
		*n.dst = v
	}
	return s, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", raw)
}

func parseNumeric(raw string) (float64, error) {
	if raw == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable number %q", raw)
	}
	return v, nil
}
