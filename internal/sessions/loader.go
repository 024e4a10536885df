package sessions

import (
	"log"
	"math"

	"github.com/voltaic-data/charge.report/internal/stats"
)

// iqrMultiplier sets the outlier fences at Q1-1.5*IQR and Q3+1.5*IQR.
const iqrMultiplier = 1.5

// Removal records how many rows one cleaning step dropped.
type Removal struct {
	Step string `json:"step"`
	Rows int    `json:"rows"`
}

// Dataset is a cleaned, immutable set of sessions plus the removal log of
// the pipeline that produced it. No package mutates a Dataset after the
// loader returns it.
type Dataset struct {
	Sessions []Session `json:"sessions"`
	Removals []Removal `json:"removals"`
}

// Total returns the number of cleaned rows.
func (d *Dataset) Total() int { return len(d.Sessions) }

// record appends a removal entry and logs it when rows were dropped.
func (d *Dataset) record(step string, before, after int) {
	removed := before - after
	d.Removals = append(d.Removals, Removal{Step: step, Rows: removed})
	if removed > 0 {
		log.Printf("[Loader] %s: removed %d rows (%d remain)", step, removed, after)
	}
}

// keep filters d.Sessions in place order-preservingly and records the step.
func (d *Dataset) keep(step string, pred func(Session) bool) {
	before := len(d.Sessions)
	kept := d.Sessions[:0:0]
	for _, s := range d.Sessions {
		if pred(s) {
			kept = append(kept, s)
		}
	}
	d.Sessions = kept
	d.record(step, before, len(d.Sessions))
}

// LoadPatterns produces the cleaned dataset for the charging-pattern
// analysis: percentage-charged filter first, then time features.
func LoadPatterns(path string) (*Dataset, error) {
	rows, err := ReadCSV(path)
	if err != nil {
		return nil, err
	}
	d := &Dataset{Sessions: rows}

	derivePercentCharged(d.Sessions)
	d.keep("percentage charged outside [0,100]", func(s Session) bool {
		return s.PercentCharged >= 0 && s.PercentCharged <= 100
	})

	deriveTimeFeatures(d.Sessions)
	return d, nil
}

// LoadAgeCost produces the cleaned dataset for the vehicle-age vs
// cost-efficiency analysis. Both IQR fences (cost efficiency and battery
// capacity) are computed over the same pre-removal rows and applied
// jointly, then rows missing any required numeric field are dropped.
func LoadAgeCost(path string) (*Dataset, error) {
	rows, err := ReadCSV(path)
	if err != nil {
		return nil, err
	}
	d := &Dataset{Sessions: rows}

	deriveCostEfficiency(d.Sessions)
	d.keep("zero energy consumed", func(s Session) bool {
		return s.EnergyKWh != 0 // NaN != 0; missing energy falls to the NaN steps below
	})

	costLo, costHi := stats.Fences(Column(d.Sessions, func(s Session) float64 { return s.CostEfficiency }), iqrMultiplier)
	battLo, battHi := stats.Fences(Column(d.Sessions, func(s Session) float64 { return s.BatteryCapacityKWh }), iqrMultiplier)
	d.keep("cost-efficiency or battery-capacity IQR outlier", func(s Session) bool {
		return within(s.CostEfficiency, costLo, costHi) && within(s.BatteryCapacityKWh, battLo, battHi)
	})

	d.keep("missing numeric value", func(s Session) bool {
		return !anyNaN(s.VehicleAgeYears, s.BatteryCapacityKWh, s.CostUSD, s.EnergyKWh, s.CostEfficiency)
	})
	return d, nil
}

// LoadTemperature produces the cleaned dataset for the temperature-impact
// analysis: drop temperatures above 40°C, drop rows missing an efficiency
// input, then fence energy efficiency, then bucket.
func LoadTemperature(path string) (*Dataset, error) {
	rows, err := ReadCSV(path)
	if err != nil {
		return nil, err
	}
	d := &Dataset{Sessions: rows}

	d.keep("temperature above 40°C", func(s Session) bool {
		return s.TemperatureC <= 40
	})

	deriveEnergyEfficiency(d.Sessions)
	d.keep("missing numeric value", func(s Session) bool {
		return !anyNaN(s.DistanceKm, s.EnergyKWh)
	})
	d.keep("zero distance driven", func(s Session) bool {
		return s.DistanceKm != 0
	})

	lo, hi := stats.Fences(Column(d.Sessions, func(s Session) float64 { return s.EnergyEfficiency }), iqrMultiplier)
	d.keep("energy-efficiency IQR outlier", func(s Session) bool {
		return within(s.EnergyEfficiency, lo, hi)
	})

	deriveTempRange(d.Sessions)
	return d, nil
}

// Column extracts one numeric field from every session.
func Column(rows []Session, field func(Session) float64) []float64 {
	out := make([]float64, len(rows))
	for i, s := range rows {
		out[i] = field(s)
	}
	return out
}

func within(v, lo, hi float64) bool {
	return v >= lo && v <= hi // NaN compares false and is dropped
}

func anyNaN(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
