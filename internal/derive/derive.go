package derive

import (
	"log/slog"

	"github.com/TobiSchelling/waterwise/internal/stats"
	"github.com/TobiSchelling/waterwise/internal/water"
)

// DefaultOutlierRGPCD is the per-capita value above which a figure is treated
// as an entry error.
const DefaultOutlierRGPCD = 1000

// Result holds counts from a derivation run.
type Result struct {
	Derived        int
	OutliersNulled int
	MissingData    int
}

// Deriver annotates good-quality suppliers with derived fields.
type Deriver struct {
	outlierRGPCD float64
	daysPerYear  float64
}

// NewDeriver creates a deriver. Non-positive arguments use the defaults.
func NewDeriver(outlierRGPCD, daysPerYear float64) *Deriver {
	if outlierRGPCD <= 0 {
		outlierRGPCD = DefaultOutlierRGPCD
	}
	if daysPerYear <= 0 {
		daysPerYear = water.DaysPerYear
	}
	return &Deriver{outlierRGPCD: outlierRGPCD, daysPerYear: daysPerYear}
}

// Derive sets population served, efficiency percent and label on every record,
// then nulls out per-capita outliers. Records are modified in place.
func (d *Deriver) Derive(records []water.Supplier) *Result {
	r := &Result{}
	for i := range records {
		s := &records[i]

		// Population uses the ingested R-GPCD, before outliers are removed.
		s.PopulationServed = d.Population(s.ResidentialUse, s.RGPCDValue())
		s.EfficiencyPercent = Efficiency(s.ResidentialUse, s.PotableUse)
		s.EfficiencyLabel = Label(s.EfficiencyPercent)
		if s.EfficiencyLabel == water.MissingData {
			r.MissingData++
		}

		if s.RGPCD != nil && *s.RGPCD > d.outlierRGPCD {
			s.RGPCD = nil
			r.OutliersNulled++
		}
		r.Derived++
	}

	slog.Debug("derived metrics", "records", r.Derived, "outliers", r.OutliersNulled)
	return r
}

// Population estimates people served from an annual total and R-GPCD.
// The total is assumed to be annual; a different time basis needs a
// different divisor.
func (d *Deriver) Population(annualTotal, rgpcd float64) float64 {
	if rgpcd <= 0 {
		return 0
	}
	return annualTotal / (rgpcd * d.daysPerYear)
}

// Efficiency is the share of total residential use not covered by potable-only
// use, as a percentage clamped to [0, 100].
func Efficiency(total, potable float64) float64 {
	return stats.Clamp(stats.Ratio(total-potable, total)*100, 0, 100)
}

// Label returns MissingData for an efficiency of exactly zero. A computed zero
// and an absent figure are indistinguishable in the source data.
func Label(efficiency float64) water.EfficiencyLabel {
	if efficiency == 0 {
		return water.MissingData
	}
	return water.Reported
}
