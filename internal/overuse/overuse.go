package overuse

import (
	"log/slog"

	"github.com/TobiSchelling/waterwise/internal/aggregate"
	"github.com/TobiSchelling/waterwise/internal/water"
)

const (
	// DefaultEfficiencyThreshold is the efficiency percent below which a
	// supplier above its regional median is flagged.
	DefaultEfficiencyThreshold = 5
	// DefaultFallbackMedian is used for a region with no defined R-GPCD.
	DefaultFallbackMedian = 80
)

// Result holds the outcome of an overuse classification.
type Result struct {
	Flagged    int
	Reportable int
	Regions    []aggregate.RegionAggregate
	Thresholds map[water.Region]float64 // median R-GPCD each region was judged against
}

// Classifier flags suppliers whose per-capita use exceeds their region's
// median while showing low efficiency.
type Classifier struct {
	efficiencyThreshold float64
	fallbackMedian      float64
}

// NewClassifier creates a classifier. Non-positive arguments use the defaults.
func NewClassifier(efficiencyThreshold, fallbackMedian float64) *Classifier {
	if efficiencyThreshold <= 0 {
		efficiencyThreshold = DefaultEfficiencyThreshold
	}
	if fallbackMedian <= 0 {
		fallbackMedian = DefaultFallbackMedian
	}
	return &Classifier{
		efficiencyThreshold: efficiencyThreshold,
		fallbackMedian:      fallbackMedian,
	}
}

// Classify aggregates records by region and sets Overuse on each record in
// place. Records must already be derived with outliers removed, otherwise
// the regional medians include them.
func (c *Classifier) Classify(records []water.Supplier) *Result {
	aggs := aggregate.ByRegion(records)

	r := &Result{
		Regions:    aggs,
		Thresholds: make(map[water.Region]float64, len(aggs)),
	}
	for _, a := range aggs {
		r.Thresholds[a.Region] = c.median(a)
	}

	for i := range records {
		s := &records[i]
		s.Overuse = c.Flag(*s, c.threshold(r.Thresholds, s.Region))
		if s.Overuse {
			r.Flagged++
			if s.ReportableOveruse() {
				r.Reportable++
			}
		}
	}

	slog.Debug("classified overuse", "flagged", r.Flagged, "reportable", r.Reportable)
	return r
}

// Flag applies the overuse rule against a regional median. Suppliers with no
// defined R-GPCD are never flagged.
func (c *Classifier) Flag(s water.Supplier, regionMedian float64) bool {
	if s.RGPCD == nil {
		return false
	}
	return *s.RGPCD > regionMedian && s.EfficiencyPercent < c.efficiencyThreshold
}

func (c *Classifier) median(a aggregate.RegionAggregate) float64 {
	if !a.HasRGPCD() {
		return c.fallbackMedian
	}
	return a.MedianRGPCD
}

func (c *Classifier) threshold(thresholds map[water.Region]float64, region water.Region) float64 {
	if m, ok := thresholds[region]; ok {
		return m
	}
	return c.fallbackMedian
}
