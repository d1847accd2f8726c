package aggregate

import (
	"github.com/TobiSchelling/waterwise/internal/stats"
	"github.com/TobiSchelling/waterwise/internal/water"
)

// RegionAggregate summarizes the good-quality suppliers of one region.
// RGPCD statistics only cover suppliers whose per-capita figure survived
// outlier removal; when none did, DefinedRGPCD is 0 and the statistics are 0.
type RegionAggregate struct {
	Region       water.Region
	Suppliers    int
	DefinedRGPCD int

	MedianRGPCD float64
	MeanRGPCD   float64
	MaxRGPCD    float64
	MinRGPCD    float64

	PotableUse       float64
	RecycledUse      float64
	ResidentialUse   float64
	PopulationServed float64
	MeanEfficiency   float64
}

// HasRGPCD reports whether the RGPCD statistics are meaningful.
func (a RegionAggregate) HasRGPCD() bool {
	return a.DefinedRGPCD > 0
}

// Tip returns the guidance category for the region's mean efficiency.
func (a RegionAggregate) Tip() TipCategory {
	return RegionTip(a.MeanEfficiency)
}

// ByRegion aggregates suppliers per region. Regions without suppliers are
// omitted; the rest follow water.Regions order.
func ByRegion(records []water.Supplier) []RegionAggregate {
	type bucket struct {
		rgpcd      []float64
		efficiency []float64
		agg        RegionAggregate
	}
	buckets := make(map[water.Region]*bucket)

	for _, s := range records {
		b, ok := buckets[s.Region]
		if !ok {
			b = &bucket{agg: RegionAggregate{Region: s.Region}}
			buckets[s.Region] = b
		}
		b.agg.Suppliers++
		b.agg.PotableUse += s.PotableUse
		b.agg.RecycledUse += s.RecycledUse
		b.agg.ResidentialUse += s.ResidentialUse
		b.agg.PopulationServed += s.PopulationServed
		b.efficiency = append(b.efficiency, s.EfficiencyPercent)
		if s.RGPCD != nil {
			b.rgpcd = append(b.rgpcd, *s.RGPCD)
		}
	}

	var out []RegionAggregate
	for _, region := range water.Regions {
		b, ok := buckets[region]
		if !ok {
			continue
		}
		a := b.agg
		a.DefinedRGPCD = len(b.rgpcd)
		a.MedianRGPCD, _ = stats.Median(b.rgpcd)
		a.MeanRGPCD, _ = stats.Mean(b.rgpcd)
		a.MinRGPCD, a.MaxRGPCD, _ = stats.MinMax(b.rgpcd)
		a.MeanEfficiency, _ = stats.Mean(b.efficiency)
		out = append(out, a)
	}
	return out
}

// Find returns the aggregate for a region.
func Find(aggs []RegionAggregate, region water.Region) (RegionAggregate, bool) {
	for _, a := range aggs {
		if a.Region == region {
			return a, true
		}
	}
	return RegionAggregate{}, false
}
