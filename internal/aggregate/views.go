package aggregate

import (
	"sort"

	"github.com/TobiSchelling/waterwise/internal/stats"
	"github.com/TobiSchelling/waterwise/internal/water"
)

// DefaultTopN is the row limit for the top-N tables.
const DefaultTopN = 10

// EfficiencyCounts tallies suppliers by efficiency label.
type EfficiencyCounts struct {
	Reported    int
	MissingData int
}

// RegionDemand is one row of the regional demand-share table.
type RegionDemand struct {
	Region         water.Region
	PotableUse     float64
	ResidentialUse float64
	SharePercent   float64 // of all suppliers' residential use
}

// CountEfficiency tallies efficiency labels.
func CountEfficiency(records []water.Supplier) EfficiencyCounts {
	var c EfficiencyCounts
	for _, s := range records {
		if s.EfficiencyLabel == water.MissingData {
			c.MissingData++
		} else {
			c.Reported++
		}
	}
	return c
}

// OveruseAreas returns reportable overuse suppliers by R-GPCD descending.
func OveruseAreas(records []water.Supplier) []water.Supplier {
	var out []water.Supplier
	for _, s := range records {
		if s.ReportableOveruse() {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RGPCDValue() != out[j].RGPCDValue() {
			return out[i].RGPCDValue() > out[j].RGPCDValue()
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Intensity orders region aggregates by mean R-GPCD descending. Regions with
// no defined R-GPCD sort last.
func Intensity(aggs []RegionAggregate) []RegionAggregate {
	out := append([]RegionAggregate(nil), aggs...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].HasRGPCD() != out[j].HasRGPCD() {
			return out[i].HasRGPCD()
		}
		return out[i].MeanRGPCD > out[j].MeanRGPCD
	})
	return out
}

// TopByPopulation returns the n suppliers with the largest population served.
func TopByPopulation(records []water.Supplier, n int) []water.Supplier {
	out := append([]water.Supplier(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PopulationServed != out[j].PopulationServed {
			return out[i].PopulationServed > out[j].PopulationServed
		}
		return out[i].Name < out[j].Name
	})
	return limit(out, n)
}

// DemandShare returns each region's share of total residential use, largest
// first.
func DemandShare(aggs []RegionAggregate) []RegionDemand {
	var total float64
	for _, a := range aggs {
		total += a.ResidentialUse
	}

	out := make([]RegionDemand, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, RegionDemand{
			Region:         a.Region,
			PotableUse:     a.PotableUse,
			ResidentialUse: a.ResidentialUse,
			SharePercent:   stats.Ratio(a.ResidentialUse, total) * 100,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ResidentialUse > out[j].ResidentialUse
	})
	return out
}

// TopByPercentile90 returns the n suppliers with the highest 90th percentile
// single-family use. Suppliers without a numeric value are skipped.
func TopByPercentile90(records []water.Supplier, n int) []water.Supplier {
	var out []water.Supplier
	for _, s := range records {
		if s.Percentile90 != nil {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if *out[i].Percentile90 != *out[j].Percentile90 {
			return *out[i].Percentile90 > *out[j].Percentile90
		}
		return out[i].Name < out[j].Name
	})
	return limit(out, n)
}

// CostOfServiceCount counts suppliers with a cost-of-service study on record.
func CostOfServiceCount(records []water.Supplier) int {
	var n int
	for _, s := range records {
		if s.CostOfService != "" {
			n++
		}
	}
	return n
}

func limit(records []water.Supplier, n int) []water.Supplier {
	if n <= 0 {
		n = DefaultTopN
	}
	if len(records) > n {
		return records[:n]
	}
	return records
}
