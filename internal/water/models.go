package water

// RawRecord is one input row keyed by column name. Values are whatever the
// loader produced: string, float64, int64, []byte or nil.
type RawRecord map[string]any

// Region is a coarse California region derived from a supplier name.
type Region string

const (
	Southern Region = "Southern California"
	Northern Region = "Northern California"
	Central  Region = "Central California"
)

// Regions lists every region in display order.
var Regions = []Region{Southern, Northern, Central}

// DataQuality gates whether a record takes part in any derived computation.
type DataQuality string

const (
	QualityGood       DataQuality = "good"
	QualityIncomplete DataQuality = "incomplete"
)

// EfficiencyLabel marks whether an efficiency figure was actually reported.
type EfficiencyLabel string

const (
	Reported    EfficiencyLabel = "Reported"
	MissingData EfficiencyLabel = "Missing Data"
)

// UsageClass compares per-person use against the 50 gallons/day target.
type UsageClass string

const (
	Efficient   UsageClass = "Efficient"
	Inefficient UsageClass = "Inefficient"
)

// Supplier is one supplier's annual report after normalization.
type Supplier struct {
	Name              string
	Region            Region
	ResidentialUse    float64  // total residential gallons/year, potable and nonpotable
	PotableUse        float64  // metered potable-only residential gallons/year
	RecycledUse       float64  // max(0, ResidentialUse - PotableUse)
	RGPCD             *float64 // nil once removed as an outlier
	PopulationServed  float64
	EfficiencyPercent float64
	EfficiencyLabel   EfficiencyLabel
	Quality           DataQuality
	Overuse           bool

	Percentile90  *float64 // 90th percentile single-family use, if the column exists
	CostOfService string   // cost-of-service study reference, if any
}
