package aggregate

// TipCategory is the conservation guidance bucket for a region.
type TipCategory string

const (
	TipMissingData TipCategory = "MissingData"
	TipHighUsage   TipCategory = "HighUsage"
	TipEfficient   TipCategory = "Efficient"
)

// HighUsageEfficiency is the mean efficiency percent below which a region is
// treated as high usage. It matches the overuse efficiency threshold.
const HighUsageEfficiency = 5

// RegionTip maps a region's mean efficiency percent to a tip category.
func RegionTip(meanEfficiency float64) TipCategory {
	switch {
	case meanEfficiency == 0:
		return TipMissingData
	case meanEfficiency < HighUsageEfficiency:
		return TipHighUsage
	default:
		return TipEfficient
	}
}
