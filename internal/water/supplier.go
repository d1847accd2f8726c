package water

// DaysPerYear converts annual totals into the per-day basis of R-GPCD.
const DaysPerYear = 365

// EfficientUseTarget is the gallons/person/day threshold for UsageClass.
const EfficientUseTarget = 50

// TotalUse returns potable plus recycled/nonpotable use.
func (s Supplier) TotalUse() float64 {
	return s.PotableUse + s.RecycledUse
}

// HasRGPCD reports whether the per-capita figure survived outlier removal.
func (s Supplier) HasRGPCD() bool {
	return s.RGPCD != nil
}

// RGPCDValue returns the per-capita figure or 0 when undefined.
func (s Supplier) RGPCDValue() float64 {
	if s.RGPCD == nil {
		return 0
	}
	return *s.RGPCD
}

// UsagePerPerson returns gallons/person/day. It prefers the reported R-GPCD and
// otherwise estimates it from the annual total and the population served.
func (s Supplier) UsagePerPerson() float64 {
	if v := s.RGPCDValue(); v > 0 {
		return v
	}
	if s.PopulationServed <= 0 {
		return 0
	}
	return s.TotalUse() / (s.PopulationServed * DaysPerYear)
}

// UsageClass classifies per-person use against EfficientUseTarget.
func (s Supplier) UsageClass() UsageClass {
	if s.UsagePerPerson() < EfficientUseTarget {
		return Efficient
	}
	return Inefficient
}

// ReportableOveruse is true for flagged suppliers whose efficiency was reported.
// A flag on a Missing Data record is never shown in the overuse table.
func (s Supplier) ReportableOveruse() bool {
	return s.Overuse && s.EfficiencyLabel == Reported
}
