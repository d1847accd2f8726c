package water

// Columns names the input columns the pipeline reads.
type Columns struct {
	SupplierName   string
	ResidentialUse string
	PotableUse     string
	RGPCD          string
	Percentile90   string // optional
	CostOfService  string // optional
}

// DefaultColumns are the column names of the state actual-water-use dataset.
var DefaultColumns = Columns{
	SupplierName:   "SUPPLIER_NAME",
	ResidentialUse: "AWU_TOTAL_RES_GAL",
	PotableUse:     "AWU_POTABLE_TOTAL_RES_GAL",
	RGPCD:          "AWU_TOTAL_RES_RGPCD",
	Percentile90:   "AWU_SF_RES_90PCTILE_GAL",
	CostOfService:  "AWU_COST_OF_SERVICE_HIGHEST_USERS",
}

// Required returns the columns every input must carry.
func (c Columns) Required() []string {
	return []string{c.SupplierName, c.ResidentialUse, c.PotableUse, c.RGPCD}
}

// Optional returns the columns whose report sections are skipped when absent.
func (c Columns) Optional() []string {
	var out []string
	if c.Percentile90 != "" {
		out = append(out, c.Percentile90)
	}
	if c.CostOfService != "" {
		out = append(out, c.CostOfService)
	}
	return out
}
