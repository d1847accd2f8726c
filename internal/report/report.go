package report

import (
	"fmt"
	"slices"
	"strings"

	"github.com/TobiSchelling/waterwise/internal/aggregate"
	"github.com/TobiSchelling/waterwise/internal/pipeline"
	"github.com/TobiSchelling/waterwise/internal/water"
)

// Section keys in report order.
const (
	SectionMethod          = "method"
	SectionSuppliers       = "suppliers"
	SectionOveruse         = "overuse"
	SectionQuality         = "quality"
	SectionEfficiency      = "efficiency"
	SectionIntensity       = "intensity"
	SectionPopulation      = "population"
	SectionDemand          = "demand"
	SectionPercentile90    = "percentile90"
	SectionCostOfService   = "cost_of_service"
	SectionRegionalSummary = "regional_summary"
)

// AllSections lists every section key in the order they appear.
var AllSections = []string{
	SectionMethod,
	SectionSuppliers,
	SectionOveruse,
	SectionQuality,
	SectionEfficiency,
	SectionIntensity,
	SectionPopulation,
	SectionDemand,
	SectionPercentile90,
	SectionCostOfService,
	SectionRegionalSummary,
}

// Report is a rendered-format-independent document.
type Report struct {
	Title    string
	Source   string
	Sections []Section
}

// Section is one titled part of the report.
type Section struct {
	Key    string
	Title  string
	Banner bool // rendered with full-width rules in text output
	Blocks []Block
}

// Block is a paragraph, a table or a supplier summary.
type Block struct {
	Text    string
	Table   *Table
	Summary *Summary
}

// Table is a header plus rows of pre-formatted cells.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Summary is a titled list of labelled values.
type Summary struct {
	Title  string
	Fields []Field
}

// Field is one labelled value of a Summary.
type Field struct {
	Label string
	Value string
}

func paragraph(format string, args ...any) Block {
	return Block{Text: fmt.Sprintf(format, args...)}
}

// Assembler builds a Report from pipeline results.
type Assembler struct {
	sections []string
}

// NewAssembler creates an assembler for the given section keys. An empty
// list selects every section. Unknown keys are an error.
func NewAssembler(sections []string) (*Assembler, error) {
	selected, err := ParseSections(sections)
	if err != nil {
		return nil, err
	}
	return &Assembler{sections: selected}, nil
}

// ParseSections validates section keys and returns them in report order.
func ParseSections(keys []string) ([]string, error) {
	if len(keys) == 0 {
		return AllSections, nil
	}
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(strings.ToLower(k))
		if k == "" {
			continue
		}
		if !slices.Contains(AllSections, k) {
			return nil, fmt.Errorf("unknown report section %q (valid: %s)", k, strings.Join(AllSections, ", "))
		}
		want[k] = true
	}
	if len(want) == 0 {
		return AllSections, nil
	}

	var out []string
	for _, k := range AllSections {
		if want[k] {
			out = append(out, k)
		}
	}
	return out, nil
}

// Build assembles the selected sections. Optional sections whose input
// column was absent are omitted.
func (a *Assembler) Build(r *pipeline.Result) *Report {
	rep := &Report{Title: "California Water Use Analysis", Source: r.Input}
	for _, key := range a.sections {
		var s *Section
		switch key {
		case SectionMethod:
			s = methodSection(r.Params)
		case SectionSuppliers:
			s = suppliersSection(r.Records)
		case SectionOveruse:
			s = overuseSection(r)
		case SectionQuality:
			s = qualitySection(r)
		case SectionEfficiency:
			s = efficiencySection(r.Efficiency)
		case SectionIntensity:
			s = intensitySection(r.Intensity)
		case SectionPopulation:
			s = populationSection(r.TopPopulation, r.Params.TopN)
		case SectionDemand:
			s = demandSection(r.DemandShare)
		case SectionPercentile90:
			if r.HasPercentile90 {
				s = percentile90Section(r.TopPercentile90, r.Params.TopN)
			}
		case SectionCostOfService:
			if r.HasCostOfService {
				s = costOfServiceSection(r.CostOfServiceCount)
			}
		case SectionRegionalSummary:
			s = regionalSummarySection(r.Regions)
		}
		if s != nil {
			s.Key = key
			rep.Sections = append(rep.Sections, *s)
		}
	}
	return rep
}

func methodSection(p pipeline.Params) *Section {
	return &Section{
		Title:  "CALIFORNIA WATER USE ANALYSIS - METHOD EXPLANATION",
		Banner: true,
		Blocks: []Block{
			paragraph("This report analyzes residential water use across suppliers. Rows missing total, potable or per-capita use are excluded before any calculation."),
			paragraph("Efficiency (%%) = (Total Residential Use - Potable Use) / Total Residential Use * 100. It is the share of recycled or nonpotable water."),
			paragraph("Population Served = Total Residential Use / (R-GPCD * %s). It estimates residents served from daily per-capita use.", plain(p.DaysPerYear)),
			paragraph("Overuse Flag = R-GPCD above the regional median AND efficiency below %s%%. Regions without per-capita data use a median of %s.", plain(p.EfficiencyThreshold), plain(p.FallbackMedian)),
			paragraph("R-GPCD values above %s are treated as entry errors and left out of every per-capita statistic.", plain(p.OutlierRGPCD)),
			paragraph("Regional Classification: based on supplier name keywords (Southern, Central, Northern California)."),
		},
	}
}

func suppliersSection(records []water.Supplier) *Section {
	s := &Section{Title: "SUPPLIER SUMMARIES"}
	for _, rec := range records {
		s.Blocks = append(s.Blocks, Block{Summary: &Summary{
			Title: fmt.Sprintf("%s (%s)", rec.Name, rec.Region),
			Fields: []Field{
				{Label: "Total Use", Value: volume2(rec.TotalUse()) + " gallons"},
				{Label: "Efficiency", Value: string(rec.UsageClass())},
				{Label: "Use per Person", Value: rate(rec.UsagePerPerson()) + " gallons/day"},
			},
		}})
	}
	if len(records) == 0 {
		s.Blocks = append(s.Blocks, paragraph("No suppliers with complete data."))
	}
	return s
}

func overuseSection(r *pipeline.Result) *Section {
	s := &Section{
		Title: "OVERUSE AREAS (EXCLUDING MISSING DATA)",
		Blocks: []Block{
			paragraph("Suppliers flagged here have R-GPCD above their region's median and efficiency < %s%%.", plain(r.Params.EfficiencyThreshold)),
			paragraph("Number of flagged suppliers: %d", len(r.OveruseAreas)),
		},
	}
	if len(r.OveruseAreas) == 0 {
		return s
	}
	t := &Table{Headers: []string{"Supplier", "Region", "R-GPCD", "Efficiency (%)", "Label"}}
	for _, rec := range r.OveruseAreas {
		t.Rows = append(t.Rows, []string{
			rec.Name, string(rec.Region), ratePtr(rec.RGPCD), rate(rec.EfficiencyPercent), string(rec.EfficiencyLabel),
		})
	}
	s.Blocks = append(s.Blocks, Block{Table: t})
	return s
}

func qualitySection(r *pipeline.Result) *Section {
	return &Section{
		Title: "DATA QUALITY SUMMARY",
		Blocks: []Block{
			paragraph("This shows how many rows had usable data for analysis."),
			{Table: &Table{
				Headers: []string{"Data Quality", "Suppliers"},
				Rows: [][]string{
					{string(water.QualityGood), count(r.Quality.Good)},
					{string(water.QualityIncomplete), count(r.Quality.Incomplete)},
				},
			}},
			paragraph("Per-capita outliers removed: %d", r.OutliersNulled),
		},
	}
}

func efficiencySection(c aggregate.EfficiencyCounts) *Section {
	return &Section{
		Title: "EFFICIENCY DATA SUMMARY",
		Blocks: []Block{
			paragraph("Suppliers marked '%s' have no recycled or nonpotable use recorded.", water.MissingData),
			{Table: &Table{
				Headers: []string{"Efficiency Label", "Suppliers"},
				Rows: [][]string{
					{string(water.Reported), count(c.Reported)},
					{string(water.MissingData), count(c.MissingData)},
				},
			}},
		},
	}
}

func intensitySection(aggs []aggregate.RegionAggregate) *Section {
	t := &Table{Headers: []string{"Region", "Mean", "Median", "Max", "Min"}}
	for _, a := range aggs {
		if !a.HasRGPCD() {
			t.Rows = append(t.Rows, []string{string(a.Region), notAvailable, notAvailable, notAvailable, notAvailable})
			continue
		}
		t.Rows = append(t.Rows, []string{
			string(a.Region), rate(a.MeanRGPCD), rate(a.MedianRGPCD), rate(a.MaxRGPCD), rate(a.MinRGPCD),
		})
	}
	return &Section{
		Title: "RESIDENTIAL WATER USE INTENSITY BY REGION",
		Blocks: []Block{
			paragraph("This shows average (mean), median and range of daily per-person use in gallons."),
			{Table: t},
		},
	}
}

func populationSection(records []water.Supplier, n int) *Section {
	t := &Table{Headers: []string{"Supplier", "Region", "Population Served", "Residential Use (gal)", "R-GPCD"}}
	for _, rec := range records {
		t.Rows = append(t.Rows, []string{
			rec.Name, string(rec.Region), volume(rec.PopulationServed), volume(rec.ResidentialUse), ratePtr(rec.RGPCD),
		})
	}
	return &Section{
		Title: fmt.Sprintf("TOP %d SUPPLIERS BY ESTIMATED POPULATION SERVED", n),
		Blocks: []Block{
			paragraph("Shows the largest service areas based on total water and per-capita use."),
			{Table: t},
		},
	}
}

func demandSection(rows []aggregate.RegionDemand) *Section {
	t := &Table{Headers: []string{"Region", "Potable Use (gal)", "Residential Use (gal)", "Share (%)"}}
	for _, d := range rows {
		t.Rows = append(t.Rows, []string{
			string(d.Region), volume(d.PotableUse), volume(d.ResidentialUse), rate(d.SharePercent),
		})
	}
	return &Section{
		Title: "REGIONAL SHARE OF TOTAL RESIDENTIAL WATER USE",
		Blocks: []Block{
			paragraph("Percentage share of total reported residential water use by region."),
			{Table: t},
		},
	}
}

func percentile90Section(records []water.Supplier, n int) *Section {
	t := &Table{Headers: []string{"Supplier", "Region", "90th Percentile Use (gal)"}}
	for _, rec := range records {
		t.Rows = append(t.Rows, []string{rec.Name, string(rec.Region), volume(*rec.Percentile90)})
	}
	return &Section{
		Title: fmt.Sprintf("TOP %d SUPPLIERS BY 90TH PERCENTILE SINGLE-FAMILY USE", n),
		Blocks: []Block{
			paragraph("Highlights where top-consuming households use the most water."),
			{Table: t},
		},
	}
}

func costOfServiceSection(n int) *Section {
	return &Section{
		Title: "COST-OF-SERVICE STUDIES",
		Blocks: []Block{
			paragraph("%s SUPPLIERS HAVE COST-OF-SERVICE STUDIES ON RECORD.", count(n)),
			paragraph("These studies analyze rate fairness and can incentivize conservation."),
		},
	}
}

func regionalSummarySection(aggs []aggregate.RegionAggregate) *Section {
	t := &Table{Headers: []string{
		"Region", "Median R-GPCD", "Population Served", "Potable Use (gal)", "Residential Use (gal)", "Avg Efficiency (%)", "Tip",
	}}
	for _, a := range aggs {
		median := notAvailable
		if a.HasRGPCD() {
			median = rate(a.MedianRGPCD)
		}
		t.Rows = append(t.Rows, []string{
			string(a.Region), median, volume(a.PopulationServed), volume(a.PotableUse), volume(a.ResidentialUse),
			rate(a.MeanEfficiency), TipText(a.Tip()),
		})
	}
	return &Section{
		Title: "REGIONAL SUMMARY OVERVIEW",
		Blocks: []Block{
			paragraph("Shows the median R-GPCD, total population served and average efficiency per region."),
			{Table: t},
		},
	}
}

// TipText returns the display text for a region tip.
func TipText(tip aggregate.TipCategory) string {
	switch tip {
	case aggregate.TipMissingData:
		return "No recycled use reported; check data coverage"
	case aggregate.TipHighUsage:
		return "Expand recycled water and conservation programs"
	default:
		return "Efficient; maintain current programs"
	}
}
