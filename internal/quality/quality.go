package quality

import (
	"log/slog"
	"math"

	"github.com/TobiSchelling/waterwise/internal/region"
	"github.com/TobiSchelling/waterwise/internal/water"
)

// Counts tallies records by data quality.
type Counts struct {
	Good       int
	Incomplete int
}

// Total returns the number of input rows seen.
func (c Counts) Total() int {
	return c.Good + c.Incomplete
}

// Result holds the good records and the quality tally of a normalization run.
type Result struct {
	Records []water.Supplier
	Counts  Counts
}

// Normalizer coerces raw rows into suppliers and drops incomplete ones.
type Normalizer struct {
	cols       water.Columns
	classifier *region.Classifier
}

// NewNormalizer creates a normalizer. A nil classifier uses the default keywords.
func NewNormalizer(cols water.Columns, classifier *region.Classifier) *Normalizer {
	if classifier == nil {
		classifier = region.NewClassifier(nil, nil)
	}
	return &Normalizer{cols: cols, classifier: classifier}
}

// Assess reports the data quality of a single raw row.
func (n *Normalizer) Assess(raw water.RawRecord) water.DataQuality {
	total, potable, rgpcd := n.drivers(raw)
	if total <= 0 || potable <= 0 || rgpcd <= 0 {
		return water.QualityIncomplete
	}
	return water.QualityGood
}

// Normalize converts raw rows into good-quality suppliers in input order.
// Incomplete rows are counted and dropped. It never fails: malformed numbers
// become 0 and end up in the incomplete count.
func (n *Normalizer) Normalize(raws []water.RawRecord) *Result {
	r := &Result{Records: make([]water.Supplier, 0, len(raws))}

	for _, raw := range raws {
		if n.Assess(raw) == water.QualityIncomplete {
			r.Counts.Incomplete++
			continue
		}
		r.Counts.Good++
		r.Records = append(r.Records, n.build(raw))
	}

	slog.Debug("normalized records", "good", r.Counts.Good, "incomplete", r.Counts.Incomplete)
	return r
}

func (n *Normalizer) drivers(raw water.RawRecord) (total, potable, rgpcd float64) {
	return water.FloatOrZero(raw[n.cols.ResidentialUse]),
		water.FloatOrZero(raw[n.cols.PotableUse]),
		water.FloatOrZero(raw[n.cols.RGPCD])
}

func (n *Normalizer) build(raw water.RawRecord) water.Supplier {
	total, potable, rgpcd := n.drivers(raw)
	name := water.Text(raw[n.cols.SupplierName])

	s := water.Supplier{
		Name:           name,
		Region:         n.classifier.Classify(name),
		ResidentialUse: total,
		PotableUse:     potable,
		RecycledUse:    math.Max(0, total-potable),
		RGPCD:          &rgpcd,
		Quality:        water.QualityGood,
	}

	if n.cols.Percentile90 != "" {
		if v, ok := water.Float(raw[n.cols.Percentile90]); ok {
			s.Percentile90 = &v
		}
	}
	if n.cols.CostOfService != "" {
		s.CostOfService = water.Text(raw[n.cols.CostOfService])
	}
	return s
}
