package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/TobiSchelling/waterwise/internal/aggregate"
	"github.com/TobiSchelling/waterwise/internal/config"
	"github.com/TobiSchelling/waterwise/internal/derive"
	"github.com/TobiSchelling/waterwise/internal/overuse"
	"github.com/TobiSchelling/waterwise/internal/quality"
	"github.com/TobiSchelling/waterwise/internal/region"
	"github.com/TobiSchelling/waterwise/internal/source"
	"github.com/TobiSchelling/waterwise/internal/water"
)

// TotalSteps is the number of steps in a full run.
const TotalSteps = 5

// StepResult holds the result of a single pipeline step.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Params are the thresholds a run was computed with.
type Params struct {
	OutlierRGPCD        float64
	EfficiencyThreshold float64
	FallbackMedian      float64
	DaysPerYear         float64
	TopN                int
}

// Result holds the records and every named aggregate of a pipeline run.
type Result struct {
	Input  string
	Params Params
	Steps  []StepResult

	// Records are the good-quality suppliers in input order, fully derived.
	Records        []water.Supplier
	Quality        quality.Counts
	OutliersNulled int

	Efficiency         aggregate.EfficiencyCounts
	OveruseAreas       []water.Supplier
	Intensity          []aggregate.RegionAggregate
	TopPopulation      []water.Supplier
	DemandShare        []aggregate.RegionDemand
	TopPercentile90    []water.Supplier
	HasPercentile90    bool
	CostOfServiceCount int
	HasCostOfService   bool
	Regions            []aggregate.RegionAggregate
	// Thresholds maps each region to the median R-GPCD its suppliers were
	// judged against, the fallback included.
	Thresholds map[water.Region]float64
}

// Err returns the first step error, if any.
func (r *Result) Err() error {
	for _, s := range r.Steps {
		if s.Err != nil {
			return fmt.Errorf("%s: %w", s.Name, s.Err)
		}
	}
	return nil
}

// Pipeline runs the load, normalize, derive, overuse and aggregate steps.
type Pipeline struct {
	cols       water.Columns
	opts       source.Options
	params     Params
	normalizer *quality.Normalizer
	deriver    *derive.Deriver
	overuse    *overuse.Classifier
}

// New creates a pipeline from configuration.
func New(cfg *config.Config) *Pipeline {
	t := cfg.Thresholds
	cols := cfg.WaterColumns()
	return &Pipeline{
		cols: cols,
		opts: source.Options{Table: cfg.Input.Table, Sheet: cfg.Input.Sheet},
		params: Params{
			OutlierRGPCD:        t.OutlierRGPCD,
			EfficiencyThreshold: t.EfficiencyPercent,
			FallbackMedian:      t.FallbackMedian,
			DaysPerYear:         t.DaysPerYear,
			TopN:                t.TopN,
		},
		normalizer: quality.NewNormalizer(cols, region.NewClassifier(cfg.Regions.Southern, cfg.Regions.Northern)),
		deriver:    derive.NewDeriver(t.OutlierRGPCD, t.DaysPerYear),
		overuse:    overuse.NewClassifier(t.EfficiencyPercent, t.FallbackMedian),
	}
}

// Run loads input and executes the full pipeline. A failed load stops the
// run; the later steps never fail.
func (p *Pipeline) Run(input string) *Result {
	r := p.newResult(input)

	ds, step := p.runLoad(input)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	p.runStages(r, ds)
	return r
}

// RunDataset executes the pipeline on an already loaded dataset.
func (p *Pipeline) RunDataset(ds *source.Dataset) *Result {
	r := p.newResult(ds.Path)

	step := p.checkColumns(ds)
	r.Steps = append(r.Steps, step)
	if step.Err != nil {
		return r
	}

	p.runStages(r, ds)
	return r
}

// DryRun executes every step and marks the summaries as a dry run. The caller
// is expected to skip writing the report.
func (p *Pipeline) DryRun(input string) *Result {
	r := p.Run(input)
	for i := range r.Steps {
		if r.Steps[i].Err == nil {
			r.Steps[i].Summary = "[dry-run] " + r.Steps[i].Summary
		}
	}
	return r
}

func (p *Pipeline) newResult(input string) *Result {
	return &Result{Input: input, Params: p.params}
}

func (p *Pipeline) runStages(r *Result, ds *source.Dataset) {
	// Step 2: Normalize
	records, step := p.runNormalize(r, ds)
	r.Steps = append(r.Steps, step)

	// Step 3: Derive
	r.Steps = append(r.Steps, p.runDerive(r, records))

	// Step 4: Classify overuse
	r.Steps = append(r.Steps, p.runOveruse(r, records))

	// Step 5: Aggregate
	r.Records = records
	r.Steps = append(r.Steps, p.runAggregate(r, ds))
}

func (p *Pipeline) runLoad(input string) (*source.Dataset, StepResult) {
	slog.Info(fmt.Sprintf("Step 1/%d: Loading input...", TotalSteps), "path", input)
	ds, err := source.Load(input, p.opts)
	if err != nil {
		return nil, StepResult{Name: "Load", Err: err}
	}
	step := p.checkColumns(ds)
	return ds, step
}

func (p *Pipeline) checkColumns(ds *source.Dataset) StepResult {
	if err := ds.Require(p.cols); err != nil {
		return StepResult{Name: "Load", Err: err}
	}
	return StepResult{
		Name:    "Load",
		Summary: fmt.Sprintf("Read %d rows with %d columns (%s)", len(ds.Records), len(ds.Columns), ds.Format),
	}
}

func (p *Pipeline) runNormalize(r *Result, ds *source.Dataset) ([]water.Supplier, StepResult) {
	slog.Info(fmt.Sprintf("Step 2/%d: Normalizing records...", TotalSteps))
	result := p.normalizer.Normalize(ds.Records)
	r.Quality = result.Counts
	return result.Records, StepResult{
		Name:    "Normalize",
		Summary: fmt.Sprintf("Kept %d good records, dropped %d incomplete", result.Counts.Good, result.Counts.Incomplete),
	}
}

func (p *Pipeline) runDerive(r *Result, records []water.Supplier) StepResult {
	slog.Info(fmt.Sprintf("Step 3/%d: Deriving metrics...", TotalSteps))
	result := p.deriver.Derive(records)
	r.OutliersNulled = result.OutliersNulled
	return StepResult{
		Name: "Derive",
		Summary: fmt.Sprintf("Derived %d records: %d R-GPCD outliers removed, %d with missing efficiency data",
			result.Derived, result.OutliersNulled, result.MissingData),
	}
}

func (p *Pipeline) runOveruse(r *Result, records []water.Supplier) StepResult {
	slog.Info(fmt.Sprintf("Step 4/%d: Classifying overuse...", TotalSteps))
	result := p.overuse.Classify(records)
	r.Regions = result.Regions
	r.Thresholds = result.Thresholds
	return StepResult{
		Name:    "Classify overuse",
		Summary: fmt.Sprintf("Flagged %d suppliers across %d regions, %d reportable", result.Flagged, len(result.Regions), result.Reportable),
	}
}

func (p *Pipeline) runAggregate(r *Result, ds *source.Dataset) StepResult {
	slog.Info(fmt.Sprintf("Step 5/%d: Aggregating...", TotalSteps))
	records := r.Records

	r.Efficiency = aggregate.CountEfficiency(records)
	r.OveruseAreas = aggregate.OveruseAreas(records)
	r.Intensity = aggregate.Intensity(r.Regions)
	r.TopPopulation = aggregate.TopByPopulation(records, p.params.TopN)
	r.DemandShare = aggregate.DemandShare(r.Regions)

	r.HasPercentile90 = ds.HasColumn(p.cols.Percentile90)
	if r.HasPercentile90 {
		r.TopPercentile90 = aggregate.TopByPercentile90(records, p.params.TopN)
	}
	r.HasCostOfService = ds.HasColumn(p.cols.CostOfService)
	if r.HasCostOfService {
		r.CostOfServiceCount = aggregate.CostOfServiceCount(records)
	}

	return StepResult{
		Name:    "Aggregate",
		Summary: fmt.Sprintf("Summarized %d regions, %d overuse areas", len(r.Regions), len(r.OveruseAreas)),
	}
}
