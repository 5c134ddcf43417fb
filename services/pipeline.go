package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"carvalu/config"
	"carvalu/models"
	"carvalu/utils"
)

// Stage names, in execution order.
const (
	StageProject   = "project"
	StageNormalize = "normalize"
	StageImpute    = "impute"
	StageExtract   = "extract"
	StageTemporal  = "temporal"
	StageConvert   = "convert"
	StageDedupe    = "dedupe"
	StageOutliers  = "outliers"
	StageSanity    = "sanity"
)

// Pipeline composes the preprocessing stages in their fixed order.
// A Pipeline holds no per-run state and may be shared across goroutines.
type Pipeline struct {
	rules      config.Rules
	logger     *utils.Logger
	projector  *Projector
	normalizer *Normalizer
	imputer    *Imputer
	extractor  *NumericExtractor
	converter  *Converter
	deduper    *Deduplicator
	outliers   *OutlierFilter
}

// NewPipeline builds a Pipeline from rules. rules must not be mutated afterwards.
func NewPipeline(rules config.Rules, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		rules:      rules,
		logger:     logger,
		projector:  NewProjector(rules.Tables, logger),
		normalizer: NewNormalizer(rules.Tables),
		imputer:    NewImputer(rules.Tables),
		extractor:  NewNumericExtractor(),
		converter:  NewConverter(rules.Tables),
		deduper:    NewDeduplicator(),
		outliers:   NewOutlierFilter(rules.Outliers),
	}
}

// Preprocess turns a raw listing table into model-ready rows, with features
// derived relative to reference. Only structural problems (empty batch, missing
// column) are returned as errors; invalid rows are dropped and counted.
func (p *Pipeline) Preprocess(table *models.Table, reference time.Time) (*models.Result, error) {
	res := &models.Result{
		RunID:     uuid.NewString(),
		Reference: truncateDay(reference),
	}
	in := 0
	if table != nil {
		in = len(table.Rows)
	}
	p.logger.Info("[pipeline] Run %s: preprocessing %d rows (reference %s)",
		res.RunID, in, res.Reference.Format("2006-01-02"))

	raw, err := p.projector.Project(table)
	if err != nil {
		return nil, fmt.Errorf("pipeline: project: %w", err)
	}
	res.Stages = append(res.Stages, p.stat(StageProject, in, len(raw)))

	raw = p.normalizer.Normalize(raw)
	res.Stages = append(res.Stages, p.stat(StageNormalize, len(raw), len(raw)))

	raw = p.imputer.Impute(raw)
	res.Stages = append(res.Stages, p.stat(StageImpute, len(raw), len(raw)))

	listings := p.extractor.Extract(raw)
	res.Stages = append(res.Stages, p.stat(StageExtract, len(raw), len(listings)))

	listings = NewTemporalDeriver(res.Reference).Derive(listings)
	res.Stages = append(res.Stages, p.stat(StageTemporal, len(listings), len(listings)))

	listings = p.converter.Convert(listings)
	res.Stages = append(res.Stages, p.stat(StageConvert, len(listings), len(listings)))

	before := len(listings)
	listings = p.deduper.Dedupe(listings)
	res.Stages = append(res.Stages, p.stat(StageDedupe, before, len(listings)))

	before = len(listings)
	bounds := p.outliers.Bounds(listings)
	listings = p.outliers.Apply(listings, bounds)
	p.logger.Debug("[pipeline] Outlier bounds computed for %d groups", len(bounds))
	res.Stages = append(res.Stages, p.stat(StageOutliers, before, len(listings)))

	before = len(listings)
	listings, rejected := NewSanityFilter(p.rules, res.Reference).Filter(listings)
	res.Stages = append(res.Stages, p.stat(StageSanity, before, len(listings)))
	if len(rejected) > 0 {
		p.logger.Debug("[pipeline] Sanity rejections: %s", formatCounts(rejected))
	}

	res.Listings = Finalize(listings)
	p.logger.Info("[pipeline] Run %s: kept %d of %d rows", res.RunID, len(res.Listings), in)
	return res, nil
}

func (p *Pipeline) stat(stage string, in, out int) models.StageStats {
	s := models.StageStats{Stage: stage, In: in, Out: out}
	if s.Dropped() > 0 {
		p.logger.Info("[pipeline] %-9s %6d → %6d (dropped %d)", stage, in, out, s.Dropped())
	}
	return s
}

// Finalize projects working listings onto the output schema. Every listing must
// already have passed the sanity filter, so no numeric field is nil.
func Finalize(in []models.Listing) []models.CleanListing {
	out := make([]models.CleanListing, 0, len(in))
	for _, l := range in {
		out = append(out, models.CleanListing{
			ID:                 l.ID,
			URL:                l.URL,
			Make:               l.Make,
			Model:              l.Model,
			Odometer:           *l.Odometer,
			BodyType:           l.BodyType,
			Trim:               l.Trim,
			Year:               *l.Year,
			Drivetrain:         l.Drivetrain,
			FetchDate:          l.FetchDate,
			TransmissionManual: l.TransmissionManual,
			Province:           l.Province,
			DaysSinceReference: l.DaysSinceReference,
			CarAge:             l.CarAge,
			Price:              *l.Price,
		})
	}
	return out
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
