package services

import (
	"strings"

	"carvalu/config"
	"carvalu/models"
)

// Normalizer lowercases categorical text and folds it onto canonical values
// through the configured mapping tables. Unmapped values pass through lowercased.
type Normalizer struct {
	tables config.MappingTables
	vocab  map[string]struct{}
	trims  *trimCleaner
}

// NewNormalizer creates a Normalizer over the given tables.
func NewNormalizer(tables config.MappingTables) *Normalizer {
	return &Normalizer{
		tables: tables,
		vocab:  toSet(tables.BodyTypeVocab),
		trims:  newTrimCleaner(tables),
	}
}

// Normalize returns a normalized copy of every listing. It never drops rows.
func (n *Normalizer) Normalize(in []models.RawListing) []models.RawListing {
	out := make([]models.RawListing, len(in))
	for i, r := range in {
		out[i] = n.normalize(r)
	}
	return out
}

func (n *Normalizer) normalize(r models.RawListing) models.RawListing {
	rawTrim := lower(r.Trim)

	r.Make = lower(r.Make)
	r.Transmission = lower(r.Transmission)
	r.Province = lower(r.Province)
	r.URL = strings.TrimSpace(r.URL)
	r.ID = strings.TrimSpace(r.ID)
	r.Drivetrain = n.drivetrain(lower(r.Drivetrain))
	r.BodyType = n.bodyType(lower(r.BodyType))

	r.Model, r.Trim = n.modelTrim(r.Make, lower(r.Model), rawTrim)
	n.applyHints(&r, strings.TrimSpace(rawTrim+" "+r.Trim))

	r.Trim = n.trims.Combine(r.Model, n.trims.Clean(r.Make, r.Model, r.Trim))
	return r
}

// drivetrain folds a lowercased drivetrain onto its canonical value.
// "" means the value is known to be missing.
func (n *Normalizer) drivetrain(v string) string {
	if mapped, ok := n.tables.Drivetrain[v]; ok {
		return mapped
	}
	return v
}

func (n *Normalizer) bodyType(v string) string {
	if mapped, ok := n.tables.BodyType[v]; ok {
		return mapped
	}
	if _, ok := n.vocab[v]; ok || v == "" {
		return v
	}
	for _, rule := range n.tables.BodyTypeContains {
		if strings.Contains(v, rule.Substring) {
			return rule.Value
		}
	}
	return v
}

// modelTrim corrects the model name and, for models that encode a trim,
// moves that trim out of the model.
func (n *Normalizer) modelTrim(carMake, model, trim string) (string, string) {
	for _, t := range n.tables.ModelTranslation {
		model = strings.ReplaceAll(model, t.Substring, t.Value)
	}
	if mt, ok := n.tables.ModelTrim[model]; ok {
		model, trim = mt.Model, mt.Trim
	}
	if fixed, ok := n.tables.MakeModel[carMake][model]; ok {
		model = fixed
	}
	return model, trim
}

// applyHints fills drivetrain, transmission and body type from the trim text
// when the listing leaves them empty. The first matching hint per column wins.
func (n *Normalizer) applyHints(r *models.RawListing, trimText string) {
	if trimText == "" {
		return
	}
	for _, h := range n.tables.TrimHints {
		if !strings.Contains(trimText, h.Substring) {
			continue
		}
		switch h.Column {
		case "drivetrain":
			if r.Drivetrain == "" {
				r.Drivetrain = h.Value
			}
		case "transmission":
			if r.Transmission == "" {
				r.Transmission = h.Value
			}
		case "bodytype":
			if r.BodyType == "" {
				r.BodyType = h.Value
			}
		}
	}
}

// lower trims, lowercases and collapses internal whitespace.
func lower(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
