package services

import (
	"strings"

	"carvalu/config"
	"carvalu/models"
)

const (
	// DefaultDrivetrain fills listings without a drivetrain.
	DefaultDrivetrain = "awd"
	// DefaultProvince fills listings whose province is missing or unrecognized.
	DefaultProvince = "ontario"

	// urlProvinceSegment is the index of the province in a listing URL split on "/",
	// e.g. https://www.autotrader.ca/a/honda/civic/toronto/ontario/5_123_ab/.
	urlProvinceSegment = 7
)

// Imputer fills categorical gaps with fixed domain defaults.
type Imputer struct {
	provinces map[string]struct{}
}

// NewImputer creates an Imputer that accepts the given province vocabulary.
func NewImputer(tables config.MappingTables) *Imputer {
	return &Imputer{provinces: toSet(tables.ProvinceVocab)}
}

// Impute returns a copy of the listings with drivetrain and province filled.
// Present, recognized values are never overwritten.
func (im *Imputer) Impute(in []models.RawListing) []models.RawListing {
	out := make([]models.RawListing, len(in))
	for i, r := range in {
		if r.Drivetrain == "" {
			r.Drivetrain = DefaultDrivetrain
		}
		r.Province = im.province(r)
		out[i] = r
	}
	return out
}

// province prefers the province column, then the URL path. A value outside the
// vocabulary counts as unresolved and becomes DefaultProvince.
func (im *Imputer) province(r models.RawListing) string {
	p := r.Province
	if p == "" {
		p = ProvinceFromURL(r.URL)
	}
	if _, ok := im.provinces[p]; !ok {
		return DefaultProvince
	}
	return p
}

// ProvinceFromURL returns the lowercased province segment of a listing URL, or "".
func ProvinceFromURL(url string) string {
	parts := strings.Split(url, "/")
	if len(parts) <= urlProvinceSegment {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(parts[urlProvinceSegment]))
}
