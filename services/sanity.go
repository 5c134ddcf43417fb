package services

import (
	"time"

	"carvalu/config"
	"carvalu/models"
)

// Rejection reasons reported by SanityFilter.Check.
const (
	ReasonMissing     = "missing value"
	ReasonYear        = "year out of range"
	ReasonOdometer    = "odometer out of range"
	ReasonLowMileage  = "implausibly low mileage"
	ReasonPrice       = "price out of range"
	ReasonTemporal    = "negative temporal feature"
	ReasonDrivetrain  = "unknown drivetrain"
	ReasonBodyType    = "unknown body type"
	ReasonProvince    = "unknown province"
	ReasonMake        = "make not in catalogue"
	ReasonUnspecified = "unspecified model"
)

// SanityFilter rejects listings that break fixed plausibility bounds.
type SanityFilter struct {
	rules       config.SanityRules
	refYear     int
	drivetrains map[string]struct{}
	bodyTypes   map[string]struct{}
	provinces   map[string]struct{}
	makes       map[string]struct{}
	unspecified map[string]struct{}
}

// NewSanityFilter creates a SanityFilter for a run with the given reference date.
func NewSanityFilter(rules config.Rules, reference time.Time) *SanityFilter {
	return &SanityFilter{
		rules:       rules.Sanity,
		refYear:     reference.Year(),
		drivetrains: toSet(rules.Tables.DrivetrainVocab),
		bodyTypes:   toSet(rules.Tables.BodyTypeVocab),
		provinces:   toSet(rules.Tables.ProvinceVocab),
		makes:       toSet(rules.Tables.ValidMakes),
		unspecified: toSet(rules.Tables.UnspecifiedModels),
	}
}

// Filter returns the listings that pass every check, and the rejection count per reason.
func (s *SanityFilter) Filter(in []models.Listing) ([]models.Listing, map[string]int) {
	out := make([]models.Listing, 0, len(in))
	rejected := make(map[string]int)
	for _, l := range in {
		if reason := s.Check(l); reason != "" {
			rejected[reason]++
			continue
		}
		out = append(out, l)
	}
	return out, rejected
}

// Check returns the first violated rule for l, or "" when l is valid.
func (s *SanityFilter) Check(l models.Listing) string {
	r := s.rules
	switch {
	case l.Year == nil || l.Odometer == nil || l.Price == nil || l.FetchDate.IsZero() || l.Model == "":
		return ReasonMissing
	case *l.Year > s.refYear+r.MaxYearAhead || *l.Year < r.MinYear:
		return ReasonYear
	case *l.Odometer < r.MinOdometer || *l.Odometer > r.MaxOdometer:
		return ReasonOdometer
	case *l.Year < s.refYear-r.UsedAgeYears && *l.Odometer < r.MinUsedOdometer:
		return ReasonLowMileage
	case *l.Price <= r.MinPrice || *l.Price >= r.MaxPrice:
		return ReasonPrice
	case l.DaysSinceReference < 0 || l.CarAge < 0:
		return ReasonTemporal
	case !in(s.drivetrains, l.Drivetrain):
		return ReasonDrivetrain
	case !in(s.bodyTypes, l.BodyType):
		return ReasonBodyType
	case !in(s.provinces, l.Province):
		return ReasonProvince
	case !in(s.makes, l.Make):
		return ReasonMake
	case in(s.unspecified, l.Model):
		return ReasonUnspecified
	}
	return ""
}

func in(set map[string]struct{}, v string) bool {
	_, ok := set[v]
	return ok
}
