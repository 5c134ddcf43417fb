package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"carvalu/models"
)

var (
	// centsRegexp matches a trailing decimal fraction such as ".00" in "$18,500.00".
	centsRegexp = regexp.MustCompile(`\.\d{1,2}\D*$`)
	// nonDigitRegexp matches everything that is not an ASCII digit.
	nonDigitRegexp = regexp.MustCompile(`\D`)
)

// fetchDateLayouts are the timestamp formats seen in scraped extracts and in cleaned output.
var fetchDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
}

// NumericExtractor parses the numeric-as-text fields of a listing.
// Unparseable values become missing; it never fails a batch.
type NumericExtractor struct{}

// NewNumericExtractor creates a NumericExtractor.
func NewNumericExtractor() *NumericExtractor {
	return &NumericExtractor{}
}

// Extract converts raw listings into working listings with typed numeric fields.
func (e *NumericExtractor) Extract(in []models.RawListing) []models.Listing {
	out := make([]models.Listing, len(in))
	for i, r := range in {
		out[i] = models.Listing{
			ID:           r.ID,
			Make:         r.Make,
			Model:        r.Model,
			Trim:         r.Trim,
			Transmission: r.Transmission,
			Drivetrain:   r.Drivetrain,
			BodyType:     r.BodyType,
			Province:     r.Province,
			URL:          r.URL,
			Odometer:     ParseInt(r.Odometer),
			Price:        ParseInt(r.Price),
			Year:         ParseYear(r.Year),
			FetchDate:    ParseFetchDate(r.FetchDate),
		}
	}
	return out
}

// ParseInt strips units and separators from s and parses what is left.
// "152,430 km" → 152430, "$18,500.00" → 18500. It returns nil when no digits remain.
func ParseInt(s string) *int {
	s = centsRegexp.ReplaceAllString(strings.TrimSpace(s), "")
	digits := nonDigitRegexp.ReplaceAllString(s, "")
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}

// ParseYear parses a model year written as "2019" or "2019.0".
func ParseYear(s string) *int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return nil
	}
	n := int(f)
	return &n
}

// ParseFetchDate parses a listing timestamp. The zero time means unparseable.
func ParseFetchDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range fetchDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
