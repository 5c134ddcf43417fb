package services

import (
	"math"
	"time"

	"carvalu/models"
)

// daysPerYear averages in leap years.
const daysPerYear = 365.25

// TemporalDeriver computes listing-age and car-age features against a reference date.
type TemporalDeriver struct {
	reference time.Time
}

// NewTemporalDeriver creates a deriver for the given reference date.
// Only the calendar day of reference is used.
func NewTemporalDeriver(reference time.Time) *TemporalDeriver {
	return &TemporalDeriver{reference: truncateDay(reference)}
}

// Derive returns a copy of the listings with DaysSinceReference and CarAge set.
// Rows without a fetch date or year keep zero values; the sanity filter drops them.
func (d *TemporalDeriver) Derive(in []models.Listing) []models.Listing {
	out := make([]models.Listing, len(in))
	for i, l := range in {
		if !l.FetchDate.IsZero() {
			fetched := truncateDay(l.FetchDate)
			l.DaysSinceReference = DaysBetween(fetched, d.reference)
			if l.Year != nil {
				l.CarAge = CarAge(fetched, *l.Year)
			}
		}
		out[i] = l
	}
	return out
}

// DaysBetween returns the whole days from "from" to "to"; negative when from is later.
func DaysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

// CarAge returns the fractional years between Jan 1 of the model year and fetched.
func CarAge(fetched time.Time, year int) float64 {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := fetched.Sub(start).Hours() / 24
	return days / daysPerYear
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
