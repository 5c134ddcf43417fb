package services

import (
	"fmt"
	"strconv"

	"carvalu/models"
)

// Deduplicator collapses repeated sightings of the same listing.
//
// Listings are first collapsed by IdentityKey (URL, else ad id, else content),
// then by ContentKey, so two ads for the same car under different URLs leave a
// single row. Among duplicates the most recent fetch date wins; on a tie the
// later row wins.
type Deduplicator struct{}

// NewDeduplicator creates a Deduplicator.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

// Dedupe returns the retained listings in the order of their first sighting.
func (d *Deduplicator) Dedupe(in []models.Listing) []models.Listing {
	return keepLatest(keepLatest(in, IdentityKey), ContentKey)
}

func keepLatest(in []models.Listing, key func(models.Listing) string) []models.Listing {
	winner := make(map[string]int, len(in))
	order := make([]string, 0, len(in))

	for i, l := range in {
		k := key(l)
		j, seen := winner[k]
		if !seen {
			order = append(order, k)
			winner[k] = i
			continue
		}
		if !l.FetchDate.Before(in[j].FetchDate) {
			winner[k] = i
		}
	}

	out := make([]models.Listing, 0, len(order))
	for _, k := range order {
		out = append(out, in[winner[k]])
	}
	return out
}

// IdentityKey returns the source identity of a listing: its URL, else its ad id,
// else its ContentKey.
func IdentityKey(l models.Listing) string {
	switch {
	case l.URL != "":
		return "url:" + l.URL
	case l.ID != "":
		return "id:" + l.ID
	}
	return ContentKey(l)
}

// ContentKey returns the key of every written output column that does not derive
// from the fetch date.
func ContentKey(l models.Listing) string {
	return fmt.Sprintf("row:%s|%s|%s|%s|%s|%s|%s|%t|%s|%s",
		l.Make, l.Model, l.Trim, l.BodyType, l.Drivetrain, l.Province,
		intKey(l.Year), l.TransmissionManual, intKey(l.Odometer), intKey(l.Price))
}

func intKey(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
