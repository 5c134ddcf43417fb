package services

import (
	"sort"
	"strings"
	"unicode"

	"carvalu/models"
)

// BuildTrimCatalogue lists every distinct make/model/year/trim/body type/drivetrain
// combination with a known trim, sorted by make, model, year and trim.
// Model, trim and drivetrain are upper-cased; make and body type are title-cased.
func BuildTrimCatalogue(listings []models.CleanListing) []models.TrimEntry {
	seen := make(map[models.TrimEntry]struct{})
	var out []models.TrimEntry

	for _, l := range listings {
		if strings.Contains(l.Trim, UnknownTrim) {
			continue
		}
		e := models.TrimEntry{
			Make:       titleCase(l.Make),
			Model:      strings.ToUpper(l.Model),
			Year:       l.Year,
			Trim:       strings.ToUpper(l.Trim),
			BodyType:   titleCase(l.BodyType),
			Drivetrain: strings.ToUpper(l.Drivetrain),
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Make != b.Make {
			return a.Make < b.Make
		}
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Trim != b.Trim {
			return a.Trim < b.Trim
		}
		if a.BodyType != b.BodyType {
			return a.BodyType < b.BodyType
		}
		return a.Drivetrain < b.Drivetrain
	})
	return out
}

// titleCase upper-cases the first letter of every word: "land rover" → "Land Rover",
// "mercedes-benz" → "Mercedes-Benz".
func titleCase(s string) string {
	b := []rune(s)
	start := true
	for i, r := range b {
		if start {
			b[i] = unicode.ToUpper(r)
		}
		start = r == ' ' || r == '-'
	}
	return string(b)
}
