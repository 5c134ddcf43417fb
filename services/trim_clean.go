package services

import (
	"strings"

	"carvalu/config"
)

// UnknownTrim marks a trim that was missing or could not be trusted.
const UnknownTrim = "unknown"

// trimCleaner turns free-text trim descriptions into short canonical trims.
type trimCleaner struct {
	truncate   []string
	strip      *strings.Replacer
	invalid    map[string]struct{}
	redFlags   []string
	correction map[string]map[string]string
}

func newTrimCleaner(tables config.MappingTables) *trimCleaner {
	pairs := make([]string, 0, 2*len(tables.TrimStripChars)+2)
	for _, c := range tables.TrimStripChars {
		pairs = append(pairs, c, "")
	}
	pairs = append(pairs, "'", "ft")

	return &trimCleaner{
		truncate:   tables.TrimTruncateAfter,
		strip:      strings.NewReplacer(pairs...),
		invalid:    toSet(tables.InvalidTrims),
		redFlags:   tables.TrimRedFlags,
		correction: tables.TrimCorrection,
	}
}

// Clean returns the canonical trim for a lowercased trim of the given make and model.
// Trims already prefixed with "<model>-" are unwrapped first so the result is stable
// when cleaned output is fed back in.
func (tc *trimCleaner) Clean(carMake, model, trim string) string {
	trim = strings.TrimPrefix(trim, model+"-")

	for _, marker := range tc.truncate {
		if i := strings.Index(trim, marker); i >= 0 {
			trim = trim[:i]
		}
	}
	trim = tc.strip.Replace(trim)
	trim = dedupeWords(trim)

	if fixed, ok := tc.correction[carMake][trim]; ok {
		trim = fixed
	}
	if !tc.valid(trim) {
		return UnknownTrim
	}
	return trim
}

// Combine prefixes trim with the model name, as trims repeat across models.
func (tc *trimCleaner) Combine(model, trim string) string {
	if model == "" {
		return trim
	}
	return model + "-" + trim
}

func (tc *trimCleaner) valid(trim string) bool {
	if trim == "" {
		return false
	}
	if _, bad := tc.invalid[trim]; bad {
		return false
	}
	words := strings.Fields(trim)
	for _, flag := range tc.redFlags {
		if len(flag) <= 3 {
			// Short flags match whole words only; "ac" must not reject "black".
			for _, w := range words {
				if w == flag {
					return false
				}
			}
			continue
		}
		if strings.Contains(trim, flag) {
			return false
		}
	}
	return true
}

// dedupeWords collapses whitespace and drops repeated words, keeping first occurrences.
func dedupeWords(s string) string {
	words := strings.Fields(s)
	seen := make(map[string]struct{}, len(words))
	out := words[:0]
	for _, w := range words {
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
