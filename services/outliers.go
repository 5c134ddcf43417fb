package services

import (
	"math"
	"sort"

	"carvalu/config"
	"carvalu/models"
)

// GroupKey identifies the population a listing's price is compared against.
type GroupKey struct {
	Make  string
	Model string
}

// Bounds is the accepted closed price interval of one group.
type Bounds struct {
	Q1, Q3      float64
	Lower       float64
	Upper       float64
	SampleCount int
}

// Contains reports whether price lies within the bounds.
func (b Bounds) Contains(price float64) bool {
	return price >= b.Lower && price <= b.Upper
}

// OutlierFilter rejects listings priced far outside their model's
// interquartile range. Bounds come from the batch itself.
type OutlierFilter struct {
	rules  config.OutlierRules
	exempt map[string]struct{}
}

// NewOutlierFilter creates an OutlierFilter with the given rules.
func NewOutlierFilter(rules config.OutlierRules) *OutlierFilter {
	return &OutlierFilter{rules: rules, exempt: toSet(rules.ExemptTrims)}
}

// Filter computes per-group bounds and drops the listings outside them.
func (f *OutlierFilter) Filter(in []models.Listing) []models.Listing {
	return f.Apply(in, f.Bounds(in))
}

// Bounds groups the priced, non-exempt listings by make and model and returns
// the price bounds of every group with at least MinGroupSize samples.
func (f *OutlierFilter) Bounds(in []models.Listing) map[GroupKey]Bounds {
	prices := make(map[GroupKey][]float64)
	for _, l := range in {
		if l.Price == nil || f.isExempt(l) {
			continue
		}
		key := GroupKey{Make: l.Make, Model: l.Model}
		prices[key] = append(prices[key], float64(*l.Price))
	}

	bounds := make(map[GroupKey]Bounds, len(prices))
	for key, xs := range prices {
		if len(xs) < f.rules.MinGroupSize {
			continue
		}
		bounds[key] = iqrBounds(xs, f.rules.IQRMultiplier)
	}
	return bounds
}

// Apply drops listings whose price falls outside their group's bounds.
// Listings in groups without bounds, exempt trims and unpriced rows pass through.
func (f *OutlierFilter) Apply(in []models.Listing, bounds map[GroupKey]Bounds) []models.Listing {
	out := make([]models.Listing, 0, len(in))
	for _, l := range in {
		if l.Price != nil && !f.isExempt(l) {
			b, ok := bounds[GroupKey{Make: l.Make, Model: l.Model}]
			if ok && !b.Contains(float64(*l.Price)) {
				continue
			}
		}
		out = append(out, l)
	}
	return out
}

func (f *OutlierFilter) isExempt(l models.Listing) bool {
	_, ok := f.exempt[l.Trim]
	return ok
}

// iqrBounds computes [Q1 - k·IQR, Q3 + k·IQR] over xs, which it sorts in place.
func iqrBounds(xs []float64, k float64) Bounds {
	sort.Float64s(xs)
	q1 := quantile(xs, 0.25)
	q3 := quantile(xs, 0.75)
	iqr := q3 - q1
	return Bounds{
		Q1:          q1,
		Q3:          q3,
		Lower:       q1 - k*iqr,
		Upper:       q3 + k*iqr,
		SampleCount: len(xs),
	}
}

// quantile returns the p-quantile of sorted by linear interpolation between the
// closest ranks at position (n-1)·p. sorted must be non-empty.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
