// Package aggregate accumulates independent, capped per-category score
// adjustments into one bounded score. The cap keeps any single noisy or
// low-trust signal source from dominating the outcome relative to verified
// sources.
package aggregate

import (
	"math"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
)

// Aggregator is a bounded multi-category score accumulator. Not safe for
// concurrent use; build one per request.
type Aggregator struct {
	base        float64
	caps        map[domain.Category]float64
	totals      map[domain.Category]float64
	adjustments []domain.Adjustment
}

// New creates an aggregator with a base value and per-category caps (maximum
// absolute contribution per category). Categories without a cap have zero
// headroom: their adjustments record as applied 0.
func New(base float64, caps map[domain.Category]float64) *Aggregator {
	c := make(map[domain.Category]float64, len(caps))
	for cat, limit := range caps {
		c[cat] = math.Abs(limit)
	}
	return &Aggregator{
		base:   base,
		caps:   c,
		totals: make(map[domain.Category]float64),
	}
}

// Apply clips delta so the category's running total never exceeds its cap in
// either direction, records the applied amount (possibly zero) with its
// justification, and returns it. Overflow is silent: the clipped amount is
// what gets recorded, never an error.
func (a *Aggregator) Apply(cat domain.Category, delta float64, reason string) float64 {
	limit := a.caps[cat]
	total := a.totals[cat]

	applied := delta
	if total+applied > limit {
		applied = limit - total
	} else if total+applied < -limit {
		applied = -limit - total
	}

	a.totals[cat] = total + applied
	a.adjustments = append(a.adjustments, domain.Adjustment{
		Category: cat,
		Applied:  applied,
		Reason:   reason,
	})
	return applied
}

// Total returns the running total for one category.
func (a *Aggregator) Total(cat domain.Category) float64 {
	return a.totals[cat]
}

// Breakdown finalizes the score: base plus all category totals, clamped to
// the canonical range, with the full adjustment audit trail.
func (a *Aggregator) Breakdown() domain.ScoreBreakdown {
	sum := a.base
	totals := make(map[domain.Category]float64, len(a.totals))
	for cat, t := range a.totals {
		sum += t
		totals[cat] = t
	}

	adjustments := make([]domain.Adjustment, len(a.adjustments))
	copy(adjustments, a.adjustments)

	return domain.ScoreBreakdown{
		Base:        a.base,
		Totals:      totals,
		Adjustments: adjustments,
		Final:       domain.ClampScore(sum),
	}
}
