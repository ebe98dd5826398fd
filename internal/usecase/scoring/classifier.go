package scoring

import (
	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
	"github.com/Vamap91/scoreinsuranteout25/internal/index"
)

// Default confidence thresholds. Empirical constants from the historical
// book; overridable via configuration.
const (
	DefaultSimilarityThreshold = 0.8
	DefaultMediumCloseCount    = 10
	DefaultHighCloseCount      = 30
)

// Classifier turns a neighbor set into a discrete confidence tier based on
// how many neighbors clear the high-similarity threshold.
type Classifier struct {
	threshold float64
	mediumAt  int
	highAt    int
}

// NewClassifier creates a classifier. Non-positive arguments fall back to
// the defaults.
func NewClassifier(threshold float64, mediumAt, highAt int) Classifier {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}
	if mediumAt <= 0 {
		mediumAt = DefaultMediumCloseCount
	}
	if highAt <= 0 {
		highAt = DefaultHighCloseCount
	}
	return Classifier{threshold: threshold, mediumAt: mediumAt, highAt: highAt}
}

// Close filters the neighbors whose similarity exceeds the high-similarity
// threshold, preserving rank order.
func (c Classifier) Close(neighbors []index.Neighbor) []index.Neighbor {
	var out []index.Neighbor
	for _, n := range neighbors {
		if n.Similarity > c.threshold {
			out = append(out, n)
		}
	}
	return out
}

// Tier maps a close-neighbor count to a confidence tier.
func (c Classifier) Tier(closeCount int) domain.ConfidenceTier {
	switch {
	case closeCount >= c.highAt:
		return domain.TierHigh
	case closeCount >= c.mediumAt:
		return domain.TierMedium
	default:
		return domain.TierLow
	}
}
