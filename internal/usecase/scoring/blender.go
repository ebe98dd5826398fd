package scoring

import (
	"math"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
)

// blendWeight is one row of the confidence-tier-keyed weight table.
type blendWeight struct {
	similarity float64
	external   float64
	label      string
}

// blendWeights maps confidence tiers to blend weightings. The label names
// the weighting used, for auditability of the final score.
var blendWeights = map[domain.ConfidenceTier]blendWeight{
	domain.TierHigh:   {0.7, 0.3, "70% similarity + 30% external"},
	domain.TierMedium: {0.5, 0.5, "50% similarity + 50% external"},
	domain.TierLow:    {0.2, 0.8, "20% similarity + 80% external"},
}

// Blend combines the similarity score with an independently produced
// external score using the tier's weighting. Unknown tiers use the LOW
// weighting. The result is integer-rounded and clamped to the canonical
// range.
func Blend(simScore, externalScore int, tier domain.ConfidenceTier) (int, string) {
	w, ok := blendWeights[tier]
	if !ok {
		w = blendWeights[domain.TierLow]
	}
	blended := float64(simScore)*w.similarity + float64(externalScore)*w.external
	return domain.ClampScore(math.Round(blended)), w.label
}
