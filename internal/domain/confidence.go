package domain

// ConfidenceTier classifies how much the close-neighbor sample supports a
// similarity-derived score.
type ConfidenceTier string

const (
	// TierLow means too few close neighbors to trust the similarity score.
	TierLow ConfidenceTier = "LOW"
	// TierMedium means a moderate close-neighbor sample.
	TierMedium ConfidenceTier = "MEDIUM"
	// TierHigh means a large close-neighbor sample.
	TierHigh ConfidenceTier = "HIGH"
)
