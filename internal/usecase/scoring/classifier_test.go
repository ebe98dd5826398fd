package scoring

import (
	"testing"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
	"github.com/Vamap91/scoreinsuranteout25/internal/index"
)

func TestClose_FiltersOnThreshold(t *testing.T) {
	c := NewClassifier(0, 0, 0)
	neighbors := []index.Neighbor{
		{Index: 0, Similarity: 0.95},
		{Index: 1, Similarity: 0.81},
		{Index: 2, Similarity: 0.8}, // at the threshold, not above
		{Index: 3, Similarity: 0.5},
	}

	got := c.Close(neighbors)
	if len(got) != 2 {
		t.Fatalf("got %d close neighbors, want 2", len(got))
	}
	if got[0].Index != 0 || got[1].Index != 1 {
		t.Errorf("close set = %v, want rank order preserved", got)
	}
}

func TestTier_Defaults(t *testing.T) {
	c := NewClassifier(0, 0, 0)
	tests := []struct {
		count int
		want  domain.ConfidenceTier
	}{
		{0, domain.TierLow},
		{5, domain.TierLow},
		{9, domain.TierLow},
		{10, domain.TierMedium},
		{15, domain.TierMedium},
		{29, domain.TierMedium},
		{30, domain.TierHigh},
		{40, domain.TierHigh},
	}
	for _, tt := range tests {
		if got := c.Tier(tt.count); got != tt.want {
			t.Errorf("Tier(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestTier_CustomThresholds(t *testing.T) {
	c := NewClassifier(0.9, 5, 20)
	if got := c.Tier(5); got != domain.TierMedium {
		t.Errorf("Tier(5) = %q, want MEDIUM with mediumAt 5", got)
	}
	if got := c.Tier(20); got != domain.TierHigh {
		t.Errorf("Tier(20) = %q, want HIGH with highAt 20", got)
	}
}
