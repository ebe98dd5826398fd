package index

import (
	"testing"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
)

func TestComputeStats(t *testing.T) {
	records := []domain.ClientRecord{
		makeRecord("a", 0, 0),
		makeRecord("b", 0, 0),
		makeRecord("c", 1, 5000),
		makeRecord("d", 3, 30000),
	}
	records[2].Claims.PredominantType = "Colisão"
	records[3].Claims.PredominantType = "Roubo"

	s := computeStats(records)

	if s.TotalClients != 4 {
		t.Errorf("total clients = %d, want 4", s.TotalClients)
	}
	if s.MeanClaims12M != 1 {
		t.Errorf("mean claims = %v, want 1", s.MeanClaims12M)
	}
	if s.IncidenceRate != 0.5 {
		t.Errorf("incidence rate = %v, want 0.5", s.IncidenceRate)
	}
	if s.ClaimTypes["Colisão"] != 1 || s.ClaimTypes["Roubo"] != 1 {
		t.Errorf("claim types = %v, want one of each", s.ClaimTypes)
	}
	// sorted claims: 0 0 1 3 -> median idx 1 (0), p90 idx 2 (1)
	if s.MedianClaims12M != 0 {
		t.Errorf("median = %v, want 0", s.MedianClaims12M)
	}
}

func TestStats_Percentile(t *testing.T) {
	s := computeStats([]domain.ClientRecord{
		makeRecord("a", 0, 0),
		makeRecord("b", 0, 0),
		makeRecord("c", 1, 5000),
		makeRecord("d", 2, 10000),
	})

	tests := []struct {
		v    float64
		want int
	}{
		{0, 0},   // nothing strictly below 0
		{0.5, 50}, // the two zero-claim records
		{1, 50},
		{1.5, 75},
		{10, 100},
	}
	for _, tt := range tests {
		if got := s.Percentile(tt.v); got != tt.want {
			t.Errorf("Percentile(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestStats_PercentileEmpty(t *testing.T) {
	var s Stats
	if got := s.Percentile(1); got != 50 {
		t.Errorf("Percentile on empty stats = %d, want neutral 50", got)
	}
}

func TestTopByMean_DeterministicTies(t *testing.T) {
	groups := map[string]*GroupStat{
		"b": {Key: "b", Count: 1, MeanClaims: 2},
		"a": {Key: "a", Count: 1, MeanClaims: 2},
		"c": {Key: "c", Count: 1, MeanClaims: 5},
	}
	out := topByMean(groups)
	if len(out) != 3 {
		t.Fatalf("got %d groups, want 3", len(out))
	}
	if out[0].Key != "c" || out[1].Key != "a" || out[2].Key != "b" {
		t.Errorf("order = %s %s %s, want c a b", out[0].Key, out[1].Key, out[2].Key)
	}
}
