package scoring

import (
	"context"
	"testing"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
	"github.com/Vamap91/scoreinsuranteout25/internal/index"
)

// --- Mocks ---

type mockSearcher struct {
	neighbors []index.Neighbor
	stats     index.Stats
	queries   int
}

func (m *mockSearcher) Query(_ domain.ClientRecord, k int) []index.Neighbor {
	m.queries++
	if k > len(m.neighbors) {
		k = len(m.neighbors)
	}
	return m.neighbors[:k]
}

func (m *mockSearcher) Stats() index.Stats { return m.stats }
func (m *mockSearcher) Size() int          { return len(m.neighbors) }

type mockCache struct {
	entries map[string]domain.SimilarityAnalysis
	sets    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]domain.SimilarityAnalysis)}
}

func (m *mockCache) Get(_ context.Context, rec domain.ClientRecord) (domain.SimilarityAnalysis, bool) {
	a, ok := m.entries[rec.ID]
	return a, ok
}

func (m *mockCache) Set(_ context.Context, rec domain.ClientRecord, a domain.SimilarityAnalysis) {
	m.sets++
	m.entries[rec.ID] = a
}

// cleanNeighbors returns n claim-free neighbors above the close threshold.
// Incidence 0 -> +150, mean claims 0 -> +100, mean amount 0 -> +50: the
// similarity score lands on 800.
func cleanNeighbors(n int) []index.Neighbor {
	out := make([]index.Neighbor, n)
	for i := range out {
		out[i] = index.Neighbor{Index: i, Similarity: 0.95, Outcome: index.Outcome{RegionPrefix: "01310"}}
	}
	return out
}

func testRecord() domain.ClientRecord {
	return domain.ClientRecord{
		ID:       "c-1",
		Location: domain.Location{PostalCode: "01310-100"},
		Vehicle:  domain.Vehicle{Brand: "Fiat", Model: "Argo"},
	}
}

// --- Tests ---

func TestScore_SimilarityOnly(t *testing.T) {
	svc := New(&mockSearcher{neighbors: cleanNeighbors(35)}, nil, Config{}, nil)

	report := svc.Score(context.Background(), testRecord(), Options{})

	if report.Similarity.Score != 800 {
		t.Errorf("similarity score = %d, want 800", report.Similarity.Score)
	}
	if report.Similarity.Tier != domain.TierHigh {
		t.Errorf("tier = %q, want HIGH with 35 close neighbors", report.Similarity.Tier)
	}
	if report.FinalScore != 800 {
		t.Errorf("final score = %d, want the similarity score without external input", report.FinalScore)
	}
	if report.BlendMethod != "100% similarity" {
		t.Errorf("blend method = %q, want 100%% similarity", report.BlendMethod)
	}
	if report.ExternalScore != nil {
		t.Error("expected nil external score")
	}
	if report.Band != domain.BandPremium {
		t.Errorf("band = %q, want PREMIUM for score 800", report.Band)
	}
	if report.Recommendation.Approval == "" {
		t.Error("expected a recommendation")
	}
}

func TestScore_BlendsExternalScore(t *testing.T) {
	svc := New(&mockSearcher{neighbors: cleanNeighbors(35)}, nil, Config{}, nil)

	ext := 400
	report := svc.Score(context.Background(), testRecord(), Options{ExternalScore: &ext})

	// HIGH tier: 0.7*800 + 0.3*400 = 680.
	if report.FinalScore != 680 {
		t.Errorf("final score = %d, want 680", report.FinalScore)
	}
	if report.BlendMethod != "70% similarity + 30% external" {
		t.Errorf("blend method = %q, want the HIGH weighting label", report.BlendMethod)
	}
	if report.ExternalScore == nil || *report.ExternalScore != 400 {
		t.Errorf("external score = %v, want 400", report.ExternalScore)
	}
	if report.SignalBreakdown != nil {
		t.Error("expected no signal breakdown when the external score is given directly")
	}
}

func TestScore_ClampsExternalScore(t *testing.T) {
	svc := New(&mockSearcher{neighbors: cleanNeighbors(35)}, nil, Config{}, nil)

	ext := 5000
	report := svc.Score(context.Background(), testRecord(), Options{ExternalScore: &ext})
	if *report.ExternalScore != 1000 {
		t.Errorf("external score = %d, want clamped to 1000", *report.ExternalScore)
	}
}

func TestScore_AggregatesSignals(t *testing.T) {
	svc := New(&mockSearcher{neighbors: cleanNeighbors(35)}, nil, Config{}, nil)

	report := svc.Score(context.Background(), testRecord(), Options{Signals: []Signal{
		{Category: domain.CategoryLocation, Delta: 150, Reason: "verified address"},
		{Category: domain.CategoryVehicle, Delta: -50, Reason: "auction history"},
	}})

	// Location clips to the 100 cap: external = 500 + 100 - 50 = 550.
	if report.ExternalScore == nil || *report.ExternalScore != 550 {
		t.Fatalf("external score = %v, want 550", report.ExternalScore)
	}
	if report.SignalBreakdown == nil {
		t.Fatal("expected a signal breakdown")
	}
	if report.SignalBreakdown.Totals[domain.CategoryLocation] != 100 {
		t.Errorf("location total = %v, want capped 100", report.SignalBreakdown.Totals[domain.CategoryLocation])
	}
	// HIGH tier: 0.7*800 + 0.3*550 = 725.
	if report.FinalScore != 725 {
		t.Errorf("final score = %d, want 725", report.FinalScore)
	}
}

func TestScore_UsesCache(t *testing.T) {
	searcher := &mockSearcher{neighbors: cleanNeighbors(35)}
	rc := newMockCache()
	svc := New(searcher, rc, Config{}, nil)

	first := svc.Score(context.Background(), testRecord(), Options{})
	second := svc.Score(context.Background(), testRecord(), Options{})

	if searcher.queries != 1 {
		t.Errorf("index queries = %d, want 1 (second request served from cache)", searcher.queries)
	}
	if rc.sets != 1 {
		t.Errorf("cache sets = %d, want 1", rc.sets)
	}
	if first.FinalScore != second.FinalScore {
		t.Errorf("cached request scored %d, first scored %d", second.FinalScore, first.FinalScore)
	}
}

func TestScore_CachedSimilarityBlendsPerRequest(t *testing.T) {
	svc := New(&mockSearcher{neighbors: cleanNeighbors(35)}, newMockCache(), Config{}, nil)

	plain := svc.Score(context.Background(), testRecord(), Options{})
	ext := 400
	blended := svc.Score(context.Background(), testRecord(), Options{ExternalScore: &ext})

	if plain.FinalScore != 800 {
		t.Errorf("plain final = %d, want 800", plain.FinalScore)
	}
	if blended.FinalScore != 680 {
		t.Errorf("blended final = %d, want 680 despite the cached similarity", blended.FinalScore)
	}
}

func TestScore_NoCloseNeighborsIsNeutral(t *testing.T) {
	// Neighbors exist but none clear the similarity threshold.
	far := make([]index.Neighbor, 20)
	for i := range far {
		far[i] = index.Neighbor{Index: i, Similarity: 0.4}
	}
	svc := New(&mockSearcher{neighbors: far}, nil, Config{}, nil)

	report := svc.Score(context.Background(), testRecord(), Options{})

	if report.Similarity.Score != domain.ScoreBase {
		t.Errorf("similarity score = %d, want neutral %d", report.Similarity.Score, domain.ScoreBase)
	}
	if report.Similarity.Tier != domain.TierLow {
		t.Errorf("tier = %q, want LOW", report.Similarity.Tier)
	}
	if report.Similarity.Note == "" {
		t.Error("expected the insufficient-data note")
	}
}

func TestScore_LowTierLeansOnExternal(t *testing.T) {
	svc := New(&mockSearcher{neighbors: cleanNeighbors(5)}, nil, Config{}, nil)

	ext := 300
	report := svc.Score(context.Background(), testRecord(), Options{ExternalScore: &ext})

	if report.Similarity.Tier != domain.TierLow {
		t.Fatalf("tier = %q, want LOW with 5 close neighbors", report.Similarity.Tier)
	}
	// LOW tier: 0.2*800 + 0.8*300 = 400.
	if report.FinalScore != 400 {
		t.Errorf("final score = %d, want 400", report.FinalScore)
	}
}
