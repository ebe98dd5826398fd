package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
	"github.com/Vamap91/scoreinsuranteout25/internal/index"
	"github.com/Vamap91/scoreinsuranteout25/internal/usecase/scoring"
	"github.com/Vamap91/scoreinsuranteout25/internal/vectorizer"
)

func corpusRecord(id string) domain.ClientRecord {
	return domain.ClientRecord{
		ID:       id,
		Location: domain.Location{PostalCode: "01310-100"},
		Vehicle: domain.Vehicle{
			Brand:           "Fiat",
			Model:           "Argo",
			MarketValue:     50000,
			Category:        "Passeio",
			FuelType:        "Flex",
			ManufactureYear: 2021,
			ModelYear:       2022,
		},
		Claims: domain.ClaimHistory{DaysSinceLast: 180},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	records := make([]domain.ClientRecord, 35)
	for i := range records {
		records[i] = corpusRecord(fmt.Sprintf("c-%d", i))
	}
	ix, err := index.Build(records, vectorizer.New(nil))
	if err != nil {
		t.Fatalf("index.Build: %v", err)
	}

	svc := scoring.New(ix, nil, scoring.Config{}, nil)
	server := NewServer(svc, ix, nil)

	r := chirouter.NewRouter()
	server.Register(r)
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestHandleScore_OK(t *testing.T) {
	r := newTestRouter(t)

	body := `{"client":{"id":"q-1","location":{"postal_code":"01310-100"},"vehicle":{"brand":"Fiat","model":"Argo","market_value":50000,"category":"Passeio","fuel_type":"Flex","manufacture_year":2021,"model_year":2022},"claims":{"days_since_last":180}}}`
	rr := doRequest(t, r, "POST", "/v1/score", body)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}

	var report domain.ScoreReport
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}

	// The query matches the entire 35-record corpus: claim-free close set
	// at HIGH confidence scores 800.
	if report.Similarity.Tier != domain.TierHigh {
		t.Errorf("tier = %q, want HIGH", report.Similarity.Tier)
	}
	if report.FinalScore != 800 {
		t.Errorf("final score = %d, want 800", report.FinalScore)
	}
	if report.Band != domain.BandPremium {
		t.Errorf("band = %q, want PREMIUM", report.Band)
	}
	if report.BlendMethod != "100% similarity" {
		t.Errorf("blend method = %q, want 100%% similarity", report.BlendMethod)
	}
}

func TestHandleScore_WithExternalScore(t *testing.T) {
	r := newTestRouter(t)

	body := `{"client":{"id":"q-1","location":{"postal_code":"01310-100"},"vehicle":{"brand":"Fiat"}},"external_score":400}`
	rr := doRequest(t, r, "POST", "/v1/score", body)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	var report domain.ScoreReport
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.ExternalScore == nil || *report.ExternalScore != 400 {
		t.Errorf("external score = %v, want 400", report.ExternalScore)
	}
	if report.BlendMethod == "100% similarity" {
		t.Error("expected a blended method label with an external score present")
	}
}

func TestHandleScore_WithSignals(t *testing.T) {
	r := newTestRouter(t)

	body := `{"client":{"id":"q-1","vehicle":{"brand":"Fiat"}},"signals":[{"category":"location","delta":60,"reason":"verified address"}]}`
	rr := doRequest(t, r, "POST", "/v1/score", body)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rr.Code, rr.Body.String())
	}
	var report domain.ScoreReport
	if err := json.NewDecoder(rr.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.SignalBreakdown == nil {
		t.Fatal("expected a signal breakdown")
	}
	if report.ExternalScore == nil || *report.ExternalScore != 560 {
		t.Errorf("external score = %v, want 560 (500 + 60)", report.ExternalScore)
	}
}

func TestHandleScore_InvalidBody(t *testing.T) {
	r := newTestRouter(t)

	rr := doRequest(t, r, "POST", "/v1/score", "{not json")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}

	var errResp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp.Code != "bad_request" {
		t.Errorf("error code = %q, want bad_request", errResp.Code)
	}
}

func TestHandleScore_EmptyRecord(t *testing.T) {
	r := newTestRouter(t)

	rr := doRequest(t, r, "POST", "/v1/score", `{"client":{}}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleScore_ExternalScoreOutOfRange(t *testing.T) {
	r := newTestRouter(t)

	body := `{"client":{"vehicle":{"brand":"Fiat"}},"external_score":1500}`
	rr := doRequest(t, r, "POST", "/v1/score", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestHandleCorpusStats(t *testing.T) {
	r := newTestRouter(t)

	rr := doRequest(t, r, "GET", "/v1/corpus/stats", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var stats index.Stats
	if err := json.NewDecoder(rr.Body).Decode(&stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalClients != 35 {
		t.Errorf("total clients = %d, want 35", stats.TotalClients)
	}
}

func TestHandleHealth(t *testing.T) {
	r := newTestRouter(t)

	rr := doRequest(t, r, "GET", "/health", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %v, want ok", body["status"])
	}
	if body["corpus_size"].(float64) != 35 {
		t.Errorf("corpus size = %v, want 35", body["corpus_size"])
	}
}
