package domain

// SimilarityAnalysis is the outcome of the similarity scoring path for one
// record. It is a pure function of the record and the index, which makes it
// the unit stored in the result cache.
type SimilarityAnalysis struct {
	Score      int            `json:"score"`
	Tier       ConfidenceTier `json:"tier"`
	CloseCount int            `json:"close_count"`

	IncidenceRate   float64 `json:"incidence_rate"`
	MeanClaims      float64 `json:"mean_claims"`
	MeanClaimAmount float64 `json:"mean_claim_amount"`

	// Corpus-wide comparison of the close-set mean claim count.
	Percentile int     `json:"percentile"`
	VsBaseline string  `json:"vs_baseline"` // "ABOVE" or "BELOW"
	Deviation  float64 `json:"deviation"`

	Insights  []string       `json:"insights"`
	Breakdown ScoreBreakdown `json:"breakdown"`
	Note      string         `json:"note,omitempty"`
}

// Recommendation is the underwriting guidance derived from the final band.
type Recommendation struct {
	Approval   string   `json:"approval"`
	Premium    string   `json:"premium"`
	Conditions []string `json:"conditions,omitempty"`
	Devices    []string `json:"devices,omitempty"`
	Alerts     []string `json:"alerts,omitempty"`
}

// ScoreReport is the full scoring response for one request.
type ScoreReport struct {
	Similarity SimilarityAnalysis `json:"similarity"`

	ExternalScore *int   `json:"external_score,omitempty"`
	FinalScore    int    `json:"final_score"`
	BlendMethod   string `json:"blend_method"`

	// Present when the request supplied verification signals.
	SignalBreakdown *ScoreBreakdown `json:"signal_breakdown,omitempty"`

	Band           RiskBand       `json:"band"`
	Recommendation Recommendation `json:"recommendation"`
}
