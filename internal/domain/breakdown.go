package domain

// Category names an independent signal source feeding the score.
type Category string

// Signal categories used by the bounded aggregator and the similarity scorer.
const (
	CategoryLocation     Category = "location"
	CategoryVehicle      Category = "vehicle"
	CategoryEmployer     Category = "employer"
	CategoryIntelligence Category = "intelligence"

	CategoryIncidence Category = "incidence"
	CategoryFrequency Category = "frequency"
	CategorySeverity  Category = "severity"
)

// Adjustment records one applied score delta. Applied is the amount that
// actually landed after cap clipping, which may be less than requested or zero.
type Adjustment struct {
	Category Category `json:"category"`
	Applied  float64  `json:"applied"`
	Reason   string   `json:"reason"`
}

// ScoreBreakdown is the audit trail of an aggregated score: the base value,
// the accumulated per-category totals, every applied adjustment in order,
// and the clamped final score.
type ScoreBreakdown struct {
	Base        float64              `json:"base"`
	Totals      map[Category]float64 `json:"totals"`
	Adjustments []Adjustment         `json:"adjustments"`
	Final       int                  `json:"final"`
}
