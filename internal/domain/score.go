package domain

// Score scale shared by every scoring path.
const (
	ScoreMin  = 0
	ScoreBase = 500
	ScoreMax  = 1000
)

// ClampScore bounds a raw score to the canonical [ScoreMin, ScoreMax] range.
func ClampScore(v float64) int {
	if v < ScoreMin {
		return ScoreMin
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return int(v)
}

// RiskBand is the underwriting classification derived from a final score.
type RiskBand string

const (
	BandPremium   RiskBand = "PREMIUM"
	BandExcellent RiskBand = "EXCELENTE"
	BandGood      RiskBand = "BOM"
	BandRegular   RiskBand = "REGULAR"
	BandAttention RiskBand = "ATENCAO"
	BandCritical  RiskBand = "CRITICO"
)

// riskBands maps score floors to bands, highest floor first.
var riskBands = []struct {
	floor int
	band  RiskBand
}{
	{800, BandPremium},
	{650, BandExcellent},
	{500, BandGood},
	{350, BandRegular},
	{200, BandAttention},
	{ScoreMin, BandCritical},
}

// BandFor returns the risk band whose floor the score reaches.
func BandFor(score int) RiskBand {
	for _, b := range riskBands {
		if score >= b.floor {
			return b.band
		}
	}
	return BandCritical
}
