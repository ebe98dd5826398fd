// Package recommend maps a final risk band to underwriting guidance:
// approval mode, premium delta, policy conditions, required devices and
// alerts.
package recommend

import (
	"fmt"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
)

// highIncidenceAlertThreshold triggers the similarity-derived alert when
// more than half of the close neighbors had claims.
const highIncidenceAlertThreshold = 0.5

var byBand = map[domain.RiskBand]domain.Recommendation{
	domain.BandPremium: {
		Approval:   "AUTOMATIC APPROVAL",
		Premium:    "maximum discount (-25%)",
		Conditions: []string{"fast-track", "premium products available"},
	},
	domain.BandExcellent: {
		Approval:   "SIMPLIFIED APPROVAL",
		Premium:    "discount (-15%)",
		Conditions: []string{"express review"},
	},
	domain.BandGood: {
		Approval:   "STANDARD APPROVAL",
		Premium:    "base premium",
		Conditions: []string{"normal process"},
	},
	domain.BandRegular: {
		Approval:   "ADDITIONAL REVIEW",
		Premium:    "surcharge (+20%)",
		Conditions: []string{"prior inspection"},
		Devices:    []string{"tracker recommended"},
	},
	domain.BandAttention: {
		Approval:   "CONDITIONAL APPROVAL",
		Premium:    "surcharge (+40%)",
		Conditions: []string{"mandatory inspection", "raised deductible"},
		Devices:    []string{"tracker required"},
		Alerts:     []string{"elevated risk identified"},
	},
	domain.BandCritical: {
		Approval:   "DECLINE RECOMMENDED",
		Premium:    "surcharge (+80-100%)",
		Conditions: []string{"multiple restrictions", "managerial review"},
		Devices:    []string{"tracker + immobilizer"},
		Alerts:     []string{"critical risk", "evaluate alternatives"},
	},
}

// For returns the recommendation for a band, extended with the
// similarity-derived alert when close-neighbor incidence is high.
func For(band domain.RiskBand, sim domain.SimilarityAnalysis) domain.Recommendation {
	rec, ok := byBand[band]
	if !ok {
		rec = byBand[domain.BandCritical]
	}

	// Copy the slices so callers never mutate the shared table.
	out := domain.Recommendation{
		Approval:   rec.Approval,
		Premium:    rec.Premium,
		Conditions: append([]string(nil), rec.Conditions...),
		Devices:    append([]string(nil), rec.Devices...),
		Alerts:     append([]string(nil), rec.Alerts...),
	}

	if sim.CloseCount > 0 && sim.IncidenceRate > highIncidenceAlertThreshold {
		out.Alerts = append(out.Alerts, fmt.Sprintf(
			"high claim incidence among similar profiles (%.0f%%)", sim.IncidenceRate*100,
		))
	}
	return out
}
