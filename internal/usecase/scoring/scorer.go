package scoring

import (
	"fmt"
	"strings"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
	"github.com/Vamap91/scoreinsuranteout25/internal/index"
	"github.com/Vamap91/scoreinsuranteout25/internal/usecase/aggregate"
)

// Per-category caps for the similarity adjustments. Each category applies a
// single band delta, so the cap equals the largest band magnitude.
var similarityCaps = map[domain.Category]float64{
	domain.CategoryIncidence: 200,
	domain.CategoryFrequency: 150,
	domain.CategorySeverity:  150,
}

// insufficientDataNote is the neutral-result explanation when no close
// neighbors exist. Not an error: the request still yields a usable score.
const insufficientDataNote = "insufficient data for similarity analysis"

// Scorer turns a close-neighbor set plus corpus baseline statistics into a
// similarity-derived score and its explanatory insights. Pure function of
// its inputs; no corpus state is touched.
type Scorer struct{}

// Score computes the analysis over the close set. An empty close set yields
// the neutral score with LOW confidence.
func (Scorer) Score(
	rec domain.ClientRecord,
	closeSet []index.Neighbor,
	tier domain.ConfidenceTier,
	stats index.Stats,
) domain.SimilarityAnalysis {
	if len(closeSet) == 0 {
		agg := aggregate.New(domain.ScoreBase, similarityCaps)
		return domain.SimilarityAnalysis{
			Score:      domain.ScoreBase,
			Tier:       domain.TierLow,
			Percentile: 50,
			VsBaseline: "BELOW",
			Breakdown:  agg.Breakdown(),
			Note:       insufficientDataNote,
		}
	}

	var claimSum, amountSum float64
	var withClaims int
	for _, n := range closeSet {
		claimSum += float64(n.Outcome.ClaimCount12M)
		amountSum += n.Outcome.ClaimAmount12M
		if n.Outcome.ClaimCount12M > 0 {
			withClaims++
		}
	}
	n := float64(len(closeSet))
	meanClaims := claimSum / n
	meanAmount := amountSum / n
	incidence := float64(withClaims) / n

	agg := aggregate.New(domain.ScoreBase, similarityCaps)
	agg.Apply(domain.CategoryIncidence, incidenceLadder.delta(incidence),
		fmt.Sprintf("claim incidence %.0f%% among close neighbors", incidence*100))
	agg.Apply(domain.CategoryFrequency, frequencyLadder.delta(meanClaims),
		fmt.Sprintf("mean of %.2f claims/year among close neighbors", meanClaims))
	agg.Apply(domain.CategorySeverity, severityLadder.delta(meanAmount),
		fmt.Sprintf("mean claim amount %.0f among close neighbors", meanAmount))
	breakdown := agg.Breakdown()

	deviation := meanClaims - stats.MeanClaims12M
	vsBaseline := "BELOW"
	if deviation > 0 {
		vsBaseline = "ABOVE"
	}

	return domain.SimilarityAnalysis{
		Score:           breakdown.Final,
		Tier:            tier,
		CloseCount:      len(closeSet),
		IncidenceRate:   incidence,
		MeanClaims:      meanClaims,
		MeanClaimAmount: meanAmount,
		Percentile:      stats.Percentile(meanClaims),
		VsBaseline:      vsBaseline,
		Deviation:       deviation,
		Insights:        insights(rec, closeSet, incidence, meanAmount),
		Breakdown:       breakdown,
	}
}

// insights derives the human-readable highlights: predominant claim type,
// severity band, and the regional comparison on the postal prefix.
func insights(rec domain.ClientRecord, closeSet []index.Neighbor, incidence, meanAmount float64) []string {
	out := make([]string, 0, 4)

	if t := predominantClaimType(closeSet); t != "" {
		out = append(out, "most common claim type among similar profiles: "+t)
	}

	if incidence < 0.3 {
		out = append(out, fmt.Sprintf("only %.0f%% of similar clients had claims", incidence*100))
	} else {
		out = append(out, fmt.Sprintf("%.0f%% of similar clients had claims", incidence*100))
	}

	if meanAmount > 0 && meanAmount < 5000 {
		out = append(out, fmt.Sprintf("low average claim amount (%.0f)", meanAmount))
	} else if meanAmount > 15000 {
		out = append(out, fmt.Sprintf("high average claim amount (%.0f)", meanAmount))
	}

	if regional, ok := regionalIncidence(rec, closeSet); ok {
		out = append(out, fmt.Sprintf("claim incidence in your region: %.0f%%", regional*100))
	}

	return out
}

// predominantClaimType returns the mode of the neighbors' claim types, ties
// broken lexicographically for determinism.
func predominantClaimType(closeSet []index.Neighbor) string {
	counts := make(map[string]int)
	for _, n := range closeSet {
		if n.Outcome.ClaimType != "" {
			counts[n.Outcome.ClaimType]++
		}
	}

	best := ""
	for t, c := range counts {
		if best == "" || c > counts[best] || (c == counts[best] && t < best) {
			best = t
		}
	}
	return best
}

// regionalIncidence computes the claim incidence among close neighbors
// sharing the record's two leading postal digits.
func regionalIncidence(rec domain.ClientRecord, closeSet []index.Neighbor) (float64, bool) {
	region := rec.RegionPrefix()[:2]

	var total, withClaims int
	for _, n := range closeSet {
		if !strings.HasPrefix(n.Outcome.RegionPrefix, region) {
			continue
		}
		total++
		if n.Outcome.ClaimCount12M > 0 {
			withClaims++
		}
	}
	if total == 0 {
		return 0, false
	}
	return float64(withClaims) / float64(total), true
}
