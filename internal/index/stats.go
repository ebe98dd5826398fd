package index

import (
	"sort"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
)

const topListSize = 10

// GroupStat is a mean claim count for one grouping key (brand+model or
// region prefix).
type GroupStat struct {
	Key        string  `json:"key"`
	MeanClaims float64 `json:"mean_claims"`
	Count      int     `json:"count"`
}

// Stats are corpus-wide baseline statistics, fitted once at build time and
// used for benchmarking a close-neighbor set against the whole book.
type Stats struct {
	TotalClients    int     `json:"total_clients"`
	MeanClaims12M   float64 `json:"mean_claims_12m"`
	MedianClaims12M float64 `json:"median_claims_12m"`
	P90Claims12M    float64 `json:"p90_claims_12m"`
	MeanClaimAmount float64 `json:"mean_claim_amount"`
	IncidenceRate   float64 `json:"incidence_rate"`

	TopVehicles     []GroupStat    `json:"top_vehicles"`
	CriticalRegions []GroupStat    `json:"critical_regions"`
	ClaimTypes      map[string]int `json:"claim_types"`

	// Sorted 12-month claim counts, kept for percentile lookups.
	sortedClaims []int
}

// Percentile returns the share (0-100) of corpus records whose 12-month
// claim count is strictly below v.
func (s Stats) Percentile(v float64) int {
	if len(s.sortedClaims) == 0 {
		return 50
	}
	below := sort.Search(len(s.sortedClaims), func(i int) bool {
		return float64(s.sortedClaims[i]) >= v
	})
	return int(float64(below) / float64(len(s.sortedClaims)) * 100)
}

func computeStats(records []domain.ClientRecord) Stats {
	s := Stats{
		TotalClients: len(records),
		ClaimTypes:   make(map[string]int),
	}

	claims := make([]int, 0, len(records))
	vehicles := make(map[string]*GroupStat)
	regions := make(map[string]*GroupStat)

	var withClaims int
	for _, r := range records {
		rec := r.Normalized()
		c := rec.Claims.Count12M
		claims = append(claims, c)
		s.MeanClaims12M += float64(c)
		s.MeanClaimAmount += rec.Claims.AvgAmount
		if c > 0 {
			withClaims++
		}
		if t := rec.Claims.PredominantType; t != "" {
			s.ClaimTypes[t]++
		}

		accumulate(vehicles, rec.Vehicle.Brand+" "+rec.Vehicle.Model, c)
		accumulate(regions, rec.RegionPrefix(), c)
	}

	n := float64(len(records))
	s.MeanClaims12M /= n
	s.MeanClaimAmount /= n
	s.IncidenceRate = float64(withClaims) / n

	sort.Ints(claims)
	s.sortedClaims = claims
	s.MedianClaims12M = quantile(claims, 0.5)
	s.P90Claims12M = quantile(claims, 0.9)

	s.TopVehicles = topByMean(vehicles)
	s.CriticalRegions = topByMean(regions)
	return s
}

func accumulate(groups map[string]*GroupStat, key string, claims int) {
	g, ok := groups[key]
	if !ok {
		g = &GroupStat{Key: key}
		groups[key] = g
	}
	g.Count++
	g.MeanClaims += float64(claims)
}

// topByMean finalizes group means and returns the highest topListSize groups,
// ties broken by key for determinism.
func topByMean(groups map[string]*GroupStat) []GroupStat {
	out := make([]GroupStat, 0, len(groups))
	for _, g := range groups {
		g.MeanClaims /= float64(g.Count)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeanClaims != out[j].MeanClaims {
			return out[i].MeanClaims > out[j].MeanClaims
		}
		return out[i].Key < out[j].Key
	})
	if len(out) > topListSize {
		out = out[:topListSize]
	}
	return out
}

// quantile returns the q-quantile of a sorted int slice (nearest-rank).
func quantile(sorted []int, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q * float64(len(sorted)-1))
	return float64(sorted[idx])
}
