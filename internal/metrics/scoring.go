package metrics

import "github.com/prometheus/client_golang/prometheus"

// Scoring Prometheus metrics.
var (
	ScoringRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scoreapi",
			Name:      "scoring_requests_total",
			Help:      "Total number of scoring requests",
		},
		[]string{"tier", "source"}, // source: "cache" / "computed"
	)

	ScoreDistribution = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "scoreapi",
			Name:      "final_score",
			Help:      "Distribution of final scores",
			Buckets:   []float64{100, 200, 350, 500, 650, 800, 900, 1000},
		},
	)

	IndexQueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "scoreapi",
			Name:      "index_query_duration_seconds",
			Help:      "Similarity index query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scoreapi",
			Name:      "result_cache_total",
			Help:      "Result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var scoringMetricsRegistered bool

// RegisterScoringMetrics registers scoring metrics. Must be called once from main.
func RegisterScoringMetrics() {
	if scoringMetricsRegistered {
		return
	}
	prometheus.MustRegister(ScoringRequestsTotal)
	prometheus.MustRegister(ScoreDistribution)
	prometheus.MustRegister(IndexQueryDuration)
	prometheus.MustRegister(ResultCacheTotal)
	scoringMetricsRegistered = true
}
