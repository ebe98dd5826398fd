package scoring

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Vamap91/scoreinsuranteout25/internal/cache"
	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
	"github.com/Vamap91/scoreinsuranteout25/internal/metrics"
	"github.com/Vamap91/scoreinsuranteout25/internal/usecase/aggregate"
	"github.com/Vamap91/scoreinsuranteout25/internal/usecase/recommend"
)

// DefaultTopK is the neighbor count retrieved per query before the
// close-neighbor filter.
const DefaultTopK = 100

// DefaultSignalCap is the per-category cap applied to request-supplied
// verification signals.
const DefaultSignalCap = 100

// Signal is one externally verified adjustment supplied with a request
// (location, vehicle, employer or intelligence source).
type Signal struct {
	Category domain.Category
	Delta    float64
	Reason   string
}

// Options carry the per-request inputs beyond the record itself.
type Options struct {
	// ExternalScore is the independently produced verification score
	// (0-1000), blended with the similarity score by confidence tier.
	ExternalScore *int
	// Signals are aggregated into an external score when ExternalScore is
	// absent; ignored otherwise.
	Signals []Signal
}

// Config holds the scoring knobs.
type Config struct {
	TopK                int
	SimilarityThreshold float64
	MediumCloseCount    int
	HighCloseCount      int
	SignalCap           float64
}

// Service runs the scoring pipeline: vectorize, retrieve neighbors,
// classify confidence, score, blend, classify band, recommend.
type Service struct {
	index      Searcher
	cache      ResultCache
	classifier Classifier
	scorer     Scorer
	topK       int
	signalCap  float64
	locks      cache.KeyMutex
	logger     *zap.Logger
}

// New creates a scoring service. rc may be nil to disable caching.
func New(ix Searcher, rc ResultCache, cfg Config, logger *zap.Logger) *Service {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.SignalCap <= 0 {
		cfg.SignalCap = DefaultSignalCap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		index:      ix,
		cache:      rc,
		classifier: NewClassifier(cfg.SimilarityThreshold, cfg.MediumCloseCount, cfg.HighCloseCount),
		topK:       cfg.TopK,
		signalCap:  cfg.SignalCap,
		logger:     logger,
	}
}

// Score produces the full report for one record. It always returns a
// result for a well-formed record: when the corpus offers no close
// neighbors the similarity side degrades to the neutral score with LOW
// confidence rather than failing.
func (s *Service) Score(ctx context.Context, rec domain.ClientRecord, opts Options) domain.ScoreReport {
	rec = rec.Normalized()

	sim, fromCache := s.similarity(ctx, rec)

	report := domain.ScoreReport{Similarity: sim}

	external, signalBreakdown := s.externalScore(opts)
	if external != nil {
		report.ExternalScore = external
		report.SignalBreakdown = signalBreakdown
		report.FinalScore, report.BlendMethod = Blend(sim.Score, *external, sim.Tier)
	} else {
		report.FinalScore = sim.Score
		report.BlendMethod = "100% similarity"
	}

	report.Band = domain.BandFor(report.FinalScore)
	report.Recommendation = recommend.For(report.Band, sim)

	source := "computed"
	if fromCache {
		source = "cache"
	}
	metrics.ScoringRequestsTotal.WithLabelValues(string(sim.Tier), source).Inc()
	metrics.ScoreDistribution.Observe(float64(report.FinalScore))

	s.logger.Debug("scored record",
		zap.String("record_id", rec.ID),
		zap.Int("final_score", report.FinalScore),
		zap.String("tier", string(sim.Tier)),
		zap.String("band", string(report.Band)),
		zap.Bool("from_cache", fromCache),
	)
	return report
}

// similarity returns the cached analysis or computes and caches it. The
// per-key lock prevents two concurrent requests for the identical record
// from both paying for the index scan.
func (s *Service) similarity(ctx context.Context, rec domain.ClientRecord) (domain.SimilarityAnalysis, bool) {
	if s.cache == nil {
		return s.analyze(rec), false
	}

	unlock := s.locks.Lock(cache.Key(rec))
	defer unlock()

	if sim, ok := s.cache.Get(ctx, rec); ok {
		return sim, true
	}

	sim := s.analyze(rec)
	s.cache.Set(ctx, rec, sim)
	return sim, false
}

func (s *Service) analyze(rec domain.ClientRecord) domain.SimilarityAnalysis {
	start := time.Now()
	neighbors := s.index.Query(rec, s.topK)
	metrics.IndexQueryDuration.Observe(time.Since(start).Seconds())

	closeSet := s.classifier.Close(neighbors)
	tier := s.classifier.Tier(len(closeSet))
	return s.scorer.Score(rec, closeSet, tier, s.index.Stats())
}

// externalScore resolves the "other" score for blending: the caller's
// composite when given, otherwise the bounded aggregation of the supplied
// verification signals. Returns nil when the request carries neither.
func (s *Service) externalScore(opts Options) (*int, *domain.ScoreBreakdown) {
	if opts.ExternalScore != nil {
		v := domain.ClampScore(float64(*opts.ExternalScore))
		return &v, nil
	}
	if len(opts.Signals) == 0 {
		return nil, nil
	}

	caps := map[domain.Category]float64{
		domain.CategoryLocation:     s.signalCap,
		domain.CategoryVehicle:      s.signalCap,
		domain.CategoryEmployer:     s.signalCap,
		domain.CategoryIntelligence: s.signalCap,
	}
	agg := aggregate.New(domain.ScoreBase, caps)
	for _, sig := range opts.Signals {
		agg.Apply(sig.Category, sig.Delta, sig.Reason)
	}

	breakdown := agg.Breakdown()
	return &breakdown.Final, &breakdown
}
