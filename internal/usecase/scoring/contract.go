package scoring

import (
	"context"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
	"github.com/Vamap91/scoreinsuranteout25/internal/index"
)

// Searcher is the read side of the similarity index.
type Searcher interface {
	Query(rec domain.ClientRecord, k int) []index.Neighbor
	Stats() index.Stats
	Size() int
}

// ResultCache memoizes similarity analyses per normalized record.
type ResultCache interface {
	Get(ctx context.Context, rec domain.ClientRecord) (domain.SimilarityAnalysis, bool)
	Set(ctx context.Context, rec domain.ClientRecord, a domain.SimilarityAnalysis)
}
