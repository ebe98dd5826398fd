// Package index holds the vectorized reference corpus and answers top-K
// nearest-neighbor queries against it. The index is immutable after Build
// and safe for unsynchronized concurrent reads.
package index

import (
	"fmt"
	"math"
	"sort"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
	"github.com/Vamap91/scoreinsuranteout25/internal/vectorizer"
)

// Outcome is the metadata carried per corpus row, used by the scorer and
// the insight generation.
type Outcome struct {
	ClaimCount12M  int
	ClaimAmount12M float64
	ClaimType      string
	RegionPrefix   string
	Brand          string
	Model          string
}

// Neighbor is one ranked similarity match.
type Neighbor struct {
	Index      int
	Similarity float64
	Outcome    Outcome
}

// Index is the normalized, vectorized reference corpus.
type Index struct {
	vec      *vectorizer.Vectorizer
	rows     []domain.FeatureVector
	outcomes []Outcome
	mean     []float64
	std      []float64
	stats    Stats
}

// Build vectorizes the corpus, fits per-feature normalization parameters
// once, and stores normalized vectors. The normalization parameters are
// frozen here: queries reuse them and never re-fit, otherwise similarity
// scores would not be comparable across calls.
func Build(records []domain.ClientRecord, vec *vectorizer.Vectorizer) (*Index, error) {
	if vec == nil {
		vec = vectorizer.New(nil)
	}
	if len(records) == 0 {
		return nil, domain.NewIndexBuildError(domain.ErrEmptyCorpus)
	}

	rows := make([]domain.FeatureVector, len(records))
	outcomes := make([]Outcome, len(records))
	for i, rec := range records {
		v := vec.Vectorize(rec)
		if v.Dim() != vectorizer.Dim {
			return nil, domain.NewIndexBuildError(fmt.Errorf(
				"%w: record %d has dimension %d, want %d",
				domain.ErrInconsistentCorpus, i, v.Dim(), vectorizer.Dim,
			))
		}
		rows[i] = v

		norm := rec.Normalized()
		outcomes[i] = Outcome{
			ClaimCount12M:  norm.Claims.Count12M,
			ClaimAmount12M: norm.Claims.TotalAmount12M,
			ClaimType:      norm.Claims.PredominantType,
			RegionPrefix:   norm.RegionPrefix(),
			Brand:          norm.Vehicle.Brand,
			Model:          norm.Vehicle.Model,
		}
	}

	mean, std := fit(rows)
	for i := range rows {
		rows[i] = standardize(rows[i], mean, std)
	}

	return &Index{
		vec:      vec,
		rows:     rows,
		outcomes: outcomes,
		mean:     mean,
		std:      std,
		stats:    computeStats(records),
	}, nil
}

// Size returns the number of corpus records.
func (ix *Index) Size() int { return len(ix.rows) }

// Stats returns the corpus-wide baseline statistics fitted at build time.
func (ix *Index) Stats() Stats { return ix.stats }

// Query vectorizes the record with the frozen normalization parameters and
// returns the top-k neighbors by cosine similarity, sorted descending, ties
// broken by corpus insertion order. k is clamped to the corpus size.
func (ix *Index) Query(rec domain.ClientRecord, k int) []Neighbor {
	if k <= 0 {
		return nil
	}
	if k > len(ix.rows) {
		k = len(ix.rows)
	}

	q := standardize(ix.vec.Vectorize(rec), ix.mean, ix.std)

	neighbors := make([]Neighbor, len(ix.rows))
	for i, row := range ix.rows {
		neighbors[i] = Neighbor{
			Index:      i,
			Similarity: cosine(q, row),
			Outcome:    ix.outcomes[i],
		}
	}

	// Stable sort keeps insertion order among equal similarities.
	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Similarity > neighbors[j].Similarity
	})

	return neighbors[:k]
}

// fit computes per-feature mean and standard deviation over the corpus.
// Zero-variance features get stddev 1 so standardization is a no-op there.
func fit(rows []domain.FeatureVector) (mean, std []float64) {
	dim := len(rows[0])
	mean = make([]float64, dim)
	std = make([]float64, dim)

	for _, row := range rows {
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}

	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			std[j] += d * d
		}
	}
	for j := range std {
		std[j] = math.Sqrt(std[j] / n)
		if std[j] == 0 {
			std[j] = 1
		}
	}
	return mean, std
}

func standardize(v domain.FeatureVector, mean, std []float64) domain.FeatureVector {
	out := make(domain.FeatureVector, len(v))
	for j, x := range v {
		out[j] = (x - mean[j]) / std[j]
	}
	return out
}

// cosine returns the cosine similarity in [-1, 1]. Two zero vectors are
// identical points in standardized space and compare as 1; a single zero
// vector compares as 0. The double-zero case is real: a corpus of identical
// records standardizes every row to the origin.
func cosine(a, b domain.FeatureVector) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 && nb == 0 {
		return 1
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
