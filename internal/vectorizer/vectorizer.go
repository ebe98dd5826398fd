// Package vectorizer turns client records into fixed-dimension feature
// vectors. Vectorization is deterministic: it is the basis for cache-key
// correctness and for comparability between query and corpus vectors.
package vectorizer

import (
	"strconv"

	"github.com/Vamap91/scoreinsuranteout25/internal/domain"
)

// SchemaVersion identifies the feature layout. Bump it whenever Dim or the
// feature order changes; vectors across schema versions are not comparable.
const SchemaVersion = 1

// Dim is the feature vector dimension for SchemaVersion 1:
// postal prefix, market value, two year fields, one-hot category (5),
// one-hot fuel (5), brand and model pseudo-embeddings, five claim features.
const Dim = 21

// Vectorizer converts normalized client records into feature vectors.
type Vectorizer struct {
	enc TextEncoder
}

// New creates a vectorizer. A nil encoder falls back to the deterministic
// hash pseudo-embedding.
func New(enc TextEncoder) *Vectorizer {
	if enc == nil {
		enc = HashEncoder{}
	}
	return &Vectorizer{enc: enc}
}

// Vectorize maps a record to its feature vector. Unknown categorical values
// encode as all-zero indicators, never an error. Missing nested fields take
// the neutral defaults applied by ClientRecord.Normalized.
func (v *Vectorizer) Vectorize(rec domain.ClientRecord) domain.FeatureVector {
	rec = rec.Normalized()

	out := make(domain.FeatureVector, 0, Dim)

	prefix, _ := strconv.Atoi(rec.RegionPrefix())
	out = append(out,
		float64(prefix),
		rec.Vehicle.MarketValue,
		float64(rec.Vehicle.ManufactureYear),
		float64(rec.Vehicle.ModelYear),
	)

	out = appendOneHot(out, rec.Vehicle.Category, domain.VehicleCategories)
	out = appendOneHot(out, rec.Vehicle.FuelType, domain.FuelTypes)

	out = append(out,
		v.enc.Encode(rec.Vehicle.Brand),
		v.enc.Encode(rec.Vehicle.Model),
	)

	out = append(out,
		float64(rec.Claims.Count12M),
		float64(rec.Claims.Count24M),
		rec.Claims.TotalAmount12M,
		rec.Claims.AnnualFrequency,
		float64(rec.Claims.DaysSinceLast),
	)

	return out
}

func appendOneHot(vec domain.FeatureVector, value string, values []string) domain.FeatureVector {
	for _, v := range values {
		if v == value {
			vec = append(vec, 1)
		} else {
			vec = append(vec, 0)
		}
	}
	return vec
}
