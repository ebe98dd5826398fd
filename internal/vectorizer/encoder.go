package vectorizer

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// EncodeRange bounds the numeric range of text pseudo-embeddings: every
// encoder maps free text into [0, EncodeRange).
const EncodeRange = 1000

// TextEncoder maps a free-text identifier (brand, model) into a bounded
// numeric pseudo-feature. Implementations must be deterministic for a given
// input; hash collisions are accepted noise.
type TextEncoder interface {
	Encode(text string) float64
}

// HashEncoder is the default encoder: a stable hash of the canonicalized
// text reduced into [0, EncodeRange). Cheap, deterministic across processes,
// and stable within a schema version.
type HashEncoder struct{}

// Encode hashes the text into the bounded range.
func (HashEncoder) Encode(text string) float64 {
	canon := strings.ToLower(strings.TrimSpace(text))
	if canon == "" {
		return 0
	}
	return float64(xxhash.Sum64String(canon) % EncodeRange)
}
