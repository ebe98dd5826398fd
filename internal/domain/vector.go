package domain

// FeatureVector is a fixed-dimension numeric representation of a ClientRecord.
// The dimension is constant for a given vectorizer schema version; identical
// input always produces an identical vector.
type FeatureVector []float64

// Dim returns the vector dimension.
func (v FeatureVector) Dim() int { return len(v) }
