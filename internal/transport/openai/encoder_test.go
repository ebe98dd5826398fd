package openai

import (
	"testing"

	"github.com/Vamap91/scoreinsuranteout25/internal/vectorizer"
)

func TestReduce_Range(t *testing.T) {
	embeddings := [][]float32{
		{1, 0},
		{0, 1},
		{-1, 0},
		{0, -1},
		{0.3, -0.7, 0.2},
	}
	for _, emb := range embeddings {
		v := reduce(emb)
		if v < 0 || v >= vectorizer.EncodeRange {
			t.Errorf("reduce(%v) = %v, want within [0, %d)", emb, v, vectorizer.EncodeRange)
		}
	}
}

func TestReduce_Deterministic(t *testing.T) {
	emb := []float32{0.5, -0.25, 0.1}
	if reduce(emb) != reduce(emb) {
		t.Error("reduce must be deterministic")
	}
}

func TestReduce_NearbyAnglesStayNearby(t *testing.T) {
	a := reduce([]float32{1, 0.10})
	b := reduce([]float32{1, 0.11})
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff > 50 {
		t.Errorf("nearby embeddings reduced %v apart, want close values", diff)
	}
}

func TestReduce_TooShort(t *testing.T) {
	if got := reduce([]float32{1}); got != 0 {
		t.Errorf("reduce on short embedding = %v, want 0", got)
	}
}
