// Package openai provides the optional learned text encoder: brand/model
// identifiers are embedded via an OpenAI-compatible API and reduced into
// the same bounded numeric range as the default hash pseudo-embedding.
// Substituting it never changes the scoring contract.
package openai

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Vamap91/scoreinsuranteout25/internal/vectorizer"
)

const requestTimeout = 10 * time.Second

// Encoder implements vectorizer.TextEncoder over an embedding API. Results
// are memoized so repeated brands/models stay deterministic within a
// process and cost one API call each. API failures fall back to the hash
// encoder: vectorization must always produce a value.
type Encoder struct {
	client   *openai.Client
	model    openai.EmbeddingModel
	fallback vectorizer.HashEncoder
	logger   *zap.Logger

	mu   sync.Mutex
	memo map[string]float64
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewEncoder creates a learned text encoder.
func NewEncoder(cfg *Config) *Encoder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Encoder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  openai.EmbeddingModel(cfg.Model),
		logger: logger,
		memo:   make(map[string]float64),
	}
}

// Encode implements vectorizer.TextEncoder.
func (e *Encoder) Encode(text string) float64 {
	e.mu.Lock()
	if v, ok := e.memo[text]; ok {
		e.mu.Unlock()
		return v
	}
	e.mu.Unlock()

	v, err := e.embed(text)
	if err != nil {
		e.logger.Warn("text embedding failed, using hash fallback",
			zap.String("text", text), zap.Error(err))
		return e.fallback.Encode(text)
	}

	e.mu.Lock()
	e.memo[text] = v
	e.mu.Unlock()
	return v
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Encoder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (e *Encoder) embed(text string) (float64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:          []string{text},
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
	})
	if err != nil {
		return 0, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return 0, fmt.Errorf("empty embedding response")
	}

	return reduce(resp.Data[0].Embedding), nil
}

// reduce projects a full embedding into [0, EncodeRange) by mapping the
// angle of its first two components onto the range. Nearby embeddings land
// on nearby values, which is exactly the property the hash encoder lacks.
func reduce(embedding []float32) float64 {
	if len(embedding) < 2 {
		return 0
	}
	angle := math.Atan2(float64(embedding[1]), float64(embedding[0]))
	unit := (angle + math.Pi) / (2 * math.Pi) // [0, 1)
	return math.Mod(unit*vectorizer.EncodeRange, vectorizer.EncodeRange)
}
