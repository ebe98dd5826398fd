package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{}
	cfg.HTTP.Port = 8080
	cfg.Corpus.Path = "data/corpus.jsonl"
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Cache.Driver != "memory" {
		t.Errorf("cache driver = %q, want memory", cfg.Cache.Driver)
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("cache ttl = %d, want 3600", cfg.Cache.TTLSec)
	}
	if cfg.Scoring.TopK != 100 {
		t.Errorf("top_k = %d, want 100", cfg.Scoring.TopK)
	}
	if cfg.Scoring.SimilarityThreshold != 0.8 {
		t.Errorf("similarity threshold = %v, want 0.8", cfg.Scoring.SimilarityThreshold)
	}
	if cfg.Scoring.MediumCloseCount != 10 || cfg.Scoring.HighCloseCount != 30 {
		t.Errorf("close counts = %d/%d, want 10/30", cfg.Scoring.MediumCloseCount, cfg.Scoring.HighCloseCount)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("embedding model = %q, want default", cfg.Embedding.Model)
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"missing corpus", func(c *Config) { c.Corpus.Path = "" }, "corpus.path"},
		{"bad driver", func(c *Config) { c.Cache.Driver = "memcached" }, "cache.driver"},
		{"redis without addrs", func(c *Config) { c.Cache.Driver = "redis" }, "cache.redis.addrs"},
		{"threshold too high", func(c *Config) { c.Scoring.SimilarityThreshold = 1 }, "similarity_threshold"},
		{"inverted close counts", func(c *Config) { c.Scoring.MediumCloseCount = 40 }, "medium_close_count"},
		{"embedding without key", func(c *Config) { c.Embedding.Enabled = true }, "embedding.api_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SCOREAPI_TEST_PORT", "9090")

	in := []byte("port: ${SCOREAPI_TEST_PORT}\ndriver: ${SCOREAPI_TEST_MISSING:-memory}\nempty: ${SCOREAPI_TEST_MISSING}")
	got := string(expandEnvVars(in))

	if !strings.Contains(got, "port: 9090") {
		t.Errorf("expansion missing env value: %q", got)
	}
	if !strings.Contains(got, "driver: memory") {
		t.Errorf("expansion missing default value: %q", got)
	}
	if !strings.Contains(got, "empty: \n") && !strings.HasSuffix(got, "empty: ") {
		t.Errorf("missing var without default should expand empty: %q", got)
	}
}
