package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryBackend is a bounded in-process backend. LRU eviction bounds memory;
// TTL staleness is the Cache layer's job.
type MemoryBackend struct {
	entries *lru.Cache[string, Entry]
}

// NewMemoryBackend creates a backend holding at most capacity entries.
func NewMemoryBackend(capacity int) (*MemoryBackend, error) {
	entries, err := lru.New[string, Entry](capacity)
	if err != nil {
		return nil, err
	}
	return &MemoryBackend{entries: entries}, nil
}

// Get retrieves an entry.
func (b *MemoryBackend) Get(_ context.Context, key string) (Entry, bool, error) {
	e, ok := b.entries.Get(key)
	return e, ok, nil
}

// Set stores an entry. The TTL is ignored: staleness is checked on read.
func (b *MemoryBackend) Set(_ context.Context, key string, e Entry, _ time.Duration) error {
	b.entries.Add(key, e)
	return nil
}

// Delete removes an entry.
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.entries.Remove(key)
	return nil
}

// Keys lists all stored keys.
func (b *MemoryBackend) Keys(_ context.Context) ([]string, error) {
	return b.entries.Keys(), nil
}

// Purge drops every entry.
func (b *MemoryBackend) Purge(_ context.Context) error {
	b.entries.Purge()
	return nil
}

// Len returns the number of stored entries.
func (b *MemoryBackend) Len() int {
	return b.entries.Len()
}
