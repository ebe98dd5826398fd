package cache

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const stripeCount = 64

// KeyMutex serializes the get-compute-set sequence per cache key so two
// concurrent requests for the identical record do not both pay for the
// index scan. Striped: distinct keys may share a stripe, which only costs
// occasional extra serialization, never correctness.
type KeyMutex struct {
	stripes [stripeCount]sync.Mutex
}

// Lock acquires the stripe for key and returns its unlock function.
func (m *KeyMutex) Lock(key string) func() {
	stripe := &m.stripes[xxhash.Sum64String(key)%stripeCount]
	stripe.Lock()
	return stripe.Unlock
}
