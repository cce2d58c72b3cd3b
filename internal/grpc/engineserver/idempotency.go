package engineserver

import (
	"sync"
	"time"
)

const maxIdempotencyEntries = 1000

// idempotencyKey scopes a client key to the RPC it was sent with
type idempotencyKey struct {
	Method         string
	IdempotencyKey string
}

type idempotencyEntry struct {
	response  any
	createdAt time.Time
}

// IdempotencyManager replays the first response for a repeated key. Bot
// searches are not deterministic across calls, so a retried BotMove must
// return the move that was already handed out.
type IdempotencyManager struct {
	cache map[idempotencyKey]*idempotencyEntry
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
}

// NewIdempotencyManager creates a manager whose entries expire after ttl
func NewIdempotencyManager(ttl time.Duration) *IdempotencyManager {
	return &IdempotencyManager{
		cache: make(map[idempotencyKey]*idempotencyEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Check returns the cached response for method and key, or nil
func (im *IdempotencyManager) Check(method, key string) any {
	if key == "" {
		return nil
	}

	im.mu.RLock()
	defer im.mu.RUnlock()

	entry, exists := im.cache[idempotencyKey{Method: method, IdempotencyKey: key}]
	if !exists || im.now().Sub(entry.createdAt) > im.ttl {
		return nil
	}
	return entry.response
}

// Store caches resp for method and key. An empty key is ignored.
func (im *IdempotencyManager) Store(method, key string, resp any) {
	if key == "" {
		return
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	im.cache[idempotencyKey{Method: method, IdempotencyKey: key}] = &idempotencyEntry{
		response:  resp,
		createdAt: im.now(),
	}
	if len(im.cache) > maxIdempotencyEntries {
		im.cleanupOldEntriesLocked()
	}
}

// Len returns the number of cached entries, expired ones included
func (im *IdempotencyManager) Len() int {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return len(im.cache)
}

// cleanupOldEntriesLocked drops expired entries. Must be called with mu held.
func (im *IdempotencyManager) cleanupOldEntriesLocked() {
	cutoff := im.now().Add(-im.ttl)
	for key, entry := range im.cache {
		if entry.createdAt.Before(cutoff) {
			delete(im.cache, key)
		}
	}
}
