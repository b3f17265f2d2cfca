// Package cache memoizes generated schema documents per content version.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/mfenderov/geo-schema/internal/schema"
)

// DefaultTTL is how long a generated document stays cached.
const DefaultTTL = time.Hour

// keyPrefix scopes cache keys to schema documents.
const keyPrefix = "pempo_schema"

// Store is a key/value store with per-entry expiry.
type Store interface {
	Get(key string) (*schema.Document, bool)
	Set(key string, doc *schema.Document, ttl time.Duration)
}

// Key combines a content ID with its modification time, so an edit to the
// content produces a new key and older entries are never read again.
func Key(contentID string, modifiedAt time.Time) string {
	return fmt.Sprintf("%s_%s_%d", keyPrefix, contentID, modifiedAt.Unix())
}

// SchemaCache applies the store-on-success policy on top of a Store.
type SchemaCache struct {
	store Store
	ttl   time.Duration
}

// NewSchemaCache creates a schema cache backed by store. A non-positive ttl
// uses DefaultTTL.
func NewSchemaCache(store Store, ttl time.Duration) *SchemaCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SchemaCache{store: store, ttl: ttl}
}

// GetOrCompute returns the cached document for this content version, or runs
// compute and caches its result. Empty results are returned but not stored.
func (c *SchemaCache) GetOrCompute(contentID string, modifiedAt time.Time, compute func() (*schema.Document, bool)) (*schema.Document, bool) {
	key := Key(contentID, modifiedAt)
	if doc, ok := c.store.Get(key); ok {
		return doc, true
	}

	doc, ok := compute()
	if !ok || doc == nil {
		return nil, false
	}
	c.store.Set(key, doc, c.ttl)
	return doc, true
}

type entry struct {
	doc       *schema.Document
	expiresAt time.Time
}

// Memory is an in-process Store. Expired entries are dropped lazily on read.
// Concurrent writers to one key are not coordinated; the last write stands.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the live entry for key.
func (m *Memory) Get(key string) (*schema.Document, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.doc, true
}

// Set stores doc under key for ttl.
func (m *Memory) Set(key string, doc *schema.Document, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{doc: doc, expiresAt: m.now().Add(ttl)}
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Purge drops every expired entry and returns how many were removed.
func (m *Memory) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for k, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, k)
			removed++
		}
	}
	return removed
}
