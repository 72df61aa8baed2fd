package store

import (
	"sync"
	"time"

	"github.com/haldane/riskgate/internal/rules"
	"github.com/haldane/riskgate/internal/types"
)

// DefaultCacheTTL bounds how stale a product's cached rule set may get when
// rules are edited outside this process (second instance, manual SQL).
// In-process edits invalidate immediately.
const DefaultCacheTTL = 30 * time.Second

type cacheEntry struct {
	entries  []rules.RuleSetEntry
	cachedAt time.Time
}

// RuleCache caches each product's active rule set between evaluations.
// Product-wide evaluation is the hot path; reloading and re-parsing every
// rule's logic per request would dominate evaluation cost.
type RuleCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	byProduct map[types.ProductID]cacheEntry
}

// NewRuleCache creates a cache with the given TTL. A non-positive TTL
// disables expiry; entries then live until invalidated.
func NewRuleCache(ttl time.Duration) *RuleCache {
	return &RuleCache{
		ttl:       ttl,
		byProduct: make(map[types.ProductID]cacheEntry),
	}
}

// Get returns the cached rule set for a product, or false on miss or expiry.
// The returned slice is a copy; entries share RuleLogic pointers, which the
// evaluator treats as read-only.
func (c *RuleCache) Get(productID types.ProductID) ([]rules.RuleSetEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.byProduct[productID]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && time.Since(e.cachedAt) > c.ttl {
		return nil, false
	}

	out := make([]rules.RuleSetEntry, len(e.entries))
	copy(out, e.entries)
	return out, true
}

// Put stores a product's rule set. The slice is copied so later caller
// mutations cannot reach the cached data.
func (c *RuleCache) Put(productID types.ProductID, entries []rules.RuleSetEntry) {
	stored := make([]rules.RuleSetEntry, len(entries))
	copy(stored, entries)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.byProduct[productID] = cacheEntry{entries: stored, cachedAt: time.Now()}
}

// Invalidate drops a single product's cached rule set.
func (c *RuleCache) Invalidate(productID types.ProductID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byProduct, productID)
}

// InvalidateAll drops every cached rule set.
func (c *RuleCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byProduct = make(map[types.ProductID]cacheEntry)
}
