// Package cache holds the optimistic, in-memory list of records shown to
// callers, newest first.
//
// The cache is a projection: it is rebuilt from the last server snapshot and
// the pending outbox on every cold start and never persisted itself. It
// guarantees that no two entries share an id and that a pending entry and
// the server record it became never coexist.
package cache

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/billsync/internal/client/models"
)

// Cache is the in-memory record list. It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	records []models.Record
}

func New() *Cache {
	return &Cache{}
}

// Prepend inserts r at the front. If a record with the same id is already
// cached it is replaced in place instead.
func (c *Cache) Prepend(r models.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(r.ID); i >= 0 {
		c.records[i] = r
		return
	}
	c.records = slices.Insert(c.records, 0, r)
}

// Replace swaps the entry with id tempID for r, keeping its position. It
// returns false and changes nothing when tempID is not cached. When r is
// already cached elsewhere the temporary entry is dropped rather than
// duplicated.
func (c *Cache) Replace(tempID string, r models.Record) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(tempID)
	if i < 0 {
		return false
	}
	if j := c.indexOf(r.ID); j >= 0 && j != i {
		c.records[j] = r
		c.records = slices.Delete(c.records, i, i+1)
		return true
	}
	c.records[i] = r
	return true
}

// Remove drops the record with id and reports whether it was present.
func (c *Cache) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.records = slices.Delete(c.records, i, i+1)
	return true
}

// Get returns the cached record with id.
func (c *Cache) Get(id string) (models.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexOf(id); i >= 0 {
		return c.records[i], true
	}
	return models.Record{}, false
}

// Snapshot returns a copy of the cached records in display order.
func (c *Cache) Snapshot() []models.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.records)
}

// Len reports how many records are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Rebuild replaces the content with server ∪ pending, ordered newest first
// by CreatedAt. Pending entries whose ClientRef already appears in server
// were committed before the outbox learned about it; they are left out and
// returned, keyed by temp id, so the caller can drain them.
func (c *Cache) Rebuild(server []models.Record, pending []models.OutboxEntry, orgID string) map[string]models.Record {
	byRef := make(map[string]models.Record, len(server))
	seen := make(map[string]struct{}, len(server)+len(pending))
	merged := make([]models.Record, 0, len(server)+len(pending))

	for _, r := range server {
		if _, dup := seen[r.ID]; dup {
			continue
		}
		seen[r.ID] = struct{}{}
		if r.ClientRef != "" {
			byRef[r.ClientRef] = r
		}
		merged = append(merged, r)
	}

	committed := make(map[string]models.Record)
	for _, e := range pending {
		if r, ok := byRef[e.Payload.ClientRef]; ok && e.Payload.ClientRef != "" {
			committed[e.TempID] = r
			continue
		}
		if _, dup := seen[e.TempID]; dup {
			continue
		}
		seen[e.TempID] = struct{}{}
		merged = append(merged, e.Record(orgID))
	}

	slices.SortStableFunc(merged, func(a, b models.Record) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	c.mu.Lock()
	c.records = merged
	c.mu.Unlock()

	return committed
}

func (c *Cache) indexOf(id string) int {
	for i := range c.records {
		if c.records[i].ID == id {
			return i
		}
	}
	return -1
}
