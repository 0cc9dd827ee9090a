package catalog

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Source supplies point-in-time catalog snapshots. Fetch is pull-based and
// safe to call repeatedly.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// StaticSource serves a fixed snapshot. Used in tests and as the degraded
// source when no catalog database is available.
type StaticSource Snapshot

func (s StaticSource) Fetch(context.Context) (*Snapshot, error) {
	snap := Snapshot(s)
	return &snap, nil
}

// Cache holds the latest catalog snapshot. It starts empty and is refreshed
// on demand; a failed refresh keeps the previous snapshot intact so search
// keeps working against stale data.
type Cache struct {
	mu     sync.RWMutex
	snap   Snapshot
	source Source
}

// NewCache creates a cache reading from the given source.
func NewCache(source Source) *Cache {
	return &Cache{source: source}
}

// Refresh replaces the snapshot with a fresh fetch from the source.
func (c *Cache) Refresh(ctx context.Context) error {
	snap, err := c.source.Fetch(ctx)
	if err != nil {
		log.Printf("catalog: refresh failed, keeping previous snapshot: %v", err)
		return fmt.Errorf("refreshing catalog: %w", err)
	}

	c.mu.Lock()
	c.snap = *snap
	c.mu.Unlock()
	return nil
}

// Products returns the products of the current snapshot.
func (c *Cache) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Products
}

// Categories returns the category names of the current snapshot.
func (c *Cache) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Categories
}

// Snapshot returns the current snapshot.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}
