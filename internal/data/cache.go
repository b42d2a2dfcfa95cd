package data

import (
	"context"
	"sync"
	"time"

	"discount-leverage/internal/forecast"
	"discount-leverage/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Run is a stored simulation, kept so its ledger can be fetched after the fact.
type Run struct {
	ID        string
	CreatedAt time.Time
	Params    model.Params
	Result    model.Result
	Ledger    []forecast.LedgerRow
}

type cacheEntry struct {
	run       Run
	expiresAt time.Time
}

// ResultCache keeps recent runs in memory for a fixed TTL.
// The simulation itself is stateless; only the API layer uses this.
type ResultCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		store: make(map[string]*cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Put stores run under a fresh ID and returns the stored copy.
func (c *ResultCache) Put(run Run) Run {
	now := c.now()
	run.ID = uuid.NewString()
	run.CreatedAt = now

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[run.ID] = &cacheEntry{run: run, expiresAt: now.Add(c.ttl)}
	return run
}

// Get returns a run if it exists and has not expired.
func (c *ResultCache) Get(id string) (Run, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.store[id]
	if !ok || c.now().After(entry.expiresAt) {
		return Run{}, false
	}
	return entry.run, true
}

func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Cleanup removes expired entries every interval until ctx is done.
func (c *ResultCache) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := c.purgeExpired(); n > 0 {
				log.Debug().Int("removed", n).Int("remaining", c.Len()).Msg("purged expired runs")
			}
		}
	}
}

func (c *ResultCache) purgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for id, entry := range c.store {
		if now.After(entry.expiresAt) {
			delete(c.store, id)
			removed++
		}
	}
	return removed
}
