package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/username/tradejournal/backend/src/models"
	"golang.org/x/sync/singleflight"
)

// DefaultStaleAfter is how long a cached month is served without
// triggering a background refresh.
const DefaultStaleAfter = 5 * time.Minute

type monthEntry struct {
	data      *models.MonthData
	fetchedAt time.Time
}

// MonthCache keeps fetched months keyed by MonthKey and keeps paging
// through them cheap:
//
//   - a fresh hit is served as-is; a stale hit (older than staleAfter)
//     is still served immediately but refreshed in the background;
//   - every successful load of a month prefetches both adjacent months
//     (bidirectional, matching the navigation arrows), without blocking
//     the caller and without surfacing prefetch failures;
//   - concurrent fetches for the same key share one round trip;
//   - a response that arrives after the user has navigated away is
//     still written to the cache under its own key, so navigating back
//     is instant.
//
// A MonthCache is constructed explicitly and passed to its consumers;
// there is no package-level instance.
type MonthCache struct {
	fetcher    Fetcher
	staleAfter time.Duration
	log        *slog.Logger
	now        func() time.Time

	group singleflight.Group
	bg    sync.WaitGroup

	mu       sync.Mutex
	entries  map[models.MonthKey]*monthEntry
	inflight map[models.MonthKey]int
	active   models.MonthKey
	lastErr  error
}

func NewMonthCache(fetcher Fetcher, staleAfter time.Duration, log *slog.Logger) *MonthCache {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if log == nil {
		log = slog.Default()
	}
	return &MonthCache{
		fetcher:    fetcher,
		staleAfter: staleAfter,
		log:        log,
		now:        time.Now,
		entries:    make(map[models.MonthKey]*monthEntry),
		inflight:   make(map[models.MonthKey]int),
	}
}

// Seed installs a pre-fetched result (e.g. the server-rendered first
// paint) as already fresh, so the first Load for that key makes no
// network round trip.
func (c *MonthCache) Seed(key models.MonthKey, data *models.MonthData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &monthEntry{data: data, fetchedAt: c.now()}
}

// Load makes key the active month and returns its data. Cached data is
// returned immediately; a miss fetches synchronously. Either way the
// adjacent months are warmed in the background afterwards.
func (c *MonthCache) Load(ctx context.Context, key models.MonthKey) (*models.MonthData, error) {
	c.mu.Lock()
	c.active = key
	c.lastErr = nil
	e := c.entries[key]
	var cached *models.MonthData
	var stale bool
	if e != nil {
		cached = e.data
		stale = c.now().Sub(e.fetchedAt) >= c.staleAfter
	}
	c.mu.Unlock()

	if cached != nil {
		if stale {
			c.fetchBackground(key, "refresh")
		}
		c.prefetchAdjacent(key)
		return cached, nil
	}

	data, err := c.fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	c.prefetchAdjacent(key)
	return data, nil
}

// Current returns the cached data for the active key, if any.
func (c *MonthCache) Current() (*models.MonthData, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.entries[c.active]; e != nil {
		return e.data, true
	}
	return nil, false
}

// Fetching reports whether a round trip for the active key is in
// flight, background refreshes included.
func (c *MonthCache) Fetching() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[c.active] > 0
}

// Err returns the last fetch error for the active key. Navigating to a
// new key clears it; so does a later successful fetch for the key.
func (c *MonthCache) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Wait blocks until all background refreshes and prefetches have
// settled. Used on shutdown and by tests.
func (c *MonthCache) Wait() {
	c.bg.Wait()
}

// fetch runs one de-duplicated round trip for key and records the
// result. Results are always cached under the fetched key, even when
// the user has since navigated elsewhere; writing the same result
// twice is harmless.
func (c *MonthCache) fetch(ctx context.Context, key models.MonthKey) (*models.MonthData, error) {
	c.mu.Lock()
	c.inflight[key]++
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.inflight[key]--
		c.mu.Unlock()
	}()

	v, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		return c.fetcher.FetchMonth(ctx, key)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if key == c.active {
			c.lastErr = err
		}
		return nil, err
	}

	data := v.(*models.MonthData)
	c.entries[key] = &monthEntry{data: data, fetchedAt: c.now()}
	if key == c.active {
		c.lastErr = nil
	}
	return data, nil
}

// fetchBackground runs fetch detached from the caller. Failures are
// logged, never surfaced, and never touch other cache entries.
func (c *MonthCache) fetchBackground(key models.MonthKey, reason string) {
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		if _, err := c.fetch(context.Background(), key); err != nil {
			c.log.Debug("Background month fetch failed", "key", key.String(), "reason", reason, "error", err)
		}
	}()
}

// prefetchAdjacent warms the months either side of key, skipping any
// that are still fresh.
func (c *MonthCache) prefetchAdjacent(key models.MonthKey) {
	for _, adjacent := range []models.MonthKey{key.Prev(), key.Next()} {
		c.mu.Lock()
		e := c.entries[adjacent]
		fresh := e != nil && c.now().Sub(e.fetchedAt) < c.staleAfter
		c.mu.Unlock()
		if fresh {
			continue
		}
		c.fetchBackground(adjacent, "prefetch")
	}
}
