package gallery

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"tableflip.dev/catime/pkg/catalog"
)

// DetailFetcher retrieves the detail document of one month group.
type DetailFetcher interface {
	Details(ctx context.Context, group string) ([]catalog.Detail, error)
}

// DetailCache memoizes detail documents per month group. Failed fetches are
// cached as empty groups so a month that cannot be loaded is not requested
// again. Entries are never evicted.
type DetailCache struct {
	fetcher DetailFetcher
	log     *zap.Logger

	mu     sync.RWMutex
	groups map[string][]catalog.Detail

	inflight singleflight.Group
}

// NewDetailCache creates a cache backed by fetcher.
func NewDetailCache(fetcher DetailFetcher, log *zap.Logger) *DetailCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &DetailCache{
		fetcher: fetcher,
		log:     log,
		groups:  make(map[string][]catalog.Detail),
	}
}

// Get returns the detail of item, or an empty Detail when the month could not
// be fetched or does not mention the cat. It never fails.
func (c *DetailCache) Get(ctx context.Context, item catalog.Item) catalog.Detail {
	return catalog.FindDetail(c.group(ctx, item.Group()), item.Number)
}

// Cached reports if the group of item has been resolved, successfully or not.
func (c *DetailCache) Cached(item catalog.Item) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.groups[item.Group()]
	return ok
}

func (c *DetailCache) group(ctx context.Context, group string) []catalog.Detail {
	c.mu.RLock()
	details, ok := c.groups[group]
	c.mu.RUnlock()
	if ok {
		return details
	}

	v, _, _ := c.inflight.Do(group, func() (interface{}, error) {
		c.mu.RLock()
		details, ok := c.groups[group]
		c.mu.RUnlock()
		if ok {
			return details, nil
		}

		details = c.fetch(ctx, group)

		c.mu.Lock()
		c.groups[group] = details
		c.mu.Unlock()
		return details, nil
	})
	details, _ = v.([]catalog.Detail)
	return details
}

func (c *DetailCache) fetch(ctx context.Context, group string) []catalog.Detail {
	if c.fetcher == nil {
		return []catalog.Detail{}
	}
	details, err := c.fetcher.Details(ctx, group)
	if err != nil {
		c.log.Debug("detail fetch failed; caching empty group",
			zap.String("group", group), zap.Error(err))
		return []catalog.Detail{}
	}
	if details == nil {
		details = []catalog.Detail{}
	}
	return details
}
