package services

import (
	"context"
	gocache "github.com/patrickmn/go-cache"
	"strconv"
	"time"
)

// CachedApplicationCounts keeps application counts for a short time so paging
// back and forth doesn't repeat the per-job requests.
type CachedApplicationCounts struct {
	counter applicationCounter
	cache   *gocache.Cache
}

func NewCachedApplicationCounts(counter applicationCounter, ttl time.Duration) *CachedApplicationCounts {
	return &CachedApplicationCounts{counter: counter, cache: gocache.New(ttl, 2*ttl)}
}

func (c *CachedApplicationCounts) CountApplications(ctx context.Context, jobID int64) (int, error) {
	key := strconv.FormatInt(jobID, 10)
	if cached, found := c.cache.Get(key); found {
		return cached.(int), nil
	}

	count, err := c.counter.CountApplications(ctx, jobID)
	if err != nil {
		return 0, err
	}

	c.cache.Set(key, count, gocache.DefaultExpiration)
	return count, nil
}
