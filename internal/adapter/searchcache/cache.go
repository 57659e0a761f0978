package searchcache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const (
	// PrefixEnterpriseSearch scopes cached search results per enterprise.
	PrefixEnterpriseSearch = "search:enterprise:"

	// PrefixGlobalSearch scopes the global job-search result cache.
	PrefixGlobalSearch = "search:jobs:"
)

const scanCount = 256

// Cache invalidates search-result namespaces by prefix. Deletion is
// last-write-wins and self-healing: a stale or redundant invalidation just
// means the next read recomputes.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// InvalidatePrefix deletes every key under prefix via SCAN and pipelined DELs.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) error {
	iter := c.rdb.Scan(ctx, 0, prefix+"*", scanCount).Iterator()

	pipe := c.rdb.Pipeline()
	pending := 0
	for iter.Next(ctx) {
		pipe.Del(ctx, iter.Val())
		pending++
		if pending >= scanCount {
			if _, err := pipe.Exec(ctx); err != nil {
				return err
			}
			pending = 0
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if pending > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
