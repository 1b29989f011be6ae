// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"imagevault_backend/internal/feature/entries/domain/entity"
	"imagevault_backend/internal/feature/entries/usecase"
)

// CachingEntryRepository decorates an EntryRepository with Redis caching
// of the distinct-label queries. It implements the decorator pattern,
// transparently adding caching without modifying the underlying
// repository. Writes invalidate the owner's cached label lists.
type CachingEntryRepository struct {
	inner     usecase.EntryRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.EntryRepository = (*CachingEntryRepository)(nil)

// NewCachingEntryRepository decorates an EntryRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "labels".
func NewCachingEntryRepository(rdb *redis.Client, ttl time.Duration, inner usecase.EntryRepository, namespace string) *CachingEntryRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "labels"
	}
	return &CachingEntryRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// DistinctLabels checks the cache first, then falls back to the database.
func (c *CachingEntryRepository) DistinctLabels(ctx context.Context, username string, axis entity.LabelAxis) ([]string, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.DistinctLabels(ctx, username, axis)
	}

	key := c.labelKey(username, axis)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []string
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.DistinctLabels(ctx, username, axis)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// Create inserts the entry and invalidates the owner's label cache.
func (c *CachingEntryRepository) Create(ctx context.Context, e *entity.Entry) error {
	if err := c.inner.Create(ctx, e); err != nil {
		return err
	}
	c.invalidate(ctx, e.Username)
	return nil
}

// Update writes the entry and invalidates the owner's label cache when
// a row was touched.
func (c *CachingEntryRepository) Update(ctx context.Context, id, ownerID uint, fields map[string]any) (bool, error) {
	ok, err := c.inner.Update(ctx, id, ownerID, fields)
	if err != nil || !ok {
		return ok, err
	}
	c.invalidateAll(ctx)
	return true, nil
}

// Delete removes the entry and invalidates the owner's label cache when
// a row was removed.
func (c *CachingEntryRepository) Delete(ctx context.Context, id, ownerID uint) (bool, error) {
	ok, err := c.inner.Delete(ctx, id, ownerID)
	if err != nil || !ok {
		return ok, err
	}
	c.invalidateAll(ctx)
	return true, nil
}

// Read-through pass-throughs.

func (c *CachingEntryRepository) FindByID(ctx context.Context, id, ownerID uint) (*entity.Entry, error) {
	return c.inner.FindByID(ctx, id, ownerID)
}

func (c *CachingEntryRepository) ListByUsername(ctx context.Context, username string, limit int) ([]entity.Entry, error) {
	return c.inner.ListByUsername(ctx, username, limit)
}

func (c *CachingEntryRepository) Search(ctx context.Context, f usecase.SearchFilter) ([]entity.Entry, error) {
	return c.inner.Search(ctx, f)
}

func (c *CachingEntryRepository) Stats(ctx context.Context, username string) (*entity.UserStats, error) {
	return c.inner.Stats(ctx, username)
}

// labelKey generates the cache key for one user and axis.
func (c *CachingEntryRepository) labelKey(username string, axis entity.LabelAxis) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, safe(username), axis)
}

// invalidate removes one user's cached label lists (both axes).
func (c *CachingEntryRepository) invalidate(ctx context.Context, username string) {
	if c.rdb == nil {
		return
	}
	// Best effort: don't fail the write if cache deletion fails
	_ = c.rdb.Del(ctx,
		c.labelKey(username, entity.AxisCategories),
		c.labelKey(username, entity.AxisTags),
	).Err()
}

// invalidateAll removes every cached label list. Update and Delete are
// keyed by entry ID, not username, so the owner is unknown here.
func (c *CachingEntryRepository) invalidateAll(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.namespace+":*")
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingEntryRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
