// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"stayease_backend/internal/feature/listing/domain/entity"
	"stayease_backend/internal/feature/listing/usecase"
	platformdb "stayease_backend/internal/platform/db"
	"stayease_backend/internal/platform/metrics"
)

// CachingListingRepository decorates a ListingRepository with Redis caching
// of listing details and the category list. Reads inside a transaction go
// straight to the inner repository; writes invalidate after commit.
type CachingListingRepository struct {
	inner     usecase.ListingRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ListingRepository = (*CachingListingRepository)(nil)

// NewCachingListingRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "listings".
// A nil rdb makes the decorator a pass-through.
func NewCachingListingRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ListingRepository, namespace string) *CachingListingRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "listings"
	}
	return &CachingListingRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create stores the listing and drops the category list.
func (c *CachingListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if err := c.inner.Create(ctx, listing); err != nil {
		return err
	}
	c.invalidate(ctx, c.categoriesKey())
	return nil
}

// FindByPublicID returns the cached listing or loads and caches it.
// Misses are not cached, and a load that raced with a write is not stored.
func (c *CachingListingRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Listing, error) {
	if c.bypass(ctx) {
		return c.inner.FindByPublicID(ctx, publicID)
	}

	key := c.detailKey(publicID)
	var cached entity.Listing
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	gen, genOK := c.generation(ctx, key)
	out, err := c.inner.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if genOK {
		c.setIfUnchanged(ctx, key, gen, out)
	}
	return out, nil
}

// Update writes through and invalidates the detail and category entries.
func (c *CachingListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	if err := c.inner.Update(ctx, listing); err != nil {
		return err
	}
	c.invalidate(ctx, c.detailKey(listing.PublicID), c.categoriesKey())
	return nil
}

// ReplaceImages writes through and invalidates the detail entry.
func (c *CachingListingRepository) ReplaceImages(ctx context.Context, listing *entity.Listing) error {
	if err := c.inner.ReplaceImages(ctx, listing); err != nil {
		return err
	}
	c.invalidate(ctx, c.detailKey(listing.PublicID))
	return nil
}

// Delete writes through and invalidates the detail and category entries.
func (c *CachingListingRepository) Delete(ctx context.Context, listing *entity.Listing) error {
	if err := c.inner.Delete(ctx, listing); err != nil {
		return err
	}
	c.invalidate(ctx, c.detailKey(listing.PublicID), c.categoriesKey())
	return nil
}

// Search is never cached.
func (c *CachingListingRepository) Search(ctx context.Context, criteria entity.SearchCriteria, page entity.PageRequest) (entity.Page[entity.Listing], error) {
	return c.inner.Search(ctx, criteria, page)
}

// Categories returns the cached category list or loads and caches it.
func (c *CachingListingRepository) Categories(ctx context.Context) ([]string, error) {
	if c.bypass(ctx) {
		return c.inner.Categories(ctx)
	}

	key := c.categoriesKey()
	var cached []string
	if c.get(ctx, key, &cached) {
		return cached, nil
	}

	gen, genOK := c.generation(ctx, key)
	out, err := c.inner.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if genOK {
		c.setIfUnchanged(ctx, key, gen, out)
	}
	return out, nil
}

// IncrementViewCount writes through and invalidates the detail entry.
func (c *CachingListingRepository) IncrementViewCount(ctx context.Context, publicID uuid.UUID) error {
	if err := c.inner.IncrementViewCount(ctx, publicID); err != nil {
		return err
	}
	c.invalidate(ctx, c.detailKey(publicID))
	return nil
}

// AdjustFavoriteCount writes through and invalidates the detail entry.
func (c *CachingListingRepository) AdjustFavoriteCount(ctx context.Context, publicID uuid.UUID, delta int) error {
	if err := c.inner.AdjustFavoriteCount(ctx, publicID, delta); err != nil {
		return err
	}
	c.invalidate(ctx, c.detailKey(publicID))
	return nil
}

// Purge deletes every key in the namespace.
func (c *CachingListingRepository) Purge(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, safe(c.namespace)+":*")
}

func (c *CachingListingRepository) bypass(ctx context.Context) bool {
	if c.rdb == nil || platformdb.InTx(ctx) {
		metrics.ListingCacheRequests.WithLabelValues(metrics.CacheBypass).Inc()
		return true
	}
	return false
}

// get decodes key into dst. A corrupted entry is deleted and reported as a miss.
func (c *CachingListingRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.ListingCacheRequests.WithLabelValues(metrics.CacheMiss).Inc()
		return false
	case err != nil:
		slog.WarnContext(ctx, "listing cache read failed", "key", key, "error", err)
		metrics.ListingCacheRequests.WithLabelValues(metrics.CacheError).Inc()
		return false
	}

	if err := json.Unmarshal(b, dst); err != nil {
		// 破損したキャッシュを削除
		_ = c.rdb.Del(ctx, key).Err()
		metrics.ListingCacheRequests.WithLabelValues(metrics.CacheMiss).Inc()
		return false
	}
	metrics.ListingCacheRequests.WithLabelValues(metrics.CacheHit).Inc()
	return true
}

// setIfUnchangedScript stores ARGV[2] under KEYS[1] for ARGV[3] ms only while
// the generation counter KEYS[2] still reads ARGV[1] (missing reads as "").
const setIfUnchangedScript = `
if (redis.call('GET', KEYS[2]) or '') == ARGV[1] then
  redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
  return 1
end
return 0
`

// generation reads the invalidation counter of key before a load.
// ok is false when Redis cannot answer; the caller then skips the write-back.
func (c *CachingListingRepository) generation(ctx context.Context, key string) (gen string, ok bool) {
	gen, err := c.rdb.Get(ctx, genKey(key)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", true
	case err != nil:
		slog.WarnContext(ctx, "listing cache generation read failed", "key", key, "error", err)
		return "", false
	}
	return gen, true
}

// setIfUnchanged stores v under key unless an invalidation bumped the
// generation since gen was read (best effort).
func (c *CachingListingRepository) setIfUnchanged(ctx context.Context, key, gen string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	stored, err := c.rdb.Eval(ctx, setIfUnchangedScript, []string{key, genKey(key)}, gen, b, c.ttl.Milliseconds()).Int()
	if err != nil {
		slog.WarnContext(ctx, "listing cache write failed", "key", key, "error", err)
		return
	}
	if stored == 0 {
		slog.DebugContext(ctx, "listing cache write skipped after concurrent invalidation", "key", key)
	}
}

// invalidate deletes keys and bumps their generation counters once the
// surrounding transaction (if any) commits.
func (c *CachingListingRepository) invalidate(ctx context.Context, keys ...string) {
	if c.rdb == nil {
		return
	}
	platformdb.AfterCommit(ctx, func(ctx context.Context) {
		_, err := c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, keys...)
			for _, k := range keys {
				p.Incr(ctx, genKey(k))
				// 進行中の読み込みより長く残れば十分
				p.Expire(ctx, genKey(k), 2*c.ttl)
			}
			return nil
		})
		if err != nil {
			slog.WarnContext(ctx, "listing cache invalidation failed", "keys", keys, "error", err)
		}
	})
}

func genKey(key string) string {
	return key + ":gen"
}

func (c *CachingListingRepository) detailKey(publicID uuid.UUID) string {
	return safe(c.namespace) + ":detail:" + publicID.String()
}

func (c *CachingListingRepository) categoriesKey() string {
	return safe(c.namespace) + ":categories"
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingListingRepository) deleteByPattern(ctx context.Context, pattern string) error {
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
