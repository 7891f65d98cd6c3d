package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/laktaabhutan/LAK-Goods-Transport-Application/data/metrics"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/internal/job/structs"
	"github.com/laktaabhutan/LAK-Goods-Transport-Application/logging/logger"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "transport:job:"

	// tombstone marks a key whose job was just written. It outlives any read
	// that started before the write, so such a read cannot fill the key.
	tombstone    = "-"
	tombstoneTTL = time.Minute
)

// errCacheMiss is returned by a CacheStore for absent keys.
var errCacheMiss = errors.New("cache miss")

// CacheStore is the key/value store behind the job cache.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// SetNX stores value only when key is absent and reports whether it did.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

type redisStore struct {
	rc *redis.Client
}

// NewRedisStore adapts a go-redis client to CacheStore.
func NewRedisStore(rc *redis.Client) CacheStore {
	return &redisStore{rc: rc}
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rc.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errCacheMiss
	}
	return v, err
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rc.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.rc.SetNX(ctx, key, value, ttl).Result()
}

func (s *redisStore) Del(ctx context.Context, keys ...string) error {
	return s.rc.Del(ctx, keys...).Err()
}

// cachedRepository reads jobs through the cache. Every write replaces the
// entry with a tombstone and fills never overwrite an existing key, so a
// snapshot read before a write is never cached after it. Cache failures fall
// back to the wrapped repository.
type cachedRepository struct {
	next      JobRepository
	store     CacheStore
	ttl       time.Duration
	collector *metrics.Collector
	logger    *logger.Logger
}

// NewCachedRepository wraps next with a read-through cache.
func NewCachedRepository(next JobRepository, store CacheStore, ttl time.Duration, collector *metrics.Collector, logger *logger.Logger) JobRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &cachedRepository{next: next, store: store, ttl: ttl, collector: collector, logger: logger}
}

func cacheKey(id string) string {
	return cacheKeyPrefix + id
}

func (c *cachedRepository) Create(ctx context.Context, job *structs.Job) (*structs.Job, error) {
	return c.next.Create(ctx, job)
}

func (c *cachedRepository) Get(ctx context.Context, id string) (*structs.Job, error) {
	if j, ok := c.lookup(ctx, id); ok {
		return j, nil
	}
	j, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, j)
	return j, nil
}

func (c *cachedRepository) GetMany(ctx context.Context, ids []string) ([]*structs.Job, error) {
	byID := make(map[string]*structs.Job, len(ids))
	var missing []string
	for _, id := range ids {
		if _, done := byID[id]; done {
			continue
		}
		if j, ok := c.lookup(ctx, id); ok {
			byID[id] = j
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		found, err := c.next.GetMany(ctx, missing)
		if err != nil {
			return nil, err
		}
		for _, j := range found {
			byID[j.ID] = j
			c.fill(ctx, j)
		}
	}
	return orderByIDs(ids, byID), nil
}

func (c *cachedRepository) UpdateIfVersion(ctx context.Context, job *structs.Job, expected int64) (*structs.Job, error) {
	j, err := c.next.UpdateIfVersion(ctx, job, expected)
	c.invalidate(ctx, job.ID)
	return j, err
}

func (c *cachedRepository) DeleteIfVersion(ctx context.Context, id string, expected int64) error {
	err := c.next.DeleteIfVersion(ctx, id, expected)
	c.invalidate(ctx, id)
	return err
}

func (c *cachedRepository) SearchIDs(ctx context.Context, q structs.Query) ([]string, error) {
	return c.next.SearchIDs(ctx, q)
}

func (c *cachedRepository) lookup(ctx context.Context, id string) (*structs.Job, bool) {
	raw, err := c.store.Get(ctx, cacheKey(id))
	if errors.Is(err, errCacheMiss) || (err == nil && raw == tombstone) {
		c.collector.CacheLookup("miss")
		return nil, false
	}
	if err != nil {
		c.collector.CacheLookup("error")
		c.logger.Warn(ctx, "job cache read failed", "id", id, "error", err)
		return nil, false
	}

	var j structs.Job
	if err := json.Unmarshal([]byte(raw), &j); err != nil || j.ID != id {
		c.collector.CacheLookup("error")
		c.invalidate(ctx, id)
		return nil, false
	}
	c.collector.CacheLookup("hit")
	return &j, true
}

func (c *cachedRepository) fill(ctx context.Context, j *structs.Job) {
	raw, err := json.Marshal(j)
	if err != nil {
		return
	}
	if _, err := c.store.SetNX(ctx, cacheKey(j.ID), string(raw), c.ttl); err != nil {
		c.logger.Warn(ctx, "job cache write failed", "id", j.ID, "error", err)
	}
}

// invalidate replaces the entry with a tombstone that fills cannot overwrite
// until it expires.
func (c *cachedRepository) invalidate(ctx context.Context, id string) {
	ttl := tombstoneTTL
	if c.ttl < ttl {
		ttl = c.ttl
	}
	if err := c.store.Set(ctx, cacheKey(id), tombstone, ttl); err != nil {
		c.logger.Warn(ctx, "job cache invalidation failed", "id", id, "error", err)
		if err := c.store.Del(ctx, cacheKey(id)); err != nil {
			c.logger.Warn(ctx, "job cache delete failed", "id", id, "error", err)
		}
	}
}
