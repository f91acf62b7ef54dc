package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"food-pick/logger"
	"food-pick/metrics"
	"food-pick/models"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
)

const cachePrefix = "foodpick:menus"

// CachedStore is a read-through redis cache in front of another MenuStore.
//
// Cached entries are keyed by a catalog version. Create and Delete bump the
// version, so stale entries are never read again and simply expire. Redis
// failures are logged and the call falls through to the wrapped store.
// Sample is never cached.
type CachedStore struct {
	next MenuStore
	rdb  *goredis.Client
	ttl  time.Duration
	log  *logger.Logger
}

func NewCachedStore(next MenuStore, rdb *goredis.Client, ttl time.Duration, baseLog *logger.Logger) *CachedStore {
	return &CachedStore{next: next, rdb: rdb, ttl: ttl, log: baseLog.With("repo", "CachedStore")}
}

func (s *CachedStore) FetchAll(ctx context.Context) ([]models.MenuItem, error) {
	var out []models.MenuItem
	err := s.cached(ctx, "all", nil, &out, func() (any, error) {
		items, err := s.next.FetchAll(ctx)
		out = items
		return items, err
	})
	return out, err
}

func (s *CachedStore) Find(ctx context.Context, q Query) ([]models.MenuItem, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	var out []models.MenuItem
	err := s.cached(ctx, "find", q, &out, func() (any, error) {
		items, err := s.next.Find(ctx, q)
		out = items
		return items, err
	})
	return out, err
}

func (s *CachedStore) Get(ctx context.Context, id int64) (*models.MenuItem, error) {
	var out *models.MenuItem
	err := s.cached(ctx, "get", id, &out, func() (any, error) {
		m, err := s.next.Get(ctx, id)
		out = m
		return m, err
	})
	return out, err
}

func (s *CachedStore) Sample(ctx context.Context, n int) ([]models.MenuItem, error) {
	return s.next.Sample(ctx, n)
}

func (s *CachedStore) Create(ctx context.Context, item *models.MenuItem) error {
	if err := s.next.Create(ctx, item); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, id int64) error {
	if err := s.next.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// cached decodes a hit into dst, or calls load and stores its result.
// load must leave its result in dst as well.
func (s *CachedStore) cached(ctx context.Context, op string, arg any, dst any, load func() (any, error)) error {
	version, err := s.version(ctx)
	if err != nil {
		s.log.Warn("cache version lookup failed", "error", err)
		_, err := load()
		return err
	}
	key, err := cacheKey(version, op, arg)
	if err != nil {
		_, err := load()
		return err
	}

	raw, err := s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jerr := json.Unmarshal(raw, dst); jerr == nil {
			metrics.CacheHits.WithLabelValues(op).Inc()
			return nil
		}
		s.log.Warn("discarding unreadable cache entry", "key", key)
	case !errors.Is(err, goredis.Nil):
		s.log.Warn("cache read failed", "key", key, "error", err)
	}
	metrics.CacheMisses.WithLabelValues(op).Inc()

	v, err := load()
	if err != nil {
		return err
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := s.rdb.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}
	return nil
}

func (s *CachedStore) version(ctx context.Context) (int64, error) {
	v, err := s.rdb.Get(ctx, versionKey()).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return v, err
}

func (s *CachedStore) invalidate(ctx context.Context) {
	if err := s.rdb.Incr(ctx, versionKey()).Err(); err != nil {
		s.log.Error("cache invalidation failed", "error", err)
	}
}

func versionKey() string { return cachePrefix + ":version" }

// cacheKey is prefix:v<version>:<op>[:<digest of arg>].
func cacheKey(version int64, op string, arg any) (string, error) {
	key := cachePrefix + ":v" + strconv.FormatInt(version, 10) + ":" + op
	if arg == nil {
		return key, nil
	}
	b, err := json.Marshal(arg)
	if err != nil {
		return "", fmt.Errorf("cache key for %s: %w", op, err)
	}
	sum := sha256.Sum256(b)
	return key + ":" + hex.EncodeToString(sum[:12]), nil
}
