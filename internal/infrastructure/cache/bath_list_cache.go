package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
	"github.com/oksasatya/bath-journal/pkg/helpers"
)

const (
	bathListKey       = "baths:list"
	bathListGenKey    = "baths:list:gen"
	maxFillRetryCount = 3
)

// BathListCache stores the full bath list in Redis as JSON. Every
// invalidation bumps a generation counter; a list read under an older
// generation is never written back.
type BathListCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewBathListCache(rdb *redis.Client, ttl time.Duration) *BathListCache {
	return &BathListCache{rdb: rdb, ttl: ttl}
}

func (c *BathListCache) Get(ctx context.Context) ([]entity.Bath, bool, error) {
	var list []entity.Bath
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, bathListKey, &list)
	if err != nil || !ok {
		return nil, false, err
	}
	return list, true, nil
}

// Generation returns the current invalidation counter. Read it before
// loading the list from the store and hand it to Set.
func (c *BathListCache) Generation(ctx context.Context) (int64, error) {
	return readGen(ctx, c.rdb)
}

// Set caches list when no invalidation happened since gen was read. It
// reports whether the list was stored.
func (c *BathListCache) Set(ctx context.Context, gen int64, list []entity.Bath) (bool, error) {
	b, err := json.Marshal(list)
	if err != nil {
		return false, err
	}
	stored := false
	fill := func(tx *redis.Tx) error {
		cur, err := readGen(ctx, tx)
		if err != nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, bathListKey, b, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}
	for i := 0; i < maxFillRetryCount; i++ {
		err = c.rdb.Watch(ctx, fill, bathListGenKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return stored, err
		}
	}
	// the generation kept moving; the next reader fills the cache
	return false, nil
}

// Invalidate bumps the generation and drops the cached list.
func (c *BathListCache) Invalidate(ctx context.Context) error {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, bathListGenKey)
		p.Del(ctx, bathListKey)
		return nil
	})
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGen(ctx context.Context, cmd getter) (int64, error) {
	gen, err := cmd.Get(ctx, bathListGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}
