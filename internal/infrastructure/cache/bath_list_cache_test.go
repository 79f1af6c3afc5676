package cache

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
)

func TestBathListCache_RoundTripAndInvalidate(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	c := NewBathListCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	notes := "calm"
	list := []entity.Bath{{ID: 2, Date: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC), DurationMinutes: 20, Rating: 4, Notes: &notes}}
	stored, err := c.Set(ctx, 0, list)
	require.NoError(t, err)
	require.True(t, stored)

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, int64(2), got[0].ID)
	require.Equal(t, "calm", *got[0].Notes)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBathListCache_EmptyListIsAHit(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	c := NewBathListCache(redis.NewClient(&redis.Options{Addr: m.Addr()}), time.Minute)
	ctx := context.Background()
	_, err = c.Set(ctx, 0, []entity.Bath{})
	require.NoError(t, err)

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, got)
}

func TestBathListCache_TTL(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	c := NewBathListCache(redis.NewClient(&redis.Options{Addr: m.Addr()}), time.Second)
	ctx := context.Background()
	_, err = c.Set(ctx, 0, []entity.Bath{})
	require.NoError(t, err)

	m.FastForward(2 * time.Second)
	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBathListCache_StaleFillIsDropped(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	c := NewBathListCache(redis.NewClient(&redis.Options{Addr: m.Addr()}), time.Minute)
	ctx := context.Background()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	require.Zero(t, gen)

	// a mutation lands between the store read and the cache fill
	require.NoError(t, c.Invalidate(ctx))

	stored, err := c.Set(ctx, gen, []entity.Bath{})
	require.NoError(t, err)
	require.False(t, stored)
	require.False(t, m.Exists(bathListKey))

	gen, err = c.Generation(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), gen)
	stored, err = c.Set(ctx, gen, []entity.Bath{})
	require.NoError(t, err)
	require.True(t, stored)
	require.True(t, m.Exists(bathListKey))
}
