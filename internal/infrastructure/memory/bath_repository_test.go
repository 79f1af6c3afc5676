package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
	"github.com/oksasatya/bath-journal/internal/domain/repository"
)

func intPtr(v int) *int { return &v }

func TestBathRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.January, 5, 19, 0, 0, 0, time.UTC)
	r := NewBathRepository().WithClock(func() time.Time { return now })

	created, err := r.Create(ctx, entity.NewBath{DurationMinutes: 30, Rating: 5, TemperatureCelsius: intPtr(40)})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.True(t, created.Date.Equal(now))

	got, err := r.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, *created, *got)

	updated, err := r.Update(ctx, created.ID, entity.BathPatch{Rating: intPtr(3)})
	require.NoError(t, err)
	require.Equal(t, 3, updated.Rating)
	require.Equal(t, 30, updated.DurationMinutes)

	require.NoError(t, r.Delete(ctx, created.ID))
	got, err = r.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	require.ErrorIs(t, r.Delete(ctx, created.ID), repository.ErrNotFound)
	_, err = r.Update(ctx, created.ID, entity.BathPatch{Rating: intPtr(1)})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBathRepositoryIDsNotReused(t *testing.T) {
	ctx := context.Background()
	r := NewBathRepository()

	a, err := r.Create(ctx, entity.NewBath{DurationMinutes: 10, Rating: 3})
	require.NoError(t, err)
	require.NoError(t, r.Delete(ctx, a.ID))

	b, err := r.Create(ctx, entity.NewBath{DurationMinutes: 10, Rating: 3})
	require.NoError(t, err)
	require.Greater(t, b.ID, a.ID)
}

func TestBathRepositoryListOrderedByDateDesc(t *testing.T) {
	ctx := context.Background()
	r := NewBathRepository()
	base := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	for _, offset := range []int{2, 0, 5, 1} {
		d := base.Add(time.Duration(offset) * time.Hour)
		_, err := r.Create(ctx, entity.NewBath{Date: &d, DurationMinutes: 15, Rating: 4})
		require.NoError(t, err)
	}

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	for i := 1; i < len(list); i++ {
		require.False(t, list[i].Date.After(list[i-1].Date))
	}

	n, err := r.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}
