package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComputeStats_Empty(t *testing.T) {
	st := ComputeStats(nil, time.Now())
	require.Equal(t, BathStats{}, st)
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC)
	baths := []Bath{
		{ID: 1, Date: now.Add(-time.Hour), DurationMinutes: 30, Rating: 5},
		{ID: 2, Date: now.Add(-24 * time.Hour), DurationMinutes: 45, Rating: 4},
		{ID: 3, Date: now.Add(-40 * 24 * time.Hour), DurationMinutes: 20, Rating: 2},
	}

	st := ComputeStats(baths, now)
	require.Equal(t, 3, st.TotalBaths)
	require.Equal(t, 95, st.TotalMinutes)
	require.Equal(t, 32, st.AvgDurationMinutes)
	require.InDelta(t, 11.0/3.0, st.AvgRating, 1e-9)
	require.Equal(t, 2, st.Last30Days)
}

func TestBathPatch_Apply(t *testing.T) {
	notes := "relaxing"
	temp := 40
	b := Bath{ID: 7, DurationMinutes: 30, Rating: 5, Notes: &notes, TemperatureCelsius: &temp}

	rating := 2
	BathPatch{Rating: &rating}.Apply(&b)
	require.Equal(t, 2, b.Rating)
	require.Equal(t, 30, b.DurationMinutes)
	require.Equal(t, "relaxing", *b.Notes)

	BathPatch{NotesSet: true}.Apply(&b)
	require.Nil(t, b.Notes)
	require.Equal(t, 40, *b.TemperatureCelsius)
}

func TestBathPatch_IsEmpty(t *testing.T) {
	require.True(t, BathPatch{}.IsEmpty())
	require.False(t, BathPatch{TemperatureSet: true}.IsEmpty())
}
