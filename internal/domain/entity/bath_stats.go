package entity

import (
	"math"
	"time"
)

// RecentWindow is how far back Last30Days counts when computing stats.
const RecentWindow = 30 * 24 * time.Hour

// BathStats are the dashboard aggregates over the whole journal.
type BathStats struct {
	TotalBaths         int     `json:"totalBaths"`
	TotalMinutes       int     `json:"totalMinutes"`
	AvgDurationMinutes int     `json:"avgDurationMinutes"`
	AvgRating          float64 `json:"avgRating"`
	Last30Days         int     `json:"last30Days"`
}

// ComputeStats aggregates baths relative to now. An empty journal yields
// all zeros.
func ComputeStats(baths []Bath, now time.Time) BathStats {
	st := BathStats{TotalBaths: len(baths)}
	if len(baths) == 0 {
		return st
	}
	cutoff := now.Add(-RecentWindow)
	ratingSum := 0
	for _, b := range baths {
		st.TotalMinutes += b.DurationMinutes
		ratingSum += b.Rating
		if b.Date.After(cutoff) {
			st.Last30Days++
		}
	}
	st.AvgDurationMinutes = int(math.Round(float64(st.TotalMinutes) / float64(len(baths))))
	st.AvgRating = float64(ratingSum) / float64(len(baths))
	return st
}
