package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
)

func ptr[T any](v T) *T { return &v }

// SeedBaths returns the sample entries inserted into an empty journal.
func SeedBaths(now time.Time) []entity.NewBath {
	return []entity.NewBath{
		{
			Date:               ptr(now),
			DurationMinutes:    30,
			TemperatureCelsius: ptr(40),
			Rating:             5,
			Notes:              ptr("Perfect relaxation after a long day."),
		},
		{
			Date:               ptr(now.Add(-24 * time.Hour)),
			DurationMinutes:    45,
			TemperatureCelsius: ptr(38),
			Rating:             4,
			Notes:              ptr("Read a book, very calming."),
		},
	}
}

// SeedIfEmpty inserts the sample baths when the store holds none and
// returns how many were inserted.
func (s *Service) SeedIfEmpty(ctx context.Context) (int, error) {
	n, err := s.Repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	inserted := 0
	for _, nb := range SeedBaths(s.Now()) {
		b, err := s.Create(ctx, nb)
		if err != nil {
			return inserted, err
		}
		inserted++
		s.log().WithFields(logrus.Fields{"bath_id": b.ID}).Debug("seeded bath")
	}
	return inserted, nil
}
