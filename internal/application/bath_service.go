package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
	repo "github.com/oksasatya/bath-journal/internal/domain/repository"
	"github.com/oksasatya/bath-journal/pkg/contract"
	"github.com/oksasatya/bath-journal/pkg/events"
	"github.com/oksasatya/bath-journal/pkg/metrics"
)

var (
	ErrBathNotFound = errors.New("bath not found")
)

// ListCache holds the last full bath list. Mutations invalidate it.
//
// Generation is read before the store so that Set can drop a list that an
// invalidation has overtaken.
type ListCache interface {
	Get(ctx context.Context) ([]entity.Bath, bool, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, gen int64, list []entity.Bath) (bool, error)
	Invalidate(ctx context.Context) error
}

// EventPublisher receives bath lifecycle events after successful mutations.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.BathEvent) error
}

// BathSearcher looks up bath ids by a free-text query over notes.
type BathSearcher interface {
	Search(ctx context.Context, q string, size int) ([]int64, error)
}

// Service orchestrates persistence and its optional side channels. Cache,
// Events and Search may be nil.
type Service struct {
	Repo   repo.BathRepository
	Cache  ListCache
	Events EventPublisher
	Search BathSearcher
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewService(repo repo.BathRepository, cache ListCache, pub EventPublisher, search BathSearcher, logger *logrus.Logger) *Service {
	return &Service{
		Repo:   repo,
		Cache:  cache,
		Events: pub,
		Search: search,
		Logger: logger,
		Now:    time.Now,
	}
}

func (s *Service) log() *logrus.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.StandardLogger()
}

// List returns every bath, most recent first, reading through the cache.
func (s *Service) List(ctx context.Context) ([]entity.Bath, error) {
	fill := false
	var gen int64
	if s.Cache != nil {
		list, ok, err := s.Cache.Get(ctx)
		switch {
		case err != nil:
			metrics.ListCacheLookups.WithLabelValues("error").Inc()
			s.log().WithError(err).Warn("bath list cache read failed")
		case ok:
			metrics.ListCacheLookups.WithLabelValues("hit").Inc()
			return list, nil
		default:
			metrics.ListCacheLookups.WithLabelValues("miss").Inc()
			if gen, err = s.Cache.Generation(ctx); err == nil {
				fill = true
			}
		}
	}

	list, err := s.Repo.List(ctx)
	metrics.BathOperations.WithLabelValues("list", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	if fill {
		stored, err := s.Cache.Set(ctx, gen, list)
		switch {
		case err != nil:
			s.log().WithError(err).Warn("bath list cache write failed")
		case !stored:
			metrics.ListCacheLookups.WithLabelValues("stale").Inc()
		}
	}
	return list, nil
}

// Get returns the bath with id, or nil when it does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Bath, error) {
	b, err := s.Repo.Get(ctx, id)
	metrics.BathOperations.WithLabelValues("get", metrics.Outcome(err)).Inc()
	return b, err
}

func (s *Service) Create(ctx context.Context, in entity.NewBath) (*entity.Bath, error) {
	if err := checkBounds(&in.DurationMinutes, in.TemperatureCelsius, &in.Rating); err != nil {
		return nil, err
	}
	b, err := s.Repo.Create(ctx, in)
	metrics.BathOperations.WithLabelValues("create", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, events.BathCreated, b.ID, b)
	return b, nil
}

// Update applies patch to an existing bath. It returns ErrBathNotFound when
// the bath is absent, without writing anything.
func (s *Service) Update(ctx context.Context, id int64, patch entity.BathPatch) (*entity.Bath, error) {
	if err := checkBounds(patch.DurationMinutes, patch.TemperatureCelsius, patch.Rating); err != nil {
		return nil, err
	}
	b, err := s.Repo.Update(ctx, id, patch)
	metrics.BathOperations.WithLabelValues("update", metrics.Outcome(err)).Inc()
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBathNotFound
		}
		return nil, err
	}
	s.afterMutation(ctx, events.BathUpdated, b.ID, b)
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.Repo.Delete(ctx, id)
	metrics.BathOperations.WithLabelValues("delete", metrics.Outcome(err)).Inc()
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrBathNotFound
		}
		return err
	}
	s.afterMutation(ctx, events.BathDeleted, id, nil)
	return nil
}

// Stats aggregates the whole journal relative to the service clock.
func (s *Service) Stats(ctx context.Context) (entity.BathStats, error) {
	list, err := s.List(ctx)
	if err != nil {
		return entity.BathStats{}, err
	}
	return entity.ComputeStats(list, s.Now()), nil
}

// SearchNotes returns the baths whose notes match q, best match first.
// Without a configured searcher it returns an empty result.
func (s *Service) SearchNotes(ctx context.Context, q string, size int) ([]entity.Bath, error) {
	out := make([]entity.Bath, 0)
	if s.Search == nil {
		return out, nil
	}
	ids, err := s.Search.Search(ctx, q, size)
	metrics.BathOperations.WithLabelValues("search", metrics.Outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		b, err := s.Repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		// the index may lag behind deletions
		if b == nil {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

// afterMutation drops the cached list and publishes the event. Failures
// here are logged and never undo the mutation.
func (s *Service) afterMutation(ctx context.Context, typ string, id int64, b *entity.Bath) {
	if s.Cache != nil {
		if err := s.Cache.Invalidate(ctx); err != nil {
			s.log().WithError(err).WithField("bath_id", id).Warn("bath list cache invalidation failed")
		}
	}
	if s.Events == nil {
		return
	}
	ev := events.NewBathEvent(typ, id, b, s.Now())
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	err := s.Events.Publish(c, ev)
	metrics.EventsPublished.WithLabelValues(typ, metrics.Outcome(err)).Inc()
	if err != nil {
		s.log().WithError(err).WithFields(logrus.Fields{"bath_id": id, "event": typ}).Warn("publish bath event failed")
	}
}

// checkBounds enforces the entity invariants on values about to be stored.
func checkBounds(duration, temperature, rating *int) error {
	if duration != nil && (*duration < entity.MinDurationMinutes || *duration > entity.MaxDurationMinutes) {
		return outOfRange("durationMinutes", entity.MinDurationMinutes, entity.MaxDurationMinutes)
	}
	if temperature != nil && (*temperature < entity.MinTemperatureCelsius || *temperature > entity.MaxTemperatureCelsius) {
		return outOfRange("temperatureCelsius", entity.MinTemperatureCelsius, entity.MaxTemperatureCelsius)
	}
	if rating != nil && (*rating < entity.MinRating || *rating > entity.MaxRating) {
		return outOfRange("rating", entity.MinRating, entity.MaxRating)
	}
	return nil
}

func outOfRange(field string, min, max int) error {
	return &contract.ValidationError{Field: field, Message: fmt.Sprintf("%s must be between %d and %d", field, min, max)}
}
