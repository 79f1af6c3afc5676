package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
	"github.com/oksasatya/bath-journal/pkg/events"
	"github.com/oksasatya/bath-journal/pkg/metrics"
)

// SearchIndex is the write side of the notes search index.
type SearchIndex interface {
	Index(ctx context.Context, b entity.Bath) error
	Remove(ctx context.Context, id int64) error
}

// Indexer applies bath lifecycle events to the search index.
type Indexer struct {
	Index  SearchIndex
	Logger *logrus.Logger
}

func NewIndexer(index SearchIndex, logger *logrus.Logger) *Indexer {
	return &Indexer{Index: index, Logger: logger}
}

// ErrMalformedEvent marks events that can never be applied; consumers
// should drop them instead of requeueing.
var ErrMalformedEvent = errors.New("malformed bath event")

func (i *Indexer) Handle(ctx context.Context, ev events.BathEvent) error {
	var err error
	switch ev.Type {
	case events.BathCreated, events.BathUpdated:
		if ev.Bath == nil {
			return fmt.Errorf("%w: %s without bath", ErrMalformedEvent, ev.Type)
		}
		err = i.Index.Index(ctx, *ev.Bath)
	case events.BathDeleted:
		err = i.Index.Remove(ctx, ev.BathID)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, ev.Type)
	}
	metrics.EventsIndexed.WithLabelValues(ev.Type, metrics.Outcome(err)).Inc()
	if err != nil && i.Logger != nil {
		i.Logger.WithError(err).WithFields(logrus.Fields{"bath_id": ev.BathID, "event": ev.Type}).Warn("index bath event failed")
	}
	return err
}
