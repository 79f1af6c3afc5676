package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
	"github.com/oksasatya/bath-journal/internal/domain/repository"
)

// BathRepository keeps baths in process memory. It backs unit tests and
// STORAGE_DRIVER=memory local runs; ids are never reused.
type BathRepository struct {
	mu     sync.RWMutex
	store  map[int64]entity.Bath
	nextID int64
	now    func() time.Time
}

func NewBathRepository() *BathRepository {
	return &BathRepository{store: make(map[int64]entity.Bath), now: time.Now}
}

// WithClock overrides the time source used for defaulted dates.
func (m *BathRepository) WithClock(now func() time.Time) *BathRepository {
	m.now = now
	return m
}

func (m *BathRepository) List(_ context.Context) ([]entity.Bath, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]entity.Bath, 0, len(m.store))
	for _, b := range m.store {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (m *BathRepository) Get(_ context.Context, id int64) (*entity.Bath, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.store[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (m *BathRepository) Create(_ context.Context, in entity.NewBath) (*entity.Bath, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b := in.Materialize(m.nextID, m.now().UTC())
	m.store[b.ID] = b
	return &b, nil
}

func (m *BathRepository) Update(_ context.Context, id int64, patch entity.BathPatch) (*entity.Bath, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.store[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&b)
	m.store[id] = b
	return &b, nil
}

func (m *BathRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *BathRepository) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

func (m *BathRepository) Ping(_ context.Context) error { return nil }

var _ repository.BathRepository = (*BathRepository)(nil)
