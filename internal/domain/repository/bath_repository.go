package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
)

// ErrNotFound is returned by mutating operations when the bath does not exist.
var ErrNotFound = errors.New("bath not found")

// BathRepository defines the persistence operations for the baths table.
// Get reports absence as (nil, nil); Update and Delete return ErrNotFound.
type BathRepository interface {
	List(ctx context.Context) ([]entity.Bath, error)
	Get(ctx context.Context, id int64) (*entity.Bath, error)
	Create(ctx context.Context, in entity.NewBath) (*entity.Bath, error)
	Update(ctx context.Context, id int64, patch entity.BathPatch) (*entity.Bath, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
