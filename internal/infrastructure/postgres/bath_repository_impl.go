package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
	"github.com/oksasatya/bath-journal/internal/domain/repository"
)

const bathColumns = `id, date, duration_minutes, temperature_celsius, rating, notes`

type BathRepository struct {
	pool *pgxpool.Pool
}

func NewBathRepository(pool *pgxpool.Pool) *BathRepository {
	return &BathRepository{pool: pool}
}

func scanBath(row pgx.Row) (*entity.Bath, error) {
	b := &entity.Bath{}
	if err := row.Scan(&b.ID, &b.Date, &b.DurationMinutes, &b.TemperatureCelsius, &b.Rating, &b.Notes); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *BathRepository) List(ctx context.Context) ([]entity.Bath, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bathColumns+`
		FROM baths
		ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.Bath, 0)
	for rows.Next() {
		b, err := scanBath(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *BathRepository) Get(ctx context.Context, id int64) (*entity.Bath, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bathColumns+`
		FROM baths
		WHERE id = $1
	`, id)

	b, err := scanBath(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

func (r *BathRepository) Create(ctx context.Context, in entity.NewBath) (*entity.Bath, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO baths (date, duration_minutes, temperature_celsius, rating, notes)
		VALUES (COALESCE($1::timestamptz, now()), $2, $3, $4, $5)
		RETURNING `+bathColumns,
		in.Date, in.DurationMinutes, in.TemperatureCelsius, in.Rating, in.Notes)
	return scanBath(row)
}

// Update only touches the columns present in patch. Nullable columns use an
// explicit flag so they can be cleared.
func (r *BathRepository) Update(ctx context.Context, id int64, patch entity.BathPatch) (*entity.Bath, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE baths
		SET date = COALESCE($2::timestamptz, date),
		    duration_minutes = COALESCE($3::integer, duration_minutes),
		    temperature_celsius = CASE WHEN $4::boolean THEN $5::integer ELSE temperature_celsius END,
		    rating = COALESCE($6::integer, rating),
		    notes = CASE WHEN $7::boolean THEN $8::text ELSE notes END
		WHERE id = $1
		RETURNING `+bathColumns,
		id, patch.Date, patch.DurationMinutes, patch.TemperatureSet, patch.TemperatureCelsius,
		patch.Rating, patch.NotesSet, patch.Notes)

	b, err := scanBath(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *BathRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM baths WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BathRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM baths`).Scan(&n)
	return n, err
}

// Ping checks the pool is reachable, bounded like NewPool's startup check.
func (r *BathRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.pool.Ping(ctx)
}

var _ repository.BathRepository = (*BathRepository)(nil)
