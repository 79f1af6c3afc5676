package entity

import (
	"math"
	"time"
)

// Bounds shared by every layer that validates a bath. The integer columns
// are 32-bit, so nothing outside int32 can be stored.
const (
	MinDurationMinutes    = 1
	MaxDurationMinutes    = math.MaxInt32
	MinTemperatureCelsius = math.MinInt32
	MaxTemperatureCelsius = math.MaxInt32
	MinRating             = 1
	MaxRating             = 5
)

// Bath is a single journal entry, the only aggregate of the domain.
// ID and Date are assigned by the store; nullable columns are pointers.
type Bath struct {
	ID                 int64     `json:"id" validate:"gte=1"`
	Date               time.Time `json:"date" validate:"required"`
	DurationMinutes    int       `json:"durationMinutes" validate:"bath_duration"`
	TemperatureCelsius *int      `json:"temperatureCelsius" validate:"omitempty,bath_temperature"`
	Rating             int       `json:"rating" validate:"bath_rating"`
	Notes              *string   `json:"notes"`
}

// NewBath is the insertable shape: every Bath field except ID.
// A nil Date means "now" at insert time.
type NewBath struct {
	Date               *time.Time
	DurationMinutes    int
	TemperatureCelsius *int
	Rating             int
	Notes              *string
}

// BathPatch carries a partial update. Nil pointers are left untouched;
// the Set flags let nullable columns be cleared explicitly.
type BathPatch struct {
	Date               *time.Time
	DurationMinutes    *int
	TemperatureCelsius *int
	TemperatureSet     bool
	Rating             *int
	Notes              *string
	NotesSet           bool
}

// IsEmpty reports whether the patch changes nothing.
func (p BathPatch) IsEmpty() bool {
	return p.Date == nil && p.DurationMinutes == nil && p.Rating == nil &&
		!p.TemperatureSet && !p.NotesSet
}

// Apply merges the patch onto b in place.
func (p BathPatch) Apply(b *Bath) {
	if p.Date != nil {
		b.Date = *p.Date
	}
	if p.DurationMinutes != nil {
		b.DurationMinutes = *p.DurationMinutes
	}
	if p.TemperatureSet {
		b.TemperatureCelsius = p.TemperatureCelsius
	}
	if p.Rating != nil {
		b.Rating = *p.Rating
	}
	if p.NotesSet {
		b.Notes = p.Notes
	}
}

// Materialize builds the Bath that would be stored for n, using now when
// no date was supplied.
func (n NewBath) Materialize(id int64, now time.Time) Bath {
	date := now
	if n.Date != nil {
		date = *n.Date
	}
	return Bath{
		ID:                 id,
		Date:               date,
		DurationMinutes:    n.DurationMinutes,
		TemperatureCelsius: n.TemperatureCelsius,
		Rating:             n.Rating,
		Notes:              n.Notes,
	}
}
