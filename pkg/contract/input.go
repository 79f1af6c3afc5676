package contract

import (
	"bytes"
	"encoding/json"
	"reflect"
	"time"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
	"github.com/oksasatya/bath-journal/pkg/validation"
)

// JSON names of the insertable Bath fields, in schema order. The first
// offending field is chosen by this order.
var insertableFields = []string{"date", "durationMinutes", "temperatureCelsius", "rating", "notes"}

// CreateBathInput is the body of POST /api/baths.
type CreateBathInput struct {
	Date               *time.Time `json:"date,omitempty"`
	DurationMinutes    *int       `json:"durationMinutes" validate:"required,bath_duration"`
	TemperatureCelsius *int       `json:"temperatureCelsius" validate:"omitempty,bath_temperature"`
	Rating             *int       `json:"rating" validate:"required,bath_rating"`
	Notes              *string    `json:"notes"`
}

// UpdateBathInput is the body of PUT /api/baths/:id. Every field is
// optional; the nullable ones can be cleared with an explicit null.
type UpdateBathInput struct {
	Date               *time.Time       `json:"date,omitempty"`
	DurationMinutes    *int             `json:"durationMinutes,omitempty" validate:"omitempty,bath_duration"`
	TemperatureCelsius Nullable[int]    `json:"temperatureCelsius,omitzero" validate:"-"`
	Rating             *int             `json:"rating,omitempty" validate:"omitempty,bath_rating"`
	Notes              Nullable[string] `json:"notes,omitzero" validate:"-"`
}

// ToNewBath converts a validated create input to the entity shape.
func (in CreateBathInput) ToNewBath() entity.NewBath {
	nb := entity.NewBath{
		Date:               in.Date,
		TemperatureCelsius: in.TemperatureCelsius,
		Notes:              in.Notes,
	}
	if in.DurationMinutes != nil {
		nb.DurationMinutes = *in.DurationMinutes
	}
	if in.Rating != nil {
		nb.Rating = *in.Rating
	}
	return nb
}

// ToPatch converts a validated update input to the entity shape.
func (in UpdateBathInput) ToPatch() entity.BathPatch {
	return entity.BathPatch{
		Date:               in.Date,
		DurationMinutes:    in.DurationMinutes,
		TemperatureCelsius: in.TemperatureCelsius.Value,
		TemperatureSet:     in.TemperatureCelsius.Set,
		Rating:             in.Rating,
		Notes:              in.Notes.Value,
		NotesSet:           in.Notes.Set,
	}
}

// ValidateCreate checks a create input already held in memory.
func ValidateCreate(in CreateBathInput) error {
	return firstError(nil, validation.Struct(in))
}

// ValidateUpdate checks an update input already held in memory.
func ValidateUpdate(in UpdateBathInput) error {
	errs := map[string]string{}
	checkNullable(in.TemperatureCelsius, "temperatureCelsius", "bath_temperature", errs)
	return firstError(errs, validation.Struct(in))
}

// checkNullable runs tag on a present, non-null value; the struct
// validator skips Nullable fields.
func checkNullable[T any](n Nullable[T], name, tag string, errs map[string]string) {
	if n.Value == nil {
		return
	}
	if _, seen := errs[name]; seen {
		return
	}
	if fe, ok := validation.Var(name, *n.Value, tag); ok {
		errs[name] = fe.Message
	}
}

// DecodeCreateBath parses and validates a create body.
func DecodeCreateBath(body []byte) (CreateBathInput, error) {
	var in CreateBathInput
	raw, err := decodeObject(body)
	if err != nil {
		return in, err
	}
	errs := map[string]string{}
	in.Date = decodeField[time.Time](raw, "date", false, errs)
	in.DurationMinutes = decodeField[int](raw, "durationMinutes", false, errs)
	in.TemperatureCelsius = decodeField[int](raw, "temperatureCelsius", true, errs)
	in.Rating = decodeField[int](raw, "rating", false, errs)
	in.Notes = decodeField[string](raw, "notes", true, errs)
	return in, firstError(errs, validation.Struct(in))
}

// DecodeUpdateBath parses and validates an update body.
func DecodeUpdateBath(body []byte) (UpdateBathInput, error) {
	var in UpdateBathInput
	raw, err := decodeObject(body)
	if err != nil {
		return in, err
	}
	errs := map[string]string{}
	in.Date = decodeField[time.Time](raw, "date", false, errs)
	in.DurationMinutes = decodeField[int](raw, "durationMinutes", false, errs)
	if _, ok := raw["temperatureCelsius"]; ok {
		in.TemperatureCelsius = Nullable[int]{Set: true, Value: decodeField[int](raw, "temperatureCelsius", true, errs)}
		checkNullable(in.TemperatureCelsius, "temperatureCelsius", "bath_temperature", errs)
	}
	in.Rating = decodeField[int](raw, "rating", false, errs)
	if _, ok := raw["notes"]; ok {
		in.Notes = Nullable[string]{Set: true, Value: decodeField[string](raw, "notes", true, errs)}
	}
	return in, firstError(errs, validation.Struct(in))
}

func decodeObject(body []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, &ValidationError{Message: "invalid JSON payload"}
	}
	return raw, nil
}

// decodeField reads one field of raw into a *T. Absent and null fields
// yield nil; null on a non-nullable field and type mismatches are recorded
// in errs.
func decodeField[T any](raw map[string]json.RawMessage, name string, nullable bool, errs map[string]string) *T {
	msg, ok := raw[name]
	if !ok {
		return nil
	}
	if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		if !nullable {
			errs[name] = name + " must not be null"
		}
		return nil
	}
	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		errs[name] = name + " must be " + validation.DescribeType(reflect.TypeOf(v))
		return nil
	}
	return &v
}

// firstError picks the first offending field in schema order, preferring
// decode errors over constraint errors on the same field.
func firstError(decodeErrs map[string]string, verr error) error {
	byField := map[string]string{}
	for _, fe := range validation.Errors(verr) {
		if _, seen := byField[fe.Field]; !seen {
			byField[fe.Field] = fe.Message
		}
	}
	for k, v := range decodeErrs {
		byField[k] = v
	}
	for _, f := range insertableFields {
		if msg, ok := byField[f]; ok {
			return &ValidationError{Field: f, Message: msg}
		}
	}
	if verr != nil {
		return verr
	}
	return nil
}
