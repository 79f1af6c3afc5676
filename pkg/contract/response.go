package contract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
	"github.com/oksasatya/bath-journal/pkg/validation"
)

// DecodeResponse decodes body according to the shape route declares for
// status. Undeclared statuses and malformed bodies wrap
// ErrContractViolation. The concrete result is *entity.Bath,
// []entity.Bath, *entity.BathStats, *ErrorBody or nil for ShapeNone.
func DecodeResponse(route Route, status int, body []byte) (any, error) {
	shape, ok := route.Expects(status)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unexpected status %d", ErrContractViolation, route.Name, status)
	}
	v, err := decodeShape(shape, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: status %d: %v", ErrContractViolation, route.Name, status, err)
	}
	return v, nil
}

func decodeShape(shape Shape, body []byte) (any, error) {
	switch shape {
	case ShapeNone:
		if len(bytes.TrimSpace(body)) != 0 {
			return nil, fmt.Errorf("expected empty body")
		}
		return nil, nil
	case ShapeBath:
		var b entity.Bath
		if err := strictUnmarshal(body, &b); err != nil {
			return nil, err
		}
		if err := ValidateBath(b); err != nil {
			return nil, err
		}
		return &b, nil
	case ShapeBathList:
		var list []entity.Bath
		if err := strictUnmarshal(body, &list); err != nil {
			return nil, err
		}
		if list == nil {
			return nil, fmt.Errorf("expected a JSON array")
		}
		for i := range list {
			if err := ValidateBath(list[i]); err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
		}
		return list, nil
	case ShapeBathStats:
		var st entity.BathStats
		if err := strictUnmarshal(body, &st); err != nil {
			return nil, err
		}
		if st.TotalBaths < 0 || st.Last30Days > st.TotalBaths {
			return nil, fmt.Errorf("inconsistent stats")
		}
		return &st, nil
	case ShapeValidationError, ShapeNotFound:
		var eb ErrorBody
		if err := json.Unmarshal(body, &eb); err != nil {
			return nil, err
		}
		if err := validation.Struct(eb); err != nil {
			return nil, err
		}
		return &eb, nil
	}
	return nil, fmt.Errorf("unknown response shape %d", shape)
}

// ValidateBath checks a Bath against the entity constraints.
func ValidateBath(b entity.Bath) error {
	if err := validation.Struct(b); err != nil {
		if fe, ok := validation.First(err); ok {
			return &ValidationError{Field: fe.Field, Message: fe.Message}
		}
		return err
	}
	return nil
}

// strictUnmarshal rejects unknown fields so server-side drift shows up.
func strictUnmarshal(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
