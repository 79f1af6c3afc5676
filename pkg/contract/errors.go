package contract

import (
	"errors"
)

// Messages used in error bodies.
const (
	MsgBathNotFound  = "Bath not found"
	MsgInternalError = "Internal Server Error"
)

// ErrContractViolation marks a response whose body does not match the
// contract for its route and status.
var ErrContractViolation = errors.New("response does not match contract")

// ErrorBody is the JSON body of every 4xx/5xx response. Field is only set
// for validation failures.
type ErrorBody struct {
	Message string `json:"message" validate:"required"`
	Field   string `json:"field,omitempty"`
}

// ValidationError reports the first offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Body renders the error as a 400 response body.
func (e *ValidationError) Body() ErrorBody {
	return ErrorBody{Message: e.Message, Field: e.Field}
}
