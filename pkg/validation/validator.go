package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/bath-journal/internal/domain/entity"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// configure applies the shared naming and alias rules to v.
// - Uses JSON tag names in errors.
// - Registers the bath aliases from the entity bounds.
func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterAlias("bath_duration", fmt.Sprintf("gte=%d,lte=%d", entity.MinDurationMinutes, entity.MaxDurationMinutes))
	v.RegisterAlias("bath_temperature", fmt.Sprintf("gte=%d,lte=%d", entity.MinTemperatureCelsius, entity.MaxTemperatureCelsius))
	v.RegisterAlias("bath_rating", fmt.Sprintf("gte=%d,lte=%d", entity.MinRating, entity.MaxRating))
}

// Init configures the global validator used by Gin's binding.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

// Validator returns the process-wide validator used by the contract layer.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		configure(validate)
	})
	return validate
}

// Struct validates s with the contract validator.
func Struct(s any) error {
	return Validator().Struct(s)
}

// FieldError is the first offending field of a failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors lists the field errors carried by err in struct field order.
func Errors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe)
		out = append(out, FieldError{Field: field, Message: field + " " + formatFieldError(fe)})
	}
	return out
}

// First returns the first field error carried by err.
// ok is false when err is not a validation or JSON decoding error.
func First(err error) (FieldError, bool) {
	if errs := Errors(err); len(errs) > 0 {
		return errs[0], true
	}
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		if ute.Field == "" {
			return FieldError{Message: "invalid JSON payload"}, true
		}
		return FieldError{Field: ute.Field, Message: ute.Field + " must be " + DescribeType(ute.Type)}, true
	}
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return FieldError{Message: "invalid JSON payload"}, true
	}
	return FieldError{}, false
}

// Var validates a single value against tag and reports the first failure
// under name.
func Var(name string, value any, tag string) (FieldError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(Validator().Var(value, tag), &verrs) || len(verrs) == 0 {
		return FieldError{}, false
	}
	return FieldError{Field: name, Message: name + " " + formatFieldError(verrs[0])}, true
}

// fieldPath drops the top-level struct name from the namespace, so nested
// fields keep their dotted JSON path.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.ActualTag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "is required"
	case "required_with":
		return "is required when " + param + " is present"
	case "required_without":
		return "is required when " + param + " is not present"

	case "len":
		if param != "" {
			return fmt.Sprintf("must be exactly %s characters long", param)
		}
		return "invalid length"
	case "min":
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"

	case "eq":
		return "must be equal to " + param
	case "ne":
		return "must not be equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be at most " + param
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be at least " + param

	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "number":
		return "must be a valid number"
	case "numeric":
		return "must be numeric"
	case "datetime":
		if param != "" {
			return "must match datetime format: " + param
		}
		return "must be a valid datetime"

	default:
		if param != "" {
			return fmt.Sprintf("failed '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("failed '%s'", tag)
	}
}

// DescribeType names t the way error messages refer to JSON values.
func DescribeType(t reflect.Type) string {
	if t == nil {
		return "of a different type"
	}
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "time" && t.Name() == "Time" {
		return "an RFC 3339 timestamp"
	}
	switch {
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		return "a number"
	case isNumberKind(t.Kind()):
		return "an integer"
	case t.Kind() == reflect.String:
		return "a string"
	case t.Kind() == reflect.Bool:
		return "a boolean"
	}
	return "of type " + t.String()
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
