package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	ErrArticleNotFound  = errors.New("article not found")
	ErrCitationNotFound = errors.New("citation not found")
	ErrStorageDisabled  = errors.New("object storage is not configured")
)

// ValidationError reports a missing or malformed field of a request body.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of v and converts the first failure into
// a ValidationError named after the JSON path of the field.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	if fe.Tag() == "required" {
		return newValidationError(field, "%s is required", field)
	}
	return newValidationError(field, "%s is invalid", field)
}

// validID reports whether id can name a stored record. Only the canonical
// 36 character form is accepted: uuid.Parse also takes urn:uuid:, braced and
// bare hex forms, which the Postgres uuid column rejects. Anything else cannot
// resolve, so callers answer "not found" without a round trip.
func validID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
