package usecase

import (
	"errors"
	"fmt"

	"lodgr/pkg/utils"

	"github.com/google/uuid"
)

// Errors returned by services. Handlers map them to HTTP status codes with
// errors.Is; everything else is an internal error.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyInitiated  = errors.New("payment already initiated for this booking")
	ErrGateway           = errors.New("payment gateway error")
	ErrValidation        = errors.New("validation failed")
	ErrMissingParameter  = errors.New("missing parameter")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrConflict          = errors.New("conflict")
	ErrInvalidCredential = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
)

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func fieldError(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// parseID parses a path identifier. A malformed id cannot name an existing
// record, so it is reported as not found.
func parseID(kind, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return parsed, nil
}
