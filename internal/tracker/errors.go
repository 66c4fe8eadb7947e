package tracker

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrLastActiveType = errors.New("cannot archive the last active exercise type")
	ErrTypeArchived   = errors.New("exercise type is archived")
	ErrFutureDate     = errors.New("cannot log repetitions for a future date")
)

// ValidationError reports a request field that breaks an input rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalidField(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
