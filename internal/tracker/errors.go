package tracker

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("chore not found")
	ErrInvalidDate = errors.New("invalid date format")
)

// Translation keys carried by ValidationError.
const (
	KeyEntityNotFound    = "entity_not_found"
	KeyInvalidDateFormat = "invalid_date_format"
	KeyInvalidChore      = "invalid_chore"
)

// ValidationError is returned for requests that name an unknown chore or
// carry a malformed value. Key identifies the problem for clients that
// localise messages.
type ValidationError struct {
	Key string
	ID  string
	Err error
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func notFound(id string) *ValidationError {
	return &ValidationError{
		Key: KeyEntityNotFound,
		ID:  id,
		Err: ErrNotFound,
		msg: fmt.Sprintf("chore %s not found", id),
	}
}

func invalidDate(id string, value any) *ValidationError {
	return &ValidationError{
		Key: KeyInvalidDateFormat,
		ID:  id,
		Err: ErrInvalidDate,
		msg: fmt.Sprintf("invalid date format for chore %s: %v", id, value),
	}
}

func invalidChore(err error) *ValidationError {
	return &ValidationError{
		Key: KeyInvalidChore,
		Err: err,
		msg: err.Error(),
	}
}
