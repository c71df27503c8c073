package recurrence

import (
	"errors"
	"fmt"
)

var (
	// errors
	ErrInvalidConfiguration = errors.New("invalid recurrence configuration")
	ErrUnsupportedType      = errors.New("unsupported recurrence type")
)

// Error describes why a Spec could not be turned into a Config.
// Cause returns one of ErrInvalidConfiguration or ErrUnsupportedType.
type Error struct {
	Err    error
	Field  string
	Reason string
}

func invalid(field, format string, args ...interface{}) error {
	return &Error{Err: ErrInvalidConfiguration, Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return e.Reason }
func (e *Error) Cause() error  { return e.Err }
func (e *Error) Unwrap() error { return e.Err }
