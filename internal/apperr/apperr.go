// Package apperr defines the error kinds the HTTP boundary maps onto status
// codes. Check with errors.Is against the exported sentinels.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrConcurrency = errors.New("concurrent update detected")
)

// Error carries a caller-facing message and unwraps to one of the sentinels.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

func Validation(format string, args ...any) error {
	return &Error{kind: ErrValidation, msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return &Error{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &Error{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

func Concurrency(format string, args ...any) error {
	return &Error{kind: ErrConcurrency, msg: fmt.Sprintf(format, args...)}
}
