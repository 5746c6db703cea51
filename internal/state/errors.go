// Package state holds the per-user entity containers. Each container owns the
// in-memory list of one entity for one user and mirrors every mutation to the
// store: input is validated before any store call, and the local list changes
// only after the store call succeeds.
package state

import (
	"errors"
	"fmt"
)

var (
	// ErrNothingToDo marks a valid request that had no effect.
	ErrNothingToDo = errors.New("nothing to do")
	// ErrAlreadyTerminal is returned when a completed or failed mission is asked to change status.
	ErrAlreadyTerminal = errors.New("mission already finished")
	// ErrNotLoaded is returned when a container is used before Load.
	ErrNotLoaded = errors.New("state not loaded")
)

// ValidationError is returned before any store call when input is rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
