package provider

import (
	"errors"
	"fmt"
)

// Error is returned for any failure talking to the mail provider:
// transport errors, non-2xx statuses, and malformed payloads. The
// coordinator surfaces these to the user; they are never swallowed.
type Error struct {
	// Op names the provider operation that failed
	// ("create", "list", "fetch", "rename", "forget").
	Op string

	// Status is the HTTP status code, or 0 for transport failures.
	Status int

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider %s failed (status %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("provider %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsProviderError reports whether err (or any error in its chain) is a
// provider Error.
func IsProviderError(err error) bool {
	var perr *Error
	return errors.As(err, &perr)
}
