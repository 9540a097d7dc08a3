package database

import (
	"errors"
	"fmt"
)

// ErrUnavailable marks a failed read or write against the backing store.
// Callers propagate it unchanged; nothing in the core retries.
var ErrUnavailable = errors.New("store unavailable")

// Unavailable wraps err so that errors.Is(result, ErrUnavailable) holds while
// keeping the driver error in the chain.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
