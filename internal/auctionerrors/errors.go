package auctionerrors

import (
	"errors"
	"fmt"
)

// Caller-facing errors
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrOutOfRange       = errors.New("argument out of range")
	ErrInvalidState     = errors.New("invalid state")
	ErrNameConflict     = errors.New("name already in use")
	ErrTimeTravel       = errors.New("time is not in the future")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInexistentName   = errors.New("no such name")
)

// Store-level errors
var (
	ErrNotFound            = errors.New("record not found")
	ErrConcurrencyConflict = errors.New("concurrent modification")
	ErrUniquenessConflict  = errors.New("uniqueness conflict")
	ErrTargetDeleted       = errors.New("target deleted")
)

// FromStore maps a store error onto the caller-facing taxonomy.
// Errors already in the taxonomy are returned wrapped but unchanged in kind.
func FromStore(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrTargetDeleted):
		return fmt.Errorf("%w - %s no longer exists: %w", ErrInvalidState, what, err)
	case errors.Is(err, ErrUniquenessConflict):
		return fmt.Errorf("%w - %s: %w", ErrNameConflict, what, err)
	case errors.Is(err, ErrConcurrencyConflict):
		return fmt.Errorf("%w - %s: %w", ErrStoreUnavailable, what, err)
	case IsCallerError(err), errors.Is(err, ErrStoreUnavailable):
		return err
	default:
		return fmt.Errorf("%w - %s: %w", ErrStoreUnavailable, what, err)
	}
}

// IsCallerError reports whether err belongs to the caller-facing taxonomy
func IsCallerError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrNameConflict) ||
		errors.Is(err, ErrTimeTravel) ||
		errors.Is(err, ErrInexistentName)
}
