/*
errors.go - Centralized error types for the discount engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The API layer maps these onto HTTP statuses; it should only ever need
  errors.Is / the helpers at the bottom, never string matching.

ERROR CATEGORIES:
  1. Not-found errors - Operation referenced a missing discount id
  2. Input errors - Payload failed store-boundary validation
  3. Query errors - Malformed read-side parameters (bad date window)

SEE ALSO:
  - validate.go: Produces ErrInvalidInput wrappers
  - store.go: Produces NotFoundError
*/
package discount

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDiscountNotFound is returned when an operation references a
	// discount id that does not exist in the store.
	ErrDiscountNotFound = errors.New("discount not found")

	// ErrInvalidInput is returned when a payload fails validation at the
	// store boundary. The wrapped error carries the field details.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidDateRange is returned when a ledger query window has its
	// end before its start.
	ErrInvalidDateRange = errors.New("invalid date range: end before start")

	// ErrInvalidPage is returned when pagination parameters are not
	// positive integers.
	ErrInvalidPage = errors.New("page and limit must be positive")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError identifies which discount id was missing.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("discount %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrDiscountNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing discount.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrDiscountNotFound)
}

// IsClientError returns true if the error is due to invalid caller input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrInvalidPage)
}
