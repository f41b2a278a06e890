package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing product, order, delivery, candidature or user.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned by repositories when a versioned write hits a
	// concurrent update. The atomic runner retries it; callers only see it
	// once retries are exhausted.
	ErrConflict = errors.New("transaction conflict")
)

// ValidationError covers missing or malformed input: blank required fields,
// empty carts, non-positive quantities.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: field '%s' %s", e.Field, e.Reason)
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError is raised before any mutation is committed when a
// deduction asks for more than the batch total.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Product == "" {
		return fmt.Sprintf("insufficient stock: requested %d, available %d", e.Requested, e.Available)
	}
	return fmt.Sprintf("insufficient stock for %q: requested %d, available %d", e.Product, e.Requested, e.Available)
}

// AlreadyFinalizedError is returned when a lifecycle transition is fired on an
// entity that already left its initial state. The entity is left untouched.
type AlreadyFinalizedError struct {
	Entity string
	ID     string
	Status string
}

func (e *AlreadyFinalizedError) Error() string {
	return fmt.Sprintf("%s %s already finalized (status %s)", e.Entity, e.ID, e.Status)
}

// PreconditionError covers guarded transitions whose guard did not pass, e.g.
// rejecting a delivery before its grace period elapsed.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

func Precondition(reason string) error {
	return &PreconditionError{Reason: reason}
}

// HTTPStatus maps the taxonomy onto response codes. Unknown errors are 500.
func HTTPStatus(err error) int {
	var (
		validation   *ValidationError
		insufficient *InsufficientStockError
		finalized    *AlreadyFinalizedError
		precondition *PreconditionError
	)
	switch {
	case errors.As(err, &validation):
		return 400
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.As(err, &insufficient), errors.As(err, &finalized):
		return 409
	case errors.As(err, &precondition):
		return 422
	case errors.Is(err, ErrConflict):
		// Retries exhausted; the whole logical operation is safe to replay.
		return 503
	default:
		return 500
	}
}
