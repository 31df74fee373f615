package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotEligible is returned when the member lacks an active subscription
	// for the requested category.
	ErrNotEligible = errors.New("no active subscription for this booking category")
	// ErrOverlap is returned when the member already holds a reservation
	// overlapping the requested window.
	ErrOverlap = errors.New("an existing reservation overlaps the requested time")
	// ErrNoCourtAvailable is returned when every court is booked for the
	// requested window.
	ErrNoCourtAvailable = errors.New("no court available for the requested time")
	// ErrAlreadyCancelled is returned when cancelling a reservation that is
	// already cancelled.
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")
	// ErrNotCancellable is returned when a member tries to cancel a completed
	// reservation.
	ErrNotCancellable = errors.New("completed reservations cannot be cancelled")
)

// ValidationError aggregates every policy rule a booking request violates.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "reservation request is invalid"
	}
	return fmt.Sprintf("reservation request is invalid: %s", strings.Join(e.Violations, "; "))
}
