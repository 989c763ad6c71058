// Package booking implements the reservation admission and lifecycle engine:
// it decides whether a requested stay can be admitted against a property's
// calendar, advances bookings through their lifecycle under role gates, and
// computes prices and refunds.  All shared-state mutation happens through the
// Store interface inside one unit of work per operation.
package booking

import (
    "errors"
    "fmt"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
)

// ErrNotFound is returned when a booking or property does not exist (or is
// soft-deleted).  Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller is neither the guest nor the host
// of the booking the action targets, or otherwise lacks the role the action
// requires.  Surfaced without further detail; handlers map it to 403.
var ErrForbidden = errors.New("not permitted")

// ErrConflict is returned when any requested day is already taken, either by
// an active booking or a host blackout.  Losing this race is an expected,
// user-facing outcome (HTTP 409), not a server fault, and must not be logged
// as one.
var ErrConflict = errors.New("dates unavailable")

// ValidationError reports malformed input: bad dates, zero guests, counts
// over the property limit.  Surfaced verbatim to the caller, never retried.
type ValidationError struct {
    Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// validationf builds a ValidationError from a format string.
func validationf(format string, args ...interface{}) error {
    return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError reports an action that is not legal from the
// booking's current status.  The current status is carried so the caller can
// refresh its view.
type InvalidTransitionError struct {
    Action Action
    Status model.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
    return fmt.Sprintf("cannot %s a booking in status %s", e.Action, e.Status)
}
