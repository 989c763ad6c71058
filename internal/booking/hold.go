package booking

import (
    "time"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
)

// Hold windows.  An instant-book guest gets a short payment window; a
// request-to-book hold lasts the property's approval window; host approval
// always grants a fresh fixed window to pay.
const (
    instantHold           = 15 * time.Minute
    postApprovalHold      = 48 * time.Hour
    defaultApprovalWindow = 24 // hours, when the property does not set one
)

// HoldPlan is the admission-time outcome of the hold policy: which status a
// new booking starts in and when its hold lapses.
type HoldPlan struct {
    InitialStatus model.BookingStatus
    ExpiresAt     time.Time
}

// PlanHold applies the property's booking-flow flags at `now`.  A property
// is instant-book only when the flag is set and request-to-book is not;
// request-to-book always wins when both are set.
func PlanHold(p *model.Property, now time.Time) HoldPlan {
    if p.InstantBook && !p.RequestToBook {
        return HoldPlan{
            InitialStatus: model.StatusAwaitingPayment,
            ExpiresAt:     now.Add(instantHold),
        }
    }
    hours := p.ApprovalWindowHours
    if hours <= 0 {
        hours = defaultApprovalWindow
    }
    window := instantHold
    if p.RequestToBook {
        window = time.Duration(hours) * time.Hour
    }
    return HoldPlan{
        InitialStatus: model.StatusRequested,
        ExpiresAt:     now.Add(window),
    }
}

// ApprovalHoldDeadline returns the payment deadline granted when a host
// approves a requested booking.  Fixed regardless of the original window.
func ApprovalHoldDeadline(now time.Time) time.Time {
    return now.Add(postApprovalHold)
}
