package booking

import (
    "context"
    "time"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
)

// Caller is the resolved identity of whoever invokes a command.  It is
// always passed in explicitly; the engine never reads identity from any
// ambient context.  Role scopes route access upstream, but every gate in
// here compares the caller id against the booking's own guest and host ids.
type Caller struct {
    ID   uint64
    Role string
}

// AdmitRequest is a proposed reservation.  Dates are truncated to calendar
// days before any check; time-of-day never affects occupancy.
type AdmitRequest struct {
    PropertyID uint64
    CheckIn    time.Time
    CheckOut   time.Time
    Adults     int
    Children   int
    Infants    int
}

// activeConflictStatuses is the status set scanned for date conflicts on
// admission.  Expired, rejected, cancelled and completed bookings never
// block dates again.
var activeConflictStatuses = []model.BookingStatus{
    model.StatusAwaitingPayment,
    model.StatusRequested,
    model.StatusConfirmed,
    model.StatusCheckedIn,
}

// Engine runs every booking command inside one unit of work against its
// Store.  It owns all business rules; handlers only translate HTTP to
// engine calls and errors back to status codes.
type Engine struct {
    store Store
    now   func() time.Time
}

// NewEngine builds an Engine over the given store using the real clock.
func NewEngine(store Store) *Engine {
    return &Engine{
        store: store,
        now:   func() time.Time { return time.Now().UTC() },
    }
}

// holdLapsed reports whether the booking is an unpaid/unapproved hold whose
// deadline has passed, making it a candidate for lazy expiry rather than a
// real conflict.
func holdLapsed(b *model.Booking, now time.Time) bool {
    if b.Status != model.StatusAwaitingPayment && b.Status != model.StatusRequested {
        return false
    }
    return b.HoldExpiresAt != nil && !b.HoldExpiresAt.After(now)
}

// Admit decides whether the proposed stay can be reserved and, if so,
// creates the booking and blocks its days.  The whole decision runs under
// the property's admission lock so two racing requests for overlapping
// dates cannot both commit.  Stale holds discovered during the scan are
// expired as a side effect and that correction is committed even when the
// admission itself is rejected with ErrConflict.
func (e *Engine) Admit(ctx context.Context, caller Caller, req AdmitRequest) (*model.Booking, error) {
    checkIn := DateOnly(req.CheckIn)
    checkOut := DateOnly(req.CheckOut)
    now := e.now()

    if !checkIn.Before(checkOut) {
        return nil, validationf("check-out must be after check-in")
    }
    if checkIn.Before(DateOnly(now)) {
        return nil, validationf("check-in date is in the past")
    }
    if req.Adults < 1 {
        return nil, validationf("at least one adult is required")
    }
    if req.Children < 0 || req.Infants < 0 {
        return nil, validationf("guest counts cannot be negative")
    }

    tx, err := e.store.Begin(ctx)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := tx.LockProperty(ctx, req.PropertyID); err != nil {
        return nil, err
    }
    p, err := tx.PropertyByID(ctx, req.PropertyID)
    if err != nil {
        return nil, err
    }
    if p.Status != model.PropertyActive {
        return nil, validationf("property is not bookable")
    }
    if caller.ID == p.HostID {
        return nil, validationf("hosts cannot book their own property")
    }
    if g := req.Adults + req.Children; g > p.MaxGuests {
        return nil, validationf("guest count %d exceeds the property limit of %d", g, p.MaxGuests)
    }

    overlapping, err := tx.OverlappingBookings(ctx, p.ID, checkIn, checkOut, activeConflictStatuses)
    if err != nil {
        return nil, err
    }
    var expired []uint64
    conflicts := 0
    for i := range overlapping {
        if holdLapsed(&overlapping[i], now) {
            expired = append(expired, overlapping[i].ID)
            continue
        }
        conflicts++
    }
    if len(expired) > 0 {
        if err := tx.ExpireBookings(ctx, expired, now); err != nil {
            return nil, err
        }
    }

    // The expiry writes above are valid corrections on their own, so a
    // rejection here still commits them instead of rolling back.
    reject := func() (*model.Booking, error) {
        if len(expired) > 0 {
            if err := tx.Commit(); err != nil {
                return nil, err
            }
            committed = true
        }
        return nil, ErrConflict
    }
    if conflicts > 0 {
        return reject()
    }
    blocked, err := tx.BlockedDays(ctx, p.ID, checkIn, checkOut)
    if err != nil {
        return nil, err
    }
    if len(blocked) > 0 {
        return reject()
    }

    nights := NightsBetween(checkIn, checkOut)
    q := Price(nights, p.NightlyRate, p.CleaningFee)
    plan := PlanHold(p, now)
    deadline := DisplayDeadline(p.CancellationPolicy, checkIn)
    hold := plan.ExpiresAt

    b := &model.Booking{
        PropertyID:           p.ID,
        GuestID:              caller.ID,
        HostID:               p.HostID,
        CheckIn:              checkIn,
        CheckOut:             checkOut,
        Nights:               nights,
        Adults:               req.Adults,
        Children:             req.Children,
        Infants:              req.Infants,
        NightlyRate:          q.NightlyRate,
        Subtotal:             q.Subtotal,
        CleaningFee:          q.CleaningFee,
        ServiceFee:           q.ServiceFee,
        TaxAmount:            q.TaxAmount,
        TotalPrice:           q.TotalPrice,
        PlatformCommission:   q.PlatformCommission,
        HostEarnings:         q.HostEarnings,
        Status:               plan.InitialStatus,
        PaymentStatus:        model.PaymentPending,
        HoldExpiresAt:        &hold,
        CancellationPolicy:   p.CancellationPolicy,
        CancellationDeadline: &deadline,
        CreatedAt:            now,
        UpdatedAt:            now,
    }
    if err := tx.CreateBooking(ctx, b); err != nil {
        return nil, err
    }
    if err := tx.BlockRange(ctx, p.ID, checkIn, checkOut, model.BlockBooking, &b.ID); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return b, nil
}

// Approve moves a requested booking to APPROVED and grants the guest a
// fresh 48 hour payment hold.  Host only.
func (e *Engine) Approve(ctx context.Context, caller Caller, bookingID uint64) (*model.Booking, error) {
    now := e.now()
    return e.mutate(ctx, bookingID, func(ctx context.Context, tx Tx, b *model.Booking) error {
        if caller.ID != b.HostID {
            return ErrForbidden
        }
        next, err := NextStatus(ActionApprove, b.Status)
        if err != nil {
            return err
        }
        deadline := ApprovalHoldDeadline(now)
        b.Status = next
        b.HoldExpiresAt = &deadline
        b.ApprovedAt = &now
        b.UpdatedAt = now
        return tx.UpdateBooking(ctx, b)
    })
}

// Decline rejects a requested or approved booking and releases its days
// back to the calendar.  Host only.
func (e *Engine) Decline(ctx context.Context, caller Caller, bookingID uint64, reason string) (*model.Booking, error) {
    now := e.now()
    return e.mutate(ctx, bookingID, func(ctx context.Context, tx Tx, b *model.Booking) error {
        if caller.ID != b.HostID {
            return ErrForbidden
        }
        next, err := NextStatus(ActionDecline, b.Status)
        if err != nil {
            return err
        }
        b.Status = next
        if reason != "" {
            b.CancelReason = &reason
        }
        b.CancelledBy = model.CancelByHost
        b.CancelledAt = &now
        b.UpdatedAt = now
        if err := tx.UpdateBooking(ctx, b); err != nil {
            return err
        }
        return tx.ReleaseBookingDays(ctx, b.ID)
    })
}

// Cancel cancels a non-terminal booking, releases its days and, when the
// booking was paid, computes the policy refund.  Guest or host.
func (e *Engine) Cancel(ctx context.Context, caller Caller, bookingID uint64, reason string) (*model.Booking, error) {
    now := e.now()
    return e.mutate(ctx, bookingID, func(ctx context.Context, tx Tx, b *model.Booking) error {
        var actor model.CancelActor
        switch caller.ID {
        case b.GuestID:
            actor = model.CancelByGuest
        case b.HostID:
            actor = model.CancelByHost
        default:
            return ErrForbidden
        }
        next, err := NextStatus(ActionCancel, b.Status)
        if err != nil {
            return err
        }
        refund := Refund(b.CancellationPolicy, b.CheckIn, now, b.TotalPrice, b.PaymentStatus)
        b.Status = next
        b.RefundAmount = refund
        if refund > 0 {
            b.PaymentStatus = model.PaymentRefunded
        }
        if reason != "" {
            b.CancelReason = &reason
        }
        b.CancelledBy = actor
        b.CancelledAt = &now
        b.UpdatedAt = now
        if err := tx.UpdateBooking(ctx, b); err != nil {
            return err
        }
        return tx.ReleaseBookingDays(ctx, b.ID)
    })
}

// MarkPaid records a successful payment capture reported by the payment
// processor: the booking confirms, payment status becomes PAID and the
// hold deadline is cleared.  Invoked by the payment callback, not by a
// guest or host.
func (e *Engine) MarkPaid(ctx context.Context, bookingID uint64, paymentRef string) (*model.Booking, error) {
    now := e.now()
    return e.mutate(ctx, bookingID, func(ctx context.Context, tx Tx, b *model.Booking) error {
        next, err := NextStatus(ActionMarkPaid, b.Status)
        if err != nil {
            return err
        }
        b.Status = next
        b.PaymentStatus = model.PaymentPaid
        if paymentRef != "" {
            b.PaymentRef = &paymentRef
        }
        b.PaidAt = &now
        b.HoldExpiresAt = nil
        b.ConfirmedAt = &now
        b.UpdatedAt = now
        return tx.UpdateBooking(ctx, b)
    })
}

// CheckIn marks the guest's arrival on a confirmed booking.  Host only.
func (e *Engine) CheckIn(ctx context.Context, caller Caller, bookingID uint64) (*model.Booking, error) {
    now := e.now()
    return e.mutate(ctx, bookingID, func(ctx context.Context, tx Tx, b *model.Booking) error {
        if caller.ID != b.HostID {
            return ErrForbidden
        }
        next, err := NextStatus(ActionCheckIn, b.Status)
        if err != nil {
            return err
        }
        b.Status = next
        b.UpdatedAt = now
        return tx.UpdateBooking(ctx, b)
    })
}

// Complete closes out a confirmed or checked-in stay.  Guest or host.
func (e *Engine) Complete(ctx context.Context, caller Caller, bookingID uint64) (*model.Booking, error) {
    now := e.now()
    return e.mutate(ctx, bookingID, func(ctx context.Context, tx Tx, b *model.Booking) error {
        if caller.ID != b.GuestID && caller.ID != b.HostID {
            return ErrForbidden
        }
        next, err := NextStatus(ActionComplete, b.Status)
        if err != nil {
            return err
        }
        b.Status = next
        b.CompletedAt = &now
        b.UpdatedAt = now
        return tx.UpdateBooking(ctx, b)
    })
}

// Delete soft-deletes a cancelled or rejected booking so it disappears
// from listings.  Only the booking's guest may delete, and the row is
// never physically removed.
func (e *Engine) Delete(ctx context.Context, caller Caller, bookingID uint64) error {
    now := e.now()
    _, err := e.mutate(ctx, bookingID, func(ctx context.Context, tx Tx, b *model.Booking) error {
        if caller.ID != b.GuestID {
            return ErrForbidden
        }
        if b.Status != model.StatusCancelled && b.Status != model.StatusRejected {
            return &InvalidTransitionError{Action: ActionDelete, Status: b.Status}
        }
        b.DeletedAt = &now
        b.UpdatedAt = now
        return tx.UpdateBooking(ctx, b)
    })
    return err
}

// SetBlackout blocks or re-opens a range of the property's calendar by
// hand.  Blocking is refused while any active booking overlaps the range;
// lapsed holds found in the way are expired first, the same way admission
// does it.  Releasing only removes MANUAL rows, never booking-owned ones.
func (e *Engine) SetBlackout(ctx context.Context, caller Caller, propertyID uint64, from, to time.Time, block bool) error {
    from = DateOnly(from)
    to = DateOnly(to)
    now := e.now()
    if !from.Before(to) {
        return validationf("end date must be after start date")
    }

    tx, err := e.store.Begin(ctx)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := tx.LockProperty(ctx, propertyID); err != nil {
        return err
    }
    p, err := tx.PropertyByID(ctx, propertyID)
    if err != nil {
        return err
    }
    if caller.ID != p.HostID {
        return ErrForbidden
    }

    if block {
        overlapping, err := tx.OverlappingBookings(ctx, p.ID, from, to, activeConflictStatuses)
        if err != nil {
            return err
        }
        var expired []uint64
        conflicts := 0
        for i := range overlapping {
            if holdLapsed(&overlapping[i], now) {
                expired = append(expired, overlapping[i].ID)
                continue
            }
            conflicts++
        }
        if len(expired) > 0 {
            if err := tx.ExpireBookings(ctx, expired, now); err != nil {
                return err
            }
        }
        if conflicts > 0 {
            if len(expired) > 0 {
                if err := tx.Commit(); err != nil {
                    return err
                }
                committed = true
            }
            return ErrConflict
        }
        if err := tx.BlockRange(ctx, p.ID, from, to, model.BlockManual, nil); err != nil {
            return err
        }
    } else {
        if err := tx.ReleaseManualDays(ctx, p.ID, from, to); err != nil {
            return err
        }
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// mutate runs one single-booking unit of work: load the booking under its
// row lock, apply fn, and commit.  Any error from fn aborts the whole unit
// so the status change and its ledger side effect land together or not at
// all.
func (e *Engine) mutate(ctx context.Context, bookingID uint64, fn func(ctx context.Context, tx Tx, b *model.Booking) error) (*model.Booking, error) {
    tx, err := e.store.Begin(ctx)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    b, err := tx.BookingByID(ctx, bookingID)
    if err != nil {
        return nil, err
    }
    if err := fn(ctx, tx, b); err != nil {
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return b, nil
}
