package booking

import (
    "context"
    "time"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
)

// Store hands out transactional units of work.  The production
// implementation lives in the repository package over MySQL; tests use an
// in-memory store.  Every engine operation runs inside exactly one Tx.
type Store interface {
    Begin(ctx context.Context) (Tx, error)
}

// Tx is one unit of work.  Implementations must guarantee that two
// concurrent units of work holding the same property lock serialize: after
// LockProperty returns, reads of that property's bookings and calendar see
// every write committed by earlier holders of the lock.
//
// The caller must finish every Tx with exactly one Commit or Rollback.
type Tx interface {
    Commit() error
    Rollback() error

    // LockProperty takes the per-property admission lock for the rest of
    // the unit of work.  Returns ErrNotFound when the property is absent.
    LockProperty(ctx context.Context, propertyID uint64) error

    // PropertyByID loads a property record.  Returns ErrNotFound when absent.
    PropertyByID(ctx context.Context, propertyID uint64) (*model.Property, error)

    // BookingByID loads a booking for update, excluding soft-deleted rows.
    // Returns ErrNotFound when absent.
    BookingByID(ctx context.Context, bookingID uint64) (*model.Booking, error)

    // OverlappingBookings returns the property's bookings whose status is in
    // the given set and whose [check_in, check_out) range overlaps
    // [checkIn, checkOut) under half-open interval overlap.
    OverlappingBookings(ctx context.Context, propertyID uint64, checkIn, checkOut time.Time, in []model.BookingStatus) ([]model.Booking, error)

    // ExpireBookings transitions the given bookings to EXPIRED and releases
    // their ledger days.  Idempotent: already-expired ids are no-ops.
    ExpireBookings(ctx context.Context, ids []uint64, now time.Time) error

    // CreateBooking persists a new booking and fills in its generated ID.
    CreateBooking(ctx context.Context, b *model.Booking) error

    // UpdateBooking persists every mutable field of the booking.
    UpdateBooking(ctx context.Context, b *model.Booking) error

    // BlockedDays returns the ledger entries of the property falling inside
    // [from, to).
    BlockedDays(ctx context.Context, propertyID uint64, from, to time.Time) ([]model.AvailabilityDay, error)

    // BlockRange inserts one ledger row per day of [from, to).  bookingID is
    // nil for a manual host blackout.
    BlockRange(ctx context.Context, propertyID uint64, from, to time.Time, source model.BlockSource, bookingID *uint64) error

    // ReleaseBookingDays deletes the ledger rows owned by the booking.
    // Manual blackout rows are untouched.
    ReleaseBookingDays(ctx context.Context, bookingID uint64) error

    // ReleaseManualDays deletes the property's MANUAL ledger rows inside
    // [from, to).
    ReleaseManualDays(ctx context.Context, propertyID uint64, from, to time.Time) error
}
