package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
)

// ErrBookingNotFound indicates that a booking was not located in the DB
// (or has been soft-deleted).
var ErrBookingNotFound = errors.New("booking not found")

// bookingCols is the canonical column list of the bookings table.  Every
// SELECT in this package uses it so scanBooking stays in sync with one
// place.
const bookingCols = `id, property_id, guest_id, host_id,
    check_in, check_out, nights, adults, children, infants,
    nightly_rate, subtotal, cleaning_fee, service_fee, tax_amount,
    total_price, platform_commission, host_earnings,
    status, payment_status, payment_ref, paid_at, hold_expires_at,
    cancellation_policy, cancellation_deadline, cancel_reason, cancelled_by,
    refund_amount,
    created_at, approved_at, confirmed_at, cancelled_at, completed_at,
    deleted_at, updated_at`

// rowScanner lets scanBooking work for both sql.Row and sql.Rows.
type rowScanner interface {
    Scan(dest ...interface{}) error
}

// scanBooking maps one bookings row onto a model.Booking.  Nullable
// columns are carried through as nil pointers.
func scanBooking(row rowScanner) (*model.Booking, error) {
    var (
        b          model.Booking
        paymentRef sql.NullString
        paidAt     sql.NullTime
        holdExp    sql.NullTime
        deadline   sql.NullTime
        reason     sql.NullString
        actor      sql.NullString
        approved   sql.NullTime
        confirmed  sql.NullTime
        cancelled  sql.NullTime
        completed  sql.NullTime
        deleted    sql.NullTime
    )
    err := row.Scan(
        &b.ID, &b.PropertyID, &b.GuestID, &b.HostID,
        &b.CheckIn, &b.CheckOut, &b.Nights, &b.Adults, &b.Children, &b.Infants,
        &b.NightlyRate, &b.Subtotal, &b.CleaningFee, &b.ServiceFee, &b.TaxAmount,
        &b.TotalPrice, &b.PlatformCommission, &b.HostEarnings,
        &b.Status, &b.PaymentStatus, &paymentRef, &paidAt, &holdExp,
        &b.CancellationPolicy, &deadline, &reason, &actor,
        &b.RefundAmount,
        &b.CreatedAt, &approved, &confirmed, &cancelled, &completed,
        &deleted, &b.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if paymentRef.Valid {
        v := paymentRef.String
        b.PaymentRef = &v
    }
    if paidAt.Valid {
        t := paidAt.Time.UTC()
        b.PaidAt = &t
    }
    if holdExp.Valid {
        t := holdExp.Time.UTC()
        b.HoldExpiresAt = &t
    }
    if deadline.Valid {
        t := deadline.Time.UTC()
        b.CancellationDeadline = &t
    }
    if reason.Valid {
        v := reason.String
        b.CancelReason = &v
    }
    if actor.Valid {
        b.CancelledBy = model.CancelActor(actor.String)
    }
    if approved.Valid {
        t := approved.Time.UTC()
        b.ApprovedAt = &t
    }
    if confirmed.Valid {
        t := confirmed.Time.UTC()
        b.ConfirmedAt = &t
    }
    if cancelled.Valid {
        t := cancelled.Time.UTC()
        b.CancelledAt = &t
    }
    if completed.Valid {
        t := completed.Time.UTC()
        b.CompletedAt = &t
    }
    if deleted.Valid {
        t := deleted.Time.UTC()
        b.DeletedAt = &t
    }
    return &b, nil
}

// BookingRepo serves the read side of bookings: single fetches and
// listings for guests and hosts.  All writes go through the transactional
// store instead.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// GetByID returns a booking by id, excluding soft-deleted rows.  Returns
// ErrBookingNotFound when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
    q := `SELECT ` + bookingCols + ` FROM bookings WHERE id = ? AND deleted_at IS NULL`
    b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrBookingNotFound
    }
    return b, err
}

// ListByGuest returns the guest's bookings, newest first, excluding
// soft-deleted ones.
func (r *BookingRepo) ListByGuest(ctx context.Context, guestID uint64) ([]model.Booking, error) {
    q := `SELECT ` + bookingCols + ` FROM bookings
          WHERE guest_id = ? AND deleted_at IS NULL
          ORDER BY created_at DESC`
    return r.list(ctx, q, guestID)
}

// ListByProperty returns a property's bookings for its host, newest first.
// Soft-deleted bookings stay visible to the host; deletion only hides a
// booking from the guest's own listing.
func (r *BookingRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Booking, error) {
    q := `SELECT ` + bookingCols + ` FROM bookings
          WHERE property_id = ?
          ORDER BY created_at DESC`
    return r.list(ctx, q, propertyID)
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// statusPlaceholders renders an IN clause fragment for the given statuses
// and appends them to args.
func statusPlaceholders(in []model.BookingStatus, args []interface{}) (string, []interface{}) {
    ph := make([]string, 0, len(in))
    for _, s := range in {
        ph = append(ph, "?")
        args = append(args, string(s))
    }
    return strings.Join(ph, ","), args
}
