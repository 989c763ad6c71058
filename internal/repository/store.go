package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"
    "time"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/booking"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
)

// SQLStore implements booking.Store over MySQL.  Serialization of
// concurrent admissions is achieved with a per-property row lock: every
// unit of work that touches a property's calendar takes
// `SELECT ... FOR UPDATE` on the property row first, so two admissions for
// the same property cannot interleave their conflict scans and writes.
type SQLStore struct {
    db *sql.DB
}

// NewSQLStore returns a store bound to the given database handle.
func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

// DB exposes the underlying handle for repositories sharing the pool.
func (s *SQLStore) DB() *sql.DB { return s.db }

// Begin opens one unit of work.
func (s *SQLStore) Begin(ctx context.Context) (booking.Tx, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    return &sqlTx{tx: tx}, nil
}

// sqlTx adapts *sql.Tx to booking.Tx.
type sqlTx struct {
    tx *sql.Tx
}

func (t *sqlTx) Commit() error   { return t.tx.Commit() }
func (t *sqlTx) Rollback() error { return t.tx.Rollback() }

// LockProperty takes the admission lock for the property.  The lock is the
// property row itself and is held until commit or rollback.
func (t *sqlTx) LockProperty(ctx context.Context, propertyID uint64) error {
    var id uint64
    err := t.tx.QueryRowContext(ctx,
        `SELECT id FROM properties WHERE id = ? FOR UPDATE`, propertyID).Scan(&id)
    if errors.Is(err, sql.ErrNoRows) {
        return booking.ErrNotFound
    }
    return err
}

func (t *sqlTx) PropertyByID(ctx context.Context, propertyID uint64) (*model.Property, error) {
    p, err := scanProperty(t.tx.QueryRowContext(ctx,
        `SELECT `+propertyCols+` FROM properties WHERE id = ?`, propertyID))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, booking.ErrNotFound
    }
    return p, err
}

// BookingByID loads the booking under its row lock so the status
// precondition checked by the engine holds until the unit of work ends.
func (t *sqlTx) BookingByID(ctx context.Context, bookingID uint64) (*model.Booking, error) {
    q := `SELECT ` + bookingCols + ` FROM bookings
          WHERE id = ? AND deleted_at IS NULL FOR UPDATE`
    b, err := scanBooking(t.tx.QueryRowContext(ctx, q, bookingID))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, booking.ErrNotFound
    }
    return b, err
}

func (t *sqlTx) OverlappingBookings(ctx context.Context, propertyID uint64, checkIn, checkOut time.Time, in []model.BookingStatus) ([]model.Booking, error) {
    if len(in) == 0 {
        return nil, nil
    }
    args := []interface{}{propertyID}
    ph, args := statusPlaceholders(in, args)
    args = append(args, checkOut, checkIn)
    q := `SELECT ` + bookingCols + ` FROM bookings
          WHERE property_id = ? AND status IN (` + ph + `)
            AND check_in < ? AND check_out > ?
            AND deleted_at IS NULL`
    rows, err := t.tx.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Booking
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *b)
    }
    return out, rows.Err()
}

// ExpireBookings moves the given bookings to EXPIRED and drops their
// ledger rows.  The status guard makes re-running on already-expired ids a
// no-op.
func (t *sqlTx) ExpireBookings(ctx context.Context, ids []uint64, now time.Time) error {
    if len(ids) == 0 {
        return nil
    }
    ph := make([]string, 0, len(ids))
    args := []interface{}{string(model.StatusExpired), now}
    for _, id := range ids {
        ph = append(ph, "?")
        args = append(args, id)
    }
    idList := strings.Join(ph, ",")
    _, err := t.tx.ExecContext(ctx,
        `UPDATE bookings SET status = ?, hold_expires_at = NULL, updated_at = ?
         WHERE id IN (`+idList+`) AND status NOT IN ('EXPIRED','CANCELLED','REJECTED','COMPLETED')`,
        args...)
    if err != nil {
        return err
    }
    delArgs := make([]interface{}, 0, len(ids))
    for _, id := range ids {
        delArgs = append(delArgs, id)
    }
    _, err = t.tx.ExecContext(ctx,
        `DELETE FROM availability_days WHERE booking_id IN (`+idList+`)`, delArgs...)
    return err
}

func (t *sqlTx) CreateBooking(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings (
        property_id, guest_id, host_id,
        check_in, check_out, nights, adults, children, infants,
        nightly_rate, subtotal, cleaning_fee, service_fee, tax_amount,
        total_price, platform_commission, host_earnings,
        status, payment_status, hold_expires_at,
        cancellation_policy, cancellation_deadline, refund_amount,
        created_at, updated_at
    ) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
    res, err := t.tx.ExecContext(ctx, q,
        b.PropertyID, b.GuestID, b.HostID,
        b.CheckIn, b.CheckOut, b.Nights, b.Adults, b.Children, b.Infants,
        b.NightlyRate, b.Subtotal, b.CleaningFee, b.ServiceFee, b.TaxAmount,
        b.TotalPrice, b.PlatformCommission, b.HostEarnings,
        string(b.Status), string(b.PaymentStatus), timePtr(b.HoldExpiresAt),
        string(b.CancellationPolicy), timePtr(b.CancellationDeadline), b.RefundAmount,
        b.CreatedAt, b.UpdatedAt,
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return nil
}

func (t *sqlTx) UpdateBooking(ctx context.Context, b *model.Booking) error {
    const q = `UPDATE bookings SET
        status = ?, payment_status = ?, payment_ref = ?, paid_at = ?,
        hold_expires_at = ?, cancel_reason = ?, cancelled_by = ?,
        refund_amount = ?, approved_at = ?, confirmed_at = ?, cancelled_at = ?,
        completed_at = ?, deleted_at = ?, updated_at = ?
        WHERE id = ?`
    var actor interface{}
    if b.CancelledBy != "" {
        actor = string(b.CancelledBy)
    }
    _, err := t.tx.ExecContext(ctx, q,
        string(b.Status), string(b.PaymentStatus), strPtr(b.PaymentRef), timePtr(b.PaidAt),
        timePtr(b.HoldExpiresAt), strPtr(b.CancelReason), actor,
        b.RefundAmount, timePtr(b.ApprovedAt), timePtr(b.ConfirmedAt), timePtr(b.CancelledAt),
        timePtr(b.CompletedAt), timePtr(b.DeletedAt), b.UpdatedAt,
        b.ID,
    )
    return err
}

func (t *sqlTx) BlockedDays(ctx context.Context, propertyID uint64, from, to time.Time) ([]model.AvailabilityDay, error) {
    const q = `SELECT id, property_id, day, source, booking_id, created_at
               FROM availability_days
               WHERE property_id = ? AND day >= ? AND day < ?
               ORDER BY day`
    rows, err := t.tx.QueryContext(ctx, q, propertyID, from, to)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.AvailabilityDay
    for rows.Next() {
        var (
            d   model.AvailabilityDay
            bid sql.NullInt64
        )
        if err := rows.Scan(&d.ID, &d.PropertyID, &d.Day, &d.Source, &bid, &d.CreatedAt); err != nil {
            return nil, err
        }
        if bid.Valid {
            v := uint64(bid.Int64)
            d.BookingID = &v
        }
        d.Day = d.Day.UTC()
        out = append(out, d)
    }
    return out, rows.Err()
}

// BlockRange inserts one row per day of [from, to) in a single statement.
// Days already blocked are left as they are.
func (t *sqlTx) BlockRange(ctx context.Context, propertyID uint64, from, to time.Time, source model.BlockSource, bookingID *uint64) error {
    query := `INSERT INTO availability_days (property_id, day, source, booking_id) VALUES `
    var args []interface{}
    first := true
    for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
        if !first {
            query += ","
        }
        first = false
        query += "(?, ?, ?, ?)"
        var bid interface{}
        if bookingID != nil {
            bid = *bookingID
        }
        args = append(args, propertyID, d, string(source), bid)
    }
    if first {
        return nil
    }
    query += ` ON DUPLICATE KEY UPDATE id = id`
    _, err := t.tx.ExecContext(ctx, query, args...)
    return err
}

func (t *sqlTx) ReleaseBookingDays(ctx context.Context, bookingID uint64) error {
    _, err := t.tx.ExecContext(ctx,
        `DELETE FROM availability_days WHERE booking_id = ?`, bookingID)
    return err
}

func (t *sqlTx) ReleaseManualDays(ctx context.Context, propertyID uint64, from, to time.Time) error {
    _, err := t.tx.ExecContext(ctx,
        `DELETE FROM availability_days
         WHERE property_id = ? AND source = 'MANUAL' AND day >= ? AND day < ?`,
        propertyID, from, to)
    return err
}

func timePtr(t *time.Time) interface{} {
    if t == nil {
        return nil
    }
    return *t
}

func strPtr(s *string) interface{} {
    if s == nil {
        return nil
    }
    return *s
}
