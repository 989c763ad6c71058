// Package repository contains the data access layer: one repo per table
// plus the transactional SQLStore consumed by the booking engine.  All
// timestamps are stored and compared in UTC.
package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
)

// ErrPropertyNotFound indicates that a property was not located in the DB.
var ErrPropertyNotFound = errors.New("property not found")

// propertyCols is the canonical column list of the properties table.
const propertyCols = `id, host_id, title, status, max_guests,
    nightly_rate, cleaning_fee, instant_book, request_to_book,
    approval_window_hours, cancellation_policy, created_at, updated_at`

// scanProperty maps one properties row onto a model.Property.
func scanProperty(row rowScanner) (*model.Property, error) {
    var p model.Property
    err := row.Scan(
        &p.ID, &p.HostID, &p.Title, &p.Status, &p.MaxGuests,
        &p.NightlyRate, &p.CleaningFee, &p.InstantBook, &p.RequestToBook,
        &p.ApprovalWindowHours, &p.CancellationPolicy, &p.CreatedAt, &p.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    return &p, nil
}

// PropertyRepo manages persistence for properties.
type PropertyRepo struct {
    db *sql.DB
}

// NewPropertyRepo returns a new PropertyRepo bound to the given database.
func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

// Create inserts a new property and populates its generated ID plus the
// DB-default timestamps.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
    const q = `INSERT INTO properties
        (host_id, title, status, max_guests, nightly_rate, cleaning_fee,
         instant_book, request_to_book, approval_window_hours, cancellation_policy)
        VALUES (?,?,?,?,?,?,?,?,?,?)`
    res, err := r.db.ExecContext(ctx, q,
        p.HostID, p.Title, string(p.Status), p.MaxGuests, p.NightlyRate, p.CleaningFee,
        p.InstantBook, p.RequestToBook, p.ApprovalWindowHours, string(p.CancellationPolicy))
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    p.ID = uint64(id)
    const sel = `SELECT ` + propertyCols + ` FROM properties WHERE id = ?`
    got, err := scanProperty(r.db.QueryRowContext(ctx, sel, p.ID))
    if err != nil {
        return err
    }
    *p = *got
    return nil
}

// GetByID returns a property by id.  Returns ErrPropertyNotFound when
// absent.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
    const q = `SELECT ` + propertyCols + ` FROM properties WHERE id = ?`
    p, err := scanProperty(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrPropertyNotFound
    }
    return p, err
}

// ListByHost returns all properties owned by the host, newest first.
func (r *PropertyRepo) ListByHost(ctx context.Context, hostID uint64) ([]model.Property, error) {
    const q = `SELECT ` + propertyCols + ` FROM properties
               WHERE host_id = ? ORDER BY created_at DESC`
    rows, err := r.db.QueryContext(ctx, q, hostID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Property, 0)
    for rows.Next() {
        p, err := scanProperty(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *p)
    }
    return out, rows.Err()
}

// BlockedDays returns the property's blocked calendar days inside
// [from, to), for the public calendar view.
func (r *PropertyRepo) BlockedDays(ctx context.Context, propertyID uint64, from, to time.Time) ([]model.AvailabilityDay, error) {
    const q = `SELECT id, property_id, day, source, booking_id, created_at
               FROM availability_days
               WHERE property_id = ? AND day >= ? AND day < ?
               ORDER BY day`
    rows, err := r.db.QueryContext(ctx, q, propertyID, from, to)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.AvailabilityDay, 0)
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
