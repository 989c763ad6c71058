package booking

import (
    "context"
    "sync"
    "time"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
)

// memStore is an in-memory Store for engine tests.  A single mutex held
// from Begin until Commit or Rollback stands in for the per-property
// admission lock: units of work serialize completely, which satisfies the
// Tx contract.  Rollback restores a snapshot taken at Begin.
type memStore struct {
    mu         sync.Mutex
    nextID     uint64
    properties map[uint64]*model.Property
    bookings   map[uint64]*model.Booking
    days       []model.AvailabilityDay
}

func newMemStore() *memStore {
    return &memStore{
        properties: make(map[uint64]*model.Property),
        bookings:   make(map[uint64]*model.Booking),
    }
}

func (s *memStore) addProperty(p model.Property) *model.Property {
    s.nextID++
    p.ID = s.nextID
    s.properties[p.ID] = &p
    return &p
}

func (s *memStore) Begin(ctx context.Context) (Tx, error) {
    s.mu.Lock()
    t := &memTx{store: s}
    t.snapBookings = make(map[uint64]*model.Booking, len(s.bookings))
    for id, b := range s.bookings {
        cp := *b
        t.snapBookings[id] = &cp
    }
    t.snapDays = append([]model.AvailabilityDay(nil), s.days...)
    t.snapNextID = s.nextID
    return t, nil
}

type memTx struct {
    store        *memStore
    done         bool
    snapBookings map[uint64]*model.Booking
    snapDays     []model.AvailabilityDay
    snapNextID   uint64
}

func (t *memTx) Commit() error {
    t.done = true
    t.store.mu.Unlock()
    return nil
}

func (t *memTx) Rollback() error {
    if t.done {
        return nil
    }
    t.done = true
    t.store.bookings = t.snapBookings
    t.store.days = t.snapDays
    t.store.nextID = t.snapNextID
    t.store.mu.Unlock()
    return nil
}

func (t *memTx) LockProperty(ctx context.Context, propertyID uint64) error {
    if _, ok := t.store.properties[propertyID]; !ok {
        return ErrNotFound
    }
    return nil
}

func (t *memTx) PropertyByID(ctx context.Context, propertyID uint64) (*model.Property, error) {
    p, ok := t.store.properties[propertyID]
    if !ok {
        return nil, ErrNotFound
    }
    cp := *p
    return &cp, nil
}

func (t *memTx) BookingByID(ctx context.Context, bookingID uint64) (*model.Booking, error) {
    b, ok := t.store.bookings[bookingID]
    if !ok || b.DeletedAt != nil {
        return nil, ErrNotFound
    }
    cp := *b
    return &cp, nil
}

func (t *memTx) OverlappingBookings(ctx context.Context, propertyID uint64, checkIn, checkOut time.Time, in []model.BookingStatus) ([]model.Booking, error) {
    want := make(map[model.BookingStatus]bool, len(in))
    for _, s := range in {
        want[s] = true
    }
    var out []model.Booking
    for _, b := range t.store.bookings {
        if b.PropertyID != propertyID || !want[b.Status] {
            continue
        }
        if Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
            out = append(out, *b)
        }
    }
    return out, nil
}

func (t *memTx) ExpireBookings(ctx context.Context, ids []uint64, now time.Time) error {
    for _, id := range ids {
        b, ok := t.store.bookings[id]
        if !ok || b.Status.Terminal() {
            continue
        }
        b.Status = model.StatusExpired
        b.HoldExpiresAt = nil
        b.UpdatedAt = now
    }
    kept := t.store.days[:0]
    for _, d := range t.store.days {
        owned := false
        for _, id := range ids {
            if d.BookingID != nil && *d.BookingID == id {
                owned = true
                break
            }
        }
        if !owned {
            kept = append(kept, d)
        }
    }
    t.store.days = kept
    return nil
}

func (t *memTx) CreateBooking(ctx context.Context, b *model.Booking) error {
    t.store.nextID++
    b.ID = t.store.nextID
    cp := *b
    t.store.bookings[b.ID] = &cp
    return nil
}

func (t *memTx) UpdateBooking(ctx context.Context, b *model.Booking) error {
    if _, ok := t.store.bookings[b.ID]; !ok {
        return ErrNotFound
    }
    cp := *b
    t.store.bookings[b.ID] = &cp
    return nil
}

func (t *memTx) BlockedDays(ctx context.Context, propertyID uint64, from, to time.Time) ([]model.AvailabilityDay, error) {
    var out []model.AvailabilityDay
    for _, d := range t.store.days {
        if d.PropertyID == propertyID && !d.Day.Before(from) && d.Day.Before(to) {
            out = append(out, d)
        }
    }
    return out, nil
}

func (t *memTx) BlockRange(ctx context.Context, propertyID uint64, from, to time.Time, source model.BlockSource, bookingID *uint64) error {
    eachDay(from, to, func(day time.Time) {
        t.store.days = append(t.store.days, model.AvailabilityDay{
            PropertyID: propertyID,
            Day:        day,
            Source:     source,
            BookingID:  bookingID,
        })
    })
    return nil
}

func (t *memTx) ReleaseBookingDays(ctx context.Context, bookingID uint64) error {
    kept := t.store.days[:0]
    for _, d := range t.store.days {
        if d.BookingID != nil && *d.BookingID == bookingID {
            continue
        }
        kept = append(kept, d)
    }
    t.store.days = kept
    return nil
}

func (t *memTx) ReleaseManualDays(ctx context.Context, propertyID uint64, from, to time.Time) error {
    kept := t.store.days[:0]
    for _, d := range t.store.days {
        if d.PropertyID == propertyID && d.Source == model.BlockManual &&
            !d.Day.Before(from) && d.Day.Before(to) {
            continue
        }
        kept = append(kept, d)
    }
    t.store.days = kept
    return nil
}
