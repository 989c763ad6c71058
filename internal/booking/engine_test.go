package booking

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
)

// testClock is a settable clock injected into the engine so hold expiry
// can be observed without sleeping.
type testClock struct {
    mu  sync.Mutex
    now time.Time
}

func (c *testClock) Now() time.Time {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.now
}

func (c *testClock) Advance(d time.Duration) {
    c.mu.Lock()
    c.now = c.now.Add(d)
    c.mu.Unlock()
}

var testBase = time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(s *memStore) (*Engine, *testClock) {
    clk := &testClock{now: testBase}
    e := NewEngine(s)
    e.now = clk.Now
    return e, clk
}

func instantProperty(s *memStore, hostID uint64) *model.Property {
    return s.addProperty(model.Property{
        HostID:             hostID,
        Title:              "Seafront flat",
        Status:             model.PropertyActive,
        MaxGuests:          4,
        NightlyRate:        100,
        CleaningFee:        20,
        InstantBook:        true,
        CancellationPolicy: model.PolicyFlexible,
    })
}

func requestProperty(s *memStore, hostID uint64) *model.Property {
    return s.addProperty(model.Property{
        HostID:              hostID,
        Title:               "Desert villa",
        Status:              model.PropertyActive,
        MaxGuests:           6,
        NightlyRate:         250,
        CleaningFee:         50,
        RequestToBook:       true,
        ApprovalWindowHours: 24,
        CancellationPolicy:  model.PolicyStrict,
    })
}

// day returns a date-only timestamp n days after the test base date.
func day(n int) time.Time {
    return DateOnly(testBase).AddDate(0, 0, n)
}

func admit(t *testing.T, e *Engine, guestID, propertyID uint64, from, to int) *model.Booking {
    t.Helper()
    b, err := e.Admit(context.Background(), Caller{ID: guestID, Role: model.RoleGuest}, AdmitRequest{
        PropertyID: propertyID,
        CheckIn:    day(from),
        CheckOut:   day(to),
        Adults:     2,
    })
    if err != nil {
        t.Fatalf("admit [%d,%d): %v", from, to, err)
    }
    return b
}

func TestAdmitInstantBook(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)

    b := admit(t, e, 2, p.ID, 3, 6)

    if b.Status != model.StatusAwaitingPayment {
        t.Errorf("status = %s, want %s", b.Status, model.StatusAwaitingPayment)
    }
    if b.Nights != 3 {
        t.Errorf("nights = %d, want 3", b.Nights)
    }
    if b.TotalPrice != 389.6 {
        t.Errorf("total = %v, want 389.6", b.TotalPrice)
    }
    if b.HoldExpiresAt == nil || !b.HoldExpiresAt.Equal(testBase.Add(15*time.Minute)) {
        t.Errorf("hold expiry = %v, want base+15m", b.HoldExpiresAt)
    }
    if got := len(s.days); got != 3 {
        t.Errorf("ledger rows = %d, want 3", got)
    }
    for _, d := range s.days {
        if d.Source != model.BlockBooking || d.BookingID == nil || *d.BookingID != b.ID {
            t.Errorf("ledger row %+v not owned by booking %d", d, b.ID)
        }
    }
}

func TestAdmitRequestToBook(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := requestProperty(s, 1)

    b := admit(t, e, 2, p.ID, 10, 12)

    if b.Status != model.StatusRequested {
        t.Errorf("status = %s, want %s", b.Status, model.StatusRequested)
    }
    if b.HoldExpiresAt == nil || !b.HoldExpiresAt.Equal(testBase.Add(24*time.Hour)) {
        t.Errorf("hold expiry = %v, want base+24h", b.HoldExpiresAt)
    }
}

func TestAdmitValidation(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)
    ctx := context.Background()
    guest := Caller{ID: 2, Role: model.RoleGuest}

    cases := []struct {
        name string
        req  AdmitRequest
    }{
        {"inverted range", AdmitRequest{PropertyID: p.ID, CheckIn: day(5), CheckOut: day(3), Adults: 1}},
        {"zero nights", AdmitRequest{PropertyID: p.ID, CheckIn: day(5), CheckOut: day(5), Adults: 1}},
        {"past check-in", AdmitRequest{PropertyID: p.ID, CheckIn: day(-1), CheckOut: day(2), Adults: 1}},
        {"no adults", AdmitRequest{PropertyID: p.ID, CheckIn: day(3), CheckOut: day(5)}},
        {"negative children", AdmitRequest{PropertyID: p.ID, CheckIn: day(3), CheckOut: day(5), Adults: 1, Children: -1}},
        {"too many guests", AdmitRequest{PropertyID: p.ID, CheckIn: day(3), CheckOut: day(5), Adults: 3, Children: 2}},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            _, err := e.Admit(ctx, guest, tc.req)
            var ve *ValidationError
            if !errors.As(err, &ve) {
                t.Errorf("err = %v, want ValidationError", err)
            }
        })
    }

    // Infants never count against the guest limit.
    if _, err := e.Admit(ctx, guest, AdmitRequest{
        PropertyID: p.ID, CheckIn: day(3), CheckOut: day(5), Adults: 3, Children: 1, Infants: 5,
    }); err != nil {
        t.Errorf("infants counted against limit: %v", err)
    }
}

func TestAdmitHostOwnProperty(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)

    _, err := e.Admit(context.Background(), Caller{ID: 1, Role: model.RoleHost}, AdmitRequest{
        PropertyID: p.ID, CheckIn: day(3), CheckOut: day(5), Adults: 1,
    })
    var ve *ValidationError
    if !errors.As(err, &ve) {
        t.Fatalf("err = %v, want ValidationError", err)
    }
}

func TestAdmitInactiveProperty(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := s.addProperty(model.Property{
        HostID: 1, Status: model.PropertySuspended, MaxGuests: 2, NightlyRate: 80,
        InstantBook: true, CancellationPolicy: model.PolicyFlexible,
    })
    _, err := e.Admit(context.Background(), Caller{ID: 2, Role: model.RoleGuest}, AdmitRequest{
        PropertyID: p.ID, CheckIn: day(3), CheckOut: day(5), Adults: 1,
    })
    var ve *ValidationError
    if !errors.As(err, &ve) {
        t.Fatalf("err = %v, want ValidationError", err)
    }
}

func TestAdmitOverlapConflicts(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)
    admit(t, e, 2, p.ID, 5, 10)

    overlapping := [][2]int{{5, 10}, {4, 6}, {9, 12}, {6, 8}, {4, 11}}
    for _, r := range overlapping {
        _, err := e.Admit(context.Background(), Caller{ID: 3, Role: model.RoleGuest}, AdmitRequest{
            PropertyID: p.ID, CheckIn: day(r[0]), CheckOut: day(r[1]), Adults: 1,
        })
        if !errors.Is(err, ErrConflict) {
            t.Errorf("[%d,%d): err = %v, want ErrConflict", r[0], r[1], err)
        }
    }

    // Back-to-back stays share a boundary day but never conflict.
    admit(t, e, 3, p.ID, 10, 12)
    admit(t, e, 4, p.ID, 3, 5)
}

func TestAdmitConcurrentSameRange(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)

    const racers = 8
    errs := make([]error, racers)
    var wg sync.WaitGroup
    for i := 0; i < racers; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            _, errs[i] = e.Admit(context.Background(), Caller{ID: uint64(10 + i), Role: model.RoleGuest}, AdmitRequest{
                PropertyID: p.ID, CheckIn: day(5), CheckOut: day(8), Adults: 1,
            })
        }(i)
    }
    wg.Wait()

    wins := 0
    for i, err := range errs {
        switch {
        case err == nil:
            wins++
        case errors.Is(err, ErrConflict):
        default:
            t.Errorf("racer %d: unexpected error %v", i, err)
        }
    }
    if wins != 1 {
        t.Fatalf("winners = %d, want exactly 1", wins)
    }
    if got := len(s.days); got != 3 {
        t.Errorf("ledger rows = %d, want 3", got)
    }
}

func TestLazyExpiryFreesDates(t *testing.T) {
    s := newMemStore()
    e, clk := newTestEngine(s)
    p := instantProperty(s, 1)

    a := admit(t, e, 2, p.ID, 5, 8)

    // Within the hold the dates stay taken.
    clk.Advance(14 * time.Minute)
    if _, err := e.Admit(context.Background(), Caller{ID: 3, Role: model.RoleGuest}, AdmitRequest{
        PropertyID: p.ID, CheckIn: day(5), CheckOut: day(8), Adults: 1,
    }); !errors.Is(err, ErrConflict) {
        t.Fatalf("within hold: err = %v, want ErrConflict", err)
    }

    // Once the hold lapses the next admission expires it and wins.
    clk.Advance(2 * time.Minute)
    b := admit(t, e, 3, p.ID, 5, 8)

    if got := s.bookings[a.ID].Status; got != model.StatusExpired {
        t.Errorf("stale booking status = %s, want %s", got, model.StatusExpired)
    }
    for _, d := range s.days {
        if d.BookingID != nil && *d.BookingID == a.ID {
            t.Errorf("expired booking %d still owns ledger row %v", a.ID, d.Day)
        }
    }
    if got := s.bookings[b.ID].Status; got != model.StatusAwaitingPayment {
        t.Errorf("winner status = %s, want %s", got, model.StatusAwaitingPayment)
    }
}

func TestLazyExpiryCommittedOnReject(t *testing.T) {
    s := newMemStore()
    e, clk := newTestEngine(s)
    p := instantProperty(s, 1)

    stale := admit(t, e, 2, p.ID, 5, 8)

    // A confirmed booking overlapping the probe keeps the rejection in place.
    confirmed := admit(t, e, 3, p.ID, 8, 11)
    if _, err := e.MarkPaid(context.Background(), confirmed.ID, "pay_1"); err != nil {
        t.Fatalf("mark paid: %v", err)
    }

    clk.Advance(16 * time.Minute)
    _, err := e.Admit(context.Background(), Caller{ID: 4, Role: model.RoleGuest}, AdmitRequest{
        PropertyID: p.ID, CheckIn: day(6), CheckOut: day(9), Adults: 1,
    })
    if !errors.Is(err, ErrConflict) {
        t.Fatalf("err = %v, want ErrConflict", err)
    }

    // The rejected admission still committed the expiry it discovered.
    if got := s.bookings[stale.ID].Status; got != model.StatusExpired {
        t.Errorf("stale booking status = %s, want %s", got, model.StatusExpired)
    }
    for _, d := range s.days {
        if d.BookingID != nil && *d.BookingID == stale.ID {
            t.Errorf("expired booking %d still owns ledger row %v", stale.ID, d.Day)
        }
    }
}

func TestApproveGrantsPaymentWindow(t *testing.T) {
    s := newMemStore()
    e, clk := newTestEngine(s)
    p := requestProperty(s, 1)
    b := admit(t, e, 2, p.ID, 10, 12)

    clk.Advance(3 * time.Hour)
    got, err := e.Approve(context.Background(), Caller{ID: 1, Role: model.RoleHost}, b.ID)
    if err != nil {
        t.Fatalf("approve: %v", err)
    }
    if got.Status != model.StatusApproved {
        t.Errorf("status = %s, want %s", got.Status, model.StatusApproved)
    }
    want := testBase.Add(3 * time.Hour).Add(48 * time.Hour)
    if got.HoldExpiresAt == nil || !got.HoldExpiresAt.Equal(want) {
        t.Errorf("hold expiry = %v, want %v", got.HoldExpiresAt, want)
    }

    // Only the property's host may approve.
    if _, err := e.Approve(context.Background(), Caller{ID: 9, Role: model.RoleHost}, b.ID); !errors.Is(err, ErrForbidden) {
        t.Errorf("foreign host approve: err = %v, want ErrForbidden", err)
    }
}

func TestDeclineReleasesDates(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := requestProperty(s, 1)
    b := admit(t, e, 2, p.ID, 10, 12)

    got, err := e.Decline(context.Background(), Caller{ID: 1, Role: model.RoleHost}, b.ID, "dates unavailable offline")
    if err != nil {
        t.Fatalf("decline: %v", err)
    }
    if got.Status != model.StatusRejected {
        t.Errorf("status = %s, want %s", got.Status, model.StatusRejected)
    }
    if got.CancelledBy != model.CancelByHost {
        t.Errorf("cancelled by = %q, want host", got.CancelledBy)
    }

    // The freed range admits again immediately.
    admit(t, e, 3, p.ID, 10, 12)
}

func TestMarkPaidConfirms(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)
    b := admit(t, e, 2, p.ID, 5, 8)

    got, err := e.MarkPaid(context.Background(), b.ID, "pay_42")
    if err != nil {
        t.Fatalf("mark paid: %v", err)
    }
    if got.Status != model.StatusConfirmed {
        t.Errorf("status = %s, want %s", got.Status, model.StatusConfirmed)
    }
    if got.PaymentStatus != model.PaymentPaid {
        t.Errorf("payment status = %s, want %s", got.PaymentStatus, model.PaymentPaid)
    }
    if got.HoldExpiresAt != nil {
        t.Errorf("hold expiry = %v, want cleared", got.HoldExpiresAt)
    }
    if got.PaymentRef == nil || *got.PaymentRef != "pay_42" {
        t.Errorf("payment ref = %v, want pay_42", got.PaymentRef)
    }

    // A confirmed booking never expires, however late the probe.
    if _, err := e.MarkPaid(context.Background(), b.ID, "pay_43"); err == nil {
        t.Error("second mark paid succeeded, want transition error")
    }
}

func TestCancelPaidRefundsInFull(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1) // FLEXIBLE: full refund until 1 day before
    b := admit(t, e, 2, p.ID, 5, 8)
    if _, err := e.MarkPaid(context.Background(), b.ID, "pay_1"); err != nil {
        t.Fatalf("mark paid: %v", err)
    }

    got, err := e.Cancel(context.Background(), Caller{ID: 2, Role: model.RoleGuest}, b.ID, "change of plans")
    if err != nil {
        t.Fatalf("cancel: %v", err)
    }
    if got.Status != model.StatusCancelled {
        t.Errorf("status = %s, want %s", got.Status, model.StatusCancelled)
    }
    if got.RefundAmount != got.TotalPrice {
        t.Errorf("refund = %v, want full %v", got.RefundAmount, got.TotalPrice)
    }
    if got.PaymentStatus != model.PaymentRefunded {
        t.Errorf("payment status = %s, want %s", got.PaymentStatus, model.PaymentRefunded)
    }
    if got.CancelledBy != model.CancelByGuest {
        t.Errorf("cancelled by = %q, want guest", got.CancelledBy)
    }

    // Cancellation frees the calendar.
    admit(t, e, 3, p.ID, 5, 8)
}

func TestCancelUnpaidRefundsNothing(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)
    b := admit(t, e, 2, p.ID, 5, 8)

    got, err := e.Cancel(context.Background(), Caller{ID: 2, Role: model.RoleGuest}, b.ID, "")
    if err != nil {
        t.Fatalf("cancel: %v", err)
    }
    if got.RefundAmount != 0 {
        t.Errorf("refund = %v, want 0", got.RefundAmount)
    }
    if got.PaymentStatus != model.PaymentPending {
        t.Errorf("payment status = %s, want %s", got.PaymentStatus, model.PaymentPending)
    }
}

func TestCancelStrangerForbidden(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)
    b := admit(t, e, 2, p.ID, 5, 8)

    if _, err := e.Cancel(context.Background(), Caller{ID: 99, Role: model.RoleGuest}, b.ID, ""); !errors.Is(err, ErrForbidden) {
        t.Fatalf("err = %v, want ErrForbidden", err)
    }
}

func TestCheckInRequiresConfirmed(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := requestProperty(s, 1)
    b := admit(t, e, 2, p.ID, 10, 12)
    host := Caller{ID: 1, Role: model.RoleHost}

    _, err := e.CheckIn(context.Background(), host, b.ID)
    var it *InvalidTransitionError
    if !errors.As(err, &it) {
        t.Fatalf("err = %v, want InvalidTransitionError", err)
    }
    if got := s.bookings[b.ID].Status; got != model.StatusRequested {
        t.Errorf("status after failed check-in = %s, want unchanged %s", got, model.StatusRequested)
    }

    if _, err := e.MarkPaid(context.Background(), b.ID, "pay_1"); err != nil {
        t.Fatalf("mark paid: %v", err)
    }
    got, err := e.CheckIn(context.Background(), host, b.ID)
    if err != nil {
        t.Fatalf("check-in: %v", err)
    }
    if got.Status != model.StatusCheckedIn {
        t.Errorf("status = %s, want %s", got.Status, model.StatusCheckedIn)
    }
}

func TestCompleteStay(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)
    b := admit(t, e, 2, p.ID, 5, 8)
    if _, err := e.MarkPaid(context.Background(), b.ID, "pay_1"); err != nil {
        t.Fatalf("mark paid: %v", err)
    }

    got, err := e.Complete(context.Background(), Caller{ID: 2, Role: model.RoleGuest}, b.ID)
    if err != nil {
        t.Fatalf("complete: %v", err)
    }
    if got.Status != model.StatusCompleted {
        t.Errorf("status = %s, want %s", got.Status, model.StatusCompleted)
    }
    if got.CompletedAt == nil {
        t.Error("completed_at not set")
    }

    // Terminal: no further lifecycle action may touch it.
    if _, err := e.Cancel(context.Background(), Caller{ID: 2, Role: model.RoleGuest}, b.ID, ""); err == nil {
        t.Error("cancel after completion succeeded")
    }
}

func TestDeleteOnlyFinishedBookings(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)
    b := admit(t, e, 2, p.ID, 5, 8)
    guest := Caller{ID: 2, Role: model.RoleGuest}
    ctx := context.Background()

    err := e.Delete(ctx, guest, b.ID)
    var it *InvalidTransitionError
    if !errors.As(err, &it) {
        t.Fatalf("delete active booking: err = %v, want InvalidTransitionError", err)
    }

    if _, err := e.Cancel(ctx, guest, b.ID, ""); err != nil {
        t.Fatalf("cancel: %v", err)
    }

    // Only the guest may hide their booking, host included.
    if err := e.Delete(ctx, Caller{ID: 1, Role: model.RoleHost}, b.ID); !errors.Is(err, ErrForbidden) {
        t.Fatalf("host delete: err = %v, want ErrForbidden", err)
    }
    if err := e.Delete(ctx, guest, b.ID); err != nil {
        t.Fatalf("delete: %v", err)
    }
    if s.bookings[b.ID].DeletedAt == nil {
        t.Error("deleted_at not set")
    }

    // Soft-deleted bookings are invisible to further commands.
    if _, err := e.Cancel(ctx, guest, b.ID, ""); !errors.Is(err, ErrNotFound) {
        t.Errorf("cancel deleted booking: err = %v, want ErrNotFound", err)
    }
}

func TestBlackoutBlocksAdmission(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)
    host := Caller{ID: 1, Role: model.RoleHost}
    ctx := context.Background()

    if err := e.SetBlackout(ctx, host, p.ID, day(5), day(8), true); err != nil {
        t.Fatalf("blackout: %v", err)
    }
    _, err := e.Admit(ctx, Caller{ID: 2, Role: model.RoleGuest}, AdmitRequest{
        PropertyID: p.ID, CheckIn: day(6), CheckOut: day(9), Adults: 1,
    })
    if !errors.Is(err, ErrConflict) {
        t.Fatalf("admit over blackout: err = %v, want ErrConflict", err)
    }

    if err := e.SetBlackout(ctx, host, p.ID, day(5), day(8), false); err != nil {
        t.Fatalf("release blackout: %v", err)
    }
    admit(t, e, 2, p.ID, 6, 9)
}

func TestBlackoutRefusedOverActiveBooking(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)
    b := admit(t, e, 2, p.ID, 5, 8)
    host := Caller{ID: 1, Role: model.RoleHost}
    ctx := context.Background()

    if err := e.SetBlackout(ctx, host, p.ID, day(6), day(10), true); !errors.Is(err, ErrConflict) {
        t.Fatalf("err = %v, want ErrConflict", err)
    }

    // Releasing a range never touches booking-owned days.
    if err := e.SetBlackout(ctx, host, p.ID, day(5), day(8), false); err != nil {
        t.Fatalf("release: %v", err)
    }
    owned := 0
    for _, d := range s.days {
        if d.BookingID != nil && *d.BookingID == b.ID {
            owned++
        }
    }
    if owned != 3 {
        t.Errorf("booking-owned ledger rows = %d, want 3", owned)
    }
}

func TestBlackoutForeignHostForbidden(t *testing.T) {
    s := newMemStore()
    e, _ := newTestEngine(s)
    p := instantProperty(s, 1)

    err := e.SetBlackout(context.Background(), Caller{ID: 9, Role: model.RoleHost}, p.ID, day(5), day(8), true)
    if !errors.Is(err, ErrForbidden) {
        t.Fatalf("err = %v, want ErrForbidden", err)
    }
}

func TestBlackoutExpiresLapsedHold(t *testing.T) {
    s := newMemStore()
    e, clk := newTestEngine(s)
    p := instantProperty(s, 1)
    stale := admit(t, e, 2, p.ID, 5, 8)
    host := Caller{ID: 1, Role: model.RoleHost}

    clk.Advance(16 * time.Minute)
    if err := e.SetBlackout(context.Background(), host, p.ID, day(5), day(8), true); err != nil {
        t.Fatalf("blackout over lapsed hold: %v", err)
    }
    if got := s.bookings[stale.ID].Status; got != model.StatusExpired {
        t.Errorf("stale booking status = %s, want %s", got, model.StatusExpired)
    }
}
