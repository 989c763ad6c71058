package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  The set is
// closed: transitions between statuses are validated against an explicit
// table in the booking package and anything not listed there is rejected.
type BookingStatus string

// Booking lifecycle statuses.  COMPLETED, REJECTED, CANCELLED and EXPIRED
// are terminal and never transition further.
const (
    StatusRequested       BookingStatus = "REQUESTED"
    StatusAwaitingPayment BookingStatus = "AWAITING_PAYMENT"
    StatusApproved        BookingStatus = "APPROVED"
    StatusConfirmed       BookingStatus = "CONFIRMED"
    StatusCheckedIn       BookingStatus = "CHECKED_IN"
    StatusCompleted       BookingStatus = "COMPLETED"
    StatusRejected        BookingStatus = "REJECTED"
    StatusCancelled       BookingStatus = "CANCELLED"
    StatusExpired         BookingStatus = "EXPIRED"
)

// Terminal reports whether the status admits no further transitions.
func (s BookingStatus) Terminal() bool {
    switch s {
    case StatusCompleted, StatusRejected, StatusCancelled, StatusExpired:
        return true
    }
    return false
}

// PaymentStatus tracks the payment side of a booking.  Transitions are
// driven by the external payment processor's callback (PENDING -> PAID)
// and by refund-bearing cancellations (PAID -> REFUNDED).
type PaymentStatus string

const (
    PaymentPending  PaymentStatus = "PENDING"
    PaymentPaid     PaymentStatus = "PAID"
    PaymentRefunded PaymentStatus = "REFUNDED"
)

// CancelActor records which side of the booking initiated a cancellation.
type CancelActor string

const (
    CancelByGuest CancelActor = "GUEST"
    CancelByHost  CancelActor = "HOST"
)

// Booking is the central entity: a guest's reservation of a property for a
// half-open date range [CheckIn, CheckOut).  All monetary fields are
// captured once at creation from the property's rate at that moment and
// never recomputed; later rate changes must not alter an existing booking.
//
// Fields:
//  ID                   – primary key identifier.
//  PropertyID           – property being reserved.
//  GuestID              – user who requested the stay.
//  HostID               – owner of the property, denormalized for role checks.
//  CheckIn              – first occupied day (midnight UTC).
//  CheckOut             – day of departure, exclusive; not occupied.
//  Nights               – derived night count.
//  Adults/Children/Infants – guest counts as submitted.
//  NightlyRate..HostEarnings – price breakdown locked at creation.
//  Status               – lifecycle status.
//  PaymentStatus        – PENDING, PAID or REFUNDED.
//  PaymentRef           – external processor reference (nullable).
//  PaidAt               – capture timestamp (nullable).
//  HoldExpiresAt        – deadline after which an unpaid/unapproved booking
//                         stops being a valid conflict; nil once paid.
//  CancellationPolicy   – policy tier snapshot taken at creation.
//  CancellationDeadline – informational display date; refund math never
//                         reads it (see the policy tier table instead).
//  CancelReason/CancelledBy/RefundAmount – set on cancellation only.
//  CreatedAt..DeletedAt – audit timestamps; DeletedAt is the soft delete.
type Booking struct {
    ID         uint64    `json:"id"`
    PropertyID uint64    `json:"property_id"`
    GuestID    uint64    `json:"guest_id"`
    HostID     uint64    `json:"host_id"`

    CheckIn  time.Time `json:"check_in"`
    CheckOut time.Time `json:"check_out"`
    Nights   int       `json:"nights"`
    Adults   int       `json:"adults"`
    Children int       `json:"children"`
    Infants  int       `json:"infants"`

    NightlyRate        float64 `json:"nightly_rate"`
    Subtotal           float64 `json:"subtotal"`
    CleaningFee        float64 `json:"cleaning_fee"`
    ServiceFee         float64 `json:"service_fee"`
    TaxAmount          float64 `json:"tax_amount"`
    TotalPrice         float64 `json:"total_price"`
    PlatformCommission float64 `json:"platform_commission"`
    HostEarnings       float64 `json:"host_earnings"`

    Status        BookingStatus `json:"status"`
    PaymentStatus PaymentStatus `json:"payment_status"`
    PaymentRef    *string       `json:"payment_ref,omitempty"`
    PaidAt        *time.Time    `json:"paid_at,omitempty"`
    HoldExpiresAt *time.Time    `json:"hold_expires_at,omitempty"`

    CancellationPolicy   PolicyTier  `json:"cancellation_policy"`
    CancellationDeadline *time.Time  `json:"cancellation_deadline,omitempty"`
    CancelReason         *string     `json:"cancel_reason,omitempty"`
    CancelledBy          CancelActor `json:"cancelled_by,omitempty"`
    RefundAmount         float64     `json:"refund_amount"`

    CreatedAt   time.Time  `json:"created_at"`
    ApprovedAt  *time.Time `json:"approved_at,omitempty"`
    ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
    CancelledAt *time.Time `json:"cancelled_at,omitempty"`
    CompletedAt *time.Time `json:"completed_at,omitempty"`
    DeletedAt   *time.Time `json:"deleted_at,omitempty"`
    UpdatedAt   time.Time  `json:"updated_at"`
}
