// Package queue defines message payloads exchanged over the message broker.
package queue

// Event kinds published to the booking.events queue.
const (
    KindConfirmed = "booking.confirmed"
    KindCancelled = "booking.cancelled"
    KindDeclined  = "booking.declined"
)

// BookingEvent is published whenever a booking confirms or is taken off
// the calendar.  It carries enough information for downstream consumers to
// notify guests and hosts without querying the primary database.
type BookingEvent struct {
    Kind         string  `json:"kind"`
    BookingID    uint64  `json:"booking_id"`
    PropertyID   uint64  `json:"property_id"`
    GuestID      uint64  `json:"guest_id"`
    HostID       uint64  `json:"host_id"`
    CheckIn      string  `json:"check_in"`
    CheckOut     string  `json:"check_out"`
    Nights       int     `json:"nights"`
    TotalPrice   float64 `json:"total_price"`
    RefundAmount float64 `json:"refund_amount,omitempty"`
    Reason       string  `json:"reason,omitempty"`
    OccurredAt   string  `json:"occurred_at"`
}
