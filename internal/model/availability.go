package model

import "time"

// BlockSource tags why a calendar day is blocked.  MANUAL rows are host
// blackouts; BOOKING rows are side effects of an admitted booking and carry
// the booking id.  The distinction matters on release: cancelling a booking
// removes only its own rows and never re-opens a day the host blacked out
// separately.
type BlockSource string

const (
    BlockManual  BlockSource = "MANUAL"
    BlockBooking BlockSource = "BOOKING"
)

// AvailabilityDay is one blocked calendar day of one property.  Days with
// no row are available; rows are created when a range is blocked and
// deleted when it is released.
//
// Fields:
//  ID         – primary key identifier.
//  PropertyID – property whose calendar this day belongs to.
//  Day        – the blocked calendar day (midnight UTC).
//  Source     – MANUAL or BOOKING.
//  BookingID  – the blocking booking when Source is BOOKING (nullable).
//  CreatedAt  – creation timestamp.
type AvailabilityDay struct {
    ID         uint64      `json:"id"`
    PropertyID uint64      `json:"property_id"`
    Day        time.Time   `json:"day"`
    Source     BlockSource `json:"source"`
    BookingID  *uint64     `json:"booking_id,omitempty"`
    CreatedAt  time.Time   `json:"created_at"`
}
