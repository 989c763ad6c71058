package model

import "time"

// PropertyStatus captures the listing state of a property.  Only ACTIVE
// properties accept new bookings.
type PropertyStatus string

const (
    PropertyActive    PropertyStatus = "ACTIVE"
    PropertyInactive  PropertyStatus = "INACTIVE"
    PropertySuspended PropertyStatus = "SUSPENDED"
)

// PolicyTier enumerates the cancellation policy tiers a host can attach to
// a property.  The tier is snapshotted onto every booking at creation so a
// later policy change never affects existing bookings.
type PolicyTier string

const (
    PolicyFlexible    PolicyTier = "FLEXIBLE"
    PolicyModerate    PolicyTier = "MODERATE"
    PolicyStrict      PolicyTier = "STRICT"
    PolicySuperStrict PolicyTier = "SUPER_STRICT"
)

// Valid reports whether the tier is one of the known values.
func (t PolicyTier) Valid() bool {
    switch t {
    case PolicyFlexible, PolicyModerate, PolicyStrict, PolicySuperStrict:
        return true
    }
    return false
}

// Property is the read-mostly catalog record the booking engine consults.
// Pricing configuration lives here; the engine copies the numbers onto a
// booking at admission time and never reads them again for that booking.
//
// Fields:
//  ID                  – primary key identifier.
//  HostID              – the owning user.
//  Title               – display name of the listing.
//  Status              – listing state; only ACTIVE is bookable.
//  MaxGuests           – maximum adults+children permitted per stay.
//  NightlyRate         – price per night.
//  CleaningFee         – flat fee added once per stay.
//  InstantBook         – booking skips host approval when set (and
//                        RequestToBook is not).
//  RequestToBook       – host approval required before payment.
//  ApprovalWindowHours – how long a request-to-book hold lasts.
//  CancellationPolicy  – tier applied to new bookings.
type Property struct {
    ID                  uint64         `json:"id"`
    HostID              uint64         `json:"host_id"`
    Title               string         `json:"title"`
    Status              PropertyStatus `json:"status"`
    MaxGuests           int            `json:"max_guests"`
    NightlyRate         float64        `json:"nightly_rate"`
    CleaningFee         float64        `json:"cleaning_fee"`
    InstantBook         bool           `json:"instant_book"`
    RequestToBook       bool           `json:"request_to_book"`
    ApprovalWindowHours int            `json:"approval_window_hours"`
    CancellationPolicy  PolicyTier     `json:"cancellation_policy"`
    CreatedAt           time.Time      `json:"created_at"`
    UpdatedAt           time.Time      `json:"updated_at"`
}
