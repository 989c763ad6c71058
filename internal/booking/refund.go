package booking

import (
    "time"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
)

// refundRule holds the day thresholds of one policy tier: cancel at least
// fullDays before check-in for a full refund, at least halfDays before for
// 50%, otherwise nothing.  halfDays of 0 means the tier has no 50% band.
type refundRule struct {
    fullDays int
    halfDays int
}

var refundRules = map[model.PolicyTier]refundRule{
    model.PolicyFlexible:    {fullDays: 1},
    model.PolicyModerate:    {fullDays: 5, halfDays: 1},
    model.PolicyStrict:      {fullDays: 14, halfDays: 7},
    model.PolicySuperStrict: {fullDays: 30, halfDays: 14},
}

// Refund computes the amount returned to the guest when a booking under the
// given tier is cancelled at `now`.  Pure function of its inputs: a booking
// that was never paid refunds nothing regardless of timing, and the result
// is capped at the total price.  Unknown tiers refund nothing.
func Refund(tier model.PolicyTier, checkIn, now time.Time, totalPrice float64, paid model.PaymentStatus) float64 {
    if paid != model.PaymentPaid {
        return 0
    }
    rule, ok := refundRules[tier]
    if !ok {
        return 0
    }
    days := daysUntil(now, checkIn)
    var refund float64
    switch {
    case days >= rule.fullDays:
        refund = totalPrice
    case rule.halfDays > 0 && days >= rule.halfDays:
        refund = totalPrice * 0.5
    default:
        return 0
    }
    if refund > totalPrice {
        refund = totalPrice
    }
    return refund
}

// DisplayDeadline returns the informational cancellation deadline stored on
// a booking at creation: the last moment the tier still grants a full
// refund.  It exists for display only; Refund never consults it, so the two
// must not be assumed to agree beyond the full-refund cutoff.
func DisplayDeadline(tier model.PolicyTier, checkIn time.Time) time.Time {
    rule, ok := refundRules[tier]
    if !ok {
        return checkIn
    }
    return checkIn.AddDate(0, 0, -rule.fullDays)
}
