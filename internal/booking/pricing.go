package booking

// Fee and tax rates applied to every new booking.  The service fee is
// charged to the guest on top of the subtotal; the platform commission is
// deducted from the host's side of the same subtotal.
const (
    serviceFeeRate = 0.10
    taxRate        = 0.12
    commissionRate = 0.15
)

// Quote is the full price breakdown for a stay.  It is computed once at
// admission and stored on the booking; the property's rate may change
// afterwards without affecting it.
type Quote struct {
    Nights             int     `json:"nights"`
    NightlyRate        float64 `json:"nightly_rate"`
    Subtotal           float64 `json:"subtotal"`
    CleaningFee        float64 `json:"cleaning_fee"`
    ServiceFee         float64 `json:"service_fee"`
    TaxAmount          float64 `json:"tax_amount"`
    TotalPrice         float64 `json:"total_price"`
    PlatformCommission float64 `json:"platform_commission"`
    HostEarnings       float64 `json:"host_earnings"`
}

// Price computes the quote for a stay of the given number of nights.  Pure:
// same inputs always produce the same breakdown.
//
//  subtotal   = nights * nightlyRate
//  serviceFee = subtotal * 10%
//  tax        = (subtotal + serviceFee) * 12%
//  total      = subtotal + cleaningFee + serviceFee + tax
//  commission = subtotal * 15%, hostEarnings = subtotal - commission
func Price(nights int, nightlyRate, cleaningFee float64) Quote {
    subtotal := float64(nights) * nightlyRate
    serviceFee := subtotal * serviceFeeRate
    tax := (subtotal + serviceFee) * taxRate
    commission := subtotal * commissionRate
    return Quote{
        Nights:             nights,
        NightlyRate:        nightlyRate,
        Subtotal:           subtotal,
        CleaningFee:        cleaningFee,
        ServiceFee:         serviceFee,
        TaxAmount:          tax,
        TotalPrice:         subtotal + cleaningFee + serviceFee + tax,
        PlatformCommission: commission,
        HostEarnings:       subtotal - commission,
    }
}
