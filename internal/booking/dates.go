package booking

import "time"

// DateOnly truncates a timestamp to its calendar day in UTC.  Conflict
// checks and the availability ledger operate on whole days; time-of-day is
// irrelevant to occupancy.
func DateOnly(t time.Time) time.Time {
    t = t.UTC()
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NightsBetween returns the number of nights covered by the half-open range
// [checkIn, checkOut).  Inputs that are not aligned to midnight count any
// partial day as a full night.
func NightsBetween(checkIn, checkOut time.Time) int {
    d := checkOut.Sub(checkIn)
    n := int(d / (24 * time.Hour))
    if d%(24*time.Hour) > 0 {
        n++
    }
    return n
}

// daysUntil returns the number of days from now until the given day,
// rounding any partial day up.  Negative when the day has passed.
func daysUntil(now, day time.Time) int {
    d := day.Sub(now)
    n := int(d / (24 * time.Hour))
    if d%(24*time.Hour) > 0 {
        n++
    }
    return n
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) share at least one day.  Check-out day is exclusive, so
// back-to-back stays do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
    return aStart.Before(bEnd) && aEnd.After(bStart)
}

// eachDay calls fn for every day in the half-open range [from, to).
func eachDay(from, to time.Time, fn func(day time.Time)) {
    for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
        fn(d)
    }
}
