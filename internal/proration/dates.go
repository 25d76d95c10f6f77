package proration

import (
	"math"
	"time"
)

const msPerDay = 24 * 60 * 60 * 1000

// AtNoon pins a date to 12:00 UTC. All day arithmetic in this package runs on
// noon-normalized times so that daylight-saving shifts and time-of-day noise in
// the inputs can never change a day count.
func AtNoon(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// InclusiveDays counts whole calendar days in [start, end], boundaries
// included: a period whose start and end fall on the same date is 1 day long.
func InclusiveDays(start, end time.Time) int {
	diff := AtNoon(end).Sub(AtNoon(start)).Milliseconds()
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(float64(diff)/float64(msPerDay))) + 1
}

// SameOrBefore reports whether a falls on the same calendar day as b or earlier.
func SameOrBefore(a, b time.Time) bool {
	return !AtNoon(a).After(AtNoon(b))
}

// SameOrAfter reports whether a falls on the same calendar day as b or later.
func SameOrAfter(a, b time.Time) bool {
	return !AtNoon(a).Before(AtNoon(b))
}

func maxDate(a, b time.Time) time.Time {
	if AtNoon(a).After(AtNoon(b)) {
		return a
	}
	return b
}

func minDate(a, b time.Time) time.Time {
	if AtNoon(a).Before(AtNoon(b)) {
		return a
	}
	return b
}
