package utils

import (
	"log"
	"time"
)

// DateKeyFormat is the calendar-day key layout used everywhere activity
// timestamps are collapsed into day-granularity buckets.
const DateKeyFormat = "2006-01-02"

// ResolveLocation resolves a caller-supplied timezone identifier
// (e.g. "America/New_York") to a *time.Location.
// An empty or unresolvable identifier falls back to UTC; the caller never
// sees an error. A client sending a garbage timezone still gets a streak,
// just computed in UTC.
func ResolveLocation(timeZone string) *time.Location {
	if timeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		log.Printf("WARN: [Dates] Unresolvable timezone '%s', falling back to UTC: %v", timeZone, err)
		return time.UTC
	}
	return loc
}

// DateKey returns the calendar-day key of t in the given location.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateKeyFormat)
}

// OffsetDateKey returns the date key that lies `days` whole calendar days away
// from t's calendar date in the given location. The arithmetic runs on the
// civil date, not on the instant: subtracting milliseconds from "now" does not
// reliably land on the previous calendar day across DST transitions, so the
// day components are shifted instead.
func OffsetDateKey(t time.Time, loc *time.Location, days int) string {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d+days, 0, 0, 0, 0, time.UTC).Format(DateKeyFormat)
}

// EpochDay returns the number of whole calendar days between the Unix epoch
// and t's civil date in the given location. Two timestamps fall on consecutive
// calendar days exactly when their epoch-day numbers differ by one, which is
// what the consecutive-run walks operate on.
func EpochDay(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// StartOfDay returns midnight of t's calendar day in t's own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable second of t's calendar day in t's
// own location. Used to make inclusive [weekStart, weekEnd] windows cover the
// whole final day when querying by timestamp.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
