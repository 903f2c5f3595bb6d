package types

import (
	"fmt"
	"time"
)

// NextBillingDate calculates the next billing date based on the given start time,
// billing interval, and interval count (the frequency multiplier).
// For example:
// - If billing interval is month and count is 2, we add two months.
// - If billing interval is year and count is 1, we add one year.
// - If billing interval is day and count is 10, we add 10 days.
// - If billing interval is minute and count is 30, we add 30 minutes.
// Month and year steps clamp to the last day of the target month.
func NextBillingDate(start time.Time, count int, interval BillingInterval) (time.Time, error) {
	if count <= 0 {
		return start, fmt.Errorf("billing interval count must be a positive integer, got %d", count)
	}

	switch interval {
	case BillingIntervalMinute:
		return start.Add(time.Duration(count) * time.Minute), nil
	case BillingIntervalDay:
		return start.AddDate(0, 0, count), nil
	case BillingIntervalMonth:
		return AddMonths(start, count), nil
	case BillingIntervalYear:
		return AddYears(start, count), nil
	default:
		return start, fmt.Errorf("invalid billing interval: %s", interval)
	}
}

// AddClampedDate adds years and months to t, clamping the day to the last
// valid day of the resulting month, then adds days.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	// normalise through the first of the month so time.Date never overflows
	first := time.Date(y+years, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	newY, newM, _ := first.Date()

	lastDay := DaysInMonth(newY, newM)
	if d > lastDay {
		d = lastDay
	}

	clamped := time.Date(newY, newM, d, h, min, sec, t.Nanosecond(), t.Location())
	if days != 0 {
		clamped = clamped.AddDate(0, 0, days)
	}
	return clamped
}

// AddMonths adds months to t clamping to the end of the target month
// ex Jan 31 + 1 month = Feb 29 in 2024
func AddMonths(t time.Time, months int) time.Time {
	return AddClampedDate(t, 0, months, 0)
}

// AddYears adds years to t clamping Feb 29 to Feb 28 in non leap years
func AddYears(t time.Time, years int) time.Time {
	return AddClampedDate(t, years, 0, 0)
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this month
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsLastDayOfMonth reports whether t falls on the last day of its month
func IsLastDayOfMonth(t time.Time) bool {
	return t.Day() == DaysInMonth(t.Year(), t.Month())
}

// StartOfDay returns 00:00:00.000 of the day of t in UTC
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns 23:59:59.999 of the day of t in UTC
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// EndOfMonth returns 23:59:59.999 UTC of the last day of the month of t
func EndOfMonth(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month()+1, 1, 0, 0, 0, 0, time.UTC).Add(-time.Millisecond)
}

// AnchorDate returns midnight UTC of the given day in year/month. Days past
// the end of the month clamp to its last day, so day 31 in April is April 30.
func AnchorDate(year int, month time.Month, day int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	y, m, _ := first.Date()
	if last := DaysInMonth(y, m); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}
