package types

import "time"

// TimeFormat is how cycle boundaries are logged and cached, always UTC
// with millisecond precision so inclusive ends show as .999
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// MaxTime returns the later of a and b
func MaxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// MinTime returns the earlier of a and b
func MinTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
