package utils

import "time"

// StartOfMonth returns midnight UTC on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonthlyReset returns the first day of the month following t.
// Monthly usage counters roll over at this boundary.
func NextMonthlyReset(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0)
}
