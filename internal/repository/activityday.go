package repository

import "time"

// ActivityDay returns the UTC calendar day (YYYY-MM-DD) a timestamp falls on.
// Preparation history is bucketed by this for the per-day API routes.
func ActivityDay(ts time.Time) string {
	return ts.UTC().Format("2006-01-02")
}

// ActivityDayNow returns the activity day for the current moment.
func ActivityDayNow() string {
	return ActivityDay(time.Now())
}
