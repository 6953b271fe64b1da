package planner

import "time"

// startOfDay truncates t to midnight in its own location. All day
// windows are local-calendar based, not UTC-naive.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// withinDay reports whether instant falls inside the calendar day that
// contains ref, evaluated in ref's location.
func withinDay(instant, ref time.Time) bool {
	day := startOfDay(ref)
	next := day.AddDate(0, 0, 1)
	local := instant.In(ref.Location())
	return !local.Before(day) && local.Before(next)
}
