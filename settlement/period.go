package settlement

import "time"

// Period is a half-open time interval [Start, End) used to scope every
// settlement aggregate. Bills are filtered by due date, meals by meal
// date, expenses and deposits by creation time.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Month returns the period covering one calendar month.
func Month(year int, month time.Month, loc *time.Location) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Period{Start: start, End: start.AddDate(0, 1, 0)}
}

// TrailingWindow returns the period covering the last n whole months up
// to and including now. Used by the punctuality selector (1/3/6/12/24).
func TrailingWindow(now time.Time, months int) Period {
	if months < 1 {
		months = 1
	}
	return Period{Start: now.AddDate(0, -months, 0), End: now.Add(time.Nanosecond)}
}

// dateOf truncates a timestamp to its calendar day.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
