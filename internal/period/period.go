// Package period holds the time-window helpers shared by the analyzers.
package period

import (
	"math"
	"time"
)

const (
	Day     = 24 * time.Hour
	dateFmt = "2006-01-02"
)

// Window is a closed time range [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Last returns the window of the given number of days ending at now.
func Last(days int, now time.Time) Window {
	return Window{Start: now.Add(-time.Duration(days) * Day), End: now}
}

func (w Window) Duration() time.Duration { return w.End.Sub(w.Start) }

// Minutes is the window length in whole minutes.
func (w Window) Minutes() int64 {
	return int64(w.Duration() / time.Minute)
}

// TotalDays is the window length in days, rounded up.
func (w Window) TotalDays() int {
	d := w.Duration()
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(float64(d) / float64(Day)))
}

// Contains reports whether t lies inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// DayKey formats t as a calendar date in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateFmt)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekStart returns midnight of the Sunday that begins t's week.
func WeekStart(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}
