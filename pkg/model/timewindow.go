package model

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TimeWindow is the resolved absolute [Start, End) pair for a reservation or
// an operating-hours range. End is always after Start: a local end time at or
// before the local start time is interpreted as crossing into the next
// calendar day (a 23:00-01:00 private dining booking is legitimate).
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// ResolveWindow computes the absolute window for a date and local start/end
// times given as "YYYY-MM-DD" and "HH:MM" strings.
func ResolveWindow(date, startTime, endTime string) (TimeWindow, error) {
	day, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return TimeWindow{}, fmt.Errorf("invalid date %q: %w", date, err)
	}

	start, err := atTime(day, startTime)
	if err != nil {
		return TimeWindow{}, err
	}

	end, err := atTime(day, endTime)
	if err != nil {
		return TimeWindow{}, err
	}

	// Midnight crossed
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}

	return TimeWindow{Start: start, End: end}, nil
}

func atTime(day time.Time, localTime string) (time.Time, error) {
	t, err := time.ParseInLocation(TimeLayout, localTime, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", localTime, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.Local), nil
}

// Overlaps reports whether two half-open windows intersect. Touching
// endpoints do not conflict: an 18:30 end followed by an 18:30 start is fine.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.Before(other.End) && w.End.After(other.Start)
}

// Within reports whether w lies entirely inside outer.
func (w TimeWindow) Within(outer TimeWindow) bool {
	return !w.Start.Before(outer.Start) && !w.End.After(outer.End)
}

func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}
