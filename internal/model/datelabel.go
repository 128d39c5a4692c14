package model

import (
	"fmt"
	"time"
)

// DateLabel groups a timestamp for display: "today", "yesterday", or
// "Jan 2". Days are compared on the calendar in now's location; the time of
// day is ignored.
func DateLabel(t, now time.Time) string {
	t = t.In(now.Location())
	day := calendarDay(t)
	today := calendarDay(now)

	switch {
	case day.Equal(today):
		return "today"
	case day.Equal(today.AddDate(0, 0, -1)):
		return "yesterday"
	}
	return fmt.Sprintf("%s %d", t.Format("Jan"), t.Day())
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
