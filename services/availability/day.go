package availability

import (
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// Day-first layouts win over ISO because they are tried first.
var dateLayouts = []string{"2/1/2006", "2-1-2006", "2006-01-02"}

// ResolveDay maps a day reference onto midnight of a calendar date in now's
// location. Weekday names resolve to the next occurrence of that weekday,
// today included.
func ResolveDay(ref string, now time.Time) (time.Time, bool) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	today := midnight(now)

	switch ref {
	case "":
		return time.Time{}, false
	case "today":
		return today, true
	case "tomorrow":
		return today.AddDate(0, 0, 1), true
	}
	if wd, ok := weekdays[ref]; ok {
		ahead := (int(wd) - int(today.Weekday()) + 7) % 7
		return today.AddDate(0, 0, ahead), true
	}
	for _, layout := range dateLayouts {
		if d, err := time.ParseInLocation(layout, ref, now.Location()); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// atHour is wall-clock hour h on day, safe across DST shifts.
func atHour(day time.Time, h int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), h, 0, 0, 0, day.Location())
}
