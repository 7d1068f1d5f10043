package services

import (
	"strings"
	"time"
)

// weekdayNames is indexed by time.Weekday (Sunday = 0).
var weekdayNames = [7]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var weekdayAliases = map[string]string{
	"miercoles": "miércoles",
	"sabado":    "sábado",
}

func WeekdayName(day time.Weekday) string {
	return weekdayNames[int(day)%len(weekdayNames)]
}

// ParseWeekday matches a Spanish weekday name case-insensitively. The
// unaccented spellings of miércoles and sábado are accepted too.
func ParseWeekday(raw string) (time.Weekday, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := weekdayAliases[normalized]; ok {
		normalized = canonical
	}
	for index, name := range weekdayNames {
		if name == normalized {
			return time.Weekday(index), true
		}
	}
	return time.Sunday, false
}

// ParseClock reads a 24-hour HH:MM value.
func ParseClock(raw string) (hour int, minute int, ok bool) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(raw))
	if err != nil {
		return 0, 0, false
	}
	return parsed.Hour(), parsed.Minute(), true
}

// NextOccurrence returns the next time the weekday/clock pair happens at or
// after now. When the weekday is today and the time has already passed, the
// occurrence rolls to the same weekday next week.
func NextOccurrence(now time.Time, day string, clock string) (time.Time, bool) {
	weekday, ok := ParseWeekday(day)
	if !ok {
		return time.Time{}, false
	}
	hour, minute, ok := ParseClock(clock)
	if !ok {
		return time.Time{}, false
	}
	return nextOccurrence(now, weekday, hour, minute), true
}

func nextOccurrence(now time.Time, weekday time.Weekday, hour int, minute int) time.Time {
	year, month, date := now.Date()
	location := now.Location()

	offset := (int(weekday) - int(now.Weekday()) + 7) % 7
	if offset == 0 && now.After(time.Date(year, month, date, hour, minute, 0, 0, location)) {
		offset = 7
	}
	return time.Date(year, month, date+offset, hour, minute, 0, 0, location)
}

func sameDate(a time.Time, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
