// Package timeutil normalizes the time representations found in Aster log
// entries: 12-hour display clocks, composite duration strings, and local
// calendar-day windows. Every other package parses times through here.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the wrap period for clock arithmetic.
const MinutesPerDay = 24 * 60

// ParseClock parses a 12-hour display string ("h:mm AM/PM") into minutes
// after midnight. The 12 o'clock edge cases resolve the usual way: 12 AM is
// hour 0, 12 PM stays hour 12. Unparseable input returns ok=false rather
// than an error; callers treat that as "unknown".
func ParseClock(s string) (minutes int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, false
	}

	clock := fields[0]
	meridiem := strings.ToUpper(fields[1])
	if meridiem != "AM" && meridiem != "PM" {
		return 0, false
	}

	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 1 || hour > 12 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}

	if hour == 12 {
		hour = 0
	}
	if meridiem == "PM" {
		hour += 12
	}

	return hour*60 + minute, true
}

// FormatClock renders minutes after midnight as a 12-hour display string,
// the inverse of ParseClock.
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay

	hour := minutes / 60
	minute := minutes % 60

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}

	display := hour % 12
	if display == 0 {
		display = 12
	}

	return fmt.Sprintf("%d:%02d %s", display, minute, meridiem)
}

// IntervalMinutes returns the elapsed minutes from start to end, both given
// as minutes after midnight. An end numerically before its start is an
// interval crossing midnight, so a day is added before subtracting. The
// result is never negative.
func IntervalMinutes(start, end int) int {
	if end < start {
		end += MinutesPerDay
	}
	return end - start
}

// ParseDuration resolves a duration field that may be a composite
// "<H>h <M>m" token or a bare integer count of minutes. Missing or
// unparseable input resolves to 0, never an error.
func ParseDuration(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}

	total := 0
	matched := false
	for _, field := range strings.Fields(strings.ToLower(s)) {
		switch {
		case strings.HasSuffix(field, "h"):
			if n, err := strconv.Atoi(strings.TrimSuffix(field, "h")); err == nil && n >= 0 {
				total += n * 60
				matched = true
			}
		case strings.HasSuffix(field, "m"):
			if n, err := strconv.Atoi(strings.TrimSuffix(field, "m")); err == nil && n >= 0 {
				total += n
				matched = true
			}
		}
	}

	if !matched {
		return 0
	}
	return total
}

// FormatShortDuration renders a minute count compactly ("1h 20m", "45m")
// for tray labels and tooltips.
func FormatShortDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// SameLocalDay reports whether a and b fall on the same calendar day in the
// local zone of a. Day windowing deliberately avoids UTC comparisons, which
// shift entries across midnight near timezone edges.
func SameLocalDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.In(a.Location()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// MinutesOfDay returns the minutes after local midnight for t.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// AtClock returns the instant on the same local day as ref at the given
// minutes after midnight.
func AtClock(ref time.Time, minutes int) time.Time {
	y, m, d := ref.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, ref.Location())
}

// DayKey returns a stable per-local-day grouping key for t.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
