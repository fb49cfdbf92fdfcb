// Package models contains data structures used throughout the application
package models

import (
	"sort"
	"time"

	"github.com/juliexu77/aster-tray/internal/timeutil"
)

// Kind discriminates the per-kind detail payload of an Event.
type Kind string

// Activity kinds logged by the Aster app.
const (
	KindFeed        Kind = "feed"
	KindSleep       Kind = "sleep"
	KindDiaper      Kind = "diaper"
	KindSolids      Kind = "solids"
	KindNote        Kind = "note"
	KindMeasurement Kind = "measurement"
	KindPhoto       Kind = "photo"
)

// Event represents a single activity entry from the Aster log. Exactly one
// of the detail pointers matches Kind; the rest stay nil, so consumers
// switch on Kind instead of probing fields.
type Event struct {
	ID      string `json:"_id"`
	Kind    Kind   `json:"kind"`
	Date    int64  `json:"date"` // Unix timestamp in milliseconds
	DateStr string `json:"dateString"`

	Feed        *FeedDetails        `json:"feed,omitempty"`
	Sleep       *SleepDetails       `json:"sleep,omitempty"`
	Diaper      *DiaperDetails      `json:"diaper,omitempty"`
	Solids      *SolidsDetails      `json:"solids,omitempty"`
	Note        *NoteDetails        `json:"note,omitempty"`
	Measurement *MeasurementDetails `json:"measurement,omitempty"`
	Photo       *PhotoDetails       `json:"photo,omitempty"`
}

// FeedDetails carries a bottle amount or per-side nursing durations.
type FeedDetails struct {
	AmountML     float64          `json:"amountMl,omitempty"`
	Unit         string           `json:"unit,omitempty"` // "ml" or "oz"
	LeftMinutes  timeutil.Minutes `json:"leftMinutes,omitempty"`
	RightMinutes timeutil.Minutes `json:"rightMinutes,omitempty"`
}

// NursingMinutes returns the combined nursing time across both sides.
func (f *FeedDetails) NursingMinutes() int {
	return f.LeftMinutes.Int() + f.RightMinutes.Int()
}

// SleepDetails describes a sleep interval. EndClock is empty while the
// sleep is still in progress.
type SleepDetails struct {
	StartClock string           `json:"startTime"` // "7:30 PM"
	EndClock   string           `json:"endTime,omitempty"`
	Duration   timeutil.Minutes `json:"duration,omitempty"`
	NightSleep bool             `json:"nightSleep,omitempty"`
	DreamFeed  bool             `json:"dreamFeed,omitempty"` // supplemental feed logged against the night sleep
}

// DiaperDetails records what the change found.
type DiaperDetails struct {
	Wet    bool `json:"wet,omitempty"`
	Soiled bool `json:"soiled,omitempty"`
}

// SolidsDetails records a solid-food tasting.
type SolidsDetails struct {
	Food     string `json:"food,omitempty"`
	Reaction string `json:"reaction,omitempty"`
}

// NoteDetails is a free-text entry.
type NoteDetails struct {
	Text string `json:"text,omitempty"`
}

// MeasurementDetails records growth checkpoints.
type MeasurementDetails struct {
	WeightKG float64 `json:"weightKg,omitempty"`
	HeightCM float64 `json:"heightCm,omitempty"`
}

// PhotoDetails references an uploaded photo.
type PhotoDetails struct {
	URL string `json:"url,omitempty"`
}

// Time returns the occurrence instant of the event, falling back to the
// dateString field when the millisecond timestamp is absent. A zero return
// marks the event as unusable; callers skip those rather than fail.
func (e *Event) Time() time.Time {
	if e.Date > 0 {
		return time.UnixMilli(e.Date)
	}
	parsed, err := time.Parse(time.RFC3339, e.DateStr)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// HasTime reports whether the event carries a parseable occurrence instant.
func (e *Event) HasTime() bool {
	return !e.Time().IsZero()
}

// IsOngoingSleep reports whether this is a sleep entry with a start but no
// recorded end yet.
func (e *Event) IsOngoingSleep() bool {
	return e.Kind == KindSleep && e.Sleep != nil && e.Sleep.EndClock == ""
}

// SleepStart returns the absolute start instant of a sleep event: the
// event's local day at the start clock, or the occurrence instant itself
// when the clock string is unreadable.
func (e *Event) SleepStart() time.Time {
	t := e.Time()
	if e.Sleep == nil || t.IsZero() {
		return t
	}
	if minutes, ok := timeutil.ParseClock(e.Sleep.StartClock); ok {
		return timeutil.AtClock(t.Local(), minutes)
	}
	return t
}

// SleepMinutes returns the recorded length of a sleep interval. Paired
// start/end clocks win, with midnight wrap handled; otherwise the duration
// field is used; an ongoing or unreadable interval yields 0.
func (e *Event) SleepMinutes() int {
	if e.Sleep == nil {
		return 0
	}
	start, okStart := timeutil.ParseClock(e.Sleep.StartClock)
	end, okEnd := timeutil.ParseClock(e.Sleep.EndClock)
	if okStart && okEnd {
		return timeutil.IntervalMinutes(start, end)
	}
	return e.Sleep.Duration.Int()
}

// SleepEnd returns the absolute end instant of a completed sleep event and
// whether one exists.
func (e *Event) SleepEnd() (time.Time, bool) {
	if e.Sleep == nil || e.Sleep.EndClock == "" {
		return time.Time{}, false
	}
	start := e.SleepStart()
	if start.IsZero() {
		return time.Time{}, false
	}
	return start.Add(time.Duration(e.SleepMinutes()) * time.Minute), true
}

// SortedByTime returns a copy of events ordered by occurrence instant,
// with entries missing a parseable instant dropped. The log arrives ordered
// by insertion, so callers must never assume time order.
func SortedByTime(events []Event) []Event {
	sorted := make([]Event, 0, len(events))
	for _, e := range events {
		if e.HasTime() {
			sorted = append(sorted, e)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Time().Before(sorted[j].Time())
	})
	return sorted
}

// OngoingSleep returns the sleep event in progress, or nil. When the log
// holds more than one unfinished sleep the most recently started one wins;
// that is a deterministic tie-break, not an error.
func OngoingSleep(events []Event) *Event {
	var latest *Event
	for i := range events {
		e := &events[i]
		if !e.IsOngoingSleep() || !e.HasTime() {
			continue
		}
		if latest == nil || e.SleepStart().After(latest.SleepStart()) {
			latest = e
		}
	}
	return latest
}

// LastCompletedSleep returns the most recent sleep event that has both a
// start and an end, or nil when none exists.
func LastCompletedSleep(events []Event) *Event {
	var latest *Event
	var latestEnd time.Time
	for i := range events {
		e := &events[i]
		end, ok := e.SleepEnd()
		if !ok {
			continue
		}
		if latest == nil || end.After(latestEnd) {
			latest = e
			latestEnd = end
		}
	}
	return latest
}

// CountToday counts events of the given kind whose instant falls on the
// same local day as now.
func CountToday(events []Event, kind Kind, now time.Time) int {
	count := 0
	for i := range events {
		e := &events[i]
		if e.Kind != kind || !e.HasTime() {
			continue
		}
		if timeutil.SameLocalDay(now, e.Time()) {
			count++
		}
	}
	return count
}
