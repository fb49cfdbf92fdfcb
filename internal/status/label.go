// Package status turns the current moment of the activity log into one
// short human-readable phrase for the tray. The logic is an explicit
// ordered list of (predicate, formatter) rules evaluated top to bottom,
// first match wins; the priority lives in the table, not in control flow.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/juliexu77/aster-tray/internal/models"
	"github.com/juliexu77/aster-tray/internal/timeutil"
)

// Label thresholds, all in minutes unless noted.
const (
	justFellAsleepMax = 5
	quickSnoozeMax    = 20
	longSnoozeMin     = 90

	recentEventWindow = 15
	justWokeMax       = 5

	gettingSleepyMin = 120
	windDownMin      = 150

	fullBellyML      = 150
	fullBellyNursing = 20

	// The cat-nap band: a nap starting between 16:30 and 18:30 gets its
	// own label ahead of the broader afternoon one.
	catNapStart = 16*60 + 30
	catNapEnd   = 18*60 + 30

	// Ordinal feed call-outs. Literal milestones carried over from the
	// app; do not generalize.
	thirdFeedOfDay = 3
	fifthFeedOfDay = 5
)

// Generator holds the night-window boundary hours. The window wraps
// midnight whenever the start hour is numerically greater than the end.
type Generator struct {
	NightStartHour int
	NightEndHour   int
}

// NewGenerator returns a Generator with the given boundary hours.
// Documented defaults are 19 and 5.
func NewGenerator(nightStartHour, nightEndHour int) *Generator {
	return &Generator{NightStartHour: nightStartHour, NightEndHour: nightEndHour}
}

// moment is the precomputed view of the snapshot that every rule reads.
type moment struct {
	gen     *Generator
	events  []models.Event // sorted by instant
	ongoing *models.Event
	now     time.Time

	asleepMinutes   int // valid when ongoing != nil
	napStartMinutes int // minutes of day, valid when ongoing != nil

	recent        *models.Event // most recent event, nil when log empty
	recentMinutes int           // minutes since recent

	lastWake      time.Time // end of last completed sleep, zero when none
	awakeMinutes  int       // valid when lastWake is set
	lastSleepMins int       // duration of last completed sleep
}

// rule is one (predicate, formatter) pair.
type rule struct {
	when  func(m *moment) bool
	label func(m *moment) string
}

// rules is the full priority order. Every predicate and formatter is
// total: absent fields fail the predicate and fall through.
var rules = []rule{
	// Ongoing sleep.
	{whenOngoingNightStart, func(m *moment) string { return "Down for the night" }},
	{whenJustFellAsleep, func(m *moment) string { return "Just fell asleep" }},
	{whenSleepingThroughNight, func(m *moment) string { return "Soundly asleep" }},
	{whenFirstNap, func(m *moment) string { return "First nap" }},
	{whenCatNap, func(m *moment) string { return "Cat nap" }},
	{whenQuickSnooze, func(m *moment) string { return "Quick snooze" }},
	{whenLongSnooze, func(m *moment) string { return "Long snooze" }},
	{whenAfternoonNap, func(m *moment) string { return "Afternoon nap" }},
	{whenAnyOngoing, func(m *moment) string { return "Taking a nap" }},

	// Most recent event, when it happened moments ago.
	{whenWokeFromQuickSnooze, func(m *moment) string { return "Up from a quick snooze" }},
	{whenWokeFromLongSnooze, func(m *moment) string { return "Up from a long snooze" }},
	{whenJustWoke, func(m *moment) string { return "Just woke up" }},
	{whenRecentlyWoke, func(m *moment) string { return "Recently woke up" }},
	{whenNightFeed, func(m *moment) string { return "Night feed · back down soon" }},
	{whenThirdFeed, func(m *moment) string { return "Third feed of the day" }},
	{whenFifthFeed, func(m *moment) string { return "Fifth feed of the day" }},
	{whenFullBellyFeed, func(m *moment) string { return "Full belly" }},
	{whenRecentFeed, func(m *moment) string { return "Finished a feed" }},
	{whenFirstTasteSolids, formatFirstTaste},
	{whenRecentSolids, func(m *moment) string { return "Tried some solids" }},
	{whenSoiledDiaper, func(m *moment) string { return "Fresh diaper after a cleanup" }},
	{whenRecentDiaper, func(m *moment) string { return "Fresh diaper" }},

	// Awake fallbacks from the last completed sleep.
	{whenAwakeLong, formatAwakeWindDown},
	{whenAwakeModerate, formatAwakeSleepy},
	{whenAwake, formatAwake},
}

// CurrentLabel returns the phrase for now. ongoing may be nil; passing the
// prediction engine's ongoing-sleep view keeps the two surfaces agreeing.
// With no sleep history at all the answer is the bare "Awake".
func (g *Generator) CurrentLabel(events []models.Event, ongoing *models.Event, now time.Time) string {
	m := g.buildMoment(events, ongoing, now)

	for _, r := range rules {
		if r.when(m) {
			return r.label(m)
		}
	}
	return "Awake"
}

func (g *Generator) buildMoment(events []models.Event, ongoing *models.Event, now time.Time) *moment {
	sorted := models.SortedByTime(events)
	if ongoing == nil {
		ongoing = models.OngoingSleep(sorted)
	}

	m := &moment{gen: g, events: sorted, ongoing: ongoing, now: now}

	if ongoing != nil && ongoing.Sleep != nil {
		start := ongoing.SleepStart()
		m.asleepMinutes = positiveMinutes(now.Sub(start))
		m.napStartMinutes = timeutil.MinutesOfDay(start.Local())
	}

	if len(sorted) > 0 {
		m.recent = &sorted[len(sorted)-1]
		m.recentMinutes = positiveMinutes(now.Sub(m.recent.Time()))
	}

	if last := models.LastCompletedSleep(sorted); last != nil {
		if end, ok := last.SleepEnd(); ok {
			m.lastWake = end
			m.awakeMinutes = positiveMinutes(now.Sub(end))
			m.lastSleepMins = last.SleepMinutes()
		}
	}

	return m
}

func positiveMinutes(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}

// inNightWindow reports whether t falls inside the configured night-sleep
// window, handling the wrap when the start hour exceeds the end hour.
func (g *Generator) inNightWindow(t time.Time) bool {
	hour := t.Local().Hour()
	if g.NightStartHour > g.NightEndHour {
		return hour >= g.NightStartHour || hour < g.NightEndHour
	}
	return hour >= g.NightStartHour && hour < g.NightEndHour
}

// Ongoing-sleep predicates.

func whenOngoingNightStart(m *moment) bool {
	return m.ongoing != nil && m.asleepMinutes < justFellAsleepMax && m.gen.inNightWindow(m.now)
}

func whenJustFellAsleep(m *moment) bool {
	return m.ongoing != nil && m.asleepMinutes < justFellAsleepMax
}

func whenSleepingThroughNight(m *moment) bool {
	return m.ongoing != nil && m.gen.inNightWindow(m.now)
}

// whenFirstNap matches when no other nap has completed today.
func whenFirstNap(m *moment) bool {
	if m.ongoing == nil {
		return false
	}
	for i := range m.events {
		e := &m.events[i]
		if e.Kind != models.KindSleep || e == m.ongoing {
			continue
		}
		if end, ok := e.SleepEnd(); ok && timeutil.SameLocalDay(m.now, end) {
			return false
		}
	}
	return true
}

func whenCatNap(m *moment) bool {
	return m.ongoing != nil && m.napStartMinutes >= catNapStart && m.napStartMinutes < catNapEnd
}

func whenQuickSnooze(m *moment) bool {
	return m.ongoing != nil && m.asleepMinutes < quickSnoozeMax
}

func whenLongSnooze(m *moment) bool {
	return m.ongoing != nil && m.asleepMinutes > longSnoozeMin
}

func whenAfternoonNap(m *moment) bool {
	return m.ongoing != nil && m.napStartMinutes >= 12*60
}

func whenAnyOngoing(m *moment) bool {
	return m.ongoing != nil
}

// Recent-event predicates. All require the most recent event to sit inside
// the qualification window.

func (m *moment) recentIs(kind models.Kind) bool {
	return m.ongoing == nil && m.recent != nil &&
		m.recent.Kind == kind && m.recentMinutes <= recentEventWindow
}

// recentWake is how long ago the most recent sleep ended, when the most
// recent event is a completed sleep. Qualification keys on the end time;
// a long nap is still "recent" right after it ends.
func (m *moment) recentWake() (endedAgo int, ok bool) {
	if m.ongoing != nil || m.recent == nil || m.recent.Kind != models.KindSleep {
		return 0, false
	}
	end, hasEnd := m.recent.SleepEnd()
	if !hasEnd {
		return 0, false
	}
	ago := positiveMinutes(m.now.Sub(end))
	if ago > recentEventWindow {
		return 0, false
	}
	return ago, true
}

func whenWokeFromQuickSnooze(m *moment) bool {
	_, ok := m.recentWake()
	return ok && m.recent.SleepMinutes() < quickSnoozeMax
}

func whenWokeFromLongSnooze(m *moment) bool {
	_, ok := m.recentWake()
	return ok && m.recent.SleepMinutes() > longSnoozeMin
}

func whenJustWoke(m *moment) bool {
	ago, ok := m.recentWake()
	return ok && ago < justWokeMax
}

func whenRecentlyWoke(m *moment) bool {
	_, ok := m.recentWake()
	return ok
}

func whenNightFeed(m *moment) bool {
	return m.recentIs(models.KindFeed) && m.gen.inNightWindow(m.recent.Time())
}

// feedOrdinalToday counts today's feeds up to and including the recent one.
func (m *moment) feedOrdinalToday() int {
	ordinal := 0
	for i := range m.events {
		e := &m.events[i]
		if e.Kind != models.KindFeed || !timeutil.SameLocalDay(m.now, e.Time()) {
			continue
		}
		if e.Time().After(m.recent.Time()) {
			continue
		}
		ordinal++
	}
	return ordinal
}

func whenThirdFeed(m *moment) bool {
	return m.recentIs(models.KindFeed) && m.feedOrdinalToday() == thirdFeedOfDay
}

func whenFifthFeed(m *moment) bool {
	return m.recentIs(models.KindFeed) && m.feedOrdinalToday() == fifthFeedOfDay
}

func whenFullBellyFeed(m *moment) bool {
	if !m.recentIs(models.KindFeed) || m.recent.Feed == nil {
		return false
	}
	f := m.recent.Feed
	return f.AmountML >= fullBellyML || f.NursingMinutes() >= fullBellyNursing
}

func whenRecentFeed(m *moment) bool {
	return m.recentIs(models.KindFeed)
}

// whenFirstTasteSolids scans earlier solids entries for the same food.
func whenFirstTasteSolids(m *moment) bool {
	if !m.recentIs(models.KindSolids) || m.recent.Solids == nil || m.recent.Solids.Food == "" {
		return false
	}
	food := strings.ToLower(m.recent.Solids.Food)
	for i := range m.events {
		e := &m.events[i]
		if e.Kind != models.KindSolids || e.Solids == nil || e == m.recent {
			continue
		}
		if e.Time().After(m.recent.Time()) {
			continue
		}
		if strings.ToLower(e.Solids.Food) == food {
			return false
		}
	}
	return true
}

func formatFirstTaste(m *moment) string {
	return fmt.Sprintf("First taste of %s", m.recent.Solids.Food)
}

func whenRecentSolids(m *moment) bool {
	return m.recentIs(models.KindSolids)
}

func whenSoiledDiaper(m *moment) bool {
	return m.recentIs(models.KindDiaper) && m.recent.Diaper != nil && m.recent.Diaper.Soiled
}

func whenRecentDiaper(m *moment) bool {
	return m.recentIs(models.KindDiaper)
}

// Awake fallbacks.

func whenAwakeLong(m *moment) bool {
	return m.ongoing == nil && !m.lastWake.IsZero() && m.awakeMinutes > windDownMin
}

func whenAwakeModerate(m *moment) bool {
	return m.ongoing == nil && !m.lastWake.IsZero() && m.awakeMinutes > gettingSleepyMin
}

func whenAwake(m *moment) bool {
	return m.ongoing == nil && !m.lastWake.IsZero()
}

func formatAwakeWindDown(m *moment) string {
	return fmt.Sprintf("Awake · %s · time to wind down", timeutil.FormatShortDuration(m.awakeMinutes))
}

func formatAwakeSleepy(m *moment) string {
	return fmt.Sprintf("Awake · %s · getting sleepy", timeutil.FormatShortDuration(m.awakeMinutes))
}

func formatAwake(m *moment) string {
	return fmt.Sprintf("Awake · %s", timeutil.FormatShortDuration(m.awakeMinutes))
}
