package insights

import (
	"strings"
	"testing"
	"time"

	"github.com/juliexu77/aster-tray/internal/models"
)

func feedAt(id string, at time.Time) models.Event {
	return models.Event{
		ID:   id,
		Kind: models.KindFeed,
		Date: at.UnixMilli(),
		Feed: &models.FeedDetails{AmountML: 120, Unit: "ml"},
	}
}

func sleepAt(id string, at time.Time, startClock, endClock string) models.Event {
	return models.Event{
		ID:   id,
		Kind: models.KindSleep,
		Date: at.UnixMilli(),
		Sleep: &models.SleepDetails{
			StartClock: startClock,
			EndClock:   endClock,
		},
	}
}

func findInsight(insights []models.Insight, label string) *models.Insight {
	for i := range insights {
		if strings.Contains(insights[i].Label, label) {
			return &insights[i]
		}
	}
	return nil
}

func TestAnalyzeThinLog(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)

	if got := Analyze(nil, now); got != nil {
		t.Errorf("empty log produced %d insights, want none", len(got))
	}

	one := []models.Event{feedAt("a", now.Add(-time.Hour))}
	if got := Analyze(one, now); got != nil {
		t.Errorf("single event produced %d insights, want none", len(got))
	}
}

func TestFeedingRhythm(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.Local)

	// Six feeds exactly 3 hours apart: five plausible gaps, zero spread
	var events []models.Event
	for i := 0; i < 6; i++ {
		at := now.Add(-time.Duration(18-3*i) * time.Hour)
		events = append(events, feedAt(string(rune('a'+i)), at))
	}

	insights := Analyze(events, now)

	rhythm := findInsight(insights, "Feeding every")
	if rhythm == nil {
		t.Fatalf("no feeding rhythm insight in %v", insights)
	}
	if rhythm.Label != "Feeding every 3.0h" {
		t.Errorf("label = %q, want Feeding every 3.0h", rhythm.Label)
	}
	if rhythm.Confidence != models.ConfidenceHigh {
		t.Errorf("confidence = %s, want high (5 intervals)", rhythm.Confidence)
	}
	if len(rhythm.Detail.Events) != 5 {
		t.Errorf("source events = %d, want 5", len(rhythm.Detail.Events))
	}

	if findInsight(insights, "Very consistent feeding rhythm") == nil {
		t.Error("zero-spread gaps should produce the consistency insight")
	}
	if findInsight(insights, "growth spurt") != nil {
		t.Error("zero-spread gaps must not look like a growth spurt")
	}
}

func TestFeedingRhythmConfidenceTiers(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.Local)

	// Four feeds make three intervals: medium
	var events []models.Event
	for i := 0; i < 4; i++ {
		events = append(events, feedAt(string(rune('a'+i)), now.Add(-time.Duration(12-3*i)*time.Hour)))
	}

	rhythm := findInsight(Analyze(events, now), "Feeding every")
	if rhythm == nil {
		t.Fatal("no feeding rhythm insight")
	}
	if rhythm.Confidence != models.ConfidenceMedium {
		t.Errorf("confidence = %s, want medium (3 intervals)", rhythm.Confidence)
	}
}

func TestFeedingGrowthSpurt(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.Local)

	// Gaps of 60, 300, 60, 300 minutes: mean 180, stddev 120
	offsets := []time.Duration{0, 60, 360, 420, 720}
	var events []models.Event
	for i, off := range offsets {
		events = append(events, feedAt(string(rune('a'+i)), now.Add(-13*time.Hour).Add(off*time.Minute)))
	}

	insights := Analyze(events, now)
	spurt := findInsight(insights, "growth spurt")
	if spurt == nil {
		t.Fatalf("no growth spurt insight in %v", insights)
	}
	if spurt.Confidence != models.ConfidenceMedium {
		t.Errorf("confidence = %s, want medium", spurt.Confidence)
	}
}

func TestFeedIntervalPlausibility(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.Local)

	// A 10-minute gap (split bottle) and an 8-hour gap (overnight) must
	// both be excluded, leaving one plausible interval, below the minimum
	events := []models.Event{
		feedAt("a", now.Add(-12*time.Hour)),
		feedAt("b", now.Add(-12*time.Hour).Add(10*time.Minute)), // too close
		feedAt("c", now.Add(-4*time.Hour)),                      // too far from b
		feedAt("d", now.Add(-1*time.Hour)),                      // one plausible gap
	}

	if got := findInsight(Analyze(events, now), "Feeding every"); got != nil {
		t.Errorf("implausible gaps should leave too little data, got %q", got.Label)
	}
}

func TestNapCountToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	events := []models.Event{
		sleepAt("m1", day.Add(9*time.Hour), "9:00 AM", "9:45 AM"),
		sleepAt("a1", day.Add(13*time.Hour), "1:00 PM", "2:00 PM"),
	}

	insights := Analyze(events, now)
	count := findInsight(insights, "naps so far today")
	if count == nil {
		t.Fatalf("no nap count insight in %v", insights)
	}
	if count.Label != "2 naps so far today" {
		t.Errorf("label = %q, want 2 naps so far today", count.Label)
	}

	// A 1-1 split says nothing about preference
	if findInsight(insights, "Prefers") != nil {
		t.Error("even split should not produce a preference insight")
	}
}

func TestNapPreference(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local)

	events := []models.Event{
		sleepAt("m1", day.Add(8*time.Hour), "8:00 AM", "8:40 AM"),
		sleepAt("m2", day.Add(10*time.Hour), "10:00 AM", "10:45 AM"),
		sleepAt("a1", day.Add(13*time.Hour), "1:00 PM", "2:00 PM"),
	}

	pref := findInsight(Analyze(events, now), "Prefers morning naps")
	if pref == nil {
		t.Fatal("expected a morning preference insight")
	}
}

func TestConsistentBedtime(t *testing.T) {
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.Local)

	var events []models.Event
	for i := 1; i <= 3; i++ {
		at := now.AddDate(0, 0, -i)
		bedtime := time.Date(at.Year(), at.Month(), at.Day(), 19, 30, 0, 0, time.Local)
		events = append(events, sleepAt(string(rune('a'+i)), bedtime, "7:30 PM", "6:30 AM"))
	}

	bedtime := findInsight(Analyze(events, now), "Consistent bedtime")
	if bedtime == nil {
		t.Fatal("expected a consistent bedtime insight")
	}
	if bedtime.Label != "Consistent bedtime around 7:30 PM" {
		t.Errorf("label = %q, want Consistent bedtime around 7:30 PM", bedtime.Label)
	}
	if bedtime.Confidence != models.ConfidenceHigh {
		t.Errorf("confidence = %s, want high", bedtime.Confidence)
	}
}

func TestBedtimeTrend(t *testing.T) {
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.Local)

	// First three days 7:00 PM, last three 8:00 PM: a one-hour drift
	clocks := []string{"7:00 PM", "7:00 PM", "7:00 PM", "8:00 PM", "8:00 PM", "8:00 PM"}
	var events []models.Event
	for i, clock := range clocks {
		at := now.AddDate(0, 0, i-6)
		hour := 19
		if clock == "8:00 PM" {
			hour = 20
		}
		bedtime := time.Date(at.Year(), at.Month(), at.Day(), hour, 0, 0, 0, time.Local)
		events = append(events, sleepAt(string(rune('a'+i)), bedtime, clock, "6:30 AM"))
	}

	trend := findInsight(Analyze(events, now), "Bedtime trending later")
	if trend == nil {
		t.Fatal("expected a later-trending bedtime insight")
	}
	if trend.Confidence != models.ConfidenceMedium {
		t.Errorf("confidence = %s, want medium", trend.Confidence)
	}
}

func TestBedtimeIgnoresDreamFeeds(t *testing.T) {
	now := time.Date(2026, 3, 10, 21, 0, 0, 0, time.Local)

	var events []models.Event
	for i := 1; i <= 3; i++ {
		at := now.AddDate(0, 0, -i)
		bedtime := time.Date(at.Year(), at.Month(), at.Day(), 19, 30, 0, 0, time.Local)
		events = append(events, sleepAt(string(rune('a'+i)), bedtime, "7:30 PM", "6:30 AM"))

		// A later dream feed the same evening must not shift the bedtime
		dream := sleepAt(string(rune('x'+i)), bedtime.Add(3*time.Hour), "10:30 PM", "10:45 PM")
		dream.Sleep.DreamFeed = true
		events = append(events, dream)
	}

	bedtime := findInsight(Analyze(events, now), "Consistent bedtime")
	if bedtime == nil {
		t.Fatal("expected a consistent bedtime insight")
	}
	if !strings.Contains(bedtime.Label, "7:30 PM") {
		t.Errorf("label = %q, dream feed moved the bedtime", bedtime.Label)
	}
}
