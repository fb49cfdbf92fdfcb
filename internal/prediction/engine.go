// Package prediction forecasts the caregiver's next likely action from the
// activity log and the age-appropriate baseline tables.
package prediction

import (
	"fmt"
	"math"
	"time"

	"github.com/juliexu77/aster-tray/internal/baseline"
	"github.com/juliexu77/aster-tray/internal/models"
	"github.com/juliexu77/aster-tray/internal/timeutil"
)

// History thresholds. Four naps and four feeds make the forecast "fully
// personalized"; below four feeds the feed projection is still offered but
// flagged as still learning.
const (
	personalizedNaps  = 4
	personalizedFeeds = 4
	partialHistoryMin = 2
)

// feedDueLeadMinutes is how close the projected next feed must be before
// FEED_SOON takes over (or it is already past).
const feedDueLeadMinutes = 30

// windDownLeadMinutes is how far short of the wake-window ceiling the
// wind-down call starts.
const windDownLeadMinutes = 20

// feedProjectionWindow caps how many recent feeds the projection uses.
const feedProjectionWindow = 4

// Engine produces next-action forecasts. Stateless and safe for
// concurrent use; the same (events, age, now) triple always yields the
// same result.
type Engine struct {
	baseline baseline.Provider
}

// NewEngine creates an Engine backed by the given baseline provider. A nil
// provider falls back to the built-in table.
func NewEngine(p baseline.Provider) *Engine {
	if p == nil {
		p = baseline.Table{}
	}
	return &Engine{baseline: p}
}

// Predict returns the next-action forecast for the snapshot, or nil when
// the log holds no sleep event at all ("no prediction available", which is
// not an error). A malformed age is treated as unknown, never rejected.
func (e *Engine) Predict(events []models.Event, ageWeeks float64, now time.Time) *models.Prediction {
	if !ageValid(ageWeeks) {
		ageWeeks = -1
	}

	sorted := models.SortedByTime(events)

	napCount := 0
	feedCount := 0
	for i := range sorted {
		switch sorted[i].Kind {
		case models.KindSleep:
			napCount++
		case models.KindFeed:
			feedCount++
		}
	}

	if napCount == 0 {
		return nil
	}

	pred := &models.Prediction{
		Confidence:  models.ConfidenceLow,
		Today:       e.dayProgress(sorted, ageWeeks, now),
		PredictedAt: now,
	}

	defer func() {
		pred.Confidence = e.confidence(pred, napCount, feedCount)
	}()

	if ongoing := models.OngoingSleep(sorted); ongoing != nil {
		e.fillLetSleepContinue(pred, ongoing, ageWeeks)
		return pred
	}

	if e.fillFeedSoon(pred, sorted, feedCount, now) {
		return pred
	}

	if e.fillStartWindDown(pred, sorted, ageWeeks, now) {
		return pred
	}

	pred.Intent = models.IntentIndependentTime
	pred.Rationale = append(pred.Rationale,
		"No feed or nap is due right now.",
		"A good stretch for floor play or independent time.")
	return pred
}

func ageValid(ageWeeks float64) bool {
	return ageWeeks >= 0 && !math.IsNaN(ageWeeks) && !math.IsInf(ageWeeks, 0)
}

func (e *Engine) fillLetSleepContinue(pred *models.Prediction, ongoing *models.Event, ageWeeks float64) {
	pred.Intent = models.IntentLetSleepContinue

	start := ongoing.SleepStart()
	target := e.baseline.NapTargetMinutes(ageWeeks)
	wake := start.Add(time.Duration(target) * time.Minute)
	pred.Timing.WakeEstimate = &wake

	pred.Rationale = append(pred.Rationale,
		fmt.Sprintf("A nap is in progress since %s.", timeutil.FormatClock(timeutil.MinutesOfDay(start.Local()))),
		fmt.Sprintf("Expected to wake around %s.", timeutil.FormatClock(timeutil.MinutesOfDay(wake.Local()))))
}

// fillFeedSoon projects the next feed from the mean gap of the most recent
// feeds and claims the intent when that projection is due. Returns false
// when the projection cannot be built or the feed is not yet close.
func (e *Engine) fillFeedSoon(pred *models.Prediction, sorted []models.Event, feedCount int, now time.Time) bool {
	var feeds []*models.Event
	for i := range sorted {
		if sorted[i].Kind == models.KindFeed {
			feeds = append(feeds, &sorted[i])
		}
	}
	if len(feeds) < 2 {
		return false
	}

	// Most recent feeds first; at most feedProjectionWindow of them.
	recent := feeds
	if len(recent) > feedProjectionWindow {
		recent = recent[len(recent)-feedProjectionWindow:]
	}

	var gaps []float64
	for i := 1; i < len(recent); i++ {
		gap := recent[i].Time().Sub(recent[i-1].Time()).Minutes()
		if gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) == 0 {
		return false
	}

	var sum float64
	for _, g := range gaps {
		sum += g
	}
	meanGap := math.Round(sum / float64(len(gaps)))

	lastFeed := feeds[len(feeds)-1]
	nextFeed := lastFeed.Time().Add(time.Duration(meanGap) * time.Minute)

	if nextFeed.Sub(now).Minutes() > feedDueLeadMinutes {
		return false
	}

	pred.Intent = models.IntentFeedSoon
	pred.Timing.NextFeedAt = &nextFeed
	if ml := expectedFeedML(feeds); ml > 0 {
		pred.Timing.ExpectedFeedML = ml
	}

	sinceLast := int(math.Round(now.Sub(lastFeed.Time()).Minutes()))
	pred.Rationale = append(pred.Rationale,
		fmt.Sprintf("Last feed was %s ago; recent feeds run about %s apart.",
			timeutil.FormatShortDuration(sinceLast), timeutil.FormatShortDuration(int(meanGap))))
	if feedCount < personalizedFeeds {
		pred.Rationale = append(pred.Rationale,
			fmt.Sprintf("Still learning the feeding rhythm (%d feeds logged).", feedCount))
	}
	return true
}

// fillStartWindDown claims the intent when the awake stretch since the last
// completed sleep approaches the age-appropriate wake-window ceiling.
func (e *Engine) fillStartWindDown(pred *models.Prediction, sorted []models.Event, ageWeeks float64, now time.Time) bool {
	last := models.LastCompletedSleep(sorted)
	if last == nil {
		return false
	}
	wokeAt, ok := last.SleepEnd()
	if !ok {
		return false
	}

	window := e.baseline.WakeWindowMinutes(ageWeeks)
	awake := now.Sub(wokeAt).Minutes()
	if awake < float64(window-windDownLeadMinutes) {
		return false
	}

	pred.Intent = models.IntentStartWindDown
	napStart := wokeAt.Add(time.Duration(window) * time.Minute)
	pred.Timing.NapWindowStart = &napStart

	pred.Rationale = append(pred.Rationale,
		fmt.Sprintf("Awake for %s; the wake window at this age is about %s.",
			timeutil.FormatShortDuration(int(math.Round(awake))), timeutil.FormatShortDuration(window)))
	return true
}

// expectedFeedML is the mean bottle amount of the recent feeds that carry
// one, rounded to the nearest ml. Nursing-only history yields 0.
func expectedFeedML(feeds []*models.Event) float64 {
	var sum float64
	var n int
	start := 0
	if len(feeds) > feedProjectionWindow {
		start = len(feeds) - feedProjectionWindow
	}
	for _, f := range feeds[start:] {
		if f.Feed != nil && f.Feed.AmountML > 0 {
			sum += f.Feed.AmountML
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum / float64(n))
}

func (e *Engine) dayProgress(sorted []models.Event, ageWeeks float64, now time.Time) models.DayProgress {
	counts := e.baseline.ExpectedCounts(ageWeeks)
	return models.DayProgress{
		FeedsLogged: models.CountToday(sorted, models.KindFeed, now),
		NapsLogged:  models.CountToday(sorted, models.KindSleep, now),
		FeedsMin:    counts.FeedsMin,
		FeedsMax:    counts.FeedsMax,
		NapsMin:     counts.NapsMin,
		NapsMax:     counts.NapsMax,
	}
}

// confidence grades the forecast by history volume, with the active
// intent's own minimum able to pull it down to low.
func (e *Engine) confidence(pred *models.Prediction, napCount, feedCount int) models.Confidence {
	if pred.Intent == models.IntentFeedSoon && feedCount < personalizedFeeds {
		return models.ConfidenceLow
	}
	if napCount >= personalizedNaps && feedCount >= personalizedFeeds {
		return models.ConfidenceHigh
	}
	if napCount >= partialHistoryMin || feedCount >= partialHistoryMin {
		return models.ConfidenceMedium
	}
	return models.ConfidenceLow
}
