// Package insights derives descriptive pattern findings from the activity
// log: feeding rhythm, nap timing preference, and bedtime consistency.
package insights

import (
	"fmt"
	"math"

	"time"

	"github.com/juliexu77/aster-tray/internal/models"
	"github.com/juliexu77/aster-tray/internal/timeutil"
)

// Plausibility band for a feed-to-feed interval. Anything outside is a
// probable data-entry error, not a real interval.
const (
	minPlausibleFeedGap = 30  // minutes
	maxPlausibleFeedGap = 360 // minutes
)

// Variability thresholds on the population stddev of feed intervals. The
// band in between deliberately emits nothing.
const (
	veryConsistentStdDev = 30 // minutes
	growthSpurtStdDev    = 90 // minutes
)

// Bedtime analysis constants: the evening window bedtimes are drawn from,
// the day counts required, and the half-to-half shift that counts as a
// trend.
const (
	bedtimeWindowStart = 18 * 60 // minutes of day
	bedtimeWindowEnd   = 23 * 60
	minBedtimeDays     = 3
	trendSplitDays     = 4
	bedtimeShiftMin    = 30
)

// Analyze produces the descriptive insights supported by the current log
// snapshot. Fewer than 2 usable events yields an empty list. Each insight
// category guards its own sample-size requirements, so thin data silently
// skips a category instead of aborting the run.
func Analyze(events []models.Event, now time.Time) []models.Insight {
	sorted := models.SortedByTime(events)
	if len(sorted) < 2 {
		return nil
	}

	var out []models.Insight
	out = append(out, feedingInsights(sorted)...)
	out = append(out, napInsights(sorted, now)...)
	if insight, ok := bedtimeInsight(sorted); ok {
		out = append(out, insight)
	}
	return out
}

// interval pairs two consecutive same-kind events with the minutes between
// them. Computed fresh per call, never stored.
type interval struct {
	prev    *models.Event
	curr    *models.Event
	minutes float64
}

// feedIntervals builds the plausible feed-to-feed intervals.
func feedIntervals(events []models.Event) []interval {
	var feeds []*models.Event
	for i := range events {
		if events[i].Kind == models.KindFeed {
			feeds = append(feeds, &events[i])
		}
	}

	var intervals []interval
	for i := 1; i < len(feeds); i++ {
		minutes := feeds[i].Time().Sub(feeds[i-1].Time()).Minutes()
		if minutes <= minPlausibleFeedGap || minutes >= maxPlausibleFeedGap {
			continue
		}
		intervals = append(intervals, interval{prev: feeds[i-1], curr: feeds[i], minutes: minutes})
	}
	return intervals
}

func feedingInsights(events []models.Event) []models.Insight {
	intervals := feedIntervals(events)
	if len(intervals) < 2 {
		return nil
	}

	values := make([]float64, len(intervals))
	sources := make([]models.InsightSource, len(intervals))
	for i, iv := range intervals {
		values[i] = iv.minutes
		sources[i] = models.InsightSource{
			EventID: iv.curr.ID,
			Display: fmt.Sprintf("%s after previous feed", timeutil.FormatShortDuration(int(math.Round(iv.minutes)))),
		}
	}

	meanMinutes := mean(values)
	hours := math.Round(meanMinutes/60*10) / 10

	confidence := models.ConfidenceLow
	switch {
	case len(intervals) >= 5:
		confidence = models.ConfidenceHigh
	case len(intervals) >= 3:
		confidence = models.ConfidenceMedium
	}

	out := []models.Insight{{
		Label:      fmt.Sprintf("Feeding every %.1fh", hours),
		Confidence: confidence,
		Category:   models.CategoryFeeding,
		Detail: models.InsightDetail{
			Description: fmt.Sprintf("The recent feeds arrive about %.1f hours apart.", hours),
			Events:      sources,
			Derivation:  fmt.Sprintf("Mean of %d feed-to-feed gaps between %d and %d minutes.", len(intervals), minPlausibleFeedGap, maxPlausibleFeedGap),
		},
	}}

	stddev := popStdDev(values, meanMinutes)
	switch {
	case stddev < veryConsistentStdDev:
		out = append(out, models.Insight{
			Label:      "Very consistent feeding rhythm",
			Confidence: models.ConfidenceHigh,
			Category:   models.CategoryFeeding,
			Detail: models.InsightDetail{
				Description: "Feed spacing barely varies; the rhythm is well established.",
				Derivation:  fmt.Sprintf("Population stddev of feed gaps is %.0f minutes (under %d).", stddev, veryConsistentStdDev),
			},
		})
	case stddev > growthSpurtStdDev:
		out = append(out, models.Insight{
			Label:      "Feeding rhythm varies, consider growth spurt",
			Confidence: models.ConfidenceMedium,
			Category:   models.CategoryFeeding,
			Detail: models.InsightDetail{
				Description: "Feed spacing is swinging widely, which often accompanies a growth spurt.",
				Derivation:  fmt.Sprintf("Population stddev of feed gaps is %.0f minutes (over %d).", stddev, growthSpurtStdDev),
			},
		})
	}

	return out
}

// napInsights counts today's daytime naps and checks for a time-of-day
// preference. Morning is before noon, afternoon noon to 18:00; later sleep
// belongs to the night and is excluded entirely.
func napInsights(events []models.Event, now time.Time) []models.Insight {
	var morning, afternoon int
	for i := range events {
		e := &events[i]
		if e.Kind != models.KindSleep || e.Sleep == nil {
			continue
		}
		start := e.SleepStart()
		if start.IsZero() || !timeutil.SameLocalDay(now, start) {
			continue
		}
		startMinutes := timeutil.MinutesOfDay(start.Local())
		switch {
		case startMinutes < 12*60:
			morning++
		case startMinutes < 18*60:
			afternoon++
		}
	}

	total := morning + afternoon
	if total < 2 {
		return nil
	}

	out := []models.Insight{{
		Label:      fmt.Sprintf("%d naps so far today", total),
		Confidence: models.ConfidenceMedium,
		Category:   models.CategorySleep,
		Detail: models.InsightDetail{
			Description: fmt.Sprintf("%d naps logged today before 6 PM.", total),
			Derivation:  "Sleep entries starting today before 18:00 local.",
		},
	}}

	// Preference requires a strict winner with at least 2 naps in it;
	// a 1-1 or 2-2 split says nothing.
	if morning > afternoon && morning >= 2 {
		out = append(out, napPreference("morning", morning, afternoon))
	} else if afternoon > morning && afternoon >= 2 {
		out = append(out, napPreference("afternoon", afternoon, morning))
	}

	return out
}

func napPreference(bucket string, winner, loser int) models.Insight {
	return models.Insight{
		Label:      fmt.Sprintf("Prefers %s naps", bucket),
		Confidence: models.ConfidenceMedium,
		Category:   models.CategorySleep,
		Detail: models.InsightDetail{
			Description: fmt.Sprintf("Today leans %s: %d naps vs %d.", bucket, winner, loser),
			Derivation:  "Morning is before 12:00, afternoon 12:00 to 18:00, compared for today only.",
		},
	}
}

// bedtimeInsight finds each day's bedtime (latest non-dream-feed sleep
// starting between 18:00 and 23:00) and reports either a trend across
// chronological halves or a consistent mean bedtime.
func bedtimeInsight(events []models.Event) (models.Insight, bool) {
	type bedtime struct {
		day     string
		minutes int
	}

	latestPerDay := make(map[string]int)
	var dayOrder []string
	for i := range events {
		e := &events[i]
		if e.Kind != models.KindSleep || e.Sleep == nil || e.Sleep.DreamFeed {
			continue
		}
		start := e.SleepStart()
		if start.IsZero() {
			continue
		}
		minutes := timeutil.MinutesOfDay(start.Local())
		if minutes < bedtimeWindowStart || minutes >= bedtimeWindowEnd {
			continue
		}
		day := timeutil.DayKey(start.Local())
		if prev, ok := latestPerDay[day]; !ok {
			latestPerDay[day] = minutes
			dayOrder = append(dayOrder, day)
		} else if minutes > prev {
			latestPerDay[day] = minutes
		}
	}

	if len(dayOrder) < minBedtimeDays {
		return models.Insight{}, false
	}

	bedtimes := make([]bedtime, len(dayOrder))
	for i, day := range dayOrder {
		bedtimes[i] = bedtime{day: day, minutes: latestPerDay[day]}
	}

	if len(bedtimes) >= trendSplitDays {
		half := len(bedtimes) / 2
		var early, late []float64
		for _, b := range bedtimes[:half] {
			early = append(early, float64(b.minutes))
		}
		for _, b := range bedtimes[half:] {
			late = append(late, float64(b.minutes))
		}
		shift := mean(late) - mean(early)
		if shift >= bedtimeShiftMin || shift <= -bedtimeShiftMin {
			direction := "later"
			if shift < 0 {
				direction = "earlier"
			}
			return models.Insight{
				Label:      fmt.Sprintf("Bedtime trending %s", direction),
				Confidence: models.ConfidenceMedium,
				Category:   models.CategorySleep,
				Detail: models.InsightDetail{
					Description: fmt.Sprintf("Bedtime has moved about %s %s across the last %d days.", timeutil.FormatShortDuration(int(math.Abs(shift))), direction, len(bedtimes)),
					Derivation:  "Mean bedtime of the later half of days compared against the earlier half.",
				},
			}, true
		}
	}

	var all []float64
	for _, b := range bedtimes {
		all = append(all, float64(b.minutes))
	}
	meanBedtime := int(math.Round(mean(all)))

	return models.Insight{
		Label:      fmt.Sprintf("Consistent bedtime around %s", timeutil.FormatClock(meanBedtime)),
		Confidence: models.ConfidenceHigh,
		Category:   models.CategorySleep,
		Detail: models.InsightDetail{
			Description: fmt.Sprintf("Bedtime has settled around %s over %d days.", timeutil.FormatClock(meanBedtime), len(bedtimes)),
			Derivation:  "Latest evening sleep (18:00 to 23:00, dream feeds excluded) per day, averaged.",
		},
	}, true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// popStdDev is the population standard deviation around a known mean.
func popStdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)))
}
