package prediction

import (
	"time"

	"github.com/juliexu77/aster-tray/internal/models"
	"github.com/juliexu77/aster-tray/internal/timeutil"
)

// transitionLookbackDays is the policy window for validating a claimed nap
// transition against the observed log. Inherited judgment call: a claim is
// supported when at least one day inside the window reached the higher
// count.
const transitionLookbackDays = 7

// SupportsNapTransition reports whether the log supports a claim that the
// baby recently moved down from higherCount naps per day (for example a
// "4 to 3 naps" transition claims higherCount 4). Unsupported claims are
// meant to be silently downgraded by the caller, not surfaced as errors.
func SupportsNapTransition(events []models.Event, higherCount int, now time.Time) bool {
	if higherCount <= 0 {
		return false
	}

	cutoff := now.AddDate(0, 0, -transitionLookbackDays)
	perDay := make(map[string]int)
	for i := range events {
		e := &events[i]
		if e.Kind != models.KindSleep || !e.HasTime() {
			continue
		}
		t := e.Time()
		if t.Before(cutoff) || t.After(now) {
			continue
		}
		perDay[timeutil.DayKey(t.Local())]++
	}

	for _, count := range perDay {
		if count >= higherCount {
			return true
		}
	}
	return false
}
