// Package models contains data structures used throughout the application
package models

import "time"

// Intent classifies the caregiver's most likely next action.
type Intent string

// Prediction intents, in rough priority order.
const (
	IntentLetSleepContinue Intent = "LET_SLEEP_CONTINUE"
	IntentFeedSoon         Intent = "FEED_SOON"
	IntentStartWindDown    Intent = "START_WIND_DOWN"
	IntentIndependentTime  Intent = "INDEPENDENT_TIME"
)

// Prediction is the engine's forecast for a single snapshot of the log.
// Constructed fresh per call and never mutated afterwards.
type Prediction struct {
	Intent     Intent     `json:"intent"`
	Confidence Confidence `json:"confidence"`
	Timing     Timing     `json:"timing"`
	Rationale  []string   `json:"rationale"`
	Today      DayProgress `json:"today"`
	PredictedAt time.Time  `json:"predictedAt"`
}

// Timing bundles the forward estimates backing the active intent. Absent
// estimates stay nil.
type Timing struct {
	NextFeedAt     *time.Time `json:"nextFeedAt,omitempty"`
	NapWindowStart *time.Time `json:"napWindowStart,omitempty"`
	WakeEstimate   *time.Time `json:"wakeEstimate,omitempty"`
	ExpectedFeedML float64    `json:"expectedFeedMl,omitempty"`
}

// DayProgress compares today's logged counts against the age-appropriate
// expectation.
type DayProgress struct {
	FeedsLogged int `json:"feedsLogged"`
	NapsLogged  int `json:"napsLogged"`
	FeedsMin    int `json:"feedsMin"`
	FeedsMax    int `json:"feedsMax"`
	NapsMin     int `json:"napsMin"`
	NapsMax     int `json:"napsMax"`
}

// BabyProfile is the slice of the household profile the tray needs.
type BabyProfile struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"` // "2006-01-02"
}

// AgeWeeks returns the baby's age in weeks at now, or a negative value when
// the birth date is absent or unreadable. Negative means "age unknown";
// consumers fall back to their documented defaults.
func (b *BabyProfile) AgeWeeks(now time.Time) float64 {
	if b == nil || b.BirthDate == "" {
		return -1
	}
	birth, err := time.ParseInLocation("2006-01-02", b.BirthDate, now.Location())
	if err != nil {
		return -1
	}
	if birth.After(now) {
		return -1
	}
	return now.Sub(birth).Hours() / 24 / 7
}
