// Package baseline provides the read-only age-appropriate expectation
// tables: wake-window length, nap length, and daily feed/nap counts. Every
// lookup is a total function; ages outside the known buckets clamp to the
// nearest one, and an unknown age yields the documented defaults.
package baseline

import "math"

// Defaults used whenever age is unknown or a lookup cannot be served.
const (
	DefaultWakeWindowMinutes = 150
	DefaultNapTargetMinutes  = 90
	DefaultFeedsPerDay       = 6
	DefaultNapsPerDay        = 4
)

// Counts is the expected daily feed/nap range for an age.
type Counts struct {
	FeedsMin int `json:"feedsMin"`
	FeedsMax int `json:"feedsMax"`
	NapsMin  int `json:"napsMin"`
	NapsMax  int `json:"napsMax"`
}

// Provider is the lookup surface the prediction engine consumes. All
// methods take age in weeks; a negative or non-finite age means unknown.
type Provider interface {
	WakeWindowMinutes(ageWeeks float64) int
	NapTargetMinutes(ageWeeks float64) int
	ExpectedCounts(ageWeeks float64) Counts
}

// Table is the built-in Provider backed by static buckets. The zero value
// is ready to use.
type Table struct{}

type wakeBucket struct {
	maxWeeks   float64
	wakeWindow int // minutes
	napTarget  int // minutes
}

// Buckets run youngest to oldest; the last bucket absorbs everything
// older (clamp-to-nearest semantics).
var wakeBuckets = []wakeBucket{
	{maxWeeks: 4, wakeWindow: 45, napTarget: 60},
	{maxWeeks: 8, wakeWindow: 60, napTarget: 75},
	{maxWeeks: 13, wakeWindow: 75, napTarget: 90},
	{maxWeeks: 17, wakeWindow: 90, napTarget: 90},
	{maxWeeks: 26, wakeWindow: 120, napTarget: 90},
	{maxWeeks: 39, wakeWindow: 150, napTarget: 90},
	{maxWeeks: 52, wakeWindow: 180, napTarget: 80},
	{maxWeeks: 78, wakeWindow: 240, napTarget: 100},
	{maxWeeks: math.MaxFloat64, wakeWindow: 300, napTarget: 120},
}

type countBucket struct {
	maxWeeks float64
	counts   Counts
}

var countBuckets = []countBucket{
	{maxWeeks: 13, counts: Counts{FeedsMin: 7, FeedsMax: 10, NapsMin: 4, NapsMax: 6}},
	{maxWeeks: 26, counts: Counts{FeedsMin: 6, FeedsMax: 8, NapsMin: 3, NapsMax: 4}},
	{maxWeeks: 39, counts: Counts{FeedsMin: 5, FeedsMax: 7, NapsMin: 2, NapsMax: 3}},
	{maxWeeks: 52, counts: Counts{FeedsMin: 4, FeedsMax: 6, NapsMin: 2, NapsMax: 3}},
	{maxWeeks: math.MaxFloat64, counts: Counts{FeedsMin: 3, FeedsMax: 5, NapsMin: 1, NapsMax: 2}},
}

// ageKnown rejects negative and non-finite ages.
func ageKnown(ageWeeks float64) bool {
	return ageWeeks >= 0 && !math.IsInf(ageWeeks, 0) && !math.IsNaN(ageWeeks)
}

// WakeWindowMinutes returns the expected stretch of awake time for the age.
func (Table) WakeWindowMinutes(ageWeeks float64) int {
	if !ageKnown(ageWeeks) {
		return DefaultWakeWindowMinutes
	}
	for _, b := range wakeBuckets {
		if ageWeeks <= b.maxWeeks {
			return b.wakeWindow
		}
	}
	return DefaultWakeWindowMinutes
}

// NapTargetMinutes returns the expected nap length for the age.
func (Table) NapTargetMinutes(ageWeeks float64) int {
	if !ageKnown(ageWeeks) {
		return DefaultNapTargetMinutes
	}
	for _, b := range wakeBuckets {
		if ageWeeks <= b.maxWeeks {
			return b.napTarget
		}
	}
	return DefaultNapTargetMinutes
}

// ExpectedCounts returns the expected daily feed/nap ranges for the age.
func (Table) ExpectedCounts(ageWeeks float64) Counts {
	if !ageKnown(ageWeeks) {
		return DefaultCounts()
	}
	for _, b := range countBuckets {
		if ageWeeks <= b.maxWeeks {
			return b.counts
		}
	}
	return DefaultCounts()
}

// DefaultCounts is the flat expectation used when no baseline is available.
func DefaultCounts() Counts {
	return Counts{
		FeedsMin: DefaultFeedsPerDay,
		FeedsMax: DefaultFeedsPerDay + 2,
		NapsMin:  DefaultNapsPerDay - 1,
		NapsMax:  DefaultNapsPerDay,
	}
}
