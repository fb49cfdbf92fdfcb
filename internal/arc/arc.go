// Package arc computes how far the baby currently is through its expected
// sleep or wake stretch, and maps that fraction onto the semicircular
// gauge path the tray icon draws. Purely geometric and temporal, no I/O.
package arc

import (
	"math"
	"time"

	"github.com/juliexu77/aster-tray/internal/baseline"
	"github.com/juliexu77/aster-tray/internal/models"
)

// Gauge geometry, shared with the tray renderer. The path sweeps from
// 140° down to 40°, so the dot never reaches the extreme left or right
// edge of the icon.
const (
	CenterX = 32.0
	CenterY = 44.0
	Radius  = 24.0

	StartAngleDeg = 140.0
	EndAngleDeg   = 40.0
)

// Clamp ceilings for the progress fraction. An over-target nap can run to
// 1.2, an over-window wake stretch to 1.5.
const (
	napClamp  = 1.2
	wakeClamp = 1.5
)

// defaultPosition is returned when no sleep history exists; the renderer
// always gets a finite value.
const defaultPosition = 0.25

// Position returns the progress fraction for the current moment. During an
// ongoing sleep it is elapsed over the fixed 90-minute nap target; awake it
// is elapsed-since-wake over the age-appropriate wake window. ongoing may
// be nil (from the prediction engine's view of the snapshot).
func Position(events []models.Event, ongoing *models.Event, provider baseline.Provider, ageWeeks float64, now time.Time) float64 {
	if provider == nil {
		provider = baseline.Table{}
	}

	if ongoing != nil && ongoing.Sleep != nil {
		asleep := now.Sub(ongoing.SleepStart()).Minutes()
		return clamp(asleep/baseline.DefaultNapTargetMinutes, 0, napClamp)
	}

	last := models.LastCompletedSleep(events)
	if last == nil {
		return defaultPosition
	}
	wokeAt, ok := last.SleepEnd()
	if !ok {
		return defaultPosition
	}

	window := provider.WakeWindowMinutes(ageWeeks)
	if window <= 0 {
		window = baseline.DefaultWakeWindowMinutes
	}
	awake := now.Sub(wokeAt).Minutes()
	return clamp(awake/float64(window), 0, wakeClamp)
}

// PointOnPath maps a progress fraction to the 2-D coordinate on the gauge
// path. Fractions above 1.0 clamp to the end of the arc rather than
// wrapping past it.
func PointOnPath(fraction float64) (x, y float64) {
	fraction = clamp(fraction, 0, 1)

	angleDeg := StartAngleDeg + (EndAngleDeg-StartAngleDeg)*fraction
	angle := angleDeg * math.Pi / 180

	// Screen coordinates: y grows downward, so the arc bows upward.
	x = CenterX + Radius*math.Cos(angle)
	y = CenterY - Radius*math.Sin(angle)
	return x, y
}

func clamp(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
