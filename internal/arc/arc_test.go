package arc

import (
	"math"
	"testing"
	"time"

	"github.com/juliexu77/aster-tray/internal/models"
)

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

func TestPositionOngoingSleep(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 35, 0, 0, time.Local)

	ongoing := sleepAt("open", time.Date(2026, 3, 10, 13, 0, 0, 0, time.Local), "1:00 PM", "")

	// 95 minutes into a 90-minute target: past 1.0 but inside the clamp
	got := Position(nil, &ongoing, nil, -1, now)
	if got <= 1.0 {
		t.Errorf("Position = %f, want over 1.0 for an over-target nap", got)
	}
	if got > 1.2 {
		t.Errorf("Position = %f, exceeded the 1.2 nap clamp", got)
	}

	want := 95.0 / 90.0
	if math.Abs(got-want) > 0.001 {
		t.Errorf("Position = %f, want %f", got, want)
	}
}

func TestPositionOngoingSleepClamp(t *testing.T) {
	now := time.Date(2026, 3, 10, 16, 0, 0, 0, time.Local)

	// Three hours asleep: fraction clamps to 1.2
	ongoing := sleepAt("open", time.Date(2026, 3, 10, 13, 0, 0, 0, time.Local), "1:00 PM", "")

	if got := Position(nil, &ongoing, nil, -1, now); got != 1.2 {
		t.Errorf("Position = %f, want clamped 1.2", got)
	}
}

func TestPositionAwake(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)

	// Woke 75 minutes ago; unknown age gives a 150-minute window
	events := []models.Event{
		sleepAt("nap", time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local), "12:00 PM", "12:45 PM"),
	}

	got := Position(events, nil, nil, -1, now)
	if math.Abs(got-0.5) > 0.001 {
		t.Errorf("Position = %f, want 0.5", got)
	}
}

func TestPositionAwakeClamp(t *testing.T) {
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.Local)

	// Awake far past the window: clamps to 1.5
	events := []models.Event{
		sleepAt("nap", time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local), "9:00 AM", "9:45 AM"),
	}

	if got := Position(events, nil, nil, -1, now); got != 1.5 {
		t.Errorf("Position = %f, want clamped 1.5", got)
	}
}

func TestPositionNoHistory(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local)

	if got := Position(nil, nil, nil, -1, now); got != 0.25 {
		t.Errorf("Position = %f, want the 0.25 default", got)
	}

	// An ongoing-only log has no completed sleep either once it ends up nil
	events := []models.Event{
		sleepAt("open", now.Add(-time.Hour), "1:00 PM", ""),
	}
	if got := Position(events, nil, nil, -1, now); got != 0.25 {
		t.Errorf("Position = %f, want 0.25 without a completed sleep", got)
	}
}

func TestPointOnPath(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		angleDeg float64
	}{
		{"start", 0, 140},
		{"midpoint", 0.5, 90},
		{"end", 1, 40},
		{"overflow clamps to end", 1.3, 40},
		{"negative clamps to start", -0.2, 140},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := PointOnPath(tt.fraction)

			rad := tt.angleDeg * math.Pi / 180
			wantX := CenterX + Radius*math.Cos(rad)
			wantY := CenterY - Radius*math.Sin(rad)

			if math.Abs(x-wantX) > 0.001 || math.Abs(y-wantY) > 0.001 {
				t.Errorf("PointOnPath(%f) = (%f, %f), want (%f, %f)", tt.fraction, x, y, wantX, wantY)
			}

			// Every point sits on the circle
			dist := math.Hypot(x-CenterX, y-CenterY)
			if math.Abs(dist-Radius) > 0.001 {
				t.Errorf("PointOnPath(%f) is %f from center, want %f", tt.fraction, dist, Radius)
			}
		})
	}
}

func TestPointOnPathMidpointIsTop(t *testing.T) {
	x, y := PointOnPath(0.5)
	if math.Abs(x-CenterX) > 0.001 {
		t.Errorf("midpoint x = %f, want centered at %f", x, CenterX)
	}
	if y >= CenterY {
		t.Errorf("midpoint y = %f, want above the center %f", y, CenterY)
	}
}
