package notifications

import (
	"strings"
	"testing"
	"time"

	"github.com/juliexu77/aster-tray/internal/models"
)

func TestShouldAlert(t *testing.T) {
	tests := []struct {
		name       string
		intent     models.Intent
		confidence models.Confidence
		feedAlert  bool
		windAlert  bool
		expected   string
	}{
		{"feed soon medium", models.IntentFeedSoon, models.ConfidenceMedium, true, true, alertFeedSoon},
		{"feed soon high", models.IntentFeedSoon, models.ConfidenceHigh, true, true, alertFeedSoon},
		{"feed soon low suppressed", models.IntentFeedSoon, models.ConfidenceLow, true, true, ""},
		{"feed alert disabled", models.IntentFeedSoon, models.ConfidenceHigh, false, true, ""},
		{"wind down", models.IntentStartWindDown, models.ConfidenceLow, true, true, alertWindDown},
		{"wind down disabled", models.IntentStartWindDown, models.ConfidenceHigh, true, false, ""},
		{"sleep never alerts", models.IntentLetSleepContinue, models.ConfidenceHigh, true, true, ""},
		{"independent never alerts", models.IntentIndependentTime, models.ConfidenceHigh, true, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := models.DefaultSettings()
			settings.EnableFeedAlert = tt.feedAlert
			settings.EnableWindDownAlert = tt.windAlert

			m := NewManager(settings)
			pred := &models.Prediction{Intent: tt.intent, Confidence: tt.confidence}

			if got := m.shouldAlert(pred); got != tt.expected {
				t.Errorf("shouldAlert = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatNotification(t *testing.T) {
	m := NewManager(models.DefaultSettings())

	nextFeed := time.Date(2026, 3, 10, 15, 30, 0, 0, time.Local)
	feedPred := &models.Prediction{
		Intent: models.IntentFeedSoon,
		Timing: models.Timing{NextFeedAt: &nextFeed, ExpectedFeedML: 120},
	}

	title, message := m.formatNotification(feedPred, alertFeedSoon)
	if !strings.Contains(title, "Feed") {
		t.Errorf("feed title = %q", title)
	}
	if !strings.Contains(message, "3:30 PM") {
		t.Errorf("feed message = %q, want projected clock time", message)
	}
	if !strings.Contains(message, "120 ml") {
		t.Errorf("feed message = %q, want expected amount", message)
	}

	windPred := &models.Prediction{Intent: models.IntentStartWindDown}
	title, message = m.formatNotification(windPred, alertWindDown)
	if !strings.Contains(title, "Wind-down") {
		t.Errorf("wind-down title = %q", title)
	}
	if message == "" {
		t.Error("wind-down message is empty")
	}
}

func TestCheckAndNotifyPaused(t *testing.T) {
	m := NewManager(models.DefaultSettings())
	m.SetPaused(true)

	pred := &models.Prediction{Intent: models.IntentStartWindDown, Confidence: models.ConfidenceHigh}
	if err := m.CheckAndNotify(pred); err != nil {
		t.Fatalf("paused CheckAndNotify returned %v", err)
	}

	// Paused delivery must not record alert state
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.lastAlertTime) != 0 {
		t.Error("paused manager recorded alert state")
	}
}

func TestCheckAndNotifyAlreadyNotified(t *testing.T) {
	m := NewManager(models.DefaultSettings())

	var asked []string
	m.SetAlreadyNotified(func(kind string) bool {
		asked = append(asked, kind)
		return true
	})

	pred := &models.Prediction{Intent: models.IntentStartWindDown, Confidence: models.ConfidenceHigh}
	if err := m.CheckAndNotify(pred); err != nil {
		t.Fatalf("suppressed CheckAndNotify returned %v", err)
	}

	if len(asked) != 1 || asked[0] != alertWindDown {
		t.Errorf("predicate asked about %v, want [%s]", asked, alertWindDown)
	}

	// A suppressed alert must not start the repeat timer
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.lastAlertTime) != 0 {
		t.Error("suppressed alert recorded alert state")
	}
}

func TestCheckAndNotifyNilPrediction(t *testing.T) {
	m := NewManager(models.DefaultSettings())
	if err := m.CheckAndNotify(nil); err != nil {
		t.Fatalf("nil prediction returned %v", err)
	}
}

func TestRepeatWindow(t *testing.T) {
	settings := models.DefaultSettings()
	settings.RepeatAlertMinutes = 30

	m := NewManager(settings)

	// A recent alert inside the repeat window suppresses delivery, which
	// CheckAndNotify decides before touching the notifier
	m.lastAlertTime[alertWindDown] = time.Now().Add(-5 * time.Minute)

	pred := &models.Prediction{Intent: models.IntentStartWindDown, Confidence: models.ConfidenceHigh}
	if err := m.CheckAndNotify(pred); err != nil {
		t.Fatalf("suppressed CheckAndNotify returned %v", err)
	}

	if time.Since(m.lastAlertTime[alertWindDown]) < 4*time.Minute {
		t.Error("suppressed alert refreshed its timestamp")
	}
}

func TestClearAlertState(t *testing.T) {
	m := NewManager(models.DefaultSettings())
	m.lastAlertTime[alertFeedSoon] = time.Now()
	m.lastAlertTime[alertWindDown] = time.Now()

	m.ClearAlertState(alertFeedSoon)
	if _, ok := m.lastAlertTime[alertFeedSoon]; ok {
		t.Error("specific clear left the feed alert state")
	}
	if _, ok := m.lastAlertTime[alertWindDown]; !ok {
		t.Error("specific clear removed an unrelated alert state")
	}

	m.ClearAlertState("")
	if len(m.lastAlertTime) != 0 {
		t.Error("full clear left alert state behind")
	}
}
