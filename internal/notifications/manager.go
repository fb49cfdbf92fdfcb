// Package notifications handles system notifications and alerts
package notifications

import (
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/juliexu77/aster-tray/internal/models"
	"github.com/juliexu77/aster-tray/internal/timeutil"
)

// Alert type constants
const (
	alertFeedSoon = "feed_soon"
	alertWindDown = "wind_down"
)

// Manager turns predictions into desktop alerts
type Manager struct {
	settings      *models.Settings
	lastAlertTime map[string]time.Time
	paused        bool

	// alreadyNotified, when set, lets the surrounding app suppress an
	// alert kind it has surfaced through another channel this cycle.
	alreadyNotified func(kind string) bool

	mu sync.Mutex
}

// NewManager creates a new notification manager
func NewManager(settings *models.Settings) *Manager {
	return &Manager{
		settings:      settings,
		lastAlertTime: make(map[string]time.Time),
	}
}

// UpdateSettings updates the settings reference
func (m *Manager) UpdateSettings(settings *models.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
}

// SetPaused toggles alert delivery without losing alert state
func (m *Manager) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = paused
}

// SetAlreadyNotified installs a predicate consulted before delivery.
// Kinds the predicate reports as handled are skipped without touching
// the repeat timer.
func (m *Manager) SetAlreadyNotified(fn func(kind string) bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alreadyNotified = fn
}

// Paused reports whether alert delivery is paused
func (m *Manager) Paused() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused
}

// CheckAndNotify inspects the latest prediction and sends a notification
// when it calls for caregiver action. Low-confidence feed guesses stay
// silent so a thin log does not produce nagging.
func (m *Manager) CheckAndNotify(pred *models.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if pred == nil || m.paused {
		return nil
	}

	alertType := m.shouldAlert(pred)
	if alertType == "" {
		return nil
	}

	if m.alreadyNotified != nil && m.alreadyNotified(alertType) {
		return nil
	}

	// Check if we should repeat the alert
	if lastTime, ok := m.lastAlertTime[alertType]; ok {
		if m.settings.RepeatAlertMinutes > 0 {
			repeatDuration := time.Duration(m.settings.RepeatAlertMinutes) * time.Minute
			if time.Since(lastTime) < repeatDuration {
				return nil
			}
		} else {
			// No repeat, only alert once per intent change
			return nil
		}
	}

	title, message := m.formatNotification(pred, alertType)
	err := m.sendNotification(title, message)
	if err != nil {
		return err
	}

	m.lastAlertTime[alertType] = time.Now()
	return nil
}

// shouldAlert determines which alert, if any, a prediction warrants
func (m *Manager) shouldAlert(pred *models.Prediction) string {
	switch pred.Intent {
	case models.IntentFeedSoon:
		if m.settings.EnableFeedAlert && pred.Confidence != models.ConfidenceLow {
			return alertFeedSoon
		}
	case models.IntentStartWindDown:
		if m.settings.EnableWindDownAlert {
			return alertWindDown
		}
	}
	return ""
}

// formatNotification creates the notification title and message
func (m *Manager) formatNotification(pred *models.Prediction, alertType string) (string, string) {
	var title, message string

	switch alertType {
	case alertFeedSoon:
		title = "🍼 Feed coming up"
		if pred.Timing.NextFeedAt != nil {
			message = fmt.Sprintf("Next feed expected around %s", pred.Timing.NextFeedAt.Local().Format("3:04 PM"))
		} else {
			message = "Next feed expected soon"
		}
		if pred.Timing.ExpectedFeedML > 0 {
			message += fmt.Sprintf(" (~%.0f ml)", pred.Timing.ExpectedFeedML)
		}
	case alertWindDown:
		title = "😴 Wind-down time"
		if pred.Timing.NapWindowStart != nil {
			until := int(time.Until(*pred.Timing.NapWindowStart).Minutes())
			if until > 0 {
				message = fmt.Sprintf("Nap window opens in %s", timeutil.FormatShortDuration(until))
			} else {
				message = "Nap window is open now"
			}
		} else {
			message = "Time to start winding down for a nap"
		}
	}

	return title, message
}

// sendNotification sends a system notification
func (m *Manager) sendNotification(title, message string) error {
	// Use beeep for cross-platform notifications
	return beeep.Notify(title, message, "")
}

// ClearAlertState clears the alert state for a specific type or all types
func (m *Manager) ClearAlertState(alertType string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if alertType == "" {
		m.lastAlertTime = make(map[string]time.Time)
	} else {
		delete(m.lastAlertTime, alertType)
	}
}

// SendTestNotification sends a test notification
func (m *Manager) SendTestNotification() error {
	return beeep.Notify("Aster Tray", "Test notification - alerts are working!", "")
}
