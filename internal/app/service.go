// Package app wires the client, analysis, tray, and alerts together.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/juliexu77/aster-tray/internal/arc"
	"github.com/juliexu77/aster-tray/internal/aster"
	"github.com/juliexu77/aster-tray/internal/autostart"
	"github.com/juliexu77/aster-tray/internal/baseline"
	"github.com/juliexu77/aster-tray/internal/insights"
	"github.com/juliexu77/aster-tray/internal/models"
	"github.com/juliexu77/aster-tray/internal/notifications"
	"github.com/juliexu77/aster-tray/internal/prediction"
	"github.com/juliexu77/aster-tray/internal/status"
	"github.com/juliexu77/aster-tray/internal/tray"
)

// historyDays is how much log history each refresh pulls. A week covers
// every analysis window the insight and prediction layers look at.
const historyDays = 7

// staleAfterMinutes marks the snapshot stale when fetches keep failing
// for this long.
const staleAfterMinutes = 10

// Service runs the refresh loop and owns the latest computed snapshot.
type Service struct {
	settings      *models.Settings
	client        *aster.Client
	engine        *prediction.Engine
	labels        *status.Generator
	notifyManager *notifications.Manager
	provider      baseline.Provider

	mu                sync.RWMutex
	tray              *tray.Icon
	baby              *models.BabyProfile
	lastEvents        []models.Event
	lastSnapshot      *tray.Snapshot
	lastPrediction    *models.Prediction
	lastSuccessTime   time.Time
	consecutiveErrors int
	ticker            *time.Ticker
	stopChan          chan struct{}
	refreshChan       chan struct{}
	isRunning         bool
}

// NewService loads settings and builds the service. The tray is attached
// later, once systray is ready.
func NewService() *Service {
	settings := models.DefaultSettings()
	if err := settings.Load(); err != nil {
		log.Printf("Error loading settings: %v", err)
	}

	provider := baseline.Table{}

	s := &Service{
		settings:      settings,
		engine:        prediction.NewEngine(provider),
		notifyManager: notifications.NewManager(settings),
		provider:      provider,
		stopChan:      make(chan struct{}),
		refreshChan:   make(chan struct{}, 1),
	}
	s.labels = status.NewGenerator(settings.NightStartHour, settings.NightEndHour)

	if settings.IsConfigured() {
		s.initClient()
	}

	return s
}

func (s *Service) initClient() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.settings.Clone()
	s.client = aster.NewClient(cfg.AsterURL, cfg.APIToken)
	s.labels = status.NewGenerator(cfg.NightStartHour, cfg.NightEndHour)
	s.baby = nil
}

// SetTray attaches the tray icon and starts the background loop.
func (s *Service) SetTray(icon *tray.Icon) {
	s.mu.Lock()
	s.tray = icon
	s.mu.Unlock()

	go s.startUpdateLoop()
}

// Stop shuts the refresh loop down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}
	s.isRunning = false
	close(s.stopChan)
}

func (s *Service) startUpdateLoop() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true

	interval := time.Duration(s.settings.RefreshInterval) * time.Second
	s.ticker = time.NewTicker(interval)
	s.mu.Unlock()

	// Initial fetch
	s.fetchAndUpdate()

	for {
		select {
		case <-s.ticker.C:
			s.fetchAndUpdate()
		case <-s.refreshChan:
			s.fetchAndUpdate()
		case <-s.stopChan:
			s.ticker.Stop()
			return
		}
	}
}

// RefreshNow triggers an immediate refresh without waiting for the tick.
func (s *Service) RefreshNow() {
	select {
	case s.refreshChan <- struct{}{}:
	default:
	}
}

func (s *Service) fetchAndUpdate() {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	if client == nil {
		return
	}

	events, err := client.GetEventsDays(historyDays)
	if err != nil {
		s.handleFetchError(err)
		return
	}

	s.mu.Lock()
	s.consecutiveErrors = 0
	s.lastSuccessTime = time.Now()
	s.lastEvents = events
	baby := s.baby
	s.mu.Unlock()

	if baby == nil {
		s.hydrateBaby()
	}

	snap, pred := s.buildSnapshot(events, time.Now())

	s.mu.Lock()
	s.lastSnapshot = snap
	s.lastPrediction = pred
	s.mu.Unlock()

	s.updateTray(snap)

	if err := s.notifyManager.CheckAndNotify(pred); err != nil {
		log.Printf("Notification error: %v", err)
	}
}

func (s *Service) handleFetchError(err error) {
	s.mu.Lock()
	s.consecutiveErrors++
	errorCount := s.consecutiveErrors
	last := s.lastSnapshot
	lastSuccess := s.lastSuccessTime
	s.mu.Unlock()

	log.Printf("Error fetching log entries (attempt %d): %v", errorCount, err)

	if last != nil && !lastSuccess.IsZero() {
		stale := *last
		stale.StaleMinutes = int(time.Since(lastSuccess).Minutes())
		stale.IsStale = stale.StaleMinutes > staleAfterMinutes
		s.updateTray(&stale)
		return
	}

	s.mu.RLock()
	t := s.tray
	s.mu.RUnlock()
	if t != nil {
		t.SetError(err)
	}
}

// buildSnapshot runs the full analysis pass over one fetch of events.
func (s *Service) buildSnapshot(events []models.Event, now time.Time) (*tray.Snapshot, *models.Prediction) {
	sorted := models.SortedByTime(events)
	ongoing := models.OngoingSleep(sorted)
	ageWeeks := s.ageWeeks(now)

	pred := s.engine.Predict(sorted, ageWeeks, now)
	label := s.currentLabels().CurrentLabel(sorted, ongoing, now)
	fraction := arc.Position(sorted, ongoing, s.provider, ageWeeks, now)

	return &tray.Snapshot{
		Label:       label,
		Prediction:  pred,
		ArcFraction: fraction,
	}, pred
}

func (s *Service) currentLabels() *status.Generator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.labels
}

// ageWeeks resolves the baby's age, preferring the backend profile and
// falling back to the configured birth date. Negative means unknown.
func (s *Service) ageWeeks(now time.Time) float64 {
	s.mu.RLock()
	baby := s.baby
	birthDate := s.settings.Clone().BirthDate
	s.mu.RUnlock()

	if baby != nil {
		if weeks := baby.AgeWeeks(now); weeks >= 0 {
			return weeks
		}
	}

	if birthDate != "" {
		fallback := models.BabyProfile{BirthDate: birthDate}
		return fallback.AgeWeeks(now)
	}

	return -1
}

func (s *Service) hydrateBaby() {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	if client == nil {
		return
	}

	baby, err := client.GetBaby()
	if err != nil {
		log.Printf("Error fetching baby profile: %v", err)
		return
	}

	s.mu.Lock()
	s.baby = baby
	s.mu.Unlock()
}

func (s *Service) updateTray(snap *tray.Snapshot) {
	s.mu.RLock()
	t := s.tray
	s.mu.RUnlock()

	if t == nil {
		return
	}
	t.Update(snap)
}

// Public accessors.

// GetSettings returns a copy of the current settings.
func (s *Service) GetSettings() *models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// SaveSettings persists new settings and restarts the loop with them.
func (s *Service) SaveSettings(settings *models.Settings) error {
	s.mu.Lock()
	s.settings.Update(settings)
	s.mu.Unlock()

	if err := s.settings.Save(); err != nil {
		return err
	}

	s.initClient()
	s.notifyManager.UpdateSettings(s.settings)
	s.restartUpdateLoop()

	if settings.AutoStart {
		_ = autostart.Enable()
	} else {
		_ = autostart.Disable()
	}

	return nil
}

func (s *Service) restartUpdateLoop() {
	s.mu.Lock()
	if s.ticker != nil {
		s.ticker.Stop()
	}
	interval := time.Duration(s.settings.RefreshInterval) * time.Second
	s.ticker = time.NewTicker(interval)
	s.mu.Unlock()

	s.RefreshNow()
}

// GetPrediction returns the most recent prediction, possibly nil.
func (s *Service) GetPrediction() *models.Prediction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPrediction
}

// GetCurrentLabel returns the most recent status phrase.
func (s *Service) GetCurrentLabel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastSnapshot == nil {
		return ""
	}
	return s.lastSnapshot.Label
}

// GetInsights recomputes pattern insights over the cached history.
func (s *Service) GetInsights() []models.Insight {
	s.mu.RLock()
	events := s.lastEvents
	s.mu.RUnlock()

	return insights.Analyze(events, time.Now())
}

// SetAlertsPaused toggles notification delivery.
func (s *Service) SetAlertsPaused(paused bool) {
	s.notifyManager.SetPaused(paused)
}

// SetAutoStart flips the login-item registration and records it.
func (s *Service) SetAutoStart(enabled bool) error {
	cfg := s.settings.Clone()
	cfg.AutoStart = enabled
	s.settings.Update(cfg)

	if err := s.settings.Save(); err != nil {
		return err
	}

	if enabled {
		return autostart.Enable()
	}
	return autostart.Disable()
}

// SendTestNotification forwards to the notification manager.
func (s *Service) SendTestNotification() error {
	return s.notifyManager.SendTestNotification()
}

// TestConnection verifies the configured backend is reachable.
func (s *Service) TestConnection() error {
	s.mu.RLock()
	client := s.client
	s.mu.RUnlock()

	if client == nil {
		return fmt.Errorf("not configured")
	}
	return client.TestConnection()
}
