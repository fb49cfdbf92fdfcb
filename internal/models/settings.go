// Package models contains data structures used throughout the application
package models

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// Settings contains all application settings
type Settings struct {
	mu sync.RWMutex `json:"-"`

	// Connection settings
	AsterURL string `json:"asterUrl"`
	APIToken string `json:"apiToken"`

	// Refresh cadence in seconds. The whole computation reruns on every
	// tick, so this also bounds how fresh the "Awake · Nm" labels are.
	RefreshInterval int `json:"refreshInterval"`

	// Night-sleep window boundary hours. The start may be numerically
	// greater than the end; the window wraps midnight.
	NightStartHour int `json:"nightStartHour"`
	NightEndHour   int `json:"nightEndHour"`

	// Fallback age source when the backend profile is unavailable.
	BirthDate string `json:"birthDate"` // "2006-01-02", empty = unknown

	// Alert settings
	EnableWindDownAlert bool `json:"enableWindDownAlert"`
	EnableFeedAlert     bool `json:"enableFeedAlert"`
	RepeatAlertMinutes  int  `json:"repeatAlertMinutes"` // 0 = no repeat

	// System settings
	AutoStart bool `json:"autoStart"`
}

// DefaultSettings returns settings with default values
func DefaultSettings() *Settings {
	return &Settings{
		AsterURL: "",
		APIToken: "",

		RefreshInterval: 60,

		NightStartHour: 19,
		NightEndHour:   5,

		BirthDate: "",

		EnableWindDownAlert: true,
		EnableFeedAlert:     true,
		RepeatAlertMinutes:  30,

		AutoStart: false,
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	appDir := filepath.Join(configDir, "aster-tray")
	if err := os.MkdirAll(appDir, 0750); err != nil {
		return "", err
	}

	return appDir, nil
}

// GetConfigPath returns the full path to the config file
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.json"), nil
}

// Load loads settings from disk
func (s *Settings) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path) //nolint:gosec // Config path is controlled by the app, not user input
	if err != nil {
		if os.IsNotExist(err) {
			// Use defaults if file doesn't exist
			s.copySettingsFields(DefaultSettings())
			return nil
		}
		return err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return err
	}

	return nil
}

// Save saves settings to disk
func (s *Settings) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Clone creates a copy of the settings
func (s *Settings) Clone() *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Create a new Settings struct with copied values (not the mutex)
	clone := &Settings{}
	clone.copySettingsFields(s)
	return clone
}

// Update updates settings from another Settings object
func (s *Settings) Update(other *Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	other.mu.RLock()
	defer other.mu.RUnlock()

	s.copySettingsFields(other)
}

// copySettingsFields copies all fields from other to s, excluding the mutex
// The caller must hold the necessary locks on s and other (if other is shared)
func (s *Settings) copySettingsFields(other *Settings) {
	s.AsterURL = other.AsterURL
	s.APIToken = other.APIToken
	s.RefreshInterval = other.RefreshInterval
	s.NightStartHour = other.NightStartHour
	s.NightEndHour = other.NightEndHour
	s.BirthDate = other.BirthDate
	s.EnableWindDownAlert = other.EnableWindDownAlert
	s.EnableFeedAlert = other.EnableFeedAlert
	s.RepeatAlertMinutes = other.RepeatAlertMinutes
	s.AutoStart = other.AutoStart
}

// IsConfigured returns true if minimum required settings are set
func (s *Settings) IsConfigured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.AsterURL != ""
}
