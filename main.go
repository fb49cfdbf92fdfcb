// Package main is the entry point for the Aster Tray application
package main

import (
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/juliexu77/aster-tray/internal/app"
	"github.com/juliexu77/aster-tray/internal/tray"
)

// filteredLogWriter filters out false positive systray errors on Windows
type filteredLogWriter struct {
	writer io.Writer
}

func (w *filteredLogWriter) Write(p []byte) (n int, err error) {
	msg := string(p)

	// On Windows, filter out false positive systray errors that indicate success
	// The German message "Der Vorgang wurde erfolgreich beendet" means "The operation completed successfully"
	// This is a bug in the energye/systray library where it logs success as an error
	if runtime.GOOS == "windows" {
		if strings.Contains(msg, "systray error: unable to set icon") &&
			(strings.Contains(msg, "Der Vorgang wurde erfolgreich beendet") ||
				strings.Contains(msg, "The operation completed successfully") ||
				strings.Contains(msg, "L'opération a réussi")) { // French
			return len(p), nil // Swallow the false error
		}
	}

	return w.writer.Write(p)
}

func main() {
	// Set up filtered logging on Windows to suppress false systray errors
	if runtime.GOOS == "windows" {
		log.SetOutput(&filteredLogWriter{writer: os.Stderr})
	}

	if !tray.IsTraySupported() {
		log.Fatal("system tray is not supported on this platform")
	}

	service := app.NewService()

	var icon *tray.Icon
	icon = tray.NewIcon(service.GetSettings(), tray.Callbacks{
		OnRefresh: service.RefreshNow,
		OnPauseAlerts: func(paused bool) {
			service.SetAlertsPaused(paused)
		},
		OnAutoStart: func(enabled bool) {
			if err := service.SetAutoStart(enabled); err != nil {
				log.Printf("Autostart error: %v", err)
			}
		},
		OnTestAlert: func() {
			if err := service.SendTestNotification(); err != nil {
				log.Printf("Notification error: %v", err)
			}
		},
		OnQuit: func() {
			service.Stop()
			icon.Quit()
		},
	})

	service.SetTray(icon)

	// Blocks until quit; must run on the main goroutine
	icon.Run()
}
