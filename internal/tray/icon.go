// Package tray handles the system tray icon and menu
package tray

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/energye/systray"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/juliexu77/aster-tray/internal/arc"
	"github.com/juliexu77/aster-tray/internal/models"
	"github.com/juliexu77/aster-tray/internal/timeutil"
	"golang.org/x/image/font/gofont/goregular"
)

const osWindows = "windows"

// Snapshot is the per-refresh view the service hands to the tray.
type Snapshot struct {
	Label        string
	Prediction   *models.Prediction
	ArcFraction  float64
	StaleMinutes int
	IsStale      bool
}

// Callbacks are the menu actions wired by the app layer.
type Callbacks struct {
	OnRefresh     func()
	OnPauseAlerts func(paused bool)
	OnAutoStart   func(enabled bool)
	OnTestAlert   func()
	OnQuit        func()
}

// Icon represents the tray icon manager
type Icon struct {
	mu            sync.Mutex
	settings      *models.Settings
	callbacks     Callbacks
	menuRefresh   *systray.MenuItem
	menuPause     *systray.MenuItem
	menuAutoStart *systray.MenuItem
	menuTest      *systray.MenuItem
	menuQuit      *systray.MenuItem
	last          *Snapshot
}

// NewIcon creates a new tray icon manager
func NewIcon(settings *models.Settings, callbacks Callbacks) *Icon {
	return &Icon{
		settings:  settings,
		callbacks: callbacks,
	}
}

// Run starts the system tray - must be called from main goroutine
func (t *Icon) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit exits the system tray
func (t *Icon) Quit() {
	systray.Quit()
}

// onReady is called when the tray is ready
func (t *Icon) onReady() {
	systray.SetIcon(t.generateIcon(0, "", false))
	systray.SetTitle("Aster Tray")
	systray.SetTooltip("Aster Tray - Loading...")

	t.menuRefresh = systray.AddMenuItem("Refresh Now", "Fetch the latest log entries")
	t.menuPause = systray.AddMenuItemCheckbox("Pause Alerts", "Stop feed and wind-down alerts", false)
	t.menuAutoStart = systray.AddMenuItemCheckbox("Start at Login", "Launch when you sign in", t.settings.Clone().AutoStart)
	t.menuTest = systray.AddMenuItem("Test Notification", "Send a test notification")
	systray.AddSeparator()
	t.menuQuit = systray.AddMenuItem("Quit", "Quit the application")

	t.menuRefresh.Click(func() {
		if t.callbacks.OnRefresh != nil {
			t.callbacks.OnRefresh()
		}
	})

	t.menuPause.Click(func() {
		paused := !t.menuPause.Checked()
		if paused {
			t.menuPause.Check()
		} else {
			t.menuPause.Uncheck()
		}
		if t.callbacks.OnPauseAlerts != nil {
			t.callbacks.OnPauseAlerts(paused)
		}
	})

	t.menuAutoStart.Click(func() {
		enabled := !t.menuAutoStart.Checked()
		if enabled {
			t.menuAutoStart.Check()
		} else {
			t.menuAutoStart.Uncheck()
		}
		if t.callbacks.OnAutoStart != nil {
			t.callbacks.OnAutoStart(enabled)
		}
	})

	t.menuTest.Click(func() {
		if t.callbacks.OnTestAlert != nil {
			t.callbacks.OnTestAlert()
		}
	})

	t.menuQuit.Click(func() {
		if t.callbacks.OnQuit != nil {
			t.callbacks.OnQuit()
		}
	})
}

// onExit is called when the tray is being closed
func (t *Icon) onExit() {
	// Cleanup if needed
}

// Update redraws the tray from the latest snapshot
func (t *Icon) Update(snap *Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = snap

	systray.SetTitle(snap.Label)
	systray.SetTooltip(t.formatTooltip(snap))

	iconBytes := t.generateIcon(snap.ArcFraction, t.statusColor(snap), snap.IsStale)
	if iconBytes != nil {
		systray.SetIcon(iconBytes)
	}
}

// SetError sets an error state on the tray
func (t *Icon) SetError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	systray.SetTitle("⚠️")
	systray.SetTooltip(fmt.Sprintf("Error: %v", err))
	systray.SetIcon(t.generateIcon(0, "#ef4444", false))
}

// SetLoading sets a loading state on the tray
func (t *Icon) SetLoading() {
	t.mu.Lock()
	defer t.mu.Unlock()

	systray.SetTitle("...")
	systray.SetTooltip("Loading log entries...")
}

// formatTooltip builds the multi-line tooltip. Windows caps tooltips at
// 128 UTF-16 characters, so it gets a compact one-liner per section.
func (t *Icon) formatTooltip(snap *Snapshot) string {
	compact := runtime.GOOS == osWindows

	var b bytes.Buffer
	b.WriteString(snap.Label)

	if pred := snap.Prediction; pred != nil {
		if line := intentLine(pred, compact); line != "" {
			b.WriteString("\n")
			b.WriteString(line)
		}
		if compact {
			b.WriteString(fmt.Sprintf("\nF%d/%d N%d/%d",
				pred.Today.FeedsLogged, pred.Today.FeedsMax,
				pred.Today.NapsLogged, pred.Today.NapsMax))
		} else {
			b.WriteString(fmt.Sprintf("\nFeeds today: %d of %d-%d\nNaps today: %d of %d-%d",
				pred.Today.FeedsLogged, pred.Today.FeedsMin, pred.Today.FeedsMax,
				pred.Today.NapsLogged, pred.Today.NapsMin, pred.Today.NapsMax))
		}
	}

	if snap.IsStale {
		if compact {
			b.WriteString(" ⚠")
		} else {
			b.WriteString(fmt.Sprintf("\n⚠️ Last entry %s ago (check connection)",
				timeutil.FormatShortDuration(snap.StaleMinutes)))
		}
	}

	return b.String()
}

// intentLine renders the prediction's next expected event for the tooltip
func intentLine(pred *models.Prediction, compact bool) string {
	clock := func(at *time.Time) string {
		return at.Local().Format("3:04 PM")
	}

	switch pred.Intent {
	case models.IntentLetSleepContinue:
		if pred.Timing.WakeEstimate != nil {
			if compact {
				return "Wake ~" + clock(pred.Timing.WakeEstimate)
			}
			return "Likely to wake around " + clock(pred.Timing.WakeEstimate)
		}
		return "Let the nap continue"
	case models.IntentFeedSoon:
		if pred.Timing.NextFeedAt != nil {
			if compact {
				return "Feed ~" + clock(pred.Timing.NextFeedAt)
			}
			return "Next feed expected around " + clock(pred.Timing.NextFeedAt)
		}
		return "Feed coming up"
	case models.IntentStartWindDown:
		if pred.Timing.NapWindowStart != nil {
			if compact {
				return "Nap ~" + clock(pred.Timing.NapWindowStart)
			}
			return "Nap window opens around " + clock(pred.Timing.NapWindowStart)
		}
		return "Time to wind down"
	case models.IntentIndependentTime:
		if compact {
			return "Play time"
		}
		return "Good window for independent play"
	}
	return ""
}

// statusColor picks the gauge color from the current intent
func (t *Icon) statusColor(snap *Snapshot) string {
	if snap.IsStale {
		return "#9ca3af" // Gray-400 for stale data
	}
	if snap.Prediction == nil {
		return "#808080" // Gray for unknown
	}

	switch snap.Prediction.Intent {
	case models.IntentLetSleepContinue:
		return "#818cf8" // Indigo
	case models.IntentFeedSoon:
		return "#f97316" // Orange
	case models.IntentStartWindDown:
		return "#a78bfa" // Violet
	default:
		return "#4ade80" // Green
	}
}

// generateIcon draws the 64x64 arc gauge with gg. The track follows the
// dashboard's arc geometry and the dot marks the current fraction of
// the sleep or wake window.
func (t *Icon) generateIcon(fraction float64, hexColor string, stale bool) []byte {
	const (
		width  = 64
		height = 64
	)

	dc := gg.NewContext(width, height)

	// Transparent background
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()

	if hexColor == "" {
		hexColor = "#808080"
	}
	r, g, b := parseHexColor(hexColor)

	// Track. gg's y axis points down, so angles are negated to keep the
	// arc opening downward like the dashboard gauge.
	startRad := -gg.Radians(arc.StartAngleDeg)
	endRad := -gg.Radians(arc.EndAngleDeg)

	dc.SetRGBA255(int(r), int(g), int(b), 90)
	dc.SetLineWidth(7)
	dc.DrawArc(arc.CenterX, arc.CenterY, arc.Radius, startRad, endRad)
	dc.Stroke()

	// Progress sweep up to the clamped fraction
	display := math.Min(fraction, 1.0)
	if display > 0 {
		sweepEnd := startRad + (endRad-startRad)*display
		dc.SetRGB255(int(r), int(g), int(b))
		dc.DrawArc(arc.CenterX, arc.CenterY, arc.Radius, startRad, sweepEnd)
		dc.Stroke()
	}

	// Dot at the current position
	dotX, dotY := arc.PointOnPath(fraction)
	dc.SetRGB255(int(r), int(g), int(b))
	dc.DrawCircle(dotX, dotY, 6)
	dc.Fill()

	// Overflow marker: past the window the dot gets a white core
	if fraction > 1.0 && !stale {
		dc.SetRGB255(255, 255, 255)
		dc.DrawCircle(dotX, dotY, 2.5)
		dc.Fill()
	}

	// Percent text under the arc
	if err := t.loadFont(dc, 15); err == nil {
		dc.SetRGB255(int(r), int(g), int(b))
		label := fmt.Sprintf("%d", int(math.Round(display*100)))
		dc.DrawStringAnchored(label, width/2, height-8, 0.5, 0.5)
	}

	// On Windows, convert to ICO format; otherwise use PNG
	if runtime.GOOS == osWindows {
		return imageToICO(dc.Image())
	}

	// Encode to PNG for Linux/macOS
	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil
	}

	return buf.Bytes()
}

// loadFont helper to load font safely
func (t *Icon) loadFont(dc *gg.Context, size float64) error {
	font, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return err
	}
	face := truetype.NewFace(font, &truetype.Options{Size: size})
	dc.SetFontFace(face)
	return nil
}

// parseHexColor parses a hex color string to RGB values
func parseHexColor(hex string) (r, g, b byte) {
	if len(hex) == 7 && hex[0] == '#' {
		_, _ = fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)
	}
	return
}

// UpdateSettings updates the settings reference
func (t *Icon) UpdateSettings(settings *models.Settings) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settings = settings

	// Re-render with new settings
	if t.last != nil {
		last := t.last
		go t.Update(last)
	}
}

// IsTraySupported returns true if system tray is supported on this platform
func IsTraySupported() bool {
	switch runtime.GOOS {
	case "linux", "windows", "darwin":
		return true
	default:
		return false
	}
}

// imageToICO converts an image to ICO format
// ICO format structure:
// - ICONDIR header (6 bytes)
// - ICONDIRENTRY for each image (16 bytes)
// - PNG data for each image
func imageToICO(img image.Image) []byte {
	var buf bytes.Buffer

	// First, encode image as PNG
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil
	}
	pngData := pngBuf.Bytes()

	// ICO file header (ICONDIR)
	// 0-1: Reserved (must be 0)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(0))
	// 2-3: Type (1 = ICO, 2 = CUR)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	// 4-5: Number of images
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))

	// ICONDIRENTRY for the image
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	// Width (0 = 256)
	if width >= 256 {
		buf.WriteByte(0)
	} else {
		buf.WriteByte(byte(width))
	}
	// Height (0 = 256)
	if height >= 256 {
		buf.WriteByte(0)
	} else {
		buf.WriteByte(byte(height))
	}
	// Color palette (0 = no palette)
	buf.WriteByte(0)
	// Reserved (must be 0)
	buf.WriteByte(0)
	// Color planes (0 or 1)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	// Bits per pixel
	_ = binary.Write(&buf, binary.LittleEndian, uint16(32))
	// Size of image data
	// #nosec G115 -- PNG size is limited by memory and will not overflow uint32
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pngData)))
	// Offset to image data (header + directory entry = 6 + 16 = 22)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(22))

	// Append PNG data
	buf.Write(pngData)

	return buf.Bytes()
}
