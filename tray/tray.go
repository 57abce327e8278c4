// Package tray shows dictation status in the system tray.
package tray

import (
	"log/slog"
	"sync/atomic"

	"github.com/getlantern/systray"
)

const appTitle = "holdtype"

// previewLimit bounds the transcript excerpt shown in the tooltip.
const previewLimit = 50

// Icon is a tray status indicator. It satisfies the orchestrator's
// StatusSink; updates arriving before the tray is ready are dropped.
type Icon struct {
	ready atomic.Bool
}

// NewIcon creates a tray icon. Call Run to show it.
func NewIcon() *Icon { return &Icon{} }

// Run shows the tray icon and blocks until Quit is chosen or systray
// shuts down. onQuit runs on the way out. Must be called from the main
// goroutine on platforms where the tray needs the main thread.
func (ic *Icon) Run(onQuit func()) {
	systray.Run(func() {
		systray.SetTitle(appTitle)
		systray.SetIcon(iconIdle)
		systray.SetTooltip("holdtype: hold the hotkey to dictate")
		ic.ready.Store(true)

		mQuit := systray.AddMenuItem("Quit", "Quit holdtype")
		go func() {
			<-mQuit.ClickedCh
			systray.Quit()
		}()
	}, onQuit)
}

// Recording switches the icon to the recording state.
func (ic *Icon) Recording() {
	if !ic.ready.Load() {
		return
	}
	systray.SetIcon(iconRecording)
	systray.SetTooltip("holdtype: recording")
}

// Transcribing switches the icon to the transcribing state.
func (ic *Icon) Transcribing() {
	if !ic.ready.Load() {
		return
	}
	systray.SetIcon(iconBusy)
	systray.SetTooltip("holdtype: transcribing")
}

// Idle returns the icon to idle, showing a preview of the last result.
func (ic *Icon) Idle(preview string) {
	if !ic.ready.Load() {
		return
	}
	systray.SetIcon(iconIdle)
	if preview == "" {
		systray.SetTooltip("holdtype: hold the hotkey to dictate")
		return
	}
	systray.SetTooltip("holdtype: " + Truncate(preview, previewLimit))
}

// Quit tears the tray down, unblocking Run.
func Quit() { systray.Quit() }

// Truncate shortens s to at most n runes, marking the cut with an
// ellipsis.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// LogSink reports status transitions to the log instead of a tray icon,
// for headless use and --no-tray.
type LogSink struct {
	Log *slog.Logger
}

func (l *LogSink) Recording() { l.Log.Info("recording") }

func (l *LogSink) Transcribing() { l.Log.Info("transcribing") }

func (l *LogSink) Idle(preview string) {
	if preview == "" {
		l.Log.Info("idle")
		return
	}
	l.Log.Info("idle", "text", Truncate(preview, previewLimit))
}
