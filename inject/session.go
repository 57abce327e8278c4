package inject

import (
	"context"
	"strings"
)

// Session identifies the display environment text is injected into.
type Session string

const (
	SessionX11     Session = "x11"
	SessionWayland Session = "wayland"
	SessionWindows Session = "windows"
)

// detectSession determines the display session type. Environment variables
// are consulted first; loginctl is a fallback for stripped environments.
func (in *Injector) detectSession(ctx context.Context) Session {
	if in.goos == "windows" {
		return SessionWindows
	}

	switch strings.ToLower(in.getenv("XDG_SESSION_TYPE")) {
	case "x11":
		return SessionX11
	case "wayland":
		return SessionWayland
	}

	if in.getenv("WAYLAND_DISPLAY") != "" {
		return SessionWayland
	}

	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	out, err := in.run(qctx, "loginctl", []string{"show-session", "-p", "Type", "--value"}, "")
	cancel()
	if err == nil {
		switch strings.TrimSpace(out) {
		case "x11":
			return SessionX11
		case "wayland":
			return SessionWayland
		}
	}

	return SessionX11
}
