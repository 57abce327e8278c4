package inject

import (
	"context"
	"strings"
)

// Window classes that expect ctrl+shift+v instead of ctrl+v for paste.
var terminalKeywords = []string{
	"terminal", "konsole", "xterm", "urxvt", "alacritty", "kitty",
	"terminator", "tilix", "sakura", "guake", "tilda", "foot",
	"wezterm", "hyper", "tabby", "rio", "ghostty", "contour",
	"lxterminal", "st-256color",
}

// Window classes that forward keystrokes to a remote machine. Pasting
// through the local clipboard cannot reach them, so typing is forced.
var remoteViewerKeywords = []string{
	"vncviewer", "tigervnc", "realvnc", "tightvnc", "remmina",
	"vinagre", "krdc", "xfreerdp", "rdesktop",
}

// snapshot captures the injection environment once per call so that the
// strategy decision and its execution agree.
type snapshot struct {
	session Session
	wmClass string
	tools   map[string]bool
}

func (s *snapshot) has(tool string) bool { return s.tools[tool] }

func (in *Injector) snapshotEnv(ctx context.Context) *snapshot {
	s := &snapshot{
		session: in.detectSession(ctx),
		tools:   map[string]bool{},
	}
	for _, tool := range []string{"xdotool", "xclip", "xprop", "wtype", "wl-copy", "wl-paste"} {
		if _, err := in.look(tool); err == nil {
			s.tools[tool] = true
		}
	}
	if s.session != SessionWindows && s.has("xdotool") && s.has("xprop") {
		s.wmClass = in.focusedWindowClass(ctx)
	}
	return s
}

// focusedWindowClass returns the lowercased WM_CLASS of the active window,
// or "" when it cannot be determined.
func (in *Injector) focusedWindowClass(ctx context.Context) string {
	// Bounded like every other subprocess; a wedged X server must not
	// hang the transcription goroutine.
	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id, err := in.run(qctx, "xdotool", []string{"getactivewindow"}, "")
	if err != nil {
		return ""
	}
	out, err := in.run(qctx, "xprop", []string{"-id", strings.TrimSpace(id), "WM_CLASS"}, "")
	if err != nil {
		return ""
	}
	return strings.ToLower(out)
}

func matchesAny(wmClass string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(wmClass, kw) {
			return true
		}
	}
	return false
}

func isTerminal(wmClass string) bool     { return matchesAny(wmClass, terminalKeywords) }
func isRemoteViewer(wmClass string) bool { return matchesAny(wmClass, remoteViewerKeywords) }
