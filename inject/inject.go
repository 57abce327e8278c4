// Package inject delivers transcribed text into the focused window.
//
// Injection prefers clipboard paste (fast, no per-key latency) and falls
// back to synthetic typing where paste cannot work: remote desktop viewers
// forward keystrokes but not the local clipboard, and minimal setups may
// lack a clipboard tool entirely.
package inject

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"time"
)

// ErrNoBackend is returned when no usable injection tool is installed.
var ErrNoBackend = errors.New("inject: no typing backend available")

// Options controls a single injection.
type Options struct {
	// KeyDelay is the per-keystroke delay used when typing.
	KeyDelay time.Duration

	// LeadingSpace prepends a space so consecutive dictations do not run
	// together.
	LeadingSpace bool
}

// Injector injects text into the focused window. The zero value is not
// usable; construct with New.
type Injector struct {
	log    *slog.Logger
	run    commandFunc
	look   func(string) (string, error)
	getenv func(string) string
	goos   string

	// settle is the pause between clipboard writes and the paste chord,
	// giving the clipboard manager time to observe the change.
	settle time.Duration

	// Windows clipboard and keystroke hooks, replaceable in tests.
	clipRead  func() (string, error)
	clipWrite func(string) error
	pasteKey  func() error
}

// New creates an Injector logging through log.
func New(log *slog.Logger) *Injector {
	return &Injector{
		log:       log,
		run:       runCommand,
		look:      exec.LookPath,
		getenv:    os.Getenv,
		goos:      runtime.GOOS,
		settle:    100 * time.Millisecond,
		clipRead:  readClipboard,
		clipWrite: writeClipboard,
		pasteKey:  sendCtrlV,
	}
}

// Inject delivers text into the focused window. Empty text is a no-op.
func (in *Injector) Inject(text string, opts Options) error {
	if text == "" {
		return nil
	}
	if opts.LeadingSpace {
		text = " " + text
	}

	ctx := context.Background()
	snap := in.snapshotEnv(ctx)

	if snap.session == SessionWindows {
		return in.pasteWindows(text)
	}

	// Most Wayland compositors still run XWayland, where xdotool works
	// against the focused X client and its window metadata is visible.
	useX11 := snap.session == SessionX11 ||
		(snap.session == SessionWayland && snap.has("xdotool"))

	if useX11 && snap.has("xdotool") {
		if isRemoteViewer(snap.wmClass) {
			// The viewer relays each keystroke over the wire; too fast
			// and the remote end drops events.
			delay := opts.KeyDelay
			if delay < 12*time.Millisecond {
				delay = 12 * time.Millisecond
			}
			in.log.Debug("typing into remote viewer", "class", snap.wmClass)
			return in.typeX11(ctx, text, delay)
		}
		if snap.has("xclip") {
			return in.pasteX11(ctx, snap, text)
		}
		return in.typeX11(ctx, text, opts.KeyDelay)
	}

	if snap.session == SessionWayland && snap.has("wtype") {
		if snap.has("wl-copy") {
			return in.pasteWayland(ctx, text)
		}
		return in.typeWayland(ctx, text, opts.KeyDelay)
	}

	return ErrNoBackend
}

func (in *Injector) wait() {
	if in.settle > 0 {
		time.Sleep(in.settle)
	}
}
