//go:build linux

package hotkey

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/holoplot/go-evdev"
)

// linuxKeymap maps chord tokens to evdev keycodes. Reading /dev/input
// directly works on both X11 and Wayland, unlike display-server hooks.
var linuxKeymap = Keymap{
	"ctrl":       {Keycode(evdev.KEY_LEFTCTRL), Keycode(evdev.KEY_RIGHTCTRL)},
	"ctrl_l":     {Keycode(evdev.KEY_LEFTCTRL)},
	"ctrl_r":     {Keycode(evdev.KEY_RIGHTCTRL)},
	"shift":      {Keycode(evdev.KEY_LEFTSHIFT), Keycode(evdev.KEY_RIGHTSHIFT)},
	"shift_l":    {Keycode(evdev.KEY_LEFTSHIFT)},
	"shift_r":    {Keycode(evdev.KEY_RIGHTSHIFT)},
	"alt":        {Keycode(evdev.KEY_LEFTALT), Keycode(evdev.KEY_RIGHTALT)},
	"alt_l":      {Keycode(evdev.KEY_LEFTALT)},
	"alt_r":      {Keycode(evdev.KEY_RIGHTALT)},
	"super":      {Keycode(evdev.KEY_LEFTMETA), Keycode(evdev.KEY_RIGHTMETA)},
	"super_l":    {Keycode(evdev.KEY_LEFTMETA)},
	"super_r":    {Keycode(evdev.KEY_RIGHTMETA)},
	"capslock":   {Keycode(evdev.KEY_CAPSLOCK)},
	"scrolllock": {Keycode(evdev.KEY_SCROLLLOCK)},
	"pause":      {Keycode(evdev.KEY_PAUSE)},
	"f9":         {Keycode(evdev.KEY_F9)},
	"f10":        {Keycode(evdev.KEY_F10)},
	"f11":        {Keycode(evdev.KEY_F11)},
	"f12":        {Keycode(evdev.KEY_F12)},
}

type linuxListener struct {
	matcher      *Matcher
	onActivate   func()
	onDeactivate func()

	mu      sync.Mutex
	dev     *evdev.InputDevice
	running bool
	done    chan struct{}
}

// NewListener creates the Linux listener, which reads raw key events from
// the first keyboard-capable device under /dev/input.
func NewListener(spec string, onActivate, onDeactivate func()) (Listener, error) {
	chord, err := ParseChord(spec, linuxKeymap)
	if err != nil {
		return nil, err
	}
	return &linuxListener{
		matcher:      NewMatcher(chord),
		onActivate:   onActivate,
		onDeactivate: onDeactivate,
	}, nil
}

func (l *linuxListener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return nil
	}

	dev, err := findKeyboard()
	if err != nil {
		return err
	}

	l.matcher.Reset()
	l.dev = dev
	l.running = true
	l.done = make(chan struct{})
	go l.readLoop(dev, l.done)
	return nil
}

func (l *linuxListener) Stop() {
	l.mu.Lock()
	dev := l.dev
	done := l.done
	l.dev = nil
	l.done = nil
	l.running = false
	l.mu.Unlock()

	if dev != nil {
		// Closing the device unblocks the read loop.
		_ = dev.Close()
	}
	if done != nil {
		<-done
	}
}

func (l *linuxListener) readLoop(dev *evdev.InputDevice, done chan struct{}) {
	defer close(done)

	if name, err := dev.Name(); err == nil {
		slog.Info("keyboard device acquired", "name", name)
	}

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if l.markStopped() {
				// Spontaneous disconnect, not Stop. Clearing the state
				// here lets a later Start re-acquire a device directly.
				slog.Warn("keyboard read ended", "error", err)
				_ = dev.Close()
			}
			l.matcher.Reset()
			return
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		switch ev.Value {
		case 1, 2: // down, auto-repeat
			fire(l.matcher.Process(Keycode(ev.Code), true), l.onActivate, l.onDeactivate)
		case 0: // up
			fire(l.matcher.Process(Keycode(ev.Code), false), l.onActivate, l.onDeactivate)
		}
	}
}

// markStopped transitions running to false from the read loop and reports
// whether the loop observed the transition itself. Returns false when Stop
// already claimed it.
func (l *linuxListener) markStopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return false
	}
	l.running = false
	l.dev = nil
	l.done = nil
	return true
}

// findKeyboard returns the first input device that looks like a real
// keyboard: EV_KEY capable with at least the A and Z keys.
func findKeyboard() (*evdev.InputDevice, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			continue // permission denied or vanished device
		}
		if isKeyboard(dev) {
			return dev, nil
		}
		_ = dev.Close()
	}
	return nil, ErrNoKeyboard
}

func isKeyboard(dev *evdev.InputDevice) bool {
	for _, t := range dev.CapableTypes() {
		if t != evdev.EV_KEY {
			continue
		}
		var hasA, hasZ bool
		for _, code := range dev.CapableEvents(evdev.EV_KEY) {
			switch code {
			case evdev.KEY_A:
				hasA = true
			case evdev.KEY_Z:
				hasZ = true
			}
		}
		return hasA && hasZ
	}
	return false
}
