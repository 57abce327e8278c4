package hotkey

import "errors"

// ErrUnsupported is returned by NewListener on platforms without a keyboard
// event source implementation.
var ErrUnsupported = errors.New("hotkey: no keyboard event source for this platform")

// ErrNoKeyboard is returned by Start when no usable keyboard device is found.
var ErrNoKeyboard = errors.New("hotkey: no keyboard found in /dev/input (add your user to the 'input' group)")

// Listener is a platform keyboard-event source driving a chord matcher.
// Start begins listening on a background goroutine and invokes the activate
// and deactivate callbacks synchronously from that goroutine, in event
// order. Stop terminates the in-flight read and releases the device; a
// later Start re-acquires the device from scratch.
type Listener interface {
	Start() error
	Stop()
}

// fire invokes the callback matching an edge, if any.
func fire(edge Edge, onActivate, onDeactivate func()) {
	switch edge {
	case EdgeActivated:
		onActivate()
	case EdgeDeactivated:
		onDeactivate()
	}
}
