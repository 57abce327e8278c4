//go:build !linux && !windows

package hotkey

// NewListener is unavailable on this platform.
func NewListener(spec string, onActivate, onDeactivate func()) (Listener, error) {
	return nil, ErrUnsupported
}
