//go:build linux

package hotkey

import "testing"

func TestLinuxListenerDisconnectClearsState(t *testing.T) {
	lst, err := NewListener("ctrl+shift", func() {}, func() {})
	if err != nil {
		t.Fatalf("NewListener: %v", err)
	}
	l := lst.(*linuxListener)

	// Simulate an acquired device whose read loop just hit a read error.
	l.mu.Lock()
	l.running = true
	l.done = make(chan struct{})
	l.mu.Unlock()

	if !l.markStopped() {
		t.Fatal("read loop did not claim the stop transition")
	}
	l.mu.Lock()
	running, dev, done := l.running, l.dev, l.done
	l.mu.Unlock()
	if running || dev != nil || done != nil {
		t.Fatal("listener state not cleared after disconnect")
	}

	// Once claimed, a second claim must fail so cleanup never runs twice.
	if l.markStopped() {
		t.Fatal("second markStopped claimed an already-stopped listener")
	}

	// Stop after a disconnect is a no-op, not a hang on a dead channel.
	l.Stop()
}
