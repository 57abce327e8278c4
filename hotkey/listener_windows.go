//go:build windows

package hotkey

import (
	"sync"

	hook "github.com/robotn/gohook"
)

// Windows virtual-key codes for the supported chord tokens.
const (
	vkShift      Keycode = 0x10
	vkControl    Keycode = 0x11
	vkMenu       Keycode = 0x12
	vkPause      Keycode = 0x13
	vkCapsLock   Keycode = 0x14
	vkLWin       Keycode = 0x5B
	vkRWin       Keycode = 0x5C
	vkF9         Keycode = 0x78
	vkF10        Keycode = 0x79
	vkF11        Keycode = 0x7A
	vkF12        Keycode = 0x7B
	vkScrollLock Keycode = 0x91
	vkLShift     Keycode = 0xA0
	vkRShift     Keycode = 0xA1
	vkLControl   Keycode = 0xA2
	vkRControl   Keycode = 0xA3
	vkLMenu      Keycode = 0xA4
	vkRMenu      Keycode = 0xA5
)

// windowsKeymap maps chord tokens to virtual-key codes. The generic
// modifier codes (VK_SHIFT etc.) are included in the side-agnostic groups
// because the hook may report either form.
var windowsKeymap = Keymap{
	"ctrl":       {vkLControl, vkRControl, vkControl},
	"ctrl_l":     {vkLControl},
	"ctrl_r":     {vkRControl},
	"shift":      {vkLShift, vkRShift, vkShift},
	"shift_l":    {vkLShift},
	"shift_r":    {vkRShift},
	"alt":        {vkLMenu, vkRMenu, vkMenu},
	"alt_l":      {vkLMenu},
	"alt_r":      {vkRMenu},
	"super":      {vkLWin, vkRWin},
	"super_l":    {vkLWin},
	"super_r":    {vkRWin},
	"capslock":   {vkCapsLock},
	"scrolllock": {vkScrollLock},
	"pause":      {vkPause},
	"f9":         {vkF9},
	"f10":        {vkF10},
	"f11":        {vkF11},
	"f12":        {vkF12},
}

type windowsListener struct {
	matcher      *Matcher
	onActivate   func()
	onDeactivate func()

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

// NewListener creates the Windows listener, backed by a low-level keyboard
// hook.
func NewListener(spec string, onActivate, onDeactivate func()) (Listener, error) {
	chord, err := ParseChord(spec, windowsKeymap)
	if err != nil {
		return nil, err
	}
	return &windowsListener{
		matcher:      NewMatcher(chord),
		onActivate:   onActivate,
		onDeactivate: onDeactivate,
	}, nil
}

func (l *windowsListener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return nil
	}

	l.matcher.Reset()
	events := hook.Start()
	l.running = true
	l.done = make(chan struct{})
	go l.hookLoop(events, l.done)
	return nil
}

func (l *windowsListener) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	done := l.done
	l.done = nil
	l.mu.Unlock()

	hook.End() // closes the event channel, ending hookLoop
	<-done
}

func (l *windowsListener) hookLoop(events chan hook.Event, done chan struct{}) {
	defer close(done)
	for ev := range events {
		switch ev.Kind {
		case hook.KeyDown, hook.KeyHold:
			fire(l.matcher.Process(Keycode(ev.Rawcode), true), l.onActivate, l.onDeactivate)
		case hook.KeyUp:
			fire(l.matcher.Process(Keycode(ev.Rawcode), false), l.onActivate, l.onDeactivate)
		}
	}
	l.matcher.Reset()
}
