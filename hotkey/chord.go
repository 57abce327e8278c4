// Package hotkey turns raw keyboard events into push-to-talk activation
// edges. A Chord describes which keys must be held; a Matcher folds the
// event stream into exactly one Activated/Deactivated pair per physical
// gesture; a platform Listener feeds the Matcher from the OS event source.
package hotkey

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Keycode identifies a physical key in the platform's native code space
// (evdev codes on Linux, virtual-key codes on Windows).
type Keycode uint16

// Keymap resolves chord tokens to groups of physically equivalent keys,
// e.g. "shift" -> {left shift, right shift}.
type Keymap map[string][]Keycode

// ErrUnknownKey reports a chord token with no keymap entry.
var ErrUnknownKey = errors.New("unknown key token")

// Chord is a parsed chord specification: an ordered sequence of key groups
// that must all be held simultaneously. Immutable once parsed.
type Chord struct {
	tokens []string
	groups [][]Keycode
}

// ParseChord parses a "+"-joined, case-insensitive chord string like
// "ctrl+shift" against the given keymap. Unknown tokens are a configuration
// error and should be treated as fatal at startup.
func ParseChord(spec string, keymap Keymap) (*Chord, error) {
	c := &Chord{}
	for _, part := range strings.Split(spec, "+") {
		token := strings.ToLower(strings.TrimSpace(part))
		group, ok := keymap[token]
		if !ok {
			return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownKey, token, availableTokens(keymap))
		}
		c.tokens = append(c.tokens, token)
		c.groups = append(c.groups, group)
	}
	return c, nil
}

// String returns the canonical chord spelling.
func (c *Chord) String() string { return strings.Join(c.tokens, "+") }

func availableTokens(keymap Keymap) string {
	tokens := make([]string, 0, len(keymap))
	for t := range keymap {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return strings.Join(tokens, ", ")
}

// Edge is a chord activation transition.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeActivated
	EdgeDeactivated
)

// Matcher tracks which member keys of each chord group are currently held
// and emits an edge on every activation transition. A group is satisfied
// while at least one of its members is down, so releasing left shift while
// right shift is still held does not deactivate a "shift" group. It is a
// pure state machine: not safe for concurrent use, owned by the listener's
// event loop.
type Matcher struct {
	chord  *Chord
	held   []map[Keycode]bool // per group: member keys currently down
	active bool
}

// NewMatcher creates a matcher with all groups released.
func NewMatcher(chord *Chord) *Matcher {
	held := make([]map[Keycode]bool, len(chord.groups))
	for i := range held {
		held[i] = make(map[Keycode]bool)
	}
	return &Matcher{chord: chord, held: held}
}

// Process folds one key event into the chord state. A down event marks the
// code held in every group containing it, an up event releases it; an edge
// is emitted only when the AND over all groups flips. OS auto-repeat
// delivers duplicate down events, which leave the state unchanged and emit
// EdgeNone.
func (m *Matcher) Process(code Keycode, down bool) Edge {
	for i, group := range m.chord.groups {
		for _, k := range group {
			if k == code {
				if down {
					m.held[i][code] = true
				} else {
					delete(m.held[i], code)
				}
				break
			}
		}
	}

	was := m.active
	m.active = true
	for _, h := range m.held {
		if len(h) == 0 {
			m.active = false
			break
		}
	}

	switch {
	case m.active && !was:
		return EdgeActivated
	case !m.active && was:
		return EdgeDeactivated
	}
	return EdgeNone
}

// Active reports whether every group currently has a held member.
func (m *Matcher) Active() bool { return m.active }

// Reset releases all groups, e.g. after the keyboard device is lost. Key-up
// events missed while disconnected are unrecoverable; reconnection starts
// from a clean slate.
func (m *Matcher) Reset() {
	for i := range m.held {
		clear(m.held[i])
	}
	m.active = false
}
