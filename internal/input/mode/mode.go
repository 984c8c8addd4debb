// Package mode defines the editor's modes.
//
// Exactly one mode is active at a time. Each mode owns an independent key
// binding namespace; see the trigger package.
package mode

import (
	"fmt"
	"strings"
)

// Mode is one of the mutually exclusive editing states.
// The zero value is Normal.
type Mode uint8

// Editing modes.
const (
	Normal Mode = iota
	Insert
	Visual
	Command
	Replace
	Terminal
)

// Count is the number of modes.
const Count = int(Terminal) + 1

var names = [Count]string{"normal", "insert", "visual", "command", "replace", "terminal"}

// All returns every mode in declaration order.
func All() []Mode {
	return []Mode{Normal, Insert, Visual, Command, Replace, Terminal}
}

// String returns the mode's lower-case name.
func (m Mode) String() string {
	if m.Valid() {
		return names[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// DisplayName returns the status line label, e.g. "-- INSERT --".
// Normal mode has no label.
func (m Mode) DisplayName() string {
	if m == Normal || !m.Valid() {
		return ""
	}
	return "-- " + strings.ToUpper(names[m]) + " --"
}

// Valid reports whether m is one of the declared modes.
func (m Mode) Valid() bool {
	return int(m) < Count
}

// Parse parses a mode name, case-insensitively.
func Parse(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range names {
		if name == s {
			return Mode(i), nil
		}
	}
	return Normal, fmt.Errorf("unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so modes can be used
// directly as keys and values in configuration files.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
