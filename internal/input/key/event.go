package key

import (
	"fmt"
	"strings"
	"unicode"
)

// Event is a single key press. Events are comparable and canonical; build
// them with New, Char or Special rather than as literals.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// New creates a canonical event.
//
// For character keys Shift is dropped (the rune already carries the case)
// and Ctrl chords use the lower-case letter. A space is a character.
func New(k Key, r rune, mods Modifier) Event {
	if k != KeyRune {
		return Event{Key: k, Modifiers: mods}
	}
	mods = mods.Without(ModShift)
	if mods.Has(ModCtrl) {
		r = unicode.ToLower(r)
	}
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// Char creates an unmodified character event.
func Char(r rune) Event {
	return New(KeyRune, r, ModNone)
}

// Ctrl creates a Ctrl+character event.
func Ctrl(r rune) Event {
	return New(KeyRune, r, ModCtrl)
}

// Special creates an event for a non-character key.
func Special(k Key, mods Modifier) Event {
	return New(k, 0, mods)
}

// IsRune returns true if this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune
}

// IsChar returns true for a printable character typed without Ctrl, Alt
// or Meta.
func (e Event) IsChar() bool {
	return e.IsRune() && e.Modifiers == ModNone && unicode.IsPrint(e.Rune)
}

// String returns the event in Vim notation. Parse(e.String()) == e.
// Examples: "a", "A", "<Space>", "<lt>", "<C-s>", "<S-Tab>", "<Esc>".
func (e Event) String() string {
	var name string
	if e.IsRune() {
		switch e.Rune {
		case ' ':
			name = "Space"
		case '<':
			name = "lt"
		case '>':
			if e.Modifiers == ModNone {
				return ">"
			}
			name = "gt"
		default:
			if e.Modifiers == ModNone {
				return string(e.Rune)
			}
			name = string(e.Rune)
		}
	} else {
		name = e.Key.String()
	}

	if mods := e.Modifiers.String(); mods != "" {
		name = mods + "-" + name
	}
	return "<" + name + ">"
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("key.Event{Key: %s, Rune: %q, Modifiers: %q}",
		e.Key, e.Rune, e.Modifiers)
}

// FormatSequence renders a sequence of events as a binding string that
// ParseSequence accepts.
func FormatSequence(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(e.String())
	}
	return sb.String()
}
