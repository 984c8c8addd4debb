package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses a single key specification.
//
// Supported formats:
//   - Single character: "a", "A", "1", "@", "<"
//   - Key names: "Enter", "Escape", "Tab"
//   - Modifier chords: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim notation: "<C-s>", "<A-f>", "<S-Tab>", "<CR>", "<Esc>", "<lt>"
func Parse(spec string) (Event, error) {
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return Char(r), nil
	}

	spec = strings.TrimSpace(spec)
	if strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVim(spec[1 : len(spec)-1])
	}

	if strings.Contains(spec[1:], "+") {
		return parseChord(spec)
	}

	return parseKey(spec, ModNone)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}

// parseVim parses the inside of <...>, e.g. "C-s", "S-Tab", "CR".
func parseVim(inner string) (Event, error) {
	if inner == "" {
		return Event{}, fmt.Errorf("%w: <>", ErrInvalidSpec)
	}

	var mods Modifier
	for {
		// A "-" that ends the string is the key itself, as in "<C-->".
		i := strings.Index(inner, "-")
		if i < 0 || i == len(inner)-1 {
			break
		}
		mod := ModifierFromName(inner[:i])
		if mod == ModNone {
			break
		}
		mods = mods.With(mod)
		inner = inner[i+1:]
	}

	return parseKey(inner, mods)
}

// parseChord parses "Ctrl+S" style notation.
func parseChord(spec string) (Event, error) {
	parts := strings.Split(spec, "+")

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}

	return parseKey(strings.TrimSpace(parts[len(parts)-1]), mods)
}

// parseKey parses a key name or single character with known modifiers.
func parseKey(name string, mods Modifier) (Event, error) {
	if name == "" {
		return Event{}, fmt.Errorf("%w: missing key", ErrInvalidSpec)
	}

	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		return New(KeyRune, r, mods), nil
	}

	lower := strings.ToLower(name)
	if r, ok := runeAliases[lower]; ok {
		return New(KeyRune, r, mods), nil
	}
	if k := FromName(lower); k != KeyNone {
		return Special(k, mods), nil
	}

	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, name)
}

// ParseSequence parses a binding made of several keys, e.g. "gg",
// "<C-w>v" or ":w<CR>". A '<' that does not open valid notation is the
// character itself.
func ParseSequence(spec string) ([]Event, error) {
	if spec == "" {
		return nil, ErrEmptySpec
	}

	var events []Event
	for len(spec) > 0 {
		if spec[0] == '<' {
			if end := strings.IndexByte(spec[1:], '>'); end > 0 {
				ev, err := parseVim(spec[1 : end+1])
				if err == nil {
					events = append(events, ev)
					spec = spec[end+2:]
					continue
				}
			}
		}

		r, size := utf8.DecodeRuneInString(spec)
		if r == utf8.RuneError && size <= 1 {
			return nil, fmt.Errorf("%w: invalid UTF-8", ErrInvalidSpec)
		}
		events = append(events, Char(r))
		spec = spec[size:]
	}

	return events, nil
}

// MustParseSequence parses a key sequence and panics on error.
func MustParseSequence(spec string) []Event {
	events, err := ParseSequence(spec)
	if err != nil {
		panic("invalid key sequence: " + spec + ": " + err.Error())
	}
	return events
}
