package macro

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRegister is returned for a register name outside a-z, A-Z
	// and 0-9.
	ErrInvalidRegister = errors.New("invalid register")

	// ErrEmptyRegister is returned when playing a register with no keys.
	ErrEmptyRegister = errors.New("empty register")

	// ErrRecording is returned when recording is started twice.
	ErrRecording = errors.New("already recording")

	// ErrPlaying is returned when a macro is played while another plays.
	ErrPlaying = errors.New("already playing")
)

// IsValidRegister reports whether r names a register: a-z or 0-9.
func IsValidRegister(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Normalize maps a register name to its storage register. An uppercase
// letter maps to its lowercase register and reports appends as true.
func Normalize(r rune) (reg rune, appends bool, err error) {
	switch {
	case IsValidRegister(r):
		return r, false, nil
	case r >= 'A' && r <= 'Z':
		return r - 'A' + 'a', true, nil
	}
	return 0, false, fmt.Errorf("%w: %q", ErrInvalidRegister, r)
}

// ParseRegister reads a register name given as a one-character string.
func ParseRegister(s string) (rune, error) {
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRegister, s)
	}
	if _, _, err := Normalize(r[0]); err != nil {
		return 0, err
	}
	return r[0], nil
}
