package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidationFailed is wrapped by every *ValidationError.
var ErrValidationFailed = errors.New("config validation failed")

// ParseError reports a settings file that is not valid TOML or carries
// unknown keys.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ":%d", e.Column)
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError reports a setting with an unusable value.
type ValidationError struct {
	Key     string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %q: %s", e.Key, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
