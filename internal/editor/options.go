package editor

import (
	"github.com/dshills/evie/internal/input/mode"
	"github.com/dshills/evie/internal/logging"
)

type options struct {
	logger  *logging.Logger
	initial mode.Mode
}

// Option configures an Editor.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithInitialMode sets the mode the editor starts in. The default is Normal.
func WithInitialMode(m mode.Mode) Option {
	return func(o *options) {
		o.initial = m
	}
}
