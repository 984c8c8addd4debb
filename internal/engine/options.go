package engine

import (
	"github.com/spf13/afero"

	"github.com/dshills/evie/internal/engine/buffer"
	"github.com/dshills/evie/internal/logging"
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithFS sets the file system buffers are read from and written to.
// Defaults to the OS file system.
func WithFS(fsys afero.Fs) Option {
	return func(e *Engine) {
		if fsys != nil {
			e.fs = fsys
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithBufferOptions sets options applied to every buffer the engine opens.
func WithBufferOptions(opts ...buffer.Option) Option {
	return func(e *Engine) {
		e.bufferOpts = append(e.bufferOpts, opts...)
	}
}
