package engine

import (
	"errors"

	"github.com/dshills/evie/internal/engine/buffer"
)

// Errors returned by engine operations.
var (
	// ErrMissingPath indicates a lookup for a path that was never added.
	ErrMissingPath = errors.New("missing path")

	// ErrWatchUnsupported indicates Watch on a file system that is not
	// backed by the operating system.
	ErrWatchUnsupported = errors.New("file watching requires the OS file system")
)

// IOError wraps a file system failure. Buffer loading and writing return
// the same type.
type IOError = buffer.IOError
