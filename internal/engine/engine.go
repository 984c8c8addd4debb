package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/evie/internal/engine/buffer"
	"github.com/dshills/evie/internal/logging"
)

// Re-export commonly used types for convenience.
type (
	// Buffer is a shared handle to one open file.
	Buffer = buffer.Buffer

	// ByteOffset is a byte position in a buffer.
	ByteOffset = buffer.ByteOffset
)

// Engine maps canonical paths to shared buffers.
// Buffers live until they are evicted or the engine is dropped.
type Engine struct {
	base       string
	fs         afero.Fs
	logger     *logging.Logger
	bufferOpts []buffer.Option

	buffers *xsync.MapOf[string, *buffer.Buffer]
}

// New creates an engine rooted at base. Relative paths passed to Add and
// Get are resolved against it. base itself must resolve.
func New(base string, opts ...Option) (*Engine, error) {
	e := &Engine{
		fs:      afero.NewOsFs(),
		logger:  logging.Nop(),
		buffers: xsync.NewMapOf[string, *buffer.Buffer](),
	}

	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithComponent("engine")

	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, &IOError{Op: "canonicalize", Path: base, Err: err}
	}
	if e.onOS() {
		abs, err = filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, &IOError{Op: "canonicalize", Path: base, Err: err}
		}
	}
	e.base = abs

	return e, nil
}

// BaseDir returns the canonical base directory.
func (e *Engine) BaseDir() string {
	return e.base
}

// FS returns the file system buffers are read from.
func (e *Engine) FS() afero.Fs {
	return e.fs
}

func (e *Engine) onOS() bool {
	_, ok := e.fs.(*afero.OsFs)
	return ok
}

// Canonicalize resolves path the way Add and Get do.
func (e *Engine) Canonicalize(path string, relative bool) (string, error) {
	if relative {
		path = filepath.Join(e.base, path)
	} else if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", &IOError{Op: "canonicalize", Path: path, Err: err}
		}
		path = abs
	}
	path = filepath.Clean(path)

	if !e.onOS() {
		return path, nil
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", &IOError{Op: "canonicalize", Path: path, Err: err}
	}

	// The name exists but does not resolve: a dangling symlink.
	if _, lerr := os.Lstat(path); lerr == nil {
		return "", &IOError{Op: "canonicalize", Path: path, Err: err}
	}

	// A file that does not exist yet keeps its name under the resolved parent.
	dir, derr := filepath.EvalSymlinks(filepath.Dir(path))
	switch {
	case derr == nil:
		return filepath.Join(dir, filepath.Base(path)), nil
	case errors.Is(derr, fs.ErrNotExist):
		return path, nil
	default:
		return "", &IOError{Op: "canonicalize", Path: path, Err: derr}
	}
}

// Add opens path and registers it, replacing any buffer already stored
// under the same canonical path. A file that does not exist yields an
// empty buffer; any other read failure is an *IOError.
func (e *Engine) Add(path string, relative bool) (*buffer.Buffer, error) {
	canonical, err := e.Canonicalize(path, relative)
	if err != nil {
		return nil, err
	}

	buf, err := buffer.Open(e.fs, canonical, e.bufferOpts...)
	if err != nil {
		e.logger.Warn("open failed: %v", err)
		return nil, err
	}

	if _, replaced := e.buffers.LoadAndStore(canonical, buf); replaced {
		e.logger.WithField("path", canonical).Debug("buffer replaced")
	}
	e.logger.WithFields(map[string]any{"path": canonical, "id": buf.ID()}).
		Debug("buffer added (%d bytes)", buf.Len())

	return buf, nil
}

// AddResult is delivered by AddAsync.
type AddResult struct {
	Buffer *buffer.Buffer
	Err    error
}

// AddAsync runs Add on a new goroutine. The returned channel receives
// exactly one result and is then closed. If ctx is done before the file
// is read, the result carries ctx.Err() and nothing is registered.
func (e *Engine) AddAsync(ctx context.Context, path string, relative bool) <-chan AddResult {
	done := make(chan AddResult, 1)
	go func() {
		defer close(done)
		if err := ctx.Err(); err != nil {
			done <- AddResult{Err: err}
			return
		}
		buf, err := e.Add(path, relative)
		done <- AddResult{Buffer: buf, Err: err}
	}()
	return done
}

// Get returns the buffer registered for path. It never creates one; an
// unknown path fails with ErrMissingPath.
func (e *Engine) Get(path string, relative bool) (*buffer.Buffer, error) {
	canonical, err := e.Canonicalize(path, relative)
	if err != nil {
		return nil, err
	}

	buf, ok := e.buffers.Load(canonical)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPath, canonical)
	}
	return buf, nil
}

// Evict removes the buffer for path from the store. Handles already held by
// callers stay usable. It fails with ErrMissingPath for an unknown path.
func (e *Engine) Evict(path string, relative bool) error {
	canonical, err := e.Canonicalize(path, relative)
	if err != nil {
		return err
	}

	buf, ok := e.buffers.LoadAndDelete(canonical)
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingPath, canonical)
	}
	e.logger.WithFields(map[string]any{"path": canonical, "id": buf.ID()}).Debug("buffer evicted")
	return nil
}

// Len returns the number of registered buffers.
func (e *Engine) Len() int {
	return e.buffers.Size()
}

// Paths returns the canonical paths of all registered buffers, sorted.
func (e *Engine) Paths() []string {
	paths := make([]string, 0, e.buffers.Size())
	e.buffers.Range(func(path string, _ *buffer.Buffer) bool {
		paths = append(paths, path)
		return true
	})
	sort.Strings(paths)
	return paths
}

// Range calls f for each registered buffer until f returns false.
func (e *Engine) Range(f func(path string, buf *buffer.Buffer) bool) {
	e.buffers.Range(f)
}

// WriteAll writes every dirty buffer concurrently and returns the first
// error. Remaining writes are skipped once ctx is cancelled.
func (e *Engine) WriteAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	e.buffers.Range(func(path string, buf *buffer.Buffer) bool {
		if !buf.Dirty() {
			return true
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := buf.Write(); err != nil {
				return err
			}
			e.logger.WithField("path", path).Info("buffer written")
			return nil
		})
		return true
	})

	return g.Wait()
}
