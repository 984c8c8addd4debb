package engine

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/evie/internal/engine/buffer"
)

// Change reports that the file behind an open buffer changed on disk.
type Change struct {
	Path   string
	Buffer *buffer.Buffer
	Op     fsnotify.Op
}

// Watch reports changes to the files of the buffers registered when it is
// called, until ctx is done. It watches each buffer's directory rather
// than the file so that editors which save by rename are still seen.
// onChange runs on the watching goroutine. Events for paths evicted since
// the call are dropped.
func (e *Engine) Watch(ctx context.Context, onChange func(Change)) error {
	if !e.onOS() {
		return ErrWatchUnsupported
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dirs := make(map[string]bool)
	for _, path := range e.Paths() {
		dir := filepath.Dir(path)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			e.logger.WithField("dir", dir).Warn("watch failed: %v", err)
			continue
		}
		dirs[dir] = true
	}
	e.logger.Debug("watching %d directories", len(dirs))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			buf, ok := e.buffers.Load(filepath.Clean(event.Name))
			if !ok {
				continue
			}
			onChange(Change{Path: event.Name, Buffer: buf, Op: event.Op})

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watch error: %v", err)
		}
	}
}
