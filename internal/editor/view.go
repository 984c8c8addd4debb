package editor

import (
	"github.com/dshills/evie/internal/action"
	"github.com/dshills/evie/internal/engine/buffer"
)

// View is a front end's handle on one buffer. Views are cheap; any number
// may address the same path.
type View[K comparable] struct {
	editor *Editor[K]
	path   string
}

// Path returns the canonical path the view addresses.
func (v *View[K]) Path() string {
	return v.path
}

// Editor returns the coordinator the view feeds.
func (v *View[K]) Editor() *Editor[K] {
	return v.editor
}

// Buffer returns the addressed buffer. It fails with engine.ErrMissingPath
// if the path has not been added.
func (v *View[K]) Buffer() (*buffer.Buffer, error) {
	return v.editor.engine.Get(v.path, false)
}

// Read returns an immutable snapshot of the buffer.
func (v *View[K]) Read() (*buffer.Snapshot, error) {
	buf, err := v.Buffer()
	if err != nil {
		return nil, err
	}
	return buf.Snapshot(), nil
}

// OnKey feeds k to the editor and performs the resolved action. It reports
// whether anything happened, so the caller knows whether to redraw.
//
// Buffer errors are returned unchanged: buffer.ErrBorrowConflict when the
// buffer is being edited elsewhere, engine.ErrMissingPath when the path
// was never added, buffer.ErrInvalidOffset for a bad offset. The key has
// been consumed either way.
func (v *View[K]) OnKey(k K) (bool, error) {
	a, ok := v.editor.Trigger(k)
	if !ok {
		return false, nil
	}

	if action.IsCore(a) {
		if err := v.editor.Apply(a, nil); err != nil {
			return false, err
		}
		return true, nil
	}

	buf, err := v.Buffer()
	if err != nil {
		return false, err
	}
	if err := v.editor.Apply(a, buf); err != nil {
		return false, err
	}
	return true, nil
}

// Keys feeds a sequence of keys, stopping at the first error. It reports
// whether any key had an effect.
func (v *View[K]) Keys(keys ...K) (bool, error) {
	changed := false
	for _, k := range keys {
		ok, err := v.OnKey(k)
		changed = changed || ok
		if err != nil {
			return changed, err
		}
	}
	return changed, nil
}
