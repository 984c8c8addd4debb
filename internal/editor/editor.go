package editor

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/evie/internal/action"
	"github.com/dshills/evie/internal/engine"
	"github.com/dshills/evie/internal/engine/buffer"
	"github.com/dshills/evie/internal/input/mode"
	"github.com/dshills/evie/internal/input/trigger"
	"github.com/dshills/evie/internal/logging"
)

// ErrInvalidMode is returned by ChangeMode for an undeclared mode.
var ErrInvalidMode = errors.New("invalid mode")

// ModeChangeCallback is called after the mode changes.
type ModeChangeCallback func(from, to mode.Mode)

// state is the dispatch position. It is replaced, never modified.
type state[K comparable] struct {
	mode   mode.Mode
	cursor *trigger.Map[K]
}

// Editor is the central coordinator. K is the key type fed to the
// bindings; see the trigger package.
type Editor[K comparable] struct {
	table  *trigger.Modes[K]
	engine *engine.Engine
	logger *logging.Logger
	stats  *Metrics

	state atomic.Pointer[state[K]]

	mu        sync.Mutex
	callbacks []ModeChangeCallback
}

// New creates an Editor over the buffers of eng, dispatching keys through
// table. It panics if table is nil or the initial mode is invalid.
func New[K comparable](eng *engine.Engine, table *trigger.Modes[K], opts ...Option) *Editor[K] {
	o := options{logger: logging.Nop(), initial: mode.Normal}
	for _, opt := range opts {
		opt(&o)
	}
	if table == nil {
		panic("editor: nil binding table")
	}
	if !o.initial.Valid() {
		panic(fmt.Sprintf("editor: invalid initial mode %d", o.initial))
	}

	e := &Editor[K]{
		table:  table,
		engine: eng,
		logger: o.logger.WithComponent("editor"),
		stats:  newMetrics(),
	}
	e.state.Store(&state[K]{mode: o.initial, cursor: table.Root(o.initial)})
	return e
}

// Engine returns the buffer store.
func (e *Editor[K]) Engine() *engine.Engine {
	return e.engine
}

// Table returns the binding table.
func (e *Editor[K]) Table() *trigger.Modes[K] {
	return e.table
}

// Mode returns the active mode.
func (e *Editor[K]) Mode() mode.Mode {
	return e.state.Load().mode
}

// Cursor returns the map the next key is resolved against.
func (e *Editor[K]) Cursor() *trigger.Map[K] {
	return e.state.Load().cursor
}

// Pending reports whether a multi-key sequence is in progress.
func (e *Editor[K]) Pending() bool {
	s := e.state.Load()
	return s.cursor != e.table.Root(s.mode)
}

// Stats returns a snapshot of the dispatch counters.
func (e *Editor[K]) Stats() Stats {
	return e.stats.Snapshot()
}

// ChangeMode switches to m and discards any sequence in progress.
func (e *Editor[K]) ChangeMode(m mode.Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, m)
	}

	old := e.state.Swap(&state[K]{mode: m, cursor: e.table.Root(m)})
	e.stats.recordModeChange()
	e.logger.WithFields(map[string]any{"from": old.mode, "to": m}).Debug("mode changed")

	e.mu.Lock()
	callbacks := make([]ModeChangeCallback, len(e.callbacks))
	copy(callbacks, e.callbacks)
	e.mu.Unlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(old.mode, m)
		}
	}
	return nil
}

// OnModeChange registers a callback run after every ChangeMode. Callbacks
// run on the goroutine that changed the mode. The returned function
// unregisters the callback.
func (e *Editor[K]) OnModeChange(cb ModeChangeCallback) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.callbacks = append(e.callbacks, cb)
	index := len(e.callbacks) - 1

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.callbacks[index] = nil
	}
}

// Trigger feeds one key to the dispatcher. It returns the action the key
// completed, if any.
//
// The key is resolved against the cursor. An End resets the cursor to the
// mode's root and yields its action; a nested Map becomes the new cursor.
// When the cursor has no answer it is reset to the root and the Universal
// map is tried with the same rules, except that a nested Universal map
// becomes the cursor, so a Universal sequence continues on the next key.
func (e *Editor[K]) Trigger(k K) (action.Action, bool) {
	start := time.Now()
	for {
		cur := e.state.Load()
		next, a := e.step(cur, k)
		if next == cur || e.state.CompareAndSwap(cur, next) {
			e.stats.recordKey(time.Since(start), a != nil, next.cursor != e.table.Root(next.mode))
			return a, a != nil
		}
	}
}

// step computes the dispatch state after k. It returns cur itself when
// nothing changes. Fallbacks may run more than once per key if another
// goroutine moves the cursor concurrently.
func (e *Editor[K]) step(cur *state[K], k K) (*state[K], action.Action) {
	root := e.table.Root(cur.mode)

	t, ok := cur.cursor.Resolve(k)
	if !ok {
		t, ok = e.table.Universal().Resolve(k)
	}
	if !ok {
		return e.moveTo(cur, root), nil
	}

	if a, end := t.Action(); end {
		return e.moveTo(cur, root), a
	}
	nextMap, _ := t.Next()
	return e.moveTo(cur, nextMap), nil
}

func (e *Editor[K]) moveTo(cur *state[K], cursor *trigger.Map[K]) *state[K] {
	if cur.cursor == cursor {
		return cur
	}
	return &state[K]{mode: cur.mode, cursor: cursor}
}

// Apply performs a resolved action. SetMode changes the mode; buffer
// actions are applied to buf, which may be nil only for core actions.
func (e *Editor[K]) Apply(a action.Action, buf *buffer.Buffer) error {
	switch a := a.(type) {
	case action.SetMode:
		return e.ChangeMode(a.Mode)

	case action.Buffer:
		if buf == nil {
			return fmt.Errorf("apply %s: no buffer", a)
		}
		if err := buf.Apply(a.Op); err != nil {
			e.stats.recordError()
			e.logger.WithField("path", buf.Path()).Debug("action %s dropped: %v", a, err)
			return err
		}
		e.stats.recordAction()
		return nil

	case nil:
		return errors.New("apply: nil action")
	}
	return fmt.Errorf("apply: unsupported action %T", a)
}

// AddBuffer opens path in the store. See engine.Engine.Add.
func (e *Editor[K]) AddBuffer(path string, relative bool) (*buffer.Buffer, error) {
	return e.engine.Add(path, relative)
}

// ViewBuffer returns a View of path. The path need not have been added
// yet; operations on the view fail until it is.
func (e *Editor[K]) ViewBuffer(path string, relative bool) (*View[K], error) {
	canonical, err := e.engine.Canonicalize(path, relative)
	if err != nil {
		return nil, err
	}
	return &View[K]{editor: e, path: canonical}, nil
}
