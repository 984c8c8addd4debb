package buffer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/dshills/evie/internal/engine/rope"
)

// detectWindow bounds how much of a file is scanned for its line ending.
const detectWindow = 64 * 1024

// Buffer is one file's editable text plus its cursor.
//
// Reads may run concurrently with each other and with a mutation. Mutations
// go through Apply or Edit and are single-writer: a second mutation that
// starts while one is in flight fails with ErrBorrowConflict instead of
// waiting.
type Buffer struct {
	id   uuid.UUID
	path string
	fs   afero.Fs

	borrowed atomic.Bool

	mu         sync.RWMutex
	rope       rope.Rope
	cursor     ByteOffset
	revision   uint64
	saved      uint64
	lineEnding LineEnding
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		id:   uuid.New(),
		fs:   afero.NewOsFs(),
		rope: rope.New(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewFromString creates a buffer with initial content.
// The line ending is detected from the content when it has line breaks.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.rope = rope.FromString(s)
	b.adoptLineEnding(s[:min(len(s), detectWindow)])
	return b
}

// adoptLineEnding switches to the ending used in sample. Text without any
// line break keeps the configured ending.
func (b *Buffer) adoptLineEnding(sample string) {
	if strings.ContainsAny(sample, "\r\n") {
		b.lineEnding = DetectLineEnding(sample)
	}
}

// Open loads the file at path from fsys into a new buffer.
// A missing file is not an error: the buffer starts empty and the file is
// created on the first Write. Other failures are returned as *IOError.
func Open(fsys afero.Fs, path string, opts ...Option) (*Buffer, error) {
	b := New(append([]Option{WithFS(fsys), WithPath(path)}, opts...)...)

	f, err := fsys.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	r, err := rope.FromReader(f)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	b.rope = r
	if !r.IsEmpty() {
		b.adoptLineEnding(r.Slice(0, detectWindow))
	}
	return b, nil
}

// Read Operations

// ID returns the buffer's unique identity.
func (b *Buffer) ID() uuid.UUID {
	return b.id
}

// Path returns the file the buffer is written to.
func (b *Buffer) Path() string {
	return b.path
}

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(b.rope.Len())
}

// LenChars returns the number of characters in the buffer.
func (b *Buffer) LenChars() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int64(b.rope.LenChars())
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineText(line)
}

// Location returns the cursor.
func (b *Buffer) Location() Location {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.location()
}

func (b *Buffer) location() Location {
	p := b.rope.OffsetToPoint(rope.ByteOffset(b.cursor))
	return Location{Offset: b.cursor, Point: Point{Line: p.Line, Column: p.Column}}
}

// Revision returns a counter incremented by every text mutation.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Dirty reports whether the text changed since it was loaded or last written.
func (b *Buffer) Dirty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision != b.saved
}

// LineEnding returns the line ending inserted by Newline.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// Snapshot returns a read-only view of the current state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		rope:     b.rope,
		path:     b.path,
		location: b.location(),
		revision: b.revision,
	}
}

// Write Operations

// Apply performs one action.
//
// Insert, Delete and Replace take byte offsets. Each offset is converted to
// a character index before the text changes; an offset that is out of
// range or splits a multi-byte character fails with ErrInvalidOffset and
// leaves the buffer untouched. Replace deletes and then inserts at the
// range start. Append inserts at the cursor and advances it by the
// inserted length.
//
// The cursor follows the text: edits before it shift it, a deleted range
// containing it collapses it to the range start, and an insertion exactly
// at the cursor pushes it past the new text.
func (b *Buffer) Apply(a Action) error {
	if !b.borrowed.CompareAndSwap(false, true) {
		return ErrBorrowConflict
	}
	defer b.borrowed.Store(false)

	return b.apply(a)
}

// Edit applies actions in order while holding the buffer exclusively.
// It stops at the first failure. Actions before the failing one have
// already taken effect and are not rolled back.
func (b *Buffer) Edit(actions ...Action) error {
	if !b.borrowed.CompareAndSwap(false, true) {
		return ErrBorrowConflict
	}
	defer b.borrowed.Store(false)

	for i, a := range actions {
		if err := b.apply(a); err != nil {
			return fmt.Errorf("edit %d (%s): %w", i, a, err)
		}
	}
	return nil
}

func (b *Buffer) apply(a Action) error {
	if _, ok := a.(Save); ok {
		return b.Write()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch a := a.(type) {
	case Insert:
		return b.insert(a.Index, a.Text)
	case Delete:
		return b.delete(a.Range)
	case Replace:
		if err := b.checkRange(a.Range); err != nil {
			return err
		}
		if err := checkText(a.Text); err != nil {
			return err
		}
		if err := b.delete(a.Range); err != nil {
			return err
		}
		return b.insert(a.Range.Start, a.Text)
	case Append:
		return b.insert(b.cursor, a.Text)
	case Newline:
		return b.insert(b.cursor, b.lineEnding.Sequence())
	case Overwrite:
		end := b.cursor
		if b.cursor < b.lineContentEnd(b.cursor) {
			end = b.nextGrapheme(b.cursor)
		}
		if err := checkText(a.Text); err != nil {
			return err
		}
		if err := b.delete(Range{Start: b.cursor, End: end}); err != nil {
			return err
		}
		return b.insert(b.cursor, a.Text)
	case DeleteBackward:
		return b.delete(Range{Start: b.prevGrapheme(b.cursor), End: b.cursor})
	case DeleteForward:
		return b.delete(Range{Start: b.cursor, End: b.nextGrapheme(b.cursor)})
	case MoveCursor:
		b.cursor = b.move(a.Dir)
		return nil
	default:
		return fmt.Errorf("unsupported buffer action %T", a)
	}
}

// charOffset converts a byte offset to a character index.
func (b *Buffer) charOffset(offset ByteOffset) (rope.CharOffset, error) {
	if offset < 0 {
		return 0, &OffsetError{Offset: offset, Len: ByteOffset(b.rope.Len())}
	}
	c, err := b.rope.ByteToChar(rope.ByteOffset(offset))
	if err != nil {
		return 0, &OffsetError{Offset: offset, Len: ByteOffset(b.rope.Len())}
	}
	return c, nil
}

func (b *Buffer) checkRange(r Range) error {
	if !r.IsValid() {
		return fmt.Errorf("%w: %s", ErrRangeInvalid, r)
	}
	if _, err := b.charOffset(r.Start); err != nil {
		return err
	}
	_, err := b.charOffset(r.End)
	return err
}

func checkText(text string) error {
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: text is not valid UTF-8", ErrInvalidOffset)
	}
	return nil
}

func (b *Buffer) insert(index ByteOffset, text string) error {
	c, err := b.charOffset(index)
	if err != nil {
		return err
	}
	if err := checkText(text); err != nil {
		return err
	}
	if text == "" {
		return nil
	}

	r, err := b.rope.InsertChars(c, text)
	if err != nil {
		return err
	}
	b.rope = r
	b.revision++

	if b.cursor >= index {
		b.cursor += ByteOffset(len(text))
	}
	return nil
}

func (b *Buffer) delete(rng Range) error {
	if !rng.IsValid() {
		return fmt.Errorf("%w: %s", ErrRangeInvalid, rng)
	}
	start, err := b.charOffset(rng.Start)
	if err != nil {
		return err
	}
	end, err := b.charOffset(rng.End)
	if err != nil {
		return err
	}
	if start == end {
		return nil
	}

	r, err := b.rope.RemoveChars(start, end)
	if err != nil {
		return err
	}
	b.rope = r
	b.revision++

	switch {
	case b.cursor >= rng.End:
		b.cursor -= rng.Len()
	case b.cursor > rng.Start:
		b.cursor = rng.Start
	}
	return nil
}

// Write serializes the current content to the buffer's path.
// The write is not atomic; a failure may leave a partially written file.
func (b *Buffer) Write() error {
	b.mu.RLock()
	r, rev := b.rope, b.revision
	b.mu.RUnlock()

	if b.path == "" {
		return ErrNoPath
	}

	f, err := b.fs.OpenFile(b.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return &IOError{Op: "write", Path: b.path, Err: err}
	}
	if _, err := r.WriteTo(f); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: b.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: b.path, Err: err}
	}

	b.mu.Lock()
	if rev > b.saved {
		b.saved = rev
	}
	b.mu.Unlock()
	return nil
}

// WriteAsync runs Write on a new goroutine. The returned channel receives
// exactly one value and is then closed.
func (b *Buffer) WriteAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		if err := ctx.Err(); err != nil {
			done <- err
			return
		}
		done <- b.Write()
	}()
	return done
}
