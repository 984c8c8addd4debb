package buffer

import "github.com/dshills/evie/internal/engine/rope"

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	rope     rope.Rope
	path     string
	location Location
	revision uint64
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.rope.String()
}

// TextRange returns text in the given byte range.
func (s *Snapshot) TextRange(start, end ByteOffset) string {
	return s.rope.Slice(rope.ByteOffset(start), rope.ByteOffset(end))
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset {
	return ByteOffset(s.rope.Len())
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 {
	return s.rope.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (s *Snapshot) LineText(line uint32) string {
	return s.rope.LineText(line)
}

// Lines returns an iterator over all lines in the snapshot.
func (s *Snapshot) Lines() *rope.LineIterator {
	return s.rope.Lines()
}

// Path returns the path of the buffer the snapshot was taken from.
func (s *Snapshot) Path() string {
	return s.path
}

// Location returns the cursor at the time of the snapshot.
func (s *Snapshot) Location() Location {
	return s.location
}

// Revision returns the buffer revision the snapshot was taken at.
func (s *Snapshot) Revision() uint64 {
	return s.revision
}
