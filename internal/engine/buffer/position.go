package buffer

import "fmt"

// ByteOffset represents a byte position in the buffer.
// Offsets supplied by callers are always in bytes.
type ByteOffset = int64

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in bytes from the start of the line.
type Point struct {
	Line   uint32
	Column uint32
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Location is the buffer's tracked cursor.
// Offset is always a character boundary; Point is derived from it.
type Location struct {
	Offset ByteOffset
	Point
}

// String returns a human-readable representation of the location.
func (l Location) String() string {
	return fmt.Sprintf("%d%s", l.Offset, l.Point)
}
