package rope

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotCharBoundary is returned when a byte offset splits a character or
// lies outside the rope.
var ErrNotCharBoundary = errors.New("offset is not a character boundary")

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// This enables cheap snapshots and thread-safe concurrent read access.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{root: newLeafNode()}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	if len(s) == 0 {
		return New()
	}
	return buildFromChunks(splitIntoChunks(s))
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var builder Builder
	if _, err := builder.ReadFrom(r); err != nil {
		return Rope{}, err
	}
	return builder.Build(), nil
}

// buildFromChunks builds a balanced rope bottom-up from a slice of chunks.
func buildFromChunks(chunks []Chunk) Rope {
	if len(chunks) == 0 {
		return New()
	}

	var leaves []*Node
	for i := 0; i < len(chunks); i += MaxChunksPerLeaf {
		end := min(i+MaxChunksPerLeaf, len(chunks))
		leafChunks := make([]Chunk, end-i)
		copy(leafChunks, chunks[i:end])
		leaves = append(leaves, newLeafNodeWithChunks(leafChunks))
	}

	return Rope{root: buildNodeFromChildren(leaves)}
}

// Len returns the total byte length.
func (r Rope) Len() ByteOffset {
	if r.root == nil {
		return 0
	}
	return r.root.Len()
}

// LenChars returns the total number of characters.
func (r Rope) LenChars() CharOffset {
	if r.root == nil {
		return 0
	}
	return r.root.summary.Chars
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() uint32 {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// String returns the full text as a string.
// Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}

	var sb strings.Builder
	sb.Grow(int(r.Len()))
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the byte range [start, end).
func (r Rope) Slice(start, end ByteOffset) string {
	end = min(end, r.Len())
	if r.root == nil || start >= end {
		return ""
	}

	var sb strings.Builder
	sb.Grow(int(end - start))
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{Flags: FlagASCII}
	}
	return r.root.summary
}

// IsCharBoundary reports whether offset lies between two characters
// (offsets 0 and Len() are always boundaries).
func (r Rope) IsCharBoundary(offset ByteOffset) bool {
	_, err := r.ByteToChar(offset)
	return err == nil
}

// ByteToChar converts a byte offset into a character offset.
// It fails with ErrNotCharBoundary when offset exceeds the rope length or
// falls inside a multi-byte character.
func (r Rope) ByteToChar(offset ByteOffset) (CharOffset, error) {
	if offset > r.Len() {
		return 0, fmt.Errorf("%w: byte %d beyond length %d", ErrNotCharBoundary, offset, r.Len())
	}
	if r.root == nil || offset == 0 {
		return 0, nil
	}
	if r.root.summary.IsASCII() {
		return CharOffset(offset), nil
	}

	chars, ok := r.root.charsBefore(offset)
	if !ok {
		return 0, fmt.Errorf("%w: byte %d splits a character", ErrNotCharBoundary, offset)
	}
	return chars, nil
}

// CharToByte converts a character offset into a byte offset.
func (r Rope) CharToByte(c CharOffset) (ByteOffset, error) {
	if c > r.LenChars() {
		return 0, fmt.Errorf("%w: char %d beyond length %d", ErrNotCharBoundary, c, r.LenChars())
	}
	if r.root == nil || c == 0 {
		return 0, nil
	}
	if r.root.summary.IsASCII() {
		return ByteOffset(c), nil
	}
	return r.root.byteOfChar(c), nil
}

// Insert inserts text at the given byte offset.
// Offsets past the end append. Returns a new rope; original is unchanged.
func (r Rope) Insert(offset ByteOffset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	if r.root == nil || r.Len() == 0 {
		return FromString(text)
	}
	if offset == 0 {
		return FromString(text).Concat(r)
	}
	if offset >= r.Len() {
		return r.Concat(FromString(text))
	}

	left, right := r.Split(offset)
	return left.Concat(FromString(text)).Concat(right)
}

// InsertChars inserts text at character index c.
func (r Rope) InsertChars(c CharOffset, text string) (Rope, error) {
	offset, err := r.CharToByte(c)
	if err != nil {
		return r, err
	}
	return r.Insert(offset, text), nil
}

// Delete removes text in the byte range [start, end).
// The range is clamped to the rope. Returns a new rope.
func (r Rope) Delete(start, end ByteOffset) Rope {
	ropeLen := r.Len()
	end = min(end, ropeLen)
	if r.root == nil || start >= end {
		return r
	}

	if start == 0 && end == ropeLen {
		return New()
	}
	if start == 0 {
		_, right := r.Split(end)
		return right
	}
	if end == ropeLen {
		left, _ := r.Split(start)
		return left
	}

	left, temp := r.Split(start)
	_, right := temp.Split(end - start)
	return left.Concat(right)
}

// RemoveChars removes the characters in [start, end).
func (r Rope) RemoveChars(start, end CharOffset) (Rope, error) {
	if start > end {
		return r, fmt.Errorf("%w: char range [%d,%d) is reversed", ErrNotCharBoundary, start, end)
	}
	from, err := r.CharToByte(start)
	if err != nil {
		return r, err
	}
	to, err := r.CharToByte(end)
	if err != nil {
		return r, err
	}
	return r.Delete(from, to), nil
}

// Replace replaces text in the byte range [start, end) with new text.
func (r Rope) Replace(start, end ByteOffset, text string) Rope {
	return r.Delete(start, end).Insert(start, text)
}

// Split splits the rope at offset, returning two ropes.
// Left contains [0, offset), right contains [offset, end).
func (r Rope) Split(offset ByteOffset) (Rope, Rope) {
	if r.root == nil || offset == 0 {
		return New(), r
	}
	if offset >= r.Len() {
		return r, New()
	}

	leftRoot, rightRoot := r.root.split(offset)
	return Rope{root: leftRoot}, Rope{root: rightRoot}
}

// Concat concatenates two ropes.
func (r Rope) Concat(other Rope) Rope {
	if r.root == nil || r.Len() == 0 {
		return other
	}
	if other.root == nil || other.Len() == 0 {
		return r
	}
	return Rope{root: concat(r.root, other.root)}
}

// LineStartOffset returns the byte offset of the start of the given line.
// Lines are 0-indexed; lines past the end map to Len().
func (r Rope) LineStartOffset(line uint32) ByteOffset {
	if r.root == nil || line == 0 {
		return 0
	}
	if line >= r.LineCount() {
		return r.Len()
	}
	return r.root.lineStart(line)
}

// LineEndOffset returns the byte offset of the end of the given line,
// excluding the newline.
func (r Rope) LineEndOffset(line uint32) ByteOffset {
	if line+1 >= r.LineCount() {
		return r.Len()
	}
	return r.LineStartOffset(line+1) - 1
}

// LineText returns the text of the given line (not including newline).
func (r Rope) LineText(line uint32) string {
	return r.Slice(r.LineStartOffset(line), r.LineEndOffset(line))
}

// OffsetToPoint converts a byte offset to a line/column position.
func (r Rope) OffsetToPoint(offset ByteOffset) Point {
	offset = min(offset, r.Len())
	if r.root == nil || offset == 0 {
		return Point{}
	}

	line := r.root.linesBefore(offset)
	return Point{Line: line, Column: uint32(offset - r.LineStartOffset(line))}
}

// PointToOffset converts a line/column position to a byte offset.
// Columns past the end of the line clamp to the line end.
func (r Rope) PointToOffset(point Point) ByteOffset {
	start := r.LineStartOffset(point.Line)
	end := r.LineEndOffset(point.Line)
	return min(start+ByteOffset(point.Column), end)
}

// Height returns the height of the rope tree.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// WriteTo streams the rope's chunks to w. It implements io.WriterTo.
func (r Rope) WriteTo(w io.Writer) (int64, error) {
	var total int64
	it := r.Chunks()
	for it.Next() {
		n, err := io.WriteString(w, it.Chunk().String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Equals returns true if two ropes contain the same text.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	return r.String() == other.String()
}
