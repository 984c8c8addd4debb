package buffer

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/evie/internal/engine/rope"
)

// Cursor motion works on grapheme clusters so that a combining sequence or
// an emoji with modifiers moves and deletes as one unit. A CRLF pair is a
// single cluster as well. All helpers expect b.mu to be held.

// prevGrapheme returns the start of the grapheme cluster that ends at offset.
func (b *Buffer) prevGrapheme(offset ByteOffset) ByteOffset {
	if offset <= 0 {
		return 0
	}

	pos := rope.ByteOffset(offset)
	line := b.rope.OffsetToPoint(pos).Line
	start := b.rope.LineStartOffset(line)
	if start == pos && line > 0 {
		start = b.rope.LineStartOffset(line - 1)
	}

	last := 0
	g := uniseg.NewGraphemes(b.rope.Slice(start, pos))
	for g.Next() {
		last, _ = g.Positions()
	}
	return ByteOffset(start) + ByteOffset(last)
}

// nextGrapheme returns the end of the grapheme cluster that starts at offset.
func (b *Buffer) nextGrapheme(offset ByteOffset) ByteOffset {
	pos := rope.ByteOffset(offset)
	if pos >= b.rope.Len() {
		return ByteOffset(b.rope.Len())
	}

	line := b.rope.OffsetToPoint(pos).Line
	end := b.rope.Len()
	if line+1 < b.rope.LineCount() {
		end = b.rope.LineStartOffset(line + 1)
	}

	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(b.rope.Slice(pos, end), -1)
	return offset + ByteOffset(len(cluster))
}

// lineContentEnd returns the end of offset's line, before any line ending.
func (b *Buffer) lineContentEnd(offset ByteOffset) ByteOffset {
	line := b.rope.OffsetToPoint(rope.ByteOffset(offset)).Line
	return b.lineEnd(line)
}

func (b *Buffer) lineEnd(line uint32) ByteOffset {
	start := b.rope.LineStartOffset(line)
	end := b.rope.LineEndOffset(line)
	if line+1 < b.rope.LineCount() && end > start && b.rope.Slice(end-1, end) == "\r" {
		end--
	}
	return ByteOffset(end)
}

func (b *Buffer) move(dir Direction) ByteOffset {
	switch dir {
	case Left:
		return b.prevGrapheme(b.cursor)
	case Right:
		return b.nextGrapheme(b.cursor)
	case Up:
		return b.vertical(-1)
	case Down:
		return b.vertical(1)
	case LineStart:
		line := b.rope.OffsetToPoint(rope.ByteOffset(b.cursor)).Line
		return ByteOffset(b.rope.LineStartOffset(line))
	case LineEnd:
		return b.lineContentEnd(b.cursor)
	}
	return b.cursor
}

// vertical moves delta lines, keeping the column measured in grapheme
// clusters and clamping it to the target line's length.
func (b *Buffer) vertical(delta int) ByteOffset {
	pos := rope.ByteOffset(b.cursor)
	line := b.rope.OffsetToPoint(pos).Line
	target := int64(line) + int64(delta)
	if target < 0 || target >= int64(b.rope.LineCount()) {
		return b.cursor
	}

	start := b.rope.LineStartOffset(line)
	col := uniseg.GraphemeClusterCount(b.rope.Slice(start, pos))

	tStart := b.rope.LineStartOffset(uint32(target))
	text := b.rope.Slice(tStart, rope.ByteOffset(b.lineEnd(uint32(target))))

	off := 0
	g := uniseg.NewGraphemes(text)
	for i := 0; i < col && g.Next(); i++ {
		_, off = g.Positions()
	}
	return ByteOffset(tStart) + ByteOffset(off)
}
