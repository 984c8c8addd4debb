package rope

// ChunkIterator walks the chunks of a rope in order.
type ChunkIterator struct {
	pending []*Node // nodes still to visit, next on top
	leaf    *Node
	idx     int
	chunk   Chunk
	start   ByteOffset
	next    ByteOffset
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	it := &ChunkIterator{idx: -1}
	if r.root != nil {
		it.pending = append(make([]*Node, 0, 16), r.root)
	}
	return it
}

// Next advances to the next chunk and reports whether there is one.
func (it *ChunkIterator) Next() bool {
	for {
		if it.leaf != nil && it.idx+1 < len(it.leaf.chunks) {
			it.idx++
			it.chunk = it.leaf.chunks[it.idx]
			it.start = it.next
			it.next += ByteOffset(it.chunk.Len())
			return true
		}
		if len(it.pending) == 0 {
			it.leaf = nil
			return false
		}

		n := it.pending[len(it.pending)-1]
		it.pending = it.pending[:len(it.pending)-1]
		if n.IsLeaf() {
			it.leaf, it.idx = n, -1
			continue
		}
		for i := len(n.children) - 1; i >= 0; i-- {
			it.pending = append(it.pending, n.children[i])
		}
	}
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() Chunk {
	return it.chunk
}

// Offset returns the byte offset of the start of the current chunk.
func (it *ChunkIterator) Offset() ByteOffset {
	return it.start
}

// LineIterator iterates over the lines of a rope without their newlines.
type LineIterator struct {
	rope  Rope
	line  uint32
	count uint32
	text  string
}

// Lines returns an iterator over all lines in the rope.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{rope: r, count: r.LineCount()}
}

// Next advances to the next line.
func (it *LineIterator) Next() bool {
	if it.line >= it.count {
		return false
	}
	it.text = it.rope.LineText(it.line)
	it.line++
	return true
}

// Text returns the current line.
func (it *LineIterator) Text() string {
	return it.text
}

// Line returns the 0-indexed number of the current line.
func (it *LineIterator) Line() uint32 {
	return it.line - 1
}
