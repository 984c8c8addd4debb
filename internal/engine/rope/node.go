package rope

import "strings"

// Tree shape constants.
const (
	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8

	// MaxChunksPerLeaf is the maximum chunks in a leaf node.
	MaxChunksPerLeaf = 4
)

// Node is a node in the rope B+ tree.
// Leaf nodes (height == 0) hold chunks; internal nodes hold children.
// Nodes are never mutated after construction.
type Node struct {
	height  uint8
	summary TextSummary

	children       []*Node
	childSummaries []TextSummary

	chunks []Chunk
}

func newLeafNode() *Node {
	return &Node{chunks: make([]Chunk, 0, MaxChunksPerLeaf)}
}

func newLeafNodeWithChunks(chunks []Chunk) *Node {
	n := &Node{chunks: chunks, summary: TextSummary{Flags: FlagASCII}}
	for _, c := range chunks {
		n.summary = n.summary.Add(c.Summary())
	}
	return n
}

func newInternalNode(children []*Node) *Node {
	if len(children) == 0 {
		return newLeafNode()
	}

	summaries := make([]TextSummary, len(children))
	total := TextSummary{Flags: FlagASCII}
	for i, child := range children {
		summaries[i] = child.summary
		total = total.Add(child.summary)
	}

	return &Node{
		height:         children[0].height + 1,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Len returns the byte length of text in this subtree.
func (n *Node) Len() ByteOffset {
	return n.summary.Bytes
}

// appendTo appends all text in this subtree to the builder.
func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		for _, chunk := range n.chunks {
			sb.WriteString(chunk.String())
		}
		return
	}
	for _, child := range n.children {
		child.appendTo(sb)
	}
}

// appendRange appends text in the byte range [start, end) to the builder.
func (n *Node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	if start >= end {
		return
	}

	if n.IsLeaf() {
		var offset ByteOffset
		for _, chunk := range n.chunks {
			chunkEnd := offset + ByteOffset(chunk.Len())
			if chunkEnd > start && offset < end {
				lo := int(max(start, offset) - offset)
				hi := int(min(end, chunkEnd) - offset)
				sb.WriteString(chunk.String()[lo:hi])
			}
			if chunkEnd >= end {
				return
			}
			offset = chunkEnd
		}
		return
	}

	var offset ByteOffset
	for i, child := range n.children {
		childEnd := offset + n.childSummaries[i].Bytes
		if childEnd > start && offset < end {
			child.appendRange(sb, max(start, offset)-offset, min(end, childEnd)-offset)
		}
		if childEnd >= end {
			return
		}
		offset = childEnd
	}
}

// split splits the node at offset: left holds [0, offset), right the rest.
func (n *Node) split(offset ByteOffset) (*Node, *Node) {
	if offset == 0 {
		return newLeafNode(), n
	}
	if offset >= n.Len() {
		return n, newLeafNode()
	}
	if n.IsLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

func (n *Node) splitLeaf(offset ByteOffset) (*Node, *Node) {
	var leftChunks, rightChunks []Chunk
	var current ByteOffset

	for _, chunk := range n.chunks {
		chunkLen := ByteOffset(chunk.Len())
		switch {
		case current+chunkLen <= offset:
			leftChunks = append(leftChunks, chunk)
		case current >= offset:
			rightChunks = append(rightChunks, chunk)
		default:
			left, right := chunk.Split(int(offset - current))
			if !left.IsEmpty() {
				leftChunks = append(leftChunks, left)
			}
			if !right.IsEmpty() {
				rightChunks = append(rightChunks, right)
			}
		}
		current += chunkLen
	}

	return newLeafNodeWithChunks(leftChunks), newLeafNodeWithChunks(rightChunks)
}

func (n *Node) splitInternal(offset ByteOffset) (*Node, *Node) {
	var leftChildren, rightChildren []*Node
	var current ByteOffset

	for i, child := range n.children {
		childLen := n.childSummaries[i].Bytes
		switch {
		case current+childLen <= offset:
			leftChildren = append(leftChildren, child)
		case current >= offset:
			rightChildren = append(rightChildren, child)
		default:
			leftChild, rightChild := child.split(offset - current)
			if leftChild.Len() > 0 {
				leftChildren = append(leftChildren, leftChild)
			}
			if rightChild.Len() > 0 {
				rightChildren = append(rightChildren, rightChild)
			}
		}
		current += childLen
	}

	return buildNodeFromChildren(leftChildren), buildNodeFromChildren(rightChildren)
}

// buildNodeFromChildren creates a balanced tree from a list of sibling nodes.
// Siblings may differ in height after a split; shorter ones are wrapped.
func buildNodeFromChildren(children []*Node) *Node {
	switch len(children) {
	case 0:
		return newLeafNode()
	case 1:
		return children[0]
	}

	var height uint8
	for _, c := range children {
		height = max(height, c.height)
	}
	for i, c := range children {
		for c.height < height {
			c = newInternalNode([]*Node{c})
		}
		children[i] = c
	}

	if height == 0 {
		var chunks []Chunk
		for _, c := range children {
			chunks = append(chunks, c.chunks...)
		}
		if len(chunks) <= MaxChunksPerLeaf {
			return newLeafNodeWithChunks(chunks)
		}
	}
	if len(children) <= MaxChildren {
		return newInternalNode(children)
	}

	var parents []*Node
	for i := 0; i < len(children); i += MaxChildren {
		end := min(i+MaxChildren, len(children))
		parents = append(parents, newInternalNode(children[i:end]))
	}
	return buildNodeFromChildren(parents)
}

// concat concatenates two nodes.
func concat(left, right *Node) *Node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeafNode()
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	for left.height < right.height {
		left = newInternalNode([]*Node{left})
	}
	for right.height < left.height {
		right = newInternalNode([]*Node{right})
	}

	if left.IsLeaf() {
		return buildNodeFromChildren([]*Node{left, right})
	}

	all := make([]*Node, 0, len(left.children)+len(right.children))
	all = append(all, left.children...)
	all = append(all, right.children...)
	return buildNodeFromChildren(all)
}

// charsBefore returns the number of characters in [0, offset) and whether
// offset is a character boundary. offset must be <= n.Len().
func (n *Node) charsBefore(offset ByteOffset) (CharOffset, bool) {
	var chars CharOffset
	node := n
	for !node.IsLeaf() {
		idx := len(node.children) - 1
		for i, s := range node.childSummaries {
			if offset < s.Bytes || i == idx {
				idx = i
				break
			}
			offset -= s.Bytes
			chars += s.Chars
		}
		node = node.children[idx]
	}

	for i, chunk := range node.chunks {
		chunkLen := ByteOffset(chunk.Len())
		if offset < chunkLen || i == len(node.chunks)-1 {
			off := int(min(offset, chunkLen))
			return chars + chunk.charsBefore(off), chunk.isCharBoundary(off)
		}
		offset -= chunkLen
		chars += chunk.Summary().Chars
	}
	return chars, offset == 0
}

// byteOfChar returns the byte offset of character index c.
// c must be <= n.summary.Chars.
func (n *Node) byteOfChar(c CharOffset) ByteOffset {
	var bytes ByteOffset
	node := n
	for !node.IsLeaf() {
		idx := len(node.children) - 1
		for i, s := range node.childSummaries {
			if c < s.Chars || i == idx {
				idx = i
				break
			}
			c -= s.Chars
			bytes += s.Bytes
		}
		node = node.children[idx]
	}

	for i, chunk := range node.chunks {
		chars := chunk.Summary().Chars
		if c < chars || i == len(node.chunks)-1 {
			return bytes + ByteOffset(chunk.byteOfChar(min(c, chars)))
		}
		c -= chars
		bytes += ByteOffset(chunk.Len())
	}
	return bytes
}

// linesBefore counts newlines in [0, offset).
func (n *Node) linesBefore(offset ByteOffset) uint32 {
	var lines uint32
	node := n
	for !node.IsLeaf() {
		idx := len(node.children) - 1
		for i, s := range node.childSummaries {
			if offset < s.Bytes || i == idx {
				idx = i
				break
			}
			offset -= s.Bytes
			lines += s.Lines
		}
		node = node.children[idx]
	}

	for _, chunk := range node.chunks {
		chunkLen := ByteOffset(chunk.Len())
		if offset <= chunkLen {
			return lines + CountLines(chunk.String()[:offset])
		}
		offset -= chunkLen
		lines += chunk.Summary().Lines
	}
	return lines
}

// lineStart returns the byte offset just past the line-th newline.
// line must be in [1, n.summary.Lines].
func (n *Node) lineStart(line uint32) ByteOffset {
	var bytes ByteOffset
	node := n
	for !node.IsLeaf() {
		idx := len(node.children) - 1
		for i, s := range node.childSummaries {
			if line <= s.Lines {
				idx = i
				break
			}
			line -= s.Lines
			bytes += s.Bytes
		}
		node = node.children[idx]
	}

	for _, chunk := range node.chunks {
		lines := chunk.Summary().Lines
		if line <= lines {
			return bytes + ByteOffset(FindNthNewline(chunk.String(), line)+1)
		}
		line -= lines
		bytes += ByteOffset(chunk.Len())
	}
	return bytes
}
