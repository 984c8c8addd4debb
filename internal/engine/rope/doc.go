// Package rope provides an immutable rope for buffer text.
//
// The rope is a B+ tree whose leaves hold UTF-8 chunks and whose internal
// nodes cache a TextSummary (bytes, characters, newlines) for each child.
// Editing returns a new rope and shares unchanged subtrees with the old one,
// so a Rope value is a free snapshot and safe for concurrent readers.
//
// Offsets come in two units. ByteOffset addresses UTF-8 bytes and
// CharOffset addresses Unicode scalar values; ByteToChar and CharToByte
// convert between them in O(log n).
//
//	r := rope.FromString("héllo")
//	r, _ = r.InsertChars(5, " world")
//	b, _ := r.CharToByte(2) // 3
package rope
