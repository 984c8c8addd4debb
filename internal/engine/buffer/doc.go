// Package buffer implements the text buffer of one open file.
//
// A Buffer holds an immutable rope, a byte cursor and the path it is saved
// to. All text changes are expressed as Action values and go through Apply
// (one action) or Edit (an ordered list). Offsets in actions are UTF-8 byte
// offsets; each one is validated as a character boundary and converted to a
// character index before the rope changes.
//
//	buf, _ := buffer.Open(afero.NewOsFs(), "/tmp/notes.txt")
//	_ = buf.Apply(buffer.Append{Text: "hello"})
//	_ = buf.Apply(buffer.Replace{Range: buffer.NewRange(0, 1), Text: "H"})
//	_ = buf.Write()
//
// Thread Safety:
//
// Readers (Text, Snapshot, Location, ...) take a read lock and never fail.
// Mutations are single-writer: Apply and Edit claim the buffer and fail
// with ErrBorrowConflict if another mutation already holds it, rather than
// queueing behind it. Callers may retry or drop the action.
package buffer
