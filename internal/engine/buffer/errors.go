package buffer

import (
	"errors"
	"fmt"
)

// Errors returned by buffer operations.
var (
	// ErrInvalidOffset indicates a byte offset that splits a character or
	// lies outside the buffer.
	ErrInvalidOffset = errors.New("invalid offset")

	// ErrBorrowConflict indicates a mutation was attempted while another
	// mutation of the same buffer was in flight.
	ErrBorrowConflict = errors.New("buffer is being modified")

	// ErrRangeInvalid indicates a range whose start is after its end.
	// It wraps ErrInvalidOffset.
	ErrRangeInvalid = fmt.Errorf("%w: range start after end", ErrInvalidOffset)

	// ErrNoPath indicates a write on a buffer that has no backing path.
	ErrNoPath = errors.New("buffer has no path")
)

// OffsetError reports the offending offset of an ErrInvalidOffset failure.
type OffsetError struct {
	Offset ByteOffset
	Len    ByteOffset
}

func (e *OffsetError) Error() string {
	if e.Offset < 0 || e.Offset > e.Len {
		return fmt.Sprintf("invalid offset: %d out of range [0,%d]", e.Offset, e.Len)
	}
	return fmt.Sprintf("invalid offset: %d is not a character boundary", e.Offset)
}

// Unwrap returns ErrInvalidOffset.
func (e *OffsetError) Unwrap() error {
	return ErrInvalidOffset
}

// IOError wraps a file system failure while loading or writing a buffer.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}
