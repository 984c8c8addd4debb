package buffer

import "github.com/spf13/afero"

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the line ending inserted by Newline.
// Open and NewFromString override it when the text already contains
// line breaks.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithPath sets the file the buffer is written to.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}

// WithFS sets the file system used by Write.
func WithFS(fsys afero.Fs) Option {
	return func(b *Buffer) {
		if fsys != nil {
			b.fs = fsys
		}
	}
}
