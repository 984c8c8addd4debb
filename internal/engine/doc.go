// Package engine is the buffer store: a concurrent registry of open buffers
// keyed by canonical file path.
//
// # Architecture
//
// The engine is built on two sub-packages:
//
//   - rope: B+ tree rope with byte and character metrics
//   - buffer: one file's text, cursor and edit actions
//
// # Paths
//
// Every path is resolved to a canonical form before it is used as a key.
// Relative paths are joined to the engine's base directory; absolute paths
// are used as given. On the OS file system symlinks are then resolved, so
// two spellings of the same file share one buffer. A path that does not
// exist yet is still valid; a dangling symlink is not.
//
// # Thread Safety
//
// The path map is lock-striped: Add and Get on unrelated paths never wait
// for each other. The buffers it hands out are shared by every caller and
// enforce their own single-writer rule.
//
// # Basic Usage
//
//	e, err := engine.New("/home/me/project")
//	buf, err := e.Add("main.go", true)   // reads the file, or starts empty
//	same, err := e.Get("main.go", true)  // same *buffer.Buffer
//	err = e.WriteAll(ctx)
package engine
