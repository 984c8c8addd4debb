// Package editor coordinates key dispatch and buffer editing.
//
// An Editor owns the active mode, the position of any key sequence in
// progress, the binding table and the buffer store. Keys are resolved
// against the active mode's bindings first; only when those have no
// answer for a key is the Universal map consulted.
//
// A View addresses one buffer through the Editor. It is what a front end
// holds: it feeds keys in with OnKey and reads text back with Read.
//
// Editors and Views are safe for concurrent use. Mode and sequence
// position are published together through a single atomic pointer, so a
// reader never sees one without the other.
package editor
