// Package trigger implements the key binding trie.
//
// A Map associates keys with Triggers. A Trigger either ends a binding with
// an action or continues it into a nested Map. A Map may also carry a
// Fallback that is consulted only when a key has no direct entry, which
// lets one binding describe an open class of keys such as "any printable
// character" while specific keys in that class keep their own bindings.
//
// Maps are immutable once built and are shared by pointer: the same Map
// can be reachable from several parents and referenced by any number of
// in-flight sequences. Use a Builder to assemble them from key sequences.
//
// Modes groups one root Map per editing mode with a Universal Map that
// applies in every mode.
package trigger
