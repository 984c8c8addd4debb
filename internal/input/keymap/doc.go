// Package keymap turns declarative key bindings into the binding trie.
//
// A Keymap lists bindings per mode, plus universal bindings that apply in
// every mode, in textual form:
//
//	[[modes.normal.bindings]]
//	keys = "i"
//	action = "mode insert"
//
//	[[modes.insert.fallbacks]]
//	match = "printable"
//	action = "append"
//
// Keys use Vim notation (see key.ParseSequence). Actions use the textual
// form of action.Parse. A fallback's action is either a complete action or
// one of the character templates "append" and "overwrite", which receive
// the typed character.
//
// Keymaps are loaded from TOML, YAML or Lua files and compiled with
// Compile. Default returns the built-in Vim-like keymap.
package keymap
