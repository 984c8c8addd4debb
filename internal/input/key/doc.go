// Package key provides the keyboard key type used by the editor.
//
// An Event is a small comparable value (key, rune, modifiers), so it can be
// used directly as a map key in binding tables. Events are canonical:
// constructors fold Shift into the character for rune keys and lower-case
// Ctrl chords, so the same physical chord always compares equal no matter
// which terminal library reported it.
//
// # Key Specifications
//
// Specifications use Vim notation, with a few conveniences:
//
//   - Characters: "a", "A", "1", "@"
//   - Special keys: "<Esc>", "<CR>", "<Tab>", "<BS>", "<Space>", "<F5>"
//   - With modifiers: "<C-s>", "<A-f>", "<S-Tab>", "Ctrl+S"
//
// ParseSequence reads a whole binding such as "gg", "<C-w>v" or ":w<CR>".
//
// # Adapters
//
// FromTcell and FromTea convert events from the tcell and Bubble Tea
// terminal libraries.
package key
