package keymap

// Default returns the built-in Vim-like keymap.
func Default() *Keymap {
	return &Keymap{
		Name: "default",
		Modes: map[string]*Section{
			Universal: {
				Bindings: []Binding{
					{Keys: "<Esc>", Action: "mode normal", Description: "Return to normal mode"},
					{Keys: "<C-s>", Action: "save", Description: "Write the buffer"},
					{Keys: "<Left>", Action: "move left", Description: "Move left"},
					{Keys: "<Right>", Action: "move right", Description: "Move right"},
					{Keys: "<Up>", Action: "move up", Description: "Move up"},
					{Keys: "<Down>", Action: "move down", Description: "Move down"},
					{Keys: "<Home>", Action: "move line-start", Description: "Move to line start"},
					{Keys: "<End>", Action: "move line-end", Description: "Move to line end"},
				},
			},

			"normal": {
				Bindings: []Binding{
					// Movement
					{Keys: "h", Action: "move left", Description: "Move left"},
					{Keys: "j", Action: "move down", Description: "Move down"},
					{Keys: "k", Action: "move up", Description: "Move up"},
					{Keys: "l", Action: "move right", Description: "Move right"},
					{Keys: "0", Action: "move line-start", Description: "Move to line start"},
					{Keys: "$", Action: "move line-end", Description: "Move to line end"},
					{Keys: "<BS>", Action: "move left", Description: "Move left"},
					{Keys: "<Space>", Action: "move right", Description: "Move right"},

					// Modes
					{Keys: "i", Action: "mode insert", Description: "Enter insert mode"},
					{Keys: "v", Action: "mode visual", Description: "Enter visual mode"},
					{Keys: ":", Action: "mode command", Description: "Enter command mode"},
					{Keys: "R", Action: "mode replace", Description: "Enter replace mode"},
					{Keys: "<C-w>t", Action: "mode terminal", Description: "Enter terminal mode"},

					// Editing
					{Keys: "x", Action: "delete-forward", Description: "Delete character"},
					{Keys: "X", Action: "delete-backward", Description: "Delete character before"},
					{Keys: "ZZ", Action: "save", Description: "Write the buffer"},
				},
				Fallbacks: []Fallback{
					{Prefix: "r", Match: "printable", Action: "overwrite"},
				},
			},

			"insert": {
				Bindings: []Binding{
					{Keys: "<CR>", Action: "newline", Description: "Insert line break"},
					{Keys: "<Tab>", Action: `append "\t"`, Description: "Insert tab"},
					{Keys: "<BS>", Action: "delete-backward", Description: "Delete character before"},
					{Keys: "<Del>", Action: "delete-forward", Description: "Delete character"},
				},
				Fallbacks: []Fallback{
					{Match: "printable", Action: "append"},
				},
			},

			"replace": {
				Bindings: []Binding{
					{Keys: "<CR>", Action: "newline", Description: "Insert line break"},
					{Keys: "<BS>", Action: "move left", Description: "Move left"},
				},
				Fallbacks: []Fallback{
					{Match: "printable", Action: "overwrite"},
				},
			},

			"visual": {
				Bindings: []Binding{
					{Keys: "h", Action: "move left", Description: "Extend left"},
					{Keys: "j", Action: "move down", Description: "Extend down"},
					{Keys: "k", Action: "move up", Description: "Extend up"},
					{Keys: "l", Action: "move right", Description: "Extend right"},
					{Keys: "v", Action: "mode normal", Description: "Leave visual mode"},
				},
			},

			"command": {
				Bindings: []Binding{
					{Keys: "w<CR>", Action: "save", Description: "Write the buffer"},
					{Keys: "<CR>", Action: "mode normal", Description: "Leave command mode"},
				},
			},

			"terminal": {
				Bindings: []Binding{
					{Keys: "<C-\\><C-n>", Action: "mode normal", Description: "Leave terminal mode"},
					{Keys: "<CR>", Action: "newline", Description: "Send line"},
				},
				Fallbacks: []Fallback{
					{Match: "any-rune", Action: "append"},
				},
			},
		},
	}
}
