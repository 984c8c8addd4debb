package keymap

import (
	"context"

	lua "github.com/yuin/gopher-lua"
)

// parseLua runs a keymap script in a restricted Lua state. The script
// describes the keymap by calling:
//
//	name("my-keys")
//	bind("normal", "gg", "move up", "optional description")
//	fallback("insert", "", "printable", "append")
//
// The section may be a mode name or "universal".
func (l *Loader) parseLua(ctx context.Context, source string, data []byte) (*Keymap, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	// Only the libraries a keymap script can need; no io, os or package.
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		open(L)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}

	if l.luaTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.luaTimeout)
		defer cancel()
	}
	L.SetContext(ctx)

	km := New("")

	L.SetGlobal("name", L.NewFunction(func(L *lua.LState) int {
		km.Name = L.CheckString(1)
		return 0
	}))

	L.SetGlobal("bind", L.NewFunction(func(L *lua.LState) int {
		s := km.Section(L.CheckString(1))
		s.Bindings = append(s.Bindings, Binding{
			Keys:        L.CheckString(2),
			Action:      L.CheckString(3),
			Description: L.OptString(4, ""),
		})
		return 0
	}))

	L.SetGlobal("fallback", L.NewFunction(func(L *lua.LState) int {
		s := km.Section(L.CheckString(1))
		s.Fallbacks = append(s.Fallbacks, Fallback{
			Prefix: L.CheckString(2),
			Match:  L.CheckString(3),
			Action: L.CheckString(4),
		})
		return 0
	}))

	if err := L.DoString(string(data)); err != nil {
		return nil, &ParseError{Path: source, Format: "lua", Err: err}
	}
	return km, nil
}
