package trigger

import (
	"github.com/dshills/evie/internal/action"
	"github.com/dshills/evie/internal/input/key"
)

// AnyRune returns a fallback that ends every character key typed without
// Ctrl, Alt or Meta with f(rune).
func AnyRune(f func(rune) action.Action) Fallback[key.Event] {
	return func(e key.Event) (Trigger[key.Event], bool) {
		if !e.IsRune() || e.Modifiers != key.ModNone {
			return Trigger[key.Event]{}, false
		}
		return End[key.Event](f(e.Rune)), true
	}
}

// Printable is like AnyRune but only matches printable characters,
// including space.
func Printable(f func(rune) action.Action) Fallback[key.Event] {
	return func(e key.Event) (Trigger[key.Event], bool) {
		if !e.IsChar() {
			return Trigger[key.Event]{}, false
		}
		return End[key.Event](f(e.Rune)), true
	}
}

// Digits matches '0' through '9'.
func Digits(f func(rune) action.Action) Fallback[key.Event] {
	return func(e key.Event) (Trigger[key.Event], bool) {
		if !e.IsRune() || e.Modifiers != key.ModNone || e.Rune < '0' || e.Rune > '9' {
			return Trigger[key.Event]{}, false
		}
		return End[key.Event](f(e.Rune)), true
	}
}
