package key

import "github.com/gdamore/tcell/v2"

// tcellCtrlRunes holds the control codes past Ctrl-Z that tcell reports
// as keys rather than runes.
var tcellCtrlRunes = map[tcell.Key]rune{
	tcell.KeyCtrlBackslash:  '\\',
	tcell.KeyCtrlRightSq:    ']',
	tcell.KeyCtrlCarat:      '^',
	tcell.KeyCtrlUnderscore: '_',
}

var tcellKeys = map[tcell.Key]Key{
	tcell.KeyDelete: KeyDelete,
	tcell.KeyInsert: KeyInsert,
	tcell.KeyHome:   KeyHome,
	tcell.KeyEnd:    KeyEnd,
	tcell.KeyPgUp:   KeyPageUp,
	tcell.KeyPgDn:   KeyPageDown,
	tcell.KeyUp:     KeyUp,
	tcell.KeyDown:   KeyDown,
	tcell.KeyLeft:   KeyLeft,
	tcell.KeyRight:  KeyRight,
	tcell.KeyF1:     KeyF1,
	tcell.KeyF2:     KeyF2,
	tcell.KeyF3:     KeyF3,
	tcell.KeyF4:     KeyF4,
	tcell.KeyF5:     KeyF5,
	tcell.KeyF6:     KeyF6,
	tcell.KeyF7:     KeyF7,
	tcell.KeyF8:     KeyF8,
	tcell.KeyF9:     KeyF9,
	tcell.KeyF10:    KeyF10,
	tcell.KeyF11:    KeyF11,
	tcell.KeyF12:    KeyF12,
}

// FromTcell converts a tcell key event. Keys tcell reports that have no
// counterpart here convert to an event with KeyNone.
func FromTcell(ev *tcell.EventKey) Event {
	mods := fromTcellMods(ev.Modifiers())
	k := ev.Key()

	// Tab, Enter and Backspace share codes with Ctrl+I, Ctrl+M and Ctrl+H,
	// so they are matched before the control range.
	switch {
	case k == tcell.KeyRune:
		return New(KeyRune, ev.Rune(), mods)
	case k == tcell.KeyTab:
		return Special(KeyTab, mods)
	case k == tcell.KeyBacktab:
		return Special(KeyTab, mods.With(ModShift))
	case k == tcell.KeyEnter:
		return Special(KeyEnter, mods)
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		return Special(KeyBackspace, mods)
	case k == tcell.KeyEscape:
		return Special(KeyEscape, mods)
	case k == tcell.KeyCtrlSpace:
		return New(KeyRune, ' ', mods.With(ModCtrl))
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return New(KeyRune, 'a'+rune(k-tcell.KeyCtrlA), mods.With(ModCtrl))
	}

	if r, ok := tcellCtrlRunes[k]; ok {
		return New(KeyRune, r, mods.With(ModCtrl))
	}

	if special, ok := tcellKeys[k]; ok {
		return Special(special, mods)
	}
	return Special(KeyNone, mods)
}

func fromTcellMods(m tcell.ModMask) Modifier {
	var mods Modifier
	if m&tcell.ModShift != 0 {
		mods = mods.With(ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		mods = mods.With(ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		mods = mods.With(ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		mods = mods.With(ModMeta)
	}
	return mods
}
