package key

import tea "github.com/charmbracelet/bubbletea"

var teaCtrlRunes = map[tea.KeyType]rune{
	tea.KeyCtrlBackslash:    '\\',
	tea.KeyCtrlCloseBracket: ']',
	tea.KeyCtrlCaret:        '^',
	tea.KeyCtrlUnderscore:   '_',
}

var teaKeys = map[tea.KeyType]Key{
	tea.KeyDelete: KeyDelete,
	tea.KeyInsert: KeyInsert,
	tea.KeyHome:   KeyHome,
	tea.KeyEnd:    KeyEnd,
	tea.KeyPgUp:   KeyPageUp,
	tea.KeyPgDown: KeyPageDown,
	tea.KeyUp:     KeyUp,
	tea.KeyDown:   KeyDown,
	tea.KeyLeft:   KeyLeft,
	tea.KeyRight:  KeyRight,
	tea.KeyF1:     KeyF1,
	tea.KeyF2:     KeyF2,
	tea.KeyF3:     KeyF3,
	tea.KeyF4:     KeyF4,
	tea.KeyF5:     KeyF5,
	tea.KeyF6:     KeyF6,
	tea.KeyF7:     KeyF7,
	tea.KeyF8:     KeyF8,
	tea.KeyF9:     KeyF9,
	tea.KeyF10:    KeyF10,
	tea.KeyF11:    KeyF11,
	tea.KeyF12:    KeyF12,
}

// FromTea converts a Bubble Tea key message. A message carrying several
// runes (a paste) yields one event per rune.
func FromTea(msg tea.KeyMsg) []Event {
	var mods Modifier
	if msg.Alt {
		mods = ModAlt
	}

	t := msg.Type
	switch {
	case t == tea.KeyRunes:
		events := make([]Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, New(KeyRune, r, mods))
		}
		return events
	case t == tea.KeySpace:
		return one(New(KeyRune, ' ', mods))
	case t == tea.KeyTab:
		return one(Special(KeyTab, mods))
	case t == tea.KeyShiftTab:
		return one(Special(KeyTab, mods.With(ModShift)))
	case t == tea.KeyEnter:
		return one(Special(KeyEnter, mods))
	case t == tea.KeyBackspace || t == tea.KeyCtrlH:
		return one(Special(KeyBackspace, mods))
	case t == tea.KeyEscape:
		return one(Special(KeyEscape, mods))
	case t >= tea.KeyCtrlA && t <= tea.KeyCtrlZ:
		return one(New(KeyRune, 'a'+rune(t-tea.KeyCtrlA), mods.With(ModCtrl)))
	}

	if r, ok := teaCtrlRunes[t]; ok {
		return one(New(KeyRune, r, mods.With(ModCtrl)))
	}

	if special, ok := teaKeys[t]; ok {
		return one(Special(special, mods))
	}
	return nil
}

func one(e Event) []Event {
	return []Event{e}
}
