package keymap

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dshills/evie/internal/action"
	"github.com/dshills/evie/internal/engine/buffer"
	"github.com/dshills/evie/internal/input/key"
	"github.com/dshills/evie/internal/input/mode"
	"github.com/dshills/evie/internal/input/trigger"
)

// Universal is the section name of bindings that apply in every mode.
const Universal = "universal"

// ErrUnknownMatch is returned for a fallback with an unrecognized match.
var ErrUnknownMatch = errors.New("unknown fallback match")

// Binding maps a key sequence to an action.
type Binding struct {
	// Keys is the key sequence, e.g. "gg", "<C-w>v", "ZZ".
	Keys string `toml:"keys" yaml:"keys"`

	// Action is the action text, e.g. "mode insert", "move left".
	Action string `toml:"action" yaml:"action"`

	// Description documents the binding for listings.
	Description string `toml:"description,omitempty" yaml:"description,omitempty"`
}

// Fallback binds an open class of keys.
type Fallback struct {
	// Prefix is the key sequence leading to the map the fallback is
	// attached to. Empty means the mode's root.
	Prefix string `toml:"prefix,omitempty" yaml:"prefix,omitempty"`

	// Match is the key class: "any-rune", "printable" or "digits".
	Match string `toml:"match" yaml:"match"`

	// Action is "append", "overwrite" or a complete action.
	Action string `toml:"action" yaml:"action"`
}

// Section holds the bindings of one mode.
type Section struct {
	Bindings  []Binding  `toml:"bindings,omitempty" yaml:"bindings,omitempty"`
	Fallbacks []Fallback `toml:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
}

// Keymap holds bindings for every mode.
type Keymap struct {
	// Name identifies the keymap in logs and listings.
	Name string `toml:"name" yaml:"name"`

	// Modes maps a mode name, or "universal", to its section.
	Modes map[string]*Section `toml:"modes" yaml:"modes"`
}

// New creates an empty keymap.
func New(name string) *Keymap {
	return &Keymap{
		Name:  name,
		Modes: make(map[string]*Section),
	}
}

// Section returns the section for name, creating it if needed.
func (k *Keymap) Section(name string) *Section {
	if k.Modes == nil {
		k.Modes = make(map[string]*Section)
	}
	s, ok := k.Modes[name]
	if !ok {
		s = &Section{}
		k.Modes[name] = s
	}
	return s
}

// Bind adds a binding to section.
func (k *Keymap) Bind(section, keys, act string) *Keymap {
	s := k.Section(section)
	s.Bindings = append(s.Bindings, Binding{Keys: keys, Action: act})
	return k
}

// Fallback adds a fallback to section.
func (k *Keymap) Fallback(section, prefix, match, act string) *Keymap {
	s := k.Section(section)
	s.Fallbacks = append(s.Fallbacks, Fallback{Prefix: prefix, Match: match, Action: act})
	return k
}

// Merge appends other's bindings after k's, so other wins where both bind
// the same sequence.
func (k *Keymap) Merge(other *Keymap) *Keymap {
	for name, s := range other.Modes {
		if s == nil {
			continue
		}
		dst := k.Section(name)
		dst.Bindings = append(dst.Bindings, s.Bindings...)
		dst.Fallbacks = append(dst.Fallbacks, s.Fallbacks...)
	}
	return k
}

// sectionNames returns the section names in a stable order so that
// compile errors are deterministic.
func (k *Keymap) sectionNames() []string {
	names := make([]string, 0, len(k.Modes))
	for name := range k.Modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every section name, key sequence and action.
func (k *Keymap) Validate() error {
	_, err := k.Compile()
	return err
}

// Compile builds the mode table. Bindings are applied in order, so a later
// binding of the same sequence replaces an earlier one.
func (k *Keymap) Compile() (*trigger.Modes[key.Event], error) {
	mb := trigger.NewModesBuilder[key.Event]()

	for _, name := range k.sectionNames() {
		s := k.Modes[name]
		if s == nil {
			continue
		}

		var b *trigger.Builder[key.Event]
		if strings.EqualFold(name, Universal) {
			b = mb.Universal()
		} else {
			m, err := mode.Parse(name)
			if err != nil {
				return nil, fmt.Errorf("keymap %q: %w", k.Name, err)
			}
			b = mb.Mode(m)
		}

		if err := compileSection(b, s); err != nil {
			return nil, fmt.Errorf("keymap %q, %s: %w", k.Name, name, err)
		}
	}

	return mb.Build(), nil
}

func compileSection(b *trigger.Builder[key.Event], s *Section) error {
	for i, bd := range s.Bindings {
		seq, err := key.ParseSequence(bd.Keys)
		if err != nil {
			return fmt.Errorf("binding %d (%s): %w", i, bd.Keys, err)
		}
		a, err := action.Parse(bd.Action)
		if err != nil {
			return fmt.Errorf("binding %d (%s): %w", i, bd.Keys, err)
		}
		if err := b.Bind(seq, a); err != nil {
			return fmt.Errorf("binding %d (%s): %w", i, bd.Keys, err)
		}
	}

	for i, fb := range s.Fallbacks {
		var prefix []key.Event
		if fb.Prefix != "" {
			var err error
			if prefix, err = key.ParseSequence(fb.Prefix); err != nil {
				return fmt.Errorf("fallback %d: %w", i, err)
			}
		}
		f, err := fb.compile()
		if err != nil {
			return fmt.Errorf("fallback %d: %w", i, err)
		}
		if err := b.SetFallback(prefix, f); err != nil {
			return fmt.Errorf("fallback %d: %w", i, err)
		}
	}

	return nil
}

func (fb Fallback) compile() (trigger.Fallback[key.Event], error) {
	var produce func(rune) action.Action
	switch fb.Action {
	case "append":
		produce = func(r rune) action.Action { return action.Append(string(r)) }
	case "overwrite":
		produce = func(r rune) action.Action { return action.Edit(buffer.Overwrite{Text: string(r)}) }
	default:
		a, err := action.Parse(fb.Action)
		if err != nil {
			return nil, err
		}
		produce = func(rune) action.Action { return a }
	}

	switch fb.Match {
	case "any-rune":
		return trigger.AnyRune(produce), nil
	case "printable":
		return trigger.Printable(produce), nil
	case "digits":
		return trigger.Digits(produce), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownMatch, fb.Match)
}
