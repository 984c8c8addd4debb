package trigger

import "github.com/dshills/evie/internal/input/mode"

// Modes holds the root Map of every mode plus the Universal Map.
// It is read-only once built.
type Modes[K comparable] struct {
	roots     [mode.Count]*Map[K]
	universal *Map[K]
}

// NewModes creates a table from per-mode roots. Modes missing from roots,
// and a nil universal, get empty Maps.
func NewModes[K comparable](roots map[mode.Mode]*Map[K], universal *Map[K]) *Modes[K] {
	t := &Modes[K]{universal: universal}
	if t.universal == nil {
		t.universal = Empty[K]()
	}
	for _, m := range mode.All() {
		t.roots[m] = roots[m]
		if t.roots[m] == nil {
			t.roots[m] = Empty[K]()
		}
	}
	return t
}

// Root returns the root Map of m, or nil for an invalid mode.
func (t *Modes[K]) Root(m mode.Mode) *Map[K] {
	if !m.Valid() {
		return nil
	}
	return t.roots[m]
}

// Universal returns the Map consulted in every mode.
func (t *Modes[K]) Universal() *Map[K] {
	return t.universal
}

// ModesBuilder assembles a Modes table with one Builder per mode.
type ModesBuilder[K comparable] struct {
	modes     [mode.Count]*Builder[K]
	universal *Builder[K]
}

// NewModesBuilder creates an empty ModesBuilder.
func NewModesBuilder[K comparable]() *ModesBuilder[K] {
	b := &ModesBuilder[K]{universal: NewBuilder[K]()}
	for i := range b.modes {
		b.modes[i] = NewBuilder[K]()
	}
	return b
}

// Mode returns the Builder for m's root. It panics on an invalid mode.
func (b *ModesBuilder[K]) Mode(m mode.Mode) *Builder[K] {
	return b.modes[m]
}

// Universal returns the Builder for the Universal Map.
func (b *ModesBuilder[K]) Universal() *Builder[K] {
	return b.universal
}

// Build returns the table.
func (b *ModesBuilder[K]) Build() *Modes[K] {
	t := &Modes[K]{universal: b.universal.Build()}
	for i, mb := range b.modes {
		t.roots[i] = mb.Build()
	}
	return t
}
