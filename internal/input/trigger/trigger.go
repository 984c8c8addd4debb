package trigger

import (
	"fmt"

	"github.com/dshills/evie/internal/action"
)

// Trigger is the resolution of one key within a Map: either the end of a
// binding, carrying its action, or a step into a nested Map.
// The zero Trigger is neither and is never returned by Resolve.
type Trigger[K comparable] struct {
	action action.Action
	next   *Map[K]
}

// End returns a Trigger that completes a binding with a.
func End[K comparable](a action.Action) Trigger[K] {
	return Trigger[K]{action: a}
}

// Then returns a Trigger that continues the sequence in m.
func Then[K comparable](m *Map[K]) Trigger[K] {
	return Trigger[K]{next: m}
}

// Action returns the action of an End trigger.
func (t Trigger[K]) Action() (action.Action, bool) {
	return t.action, t.action != nil
}

// Next returns the nested map of a Then trigger.
func (t Trigger[K]) Next() (*Map[K], bool) {
	return t.next, t.next != nil
}

// IsEnd reports whether t completes a binding.
func (t Trigger[K]) IsEnd() bool {
	return t.action != nil
}

func (t Trigger[K]) valid() bool {
	return t.action != nil || t.next != nil
}

func (t Trigger[K]) String() string {
	switch {
	case t.action != nil:
		return fmt.Sprintf("End(%s)", t.action)
	case t.next != nil:
		return fmt.Sprintf("Map(%d keys)", t.next.Len())
	}
	return "Trigger(nil)"
}

// Fallback resolves keys that have no direct entry in a Map.
// Fallbacks must be pure: the same key always yields the same result.
type Fallback[K comparable] func(K) (Trigger[K], bool)

// Map is one node of the binding trie.
type Map[K comparable] struct {
	entries  map[K]Trigger[K]
	fallback Fallback[K]
}

// NewMap returns a Map holding a copy of entries. Zero triggers, such as
// End(nil) or Then(nil), are dropped. fallback may be nil.
func NewMap[K comparable](entries map[K]Trigger[K], fallback Fallback[K]) *Map[K] {
	m := &Map[K]{
		entries:  make(map[K]Trigger[K], len(entries)),
		fallback: fallback,
	}
	for k, t := range entries {
		if t.valid() {
			m.entries[k] = t
		}
	}
	return m
}

// Empty returns a Map with no entries and no fallback.
func Empty[K comparable]() *Map[K] {
	return &Map[K]{}
}

// Resolve returns the trigger for k. A direct entry always wins; the
// fallback runs only when there is none.
func (m *Map[K]) Resolve(k K) (Trigger[K], bool) {
	if m == nil {
		return Trigger[K]{}, false
	}
	if t, ok := m.entries[k]; ok && t.valid() {
		return t, true
	}
	if m.fallback != nil {
		if t, ok := m.fallback(k); ok && t.valid() {
			return t, true
		}
	}
	return Trigger[K]{}, false
}

// Lookup returns the direct entry for k, ignoring the fallback.
func (m *Map[K]) Lookup(k K) (Trigger[K], bool) {
	if m == nil {
		return Trigger[K]{}, false
	}
	t, ok := m.entries[k]
	return t, ok
}

// Len returns the number of direct entries.
func (m *Map[K]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// HasFallback reports whether m has a fallback.
func (m *Map[K]) HasFallback() bool {
	return m != nil && m.fallback != nil
}

// Range calls f for each direct entry, in no particular order, until f
// returns false.
func (m *Map[K]) Range(f func(K, Trigger[K]) bool) {
	if m == nil {
		return
	}
	for k, t := range m.entries {
		if !f(k, t) {
			return
		}
	}
}

// Resolve is m.Resolve(k).
func Resolve[K comparable](m *Map[K], k K) (Trigger[K], bool) {
	return m.Resolve(k)
}
