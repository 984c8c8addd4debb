package trigger

import (
	"errors"
	"fmt"

	"github.com/dshills/evie/internal/action"
)

// Builder errors.
var (
	ErrEmptySequence = errors.New("empty key sequence")
	ErrNilAction     = errors.New("nil action")
	ErrConflict      = errors.New("conflicting binding")
)

// Builder assembles a trie from key sequences. It is not safe for
// concurrent use; build once, then share the resulting Map.
type Builder[K comparable] struct {
	root *node[K]
}

type node[K comparable] struct {
	action   action.Action
	children map[K]*node[K]
	fallback Fallback[K]
}

func newNode[K comparable]() *node[K] {
	return &node[K]{children: make(map[K]*node[K])}
}

// NewBuilder creates an empty Builder.
func NewBuilder[K comparable]() *Builder[K] {
	return &Builder[K]{root: newNode[K]()}
}

// Bind maps seq to a. Binding a sequence again replaces its action.
// A sequence cannot both end a binding and be the prefix of another one;
// such a binding fails with ErrConflict and leaves the Builder unchanged.
func (b *Builder[K]) Bind(seq []K, a action.Action) error {
	if len(seq) == 0 {
		return ErrEmptySequence
	}
	if a == nil {
		return ErrNilAction
	}

	n, err := b.walk(seq[:len(seq)-1])
	if err != nil {
		return err
	}

	last := seq[len(seq)-1]
	if child := n.children[last]; child != nil && (len(child.children) > 0 || child.fallback != nil) {
		return fmt.Errorf("%w: %v is a prefix of other bindings", ErrConflict, seq)
	}
	n.children[last] = &node[K]{action: a}
	return nil
}

// SetFallback sets the fallback of the map reached by prefix. An empty
// prefix sets the root fallback. A nil fallback clears it.
func (b *Builder[K]) SetFallback(prefix []K, fallback Fallback[K]) error {
	n, err := b.walk(prefix)
	if err != nil {
		return err
	}
	n.fallback = fallback
	return nil
}

// walk returns the node for prefix, creating missing nodes. Nodes are only
// created after every existing node on the path has been checked.
func (b *Builder[K]) walk(prefix []K) (*node[K], error) {
	n := b.root
	for i, k := range prefix {
		child, ok := n.children[k]
		if !ok {
			child = newNode[K]()
			n.children[k] = child
		} else if child.action != nil {
			return nil, fmt.Errorf("%w: %v is already bound to %s", ErrConflict, prefix[:i+1], child.action)
		}
		n = child
	}
	return n, nil
}

// Build returns the root Map. The Builder can keep being used; later
// changes do not affect Maps already built.
func (b *Builder[K]) Build() *Map[K] {
	return b.root.build()
}

func (n *node[K]) build() *Map[K] {
	m := &Map[K]{
		entries:  make(map[K]Trigger[K], len(n.children)),
		fallback: n.fallback,
	}
	for k, child := range n.children {
		if child.action != nil {
			m.entries[k] = End[K](child.action)
		} else {
			m.entries[k] = Then(child.build())
		}
	}
	return m
}

// Walk calls f for every End trigger reachable from m with the key
// sequence leading to it. Fallbacks are not enumerated.
func Walk[K comparable](m *Map[K], f func(seq []K, a action.Action)) {
	walk(m, nil, f)
}

func walk[K comparable](m *Map[K], prefix []K, f func([]K, action.Action)) {
	m.Range(func(k K, t Trigger[K]) bool {
		seq := append(prefix[:len(prefix):len(prefix)], k)
		if a, ok := t.Action(); ok {
			f(seq, a)
		} else if next, ok := t.Next(); ok {
			walk(next, seq, f)
		}
		return true
	})
}
