package variantx

import "fmt"

// Set is a closed, ordered collection of variant tags with a bidirectional
// tag<->name mapping. Once built, membership never changes; every engine
// component (Classifier, Table, Dispatcher, Machine) validates its variants
// against a Set at construction time rather than at runtime.
type Set[V comparable] struct {
	order  []V
	names  map[V]string
	byName map[string]V
}

// SetBuilder accumulates variants for a Set. The first error encountered is
// sticky and reported by Build.
type SetBuilder[V comparable] struct {
	order  []V
	names  map[V]string
	byName map[string]V
	err    error
}

// NewSet creates a builder for a closed variant set.
func NewSet[V comparable]() *SetBuilder[V] {
	return &SetBuilder[V]{
		names:  make(map[V]string),
		byName: make(map[string]V),
	}
}

// Add registers a variant tag under a raw name. Declaration order is
// preserved and significant (Variants, classification reports, CLI output).
func (b *SetBuilder[V]) Add(tag V, name string) *SetBuilder[V] {
	if b.err != nil {
		return b
	}
	if name == "" {
		b.err = fmt.Errorf("add %v: %w", tag, ErrEmptyName)
		return b
	}
	if _, exists := b.names[tag]; exists {
		b.err = fmt.Errorf("add %q: %w", name, ErrDuplicateVariant)
		return b
	}
	if _, exists := b.byName[name]; exists {
		b.err = fmt.Errorf("add %q: %w", name, ErrDuplicateName)
		return b
	}
	b.order = append(b.order, tag)
	b.names[tag] = name
	b.byName[name] = tag
	return b
}

// Build validates and returns the closed set.
func (b *SetBuilder[V]) Build() (*Set[V], error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.order) == 0 {
		return nil, ErrEmptySet
	}
	return &Set[V]{
		order:  b.order,
		names:  b.names,
		byName: b.byName,
	}, nil
}

// Contains reports whether tag is a member of the set.
func (s *Set[V]) Contains(tag V) bool {
	_, ok := s.names[tag]
	return ok
}

// Len returns the number of variants.
func (s *Set[V]) Len() int {
	return len(s.order)
}

// Variants returns the tags in declaration order. The returned slice is a
// copy and safe to modify.
func (s *Set[V]) Variants() []V {
	out := make([]V, len(s.order))
	copy(out, s.order)
	return out
}

// Name returns the raw name backing a tag.
func (s *Set[V]) Name(tag V) (string, error) {
	name, ok := s.names[tag]
	if !ok {
		return "", fmt.Errorf("name of %v: %w", tag, ErrUnknownVariant)
	}
	return name, nil
}

// Parse resolves a raw name back to its tag. Parsing is the only way a tag
// enters the engine from untyped input, so unknown names fail here rather
// than somewhere downstream.
func (s *Set[V]) Parse(name string) (V, error) {
	tag, ok := s.byName[name]
	if !ok {
		var zero V
		return zero, fmt.Errorf("parse %q: %w", name, ErrUnknownName)
	}
	return tag, nil
}
