package variantx

import "fmt"

// Table holds the transition rules for a variant set: an eventless successor
// map (Step) and an event-keyed map (Fire). Both are deterministic; for tags
// in the declared set neither ever fails: a missing rule leaves the current
// variant in place.
type Table[V comparable, E comparable] struct {
	set     *Set[V]
	next    map[V]V
	onEvent map[E]map[V]V
}

// TableBuilder accumulates transitions for a Table.
type TableBuilder[V comparable, E comparable] struct {
	set          *Set[V]
	next         map[V]V
	onEvent      map[E]map[V]V
	requireTotal bool
	requireCycle bool
	err          error
}

// NewTable creates a builder for a transition table over set.
func NewTable[V comparable, E comparable](set *Set[V]) *TableBuilder[V, E] {
	return &TableBuilder[V, E]{
		set:     set,
		next:    make(map[V]V),
		onEvent: make(map[E]map[V]V),
	}
}

// Next declares the eventless successor of from. Each variant may have at
// most one successor.
func (b *TableBuilder[V, E]) Next(from, to V) *TableBuilder[V, E] {
	if b.err != nil {
		return b
	}
	if !b.set.Contains(from) {
		b.err = fmt.Errorf("next from %v: %w", from, ErrUnknownVariant)
		return b
	}
	if !b.set.Contains(to) {
		b.err = fmt.Errorf("next to %v: %w", to, ErrUnknownVariant)
		return b
	}
	if _, exists := b.next[from]; exists {
		b.err = fmt.Errorf("next from %v: %w", from, ErrDuplicateSuccessor)
		return b
	}
	b.next[from] = to
	return b
}

// Ring wires vs[0]->vs[1]->...->vs[n-1]->vs[0], the classic self-advancing
// cycle.
func (b *TableBuilder[V, E]) Ring(vs ...V) *TableBuilder[V, E] {
	for i, v := range vs {
		b.Next(v, vs[(i+1)%len(vs)])
	}
	return b
}

// On declares an event transition from -> to triggered by event.
func (b *TableBuilder[V, E]) On(event E, from, to V) *TableBuilder[V, E] {
	if b.err != nil {
		return b
	}
	if !b.set.Contains(from) {
		b.err = fmt.Errorf("on %v from %v: %w", event, from, ErrUnknownVariant)
		return b
	}
	if !b.set.Contains(to) {
		b.err = fmt.Errorf("on %v to %v: %w", event, to, ErrUnknownVariant)
		return b
	}
	m := b.onEvent[event]
	if m == nil {
		m = make(map[V]V)
		b.onEvent[event] = m
	}
	m[from] = to
	return b
}

// RequireTotal makes Build fail unless every variant in the set has an
// eventless successor.
func (b *TableBuilder[V, E]) RequireTotal() *TableBuilder[V, E] {
	b.requireTotal = true
	return b
}

// RequireCycle makes Build fail unless the successor relation is a single
// directed cycle touching every variant exactly once. Implies RequireTotal.
func (b *TableBuilder[V, E]) RequireCycle() *TableBuilder[V, E] {
	b.requireTotal = true
	b.requireCycle = true
	return b
}

// Build validates the declared constraints and returns the table.
func (b *TableBuilder[V, E]) Build() (*Table[V, E], error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.requireTotal {
		for _, v := range b.set.Variants() {
			if _, ok := b.next[v]; !ok {
				name, _ := b.set.Name(v)
				return nil, fmt.Errorf("variant %q has no successor: %w", name, ErrNotTotal)
			}
		}
	}
	if b.requireCycle {
		// Walk the successor chain from the first variant; a single covering
		// cycle visits Len distinct variants and lands back on the start.
		start := b.set.Variants()[0]
		seen := map[V]bool{start: true}
		cur := start
		for i := 0; i < b.set.Len(); i++ {
			cur = b.next[cur]
			if cur == start {
				if i != b.set.Len()-1 {
					return nil, fmt.Errorf("cycle closes after %d of %d variants: %w", i+1, b.set.Len(), ErrNotCycle)
				}
				break
			}
			if seen[cur] {
				return nil, fmt.Errorf("successor chain revisits %v before closing: %w", cur, ErrNotCycle)
			}
			seen[cur] = true
		}
		if cur != start {
			return nil, fmt.Errorf("successor chain never returns to %v: %w", start, ErrNotCycle)
		}
	}
	return &Table[V, E]{set: b.set, next: b.next, onEvent: b.onEvent}, nil
}

// Step returns the eventless successor of v. Variants without a successor
// stay in place. Only tags outside the declared set error.
func (t *Table[V, E]) Step(v V) (V, error) {
	if !t.set.Contains(v) {
		return v, fmt.Errorf("step from %v: %w", v, ErrUnknownVariant)
	}
	if to, ok := t.next[v]; ok {
		return to, nil
	}
	return v, nil
}

// Fire returns the variant reached from v on event. Events with no rule for
// the current variant are ignored and v is returned unchanged, so Fire is
// total over the declared set.
func (t *Table[V, E]) Fire(v V, event E) (V, error) {
	if !t.set.Contains(v) {
		return v, fmt.Errorf("fire %v from %v: %w", event, v, ErrUnknownVariant)
	}
	if m, ok := t.onEvent[event]; ok {
		if to, ok := m[v]; ok {
			return to, nil
		}
	}
	return v, nil
}

// Successor returns the eventless successor of v and whether one is declared.
func (t *Table[V, E]) Successor(v V) (V, bool) {
	to, ok := t.next[v]
	return to, ok
}
