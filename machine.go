package variantx

import "fmt"

// Rule describes one event-driven transition: when Event arrives while the
// machine holds From, and Guard (if any) passes, Apply computes the next
// value from the current one. Rules are evaluated in declaration order and
// the first match wins.
type Rule[V comparable, E comparable, P any] struct {
	Event E
	From  V
	Guard func(Value[V, P]) bool
	Apply func(Value[V, P]) Value[V, P]
}

// Machine is a stateful instance over a variant set: a current Value plus an
// ordered rule list and an optional transition table as fallback. The held
// Value is immutable; Send and Step replace it wholesale.
//
// Machine is not safe for concurrent use; wrap it in runtime.Runtime for a
// queued, goroutine-safe front end.
type Machine[V comparable, E comparable, P any] struct {
	set     *Set[V]
	table   *Table[V, E]
	rules   []Rule[V, E, P]
	initial Value[V, P]
	current Value[V, P]
}

// NewMachine creates a machine over set holding initial.
func NewMachine[V comparable, E comparable, P any](set *Set[V], initial Value[V, P]) (*Machine[V, E, P], error) {
	if !set.Contains(initial.Tag()) {
		return nil, fmt.Errorf("initial %v: %w", initial.Tag(), ErrUnknownVariant)
	}
	return &Machine[V, E, P]{set: set, initial: initial, current: initial}, nil
}

// WithTable installs a transition table consulted when no rule matches an
// event, and used by Step.
func (m *Machine[V, E, P]) WithTable(t *Table[V, E]) *Machine[V, E, P] {
	m.table = t
	return m
}

// AddRule appends an event rule. Rules are matched in the order added.
func (m *Machine[V, E, P]) AddRule(r Rule[V, E, P]) error {
	if !m.set.Contains(r.From) {
		return fmt.Errorf("rule from %v: %w", r.From, ErrUnknownVariant)
	}
	if r.Apply == nil {
		return fmt.Errorf("rule from %v: %w", r.From, ErrNilApply)
	}
	m.rules = append(m.rules, r)
	return nil
}

// Current returns the value the machine holds.
func (m *Machine[V, E, P]) Current() Value[V, P] {
	return m.current
}

// Set returns the machine's variant set.
func (m *Machine[V, E, P]) Set() *Set[V] {
	return m.set
}

// Send applies event to the current value and returns the new one. The first
// rule matching (event, current tag, guard) wins; otherwise the table fires;
// otherwise the machine stays put. Send never fails for values produced by
// this machine; the only error source is a rule Apply returning a tag
// outside the set, which is a modeling bug and rejected before the value is
// installed.
func (m *Machine[V, E, P]) Send(event E) (Value[V, P], error) {
	for _, r := range m.rules {
		if r.Event != event || r.From != m.current.Tag() {
			continue
		}
		if r.Guard != nil && !r.Guard(m.current) {
			continue
		}
		next := r.Apply(m.current)
		if !m.set.Contains(next.Tag()) {
			return m.current, fmt.Errorf("rule for %v produced %v: %w", event, next.Tag(), ErrUnknownVariant)
		}
		m.current = next
		return m.current, nil
	}
	if m.table != nil {
		tag, err := m.table.Fire(m.current.Tag(), event)
		if err != nil {
			return m.current, err
		}
		if tag != m.current.Tag() {
			// Table transitions carry no payload.
			m.current = NewValue[V, P](tag)
		}
		return m.current, nil
	}
	return m.current, nil
}

// Step advances along the table's eventless successor relation. Variants
// without a successor (or a machine without a table) stay in place.
func (m *Machine[V, E, P]) Step() (Value[V, P], error) {
	if m.table == nil {
		return m.current, nil
	}
	tag, err := m.table.Step(m.current.Tag())
	if err != nil {
		return m.current, err
	}
	if tag != m.current.Tag() {
		m.current = NewValue[V, P](tag)
	}
	return m.current, nil
}

// Reset returns the machine to its initial value.
func (m *Machine[V, E, P]) Reset() {
	m.current = m.initial
}

// Restore replaces the current value, validating the tag against the set.
// Used when rehydrating a machine from a persisted snapshot.
func (m *Machine[V, E, P]) Restore(v Value[V, P]) error {
	if !m.set.Contains(v.Tag()) {
		return fmt.Errorf("restore %v: %w", v.Tag(), ErrUnknownVariant)
	}
	m.current = v
	return nil
}
