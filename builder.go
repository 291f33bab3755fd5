package variantx

import "fmt"

// Tag is the integer variant tag minted by MachineBuilder for string-named
// variants.
type Tag int

// MachineBuilder provides a fluent API for constructing machines using
// string-based variant names instead of manual tag declarations. Names are
// interned to sequential Tags deterministically, in first-mention order.
type MachineBuilder struct {
	nextTag Tag
	byName  map[string]Tag
	names   map[Tag]string
	order   []string
	initial string
	rings   [][]string
	events  []namedTransition
	err     error
}

type namedTransition struct {
	event string
	from  string
	to    string
}

// NewMachineBuilder creates a builder for a string-named machine.
func NewMachineBuilder() *MachineBuilder {
	return &MachineBuilder{
		byName: make(map[string]Tag),
		names:  make(map[Tag]string),
	}
}

// Variant registers a variant by name. Registering the same name twice is a
// no-op, so Ring and On may freely mention variants already declared.
func (b *MachineBuilder) Variant(name string) *MachineBuilder {
	if b.err != nil {
		return b
	}
	if name == "" {
		b.err = ErrEmptyName
		return b
	}
	b.intern(name)
	return b
}

// Variants registers several variants in order.
func (b *MachineBuilder) Variants(names ...string) *MachineBuilder {
	for _, n := range names {
		b.Variant(n)
	}
	return b
}

// Initial selects the starting variant. Defaults to the first declared
// variant when unset.
func (b *MachineBuilder) Initial(name string) *MachineBuilder {
	if b.err != nil {
		return b
	}
	b.Variant(name)
	b.initial = name
	return b
}

// Ring declares a self-advancing cycle over the named variants, registering
// any that are new.
func (b *MachineBuilder) Ring(names ...string) *MachineBuilder {
	if b.err != nil {
		return b
	}
	if len(names) < 2 {
		b.err = fmt.Errorf("ring needs at least two variants, got %d", len(names))
		return b
	}
	for _, n := range names {
		b.Variant(n)
	}
	b.rings = append(b.rings, names)
	return b
}

// On declares an event transition from -> to, registering endpoints that are
// new.
func (b *MachineBuilder) On(event, from, to string) *MachineBuilder {
	if b.err != nil {
		return b
	}
	if event == "" {
		b.err = fmt.Errorf("transition %s -> %s: event name cannot be empty", from, to)
		return b
	}
	b.Variant(from)
	b.Variant(to)
	b.events = append(b.events, namedTransition{event: event, from: from, to: to})
	return b
}

// Build assembles the Set, Table, and Machine. Payloads are untyped (any);
// use the generic constructors directly when typed payloads matter.
func (b *MachineBuilder) Build() (*Machine[Tag, string, any], error) {
	if b.err != nil {
		return nil, b.err
	}

	sb := NewSet[Tag]()
	for _, name := range b.order {
		sb.Add(b.byName[name], name)
	}
	set, err := sb.Build()
	if err != nil {
		return nil, err
	}

	tb := NewTable[Tag, string](set)
	for _, ring := range b.rings {
		tags := make([]Tag, len(ring))
		for i, n := range ring {
			tags[i] = b.byName[n]
		}
		tb.Ring(tags...)
	}
	for _, t := range b.events {
		tb.On(t.event, b.byName[t.from], b.byName[t.to])
	}
	table, err := tb.Build()
	if err != nil {
		return nil, err
	}

	initial := b.initial
	if initial == "" {
		initial = b.order[0]
	}
	m, err := NewMachine[Tag, string, any](set, NewValue[Tag, any](b.byName[initial]))
	if err != nil {
		return nil, err
	}
	return m.WithTable(table), nil
}

// TagOf returns the tag minted for a name, and whether the name was
// registered.
func (b *MachineBuilder) TagOf(name string) (Tag, bool) {
	t, ok := b.byName[name]
	return t, ok
}

// NameOf returns the name backing a minted tag. Empty when unknown.
func (b *MachineBuilder) NameOf(tag Tag) string {
	return b.names[tag]
}

// intern returns the existing tag for a name, or mints the next sequential
// tag. Deterministic for a fixed declaration order.
func (b *MachineBuilder) intern(name string) Tag {
	if t, ok := b.byName[name]; ok {
		return t
	}
	t := b.nextTag
	b.nextTag++
	b.byName[name] = t
	b.names[t] = name
	b.order = append(b.order, name)
	return t
}
