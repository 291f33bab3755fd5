package variantx

import "fmt"

// Dispatcher maps every variant of a set to a value of type T. There is no
// default case; Build rejects a table that misses any variant, so adding a
// variant to a set forces every dispatcher over that set to be updated.
type Dispatcher[V comparable, T any] struct {
	set   *Set[V]
	cases map[V]T
}

// DispatcherBuilder accumulates per-variant cases.
type DispatcherBuilder[V comparable, T any] struct {
	set   *Set[V]
	cases map[V]T
	err   error
}

// NewDispatcher creates a builder for an exhaustive dispatch table over set.
func NewDispatcher[V comparable, T any](set *Set[V]) *DispatcherBuilder[V, T] {
	return &DispatcherBuilder[V, T]{set: set, cases: make(map[V]T)}
}

// Case assigns the result for a single variant.
func (b *DispatcherBuilder[V, T]) Case(v V, out T) *DispatcherBuilder[V, T] {
	if b.err != nil {
		return b
	}
	if !b.set.Contains(v) {
		b.err = fmt.Errorf("case %v: %w", v, ErrUnknownVariant)
		return b
	}
	if _, exists := b.cases[v]; exists {
		b.err = fmt.Errorf("case %v: %w", v, ErrDuplicateCase)
		return b
	}
	b.cases[v] = out
	return b
}

// Build verifies exhaustiveness and returns the dispatcher.
func (b *DispatcherBuilder[V, T]) Build() (*Dispatcher[V, T], error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, v := range b.set.Variants() {
		if _, ok := b.cases[v]; !ok {
			name, _ := b.set.Name(v)
			return nil, fmt.Errorf("variant %q has no case: %w", name, ErrIncompleteDispatch)
		}
	}
	return &Dispatcher[V, T]{set: b.set, cases: b.cases}, nil
}

// Dispatch returns the case result for v. After Build this is defined for
// every variant in the set; only foreign tags error.
func (d *Dispatcher[V, T]) Dispatch(v V) (T, error) {
	out, ok := d.cases[v]
	if !ok {
		var zero T
		return zero, fmt.Errorf("dispatch %v: %w", v, ErrUnknownVariant)
	}
	return out, nil
}

// FuncDispatcher maps every variant to a derivation function over the
// payload, for results that depend on the carried data rather than the tag
// alone. Exhaustiveness rules match Dispatcher.
type FuncDispatcher[V comparable, P, T any] struct {
	set   *Set[V]
	cases map[V]func(P) T
}

// FuncDispatcherBuilder accumulates per-variant derivation functions.
type FuncDispatcherBuilder[V comparable, P, T any] struct {
	set   *Set[V]
	cases map[V]func(P) T
	err   error
}

// NewFuncDispatcher creates a builder for a payload-aware dispatch table.
func NewFuncDispatcher[V comparable, P, T any](set *Set[V]) *FuncDispatcherBuilder[V, P, T] {
	return &FuncDispatcherBuilder[V, P, T]{set: set, cases: make(map[V]func(P) T)}
}

// Case assigns the derivation function for a single variant. Payloadless
// variants receive the zero payload value.
func (b *FuncDispatcherBuilder[V, P, T]) Case(v V, fn func(P) T) *FuncDispatcherBuilder[V, P, T] {
	if b.err != nil {
		return b
	}
	if !b.set.Contains(v) {
		b.err = fmt.Errorf("case %v: %w", v, ErrUnknownVariant)
		return b
	}
	if _, exists := b.cases[v]; exists {
		b.err = fmt.Errorf("case %v: %w", v, ErrDuplicateCase)
		return b
	}
	if fn == nil {
		b.err = fmt.Errorf("case %v: %w", v, ErrNilApply)
		return b
	}
	b.cases[v] = fn
	return b
}

// Build verifies exhaustiveness and returns the dispatcher.
func (b *FuncDispatcherBuilder[V, P, T]) Build() (*FuncDispatcher[V, P, T], error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, v := range b.set.Variants() {
		if _, ok := b.cases[v]; !ok {
			name, _ := b.set.Name(v)
			return nil, fmt.Errorf("variant %q has no case: %w", name, ErrIncompleteDispatch)
		}
	}
	return &FuncDispatcher[V, P, T]{set: b.set, cases: b.cases}, nil
}

// Dispatch derives a result from the value's tag and payload.
func (d *FuncDispatcher[V, P, T]) Dispatch(val Value[V, P]) (T, error) {
	fn, ok := d.cases[val.Tag()]
	if !ok {
		var zero T
		return zero, fmt.Errorf("dispatch %v: %w", val.Tag(), ErrUnknownVariant)
	}
	payload, _ := val.Payload()
	return fn(payload), nil
}
