package variantx

import (
	"cmp"
	"fmt"

	"github.com/comalice/variantx/internal/ranges"
)

// Range maps the half-open interval [Lo, Hi) to a variant.
type Range[N cmp.Ordered, V comparable] struct {
	Lo      N
	Hi      N
	Variant V
}

// Classifier maps raw ordered inputs to variants via non-overlapping
// half-open ranges with a designated default. Classify is total and
// deterministic: every input resolves to exactly one variant and never
// errors.
type Classifier[N cmp.Ordered, V comparable] struct {
	set    *Set[V]
	ranges []Range[N, V]
	def    V
}

// ClassifierBuilder accumulates ranges for a Classifier.
type ClassifierBuilder[N cmp.Ordered, V comparable] struct {
	set    *Set[V]
	ranges []Range[N, V]
	def    V
	err    error
}

// NewClassifier creates a builder over set with def as the catch-all variant
// for inputs outside every range.
func NewClassifier[N cmp.Ordered, V comparable](set *Set[V], def V) *ClassifierBuilder[N, V] {
	b := &ClassifierBuilder[N, V]{set: set, def: def}
	if !set.Contains(def) {
		b.err = fmt.Errorf("default %v: %w", def, ErrUnknownVariant)
	}
	return b
}

// Range maps [lo, hi) to variant.
func (b *ClassifierBuilder[N, V]) Range(lo, hi N, variant V) *ClassifierBuilder[N, V] {
	if b.err != nil {
		return b
	}
	if !(ranges.Span[N]{Lo: lo, Hi: hi}).Valid() {
		b.err = fmt.Errorf("range [%v, %v): %w", lo, hi, ErrInvalidRange)
		return b
	}
	if !b.set.Contains(variant) {
		b.err = fmt.Errorf("range [%v, %v) -> %v: %w", lo, hi, variant, ErrUnknownVariant)
		return b
	}
	b.ranges = append(b.ranges, Range[N, V]{Lo: lo, Hi: hi, Variant: variant})
	return b
}

// Build validates that the ranges are pairwise disjoint and returns the
// classifier. Overlap would make classification order-dependent, so it is
// rejected outright rather than resolved by precedence.
func (b *ClassifierBuilder[N, V]) Build() (*Classifier[N, V], error) {
	if b.err != nil {
		return nil, b.err
	}
	spans := make([]ranges.Span[N], len(b.ranges))
	for i, r := range b.ranges {
		spans[i] = ranges.Span[N]{Lo: r.Lo, Hi: r.Hi}
	}
	if i, j, overlap := ranges.FirstOverlap(spans); overlap {
		return nil, fmt.Errorf("ranges [%v, %v) and [%v, %v): %w",
			spans[i].Lo, spans[i].Hi, spans[j].Lo, spans[j].Hi, ErrOverlappingRanges)
	}
	return &Classifier[N, V]{set: b.set, ranges: b.ranges, def: b.def}, nil
}

// Classify returns the variant whose range contains n, or the default when
// no range matches. Total and side-effect-free.
func (c *Classifier[N, V]) Classify(n N) V {
	for _, r := range c.ranges {
		if n >= r.Lo && n < r.Hi {
			return r.Variant
		}
	}
	return c.def
}

// Default returns the catch-all variant.
func (c *Classifier[N, V]) Default() V {
	return c.def
}

// Ranges returns the declared ranges in declaration order. The returned
// slice is a copy.
func (c *Classifier[N, V]) Ranges() []Range[N, V] {
	out := make([]Range[N, V], len(c.ranges))
	copy(out, c.ranges)
	return out
}
