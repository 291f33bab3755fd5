// Package ranges provides half-open interval helpers shared by the classifier
// and the config loader. Stdlib-only.
package ranges

import "cmp"

// Span is a half-open interval [Lo, Hi).
type Span[N cmp.Ordered] struct {
	Lo N
	Hi N
}

// Valid reports whether the span is non-empty (Lo < Hi).
func (s Span[N]) Valid() bool {
	return s.Lo < s.Hi
}

// Contains reports whether n falls inside [Lo, Hi).
func (s Span[N]) Contains(n N) bool {
	return s.Lo <= n && n < s.Hi
}

// Overlaps reports whether two spans share any point.
func Overlaps[N cmp.Ordered](a, b Span[N]) bool {
	return a.Lo < b.Hi && b.Lo < a.Hi
}

// FirstOverlap returns the indices of the first overlapping pair, in input
// order. ok is false when the spans are pairwise disjoint.
func FirstOverlap[N cmp.Ordered](spans []Span[N]) (i, j int, ok bool) {
	for a := 0; a < len(spans); a++ {
		for b := a + 1; b < len(spans); b++ {
			if Overlaps(spans[a], spans[b]) {
				return a, b, true
			}
		}
	}
	return 0, 0, false
}
