package variantx_test

import (
	"errors"
	"testing"

	. "github.com/comalice/variantx"
)

type magnitude int

const (
	small magnitude = iota
	medium
	big
	weird
)

func magnitudeSet(t *testing.T) *Set[magnitude] {
	t.Helper()
	s, err := NewSet[magnitude]().
		Add(small, "small").
		Add(medium, "medium").
		Add(big, "big").
		Add(weird, "weird").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func magnitudeClassifier(t *testing.T) *Classifier[int, magnitude] {
	t.Helper()
	c, err := NewClassifier[int](magnitudeSet(t), weird).
		Range(0, 1000, small).
		Range(1000, 100000, medium).
		Range(100000, 1000000, big).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestClassifyMagnitudes(t *testing.T) {
	c := magnitudeClassifier(t)

	cases := []struct {
		in   int
		want magnitude
	}{
		{500, small},
		{34645, medium},
		{0, small},
		{999, small},
		{1000, medium},
		{100000, big},
		{999999, big},
		{1000000, weird},
		{-1, weird},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.in); got != tc.want {
			t.Errorf("Classify(%d): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

// Classification is deterministic: repeated calls agree, and every input
// resolves to a variant in the declared set.
func TestClassifyTotalAndDeterministic(t *testing.T) {
	c := magnitudeClassifier(t)
	s := magnitudeSet(t)

	for in := -2000; in < 2000000; in += 997 {
		first := c.Classify(in)
		if !s.Contains(first) {
			t.Fatalf("Classify(%d) produced tag outside the set: %v", in, first)
		}
		if again := c.Classify(in); again != first {
			t.Fatalf("Classify(%d) not deterministic: %v then %v", in, first, again)
		}
	}

	if c.Default() != weird {
		t.Errorf("expected default weird, got %v", c.Default())
	}
}

func TestClassifierRejectsOverlap(t *testing.T) {
	_, err := NewClassifier[int](magnitudeSet(t), weird).
		Range(0, 1000, small).
		Range(500, 2000, medium).
		Build()
	if !errors.Is(err, ErrOverlappingRanges) {
		t.Errorf("expected ErrOverlappingRanges, got %v", err)
	}
}

func TestClassifierRejectsInvalidRange(t *testing.T) {
	_, err := NewClassifier[int](magnitudeSet(t), weird).
		Range(1000, 1000, small).
		Build()
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestClassifierRejectsForeignTags(t *testing.T) {
	_, err := NewClassifier[int](magnitudeSet(t), magnitude(42)).Build()
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("foreign default: expected ErrUnknownVariant, got %v", err)
	}

	_, err = NewClassifier[int](magnitudeSet(t), weird).
		Range(0, 10, magnitude(42)).
		Build()
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("foreign range tag: expected ErrUnknownVariant, got %v", err)
	}
}
