package variantx_test

import (
	"errors"
	"testing"

	. "github.com/comalice/variantx"
)

type reach int

const (
	unknown reach = iota
	notReachable
	reachable
)

func reachSet(t *testing.T) *Set[reach] {
	t.Helper()
	s, err := NewSet[reach]().
		Add(unknown, "unknown").
		Add(notReachable, "notReachable").
		Add(reachable, "reachable").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSetPreservesDeclarationOrder(t *testing.T) {
	s := reachSet(t)

	got := s.Variants()
	want := []reach{unknown, notReachable, reachable}
	if len(got) != len(want) {
		t.Fatalf("expected %d variants, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("variant %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if s.Len() != 3 {
		t.Errorf("expected Len 3, got %d", s.Len())
	}
}

func TestSetNameParseRoundTrip(t *testing.T) {
	s := reachSet(t)

	for _, v := range s.Variants() {
		name, err := s.Name(v)
		if err != nil {
			t.Fatalf("Name(%v): %v", v, err)
		}
		back, err := s.Parse(name)
		if err != nil {
			t.Fatalf("Parse(%q): %v", name, err)
		}
		if back != v {
			t.Errorf("round trip of %v via %q returned %v", v, name, back)
		}
	}
}

func TestSetRejectsUnknowns(t *testing.T) {
	s := reachSet(t)

	if s.Contains(reach(99)) {
		t.Error("Contains should reject a foreign tag")
	}
	if _, err := s.Name(reach(99)); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
	if _, err := s.Parse("wifi"); !errors.Is(err, ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}
}

func TestSetBuildFailures(t *testing.T) {
	if _, err := NewSet[reach]().Build(); !errors.Is(err, ErrEmptySet) {
		t.Errorf("empty set: expected ErrEmptySet, got %v", err)
	}

	_, err := NewSet[reach]().
		Add(unknown, "unknown").
		Add(unknown, "other").
		Build()
	if !errors.Is(err, ErrDuplicateVariant) {
		t.Errorf("duplicate tag: expected ErrDuplicateVariant, got %v", err)
	}

	_, err = NewSet[reach]().
		Add(unknown, "unknown").
		Add(reachable, "unknown").
		Build()
	if !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate name: expected ErrDuplicateName, got %v", err)
	}

	_, err = NewSet[reach]().Add(unknown, "").Build()
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name: expected ErrEmptyName, got %v", err)
	}
}
