package variantx_test

import (
	"errors"
	"testing"

	. "github.com/comalice/variantx"
)

func TestDispatchCoversEveryVariant(t *testing.T) {
	set := switchSet(t)
	d, err := NewDispatcher[switchState, string](set).
		Case(off, "power off").
		Case(low, "glowing dimly").
		Case(high, "full brightness").
		Build()
	if err != nil {
		t.Fatal(err)
	}

	// Enumerate the full set: every variant must have a defined result.
	for _, v := range set.Variants() {
		out, err := d.Dispatch(v)
		if err != nil {
			t.Fatalf("Dispatch(%v): %v", v, err)
		}
		if out == "" {
			t.Errorf("Dispatch(%v) returned empty result", v)
		}
	}
}

func TestDispatchBuildRejectsMissingCase(t *testing.T) {
	_, err := NewDispatcher[switchState, string](switchSet(t)).
		Case(off, "power off").
		Case(low, "glowing dimly").
		Build()
	if !errors.Is(err, ErrIncompleteDispatch) {
		t.Errorf("expected ErrIncompleteDispatch, got %v", err)
	}
}

func TestDispatchBuildRejectsForeignAndDuplicateCases(t *testing.T) {
	_, err := NewDispatcher[switchState, string](switchSet(t)).
		Case(switchState(9), "nine").
		Build()
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("foreign case: expected ErrUnknownVariant, got %v", err)
	}

	_, err = NewDispatcher[switchState, string](switchSet(t)).
		Case(off, "a").
		Case(off, "b").
		Build()
	if !errors.Is(err, ErrDuplicateCase) {
		t.Errorf("duplicate case: expected ErrDuplicateCase, got %v", err)
	}
}

func TestDispatchRejectsForeignTag(t *testing.T) {
	d, err := NewDispatcher[switchState, int](switchSet(t)).
		Case(off, 0).
		Case(low, 1).
		Case(high, 2).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Dispatch(switchState(9)); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

// Derive a capability flag from tag plus payload, in the style of a
// network-reachability status: only a reachable link with the right
// connection kind supports large transfers.
func TestFuncDispatchDerivesFromPayload(t *testing.T) {
	set := reachSet(t)
	canStream, err := NewFuncDispatcher[reach, string, bool](set).
		Case(unknown, func(string) bool { return false }).
		Case(notReachable, func(string) bool { return false }).
		Case(reachable, func(conn string) bool { return conn == "wifi" }).
		Build()
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		val  Value[reach, string]
		want bool
	}{
		{NewValue[reach, string](unknown), false},
		{NewValue[reach, string](notReachable), false},
		{NewValueWith(reachable, "cellular"), false},
		{NewValueWith(reachable, "wifi"), true},
	}
	for _, tc := range cases {
		got, err := canStream.Dispatch(tc.val)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("Dispatch(%v): expected %v, got %v", tc.val.Tag(), tc.want, got)
		}
	}
}

func TestFuncDispatchBuildRejectsNilCase(t *testing.T) {
	_, err := NewFuncDispatcher[reach, string, bool](reachSet(t)).
		Case(unknown, nil).
		Build()
	if !errors.Is(err, ErrNilApply) {
		t.Errorf("expected ErrNilApply, got %v", err)
	}
}
