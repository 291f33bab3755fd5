package variantx_test

import (
	"errors"
	"testing"

	. "github.com/comalice/variantx"
)

type playerState int

const (
	dead playerState = iota
	alive
)

const (
	increaseHeart = "increaseHeart"
	getAttacked   = "getAttacked"
)

func playerSet(t *testing.T) *Set[playerState] {
	t.Helper()
	s, err := NewSet[playerState]().
		Add(dead, "dead").
		Add(alive, "alive").
		Build()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// newPlayer builds the life-total machine: hearts ride along as payload, and
// the attack rules split on whether the last heart is being lost.
func newPlayer(t *testing.T) *Machine[playerState, string, int] {
	t.Helper()
	m, err := NewMachine[playerState, string, int](playerSet(t), NewValue[playerState, int](dead))
	if err != nil {
		t.Fatal(err)
	}

	rules := []Rule[playerState, string, int]{
		{
			Event: increaseHeart,
			From:  dead,
			Apply: func(Value[playerState, int]) Value[playerState, int] {
				return NewValueWith(alive, 1)
			},
		},
		{
			Event: increaseHeart,
			From:  alive,
			Apply: func(v Value[playerState, int]) Value[playerState, int] {
				hearts, _ := v.Payload()
				return NewValueWith(alive, hearts+1)
			},
		},
		{
			Event: getAttacked,
			From:  alive,
			Guard: func(v Value[playerState, int]) bool {
				hearts, _ := v.Payload()
				return hearts <= 1
			},
			Apply: func(Value[playerState, int]) Value[playerState, int] {
				return NewValue[playerState, int](dead)
			},
		},
		{
			Event: getAttacked,
			From:  alive,
			Apply: func(v Value[playerState, int]) Value[playerState, int] {
				hearts, _ := v.Payload()
				return NewValueWith(alive, hearts-1)
			},
		},
	}
	for _, r := range rules {
		if err := m.AddRule(r); err != nil {
			t.Fatal(err)
		}
	}
	return m
}

func hearts(t *testing.T, v Value[playerState, int]) int {
	t.Helper()
	n, ok := v.Payload()
	if !ok {
		t.Fatal("expected heart payload")
	}
	return n
}

func TestPlayerLifecycle(t *testing.T) {
	m := newPlayer(t)

	v, err := m.Send(increaseHeart)
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag() != alive || hearts(t, v) != 1 {
		t.Fatalf("after first increaseHeart: expected Alive(1), got %v(%d)", v.Tag(), hearts(t, v))
	}

	v, _ = m.Send(increaseHeart)
	if v.Tag() != alive || hearts(t, v) != 2 {
		t.Fatalf("after second increaseHeart: expected Alive(2)")
	}

	v, _ = m.Send(getAttacked)
	if v.Tag() != alive || hearts(t, v) != 1 {
		t.Fatalf("after first getAttacked: expected Alive(1)")
	}

	v, _ = m.Send(getAttacked)
	if v.Tag() != dead {
		t.Fatalf("after second getAttacked: expected Dead, got %v", v.Tag())
	}
	if _, ok := v.Payload(); ok {
		t.Error("dead player should carry no hearts")
	}
}

// Events with no matching rule leave the machine where it is.
func TestMachineIgnoresUnmatchedEvent(t *testing.T) {
	m := newPlayer(t)

	v, err := m.Send(getAttacked) // dead player, no rule
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag() != dead {
		t.Errorf("expected still dead, got %v", v.Tag())
	}
}

func TestMachineFallsBackToTable(t *testing.T) {
	set := switchSet(t)
	tbl, err := NewTable[switchState, string](set).
		On("toggle", off, low).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMachine[switchState, string, any](set, NewValue[switchState, any](off))
	if err != nil {
		t.Fatal(err)
	}
	m.WithTable(tbl)

	v, err := m.Send("toggle")
	if err != nil {
		t.Fatal(err)
	}
	if v.Tag() != low {
		t.Errorf("expected table to fire off -> low, got %v", v.Tag())
	}
}

func TestMachineStepCyclesTriState(t *testing.T) {
	set := switchSet(t)
	m, err := NewMachine[switchState, string, any](set, NewValue[switchState, any](off))
	if err != nil {
		t.Fatal(err)
	}
	m.WithTable(switchTable(t))

	want := []switchState{low, high, off}
	for i, expected := range want {
		v, err := m.Step()
		if err != nil {
			t.Fatal(err)
		}
		if v.Tag() != expected {
			t.Fatalf("step %d: expected %v, got %v", i+1, expected, v.Tag())
		}
	}
}

func TestMachineRejectsForeignInitial(t *testing.T) {
	_, err := NewMachine[playerState, string, int](playerSet(t), NewValue[playerState, int](playerState(5)))
	if !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}

func TestMachineRejectsRuleProducingForeignTag(t *testing.T) {
	m, err := NewMachine[playerState, string, int](playerSet(t), NewValue[playerState, int](dead))
	if err != nil {
		t.Fatal(err)
	}
	err = m.AddRule(Rule[playerState, string, int]{
		Event: "corrupt",
		From:  dead,
		Apply: func(Value[playerState, int]) Value[playerState, int] {
			return NewValue[playerState, int](playerState(42))
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Send("corrupt"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
	if m.Current().Tag() != dead {
		t.Error("failed rule must not install the bad value")
	}
}

func TestMachineResetAndRestore(t *testing.T) {
	m := newPlayer(t)

	m.Send(increaseHeart)
	m.Reset()
	if m.Current().Tag() != dead {
		t.Errorf("expected reset to dead, got %v", m.Current().Tag())
	}

	if err := m.Restore(NewValueWith(alive, 3)); err != nil {
		t.Fatal(err)
	}
	if m.Current().Tag() != alive || hearts(t, m.Current()) != 3 {
		t.Error("restore should install Alive(3)")
	}

	if err := m.Restore(NewValue[playerState, int](playerState(9))); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("expected ErrUnknownVariant, got %v", err)
	}
}
