package search

import (
	"testing"

	"github.com/Slotov7/inteligencia-artificial-ufs/internal/estuary"
)

func TestTargetSetOps(t *testing.T) {
	s := FullSet(3)
	if s.Count() != 3 {
		t.Fatalf("FullSet(3).Count() = %d, want 3", s.Count())
	}
	for i := 0; i < 3; i++ {
		if !s.Has(i) {
			t.Errorf("FullSet(3).Has(%d) = false, want true", i)
		}
	}
	if s.Has(3) {
		t.Errorf("FullSet(3).Has(3) = true, want false")
	}

	s = s.Without(1)
	if s.Has(1) || s.Count() != 2 {
		t.Errorf("after Without(1): Has(1)=%v Count=%d", s.Has(1), s.Count())
	}
	if s.Without(1) != s {
		t.Errorf("Without is not idempotent")
	}
	s = s.With(1)
	if !s.Has(1) || s.Count() != 3 {
		t.Errorf("after With(1): Has(1)=%v Count=%d", s.Has(1), s.Count())
	}

	if !TargetSet(0).Empty() {
		t.Errorf("zero set not Empty")
	}
	if s.Empty() {
		t.Errorf("non-zero set reports Empty")
	}
}

func TestFullSetRange(t *testing.T) {
	tests := []struct {
		n     int
		count int
	}{
		{0, 0},
		{1, 1},
		{3, 3},
		{63, 63},
		{64, 64},
	}
	for _, tt := range tests {
		if got := FullSet(tt.n).Count(); got != tt.count {
			t.Errorf("FullSet(%d).Count() = %d, want %d", tt.n, got, tt.count)
		}
	}
}

func TestStateIsComparable(t *testing.T) {
	a := State{Pos: estuary.Position{X: 1, Y: 2}, Resource: 5, Pending: FullSet(2)}
	b := State{Pos: estuary.Position{X: 1, Y: 2}, Resource: 5, Pending: FullSet(2)}
	if a != b {
		t.Fatalf("identical states compare unequal")
	}
	seen := map[State]bool{a: true}
	if !seen[b] {
		t.Errorf("equal states do not collide as map keys")
	}
	c := b
	c.Pending = c.Pending.Without(0)
	if a == c {
		t.Errorf("states with different pending sets compare equal")
	}
}

func TestActionDelta(t *testing.T) {
	tests := []struct {
		a      Action
		dx, dy int
		move   bool
	}{
		{Collect, 0, 0, false},
		{North, 0, -1, true},
		{East, 1, 0, true},
		{South, 0, 1, true},
		{West, -1, 0, true},
	}
	for _, tt := range tests {
		dx, dy := tt.a.Delta()
		if dx != tt.dx || dy != tt.dy {
			t.Errorf("%s.Delta() = (%d,%d), want (%d,%d)", tt.a, dx, dy, tt.dx, tt.dy)
		}
		if tt.a.IsMove() != tt.move {
			t.Errorf("%s.IsMove() = %v, want %v", tt.a, tt.a.IsMove(), tt.move)
		}
	}
}

func TestActionString(t *testing.T) {
	if Collect.String() != "Collect" || West.String() != "West" {
		t.Errorf("Action.String() = %s, %s", Collect, West)
	}
}
