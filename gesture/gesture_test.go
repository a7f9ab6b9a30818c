package gesture

import (
	"testing"

	"github.com/hoshinonyaruko/snake-gesture/structs"
)

func pos(x, y int) *structs.Position {
	return &structs.Position{X: x, Y: y}
}

func TestSmootherMovingAverage(t *testing.T) {
	s := NewSmoother(5)
	for _, x := range []int{0, 10, 20, 30, 40} {
		s.Push(pos(x, 0))
	}
	got, ok := s.Estimate()
	if !ok || got != (structs.Position{X: 20, Y: 0}) {
		t.Fatalf("after five pushes Estimate() = %v,%v, want {20 0},true", got, ok)
	}

	s.Push(pos(50, 0))
	got, _ = s.Estimate()
	if got != (structs.Position{X: 30, Y: 0}) {
		t.Errorf("after eviction Estimate() = %v, want {30 0}", got)
	}
	if s.Len() != 5 {
		t.Errorf("Len() = %d, want 5", s.Len())
	}
}

func TestSmootherEmptyAndMissedDetections(t *testing.T) {
	s := NewSmoother(3)
	if _, ok := s.Estimate(); ok {
		t.Fatal("empty smoother should have no estimate")
	}

	s.Push(pos(9, 9))
	s.Push(nil)
	s.Push(nil)
	got, ok := s.Estimate()
	if !ok || got != (structs.Position{X: 9, Y: 9}) {
		t.Errorf("missed detections changed the estimate: %v,%v", got, ok)
	}

	s.Reset()
	if _, ok := s.Estimate(); ok {
		t.Error("Reset should clear the history")
	}
}

func TestSmootherTruncates(t *testing.T) {
	s := NewSmoother(2)
	s.Push(pos(1, -1))
	s.Push(pos(2, -2))
	got, _ := s.Estimate()
	// 1.5 -> 1, -1.5 -> -1
	if got != (structs.Position{X: 1, Y: -1}) {
		t.Errorf("Estimate() = %v, want {1 -1}", got)
	}
}

func TestSmootherWindowClamp(t *testing.T) {
	s := NewSmoother(0)
	s.Push(pos(1, 1))
	s.Push(pos(5, 5))
	got, _ := s.Estimate()
	if got != (structs.Position{X: 5, Y: 5}) {
		t.Errorf("window 0 should behave as 1, got %v", got)
	}
}

func TestIntent(t *testing.T) {
	const threshold = 30
	tr := NewTranslator(threshold)
	head := structs.Position{X: 100, Y: 100}

	tests := []struct {
		name   string
		dx, dy int
		want   structs.Direction
	}{
		{"inside band", 10, -10, structs.DirNone},
		{"boundary x exclusive", threshold, 0, structs.DirNone},
		{"boundary y exclusive", 0, -threshold, structs.DirNone},
		{"boundary both exclusive", threshold, threshold, structs.DirNone},
		{"just past x", threshold + 1, 0, structs.DirRight},
		{"just past y", 0, threshold + 1, structs.DirDown},
		{"left", -50, 10, structs.DirLeft},
		{"up", 10, -50, structs.DirUp},
		{"tie goes down", 40, 40, structs.DirDown},
		{"tie goes up", -40, -40, structs.DirUp},
	}
	for _, tc := range tests {
		hand := structs.Position{X: head.X + tc.dx, Y: head.Y + tc.dy}
		if got := tr.Intent(hand, head); got != tc.want {
			t.Errorf("%s: Intent(d=%d,%d) = %v, want %v", tc.name, tc.dx, tc.dy, got, tc.want)
		}
	}
}

func TestDebouncerHeldFist(t *testing.T) {
	d := NewDebouncer(30)
	var fired []int
	for tick := 1; tick <= 90; tick++ {
		if d.Update(true) {
			fired = append(fired, tick)
		}
	}
	want := []int{1, 31, 61}
	if len(fired) != len(want) {
		t.Fatalf("toggles at %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("toggle %d at tick %d, want %d", i, fired[i], want[i])
		}
	}
}

func TestDebouncerCooldownFloorsAndIgnoresFlag(t *testing.T) {
	d := NewDebouncer(3)
	if !d.Update(true) {
		t.Fatal("first fist should toggle")
	}
	if d.Update(true) || d.Update(false) {
		t.Fatal("flag must be ignored while cooling down")
	}
	if d.Cooldown() != 0 {
		t.Fatalf("Cooldown() = %d, want 0", d.Cooldown())
	}
	for i := 0; i < 5; i++ {
		if d.Update(false) {
			t.Fatal("open palm must not toggle")
		}
	}
	if d.Cooldown() != 0 {
		t.Errorf("cooldown went below zero: %d", d.Cooldown())
	}
	if !d.Update(true) {
		t.Error("fist after cooldown should toggle")
	}
}
