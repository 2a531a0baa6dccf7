package anim

import (
	"math"
	"testing"
)

func TestEasingCurves(t *testing.T) {
	if v := Linear.Apply(0.25); v != 0.25 {
		t.Fatalf("linear: expected 0.25, got %v", v)
	}
	if v := Decelerate.Apply(0.5); v != 0.75 {
		t.Fatalf("decelerate: expected 0.75 at half time, got %v", v)
	}
	if v := Decelerate.Apply(2); v != 1 {
		t.Fatalf("decelerate should clamp, got %v", v)
	}
	if v := Easing("bogus").Apply(0.3); v != 0.3 {
		t.Fatalf("unknown easing should be linear, got %v", v)
	}
}

func TestAnimateTicksAndCompletes(t *testing.T) {
	tl := NewTimeline()
	var ticks []Tick
	done := 0
	tl.Animate(100, Linear, func(tk Tick) { ticks = append(ticks, tk) }, func() { done++ })

	if len(ticks) != 1 || ticks[0].Elapsed != 0 {
		t.Fatalf("expected synchronous starting tick, got %#v", ticks)
	}
	tl.Advance(40)
	tl.Advance(40)
	if done != 0 {
		t.Fatalf("completed too early")
	}
	tl.Advance(40)
	if done != 1 {
		t.Fatalf("expected completion, got %d", done)
	}
	last := ticks[len(ticks)-1]
	if last.Elapsed != 100 || last.Fraction() != 1 {
		t.Fatalf("final tick must land exactly on the end, got %#v", last)
	}
	if tl.Active() != 0 {
		t.Fatalf("expected no active entries, got %d", tl.Active())
	}
	tl.Advance(50)
	if done != 1 {
		t.Fatalf("completion fired twice")
	}
}

func TestDecelerateValue(t *testing.T) {
	tl := NewTimeline()
	var last Tick
	tl.Animate(80, Decelerate, func(tk Tick) { last = tk }, nil)
	tl.Advance(40)
	if last.Elapsed != 40 || math.Abs(last.Value-60) > 1e-9 {
		t.Fatalf("expected elapsed 40 and eased 60, got %#v", last)
	}
}

func TestCancelIsSynchronous(t *testing.T) {
	tl := NewTimeline()
	ticks, done := 0, 0
	h := tl.Animate(50, Linear, func(Tick) { ticks++ }, func() { done++ })
	tl.Advance(10)
	h.Cancel()
	if h.Active() {
		t.Fatalf("handle still active after cancel")
	}
	before := ticks
	tl.Advance(100)
	if ticks != before || done != 0 {
		t.Fatalf("callbacks ran after cancel: ticks=%d done=%d", ticks, done)
	}
}

func TestCompletionCanCancelSibling(t *testing.T) {
	tl := NewTimeline()
	var second Handle
	secondDone := false
	tl.Animate(10, Linear, nil, func() { second.Cancel() })
	second = tl.Animate(10, Linear, nil, func() { secondDone = true })
	tl.Advance(10)
	if secondDone {
		t.Fatalf("cancelled sibling completed in the same tick")
	}
}

func TestWorkScheduledFromCompletionStartsNextTick(t *testing.T) {
	tl := NewTimeline()
	var order []string
	tl.Animate(10, Linear, nil, func() {
		order = append(order, "a")
		tl.Animate(10, Linear, func(tk Tick) {
			order = append(order, "b-tick")
		}, func() { order = append(order, "b") })
	})
	tl.Advance(10)
	if len(order) != 2 || order[1] != "b-tick" {
		t.Fatalf("unexpected order %v", order)
	}
	tl.Advance(10)
	if order[len(order)-1] != "b" {
		t.Fatalf("expected b to complete on the following tick, got %v", order)
	}
}

func TestAfterAndMinimumDuration(t *testing.T) {
	tl := NewTimeline()
	fired := false
	tl.After(30, func() { fired = true })
	tl.Advance(29)
	if fired {
		t.Fatalf("fired early")
	}
	tl.Advance(1)
	if !fired {
		t.Fatalf("expected delay to fire")
	}

	var last Tick
	tl.Animate(-5, Linear, func(tk Tick) { last = tk }, nil)
	if last.Duration != MinDuration {
		t.Fatalf("expected duration clamp to %v, got %v", MinDuration, last.Duration)
	}
}

func TestSetCancelAll(t *testing.T) {
	tl := NewTimeline()
	var s Set
	s.Add(tl.Animate(10, Linear, nil, nil))
	s.Add(tl.Animate(100, Linear, nil, nil))
	s.Add(tl.After(100, nil))
	tl.Advance(10)
	if n := s.Active(); n != 2 {
		t.Fatalf("expected 2 active, got %d", n)
	}
	if n := s.CancelAll(); n != 2 {
		t.Fatalf("expected 2 cancelled, got %d", n)
	}
	if s.Active() != 0 || tl.Active() != 0 {
		t.Fatalf("expected empty set and timeline, got %d / %d", s.Active(), tl.Active())
	}
}
