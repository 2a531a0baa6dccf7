package power

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/powerring/internal/anim"
	"github.com/coreman2200/powerring/internal/geometry"
	"github.com/coreman2200/powerring/internal/render"
)

const frame = 16.0

type change struct {
	From, To State
	Applied  bool
}

type ended struct{ From, To State }

type events struct {
	changes []change
	ended   []ended
}

func (e *events) AnimationEnded(from, to State) { e.ended = append(e.ended, ended{from, to}) }

func (e *events) StateChanged(from, to State, applied bool) {
	e.changes = append(e.changes, change{from, to, applied})
}

func (e *events) reset() { e.changes, e.ended = nil, nil }

func newView(t *testing.T, mutate func(*Config)) (*View, *anim.Timeline, *events) {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	tl := anim.NewTimeline()
	v := New(cfg, tl)
	ev := &events{}
	v.AddListener(ev)
	return v, tl, ev
}

func run(tl *anim.Timeline, ms float64) {
	for elapsed := 0.0; elapsed < ms; elapsed += frame {
		tl.Advance(frame)
	}
}

// settle advances until nothing is scheduled.
func settle(t *testing.T, tl *anim.Timeline) {
	t.Helper()
	for i := 0; i < 5000; i++ {
		if tl.Active() == 0 {
			return
		}
		tl.Advance(frame)
	}
	t.Fatalf("timeline still has %d handles", tl.Active())
}

// until advances frame by frame until cond holds.
func until(t *testing.T, tl *anim.Timeline, cond func() bool) {
	t.Helper()
	for i := 0; i < 5000; i++ {
		if cond() {
			return
		}
		tl.Advance(frame)
	}
	t.Fatalf("condition never held")
}

func restingPower(lay geometry.Layout) Scene {
	sc := Scene{InnerAlpha: 255}
	sc.rest(InnerPower, lay)
	return sc
}

func TestResolve(t *testing.T) {
	cases := []struct {
		from, to State
		want     transition
	}{
		{Hidden, Power, reveal},
		{Hidden, Reloading, reveal},
		{Hidden, Succeed, revealSucceed},
		{Hidden, Loading, snapTo},
		{Power, Reloading, reload},
		{Succeed, Reloading, reload},
		{Loading, Reloading, reload},
		{Reloading, Reloading, reload},
		{Power, Loading, powerToLoading},
		{Power, Succeed, powerToSucceed},
		{Loading, Loading, loopAgain},
		{Loading, Power, loadingToPower},
		{Loading, Succeed, loadingToSucceed},
		{Succeed, Power, succeedToPower},
		{Power, Hidden, hide},
		{Loading, Hidden, hide},
		{Hidden, Hidden, hide},
		{Power, Power, snapTo},
		{Succeed, Succeed, snapTo},
		{Succeed, Loading, snapTo},
		{Reloading, Power, snapTo},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, resolve(c.from, c.to), "%v -> %v", c.from, c.to)
	}

	assert.Equal(t, Power, snapTarget(Loading))
	assert.Equal(t, Power, snapTarget(Reloading))
	assert.Equal(t, Succeed, snapTarget(Succeed))
	assert.Equal(t, Hidden, snapTarget(Hidden))
}

func TestAttachRevealsPower(t *testing.T) {
	v, tl, ev := newView(t, nil)
	require.Equal(t, Hidden, v.CurrentState())

	v.Attach()
	assert.Equal(t, Power, v.CurrentState())
	assert.True(t, v.Running())

	run(tl, 200)
	sc := v.Scene()
	assert.InDelta(t, 0, sc.Ring.Start, 1e-9)
	assert.Greater(t, sc.Ring.End, 10.0)

	settle(t, tl)
	assert.False(t, v.Running())
	assert.Equal(t, 0, v.ActiveHandles())
	if diff := cmp.Diff(restingPower(v.Layout()), v.Scene()); diff != "" {
		t.Fatalf("resting scene mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []change{{Hidden, Power, true}}, ev.changes)
	assert.Equal(t, []ended{{Power, Power}}, ev.ended)
}

func TestAttachWithoutFirstAnimationSnaps(t *testing.T) {
	v, tl, ev := newView(t, func(c *Config) { c.FirstAnimation = false })
	// a non-hidden initial state would already be applied by New
	require.Equal(t, Hidden, v.CurrentState())

	v.Attach()
	assert.Equal(t, Power, v.CurrentState())
	assert.False(t, v.Running())
	assert.Equal(t, 0, tl.Active())
	assert.Equal(t, []change{{Hidden, Power, true}}, ev.changes)
}

func TestAttachRespectsAutoStart(t *testing.T) {
	v, tl, _ := newView(t, func(c *Config) { c.AutoStart = false })
	v.Attach()
	assert.Equal(t, Hidden, v.CurrentState())
	assert.Equal(t, 0, tl.Active())
}

func TestRevealSucceed(t *testing.T) {
	v, tl, ev := newView(t, func(c *Config) { c.State = Succeed })
	require.Equal(t, InnerSuccess, v.InnerState())

	v.Attach()
	assert.Equal(t, Succeed, v.CurrentState())
	settle(t, tl)

	lay := v.Layout()
	sc := v.Scene()
	require.NotNil(t, sc.Line1)
	require.NotNil(t, sc.Line2)
	assert.Equal(t, lay.Success1, *sc.Line1)
	assert.Equal(t, lay.Success2, *sc.Line2)
	assert.Equal(t, InnerSuccess, v.InnerState())
	assert.Equal(t, []ended{{Succeed, Succeed}}, ev.ended)
}

func TestInitialLoadingStartsImmediately(t *testing.T) {
	v, tl, _ := newView(t, func(c *Config) { c.State = Loading })
	assert.Equal(t, Loading, v.CurrentState())
	assert.True(t, v.Running())
	assert.Greater(t, tl.Active(), 0)
}

func TestLoadingLoopsUntilAsked(t *testing.T) {
	v, tl, ev := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()
	ev.reset()

	v.RequestState(Loading, true)
	assert.Equal(t, Loading, v.CurrentState())
	assert.Equal(t, []change{{Power, Loading, true}}, ev.changes)

	run(tl, 200)
	assert.Nil(t, v.Scene().Line1, "power line hides while loading")

	until(t, tl, func() bool { return len(ev.ended) >= 3 })
	for _, e := range ev.ended {
		assert.Equal(t, ended{Loading, Loading}, e)
	}
	assert.Equal(t, Loading, v.CurrentState())
	assert.Len(t, ev.changes, 1)
}

func TestRequestDuringLapIsQueued(t *testing.T) {
	v, tl, ev := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()
	v.RequestState(Loading, true)
	run(tl, 100)
	ev.reset()

	v.RequestState(Succeed, true)
	assert.Equal(t, Loading, v.CurrentState())
	pending, ok := v.PendingState()
	require.True(t, ok)
	assert.Equal(t, Succeed, pending)
	assert.Equal(t, []change{{Loading, Succeed, false}}, ev.changes)

	// repeating the queued target is a no-op
	v.RequestState(Succeed, true)
	assert.Len(t, ev.changes, 1)

	settle(t, tl)
	assert.Equal(t, Succeed, v.CurrentState())
	assert.Equal(t, InnerSuccess, v.InnerState())
	_, ok = v.PendingState()
	assert.False(t, ok)
	assert.Equal(t, []ended{{Loading, Succeed}, {Succeed, Succeed}}, ev.ended)
	assert.Contains(t, ev.changes, change{Loading, Succeed, true})

	sc := v.Scene()
	require.NotNil(t, sc.Line2)
	assert.Equal(t, v.Layout().Success2, *sc.Line2)
}

func TestLatestQueuedTargetWins(t *testing.T) {
	v, tl, _ := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()
	v.RequestState(Loading, true)
	run(tl, 100)

	v.RequestState(Succeed, true)
	v.RequestState(Power, true)
	pending, _ := v.PendingState()
	assert.Equal(t, Power, pending)

	settle(t, tl)
	assert.Equal(t, Power, v.CurrentState())
	if diff := cmp.Diff(restingPower(v.Layout()), v.Scene()); diff != "" {
		t.Fatalf("resting scene mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestDuringLoopDelayAppliesAtOnce(t *testing.T) {
	v, tl, ev := newView(t, func(c *Config) {
		c.FirstAnimation = false
		c.Delay = 200 * time.Millisecond
	})
	v.Attach()
	v.RequestState(Loading, true)
	until(t, tl, func() bool { return len(ev.ended) == 1 })
	require.False(t, v.Running(), "the loop delay is idle")
	ev.reset()

	v.RequestState(Power, true)
	assert.True(t, v.Running())
	assert.Equal(t, Power, v.CurrentState())
	assert.Equal(t, []change{{Loading, Power, true}}, ev.changes)

	settle(t, tl)
	sc := v.Scene()
	require.NotNil(t, sc.Line1)
	assert.Equal(t, v.Layout().Power, *sc.Line1)
	assert.Equal(t, []ended{{Power, Power}}, ev.ended)
}

func TestLoadingToPowerWithoutInnerView(t *testing.T) {
	v, tl, ev := newView(t, func(c *Config) {
		c.FirstAnimation = false
		c.InnerView = false
	})
	v.Attach()
	v.RequestState(Loading, true)
	until(t, tl, func() bool { return len(ev.ended) == 1 })

	v.RequestState(Power, true)
	settle(t, tl)
	assert.Equal(t, Power, v.CurrentState())
	assert.False(t, v.Running())
}

func TestReloadHandsOffToPower(t *testing.T) {
	v, tl, ev := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()
	ev.reset()

	v.RequestState(Reloading, true)
	assert.Equal(t, Reloading, v.CurrentState())
	settle(t, tl)

	assert.Equal(t, Power, v.CurrentState())
	assert.Equal(t, []change{{Power, Reloading, true}, {Reloading, Power, true}}, ev.changes)
	assert.Equal(t, []ended{{Reloading, Power}}, ev.ended)
	sc := v.Scene()
	assert.Equal(t, 0.0, sc.Ring.Start)
	assert.Equal(t, 360.0, sc.Ring.End)
}

func TestReloadHonorsQueuedTarget(t *testing.T) {
	v, tl, ev := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()
	v.RequestState(Reloading, true)
	run(tl, 100)
	v.RequestState(Loading, true)

	until(t, tl, func() bool { return len(ev.ended) == 1 })
	assert.Equal(t, ended{Reloading, Loading}, ev.ended[0])
	assert.Equal(t, Loading, v.CurrentState())
	assert.True(t, v.Running())
}

func TestSucceedBackToPower(t *testing.T) {
	v, tl, ev := newView(t, nil)
	v.RequestState(Succeed, false)
	ev.reset()

	v.RequestState(Power, true)
	assert.Equal(t, Power, v.CurrentState())

	var sawCrossing bool
	for i := 0; i < 5000 && tl.Active() > 0; i++ {
		tl.Advance(frame)
		sc := v.Scene()
		if sc.InnerStart > 0 && sc.InnerStart < innerRestStart && sc.Line1 != nil {
			sawCrossing = true
		}
	}
	assert.True(t, sawCrossing, "power line regrows while the inner arc returns")
	assert.Equal(t, InnerPower, v.InnerState())
	if diff := cmp.Diff(restingPower(v.Layout()), v.Scene()); diff != "" {
		t.Fatalf("resting scene mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []ended{{Power, Power}}, ev.ended)
}

func TestSnapIsIdempotent(t *testing.T) {
	v, tl, ev := newView(t, nil)
	v.RequestState(Succeed, false)
	first := v.Scene()
	v.RequestState(Succeed, false)
	if diff := cmp.Diff(first, v.Scene()); diff != "" {
		t.Fatalf("second snap changed the scene:\n%s", diff)
	}
	assert.Equal(t, []change{{Hidden, Succeed, true}}, ev.changes)
	assert.Equal(t, 0, tl.Active())
}

func TestSnapLoadingStartsLoop(t *testing.T) {
	v, _, ev := newView(t, nil)
	v.RequestState(Loading, false)
	assert.Equal(t, Loading, v.CurrentState())
	assert.True(t, v.Running())
	assert.Equal(t, []change{{Hidden, Power, true}, {Power, Loading, true}}, ev.changes)
}

func TestPreemptionCancelsEverything(t *testing.T) {
	v, tl, ev := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()
	v.RequestState(Loading, true)
	run(tl, 300)
	require.Greater(t, v.ActiveHandles(), 0)
	ev.reset()

	v.RequestState(Hidden, false)
	assert.Equal(t, Hidden, v.CurrentState())
	assert.False(t, v.Running())
	assert.Equal(t, 0, v.ActiveHandles())
	assert.Equal(t, 0, tl.Active())

	frozen := v.Scene()
	assert.Equal(t, Scene{InnerAlpha: 255}, frozen)
	run(tl, 2000)
	if diff := cmp.Diff(frozen, v.Scene()); diff != "" {
		t.Fatalf("cancelled animation kept writing:\n%s", diff)
	}
	assert.Empty(t, ev.ended)
	assert.Equal(t, []change{{Loading, Hidden, true}}, ev.changes)
}

func TestAnimatedHiddenSnaps(t *testing.T) {
	v, tl, ev := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()
	ev.reset()

	v.RequestState(Hidden, true)
	assert.Equal(t, Hidden, v.CurrentState())
	assert.Equal(t, 0, tl.Active())
	assert.Equal(t, []change{{Power, Hidden, true}}, ev.changes)
}

func TestDetachAndVisibility(t *testing.T) {
	v, tl, _ := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()
	v.RequestState(Loading, true)
	run(tl, 100)

	v.SetVisible(false)
	assert.Equal(t, 0, tl.Active())
	assert.Equal(t, Loading, v.CurrentState())

	v.SetVisible(true)
	assert.True(t, v.Running())
	assert.Equal(t, Loading, v.CurrentState())

	v.Detach()
	assert.Equal(t, 0, tl.Active())
	assert.False(t, v.Running())
}

func TestReset(t *testing.T) {
	v, tl, _ := newView(t, nil)
	v.Attach()
	run(tl, 100)
	v.Reset()
	assert.Equal(t, Hidden, v.CurrentState())
	assert.Equal(t, 0, tl.Active())
}

func TestHiddenSnapRestoresPowerIcon(t *testing.T) {
	v, tl, _ := newView(t, nil)
	v.RequestState(Succeed, false)
	require.Equal(t, InnerSuccess, v.InnerState())

	v.RequestState(Hidden, false)
	assert.Equal(t, InnerPower, v.InnerState())

	v.RequestState(Power, true)
	until(t, tl, func() bool { return v.Scene().Line1 != nil })
	lay := v.Layout()
	sc := v.Scene()
	assert.Nil(t, sc.Line2, "no second checkmark stroke")
	assert.Equal(t, innerRestStart, sc.InnerStart)
	assert.Equal(t, lay.Power.StartX, sc.Line1.StartX)
	assert.Equal(t, lay.Power.StartY, sc.Line1.StartY)

	settle(t, tl)
	if diff := cmp.Diff(restingPower(lay), v.Scene()); diff != "" {
		t.Fatalf("resting scene mismatch (-want +got):\n%s", diff)
	}
}

func TestResetAfterSucceedAttachesToPower(t *testing.T) {
	v, _, ev := newView(t, nil)
	v.RequestState(Succeed, false)
	v.Reset()
	assert.Equal(t, InnerPower, v.InnerState())

	ev.reset()
	v.Attach()
	assert.Equal(t, Power, v.CurrentState())
	assert.Equal(t, []change{{Hidden, Power, true}}, ev.changes)
}

func TestDetachMidRevealRests(t *testing.T) {
	v, tl, _ := newView(t, nil)
	v.Attach()
	run(tl, 200)
	require.True(t, v.Running())

	v.Detach()
	assert.Equal(t, 0, tl.Active())
	assert.False(t, v.Running())
	assert.Equal(t, Power, v.CurrentState())
	if diff := cmp.Diff(restingPower(v.Layout()), v.Scene()); diff != "" {
		t.Fatalf("resting scene mismatch (-want +got):\n%s", diff)
	}

	v.Attach()
	run(tl, 500)
	assert.Equal(t, 0, tl.Active())
	assert.Equal(t, 360.0, v.Scene().Ring.Sweep())
}

func TestDetachWhileLoadingResumesLoop(t *testing.T) {
	v, tl, ev := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()
	v.RequestState(Loading, true)
	run(tl, 100)

	v.Detach()
	assert.Equal(t, Loading, v.CurrentState())
	assert.False(t, v.Running())
	assert.Equal(t, 0, tl.Active())
	if diff := cmp.Diff(restingPower(v.Layout()), v.Scene()); diff != "" {
		t.Fatalf("resting scene mismatch (-want +got):\n%s", diff)
	}

	ev.reset()
	v.Attach()
	assert.True(t, v.Running())
	until(t, tl, func() bool { return len(ev.ended) >= 2 })
	for _, e := range ev.ended {
		assert.Equal(t, ended{Loading, Loading}, e)
	}
	assert.Empty(t, ev.changes)
}

func TestDetachKeepsQueuedTarget(t *testing.T) {
	v, tl, ev := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()
	v.RequestState(Loading, true)
	run(tl, 100)
	v.RequestState(Succeed, true)

	v.Detach()
	got, ok := v.PendingState()
	require.True(t, ok)
	assert.Equal(t, Succeed, got)

	ev.reset()
	v.Attach()
	assert.Equal(t, Succeed, v.CurrentState())
	assert.Equal(t, []change{{Loading, Succeed, true}}, ev.changes)
	settle(t, tl)
	assert.Equal(t, InnerSuccess, v.InnerState())
}

func TestRemoveListener(t *testing.T) {
	v, _, ev := newView(t, nil)
	var calls int
	remove := v.AddListener(ListenerFuncs{OnStateChanged: func(State, State, bool) { calls++ }})
	v.RequestState(Power, false)
	remove()
	v.RequestState(Succeed, false)
	assert.Equal(t, 1, calls)
	assert.Len(t, ev.changes, 2)
}

func TestGeometryChangesWaitForIdle(t *testing.T) {
	v, tl, _ := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()

	v.SetThickness(10)
	assert.Equal(t, 10.0, v.Layout().Thickness, "idle views relayout at once")

	v.RequestState(Loading, true)
	run(tl, 100)
	v.SetDensity(2)
	assert.Equal(t, 1.0, v.Layout().Density)

	v.RequestState(Power, false)
	assert.Equal(t, 2.0, v.Layout().Density)
}

func TestResize(t *testing.T) {
	v, _, _ := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()
	v.Resize(120)
	assert.Equal(t, geometry.NewLayout(120, 4, 3, 1), v.Layout())
	sc := v.Scene()
	require.NotNil(t, sc.Line1)
	assert.Equal(t, v.Layout().Power, *sc.Line1)
}

func TestSettersClampDurations(t *testing.T) {
	v, _, _ := newView(t, func(c *Config) { c.ShowDuration = 0 })
	assert.Equal(t, time.Millisecond, v.Config().ShowDuration)

	v.SetDelay(-time.Second)
	assert.Equal(t, time.Duration(0), v.Config().Delay)
	v.SetIndeterminateDuration(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, v.Config().IndeterminateDuration)
}

func TestDraw(t *testing.T) {
	v, _, _ := newView(t, nil)
	rec := &render.Recorder{}
	v.Draw(rec)
	assert.Empty(t, rec.Commands, "hidden draws nothing")

	v.RequestState(Power, false)
	v.Draw(rec)
	arcs := rec.Ops(render.OpArc)
	lines := rec.Ops(render.OpLine)
	require.Len(t, arcs, 5)
	require.Len(t, lines, 1)

	lay := v.Layout()
	ring := arcs[3]
	assert.Equal(t, lay.Bounds, *ring.Oval)
	assert.Equal(t, -90.0, ring.Start)
	assert.Equal(t, 360.0, ring.Sweep)
	assert.Equal(t, render.Stroke{Color: DefaultConfig().Color, Width: 4, Alpha: 255}, ring.Stroke)

	assert.Equal(t, uint8(60), arcs[0].Stroke.Alpha)
	assert.Equal(t, 1.0, arcs[0].Stroke.Width)

	inner := arcs[4]
	assert.Equal(t, lay.Inner, *inner.Oval)
	assert.Equal(t, innerRestStart-90, inner.Start)
	assert.Equal(t, innerRestEnd-innerRestStart, inner.Sweep)
	assert.Equal(t, lay.Power, *lines[0].Line)
}

func TestDrawWithoutInnerView(t *testing.T) {
	v, _, _ := newView(t, func(c *Config) { c.InnerView = false })
	v.RequestState(Succeed, false)
	rec := &render.Recorder{}
	v.Draw(rec)
	assert.Len(t, rec.Ops(render.OpArc), 4)
	assert.Empty(t, rec.Ops(render.OpLine))
}

func TestColorReachesNextIdleDraw(t *testing.T) {
	v, tl, _ := newView(t, func(c *Config) { c.FirstAnimation = false })
	v.Attach()
	v.RequestState(Loading, true)
	run(tl, 50)

	red := render.RGB(255, 0, 0)
	v.SetColor(red)
	rec := &render.Recorder{}
	v.Draw(rec)
	assert.NotEqual(t, red, rec.Ops(render.OpArc)[3].Stroke.Color)

	v.RequestState(Power, false)
	rec.Reset()
	v.Draw(rec)
	assert.Equal(t, red, rec.Ops(render.OpArc)[3].Stroke.Color)
}
