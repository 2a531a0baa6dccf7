package anim

// Tick is delivered to an animation's update callback. Elapsed is the linear
// time since the animation started; Value is the same time passed through the
// animation's easing. Both are in ms and lie in [0, duration].
type Tick struct {
	Elapsed  float64
	Value    float64
	Duration float64
}

// Fraction is Elapsed normalized to [0,1].
func (t Tick) Fraction() float64 {
	if t.Duration <= 0 {
		return 1
	}
	return clamp01(t.Elapsed / t.Duration)
}

// Handle is one scheduled animation or delay.
type Handle interface {
	// Cancel stops the handle synchronously. No callback of a cancelled
	// handle runs afterwards.
	Cancel()
	Active() bool
}

// Scheduler is the timing boundary the widget animates through.
type Scheduler interface {
	Animate(durationMS float64, e Easing, onTick func(Tick), onDone func()) Handle
	After(delayMS float64, fn func()) Handle
}

// MinDuration is the shortest animation, in ms, the timeline accepts.
const MinDuration = 1.0

type entryState int

const (
	entryActive entryState = iota
	entryFinished
	entryCancelled
)

type entry struct {
	tl       *Timeline
	id       uint64
	duration float64
	elapsed  float64
	easing   Easing
	onTick   func(Tick)
	onDone   func()
	state    entryState
}

func (e *entry) Active() bool { return e.state == entryActive }

func (e *entry) Cancel() {
	if e.state != entryActive {
		return
	}
	e.state = entryCancelled
	e.tl.remove(e)
}

func (e *entry) tick() Tick {
	v := e.elapsed
	if e.duration > 0 {
		v = e.easing.Apply(e.elapsed/e.duration) * e.duration
	}
	return Tick{Elapsed: e.elapsed, Value: v, Duration: e.duration}
}

// Timeline is a manually advanced Scheduler. Advance updates every active
// animation in scheduling order, then runs the completions of those that
// reached their end, again in scheduling order. Work scheduled from inside a
// callback starts counting on the next Advance.
//
// Timeline is not safe for concurrent use; drive it from one goroutine.
type Timeline struct {
	now     float64
	nextID  uint64
	entries []*entry
}

func NewTimeline() *Timeline { return &Timeline{} }

// Now is the total time advanced so far, in ms.
func (tl *Timeline) Now() float64 { return tl.now }

// Active returns the number of animations and delays still pending.
func (tl *Timeline) Active() int { return len(tl.entries) }

func (tl *Timeline) add(e *entry) *entry {
	tl.nextID++
	e.tl = tl
	e.id = tl.nextID
	tl.entries = append(tl.entries, e)
	return e
}

func (tl *Timeline) remove(e *entry) {
	for i, x := range tl.entries {
		if x == e {
			tl.entries = append(tl.entries[:i], tl.entries[i+1:]...)
			return
		}
	}
}

// Animate schedules an animation. onTick receives the starting tick
// synchronously before Animate returns.
func (tl *Timeline) Animate(durationMS float64, e Easing, onTick func(Tick), onDone func()) Handle {
	if durationMS < MinDuration {
		durationMS = MinDuration
	}
	en := tl.add(&entry{duration: durationMS, easing: e, onTick: onTick, onDone: onDone})
	if onTick != nil {
		onTick(en.tick())
	}
	return en
}

// After runs fn once delayMS has been advanced past.
func (tl *Timeline) After(delayMS float64, fn func()) Handle {
	if delayMS < 0 {
		delayMS = 0
	}
	return tl.add(&entry{duration: delayMS, easing: Linear, onDone: fn})
}

// Advance moves the clock forward by dt ms.
func (tl *Timeline) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	tl.now += dt

	batch := make([]*entry, len(tl.entries))
	copy(batch, tl.entries)

	var done []*entry
	for _, e := range batch {
		if e.state != entryActive {
			continue
		}
		e.elapsed += dt
		if e.elapsed > e.duration {
			e.elapsed = e.duration
		}
		if e.onTick != nil {
			e.onTick(e.tick())
		}
		if e.elapsed >= e.duration {
			done = append(done, e)
		}
	}

	for _, e := range done {
		// an earlier completion may have cancelled this one
		if e.state != entryActive {
			continue
		}
		e.state = entryFinished
		tl.remove(e)
		if e.onDone != nil {
			e.onDone()
		}
	}
}
