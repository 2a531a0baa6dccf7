package power

import (
	"github.com/coreman2200/powerring/internal/anim"
	"github.com/coreman2200/powerring/internal/kinematic"
)

// step is one timed segment of a track. A step either animates (update is
// called with every tick) or waits.
type step struct {
	name     string
	duration float64
	easing   anim.Easing
	wait     bool
	// idle waits do not count as running: a request arriving during one is
	// applied immediately.
	idle bool

	begin  func(sc *Scene)
	update func(sc *Scene, t anim.Tick)
	end    func(sc *Scene)

	// spawn is started when this step ends.
	spawn []track
	// branch is started the first time when reports true after an update.
	when   func(sc *Scene) bool
	branch track

	// terminal ends the whole sequence when this step ends.
	terminal bool
}

// track is a list of steps run back to back.
type track []step

// sequence is the description of one transition's animation: tracks that
// start together, one of which holds the terminal step.
type sequence struct {
	name    string
	prepare func(sc *Scene)
	tracks  []track
	// handoff is adopted as the current state when the sequence completes.
	handoff *State
}

func (s *sequence) add(trs ...track) {
	for _, tr := range trs {
		if len(tr) > 0 {
			s.tracks = append(s.tracks, tr)
		}
	}
}

// chainTrack turns every leg of c into its own linear step.
func chainTrack(name string, c kinematic.Chain, apply func(sc *Scene, pos, vel float64)) track {
	tr := make(track, 0, c.Len())
	for _, leg := range c.Legs() {
		tr = append(tr, step{
			name:     name,
			duration: leg.Duration,
			easing:   anim.Linear,
			update: func(sc *Scene, t anim.Tick) {
				apply(sc, leg.At(t.Elapsed), leg.VelocityAt(t.Elapsed))
			},
		})
	}
	return tr
}

// launch starts every track of seq. The caller has already cancelled
// whatever ran before.
func (v *View) launch(seq *sequence) {
	v.seq = seq
	if seq.prepare != nil {
		seq.prepare(&v.scene)
	}
	for _, tr := range seq.tracks {
		v.runTrack(seq, tr, 0)
	}
	v.invalidate()
}

func (v *View) runTrack(seq *sequence, tr track, i int) {
	if i >= len(tr) || v.seq != seq {
		return
	}
	st := tr[i]
	if !st.idle {
		v.running = true
	}
	if st.begin != nil {
		st.begin(&v.scene)
	}

	finish := func() {
		if st.end != nil {
			st.end(&v.scene)
		}
		v.invalidate()
		for _, sp := range st.spawn {
			v.runTrack(seq, sp, 0)
		}
		if st.terminal {
			v.complete(seq)
			return
		}
		v.runTrack(seq, tr, i+1)
	}

	if st.wait {
		v.anims.Add(v.sched.After(st.duration, finish))
		return
	}

	branched := false
	v.anims.Add(v.sched.Animate(st.duration, st.easing, func(t anim.Tick) {
		if st.update != nil {
			st.update(&v.scene, t)
		}
		if st.when != nil && !branched && st.when(&v.scene) {
			branched = true
			v.runTrack(seq, st.branch, 0)
		}
		v.invalidate()
	}, finish))
}
