package power

import (
	"math"

	"github.com/coreman2200/powerring/internal/anim"
	"github.com/coreman2200/powerring/internal/kinematic"
)

// revealSequence grows the ring out of a short seed arc and fades the inner
// icon in while the ring sweeps.
func (v *View) revealSequence() *sequence {
	p := planReveal(ms(v.cfg.ShowDuration))
	nudge := func(leg kinematic.Leg) step {
		return step{
			name:     "reveal-nudge",
			duration: revealNudge,
			easing:   anim.Decelerate,
			update: func(sc *Scene, t anim.Tick) {
				pos := leg.At(t.Value)
				sc.Ring.Start, sc.Ring.End = pos, pos+revealSeed
				// decelerating: speed falls from twice the mean to zero
				vel := 2 * leg.V0 * (1 - t.Fraction())
				sc.Ring.StartVelocity, sc.Ring.EndVelocity = vel, vel
			},
		}
	}
	first, second := nudge(p.Nudge1), nudge(p.Nudge2)
	second.end = func(sc *Scene) {
		sc.Ring.StartVelocity, sc.Ring.EndVelocity = 0, 0
		sc.FocusOnEnd = false
	}
	second.spawn = v.innerRevealTracks(v.inner, p.Sweep.Duration(), true)

	ring := track{first, second}
	ring = append(ring, chainTrack("reveal-sweep", p.Sweep, func(sc *Scene, pos, vel float64) {
		sc.Ring.End, sc.Ring.EndVelocity = pos, vel
	})...)
	ring[len(ring)-1].terminal = true

	seq := &sequence{
		name: "reveal",
		prepare: func(sc *Scene) {
			sc.Ring = ArcGeometry{Start: revealOrigin, End: revealOrigin + revealSeed}
			sc.FocusOnEnd = false
		},
	}
	seq.add(ring)
	return seq
}

func (v *View) innerRevealTracks(inner Inner, d float64, fade bool) []track {
	if !v.cfg.InnerView {
		return nil
	}
	var out []track
	if fade {
		out = append(out, track{{
			name:     "inner-fade",
			duration: d,
			easing:   anim.Linear,
			begin:    func(sc *Scene) { sc.InnerAlpha = 0 },
			update:   func(sc *Scene, t anim.Tick) { sc.InnerAlpha = uint8(math.Round(255 * t.Fraction())) },
		}})
	}
	return append(out, v.innerRevealSteps(inner, d))
}

// innerRevealSteps draws the inner icon from nothing over d.
func (v *View) innerRevealSteps(inner Inner, d float64) track {
	lay := v.layout
	if inner == InnerSuccess {
		s1, s2 := lay.Success1, lay.Success2
		return track{
			{
				name:     "inner-check-first",
				duration: d / 2,
				easing:   anim.Linear,
				begin: func(sc *Scene) {
					sc.InnerStart, sc.InnerEnd = 0, 0
					sc.Line1 = linePtr(s1.Collapsed())
					sc.Line2 = nil
				},
				update: func(sc *Scene, t anim.Tick) { sc.Line1 = linePtr(s1.Partial(t.Fraction())) },
			},
			{
				name:     "inner-check-second",
				duration: d / 2,
				easing:   anim.Linear,
				begin: func(sc *Scene) {
					sc.Line1 = linePtr(s1)
					sc.Line2 = linePtr(s2.Collapsed())
				},
				update: func(sc *Scene, t anim.Tick) { sc.Line2 = linePtr(s2.Partial(t.Fraction())) },
				end: func(sc *Scene) {
					sc.Line1, sc.Line2 = linePtr(s1), linePtr(s2)
				},
			},
		}
	}
	bar := lay.Power
	return track{{
		name:     "inner-power-reveal",
		duration: d,
		easing:   anim.Linear,
		begin: func(sc *Scene) {
			sc.InnerStart, sc.InnerEnd = innerRestStart, innerRestStart
			sc.Line1 = linePtr(bar.Collapsed())
			sc.Line2 = nil
		},
		update: func(sc *Scene, t anim.Tick) {
			f := t.Fraction()
			sc.InnerEnd = innerRestStart + (innerRestEnd-innerRestStart)*f
			sc.Line1 = linePtr(bar.Partial(f))
		},
	}}
}

// lapTracks is one indeterminate lap: both ring edges plus the inner loop.
// The lap completes when the end edge settles.
func (v *View) lapTracks(d float64) []track {
	p := planLap(d)
	start := chainTrack("lap-start", p.Start, func(sc *Scene, pos, vel float64) {
		sc.Ring.Start, sc.Ring.StartVelocity = pos, vel
	})
	start[0].begin = func(sc *Scene) { sc.FocusOnEnd = false }
	end := chainTrack("lap-end", p.End, func(sc *Scene, pos, vel float64) {
		sc.Ring.End, sc.Ring.EndVelocity = pos, vel
	})
	end[len(end)-1].terminal = true

	out := []track{start, end}
	if inner := v.innerLoopTrack(p.Duration()); len(inner) > 0 {
		out = append(out, inner)
	}
	return out
}

// innerLoopTrack animates the inner icon during a lap. If a morph to the
// checkmark was requested it runs instead of the power loop.
func (v *View) innerLoopTrack(maxMS float64) track {
	if !v.cfg.InnerView {
		return nil
	}
	inner := v.inner
	if v.nextInner != nil {
		inner = *v.nextInner
	}
	tr := track{{
		name:     "inner-lag",
		wait:     true,
		duration: innerLag,
		end: func(*Scene) {
			v.inner = inner
			v.nextInner = nil
		},
	}}

	if inner == InnerSuccess {
		p := planInnerSuccess(maxMS)
		tr = append(tr, step{
			name:     "inner-collapse",
			duration: p.Collapse,
			easing:   anim.Linear,
			begin:    func(sc *Scene) { sc.InnerStart, sc.InnerEnd = innerRestStart, innerRestEnd },
			update: func(sc *Scene, t anim.Tick) {
				sc.InnerStart = math.Max(p.Start.At(t.Elapsed), innerCollapse)
				sc.InnerEnd = math.Max(p.End.At(t.Elapsed), innerCollapse)
			},
		})
		return append(tr, v.innerRevealSteps(InnerSuccess, p.Collapse)...)
	}

	p := planInnerPower(maxMS, ms(v.cfg.Delay), ms(v.cfg.IndeterminateDuration))
	return append(tr,
		step{
			name:     "inner-rewind",
			duration: p.Rewind,
			easing:   anim.Linear,
			begin: func(sc *Scene) {
				sc.InnerStart, sc.InnerEnd = innerRestStart, innerRestEnd
				sc.Line2 = nil
			},
			update: func(sc *Scene, t anim.Tick) {
				sc.InnerStart = p.Start1.At(t.Elapsed)
				sc.InnerEnd = p.End1.At(t.Elapsed)
			},
		},
		step{name: "inner-pause", wait: true, duration: ms(v.cfg.Delay)},
		step{
			name:     "inner-return",
			duration: p.Return,
			easing:   anim.Linear,
			update: func(sc *Scene, t anim.Tick) {
				sc.InnerStart = p.Start2.At(t.Elapsed)
				sc.InnerEnd = p.End2.At(t.Elapsed)
			},
		},
	)
}

// hidePowerLineTrack retracts the power bar into its top end.
func (v *View) hidePowerLineTrack() track {
	if !v.cfg.InnerView {
		return nil
	}
	bar, lay := v.layout.Power, v.layout
	return track{{
		name:     "power-line-hide",
		duration: lineToggle,
		easing:   anim.Linear,
		begin: func(sc *Scene) {
			v.inner = InnerPower
			sc.showInner(InnerPower, lay)
		},
		update: func(sc *Scene, t anim.Tick) { sc.Line1 = linePtr(bar.Partial(1 - t.Fraction())) },
		end:    func(sc *Scene) { sc.Line1 = nil },
	}}
}

func (v *View) loadingSequence(d float64, morph bool) *sequence {
	seq := &sequence{name: "loading"}
	if morph {
		seq.name = "loading-to-succeed"
		success := InnerSuccess
		v.nextInner = &success
	}
	seq.add(v.lapTracks(d)...)
	return seq
}

// loopAgainSequence waits the configured delay, then runs another lap. The
// wait is idle.
func (v *View) loopAgainSequence() *sequence {
	seq := &sequence{name: "loop"}
	seq.add(track{{
		name:     "loop-delay",
		wait:     true,
		idle:     true,
		duration: ms(v.cfg.Delay),
		spawn:    v.lapTracks(ms(v.cfg.IndeterminateDuration)),
	}})
	return seq
}

// backFromLoadingSequence rests the ring and regrows the power bar upward.
func (v *View) backFromLoadingSequence() *sequence {
	lay := v.layout
	seq := &sequence{
		name: "loading-to-power",
		prepare: func(sc *Scene) {
			v.inner = InnerPower
			sc.rest(InnerPower, lay)
		},
	}
	if !v.cfg.InnerView {
		seq.add(track{{name: "settle", wait: true, terminal: true}})
		return seq
	}
	bar := lay.Power
	seq.add(track{{
		name:     "power-line-grow",
		duration: lineToggle,
		easing:   anim.Linear,
		update:   func(sc *Scene, t anim.Tick) { sc.Line1 = linePtr(bar.PartialFromStop(t.Fraction())) },
		terminal: true,
	}})
	return seq
}

// reloadTrack spins the ring backwards twice and lands on a full turn.
func reloadTrack(d float64) track {
	p := planReload(d)
	tri := func(t float64) float64 {
		if t > p.Half {
			return p.MaxStartVelocity - (t-p.Half)*p.MaxStartVelocity/p.Half
		}
		return t * p.MaxStartVelocity / p.Half
	}
	return track{
		{
			name:     "reload-swing",
			duration: p.Start1.Duration,
			easing:   anim.Linear,
			update: func(sc *Scene, t anim.Tick) {
				sc.Ring.Start = p.Start1.At(t.Elapsed)
				sc.Ring.End = p.End1.At(t.Elapsed)
				sc.Ring.StartVelocity = tri(t.Elapsed)
				sc.Ring.EndVelocity = math.Abs(p.End1.VelocityAt(t.Elapsed))
			},
			end: func(sc *Scene) { sc.Ring.StartVelocity, sc.Ring.EndVelocity = 0, 0 },
		},
		{
			name:     "reload-tail",
			duration: p.End2.Duration,
			easing:   anim.Linear,
			update: func(sc *Scene, t anim.Tick) {
				sc.Ring.End = math.Max(reloadEndFloor, p.End2.At(t.Elapsed))
				sc.Ring.Start = p.Start2.At(t.Elapsed)
			},
			end:      func(sc *Scene) { sc.Ring.Start, sc.Ring.End = 0, fullTurn },
			terminal: true,
		},
	}
}

func (v *View) reloadSequence() *sequence {
	power := Power
	seq := &sequence{
		name:    "reload",
		prepare: func(sc *Scene) { sc.Ring.Start, sc.Ring.End = 0, fullTurn },
		handoff: &power,
	}
	seq.add(reloadTrack(ms(v.cfg.IndeterminateDuration)))
	return seq
}

// backFromSuccessSequence reloads the ring while the checkmark is undone and
// the power icon regrows.
func (v *View) backFromSuccessSequence() *sequence {
	d := ms(v.cfg.IndeterminateDuration)
	lay := v.layout
	seq := &sequence{
		name: "succeed-to-power",
		prepare: func(sc *Scene) {
			sc.Ring.Start, sc.Ring.End = 0, fullTurn
			sc.Line1, sc.Line2 = nil, nil
		},
	}
	seq.add(reloadTrack(d))
	if !v.cfg.InnerView {
		return seq
	}

	p := planUnmorph(d)
	s1, s2 := lay.Success1, lay.Success2
	bar := lay.Power
	regrow := track{{
		name:     "power-line-regrow",
		duration: p.Line,
		easing:   anim.Linear,
		update: func(sc *Scene, t anim.Tick) {
			if sc.Line1 == nil {
				return
			}
			sc.Line1 = linePtr(bar.PartialFromStop(t.Fraction()))
		},
	}}
	seq.add(track{
		{
			name:     "uncheck-second",
			duration: p.Stroke,
			easing:   anim.Linear,
			begin: func(sc *Scene) {
				sc.showInner(InnerSuccess, lay)
				v.inner = InnerPower
			},
			update: func(sc *Scene, t anim.Tick) { sc.Line2 = linePtr(s2.Partial(1 - t.Fraction())) },
			end:    func(sc *Scene) { sc.Line2 = nil },
		},
		{
			name:     "uncheck-first",
			duration: p.Stroke,
			easing:   anim.Linear,
			update:   func(sc *Scene, t anim.Tick) { sc.Line1 = linePtr(s1.Partial(1 - t.Fraction())) },
			end:      func(sc *Scene) { sc.Line1, sc.Line2 = nil, nil },
		},
		{
			name:     "unmorph-arc",
			duration: p.Arc,
			easing:   anim.Linear,
			update: func(sc *Scene, t anim.Tick) {
				sc.InnerStart = math.Min(p.Start.At(t.Elapsed), innerRestStart)
				sc.InnerEnd = math.Min(p.End.At(t.Elapsed), innerRestEnd)
			},
			when: func(sc *Scene) bool {
				if sc.InnerStart > 0 && sc.Line1 == nil {
					sc.Line1 = linePtr(bar.PartialFromStop(0))
					return true
				}
				return false
			},
			branch: regrow,
			end:    func(sc *Scene) { sc.InnerStart, sc.InnerEnd = innerRestStart, innerRestEnd },
		},
	})
	return seq
}
