package power

// transition names the animation that carries the widget from one state to
// another.
type transition int

const (
	snapTo transition = iota
	reveal
	revealSucceed
	reload
	powerToLoading
	powerToSucceed
	loopAgain
	loadingToPower
	loadingToSucceed
	succeedToPower
	hide
)

var transitionNames = [...]string{
	"snap", "reveal", "reveal-succeed", "reload", "power-to-loading",
	"power-to-succeed", "loop-again", "loading-to-power", "loading-to-succeed",
	"succeed-to-power", "hide",
}

func (t transition) String() string { return transitionNames[t] }

// resolve picks the transition for from → to. Rows are checked in order.
func resolve(from, to State) transition {
	switch {
	case from == Hidden && (to == Power || to == Reloading):
		return reveal
	case from == Hidden && to == Succeed:
		return revealSucceed
	case to == Reloading:
		return reload
	case from == Power && to == Loading:
		return powerToLoading
	case from == Power && to == Succeed:
		return powerToSucceed
	case from == Loading && to == Loading:
		return loopAgain
	case from == Loading && to == Power:
		return loadingToPower
	case from == Loading && to == Succeed:
		return loadingToSucceed
	case from == Succeed && to == Power:
		return succeedToPower
	case to == Hidden:
		return hide
	}
	return snapTo
}

// snapTarget is where a snap transition to `to` rests.
func snapTarget(to State) State {
	switch to {
	case Hidden, Power, Succeed:
		return to
	}
	return Power
}

// build returns the sequence for t, or nil when t only snaps.
func (v *View) build(t transition) *sequence {
	switch t {
	case reveal:
		v.inner = InnerPower
		return v.revealSequence()
	case revealSucceed:
		v.inner = InnerSuccess
		return v.revealSequence()
	case reload:
		return v.reloadSequence()
	case powerToLoading:
		seq := v.loadingSequence(ms(v.cfg.IndeterminateDuration), false)
		seq.add(v.hidePowerLineTrack())
		return seq
	case powerToSucceed:
		seq := v.loadingSequence(ms(v.cfg.SucceedDuration), true)
		seq.prepare = func(sc *Scene) { sc.Line2 = nil }
		seq.add(v.hidePowerLineTrack())
		return seq
	case loopAgain:
		return v.loopAgainSequence()
	case loadingToPower:
		return v.backFromLoadingSequence()
	case loadingToSucceed:
		seq := v.loadingSequence(ms(v.cfg.SucceedDuration), true)
		seq.prepare = func(sc *Scene) { sc.Line1, sc.Line2 = nil, nil }
		return seq
	case succeedToPower:
		return v.backFromSuccessSequence()
	}
	return nil
}

// changeState cancels whatever runs and starts the transition from → to.
func (v *View) changeState(from, to State) {
	v.stopAnimators()
	v.pending = nil
	v.nextInner = nil
	v.state = to

	t := resolve(from, to)
	if seq := v.build(t); seq != nil {
		v.log.Debug().Stringer("from", from).Stringer("to", to).Str("transition", t.String()).Msg("transition")
		v.launch(seq)
	} else {
		v.restAt(snapTarget(to))
	}

	if from != v.state {
		v.emitStateChanged(from, v.state, true)
	}
}

// complete runs when the terminal step of seq ends.
func (v *View) complete(seq *sequence) {
	if v.seq != seq {
		return
	}
	v.seq = nil
	from := v.state
	if seq.handoff != nil && *seq.handoff != v.state {
		v.state = *seq.handoff
		v.emitStateChanged(from, v.state, true)
	}
	next := v.nextState()
	v.changeState(v.state, next)
	v.emitAnimationEnded(from, next)
}

func (v *View) nextState() State {
	if v.pending != nil {
		return *v.pending
	}
	return v.state
}

func (v *View) startNextState() {
	next := v.nextState()
	if next == v.state {
		v.pending = nil
		return
	}
	v.changeState(v.state, next)
}

// snap cancels everything and rests in `to` without animating.
func (v *View) snap(to State) {
	from := v.state
	v.stopAnimators()
	v.pending = nil
	v.restAt(to)
	if from != v.state {
		v.emitStateChanged(from, v.state, true)
	}
}

// restAt puts the scene in the resting pose of s. Reloading never rests, it
// resolves to Power.
func (v *View) restAt(s State) {
	if s == Reloading {
		s = Power
	}
	v.seq = nil
	v.nextInner = nil
	v.state = s
	if s == Hidden {
		v.inner = InnerPower
		v.scene = Scene{InnerAlpha: 255}
		v.invalidate()
		return
	}
	v.inner = innerFor(s)
	v.scene.rest(v.inner, v.layout)
	v.scene.InnerAlpha = 255
	v.invalidate()
}
