package power

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/powerring/internal/anim"
	"github.com/coreman2200/powerring/internal/geometry"
	"github.com/coreman2200/powerring/internal/render"
)

// Listener receives state notifications. Both methods run synchronously on
// the goroutine that drives the scheduler.
type Listener interface {
	// AnimationEnded reports a finished sequence and the state it led to.
	AnimationEnded(from, to State)
	// StateChanged reports a state change. applied is false when the
	// target was only queued behind a running animation.
	StateChanged(from, to State, applied bool)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnAnimationEnded func(from, to State)
	OnStateChanged   func(from, to State, applied bool)
}

func (f ListenerFuncs) AnimationEnded(from, to State) {
	if f.OnAnimationEnded != nil {
		f.OnAnimationEnded(from, to)
	}
}

func (f ListenerFuncs) StateChanged(from, to State, applied bool) {
	if f.OnStateChanged != nil {
		f.OnStateChanged(from, to, applied)
	}
}

type Option func(*View)

func WithLogger(l zerolog.Logger) Option {
	return func(v *View) { v.log = l.With().Str("component", "power").Logger() }
}

type paints struct {
	ring, inner render.Stroke
}

// View is the power indicator. It is not safe for concurrent use: every
// method, and the scheduler driving it, must run on one goroutine.
type View struct {
	cfg      Config
	layout   geometry.Layout
	relayout bool
	paint    paints

	sched anim.Scheduler
	anims anim.Set
	seq   *sequence

	scene   Scene
	running bool
	dirty   bool

	state     State
	pending   *State
	inner     Inner
	nextInner *Inner

	listeners []*Listener
	log       zerolog.Logger
}

// New builds a view from cfg. A Loading initial state, or any initial state
// with the first animation disabled, is applied immediately; otherwise the
// view starts hidden and Attach reveals it.
func New(cfg Config, sched anim.Scheduler, opts ...Option) *View {
	v := &View{sched: sched, log: zerolog.Nop()}
	for _, o := range opts {
		o(v)
	}
	v.cfg = v.normalize(cfg)
	v.layout = v.newLayout()
	v.refreshPaint()
	v.scene.InnerAlpha = 255
	v.inner = innerFor(v.cfg.State)
	if v.cfg.State == Loading || (!v.cfg.FirstAnimation && v.cfg.State != Hidden) {
		v.RequestState(v.cfg.State, false)
	}
	return v
}

func (v *View) normalize(c Config) Config {
	c, notes := c.Normalize()
	for _, n := range notes {
		v.log.Warn().Msg(n)
	}
	return c
}

func (v *View) newLayout() geometry.Layout {
	return geometry.NewLayout(v.cfg.Size, v.cfg.Thickness, v.cfg.InnerThickness, v.cfg.Density)
}

// AddListener registers l and returns a function that removes it.
func (v *View) AddListener(l Listener) (remove func()) {
	p := &l
	v.listeners = append(v.listeners, p)
	return func() {
		for i, x := range v.listeners {
			if x == p {
				v.listeners = append(v.listeners[:i:i], v.listeners[i+1:]...)
				return
			}
		}
	}
}

func (v *View) emitStateChanged(from, to State, applied bool) {
	v.log.Debug().Stringer("from", from).Stringer("to", to).Bool("applied", applied).Msg("state changed")
	for _, l := range append([]*Listener(nil), v.listeners...) {
		(*l).StateChanged(from, to, applied)
	}
}

func (v *View) emitAnimationEnded(from, to State) {
	for _, l := range append([]*Listener(nil), v.listeners...) {
		(*l).AnimationEnded(from, to)
	}
}

// RequestState moves the widget toward target. Animated requests made while
// a sequence runs are queued; only the latest queued target is kept.
func (v *View) RequestState(target State, animated bool) {
	if !animated {
		switch target {
		case Loading:
			v.snap(Power)
			v.RequestState(Loading, true)
		case Reloading:
			v.RequestState(Reloading, true)
		default:
			v.snap(target)
		}
		return
	}

	if v.pending != nil && *v.pending == target {
		return
	}
	v.pending = &target
	if !v.running {
		v.startNextState()
		return
	}
	v.emitStateChanged(v.state, target, false)
}

// stopAnimators cancels every scheduled handle and settles the bookkeeping
// that only animations may hold.
func (v *View) stopAnimators() {
	if n := v.anims.CancelAll(); n > 0 {
		v.log.Debug().Int("handles", n).Msg("cancelled")
	}
	v.scene.Ring.StartVelocity, v.scene.Ring.EndVelocity = 0, 0
	v.running = false
	v.scene.InnerAlpha = 255
	if v.relayout {
		v.relayout = false
		v.layout = v.newLayout()
	}
	v.refreshPaint()
	v.invalidate()
}

func (v *View) refreshPaint() {
	v.paint = paints{
		ring:  render.Stroke{Color: v.cfg.Color, Width: v.cfg.Thickness, Alpha: 255},
		inner: render.Stroke{Color: v.cfg.InnerColor, Width: v.cfg.InnerThickness, Alpha: 255},
	}
}

func (v *View) invalidate() { v.dirty = true }

// TakeDirty reports whether the scene changed since the last call.
func (v *View) TakeDirty() bool {
	d := v.dirty
	v.dirty = false
	return d
}

// Attach starts the widget when auto-start is on and it is still hidden.
// A view that was detached resumes its loading loop or queued target.
func (v *View) Attach() {
	if v.running || v.seq != nil {
		return
	}
	if v.state == Hidden && v.pending == nil {
		if v.cfg.AutoStart {
			v.RequestState(stateFor(v.inner), v.cfg.FirstAnimation)
		}
		return
	}
	v.resume()
}

// Detach cancels all animation and rests the current state. A queued target
// is kept for the next Attach.
func (v *View) Detach() {
	v.stopAnimators()
	v.rest()
}

// rest puts the scene in the resting pose of the current state.
func (v *View) rest() {
	from := v.state
	v.restAt(v.state)
	if from != v.state {
		v.emitStateChanged(from, v.state, true)
	}
}

func (v *View) resume() {
	if v.state == Loading && v.pending == nil {
		v.launch(v.build(powerToLoading))
		return
	}
	if v.pending != nil {
		v.startNextState()
	}
}

// SetVisible cancels all animation. Hiding rests the current state; showing
// resumes the loading loop or a queued target.
func (v *View) SetVisible(visible bool) {
	v.stopAnimators()
	v.seq = nil
	if !visible {
		v.rest()
		return
	}
	v.resume()
}

// Reset snaps to Hidden.
func (v *View) Reset() {
	v.nextInner = nil
	v.RequestState(Hidden, false)
}

// Resize relayouts for a new viewport size. An idle view snaps to its state.
func (v *View) Resize(size float64) {
	v.storeGeometry(func(c *Config) { c.Size = size })
}

func (v *View) resnap() {
	switch v.state {
	case Hidden, Power, Succeed:
		v.restAt(v.state)
	}
	v.invalidate()
}

func (v *View) store(fn func(c *Config)) {
	c := v.cfg
	fn(&c)
	v.cfg = v.normalize(c)
}

func (v *View) storeGeometry(fn func(c *Config)) {
	v.store(fn)
	if v.running {
		v.relayout = true
		return
	}
	v.layout = v.newLayout()
	v.relayout = false
	v.resnap()
}

// SetColor sets the ring color. Like every paint change it reaches the
// screen at the next draw that is not animating.
func (v *View) SetColor(c render.ARGB) {
	v.store(func(cfg *Config) { cfg.Color = c })
	v.invalidate()
}

func (v *View) SetInnerColor(c render.ARGB) {
	v.store(func(cfg *Config) { cfg.InnerColor = c })
	v.invalidate()
}

func (v *View) SetThickness(t float64) {
	v.storeGeometry(func(c *Config) { c.Thickness = t })
}

func (v *View) SetInnerThickness(t float64) {
	v.storeGeometry(func(c *Config) { c.InnerThickness = t })
}

func (v *View) SetDensity(d float64) {
	v.storeGeometry(func(c *Config) { c.Density = d })
}

func (v *View) SetShowDuration(d time.Duration) {
	v.store(func(c *Config) { c.ShowDuration = d })
}

func (v *View) SetIndeterminateDuration(d time.Duration) {
	v.store(func(c *Config) { c.IndeterminateDuration = d })
}

func (v *View) SetSucceedDuration(d time.Duration) {
	v.store(func(c *Config) { c.SucceedDuration = d })
}

func (v *View) SetDelay(d time.Duration) { v.store(func(c *Config) { c.Delay = d }) }

func (v *View) SetAutoStart(on bool) { v.store(func(c *Config) { c.AutoStart = on }) }

// SetInnerView toggles the inner icon. It takes effect for sequences built
// afterwards.
func (v *View) SetInnerView(on bool) {
	v.store(func(c *Config) { c.InnerView = on })
	v.invalidate()
}

func (v *View) Config() Config          { return v.cfg }
func (v *View) Layout() geometry.Layout { return v.layout }
func (v *View) CurrentState() State     { return v.state }
func (v *View) InnerState() Inner       { return v.inner }
func (v *View) Running() bool           { return v.running }
func (v *View) ActiveHandles() int      { return v.anims.Active() }

// PendingState returns the queued target, if any.
func (v *View) PendingState() (State, bool) {
	if v.pending == nil {
		return Hidden, false
	}
	return *v.pending, true
}

// Scene returns a copy of the animated state.
func (v *View) Scene() Scene { return v.scene.Clone() }
