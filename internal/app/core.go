package app

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/coreman2200/powerring/internal/anim"
	diag "github.com/coreman2200/powerring/internal/diagnostics"
	"github.com/coreman2200/powerring/internal/power"
	"github.com/coreman2200/powerring/internal/render"
	"github.com/coreman2200/powerring/internal/selftest"
)

// maxStepMS caps one loop step so a stalled process does not fast-forward
// whole animations in a single frame.
const maxStepMS = 100.0

type Options struct {
	FPS int
	// RasterPx is the edge of the square raster the widget is drawn into.
	RasterPx int
	Log      zerolog.Logger
}

// Status is what the loop publishes after every frame.
type Status struct {
	State      string  `json:"state"`
	Pending    string  `json:"pending,omitempty"`
	Inner      string  `json:"inner"`
	Running    bool    `json:"running"`
	Frame      uint64  `json:"frame_id"`
	LEDs       int     `json:"count"`
	FPS        int     `json:"fps"`
	Brightness float64 `json:"brightness"`
	Test       string  `json:"test,omitempty"`
	DrawMS     float64 `json:"draw_ms"`
	TotalMS    float64 `json:"total_ms"`
}

// Core owns the widget, its timeline and the render engine. Everything it
// owns is touched only from the goroutine running Run (or calling Step);
// other goroutines go through Submit and Do.
type Core struct {
	View *power.View
	TL   *anim.Timeline
	Eng  *render.Engine

	// OnFrame and OnDiag run on the loop goroutine.
	OnFrame func(render.Frame)
	OnDiag  func(diag.Diagnostic)

	fps      int
	rasterPx int
	cmds     chan func(*Core)
	done     chan struct{}
	log      zerolog.Logger

	test     *selftest.Runner
	writeErr bool
	frames   uint64

	mu     sync.RWMutex
	status Status
}

func NewCore(cfg power.Config, ring render.Ring, drv render.Driver, u *render.Uniforms, opts Options) (*Core, error) {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.RasterPx <= 0 {
		opts.RasterPx = 96
	}
	c := &Core{
		TL:       anim.NewTimeline(),
		fps:      opts.FPS,
		rasterPx: opts.RasterPx,
		cmds:     make(chan func(*Core), 64),
		done:     make(chan struct{}),
		log:      opts.Log,
	}
	c.View = power.New(cfg, c.TL, power.WithLogger(opts.Log))
	c.View.AddListener(c)

	raster := render.NewRaster(opts.RasterPx, opts.RasterPx, 1)
	eng, err := render.NewEngine(c.View, ring, raster, drv, u)
	if err != nil {
		return nil, errors.Wrap(err, "render engine")
	}
	c.Eng = eng
	c.syncGeometry()
	c.publish()
	return c, nil
}

// Start attaches the widget, which reveals it when auto-start is on.
func (c *Core) Start() { c.View.Attach() }

func (c *Core) FPS() int { return c.fps }

// StateChanged implements power.Listener.
func (c *Core) StateChanged(from, to power.State, applied bool) {
	c.pushDiag(diag.New(diag.Info, diag.CodeStateChanged, "state "+to.String()).
		With("from", from.String()).
		With("to", to.String()).
		With("applied", applied))
}

// AnimationEnded implements power.Listener.
func (c *Core) AnimationEnded(from, to power.State) {
	c.pushDiag(diag.New(diag.Info, diag.CodeAnimationEnded, "animation ended").
		With("from", from.String()).
		With("to", to.String()))
}

func (c *Core) pushDiag(d diag.Diagnostic) {
	if c.OnDiag != nil {
		c.OnDiag(d)
	}
}

// RunTest replaces the widget output with an LED check pattern until the
// pattern completes.
func (c *Core) RunTest(k selftest.Kind) {
	c.test = selftest.NewRunner(selftest.Plan{Kind: k, Hold: max(1, c.fps/4)})
	c.Eng.SetOverride(c.test.Override())
	c.pushDiag(diag.New(diag.Info, diag.CodeTestRunning, "Running test").WithDetail(string(k)))
	c.publish()
}

func (c *Core) SetBrightness(b float64) {
	c.Eng.U.GlobalBrightness = min(max(b, 0), 1)
}

func (c *Core) syncGeometry() {
	lay := c.View.Layout()
	c.Eng.Bounds = lay.Bounds
	c.Eng.Raster.Scale = float64(c.rasterPx) / lay.Size
}

// Step drains queued commands, advances the timeline by dtMS and renders one
// frame.
func (c *Core) Step(dtMS float64) (render.Frame, error) {
	c.drain()
	c.TL.Advance(min(dtMS, maxStepMS))
	c.syncGeometry()

	frame, err := c.Eng.RenderOnce()
	c.frames++
	c.View.TakeDirty()
	if c.test != nil && !c.Eng.Overriding() {
		c.pushDiag(diag.New(diag.Info, diag.CodeTestDone, "Test complete").WithDetail(string(c.test.Kind())))
		c.test = nil
	}
	c.noteWrite(err)
	c.publish()
	if c.OnFrame != nil {
		c.OnFrame(frame)
	}
	return frame, err
}

// noteWrite reports the first failure of a streak and the recovery.
func (c *Core) noteWrite(err error) {
	switch {
	case err != nil && !c.writeErr:
		c.writeErr = true
		c.log.Warn().Err(err).Msg("driver write failed")
		c.pushDiag(diag.New(diag.Err, diag.CodeDriverWrite, "LED write failed").
			WithDetail(err.Error()))
	case err == nil && c.writeErr:
		c.writeErr = false
		c.log.Info().Msg("driver write recovered")
	}
}

func (c *Core) drain() {
	for {
		select {
		case fn := <-c.cmds:
			fn(c)
		default:
			return
		}
	}
}

// Submit queues fn for the loop goroutine. It returns false once the loop
// has stopped.
func (c *Core) Submit(fn func(*Core)) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.cmds <- fn:
		return true
	case <-c.done:
		return false
	}
}

// Do runs fn on the loop goroutine and waits for it. Status reflects fn's
// effects once Do returns.
func (c *Core) Do(fn func(*Core)) bool {
	ran := make(chan struct{})
	if !c.Submit(func(c *Core) {
		fn(c)
		c.publish()
		close(ran)
	}) {
		return false
	}
	select {
	case <-ran:
		return true
	case <-c.done:
		return false
	}
}

// Run drives the loop until ctx is cancelled.
func (c *Core) Run(ctx context.Context) {
	defer close(c.done)
	ticker := time.NewTicker(time.Second / time.Duration(c.fps))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			c.View.Detach()
			return
		case fn := <-c.cmds:
			fn(c)
			c.publish()
		case now := <-ticker.C:
			dt := float64(now.Sub(last)) / float64(time.Millisecond)
			last = now
			c.Step(dt)
		}
	}
}

func (c *Core) publish() {
	s := Status{
		State:      c.View.CurrentState().String(),
		Inner:      c.View.InnerState().String(),
		Running:    c.View.Running(),
		LEDs:       c.Eng.Ring.Len(),
		Frame:      c.frames,
		FPS:        c.fps,
		Brightness: c.Eng.U.GlobalBrightness,
		DrawMS:     c.Eng.Last.DrawMS,
		TotalMS:    c.Eng.Last.TotalMS,
	}
	if p, ok := c.View.PendingState(); ok {
		s.Pending = p.String()
	}
	if c.test != nil {
		s.Test = string(c.test.Kind())
	}
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}

// Status is safe to call from any goroutine.
func (c *Core) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}
