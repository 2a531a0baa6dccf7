package render

import (
	"time"

	"github.com/pkg/errors"

	"github.com/coreman2200/powerring/internal/geometry"
)

// Driver abstracts the LED transport.
type Driver interface {
	Write([]Color) error
}

// Frame is one rendered frame: what the scene drew and what the LEDs got.
type Frame struct {
	Seq      uint64    `json:"seq"`
	Commands []Command `json:"commands"`
	LEDs     []Color   `json:"leds"`
}

// Override fills dst instead of the scene. It returns false once it has
// nothing more to show; the engine then drops it.
type Override func(dst []Color) bool

// Engine draws the scene into the raster, samples the LED ring from it,
// applies post-processing, then writes to the driver.
type Engine struct {
	Scene  Scene
	Ring   Ring
	Raster *Raster
	Drv    Driver
	U      *Uniforms
	// Bounds is the ring stroke in widget coordinates.
	Bounds geometry.Rect

	rec      Recorder
	cur      []Color
	prev     []Color
	Out      []Color
	post     PostPipeline
	override Override
	seq      uint64

	// metrics (last durations in ms)
	Last struct {
		DrawMS  float64
		PostMS  float64
		TotalMS float64
	}
}

func NewEngine(scene Scene, ring Ring, raster *Raster, drv Driver, u *Uniforms) (*Engine, error) {
	if ring.Len() == 0 {
		return nil, errors.New("ring has no LEDs")
	}
	if raster == nil {
		return nil, errors.New("raster is nil")
	}
	if u == nil {
		u = &Uniforms{GlobalBrightness: 1, Params: map[string]float64{}}
	}
	n := ring.Len()
	return &Engine{
		Scene:  scene,
		Ring:   ring,
		Raster: raster,
		Drv:    drv,
		U:      u,
		cur:    make([]Color, n),
		prev:   make([]Color, n),
		Out:    make([]Color, n),
		post:   PostPipeline{Limiter: DefaultLimiter},
	}, nil
}

func (e *Engine) UseFilmicPost() {
	e.SetPost(PostPipeline{
		ToneMap: func(buf []Color) { FilmicToneMap(buf, e.U) },
		Limiter: DefaultLimiter,
	})
}

func (e *Engine) SetPost(p PostPipeline) { e.post = p }

// SetOverride replaces the scene output until o reports it is done.
func (e *Engine) SetOverride(o Override) { e.override = o }

func (e *Engine) Overriding() bool { return e.override != nil }

// SetParam updates a uniform parameter.
func (e *Engine) SetParam(name string, v float64) {
	if e.U.Params == nil {
		e.U.Params = map[string]float64{}
	}
	e.U.Params[name] = v
}

// RenderOnce renders and writes a single frame.
func (e *Engine) RenderOnce() (Frame, error) {
	start := time.Now()
	e.seq++

	e.rec.Reset()
	e.Raster.Clear()
	if e.Scene != nil {
		e.Scene.Draw(Tee(e.Raster, &e.rec))
	}

	overridden := false
	if e.override != nil {
		if e.override(e.cur) {
			overridden = true
		} else {
			e.override = nil
		}
	}
	if overridden {
		copy(e.Out, e.cur)
	} else {
		e.Ring.Sample(e.Raster, e.Bounds, e.cur)
		Decay(e.Out, e.prev, e.cur, param(e.U, ParamPersistence, 0))
		copy(e.prev, e.Out)
	}
	e.Last.DrawMS = ms(time.Since(start))

	postStart := time.Now()
	if e.post.ToneMap != nil {
		e.post.ToneMap(e.Out)
	}
	if e.post.Limiter != nil {
		e.post.Limiter(e.Out, e.U)
	}
	Brightness(e.Out, e.U)
	e.Last.PostMS = ms(time.Since(postStart))

	frame := Frame{Seq: e.seq, Commands: e.rec.Snapshot(), LEDs: append([]Color(nil), e.Out...)}
	if e.Drv != nil {
		if err := e.Drv.Write(e.Out); err != nil {
			return frame, errors.Wrapf(err, "write frame %d", e.seq)
		}
	}
	e.Last.TotalMS = ms(time.Since(start))
	return frame, nil
}

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000.0 }
