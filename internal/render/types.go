package render

import "github.com/coreman2200/powerring/internal/geometry"

// Color is a linear LED color, channels in [0,1].
type Color struct{ R, G, B float32 }

// Stroke describes how an arc or line is painted. Alpha replaces the alpha
// channel of Color.
type Stroke struct {
	Color ARGB    `json:"color"`
	Width float64 `json:"width"`
	Alpha uint8   `json:"alpha"`
}

// Canvas is the drawing surface a Scene paints on. Angles are in degrees,
// 0° at three o'clock, positive sweeps run clockwise.
type Canvas interface {
	DrawArc(oval geometry.Rect, startDeg, sweepDeg float64, s Stroke)
	DrawLine(l geometry.Line, s Stroke)
}

// Scene is anything that can paint itself onto a Canvas.
type Scene interface {
	Draw(c Canvas)
}

type Uniforms struct {
	GlobalBrightness float64
	Params           map[string]float64
}

type tee []Canvas

// Tee fans every draw call out to all canvases in order.
func Tee(cs ...Canvas) Canvas { return tee(cs) }

func (t tee) DrawArc(oval geometry.Rect, start, sweep float64, s Stroke) {
	for _, c := range t {
		c.DrawArc(oval, start, sweep, s)
	}
}

func (t tee) DrawLine(l geometry.Line, s Stroke) {
	for _, c := range t {
		c.DrawLine(l, s)
	}
}
