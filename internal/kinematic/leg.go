package kinematic

import (
	"fmt"
	"math"
)

// Leg is one constant-acceleration segment: x(t) = From + V0*t + A*t*t/2 for
// t in [0, Duration]. Units are whatever the caller uses (degrees and ms in
// this repo).
type Leg struct {
	From     float64
	V0       float64
	A        float64
	Duration float64
}

func clamp(t, lo, hi float64) float64 {
	if t < lo {
		return lo
	}
	if t > hi {
		return hi
	}
	return t
}

// At evaluates the position at local time t, clamped into the leg.
func (l Leg) At(t float64) float64 {
	t = clamp(t, 0, l.Duration)
	return l.From + l.V0*t + 0.5*l.A*t*t
}

// VelocityAt is the derivative of At.
func (l Leg) VelocityAt(t float64) float64 {
	t = clamp(t, 0, l.Duration)
	return l.V0 + l.A*t
}

func (l Leg) End() float64         { return l.At(l.Duration) }
func (l Leg) EndVelocity() float64 { return l.VelocityAt(l.Duration) }
func (l Leg) Distance() float64    { return l.End() - l.From }

// Reach returns the leg that starts at from with velocity v0 and covers delta
// in exactly duration.
func Reach(from, v0, delta, duration float64) Leg {
	a := (delta - v0*duration) * 2 / (duration * duration)
	return checked(Leg{From: from, V0: v0, A: a, Duration: duration})
}

// Halt returns the leg that starts at from with velocity v0 and comes to rest
// after covering delta. v0 and delta must share a sign.
func Halt(from, v0, delta float64) Leg {
	a := -(v0 * v0) / (2 * delta)
	d := math.Sqrt(2 * delta / -a)
	return checked(Leg{From: from, V0: v0, A: a, Duration: d})
}

// Uniform covers delta at constant speed.
func Uniform(from, delta, duration float64) Leg {
	return checked(Leg{From: from, V0: delta / duration, Duration: duration})
}

// checked panics on non-finite parameters: they can only come from a broken
// caller, never from validated configuration.
func checked(l Leg) Leg {
	for _, v := range []float64{l.From, l.V0, l.A, l.Duration} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("kinematic: non-finite leg %+v", l))
		}
	}
	if l.Duration < 0 {
		panic(fmt.Sprintf("kinematic: negative duration %+v", l))
	}
	return l
}
