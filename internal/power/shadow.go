package power

import "math"

const shadowSteps = 3

// Shadow is one motion-blur arc drawn under the ring.
type Shadow struct {
	Step       int
	Start, End float64
	Alpha      uint8
	Width      float64
}

// shadowLength is how far an edge moving at v is smeared for a step. The
// leading edge gets three times the trailing edge's smear.
func shadowLength(v float64, step int, leading bool) float64 {
	k := 5.0
	if leading {
		k = 15
	}
	return k * math.Pow(2, float64(step-1)) * v
}

// Shadows derives the blur arcs for the ring, outermost step first.
func Shadows(g ArcGeometry, focusOnEnd bool, thickness float64) []Shadow {
	out := make([]Shadow, 0, shadowSteps)
	for step := shadowSteps; step >= 1; step-- {
		s := Shadow{
			Step:  step,
			Start: g.Start,
			End:   g.End,
			Alpha: uint8(180 / step),
			Width: thickness / float64(step+1),
		}
		if g.StartVelocity > 0 {
			s.Start -= shadowLength(g.StartVelocity, step, !focusOnEnd)
		}
		if g.EndVelocity > 0 {
			s.End += shadowLength(g.EndVelocity, step, focusOnEnd)
		}
		out = append(out, s)
	}
	return out
}
