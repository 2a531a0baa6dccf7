package power

import "github.com/coreman2200/powerring/internal/geometry"

// ArcGeometry is an arc in degrees plus the speed of each edge in
// degrees per ms. Velocities only feed the motion-blur shadows.
type ArcGeometry struct {
	Start, End float64

	StartVelocity, EndVelocity float64
}

func (a ArcGeometry) Sweep() float64 { return a.End - a.Start }

// Scene is the complete animated state of the widget. Only the state
// machine and the steps it schedules write to it.
type Scene struct {
	Ring       ArcGeometry
	FocusOnEnd bool

	InnerStart, InnerEnd float64
	// Line1 and Line2 are nil when not drawn.
	Line1, Line2 *geometry.Line
	InnerAlpha   uint8
}

// Clone deep-copies the scene.
func (s Scene) Clone() Scene {
	out := s
	if s.Line1 != nil {
		out.Line1 = linePtr(*s.Line1)
	}
	if s.Line2 != nil {
		out.Line2 = linePtr(*s.Line2)
	}
	return out
}

func linePtr(l geometry.Line) *geometry.Line { return &l }

// rest puts the ring and inner icon in their resting pose.
func (s *Scene) rest(inner Inner, lay geometry.Layout) {
	s.Ring = ArcGeometry{Start: 0, End: 360}
	s.FocusOnEnd = false
	s.showInner(inner, lay)
}

func (s *Scene) showInner(inner Inner, lay geometry.Layout) {
	switch inner {
	case InnerSuccess:
		s.InnerStart, s.InnerEnd = 0, 0
		s.Line1 = linePtr(lay.Success1)
		s.Line2 = linePtr(lay.Success2)
	default:
		s.InnerStart, s.InnerEnd = innerRestStart, innerRestEnd
		s.Line1 = linePtr(lay.Power)
		s.Line2 = nil
	}
}
