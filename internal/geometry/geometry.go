package geometry

import "math"

// Rect is an axis-aligned box in view pixels.
type Rect struct {
	Left, Top, Right, Bottom float64
}

func (r Rect) Width() float64   { return r.Right - r.Left }
func (r Rect) Height() float64  { return r.Bottom - r.Top }
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Line is a segment. It is a plain value: assigning it copies it.
type Line struct {
	StartX, StartY float64
	StopX, StopY   float64
}

// Len is the Euclidean length.
func (l Line) Len() float64 {
	dx, dy := l.StopX-l.StartX, l.StopY-l.StartY
	return math.Hypot(dx, dy)
}

// Collapsed returns a zero-length line sitting on l's start point.
func (l Line) Collapsed() Line {
	return Line{StartX: l.StartX, StartY: l.StartY, StopX: l.StartX, StopY: l.StartY}
}

// Partial keeps the start point and moves the stop point a fraction f of the
// way from start to stop.
func (l Line) Partial(f float64) Line {
	return Line{
		StartX: l.StartX,
		StartY: l.StartY,
		StopX:  l.StartX + (l.StopX-l.StartX)*f,
		StopY:  l.StartY + (l.StopY-l.StartY)*f,
	}
}

// PartialFromStop keeps the stop point and grows the start point back toward
// the original start by fraction f.
func (l Line) PartialFromStop(f float64) Line {
	return Line{
		StartX: l.StopX + (l.StartX-l.StopX)*f,
		StartY: l.StopY + (l.StartY-l.StopY)*f,
		StopX:  l.StopX,
		StopY:  l.StopY,
	}
}
