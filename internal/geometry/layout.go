package geometry

// Layout is everything the widget draws against for one viewport size.
type Layout struct {
	Size           float64
	Thickness      float64
	InnerThickness float64
	Density        float64

	Bounds Rect
	Inner  Rect

	// Success1 and Success2 are the two strokes of the checkmark.
	Success1, Success2 Line
	// Power is the vertical bar of the power icon.
	Power Line
}

// InnerDiameter is the size of the inner icon box before padding.
func InnerDiameter(size, innerThickness, density float64) float64 {
	return size/3 + density*innerThickness/2
}

// NewLayout derives the bounds and icon strokes for a square viewport.
func NewLayout(size, thickness, innerThickness, density float64) Layout {
	l := Layout{
		Size:           size,
		Thickness:      thickness,
		InnerThickness: innerThickness,
		Density:        density,
	}
	l.Bounds = Rect{Left: thickness, Top: thickness, Right: size - thickness, Bottom: size - thickness}

	pad := (size - InnerDiameter(size, innerThickness, density)) / 2
	l.Inner = Rect{
		Left:   l.Bounds.Left + pad,
		Top:    innerThickness + pad,
		Right:  size - innerThickness - pad,
		Bottom: size - innerThickness - pad,
	}

	w, h := l.Inner.Width(), l.Inner.Height()
	cx, cy := l.Inner.CenterX(), l.Inner.CenterY()

	// checkmark: 45° down-stroke into the corner, then 45° up to the right edge
	l.Success1.StopY = l.Inner.Bottom - h/5
	l.Success1.StopX = cx - w/6
	l.Success1.StartX = l.Inner.Left
	l.Success1.StartY = l.Success1.StopY - (l.Success1.StopX - l.Success1.StartX)

	l.Success2.StartX = l.Success1.StopX
	l.Success2.StartY = l.Success1.StopY
	l.Success2.StopX = l.Inner.Right
	l.Success2.StopY = l.Success2.StartY + (l.Success2.StartX - l.Success2.StopX)

	l.Power = Line{
		StartX: cx,
		StartY: l.Inner.Top - density*4,
		StopX:  cx,
		StopY:  cy + density*2,
	}
	return l
}
