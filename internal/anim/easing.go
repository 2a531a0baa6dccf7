package anim

// Easing maps normalized time in [0,1] to normalized progress.
type Easing string

const (
	Linear Easing = "linear"
	// Decelerate starts fast and slows to a stop: 1-(1-x)^2.
	Decelerate Easing = "decelerate"
)

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Apply evaluates the curve. Unknown names fall back to linear.
func (e Easing) Apply(x float64) float64 {
	x = clamp01(x)
	switch e {
	case Decelerate:
		return 1 - (1-x)*(1-x)
	default:
		return x
	}
}
