package render

import (
	"math"

	"github.com/coreman2200/powerring/internal/geometry"
)

// Ring maps a circular LED strip onto the ring stroke. Angles are widget
// degrees (0 at twelve o'clock, clockwise), one per LED in strip order.
type Ring struct {
	Angles []float64
}

func (g Ring) Len() int { return len(g.Angles) }

// Position is where LED i sits for a ring drawn in bounds.
func (g Ring) Position(i int, bounds geometry.Rect) (x, y float64) {
	a := (g.Angles[i] - 90) * math.Pi / 180
	return bounds.CenterX() + bounds.Width()/2*math.Cos(a),
		bounds.CenterY() + bounds.Height()/2*math.Sin(a)
}

// Sample reads every LED from the raster into dst.
func (g Ring) Sample(r *Raster, bounds geometry.Rect, dst []Color) {
	for i := range g.Angles {
		if i >= len(dst) {
			return
		}
		x, y := g.Position(i, bounds)
		dst[i] = r.Sample(x, y)
	}
}
