package led

import (
	"math"

	"github.com/coreman2200/powerring/internal/render"
)

// BuildRing places count LEDs evenly around the ring. offsetDeg is where LED
// 0 sits (0 = twelve o'clock); reverse runs the strip counter-clockwise.
func BuildRing(count int, offsetDeg float64, reverse bool) render.Ring {
	if count <= 0 {
		return render.Ring{}
	}
	step := 360 / float64(count)
	if reverse {
		step = -step
	}
	out := make([]float64, count)
	for i := range out {
		a := math.Mod(offsetDeg+float64(i)*step, 360)
		if a < 0 {
			a += 360
		}
		out[i] = a
	}
	return render.Ring{Angles: out}
}
