package power

import (
	"fmt"
	"time"

	"github.com/coreman2200/powerring/internal/anim"
	"github.com/coreman2200/powerring/internal/render"
)

// Config holds everything the host can tune. Colors and stroke widths reach
// the screen at the next non-animating draw; durations are read when a
// transition starts.
type Config struct {
	Size           float64
	Color          render.ARGB
	InnerColor     render.ARGB
	Thickness      float64
	InnerThickness float64
	Density        float64

	ShowDuration          time.Duration
	IndeterminateDuration time.Duration
	SucceedDuration       time.Duration
	Delay                 time.Duration

	AutoStart      bool
	InnerView      bool
	FirstAnimation bool
	State          State
}

func DefaultConfig() Config {
	return Config{
		Size:                  300,
		Color:                 render.RGB(85, 164, 241),
		InnerColor:            render.RGB(0, 0, 0),
		Thickness:             4,
		InnerThickness:        3,
		Density:               1,
		ShowDuration:          400 * time.Millisecond,
		IndeterminateDuration: 600 * time.Millisecond,
		SucceedDuration:       400 * time.Millisecond,
		Delay:                 80 * time.Millisecond,
		AutoStart:             true,
		InnerView:             true,
		FirstAnimation:        true,
		State:                 Hidden,
	}
}

const minDuration = time.Duration(anim.MinDuration * float64(time.Millisecond))

// Normalize clamps values the widget cannot animate with. Each adjustment is
// described in the returned slice.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	dur := func(name string, d *time.Duration) {
		if *d < minDuration {
			notes = append(notes, fmt.Sprintf("%s %v clamped to %v", name, *d, minDuration))
			*d = minDuration
		}
	}
	dur("show duration", &c.ShowDuration)
	dur("indeterminate duration", &c.IndeterminateDuration)
	dur("succeed duration", &c.SucceedDuration)
	if c.Delay < 0 {
		notes = append(notes, fmt.Sprintf("delay %v clamped to 0", c.Delay))
		c.Delay = 0
	}
	if c.Size < 1 {
		notes = append(notes, fmt.Sprintf("size %v clamped to 1", c.Size))
		c.Size = 1
	}
	if c.Thickness < 0 {
		notes = append(notes, fmt.Sprintf("thickness %v clamped to 0", c.Thickness))
		c.Thickness = 0
	}
	if c.InnerThickness < 0 {
		notes = append(notes, fmt.Sprintf("inner thickness %v clamped to 0", c.InnerThickness))
		c.InnerThickness = 0
	}
	if c.Density <= 0 {
		notes = append(notes, fmt.Sprintf("density %v reset to 1", c.Density))
		c.Density = 1
	}
	if c.State < Hidden || c.State > Reloading {
		notes = append(notes, fmt.Sprintf("state %v reset to hidden", c.State))
		c.State = Hidden
	}
	return c, notes
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
