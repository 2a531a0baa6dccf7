// Package selftest drives LED check patterns through the render engine's
// override hook.
package selftest

import (
	"fmt"
	"strings"

	"github.com/coreman2200/powerring/internal/render"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"
	RGBTest    Kind = "rgb_channels"
	Compass    Kind = "compass"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case IndexSweep, RGBTest, Compass:
		return k, nil
	}
	return None, fmt.Errorf("unknown self-test %q", s)
}

type Plan struct {
	Kind Kind
	// Hold repeats each pattern step for this many frames.
	Hold int
}

// Runner steps through a plan one frame at a time.
type Runner struct {
	plan  Plan
	step  int
	frame int
}

func NewRunner(plan Plan) *Runner {
	if plan.Hold <= 0 {
		plan.Hold = 1
	}
	return &Runner{plan: plan}
}

func (r *Runner) Kind() Kind { return r.plan.Kind }

// Step fills dst with the current pattern; returns false when complete.
func (r *Runner) Step(dst []render.Color) bool {
	n := len(dst)
	for i := range dst {
		dst[i] = render.Color{}
	}

	switch r.plan.Kind {
	case IndexSweep:
		if r.step >= n {
			return false
		}
		dst[r.step] = render.Color{R: 1, G: 1, B: 1}
	case RGBTest:
		if r.step >= 3 {
			return false
		}
		for i := range dst {
			switch r.step {
			case 0:
				dst[i].R = 1
			case 1:
				dst[i].G = 1
			case 2:
				dst[i].B = 1
			}
		}
	case Compass:
		// one pass: LED 0 red, the quarter marks green
		if r.step >= 1 {
			return false
		}
		for q := 1; q < 4 && n >= 4; q++ {
			dst[q*n/4].G = 1
		}
		if n > 0 {
			dst[0].R = 1
		}
	default:
		return false
	}

	r.frame++
	if r.frame >= r.plan.Hold {
		r.frame = 0
		r.step++
	}
	return true
}

// Override adapts the runner to render.Engine.SetOverride.
func (r *Runner) Override() render.Override { return r.Step }
