package kinematic

// Chain is an ordered list of legs where each leg starts where the previous
// one ended, at the previous leg's end velocity. Chains are values: every
// builder method returns a new chain.
type Chain struct {
	from float64
	v0   float64
	legs []Leg
}

// Begin starts a chain at rest.
func Begin(from float64) Chain { return Chain{from: from} }

// BeginAt starts a chain already moving at v0.
func BeginAt(from, v0 float64) Chain { return Chain{from: from, v0: v0} }

func (c Chain) with(l Leg) Chain {
	legs := make([]Leg, len(c.legs), len(c.legs)+1)
	copy(legs, c.legs)
	return Chain{from: c.from, v0: c.v0, legs: append(legs, l)}
}

// Reach appends a leg covering delta in duration from the current velocity.
func (c Chain) Reach(delta, duration float64) Chain {
	return c.with(Reach(c.End(), c.EndVelocity(), delta, duration))
}

// Halt appends a leg that decelerates to rest over delta.
func (c Chain) Halt(delta float64) Chain {
	return c.with(Halt(c.End(), c.EndVelocity(), delta))
}

func (c Chain) Legs() []Leg {
	out := make([]Leg, len(c.legs))
	copy(out, c.legs)
	return out
}

func (c Chain) Len() int       { return len(c.legs) }
func (c Chain) Leg(i int) Leg  { return c.legs[i] }
func (c Chain) Start() float64 { return c.from }

func (c Chain) End() float64 {
	if len(c.legs) == 0 {
		return c.from
	}
	return c.legs[len(c.legs)-1].End()
}

func (c Chain) EndVelocity() float64 {
	if len(c.legs) == 0 {
		return c.v0
	}
	return c.legs[len(c.legs)-1].EndVelocity()
}

func (c Chain) Duration() float64 {
	total := 0.0
	for _, l := range c.legs {
		total += l.Duration
	}
	return total
}

func (c Chain) Distance() float64 { return c.End() - c.from }

// locate finds the leg covering chain time t and the local time inside it.
func (c Chain) locate(t float64) (Leg, float64, bool) {
	if len(c.legs) == 0 {
		return Leg{}, 0, false
	}
	if t < 0 {
		t = 0
	}
	acc := 0.0
	for _, l := range c.legs {
		if t <= acc+l.Duration {
			return l, t - acc, true
		}
		acc += l.Duration
	}
	last := c.legs[len(c.legs)-1]
	return last, last.Duration, true
}

// At evaluates the chain piecewise at chain time t.
func (c Chain) At(t float64) float64 {
	l, lt, ok := c.locate(t)
	if !ok {
		return c.from
	}
	return l.At(lt)
}

func (c Chain) VelocityAt(t float64) float64 {
	l, lt, ok := c.locate(t)
	if !ok {
		return c.v0
	}
	return l.VelocityAt(lt)
}

// Joins reports, for every boundary between consecutive legs, the velocity
// at the end of the earlier leg minus the velocity at the start of the later.
func (c Chain) Joins() []float64 {
	if len(c.legs) < 2 {
		return nil
	}
	out := make([]float64, 0, len(c.legs)-1)
	for i := 1; i < len(c.legs); i++ {
		out = append(out, c.legs[i-1].EndVelocity()-c.legs[i].V0)
	}
	return out
}
