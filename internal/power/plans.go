package power

import (
	"math"

	"github.com/coreman2200/powerring/internal/anim"
	"github.com/coreman2200/powerring/internal/kinematic"
)

// Angles are degrees, times are ms. Drawing rotates every angle by -90 so
// that 0 sits at twelve o'clock.
const (
	revealOrigin  = -90.0
	revealSeed    = 10.0 // arc length the reveal starts from
	revealNudge   = 80.0 // duration of each of the two opening nudges
	revealTravel  = 90.0 // the nudges carry the arc start from -90 to 0
	fullTurn      = 360.0
	lapOvershoot  = 110.0
	lapCatchup    = 250.0
	lapEndLead    = 160.0
	lapEndCatchup = 420.0 // three quarters of 560
	lapEndSettle  = 140.0

	innerRestStart = 45.0
	innerRestEnd   = 315.0
	innerPivot     = 200.0
	innerReturn    = 405.0
	innerCollapse  = -90.0

	lineToggle = 140.0 // power line hide / regrow
	innerLag   = 140.0 // inner loop starts this long after the ring

	reloadStartSwing = 250.0
	reloadEndSwing   = 605.0 // a full turn plus the start swing, less 5
	reloadEndFrom    = -245.0
	reloadEndTo      = -366.0
	reloadEndFloor   = -360.0
	reloadTailSwing  = 470.0 // a full turn plus what the start still owes

	unmorphSweep = 405.0 // inner arc end from -90 to 315
)

func atLeast(d float64) float64 { return math.Max(d, anim.MinDuration) }

type revealPlan struct {
	Nudge1, Nudge2 kinematic.Leg
	// Sweep carries the arc end from the seed to a full turn.
	Sweep kinematic.Chain
}

func planReveal(showMS float64) revealPlan {
	leg := atLeast((showMS - 2*revealNudge) / 2)
	half := (fullTurn - revealSeed) / 2
	return revealPlan{
		Nudge1: kinematic.Uniform(revealOrigin, revealSeed, revealNudge),
		Nudge2: kinematic.Uniform(revealOrigin+revealSeed, revealTravel-revealSeed, revealNudge),
		Sweep:  kinematic.Begin(revealSeed).Reach(half, leg).Halt(half),
	}
}

// lapPlan is one indeterminate lap of the ring. Start: accelerate a full
// turn, coast to rest over the overshoot, accelerate again. End: lead,
// catch up, settle. The lap ends when the end track settles.
type lapPlan struct {
	Start kinematic.Chain
	End   kinematic.Chain
}

func planLap(d float64) lapPlan {
	d = atLeast(d)
	first := kinematic.Begin(0).Reach(fullTurn, d).Halt(lapOvershoot)
	span := first.Duration()
	return lapPlan{
		Start: first.Reach(lapCatchup, span),
		End:   kinematic.Begin(fullTurn).Reach(lapEndLead, span).Reach(lapEndCatchup, span*3/4).Halt(lapEndSettle),
	}
}

func (p lapPlan) Duration() float64 { return p.End.Duration() }

// returnRatio is the share of the inner power return spent accelerating.
// Shorter loop durations accelerate for longer.
func returnRatio(indeterminateMS float64) float64 {
	steps := (700 - int64(indeterminateMS)) / 100
	r := math.Max(0.1-float64(steps)*0.02, 0.005)
	return math.Min(r, 0.95)
}

// innerPowerPlan rewinds the power arc through a pivot, pauses, then
// swings it back to rest.
type innerPowerPlan struct {
	Rewind, Return float64
	Start1, End1   kinematic.Chain
	Start2, End2   kinematic.Chain
}

func planInnerPower(maxMS, delayMS, indeterminateMS float64) innerPowerPlan {
	dur := atLeast((maxMS - 4*delayMS) / 2)
	v := innerRestEnd / dur
	pivotT := innerPivot / v
	ratio := returnRatio(indeterminateMS)
	back := innerReturn * ratio
	return innerPowerPlan{
		Rewind: dur,
		Return: dur,
		Start1: kinematic.BeginAt(innerRestStart, -v).
			Reach(-innerPivot, pivotT).
			Reach(-(fullTurn - (innerPivot - innerRestStart)), dur-pivotT),
		End1:   kinematic.BeginAt(innerRestEnd, -v).Reach(-innerRestEnd, dur),
		Start2: kinematic.BeginAt(0, -innerRestEnd/dur).Reach(-innerRestEnd, dur),
		End2:   kinematic.Begin(fullTurn).Reach(-back, dur*ratio).Reach(-(innerReturn - back), dur*(1-ratio)),
	}
}

// innerSuccessPlan collapses the power arc to -90 and then draws the
// checkmark, each over a third of the lap.
type innerSuccessPlan struct {
	Collapse   float64
	Start, End kinematic.Chain
}

func planInnerSuccess(maxMS float64) innerSuccessPlan {
	d := atLeast(maxMS / 3)
	return innerSuccessPlan{
		Collapse: d,
		Start:    kinematic.BeginAt(innerRestStart, (innerCollapse-innerRestStart)/d).Reach(innerCollapse-innerRestStart, d),
		End:      kinematic.Begin(innerRestEnd).Reach(innerCollapse-innerRestEnd, d),
	}
}

// reloadPlan spins the ring backwards and lands on a full turn.
type reloadPlan struct {
	Half             float64
	MaxStartVelocity float64
	Start1           kinematic.Leg
	End1             kinematic.Chain
	End2             kinematic.Leg
	Start2           kinematic.Chain
}

func planReload(d float64) reloadPlan {
	d = atLeast(d)
	half := d / 2
	return reloadPlan{
		Half:             half,
		MaxStartVelocity: reloadStartSwing / half,
		Start1:           kinematic.Uniform(0, -reloadStartSwing, d),
		End1:             kinematic.Begin(fullTurn).Reach(-reloadEndSwing/2, half).Halt(-reloadEndSwing / 2),
		End2:             kinematic.Uniform(reloadEndFrom, reloadEndTo-reloadEndFrom, d),
		Start2:           kinematic.Begin(-reloadStartSwing).Reach(-reloadTailSwing/2, half).Halt(-reloadTailSwing / 2),
	}
}

// unmorphPlan turns the checkmark back into the power icon over two loop
// durations: retract each stroke, then regrow the arc and power line.
type unmorphPlan struct {
	Stroke float64
	Arc    float64
	Line   float64
	Start  kinematic.Leg
	End    kinematic.Chain
}

func planUnmorph(d float64) unmorphPlan {
	total := 2 * atLeast(d)
	stroke := total / 8
	arc := total - 2*stroke
	return unmorphPlan{
		Stroke: stroke,
		Arc:    arc,
		Line:   arc / 4,
		Start:  kinematic.Uniform(innerCollapse, innerRestStart-innerCollapse, arc),
		End:    kinematic.Begin(innerCollapse).Reach(unmorphSweep/2, arc/2).Halt(unmorphSweep / 2),
	}
}
