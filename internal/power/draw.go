package power

import "github.com/coreman2200/powerring/internal/render"

// drawOffset turns widget angles (0 at twelve o'clock) into canvas angles.
const drawOffset = -90.0

// Draw paints the current frame: motion-blur shadows, the ring, then the
// inner icon.
func (v *View) Draw(c render.Canvas) {
	if !v.running {
		v.refreshPaint()
	}
	if v.state == Hidden && !v.running {
		return
	}
	sc := &v.scene
	lay := v.layout

	for _, sh := range Shadows(sc.Ring, sc.FocusOnEnd, v.paint.ring.Width) {
		st := v.paint.ring
		st.Alpha, st.Width = sh.Alpha, sh.Width
		c.DrawArc(lay.Bounds, sh.Start+drawOffset, sh.End-sh.Start, st)
	}
	c.DrawArc(lay.Bounds, sc.Ring.Start+drawOffset, sc.Ring.Sweep(), v.paint.ring)

	if !v.cfg.InnerView {
		return
	}
	in := v.paint.inner
	in.Alpha = sc.InnerAlpha
	c.DrawArc(lay.Inner, sc.InnerStart+drawOffset, sc.InnerEnd-sc.InnerStart, in)
	if sc.Line1 != nil {
		c.DrawLine(*sc.Line1, in)
	}
	if sc.Line2 != nil {
		c.DrawLine(*sc.Line2, in)
	}
}
