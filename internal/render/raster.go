package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/coreman2200/powerring/internal/geometry"
)

// capSegments is how many edges approximate a round cap.
const capSegments = 8

// Raster is a Canvas that paints anti-aliased strokes into an image. Widget
// coordinates are multiplied by Scale.
type Raster struct {
	Scale      float64
	Background color.NRGBA

	img *image.NRGBA
	z   *vector.Rasterizer
}

func NewRaster(w, h int, scale float64) *Raster {
	if scale <= 0 {
		scale = 1
	}
	return &Raster{
		Scale: scale,
		img:   image.NewNRGBA(image.Rect(0, 0, w, h)),
		z:     vector.NewRasterizer(w, h),
	}
}

func (r *Raster) Image() *image.NRGBA { return r.img }

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)
}

// Scaled resamples the raster into a w×h image.
func (r *Raster) Scaled(w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), r.img, r.img.Bounds(), xdraw.Src, nil)
	return dst
}

func (r *Raster) fill(s Stroke, path func(z *vector.Rasterizer)) {
	if s.Alpha == 0 || s.Width <= 0 {
		return
	}
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	r.z.DrawOp = draw.Over
	path(r.z)
	src := s.Color.NRGBA()
	src.A = s.Alpha
	r.z.Draw(r.img, b, image.NewUniform(src), image.Point{})
}

type pt struct{ x, y float64 }

func (r *Raster) polygon(z *vector.Rasterizer, pts []pt) {
	if len(pts) < 3 {
		return
	}
	z.MoveTo(float32(pts[0].x*r.Scale), float32(pts[0].y*r.Scale))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.x*r.Scale), float32(p.y*r.Scale))
	}
	z.ClosePath()
}

// halfTurn appends a semicircle of radius rad around c, starting at angle
// from (radians) and turning by pi in direction dir.
func halfTurn(pts []pt, c pt, rad, from, dir float64) []pt {
	for i := 1; i < capSegments; i++ {
		a := from + dir*math.Pi*float64(i)/capSegments
		pts = append(pts, pt{c.x + rad*math.Cos(a), c.y + rad*math.Sin(a)})
	}
	return pts
}

// DrawArc strokes the arc of the ellipse inscribed in oval with round caps.
// Sweeps beyond a full turn draw a closed ring.
func (r *Raster) DrawArc(oval geometry.Rect, startDeg, sweepDeg float64, s Stroke) {
	if sweepDeg == 0 {
		return
	}
	cx, cy := oval.CenterX(), oval.CenterY()
	rx, ry := oval.Width()/2, oval.Height()/2
	hw := s.Width / 2
	at := func(deg, grow float64) pt {
		a := deg * math.Pi / 180
		return pt{cx + (rx+grow)*math.Cos(a), cy + (ry+grow)*math.Sin(a)}
	}

	if math.Abs(sweepDeg) >= 360 {
		n := arcSegments(360, math.Max(rx, ry))
		outer := make([]pt, 0, n+1)
		inner := make([]pt, 0, n+1)
		for i := 0; i <= n; i++ {
			d := 360 * float64(i) / float64(n)
			outer = append(outer, at(d, hw))
			inner = append(inner, at(-d, -hw))
		}
		r.fill(s, func(z *vector.Rasterizer) {
			r.polygon(z, outer)
			r.polygon(z, inner)
		})
		return
	}

	n := arcSegments(math.Abs(sweepDeg), math.Max(rx, ry))
	pts := make([]pt, 0, 2*(n+1)+2*capSegments)
	for i := 0; i <= n; i++ {
		pts = append(pts, at(startDeg+sweepDeg*float64(i)/float64(n), hw))
	}
	dir := math.Copysign(1, sweepDeg)
	end := (startDeg + sweepDeg) * math.Pi / 180
	pts = halfTurn(pts, at(startDeg+sweepDeg, 0), hw, end, dir)
	for i := n; i >= 0; i-- {
		pts = append(pts, at(startDeg+sweepDeg*float64(i)/float64(n), -hw))
	}
	pts = halfTurn(pts, at(startDeg, 0), hw, startDeg*math.Pi/180+math.Pi, dir)
	r.fill(s, func(z *vector.Rasterizer) { r.polygon(z, pts) })
}

// arcSegments keeps chords around two pixels long.
func arcSegments(sweepDeg, radius float64) int {
	n := int(math.Ceil(sweepDeg * math.Pi / 180 * radius / 2))
	if n < 4 {
		n = 4
	}
	if n > 720 {
		n = 720
	}
	return n
}

// DrawLine strokes l with round caps. A collapsed line draws a dot.
func (r *Raster) DrawLine(l geometry.Line, s Stroke) {
	hw := s.Width / 2
	dx, dy := l.StopX-l.StartX, l.StopY-l.StartY
	ang := math.Atan2(dy, dx)
	nx, ny := -math.Sin(ang)*hw, math.Cos(ang)*hw

	a, b := pt{l.StartX, l.StartY}, pt{l.StopX, l.StopY}
	pts := []pt{{a.x + nx, a.y + ny}, {b.x + nx, b.y + ny}}
	pts = halfTurn(pts, b, hw, ang+math.Pi/2, -1)
	pts = append(pts, pt{b.x - nx, b.y - ny}, pt{a.x - nx, a.y - ny})
	pts = halfTurn(pts, a, hw, ang-math.Pi/2, -1)
	r.fill(s, func(z *vector.Rasterizer) { r.polygon(z, pts) })
}

// Sample averages the 3×3 block of pixels around widget point (x, y) into
// an LED color. Transparent pixels read as black.
func (r *Raster) Sample(x, y float64) Color {
	px, py := int(math.Round(x*r.Scale)), int(math.Round(y*r.Scale))
	b := r.img.Bounds()
	var sum Color
	n := 0
	for j := py - 1; j <= py+1; j++ {
		for i := px - 1; i <= px+1; i++ {
			if !(image.Point{X: i, Y: j}).In(b) {
				continue
			}
			c := r.img.NRGBAAt(i, j)
			a := float32(c.A) / 255
			sum.R += float32(c.R) / 255 * a
			sum.G += float32(c.G) / 255 * a
			sum.B += float32(c.B) / 255 * a
			n++
		}
	}
	if n == 0 {
		return Color{}
	}
	k := 1 / float32(n)
	return Color{sum.R * k, sum.G * k, sum.B * k}
}
