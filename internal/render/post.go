package render

import "math"

// Uniform parameter keys read by the post stages.
const (
	ParamWhiteCap    = "WhiteCap"    // cap on R+G+B per LED, linear; 3 = off
	ParamChanMA      = "LEDChan_mA"  // current per channel at full scale
	ParamBudgetMA    = "Budget_mA"   // whole-strip budget; 0 = off
	ParamKnee        = "LimiterKnee" // fraction of the budget where scaling starts
	ParamExposureEV  = "ExposureEV"
	ParamGamma       = "OutputGamma"
	ParamPersistence = "Persistence" // trail decay 0..1
	ParamPreview     = "PreviewMode" // > 0.5 bypasses the limiter
)

// PostPipeline groups post stages; all are optional.
type PostPipeline struct {
	ToneMap func([]Color)
	Limiter func([]Color, *Uniforms)
}

func param(u *Uniforms, key string, def float64) float64 {
	if u == nil || u.Params == nil {
		return def
	}
	if v, ok := u.Params[key]; ok {
		return v
	}
	return def
}

// FilmicToneMap applies exposure, an ACES fit and output gamma.
func FilmicToneMap(buf []Color, u *Uniforms) {
	exposure := float32(math.Pow(2, param(u, ParamExposureEV, 0)))
	gamma := param(u, ParamGamma, 2.2)
	if gamma <= 0 {
		gamma = 2.2
	}
	inv := 1 / gamma
	curve := func(x float32) float32 {
		x = acesApprox(x * exposure)
		if gamma != 1 {
			x = powf(x, inv)
		}
		return clamp01(x)
	}
	for i := range buf {
		buf[i] = Color{curve(buf[i].R), curve(buf[i].G), curve(buf[i].B)}
	}
}

// DefaultLimiter caps per-LED white, then scales the frame to stay under the
// current budget with a soft knee.
//
// Parameters (read from uniforms.Params): WhiteCap, LEDChan_mA, Budget_mA,
// LimiterKnee, PreviewMode.
func DefaultLimiter(buf []Color, u *Uniforms) {
	if u == nil || param(u, ParamPreview, 0) > 0.5 {
		return
	}

	if wc := float32(param(u, ParamWhiteCap, 3)); wc > 0 {
		for i := range buf {
			s := buf[i].R + buf[i].G + buf[i].B
			if s > wc {
				k := wc / s
				buf[i] = Color{buf[i].R * k, buf[i].G * k, buf[i].B * k}
			}
		}
	}

	budget := param(u, ParamBudgetMA, 0)
	if budget <= 0 {
		return
	}
	chanMA := param(u, ParamChanMA, 20)
	if chanMA <= 0 {
		chanMA = 20
	}
	knee := param(u, ParamKnee, 0.9)
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}

	total := EstimateCurrent(buf, chanMA)
	kneeMA := knee * budget
	if total <= kneeMA {
		return
	}
	// above the knee the excess is halved, and the budget is a hard ceiling
	target := math.Min(kneeMA+(total-kneeMA)/2, budget)
	scale(buf, float32(target/total))
}

// EstimateCurrent is the strip draw in mA under a linear per-channel model.
func EstimateCurrent(buf []Color, chanMA float64) float64 {
	var total float64
	for _, c := range buf {
		total += float64(c.R+c.G+c.B) * chanMA
	}
	return total
}

// Brightness scales the frame by the global brightness.
func Brightness(buf []Color, u *Uniforms) {
	if u == nil || u.GlobalBrightness >= 1 {
		return
	}
	scale(buf, float32(math.Max(u.GlobalBrightness, 0)))
}

func scale(buf []Color, s float32) {
	if s >= 1 {
		return
	}
	for i := range buf {
		buf[i].R *= s
		buf[i].G *= s
		buf[i].B *= s
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func powf(x float32, p float64) float32 {
	return float32(math.Pow(float64(x), p))
}

// Approximate ACES filmic curve (Narkowicz 2015).
func acesApprox(x float32) float32 {
	const a, b, c, d, e = 2.51, 0.03, 2.43, 0.59, 0.14
	return clamp01((x * (a*x + b)) / (x*(c*x+d) + e))
}
