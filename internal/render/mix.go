package render

// Mix blends two framebuffers (a,b) into dst using alpha (0..1).
// Channels are linear; no gamma assumed.
func Mix(dst, a, b []Color, alpha float64) {
	if alpha <= 0 {
		copy(dst, a)
		return
	}
	if alpha >= 1 {
		copy(dst, b)
		return
	}
	af := float32(1.0 - alpha)
	bf := float32(alpha)
	for i := range dst {
		dst[i].R = a[i].R*af + b[i].R*bf
		dst[i].G = a[i].G*af + b[i].G*bf
		dst[i].B = a[i].B*af + b[i].B*bf
	}
}

// Decay keeps trails: each channel of dst becomes the larger of cur and
// prev faded by persistence (0..1).
func Decay(dst, prev, cur []Color, persistence float64) {
	if persistence <= 0 {
		copy(dst, cur)
		return
	}
	Mix(dst, cur, prev, persistence)
	for i := range dst {
		dst[i].R = max(dst[i].R, cur[i].R)
		dst[i].G = max(dst[i].G, cur[i].G)
		dst[i].B = max(dst[i].B, cur[i].B)
	}
}
