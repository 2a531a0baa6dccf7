package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ARGB is a packed 0xAARRGGBB paint color.
type ARGB uint32

const (
	alphaOffset = 24
	redOffset   = 16
	greenOffset = 8
	blueOffset  = 0
)

func NewARGB(a, r, g, b uint8) ARGB {
	return ARGB(uint32(a)<<alphaOffset | uint32(r)<<redOffset | uint32(g)<<greenOffset | uint32(b)<<blueOffset)
}

// RGB is an opaque color.
func RGB(r, g, b uint8) ARGB { return NewARGB(0xFF, r, g, b) }

func channel(c ARGB, off uint) uint8 { return uint8((uint32(c) >> off) & 0xFF) }

func setChannel(c ARGB, v uint8, off uint) ARGB {
	mask := uint32(0xFF) << off
	return ARGB((uint32(c) &^ mask) | uint32(v)<<off)
}

func (c ARGB) A() uint8 { return channel(c, alphaOffset) }
func (c ARGB) R() uint8 { return channel(c, redOffset) }
func (c ARGB) G() uint8 { return channel(c, greenOffset) }
func (c ARGB) B() uint8 { return channel(c, blueOffset) }

func (c ARGB) WithAlpha(a uint8) ARGB { return setChannel(c, a, alphaOffset) }

func (c ARGB) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R(), G: c.G(), B: c.B(), A: c.A()}
}

// Linear returns the color premultiplied by its alpha, as an LED value.
func (c ARGB) Linear() Color {
	a := float32(c.A()) / 255
	return Color{
		R: float32(c.R()) / 255 * a,
		G: float32(c.G()) / 255 * a,
		B: float32(c.B()) / 255 * a,
	}
}

func (c ARGB) String() string { return fmt.Sprintf("#%08X", uint32(c)) }

// ParseARGB accepts #RRGGBB, #AARRGGBB and the same forms prefixed with 0x.
// Six-digit forms are opaque.
func ParseARGB(s string) (ARGB, error) {
	h := strings.TrimSpace(s)
	h = strings.TrimPrefix(h, "#")
	h = strings.TrimPrefix(strings.TrimPrefix(h, "0x"), "0X")
	if len(h) != 6 && len(h) != 8 {
		return 0, fmt.Errorf("color %q: want 6 or 8 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	if len(h) == 6 {
		v |= 0xFF000000
	}
	return ARGB(v), nil
}

func (c ARGB) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ARGB) UnmarshalText(b []byte) error {
	v, err := ParseARGB(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
