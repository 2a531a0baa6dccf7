package led

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/coreman2200/powerring/internal/render"
)

// Driver abstracts an LED output sink.
type Driver interface {
	// Write pushes an RGB frame to hardware. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases resources.
	Close() error
}

// Order is the byte order a strip expects, e.g. "GRB".
type Order [3]byte

func ParseOrder(s string) (Order, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 3 || !strings.ContainsRune(s, 'R') || !strings.ContainsRune(s, 'G') || !strings.ContainsRune(s, 'B') {
		return Order{}, errors.Errorf("invalid color order %q", s)
	}
	return Order{s[0], s[1], s[2]}, nil
}

func (o Order) String() string { return string(o[:]) }

func quantize(v float32) byte {
	return byte(math.Round(float64(min(max(v, 0), 1)) * 255))
}

// Encode packs frame into dst (3 bytes per LED) in the given order.
func Encode(dst []byte, frame []render.Color, order Order) {
	for i, c := range frame {
		if i*3+2 >= len(dst) {
			return
		}
		for k, ch := range order {
			var v float32
			switch ch {
			case 'R':
				v = c.R
			case 'G':
				v = c.G
			case 'B':
				v = c.B
			}
			dst[i*3+k] = quantize(v)
		}
	}
}

// Output adapts a byte Driver to the render engine.
type Output struct {
	drv   Driver
	order Order
	buf   []byte
}

func NewOutput(drv Driver, colorOrder string) (*Output, error) {
	if drv == nil {
		return nil, errors.New("nil driver")
	}
	order, err := ParseOrder(colorOrder)
	if err != nil {
		return nil, err
	}
	return &Output{drv: drv, order: order}, nil
}

func (o *Output) Write(frame []render.Color) error {
	if n := len(frame) * 3; len(o.buf) != n {
		o.buf = make([]byte, n)
	}
	Encode(o.buf, frame, o.order)
	return o.drv.Write(o.buf)
}

func (o *Output) Close() error { return o.drv.Close() }
