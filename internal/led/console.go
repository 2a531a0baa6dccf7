package led

import (
	"github.com/pkg/errors"
	"periph.io/x/devices/v3/screen1d"
)

// Console prints the strip as a row of colored cells on the terminal.
type Console struct {
	dev *screen1d.Dev
	n   int
}

func NewConsole(leds int) *Console {
	return &Console{dev: screen1d.New(&screen1d.Opts{X: leds}), n: leds}
}

func (c *Console) Write(rgb []byte) error {
	if len(rgb) != c.n*3 {
		return errors.Errorf("rgb length %d does not match count %d", len(rgb), c.n)
	}
	_, err := c.dev.Write(rgb)
	return errors.Wrap(err, "console write")
}

func (c *Console) Close() error { return c.dev.Halt() }
