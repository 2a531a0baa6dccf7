package led

import (
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// DefaultFreq suits WS2812 strips driven over SPI.
const DefaultFreq = 2500 * physic.KiloHertz

// Strip drives an NRZ LED strip (WS2812 and friends) through an SPI port.
type Strip struct {
	dev  *nrzled.Dev
	port spi.PortCloser
	n    int
}

// OpenStrip initializes the host drivers and opens the named SPI port ("" is
// the first one available).
func OpenStrip(port string, leds int, freq physic.Frequency) (*Strip, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "periph host init")
	}
	p, err := spireg.Open(port)
	if err != nil {
		return nil, errors.Wrapf(err, "open spi port %q", port)
	}
	s, err := NewStrip(p, leds, freq)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return s, nil
}

// NewStrip wraps an already open port. The strip is blanked.
func NewStrip(p spi.PortCloser, leds int, freq physic.Frequency) (*Strip, error) {
	if leds <= 0 {
		return nil, errors.Errorf("invalid LED count: %d", leds)
	}
	if freq <= 0 {
		freq = DefaultFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: leds, Channels: 3, Freq: freq})
	if err != nil {
		return nil, errors.Wrap(err, "nrzled")
	}
	if err := d.Halt(); err != nil {
		return nil, errors.Wrap(err, "blank strip")
	}
	return &Strip{dev: d, port: p, n: leds}, nil
}

func (s *Strip) String() string { return s.dev.String() }

func (s *Strip) Write(rgb []byte) error {
	if len(rgb) != s.n*3 {
		return errors.Errorf("rgb length %d does not match count %d", len(rgb), s.n)
	}
	if _, err := s.dev.Write(rgb); err != nil {
		return errors.Wrap(err, "nrzled write")
	}
	return nil
}

// Close blanks the strip and releases the port.
func (s *Strip) Close() error {
	herr := s.dev.Halt()
	if err := s.port.Close(); err != nil {
		return errors.Wrap(err, "close spi port")
	}
	return errors.Wrap(herr, "blank strip")
}
