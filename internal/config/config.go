package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/coreman2200/powerring/internal/power"
	"github.com/coreman2200/powerring/internal/render"
)

type Widget struct {
	Size           float64     `yaml:"size"`
	Color          render.ARGB `yaml:"color"`
	InnerColor     render.ARGB `yaml:"inner_color"`
	Thickness      float64     `yaml:"thickness"`
	InnerThickness float64     `yaml:"inner_thickness"`
	Density        float64     `yaml:"density"`

	ShowMs          int `yaml:"show_ms"`
	IndeterminateMs int `yaml:"indeterminate_ms"`
	SucceedMs       int `yaml:"succeed_ms"`
	DelayMs         int `yaml:"delay_ms"`

	AutoStart      bool        `yaml:"auto_start"`
	InnerView      bool        `yaml:"inner_view"`
	FirstAnimation bool        `yaml:"first_animation"`
	State          power.State `yaml:"state"`
}

type PowerCfg struct {
	BudgetMA  float64 `yaml:"budget_ma"`   // 0 = no budget
	LEDChanMA float64 `yaml:"led_chan_ma"` // WS2812 ≈ 20
	WhiteCap  float64 `yaml:"white_cap"`   // 3 = no cap
	Knee      float64 `yaml:"knee"`
}

type SPI struct {
	Port    string `yaml:"port"`     // "" = first available
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2500000
}

type Output struct {
	Driver      string  `yaml:"driver"` // "sim" | "spi" | "console"
	LEDs        int     `yaml:"leds"`
	OffsetDeg   float64 `yaml:"offset_deg"`
	Reverse     bool    `yaml:"reverse"`
	ColorOrder  string  `yaml:"color_order"`
	Brightness  float64 `yaml:"brightness"`
	FPS         int     `yaml:"fps"`
	Raster      int     `yaml:"raster"` // raster edge in pixels
	ToneMap     string  `yaml:"tonemap,omitempty"`
	Persistence float64 `yaml:"persistence"`

	Power PowerCfg `yaml:"power"`
	SPI   SPI      `yaml:"spi,omitempty"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Widget Widget `yaml:"widget"`
	Output Output `yaml:"output"`
	Server Server `yaml:"server"`
}

func Default() Config {
	w := power.DefaultConfig()
	return Config{
		Widget: Widget{
			Size:            w.Size,
			Color:           w.Color,
			InnerColor:      w.InnerColor,
			Thickness:       w.Thickness,
			InnerThickness:  w.InnerThickness,
			Density:         w.Density,
			ShowMs:          int(w.ShowDuration / time.Millisecond),
			IndeterminateMs: int(w.IndeterminateDuration / time.Millisecond),
			SucceedMs:       int(w.SucceedDuration / time.Millisecond),
			DelayMs:         int(w.Delay / time.Millisecond),
			AutoStart:       w.AutoStart,
			InnerView:       w.InnerView,
			FirstAnimation:  w.FirstAnimation,
			State:           w.State,
		},
		Output: Output{
			Driver:     "sim",
			LEDs:       24,
			ColorOrder: "GRB",
			Brightness: 0.6,
			FPS:        60,
			Raster:     96,
			Power:      PowerCfg{BudgetMA: 1500, LEDChanMA: 20, WhiteCap: 3, Knee: 0.9},
			SPI:        SPI{SpeedHz: 2500000},
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads path over the defaults: keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(os.WriteFile(path, b, 0644), "write config")
}

// Validate clamps values that cannot be used and describes each change.
func (c *Config) Validate() []string {
	var notes []string
	clampMin := func(name string, v *int, lo int) {
		if *v < lo {
			notes = append(notes, fmt.Sprintf("%s %d clamped to %d", name, *v, lo))
			*v = lo
		}
	}
	clampMin("widget.show_ms", &c.Widget.ShowMs, 1)
	clampMin("widget.indeterminate_ms", &c.Widget.IndeterminateMs, 1)
	clampMin("widget.succeed_ms", &c.Widget.SucceedMs, 1)
	clampMin("widget.delay_ms", &c.Widget.DelayMs, 0)
	clampMin("output.leds", &c.Output.LEDs, 1)
	clampMin("output.fps", &c.Output.FPS, 1)
	clampMin("output.raster", &c.Output.Raster, 16)

	if c.Widget.Size < 1 {
		notes = append(notes, fmt.Sprintf("widget.size %v clamped to 1", c.Widget.Size))
		c.Widget.Size = 1
	}
	if c.Widget.Thickness < 0 {
		notes = append(notes, fmt.Sprintf("widget.thickness %v clamped to 0", c.Widget.Thickness))
		c.Widget.Thickness = 0
	}
	if c.Widget.InnerThickness < 0 {
		notes = append(notes, fmt.Sprintf("widget.inner_thickness %v clamped to 0", c.Widget.InnerThickness))
		c.Widget.InnerThickness = 0
	}
	if c.Widget.Density <= 0 {
		notes = append(notes, fmt.Sprintf("widget.density %v reset to 1", c.Widget.Density))
		c.Widget.Density = 1
	}
	if b := c.Output.Brightness; b < 0 || b > 1 {
		c.Output.Brightness = min(max(b, 0), 1)
		notes = append(notes, fmt.Sprintf("output.brightness %v clamped to %v", b, c.Output.Brightness))
	}
	if p := c.Output.Persistence; p < 0 || p >= 1 {
		c.Output.Persistence = min(max(p, 0), 0.95)
		notes = append(notes, fmt.Sprintf("output.persistence %v clamped to %v", p, c.Output.Persistence))
	}
	switch c.Output.Driver {
	case "sim", "spi", "console":
	default:
		notes = append(notes, fmt.Sprintf("output.driver %q unknown, using sim", c.Output.Driver))
		c.Output.Driver = "sim"
	}
	return notes
}

// PowerConfig converts the widget section for power.New.
func (c *Config) PowerConfig() power.Config {
	w := c.Widget
	return power.Config{
		Size:                  w.Size,
		Color:                 w.Color,
		InnerColor:            w.InnerColor,
		Thickness:             w.Thickness,
		InnerThickness:        w.InnerThickness,
		Density:               w.Density,
		ShowDuration:          time.Duration(w.ShowMs) * time.Millisecond,
		IndeterminateDuration: time.Duration(w.IndeterminateMs) * time.Millisecond,
		SucceedDuration:       time.Duration(w.SucceedMs) * time.Millisecond,
		Delay:                 time.Duration(w.DelayMs) * time.Millisecond,
		AutoStart:             w.AutoStart,
		InnerView:             w.InnerView,
		FirstAnimation:        w.FirstAnimation,
		State:                 w.State,
	}
}

// Uniforms builds the render uniforms for the output section.
func (c *Config) Uniforms() *render.Uniforms {
	o := c.Output
	return &render.Uniforms{
		GlobalBrightness: o.Brightness,
		Params: map[string]float64{
			render.ParamBudgetMA:    o.Power.BudgetMA,
			render.ParamChanMA:      o.Power.LEDChanMA,
			render.ParamWhiteCap:    o.Power.WhiteCap,
			render.ParamKnee:        o.Power.Knee,
			render.ParamPersistence: o.Persistence,
		},
	}
}
