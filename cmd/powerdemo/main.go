package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/coreman2200/powerring/internal/anim"
	"github.com/coreman2200/powerring/internal/config"
	"github.com/coreman2200/powerring/internal/power"
	"github.com/coreman2200/powerring/internal/render"
)

const (
	frameMs = 16
	// supersample is how many raster pixels feed one terminal half-cell.
	supersample = 3
	statusRows  = 3
)

type Demo struct {
	screen        tcell.Screen
	width, height int

	tl     *anim.Timeline
	view   *power.View
	raster *render.Raster
	side   int

	status string
	last   time.Time
}

func NewDemo(cfg power.Config, log zerolog.Logger) (*Demo, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	d := &Demo{screen: screen, tl: anim.NewTimeline(), last: time.Now()}
	d.view = power.New(cfg, d.tl, power.WithLogger(log))
	d.view.AddListener(power.ListenerFuncs{
		OnAnimationEnded: func(_, next power.State) { d.stateChanged(next) },
		OnStateChanged:   func(_, to power.State, _ bool) { d.stateChanged(to) },
	})
	d.handleResize()
	d.view.Attach()
	return d, nil
}

// stateChanged keeps the caption under the ring in step with the widget.
func (d *Demo) stateChanged(to power.State) {
	switch to {
	case power.Succeed:
		if d.view.Running() {
			d.status = "WAIT A MOMENT"
		} else {
			d.status = "CONNECTED !"
		}
	case power.Power, power.Reloading:
		d.status = "CONNECT"
	case power.Loading:
		d.status = "CONNECTING..."
	case power.Hidden:
		d.status = ""
	}
}

// click cycles Hidden → Power → Loading → Succeed → Power.
func (d *Demo) click() {
	switch d.view.CurrentState() {
	case power.Hidden:
		d.view.RequestState(power.Power, true)
	case power.Power:
		d.view.RequestState(power.Loading, true)
	case power.Loading:
		d.view.RequestState(power.Succeed, true)
	default:
		d.view.RequestState(power.Power, true)
	}
}

// longPress cancels a running connection attempt.
func (d *Demo) longPress() {
	if d.view.CurrentState() == power.Loading {
		d.view.RequestState(power.Power, true)
	}
}

func (d *Demo) handleResize() {
	d.width, d.height = d.screen.Size()
	side := min(d.width, 2*(d.height-statusRows))
	if side < 8 {
		side = 8
	}
	if side == d.side {
		return
	}
	d.side = side
	px := side * supersample
	d.raster = render.NewRaster(px, px, float64(px)/d.view.Config().Size)
	d.screen.Sync()
}

func (d *Demo) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyEnter {
			d.click()
			return true
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				d.click()
			case 'l':
				d.longPress()
			case 'i':
				d.view.SetInnerView(!d.view.Config().InnerView)
			case 'r':
				d.view.Reset()
			}
		}
	case *tcell.EventResize:
		d.handleResize()
	}
	return true
}

// blend composites a raster pixel over the terminal background.
func blend(c color.NRGBA) tcell.Color {
	a := int32(c.A)
	return tcell.NewRGBColor(int32(c.R)*a/255, int32(c.G)*a/255, int32(c.B)*a/255)
}

func (d *Demo) draw() {
	d.screen.Clear()

	d.raster.Clear()
	d.view.Draw(d.raster)
	img := d.raster.Scaled(d.side, d.side)

	left := (d.width - d.side) / 2
	for cy := 0; cy < d.side/2; cy++ {
		for x := 0; x < d.side; x++ {
			top, bottom := img.NRGBAAt(x, 2*cy), img.NRGBAAt(x, 2*cy+1)
			if top.A == 0 && bottom.A == 0 {
				continue
			}
			style := tcell.StyleDefault.Foreground(blend(top)).Background(blend(bottom))
			d.screen.SetContent(left+x, cy, '▀', nil, style)
		}
	}

	row := d.side/2 + 1
	d.text((d.width-len(d.status))/2, row, d.status, tcell.StyleDefault.Bold(true))
	help := "space: next state  l: cancel loading  i: inner icon  r: reset  q: quit"
	d.text(0, d.height-1, help, tcell.StyleDefault.Foreground(tcell.ColorGray))
	d.text(0, 0, fmt.Sprintf("%-9s", d.view.CurrentState()), tcell.StyleDefault.Foreground(tcell.ColorGray))

	d.screen.Show()
}

func (d *Demo) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		d.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (d *Demo) run() {
	ticker := time.NewTicker(frameMs * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- d.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !d.handleInput(ev) {
				return
			}
		case now := <-ticker.C:
			d.tl.Advance(float64(now.Sub(d.last)) / float64(time.Millisecond))
			d.last = now
			d.draw()
		}
	}
}

func main() {
	var (
		configPath = flag.String("config", "", "optional config.yaml; only the widget section is used")
		logPath    = flag.String("log", "", "write debug logs to this file")
	)
	flag.Parse()

	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log := zerolog.New(out).With().Timestamp().Logger()

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = *c
	}
	for _, note := range cfg.Validate() {
		log.Warn().Msg(note)
	}
	wcfg := cfg.PowerConfig()
	if *configPath == "" {
		// the default black icon disappears on a dark terminal
		wcfg.InnerColor = render.RGB(255, 255, 255)
	}

	demo, err := NewDemo(wcfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer demo.screen.Fini()
	demo.run()
}
