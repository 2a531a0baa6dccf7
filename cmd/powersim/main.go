package main

import (
	"encoding/json"
	"flag"
	"os"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/powerring/internal/app"
	"github.com/coreman2200/powerring/internal/config"
	diag "github.com/coreman2200/powerring/internal/diagnostics"
	"github.com/coreman2200/powerring/internal/led"
	"github.com/coreman2200/powerring/internal/power"
)

// Event is one scripted host call. Exactly one of State or Action is set.
type Event struct {
	AtMs     float64 `json:"at_ms"`
	State    string  `json:"state,omitempty"`
	Animated *bool   `json:"animated,omitempty"`
	// Action is one of attach, detach, show, hide, reset.
	Action string `json:"action,omitempty"`
}

type Script struct {
	DurationMs float64 `json:"duration_ms"`
	Events     []Event `json:"events"`
}

func loadScript(path string) (Script, error) {
	var s Script
	b, err := os.ReadFile(path)
	if err != nil {
		return s, errors.Wrap(err, "read script")
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return s, errors.Wrapf(err, "parse %s", path)
	}
	sort.SliceStable(s.Events, func(i, j int) bool { return s.Events[i].AtMs < s.Events[j].AtMs })
	if last := len(s.Events); last > 0 && s.DurationMs < s.Events[last-1].AtMs {
		s.DurationMs = s.Events[last-1].AtMs + 2000
	}
	return s, nil
}

func apply(c *app.Core, ev Event) error {
	if ev.State != "" {
		st, err := power.ParseState(ev.State)
		if err != nil {
			return err
		}
		c.View.RequestState(st, ev.Animated == nil || *ev.Animated)
		return nil
	}
	switch ev.Action {
	case "attach":
		c.View.Attach()
	case "detach":
		c.View.Detach()
	case "show":
		c.View.SetVisible(true)
	case "hide":
		c.View.SetVisible(false)
	case "reset":
		c.View.Reset()
	default:
		return errors.Errorf("unknown action %q", ev.Action)
	}
	return nil
}

// simulate plays s against c with a fixed timestep and returns the final
// script time.
func simulate(c *app.Core, s Script, dt float64) float64 {
	now, next := 0.0, 0
	for ; now <= s.DurationMs; now += dt {
		for next < len(s.Events) && s.Events[next].AtMs <= now {
			ev := s.Events[next]
			if err := apply(c, ev); err != nil {
				log.Warn().Err(err).Float64("at_ms", ev.AtMs).Msg("skipping event")
			}
			next++
		}
		if _, err := c.Step(dt); err != nil {
			log.Warn().Err(err).Msg("frame")
		}
	}
	return now
}

func main() {
	var (
		scriptPath string
		configPath string
		fps        int
		every      int
	)
	flag.StringVar(&scriptPath, "script", "", "path to a script JSON")
	flag.StringVar(&configPath, "config", "", "optional config.yaml")
	flag.IntVar(&fps, "fps", 60, "simulation frames per second")
	flag.IntVar(&every, "every", 0, "log an LED summary every N frames (0 = off)")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if every > 0 {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if scriptPath == "" {
		log.Fatal().Msg("provide -script path to a script JSON")
	}
	script, err := loadScript(scriptPath)
	if err != nil {
		log.Fatal().Err(err).Msg("script")
	}

	cfg := config.Default()
	if configPath != "" {
		c, err := config.Load(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("config")
		}
		cfg = *c
	}
	cfg.Output.FPS = fps
	for _, note := range cfg.Validate() {
		log.Warn().Msg(note)
	}

	sim := &led.Sim{Every: every, Log: log.Logger}
	out, err := led.NewOutput(sim, cfg.Output.ColorOrder)
	if err != nil {
		log.Fatal().Err(err).Msg("output")
	}
	core, err := app.NewCore(cfg.PowerConfig(), led.BuildRing(cfg.Output.LEDs, cfg.Output.OffsetDeg, cfg.Output.Reverse),
		out, cfg.Uniforms(), app.Options{FPS: cfg.Output.FPS, RasterPx: cfg.Output.Raster, Log: log.Logger})
	if err != nil {
		log.Fatal().Err(err).Msg("core")
	}

	core.OnDiag = func(d diag.Diagnostic) {
		log.Info().
			Float64("t_ms", core.TL.Now()).
			Str("code", d.Code).
			Interface("evidence", d.Evidence).
			Msg(d.Summary)
	}

	now := simulate(core, script, 1000.0/float64(cfg.Output.FPS))

	st := core.Status()
	log.Info().
		Float64("t_ms", now).
		Str("state", st.State).
		Str("pending", st.Pending).
		Bool("running", st.Running).
		Uint64("frames", st.Frame).
		Int("sim_frames", sim.Frames).
		Msg("done")
}
