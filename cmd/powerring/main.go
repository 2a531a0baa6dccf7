package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"

	"github.com/coreman2200/powerring/internal/app"
	"github.com/coreman2200/powerring/internal/config"
	"github.com/coreman2200/powerring/internal/led"
	"github.com/coreman2200/powerring/internal/power"
	"github.com/coreman2200/powerring/internal/ws"
)

func main() {
	// ---- Flags (config.yaml supplies the rest; flags set explicitly win) ----
	var (
		configPath  = flag.String("config", "config.yaml", "path to config.yaml")
		driver      = flag.String("driver", "", "driver: sim | spi | console")
		leds        = flag.Int("leds", 0, "LEDs on the ring")
		fps         = flag.Int("fps", 0, "target frames per second")
		brightness  = flag.Float64("brightness", -1, "global brightness 0..1")
		colorOrder  = flag.String("color", "", "LED color order (e.g. GRB, RGB)")
		addr        = flag.String("addr", "", "HTTP listen address")
		state       = flag.String("state", "", "initial widget state")
		toneMap     = flag.String("tonemap", "", "post tone map: filmic | none")
		simOnly     = flag.Bool("sim-only", false, "force simulation (no hardware output)")
		writeConfig = flag.Bool("write-config", false, "write the effective config to -config and exit")
		debug       = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// ---- Load config.yaml (optional) ----
	cfg := config.Default()
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with defaults and flags")
	} else {
		cfg = *c
	}

	// ---- Flags override the file ----
	if *driver != "" {
		cfg.Output.Driver = *driver
	}
	if *leds > 0 {
		cfg.Output.LEDs = *leds
	}
	if *fps > 0 {
		cfg.Output.FPS = *fps
	}
	if *brightness >= 0 {
		cfg.Output.Brightness = *brightness
	}
	if *colorOrder != "" {
		cfg.Output.ColorOrder = *colorOrder
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *toneMap != "" {
		cfg.Output.ToneMap = *toneMap
	}
	if *state != "" {
		st, err := power.ParseState(*state)
		if err != nil {
			log.Fatal().Err(err).Msg("bad -state")
		}
		cfg.Widget.State = st
	}
	if *simOnly {
		cfg.Output.Driver = "sim"
	}
	for _, note := range cfg.Validate() {
		log.Warn().Msg(note)
	}

	if *writeConfig {
		if err := config.Save(*configPath, &cfg); err != nil {
			log.Fatal().Err(err).Msg("write config")
		}
		log.Info().Str("path", *configPath).Msg("config written")
		return
	}

	// ---- Driver selection, falling back to SIM ----
	drv, selected := openDriver(cfg)
	out, err := led.NewOutput(drv, cfg.Output.ColorOrder)
	if err != nil {
		log.Warn().Err(err).Str("order", cfg.Output.ColorOrder).Msg("bad color order; using GRB")
		out, _ = led.NewOutput(drv, "GRB")
	}

	// ---- Core ----
	ring := led.BuildRing(cfg.Output.LEDs, cfg.Output.OffsetDeg, cfg.Output.Reverse)
	core, err := app.NewCore(cfg.PowerConfig(), ring, out, cfg.Uniforms(), app.Options{
		FPS:      cfg.Output.FPS,
		RasterPx: cfg.Output.Raster,
		Log:      log.With().Str("component", "core").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("core init")
	}
	switch cfg.Output.ToneMap {
	case "filmic":
		core.Eng.UseFilmicPost()
	case "", "none":
	default:
		log.Warn().Str("tonemap", cfg.Output.ToneMap).Msg("unknown tone map; using limiter only")
	}

	hub := ws.NewServer(core, cfg, log.With().Str("component", "ws").Logger())
	hub.ConfigPath = *configPath
	hub.Driver = selected

	// ---- HTTP routes ----
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleFramesWS)
	mux.HandleFunc("/diag", hub.HandleDiagWS)
	mux.HandleFunc("/control", hub.HandleControlWS)
	mux.HandleFunc("/health", hub.HandleHealth)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run render loop & server ----
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	core.Start()
	go func() {
		core.Run(ctx)
		close(stopped)
	}()
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Str("driver", selected).Int("leds", ring.Len()).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	shutdownCtx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	_ = srv.Shutdown(shutdownCtx)
	cancel()
	<-stopped
	if err := out.Close(); err != nil {
		log.Warn().Err(err).Msg("driver close")
	}
}

func openDriver(cfg config.Config) (led.Driver, string) {
	o := cfg.Output
	sim := func() led.Driver {
		return &led.Sim{Every: o.FPS * 5, Log: log.With().Str("driver", "sim").Logger()}
	}
	switch o.Driver {
	case "spi":
		freq := physic.Frequency(o.SPI.SpeedHz) * physic.Hertz
		s, err := led.OpenStrip(o.SPI.Port, o.LEDs, freq)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("port", o.SPI.Port).
				Int("speed_hz", o.SPI.SpeedHz).
				Msg("SPI init failed; falling back to SIM")
			return sim(), "sim"
		}
		log.Info().Stringer("dev", s).Msg("SPI strip ready")
		return s, "spi"
	case "console":
		return led.NewConsole(o.LEDs), "console"
	default:
		return sim(), "sim"
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
