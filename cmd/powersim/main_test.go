package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/powerring/internal/app"
	"github.com/coreman2200/powerring/internal/config"
	diag "github.com/coreman2200/powerring/internal/diagnostics"
	"github.com/coreman2200/powerring/internal/led"
	"github.com/coreman2200/powerring/internal/power"
)

func newCore(t *testing.T) *app.Core {
	t.Helper()
	cfg := config.Default()
	out, err := led.NewOutput(&led.Sim{}, cfg.Output.ColorOrder)
	require.NoError(t, err)
	c, err := app.NewCore(cfg.PowerConfig(), led.BuildRing(cfg.Output.LEDs, 0, false), out, cfg.Uniforms(),
		app.Options{FPS: 60, RasterPx: cfg.Output.Raster, Log: zerolog.Nop()})
	require.NoError(t, err)
	return c
}

func TestLoadScriptSortsAndExtends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"events":[{"at_ms":900,"state":"power"},{"at_ms":100,"action":"attach"}]}`), 0o644))

	s, err := loadScript(path)
	require.NoError(t, err)
	assert.Equal(t, "attach", s.Events[0].Action)
	assert.Equal(t, 2900.0, s.DurationMs)
}

func TestApplyRejectsUnknown(t *testing.T) {
	c := newCore(t)
	assert.Error(t, apply(c, Event{State: "sideways"}))
	assert.Error(t, apply(c, Event{Action: "dance"}))
	assert.NoError(t, apply(c, Event{Action: "hide"}))
}

func TestConnectScript(t *testing.T) {
	s, err := loadScript("testdata/connect.json")
	require.NoError(t, err)

	c := newCore(t)
	var seen []string
	c.OnDiag = func(d diag.Diagnostic) {
		if d.Code == diag.CodeStateChanged && d.Evidence["applied"] == true {
			seen = append(seen, d.Evidence["to"].(string))
		}
	}
	simulate(c, s, 1000.0/60)

	assert.Equal(t, []string{"power", "loading", "succeed", "power"}, seen)
	assert.Equal(t, power.Power, c.View.CurrentState())
	assert.False(t, c.View.Running())
}
