package ws

import (
	"time"

	"github.com/coreman2200/powerring/internal/app"
	diag "github.com/coreman2200/powerring/internal/diagnostics"
	"github.com/coreman2200/powerring/internal/power"
	"github.com/coreman2200/powerring/internal/render"
	"github.com/coreman2200/powerring/internal/selftest"
)

// Control is one message on /control. Absent fields are left alone.
type Control struct {
	State    *string `json:"state,omitempty"`
	Animated *bool   `json:"animated,omitempty"`

	Color          *string  `json:"color,omitempty"`
	InnerColor     *string  `json:"innerColor,omitempty"`
	Thickness      *float64 `json:"thickness,omitempty"`
	InnerThickness *float64 `json:"innerThickness,omitempty"`

	ShowMs          *int `json:"showMs,omitempty"`
	IndeterminateMs *int `json:"indeterminateMs,omitempty"`
	SucceedMs       *int `json:"succeedMs,omitempty"`
	DelayMs         *int `json:"delayMs,omitempty"`

	InnerView *bool `json:"innerView,omitempty"`
	AutoStart *bool `json:"autoStart,omitempty"`

	RunTest    *string  `json:"runTest,omitempty"`
	Brightness *float64 `json:"brightness,omitempty"`
}

func msDuration(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// apply validates msg, runs the widget changes on the core loop and persists
// the config. Invalid fields are reported and skipped.
func (s *Server) apply(msg Control) {
	var (
		ops   []func(c *app.Core)
		notes []diag.Diagnostic
	)
	invalid := func(field, value string, err error) {
		notes = append(notes, diag.New(diag.Warn, diag.CodeControlInvalid, "Invalid control value").
			WithDetail(err.Error()).
			With("field", field).
			With("value", value))
	}

	s.mu.Lock()
	w := &s.cfg.Widget
	if msg.Color != nil {
		if col, err := render.ParseARGB(*msg.Color); err != nil {
			invalid("color", *msg.Color, err)
		} else {
			w.Color = col
			ops = append(ops, func(c *app.Core) { c.View.SetColor(col) })
		}
	}
	if msg.InnerColor != nil {
		if col, err := render.ParseARGB(*msg.InnerColor); err != nil {
			invalid("innerColor", *msg.InnerColor, err)
		} else {
			w.InnerColor = col
			ops = append(ops, func(c *app.Core) { c.View.SetInnerColor(col) })
		}
	}
	if v := msg.Thickness; v != nil {
		w.Thickness = *v
		ops = append(ops, func(c *app.Core) { c.View.SetThickness(*v) })
	}
	if v := msg.InnerThickness; v != nil {
		w.InnerThickness = *v
		ops = append(ops, func(c *app.Core) { c.View.SetInnerThickness(*v) })
	}
	if v := msg.ShowMs; v != nil {
		w.ShowMs = *v
		ops = append(ops, func(c *app.Core) { c.View.SetShowDuration(msDuration(*v)) })
	}
	if v := msg.IndeterminateMs; v != nil {
		w.IndeterminateMs = *v
		ops = append(ops, func(c *app.Core) { c.View.SetIndeterminateDuration(msDuration(*v)) })
	}
	if v := msg.SucceedMs; v != nil {
		w.SucceedMs = *v
		ops = append(ops, func(c *app.Core) { c.View.SetSucceedDuration(msDuration(*v)) })
	}
	if v := msg.DelayMs; v != nil {
		w.DelayMs = *v
		ops = append(ops, func(c *app.Core) { c.View.SetDelay(msDuration(*v)) })
	}
	if v := msg.InnerView; v != nil {
		w.InnerView = *v
		ops = append(ops, func(c *app.Core) { c.View.SetInnerView(*v) })
	}
	if v := msg.AutoStart; v != nil {
		w.AutoStart = *v
		ops = append(ops, func(c *app.Core) { c.View.SetAutoStart(*v) })
	}
	if v := msg.Brightness; v != nil {
		b := min(max(*v, 0), 1)
		s.cfg.Output.Brightness = b
		ops = append(ops, func(c *app.Core) { c.SetBrightness(b) })
	}
	// clamp what the widget would clamp so the saved file stays loadable
	for _, note := range s.cfg.Validate() {
		notes = append(notes, diag.New(diag.Warn, diag.CodeConfigClamped, note))
	}
	s.mu.Unlock()

	if msg.State != nil {
		if st, err := power.ParseState(*msg.State); err != nil {
			invalid("state", *msg.State, err)
		} else {
			animated := msg.Animated == nil || *msg.Animated
			ops = append(ops, func(c *app.Core) { c.View.RequestState(st, animated) })
		}
	}
	if msg.RunTest != nil {
		if k, err := selftest.ParseKind(*msg.RunTest); err != nil {
			notes = append(notes, diag.New(diag.Warn, diag.CodeTestUnknown, "Unknown test name").
				With("name", *msg.RunTest))
		} else {
			ops = append(ops, func(c *app.Core) { c.RunTest(k) })
		}
	}

	for _, d := range notes {
		s.pushDiag(d)
	}
	if len(ops) == 0 {
		return
	}
	s.core.Do(func(c *app.Core) {
		for _, op := range ops {
			op(c)
		}
	})
	s.saveConfig()
}
