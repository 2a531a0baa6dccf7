package diagnostics

import (
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Codes emitted by the service.
const (
	CodeStateChanged   = "STATE.CHANGED"
	CodeAnimationEnded = "ANIM.ENDED"
	CodeConfigClamped  = "CONFIG.CLAMPED"
	CodeDriverWrite    = "DRIVER.WRITE"
	CodeTestRunning    = "TEST.RUNNING"
	CodeTestDone       = "TEST.DONE"
	CodeTestUnknown    = "TEST.UNKNOWN"
	CodeControlInvalid = "CONTROL.INVALID"
)

type Diagnostic struct {
	ID             string         `json:"id"`
	Time           time.Time      `json:"time"`
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// New stamps a diagnostic with a fresh id and the current time.
func New(sev Severity, code, summary string) Diagnostic {
	return Diagnostic{
		ID:       uuid.NewString(),
		Time:     time.Now(),
		Severity: sev,
		Code:     code,
		Summary:  summary,
	}
}

func (d Diagnostic) WithDetail(detail string) Diagnostic {
	d.Detail = detail
	return d
}

// With adds one evidence entry.
func (d Diagnostic) With(key string, v any) Diagnostic {
	ev := make(map[string]any, len(d.Evidence)+1)
	for k, x := range d.Evidence {
		ev[k] = x
	}
	ev[key] = v
	d.Evidence = ev
	return d
}
