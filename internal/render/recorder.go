package render

import "github.com/coreman2200/powerring/internal/geometry"

type Op string

const (
	OpArc  Op = "arc"
	OpLine Op = "line"
)

// Command is one recorded draw call.
type Command struct {
	Op     Op             `json:"op"`
	Oval   *geometry.Rect `json:"oval,omitempty"`
	Start  float64        `json:"start,omitempty"`
	Sweep  float64        `json:"sweep,omitempty"`
	Line   *geometry.Line `json:"line,omitempty"`
	Stroke Stroke         `json:"stroke"`
}

// Recorder is a Canvas that keeps every call, in order.
type Recorder struct {
	Commands []Command
}

func (r *Recorder) Reset() { r.Commands = r.Commands[:0] }

func (r *Recorder) DrawArc(oval geometry.Rect, start, sweep float64, s Stroke) {
	r.Commands = append(r.Commands, Command{Op: OpArc, Oval: &oval, Start: start, Sweep: sweep, Stroke: s})
}

func (r *Recorder) DrawLine(l geometry.Line, s Stroke) {
	r.Commands = append(r.Commands, Command{Op: OpLine, Line: &l, Stroke: s})
}

// Ops returns the recorded commands of one kind.
func (r *Recorder) Ops(op Op) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Snapshot copies the command list so it can outlive the next Reset.
func (r *Recorder) Snapshot() []Command {
	out := make([]Command, len(r.Commands))
	copy(out, r.Commands)
	return out
}
