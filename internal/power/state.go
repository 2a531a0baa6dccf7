package power

import (
	"fmt"
	"strings"
)

// State is the externally visible state of the indicator.
type State int

const (
	Hidden State = iota
	Power
	Loading
	Succeed
	Reloading
)

var stateNames = [...]string{"hidden", "power", "loading", "succeed", "reloading"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

func ParseState(s string) (State, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range stateNames {
		if n == name {
			return State(i), nil
		}
	}
	return Hidden, fmt.Errorf("unknown state %q", s)
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	v, err := ParseState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Inner is the icon drawn inside the ring.
type Inner int

const (
	InnerPower Inner = iota
	InnerSuccess
)

func (i Inner) String() string {
	if i == InnerSuccess {
		return "success"
	}
	return "power"
}

func innerFor(s State) Inner {
	if s == Succeed {
		return InnerSuccess
	}
	return InnerPower
}

func stateFor(i Inner) State {
	if i == InnerSuccess {
		return Succeed
	}
	return Power
}
