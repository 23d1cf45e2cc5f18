package encounter

import (
	"fmt"
	"strings"
)

// Target selects which value Get writes into the variable store.
type Target int

const (
	TargetRate Target = iota + 1
	TargetRemainStep
	TargetCallback
)

// ParseTarget parses a get target, ignoring case.
func ParseTarget(s string) (Target, error) {
	switch strings.ToLower(s) {
	case "rate":
		return TargetRate, nil
	case "remainstep":
		return TargetRemainStep, nil
	case "callback":
		return TargetCallback, nil
	default:
		return 0, fmt.Errorf("unknown get target %q: %w", s, ErrInvalidArgument)
	}
}

func (t Target) String() string {
	switch t {
	case TargetRate:
		return "rate"
	case TargetRemainStep:
		return "remainstep"
	case TargetCallback:
		return "callback"
	default:
		return fmt.Sprintf("Target(%d)", int(t))
	}
}
