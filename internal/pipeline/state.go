package pipeline

import (
	"fmt"

	"github.com/ironsheep/ovenstate/internal/detection"
)

// State is the inferred operating state of the appliance.
type State int

const (
	// Undetermined is the state before detection has run.
	Undetermined State = iota
	// On means at least one lit indicator circle was found.
	On
	// Off means no circle was found.
	Off
)

func (s State) String() string {
	switch s {
	case On:
		return "ON"
	case Off:
		return "OFF"
	default:
		return "UNDETERMINED"
	}
}

// Message is the human readable report line, e.g. "Oven is ON".
func (s State) Message() string {
	return "Oven is " + s.String()
}

// MarshalText encodes the state as "ON", "OFF" or "UNDETERMINED".
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ON":
		*s = On
	case "OFF":
		*s = Off
	case "UNDETERMINED":
		*s = Undetermined
	default:
		return fmt.Errorf("unknown state: %q", text)
	}
	return nil
}

// Classify maps a detection result to a terminal state.
//
// Any circle means On. No circle, whether the transform found no candidate
// or rejected all of them, means Off.
func Classify(circles detection.Circles) State {
	if circles.Empty() {
		return Off
	}
	return On
}
