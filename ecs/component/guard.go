package component

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownGuardState = errors.New("guard: unknown state")

// GuardState is the alert level of a guard.
type GuardState uint8

const (
	GuardIdle GuardState = iota
	GuardSuspicious
	GuardAlerted
)

func (s GuardState) String() string {
	switch s {
	case GuardIdle:
		return "idle"
	case GuardSuspicious:
		return "suspicious"
	case GuardAlerted:
		return "alerted"
	default:
		return fmt.Sprintf("guard_state(%d)", uint8(s))
	}
}

func ParseGuardState(s string) (GuardState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "idle", "":
		return GuardIdle, nil
	case "suspicious":
		return GuardSuspicious, nil
	case "alerted":
		return GuardAlerted, nil
	}
	return GuardIdle, fmt.Errorf("%w: %q", ErrUnknownGuardState, s)
}

// MarshalText lets state values appear by name in JSON feeds and logs.
func (s GuardState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

const (
	DefaultGuardResetDelay     = 3.0
	DefaultGuardArriveDistance = 50.0
)

// Guard is the patrol/alert behavior state of one guard.
type Guard struct {
	State GuardState

	// OriginalRotation is captured on the first tick and restored when the
	// guard stops investigating a noise.
	OriginalRotation float64
	Started          bool

	Patrol             bool
	FirstPatrolPoint   EntityRef
	SecondPatrolPoint  EntityRef
	CurrentPatrolPoint EntityRef

	ResetDelay     float64
	ArriveDistance float64

	ResetTimer TimerHandle
}

var GuardComponent = NewComponent[Guard]()

// TimerHandle identifies an armed timer. Zero means never armed.
type TimerHandle uint64

// GuardScript names the presentation script run on state changes.
type GuardScript struct {
	Path string
}

var GuardScriptComponent = NewComponent[GuardScript]()
