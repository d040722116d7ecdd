package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SensingSpec overrides pawn sensing defaults. Unset fields keep the
// default; the booleans are pointers for the same reason.
type SensingSpec struct {
	SightRadius           float64 `yaml:"sight_radius"`
	PeripheralVisionAngle float64 `yaml:"peripheral_vision_angle"`
	HearingThreshold      float64 `yaml:"hearing_threshold"`
	LOSHearingThreshold   float64 `yaml:"los_hearing_threshold"`
	SensingInterval       float64 `yaml:"sensing_interval"`
	SeePawns              *bool   `yaml:"see_pawns"`
	HearNoises            *bool   `yaml:"hear_noises"`
	OnlySensePlayers      *bool   `yaml:"only_sense_players"`
}

type NavigationSpec struct {
	GridSize     float64 `yaml:"grid_size"`
	RepathFrames int     `yaml:"repath_frames"`
}

type BodySpec struct {
	Radius   float64 `yaml:"radius"`
	Mass     float64 `yaml:"mass"`
	Friction float64 `yaml:"friction"`
}

type GuardSpec struct {
	Name           string         `yaml:"name"`
	MoveSpeed      float64        `yaml:"move_speed"`
	ArriveDistance float64        `yaml:"arrive_distance"`
	ResetDelay     float64        `yaml:"reset_delay"`
	Body           BodySpec       `yaml:"body"`
	Sensing        SensingSpec    `yaml:"sensing"`
	Navigation     NavigationSpec `yaml:"navigation"`
	Script         string         `yaml:"script"`
}

func LoadGuardSpec(name string) (*GuardSpec, error) {
	if name == "" {
		name = "guard.yaml"
	}
	spec, err := LoadSpec[GuardSpec](name)
	if err != nil {
		return nil, err
	}
	if spec.MoveSpeed < 0 || spec.ArriveDistance < 0 || spec.ResetDelay < 0 {
		return nil, fmt.Errorf("prefabs: %s: negative speed, distance or delay", name)
	}
	return &spec, nil
}

type IntruderSpec struct {
	Name          string   `yaml:"name"`
	MoveSpeed     float64  `yaml:"move_speed"`
	NoiseLoudness float64  `yaml:"noise_loudness"`
	NoiseInterval float64  `yaml:"noise_interval"`
	Body          BodySpec `yaml:"body"`
}

func LoadIntruderSpec(name string) (*IntruderSpec, error) {
	if name == "" {
		name = "intruder.yaml"
	}
	spec, err := LoadSpec[IntruderSpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
