package entity

import (
	"fmt"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
	"github.com/milk9111/guardpatrol/prefabs"
)

type IntruderOptions struct {
	Name          string
	X, Y          float64
	Player        bool
	Prefab        string
	Route         []component.PathNode
	Loop          bool
	NoiseInterval float64
	Loudness      float64
}

// NewIntruder creates a pawn guards can sense. Player intruders are the
// only ones seen by guards that sense players only.
func NewIntruder(w *ecs.World, opts IntruderOptions) (ecs.Entity, error) {
	spec, err := prefabs.LoadIntruderSpec(opts.Prefab)
	if err != nil {
		return 0, fmt.Errorf("intruder: load spec: %w", err)
	}

	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.NameComponent.Kind(), &component.Name{Value: opts.Name}); err != nil {
		return 0, fmt.Errorf("intruder: add name: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{X: opts.X, Y: opts.Y}); err != nil {
		return 0, fmt.Errorf("intruder: add transform: %w", err)
	}

	if err := ecs.Add(w, entity, component.PawnTagComponent.Kind(), &component.PawnTag{}); err != nil {
		return 0, fmt.Errorf("intruder: add pawn tag: %w", err)
	}

	if opts.Player {
		if err := ecs.Add(w, entity, component.PlayerTagComponent.Kind(), &component.PlayerTag{}); err != nil {
			return 0, fmt.Errorf("intruder: add player tag: %w", err)
		}
	}

	interval := opts.NoiseInterval
	if interval <= 0 {
		interval = spec.NoiseInterval
	}
	loudness := opts.Loudness
	if loudness <= 0 {
		loudness = spec.NoiseLoudness
	}

	route := make([]component.PathNode, len(opts.Route))
	copy(route, opts.Route)
	if err := ecs.Add(w, entity, component.IntruderComponent.Kind(), &component.Intruder{
		Route:         route,
		Loop:          opts.Loop,
		MoveSpeed:     spec.MoveSpeed,
		NoiseInterval: interval,
		NoiseLoudness: loudness,
		NoiseTimer:    interval,
	}); err != nil {
		return 0, fmt.Errorf("intruder: add intruder: %w", err)
	}

	if err := ecs.Add(w, entity, component.VelocityComponent.Kind(), &component.Velocity{}); err != nil {
		return 0, fmt.Errorf("intruder: add velocity: %w", err)
	}

	if err := ecs.Add(w, entity, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Radius:   spec.Body.Radius,
		Mass:     spec.Body.Mass,
		Friction: spec.Body.Friction,
	}); err != nil {
		return 0, fmt.Errorf("intruder: add physics body: %w", err)
	}

	return entity, nil
}
