package entity

import (
	"fmt"

	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
	"github.com/milk9111/guardpatrol/prefabs"
)

// GuardOptions places one guard. Zero patrol points mean the guard has
// nowhere to go even when Patrol is set.
type GuardOptions struct {
	Name     string
	X, Y     float64
	Rotation float64 // radians
	Patrol   bool
	First    ecs.Entity
	Second   ecs.Entity
	Prefab   string
	Script   string
}

func NewGuard(w *ecs.World, opts GuardOptions) (ecs.Entity, error) {
	spec, err := prefabs.LoadGuardSpec(opts.Prefab)
	if err != nil {
		return 0, fmt.Errorf("guard: load spec: %w", err)
	}
	return NewGuardFromSpec(w, spec, opts)
}

func NewGuardFromSpec(w *ecs.World, spec *prefabs.GuardSpec, opts GuardOptions) (ecs.Entity, error) {
	entity := ecs.CreateEntity(w)

	if err := ecs.Add(w, entity, component.NameComponent.Kind(), &component.Name{Value: opts.Name}); err != nil {
		return 0, fmt.Errorf("guard: add name: %w", err)
	}

	if err := ecs.Add(w, entity, component.TransformComponent.Kind(), &component.Transform{
		X:        opts.X,
		Y:        opts.Y,
		Rotation: opts.Rotation,
	}); err != nil {
		return 0, fmt.Errorf("guard: add transform: %w", err)
	}

	guard := &component.Guard{Patrol: opts.Patrol}
	if ecs.IsAlive(w, opts.First) {
		guard.FirstPatrolPoint = ecs.Ref(opts.First)
	}
	if ecs.IsAlive(w, opts.Second) {
		guard.SecondPatrolPoint = ecs.Ref(opts.Second)
	}
	if err := ecs.Add(w, entity, component.GuardComponent.Kind(), guard); err != nil {
		return 0, fmt.Errorf("guard: add guard: %w", err)
	}

	sensing := component.DefaultPawnSensing()
	if err := ecs.Add(w, entity, component.PawnSensingComponent.Kind(), &sensing); err != nil {
		return 0, fmt.Errorf("guard: add pawn sensing: %w", err)
	}

	if err := ecs.Add(w, entity, component.NavigationComponent.Kind(), &component.Navigation{}); err != nil {
		return 0, fmt.Errorf("guard: add navigation: %w", err)
	}

	if err := ecs.Add(w, entity, component.VelocityComponent.Kind(), &component.Velocity{}); err != nil {
		return 0, fmt.Errorf("guard: add velocity: %w", err)
	}

	if err := ecs.Add(w, entity, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Radius:   spec.Body.Radius,
		Mass:     spec.Body.Mass,
		Friction: spec.Body.Friction,
	}); err != nil {
		return 0, fmt.Errorf("guard: add physics body: %w", err)
	}

	if err := ecs.Add(w, entity, component.IndicatorComponent.Kind(), &component.Indicator{}); err != nil {
		return 0, fmt.Errorf("guard: add indicator: %w", err)
	}

	script := spec.Script
	if opts.Script != "" {
		script = opts.Script
	}
	if script != "" {
		if err := ecs.Add(w, entity, component.GuardScriptComponent.Kind(), &component.GuardScript{Path: script}); err != nil {
			return 0, fmt.Errorf("guard: add script: %w", err)
		}
	}

	ApplyGuardSpec(w, entity, spec)
	return entity, nil
}

// ApplyGuardSpec copies tunables from a prefab onto an existing guard. It
// leaves behavior state (alert state, timers, patrol progress) alone, so it
// is safe to call on a running guard when the prefab is reloaded.
func ApplyGuardSpec(w *ecs.World, e ecs.Entity, spec *prefabs.GuardSpec) bool {
	if spec == nil {
		return false
	}
	g, ok := ecs.Get(w, e, component.GuardComponent.Kind())
	if !ok {
		return false
	}
	g.ArriveDistance = spec.ArriveDistance
	g.ResetDelay = spec.ResetDelay

	if s, ok := ecs.Get(w, e, component.PawnSensingComponent.Kind()); ok {
		applySensingSpec(s, spec.Sensing)
	}

	if nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind()); ok {
		nav.Speed = spec.MoveSpeed
		nav.GridSize = spec.Navigation.GridSize
		nav.RepathFrames = spec.Navigation.RepathFrames
	}

	return true
}

func applySensingSpec(s *component.PawnSensing, spec prefabs.SensingSpec) {
	if spec.SightRadius > 0 {
		s.SightRadius = spec.SightRadius
	}
	if spec.PeripheralVisionAngle > 0 {
		s.PeripheralVisionAngle = spec.PeripheralVisionAngle
	}
	if spec.HearingThreshold > 0 {
		s.HearingThreshold = spec.HearingThreshold
	}
	if spec.LOSHearingThreshold > 0 {
		s.LOSHearingThreshold = spec.LOSHearingThreshold
	}
	if spec.SensingInterval > 0 {
		s.SensingInterval = spec.SensingInterval
	}
	if spec.SeePawns != nil {
		s.SeePawns = *spec.SeePawns
	}
	if spec.HearNoises != nil {
		s.HearNoises = *spec.HearNoises
	}
	if spec.OnlySensePlayers != nil {
		s.OnlySensePlayers = *spec.OnlySensePlayers
	}
}

// GuardRotation converts an authored facing in degrees to a yaw.
func GuardRotation(deg float64) float64 {
	return common.DegToRad(deg)
}
