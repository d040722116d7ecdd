package entity

import (
	"fmt"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
	"github.com/milk9111/guardpatrol/levels"
)

// Built is what LoadLevelToWorld created, keyed by authored name.
type Built struct {
	Guards       map[string]ecs.Entity
	Intruders    map[string]ecs.Entity
	PatrolPoints map[string]ecs.Entity
}

// LoadLevelToWorld creates the level singletons, walls, patrol points,
// guards and intruders.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level) (*Built, error) {
	if lvl == nil {
		return nil, fmt.Errorf("level: nil level")
	}

	built := &Built{
		Guards:       map[string]ecs.Entity{},
		Intruders:    map[string]ecs.Entity{},
		PatrolPoints: map[string]ecs.Entity{},
	}

	if err := addLevelSingletons(w, lvl); err != nil {
		return nil, err
	}

	for _, wall := range lvl.Walls {
		if _, err := NewWall(w, wall.X, wall.Y, wall.W, wall.H); err != nil {
			return nil, err
		}
	}

	for _, p := range lvl.PatrolPoints {
		e, err := NewPatrolPoint(w, p.Name, p.X, p.Y)
		if err != nil {
			return nil, err
		}
		built.PatrolPoints[p.Name] = e
	}

	for _, g := range lvl.Guards {
		e, err := NewGuard(w, GuardOptions{
			Name:     g.Name,
			X:        g.X,
			Y:        g.Y,
			Rotation: GuardRotation(g.Rotation),
			Patrol:   g.Patrol,
			First:    built.PatrolPoints[g.First],
			Second:   built.PatrolPoints[g.Second],
			Prefab:   g.Prefab,
			Script:   g.Script,
		})
		if err != nil {
			return nil, fmt.Errorf("level: guard %q: %w", g.Name, err)
		}
		built.Guards[g.Name] = e
	}

	for _, in := range lvl.Intruders {
		route := make([]component.PathNode, 0, len(in.Route))
		for _, p := range in.Route {
			route = append(route, component.PathNode{X: p.X, Y: p.Y})
		}
		e, err := NewIntruder(w, IntruderOptions{
			Name:          in.Name,
			X:             in.X,
			Y:             in.Y,
			Player:        in.Player,
			Prefab:        in.Prefab,
			Route:         route,
			Loop:          in.Loop,
			NoiseInterval: in.NoiseInterval,
			Loudness:      in.Loudness,
		})
		if err != nil {
			return nil, fmt.Errorf("level: intruder %q: %w", in.Name, err)
		}
		built.Intruders[in.Name] = e
	}

	return built, nil
}

func addLevelSingletons(w *ecs.World, lvl *levels.Level) error {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.LevelBoundsComponent.Kind(), &component.LevelBounds{
		Width:  lvl.Width,
		Height: lvl.Height,
	}); err != nil {
		return fmt.Errorf("level: add bounds: %w", err)
	}
	if err := ecs.Add(w, e, component.MissionComponent.Kind(), &component.Mission{}); err != nil {
		return fmt.Errorf("level: add mission: %w", err)
	}
	if err := ecs.Add(w, e, component.DebugDrawComponent.Kind(), &component.DebugDraw{}); err != nil {
		return fmt.Errorf("level: add debug draw: %w", err)
	}
	return nil
}

// NewWall creates a static box collider from its top-left corner.
func NewWall(w *ecs.World, x, y, width, height float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.WallTagComponent.Kind(), &component.WallTag{}); err != nil {
		return 0, fmt.Errorf("wall: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X: x + width/2,
		Y: y + height/2,
	}); err != nil {
		return 0, fmt.Errorf("wall: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:    width,
		Height:   height,
		Friction: 0.9,
		Static:   true,
	}); err != nil {
		return 0, fmt.Errorf("wall: add physics body: %w", err)
	}
	return e, nil
}

func NewPatrolPoint(w *ecs.World, name string, x, y float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PatrolPointTagComponent.Kind(), &component.PatrolPointTag{}); err != nil {
		return 0, fmt.Errorf("patrol point: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		return 0, fmt.Errorf("patrol point: add name: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		return 0, fmt.Errorf("patrol point: add transform: %w", err)
	}
	return e, nil
}
