package system

import (
	"math"

	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

// MoveToEntity asks the navigation system to walk mover to target. It
// fails silently when either entity is missing, like a move order issued
// to a pawn with no controller.
func MoveToEntity(w *ecs.World, mover, target ecs.Entity, acceptance float64) bool {
	if !ecs.IsAlive(w, mover) || !ecs.IsAlive(w, target) {
		return false
	}
	nav, ok := ecs.Get(w, mover, component.NavigationComponent.Kind())
	if !ok {
		return false
	}
	nav.Active = true
	nav.Target = ecs.Ref(target)
	nav.AcceptanceRadius = acceptance
	nav.Path = nil
	nav.PathIndex = 0
	nav.FrameCounter = 0
	return true
}

// StopMovement cancels any move request and zeroes the commanded velocity.
func StopMovement(w *ecs.World, mover ecs.Entity) {
	if nav, ok := ecs.Get(w, mover, component.NavigationComponent.Kind()); ok {
		nav.Active = false
		nav.Path = nil
		nav.PathIndex = 0
	}
	SetVelocity(w, mover, 0, 0)
}

// SetVelocity commands a velocity, adding the component when missing.
func SetVelocity(w *ecs.World, e ecs.Entity, vx, vy float64) {
	if v, ok := ecs.Get(w, e, component.VelocityComponent.Kind()); ok {
		v.X, v.Y = vx, vy
		return
	}
	_ = ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{X: vx, Y: vy})
}

// NavigationSystem steers entities with an active Navigation request along
// a grid path towards their target entity.
type NavigationSystem struct{}

func NewNavigationSystem() *NavigationSystem {
	return &NavigationSystem{}
}

func (ns *NavigationSystem) Update(w *ecs.World) {
	if ns == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.NavigationComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, nav *component.Navigation, t *component.Transform) {
		if !nav.Active {
			return
		}

		target := ecs.FromRef(nav.Target)
		tt, ok := ecs.Get(w, target, component.TransformComponent.Kind())
		if !ok {
			StopMovement(w, e)
			return
		}

		if common.Distance(t.X, t.Y, tt.X, tt.Y) <= nav.AcceptanceRadius {
			StopMovement(w, e)
			return
		}

		repath := nav.RepathFrames
		if repath <= 0 {
			repath = defaultPathRepathFrames
		}
		if len(nav.Path) == 0 || nav.FrameCounter >= repath {
			nav.Path = FindPath(w, t.X, t.Y, tt.X, tt.Y, nav.GridSize)
			nav.PathIndex = 0
			nav.FrameCounter = 0
		}
		nav.FrameCounter++

		step := nav.Speed * common.TickSeconds
		reach := max(step, 2.0)
		for nav.PathIndex < len(nav.Path)-1 {
			node := nav.Path[nav.PathIndex]
			if common.Distance(t.X, t.Y, node.X, node.Y) > reach {
				break
			}
			nav.PathIndex++
		}
		node := nav.Path[nav.PathIndex]

		heading, ok := common.Heading(t.X, t.Y, node.X, node.Y)
		if !ok {
			SetVelocity(w, e, 0, 0)
			return
		}
		t.Rotation = heading

		speed := nav.Speed
		if remaining := common.Distance(t.X, t.Y, node.X, node.Y); remaining < step {
			speed = remaining / common.TickSeconds
		}
		vx, vy := unitVector(heading)
		SetVelocity(w, e, vx*speed, vy*speed)
	})
}

func unitVector(yaw float64) (float64, float64) {
	return math.Cos(yaw), math.Sin(yaw)
}
