package system

import (
	"image/color"

	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

// DrawDebugSphere queues a sphere marker for ttl seconds. Without a
// DebugDraw singleton in the world this is a no-op.
func DrawDebugSphere(w *ecs.World, x, y, radius float64, clr color.RGBA, ttl float64) {
	dd, ok := ecs.Singleton(w, component.DebugDrawComponent.Kind())
	if !ok {
		return
	}
	dd.Spheres = append(dd.Spheres, component.DebugSphere{X: x, Y: y, Radius: radius, Color: clr, TTL: ttl})
}

// DebugDrawSystem ages queued debug shapes and drops expired ones.
type DebugDrawSystem struct{}

func NewDebugDrawSystem() *DebugDrawSystem {
	return &DebugDrawSystem{}
}

func (d *DebugDrawSystem) Update(w *ecs.World) {
	dd, ok := ecs.Singleton(w, component.DebugDrawComponent.Kind())
	if !ok {
		return
	}
	kept := dd.Spheres[:0]
	for _, s := range dd.Spheres {
		s.TTL -= common.TickSeconds
		if s.TTL > 0 {
			kept = append(kept, s)
		}
	}
	dd.Spheres = kept
}
