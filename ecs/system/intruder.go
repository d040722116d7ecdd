package system

import (
	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
	"github.com/milk9111/guardpatrol/logger"
)

const routeReach = 4.0

// IntruderSystem walks scripted intruders along their route and makes their
// periodic noises.
type IntruderSystem struct{}

func NewIntruderSystem() *IntruderSystem {
	return &IntruderSystem{}
}

func (is *IntruderSystem) Update(w *ecs.World) {
	if is == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.IntruderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, in *component.Intruder, t *component.Transform) {
		is.walk(w, e, in, t)

		if in.NoiseInterval <= 0 {
			return
		}
		in.NoiseTimer -= common.TickSeconds
		if in.NoiseTimer <= 0 {
			in.NoiseTimer += in.NoiseInterval
			if _, err := MakeNoise(w, e, t.X, t.Y, in.NoiseLoudness); err != nil {
				logger.Log.WithError(err).WithField("intruder", entityName(w, e)).Debug("intruder noise dropped")
			}
		}
	})
}

// walk leaves route-less intruders alone; something else steers them.
func (is *IntruderSystem) walk(w *ecs.World, e ecs.Entity, in *component.Intruder, t *component.Transform) {
	if len(in.Route) == 0 {
		return
	}
	if in.Index >= len(in.Route) {
		SetVelocity(w, e, 0, 0)
		return
	}

	node := in.Route[in.Index]
	if common.Distance(t.X, t.Y, node.X, node.Y) <= routeReach {
		in.Index++
		if in.Index >= len(in.Route) && in.Loop {
			in.Index = 0
		}
		if in.Index >= len(in.Route) {
			SetVelocity(w, e, 0, 0)
			return
		}
		node = in.Route[in.Index]
	}

	heading, ok := common.Heading(t.X, t.Y, node.X, node.Y)
	if !ok {
		SetVelocity(w, e, 0, 0)
		return
	}
	t.Rotation = heading
	speed := in.MoveSpeed
	step := speed * common.TickSeconds
	if remaining := common.Distance(t.X, t.Y, node.X, node.Y); remaining < step {
		speed = remaining / common.TickSeconds
	}
	vx, vy := unitVector(heading)
	SetVelocity(w, e, vx*speed, vy*speed)
}
