package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

const (
	defaultBodyRadius = 16.0
	defaultBodyMass   = 1.0
)

// PhysicsSystem owns a top-down (zero gravity) Chipmunk space. It creates
// bodies for PhysicsBody components on first sight, feeds commanded
// velocities in, steps, and copies positions back into transforms.
// Entities with a Velocity but no PhysicsBody are integrated directly.
type PhysicsSystem struct {
	space  *cp.Space
	bodies map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body  *cp.Body
	shape *cp.Shape
}

func NewPhysicsSystem() *PhysicsSystem {
	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{})
	return &PhysicsSystem{
		space:  space,
		bodies: make(map[ecs.Entity]*bodyInfo),
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.removeDead(w)
	ps.syncEntities(w)

	ecs.ForEach2(w, component.VelocityComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, v *component.Velocity, t *component.Transform) {
		if info, ok := ps.bodies[e]; ok {
			info.body.SetVelocityVector(cp.Vector{X: v.X, Y: v.Y})
			return
		}
		t.X += v.X * common.TickSeconds
		t.Y += v.Y * common.TickSeconds
	})

	ps.space.Step(common.TickSeconds)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Static || pb.Body == nil {
			return
		}
		pos := pb.Body.Position()
		t.X, t.Y = pos.X, pos.Y
	})
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, t *component.Transform) {
		if pb.Body != nil {
			return
		}

		var body *cp.Body
		if pb.Static {
			body = cp.NewStaticBody()
		} else {
			mass := pb.Mass
			if mass <= 0 {
				mass = defaultBodyMass
			}
			// infinite moment: pawns never spin from contacts
			body = cp.NewBody(mass, cp.INFINITY)
		}
		body.SetPosition(cp.Vector{X: t.X, Y: t.Y})
		ps.space.AddBody(body)

		var shape *cp.Shape
		if pb.Width > 0 && pb.Height > 0 {
			shape = cp.NewBox(body, pb.Width, pb.Height, 0)
		} else {
			radius := pb.Radius
			if radius <= 0 {
				radius = defaultBodyRadius
			}
			shape = cp.NewCircle(body, radius, cp.Vector{})
		}
		shape.SetFriction(pb.Friction)
		ps.space.AddShape(shape)

		pb.Body = body
		pb.Shape = shape
		ps.bodies[e] = &bodyInfo{body: body, shape: shape}
	})
}

func (ps *PhysicsSystem) removeDead(w *ecs.World) {
	for e, info := range ps.bodies {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ps.space.RemoveShape(info.shape)
		ps.space.RemoveBody(info.body)
		delete(ps.bodies, e)
	}
}
