package system

import (
	"testing"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

func TestPhysicsStaticWallBlocksBody(t *testing.T) {
	w := newTestWorld(t, 640, 480)
	addWall(t, w, 100, 0, 20, 200)

	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{})
	mustAdd(t, w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: 10, Mass: 1})
	mustAdd(t, w, e, component.VelocityComponent.Kind(), &component.Velocity{X: 100})

	ps := NewPhysicsSystem()
	for i := 0; i < 120; i++ {
		ps.Update(w)
	}

	tr := transformOf(t, w, e)
	if tr.X <= 10 {
		t.Fatalf("body did not move, x=%v", tr.X)
	}
	if tr.X > 85 {
		t.Fatalf("body passed into the wall, x=%v", tr.X)
	}
}

func TestPhysicsIntegratesBodylessEntities(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{})
	mustAdd(t, w, e, component.VelocityComponent.Kind(), &component.Velocity{X: 60, Y: -60})

	ps := NewPhysicsSystem()
	for i := 0; i < 60; i++ {
		ps.Update(w)
	}

	tr := transformOf(t, w, e)
	if tr.X < 59.9 || tr.X > 60.1 || tr.Y > -59.9 || tr.Y < -60.1 {
		t.Fatalf("expected one second of motion, got %+v", tr)
	}
}

func TestPhysicsRemovesDestroyedBodies(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{})
	mustAdd(t, w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Radius: 4})

	ps := NewPhysicsSystem()
	ps.Update(w)
	if len(ps.bodies) != 1 {
		t.Fatalf("expected one tracked body, got %d", len(ps.bodies))
	}

	ecs.DestroyEntity(w, e)
	ps.Update(w)
	if len(ps.bodies) != 0 {
		t.Fatalf("expected body to be removed, got %d", len(ps.bodies))
	}
}
