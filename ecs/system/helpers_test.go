package system

import (
	"testing"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

func newTestWorld(t *testing.T, width, height float64) *ecs.World {
	t.Helper()
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.LevelBoundsComponent.Kind(), &component.LevelBounds{Width: width, Height: height})
	mustAdd(t, w, e, component.MissionComponent.Kind(), &component.Mission{})
	mustAdd(t, w, e, component.DebugDrawComponent.Kind(), &component.DebugDraw{})
	return w
}

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, kind, v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func addPoint(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.PatrolPointTagComponent.Kind(), &component.PatrolPointTag{})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	return e
}

// addWall takes the wall centre, like the physics bodies do.
func addWall(t *testing.T, w *ecs.World, cx, cy, width, height float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.WallTagComponent.Kind(), &component.WallTag{})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: cx, Y: cy})
	mustAdd(t, w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: width, Height: height, Static: true})
	return e
}

func addPawn(t *testing.T, w *ecs.World, x, y float64, player bool) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.PawnTagComponent.Kind(), &component.PawnTag{})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	if player {
		mustAdd(t, w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	}
	return e
}

type guardOpts struct {
	x, y, rotation float64
	patrol         bool
	first, second  ecs.Entity
}

func addGuard(t *testing.T, w *ecs.World, opts guardOpts) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.NameComponent.Kind(), &component.Name{Value: "guard"})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{X: opts.x, Y: opts.y, Rotation: opts.rotation})
	g := &component.Guard{Patrol: opts.patrol}
	if opts.first != 0 {
		g.FirstPatrolPoint = ecs.Ref(opts.first)
	}
	if opts.second != 0 {
		g.SecondPatrolPoint = ecs.Ref(opts.second)
	}
	mustAdd(t, w, e, component.GuardComponent.Kind(), g)
	mustAdd(t, w, e, component.NavigationComponent.Kind(), &component.Navigation{Speed: 100})
	mustAdd(t, w, e, component.VelocityComponent.Kind(), &component.Velocity{})
	sensing := component.DefaultPawnSensing()
	mustAdd(t, w, e, component.PawnSensingComponent.Kind(), &sensing)
	return e
}

func guardOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Guard {
	t.Helper()
	g, ok := ecs.Get(w, e, component.GuardComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no guard", e)
	}
	return g
}

func transformOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Transform {
	t.Helper()
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no transform", e)
	}
	return tr
}

func navOf(t *testing.T, w *ecs.World, e ecs.Entity) *component.Navigation {
	t.Helper()
	nav, ok := ecs.Get(w, e, component.NavigationComponent.Kind())
	if !ok {
		t.Fatalf("entity %v has no navigation", e)
	}
	return nav
}

type stateRecorder struct {
	changes []GuardStateChanged
}

func (r *stateRecorder) listen(_ *ecs.World, ev GuardStateChanged) {
	r.changes = append(r.changes, ev)
}

func newGuardSystem() (*GuardSystem, *stateRecorder) {
	rec := &stateRecorder{}
	n := NewStateNotifier()
	n.Subscribe(rec.listen)
	return NewGuardSystem(NewTimerManager(), n), rec
}
