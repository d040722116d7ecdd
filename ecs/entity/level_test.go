package entity

import (
	"math"
	"testing"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
	"github.com/milk9111/guardpatrol/levels"
	"github.com/milk9111/guardpatrol/prefabs"
)

func loadVault(t *testing.T) (*ecs.World, *Built) {
	t.Helper()
	lvl, err := levels.Load(levels.DefaultLevel)
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	w := ecs.NewWorld()
	built, err := LoadLevelToWorld(w, lvl)
	if err != nil {
		t.Fatalf("build level: %v", err)
	}
	return w, built
}

func TestLoadLevelToWorld(t *testing.T) {
	w, built := loadVault(t)

	if len(built.Guards) != 3 || len(built.Intruders) != 1 || len(built.PatrolPoints) != 4 {
		t.Fatalf("unexpected counts: %d guards, %d intruders, %d points", len(built.Guards), len(built.Intruders), len(built.PatrolPoints))
	}
	for _, kind := range []string{"bounds", "mission", "debug"} {
		var ok bool
		switch kind {
		case "bounds":
			_, ok = ecs.Singleton(w, component.LevelBoundsComponent.Kind())
		case "mission":
			_, ok = ecs.Singleton(w, component.MissionComponent.Kind())
		case "debug":
			_, ok = ecs.Singleton(w, component.DebugDrawComponent.Kind())
		}
		if !ok {
			t.Fatalf("missing %s singleton", kind)
		}
	}

	walls := 0
	ecs.ForEach(w, component.WallTagComponent.Kind(), func(ecs.Entity, *component.WallTag) { walls++ })
	if walls != 9 {
		t.Fatalf("expected 9 walls, got %d", walls)
	}

	thief := built.Intruders["thief"]
	if !ecs.Has(w, thief, component.PlayerTagComponent.Kind()) || !ecs.Has(w, thief, component.PawnTagComponent.Kind()) {
		t.Fatalf("thief should be a player pawn")
	}
	in, _ := ecs.Get(w, thief, component.IntruderComponent.Kind())
	if len(in.Route) != 3 || in.NoiseInterval != 2.5 || in.NoiseTimer != 2.5 {
		t.Fatalf("unexpected intruder %+v", *in)
	}
}

func TestLevelGuards(t *testing.T) {
	w, built := loadVault(t)

	tests := []struct {
		name         string
		rotationDeg  float64
		patrol       bool
		first        string
		second       string
		wantScript   string
		wantArrive   float64
		wantResetSec float64
	}{
		{"hall", 0, true, "hall_west", "hall_east", "guard_indicator.tengo", 50, 3},
		{"yard", 90, true, "yard_north", "yard_south", "guard_indicator.tengo", 50, 3},
		{"door", 270, false, "", "", "guard_indicator.tengo", 50, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, ok := built.Guards[tc.name]
			if !ok {
				t.Fatalf("guard %s not built", tc.name)
			}
			g, _ := ecs.Get(w, e, component.GuardComponent.Kind())
			tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())

			if math.Abs(tr.Rotation-tc.rotationDeg*math.Pi/180) > 1e-9 {
				t.Fatalf("expected rotation %v deg, got %v rad", tc.rotationDeg, tr.Rotation)
			}
			if g.Patrol != tc.patrol || g.State != component.GuardIdle || g.Started {
				t.Fatalf("unexpected guard %+v", *g)
			}
			if g.ArriveDistance != tc.wantArrive || g.ResetDelay != tc.wantResetSec {
				t.Fatalf("spec not applied: arrive %v reset %v", g.ArriveDistance, g.ResetDelay)
			}

			checkRef := func(ref component.EntityRef, point string) {
				if point == "" {
					if !ref.IsZero() {
						t.Fatalf("expected no patrol point, got %v", ref)
					}
					return
				}
				if ecs.FromRef(ref) != built.PatrolPoints[point] {
					t.Fatalf("expected patrol point %s", point)
				}
			}
			checkRef(g.FirstPatrolPoint, tc.first)
			checkRef(g.SecondPatrolPoint, tc.second)

			script, ok := ecs.Get(w, e, component.GuardScriptComponent.Kind())
			if !ok || script.Path != tc.wantScript {
				t.Fatalf("expected script %q, got %+v", tc.wantScript, script)
			}
		})
	}
}

func TestNewWallUsesCentre(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewWall(w, 10, 20, 100, 40)
	if err != nil {
		t.Fatal(err)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	pb, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if tr.X != 60 || tr.Y != 40 {
		t.Fatalf("expected centre (60,40), got (%v,%v)", tr.X, tr.Y)
	}
	if !pb.Static || pb.Width != 100 || pb.Height != 40 {
		t.Fatalf("unexpected body %+v", *pb)
	}
}

func TestNewGuardIgnoresDeadPatrolPoints(t *testing.T) {
	w := ecs.NewWorld()
	first, err := NewPatrolPoint(w, "a", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewPatrolPoint(w, "b", 100, 0)
	if err != nil {
		t.Fatal(err)
	}
	ecs.DestroyEntity(w, second)

	e, err := NewGuard(w, GuardOptions{Name: "g", Patrol: true, First: first, Second: second})
	if err != nil {
		t.Fatal(err)
	}
	g, _ := ecs.Get(w, e, component.GuardComponent.Kind())
	if ecs.FromRef(g.FirstPatrolPoint) != first || !g.SecondPatrolPoint.IsZero() {
		t.Fatalf("unexpected patrol refs %v %v", g.FirstPatrolPoint, g.SecondPatrolPoint)
	}
}

func TestApplyGuardSpec(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewGuard(w, GuardOptions{Name: "g"})
	if err != nil {
		t.Fatal(err)
	}
	g, _ := ecs.Get(w, e, component.GuardComponent.Kind())
	g.State = component.GuardSuspicious

	off := false
	spec := &prefabs.GuardSpec{
		MoveSpeed:      200,
		ArriveDistance: 10,
		ResetDelay:     1.5,
		Sensing:        prefabs.SensingSpec{SightRadius: 99, SeePawns: &off},
	}
	if !ApplyGuardSpec(w, e, spec) {
		t.Fatalf("ApplyGuardSpec should apply to a guard")
	}

	s, _ := ecs.Get(w, e, component.PawnSensingComponent.Kind())
	nav, _ := ecs.Get(w, e, component.NavigationComponent.Kind())
	if g.ArriveDistance != 10 || g.ResetDelay != 1.5 || g.State != component.GuardSuspicious {
		t.Fatalf("unexpected guard after apply %+v", *g)
	}
	if s.SightRadius != 99 || s.SeePawns || !s.HearNoises {
		t.Fatalf("unexpected sensing after apply %+v", *s)
	}
	if nav.Speed != 200 {
		t.Fatalf("expected nav speed 200, got %v", nav.Speed)
	}

	if ApplyGuardSpec(w, e, nil) {
		t.Fatalf("nil spec should not apply")
	}
	wall, _ := NewWall(w, 0, 0, 1, 1)
	if ApplyGuardSpec(w, wall, spec) {
		t.Fatalf("non-guard should not apply")
	}
}
