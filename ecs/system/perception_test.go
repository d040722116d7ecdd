package system

import (
	"testing"

	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

type sensed struct {
	sensor, other ecs.Entity
	noise         bool
	x, y          float64
}

type recordingListener struct {
	calls []sensed
}

func (r *recordingListener) OnPawnSeen(_ *ecs.World, sensor, pawn ecs.Entity) {
	r.calls = append(r.calls, sensed{sensor: sensor, other: pawn})
}

func (r *recordingListener) OnNoiseHeard(_ *ecs.World, sensor, instigator ecs.Entity, x, y, _ float64) {
	r.calls = append(r.calls, sensed{sensor: sensor, other: instigator, noise: true, x: x, y: y})
}

func (r *recordingListener) count(noise bool) int {
	n := 0
	for _, c := range r.calls {
		if c.noise == noise {
			n++
		}
	}
	return n
}

func testSensing() *component.PawnSensing {
	s := component.DefaultPawnSensing()
	s.SightRadius = 300
	s.PeripheralVisionAngle = 60
	s.HearingThreshold = 100
	s.LOSHearingThreshold = 200
	return &s
}

func TestCanSee(t *testing.T) {
	tests := []struct {
		name   string
		pawnX  float64
		pawnY  float64
		wall   bool
		expect bool
	}{
		{"straight_ahead", 200, 0, false, true},
		{"beyond_radius", 301, 0, false, false},
		{"on_radius", 300, 0, false, true},
		{"inside_cone", 100, 100, false, true},
		{"outside_cone", 0, 100, false, false},
		{"behind", -50, 0, false, false},
		{"occluded", 200, 0, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld(t, 640, 480)
			sensor := ecs.CreateEntity(w)
			pawn := addPawn(t, w, tc.pawnX, tc.pawnY, true)
			if tc.wall {
				addWall(t, w, 100, 0, 20, 200)
			}

			st := &component.Transform{}
			pt := transformOf(t, w, pawn)
			if got := CanSee(w, sensor, testSensing(), st, pawn, pt); got != tc.expect {
				t.Fatalf("expected %v, got %v", tc.expect, got)
			}
		})
	}
}

func TestCanHear(t *testing.T) {
	tests := []struct {
		name     string
		x        float64
		loudness float64
		wall     bool
		expect   bool
	}{
		{"los_within_los_threshold", 180, 1, false, true},
		{"los_beyond_los_threshold", 210, 1, false, false},
		{"blocked_within_hearing_threshold", 90, 1, true, true},
		{"blocked_beyond_hearing_threshold", 150, 1, true, false},
		{"blocked_loud_noise", 150, 2, true, true},
		{"quiet_noise", 150, 0.5, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld(t, 640, 480)
			sensor := ecs.CreateEntity(w)
			if tc.wall {
				addWall(t, w, 50, 0, 10, 200)
			}
			n := &component.NoiseEvent{X: tc.x, Loudness: tc.loudness}
			if got := CanHear(w, sensor, testSensing(), &component.Transform{}, n); got != tc.expect {
				t.Fatalf("expected %v, got %v", tc.expect, got)
			}
		})
	}
}

func newSensor(t *testing.T, w *ecs.World, s *component.PawnSensing) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{})
	mustAdd(t, w, e, component.PawnSensingComponent.Kind(), s)
	return e
}

func stepSensing(w *ecs.World, ps *PawnSensingSystem, ticks int) {
	for i := 0; i < ticks; i++ {
		ps.Update(w)
		w.AdvanceTick()
	}
}

func TestPawnSensingInterval(t *testing.T) {
	w := newTestWorld(t, 640, 480)
	newSensor(t, w, testSensing())
	addPawn(t, w, 100, 0, true)
	rec := &recordingListener{}
	ps := NewPawnSensingSystem(rec)

	stepSensing(w, ps, 1)
	if rec.count(false) != 1 {
		t.Fatalf("expected a sight report on the first tick, got %d", rec.count(false))
	}

	stepSensing(w, ps, 10)
	if rec.count(false) != 1 {
		t.Fatalf("expected no reports inside the sensing interval, got %d", rec.count(false))
	}

	stepSensing(w, ps, 25)
	if rec.count(false) != 2 {
		t.Fatalf("expected a second report after the interval, got %d", rec.count(false))
	}
}

func TestPawnSensingFilters(t *testing.T) {
	tests := []struct {
		name      string
		player    bool
		onlyPlay  bool
		seePawns  bool
		wantSight int
	}{
		{"player_seen", true, true, true, 1},
		{"non_player_ignored", false, true, true, 0},
		{"non_player_seen_when_allowed", false, false, true, 1},
		{"sight_disabled", true, true, false, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld(t, 640, 480)
			s := testSensing()
			s.OnlySensePlayers = tc.onlyPlay
			s.SeePawns = tc.seePawns
			newSensor(t, w, s)
			addPawn(t, w, 100, 0, tc.player)
			rec := &recordingListener{}

			stepSensing(w, NewPawnSensingSystem(rec), 1)

			if got := rec.count(false); got != tc.wantSight {
				t.Fatalf("expected %d sight reports, got %d", tc.wantSight, got)
			}
		})
	}
}

func TestSensorDoesNotSeeItself(t *testing.T) {
	w := newTestWorld(t, 640, 480)
	s := testSensing()
	s.OnlySensePlayers = false
	e := newSensor(t, w, s)
	mustAdd(t, w, e, component.PawnTagComponent.Kind(), &component.PawnTag{})
	rec := &recordingListener{}

	stepSensing(w, NewPawnSensingSystem(rec), 1)

	if len(rec.calls) != 0 {
		t.Fatalf("sensor reported itself: %+v", rec.calls)
	}
}

func TestNoiseHeardOnce(t *testing.T) {
	w := newTestWorld(t, 640, 480)
	newSensor(t, w, testSensing())
	// behind the sensor, out of sight
	pawn := addPawn(t, w, -50, 0, true)
	rec := &recordingListener{}
	ps := NewPawnSensingSystem(rec)

	if _, err := MakeNoise(w, pawn, -50, 0, 1); err != nil {
		t.Fatal(err)
	}
	stepSensing(w, ps, 2*common.TPS)

	if rec.count(true) != 1 || rec.count(false) != 0 {
		t.Fatalf("expected exactly one hearing report, got %+v", rec.calls)
	}
	if c := rec.calls[0]; c.other != pawn || c.x != -50 {
		t.Fatalf("unexpected report %+v", c)
	}
}

func TestNoiseBetweenPassesIsHeard(t *testing.T) {
	w := newTestWorld(t, 640, 480)
	newSensor(t, w, testSensing())
	pawn := addPawn(t, w, -50, 0, true)
	rec := &recordingListener{}
	ps := NewPawnSensingSystem(rec)

	stepSensing(w, ps, 5)
	if _, err := MakeNoise(w, pawn, -50, 0, 1); err != nil {
		t.Fatal(err)
	}
	stepSensing(w, ps, common.TPS)

	if rec.count(true) != 1 {
		t.Fatalf("expected the noise to be heard on the next pass, got %+v", rec.calls)
	}
}

func TestNoiseFromSeenPawnIsSkipped(t *testing.T) {
	w := newTestWorld(t, 640, 480)
	newSensor(t, w, testSensing())
	pawn := addPawn(t, w, 100, 0, true)
	rec := &recordingListener{}

	if _, err := MakeNoise(w, pawn, 100, 0, 1); err != nil {
		t.Fatal(err)
	}
	stepSensing(w, NewPawnSensingSystem(rec), 1)

	if rec.count(false) != 1 || rec.count(true) != 0 {
		t.Fatalf("expected sight only, got %+v", rec.calls)
	}
}

func TestOldNoisesArePruned(t *testing.T) {
	w := newTestWorld(t, 640, 480)
	noise, err := MakeNoise(w, 0, 0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if evs := w.Events().Drain(); len(evs) != 1 || evs[0].Type != ecs.EventNoise {
		t.Fatalf("expected a noise event, got %+v", evs)
	}

	stepSensing(w, NewPawnSensingSystem(nil), noiseRetainTicks+2)

	if ecs.IsAlive(w, noise) {
		t.Fatalf("expected noise to be pruned")
	}
}
