package system

import (
	"math"

	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

// noiseRetainTicks bounds how long a noise waits to be sensed. It must be
// longer than any sensing interval in use.
const noiseRetainTicks = 5 * common.TPS

// SensingListener receives perception callbacks for the sensing entity.
type SensingListener interface {
	OnPawnSeen(w *ecs.World, sensor, pawn ecs.Entity)
	OnNoiseHeard(w *ecs.World, sensor, instigator ecs.Entity, x, y, volume float64)
}

// PawnSensingSystem gives entities with PawnSensing periodic sight and
// hearing checks, reporting what they sense to a listener.
type PawnSensingSystem struct {
	listener SensingListener
}

func NewPawnSensingSystem(listener SensingListener) *PawnSensingSystem {
	return &PawnSensingSystem{listener: listener}
}

// MakeNoise records a noise at (x, y). instigator may be zero for noises
// with no owning pawn.
func MakeNoise(w *ecs.World, instigator ecs.Entity, x, y, loudness float64) (ecs.Entity, error) {
	if loudness <= 0 {
		loudness = 1
	}
	e := ecs.CreateEntity(w)
	noise := &component.NoiseEvent{
		Instigator: ecs.Ref(instigator),
		X:          x,
		Y:          y,
		Loudness:   loudness,
		Tick:       w.Tick(),
	}
	if err := ecs.Add(w, e, component.NoiseEventComponent.Kind(), noise); err != nil {
		return 0, err
	}
	w.Events().Push(ecs.Event{Type: ecs.EventNoise, Tick: w.Tick(), Data: *noise})
	return e, nil
}

func (ps *PawnSensingSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	now := w.Tick()

	ecs.ForEach2(w, component.PawnSensingComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, s *component.PawnSensing, t *component.Transform) {
		s.Countdown -= common.TickSeconds
		if s.Countdown > 0 {
			return
		}
		s.Countdown = math.Max(s.SensingInterval, 0)

		seen := map[ecs.Entity]bool{}
		if s.SeePawns {
			ecs.ForEach2(w, component.PawnTagComponent.Kind(), component.TransformComponent.Kind(), func(pawn ecs.Entity, _ *component.PawnTag, pt *component.Transform) {
				if pawn == e || !canSensePawn(w, s, pawn) {
					return
				}
				if !CanSee(w, e, s, t, pawn, pt) {
					return
				}
				seen[pawn] = true
				if ps.listener != nil {
					ps.listener.OnPawnSeen(w, e, pawn)
				}
			})
		}

		since := s.NextNoiseTick
		s.NextNoiseTick = now + 1
		if !s.HearNoises {
			return
		}
		ecs.ForEach(w, component.NoiseEventComponent.Kind(), func(_ ecs.Entity, n *component.NoiseEvent) {
			if n.Tick < since || n.Tick > now {
				return
			}
			instigator := ecs.FromRef(n.Instigator)
			if instigator == e || seen[instigator] {
				return
			}
			if s.OnlySensePlayers && !ecs.Has(w, instigator, component.PlayerTagComponent.Kind()) {
				return
			}
			if !CanHear(w, e, s, t, n) {
				return
			}
			if ps.listener != nil {
				ps.listener.OnNoiseHeard(w, e, instigator, n.X, n.Y, n.Loudness)
			}
		})
	})

	ecs.ForEach(w, component.NoiseEventComponent.Kind(), func(e ecs.Entity, n *component.NoiseEvent) {
		if n.Tick+noiseRetainTicks < now {
			ecs.DestroyEntity(w, e)
		}
	})
}

func canSensePawn(w *ecs.World, s *component.PawnSensing, pawn ecs.Entity) bool {
	if !ecs.IsAlive(w, pawn) {
		return false
	}
	if s.OnlySensePlayers && !ecs.Has(w, pawn, component.PlayerTagComponent.Kind()) {
		return false
	}
	return true
}

// CanSee applies the sight radius, the peripheral vision cone around the
// sensor's facing and line of sight against static bodies.
func CanSee(w *ecs.World, sensor ecs.Entity, s *component.PawnSensing, st *component.Transform, pawn ecs.Entity, pt *component.Transform) bool {
	dist := common.Distance(st.X, st.Y, pt.X, pt.Y)
	if dist > s.SightRadius {
		return false
	}
	if heading, ok := common.Heading(st.X, st.Y, pt.X, pt.Y); ok {
		if common.AngleBetween(st.Rotation, heading) > common.DegToRad(s.PeripheralVisionAngle) {
			return false
		}
	}
	return HasLineOfSight(w, st.X, st.Y, pt.X, pt.Y, sensor, pawn)
}

// CanHear scales the hearing threshold by loudness; with line of sight to
// the noise the longer LOS threshold applies.
func CanHear(w *ecs.World, sensor ecs.Entity, s *component.PawnSensing, st *component.Transform, n *component.NoiseEvent) bool {
	dist := common.Distance(st.X, st.Y, n.X, n.Y)
	if dist > math.Max(s.HearingThreshold, s.LOSHearingThreshold)*n.Loudness {
		return false
	}
	if HasLineOfSight(w, st.X, st.Y, n.X, n.Y, sensor) {
		return dist <= s.LOSHearingThreshold*n.Loudness
	}
	return dist <= s.HearingThreshold*n.Loudness
}
