package system

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
	"github.com/milk9111/guardpatrol/logger"
)

const (
	seenSphereRadius  = 32.0
	heardSphereRadius = 32.0
	debugSphereTTL    = 10.0
)

// GuardSystem runs the guard behavior: patrol between two points, turn
// suspicious on noises, raise the alarm on sight, and calm down once the
// reset timer runs out. It is also the SensingListener for guards.
type GuardSystem struct {
	timers   *TimerManager
	notifier *StateNotifier
}

func NewGuardSystem(timers *TimerManager, notifier *StateNotifier) *GuardSystem {
	if timers == nil {
		timers = NewTimerManager()
	}
	return &GuardSystem{timers: timers, notifier: notifier}
}

func (gs *GuardSystem) Timers() *TimerManager {
	return gs.timers
}

func (gs *GuardSystem) Update(w *ecs.World) {
	if gs == nil || w == nil {
		return
	}

	ecs.ForEach2(w, component.GuardComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, g *component.Guard, t *component.Transform) {
		gs.ensureStarted(w, e)

		if g.CurrentPatrolPoint.IsZero() || g.State != component.GuardIdle {
			return
		}
		pt, ok := ecs.Get(w, ecs.FromRef(g.CurrentPatrolPoint), component.TransformComponent.Kind())
		if !ok {
			return
		}
		if common.Distance(t.X, t.Y, pt.X, pt.Y) < arriveDistance(g) {
			gs.MoveToNextPatrolPoint(w, e)
		}
	})
}

// ensureStarted runs begin-play for a guard the first time it is touched.
// Perception runs before the guard system in a tick, so callbacks call it
// too.
func (gs *GuardSystem) ensureStarted(w *ecs.World, e ecs.Entity) {
	g, ok := ecs.Get(w, e, component.GuardComponent.Kind())
	if !ok || g.Started {
		return
	}
	g.Started = true
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		g.OriginalRotation = t.Rotation
	}
	if g.Patrol {
		gs.MoveToNextPatrolPoint(w, e)
	}
}

// OnPawnSeen raises the alarm: the mission fails and the guard stops.
func (gs *GuardSystem) OnPawnSeen(w *ecs.World, guard, pawn ecs.Entity) {
	if !ecs.IsAlive(w, pawn) {
		return
	}
	if !ecs.Has(w, guard, component.GuardComponent.Kind()) {
		return
	}
	gs.ensureStarted(w, guard)

	if pt, ok := ecs.Get(w, pawn, component.TransformComponent.Kind()); ok {
		DrawDebugSphere(w, pt.X, pt.Y, seenSphereRadius, component.DebugPurple, debugSphereTTL)
	}

	CompleteMission(w, pawn, false)
	gs.SetGuardState(w, guard, component.GuardAlerted)
	StopMovement(w, guard)
}

// OnNoiseHeard turns the guard towards the noise and (re)starts the reset
// timer. Alerted guards no longer care about noises.
func (gs *GuardSystem) OnNoiseHeard(w *ecs.World, guard, instigator ecs.Entity, x, y, volume float64) {
	gs.ensureStarted(w, guard)
	g, ok := ecs.Get(w, guard, component.GuardComponent.Kind())
	if !ok || g.State == component.GuardAlerted {
		return
	}
	t, ok := ecs.Get(w, guard, component.TransformComponent.Kind())
	if !ok {
		return
	}

	DrawDebugSphere(w, x, y, heardSphereRadius, component.DebugRed, debugSphereTTL)

	// yaw only, the guard stays upright
	if yaw, ok := common.Heading(t.X, t.Y, x, y); ok {
		t.Rotation = yaw
	}

	delay := g.ResetDelay
	if delay <= 0 {
		delay = component.DefaultGuardResetDelay
	}
	gs.timers.SetTimer(&g.ResetTimer, delay, func() {
		gs.ResetOrientation(w, guard)
	})

	logger.Log.WithFields(logrus.Fields{
		"guard":      guard,
		"instigator": instigator,
		"volume":     volume,
	}).Debug("guard heard noise")

	gs.SetGuardState(w, guard, component.GuardSuspicious)
	StopMovement(w, guard)
}

// ResetOrientation ends an investigation: the guard faces its original
// direction, goes idle and resumes its patrol. Alerted guards stay alerted.
func (gs *GuardSystem) ResetOrientation(w *ecs.World, guard ecs.Entity) {
	g, ok := ecs.Get(w, guard, component.GuardComponent.Kind())
	if !ok || g.State == component.GuardAlerted {
		return
	}
	if t, ok := ecs.Get(w, guard, component.TransformComponent.Kind()); ok {
		t.Rotation = g.OriginalRotation
	}

	gs.SetGuardState(w, guard, component.GuardIdle)

	if g.Patrol {
		gs.MoveToNextPatrolPoint(w, guard)
	}
}

// SetGuardState changes the state and notifies listeners. Setting the
// current state again does nothing.
func (gs *GuardSystem) SetGuardState(w *ecs.World, guard ecs.Entity, state component.GuardState) {
	g, ok := ecs.Get(w, guard, component.GuardComponent.Kind())
	if !ok || g.State == state {
		return
	}

	ev := GuardStateChanged{
		Guard: guard,
		Name:  entityName(w, guard),
		From:  g.State,
		To:    state,
		Tick:  w.Tick(),
	}
	g.State = state

	logger.Log.WithFields(logrus.Fields{
		"guard": ev.Name,
		"from":  ev.From,
		"to":    ev.To,
	}).Info("guard state changed")

	w.Events().Push(ecs.Event{Type: ecs.EventGuardStateChanged, Tick: ev.Tick, Data: ev})
	gs.notifier.Notify(w, ev)
}

// MoveToNextPatrolPoint alternates between the two patrol points, starting
// with the first one.
func (gs *GuardSystem) MoveToNextPatrolPoint(w *ecs.World, guard ecs.Entity) {
	g, ok := ecs.Get(w, guard, component.GuardComponent.Kind())
	if !ok {
		return
	}

	if g.CurrentPatrolPoint.IsZero() || g.CurrentPatrolPoint == g.SecondPatrolPoint {
		g.CurrentPatrolPoint = g.FirstPatrolPoint
	} else {
		g.CurrentPatrolPoint = g.SecondPatrolPoint
	}

	MoveToEntity(w, guard, ecs.FromRef(g.CurrentPatrolPoint), arriveDistance(g)/2)
}

func arriveDistance(g *component.Guard) float64 {
	if g.ArriveDistance > 0 {
		return g.ArriveDistance
	}
	return component.DefaultGuardArriveDistance
}

func entityName(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok && n.Value != "" {
		return n.Value
	}
	return "entity-" + e.String()
}
