// Package sim wires the guard systems into a fixed-step simulation over a
// loaded level.
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
	"github.com/milk9111/guardpatrol/ecs/entity"
	"github.com/milk9111/guardpatrol/ecs/system"
	"github.com/milk9111/guardpatrol/levels"
	"github.com/milk9111/guardpatrol/logger"
	"github.com/milk9111/guardpatrol/prefabs"
)

type Simulation struct {
	World     *ecs.World
	Level     *levels.Level
	Built     *entity.Built
	Scheduler *ecs.Scheduler

	Timers   *system.TimerManager
	Notifier *system.StateNotifier
	Guards   *system.GuardSystem
	Physics  *system.PhysicsSystem
	Scripts  *system.GuardScriptRuntime

	guardPrefabs map[ecs.Entity]string
}

func New(lvl *levels.Level) (*Simulation, error) {
	if lvl == nil {
		return nil, fmt.Errorf("sim: nil level")
	}

	w := ecs.NewWorld()
	built, err := entity.LoadLevelToWorld(w, lvl)
	if err != nil {
		return nil, fmt.Errorf("sim: build level %s: %w", lvl.Name, err)
	}

	timers := system.NewTimerManager()
	notifier := system.NewStateNotifier()
	guards := system.NewGuardSystem(timers, notifier)
	physics := system.NewPhysicsSystem()
	scripts := system.NewGuardScriptRuntime()
	notifier.Subscribe(scripts.Handle)

	s := &Simulation{
		World:        w,
		Level:        lvl,
		Built:        built,
		Timers:       timers,
		Notifier:     notifier,
		Guards:       guards,
		Physics:      physics,
		Scripts:      scripts,
		guardPrefabs: map[ecs.Entity]string{},
	}

	for _, g := range lvl.Guards {
		name := g.Prefab
		if name == "" {
			name = "guard.yaml"
		}
		s.guardPrefabs[built.Guards[g.Name]] = name
	}

	s.Scheduler = ecs.NewScheduler(
		system.NewIntruderSystem(),
		system.NewNavigationSystem(),
		physics,
		system.NewPawnSensingSystem(guards),
		system.NewTimerSystem(timers),
		guards,
		system.NewDebugDrawSystem(),
	)

	logger.Log.WithFields(logrus.Fields{
		"level":     lvl.Name,
		"guards":    len(built.Guards),
		"intruders": len(built.Intruders),
	}).Info("simulation ready")

	return s, nil
}

// Load builds a simulation for a level file name (embedded or on disk).
func Load(name string) (*Simulation, error) {
	lvl, err := levels.Load(name)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	return New(lvl)
}

// Step advances one tick and returns the events raised during it.
func (s *Simulation) Step() []ecs.Event {
	s.Scheduler.Update(s.World)
	return s.World.Events().Drain()
}

// Run advances n ticks, stopping early once the mission is complete.
func (s *Simulation) Run(n int) []ecs.Event {
	var events []ecs.Event
	for i := 0; i < n; i++ {
		events = append(events, s.Step()...)
		if s.MissionComplete() {
			break
		}
	}
	return events
}

func (s *Simulation) Tick() uint64 {
	return s.World.Tick()
}

func (s *Simulation) MissionComplete() bool {
	m, ok := ecs.Singleton(s.World, component.MissionComponent.Kind())
	return ok && m.Complete
}

func (s *Simulation) Guard(name string) (ecs.Entity, bool) {
	e, ok := s.Built.Guards[name]
	return e, ok && ecs.IsAlive(s.World, e)
}

func (s *Simulation) GuardState(name string) (component.GuardState, bool) {
	e, ok := s.Guard(name)
	if !ok {
		return component.GuardIdle, false
	}
	g, ok := ecs.Get(s.World, e, component.GuardComponent.Kind())
	if !ok {
		return component.GuardIdle, false
	}
	return g.State, true
}

// ApplyChange reacts to an edited prefab or script. Call it between ticks.
func (s *Simulation) ApplyChange(change prefabs.Change) error {
	log := logger.Log.WithFields(logrus.Fields{"file": change.Name, "kind": change.Kind})

	if change.Kind == prefabs.ChangeScript {
		s.Scripts.Invalidate(change.Name)
		log.Info("guard script reloaded")
		return nil
	}

	var spec *prefabs.GuardSpec
	applied := 0
	for e, prefab := range s.guardPrefabs {
		if prefab != change.Name {
			continue
		}
		if spec == nil {
			loaded, err := prefabs.LoadGuardSpec(prefab)
			if err != nil {
				return fmt.Errorf("sim: reload %s: %w", prefab, err)
			}
			spec = loaded
		}
		if entity.ApplyGuardSpec(s.World, e, spec) {
			applied++
		}
	}
	if applied > 0 {
		log.WithField("guards", applied).Info("guard prefab reloaded")
	}
	return nil
}
