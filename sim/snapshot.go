package sim

import (
	"sort"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

type GuardView struct {
	Name      string               `json:"name"`
	X         float64              `json:"x"`
	Y         float64              `json:"y"`
	Rotation  float64              `json:"rotation"`
	State     component.GuardState `json:"state"`
	Indicator string               `json:"indicator,omitempty"`
}

type PawnView struct {
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Snapshot is the observer view of one tick.
type Snapshot struct {
	Tick      uint64      `json:"tick"`
	Guards    []GuardView `json:"guards"`
	Intruders []PawnView  `json:"intruders"`
	Complete  bool        `json:"complete"`
	Success   bool        `json:"success"`
}

func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{Tick: s.World.Tick()}

	ecs.ForEach2(s.World, component.GuardComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, g *component.Guard, t *component.Transform) {
		view := GuardView{
			Name:     nameOf(s.World, e),
			X:        t.X,
			Y:        t.Y,
			Rotation: t.Rotation,
			State:    g.State,
		}
		if ind, ok := ecs.Get(s.World, e, component.IndicatorComponent.Kind()); ok {
			view.Indicator = ind.Text
		}
		snap.Guards = append(snap.Guards, view)
	})

	ecs.ForEach2(s.World, component.PawnTagComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, _ *component.PawnTag, t *component.Transform) {
		snap.Intruders = append(snap.Intruders, PawnView{Name: nameOf(s.World, e), X: t.X, Y: t.Y})
	})

	sort.Slice(snap.Guards, func(i, j int) bool { return snap.Guards[i].Name < snap.Guards[j].Name })

	if m, ok := ecs.Singleton(s.World, component.MissionComponent.Kind()); ok {
		snap.Complete, snap.Success = m.Complete, m.Success
	}
	return snap
}

func nameOf(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
		return n.Value
	}
	return e.String()
}
