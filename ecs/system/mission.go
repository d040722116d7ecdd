package system

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
	"github.com/milk9111/guardpatrol/logger"
)

// CompleteMission records the level outcome. Only the first call takes
// effect; it reports whether this call did. A world without a Mission
// singleton has no game mode to report to.
func CompleteMission(w *ecs.World, instigator ecs.Entity, success bool) bool {
	m, ok := ecs.Singleton(w, component.MissionComponent.Kind())
	if !ok || m.Complete {
		return false
	}
	m.Complete = true
	m.Success = success
	m.Instigator = ecs.Ref(instigator)
	m.Tick = w.Tick()

	w.Events().Push(ecs.Event{Type: ecs.EventMissionComplete, Tick: w.Tick(), Data: *m})
	logger.Log.WithFields(logrus.Fields{
		"instigator": instigator,
		"success":    success,
		"tick":       m.Tick,
	}).Info("mission complete")
	return true
}
