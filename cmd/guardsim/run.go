package main

import (
	"context"
	"time"

	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/system"
	"github.com/milk9111/guardpatrol/feed"
	"github.com/milk9111/guardpatrol/logger"
	"github.com/milk9111/guardpatrol/prefabs"
	"github.com/milk9111/guardpatrol/sim"
)

// snapshotEvery is how often observers get a full snapshot, in ticks.
const snapshotEvery = common.TPS / 10

type runOptions struct {
	maxTicks int
	realtime bool
	hub      *feed.Hub
	watcher  *prefabs.Watcher
}

type runResult struct {
	ticks        uint64
	complete     bool
	success      bool
	stateChanges int
}

// attachFeed forwards state changes and mission results to observers. It
// must be called from the goroutine that steps s.
func attachFeed(s *sim.Simulation, hub *feed.Hub) {
	publishSnapshot(s, hub, false)
	s.Notifier.Subscribe(func(_ *ecs.World, ev system.GuardStateChanged) {
		hub.Broadcast(feed.Message{Type: feed.MessageState, Tick: ev.Tick, Data: ev})
	})
}

func run(ctx context.Context, s *sim.Simulation, opts runOptions) runResult {
	var res runResult

	var tick <-chan time.Time
	if opts.realtime {
		ticker := time.NewTicker(time.Second / common.TPS)
		defer ticker.Stop()
		tick = ticker.C
	}

	var changes <-chan prefabs.Change
	var watchErrs <-chan error
	if opts.watcher != nil {
		changes = opts.watcher.Changes
		watchErrs = opts.watcher.Errors
	}

	for opts.maxTicks <= 0 || int(s.Tick()) < opts.maxTicks {
		if tick != nil {
			select {
			case <-ctx.Done():
				return finish(s, res)
			case change, ok := <-changes:
				if !ok {
					changes = nil
				} else {
					applyChange(s, change)
				}
				continue
			case err, ok := <-watchErrs:
				if !ok {
					watchErrs = nil
				} else {
					logger.Log.WithError(err).Warn("prefab watcher error")
				}
				continue
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				return finish(s, res)
			case change, ok := <-changes:
				if !ok {
					changes = nil
				} else {
					applyChange(s, change)
				}
			default:
			}
		}

		for _, ev := range s.Step() {
			switch ev.Type {
			case ecs.EventGuardStateChanged:
				res.stateChanges++
			case ecs.EventMissionComplete:
				if opts.hub != nil {
					opts.hub.Broadcast(feed.Message{Type: feed.MessageMission, Tick: ev.Tick, Data: ev.Data})
				}
			}
		}

		if opts.hub != nil && s.Tick()%snapshotEvery == 0 {
			publishSnapshot(s, opts.hub, true)
		}

		if s.MissionComplete() && opts.maxTicks <= 0 && !opts.realtime {
			break
		}
	}

	return finish(s, res)
}

// publishSnapshot copies the world into a snapshot on the stepping goroutine
// and hands only that copy to the hub, as the hello for new observers and,
// with broadcast set, to everyone connected.
func publishSnapshot(s *sim.Simulation, hub *feed.Hub, broadcast bool) {
	snap := s.Snapshot()
	hub.SetHello(feed.Message{Type: feed.MessageHello, Tick: snap.Tick, Data: snap})
	if broadcast {
		hub.Broadcast(feed.Message{Type: feed.MessageSnapshot, Tick: snap.Tick, Data: snap})
	}
}

func applyChange(s *sim.Simulation, change prefabs.Change) {
	if err := s.ApplyChange(change); err != nil {
		logger.Log.WithError(err).WithField("file", change.Name).Warn("hot reload failed")
	}
}

func finish(s *sim.Simulation, res runResult) runResult {
	snap := s.Snapshot()
	res.ticks = snap.Tick
	res.complete = snap.Complete
	res.success = snap.Success
	return res
}
