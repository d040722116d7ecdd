package system

import (
	"sort"

	"github.com/milk9111/guardpatrol/common"
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

// timerEpsilon absorbs float drift from summing fixed tick durations, so a
// 3s timer fires on tick 180 rather than 181.
const timerEpsilon = 1e-6

type timerEntry struct {
	id     component.TimerHandle
	seq    uint64
	fireAt float64
	fn     func()
}

// TimerManager schedules one-shot delayed callbacks on simulation time.
// Handles are re-armable: setting a timer on a handle that is already armed
// cancels the previous callback.
type TimerManager struct {
	now    float64
	nextID component.TimerHandle
	seq    uint64
	active map[component.TimerHandle]*timerEntry
}

func NewTimerManager() *TimerManager {
	return &TimerManager{active: make(map[component.TimerHandle]*timerEntry)}
}

// Now returns the elapsed simulation time in seconds.
func (tm *TimerManager) Now() float64 {
	return tm.now
}

// SetTimer arms fn to run after delay seconds and stores the new id in
// handle. A non-positive delay only clears the handle.
func (tm *TimerManager) SetTimer(handle *component.TimerHandle, delay float64, fn func()) {
	if tm == nil || handle == nil {
		return
	}
	tm.ClearTimer(handle)
	if delay <= 0 || fn == nil {
		return
	}
	if tm.active == nil {
		tm.active = make(map[component.TimerHandle]*timerEntry)
	}
	tm.nextID++
	tm.seq++
	entry := &timerEntry{id: tm.nextID, seq: tm.seq, fireAt: tm.now + delay, fn: fn}
	tm.active[entry.id] = entry
	*handle = entry.id
}

// ClearTimer cancels the timer held by handle, if any, and zeroes it.
func (tm *TimerManager) ClearTimer(handle *component.TimerHandle) {
	if tm == nil || handle == nil {
		return
	}
	delete(tm.active, *handle)
	*handle = 0
}

func (tm *TimerManager) IsTimerActive(handle component.TimerHandle) bool {
	if tm == nil || handle == 0 {
		return false
	}
	_, ok := tm.active[handle]
	return ok
}

// Remaining returns the seconds left on handle, or 0 when inactive.
func (tm *TimerManager) Remaining(handle component.TimerHandle) float64 {
	if !tm.IsTimerActive(handle) {
		return 0
	}
	left := tm.active[handle].fireAt - tm.now
	if left < 0 {
		return 0
	}
	return left
}

// Advance moves simulation time forward and runs every callback that came
// due, earliest first. Callbacks may arm new timers; those only fire on a
// later Advance even with a tiny delay.
func (tm *TimerManager) Advance(dt float64) {
	if tm == nil {
		return
	}
	tm.now += dt

	var due []*timerEntry
	for _, entry := range tm.active {
		if entry.fireAt <= tm.now+timerEpsilon {
			due = append(due, entry)
		}
	}
	if len(due) == 0 {
		return
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].fireAt != due[j].fireAt {
			return due[i].fireAt < due[j].fireAt
		}
		return due[i].seq < due[j].seq
	})
	for _, entry := range due {
		// an earlier callback in this batch may have cleared or re-armed it
		if _, ok := tm.active[entry.id]; !ok {
			continue
		}
		delete(tm.active, entry.id)
		entry.fn()
	}
}

// TimerSystem advances a TimerManager by one tick per world update.
type TimerSystem struct {
	timers *TimerManager
}

func NewTimerSystem(timers *TimerManager) *TimerSystem {
	return &TimerSystem{timers: timers}
}

func (ts *TimerSystem) Update(w *ecs.World) {
	if ts == nil || w == nil {
		return
	}
	ts.timers.Advance(common.TickSeconds)
}
