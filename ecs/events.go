package ecs

// Event is a world-level notification drained by whoever drives the loop.
type Event struct {
	Type string
	Tick uint64
	Data any
}

const (
	EventGuardStateChanged = "guard_state_changed"
	EventMissionComplete   = "mission_complete"
	EventNoise             = "noise"
)

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}
