package system

import (
	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

// GuardStateChanged is delivered to presentation listeners whenever a guard
// actually changes state.
type GuardStateChanged struct {
	Guard ecs.Entity           `json:"guard"`
	Name  string               `json:"name"`
	From  component.GuardState `json:"from"`
	To    component.GuardState `json:"to"`
	Tick  uint64               `json:"tick"`
}

type StateListener func(w *ecs.World, ev GuardStateChanged)

type listenerEntry struct {
	id int
	fn StateListener
}

// StateNotifier fans state changes out to subscribed listeners in
// subscription order.
type StateNotifier struct {
	nextID    int
	listeners []listenerEntry
}

func NewStateNotifier() *StateNotifier {
	return &StateNotifier{}
}

// Subscribe registers fn and returns a func that removes it again.
func (n *StateNotifier) Subscribe(fn StateListener) func() {
	if n == nil || fn == nil {
		return func() {}
	}
	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		for i, l := range n.listeners {
			if l.id == id {
				n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

func (n *StateNotifier) Notify(w *ecs.World, ev GuardStateChanged) {
	if n == nil {
		return
	}
	listeners := append([]listenerEntry(nil), n.listeners...)
	for _, l := range listeners {
		l.fn(w, ev)
	}
}
