package system

import (
	"testing"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

func TestStateNotifier(t *testing.T) {
	n := NewStateNotifier()
	var got []string

	unsubA := n.Subscribe(func(_ *ecs.World, ev GuardStateChanged) { got = append(got, "a:"+ev.To.String()) })
	var unsubB func()
	unsubB = n.Subscribe(func(_ *ecs.World, ev GuardStateChanged) {
		got = append(got, "b:"+ev.To.String())
		unsubB()
	})
	n.Subscribe(nil)

	n.Notify(nil, GuardStateChanged{To: component.GuardSuspicious})
	n.Notify(nil, GuardStateChanged{To: component.GuardAlerted})
	unsubA()
	unsubA()
	n.Notify(nil, GuardStateChanged{To: component.GuardIdle})

	want := []string{"a:suspicious", "b:suspicious", "a:alerted"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *StateNotifier
	n.Notify(nil, GuardStateChanged{})
	n.Subscribe(func(*ecs.World, GuardStateChanged) {})()
}
