package system

import (
	"errors"
	"testing"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
)

const indicatorScript = `
on_state_changed := func(engine, event) {
	if event.state == "alerted" {
		engine.set_indicator("!", "red")
	} else if event.state == "suspicious" {
		engine.set_indicator("?", "yellow")
	} else {
		engine.set_indicator("", "")
	}
}
`

func newScriptedGuard(t *testing.T, w *ecs.World, path string) ecs.Entity {
	t.Helper()
	g := addGuard(t, w, guardOpts{})
	mustAdd(t, w, g, component.GuardScriptComponent.Kind(), &component.GuardScript{Path: path})
	return g
}

func scriptRuntime(sources map[string]string, loads *int) *GuardScriptRuntime {
	rt := NewGuardScriptRuntime()
	rt.load = func(path string) ([]byte, error) {
		if loads != nil {
			*loads++
		}
		src, ok := sources[path]
		if !ok {
			return nil, errors.New("not found")
		}
		return []byte(src), nil
	}
	return rt
}

func indicatorOf(t *testing.T, w *ecs.World, e ecs.Entity) component.Indicator {
	t.Helper()
	ind, ok := ecs.Get(w, e, component.IndicatorComponent.Kind())
	if !ok {
		return component.Indicator{}
	}
	return *ind
}

func TestGuardScriptSetsIndicator(t *testing.T) {
	w := newTestWorld(t, 640, 480)
	guard := newScriptedGuard(t, w, "indicator.tengo")
	rt := scriptRuntime(map[string]string{"indicator.tengo": indicatorScript}, nil)

	tests := []struct {
		to   component.GuardState
		text string
		clr  string
	}{
		{component.GuardSuspicious, "?", "yellow"},
		{component.GuardIdle, "", ""},
		{component.GuardAlerted, "!", "red"},
	}

	for _, tc := range tests {
		t.Run(tc.to.String(), func(t *testing.T) {
			rt.Handle(w, GuardStateChanged{Guard: guard, Name: "guard", To: tc.to})
			ind := indicatorOf(t, w, guard)
			if ind.Text != tc.text || ind.Color != tc.clr {
				t.Fatalf("expected %q/%q, got %+v", tc.text, tc.clr, ind)
			}
		})
	}
}

func TestGuardScriptThroughGuardSystem(t *testing.T) {
	w := newTestWorld(t, 640, 480)
	guard := newScriptedGuard(t, w, "indicator.tengo")
	rt := scriptRuntime(map[string]string{"indicator.tengo": indicatorScript}, nil)
	n := NewStateNotifier()
	n.Subscribe(rt.Handle)
	gs := NewGuardSystem(NewTimerManager(), n)

	gs.OnNoiseHeard(w, guard, 0, 50, 50, 1)
	if ind := indicatorOf(t, w, guard); ind.Text != "?" {
		t.Fatalf("expected suspicious indicator, got %+v", ind)
	}
	gs.Timers().Advance(3)
	if ind := indicatorOf(t, w, guard); ind.Text != "" {
		t.Fatalf("expected indicator cleared, got %+v", ind)
	}
}

func TestGuardScriptFailures(t *testing.T) {
	tests := []struct {
		name   string
		source string
		path   string
		loads  int
	}{
		{"missing_file", "", "missing.tengo", 1},
		{"compile_error", "on_state_changed := func(engine, event) {", "broken.tengo", 1},
		{"runtime_error", "on_state_changed := func(engine, event) { x := event.state() }", "runtime.tengo", 1},
		{"go_panic_in_vm", "on_state_changed := func(engine, event) { y := 0; z := 1 / y }", "divide.tengo", 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := newTestWorld(t, 640, 480)
			guard := newScriptedGuard(t, w, tc.path)
			loads := 0
			sources := map[string]string{}
			if tc.source != "" {
				sources[tc.path] = tc.source
			}
			rt := scriptRuntime(sources, &loads)

			for i := 0; i < 3; i++ {
				rt.Handle(w, GuardStateChanged{Guard: guard, To: component.GuardAlerted})
			}
			if loads != tc.loads {
				t.Fatalf("expected %d loads, got %d", tc.loads, loads)
			}
			if inst := rt.instances[guard]; inst == nil || !inst.disabled {
				t.Fatalf("expected script to be disabled for the guard")
			}
		})
	}
}

func TestGuardScriptInvalidate(t *testing.T) {
	w := newTestWorld(t, 640, 480)
	guard := newScriptedGuard(t, w, "scripts/indicator.tengo")
	sources := map[string]string{"scripts/indicator.tengo": indicatorScript}
	loads := 0
	rt := scriptRuntime(sources, &loads)

	rt.Handle(w, GuardStateChanged{Guard: guard, To: component.GuardAlerted})
	sources["scripts/indicator.tengo"] = `on_state_changed := func(engine, event) { engine.set_indicator("reloaded", "") }`
	rt.Handle(w, GuardStateChanged{Guard: guard, To: component.GuardAlerted})
	if ind := indicatorOf(t, w, guard); ind.Text != "!" {
		t.Fatalf("expected cached script before invalidation, got %+v", ind)
	}

	rt.Invalidate("/tmp/prefabs/scripts/indicator.tengo")
	rt.Handle(w, GuardStateChanged{Guard: guard, To: component.GuardAlerted})
	if ind := indicatorOf(t, w, guard); ind.Text != "reloaded" {
		t.Fatalf("expected reloaded script, got %+v", ind)
	}
	if loads != 2 {
		t.Fatalf("expected two loads, got %d", loads)
	}
}

func TestGuardWithoutScriptIsSkipped(t *testing.T) {
	w := newTestWorld(t, 640, 480)
	guard := addGuard(t, w, guardOpts{})
	loads := 0
	rt := scriptRuntime(nil, &loads)

	rt.Handle(w, GuardStateChanged{Guard: guard, To: component.GuardAlerted})
	if loads != 0 {
		t.Fatalf("guard without a script should not load anything")
	}
}

func TestGuardScriptFailureOnlyDisablesThatGuard(t *testing.T) {
	const shared = `
on_state_changed := func(engine, event) {
	if event.guard == "bad" {
		arr := [1]
		x := arr[5] + 1
	}
	engine.set_indicator(event.state == "alerted" ? "!" : "?", "")
}
`
	w := newTestWorld(t, 640, 480)
	bad := newScriptedGuard(t, w, "shared.tengo")
	good := newScriptedGuard(t, w, "shared.tengo")
	loads := 0
	rt := scriptRuntime(map[string]string{"shared.tengo": shared}, &loads)

	rt.Handle(w, GuardStateChanged{Guard: bad, Name: "bad", To: component.GuardAlerted})
	rt.Handle(w, GuardStateChanged{Guard: good, Name: "good", To: component.GuardSuspicious})
	rt.Handle(w, GuardStateChanged{Guard: good, Name: "good", To: component.GuardAlerted})

	if !rt.instances[bad].disabled {
		t.Fatalf("expected failing guard's script to be disabled")
	}
	if rt.instances[good].disabled {
		t.Fatalf("other guard's script should keep running")
	}
	if ind := indicatorOf(t, w, good); ind.Text != "!" {
		t.Fatalf("expected good guard indicator \"!\", got %+v", ind)
	}
	if ind := indicatorOf(t, w, bad); ind.Text != "" {
		t.Fatalf("failing guard should not set an indicator, got %+v", ind)
	}
	if loads != 1 {
		t.Fatalf("expected the shared script to load once, got %d", loads)
	}
}
