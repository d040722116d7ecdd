package system

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/guardpatrol/ecs"
	"github.com/milk9111/guardpatrol/ecs/component"
	"github.com/milk9111/guardpatrol/logger"
	"github.com/milk9111/guardpatrol/prefabs"
)

// A guard script defines
//
//	on_state_changed := func(engine, event) { ... }
//
// where event carries "state", "from" and "guard". The dispatch snippet is
// appended to every script before compiling.
const guardScriptDispatch = `
if __phase == "state_changed" {
	on_state_changed(__engine, __event)
}
`

// guardScript is one compiled script file, shared by every guard that uses
// it. err is set when the file could not be loaded or compiled.
type guardScript struct {
	compiled *tengo.Compiled
	err      error
}

// guardScriptInstance is a guard's own copy of a compiled script.
type guardScriptInstance struct {
	path     string
	compiled *tengo.Compiled
	disabled bool
}

// GuardScriptRuntime runs per-guard presentation scripts when a guard's
// state changes. Subscribe its Handle method to a StateNotifier.
type GuardScriptRuntime struct {
	load      func(path string) ([]byte, error)
	scripts   map[string]*guardScript
	instances map[ecs.Entity]*guardScriptInstance
}

func NewGuardScriptRuntime() *GuardScriptRuntime {
	return &GuardScriptRuntime{
		load:      prefabs.LoadScript,
		scripts:   map[string]*guardScript{},
		instances: map[ecs.Entity]*guardScriptInstance{},
	}
}

// Invalidate drops the compiled copy of path, and every guard instance of
// it, so the next state change recompiles it. Used by the prefab watcher.
func (rt *GuardScriptRuntime) Invalidate(path string) {
	if rt == nil {
		return
	}
	base := filepath.Base(filepath.ToSlash(path))
	for key := range rt.scripts {
		if filepath.Base(key) == base {
			delete(rt.scripts, key)
		}
	}
	for e, inst := range rt.instances {
		if filepath.Base(inst.path) == base {
			delete(rt.instances, e)
		}
	}
}

func (rt *GuardScriptRuntime) Handle(w *ecs.World, ev GuardStateChanged) {
	if rt == nil {
		return
	}
	spec, ok := ecs.Get(w, ev.Guard, component.GuardScriptComponent.Kind())
	if !ok || strings.TrimSpace(spec.Path) == "" {
		return
	}

	log := logger.Log.WithFields(logrus.Fields{
		"guard":  ev.Name,
		"script": spec.Path,
	})

	inst, err := rt.instance(ev.Guard, spec.Path)
	if err != nil {
		log.WithError(err).Warn("guard script disabled")
		return
	}
	if inst.disabled {
		return
	}

	if err := rt.run(inst, w, ev); err != nil {
		inst.disabled = true
		log.WithError(err).Warn("guard script failed, disabling")
	}
}

// instance returns the guard's copy of the script at path, cloning it from
// the shared compile cache on first use. A failed load or compile leaves a
// disabled instance behind so the error is reported once per guard.
func (rt *GuardScriptRuntime) instance(guard ecs.Entity, path string) (*guardScriptInstance, error) {
	if inst, ok := rt.instances[guard]; ok && inst.path == path {
		return inst, nil
	}

	inst := &guardScriptInstance{path: path}
	rt.instances[guard] = inst

	s := rt.get(path)
	if s.err != nil {
		inst.disabled = true
		return nil, s.err
	}
	inst.compiled = s.compiled.Clone()
	return inst, nil
}

func (rt *GuardScriptRuntime) get(path string) *guardScript {
	if s, ok := rt.scripts[path]; ok {
		return s
	}
	s := &guardScript{}
	s.compiled, s.err = rt.compile(path)
	rt.scripts[path] = s
	return s
}

func (rt *GuardScriptRuntime) compile(path string) (*tengo.Compiled, error) {
	src, err := rt.load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + guardScriptDispatch))
	for name, value := range map[string]any{
		"__phase":  "",
		"__engine": map[string]any{},
		"__event":  map[string]any{},
	} {
		if err := script.Add(name, value); err != nil {
			return nil, fmt.Errorf("declare %s in %s: %w", name, path, err)
		}
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	return compiled, nil
}

func (rt *GuardScriptRuntime) run(inst *guardScriptInstance, w *ecs.World, ev GuardStateChanged) (err error) {
	// the tengo VM can panic on Go runtime errors such as integer division by zero
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script panic: %v", r)
		}
	}()

	event := &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"state": &tengo.String{Value: ev.To.String()},
		"from":  &tengo.String{Value: ev.From.String()},
		"guard": &tengo.String{Value: ev.Name},
		"tick":  &tengo.Int{Value: int64(ev.Tick)},
	}}

	if err := inst.compiled.Set("__phase", "state_changed"); err != nil {
		return err
	}
	if err := inst.compiled.Set("__engine", buildGuardScriptEngine(w, ev)); err != nil {
		return err
	}
	if err := inst.compiled.Set("__event", event); err != nil {
		return err
	}
	return inst.compiled.Run()
}

func buildGuardScriptEngine(w *ecs.World, ev GuardStateChanged) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["set_indicator"] = &tengo.UserFunction{Name: "set_indicator", Value: func(args ...tengo.Object) (tengo.Object, error) {
		var text, clr string
		if len(args) > 0 {
			text = objectAsString(args[0])
		}
		if len(args) > 1 {
			clr = objectAsString(args[1])
		}
		if ind, ok := ecs.Get(w, ev.Guard, component.IndicatorComponent.Kind()); ok {
			ind.Text, ind.Color = text, clr
			return tengo.TrueValue, nil
		}
		if err := ecs.Add(w, ev.Guard, component.IndicatorComponent.Kind(), &component.Indicator{Text: text, Color: clr}); err != nil {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		logger.Log.WithField("guard", ev.Name).Info(strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	values["get_position"] = &tengo.UserFunction{Name: "get_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t, ok := ecs.Get(w, ev.Guard, component.TransformComponent.Kind())
		if !ok {
			return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: 0}, &tengo.Float{Value: 0}}}, nil
		}
		return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: t.X}, &tengo.Float{Value: t.Y}}}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Undefined:
		return ""
	default:
		return strings.Trim(v.String(), "\"")
	}
}
