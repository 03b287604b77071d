// Package accessory hosts scripted behaviors. An accessory script defines
// any of on_attach, on_damage and on_destroy, and drives the combat core
// through the engine map it is handed.
package accessory

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/prefabs"
)

var ErrScriptCompile = errors.New("accessory: script compile failed")

// Hooks a script does not assign stay no-ops.
const prelude = `
on_attach := func(engine, self, state) {}
on_detach := func(engine, self, state) {}
on_damage := func(engine, self, amount, source, state) {}
on_destroy := func(engine, self, state) {}
`

const dispatch = `
if __phase == "attach" {
	on_attach(__engine, __self, __state)
} else if __phase == "detach" {
	on_detach(__engine, __self, __state)
} else if __phase == "damage" {
	on_damage(__engine, __self, __amount, __source, __state)
} else if __phase == "destroy" {
	on_destroy(__engine, __self, __state)
}
`

// Script is a compiled accessory. Each attached instance runs its own clone.
type Script struct {
	name     string
	compiled *tengo.Compiled
}

// Compile builds a script from source.
func Compile(name string, src []byte) (*Script, error) {
	full := prelude + "\n" + string(src) + "\n" + dispatch
	script := tengo.NewScript([]byte(full))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__self", 0)
	_ = script.Add("__amount", 0.0)
	_ = script.Add("__source", 0)
	_ = script.Add("__state", map[string]any{})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrScriptCompile, name, err)
	}
	return &Script{name: name, compiled: compiled}, nil
}

// Load compiles a script from the prefab scripts directory.
func Load(name string) (*Script, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("accessory: load %s: %w", name, err)
	}
	return Compile(name, src)
}

func (s *Script) Name() string { return s.name }

// Behavior returns a fresh behavior instance for one ball.
func (s *Script) Behavior() *Behavior {
	return &Behavior{
		script:   s,
		compiled: s.compiled.Clone(),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
}

// Behavior runs a Script against one ball. It implements combat.Behavior.
type Behavior struct {
	script   *Script
	compiled *tengo.Compiled
	state    *tengo.Map

	// running rejects hooks that re-enter the same instance, e.g. a script
	// damaging its own ball from on_damage.
	running bool
}

var _ combat.Behavior = (*Behavior)(nil)

func (b *Behavior) Name() string { return "script:" + b.script.name }

func (b *Behavior) Attach(m *combat.Manager, e ecs.Entity) {
	b.run(m, e, "attach", 0, 0)
}

func (b *Behavior) Detach(m *combat.Manager, e ecs.Entity) {
	b.run(m, e, "detach", 0, 0)
}

func (b *Behavior) OnDamage(m *combat.Manager, e ecs.Entity, amount float64, source ecs.Entity) {
	b.run(m, e, "damage", amount, source)
}

func (b *Behavior) OnDestroy(m *combat.Manager, e ecs.Entity) {
	b.run(m, e, "destroy", 0, 0)
}

// State exposes the script's persistent state map.
func (b *Behavior) State() map[string]tengo.Object {
	return b.state.Value
}

func (b *Behavior) run(m *combat.Manager, e ecs.Entity, phase string, amount float64, source ecs.Entity) {
	if b.running {
		return
	}
	b.running = true
	defer func() { b.running = false }()

	if err := b.set(m, e, phase, amount, source); err != nil {
		log.Printf("accessory: %s: entity=%v set %s: %v", b.script.name, e, phase, err)
		return
	}
	if err := b.compiled.Run(); err != nil {
		log.Printf("accessory: %s: entity=%v %s: %v", b.script.name, e, phase, err)
	}
}

func (b *Behavior) set(m *combat.Manager, e ecs.Entity, phase string, amount float64, source ecs.Entity) error {
	c := b.compiled
	if err := c.Set("__phase", phase); err != nil {
		return err
	}
	if err := c.Set("__engine", newEngine(m, e, b.script.name)); err != nil {
		return err
	}
	if err := c.Set("__self", int64(e)); err != nil {
		return err
	}
	if err := c.Set("__amount", amount); err != nil {
		return err
	}
	if err := c.Set("__source", int64(source)); err != nil {
		return err
	}
	return c.Set("__state", b.state)
}

// Library caches compiled scripts by name.
type Library struct {
	scripts map[string]*Script
}

func NewLibrary() *Library {
	return &Library{scripts: make(map[string]*Script)}
}

// Get returns the cached script, compiling it on first use.
func (l *Library) Get(name string) (*Script, error) {
	key := strings.TrimSpace(name)
	if s, ok := l.scripts[key]; ok {
		return s, nil
	}
	s, err := Load(key)
	if err != nil {
		return nil, err
	}
	l.scripts[key] = s
	return s, nil
}

// Reload recompiles name. Existing behavior instances keep the old code;
// on failure the cached script is kept.
func (l *Library) Reload(name string) error {
	s, err := Load(name)
	if err != nil {
		return err
	}
	l.scripts[strings.TrimSpace(name)] = s
	return nil
}

// Attach instantiates every named script on e.
func (l *Library) Attach(m *combat.Manager, e ecs.Entity, names ...string) error {
	for _, name := range names {
		s, err := l.Get(name)
		if err != nil {
			return err
		}
		m.AttachBehavior(e, s.Behavior())
	}
	return nil
}
