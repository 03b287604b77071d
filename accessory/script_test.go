package accessory

import (
	"errors"
	"testing"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/ecs"
)

func newManager(t *testing.T) *combat.Manager {
	t.Helper()
	m, err := combat.NewManager(ecs.NewWorld(), combat.Options{Config: combat.DefaultConfig()})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func spawn(t *testing.T, m *combat.Manager, kind combat.Kind) ecs.Entity {
	t.Helper()
	e := m.World().CreateEntity()
	if err := m.Register(e, kind); err != nil {
		t.Fatalf("register: %v", err)
	}
	return e
}

func hp(t *testing.T, m *combat.Manager, e ecs.Entity) float64 {
	t.Helper()
	v, ok := m.CurrentHP(e)
	if !ok {
		t.Fatalf("no record for %v", e)
	}
	return v
}

func TestRetaliateScript(t *testing.T) {
	m := newManager(t)
	cue := spawn(t, m, combat.KindCue)
	target := spawn(t, m, combat.KindOne)
	spawn(t, m, combat.KindTwo)

	lib := NewLibrary()
	if err := lib.Attach(m, target, "retaliate"); err != nil {
		t.Fatalf("attach: %v", err)
	}
	b, ok := m.Behavior(target, "script:retaliate").(*Behavior)
	if !ok {
		t.Fatalf("expected script behavior on target")
	}

	m.ApplyDamage(target, 40, cue)

	if got := hp(t, m, cue); got != 90 {
		t.Fatalf("expected cue hit back for 10, hp=%v", got)
	}
	if hits, ok := b.State()["hits"].(*tengo.Int); !ok || hits.Value != 1 {
		t.Fatalf("expected hits=1 in script state, got %v", b.State()["hits"])
	}
	if !m.Gate().Immune(cue, target) {
		t.Fatalf("expected script to immunize the pair")
	}

	m.Kill(target, cue)
	if m.IsAlive(target) {
		t.Fatalf("expected target destroyed")
	}
}

func TestInstancesHaveOwnState(t *testing.T) {
	m := newManager(t)
	cue := spawn(t, m, combat.KindCue)
	a := spawn(t, m, combat.KindThree)
	b := spawn(t, m, combat.KindFive)

	lib := NewLibrary()
	if err := lib.Attach(m, a, "retaliate"); err != nil {
		t.Fatalf("attach a: %v", err)
	}
	if err := lib.Attach(m, b, "retaliate"); err != nil {
		t.Fatalf("attach b: %v", err)
	}
	m.ApplyDamage(a, 4, cue)
	m.ApplyDamage(a, 4, cue)
	m.ApplyDamage(b, 4, cue)

	ba := m.Behavior(a, "script:retaliate").(*Behavior)
	bb := m.Behavior(b, "script:retaliate").(*Behavior)
	if ba.State()["hits"].(*tengo.Int).Value != 2 || bb.State()["hits"].(*tengo.Int).Value != 1 {
		t.Fatalf("expected independent state, got %v and %v", ba.State()["hits"], bb.State()["hits"])
	}
}

func TestReentrantScriptDoesNotDeadlock(t *testing.T) {
	m := newManager(t)
	cue := spawn(t, m, combat.KindCue)
	target := spawn(t, m, combat.KindSix)
	spawn(t, m, combat.KindSeven)

	s, err := Compile("selfharm", []byte(`
on_damage = func(engine, self, amount, source, state) {
	engine.damage(self, 1)
}
`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	m.AttachBehavior(target, s.Behavior())

	m.ApplyDamage(target, 10, cue)
	if got := hp(t, m, target); got != 89 {
		t.Fatalf("expected one nested hit, hp=%v", got)
	}
}

func TestScriptHooksAreOptional(t *testing.T) {
	m := newManager(t)
	target := spawn(t, m, combat.KindOne)
	other := spawn(t, m, combat.KindTwo)

	s, err := Compile("parting", []byte(`
on_destroy = func(engine, self, state) {
	for _, e in engine.live() {
		if e != self {
			engine.kill(e)
		}
	}
}
`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	m.AttachBehavior(target, s.Behavior())

	m.ApplyDamage(target, 10, 0)
	if got := hp(t, m, target); got != 90 {
		t.Fatalf("unexpected hp %v", got)
	}
	m.Kill(target, 0)
	if m.IsAlive(other) {
		t.Fatalf("expected on_destroy to take the other ball down")
	}
}

func TestCompileError(t *testing.T) {
	if _, err := Compile("broken", []byte("on_damage = func(")); !errors.Is(err, ErrScriptCompile) {
		t.Fatalf("expected ErrScriptCompile, got %v", err)
	}
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatalf("expected missing script error")
	}
}
