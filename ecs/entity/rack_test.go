package entity

import (
	"testing"

	"github.com/milk9111/breakshot/accessory"
	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/prefabs"
)

func loadTable(t *testing.T) *prefabs.TableSpec {
	t.Helper()
	spec, err := prefabs.LoadTableSpec()
	if err != nil {
		t.Fatalf("LoadTableSpec: %v", err)
	}
	return spec
}

func TestBuildRack(t *testing.T) {
	spec := loadTable(t)
	w := ecs.NewWorld()
	m, err := combat.NewManager(w, combat.Options{Config: combat.DefaultConfig()})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	balls, err := BuildRack(w, m, spec, accessory.NewLibrary())
	if err != nil {
		t.Fatalf("BuildRack: %v", err)
	}
	if len(balls) != len(spec.Rack) {
		t.Fatalf("expected %d balls, got %d", len(spec.Rack), len(balls))
	}
	if m.PrimaryRemaining() != 1 || m.TargetsRemaining() != len(spec.Rack)-1 {
		t.Fatalf("expected one cue and %d targets, got %d and %d", len(spec.Rack)-1, m.PrimaryRemaining(), m.TargetsRemaining())
	}

	scripted := 0
	for i, b := range spec.Rack {
		for _, name := range b.Scripts {
			if m.Behavior(balls[i], "script:"+name) == nil {
				t.Fatalf("ball %d missing script %q", i, name)
			}
			scripted++
		}
		x, y, ok := m.Position(balls[i])
		if !ok || x != b.At.X || y != b.At.Y {
			t.Fatalf("ball %d at (%v,%v), want (%v,%v)", i, x, y, b.At.X, b.At.Y)
		}
	}
	if scripted == 0 {
		t.Fatalf("expected the stock rack to carry a script")
	}
}

func TestBuildRackRejectsUnknownKind(t *testing.T) {
	spec := loadTable(t)
	spec.Rack = append(spec.Rack[:1:1], prefabs.BallSpec{Kind: "fifteen"})
	w := ecs.NewWorld()
	m, _ := combat.NewManager(w, combat.Options{Config: combat.DefaultConfig()})

	balls, err := BuildRack(w, m, spec, nil)
	if err == nil {
		t.Fatalf("expected unknown kind rejected")
	}
	if len(balls) != 1 {
		t.Fatalf("expected the first ball spawned, got %d", len(balls))
	}
}

func TestCueSpawn(t *testing.T) {
	spec := loadTable(t)
	spawn := CueSpawn(spec)
	if spawn.Kind != combat.KindCue || spawn.X != spec.Rack[0].At.X || spawn.Y != spec.Rack[0].At.Y {
		t.Fatalf("expected rack cue spot, got %+v", spawn)
	}
	if spawn.Body.Radius != spec.Ball.Radius {
		t.Fatalf("expected ball radius %v, got %v", spec.Ball.Radius, spawn.Body.Radius)
	}

	spec.Rack = spec.Rack[1:]
	spawn = CueSpawn(spec)
	if spawn.X != spec.Origin.X+spec.Width/4 || spawn.Y != spec.Origin.Y+spec.Height/2 {
		t.Fatalf("expected head spot, got (%v,%v)", spawn.X, spawn.Y)
	}
}

func TestNewGridSeeded(t *testing.T) {
	spec := loadTable(t)
	a := NewGrid(spec, 5)
	b := NewGrid(spec, 5)
	a.DestroyRagged(400, 240, 60)
	b.DestroyRagged(400, 240, 60)
	if a.Removed() != b.Removed() || a.Removed() == 0 {
		t.Fatalf("expected equal seeded destruction, got %d and %d", a.Removed(), b.Removed())
	}
}
