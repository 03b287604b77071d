package system

import (
	"math/rand/v2"
	"testing"

	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/component"
	"github.com/milk9111/breakshot/terrain"
)

func newManager(t *testing.T, w *ecs.World) *combat.Manager {
	t.Helper()
	m, err := combat.NewManager(w, combat.Options{
		Config:   combat.DefaultConfig(),
		Listener: combat.QueueListener{Queue: w.Events()},
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func spawnAt(t *testing.T, w *ecs.World, m *combat.Manager, kind combat.Kind, x, y float64) ecs.Entity {
	t.Helper()
	e, err := SpawnBall(w, m, BallSpawn{Kind: kind, X: x, Y: y, Body: component.PhysicsBody{Radius: 10, Mass: 1}})
	if err != nil {
		t.Fatalf("SpawnBall: %v", err)
	}
	return e
}

func TestSpawnBallRegisters(t *testing.T) {
	w := ecs.NewWorld()
	m := newManager(t, w)

	e := spawnAt(t, w, m, combat.KindFour, 100, 120)
	if kind, ok := m.KindOf(e); !ok || kind != combat.KindFour {
		t.Fatalf("expected four, got %v %v", kind, ok)
	}
	if hp, _ := m.CurrentHP(e); hp != m.Config().StartingHP {
		t.Fatalf("expected starting hp, got %v", hp)
	}
	if x, y, ok := m.Position(e); !ok || x != 100 || y != 120 {
		t.Fatalf("expected transform position, got %v,%v,%v", x, y, ok)
	}

	if _, err := SpawnBall(w, m, BallSpawn{Kind: combat.Kind(200)}); err == nil {
		t.Fatalf("expected invalid kind rejected")
	}
	if got := w.Count(); got != 1 {
		t.Fatalf("expected failed spawn cleaned up, %d entities", got)
	}
}

func TestRespawnSystem(t *testing.T) {
	w := ecs.NewWorld()
	m := newManager(t, w)
	blocked := true
	var spawned []ecs.Entity

	rs := NewRespawnSystem(m, BallSpawn{Kind: combat.KindCue, X: 200, Y: 200, Body: component.PhysicsBody{Radius: 10, Mass: 1}})
	rs.Blocked = func() bool { return blocked }
	rs.OnSpawn = func(e ecs.Entity) { spawned = append(spawned, e) }

	near := spawnAt(t, w, m, combat.KindOne, 210, 200)
	far := spawnAt(t, w, m, combat.KindOne, 400, 200)

	rs.Update(w)
	if len(spawned) != 0 {
		t.Fatalf("expected no spawn without a request")
	}

	rs.Request()
	rs.Request()
	rs.Update(w)
	if len(spawned) != 0 || !rs.Pending() {
		t.Fatalf("expected request held while blocked")
	}

	blocked = false
	rs.Update(w)
	rs.Update(w)
	if len(spawned) != 1 {
		t.Fatalf("expected exactly one cue, got %d", len(spawned))
	}
	cue := spawned[0]
	if m.PrimaryRemaining() != 1 {
		t.Fatalf("expected one primary, got %d", m.PrimaryRemaining())
	}
	if !m.Gate().Immune(cue, near) {
		t.Fatalf("expected cue immune to the overlapping ball")
	}
	if m.Gate().Immune(cue, far) {
		t.Fatalf("expected no immunity for a distant ball")
	}
}

func TestRespawnSkippedWhenCuePresent(t *testing.T) {
	w := ecs.NewWorld()
	m := newManager(t, w)
	spawnAt(t, w, m, combat.KindCue, 50, 50)

	rs := NewRespawnSystem(m, BallSpawn{Kind: combat.KindCue, X: 200, Y: 200, Body: component.PhysicsBody{Radius: 10}})
	rs.Request()
	rs.Update(w)
	if m.PrimaryRemaining() != 1 || rs.Pending() {
		t.Fatalf("expected request dropped with a cue on the table")
	}
}

func TestSinkSystem(t *testing.T) {
	w := ecs.NewWorld()
	m := newManager(t, w)
	grid := terrain.New(terrain.DefaultLayout(), rand.New(rand.NewPCG(1, 2)))
	pocket := grid.Layout().Pockets[0]

	cue := spawnAt(t, w, m, combat.KindCue, pocket.X+2, pocket.Y+2)
	safe := spawnAt(t, w, m, combat.KindOne, 300, 240)
	hole := spawnAt(t, w, m, combat.KindOne, 500, 240)
	grid.DestroyInRadius(500, 240, 20)

	NewSinkSystem(m, grid).Update(w)

	if m.IsAlive(cue) || m.IsAlive(hole) {
		t.Fatalf("expected balls over holes sunk")
	}
	if !m.IsAlive(safe) {
		t.Fatalf("expected ball on felt kept")
	}

	var sunk, respawn int
	for _, ev := range w.Events().Drain() {
		switch ev.Type {
		case combat.EventEntityDestroyed:
			if d, ok := ev.Data.(combat.DestroyedEvent); ok && d.Sunk {
				sunk++
			}
		case combat.EventRespawnNeeded:
			respawn++
		}
	}
	if sunk != 2 || respawn != 1 {
		t.Fatalf("expected 2 sunk and 1 respawn, got %d and %d", sunk, respawn)
	}
}

func TestRespawnReset(t *testing.T) {
	w := ecs.NewWorld()
	m := newManager(t, w)
	rs := NewRespawnSystem(m, BallSpawn{Kind: combat.KindCue, X: 200, Y: 200})
	rs.Request()
	rs.Reset(BallSpawn{Kind: combat.KindCue, X: 300, Y: 250})
	rs.Update(w)
	if m.PrimaryRemaining() != 0 {
		t.Fatalf("expected reset to drop the request")
	}

	rs.Request()
	rs.Update(w)
	cue, ok := FirstPrimary(w, m)
	if !ok {
		t.Fatalf("expected a cue after the new request")
	}
	if x, y, _ := m.Position(cue); x != 300 || y != 250 {
		t.Fatalf("expected new spawn spot, got (%v,%v)", x, y)
	}
}
