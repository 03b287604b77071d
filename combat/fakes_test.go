package combat

import (
	"fmt"
	"testing"
	"time"

	"github.com/milk9111/breakshot/ecs"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1000, 0)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// trace is shared by the fakes so tests can assert cross-collaborator order.
type trace []string

func (tr *trace) add(format string, args ...any) {
	*tr = append(*tr, fmt.Sprintf(format, args...))
}

func (tr trace) index(entry string) int {
	for i, s := range tr {
		if s == entry {
			return i
		}
	}
	return -1
}

func (tr trace) count(entry string) int {
	n := 0
	for _, s := range tr {
		if s == entry {
			n++
		}
	}
	return n
}

type fakePhysics struct {
	log      *trace
	pos      map[ecs.Entity][2]float64
	frozen   map[ecs.Entity]bool
	stopped  map[ecs.Entity]int
	released map[ecs.Entity]bool
}

func newFakePhysics(log *trace) *fakePhysics {
	return &fakePhysics{
		log:      log,
		pos:      make(map[ecs.Entity][2]float64),
		frozen:   make(map[ecs.Entity]bool),
		stopped:  make(map[ecs.Entity]int),
		released: make(map[ecs.Entity]bool),
	}
}

func (p *fakePhysics) Position(e ecs.Entity) (float64, float64, bool) {
	v, ok := p.pos[e]
	return v[0], v[1], ok
}

func (p *fakePhysics) Stop(e ecs.Entity) {
	p.stopped[e]++
}

func (p *fakePhysics) Freeze(e ecs.Entity) {
	p.frozen[e] = true
	p.log.add("freeze:%v", e)
}

func (p *fakePhysics) Release(e ecs.Entity) {
	p.released[e] = true
	delete(p.pos, e)
}

type fakeTerrain struct {
	log *trace
}

func (t *fakeTerrain) SwitchToCellMode(x, y, radius float64) {
	t.log.add("cells:%.0f,%.0f", x, y)
}

func (t *fakeTerrain) DestroyRagged(x, y, radius float64) int {
	t.log.add("ragged:%.0f,%.0f,%.0f", x, y, radius)
	return 1
}

type recorder struct {
	log       *trace
	destroyed []DestroyedEvent
	cleared   int
	respawns  int
}

func (r *recorder) EntityDestroyed(ev DestroyedEvent) {
	r.destroyed = append(r.destroyed, ev)
	r.log.add("destroyed:%v", ev.Entity)
}

func (r *recorder) ObjectiveCleared() {
	r.cleared++
	r.log.add("objective")
}

func (r *recorder) RespawnNeeded() {
	r.respawns++
	r.log.add("respawn")
}

type harness struct {
	m       *Manager
	clock   *fakeClock
	physics *fakePhysics
	terrain *fakeTerrain
	rec     *recorder
	log     *trace
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	h := &harness{clock: newFakeClock(), log: &trace{}}
	h.physics = newFakePhysics(h.log)
	h.terrain = &fakeTerrain{log: h.log}
	h.rec = &recorder{log: h.log}
	m, err := NewManager(ecs.NewWorld(), Options{
		Config:   cfg,
		Clock:    h.clock.now,
		Physics:  h.physics,
		Terrain:  h.terrain,
		Listener: h.rec,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	h.m = m
	return h
}

func (h *harness) spawn(t *testing.T, kind Kind, x, y float64) ecs.Entity {
	t.Helper()
	e := h.m.World().CreateEntity()
	if err := h.m.Register(e, kind); err != nil {
		t.Fatalf("register %s: %v", kind, err)
	}
	h.physics.pos[e] = [2]float64{x, y}
	return e
}

func (h *harness) hp(t *testing.T, e ecs.Entity) float64 {
	t.Helper()
	v, ok := h.m.CurrentHP(e)
	if !ok {
		t.Fatalf("no health record for %v", e)
	}
	return v
}
