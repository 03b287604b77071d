package ecs

import (
	"testing"

	"github.com/milk9111/breakshot/ecs/component"
)

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, w.CreateEntity())
			}
			if len(w.Entities()) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(w.Entities()))
			}
			if c.destroyIndex >= 0 {
				if !w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if w.IsAlive(ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if w.DestroyEntity(ents[c.destroyIndex]) {
					t.Fatalf("second DestroyEntity should return false")
				}
				if w.Count() != c.create-1 {
					t.Fatalf("expected count %d, got %d", c.create-1, w.Count())
				}
			}
		})
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	w := NewWorld()
	health := component.NewComponent[component.Health]()

	old := w.CreateEntity()
	if err := Add(w, old, health.Kind(), component.NewHealth(10)); err != nil {
		t.Fatalf("add: %v", err)
	}
	w.DestroyEntity(old)

	reused := w.CreateEntity()
	if reused.id() != old.id() {
		t.Fatalf("expected id reuse, got %v and %v", old, reused)
	}
	if reused == old {
		t.Fatalf("reused handle must carry a new generation")
	}
	if w.IsAlive(old) {
		t.Fatalf("stale handle reported alive")
	}
	if _, ok := Get(w, old, health.Kind()); ok {
		t.Fatalf("stale handle must not reach components")
	}
	if _, ok := Get(w, reused, health.Kind()); ok {
		t.Fatalf("reused entity must start without components")
	}
	if err := Add(w, old, health.Kind(), component.NewHealth(1)); err != component.ErrEntityNotAlive {
		t.Fatalf("expected ErrEntityNotAlive, got %v", err)
	}
}

func TestComponentsAndQueries(t *testing.T) {
	w := NewWorld()

	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	e3 := w.CreateEntity()

	one, two, a, b := 1, 2, "a", "b"
	tests := []struct {
		name  string
		setup func() error
		check func(t *testing.T)
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, ints.Kind(), &one) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, ints.Kind())
				if !ok || *v != 1 {
					t.Fatalf("expected 1, got %v ok=%v", v, ok)
				}
			},
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, strs.Kind(), &a); err != nil {
					return err
				}
				return Add(w, e2, strs.Kind(), &b)
			},
			check: func(t *testing.T) {
				got := w.Query(ints.Kind(), strs.Kind())
				if len(got) != 1 || got[0] != e1 {
					t.Fatalf("expected only e1 in query, got %v", got)
				}
			},
		},
		{
			name:  "add_int_to_e3_and_foreach",
			setup: func() error { return Add(w, e3, ints.Kind(), &two) },
			check: func(t *testing.T) {
				sum := 0
				ForEach(w, ints.Kind(), func(_ Entity, v *int) { sum += *v })
				if sum != 3 {
					t.Fatalf("expected sum 3, got %d", sum)
				}
			},
		},
		{
			name: "destroy_during_foreach",
			setup: func() error {
				ForEach(w, ints.Kind(), func(e Entity, _ *int) {
					w.DestroyEntity(e1)
					w.DestroyEntity(e3)
				})
				return nil
			},
			check: func(t *testing.T) {
				if got := w.Query(ints.Kind()); len(got) != 0 {
					t.Fatalf("expected no int holders, got %v", got)
				}
				if _, ok := w.First(strs.Kind()); !ok {
					t.Fatalf("e2 should still carry a string")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
		})
	}
}

func TestEventQueueDrain(t *testing.T) {
	w := NewWorld()
	q := w.Events()
	q.Push(Event{Type: "a"})
	q.Push(Event{Type: "b"})
	if q.Len() != 2 {
		t.Fatalf("expected 2 events, got %d", q.Len())
	}
	got := q.Drain()
	if len(got) != 2 || got[0].Type != "a" || got[1].Type != "b" {
		t.Fatalf("unexpected drain order: %+v", got)
	}
	if q.Drain() != nil {
		t.Fatalf("queue should be empty after drain")
	}
}
