package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/breakshot/ecs"
	"github.com/milk9111/breakshot/ecs/component"
)

func addBall(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y}); err != nil {
		t.Fatalf("add transform: %v", err)
	}
	body := &component.PhysicsBody{Radius: 10, Mass: 1, Elasticity: 0.9}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), body); err != nil {
		t.Fatalf("add body: %v", err)
	}
	return e
}

func TestPhysicsReportsContacts(t *testing.T) {
	w := ecs.NewWorld()
	type contact struct {
		a, b    ecs.Entity
		impulse float64
	}
	var contacts []contact
	ps := NewPhysicsSystem(1, func(a, b ecs.Entity, impulse float64) {
		contacts = append(contacts, contact{a, b, impulse})
	})

	a := addBall(t, w, 0, 0)
	b := addBall(t, w, 50, 0)
	ps.Update(w)
	if !ps.Shoot(a, 300, 0) {
		t.Fatalf("expected shot accepted")
	}

	for i := 0; i < 60 && len(contacts) == 0; i++ {
		ps.Update(w)
	}
	if len(contacts) == 0 {
		t.Fatalf("expected a ball contact")
	}
	c := contacts[0]
	if !((c.a == a && c.b == b) || (c.a == b && c.b == a)) || c.impulse <= 0 {
		t.Fatalf("unexpected contact %+v", c)
	}

	for i := 0; i < 10; i++ {
		ps.Update(w)
	}
	tr, _ := ecs.Get(w, b, component.TransformComponent.Kind())
	if tr.X <= 50 {
		t.Fatalf("expected b pushed along x, got %v", tr.X)
	}
}

func TestPhysicsDefersMutationsDuringStep(t *testing.T) {
	w := ecs.NewWorld()
	var ps *PhysicsSystem
	var a, b ecs.Entity
	ps = NewPhysicsSystem(1, func(x, y ecs.Entity, _ float64) {
		ps.Freeze(a)
		ps.Release(b)
	})

	a = addBall(t, w, 0, 0)
	b = addBall(t, w, 25, 0)
	ps.Update(w)
	ps.Shoot(a, 300, 0)
	for i := 0; i < 30 && ps.Len() == 2; i++ {
		ps.Update(w)
	}

	if ps.Len() != 1 {
		t.Fatalf("expected b released after the step, len=%d", ps.Len())
	}
	if _, _, ok := ps.Position(b); ok {
		t.Fatalf("released ball still has a position")
	}
	if ps.Shoot(a, 100, 0) {
		t.Fatalf("frozen ball must ignore shots")
	}
	if vx, vy, _ := ps.Velocity(a); vx != 0 || vy != 0 {
		t.Fatalf("frozen ball still moving: %v,%v", vx, vy)
	}
}

func TestPhysicsDropsBodiesOfDestroyedEntities(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(1, nil)
	e := addBall(t, w, 100, 100)
	ps.Update(w)
	body, _ := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if body.Body == nil || body.Body.GetType() != cp.BODY_DYNAMIC {
		t.Fatalf("expected dynamic body created")
	}

	w.DestroyEntity(e)
	ps.Update(w)
	if ps.Len() != 0 {
		t.Fatalf("expected body removed with its entity")
	}
}

func TestCushionsKeepBallsOnTable(t *testing.T) {
	w := ecs.NewWorld()
	ps := NewPhysicsSystem(1, nil)
	ps.AddCushions(0, 0, 200, 100, 4, 1, 0)
	e := addBall(t, w, 100, 50)
	ps.Update(w)
	ps.Shoot(e, 600, 0)
	for i := 0; i < 120; i++ {
		ps.Update(w)
	}
	x, _, _ := ps.Position(e)
	if x < 0 || x > 200 {
		t.Fatalf("ball escaped the cushions: x=%v", x)
	}
}
