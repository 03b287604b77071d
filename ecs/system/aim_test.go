package system

import (
	"math"
	"testing"

	"github.com/milk9111/breakshot/combat"
	"github.com/milk9111/breakshot/ecs"
)

func TestShotVelocity(t *testing.T) {
	tests := []struct {
		name           string
		px, py         float64
		wantVX, wantVY float64
	}{
		{name: "pull left shoots right", px: 90, py: 100, wantVX: 60},
		{name: "pull down shoots up", px: 100, py: 110, wantVY: -60},
		{name: "capped", px: 0, py: 100, wantVX: 500},
		{name: "no pull", px: 100, py: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vx, vy := ShotVelocity(100, 100, tt.px, tt.py, 6, 500)
			if math.Abs(vx-tt.wantVX) > 1e-9 || math.Abs(vy-tt.wantVY) > 1e-9 {
				t.Fatalf("expected (%v,%v), got (%v,%v)", tt.wantVX, tt.wantVY, vx, vy)
			}
		})
	}
}

func TestAimDragShoots(t *testing.T) {
	w := ecs.NewWorld()
	m := newManager(t, w)
	ps := NewPhysicsSystem(1, nil)
	cue := spawnAt(t, w, m, combat.KindCue, 100, 100)
	ps.Update(w)

	mx, my, down := 0, 0, false
	aim := NewAimSystem(m, ps)
	aim.cursor = func() (int, int) { return mx, my }
	aim.pressed = func() bool { return down }

	mx, my, down = 300, 300, true
	aim.Update(w)
	if _, _, _, _, ok := aim.Line(); ok {
		t.Fatalf("expected a press away from the cue ignored")
	}

	down = false
	aim.Update(w)
	mx, my, down = 102, 100, true
	aim.Update(w)
	mx, my = 70, 100
	aim.Update(w)
	x0, _, x1, _, ok := aim.Line()
	if !ok || x0 != 100 || x1 != 70 {
		t.Fatalf("expected drag line from cue to cursor, got %v %v %v", x0, x1, ok)
	}

	down = false
	aim.Update(w)
	if _, _, _, _, ok := aim.Line(); ok {
		t.Fatalf("expected drag finished on release")
	}
	vx, vy, _ := ps.Velocity(cue)
	if math.Abs(vx-180) > 1e-6 || math.Abs(vy) > 1e-6 {
		t.Fatalf("expected shot along +x at 180, got (%v,%v)", vx, vy)
	}
}

func TestAimDisabled(t *testing.T) {
	w := ecs.NewWorld()
	m := newManager(t, w)
	ps := NewPhysicsSystem(1, nil)
	spawnAt(t, w, m, combat.KindCue, 100, 100)
	ps.Update(w)

	aim := NewAimSystem(m, ps)
	aim.cursor = func() (int, int) { return 100, 100 }
	aim.pressed = func() bool { return true }
	aim.Disabled = func() bool { return true }
	aim.Update(w)
	if _, _, _, _, ok := aim.Line(); ok {
		t.Fatalf("expected no aiming while disabled")
	}
}
